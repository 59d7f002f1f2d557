package server

import (
	"context"
	"encoding/json"
	"fmt"

	"iodine-tracker/internal/models"
	"iodine-tracker/internal/tracker"
)

type SearchFoodsParams struct {
	Query string `json:"query" description:"Text to look for in food descriptions"`
}

type FoodsByCategoryParams struct {
	Category string `json:"category" description:"Exact category name"`
}

type FoodsByIDsParams struct {
	IDs []interface{} `json:"ids" description:"Catalog ids to look up"`
}

type TrackerDateParams struct {
	LocalDate string `json:"local_date,omitempty" description:"Caller's calendar date (YYYY-MM-DD); defaults to the server date"`
}

type TrackerItemParams struct {
	FoodID    interface{} `json:"food_id" description:"Catalog id of the food"`
	LocalDate string      `json:"local_date" description:"Caller's calendar date (YYYY-MM-DD)"`
}

type TrackerUpdateParams struct {
	FoodID    interface{} `json:"food_id" description:"Catalog id of the food"`
	Quantity  interface{} `json:"quantity" description:"Servings eaten; zero or less removes the food"`
	LocalDate string      `json:"local_date" description:"Caller's calendar date (YYYY-MM-DD)"`
}

// toolHandler runs one tool for a session and returns the JSON payload.
type toolHandler func(ctx context.Context, sessionID string, args map[string]interface{}) (interface{}, error)

func (s *TrackerServer) toolTable() map[string]toolHandler {
	return map[string]toolHandler{
		"list_categories":   s.handleListCategories,
		"search_foods":      s.handleSearchFoods,
		"foods_by_category": s.handleFoodsByCategory,
		"foods_by_ids":      s.handleFoodsByIDs,
		"tracker_get":       s.handleTrackerGet,
		"tracker_add":       s.handleTrackerAdd,
		"tracker_update":    s.handleTrackerUpdate,
		"tracker_remove":    s.handleTrackerRemove,
		"tracker_clear":     s.handleTrackerClear,
	}
}

// extractParams converts the argument map into a typed params struct.
func extractParams(args map[string]interface{}, target interface{}) error {
	if args == nil {
		args = map[string]interface{}{}
	}
	jsonBytes, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal arguments: %v", models.ErrInvalidInput, err)
	}
	if err := json.Unmarshal(jsonBytes, target); err != nil {
		return fmt.Errorf("%w: failed to unmarshal parameters: %v", models.ErrInvalidInput, err)
	}
	return nil
}

func (s *TrackerServer) handleListCategories(ctx context.Context, _ string, _ map[string]interface{}) (interface{}, error) {
	return s.catalog.ListCategories(ctx)
}

func (s *TrackerServer) handleSearchFoods(ctx context.Context, _ string, args map[string]interface{}) (interface{}, error) {
	var params SearchFoodsParams
	if err := extractParams(args, &params); err != nil {
		return nil, err
	}
	return s.catalog.Search(ctx, params.Query)
}

func (s *TrackerServer) handleFoodsByCategory(ctx context.Context, _ string, args map[string]interface{}) (interface{}, error) {
	var params FoodsByCategoryParams
	if err := extractParams(args, &params); err != nil {
		return nil, err
	}
	return s.catalog.ByCategory(ctx, params.Category)
}

func (s *TrackerServer) handleFoodsByIDs(ctx context.Context, _ string, args map[string]interface{}) (interface{}, error) {
	var params FoodsByIDsParams
	if err := extractParams(args, &params); err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(params.IDs))
	seen := make(map[int64]bool, len(params.IDs))
	for _, raw := range params.IDs {
		id, err := tracker.ParseFoodID(raw)
		if err != nil {
			return nil, err
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return s.catalog.ByIDs(ctx, ids)
}

func (s *TrackerServer) handleTrackerGet(ctx context.Context, sessionID string, args map[string]interface{}) (interface{}, error) {
	var params TrackerDateParams
	if err := extractParams(args, &params); err != nil {
		return nil, err
	}
	return s.tracker.Get(ctx, sessionID, params.LocalDate)
}

func (s *TrackerServer) handleTrackerAdd(ctx context.Context, sessionID string, args map[string]interface{}) (interface{}, error) {
	var params TrackerItemParams
	if err := extractParams(args, &params); err != nil {
		return nil, err
	}
	foodID, err := tracker.ParseFoodID(params.FoodID)
	if err != nil {
		return nil, err
	}
	return s.tracker.Add(ctx, sessionID, foodID, params.LocalDate)
}

func (s *TrackerServer) handleTrackerUpdate(ctx context.Context, sessionID string, args map[string]interface{}) (interface{}, error) {
	var params TrackerUpdateParams
	if err := extractParams(args, &params); err != nil {
		return nil, err
	}
	foodID, err := tracker.ParseFoodID(params.FoodID)
	if err != nil {
		return nil, err
	}
	quantity, err := tracker.ParseQuantity(params.Quantity)
	if err != nil {
		return nil, err
	}
	return s.tracker.Update(ctx, sessionID, foodID, quantity, params.LocalDate)
}

func (s *TrackerServer) handleTrackerRemove(ctx context.Context, sessionID string, args map[string]interface{}) (interface{}, error) {
	var params TrackerItemParams
	if err := extractParams(args, &params); err != nil {
		return nil, err
	}
	foodID, err := tracker.ParseFoodID(params.FoodID)
	if err != nil {
		return nil, err
	}
	return s.tracker.Remove(ctx, sessionID, foodID, params.LocalDate)
}

func (s *TrackerServer) handleTrackerClear(ctx context.Context, sessionID string, args map[string]interface{}) (interface{}, error) {
	var params TrackerDateParams
	if err := extractParams(args, &params); err != nil {
		return nil, err
	}
	return s.tracker.Clear(ctx, sessionID, params.LocalDate)
}
