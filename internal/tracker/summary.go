package tracker

import (
	"context"
	"math"

	"iodine-tracker/internal/models"
)

// FoodLookup resolves food ids in one batch.
type FoodLookup interface {
	ByIDs(ctx context.Context, ids []int64) ([]models.FoodRecord, error)
}

// Summarize joins t against the catalog. Entries whose food no longer
// exists are left out. Item totals are rounded for display; the grand total
// is summed unrounded and rounded once.
func Summarize(ctx context.Context, t models.Tracker, lookup FoodLookup) (models.TrackerSummary, error) {
	summary := models.TrackerSummary{Items: []models.SummaryItem{}, Date: t.Date}
	if len(t.Entries) == 0 {
		return summary, nil
	}

	ids := make([]int64, len(t.Entries))
	for i, entry := range t.Entries {
		ids[i] = entry.FoodID
	}
	foods, err := lookup.ByIDs(ctx, ids)
	if err != nil {
		return models.TrackerSummary{}, err
	}
	byID := make(map[int64]models.FoodRecord, len(foods))
	for _, food := range foods {
		byID[food.ID] = food
	}

	var total float64
	for _, entry := range t.Entries {
		food, ok := byID[entry.FoodID]
		if !ok {
			continue
		}
		itemTotal := food.IodineMcg * entry.Quantity
		total += itemTotal
		summary.Items = append(summary.Items, models.SummaryItem{
			Food:      food,
			Quantity:  entry.Quantity,
			ItemTotal: round2(itemTotal),
		})
	}
	summary.TotalIodine = round2(total)
	summary.Count = len(summary.Items)
	return summary, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
