package tracker

import (
	"context"
	"errors"
	"testing"

	"iodine-tracker/internal/models"
)

type fakeCatalog struct {
	foods map[int64]models.FoodRecord
	calls int
	err   error
}

func newFakeCatalog(foods ...models.FoodRecord) *fakeCatalog {
	c := &fakeCatalog{foods: make(map[int64]models.FoodRecord)}
	for _, food := range foods {
		c.foods[food.ID] = food
	}
	return c
}

func (c *fakeCatalog) ByIDs(_ context.Context, ids []int64) ([]models.FoodRecord, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	var out []models.FoodRecord
	for _, id := range ids {
		if food, ok := c.foods[id]; ok {
			out = append(out, food)
		}
	}
	return out, nil
}

func food(id int64, description string, iodine float64) models.FoodRecord {
	return models.FoodRecord{ID: id, Description: description, Category: "Test", IodineMcg: iodine}
}

func TestSummarize(t *testing.T) {
	catalog := newFakeCatalog(food(1, "Milk", 56), food(2, "Egg", 26))
	tr := models.Tracker{
		Entries: []models.TrackerEntry{{FoodID: 2, Quantity: 1}, {FoodID: 1, Quantity: 2}},
		Date:    day1,
	}

	summary, err := Summarize(context.Background(), tr, catalog)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if catalog.calls != 1 {
		t.Fatalf("expected one batched lookup, got %d", catalog.calls)
	}
	if summary.Count != 2 || summary.Date != day1 {
		t.Fatalf("unexpected summary header: %+v", summary)
	}
	if summary.Items[0].Food.Description != "Egg" || summary.Items[1].Food.Description != "Milk" {
		t.Fatalf("items should follow tracker order, got %+v", summary.Items)
	}
	if summary.Items[1].ItemTotal != 112 {
		t.Fatalf("milk total = %v, want 112", summary.Items[1].ItemTotal)
	}
	if summary.TotalIodine != 138 {
		t.Fatalf("total = %v, want 138", summary.TotalIodine)
	}
}

func TestSummarizeDropsUnknownFoods(t *testing.T) {
	catalog := newFakeCatalog(food(1, "Milk", 56))
	tr := models.Tracker{
		Entries: []models.TrackerEntry{{FoodID: 404, Quantity: 3}, {FoodID: 1, Quantity: 1}},
		Date:    day1,
	}

	summary, err := Summarize(context.Background(), tr, catalog)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if summary.Count != 1 || summary.TotalIodine != 56 {
		t.Fatalf("expected only milk, got %+v", summary)
	}
}

func TestSummarizeRoundsTotalOnce(t *testing.T) {
	// Each item is 0.333 * 1 = 0.333, displayed as 0.33. Three of them sum to
	// 0.999 unrounded, which rounds to 1.00 rather than 0.99.
	catalog := newFakeCatalog(food(1, "A", 0.333), food(2, "B", 0.333), food(3, "C", 0.333))
	tr := models.Tracker{
		Entries: []models.TrackerEntry{{FoodID: 1, Quantity: 1}, {FoodID: 2, Quantity: 1}, {FoodID: 3, Quantity: 1}},
		Date:    day1,
	}

	summary, err := Summarize(context.Background(), tr, catalog)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	for _, item := range summary.Items {
		if item.ItemTotal != 0.33 {
			t.Fatalf("item total = %v, want 0.33", item.ItemTotal)
		}
	}
	if summary.TotalIodine != 1 {
		t.Fatalf("total = %v, want 1", summary.TotalIodine)
	}
}

func TestSummarizeEmptySkipsLookup(t *testing.T) {
	catalog := newFakeCatalog()
	summary, err := Summarize(context.Background(), models.Tracker{Date: day1}, catalog)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if catalog.calls != 0 {
		t.Fatalf("expected no lookup for an empty tracker")
	}
	if summary.Count != 0 || summary.Items == nil {
		t.Fatalf("expected empty non-nil items, got %+v", summary)
	}
}

func TestSummarizePropagatesLookupError(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.err = models.ErrStorageUnavailable
	tr := models.Tracker{Entries: []models.TrackerEntry{{FoodID: 1, Quantity: 1}}, Date: day1}

	if _, err := Summarize(context.Background(), tr, catalog); !errors.Is(err, models.ErrStorageUnavailable) {
		t.Fatalf("expected storage unavailable, got %v", err)
	}
}
