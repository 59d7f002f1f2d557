package models

// MaxTrackerItems caps the number of distinct foods tracked per day.
const MaxTrackerItems = 60

// TrackerEntry is the number of servings of one food consumed today.
type TrackerEntry struct {
	FoodID   int64   `json:"food_id"`
	Quantity float64 `json:"quantity"`
}

// Tracker is one session's tally for a single calendar day. Entries keep
// insertion order and never hold a non-positive quantity.
type Tracker struct {
	Entries []TrackerEntry `json:"entries"`
	Date    string         `json:"tracker_date"`
}

// Index returns the position of foodID in Entries, or -1.
func (t Tracker) Index(foodID int64) int {
	for i, entry := range t.Entries {
		if entry.FoodID == foodID {
			return i
		}
	}
	return -1
}

// Clone returns a copy that shares no entry storage with t.
func (t Tracker) Clone() Tracker {
	entries := make([]TrackerEntry, len(t.Entries))
	copy(entries, t.Entries)
	return Tracker{Entries: entries, Date: t.Date}
}

// SummaryItem is one resolved tracker entry.
type SummaryItem struct {
	Food      FoodRecord `json:"food"`
	Quantity  float64    `json:"quantity"`
	ItemTotal float64    `json:"item_total"`
}

// TrackerSummary is the computed view of a tracker.
type TrackerSummary struct {
	Items       []SummaryItem `json:"items"`
	TotalIodine float64       `json:"total_iodine"`
	Count       int           `json:"count"`
	Date        string        `json:"date"`
}
