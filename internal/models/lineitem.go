package models

import "github.com/google/uuid"

// LineItem is one parts/consumable or lubricant line on a job card.
// TotalCost is always derived from Qty and UnitPrice, never edited directly.
type LineItem struct {
	ID          string  `bson:"id" json:"id"`
	Description string  `bson:"description" json:"description"`
	PartNumber  string  `bson:"part_number" json:"part_number"`
	Supplier    string  `bson:"supplier" json:"supplier"`
	Qty         float64 `bson:"qty" json:"qty"`
	UnitPrice   float64 `bson:"unit_price" json:"unit_price"`
	TotalCost   float64 `bson:"total_cost" json:"total_cost"`
}

// NewLineItem creates an empty line item with a fresh id. Line items live
// inside the job card document, so the store never assigns them ids.
func NewLineItem() LineItem {
	return LineItem{ID: uuid.NewString()}
}

// AssignLineItemIDs fills in ids for line items that arrived without one.
// Existing ids are kept so edits keep pointing at the same line.
func AssignLineItemIDs(items []LineItem) {
	for i := range items {
		if items[i].ID == "" {
			items[i].ID = uuid.NewString()
		}
	}
}
