// Package costing computes the derived money fields on a job card.
//
// Total A (labor) is entered manually; Total B (parts and consumables) and
// Total C (lubricants) are always derived from their line items and never
// stored as authoritative values. Every read recomputes from the inputs.
package costing

import (
	"math"

	"github.com/garagedesk/jobcard-service/internal/models"
)

// Totals holds the derived money fields for one job card.
type Totals struct {
	TotalParts      float64 `json:"total_parts"`      // Total B
	TotalLubricants float64 `json:"total_lubricants"` // Total C
	GrandTotal      float64 `json:"grand_total"`
}

// sanitize clamps NaN and infinities to 0 so a malformed line item can never
// push a non-finite value into a persisted total.
func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// LineTotal computes one line's total cost from quantity and unit price.
// It always succeeds; non-finite inputs count as 0.
func LineTotal(qty, unitPrice float64) float64 {
	return sanitize(sanitize(qty) * sanitize(unitPrice))
}

// Sum aggregates line totals over a collection. An empty or nil collection
// sums to 0. Each line's total is recomputed from qty and unit price rather
// than trusting the stored TotalCost.
func Sum(lines []models.LineItem) float64 {
	var total float64
	for _, line := range lines {
		total += LineTotal(line.Qty, line.UnitPrice)
	}
	return total
}

// GrandTotal combines the labor subtotal with the two derived subtotals.
func GrandTotal(totalLabor, totalParts, totalLubricants float64) float64 {
	return sanitize(totalLabor) + sanitize(totalParts) + sanitize(totalLubricants)
}

// Compute derives all money fields for a job card from its line items.
func Compute(job *models.JobCard) Totals {
	b := Sum(job.PartsAndConsumables)
	c := Sum(job.LubricantsUsed)
	return Totals{
		TotalParts:      b,
		TotalLubricants: c,
		GrandTotal:      GrandTotal(job.TotalLabor, b, c),
	}
}

// Apply recomputes every derived cost on the job card in place: each line's
// TotalCost and the two category subtotals. Called on every write so stale
// totals never persist.
func Apply(job *models.JobCard) {
	for i := range job.PartsAndConsumables {
		line := &job.PartsAndConsumables[i]
		line.TotalCost = LineTotal(line.Qty, line.UnitPrice)
	}
	for i := range job.LubricantsUsed {
		line := &job.LubricantsUsed[i]
		line.TotalCost = LineTotal(line.Qty, line.UnitPrice)
	}
	job.TotalLabor = sanitize(job.TotalLabor)
	job.TotalParts = Sum(job.PartsAndConsumables)
	job.TotalLubricants = Sum(job.LubricantsUsed)
}
