// Package query implements the in-memory query engine shared by the active
// jobs table, the archived jobs table and the two portal queues: search,
// multi-criterion filtering, stable sorting and page windowing over a
// snapshot of job cards.
//
// Every call is a pure function over the snapshot it is given. Identical
// inputs always produce identical output, so several views can run the
// engine concurrently over the same snapshot with different parameters.
package query

import (
	"sort"
	"strings"

	"github.com/garagedesk/jobcard-service/internal/models"
)

// Scope selects which fields a search term is matched against. ScopeAll
// ORs the match across the text-field allow-list; any other value names a
// single field.
type Scope string

const ScopeAll Scope = "all"

// Field names accepted as search scopes and sort keys.
const (
	FieldJobNumber      = "job_number"
	FieldID             = "id"
	FieldCustomerName   = "customer_name"
	FieldCompanyName    = "company_name"
	FieldRego           = "rego"
	FieldMobile         = "mobile"
	FieldInvoiceNumber  = "invoice_number"
	FieldCreatedAt      = "created_at"
	FieldVehicleType    = "vehicle_type"
	FieldVehicleMake    = "vehicle_make"
	FieldVehicleModel   = "vehicle_model"
	FieldAssignedWorker = "assigned_worker"
	FieldAssignedParts  = "assigned_parts"
	FieldPaymentStatus  = "payment_status"
)

// searchFields is the allow-list matched when the scope is ScopeAll.
var searchFields = []string{
	FieldJobNumber,
	FieldID,
	FieldCustomerName,
	FieldCompanyName,
	FieldRego,
	FieldMobile,
	FieldInvoiceNumber,
}

// Direction orders a sort ascending or descending.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Sort names the key and direction of an explicit sort request.
type Sort struct {
	Key       string    `json:"key"`
	Direction Direction `json:"direction"`
}

// Page windows the filtered and sorted result. Number is 1-based. A Size
// of zero or less disables windowing and returns every match.
type Page struct {
	Number int `json:"number"`
	Size   int `json:"size"`
}

// Filters holds the independently toggleable predicates. Zero values switch
// a predicate off; active predicates are ANDed together and with the search.
type Filters struct {
	// CreatedYear/CreatedMonth filter on the record's creation timestamp.
	// Month is only consulted when the year is set.
	CreatedYear  int `json:"created_year"`
	CreatedMonth int `json:"created_month"`

	// ManufactureYear/ManufactureMonth filter on the vehicle's manufacture
	// date, a separate axis from the creation timestamp.
	ManufactureYear  int `json:"manufacture_year"`
	ManufactureMonth int `json:"manufacture_month"`

	CustomerName  string               `json:"customer_name"` // substring, case-insensitive
	CompanyName   string               `json:"company_name"`  // substring, case-insensitive
	PaymentStatus models.PaymentStatus `json:"payment_status"`

	WorkerComplete *bool `json:"worker_complete"`
	PartsComplete  *bool `json:"parts_complete"`
}

// Params bundles every input to one engine run.
type Params struct {
	SearchTerm  string
	SearchScope Scope
	Filters     Filters
	Sort        *Sort // nil keeps store order
	Page        Page
}

// Result is one page of matches plus the total match count before paging.
type Result struct {
	Items        []models.JobCard `json:"items"`
	TotalMatched int              `json:"total_matched"`
}

// fieldString returns the comparable string form of a job card field.
// Missing and unknown fields read as the empty string.
func fieldString(job *models.JobCard, field string) string {
	switch field {
	case FieldJobNumber:
		return job.JobNumber
	case FieldID:
		return job.ID.Hex()
	case FieldCustomerName:
		return job.CustomerName
	case FieldCompanyName:
		return job.CompanyName
	case FieldRego:
		return job.Rego
	case FieldMobile:
		return job.Mobile
	case FieldInvoiceNumber:
		return job.InvoiceNumber
	case FieldVehicleType:
		return strings.Join(job.VehicleType, ",")
	case FieldVehicleMake:
		return job.VehicleMake
	case FieldVehicleModel:
		return job.VehicleModel
	case FieldAssignedWorker:
		return job.AssignedWorker
	case FieldAssignedParts:
		return job.AssignedParts
	case FieldPaymentStatus:
		return string(job.PaymentStatus)
	default:
		return ""
	}
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// matchesSearch applies the search term under the given scope. An empty or
// whitespace-only term matches everything.
func matchesSearch(job *models.JobCard, term string, scope Scope) bool {
	term = strings.TrimSpace(term)
	if term == "" {
		return true
	}
	if scope == ScopeAll || scope == "" {
		for _, field := range searchFields {
			if containsFold(fieldString(job, field), term) {
				return true
			}
		}
		return false
	}
	return containsFold(fieldString(job, string(scope)), term)
}

// matchesFilters applies every active filter; all must hold.
func matchesFilters(job *models.JobCard, f Filters) bool {
	if f.CreatedYear != 0 {
		if job.CreatedAt.Year() != f.CreatedYear {
			return false
		}
		if f.CreatedMonth != 0 && int(job.CreatedAt.Month()) != f.CreatedMonth {
			return false
		}
	}
	if f.ManufactureYear != 0 {
		if job.VehicleManufactureYear != f.ManufactureYear {
			return false
		}
		if f.ManufactureMonth != 0 && job.VehicleManufactureMonth != f.ManufactureMonth {
			return false
		}
	}
	if f.CustomerName != "" && !containsFold(job.CustomerName, f.CustomerName) {
		return false
	}
	if f.CompanyName != "" && !containsFold(job.CompanyName, f.CompanyName) {
		return false
	}
	if f.PaymentStatus != "" && job.PaymentStatus != f.PaymentStatus {
		return false
	}
	if f.WorkerComplete != nil && job.IsWorkerAssignedComplete != *f.WorkerComplete {
		return false
	}
	if f.PartsComplete != nil && job.IsPartsAssignedComplete != *f.PartsComplete {
		return false
	}
	return true
}

// less compares two job cards on the sort key, type-aware: date keys
// compare as instants, the vehicle-type list compares as its comma-joined
// form, everything else compares case-insensitively on the string form.
func less(a, b *models.JobCard, key string) bool {
	if key == FieldCreatedAt {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	av := strings.ToLower(fieldString(a, key))
	bv := strings.ToLower(fieldString(b, key))
	return av < bv
}

// window slices one page out of the matches. Out-of-range page numbers
// yield an empty page, never an error.
func window(matched []models.JobCard, page Page) []models.JobCard {
	if page.Size <= 0 {
		return matched
	}
	number := page.Number
	if number < 1 {
		number = 1
	}
	start := (number - 1) * page.Size
	if start >= len(matched) {
		return []models.JobCard{}
	}
	end := start + page.Size
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end]
}

// Run executes one query over the snapshot: search, filter, sort, page.
// The snapshot is never mutated; sorting happens on a copy, and the sort is
// stable so equal keys keep their store order.
func Run(snapshot []models.JobCard, p Params) Result {
	matched := make([]models.JobCard, 0, len(snapshot))
	for i := range snapshot {
		job := &snapshot[i]
		if matchesSearch(job, p.SearchTerm, p.SearchScope) && matchesFilters(job, p.Filters) {
			matched = append(matched, snapshot[i])
		}
	}

	if p.Sort != nil && p.Sort.Key != "" {
		key := p.Sort.Key
		desc := p.Sort.Direction == Desc
		sort.SliceStable(matched, func(i, j int) bool {
			if desc {
				return less(&matched[j], &matched[i], key)
			}
			return less(&matched[i], &matched[j], key)
		})
	}

	return Result{
		Items:        window(matched, p.Page),
		TotalMatched: len(matched),
	}
}
