package query

import "github.com/garagedesk/jobcard-service/internal/models"

// DefaultPageSize matches the row count of the job card tables.
const DefaultPageSize = 10

// State carries one view's query parameters across interactions and owns
// the page-reset rule: changing the search term, scope, any filter, the
// sort or the page size snaps the view back to page 1, while moving
// between pages does not re-filter or re-sort anything.
type State struct {
	params Params
}

// NewState returns a view state with no search, no filters and store-order
// listing, the default for the active jobs table and the portal queues.
func NewState() *State {
	return &State{params: Params{
		SearchScope: ScopeAll,
		Page:        Page{Number: 1, Size: DefaultPageSize},
	}}
}

// NewArchivedState returns the archived/database view state, which defaults
// to newest-first ordering on the creation timestamp.
func NewArchivedState() *State {
	s := NewState()
	s.params.Sort = &Sort{Key: FieldCreatedAt, Direction: Desc}
	return s
}

// Params returns a copy of the current parameters.
func (s *State) Params() Params {
	return s.params
}

func (s *State) resetPage() {
	s.params.Page.Number = 1
}

// SetSearchTerm updates the search term and resets to page 1.
func (s *State) SetSearchTerm(term string) {
	s.params.SearchTerm = term
	s.resetPage()
}

// SetSearchScope updates the search scope and resets to page 1.
func (s *State) SetSearchScope(scope Scope) {
	s.params.SearchScope = scope
	s.resetPage()
}

// SetFilters replaces the filter set and resets to page 1.
func (s *State) SetFilters(f Filters) {
	s.params.Filters = f
	s.resetPage()
}

// SetSort replaces the sort and resets to page 1. A nil sort restores
// store order.
func (s *State) SetSort(sort *Sort) {
	s.params.Sort = sort
	s.resetPage()
}

// SetPageSize changes the window size and resets to page 1.
func (s *State) SetPageSize(size int) {
	s.params.Page.Size = size
	s.resetPage()
}

// SetPageNumber moves to another page without touching anything else.
func (s *State) SetPageNumber(number int) {
	if number < 1 {
		number = 1
	}
	s.params.Page.Number = number
}

// Run executes the view's current query over the snapshot.
func (s *State) Run(snapshot []models.JobCard) Result {
	return Run(snapshot, s.params)
}
