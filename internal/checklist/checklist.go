// Package checklist implements the task-checklist rules shared by every
// checklist on a job card: the tri-state status transitions, the sparsity
// rule for free-form checklists, and the mandatory-field validation run
// when a mechanic submits their work.
package checklist

import (
	"strings"

	"github.com/garagedesk/jobcard-service/internal/models"
)

// Mode identifies which editing surface is submitting the job card.
// Mandatory-field validation only runs in mechanic mode.
type Mode string

const (
	ModeMechanic Mode = "mechanic"
	ModeOffice   Mode = "office"
)

// Group names used as keys in a ValidationResult.
const (
	GroupOther              = "other"
	GroupTrailerElectrical  = "trailer.electrical"
	GroupTrailerTiresWheels = "trailer.tires_wheels"
	GroupTrailerBrakes      = "trailer.brake_system"
	GroupTrailerSuspension  = "trailer.suspension"
	GroupTrailerBodyChassis = "trailer.body_chassis"
)

// FieldErrors flags the mandatory fields missing on one checklist entry.
type FieldErrors struct {
	Status      bool `json:"status,omitempty"`
	Description bool `json:"description,omitempty"`
	DoneBy      bool `json:"done_by,omitempty"`
}

// ValidationResult maps group name to entry index to missing-field flags.
// An empty result means the job card passed validation.
type ValidationResult map[string]map[int]FieldErrors

// Valid reports whether the result carries no violations.
func (r ValidationResult) Valid() bool {
	return len(r) == 0
}

func (r ValidationResult) add(group string, index int, errs FieldErrors) {
	if r[group] == nil {
		r[group] = make(map[int]FieldErrors)
	}
	r[group][index] = errs
}

// InProgress reports whether the entry has any user-entered data: a status
// set, a non-blank description or done-by, or hours recorded.
func InProgress(e models.ChecklistEntry) bool {
	return e.Status.IsTerminal() ||
		strings.TrimSpace(e.Description) != "" ||
		strings.TrimSpace(e.DoneBy) != "" ||
		e.Hours > 0
}

// SetStatus returns the entry with the status applied. Status transitions
// are one-way: once a terminal value is set, a request to clear it back to
// unset is ignored, so a mark can never be lost by accident. Moving between
// terminal values is allowed.
func SetStatus(e models.ChecklistEntry, s models.TaskStatus) models.ChecklistEntry {
	if !s.IsTerminal() && e.Status.IsTerminal() {
		return e
	}
	e.Status = s
	return e
}

// MergeStatuses applies the one-way status rule across a whole checklist:
// where an incoming entry tries to clear a status the stored entry already
// holds, the stored status wins. Entries match by task name; incoming
// entries with no stored counterpart pass through unchanged. The result is
// a new slice.
func MergeStatuses(stored, incoming []models.ChecklistEntry) []models.ChecklistEntry {
	byName := make(map[string]models.TaskStatus, len(stored))
	for _, e := range stored {
		byName[e.TaskName] = e.Status
	}
	out := make([]models.ChecklistEntry, 0, len(incoming))
	for _, e := range incoming {
		if prev, ok := byName[e.TaskName]; ok && prev.IsTerminal() && !e.Status.IsTerminal() {
			e.Status = prev
		}
		out = append(out, e)
	}
	return out
}

// Upsert applies the sparsity rule for one free-form checklist entry, keyed
// by task name. An in-progress entry replaces its existing row or is
// appended; an entry with no data is removed. The input slice is never
// mutated.
func Upsert(entries []models.ChecklistEntry, entry models.ChecklistEntry) []models.ChecklistEntry {
	out := make([]models.ChecklistEntry, 0, len(entries)+1)
	replaced := false
	for _, existing := range entries {
		if existing.TaskName == entry.TaskName {
			if InProgress(entry) {
				out = append(out, entry)
				replaced = true
			}
			continue
		}
		out = append(out, existing)
	}
	if !replaced && InProgress(entry) {
		out = append(out, entry)
	}
	return out
}

// Normalize drops every entry with no user-entered data from a free-form
// checklist. Fixed-catalog checklists must not be normalized: their rows
// are seeded permanently and display empty until touched.
func Normalize(entries []models.ChecklistEntry) []models.ChecklistEntry {
	out := make([]models.ChecklistEntry, 0, len(entries))
	for _, e := range entries {
		if InProgress(e) {
			out = append(out, e)
		}
	}
	return out
}

// Apply enforces the sparsity rule on the job card's free-form checklists.
// Service and trailer checklists are fixed-catalog and left untouched.
func Apply(job *models.JobCard) {
	job.OtherTaskProgress = Normalize(job.OtherTaskProgress)
}

// entryErrors checks the mandatory fields on one in-progress entry.
func entryErrors(e models.ChecklistEntry) (FieldErrors, bool) {
	errs := FieldErrors{
		Status:      !e.Status.IsTerminal(),
		Description: strings.TrimSpace(e.Description) == "",
		DoneBy:      strings.TrimSpace(e.DoneBy) == "",
	}
	return errs, errs.Status || errs.Description || errs.DoneBy
}

func validateGroup(result ValidationResult, group string, entries []models.ChecklistEntry) {
	for i, e := range entries {
		if !InProgress(e) {
			continue
		}
		if errs, bad := entryErrors(e); bad {
			result.add(group, i, errs)
		}
	}
}

// Validate runs the mandatory-field check over the job card's conditionally
// visible checklists: the trailer checklist when the vehicle types include
// "Trailer" and the free-form other checklist when they include "Other".
// Only in-progress entries are checked, and only in mechanic mode; every
// other mode always passes. The result is recomputed in full on every call.
func Validate(job *models.JobCard, mode Mode) ValidationResult {
	result := make(ValidationResult)
	if mode != ModeMechanic {
		return result
	}

	if job.HasVehicleType("Trailer") {
		for _, section := range job.TrailerTaskProgress {
			validateGroup(result, GroupTrailerElectrical, section.Electrical)
			validateGroup(result, GroupTrailerTiresWheels, section.TiresWheels)
			validateGroup(result, GroupTrailerBrakes, section.BrakeSystem)
			validateGroup(result, GroupTrailerSuspension, section.Suspension)
			validateGroup(result, GroupTrailerBodyChassis, section.BodyChassis)
		}
	}

	if job.HasVehicleType("Other") {
		validateGroup(result, GroupOther, job.OtherTaskProgress)
	}

	return result
}
