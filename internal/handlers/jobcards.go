package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/garagedesk/jobcard-service/internal/checklist"
	"github.com/garagedesk/jobcard-service/internal/costing"
	"github.com/garagedesk/jobcard-service/internal/db"
	"github.com/garagedesk/jobcard-service/internal/middleware"
	"github.com/garagedesk/jobcard-service/internal/models"
	"github.com/garagedesk/jobcard-service/internal/query"
)

// JobCardHandler handles job card requests
type JobCardHandler struct {
	jobCards db.JobCardCollection
}

// NewJobCardHandler creates a new job card handler
func NewJobCardHandler(jobCards db.JobCardCollection) *JobCardHandler {
	return &JobCardHandler{jobCards: jobCards}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// CreateJobCardRequest carries the intake fields for a new job card.
// ServiceLevel picks which service checklist the card is seeded with.
type CreateJobCardRequest struct {
	CustomerName  string   `json:"customer_name"`
	CompanyName   string   `json:"company_name"`
	Mobile        string   `json:"mobile"`
	Email         string   `json:"email"`
	Address       string   `json:"address"`
	InvoiceNumber string   `json:"invoice_number"`
	Rego          string   `json:"rego"`
	VehicleMake   string   `json:"vehicle_make"`
	VehicleModel  string   `json:"vehicle_model"`
	VehicleType   []string `json:"vehicle_type"`

	VehicleManufactureYear  int     `json:"vehicle_manufacture_year"`
	VehicleManufactureMonth int     `json:"vehicle_manufacture_month"`
	OdometerKm              float64 `json:"odometer_km"`

	ServiceLevel string `json:"service_level"` // "A", "B" or empty
	Notes        string `json:"notes"`
}

// UpdateJobCardRequest is the sparse edit payload: only non-nil fields are
// written back to the store.
type UpdateJobCardRequest struct {
	CustomerName  *string   `json:"customer_name"`
	CompanyName   *string   `json:"company_name"`
	Mobile        *string   `json:"mobile"`
	Email         *string   `json:"email"`
	Address       *string   `json:"address"`
	InvoiceNumber *string   `json:"invoice_number"`
	Rego          *string   `json:"rego"`
	VehicleMake   *string   `json:"vehicle_make"`
	VehicleModel  *string   `json:"vehicle_model"`
	VehicleType   *[]string `json:"vehicle_type"`

	VehicleManufactureYear  *int     `json:"vehicle_manufacture_year"`
	VehicleManufactureMonth *int     `json:"vehicle_manufacture_month"`
	OdometerKm              *float64 `json:"odometer_km"`

	AssignedWorker *string `json:"assigned_worker"`
	AssignedParts  *string `json:"assigned_parts"`

	ServiceTaskProgress *[]models.ChecklistEntry `json:"service_task_progress"`
	TrailerTaskProgress *[]models.TrailerSection `json:"trailer_task_progress"`
	OtherTaskProgress   *[]models.ChecklistEntry `json:"other_task_progress"`

	PartsAndConsumables *[]models.LineItem `json:"parts_and_consumables"`
	LubricantsUsed      *[]models.LineItem `json:"lubricants_used"`

	TotalLabor    *float64              `json:"total_labor"`
	PaymentStatus *models.PaymentStatus `json:"payment_status"`
	Notes         *string               `json:"notes"`
}

// Collection routes /api/jobcards: list on GET, create on POST.
func (h *JobCardHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// list fetches the requested snapshot (active or archived) and runs the
// query engine over it with the parameters from the URL.
func (h *JobCardHandler) list(w http.ResponseWriter, r *http.Request) {
	archived := r.URL.Query().Get("archived") == "true"

	snapshot, err := h.jobCards.FindJobCards(r.Context(), bson.M{"is_archived": archived})
	if err != nil {
		log.WithError(err).Error("Failed to fetch job cards")
		http.Error(w, "Failed to fetch job cards", http.StatusInternalServerError)
		return
	}

	params := parseQueryParams(r, archived)
	writeJSON(w, http.StatusOK, query.Run(snapshot, params))
}

// parseQueryParams maps URL query parameters onto engine parameters. The
// archived view defaults to newest-first when no sort is requested.
func parseQueryParams(r *http.Request, archived bool) query.Params {
	q := r.URL.Query()

	params := query.Params{
		SearchTerm:  q.Get("search"),
		SearchScope: query.ScopeAll,
		Page:        query.Page{Number: 1, Size: query.DefaultPageSize},
	}
	if scope := q.Get("scope"); scope != "" {
		params.SearchScope = query.Scope(scope)
	}

	params.Filters = query.Filters{
		CreatedYear:      atoi(q.Get("created_year")),
		CreatedMonth:     atoi(q.Get("created_month")),
		ManufactureYear:  atoi(q.Get("manufacture_year")),
		ManufactureMonth: atoi(q.Get("manufacture_month")),
		CustomerName:     q.Get("customer"),
		CompanyName:      q.Get("company"),
		PaymentStatus:    models.PaymentStatus(q.Get("payment_status")),
	}
	if v := q.Get("worker_complete"); v != "" {
		b := v == "true"
		params.Filters.WorkerComplete = &b
	}
	if v := q.Get("parts_complete"); v != "" {
		b := v == "true"
		params.Filters.PartsComplete = &b
	}

	if key := q.Get("sort_key"); key != "" {
		dir := query.Asc
		if q.Get("sort_dir") == "desc" {
			dir = query.Desc
		}
		params.Sort = &query.Sort{Key: key, Direction: dir}
	} else if archived {
		params.Sort = &query.Sort{Key: query.FieldCreatedAt, Direction: query.Desc}
	}

	if n := atoi(q.Get("page")); n > 0 {
		params.Page.Number = n
	}
	if size := atoi(q.Get("page_size")); size > 0 {
		params.Page.Size = size
	}
	return params
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// create inserts a new job card seeded with the checklists its service
// level and vehicle types call for.
func (h *JobCardHandler) create(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var req CreateJobCardRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if req.CustomerName == "" {
		http.Error(w, "Customer name is required", http.StatusBadRequest)
		return
	}

	job := models.JobCard{
		CustomerName:            req.CustomerName,
		CompanyName:             req.CompanyName,
		Mobile:                  req.Mobile,
		Email:                   req.Email,
		Address:                 req.Address,
		InvoiceNumber:           req.InvoiceNumber,
		Rego:                    req.Rego,
		VehicleMake:             req.VehicleMake,
		VehicleModel:            req.VehicleModel,
		VehicleType:             req.VehicleType,
		VehicleManufactureYear:  req.VehicleManufactureYear,
		VehicleManufactureMonth: req.VehicleManufactureMonth,
		OdometerKm:              req.OdometerKm,
		PaymentStatus:           models.PaymentUnpaid,
		Notes:                   req.Notes,
	}

	switch strings.ToUpper(req.ServiceLevel) {
	case "A":
		job.ServiceTaskProgress = models.SeedEntries(models.ServiceACatalog)
	case "B":
		job.ServiceTaskProgress = models.SeedEntries(models.ServiceBCatalog)
	case "":
	default:
		http.Error(w, "Invalid service level", http.StatusBadRequest)
		return
	}
	if job.HasVehicleType("Trailer") {
		job.TrailerTaskProgress = []models.TrailerSection{models.NewTrailerSection()}
	}

	costing.Apply(&job)

	inserted, err := h.jobCards.InsertJobCard(r.Context(), job)
	if err != nil {
		if errors.Is(err, db.ErrJobNumbersExhausted) {
			http.Error(w, "Job number sequence exhausted for this month", http.StatusConflict)
			return
		}
		log.WithError(err).Error("Failed to create job card")
		http.Error(w, "Failed to create job card", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, inserted)
}

// Detail routes /api/jobcards/{id} and its sub-actions.
func (h *JobCardHandler) Detail(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/jobcards/")
	parts := strings.SplitN(rest, "/", 2)
	id := parts[0]
	if id == "" {
		http.Error(w, "Job card ID required", http.StatusBadRequest)
		return
	}
	action := ""
	if len(parts) == 2 {
		action = parts[1]
	}

	switch {
	case action == "" && r.Method == http.MethodGet:
		h.get(w, r, id)
	case action == "" && r.Method == http.MethodPut:
		h.update(w, r, id)
	case action == "" && r.Method == http.MethodDelete:
		h.delete(w, r, id)
	case action == "totals" && r.Method == http.MethodGet:
		h.totals(w, r, id)
	case action == "tasks" && r.Method == http.MethodPut:
		h.upsertTask(w, r, id)
	case action == "submit" && r.Method == http.MethodPost:
		h.submit(w, r, id)
	case action == "archive" && r.Method == http.MethodPost:
		h.setArchived(w, r, id, true)
	case action == "unarchive" && r.Method == http.MethodPost:
		h.setArchived(w, r, id, false)
	case action == "complete" && r.Method == http.MethodPost:
		h.completeAssignment(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// load fetches a job card and writes the error response on failure.
func (h *JobCardHandler) load(w http.ResponseWriter, r *http.Request, id string) *models.JobCard {
	job, err := h.jobCards.FindJobCardByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			http.Error(w, "Job card not found", http.StatusNotFound)
		} else {
			http.Error(w, "Invalid job card ID", http.StatusBadRequest)
		}
		return nil
	}
	return job
}

func (h *JobCardHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	job := h.load(w, r, id)
	if job == nil {
		return
	}
	// Derived totals are recomputed on every read, never trusted from
	// storage.
	costing.Apply(job)
	writeJSON(w, http.StatusOK, job)
}

// update applies a sparse edit. Checklist statuses merge one-way against
// the stored record, the free-form checklist is re-sparsified, and every
// derived cost is recomputed before anything persists.
func (h *JobCardHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	job := h.load(w, r, id)
	if job == nil {
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var req UpdateJobCardRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if req.AssignedWorker != nil && *req.AssignedWorker != "" && !models.IsValidWorker(*req.AssignedWorker) {
		http.Error(w, "Invalid worker", http.StatusBadRequest)
		return
	}
	if req.AssignedParts != nil && *req.AssignedParts != "" && !models.IsValidPartsTeam(*req.AssignedParts) {
		http.Error(w, "Invalid parts team", http.StatusBadRequest)
		return
	}
	if req.PaymentStatus != nil &&
		*req.PaymentStatus != models.PaymentPaid && *req.PaymentStatus != models.PaymentUnpaid {
		http.Error(w, "Invalid payment status", http.StatusBadRequest)
		return
	}

	fields := bson.M{}
	setString := func(key string, v *string) {
		if v != nil {
			fields[key] = *v
		}
	}
	setString("customer_name", req.CustomerName)
	setString("company_name", req.CompanyName)
	setString("mobile", req.Mobile)
	setString("email", req.Email)
	setString("address", req.Address)
	setString("invoice_number", req.InvoiceNumber)
	setString("rego", req.Rego)
	setString("vehicle_make", req.VehicleMake)
	setString("vehicle_model", req.VehicleModel)
	setString("assigned_worker", req.AssignedWorker)
	setString("assigned_parts", req.AssignedParts)
	setString("notes", req.Notes)

	if req.VehicleType != nil {
		fields["vehicle_type"] = *req.VehicleType
	}
	if req.VehicleManufactureYear != nil {
		fields["vehicle_manufacture_year"] = *req.VehicleManufactureYear
	}
	if req.VehicleManufactureMonth != nil {
		fields["vehicle_manufacture_month"] = *req.VehicleManufactureMonth
	}
	if req.OdometerKm != nil {
		fields["odometer_km"] = *req.OdometerKm
	}
	if req.PaymentStatus != nil {
		fields["payment_status"] = *req.PaymentStatus
	}

	if req.ServiceTaskProgress != nil {
		fields["service_task_progress"] = checklist.MergeStatuses(job.ServiceTaskProgress, *req.ServiceTaskProgress)
	}
	if req.OtherTaskProgress != nil {
		merged := checklist.MergeStatuses(job.OtherTaskProgress, *req.OtherTaskProgress)
		fields["other_task_progress"] = checklist.Normalize(merged)
	}
	if req.TrailerTaskProgress != nil {
		sections := *req.TrailerTaskProgress
		for i := range sections {
			stored := models.TrailerSection{}
			if i < len(job.TrailerTaskProgress) {
				stored = job.TrailerTaskProgress[i]
			}
			sections[i].Electrical = checklist.MergeStatuses(stored.Electrical, sections[i].Electrical)
			sections[i].TiresWheels = checklist.MergeStatuses(stored.TiresWheels, sections[i].TiresWheels)
			sections[i].BrakeSystem = checklist.MergeStatuses(stored.BrakeSystem, sections[i].BrakeSystem)
			sections[i].Suspension = checklist.MergeStatuses(stored.Suspension, sections[i].Suspension)
			sections[i].BodyChassis = checklist.MergeStatuses(stored.BodyChassis, sections[i].BodyChassis)
		}
		fields["trailer_task_progress"] = sections
	}

	// Recompute derived costs over the merged record whenever any money
	// input changed.
	if req.PartsAndConsumables != nil || req.LubricantsUsed != nil || req.TotalLabor != nil {
		if req.PartsAndConsumables != nil {
			job.PartsAndConsumables = *req.PartsAndConsumables
			models.AssignLineItemIDs(job.PartsAndConsumables)
		}
		if req.LubricantsUsed != nil {
			job.LubricantsUsed = *req.LubricantsUsed
			models.AssignLineItemIDs(job.LubricantsUsed)
		}
		if req.TotalLabor != nil {
			job.TotalLabor = *req.TotalLabor
		}
		costing.Apply(job)
		fields["parts_and_consumables"] = job.PartsAndConsumables
		fields["lubricants_used"] = job.LubricantsUsed
		fields["total_labor"] = job.TotalLabor
		fields["total_parts"] = job.TotalParts
		fields["total_lubricants"] = job.TotalLubricants
	}

	updated, err := h.jobCards.UpdateJobCard(r.Context(), id, fields)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			http.Error(w, "Job card not found", http.StatusNotFound)
			return
		}
		log.WithError(err).Error("Failed to update job card")
		http.Error(w, "Failed to update job card", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// upsertTask edits a single free-form checklist row, keyed by task name.
// An entry with data replaces its row or is appended; an emptied entry
// drops the row. Terminal statuses survive a clearing edit.
func (h *JobCardHandler) upsertTask(w http.ResponseWriter, r *http.Request, id string) {
	job := h.load(w, r, id)
	if job == nil {
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var entry models.ChecklistEntry
	if err := json.Unmarshal(body, &entry); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(entry.TaskName) == "" {
		http.Error(w, "Task name is required", http.StatusBadRequest)
		return
	}

	merged := checklist.MergeStatuses(job.OtherTaskProgress, []models.ChecklistEntry{entry})
	next := checklist.Upsert(job.OtherTaskProgress, merged[0])

	updated, err := h.jobCards.UpdateJobCard(r.Context(), id, bson.M{"other_task_progress": next})
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			http.Error(w, "Job card not found", http.StatusNotFound)
			return
		}
		log.WithError(err).Error("Failed to update task")
		http.Error(w, "Failed to update task", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *JobCardHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	err := h.jobCards.DeleteJobCard(r.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			http.Error(w, "Job card not found", http.StatusNotFound)
			return
		}
		log.WithError(err).Error("Failed to delete job card")
		http.Error(w, "Failed to delete job card", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Job card deleted"})
}

func (h *JobCardHandler) totals(w http.ResponseWriter, r *http.Request, id string) {
	job := h.load(w, r, id)
	if job == nil {
		return
	}
	writeJSON(w, http.StatusOK, costing.Compute(job))
}

// SubmitResponse reports a submit attempt. On validation failure FocusTab
// tells the client which editing tab to surface.
type SubmitResponse struct {
	Valid    bool                       `json:"valid"`
	Errors   checklist.ValidationResult `json:"errors,omitempty"`
	FocusTab string                     `json:"focus_tab,omitempty"`
}

// submit re-runs the mandatory-field validation for the requested mode.
// Validation failure is a normal response, not an error: the caller keeps
// the in-progress edits and shows the per-field map.
func (h *JobCardHandler) submit(w http.ResponseWriter, r *http.Request, id string) {
	job := h.load(w, r, id)
	if job == nil {
		return
	}

	mode := checklist.Mode(r.URL.Query().Get("mode"))
	if mode == "" {
		mode = checklist.ModeMechanic
	}

	result := checklist.Validate(job, mode)
	if !result.Valid() {
		writeJSON(w, http.StatusUnprocessableEntity, SubmitResponse{
			Valid:    false,
			Errors:   result,
			FocusTab: "mechanic",
		})
		return
	}
	writeJSON(w, http.StatusOK, SubmitResponse{Valid: true})
}

func (h *JobCardHandler) setArchived(w http.ResponseWriter, r *http.Request, id string, archived bool) {
	updated, err := h.jobCards.UpdateJobCard(r.Context(), id, bson.M{"is_archived": archived})
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			http.Error(w, "Job card not found", http.StatusNotFound)
			return
		}
		log.WithError(err).Error("Failed to archive job card")
		http.Error(w, "Failed to archive job card", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// CompleteAssignmentRequest flips one completion flag. The two flags are
// independent; neither is derived from checklist state.
type CompleteAssignmentRequest struct {
	Kind     string `json:"kind"` // "worker" or "parts"
	Complete bool   `json:"complete"`
}

func (h *JobCardHandler) completeAssignment(w http.ResponseWriter, r *http.Request, id string) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var req CompleteAssignmentRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	var field string
	switch req.Kind {
	case "worker":
		field = "is_worker_assigned_complete"
	case "parts":
		field = "is_parts_assigned_complete"
	default:
		http.Error(w, "Invalid assignment kind", http.StatusBadRequest)
		return
	}

	updated, err := h.jobCards.UpdateJobCard(r.Context(), id, bson.M{field: req.Complete})
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			http.Error(w, "Job card not found", http.StatusNotFound)
			return
		}
		log.WithError(err).Error("Failed to update assignment")
		http.Error(w, "Failed to update assignment", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// WorkerQueue serves one worker's portal queue: active jobs assigned to
// them and not yet signed off.
func (h *JobCardHandler) WorkerQueue(w http.ResponseWriter, r *http.Request) {
	h.queue(w, r, func(job *models.JobCard, id string) bool {
		return job.IsInWorkerQueue(id)
	}, models.IsValidWorker)
}

// PartsQueue serves one parts team's portal queue.
func (h *JobCardHandler) PartsQueue(w http.ResponseWriter, r *http.Request) {
	h.queue(w, r, func(job *models.JobCard, id string) bool {
		return job.IsInPartsQueue(id)
	}, models.IsValidPartsTeam)
}

func (h *JobCardHandler) queue(w http.ResponseWriter, r *http.Request, member func(*models.JobCard, string) bool, valid func(string) bool) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := r.URL.Query().Get("id")
	// Mechanics and parts users only ever see their own queue; the id
	// parameter is for admins.
	if claims, ok := middleware.GetUserFromContext(r.Context()); ok && claims.Role != models.RoleAdmin {
		if id != "" && id != claims.WorkerID {
			http.Error(w, "Cannot view another queue", http.StatusForbidden)
			return
		}
		id = claims.WorkerID
	}
	if !valid(id) {
		http.Error(w, "Invalid queue ID", http.StatusBadRequest)
		return
	}

	snapshot, err := h.jobCards.FindJobCards(r.Context(), bson.M{"is_archived": false})
	if err != nil {
		log.WithError(err).Error("Failed to fetch job cards")
		http.Error(w, "Failed to fetch job cards", http.StatusInternalServerError)
		return
	}

	members := make([]models.JobCard, 0, len(snapshot))
	for i := range snapshot {
		if member(&snapshot[i], id) {
			members = append(members, snapshot[i])
		}
	}
	writeJSON(w, http.StatusOK, query.Result{Items: members, TotalMatched: len(members)})
}
