package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PaymentStatus represents the payment state of a job card.
type PaymentStatus string

const (
	PaymentPaid   PaymentStatus = "paid"
	PaymentUnpaid PaymentStatus = "unpaid"
)

// Worker identifiers used for assignment and the portal queues.
var (
	Workers    = []string{"Worker 1", "Worker 2", "Worker 3", "Worker 4"}
	PartsTeams = []string{"Parts 1", "Parts 2", "Parts 3", "Parts 4"}
)

// JobCard represents one work order for a vehicle service visit.
type JobCard struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	JobNumber string             `bson:"job_number" json:"job_number"` // "JC-YY-MM-NN", assigned at insert
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`

	IsArchived bool `bson:"is_archived" json:"is_archived"`

	// Customer and vehicle intake fields, copied through unchanged by the core.
	CustomerName  string `bson:"customer_name" json:"customer_name"`
	CompanyName   string `bson:"company_name" json:"company_name"`
	Mobile        string `bson:"mobile" json:"mobile"`
	Email         string `bson:"email" json:"email"`
	Address       string `bson:"address" json:"address"`
	InvoiceNumber string `bson:"invoice_number" json:"invoice_number"`

	Rego                    string   `bson:"rego" json:"rego"`
	VehicleMake             string   `bson:"vehicle_make" json:"vehicle_make"`
	VehicleModel            string   `bson:"vehicle_model" json:"vehicle_model"`
	VehicleType             []string `bson:"vehicle_type" json:"vehicle_type"` // "Truck", "Trailer", "Other", ...
	VehicleManufactureYear  int      `bson:"vehicle_manufacture_year" json:"vehicle_manufacture_year"`
	VehicleManufactureMonth int      `bson:"vehicle_manufacture_month" json:"vehicle_manufacture_month"` // 1-12, 0 when unknown
	OdometerKm              float64  `bson:"odometer_km" json:"odometer_km"`

	AssignedWorker           string `bson:"assigned_worker" json:"assigned_worker"` // "Worker 1".."Worker 4", empty when unassigned
	AssignedParts            string `bson:"assigned_parts" json:"assigned_parts"`   // "Parts 1".."Parts 4", empty when unassigned
	IsWorkerAssignedComplete bool   `bson:"is_worker_assigned_complete" json:"is_worker_assigned_complete"`
	IsPartsAssignedComplete  bool   `bson:"is_parts_assigned_complete" json:"is_parts_assigned_complete"`

	ServiceTaskProgress []ChecklistEntry `bson:"service_task_progress" json:"service_task_progress"`
	TrailerTaskProgress []TrailerSection `bson:"trailer_task_progress" json:"trailer_task_progress"` // at most one
	OtherTaskProgress   []ChecklistEntry `bson:"other_task_progress" json:"other_task_progress"`

	PartsAndConsumables []LineItem `bson:"parts_and_consumables" json:"parts_and_consumables"`
	LubricantsUsed      []LineItem `bson:"lubricants_used" json:"lubricants_used"`

	TotalLabor      float64 `bson:"total_labor" json:"total_labor"`           // Total A, manually entered
	TotalParts      float64 `bson:"total_parts" json:"total_parts"`           // Total B, derived
	TotalLubricants float64 `bson:"total_lubricants" json:"total_lubricants"` // Total C, derived

	PaymentStatus PaymentStatus `bson:"payment_status" json:"payment_status"` // "paid" or "unpaid"
	Notes         string        `bson:"notes" json:"notes"`
}

// HasVehicleType reports whether the job's vehicle type list contains t,
// case-insensitively.
func (j *JobCard) HasVehicleType(t string) bool {
	for _, v := range j.VehicleType {
		if strings.EqualFold(v, t) {
			return true
		}
	}
	return false
}

// IsInWorkerQueue reports whether the job belongs in the given worker's
// portal queue: assigned to that worker, not archived, and not yet signed
// off as complete.
func (j *JobCard) IsInWorkerQueue(workerID string) bool {
	return !j.IsArchived && j.AssignedWorker == workerID && !j.IsWorkerAssignedComplete
}

// IsInPartsQueue reports whether the job belongs in the given parts team's
// portal queue. Symmetric with IsInWorkerQueue over the parts flags.
func (j *JobCard) IsInPartsQueue(partsTeamID string) bool {
	return !j.IsArchived && j.AssignedParts == partsTeamID && !j.IsPartsAssignedComplete
}

// IsValidWorker checks if a worker identifier is one of the known workers.
func IsValidWorker(id string) bool {
	for _, w := range Workers {
		if w == id {
			return true
		}
	}
	return false
}

// IsValidPartsTeam checks if a parts team identifier is one of the known teams.
func IsValidPartsTeam(id string) bool {
	for _, p := range PartsTeams {
		if p == id {
			return true
		}
	}
	return false
}
