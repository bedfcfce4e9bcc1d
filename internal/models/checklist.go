package models

import "time"

// TaskStatus is the tri-state completion status of a checklist task. The
// zero value means the task has not been marked yet.
type TaskStatus string

const (
	TaskUnset         TaskStatus = ""
	TaskDone          TaskStatus = "done"
	TaskNotDone       TaskStatus = "not_done"
	TaskNotApplicable TaskStatus = "not_applicable"
)

// IsTerminal reports whether the status is one of the three set values.
func (s TaskStatus) IsTerminal() bool {
	switch s {
	case TaskDone, TaskNotDone, TaskNotApplicable:
		return true
	default:
		return false
	}
}

// ChecklistEntry is one inspectable or actionable task on a job card.
type ChecklistEntry struct {
	TaskName    string     `bson:"task_name" json:"task_name"`
	Status      TaskStatus `bson:"status" json:"status"` // "done", "not_done", "not_applicable" or empty
	Description string     `bson:"description" json:"description"`
	DoneBy      string     `bson:"done_by" json:"done_by"`
	Hours       float64    `bson:"hours" json:"hours"`
}

// TrailerSection holds the trailer inspection checklist. A job card carries
// at most one, with five fixed-catalog subsections.
type TrailerSection struct {
	Date        time.Time        `bson:"date" json:"date"`
	OdometerKm  float64          `bson:"odometer_km" json:"odometer_km"`
	PlantNumber string           `bson:"plant_number" json:"plant_number"`
	Electrical  []ChecklistEntry `bson:"electrical" json:"electrical"`
	TiresWheels []ChecklistEntry `bson:"tires_wheels" json:"tires_wheels"`
	BrakeSystem []ChecklistEntry `bson:"brake_system" json:"brake_system"`
	Suspension  []ChecklistEntry `bson:"suspension" json:"suspension"`
	BodyChassis []ChecklistEntry `bson:"body_chassis" json:"body_chassis"`
}
