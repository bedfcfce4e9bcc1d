package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJobCard_IsInWorkerQueue(t *testing.T) {
	job := &JobCard{
		AssignedWorker:           "Worker 2",
		IsWorkerAssignedComplete: false,
		IsArchived:               false,
	}

	assert.True(t, job.IsInWorkerQueue("Worker 2"))
	assert.False(t, job.IsInWorkerQueue("Worker 1"))

	// Completing the assignment removes the job from its queue immediately,
	// independent of any other field.
	job.IsWorkerAssignedComplete = true
	assert.False(t, job.IsInWorkerQueue("Worker 2"))

	job.IsWorkerAssignedComplete = false
	job.IsArchived = true
	assert.False(t, job.IsInWorkerQueue("Worker 2"))
}

func TestJobCard_IsInPartsQueue(t *testing.T) {
	job := &JobCard{
		AssignedParts:           "Parts 1",
		IsPartsAssignedComplete: false,
	}

	assert.True(t, job.IsInPartsQueue("Parts 1"))
	assert.False(t, job.IsInPartsQueue("Parts 2"))

	// Worker completion has no effect on the parts queue.
	job.IsWorkerAssignedComplete = true
	assert.True(t, job.IsInPartsQueue("Parts 1"))

	job.IsPartsAssignedComplete = true
	assert.False(t, job.IsInPartsQueue("Parts 1"))
}

func TestJobCard_HasVehicleType(t *testing.T) {
	job := &JobCard{VehicleType: []string{"Truck", "Trailer"}}

	assert.True(t, job.HasVehicleType("Trailer"))
	assert.True(t, job.HasVehicleType("trailer"))
	assert.False(t, job.HasVehicleType("Other"))

	empty := &JobCard{}
	assert.False(t, empty.HasVehicleType("Truck"))
}

func TestTaskStatus_IsTerminal(t *testing.T) {
	assert.False(t, TaskUnset.IsTerminal())
	assert.True(t, TaskDone.IsTerminal())
	assert.True(t, TaskNotDone.IsTerminal())
	assert.True(t, TaskNotApplicable.IsTerminal())
	assert.False(t, TaskStatus("bogus").IsTerminal())
}

func TestNewTrailerSection(t *testing.T) {
	section := NewTrailerSection()

	assert.Len(t, section.Electrical, len(TrailerElectricalCatalog))
	assert.Len(t, section.TiresWheels, len(TrailerTiresWheelsCatalog))
	assert.Len(t, section.BrakeSystem, len(TrailerBrakeSystemCatalog))
	assert.Len(t, section.Suspension, len(TrailerSuspensionCatalog))
	assert.Len(t, section.BodyChassis, len(TrailerBodyChassisCatalog))

	for i, entry := range section.Electrical {
		assert.Equal(t, TrailerElectricalCatalog[i], entry.TaskName)
		assert.Equal(t, TaskUnset, entry.Status)
	}
}

func TestNewLineItem(t *testing.T) {
	a := NewLineItem()
	b := NewLineItem()

	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Zero(t, a.Qty)
	assert.Zero(t, a.TotalCost)
}

func TestAssignLineItemIDs(t *testing.T) {
	items := []LineItem{
		{ID: "existing", Description: "Oil filter"},
		{Description: "Brake pads"},
		{Description: "Coolant"},
	}
	AssignLineItemIDs(items)

	assert.Equal(t, "existing", items[0].ID)
	assert.NotEmpty(t, items[1].ID)
	assert.NotEmpty(t, items[2].ID)
	assert.NotEqual(t, items[1].ID, items[2].ID)
}
