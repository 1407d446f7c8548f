package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestAssignmentPriority_Weight(t *testing.T) {
	assert.Equal(t, 40, AssignmentPriorityUrgent.Weight())
	assert.Equal(t, 30, AssignmentPriorityHigh.Weight())
	assert.Equal(t, 20, AssignmentPriorityMedium.Weight())
	assert.Equal(t, 10, AssignmentPriorityLow.Weight())
	assert.Equal(t, 0, AssignmentPriority("bogus").Weight())
}

func TestDefaultPriorityFor(t *testing.T) {
	assert.Equal(t, AssignmentPriorityHigh, DefaultPriorityFor(AssignmentTypeInitial))
	assert.Equal(t, AssignmentPriorityMedium, DefaultPriorityFor(AssignmentTypeSwitch))
}

func TestVendorAssignmentRequest_SetPriority(t *testing.T) {
	request := &VendorAssignmentRequest{}
	request.SetPriority(AssignmentPriorityUrgent)

	assert.Equal(t, AssignmentPriorityUrgent, request.Priority)
	assert.Equal(t, 40, request.PriorityWeight)
}

func TestVendorAssignmentRequest_MarkProcessed(t *testing.T) {
	request := &VendorAssignmentRequest{Status: AssignmentStatusPending}
	admin := primitive.NewObjectID()

	assert.False(t, request.IsTerminal())

	request.MarkProcessed(AssignmentStatusApproved, admin, "assigned nearest kitchen")

	assert.True(t, request.IsTerminal())
	assert.Equal(t, AssignmentStatusApproved, request.Status)
	require.NotNil(t, request.ProcessedBy)
	assert.Equal(t, admin, *request.ProcessedBy)
	assert.NotNil(t, request.ProcessedAt)
	assert.Equal(t, "assigned nearest kitchen", request.AdminNote)
}
