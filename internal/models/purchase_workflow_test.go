package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPurchaseWorkflow_StepTracking(t *testing.T) {
	workflow := &PurchaseWorkflow{Status: WorkflowStatusPaymentPending}

	assert.False(t, workflow.IsStepDone(StepPaymentCaptured))

	workflow.MarkStepDone(StepPaymentCaptured)
	workflow.MarkStepDone(StepSubscriptionCreated)

	assert.True(t, workflow.IsStepDone(StepPaymentCaptured))
	assert.True(t, workflow.IsStepDone(StepSubscriptionCreated))
	assert.False(t, workflow.IsStepDone(StepAssignmentRequested))
}

func TestPurchaseWorkflow_MarkFailed(t *testing.T) {
	workflow := &PurchaseWorkflow{Status: WorkflowStatusPaymentPending}
	workflow.MarkFailed("invalid payment signature")

	assert.Equal(t, WorkflowStatusFailed, workflow.Status)
	assert.Equal(t, "invalid payment signature", workflow.FailureReason)
}
