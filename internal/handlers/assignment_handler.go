package handlers

import (
	"errors"
	"net/http"

	"tiffinhub/internal/middleware"
	"tiffinhub/internal/models"
	"tiffinhub/internal/services"
	"tiffinhub/internal/utils"
	"tiffinhub/internal/validators"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AssignmentHandler exposes the admin queue of vendor assignment requests.
type AssignmentHandler struct {
	assignmentService services.AssignmentService
}

func NewAssignmentHandler(assignmentService services.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{
		assignmentService: assignmentService,
	}
}

// ListQueue returns assignment requests, defaulting to the pending queue
// in priority order.
func (h *AssignmentHandler) ListQueue(c *gin.Context) {
	status := models.AssignmentRequestStatus(c.DefaultQuery("status", string(models.AssignmentStatusPending)))

	params := utils.GetPaginationParams(c)
	requests, total, err := h.assignmentService.ListByStatus(c.Request.Context(), status, params)
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "QUEUE_LIST_FAILED", "Failed to list queue: "+err.Error())
		return
	}

	utils.SuccessResponseWithMeta(c, "Assignment queue retrieved successfully", requests, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
	})
}

func (h *AssignmentHandler) GetRequest(c *gin.Context) {
	requestID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid request ID")
		return
	}

	request, err := h.assignmentService.GetRequest(c.Request.Context(), requestID)
	if err != nil {
		utils.NotFoundResponse(c, "Assignment request")
		return
	}

	utils.SuccessResponse(c, "Assignment request retrieved successfully", request)
}

func (h *AssignmentHandler) EligibleVendors(c *gin.Context) {
	requestID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid request ID")
		return
	}

	vendors, err := h.assignmentService.EligibleVendors(c.Request.Context(), requestID)
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "ELIGIBLE_VENDORS_FAILED", "Failed to list eligible vendors: "+err.Error())
		return
	}

	utils.SuccessResponse(c, "Eligible vendors retrieved successfully", vendors)
}

func (h *AssignmentHandler) Approve(c *gin.Context) {
	adminID, ok := middleware.UserIDFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	requestID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid request ID")
		return
	}

	var request validators.AssignmentApproveRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if errs := validators.ValidateStruct(&request); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.ToMap())
		return
	}

	vendorID, err := primitive.ObjectIDFromHex(request.VendorID)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid vendor ID")
		return
	}

	result, err := h.assignmentService.Approve(c.Request.Context(), requestID, vendorID, adminID, request.Note)
	if err != nil {
		h.assignmentError(c, err, "APPROVAL_FAILED")
		return
	}

	utils.SuccessResponse(c, "Vendor assigned successfully", result)
}

func (h *AssignmentHandler) Reject(c *gin.Context) {
	adminID, ok := middleware.UserIDFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	requestID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid request ID")
		return
	}

	var request validators.AssignmentRejectRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if errs := validators.ValidateStruct(&request); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.ToMap())
		return
	}

	result, err := h.assignmentService.Reject(c.Request.Context(), requestID, adminID, request.Reason)
	if err != nil {
		h.assignmentError(c, err, "REJECTION_FAILED")
		return
	}

	utils.SuccessResponse(c, "Assignment request rejected", result)
}

func (h *AssignmentHandler) Complete(c *gin.Context) {
	adminID, ok := middleware.UserIDFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	requestID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid request ID")
		return
	}

	result, err := h.assignmentService.Complete(c.Request.Context(), requestID, adminID)
	if err != nil {
		h.assignmentError(c, err, "COMPLETION_FAILED")
		return
	}

	utils.SuccessResponse(c, "Assignment completed", result)
}

func (h *AssignmentHandler) SetPriority(c *gin.Context) {
	requestID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid request ID")
		return
	}

	var request struct {
		Priority string `json:"priority" binding:"required,oneof=low medium high urgent"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if err := h.assignmentService.SetPriority(c.Request.Context(), requestID, models.AssignmentPriority(request.Priority)); err != nil {
		h.assignmentError(c, err, "PRIORITY_UPDATE_FAILED")
		return
	}

	utils.SuccessResponse(c, "Priority updated", nil)
}

func (h *AssignmentHandler) QueueStats(c *gin.Context) {
	stats, err := h.assignmentService.QueueStats(c.Request.Context())
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "QUEUE_STATS_FAILED", "Failed to get queue stats: "+err.Error())
		return
	}

	utils.SuccessResponse(c, "Queue stats retrieved successfully", stats)
}

func (h *AssignmentHandler) assignmentError(c *gin.Context, err error, code string) {
	switch {
	case errors.Is(err, services.ErrAssignmentAlreadyProcessed):
		utils.ConflictResponse(c, err.Error())
	case errors.Is(err, services.ErrVendorNotEligible):
		utils.BadRequestResponse(c, err.Error())
	default:
		utils.ErrorResponse(c, http.StatusInternalServerError, code, err.Error())
	}
}
