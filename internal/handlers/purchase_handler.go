package handlers

import (
	"errors"
	"io"
	"net/http"

	"tiffinhub/internal/middleware"
	"tiffinhub/internal/services"
	"tiffinhub/internal/utils"
	"tiffinhub/internal/validators"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PurchaseHandler struct {
	purchaseService services.PurchaseService
}

func NewPurchaseHandler(purchaseService services.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{
		purchaseService: purchaseService,
	}
}

// InitiatePurchase creates the gateway order the client pays against.
func (h *PurchaseHandler) InitiatePurchase(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	var request validators.PurchaseInitiateRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if errs := validators.ValidatePurchaseInitiate(&request); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.ToMap())
		return
	}

	initiation, err := h.purchaseService.InitiatePurchase(c.Request.Context(), userID, &request)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAreaNotServiceable):
			utils.ErrorResponse(c, http.StatusUnprocessableEntity, "AREA_NOT_SERVICEABLE", err.Error())
		case errors.Is(err, services.ErrPlanNotAvailable), errors.Is(err, services.ErrMealSlotNotOnPlan):
			utils.BadRequestResponse(c, err.Error())
		default:
			utils.ErrorResponse(c, http.StatusInternalServerError, "PURCHASE_INITIATION_FAILED", "Failed to initiate purchase: "+err.Error())
		}
		return
	}

	utils.CreatedResponse(c, "Purchase initiated", initiation)
}

// VerifyPayment confirms a payment from the client-side checkout callback.
func (h *PurchaseHandler) VerifyPayment(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	var request validators.PurchaseVerifyRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if errs := validators.ValidateStruct(&request); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.ToMap())
		return
	}

	workflow, err := h.purchaseService.VerifyPayment(c.Request.Context(), userID, &request)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotTransactionOwner):
			utils.ForbiddenResponse(c)
		case errors.Is(err, services.ErrVerificationInProgress):
			// The webhook beat us to it; the client can poll the workflow.
			utils.ErrorResponse(c, http.StatusConflict, "VERIFICATION_IN_PROGRESS", err.Error())
		case errors.Is(err, services.ErrPaymentNotCaptured):
			utils.ErrorResponse(c, http.StatusPaymentRequired, "PAYMENT_NOT_CAPTURED", err.Error())
		default:
			utils.ErrorResponse(c, http.StatusInternalServerError, "PAYMENT_VERIFICATION_FAILED", "Failed to verify payment: "+err.Error())
		}
		return
	}

	utils.SuccessResponse(c, "Payment verified", workflow)
}

// HandleWebhook receives gateway callbacks. Always returns 200 for events
// we deliberately ignore so the gateway stops retrying them.
func (h *PurchaseHandler) HandleWebhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		utils.BadRequestResponse(c, "Failed to read payload")
		return
	}

	signature := c.GetHeader("X-Razorpay-Signature")
	if signature == "" {
		signature = c.GetHeader("Stripe-Signature")
	}

	if err := h.purchaseService.HandleWebhook(c.Request.Context(), payload, signature); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "WEBHOOK_FAILED", err.Error())
		return
	}

	utils.SuccessResponse(c, "Webhook processed", nil)
}

func (h *PurchaseHandler) PreviewPromo(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	var request validators.PromoPreviewRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if errs := validators.ValidateStruct(&request); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.ToMap())
		return
	}

	application, err := h.purchaseService.PreviewPromo(c.Request.Context(), userID, &request)
	if err != nil {
		utils.ErrorResponse(c, http.StatusUnprocessableEntity, "PROMO_NOT_APPLICABLE", err.Error())
		return
	}

	utils.SuccessResponse(c, "Promo code applied", application)
}

func (h *PurchaseHandler) GetWorkflow(c *gin.Context) {
	workflowID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid workflow ID")
		return
	}

	workflow, err := h.purchaseService.GetWorkflow(c.Request.Context(), workflowID)
	if err != nil {
		utils.NotFoundResponse(c, "Purchase workflow")
		return
	}

	if userID, ok := middleware.UserIDFromContext(c); !ok || workflow.UserID != userID {
		if userType, _ := c.Get("user_type"); userType != "admin" {
			utils.ForbiddenResponse(c)
			return
		}
	}

	utils.SuccessResponse(c, "Workflow retrieved successfully", workflow)
}

func (h *PurchaseHandler) ListMyTransactions(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	params := utils.GetPaginationParams(c)
	transactions, total, err := h.purchaseService.ListUserTransactions(c.Request.Context(), userID, params)
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "TRANSACTION_LIST_FAILED", "Failed to list transactions: "+err.Error())
		return
	}

	utils.SuccessResponseWithMeta(c, "Transactions retrieved successfully", transactions, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
	})
}

// CheckPaymentStatus is the admin recovery endpoint for stuck purchases.
func (h *PurchaseHandler) CheckPaymentStatus(c *gin.Context) {
	var request struct {
		GatewayOrderID   string `json:"gateway_order_id" binding:"required"`
		GatewayPaymentID string `json:"gateway_payment_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	workflow, err := h.purchaseService.CheckPaymentStatus(c.Request.Context(), request.GatewayOrderID, request.GatewayPaymentID)
	if err != nil {
		if errors.Is(err, services.ErrPaymentNotCaptured) {
			utils.ErrorResponse(c, http.StatusUnprocessableEntity, "PAYMENT_NOT_CAPTURED", err.Error())
			return
		}
		utils.ErrorResponse(c, http.StatusInternalServerError, "PAYMENT_STATUS_CHECK_FAILED", "Failed to check payment: "+err.Error())
		return
	}

	utils.SuccessResponse(c, "Payment status checked", workflow)
}

func (h *PurchaseHandler) RefundPurchase(c *gin.Context) {
	transactionID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid transaction ID")
		return
	}

	var request struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	transaction, err := h.purchaseService.RefundPurchase(c.Request.Context(), transactionID, request.Reason)
	if err != nil {
		if errors.Is(err, services.ErrTransactionNotRefundable) {
			utils.ConflictResponse(c, err.Error())
			return
		}
		utils.ErrorResponse(c, http.StatusInternalServerError, "REFUND_FAILED", "Failed to refund: "+err.Error())
		return
	}

	utils.SuccessResponse(c, "Refund processed", transaction)
}

func (h *PurchaseHandler) ResumeIncomplete(c *gin.Context) {
	resumed, err := h.purchaseService.ResumeIncomplete(c.Request.Context())
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "RESUME_FAILED", "Failed to resume workflows: "+err.Error())
		return
	}

	utils.SuccessResponse(c, "Incomplete workflows resumed", gin.H{"resumed": resumed})
}
