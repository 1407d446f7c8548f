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

type SubscriptionHandler struct {
	subscriptionService services.SubscriptionService
	reviewService       services.ReviewService
}

func NewSubscriptionHandler(subscriptionService services.SubscriptionService, reviewService services.ReviewService) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptionService: subscriptionService,
		reviewService:       reviewService,
	}
}

type subscriptionDetail struct {
	*models.UserSubscription
	DaysRemaining    int `json:"days_remaining"`
	RemainingCredits int `json:"remaining_credits"`
}

func newSubscriptionDetail(subscription *models.UserSubscription) *subscriptionDetail {
	days := subscription.GetDaysRemaining()
	if days < 0 {
		days = 0
	}
	return &subscriptionDetail{
		UserSubscription: subscription,
		DaysRemaining:    days,
		RemainingCredits: subscription.GetRemainingCredits(),
	}
}

func (h *SubscriptionHandler) bindOwner(c *gin.Context) (primitive.ObjectID, primitive.ObjectID, bool) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return primitive.NilObjectID, primitive.NilObjectID, false
	}

	subscriptionID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid subscription ID")
		return primitive.NilObjectID, primitive.NilObjectID, false
	}

	return userID, subscriptionID, true
}

func (h *SubscriptionHandler) GetSubscription(c *gin.Context) {
	userID, subscriptionID, ok := h.bindOwner(c)
	if !ok {
		return
	}

	subscription, err := h.subscriptionService.GetSubscription(c.Request.Context(), subscriptionID, userID)
	if err != nil {
		if errors.Is(err, services.ErrNotSubscriptionOwner) {
			utils.ForbiddenResponse(c)
			return
		}
		utils.NotFoundResponse(c, "Subscription")
		return
	}

	utils.SuccessResponse(c, "Subscription retrieved successfully", newSubscriptionDetail(subscription))
}

func (h *SubscriptionHandler) ListMySubscriptions(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	params := utils.GetPaginationParams(c)
	subscriptions, total, err := h.subscriptionService.ListUserSubscriptions(c.Request.Context(), userID, params)
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "SUBSCRIPTION_LIST_FAILED", "Failed to list subscriptions: "+err.Error())
		return
	}

	utils.SuccessResponseWithMeta(c, "Subscriptions retrieved successfully", subscriptions, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
	})
}

func (h *SubscriptionHandler) UseCredits(c *gin.Context) {
	userID, subscriptionID, ok := h.bindOwner(c)
	if !ok {
		return
	}

	var request validators.UseCreditsRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if errs := validators.ValidateStruct(&request); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.ToMap())
		return
	}

	subscription, err := h.subscriptionService.UseCredits(c.Request.Context(), subscriptionID, userID, request.Credits)
	if err != nil {
		h.subscriptionError(c, err, "CREDIT_USE_FAILED")
		return
	}

	utils.SuccessResponse(c, "Credits used successfully", subscription)
}

func (h *SubscriptionHandler) SkipMeal(c *gin.Context) {
	userID, subscriptionID, ok := h.bindOwner(c)
	if !ok {
		return
	}

	// The body is optional; a bare skip applies to the next delivery.
	var request validators.SkipMealRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&request); err != nil {
			utils.BadRequestResponse(c, "Invalid request: "+err.Error())
			return
		}
		if errs := validators.ValidateSkipMeal(&request); len(errs) > 0 {
			utils.ValidationErrorResponse(c, errs.ToMap())
			return
		}
	}

	subscription, err := h.subscriptionService.SkipMeal(c.Request.Context(), subscriptionID, userID)
	if err != nil {
		h.subscriptionError(c, err, "MEAL_SKIP_FAILED")
		return
	}

	utils.SuccessResponse(c, "Meal skipped successfully", subscription)
}

func (h *SubscriptionHandler) RequestVendorSwitch(c *gin.Context) {
	userID, subscriptionID, ok := h.bindOwner(c)
	if !ok {
		return
	}

	var request validators.VendorSwitchRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if errs := validators.ValidateStruct(&request); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.ToMap())
		return
	}

	assignmentRequest, err := h.subscriptionService.RequestVendorSwitch(c.Request.Context(), subscriptionID, userID, request.Reason)
	if err != nil {
		h.subscriptionError(c, err, "VENDOR_SWITCH_FAILED")
		return
	}

	utils.SuccessResponse(c, "Vendor switch requested", assignmentRequest)
}

func (h *SubscriptionHandler) CancelSubscription(c *gin.Context) {
	userID, subscriptionID, ok := h.bindOwner(c)
	if !ok {
		return
	}

	var request validators.CancelSubscriptionRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if errs := validators.ValidateStruct(&request); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.ToMap())
		return
	}

	subscription, err := h.subscriptionService.CancelSubscription(c.Request.Context(), subscriptionID, userID, request.Reason)
	if err != nil {
		h.subscriptionError(c, err, "CANCELLATION_FAILED")
		return
	}

	utils.SuccessResponse(c, "Subscription cancelled", subscription)
}

func (h *SubscriptionHandler) CreateReview(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	var request validators.ReviewCreateRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if errs := validators.ValidateReviewCreate(&request); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.ToMap())
		return
	}

	review, err := h.reviewService.CreateReview(c.Request.Context(), userID, &request)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotSubscriptionOwner):
			utils.ForbiddenResponse(c)
		case errors.Is(err, services.ErrAlreadyReviewed):
			utils.ConflictResponse(c, err.Error())
		case errors.Is(err, services.ErrNoVendorToReview):
			utils.BadRequestResponse(c, err.Error())
		default:
			utils.ErrorResponse(c, http.StatusInternalServerError, "REVIEW_CREATE_FAILED", "Failed to create review: "+err.Error())
		}
		return
	}

	utils.CreatedResponse(c, "Review submitted successfully", review)
}

// SearchSubscriptions is the admin search over all subscriptions.
func (h *SubscriptionHandler) SearchSubscriptions(c *gin.Context) {
	var query services.SubscriptionSearchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.BadRequestResponse(c, "Invalid query: "+err.Error())
		return
	}

	params := utils.GetPaginationParams(c)
	subscriptions, total, err := h.subscriptionService.SearchSubscriptions(c.Request.Context(), &query, params)
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "SUBSCRIPTION_SEARCH_FAILED", "Failed to search subscriptions: "+err.Error())
		return
	}

	utils.SuccessResponseWithMeta(c, "Subscriptions retrieved successfully", subscriptions, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
	})
}

func (h *SubscriptionHandler) GetStats(c *gin.Context) {
	stats, err := h.subscriptionService.GetStats(c.Request.Context())
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "STATS_FAILED", "Failed to get stats: "+err.Error())
		return
	}

	utils.SuccessResponse(c, "Stats retrieved successfully", stats)
}

func (h *SubscriptionHandler) SweepExpired(c *gin.Context) {
	swept, err := h.subscriptionService.SweepExpired(c.Request.Context())
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "SWEEP_FAILED", "Failed to sweep expired subscriptions: "+err.Error())
		return
	}

	utils.SuccessResponse(c, "Expired subscriptions swept", gin.H{"swept": swept})
}

func (h *SubscriptionHandler) subscriptionError(c *gin.Context, err error, code string) {
	switch {
	case errors.Is(err, services.ErrNotSubscriptionOwner):
		utils.ForbiddenResponse(c)
	case errors.Is(err, models.ErrSubscriptionNotActive),
		errors.Is(err, models.ErrInsufficientCredits),
		errors.Is(err, models.ErrNoSkipCredits),
		errors.Is(err, models.ErrVendorSwitchUsed):
		utils.ConflictResponse(c, err.Error())
	default:
		utils.ErrorResponse(c, http.StatusInternalServerError, code, err.Error())
	}
}
