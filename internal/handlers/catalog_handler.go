package handlers

import (
	"net/http"

	"tiffinhub/internal/models"
	"tiffinhub/internal/services"
	"tiffinhub/internal/utils"
	"tiffinhub/internal/validators"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CatalogHandler serves subscription plans and promotions: the public
// browse surface plus the admin management endpoints.
type CatalogHandler struct {
	planService  services.PlanService
	promoService services.PromotionService
}

func NewCatalogHandler(planService services.PlanService, promoService services.PromotionService) *CatalogHandler {
	return &CatalogHandler{
		planService:  planService,
		promoService: promoService,
	}
}

func (h *CatalogHandler) ListPlans(c *gin.Context) {
	category := models.SubscriptionCategory(c.Query("category"))

	params := utils.GetPaginationParams(c)
	plans, total, err := h.planService.ListActivePlans(c.Request.Context(), category, params)
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "PLAN_LIST_FAILED", "Failed to list plans: "+err.Error())
		return
	}

	utils.SuccessResponseWithMeta(c, "Plans retrieved successfully", plans, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
	})
}

func (h *CatalogHandler) GetPlan(c *gin.Context) {
	planID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid plan ID")
		return
	}

	plan, err := h.planService.GetPlan(c.Request.Context(), planID)
	if err != nil {
		utils.NotFoundResponse(c, "Plan")
		return
	}

	utils.SuccessResponse(c, "Plan retrieved successfully", plan)
}

func (h *CatalogHandler) CreatePlan(c *gin.Context) {
	var request validators.PlanCreateRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if errs := validators.ValidatePlanCreate(&request); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.ToMap())
		return
	}

	plan, err := h.planService.CreatePlan(c.Request.Context(), &request)
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "PLAN_CREATE_FAILED", "Failed to create plan: "+err.Error())
		return
	}

	utils.CreatedResponse(c, "Plan created successfully", plan)
}

func (h *CatalogHandler) UpdatePlan(c *gin.Context) {
	planID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid plan ID")
		return
	}

	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	plan, err := h.planService.UpdatePlan(c.Request.Context(), planID, updates)
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "PLAN_UPDATE_FAILED", "Failed to update plan: "+err.Error())
		return
	}

	utils.SuccessResponse(c, "Plan updated successfully", plan)
}

func (h *CatalogHandler) CreatePromotion(c *gin.Context) {
	var request validators.PromotionCreateRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if errs := validators.ValidatePromotionCreate(&request); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.ToMap())
		return
	}

	promotion, err := h.promoService.CreatePromotion(c.Request.Context(), &request)
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "PROMOTION_CREATE_FAILED", "Failed to create promotion: "+err.Error())
		return
	}

	utils.CreatedResponse(c, "Promotion created successfully", promotion)
}

func (h *CatalogHandler) ListPromotions(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	promotions, total, err := h.promoService.ListPromotions(c.Request.Context(), params)
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "PROMOTION_LIST_FAILED", "Failed to list promotions: "+err.Error())
		return
	}

	utils.SuccessResponseWithMeta(c, "Promotions retrieved successfully", promotions, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
	})
}
