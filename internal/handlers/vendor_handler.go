package handlers

import (
	"net/http"

	"tiffinhub/internal/services"
	"tiffinhub/internal/utils"
	"tiffinhub/internal/validators"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type VendorHandler struct {
	vendorService services.VendorService
	reviewService services.ReviewService
}

func NewVendorHandler(vendorService services.VendorService, reviewService services.ReviewService) *VendorHandler {
	return &VendorHandler{
		vendorService: vendorService,
		reviewService: reviewService,
	}
}

func (h *VendorHandler) CreateVendor(c *gin.Context) {
	var request validators.VendorCreateRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if errs := validators.ValidateVendorCreate(&request); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.ToMap())
		return
	}

	vendor, err := h.vendorService.CreateVendor(c.Request.Context(), &request)
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "VENDOR_CREATE_FAILED", "Failed to create vendor: "+err.Error())
		return
	}

	utils.CreatedResponse(c, "Vendor onboarded successfully", vendor)
}

func (h *VendorHandler) UpdateVendor(c *gin.Context) {
	vendorID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid vendor ID")
		return
	}

	var request validators.VendorUpdateRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if errs := validators.ValidateVendorUpdate(&request); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.ToMap())
		return
	}

	vendor, err := h.vendorService.UpdateVendor(c.Request.Context(), vendorID, &request)
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "VENDOR_UPDATE_FAILED", "Failed to update vendor: "+err.Error())
		return
	}

	utils.SuccessResponse(c, "Vendor updated successfully", vendor)
}

func (h *VendorHandler) GetVendor(c *gin.Context) {
	vendorID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid vendor ID")
		return
	}

	vendor, err := h.vendorService.GetVendor(c.Request.Context(), vendorID)
	if err != nil {
		utils.NotFoundResponse(c, "Vendor")
		return
	}

	utils.SuccessResponse(c, "Vendor retrieved successfully", vendor)
}

func (h *VendorHandler) ListVendors(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	vendors, total, err := h.vendorService.ListVendors(c.Request.Context(), params)
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "VENDOR_LIST_FAILED", "Failed to list vendors: "+err.Error())
		return
	}

	utils.SuccessResponseWithMeta(c, "Vendors retrieved successfully", vendors, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
	})
}

// ListCustomers is the vendor portal view of currently assigned
// subscriptions.
func (h *VendorHandler) ListCustomers(c *gin.Context) {
	vendorID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid vendor ID")
		return
	}

	params := utils.GetPaginationParams(c)
	subscriptions, total, err := h.vendorService.ListCustomers(c.Request.Context(), vendorID, params)
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "CUSTOMER_LIST_FAILED", "Failed to list customers: "+err.Error())
		return
	}

	utils.SuccessResponseWithMeta(c, "Customers retrieved successfully", subscriptions, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
	})
}

func (h *VendorHandler) GetAnalytics(c *gin.Context) {
	vendorID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid vendor ID")
		return
	}

	analytics, err := h.vendorService.GetAnalytics(c.Request.Context(), vendorID)
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "VENDOR_ANALYTICS_FAILED", "Failed to load vendor analytics: "+err.Error())
		return
	}

	utils.SuccessResponse(c, "Vendor analytics retrieved successfully", analytics)
}

func (h *VendorHandler) ListReviews(c *gin.Context) {
	vendorID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid vendor ID")
		return
	}

	params := utils.GetPaginationParams(c)
	reviews, total, err := h.reviewService.ListVendorReviews(c.Request.Context(), vendorID, params)
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "REVIEW_LIST_FAILED", "Failed to list reviews: "+err.Error())
		return
	}

	utils.SuccessResponseWithMeta(c, "Reviews retrieved successfully", reviews, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
	})
}
