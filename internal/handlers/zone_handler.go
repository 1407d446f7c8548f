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

type ZoneHandler struct {
	zoneService services.ZoneService
}

func NewZoneHandler(zoneService services.ZoneService) *ZoneHandler {
	return &ZoneHandler{
		zoneService: zoneService,
	}
}

// CheckAvailability answers whether an address is serviceable. Public, so
// the storefront can gate checkout before login.
func (h *ZoneHandler) CheckAvailability(c *gin.Context) {
	var request validators.AvailabilityCheckRequest
	if err := c.ShouldBindQuery(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if errs := validators.ValidateStruct(&request); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.ToMap())
		return
	}

	availabilityRequest := &services.AvailabilityRequest{
		Pincode:    request.Pincode,
		Category:   models.SubscriptionCategory(request.Category),
		OrderValue: request.OrderValue,
	}
	if request.VendorType != "" {
		vendorType := models.VendorType(request.VendorType)
		availabilityRequest.VendorType = &vendorType
	}
	if request.Latitude != 0 || request.Longitude != 0 {
		availabilityRequest.Point = &models.GeoPoint{Latitude: request.Latitude, Longitude: request.Longitude}
	}

	result, err := h.zoneService.CheckAvailability(c.Request.Context(), availabilityRequest)
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "AVAILABILITY_CHECK_FAILED", "Failed to check availability: "+err.Error())
		return
	}

	utils.SuccessResponse(c, "Availability checked", result)
}

func (h *ZoneHandler) CreateZone(c *gin.Context) {
	var request validators.ZoneCreateRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if errs := validators.ValidateZoneCreate(&request); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.ToMap())
		return
	}

	zone, err := h.zoneService.CreateZone(c.Request.Context(), &request)
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "ZONE_CREATE_FAILED", "Failed to create zone: "+err.Error())
		return
	}

	utils.CreatedResponse(c, "Zone created successfully", zone)
}

func (h *ZoneHandler) UpdateZone(c *gin.Context) {
	zoneID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid zone ID")
		return
	}

	var request validators.ZoneUpdateRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if errs := validators.ValidateZoneUpdate(&request); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.ToMap())
		return
	}

	zone, err := h.zoneService.UpdateZone(c.Request.Context(), zoneID, &request)
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "ZONE_UPDATE_FAILED", "Failed to update zone: "+err.Error())
		return
	}

	utils.SuccessResponse(c, "Zone updated successfully", zone)
}

func (h *ZoneHandler) DeleteZone(c *gin.Context) {
	zoneID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid zone ID")
		return
	}

	if err := h.zoneService.DeleteZone(c.Request.Context(), zoneID); err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "ZONE_DELETE_FAILED", "Failed to delete zone: "+err.Error())
		return
	}

	utils.SuccessResponse(c, "Zone deactivated successfully", nil)
}

func (h *ZoneHandler) GetZone(c *gin.Context) {
	zoneID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid zone ID")
		return
	}

	zone, err := h.zoneService.GetZone(c.Request.Context(), zoneID)
	if err != nil {
		utils.NotFoundResponse(c, "Zone")
		return
	}

	utils.SuccessResponse(c, "Zone retrieved successfully", zone)
}

func (h *ZoneHandler) ListZones(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	zones, total, err := h.zoneService.ListZones(c.Request.Context(), params)
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "ZONE_LIST_FAILED", "Failed to list zones: "+err.Error())
		return
	}

	utils.SuccessResponseWithMeta(c, "Zones retrieved successfully", zones, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
	})
}
