// Package handler exposes the public listings endpoints: search, map view,
// category taxonomy, and the two submission channels.
package handler

import (
	"net/http"

	"storescout_backend/internal/geo"
	"storescout_backend/internal/listings/domain"
	"storescout_backend/internal/listings/service"
	"storescout_backend/internal/listings/transport"
	"storescout_backend/platform/apperr"
	"storescout_backend/platform/httpkit"
	"storescout_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

var errBothCoordinates = apperr.Validation("lat and lon must be supplied together")

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func NewHandler(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Search handles GET /api/v1/listings/search.
func (h *Handler) Search(c *gin.Context) {
	var req transport.SearchListingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid query parameters", nil)
		return
	}

	criteria, err := buildCriteria(req)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	resp, err := h.svc.Search(c.Request.Context(), criteria)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

// MapView handles GET /api/v1/listings/map.
func (h *Handler) MapView(c *gin.Context) {
	resp, err := h.svc.MapView(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

// Categories handles GET /api/v1/listings/categories.
func (h *Handler) Categories(c *gin.Context) {
	httpkit.OK(c, gin.H{"categories": domain.Categories()})
}

// SubmitStore handles POST /api/v1/listings/stores.
func (h *Handler) SubmitStore(c *gin.Context) {
	var req transport.SubmitStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	resp, err := h.svc.SubmitStore(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, resp)
}

// SubmitTip handles POST /api/v1/listings/tips.
func (h *Handler) SubmitTip(c *gin.Context) {
	var req transport.SubmitTipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	resp, err := h.svc.SubmitTip(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, resp)
}

// buildCriteria translates loose query parameters into service criteria.
// lat/lon must arrive as a pair.
func buildCriteria(req transport.SearchListingsRequest) (service.Criteria, error) {
	criteria := service.Criteria{
		Query:       req.Query,
		Category:    req.Category,
		StoreType:   req.StoreType,
		MinDiscount: req.MinDiscount,
		Near:        req.Near,
	}
	if req.MaxDistanceMiles != nil {
		criteria.MaxDistanceMiles = *req.MaxDistanceMiles
	}
	if req.Limit != nil {
		criteria.Limit = *req.Limit
	}
	if req.ActiveOnly != nil {
		criteria.IncludeExpired = !*req.ActiveOnly
	}
	if req.IncludeTips != nil {
		criteria.IncludeTips = *req.IncludeTips
	}
	if (req.Latitude == nil) != (req.Longitude == nil) {
		return service.Criteria{}, errBothCoordinates
	}
	if req.Latitude != nil && req.Longitude != nil {
		criteria.Origin = &geo.Point{Lat: *req.Latitude, Lon: *req.Longitude}
	}
	return criteria, nil
}
