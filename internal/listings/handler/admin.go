package handler

import (
	"net/http"

	"storescout_backend/internal/listings/service"
	"storescout_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AdminHandler exposes the review queue and approval decisions. Routes are
// mounted behind the admin key middleware.
type AdminHandler struct {
	svc *service.Service
}

func NewAdminHandler(svc *service.Service) *AdminHandler {
	return &AdminHandler{svc: svc}
}

// PendingReview handles GET /api/v1/admin/listings/pending.
func (h *AdminHandler) PendingReview(c *gin.Context) {
	resp, err := h.svc.PendingReview(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

// Approve handles POST /api/v1/admin/listings/:kind/:id/approve.
func (h *AdminHandler) Approve(c *gin.Context) {
	kind, id, ok := parseTarget(c)
	if !ok {
		return
	}
	if httpkit.HandleError(c, h.svc.Approve(c.Request.Context(), kind, id)) {
		return
	}
	httpkit.OK(c, gin.H{"status": "approved"})
}

// Reject handles POST /api/v1/admin/listings/:kind/:id/reject.
func (h *AdminHandler) Reject(c *gin.Context) {
	kind, id, ok := parseTarget(c)
	if !ok {
		return
	}
	if httpkit.HandleError(c, h.svc.Reject(c.Request.Context(), kind, id)) {
		return
	}
	httpkit.OK(c, gin.H{"status": "rejected"})
}

func parseTarget(c *gin.Context) (string, uuid.UUID, bool) {
	kind := c.Param("kind")
	if kind != "stores" && kind != "tips" {
		httpkit.Error(c, http.StatusBadRequest, "kind must be 'stores' or 'tips'", nil)
		return "", uuid.Nil, false
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid listing id", nil)
		return "", uuid.Nil, false
	}
	return kind, id, true
}
