package reports

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"readiness-backend/internal/shared/server/middleware"
	"readiness-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches report routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/reports/:id", h.get)
	rg.GET("/reports/:id/text", h.text)
}

func (h *Handler) get(c *gin.Context) {
	id := c.Param("id")
	c.Set(middleware.ReportIDKey, id)

	rep, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond.OK(c, toResponse(rep))
}

func (h *Handler) text(c *gin.Context) {
	id := c.Param("id")
	c.Set(middleware.ReportIDKey, id)

	rc, err := h.Svc.Open(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	defer rc.Close()

	body, err := io.ReadAll(rc)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to read report", nil)
		return
	}
	respond.Text(c, http.StatusOK, string(body))
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid report id", nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "report not found", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch report", nil)
	}
}
