package assessment

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"readiness-backend/internal/questionnaire"
	"readiness-backend/internal/reports"
	"readiness-backend/internal/responses"
	"readiness-backend/internal/shared/server/middleware"
	"readiness-backend/internal/shared/server/respond"
)

// maxSessionBytes bounds request bodies; a full session is a few KB.
const maxSessionBytes = 1 << 20

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches assessment routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/assessments", h.assess)
	rg.POST("/assessments/score", h.score)
	rg.POST("/assessments/aggregate", h.aggregate)
	rg.GET("/questionnaire", h.questionnaire)
}

type validationDetail struct {
	Index int    `json:"index"`
	Field string `json:"field"`
	Issue string `json:"issue"`
}

func (h *Handler) assess(c *gin.Context) {
	req, ok := bindRequest(c)
	if !ok {
		return
	}
	out, err := h.Svc.Assess(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Set(middleware.AssessmentIDKey, out.ID)
	if out.ReportID != "" {
		c.Set(middleware.ReportIDKey, out.ReportID)
	}
	respond.Created(c, out)
}

func (h *Handler) score(c *gin.Context) {
	req, ok := bindRequest(c)
	if !ok {
		return
	}
	res, err := h.Svc.ScoreCategories(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, res)
}

func (h *Handler) aggregate(c *gin.Context) {
	req, ok := bindRequest(c)
	if !ok {
		return
	}
	res, err := h.Svc.AggregateOpen(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, res)
}

func (h *Handler) questionnaire(c *gin.Context) {
	respond.OK(c, questionnaire.Default())
}

func bindRequest(c *gin.Context) (Request, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSessionBytes)
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "invalid request body", err.Error())
		return Request{}, false
	}
	return req, true
}

func writeError(c *gin.Context, err error) {
	var verr *responses.ValidationError
	var ierr *responses.InsufficientDataError
	switch {
	case errors.As(err, &verr):
		respond.Error(c, http.StatusUnprocessableEntity, "validation_error", verr.Error(), []validationDetail{{
			Index: verr.Index,
			Field: verr.Field,
			Issue: verr.Reason,
		}})
	case errors.As(err, &ierr):
		respond.Error(c, http.StatusUnprocessableEntity, "insufficient_data", ierr.Error(), gin.H{
			"component": ierr.Component,
			"need":      ierr.Need,
			"got":       ierr.Got,
		})
	case errors.Is(err, reports.ErrInvalidInput):
		respond.Error(c, http.StatusInternalServerError, "storage_error", "failed to store report", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "assessment failed", nil)
	}
}
