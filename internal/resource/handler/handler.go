package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/monirportfolio/portfolio-server/internal/resource"
	"github.com/monirportfolio/portfolio-server/internal/resource/service"
	"github.com/monirportfolio/portfolio-server/pkg/logger"
	"github.com/monirportfolio/portfolio-server/pkg/metrics"
)

// Envelope is the response body shared by every resource operation.
// Data is an interface so an empty list still renders as [].
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
}

const internalError = "Internal server error"

// Handler serves one resource kind.
type Handler struct {
	svc  service.Service
	kind resource.Kind
}

func New(svc service.Service) *Handler {
	return &Handler{svc: svc, kind: svc.Kind()}
}

// RegisterResourceRoutes binds the kind's list, create, update and delete paths.
// guard runs before the mutating routes only (e.g. a bearer-token check).
func RegisterResourceRoutes(r gin.IRouter, svc service.Service, guard ...gin.HandlerFunc) {
	h := New(svc)
	k := h.kind
	r.GET(k.ListPath, h.List)
	r.POST(k.CreatePath, chain(guard, h.Create)...)
	r.PATCH(k.ItemPath, chain(guard, h.Update)...)
	r.DELETE(k.ItemPath, chain(guard, h.Delete)...)
}

func chain(guard []gin.HandlerFunc, last gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(guard)+1)
	out = append(out, guard...)
	return append(out, last)
}

// List returns every document of the kind. Store faults are not turned into an
// envelope: the request is aborted with a bare 500 and the error is left on the context.
func (h *Handler) List(c *gin.Context) {
	docs, err := h.svc.List(c.Request.Context())
	if err != nil {
		h.record("list", metrics.OutcomeFailure)
		logger.Errorf("list %s: %v", h.kind.Collection, err)
		_ = c.Error(err)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	h.record("list", metrics.OutcomeSuccess)
	c.JSON(http.StatusOK, Envelope{Success: true, Data: docs, Message: h.kind.ListMessage()})
}

func (h *Handler) Create(c *gin.Context) {
	fields, ok := h.bindFields(c)
	if !ok {
		return
	}
	id, err := h.svc.Create(c.Request.Context(), fields)
	switch {
	case errors.Is(err, service.ErrNotCreated):
		h.record("create", metrics.OutcomeFailure)
		c.JSON(http.StatusInternalServerError, Envelope{Error: h.kind.NotCreatedMessage()})
	case err != nil:
		h.record("create", metrics.OutcomeFailure)
		logger.Errorf("create %s: %v", h.kind.Key, err)
		c.JSON(http.StatusInternalServerError, Envelope{Error: err.Error()})
	default:
		h.record("create", metrics.OutcomeSuccess)
		logger.Debugf("created %s %s", h.kind.Key, id)
		c.JSON(http.StatusOK, Envelope{Success: true, Message: h.kind.CreatedMessage()})
	}
}

func (h *Handler) Update(c *gin.Context) {
	fields, ok := h.bindFields(c)
	if !ok {
		return
	}
	err := h.svc.Update(c.Request.Context(), c.Param("id"), fields)
	switch {
	case errors.Is(err, service.ErrNotFound):
		h.record("update", metrics.OutcomeNotFound)
		c.JSON(http.StatusNotFound, Envelope{Error: h.kind.NotUpdatedMessage()})
	case err != nil:
		h.record("update", metrics.OutcomeFailure)
		logger.Errorf("update %s %s: %v", h.kind.Key, c.Param("id"), err)
		c.JSON(http.StatusInternalServerError, Envelope{Error: internalError})
	default:
		h.record("update", metrics.OutcomeSuccess)
		c.JSON(http.StatusOK, Envelope{Success: true, Message: h.kind.UpdatedMessage()})
	}
}

func (h *Handler) Delete(c *gin.Context) {
	err := h.svc.Delete(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, service.ErrNotFound):
		h.record("delete", metrics.OutcomeNotFound)
		c.JSON(http.StatusNotFound, Envelope{Error: h.kind.NotDeletedMessage()})
	case err != nil:
		h.record("delete", metrics.OutcomeFailure)
		logger.Errorf("delete %s %s: %v", h.kind.Key, c.Param("id"), err)
		c.JSON(http.StatusInternalServerError, Envelope{Error: err.Error()})
	default:
		h.record("delete", metrics.OutcomeSuccess)
		c.JSON(http.StatusOK, Envelope{Success: true, Message: h.kind.DeletedMessage()})
	}
}

// bindFields decodes the body as an open field mapping. An empty body is an
// empty mapping; anything else that is not an object (including null) is a 400.
func (h *Handler) bindFields(c *gin.Context) (resource.Document, bool) {
	var fields resource.Document
	err := c.ShouldBindJSON(&fields)
	switch {
	case errors.Is(err, io.EOF):
		return resource.Document{}, true
	case err != nil, fields == nil:
		c.JSON(http.StatusBadRequest, Envelope{Error: "request body must be a JSON object"})
		return nil, false
	}
	return fields, true
}

func (h *Handler) record(op, outcome string) {
	metrics.ResourceOperations.WithLabelValues(h.kind.Key, op, outcome).Inc()
}
