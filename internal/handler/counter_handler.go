package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/Kosench/go-article-counter/internal/errors"
	"github.com/Kosench/go-article-counter/internal/model"
	"github.com/Kosench/go-article-counter/internal/service"
	"github.com/Kosench/go-article-counter/internal/utils"
)

// CounterService is the part of service.CounterService the handler needs.
type CounterService interface {
	Handle(ctx context.Context, req service.CounterRequest) (*model.CounterResponse, error)
}

type CounterHandler struct {
	counterService CounterService
}

func NewCounterHandler(counterService CounterService) *CounterHandler {
	return &CounterHandler{
		counterService: counterService,
	}
}

// Counter serves every method on the counter endpoint:
//
//	GET  ?slug=k              views+1
//	POST ?slug=k&action=like  likes+1
//	OPTIONS                   preflight, empty 204
//	anything else             current counts
func (h *CounterHandler) Counter(c *gin.Context) {
	if c.Request.Method == http.MethodOptions {
		setCORSHeaders(c)
		c.Status(http.StatusNoContent)
		return
	}

	req := service.CounterRequest{
		Action: service.ActionView,
		Verb:   verbFromMethod(c.Request.Method),
	}

	if slug, ok := utils.SingleValue(c.QueryArray("slug")); ok {
		req.Slug = &slug
	}
	if action, ok := utils.SingleValue(c.QueryArray("action")); ok {
		req.Action = action
	}

	response, err := h.counterService.Handle(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// handleError maps service errors to status codes.
func (h *CounterHandler) handleError(c *gin.Context, err error) {
	if validationErr := apperrors.GetValidationError(err); validationErr != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Error: validationErr.Message,
		})
		return
	}

	if apperrors.IsStoreUnavailable(err) {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Error:   "internal server error",
			Message: apperrors.GetBusinessError(err).Detail(),
		})
		return
	}

	c.JSON(http.StatusInternalServerError, model.ErrorResponse{
		Error:   "internal server error",
		Message: "An unexpected error occurred",
	})
}

func verbFromMethod(method string) service.Verb {
	switch method {
	case http.MethodGet:
		return service.VerbRead
	case http.MethodPost:
		return service.VerbSubmit
	default:
		return service.VerbOther
	}
}

// setCORSHeaders covers preflights sent without an Origin header, which the
// CORS middleware passes through untouched. Allow-Origin is left to the router.
func setCORSHeaders(c *gin.Context) {
	h := c.Writer.Header()
	h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type")
	h.Set("Access-Control-Max-Age", "86400")
}
