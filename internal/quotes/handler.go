package quotes

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"donezo_backend/platform/httpkit"
	"donezo_backend/platform/validator"
)

// Handler serves quote request submission and the admin listing.
type Handler struct {
	repo     *Repository
	validate *validator.Validator
}

// NewHandler creates a new quotes handler.
func NewHandler(repo *Repository, validate *validator.Validator) *Handler {
	return &Handler{repo: repo, validate: validate}
}

// Create handles POST /api/v1/quotes. Public, no auth.
func (h *Handler) Create(c *gin.Context) {
	var req CreateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	id, err := h.repo.Create(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, gin.H{"quoteId": id})
}

// List handles GET /api/v1/admin/quotes.
func (h *Handler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	requests, err := h.repo.List(c.Request.Context(), limit, offset)
	if httpkit.HandleError(c, err) {
		return
	}

	out := make([]QuoteResponse, 0, len(requests))
	for _, q := range requests {
		out = append(out, toQuoteResponse(q))
	}

	httpkit.OK(c, gin.H{"quotes": out, "total": len(out)})
}
