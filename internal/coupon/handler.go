package coupon

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"coupon-api/internal/logger"
)

// Handler serves coupon CRUD. It trusts whatever middleware runs in front
// of it and does no authentication of its own.
type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/coupon", h.list)
	r.GET("/coupon/id/:id", h.getByID)
	r.GET("/coupon/code/:code", h.getByCode)
	r.POST("/coupon", h.create)
	r.PATCH("/coupon/id/:id", h.update)
	r.DELETE("/coupon/id/:id", h.deleteByID)
	r.DELETE("/coupon/code/:code", h.deleteByCode)
}

func (h *Handler) list(c *gin.Context) {
	coupons, err := h.repo.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	out := make([]Response, 0, len(coupons))
	for _, cp := range coupons {
		out = append(out, ToResponse(cp))
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) getByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	cp, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ToResponse(cp))
}

func (h *Handler) getByCode(c *gin.Context) {
	cp, err := h.repo.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ToResponse(cp))
}

func (h *Handler) create(c *gin.Context) {
	var req Request
	if !bind(c, &req) {
		return
	}

	cp, err := h.repo.Create(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, ToResponse(cp))
}

func (h *Handler) update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req Request
	if !bind(c, &req) {
		return
	}

	cp, err := h.repo.Update(c.Request.Context(), id, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ToResponse(cp))
}

func (h *Handler) deleteByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.repo.DeleteByID(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) deleteByCode(c *gin.Context) {
	if err := h.repo.DeleteByCode(c.Request.Context(), c.Param("code")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "coupon not found"})
	case errors.Is(err, ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": "coupon code already exists"})
	default:
		logger.Error("coupon repository failed", map[string]any{
			"error":  err.Error(),
			"method": c.Request.Method,
			"path":   c.FullPath(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func parseID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func bind(c *gin.Context, req *Request) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": describe(err)})
		return false
	}
	return true
}

// describe turns binding errors into a short message without echoing input.
func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "invalid request"
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %s", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return strings.Join(msgs, "; ")
}
