package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/airecipes/backend/internal/domain"
	"github.com/airecipes/backend/internal/logger"
	"github.com/airecipes/backend/internal/usecase"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	analysisPendingMessage = "Data prepared for LLM. AI analysis not yet implemented."
	onboardingMessage      = "Profile not found. Please complete onboarding before analyzing products."

	readinessTimeout = 2 * time.Second
)

// ReadinessCheck reports whether a dependency can serve traffic
type ReadinessCheck func(ctx context.Context) error

// Handler holds dependencies for HTTP handlers
type Handler struct {
	products  *usecase.ProductService
	profiles  *usecase.ProfileService
	analysis  *usecase.AnalysisService
	readiness map[string]ReadinessCheck
	log       *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(
	products *usecase.ProductService,
	profiles *usecase.ProfileService,
	analysis *usecase.AnalysisService,
	readiness map[string]ReadinessCheck,
) *Handler {
	return &Handler{
		products:  products,
		profiles:  profiles,
		analysis:  analysis,
		readiness: readiness,
		log:       logger.WithModule("http"),
	}
}

// HealthCheck returns the liveness status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// ReadinessCheck runs every registered dependency check
func (h *Handler) ReadinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	status := http.StatusOK
	checks := make(gin.H, len(h.readiness))
	for name, check := range h.readiness {
		if err := check(ctx); err != nil {
			h.log.Warn("readiness check failed", zap.String("check", name), zap.Error(err))
			checks[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}

	state := "ready"
	if status != http.StatusOK {
		state = "unavailable"
	}
	c.JSON(status, gin.H{"status": state, "checks": checks})
}

// GetProduct handles GET /api/products/:barcode
func (h *Handler) GetProduct(c *gin.Context) {
	product, err := h.products.GetProduct(c.Request.Context(), c.Param("barcode"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// SearchProducts handles GET /api/products/search?q=&page=
func (h *Handler) SearchProducts(c *gin.Context) {
	page := 1
	if raw := c.Query("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorBody("page must be an integer"))
			return
		}
		page = n
	}

	result, err := h.products.SearchProducts(c.Request.Context(), c.Query("q"), page)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// AnalyzeProduct handles GET /api/products/:barcode/analyze
func (h *Handler) AnalyzeProduct(c *gin.Context) {
	ac, err := h.analysis.GatherContext(c.Request.Context(), c.Param("barcode"))
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			c.JSON(http.StatusBadRequest, errorBody(onboardingMessage))
			return
		}
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   analysisPendingMessage,
		"llm_input": usecase.BuildLLMInput(ac),
	})
}

// GetProfile handles GET /api/profile
func (h *Handler) GetProfile(c *gin.Context) {
	profile, err := h.profiles.GetProfile(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// CreateProfile handles POST /api/profile
func (h *Handler) CreateProfile(c *gin.Context) {
	var input domain.ProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, errorBody("invalid JSON payload"))
		return
	}

	profile, err := h.profiles.CreateProfile(c.Request.Context(), input)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, profile)
}

// UpdateProfile handles PUT /api/profile
func (h *Handler) UpdateProfile(c *gin.Context) {
	var input domain.ProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, errorBody("invalid JSON payload"))
		return
	}

	profile, err := h.profiles.UpdateProfile(c.Request.Context(), input)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// DeleteProfile handles DELETE /api/profile
func (h *Handler) DeleteProfile(c *gin.Context) {
	if err := h.profiles.DeleteProfile(c.Request.Context()); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// respondError maps domain errors to HTTP status codes
func (h *Handler) respondError(c *gin.Context, err error) {
	_ = c.Error(err)

	switch {
	case errors.Is(err, domain.ErrInvalidBarcode),
		errors.Is(err, domain.ErrEmptyQuery),
		errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, errorBody(err.Error()))
	case errors.Is(err, domain.ErrProductNotFound):
		c.JSON(http.StatusNotFound, errorBody("Product not found"))
	case errors.Is(err, domain.ErrProfileNotFound):
		c.JSON(http.StatusNotFound, errorBody("Profile not found"))
	case errors.Is(err, domain.ErrProfileExists):
		c.JSON(http.StatusConflict, errorBody("Profile already exists. Use PUT to update."))
	case errors.Is(err, domain.ErrOriginUnavailable),
		errors.Is(err, domain.ErrRateLimited):
		c.JSON(http.StatusServiceUnavailable, errorBody("Product service temporarily unavailable"))
	default:
		h.log.Error("request failed",
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, errorBody("Internal server error"))
	}
}
