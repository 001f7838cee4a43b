package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/macrolens/foodcore/internal/domain"
	"github.com/macrolens/foodcore/internal/imageformat"
	"github.com/macrolens/foodcore/internal/usecase"
)

const version = "1.0.0"

// SearchUsecase runs a fused multi-source search
type SearchUsecase interface {
	Search(ctx context.Context, req usecase.SearchRequest) (*domain.SearchResult, error)
}

// BarcodeUsecase resolves a single barcode
type BarcodeUsecase interface {
	Lookup(ctx context.Context, raw string) (*domain.BarcodeResult, error)
}

// AnalysisUsecase turns an uploaded photo into normalized food items
type AnalysisUsecase interface {
	Analyze(ctx context.Context, filename string, data []byte) (*domain.AnalysisResult, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	search   SearchUsecase
	barcode  BarcodeUsecase
	analysis AnalysisUsecase
	logger   *zap.Logger
}

// NewHandler creates a new HTTP handler. Nil services answer 501.
func NewHandler(search SearchUsecase, barcode BarcodeUsecase, analysis AnalysisUsecase, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		search:   search,
		barcode:  barcode,
		analysis: analysis,
		logger:   logger,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "foodcore",
		"version": version,
	})
}

// Search handles GET /search?query=&limit=&sources=
func (h *Handler) Search(c *gin.Context) {
	if h.search == nil {
		notConfigured(c, "Search")
		return
	}

	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter is required"})
		return
	}

	// A non-numeric limit falls back to the default
	limit, _ := strconv.Atoi(c.Query("limit"))

	var sources []string
	if raw := c.Query("sources"); raw != "" {
		sources = strings.Split(raw, ",")
	}

	result, err := h.search.Search(c.Request.Context(), usecase.SearchRequest{
		Query:   query,
		Limit:   limit,
		Sources: sources,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNoValidSources):
			c.JSON(http.StatusBadRequest, gin.H{"error": "No valid sources requested"})
			return
		case errors.Is(err, domain.ErrInvalidRequest):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid search request"})
			return
		}
		h.logger.Error("search failed", zap.String("query", query), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search foods"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// Barcode handles GET /barcode/:code
func (h *Handler) Barcode(c *gin.Context) {
	if h.barcode == nil {
		notConfigured(c, "Barcode lookup")
		return
	}

	code := c.Param("code")
	result, err := h.barcode.Lookup(c.Request.Context(), code)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRequest) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Barcode must contain digits"})
			return
		}
		h.logger.Error("barcode lookup failed", zap.String("barcode", code), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to lookup barcode"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// Analyze handles POST /analyze with a multipart "image" field
func (h *Handler) Analyze(c *gin.Context) {
	if h.analysis == nil {
		notConfigured(c, "Image analysis")
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image file is required"})
		return
	}
	if fileHeader.Size > imageformat.MaxFileSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image exceeds 10MB limit"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read image"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, imageformat.MaxFileSize+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read image"})
		return
	}

	result, err := h.analysis.Analyze(c.Request.Context(), fileHeader.Filename, data)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, result)
	case errors.Is(err, domain.ErrInvalidImage):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrVisionNotConfigured):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Image analysis is not configured"})
	default:
		h.logger.Error("image analysis failed", zap.String("filename", fileHeader.Filename), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to analyze image"})
	}
}

func notConfigured(c *gin.Context, what string) {
	c.JSON(http.StatusNotImplemented, gin.H{"error": what + " not configured"})
}
