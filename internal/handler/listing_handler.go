package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"apartment-search/internal/filter"
	"apartment-search/internal/logger"
	"apartment-search/internal/model"
	"apartment-search/internal/repository"
	"apartment-search/internal/service"
)

const testApartmentsLimit = 10

// ListingHandler serves the read-only apartment search API.
type ListingHandler struct {
	Search   *service.SearchService
	Compiler *filter.Compiler
	Log      *slog.Logger
}

func (h *ListingHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.Health)

	api := r.Group("/api")
	api.GET("/results", h.GetResults)
	api.GET("/test-apartments", h.GetTestApartments)
	api.GET("/apartments", h.GetApartments)
	api.GET("/apartments/:id", h.GetApartmentByID)
}

// GET /api/results?name=&state=&bed=&bath=&page=&size=&sortBy=&order=
func (h *ListingHandler) GetResults(c *gin.Context) {
	plan := h.Compiler.Compile(filter.ParseValues(c.Request.URL.Query()))

	page, err := h.Search.Execute(c.Request.Context(), plan)
	if err != nil {
		h.fail(c, err)
		return
	}

	rows := toLegacyRows(page.Rows)
	c.JSON(http.StatusOK, gin.H{
		"ok":            true,
		"source":        page.Source,
		"rows":          rows,
		"results":       rows,
		"totalElements": page.TotalCount,
		"totalPages":    page.TotalPages,
		"page":          page.Page,
		"size":          page.PageSize,
	})
}

// GET /api/test-apartments
func (h *ListingHandler) GetTestApartments(c *gin.Context) {
	zero, size := 0, testApartmentsLimit
	plan := h.Compiler.Compile(model.FilterCriteria{Page: &zero, Size: &size})

	page, err := h.Search.Execute(c.Request.Context(), plan)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ok":     true,
		"source": page.Source,
		"rows":   toLegacyRows(page.Rows),
	})
}

// GET /api/apartments?q=&state=&bed=&bath=&page=&size=&sortBy=&order=
// Always paginated; page defaults to 0.
func (h *ListingHandler) GetApartments(c *gin.Context) {
	criteria := filter.ParseValues(c.Request.URL.Query())
	if criteria.Page == nil {
		zero := 0
		criteria.Page = &zero
	}
	plan := h.Compiler.Compile(criteria)

	page, err := h.Search.Execute(c.Request.Context(), plan)
	if err != nil {
		h.log(c).Error("apartments query failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
		return
	}
	c.JSON(http.StatusOK, newApartmentPage(page))
}

// GET /api/apartments/:id
func (h *ListingHandler) GetApartmentByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "apartment not found"})
		return
	}

	l, _, err := h.Search.Get(c.Request.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "apartment not found"})
		return
	}
	if err != nil {
		h.log(c).Error("apartment lookup failed", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	c.JSON(http.StatusOK, newApartmentDTO(*l))
}

// GET /health
func (h *ListingHandler) Health(c *gin.Context) {
	mode := h.Search.Mode()
	status := "ok"
	if mode != model.SourceDB {
		status = "degraded"
	}
	c.JSON(http.StatusOK, gin.H{"status": status, "source": mode})
}

// fail writes the legacy error envelope. The cause is logged, never returned.
func (h *ListingHandler) fail(c *gin.Context, err error) {
	h.log(c).Error("search failed", "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{
		"ok":     false,
		"source": h.Search.Mode(),
		"error":  "search failed",
	})
}

func (h *ListingHandler) log(c *gin.Context) *slog.Logger {
	base := h.Log
	if base == nil {
		base = slog.Default()
	}
	return logger.FromContext(c.Request.Context(), base)
}
