package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ostrends/trends/app/projects"
)

func NewHandler(pipeline PipelineService, categories []projects.Category) *Handler {
	return &Handler{
		pipeline:   pipeline,
		categories: categories,
	}
}

// GetProjects serves the committed ranked list. Changing the sort mode
// re-sorts in place without refetching or rescoring; category filtering and
// the limit are applied after sorting.
func (h *Handler) GetProjects(c *gin.Context) {
	mode, err := projects.ParseSortMode(c.Query("sort"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	list := h.pipeline.SortBy(mode)
	list = projects.FilterByCategory(list, c.Query("category"))

	if limitParam := c.Query("limit"); limitParam != "" {
		limit, err := strconv.Atoi(limitParam)
		if err != nil || limit < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
			return
		}
		if limit < len(list) {
			list = list[:limit]
		}
	}

	c.Header("X-Sort-Mode", string(mode))
	c.JSON(http.StatusOK, gin.H{
		"projects":     list,
		"total":        len(list),
		"sort":         string(mode),
		"last_updated": h.pipeline.LastRefreshDate(),
	})
}

func (h *Handler) GetCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"categories": projects.CategoryNames(h.categories),
	})
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp":    time.Now().In(time.Local).Format(time.RFC3339),
		"projects":     len(h.pipeline.Projects()),
		"last_updated": h.pipeline.LastRefreshDate(),
	}

	c.JSON(http.StatusOK, health)
}

// APIRefreshProjects forces a refresh run. The pipeline's daily gate still
// applies, so a same-day call is a cheap no-op. On failure with stale data
// available the response carries the list's age and a warning instead of
// an error status; with no data at all the failure surfaces as 502.
func (h *Handler) APIRefreshProjects(c *gin.Context) {
	err := h.pipeline.Refresh(c.Request.Context())
	if err != nil {
		slog.Error("Refresh request failed", "error", err)

		if count := len(h.pipeline.Projects()); count > 0 {
			c.JSON(http.StatusOK, gin.H{
				"success":      false,
				"warning":      err.Error(),
				"projects":     count,
				"last_updated": h.pipeline.LastRefreshDate(),
			})
			return
		}

		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"projects":     len(h.pipeline.Projects()),
		"last_updated": h.pipeline.LastRefreshDate(),
	})
}
