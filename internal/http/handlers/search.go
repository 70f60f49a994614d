package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/atlaslearn/atlas-backend/internal/http/response"
	"github.com/atlaslearn/atlas-backend/internal/services"
)

type SearchHandler struct {
	searchService services.SearchService
}

func NewSearchHandler(searchService services.SearchService) *SearchHandler {
	return &SearchHandler{searchService: searchService}
}

// Search handles /api/search/:type where type is pdf, book, or video.
func (sh *SearchHandler) Search(c *gin.Context) {
	var req struct {
		Query   string                 `json:"query"`
		K       int                    `json:"k,omitempty"`
		Filters services.SearchFilters `json:"filters,omitempty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	result, err := sh.searchService.Search(c.Request.Context(), c.Param("type"), req.Query, req.K, req.Filters)
	if err != nil {
		response.RespondAPIError(c, err, http.StatusInternalServerError, "search_failed")
		return
	}
	response.RespondOK(c, result)
}
