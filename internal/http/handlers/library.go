package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/atlaslearn/atlas-backend/internal/http/response"
	pkgerrors "github.com/atlaslearn/atlas-backend/internal/pkg/errors"
	"github.com/atlaslearn/atlas-backend/internal/services"
)

type LibraryHandler struct {
	libraryService services.LibraryService
}

func NewLibraryHandler(libraryService services.LibraryService) *LibraryHandler {
	return &LibraryHandler{libraryService: libraryService}
}

func (lh *LibraryHandler) IngestDocuments(c *gin.Context) {
	var req struct {
		Documents []services.IngestDocumentInput `json:"documents"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	docs, err := lh.libraryService.IngestDocuments(c.Request.Context(), req.Documents)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrInvalidArgument) {
			response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
			return
		}
		response.RespondError(c, http.StatusInternalServerError, "ingest_failed", err)
		return
	}

	ids := make([]string, len(docs))
	for i, d := range docs {
		ids[i] = d.ID.String()
	}
	response.RespondCreated(c, gin.H{"ingested": len(docs), "document_ids": ids})
}

func (lh *LibraryHandler) Stats(c *gin.Context) {
	stats, err := lh.libraryService.Stats(c.Request.Context())
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "stats_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"documents": stats})
}
