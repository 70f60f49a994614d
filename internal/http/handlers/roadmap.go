package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/atlaslearn/atlas-backend/internal/http/response"
	"github.com/atlaslearn/atlas-backend/internal/pkg/ctxutil"
	pkgerrors "github.com/atlaslearn/atlas-backend/internal/pkg/errors"
	"github.com/atlaslearn/atlas-backend/internal/services"
)

type RoadmapHandler struct {
	roadmapService services.RoadmapService
}

func NewRoadmapHandler(roadmapService services.RoadmapService) *RoadmapHandler {
	return &RoadmapHandler{roadmapService: roadmapService}
}

// Build runs the full pipeline synchronously. A failed build still returns
// 200 with the partial roadmap, a failed status, and the error field; only
// invalid input or storage trouble produce an error response.
func (rh *RoadmapHandler) Build(c *gin.Context) {
	var req struct {
		LearningGoal     string   `json:"learning_goal"`
		SubjectArea      string   `json:"subject_area"`
		InterviewAnswers []string `json:"interview_answers,omitempty"`
		TimePerWeek      float64  `json:"time_per_week,omitempty"`
		Deadline         string   `json:"deadline,omitempty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	in := services.BuildRoadmapInput{
		LearningGoal:     req.LearningGoal,
		SubjectArea:      req.SubjectArea,
		InterviewAnswers: req.InterviewAnswers,
		TimePerWeek:      req.TimePerWeek,
		Deadline:         req.Deadline,
	}
	if rd := ctxutil.GetRequestData(c.Request.Context()); rd != nil {
		in.UserID = rd.UserID
	}

	result, err := rh.roadmapService.BuildRoadmap(c.Request.Context(), in)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrInvalidArgument) {
			response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
			return
		}
		response.RespondError(c, http.StatusInternalServerError, "roadmap_build_failed", err)
		return
	}
	response.RespondOK(c, result)
}

func (rh *RoadmapHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	result, err := rh.roadmapService.GetRoadmap(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrNotFound) {
			response.RespondError(c, http.StatusNotFound, "not_found", err)
			return
		}
		response.RespondError(c, http.StatusInternalServerError, "roadmap_load_failed", err)
		return
	}
	response.RespondOK(c, result)
}

func (rh *RoadmapHandler) List(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", pkgerrors.ErrUnauthorized)
		return
	}
	sessions, err := rh.roadmapService.ListRoadmaps(c.Request.Context(), rd.UserID, 50)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "roadmap_list_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"sessions": sessions})
}
