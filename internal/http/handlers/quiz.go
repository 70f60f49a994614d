package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/atlaslearn/atlas-backend/internal/http/response"
	"github.com/atlaslearn/atlas-backend/internal/services"
)

type QuizHandler struct {
	quizService services.QuizService
}

func NewQuizHandler(quizService services.QuizService) *QuizHandler {
	return &QuizHandler{quizService: quizService}
}

func (qh *QuizHandler) Generate(c *gin.Context) {
	var req struct {
		Topic        string `json:"topic"`
		Difficulty   string `json:"difficulty,omitempty"`
		NumQuestions int    `json:"num_questions,omitempty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	quiz, err := qh.quizService.GenerateQuiz(c.Request.Context(), req.Topic, req.Difficulty, req.NumQuestions)
	if err != nil {
		response.RespondAPIError(c, err, http.StatusBadGateway, "quiz_generation_failed")
		return
	}
	response.RespondOK(c, quiz)
}
