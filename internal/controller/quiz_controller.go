package controller

import (
	"tutor_backend/internal/service"
	"tutor_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	quizService *service.QuizService
}

func NewQuizController(quizService *service.QuizService) *QuizController {
	return &QuizController{quizService: quizService}
}

type StartQuizRequest struct {
	StudentID string `json:"studentId"`
	Topic     string `json:"topic"`
}

type SubmitQuizRequest struct {
	QuizID    string `json:"quizId"`
	StudentID string `json:"studentId"`
	Answers   []int  `json:"answers"`
}

// StartQuiz 生成测验
// @Summary 开始测验
// @Description 根据上传资料生成 5 道选择题，可按主题筛选资料
// @Tags Quiz
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body StartQuizRequest true "学生与主题"
// @Success 200 {object} util.Response{data=service.StartQuizResult}
// @Failure 400 {object} util.Response
// @Router /api/quiz/start [post]
func (c *QuizController) StartQuiz(ctx *gin.Context) {
	var req StartQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "INVALID_REQUEST", "Invalid request body")
		return
	}

	result, err := c.quizService.StartQuiz(ctx.Request.Context(), req.StudentID, req.Topic)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, result)
}

// SubmitQuiz 提交测验答案
// @Summary 提交测验
// @Description 批改答案、记录作答并更新进度与排行榜
// @Tags Quiz
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body SubmitQuizRequest true "答案"
// @Success 200 {object} util.Response{data=service.SubmitQuizResult}
// @Failure 400 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/quiz/submit [post]
func (c *QuizController) SubmitQuiz(ctx *gin.Context) {
	var req SubmitQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		// answers 不是整数数组
		util.HandleError(ctx, util.ErrMissingAnswers)
		return
	}

	result, err := c.quizService.SubmitQuiz(ctx.Request.Context(), req.StudentID, req.QuizID, req.Answers)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, result)
}
