package controller

import (
	"tutor_backend/internal/service"
	"tutor_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AskController struct {
	askService *service.AskService
}

func NewAskController(askService *service.AskService) *AskController {
	return &AskController{askService: askService}
}

type AskRequest struct {
	Question  string `json:"question"`
	StudentID string `json:"studentId"`
}

// Ask 基于已上传资料回答问题
// @Summary 资料问答
// @Description 以学生上传资料的识别文本为上下文生成回答，并记录问答
// @Tags Ask
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body AskRequest true "问题内容"
// @Success 200 {object} util.Response{data=service.AskResult}
// @Failure 400 {object} util.Response
// @Failure 403 {object} util.Response
// @Router /api/ask [post]
func (c *AskController) Ask(ctx *gin.Context) {
	var req AskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "INVALID_REQUEST", "Invalid request body")
		return
	}

	result, err := c.askService.Ask(ctx.Request.Context(), req.StudentID, req.Question)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, result)
}
