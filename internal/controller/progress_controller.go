package controller

import (
	"tutor_backend/internal/model"
	"tutor_backend/internal/service"
	"tutor_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	progressService    *service.ProgressService
	leaderboardService *service.LeaderboardService
}

func NewProgressController(progressService *service.ProgressService, leaderboardService *service.LeaderboardService) *ProgressController {
	return &ProgressController{
		progressService:    progressService,
		leaderboardService: leaderboardService,
	}
}

type ProgressResponse struct {
	Progress    *model.Progress          `json:"progress"`
	Leaderboard []model.LeaderboardEntry `json:"leaderboard"`
}

// GetProgress 学习进度与排行榜
// @Summary 获取学习进度
// @Description 重新计算学生进度，并返回排行榜前 50 名
// @Tags Progress
// @Produce json
// @Security ApiKeyAuth
// @Param studentId path string true "学生ID"
// @Success 200 {object} util.Response{data=ProgressResponse}
// @Failure 403 {object} util.Response
// @Router /api/progress/{studentId} [get]
func (c *ProgressController) GetProgress(ctx *gin.Context) {
	studentID := ctx.Param("studentId")
	if studentID == "" {
		util.HandleError(ctx, util.ErrMissingStudentID)
		return
	}

	progress, err := c.progressService.RecomputeProgress(ctx.Request.Context(), studentID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	leaderboard, err := c.leaderboardService.GetLeaderboard(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, ProgressResponse{
		Progress:    progress,
		Leaderboard: service.TopN(leaderboard, service.LeaderboardPageSize),
	})
}
