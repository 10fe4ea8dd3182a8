package controller

import (
	"io"
	"tutor_backend/internal/model"
	"tutor_backend/internal/service"
	"tutor_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UploadController struct {
	uploadService *service.UploadService
}

func NewUploadController(uploadService *service.UploadService) *UploadController {
	return &UploadController{uploadService: uploadService}
}

// Upload 上传学习资料
// @Summary 上传资料
// @Description 保存文件并识别文字，识别失败时仍然保存上传记录
// @Tags Upload
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param file formData file true "资料文件 (PDF/图片)"
// @Param studentId formData string true "学生ID"
// @Param subject formData string false "学科"
// @Param topic formData string false "主题"
// @Param subtopic formData string false "子主题"
// @Success 200 {object} util.Response{data=service.UploadResult}
// @Failure 400 {object} util.Response
// @Router /api/upload [post]
func (c *UploadController) Upload(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.HandleError(ctx, util.ErrNoFile)
		return
	}

	// 先按声明大小拦截，避免读入超大文件
	if limit := c.uploadService.MaxBytes; limit > 0 && fileHeader.Size > limit {
		util.HandleError(ctx, util.ErrFileTooLarge)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	result, err := c.uploadService.Upload(ctx.Request.Context(), service.UploadInput{
		StudentID: ctx.PostForm("studentId"),
		FileName:  fileHeader.Filename,
		MimeType:  fileHeader.Header.Get("Content-Type"),
		Data:      data,
		Classification: model.Classification{
			Subject:  model.OptionalString(ctx.PostForm("subject")),
			Topic:    model.OptionalString(ctx.PostForm("topic")),
			Subtopic: model.OptionalString(ctx.PostForm("subtopic")),
		},
	})
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, result)
}
