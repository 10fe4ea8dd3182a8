package util

import (
	"net/http"
	"tutor_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response 统一响应结构
type Response struct {
	Code      int         `json:"code"`
	ErrorCode string      `json:"errorCode,omitempty"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    http.StatusOK,
		Message: "success",
		Data:    data,
	})
}

func Error(c *gin.Context, status int, errorCode, message string) {
	c.JSON(status, Response{
		Code:      status,
		ErrorCode: errorCode,
		Message:   message,
	})
}

func Unauthorized(c *gin.Context, errorCode, message string) {
	Error(c, http.StatusUnauthorized, errorCode, message)
}

func BadRequest(c *gin.Context, errorCode, message string) {
	Error(c, http.StatusBadRequest, errorCode, message)
}

func InternalServerError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
}

// HandleError 错误到 HTTP 响应的唯一转换点。
// 上游依赖（存储、识别、生成）的错误只记录日志，对外返回通用信息。
func HandleError(c *gin.Context, err error) {
	if appErr, ok := AsAppError(err); ok && appErr.Kind != KindUpstream {
		Error(c, appErr.Status, appErr.Code, appErr.Message)
		return
	}
	LogInternalError(c, err)
}

func LogInternalError(c *gin.Context, err error) {
	logger.Log.Error("Internal server error",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	InternalServerError(c)
}
