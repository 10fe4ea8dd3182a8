package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"tutor_backend/internal/util"
	"tutor_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthMiddleware 校验 Bearer 令牌，令牌的 sub 即学生 ID
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			util.Unauthorized(c, "UNAUTHORIZED", "No authorization header or invalid format")
			c.Abort()
			return
		}

		claims, err := util.ParseJWT(strings.TrimPrefix(authHeader, "Bearer "), secret)
		if err != nil || claims.Subject == "" {
			logger.Log.Debug("JWT validation failed", zap.Error(err))
			util.Unauthorized(c, "INVALID_TOKEN", "Invalid JWT token")
			c.Abort()
			return
		}

		c.Set("user", claims)
		c.Next()
	}
}

// OwnershipMiddleware 请求体、路径参数、查询参数中出现的 studentId 必须全部与令牌中的学生一致，
// 至少要出现一处。
func OwnershipMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := util.GetUserFromContext(c)
		if claims == nil {
			util.Unauthorized(c, "UNAUTHORIZED", "Authentication required")
			c.Abort()
			return
		}

		ids := requestStudentIDs(c)
		if len(ids) == 0 {
			util.HandleError(c, util.ErrMissingStudentID)
			c.Abort()
			return
		}

		for _, id := range ids {
			if id != claims.Subject {
				logger.Log.Warn("Student ID does not match token",
					zap.String("subject", claims.Subject),
					zap.String("requested", id),
					zap.String("path", c.FullPath()))
				util.HandleError(c, util.ErrAccessDenied)
				c.Abort()
				return
			}
		}

		c.Next()
	}
}

// requestStudentIDs 收集所有非空的 studentId，处理器无论读哪一处都已校验过
func requestStudentIDs(c *gin.Context) []string {
	var ids []string
	for _, id := range []string{bodyStudentID(c), c.Param("studentId"), c.Query("studentId")} {
		if id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// bodyStudentID 读取 JSON 或 multipart 表单中的 studentId，JSON 请求体读取后原样放回
func bodyStudentID(c *gin.Context) string {
	if c.Request.Body == nil {
		return ""
	}

	contentType := c.ContentType()
	switch {
	case contentType == gin.MIMEJSON:
		data, err := io.ReadAll(c.Request.Body)
		if err != nil {
			return ""
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(data))

		var body struct {
			StudentID string `json:"studentId"`
		}
		if err := json.Unmarshal(data, &body); err != nil {
			return ""
		}
		return body.StudentID
	case contentType == gin.MIMEMultipartPOSTForm:
		return c.PostForm("studentId")
	}
	return ""
}
