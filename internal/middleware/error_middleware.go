package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"localehub-go/internal/apperrors"
	"localehub-go/internal/i18n"
	"localehub-go/response"
)

// GlobalErrorMiddleware 全局错误中间件
// AppError.Message 当作消息 id 翻译，查不到时原样返回
func GlobalErrorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// 如果有错误发生
		if len(c.Errors) > 0 {
			ctx := c.Request.Context()
			for _, err := range c.Errors {
				var appErr *apperrors.AppError
				if errors.As(err.Err, &appErr) {
					msg := i18n.FormatMessage(ctx, appErr.Message, appErr.Message, nil)
					c.AbortWithStatusJSON(appErr.Code, response.Error(msg))
					return
				}
			}

			// 默认处理未定义的错误
			msg := i18n.FormatMessage(ctx, "error.internal", "System error", nil)
			c.AbortWithStatusJSON(http.StatusInternalServerError, response.Error(msg))
			return
		}
	}
}
