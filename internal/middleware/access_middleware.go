package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"localehub-go/internal/i18n"
)

const deniedPage = `<!DOCTYPE html>
<html>
<head><title>403</title></head>
<body>
<h1>403</h1>
<p>%s</p>
</body>
</html>
`

// AccessGuardMiddleware 对配置的拒绝路径直接返回 403 页面
// 拒绝文案走消息查找，按当前请求 locale 渲染
// 必须挂在 I18nMiddleware 之后
func AccessGuardMiddleware(deniedPaths []string) gin.HandlerFunc {
	denied := make(map[string]struct{}, len(deniedPaths))
	for _, p := range deniedPaths {
		denied[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := denied[c.Request.URL.Path]; !ok {
			c.Next()
			return
		}

		zap.L().Info("Access denied",
			zap.String("path", c.Request.URL.Path),
			zap.String("client_ip", c.ClientIP()),
		)

		msg := i18n.T(c.Request.Context(), "access.denied", nil)
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusForbidden, deniedPage, msg)
		c.Abort()
	}
}
