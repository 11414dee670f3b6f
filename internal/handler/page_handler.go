package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"localehub-go/internal/i18n"
)

const homePage = `<!DOCTYPE html>
<html>
<head><title>%s</title></head>
<body>
<div class="allow">%s</div>
<p>%s</p>
</body>
</html>
`

// 标题翻译未启用或查不到时的兜底标题
const defaultTitle = "Localehub"

// HomeHandler 渲染首页（GET /）
// title 开关打开时页面标题走路由上配置的消息 id 查找
func HomeHandler(reg *i18n.Registry, titleID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		locale := i18n.GetLocale(ctx)

		title := defaultTitle
		if reg.Config().Title && titleID != "" {
			title = i18n.FormatMessage(ctx, titleID, defaultTitle, nil)
		}

		allow := i18n.FormatMessage(ctx, "page.allow", "Allow access", nil)

		// 数字按 locale 的格式化规则渲染
		count := reg.Printer(locale).Sprintf("%d", len(reg.GetAllLocales()))
		summary := i18n.FormatMessage(ctx, "page.locales", "{{.Count}} locales available",
			map[string]any{"Count": count})

		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, homePage, title, allow, summary)
	}
}
