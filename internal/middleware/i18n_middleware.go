package middleware

import (
	"github.com/gin-gonic/gin"

	"localehub-go/constant"
	"localehub-go/internal/i18n"
	"localehub-go/internal/service"
)

// I18nMiddleware 按优先级解析本次请求的 locale 并注入请求上下文
// 优先级：cookie 偏好 -> Redis 偏好 -> Accept-Language -> 配置默认值
func I18nMiddleware(reg *i18n.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		cfg := reg.Config()

		locale := ""
		if cfg.UseLocalStorage {
			if v, err := c.Cookie(constant.LocaleCookie); err == nil && v != "" {
				locale = v
			}
			if locale == "" {
				if cid, err := c.Cookie(constant.ClientIDCookie); err == nil && cid != "" {
					locale = service.GetLocalePreference(cid)
				}
			}
		}

		if locale == "" && cfg.BaseNavigator {
			locale = reg.MatchAcceptLanguage(c.GetHeader("Accept-Language"))
		}

		if locale == "" {
			locale = reg.DefaultLocale()
		}

		c.Header("Content-Language", locale)
		c.Request = c.Request.WithContext(i18n.NewContext(c.Request.Context(), reg, locale))
		c.Next()
	}
}
