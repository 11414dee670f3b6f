package handler

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"reflect"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"localehub-go/constant"
	"localehub-go/internal/apperrors"
	"localehub-go/internal/dto"
	"localehub-go/internal/i18n"
	"localehub-go/internal/service"
	"localehub-go/response"
)

// cookie 有效期（秒），一年
const localeCookieMaxAge = 365 * 24 * 3600

// ListLocalesHandler 返回所有已知 locale key（GET /api/locales）
func ListLocalesHandler(reg *i18n.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		locales := reg.GetAllLocales()
		c.JSON(http.StatusOK, response.OK(locales, "success"))
	}
}

// AddLocaleHandler 动态注册语言包（POST /api/locales）
func AddLocaleHandler(reg *i18n.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.AddLocaleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			// 检查错误是否为 ValidationErrors 类型
			if validationErrs, ok := err.(validator.ValidationErrors); ok {
				for _, e := range validationErrs {
					// 通过反射获取字段的 msg 标签值
					field, ok := reflect.TypeOf(req).FieldByName(e.Field())
					if !ok {
						_ = c.Error(apperrors.InvalidRequestErrorDefault())
						return
					}

					customMsg := field.Tag.Get("msg")
					if customMsg != "" {
						_ = c.Error(apperrors.InvalidRequestError(customMsg))
						return
					}
				}
			}
			_ = c.Error(apperrors.InvalidRequestErrorDefault())
			return
		}

		if err := service.AddLocale(reg, req); err != nil {
			zap.L().Warn("Locale registration failed",
				zap.Error(err),
				zap.String("locale", req.Locale),
			)
			_ = c.Error(err)
			return
		}

		zap.L().Info("Locale registered",
			zap.String("locale", req.Locale),
			zap.Int("message_count", len(req.Messages)),
		)
		c.JSON(http.StatusOK, response.OK(struct{}{}, i18n.T(c.Request.Context(), "locale.registered", nil)))
	}
}

// GetLocaleHandler 返回本次请求解析出的 locale（GET /api/locale）
// antd 开关打开时附带注册时携带的 UI 组件库语言包
func GetLocaleHandler(reg *i18n.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		locale := i18n.GetLocale(c.Request.Context())

		data := gin.H{"locale": locale}
		if reg.Config().Antd {
			if opts, ok := reg.Options(locale); ok && opts.Components != nil {
				data["components"] = opts.Components
			}
		}

		c.JSON(http.StatusOK, response.Localized(data, "success", locale))
	}
}

// SetLocaleHandler 切换当前语言（PUT /api/locale）
// realReload 缺省为 true：响应告知客户端整页刷新以保证界面一致
func SetLocaleHandler(reg *i18n.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.SetLocaleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			zap.L().Warn("Request body binding failed",
				zap.Error(err),
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
			)
			_ = c.Error(apperrors.InvalidRequestErrorDefault())
			return
		}

		effective, err := service.SetLocale(reg, req.Locale)
		if err != nil {
			_ = c.Error(err)
			return
		}

		realReload := true
		if req.RealReload != nil {
			realReload = *req.RealReload
		}

		if reg.Config().UseLocalStorage {
			c.SetCookie(constant.LocaleCookie, effective, localeCookieMaxAge, "/", "", false, false)

			cid, cookieErr := c.Cookie(constant.ClientIDCookie)
			if cookieErr != nil || cid == "" {
				cid = newClientID()
				c.SetCookie(constant.ClientIDCookie, cid, localeCookieMaxAge, "/", "", false, true)
			}
			service.SaveLocalePreference(cid, effective)
		}

		data := gin.H{
			"locale": effective,
			"reload": realReload,
		}
		msg := i18n.FormatMessage(c.Request.Context(), "locale.switched", "Locale switched", nil)
		c.JSON(http.StatusOK, response.Localized(data, msg, effective))
	}
}

// TranslateHandler 消息查找与插值（POST /api/translate）
// 缺失翻译永不报错：退回调用方默认值，再退回字面 id
func TranslateHandler(reg *i18n.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.TranslateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			_ = c.Error(apperrors.InvalidRequestErrorDefault())
			return
		}

		locale := i18n.GetLocale(c.Request.Context())
		msg := reg.FormatMessage(locale, req.ID, req.DefaultMessage, req.Values)

		data := gin.H{
			"id":      req.ID,
			"message": msg,
		}
		c.JSON(http.StatusOK, response.Localized(data, "success", locale))
	}
}

// 生成客户端标识（16 字节随机数的 hex 编码）
func newClientID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return ""
	}
	return hex.EncodeToString(buf)
}
