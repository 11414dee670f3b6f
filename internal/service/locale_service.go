package service

import (
	"encoding/json"
	"net/http"

	"github.com/gomodule/redigo/redis"
	"go.uber.org/zap"

	"localehub-go/constant"
	"localehub-go/internal/apperrors"
	"localehub-go/internal/dto"
	"localehub-go/internal/i18n"
	"localehub-go/internal/model"
	"localehub-go/internal/repository"
	"localehub-go/pkg/utils"
)

// 客户端语言偏好的过期时间（秒），一年
const localePrefTTL = 365 * 24 * 3600

// AddLocale 动态注册语言包：先落库（可用时）再灌入内存注册表
// 同一 locale 重复注册时消息表按 id 合并覆盖
func AddLocale(reg *i18n.Registry, req dto.AddLocaleRequest) error {
	if err := utils.ValidateLocaleKey(req.Locale, reg.Config().BaseSeparator); err != nil {
		return apperrors.BusinessError(http.StatusBadRequest, err.Error())
	}

	if repository.DB != nil {
		if err := persistLocaleBundle(req); err != nil {
			zap.L().Error("Failed to persist locale bundle",
				zap.String("locale", req.Locale),
				zap.Error(err),
			)
			return apperrors.SystemError("error.locale_persist_failed").WithCause(err)
		}
	}

	opts := i18n.Options{
		FormatLocale: req.FormatLocale,
		Components:   req.Components,
	}
	if err := reg.AddLocale(req.Locale, req.Messages, opts); err != nil {
		return apperrors.BusinessError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// persistLocaleBundle 合并落库：已有记录时消息表深合并后更新
func persistLocaleBundle(req dto.AddLocaleRequest) error {
	messages := req.Messages

	var existing model.LocaleBundle
	err := repository.DB.Where("locale = ?", req.Locale).First(&existing).Error
	if err == nil {
		var stored map[string]any
		if existing.Messages != "" {
			if err := json.Unmarshal([]byte(existing.Messages), &stored); err != nil {
				zap.L().Warn("Stored locale bundle is corrupt, overwriting",
					zap.String("locale", req.Locale),
					zap.Error(err),
				)
				stored = nil
			}
		}
		messages = MergeMessages(stored, req.Messages)
	}

	raw, err := json.Marshal(messages)
	if err != nil {
		return err
	}

	var components string
	if req.Components != nil {
		data, err := json.Marshal(req.Components)
		if err != nil {
			return err
		}
		components = string(data)
	}

	if existing.ID == 0 {
		bundle := &model.LocaleBundle{
			Locale:       req.Locale,
			Messages:     string(raw),
			FormatLocale: req.FormatLocale,
			Components:   components,
		}
		return repository.DB.Create(bundle).Error
	}

	existing.Messages = string(raw)
	if req.FormatLocale != "" {
		existing.FormatLocale = req.FormatLocale
	}
	if components != "" {
		existing.Components = components
	}
	return repository.DB.Save(&existing).Error
}

// MergeMessages 深合并两张消息表，src 优先
func MergeMessages(dst, src map[string]any) map[string]any {
	if dst == nil {
		return src
	}
	out := make(map[string]any, len(dst)+len(src))
	for k, v := range dst {
		out[k] = v
	}
	for k, v := range src {
		srcMap, srcOk := v.(map[string]any)
		dstMap, dstOk := out[k].(map[string]any)
		if srcOk && dstOk {
			out[k] = MergeMessages(dstMap, srcMap)
			continue
		}
		out[k] = v
	}
	return out
}

// SetLocale 切换当前语言，返回生效的 locale
// 空 key 重置回默认语言；key 未注册时照常接受，后续查找渲染字面 id
func SetLocale(reg *i18n.Registry, locale string) (string, error) {
	if locale == "" {
		locale = reg.DefaultLocale()
	}

	if err := utils.ValidateLocaleKey(locale, reg.Config().BaseSeparator); err != nil {
		return "", apperrors.BusinessError(http.StatusBadRequest, err.Error())
	}

	if !reg.Has(locale) {
		zap.L().Warn("Switching to unregistered locale, lookups will render literal ids",
			zap.String("locale", locale),
		)
	}

	reg.NotifyChange(locale)
	return locale, nil
}

// SaveLocalePreference 把客户端语言偏好写入 Redis
func SaveLocalePreference(clientID, locale string) {
	if repository.RedisPool == nil || clientID == "" {
		return
	}

	conn := repository.RedisPool.Get()
	defer func() {
		if err := conn.Close(); err != nil {
			zap.L().Warn("Redis connection close failed", zap.Error(err))
		}
	}()

	key := constant.GetLocalePrefKey(clientID)
	if _, err := conn.Do("SET", key, locale, "EX", localePrefTTL); err != nil {
		zap.L().Error("Failed to save locale preference",
			zap.String("key", key),
			zap.String("locale", locale),
			zap.Error(err),
		)
	}
}

// GetLocalePreference 读取客户端语言偏好，没有或出错时返回空串
func GetLocalePreference(clientID string) string {
	if repository.RedisPool == nil || clientID == "" {
		return ""
	}

	conn := repository.RedisPool.Get()
	defer func() {
		if err := conn.Close(); err != nil {
			zap.L().Warn("Redis connection close failed", zap.Error(err))
		}
	}()

	locale, err := redis.String(conn.Do("GET", constant.GetLocalePrefKey(clientID)))
	if err != nil {
		if err != redis.ErrNil {
			zap.L().Error("Failed to read locale preference",
				zap.String("client_id", clientID),
				zap.Error(err),
			)
		}
		return ""
	}
	return locale
}
