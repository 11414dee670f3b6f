package service

import (
	"encoding/json"

	"go.uber.org/zap"

	"localehub-go/internal/i18n"
	"localehub-go/internal/model"
	"localehub-go/internal/repository"
)

// SyncLocales 把库里的动态语言包重新灌入内存注册表
// 启动时执行一次，之后由定时任务周期执行，保证多实例间注册可见
func SyncLocales(reg *i18n.Registry) error {
	if repository.DB == nil {
		return nil
	}

	var bundles []model.LocaleBundle
	if err := repository.DB.Find(&bundles).Error; err != nil {
		zap.L().Error("Failed to load locale bundles from database", zap.Error(err))
		return err
	}

	synced := 0
	for _, bundle := range bundles {
		var messages map[string]any
		if bundle.Messages != "" {
			if err := json.Unmarshal([]byte(bundle.Messages), &messages); err != nil {
				zap.L().Warn("Skipping corrupt locale bundle",
					zap.String("locale", bundle.Locale),
					zap.Error(err),
				)
				continue
			}
		}

		var components map[string]any
		if bundle.Components != "" {
			if err := json.Unmarshal([]byte(bundle.Components), &components); err != nil {
				zap.L().Warn("Ignoring corrupt components bundle",
					zap.String("locale", bundle.Locale),
					zap.Error(err),
				)
			}
		}

		opts := i18n.Options{
			FormatLocale: bundle.FormatLocale,
			Components:   components,
		}
		if err := reg.AddLocale(bundle.Locale, messages, opts); err != nil {
			zap.L().Warn("Skipping locale bundle with invalid key",
				zap.String("locale", bundle.Locale),
				zap.Error(err),
			)
			continue
		}
		synced++
	}

	zap.L().Info("Locale bundles synced", zap.Int("count", synced))
	return nil
}
