package model

import "gorm.io/gorm"

// LocaleBundle 动态注册的语言包，消息表以 JSON 形式落库
// 服务重启后由同步任务重新灌入内存注册表
type LocaleBundle struct {
	gorm.Model
	Locale       string `gorm:"size:32;uniqueIndex;not null" json:"locale"`
	Messages     string `gorm:"type:json" json:"messages"`
	FormatLocale string `gorm:"size:32" json:"formatLocale"`
	Components   string `gorm:"type:json" json:"components"`
}
