package dto

// AddLocaleRequest 动态注册语言包的请求参数
type AddLocaleRequest struct {
	Locale   string         `json:"locale" binding:"required,max=32" msg:"locale is required and at most 32 characters"`
	Messages map[string]any `json:"messages" binding:"required" msg:"messages must not be empty"`
	// FormatLocale 数字/日期格式化用的语言标签，可选
	FormatLocale string `json:"formatLocale" binding:"omitempty,max=32"`
	// Components UI 组件库语言包，可选
	Components map[string]any `json:"components"`
}

// SetLocaleRequest 切换当前语言的请求参数
// Locale 为空表示重置回配置的默认语言
type SetLocaleRequest struct {
	Locale string `json:"locale" binding:"omitempty,max=32"`
	// RealReload 为 nil 时按默认值 true 处理（整页刷新）
	RealReload *bool `json:"realReload"`
}

// TranslateRequest 消息查找与插值的请求参数
type TranslateRequest struct {
	ID             string         `json:"id" binding:"required,max=256" msg:"message id is required"`
	DefaultMessage string         `json:"defaultMessage"`
	Values         map[string]any `json:"values"`
}
