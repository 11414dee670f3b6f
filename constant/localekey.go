package constant

import (
	"fmt"
)

// 常量定义
const (
	BasePrefix = "i18n:"
	Separator  = ":"
)

// Redis 键模板
const (
	LocalePref = BasePrefix + "pref" + Separator + "%s" // i18n:pref:clientId
)

// Cookie 名称
const (
	LocaleCookie   = "locale"
	ClientIDCookie = "cid"
)

// 上下文键（避免与其它中间件的字符串键冲突）
type ContextKey string

const (
	RegistryContextKey ContextKey = "i18n.registry"
	LocaleContextKey   ContextKey = "i18n.locale"
)

// GetLocalePrefKey 生成客户端语言偏好 key
func GetLocalePrefKey(clientID string) string {
	return fmt.Sprintf(LocalePref, clientID)
}
