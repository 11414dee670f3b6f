package utils

import (
	"fmt"
	"regexp"
	"unicode"
)

// ValidateLocaleKey 校验 locale key 是否符合 <lang><sep><REGION> 约定
// 允许只有语言部分（如 "en"），地区部分必须大写
func ValidateLocaleKey(key, separator string) error {
	if key == "" {
		return fmt.Errorf("error.locale_required")
	}

	if ContainsWhitespace(key) {
		return fmt.Errorf("error.locale_cannot_contain_spaces")
	}

	if separator == "" {
		separator = "-"
	}

	pattern := regexp.MustCompile(`^[a-z]{2,3}(` + regexp.QuoteMeta(separator) + `[A-Z]{2})?$`)
	if !pattern.MatchString(key) {
		return fmt.Errorf("error.locale_invalid")
	}

	return nil
}

// ValidateMessageID 校验消息 id 的合法性
func ValidateMessageID(id string) error {
	// 1. 检查消息 id 是否为空
	if id == "" {
		return fmt.Errorf("error.message_id_required")
	}

	if ContainsWhitespace(id) {
		return fmt.Errorf("error.message_id_invalid")
	}

	// 2. 长度限制
	if len(id) > 256 {
		return fmt.Errorf("error.message_id_max_length")
	}
	return nil
}

func ContainsWhitespace(s string) bool {
	for _, r := range s {
		if unicode.IsSpace(r) {
			return true
		}
	}
	return false
}
