package service

import (
	"testing"

	"localehub-go/internal/dto"
	"localehub-go/internal/i18n"
)

// 测试不依赖外部组件：DB/Redis 为空时注册只进内存，偏好读写为空操作

func newTestRegistry(t *testing.T) *i18n.Registry {
	t.Helper()
	reg := i18n.New(i18n.Config{
		DefaultLocale: "en-US",
		BaseSeparator: "-",
	})
	err := reg.AddLocale("en-US", map[string]any{"page": map[string]any{"allow": "Allow access"}}, i18n.Options{})
	if err != nil {
		t.Fatal(err)
	}
	return reg
}

func TestAddLocaleRegistersInMemory(t *testing.T) {
	reg := newTestRegistry(t)

	err := AddLocale(reg, dto.AddLocaleRequest{
		Locale: "fr-FR",
		Messages: map[string]any{
			"page": map[string]any{"allow": "Accès autorisé"},
		},
		FormatLocale: "fr",
	})
	if err != nil {
		t.Fatalf("AddLocale failed: %v", err)
	}

	if !reg.Has("fr-FR") {
		t.Error("fr-FR not registered")
	}
	if got := reg.FormatMessage("fr-FR", "page.allow", "", nil); got != "Accès autorisé" {
		t.Errorf("lookup after registration failed: %q", got)
	}
}

func TestAddLocaleRejectsInvalidKey(t *testing.T) {
	reg := newTestRegistry(t)

	err := AddLocale(reg, dto.AddLocaleRequest{
		Locale:   "FR",
		Messages: map[string]any{"hello": "bonjour"},
	})
	if err == nil {
		t.Error("expected error for invalid locale key")
	}
}

func TestSetLocale(t *testing.T) {
	reg := newTestRegistry(t)

	// 正常切换
	got, err := SetLocale(reg, "en-US")
	if err != nil || got != "en-US" {
		t.Errorf("SetLocale(en-US) = %q, %v", got, err)
	}

	// 空 key 重置回默认语言
	got, err = SetLocale(reg, "")
	if err != nil || got != "en-US" {
		t.Errorf("SetLocale(empty) = %q, %v", got, err)
	}

	// 未注册的 key 照常接受
	got, err = SetLocale(reg, "ko-KR")
	if err != nil || got != "ko-KR" {
		t.Errorf("SetLocale(unregistered) = %q, %v", got, err)
	}

	// 非法 key 拒绝
	if _, err := SetLocale(reg, "not a locale"); err == nil {
		t.Error("expected error for malformed locale key")
	}
}

func TestSetLocaleNotifiesListeners(t *testing.T) {
	reg := newTestRegistry(t)

	var notified string
	reg.OnChange(func(locale string) {
		notified = locale
	})

	if _, err := SetLocale(reg, "en-US"); err != nil {
		t.Fatal(err)
	}
	if notified != "en-US" {
		t.Errorf("listener got %q", notified)
	}
}

func TestMergeMessages(t *testing.T) {
	dst := map[string]any{
		"a": "old",
		"nested": map[string]any{
			"keep":      "kept",
			"overwrite": "old",
		},
	}
	src := map[string]any{
		"a": "new",
		"nested": map[string]any{
			"overwrite": "new",
			"added":     "added",
		},
		"b": "brand-new",
	}

	out := MergeMessages(dst, src)

	if out["a"] != "new" || out["b"] != "brand-new" {
		t.Errorf("top-level merge wrong: %v", out)
	}
	nested, ok := out["nested"].(map[string]any)
	if !ok {
		t.Fatalf("nested map lost: %v", out)
	}
	if nested["keep"] != "kept" || nested["overwrite"] != "new" || nested["added"] != "added" {
		t.Errorf("nested merge wrong: %v", nested)
	}
}

func TestMergeMessagesNilDst(t *testing.T) {
	src := map[string]any{"a": "1"}
	out := MergeMessages(nil, src)
	if out["a"] != "1" {
		t.Errorf("nil dst merge wrong: %v", out)
	}
}

func TestLocalePreferenceWithoutRedis(t *testing.T) {
	// RedisPool 未初始化时读写都应安全
	SaveLocalePreference("client-1", "zh-CN")
	if got := GetLocalePreference("client-1"); got != "" {
		t.Errorf("expected empty preference without redis, got %q", got)
	}
}
