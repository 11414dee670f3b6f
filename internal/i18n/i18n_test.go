package i18n

import (
	"os"
	"path/filepath"
	"testing"
)

func newTestRegistry() *Registry {
	reg := New(Config{
		DefaultLocale: "en-US",
		BaseSeparator: "-",
	})

	err := reg.AddLocale("en-US", map[string]any{
		"page": map[string]any{
			"allow": "Allow access",
		},
		"greeting": "Hello {{.Name}}",
	}, Options{})
	if err != nil {
		panic(err)
	}

	err = reg.AddLocale("zh-CN", map[string]any{
		"page": map[string]any{
			"allow": "允许访问",
		},
	}, Options{})
	if err != nil {
		panic(err)
	}

	return reg
}

func TestGetAllLocales(t *testing.T) {
	reg := newTestRegistry()

	locales := reg.GetAllLocales()
	if len(locales) != 2 {
		t.Fatalf("expected 2 locales, got %v", locales)
	}
	if locales[0] != "en-US" || locales[1] != "zh-CN" {
		t.Errorf("expected sorted [en-US zh-CN], got %v", locales)
	}
}

func TestAddLocaleTwiceDoesNotDuplicate(t *testing.T) {
	reg := newTestRegistry()

	err := reg.AddLocale("zh-CN", map[string]any{
		"page": map[string]any{
			"allow": "允许访问（新）",
		},
		"extra": "额外消息",
	}, Options{})
	if err != nil {
		t.Fatalf("re-register failed: %v", err)
	}

	locales := reg.GetAllLocales()
	if len(locales) != 2 {
		t.Fatalf("expected 2 locales after re-register, got %v", locales)
	}

	// 同 id 覆盖，新 id 可见
	if got := reg.FormatMessage("zh-CN", "page.allow", "", nil); got != "允许访问（新）" {
		t.Errorf("expected overwritten message, got %q", got)
	}
	if got := reg.FormatMessage("zh-CN", "extra", "", nil); got != "额外消息" {
		t.Errorf("expected new message, got %q", got)
	}
}

func TestAddLocaleInvalidKey(t *testing.T) {
	reg := newTestRegistry()

	if err := reg.AddLocale("", nil, Options{}); err == nil {
		t.Error("expected error for empty locale key")
	}
	if err := reg.AddLocale("!!bad!!", nil, Options{}); err == nil {
		t.Error("expected error for malformed locale key")
	}
}

func TestFormatMessageFallback(t *testing.T) {
	reg := newTestRegistry()

	// 命中翻译
	if got := reg.FormatMessage("zh-CN", "page.allow", "", nil); got != "允许访问" {
		t.Errorf("expected translation, got %q", got)
	}

	// 缺失翻译 + 调用方默认值
	if got := reg.FormatMessage("zh-CN", "missing.id", "fallback text", nil); got != "fallback text" {
		t.Errorf("expected default message, got %q", got)
	}

	// 缺失翻译且无默认值时返回字面 id
	if got := reg.FormatMessage("zh-CN", "missing.id", "", nil); got != "missing.id" {
		t.Errorf("expected literal id, got %q", got)
	}

	// 模板插值
	if got := reg.FormatMessage("en-US", "greeting", "", map[string]any{"Name": "Tom"}); got != "Hello Tom" {
		t.Errorf("expected interpolated message, got %q", got)
	}
}

func TestFormatMessageDefaultTemplateData(t *testing.T) {
	reg := newTestRegistry()

	got := reg.FormatMessage("zh-CN", "missing.greeting", "Hi {{.Name}}", map[string]any{"Name": "Lee"})
	if got != "Hi Lee" {
		t.Errorf("expected interpolated default, got %q", got)
	}
}

func TestSwitchingLocaleChangesLookups(t *testing.T) {
	reg := newTestRegistry()

	en := reg.FormatMessage("en-US", "page.allow", "", nil)
	zh := reg.FormatMessage("zh-CN", "page.allow", "", nil)
	if en != "Allow access" || zh != "允许访问" {
		t.Errorf("lookups did not follow locale: en=%q zh=%q", en, zh)
	}
}

func TestMatch(t *testing.T) {
	reg := newTestRegistry()

	if got := reg.Match("zh-CN"); got != "zh-CN" {
		t.Errorf("expected zh-CN, got %q", got)
	}
	// 只有语言部分也应命中地区变体
	if got := reg.Match("zh"); got != "zh-CN" {
		t.Errorf("expected zh-CN for bare zh, got %q", got)
	}
	if got := reg.Match("xx-YY"); got != "" {
		t.Errorf("expected no match, got %q", got)
	}
}

func TestMatchAcceptLanguage(t *testing.T) {
	reg := newTestRegistry()

	if got := reg.MatchAcceptLanguage("zh-CN,zh;q=0.9,en;q=0.8"); got != "zh-CN" {
		t.Errorf("expected zh-CN, got %q", got)
	}
	if got := reg.MatchAcceptLanguage("en-US,en;q=0.9"); got != "en-US" {
		t.Errorf("expected en-US, got %q", got)
	}
	if got := reg.MatchAcceptLanguage(""); got != "" {
		t.Errorf("expected no match for empty header, got %q", got)
	}
}

func TestUnderscoreSeparator(t *testing.T) {
	reg := New(Config{
		DefaultLocale: "en_US",
		BaseSeparator: "_",
	})

	if err := reg.AddLocale("zh_CN", map[string]any{"hello": "你好"}, Options{}); err != nil {
		t.Fatalf("register with underscore separator failed: %v", err)
	}

	if got := reg.FormatMessage("zh_CN", "hello", "", nil); got != "你好" {
		t.Errorf("expected lookup through underscore key, got %q", got)
	}

	locales := reg.GetAllLocales()
	if len(locales) != 1 || locales[0] != "zh_CN" {
		t.Errorf("expected key kept in configured form, got %v", locales)
	}
}

func TestOnChangeNotify(t *testing.T) {
	reg := newTestRegistry()

	var got string
	reg.OnChange(func(locale string) {
		got = locale
	})

	reg.NotifyChange("zh-CN")
	if got != "zh-CN" {
		t.Errorf("listener not notified, got %q", got)
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()

	files := map[string]string{
		"en-US.toml": "[page]\nallow = \"Allow access\"\n",
		"zh-CN.json": `{"page": {"allow": "允许访问"}}`,
		"ja-JP.yaml": "page:\n  allow: アクセス許可\n",
		"readme.txt": "not a locale file",
		"broken.toml": "[page\n", // 文件名不是合法 locale，应跳过而不是报错
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	reg := New(Config{DefaultLocale: "en-US"})
	if err := reg.LoadDir(dir); err != nil {
		t.Fatalf("LoadDir failed: %v", err)
	}

	locales := reg.GetAllLocales()
	if len(locales) != 3 {
		t.Fatalf("expected 3 locales, got %v", locales)
	}

	if got := reg.FormatMessage("zh-CN", "page.allow", "", nil); got != "允许访问" {
		t.Errorf("json locale not loaded: %q", got)
	}
	if got := reg.FormatMessage("ja-JP", "page.allow", "", nil); got != "アクセス許可" {
		t.Errorf("yaml locale not loaded: %q", got)
	}
}

func TestLoadDirMissing(t *testing.T) {
	reg := New(Config{DefaultLocale: "en-US"})
	if err := reg.LoadDir(filepath.Join(t.TempDir(), "not-exists")); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestFlattenMessages(t *testing.T) {
	out := make(map[string]string)
	flattenMessages("", map[string]any{
		"a": "1",
		"b": map[string]any{
			"c": "2",
			"d": map[string]any{
				"e": "3",
			},
		},
		"n": 42,
	}, out)

	want := map[string]string{"a": "1", "b.c": "2", "b.d.e": "3", "n": "42"}
	for k, v := range want {
		if out[k] != v {
			t.Errorf("flatten[%q] = %q, want %q", k, out[k], v)
		}
	}
	if len(out) != len(want) {
		t.Errorf("unexpected flatten size: %v", out)
	}
}
