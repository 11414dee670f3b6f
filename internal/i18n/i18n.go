package i18n

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"localehub-go/constant"
)

// FallbackLocale 兜底语言（配置缺失或解析失败时使用）
const FallbackLocale = "en-US"

// Config 对应 config.yaml 中的 i18n 段
type Config struct {
	Dir             string // 语言文件目录
	DefaultLocale   string // 默认语言，如 en-US
	BaseSeparator   string // 语言与地区的分隔符，默认 "-"
	BaseNavigator   bool   // 是否启用 Accept-Language 探测
	UseLocalStorage bool   // 是否持久化客户端语言偏好
	Antd            bool   // 是否下发 UI 组件库语言包
	Title           bool   // 是否启用标题翻译
}

// Options 动态注册语言时的附加选项
type Options struct {
	// FormatLocale 数字/日期格式化用的语言标签（可与 locale key 不同）
	FormatLocale string
	// Components UI 组件库语言包（antd 开关打开时原样下发给客户端）
	Components map[string]any
}

// Registry 语言注册表：合并静态发现与动态注册的消息表
// 单写多读，写路径（AddLocale）持写锁，查询路径持读锁
type Registry struct {
	mu        sync.RWMutex
	cfg       Config
	bundle    *goi18n.Bundle
	locales   map[string]Options
	keys      []string // 与 tags 一一对应
	tags      []language.Tag
	matcher   language.Matcher
	listeners []func(locale string)
}

// New 创建注册表，默认语言不合法时退回 en-US
func New(cfg Config) *Registry {
	if cfg.BaseSeparator == "" {
		cfg.BaseSeparator = "-"
	}
	if cfg.DefaultLocale == "" {
		cfg.DefaultLocale = FallbackLocale
	}

	defTag, err := language.Parse(normalizeKey(cfg.DefaultLocale, cfg.BaseSeparator))
	if err != nil {
		zap.L().Warn("Invalid default locale, falling back",
			zap.String("locale", cfg.DefaultLocale),
			zap.Error(err),
		)
		cfg.DefaultLocale = FallbackLocale
		defTag = language.MustParse(FallbackLocale)
	}

	return &Registry{
		cfg:     cfg,
		bundle:  goi18n.NewBundle(defTag),
		locales: make(map[string]Options),
	}
}

// Config 返回注册表配置的副本
func (r *Registry) Config() Config {
	return r.cfg
}

// DefaultLocale 返回配置的默认语言
func (r *Registry) DefaultLocale() string {
	return r.cfg.DefaultLocale
}

// ParseKey 校验 locale key 并解析为语言标签
func (r *Registry) ParseKey(key string) (language.Tag, error) {
	if key == "" {
		return language.Und, fmt.Errorf("locale key is empty")
	}
	tag, err := language.Parse(normalizeKey(key, r.cfg.BaseSeparator))
	if err != nil {
		return language.Und, fmt.Errorf("invalid locale key %q: %w", key, err)
	}
	return tag, nil
}

// AddLocale 动态注册/合并一个语言的消息表
// 同一 key 重复注册时按消息 id 覆盖，key 不会重复出现
func (r *Registry) AddLocale(key string, messages map[string]any, opts Options) error {
	tag, err := r.ParseKey(key)
	if err != nil {
		return err
	}

	flat := make(map[string]string)
	flattenMessages("", messages, flat)

	msgs := make([]*goi18n.Message, 0, len(flat))
	for id, other := range flat {
		msgs = append(msgs, &goi18n.Message{ID: id, Other: other})
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if len(msgs) > 0 {
		if err := r.bundle.AddMessages(tag, msgs...); err != nil {
			return err
		}
	}

	existing, known := r.locales[key]
	if known {
		// 合并选项：新值为空时保留旧值
		if opts.FormatLocale == "" {
			opts.FormatLocale = existing.FormatLocale
		}
		if opts.Components == nil {
			opts.Components = existing.Components
		}
	} else {
		r.keys = append(r.keys, key)
		r.tags = append(r.tags, tag)
		r.matcher = language.NewMatcher(r.tags)
	}
	r.locales[key] = opts

	return nil
}

// GetAllLocales 返回所有已知 locale key（静态+动态，去重排序）
func (r *Registry) GetAllLocales() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.keys))
	copy(out, r.keys)
	sort.Strings(out)
	return out
}

// Has 判断某 locale 是否已注册
func (r *Registry) Has(key string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.locales[key]
	return ok
}

// Options 返回某 locale 注册时携带的选项
func (r *Registry) Options(key string) (Options, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	opts, ok := r.locales[key]
	return opts, ok
}

// Match 在已注册的 locale 中匹配首选语言，无匹配时返回空串
func (r *Registry) Match(prefs ...string) string {
	var want []language.Tag
	for _, p := range prefs {
		if t, err := language.Parse(normalizeKey(p, r.cfg.BaseSeparator)); err == nil {
			want = append(want, t)
		}
	}
	if len(want) == 0 {
		return ""
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.matcher == nil {
		return ""
	}
	_, idx, conf := r.matcher.Match(want...)
	if conf == language.No {
		return ""
	}
	return r.keys[idx]
}

// MatchAcceptLanguage 按 Accept-Language 请求头匹配已注册 locale
func (r *Registry) MatchAcceptLanguage(header string) string {
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return ""
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.matcher == nil {
		return ""
	}
	_, idx, conf := r.matcher.Match(tags...)
	if conf == language.No {
		return ""
	}
	return r.keys[idx]
}

// FormatMessage 在指定 locale 下查找并插值消息
// 找不到时依次退回：调用方默认消息 -> 消息 id 本身，永不报错
func (r *Registry) FormatMessage(locale, id, defaultMessage string, values map[string]any) string {
	langs := make([]string, 0, 2)
	if locale != "" {
		langs = append(langs, normalizeKey(locale, r.cfg.BaseSeparator))
	}
	langs = append(langs, normalizeKey(r.cfg.DefaultLocale, r.cfg.BaseSeparator))

	cfg := &goi18n.LocalizeConfig{
		MessageID:    id,
		TemplateData: values,
	}
	if defaultMessage != "" {
		cfg.DefaultMessage = &goi18n.Message{ID: id, Other: defaultMessage}
	}

	r.mu.RLock()
	localizer := goi18n.NewLocalizer(r.bundle, langs...)
	msg, err := localizer.Localize(cfg)
	r.mu.RUnlock()

	if err != nil || msg == "" {
		if defaultMessage != "" {
			return defaultMessage
		}
		return id
	}
	return msg
}

// Printer 返回 locale 对应的数字/日期格式化器
// 注册时指定了 FormatLocale 则优先使用
func (r *Registry) Printer(locale string) *message.Printer {
	r.mu.RLock()
	opts, ok := r.locales[locale]
	r.mu.RUnlock()

	key := locale
	if ok && opts.FormatLocale != "" {
		key = opts.FormatLocale
	}
	tag, err := language.Parse(normalizeKey(key, r.cfg.BaseSeparator))
	if err != nil {
		tag = language.MustParse(FallbackLocale)
	}
	return message.NewPrinter(tag)
}

// OnChange 注册语言切换监听器，SetLocale 成功后依次回调
func (r *Registry) OnChange(fn func(locale string)) {
	r.mu.Lock()
	r.listeners = append(r.listeners, fn)
	r.mu.Unlock()
}

// NotifyChange 通知所有监听器语言已切换
func (r *Registry) NotifyChange(locale string) {
	r.mu.RLock()
	fns := make([]func(string), len(r.listeners))
	copy(fns, r.listeners)
	r.mu.RUnlock()

	for _, fn := range fns {
		fn(locale)
	}
}

// NewContext 将注册表和已解析 locale 注入请求上下文
func NewContext(ctx context.Context, r *Registry, locale string) context.Context {
	ctx = context.WithValue(ctx, constant.RegistryContextKey, r)
	return context.WithValue(ctx, constant.LocaleContextKey, locale)
}

// GetLocale 返回当前请求解析出的 locale，未经过中间件时为空串
func GetLocale(ctx context.Context) string {
	locale, _ := ctx.Value(constant.LocaleContextKey).(string)
	return locale
}

// FromContext 取出请求上下文中的注册表与 locale
func FromContext(ctx context.Context) (*Registry, string, bool) {
	r, ok := ctx.Value(constant.RegistryContextKey).(*Registry)
	if !ok {
		return nil, "", false
	}
	return r, GetLocale(ctx), true
}

// T 按当前请求 locale 查找消息，找不到时返回 id 本身
func T(ctx context.Context, id string, data map[string]any) string {
	return FormatMessage(ctx, id, "", data)
}

// FormatMessage 按当前请求 locale 查找并插值消息，带调用方默认值
func FormatMessage(ctx context.Context, id, defaultMessage string, data map[string]any) string {
	r, locale, ok := FromContext(ctx)
	if !ok {
		if defaultMessage != "" {
			return defaultMessage
		}
		return id
	}
	return r.FormatMessage(locale, id, defaultMessage, data)
}

// 把配置的分隔符归一成 BCP 47 的 "-"
func normalizeKey(key, sep string) string {
	if sep == "" || sep == "-" {
		return key
	}
	return strings.ReplaceAll(key, sep, "-")
}
