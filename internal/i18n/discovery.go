package i18n

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// 按扩展名选择解析器
var unmarshalers = map[string]func([]byte, any) error{
	".toml": toml.Unmarshal,
	".json": json.Unmarshal,
	".yaml": yaml.Unmarshal,
	".yml":  yaml.Unmarshal,
}

// LoadDir 扫描目录下的语言文件并注册
// 文件名约定：<lang><sep><REGION>.(toml|json|yaml)，如 zh-CN.toml
// 文件名不是合法 locale key 时跳过并告警，不中断启动
func (r *Registry) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read locales dir %q: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		ext := strings.ToLower(filepath.Ext(entry.Name()))
		unmarshal, ok := unmarshalers[ext]
		if !ok {
			continue
		}

		key := extractLocaleFromPath(entry.Name())
		if _, err := r.ParseKey(key); err != nil {
			zap.L().Warn("Skipping locale file with invalid name",
				zap.String("file", entry.Name()),
				zap.Error(err),
			)
			continue
		}

		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		var messages map[string]any
		if err := unmarshal(data, &messages); err != nil {
			return fmt.Errorf("parse locale file %q: %w", path, err)
		}

		if err := r.AddLocale(key, messages, Options{}); err != nil {
			return err
		}

		zap.L().Info("Locale file loaded",
			zap.String("locale", key),
			zap.String("file", entry.Name()),
		)
	}
	return nil
}

// 从文件名提取 locale key（如 zh-CN.toml -> zh-CN）
func extractLocaleFromPath(filePath string) string {
	baseName := filepath.Base(filePath)
	return strings.TrimSuffix(baseName, filepath.Ext(baseName))
}

// flattenMessages 把嵌套消息表拍平成点号分隔的消息 id
// 嵌套路径与平铺 key 冲突时后写入者生效
func flattenMessages(prefix string, in map[string]any, out map[string]string) {
	for k, v := range in {
		id := k
		if prefix != "" {
			id = prefix + "." + k
		}
		switch val := v.(type) {
		case string:
			out[id] = val
		case map[string]any:
			flattenMessages(id, val, out)
		default:
			out[id] = fmt.Sprint(val)
		}
	}
}
