// Package i18n 提供诊断信息的多语言支持
package i18n

import (
	"fmt"
	"os"
	"strings"
	"sync"
)

// Language 语言类型
type Language string

const (
	LangEnglish Language = "en"
	LangChinese Language = "zh"
)

// 全局语言设置
var (
	currentLang = LangEnglish
	mu          sync.RWMutex
)

// SetLanguage 设置当前语言
func SetLanguage(lang Language) {
	mu.Lock()
	defer mu.Unlock()
	currentLang = lang
}

// ParseLanguage 将配置或命令行中的语言名称规范化
//
// 空字符串表示自动检测。
func ParseLanguage(name string) (Language, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return Detect(), nil
	case "en", "en-us", "en-gb", "english":
		return LangEnglish, nil
	case "zh", "zh-cn", "zh-tw", "zh-hk", "chinese":
		return LangChinese, nil
	default:
		return LangEnglish, fmt.Errorf("unsupported language %q", name)
	}
}

// Detect 根据环境检测界面语言
//
// 优先使用 MINIC_LANG，其次是 LC_ALL / LANG，最后询问操作系统。
func Detect() Language {
	for _, key := range []string{"MINIC_LANG", "LC_ALL", "LANG"} {
		if v := os.Getenv(key); v != "" {
			if strings.HasPrefix(strings.ToLower(v), "zh") {
				return LangChinese
			}
			return LangEnglish
		}
	}
	if systemPrefersChinese() {
		return LangChinese
	}
	return LangEnglish
}

// GetLanguage 获取当前语言
func GetLanguage() Language {
	mu.RLock()
	defer mu.RUnlock()
	return currentLang
}

// T 翻译消息（支持格式化参数）
func T(msgID string, args ...interface{}) string {
	mu.RLock()
	lang := currentLang
	mu.RUnlock()

	messages := messagesEN
	if lang == LangChinese {
		messages = messagesZH
	}

	msg, ok := messages[msgID]
	if !ok {
		// 回退到英文
		msg, ok = messagesEN[msgID]
	}
	if !ok {
		return msgID
	}
	if len(args) > 0 {
		return fmt.Sprintf(msg, args...)
	}
	return msg
}
