//go:build windows

package i18n

import (
	"strings"

	"golang.org/x/sys/windows"
)

// systemPrefersChinese 读取用户界面语言列表
func systemPrefersChinese() bool {
	langs, err := windows.GetUserPreferredUILanguages(windows.MUI_LANGUAGE_NAME)
	if err != nil || len(langs) == 0 {
		return false
	}
	return strings.HasPrefix(strings.ToLower(langs[0]), "zh")
}
