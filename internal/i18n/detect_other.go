//go:build !windows

package i18n

// systemPrefersChinese 非 Windows 系统只依赖环境变量
func systemPrefersChinese() bool {
	return false
}
