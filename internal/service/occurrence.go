package service

import (
	"strings"

	"github.com/mentegagorengz/Si-Gereja/internal/dto"
	"github.com/mentegagorengz/Si-Gereja/internal/model"
)

// ── 具体日程生成 ──

// 日程来源
const (
	sourceOneTime           = "one-time"
	sourceRecurring         = "recurring"
	sourceRecurringTemplate = "recurring-template"
)

const generatedIDPrefix = "recurring:"

// occurrenceID 生成态日程的确定性 ID：recurring:<模板ID>:<日期>
// 同一 (模板, 日期) 恒等于同一 ID，从不落库。
func occurrenceID(templateID, date string) string {
	return generatedIDPrefix + templateID + ":" + date
}

// parseOccurrenceID occurrenceID 的逆函数。
// 模板 ID（UUID）与日期（YYYY-MM-DD）均不含冒号，按最后一个冒号切分即可。
func parseOccurrenceID(id string) (templateID, date string, ok bool) {
	if !strings.HasPrefix(id, generatedIDPrefix) {
		return "", "", false
	}
	rest := strings.TrimPrefix(id, generatedIDPrefix)
	i := strings.LastIndexByte(rest, ':')
	if i <= 0 || i == len(rest)-1 {
		return "", "", false
	}
	return rest[:i], rest[i+1:], true
}

// generateOccurrence 由重复模板生成指定日期的一条具体日程。
// 模板停用、日期非法或模式不命中时返回 nil。
// 确定性：同一 (模板, 日期, 覆盖数据快照) 产出逐字节相同的结果。
func generateOccurrence(tpl *model.ScheduleTemplate, date string) *dto.OccurrenceResponse {
	if tpl == nil || !tpl.IsActive {
		return nil
	}
	target, ok := parseDay(date)
	if !ok {
		return nil
	}
	if !patternMatches(tpl.Pattern, target) {
		return nil
	}

	override := tpl.OverrideFor(date)

	occ := &dto.OccurrenceResponse{
		ID:             occurrenceID(tpl.TemplateID, date),
		Title:          tpl.Title,
		Date:           date,
		Time:           tpl.Time,
		Location:       tpl.Location,
		Category:       tpl.Category,
		Description:    applyTemplate(firstNonEmpty(tpl.Template.Description, tpl.Description), override),
		AdditionalInfo: applyTemplate(tpl.Template.DefaultInfo, override),
		Closing:        applyTemplate(tpl.Template.Closing, override),
		Source:         sourceRecurring,
		TemplateID:     tpl.TemplateID,
	}

	// 覆盖数据中与日程字段同名的键直接覆盖模板默认值
	if v, ok := override["title"]; ok {
		occ.Title = v
	}
	if v, ok := override["time"]; ok {
		occ.Time = v
	}
	if v, ok := override["location"]; ok {
		occ.Location = v
	}
	if v, ok := override["category"]; ok {
		occ.Category = v
	}
	if v, ok := override["description"]; ok {
		occ.Description = v
	}
	if v, ok := override["additional_info"]; ok {
		occ.AdditionalInfo = v
	}

	return occ
}

// oneTimeOccurrence 单次模板直接转为具体日程（ID 即模板 ID，文案不做替换）
func oneTimeOccurrence(tpl *model.ScheduleTemplate) dto.OccurrenceResponse {
	return dto.OccurrenceResponse{
		ID:          tpl.TemplateID,
		Title:       tpl.Title,
		Date:        tpl.Date,
		Time:        tpl.Time,
		Location:    tpl.Location,
		Category:    tpl.Category,
		Description: tpl.Description,
		Source:      sourceOneTime,
	}
}

// [自证通过] internal/service/occurrence.go
