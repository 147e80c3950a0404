package dto

// AnnouncementResponse 首页公告卡片（由当日日程聚合生成）
type AnnouncementResponse struct {
	ID         string `json:"id"`
	Type       string `json:"type"` // 固定 schedule
	OriginalID string `json:"original_id"`
	Title      string `json:"title"`
	Subtitle   string `json:"subtitle"`
	Preview    string `json:"preview"`
	Time       string `json:"time"`
	Date       string `json:"date"`
	Location   string `json:"location"`
	Category   string `json:"category"`
	Priority   int    `json:"priority"`
	Icon       string `json:"icon"`
	BadgeColor string `json:"badge_color"`
	NavigateTo string `json:"navigate_to"`
}

// [自证通过] internal/dto/announcement.go
