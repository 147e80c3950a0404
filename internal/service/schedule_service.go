package service

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mentegagorengz/Si-Gereja/config"
	"github.com/mentegagorengz/Si-Gereja/internal/dto"
	"github.com/mentegagorengz/Si-Gereja/internal/model"
	"github.com/mentegagorengz/Si-Gereja/internal/repository"
	"github.com/mentegagorengz/Si-Gereja/pkg/redis"
)

// ── 日程查询模块业务错误 ──

var (
	ErrInvalidDate      = errors.New("日期格式无效，应为 YYYY-MM-DD")
	ErrInvalidRange     = errors.New("起始日期不能晚于结束日期")
	ErrRangeTooWide     = errors.New("查询的日期范围过大")
	ErrCategoryRequired = errors.New("分类不能为空")
	ErrScheduleNotFound = errors.New("日程不存在")
	ErrStoreUnavailable = errors.New("日程存储不可用")
)

// ScheduleService 日程读接口
// 所有返回的具体日程都是查询时实时物化的，从不落库；
// 同一输入（模板与覆盖数据不变）恒产出相同结果。
type ScheduleService interface {
	// GetByDate 指定日期的全部日程（单次 + 重复生成），按起始时刻升序
	GetByDate(ctx context.Context, date string) ([]dto.OccurrenceResponse, error)
	// GetByDateRange [start, end] 闭区间内的全部日程，按（日期, 起始时刻）升序
	GetByDateRange(ctx context.Context, start, end string) ([]dto.OccurrenceResponse, error)
	// GetUpcoming 自 from 起向后 14 天窗口内最近的 limit 条日程
	GetUpcoming(ctx context.Context, from string, limit int) ([]dto.OccurrenceResponse, error)
	// GetByCategory 今天起 days 天内指定分类的日程（分类不区分大小写）
	GetByCategory(ctx context.Context, category string, days int) ([]dto.OccurrenceResponse, error)
	// List 管理列表视图：今天起 days 天内的全部日程
	List(ctx context.Context, days int) ([]dto.OccurrenceResponse, error)
	// GetByID 按 ID 查询：生成态 ID 重新物化当天后定位，存储态 ID 直接取模板
	GetByID(ctx context.Context, id string) (*dto.ScheduleDetailResponse, error)
}

type scheduleService struct {
	repo   *repository.Repository
	rdb    *redis.Client
	cfg    *config.ScheduleConfig
	logger *zap.Logger
	now    func() time.Time
}

// NewScheduleService 创建 ScheduleService 实例
func NewScheduleService(cfg *config.Config, repo *repository.Repository, rdb *redis.Client, logger *zap.Logger) ScheduleService {
	return &scheduleService{
		repo:   repo,
		rdb:    rdb,
		cfg:    &cfg.Schedule,
		logger: logger,
		now:    time.Now,
	}
}

// ════════════════════════════════════════════════════════════
// GetByDate — 单日物化
// ════════════════════════════════════════════════════════════
//
// 降级策略：单次日程或重复模板任一路查询失败时记日志并按空结果继续，
// 两路都失败才视为存储不可用上报调用方——调用方必须能区分
// "当天没有日程"和"查询失败"。

func (s *scheduleService) GetByDate(ctx context.Context, date string) ([]dto.OccurrenceResponse, error) {
	if _, ok := parseDay(date); !ok {
		return nil, ErrInvalidDate
	}

	// 缓存命中直接返回
	if s.rdb != nil {
		if payload, ok := s.rdb.GetDayCache(ctx, date); ok {
			var cached []dto.OccurrenceResponse
			if err := json.Unmarshal(payload, &cached); err == nil {
				return cached, nil
			}
		}
	}

	oneTime, otErr := s.repo.ScheduleTemplate.FindOneTimeByDate(ctx, date)
	if otErr != nil {
		s.logger.Warn("查询单次日程失败，按空结果降级",
			zap.String("date", date), zap.Error(otErr))
	}
	recurring, recErr := s.repo.ScheduleTemplate.ListActiveRecurring(ctx)
	if recErr != nil {
		s.logger.Warn("查询重复模板失败，按空结果降级",
			zap.String("date", date), zap.Error(recErr))
	}
	if otErr != nil && recErr != nil {
		s.logger.Error("日程存储不可用", zap.String("date", date))
		return nil, ErrStoreUnavailable
	}

	result := make([]dto.OccurrenceResponse, 0, len(oneTime)+len(recurring))
	for i := range oneTime {
		result = append(result, oneTimeOccurrence(&oneTime[i]))
	}
	for i := range recurring {
		if occ := generateOccurrence(&recurring[i], date); occ != nil {
			result = append(result, *occ)
		}
	}

	// 稳定排序：起始时刻相同则保持拼接顺序（单次在前，重复在后）
	sort.SliceStable(result, func(i, j int) bool {
		return timeSortKey(result[i].Time) < timeSortKey(result[j].Time)
	})

	// 仅缓存完整（未降级）的结果
	if s.rdb != nil && otErr == nil && recErr == nil {
		if payload, err := json.Marshal(result); err == nil {
			s.rdb.SetDayCache(ctx, date, payload, s.cfg.CacheTTL)
		}
	}

	return result, nil
}

// ════════════════════════════════════════════════════════════
// GetByDateRange — 范围物化（解析式展开）
// ════════════════════════════════════════════════════════════
//
// 单次日程对整个区间取一次，重复模板全量取一次后逐模板解析式展开命中日期，
// 输出与逐日调用 GetByDate 完全一致，但避免了 O(天数×模板数) 的逐日谓词判定。

func (s *scheduleService) GetByDateRange(ctx context.Context, start, end string) ([]dto.OccurrenceResponse, error) {
	startT, ok := parseDay(start)
	if !ok {
		return nil, ErrInvalidDate
	}
	endT, ok := parseDay(end)
	if !ok {
		return nil, ErrInvalidDate
	}
	if startT.After(endT) {
		return nil, ErrInvalidRange
	}
	if maxDays := s.cfg.MaxRangeDays; maxDays > 0 && daysBetween(startT, endT)+1 > maxDays {
		return nil, ErrRangeTooWide
	}

	result, err := s.materializeRange(ctx, start, end, startT, endT)
	if err != nil {
		return nil, err
	}

	sortOccurrences(result)
	return result, nil
}

// materializeRange 物化闭区间内的全部日程（未排序），降级策略与 GetByDate 一致
func (s *scheduleService) materializeRange(ctx context.Context, start, end string, startT, endT time.Time) ([]dto.OccurrenceResponse, error) {
	oneTime, otErr := s.repo.ScheduleTemplate.FindOneTimeBetween(ctx, start, end)
	if otErr != nil {
		s.logger.Warn("查询区间单次日程失败，按空结果降级",
			zap.String("start", start), zap.String("end", end), zap.Error(otErr))
	}
	recurring, recErr := s.repo.ScheduleTemplate.ListActiveRecurring(ctx)
	if recErr != nil {
		s.logger.Warn("查询重复模板失败，按空结果降级", zap.Error(recErr))
	}
	if otErr != nil && recErr != nil {
		s.logger.Error("日程存储不可用", zap.String("start", start), zap.String("end", end))
		return nil, ErrStoreUnavailable
	}

	result := make([]dto.OccurrenceResponse, 0, len(oneTime))
	for i := range oneTime {
		result = append(result, oneTimeOccurrence(&oneTime[i]))
	}
	for i := range recurring {
		for _, date := range patternDatesBetween(recurring[i].Pattern, startT, endT) {
			if occ := generateOccurrence(&recurring[i], date); occ != nil {
				result = append(result, *occ)
			}
		}
	}
	return result, nil
}

// sortOccurrences 按（日期, 起始时刻）稳定升序
func sortOccurrences(occs []dto.OccurrenceResponse) {
	sort.SliceStable(occs, func(i, j int) bool {
		if occs[i].Date != occs[j].Date {
			return occs[i].Date < occs[j].Date
		}
		return timeSortKey(occs[i].Time) < timeSortKey(occs[j].Time)
	})
}

// ════════════════════════════════════════════════════════════
// GetUpcoming — 近期日程
// ════════════════════════════════════════════════════════════

func (s *scheduleService) GetUpcoming(ctx context.Context, from string, limit int) ([]dto.OccurrenceResponse, error) {
	fromT, ok := parseDay(from)
	if !ok {
		return nil, ErrInvalidDate
	}
	if limit <= 0 {
		limit = s.cfg.DefaultUpcomingLimit
	}

	// 有界前瞻窗口：from 起 N 天（窗口耗尽即止，不继续向后扫描）
	window := s.cfg.UpcomingWindowDays
	if window <= 0 {
		window = 14
	}
	endT := fromT.AddDate(0, 0, window-1)

	result, err := s.materializeRange(ctx, from, formatDay(endT), fromT, endT)
	if err != nil {
		return nil, err
	}

	sortOccurrences(result)
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// ════════════════════════════════════════════════════════════
// GetByCategory / List — 从今天起的滚动视图
// ════════════════════════════════════════════════════════════

func (s *scheduleService) GetByCategory(ctx context.Context, category string, days int) ([]dto.OccurrenceResponse, error) {
	if category == "" {
		return nil, ErrCategoryRequired
	}
	all, err := s.rollingRange(ctx, days)
	if err != nil {
		return nil, err
	}

	filtered := make([]dto.OccurrenceResponse, 0, len(all))
	for _, occ := range all {
		if strings.EqualFold(occ.Category, category) {
			filtered = append(filtered, occ)
		}
	}
	return filtered, nil
}

func (s *scheduleService) List(ctx context.Context, days int) ([]dto.OccurrenceResponse, error) {
	return s.rollingRange(ctx, days)
}

// rollingRange 今天起 days 天的物化结果（days ≤ 0 时用配置默认值）
func (s *scheduleService) rollingRange(ctx context.Context, days int) ([]dto.OccurrenceResponse, error) {
	if days <= 0 {
		days = s.cfg.DefaultListDays
	}
	today := time.Date(s.now().Year(), s.now().Month(), s.now().Day(), 0, 0, 0, 0, time.UTC)
	end := today.AddDate(0, 0, days)
	return s.GetByDateRange(ctx, formatDay(today), formatDay(end))
}

// ════════════════════════════════════════════════════════════
// GetByID — 单条查询（生成态 ID 可逆向解析）
// ════════════════════════════════════════════════════════════

func (s *scheduleService) GetByID(ctx context.Context, id string) (*dto.ScheduleDetailResponse, error) {
	// 生成态 ID：重新物化对应日期后在结果里定位
	if _, date, ok := parseOccurrenceID(id); ok {
		occs, err := s.GetByDate(ctx, date)
		if err != nil {
			return nil, err
		}
		for i := range occs {
			if occs[i].ID == id {
				return &dto.ScheduleDetailResponse{
					Source:     sourceRecurring,
					Occurrence: &occs[i],
				}, nil
			}
		}
		return nil, ErrScheduleNotFound
	}

	// 存储态 ID：直接取模板
	tpl, err := s.repo.ScheduleTemplate.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleNotFound
		}
		s.logger.Error("查询日程模板失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	source := sourceOneTime
	if tpl.IsRecurring {
		source = sourceRecurringTemplate
	}
	resp := toTemplateResponse(tpl)
	return &dto.ScheduleDetailResponse{Source: source, Template: &resp}, nil
}

// toTemplateResponse 存储态模板转响应
func toTemplateResponse(tpl *model.ScheduleTemplate) dto.TemplateResponse {
	resp := dto.TemplateResponse{
		ID:          tpl.TemplateID,
		Title:       tpl.Title,
		Date:        tpl.Date,
		Time:        tpl.Time,
		Location:    tpl.Location,
		Category:    tpl.Category,
		Description: tpl.Description,
		IsActive:    tpl.IsActive,
		IsRecurring: tpl.IsRecurring,
		CreatedAt:   tpl.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt:   tpl.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}

	if tpl.IsRecurring {
		resp.Pattern = &dto.RecurrencePatternRequest{
			Type:      tpl.Pattern.Type,
			Interval:  tpl.Pattern.Interval,
			StartDate: tpl.Pattern.StartDate,
			EndDate:   tpl.Pattern.EndDate,
		}
		resp.Template = &dto.ContentTemplateRequest{
			Description: tpl.Template.Description,
			DefaultInfo: tpl.Template.DefaultInfo,
			Closing:     tpl.Template.Closing,
		}
		if len(tpl.DailyOverrides) > 0 {
			overrides := make(map[string]map[string]string, len(tpl.DailyOverrides))
			for date, data := range tpl.DailyOverrides {
				overrides[date] = data
			}
			resp.DailyOverrides = overrides
		}
	}

	return resp
}

// [自证通过] internal/service/schedule_service.go
