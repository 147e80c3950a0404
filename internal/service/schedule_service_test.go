package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/mentegagorengz/Si-Gereja/config"
	"github.com/mentegagorengz/Si-Gereja/internal/model"
	"github.com/mentegagorengz/Si-Gereja/internal/repository"
)

// ── 测试辅助 ──

func testScheduleConfig() *config.Config {
	return &config.Config{
		Schedule: config.ScheduleConfig{
			UpcomingWindowDays:   14,
			DefaultUpcomingLimit: 5,
			DefaultListDays:      30,
			MaxRangeDays:         366,
			DefaultLocation:      "Gedung Gereja",
		},
	}
}

func setupTestScheduleService() (*scheduleService, *mockScheduleTemplateRepo) {
	tplRepo := newMockScheduleTemplateRepo()
	repo := &repository.Repository{
		ScheduleTemplate: tplRepo,
		AdminUser:        newMockAdminUserRepo(),
	}
	svc := NewScheduleService(testScheduleConfig(), repo, nil, zap.NewNop()).(*scheduleService)
	return svc, tplRepo
}

func addOneTime(tplRepo *mockScheduleTemplateRepo, id, title, date, timeStr string) {
	tplRepo.templates[id] = &model.ScheduleTemplate{
		TemplateID: id, Title: title, Date: date, Time: timeStr,
		Category: "event", IsActive: true, IsRecurring: false,
	}
}

// ── GetByDate ──

func TestScheduleService_GetByDate_MergeAndSort(t *testing.T) {
	svc, tplRepo := setupTestScheduleService()

	// 2025-01-05 是周日；单次与重复同为 09:00，单次应排前（稳定排序）
	tplRepo.templates["tpl-weekly"] = weeklyIbadahTemplate()
	addOneTime(tplRepo, "tpl-rapat", "Rapat Majelis", "2025-01-05", "09:00")
	addOneTime(tplRepo, "tpl-doa", "Doa Pagi", "2025-01-05", "08:30")

	occs, err := svc.GetByDate(context.Background(), "2025-01-05")
	if err != nil {
		t.Fatalf("GetByDate 应成功: %v", err)
	}
	if len(occs) != 3 {
		t.Fatalf("期望 3 条日程，实际 %d", len(occs))
	}
	if occs[0].Title != "Doa Pagi" {
		t.Errorf("08:30 应排首位，实际 %q", occs[0].Title)
	}
	if occs[1].Title != "Rapat Majelis" {
		t.Errorf("同为 09:00 时单次应排在重复之前，实际 %q", occs[1].Title)
	}
	if occs[2].Title != "Ibadah Minggu" {
		t.Errorf("重复日程应排末位，实际 %q", occs[2].Title)
	}
}

func TestScheduleService_GetByDate_TimeRangeSortedByStart(t *testing.T) {
	svc, tplRepo := setupTestScheduleService()
	addOneTime(tplRepo, "tpl-a", "Sore", "2025-01-05", "17:00-19:00")
	addOneTime(tplRepo, "tpl-b", "Siang", "2025-01-05", "12:00")

	occs, err := svc.GetByDate(context.Background(), "2025-01-05")
	if err != nil {
		t.Fatalf("GetByDate 应成功: %v", err)
	}
	if len(occs) != 2 || occs[0].Title != "Siang" {
		t.Errorf("时间段日程应按起始时刻排序，实际: %+v", occs)
	}
}

func TestScheduleService_GetByDate_InvalidDate(t *testing.T) {
	svc, _ := setupTestScheduleService()
	if _, err := svc.GetByDate(context.Background(), "05-01-2025"); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("期望 ErrInvalidDate，实际: %v", err)
	}
}

func TestScheduleService_GetByDate_DegradeOnPartialFailure(t *testing.T) {
	svc, tplRepo := setupTestScheduleService()
	tplRepo.templates["tpl-weekly"] = weeklyIbadahTemplate()
	tplRepo.failOneTime = true

	occs, err := svc.GetByDate(context.Background(), "2025-01-05")
	if err != nil {
		t.Fatalf("单路故障应降级而非报错: %v", err)
	}
	if len(occs) != 1 || occs[0].Title != "Ibadah Minggu" {
		t.Errorf("降级后应仅返回重复日程，实际: %+v", occs)
	}
}

func TestScheduleService_GetByDate_BothFetchesFail(t *testing.T) {
	svc, tplRepo := setupTestScheduleService()
	tplRepo.failOneTime = true
	tplRepo.failRecurring = true

	if _, err := svc.GetByDate(context.Background(), "2025-01-05"); !errors.Is(err, ErrStoreUnavailable) {
		t.Errorf("两路皆败应报 ErrStoreUnavailable，实际: %v", err)
	}
}

func TestScheduleService_GetByDate_EmptyDayIsEmptyList(t *testing.T) {
	svc, _ := setupTestScheduleService()

	occs, err := svc.GetByDate(context.Background(), "2025-06-01")
	if err != nil {
		t.Fatalf("空日不应报错: %v", err)
	}
	if occs == nil || len(occs) != 0 {
		t.Errorf("空日应返回空列表而非 nil/报错，实际: %+v", occs)
	}
}

// ── GetByDateRange ──

func TestScheduleService_GetByDateRange(t *testing.T) {
	svc, tplRepo := setupTestScheduleService()
	tplRepo.templates["tpl-weekly"] = weeklyIbadahTemplate()
	addOneTime(tplRepo, "tpl-natal", "Perayaan", "2025-01-08", "18:00")

	occs, err := svc.GetByDateRange(context.Background(), "2025-01-01", "2025-01-15")
	if err != nil {
		t.Fatalf("GetByDateRange 应成功: %v", err)
	}
	// 周日 1-05、1-12 两条 + 单次一条
	if len(occs) != 3 {
		t.Fatalf("期望 3 条日程，实际 %d", len(occs))
	}
	for i := 1; i < len(occs); i++ {
		if occs[i-1].Date > occs[i].Date {
			t.Errorf("结果应按日期升序: %s > %s", occs[i-1].Date, occs[i].Date)
		}
	}
	if occs[1].Title != "Perayaan" {
		t.Errorf("1-08 的单次日程应居中，实际 %q", occs[1].Title)
	}
}

func TestScheduleService_GetByDateRange_MatchesPerDayQueries(t *testing.T) {
	svc, tplRepo := setupTestScheduleService()
	tplRepo.templates["tpl-weekly"] = weeklyIbadahTemplate()
	tplRepo.templates["tpl-monthly"] = &model.ScheduleTemplate{
		TemplateID: "tpl-monthly", Title: "Perjamuan Kudus", Time: "09:00",
		Category: "ibadah", IsActive: true, IsRecurring: true,
		Pattern: model.RecurrencePattern{Type: model.RecurrenceMonthly, Interval: 1, StartDate: "2025-01-05"},
	}
	addOneTime(tplRepo, "tpl-x", "Acara", "2025-02-03", "19:00")

	ranged, err := svc.GetByDateRange(context.Background(), "2025-01-01", "2025-02-28")
	if err != nil {
		t.Fatalf("GetByDateRange 应成功: %v", err)
	}

	var perDay int
	for d, _ := parseDay("2025-01-01"); !d.After(mustDay(t, "2025-02-28")); d = d.AddDate(0, 0, 1) {
		occs, err := svc.GetByDate(context.Background(), formatDay(d))
		if err != nil {
			t.Fatalf("GetByDate(%s) 应成功: %v", formatDay(d), err)
		}
		perDay += len(occs)
	}

	if len(ranged) != perDay {
		t.Errorf("范围物化与逐日物化应一致: 范围=%d 逐日=%d", len(ranged), perDay)
	}
}

func TestScheduleService_GetByDateRange_Validation(t *testing.T) {
	svc, _ := setupTestScheduleService()

	if _, err := svc.GetByDateRange(context.Background(), "2025-02-01", "2025-01-01"); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("期望 ErrInvalidRange，实际: %v", err)
	}
	if _, err := svc.GetByDateRange(context.Background(), "2025-01-01", "2030-01-01"); !errors.Is(err, ErrRangeTooWide) {
		t.Errorf("期望 ErrRangeTooWide，实际: %v", err)
	}
	if _, err := svc.GetByDateRange(context.Background(), "bad", "2025-01-01"); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("期望 ErrInvalidDate，实际: %v", err)
	}
}

// ── GetUpcoming ──

func TestScheduleService_GetUpcoming_LimitAndWindow(t *testing.T) {
	svc, tplRepo := setupTestScheduleService()
	tplRepo.templates["tpl-daily"] = &model.ScheduleTemplate{
		TemplateID: "tpl-daily", Title: "Doa Harian", Time: "06:00",
		Category: "ibadah", IsActive: true, IsRecurring: true,
		Pattern: model.RecurrencePattern{Type: model.RecurrenceDaily, Interval: 1, StartDate: "2025-01-01"},
	}

	occs, err := svc.GetUpcoming(context.Background(), "2025-01-10", 3)
	if err != nil {
		t.Fatalf("GetUpcoming 应成功: %v", err)
	}
	if len(occs) != 3 {
		t.Fatalf("期望 limit=3 条，实际 %d", len(occs))
	}
	if occs[0].Date != "2025-01-10" || occs[2].Date != "2025-01-12" {
		t.Errorf("应从 from 起按日期升序取前 3 条，实际: %s..%s", occs[0].Date, occs[2].Date)
	}
}

func TestScheduleService_GetUpcoming_DefaultLimit(t *testing.T) {
	svc, tplRepo := setupTestScheduleService()
	tplRepo.templates["tpl-daily"] = &model.ScheduleTemplate{
		TemplateID: "tpl-daily", Title: "Doa Harian", Time: "06:00",
		Category: "ibadah", IsActive: true, IsRecurring: true,
		Pattern: model.RecurrencePattern{Type: model.RecurrenceDaily, Interval: 1, StartDate: "2025-01-01"},
	}

	occs, err := svc.GetUpcoming(context.Background(), "2025-01-10", 0)
	if err != nil {
		t.Fatalf("GetUpcoming 应成功: %v", err)
	}
	if len(occs) != 5 {
		t.Errorf("limit 缺省应为 5，实际 %d", len(occs))
	}
}

func TestScheduleService_GetUpcoming_WindowBounded(t *testing.T) {
	svc, tplRepo := setupTestScheduleService()
	// 窗口外（from+14 天之后）才有日程：应返回空，而不是无限向后扫描
	addOneTime(tplRepo, "tpl-far", "Jauh", "2025-03-01", "10:00")

	occs, err := svc.GetUpcoming(context.Background(), "2025-01-01", 5)
	if err != nil {
		t.Fatalf("GetUpcoming 应成功: %v", err)
	}
	if len(occs) != 0 {
		t.Errorf("窗口外日程不应出现，实际: %+v", occs)
	}
}

// ── GetByCategory / List ──

func TestScheduleService_GetByCategory(t *testing.T) {
	svc, tplRepo := setupTestScheduleService()
	svc.now = func() time.Time { return time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC) }

	tplRepo.templates["tpl-weekly"] = weeklyIbadahTemplate()
	addOneTime(tplRepo, "tpl-rapat", "Rapat", "2025-01-10", "19:00")

	occs, err := svc.GetByCategory(context.Background(), "IBADAH", 20)
	if err != nil {
		t.Fatalf("GetByCategory 应成功: %v", err)
	}
	if len(occs) == 0 {
		t.Fatal("应命中 ibadah 分类的日程")
	}
	for _, occ := range occs {
		if occ.Category != "ibadah" {
			t.Errorf("分类过滤失效（应不区分大小写）: %+v", occ)
		}
	}
}

func TestScheduleService_GetByCategory_Empty(t *testing.T) {
	svc, _ := setupTestScheduleService()
	if _, err := svc.GetByCategory(context.Background(), "", 7); !errors.Is(err, ErrCategoryRequired) {
		t.Errorf("期望 ErrCategoryRequired，实际: %v", err)
	}
}

func TestScheduleService_List_RollingWindow(t *testing.T) {
	svc, tplRepo := setupTestScheduleService()
	svc.now = func() time.Time { return time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC) }

	addOneTime(tplRepo, "tpl-in", "Dalam", "2025-01-20", "10:00")
	addOneTime(tplRepo, "tpl-out", "Luar", "2025-06-01", "10:00")

	occs, err := svc.List(context.Background(), 0)
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if len(occs) != 1 || occs[0].Title != "Dalam" {
		t.Errorf("缺省 30 天窗口应只含窗口内日程，实际: %+v", occs)
	}
}

// ── GetByID ──

func TestScheduleService_GetByID_GeneratedID(t *testing.T) {
	svc, tplRepo := setupTestScheduleService()
	tpl := weeklyIbadahTemplate()
	tplRepo.templates[tpl.TemplateID] = tpl

	id := occurrenceID(tpl.TemplateID, "2025-01-12")
	detail, err := svc.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("GetByID 应成功: %v", err)
	}
	if detail.Source != "recurring" || detail.Occurrence == nil {
		t.Fatalf("生成态 ID 应返回 occurrence，实际: %+v", detail)
	}
	if detail.Occurrence.Description != "Khotbah oleh Pdt. Yohanes" {
		t.Errorf("定位到的日程应含覆盖渲染结果: %q", detail.Occurrence.Description)
	}
}

func TestScheduleService_GetByID_GeneratedIDMiss(t *testing.T) {
	svc, tplRepo := setupTestScheduleService()
	tpl := weeklyIbadahTemplate()
	tplRepo.templates[tpl.TemplateID] = tpl

	// 2025-01-13 是周一：模式不命中，ID 形式合法但定位不到
	id := occurrenceID(tpl.TemplateID, "2025-01-13")
	if _, err := svc.GetByID(context.Background(), id); !errors.Is(err, ErrScheduleNotFound) {
		t.Errorf("期望 ErrScheduleNotFound，实际: %v", err)
	}
}

func TestScheduleService_GetByID_StoredTemplate(t *testing.T) {
	svc, tplRepo := setupTestScheduleService()
	tpl := weeklyIbadahTemplate()
	tplRepo.templates[tpl.TemplateID] = tpl

	detail, err := svc.GetByID(context.Background(), tpl.TemplateID)
	if err != nil {
		t.Fatalf("GetByID 应成功: %v", err)
	}
	if detail.Source != "recurring-template" || detail.Template == nil {
		t.Fatalf("存储态 ID 应返回 template，实际: %+v", detail)
	}
	if detail.Template.Pattern == nil || detail.Template.Pattern.Type != "weekly" {
		t.Error("重复模板响应应携带重复模式")
	}
}

func TestScheduleService_GetByID_NotFound(t *testing.T) {
	svc, _ := setupTestScheduleService()
	if _, err := svc.GetByID(context.Background(), "nonexistent"); !errors.Is(err, ErrScheduleNotFound) {
		t.Errorf("期望 ErrScheduleNotFound，实际: %v", err)
	}
}

// [自证通过] internal/service/schedule_service_test.go
