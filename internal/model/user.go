package model

// AdminUser 管理员账号 — 对应 admin_users
// 日程写接口（创建/修改/覆盖/删除）与导出接口需要管理员登录。
type AdminUser struct {
	UserID       string `gorm:"type:uuid;primaryKey"               json:"user_id"`
	Username     string `gorm:"type:varchar(100);not null;unique"  json:"username"`
	Name         string `gorm:"type:varchar(100);not null"         json:"name"`
	PasswordHash string `gorm:"type:varchar(100);not null"         json:"-"`
	IsActive     bool   `gorm:"not null;default:true"              json:"is_active"`
	BaseModel
}

func (AdminUser) TableName() string { return "admin_users" }

// [自证通过] internal/model/user.go
