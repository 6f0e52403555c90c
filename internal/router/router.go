package router

import (
	"time"

	"cantine/internal/config"
	"cantine/internal/handler"
	"cantine/internal/infra"
	"cantine/internal/middleware"
	"cantine/internal/model"
	"cantine/internal/repository"
	"cantine/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Infrastructure ───────────────────────────────────────────────────────
	var notifier service.ReadyNotifier
	if mailer := infra.NewMailer(cfg); mailer != nil {
		notifier = mailer
	}

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	dishRepo := repository.NewDishRepository(db)
	menuRepo := repository.NewMenuRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	reviewRepo := repository.NewReviewRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	dishSvc := service.NewDishService(dishRepo)
	menuSvc := service.NewMenuService(menuRepo, dishRepo, cfg)
	orderSvc := service.NewOrderService(orderRepo, menuRepo, notifier, db)
	reviewSvc := service.NewReviewService(reviewRepo, orderRepo, dishRepo, rdb)
	consolidationSvc := service.NewConsolidationService(orderRepo, cfg.PDFStoragePath)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usersH := handler.NewUsersHandler(authSvc)
	dishesH := handler.NewDishesHandler(dishSvc)
	menusH := handler.NewMenusHandler(menuSvc)
	ordersH := handler.NewOrdersHandler(orderSvc)
	reviewsH := handler.NewReviewsHandler(reviewSvc)
	consolidationH := handler.NewConsolidationHandler(consolidationSvc)

	// Role shorthands
	staff := middleware.RequireRole(model.RoleAdmin, model.RoleSecretary, model.RoleCaterer)
	planners := middleware.RequireRole(model.RoleAdmin, model.RoleSecretary)
	admin := middleware.RequireRole(model.RoleAdmin)
	kitchen := middleware.RequireRole(model.RoleAdmin, model.RoleCaterer)
	anyRole := middleware.RequireRole(model.RoleEmployee, model.RoleAdmin, model.RoleSecretary, model.RoleCaterer)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
		auth.POST("/register", middleware.LoginRateLimiter(), authH.Register)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		v1.GET("/auth/me", anyRole, authH.Me)
		v1.POST("/auth/me/theme", anyRole, authH.ToggleTheme)

		// User directory, admin only
		users := v1.Group("/users", admin)
		{
			users.POST("", usersH.Create)
			users.GET("", usersH.List)
			users.PUT("/:id", usersH.Update)
			users.DELETE("/:id", usersH.Deactivate)
			users.POST("/:id/reactivate", usersH.Reactivate)
		}

		// Dish catalog: everyone reads, planners write
		v1.GET("/dishes", anyRole, dishesH.List)
		v1.GET("/dishes/categories", anyRole, dishesH.ListCategories)
		v1.GET("/dishes/:id", anyRole, dishesH.Get)
		dishes := v1.Group("/dishes", planners)
		{
			dishes.POST("", dishesH.Create)
			dishes.PUT("/:id", dishesH.Update)
			dishes.DELETE("/:id", dishesH.Deactivate)
			dishes.POST("/:id/reactivate", dishesH.Reactivate)
			dishes.POST("/categories", dishesH.CreateCategory)
			dishes.PUT("/categories/:id", dishesH.UpdateCategory)
		}

		// Menu planner
		v1.GET("/menus/week", anyRole, menusH.Week)
		v1.GET("/menus/tracking", staff, menusH.Tracking)
		v1.GET("/menus/pending-publication", planners, menusH.PendingPublication)
		v1.GET("/menus/nearing-cutoff", planners, menusH.NearingCutoff)
		v1.GET("/menus/:id", anyRole, menusH.Get)
		menus := v1.Group("/menus", planners)
		{
			menus.POST("/week/ensure", menusH.EnsureWeek)
			menus.PUT("/:id", menusH.Update)
			menus.PUT("/:id/dishes", menusH.SetDishes)
			menus.POST("/:id/publish", menusH.Publish)
			menus.POST("/:id/unpublish", menusH.Unpublish)
		}

		// Order ledger
		v1.POST("/orders", anyRole, ordersH.Place)
		v1.GET("/orders/mine", anyRole, ordersH.Mine)
		v1.GET("/orders", staff, ordersH.List)
		v1.GET("/orders/stats", planners, ordersH.Stats)
		v1.GET("/orders/:id", anyRole, ordersH.Get)
		v1.PUT("/orders/:id", anyRole, ordersH.ChangeDish)
		v1.DELETE("/orders/:id", anyRole, ordersH.Cancel)
		v1.PATCH("/orders/:id/status", kitchen, ordersH.AdvanceStatus)

		// Review ledger
		v1.POST("/reviews", anyRole, reviewsH.Submit)
		v1.GET("/reviews/mine", anyRole, reviewsH.Mine)
		v1.GET("/reviews/pending", anyRole, reviewsH.Pending)
		v1.GET("/reviews/can-review/:dish_id", anyRole, reviewsH.CanReview)
		v1.GET("/reviews/dishes/:dish_id", anyRole, reviewsH.DishRating)
		v1.DELETE("/reviews/:id", anyRole, reviewsH.Delete)
		v1.GET("/reviews/moderation", planners, reviewsH.Moderation)
		v1.GET("/reviews/stats", planners, reviewsH.Stats)
		v1.POST("/reviews/:id/approve", planners, reviewsH.Approve)
		v1.POST("/reviews/:id/reject", planners, reviewsH.Reject)

		// Caterer consolidation
		consolidation := v1.Group("/consolidation", kitchen)
		{
			consolidation.GET("", consolidationH.Preparation)
			consolidation.GET("/export", consolidationH.WeekExport)
			consolidation.GET("/:site", consolidationH.ForSite)
			consolidation.GET("/:site/pdf", consolidationH.PrepSheet)
		}
	}

	// Swagger UI, only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
