package router

import (
	"time"

	"github.com/elianismedina/restaurantposapi/internal/config"
	"github.com/elianismedina/restaurantposapi/internal/handler"
	"github.com/elianismedina/restaurantposapi/internal/infra"
	"github.com/elianismedina/restaurantposapi/internal/middleware"
	"github.com/elianismedina/restaurantposapi/internal/repository"
	"github.com/elianismedina/restaurantposapi/internal/service"
	"github.com/elianismedina/restaurantposapi/internal/worker"

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
	priceCache := infra.NewPriceCache(rdb, time.Duration(cfg.PriceCacheTTL)*time.Second)

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	registerRepo := repository.NewRegisterRepository(db)
	closingRepo := repository.NewClosingRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	branchRepo := repository.NewBranchRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	authSvc := service.NewAuthService(userRepo, cfg)
	productSvc := service.NewProductService(productRepo, priceCache)
	customerSvc := service.NewCustomerService(customerRepo)
	coordinator := service.NewCoordinator(saleRepo, productRepo, registerRepo)
	saleSvc := service.NewSaleService(saleRepo, productRepo, customerRepo, coordinator)
	cashSvc := service.NewCashService(registerRepo, closingRepo, saleRepo, userRepo, dispatcher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usersH := handler.NewUsersHandler(authSvc)
	productsH := handler.NewProductsHandler(productSvc)
	salesH := handler.NewSalesHandler(saleSvc)
	cashH := handler.NewCashHandler(cashSvc)
	customersH := handler.NewCustomersHandler(customerSvc)
	branchesH := handler.NewBranchesHandler(branchRepo)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Price check — no auth required, served through the Redis cache
	r.GET("/v1/prices/:id", productsH.CheckPrice)

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: cashier, supervisor, admin — declared per-endpoint
		v1.POST("/sales", middleware.RequireRole("cashier", "supervisor", "admin"), salesH.Register)
		v1.GET("/sales", middleware.RequireRole("cashier", "supervisor", "admin"), salesH.List)
		v1.GET("/sales/report", middleware.RequireRole("supervisor", "admin"), salesH.Report)

		cash := v1.Group("/cash", middleware.RequireRole("cashier", "supervisor", "admin"))
		{
			cash.POST("/register", cashH.CreateRegister)
			cash.GET("/register", cashH.GetRegister)
			cash.POST("/transaction", cashH.SettleSale)
			cash.POST("/closing", cashH.CloseDay)
			cash.GET("/closings", cashH.ListClosings)
		}

		// Catalog reads — all authenticated roles
		v1.GET("/products", middleware.RequireRole("cashier", "supervisor", "admin"), productsH.List)
		v1.GET("/products/:id", middleware.RequireRole("cashier", "supervisor", "admin"), productsH.GetByID)
		// Catalog writes — admin only
		prods := v1.Group("/products", middleware.RequireRole("admin"))
		{
			prods.POST("", productsH.Create)
			prods.PUT("/:id", productsH.Update)
			prods.DELETE("/:id", productsH.Deactivate)
		}

		v1.GET("/customers", middleware.RequireRole("cashier", "supervisor", "admin"), customersH.List)
		v1.GET("/customers/:id", middleware.RequireRole("cashier", "supervisor", "admin"), customersH.GetByID)
		v1.POST("/customers", middleware.RequireRole("cashier", "supervisor", "admin"), customersH.Create)

		branches := v1.Group("/branches", middleware.RequireRole("admin"))
		{
			branches.POST("", branchesH.Create)
		}
		v1.GET("/branches", middleware.RequireRole("cashier", "supervisor", "admin"), branchesH.List)

		users := v1.Group("/users", middleware.RequireRole("admin"))
		{
			users.POST("", usersH.Create)
			users.GET("", usersH.List)
			users.DELETE("/:id", usersH.Deactivate)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
