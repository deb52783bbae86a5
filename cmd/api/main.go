package main

import (
	"errors"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"stockroom/internal/authz"
	"stockroom/internal/handler"
	"stockroom/internal/middleware"
	"stockroom/internal/model"
	"stockroom/internal/repository"
	"stockroom/internal/service"
	"stockroom/internal/ws"
	"stockroom/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, using environment")
	}
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("APP_ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	db := database.ConnectDB()
	if err := db.AutoMigrate(
		&model.Permission{},
		&model.Role{},
		&model.User{},
		&model.Product{},
		&model.ProductVariant{},
		&model.Template{},
		&model.TemplateItem{},
		&model.StockInRecord{},
		&model.StockInItem{},
		&model.StockOutRecord{},
		&model.StockOutItem{},
	); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	userRepo := repository.NewUserRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	permRepo := repository.NewPermissionRepo(db)
	productRepo := repository.NewProductRepo(db)
	variantRepo := repository.NewVariantRepo(db)
	templateRepo := repository.NewTemplateRepo(db)
	stockInRepo := repository.NewStockInRepo(db)
	stockOutRepo := repository.NewStockOutRepo(db)

	if err := seed(db, userRepo, roleRepo, permRepo); err != nil {
		log.Fatal().Err(err).Msg("seeding failed")
	}

	hub := ws.NewHub()
	go hub.Run()

	authorizer := authz.New()
	authService := service.NewAuthService(userRepo)
	userService := service.NewUserService(userRepo, roleRepo, permRepo)
	roleService := service.NewRoleService(roleRepo, permRepo, userRepo)
	productService := service.NewProductService(productRepo, variantRepo)
	templateService := service.NewTemplateService(templateRepo, variantRepo)
	stockInService := service.NewStockInService(stockInRepo, variantRepo, hub)
	stockOutService := service.NewStockOutService(stockOutRepo, variantRepo, templateRepo, hub)
	reportService := service.NewReportService(db, productRepo, lowStockThreshold())

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService, authorizer)
	roleHandler := handler.NewRoleHandler(roleService, permRepo)
	productHandler := handler.NewProductHandler(productService)
	templateHandler := handler.NewTemplateHandler(templateService)
	stockInHandler := handler.NewStockInHandler(stockInService)
	stockOutHandler := handler.NewStockOutHandler(stockOutService)
	reportHandler := handler.NewReportHandler(reportService)

	app := fiber.New(fiber.Config{
		AppName:      "stockroom",
		ErrorHandler: middleware.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: getEnv("CORS_ORIGINS", "*"),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	api := app.Group("/api/v1")
	api.Post("/auth/login", authHandler.Login)

	auth := api.Group("", middleware.RequireAuth(userRepo))
	perm := func(code string) fiber.Handler { return middleware.RequirePermission(authorizer, code) }

	auth.Get("/auth/me", authHandler.Me)
	auth.Put("/auth/profile", authHandler.UpdateProfile)
	auth.Put("/auth/password", authHandler.ChangePassword)

	auth.Get("/users", perm("users.view"), userHandler.GetAll)
	auth.Get("/users/:id", userHandler.GetByID)
	auth.Post("/users", perm("users.create"), userHandler.Create)
	auth.Put("/users/:id", perm("users.update"), userHandler.Update)
	auth.Delete("/users/:id", userHandler.Delete)
	auth.Patch("/users/:id/toggle-status", userHandler.ToggleStatus)
	auth.Put("/users/:id/permissions", perm("users.sync-permissions"), userHandler.SyncPermissions)

	auth.Get("/roles", perm("roles.view"), roleHandler.GetAll)
	auth.Get("/roles/:id", perm("roles.view"), roleHandler.GetByID)
	auth.Post("/roles", perm("roles.create"), roleHandler.Create)
	auth.Put("/roles/:id", perm("roles.update"), roleHandler.Update)
	auth.Delete("/roles/:id", perm("roles.delete"), roleHandler.Delete)
	auth.Get("/permissions", perm("roles.view"), roleHandler.Permissions)

	auth.Get("/products", perm("products.view"), productHandler.GetAll)
	auth.Get("/products/trashed", perm("products.view"), productHandler.GetTrashed)
	auth.Get("/products/:id", perm("products.view"), productHandler.GetByID)
	auth.Post("/products", perm("products.create"), productHandler.Create)
	auth.Put("/products/:id", perm("products.update"), productHandler.Update)
	auth.Delete("/products/:id", perm("products.delete"), productHandler.Delete)
	auth.Patch("/products/:id/restore", perm("products.restore"), productHandler.Restore)
	auth.Delete("/products/:id/force", perm("products.force-delete"), productHandler.ForceDelete)

	auth.Get("/templates", perm("templates.view"), templateHandler.GetAll)
	auth.Get("/templates/trashed", perm("templates.view"), templateHandler.GetTrashed)
	auth.Get("/templates/active", perm("templates.view"), templateHandler.GetActive)
	auth.Get("/templates/:id", perm("templates.view"), templateHandler.GetByID)
	auth.Post("/templates", perm("templates.create"), templateHandler.Create)
	auth.Put("/templates/:id", perm("templates.update"), templateHandler.Update)
	auth.Patch("/templates/:id/activate", perm("templates.set-active"), templateHandler.SetActive)
	auth.Delete("/templates/:id", perm("templates.delete"), templateHandler.Delete)
	auth.Patch("/templates/:id/restore", perm("templates.restore"), templateHandler.Restore)
	auth.Delete("/templates/:id/force", perm("templates.force-delete"), templateHandler.ForceDelete)

	auth.Get("/stock-ins", perm("stock-ins.view"), stockInHandler.GetAll)
	auth.Get("/stock-ins/:id", perm("stock-ins.view"), stockInHandler.GetByID)
	auth.Post("/stock-ins", perm("stock-ins.create"), stockInHandler.Create)
	auth.Put("/stock-ins/:id", perm("stock-ins.update"), stockInHandler.Update)
	auth.Delete("/stock-ins/:id", perm("stock-ins.delete"), stockInHandler.Delete)
	auth.Post("/stock-ins/:id/submit", perm("stock-ins.submit"), stockInHandler.Submit)

	auth.Get("/stock-outs", perm("stock-outs.view"), stockOutHandler.GetAll)
	auth.Get("/stock-outs/prefill", perm("stock-outs.create"), stockOutHandler.Prefill)
	auth.Get("/stock-outs/:id", perm("stock-outs.view"), stockOutHandler.GetByID)
	auth.Post("/stock-outs", perm("stock-outs.create"), stockOutHandler.Create)
	auth.Put("/stock-outs/:id", perm("stock-outs.update"), stockOutHandler.Update)
	auth.Delete("/stock-outs/:id", perm("stock-outs.delete"), stockOutHandler.Delete)
	auth.Post("/stock-outs/:id/submit", perm("stock-outs.submit"), stockOutHandler.Submit)

	auth.Get("/reports/dashboard", perm("reports.view"), reportHandler.Dashboard)
	auth.Get("/reports/stock/export", perm("reports.view"), reportHandler.ExportStock)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/stock", websocket.New(func(conn *websocket.Conn) {
		hub.Register(conn)
		defer hub.Unregister(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}))

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Info().Msg("shutting down")
		if err := app.Shutdown(); err != nil {
			log.Error().Err(err).Msg("shutdown error")
		}
	}()

	port := getEnv("PORT", "8080")
	log.Info().Str("port", port).Msg("server starting")
	if err := app.Listen(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

// seed installs default permissions and roles, grants the staff role its
// day-to-day permissions on first boot, and creates the initial admin account
// when none exists.
func seed(db *gorm.DB, userRepo repository.UserRepository, roleRepo repository.RoleRepository, permRepo repository.PermissionRepository) error {
	if err := permRepo.SeedDefaults(); err != nil {
		return err
	}
	if err := roleRepo.SeedDefaults(); err != nil {
		return err
	}

	staff, err := roleRepo.FindByCode(model.RoleStaff)
	if err != nil {
		return err
	}
	if len(staff.Permissions) == 0 {
		codes := []string{
			"products.view", "templates.view",
			"stock-ins.view", "stock-ins.create", "stock-ins.update", "stock-ins.delete", "stock-ins.submit",
			"stock-outs.view", "stock-outs.create", "stock-outs.update", "stock-outs.delete", "stock-outs.submit",
		}
		permissions, err := permRepo.FindByCodes(codes)
		if err != nil {
			return err
		}
		if err := roleRepo.SyncPermissions(db, staff, permissions); err != nil {
			return err
		}
	}

	adminEmail := getEnv("ADMIN_EMAIL", "admin@stockroom.local")
	if _, err := userRepo.FindByEmail(adminEmail); err == nil {
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	admin, err := roleRepo.FindByCode(model.RoleAdmin)
	if err != nil {
		return err
	}
	user := &model.User{
		Email:    adminEmail,
		FullName: "Administrator",
		IsActive: true,
		RoleID:   &admin.ID,
	}
	user.CreatedBy = "system"
	user.UpdatedBy = "system"
	if err := user.SetPassword(getEnv("ADMIN_PASSWORD", "changeme123")); err != nil {
		return err
	}
	if err := userRepo.Create(user); err != nil {
		return err
	}
	log.Info().Str("email", adminEmail).Msg("seeded initial admin account")
	return nil
}

func lowStockThreshold() int {
	if v, err := strconv.Atoi(os.Getenv("LOW_STOCK_THRESHOLD")); err == nil && v >= 0 {
		return v
	}
	return 10
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
