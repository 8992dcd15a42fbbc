package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/yourusername/quiz-api/internal/config"
	"github.com/yourusername/quiz-api/internal/handler"
	"github.com/yourusername/quiz-api/internal/handler/helper"
	"github.com/yourusername/quiz-api/internal/middleware"
	pgRepo "github.com/yourusername/quiz-api/internal/repository/postgres"
	redisRepo "github.com/yourusername/quiz-api/internal/repository/redis"
	"github.com/yourusername/quiz-api/internal/service"
	ws "github.com/yourusername/quiz-api/internal/websocket"
	"github.com/yourusername/quiz-api/pkg/auth"
	"github.com/yourusername/quiz-api/pkg/database"
)

func main() {
	// Локальный .env не обязателен
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Предупреждение: не удалось прочитать .env: %v", err)
	}

	// Загружаем конфигурацию
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	log.Printf("Загрузка конфигурации из %s", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	isProduction := gin.Mode() == gin.ReleaseMode

	// Создаем контекст с отменой для корректного завершения фоновых горутин
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Инициализируем подключение к PostgreSQL
	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString(), !isProduction, database.DefaultPoolConfig())
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	// Применяем миграции
	if err := database.MigrateDB(db); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		os.Exit(1)
	}

	sqlDB, err := database.GetSQLDB(db)
	if err != nil {
		log.Printf("Failed to get sql.DB: %v", err)
		os.Exit(1)
	}
	defer sqlDB.Close()

	// Инициализируем подключение к Redis
	redisClient, err := database.NewUniversalRedisClient(ctx, cfg.Redis)
	if err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	log.Println("Successfully connected to Redis")

	// Инициализируем репозитории
	transactor := pgRepo.NewTransactor(db)
	categoryRepo := pgRepo.NewCategoryRepo(db)
	quizRepo := pgRepo.NewQuizRepo(db)
	attemptRepo := pgRepo.NewAttemptRepo(db)
	adminUserRepo := pgRepo.NewAdminUserRepo(db)

	cacheRepo, err := redisRepo.NewCacheRepo(redisClient, "quiz")
	if err != nil {
		log.Printf("Failed to initialize CacheRepo: %v", err)
		os.Exit(1)
	}

	// --- WebSocket лента попыток ---
	wsHub := ws.NewHub()
	go wsHub.Run(ctx)

	var clusterBridge *ws.ClusterBridge
	if cfg.WebSocket.ClusterEnabled {
		log.Println("Инициализация Redis PubSub для кластеризации WebSocket...")
		provider, errProv := ws.NewRedisPubSub(redisClient)
		if errProv != nil {
			log.Printf("Ошибка при создании Redis PubSub провайдера: %v. Кластеризация WS будет неактивна.", errProv)
		} else {
			clusterBridge = ws.NewClusterBridge(wsHub, provider, cfg.WebSocket.Channel, cfg.WebSocket.InstanceID)
			go func() {
				if err := clusterBridge.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					log.Printf("[ClusterBridge] Остановлен с ошибкой: %v", err)
				}
			}()
			log.Printf("Redis PubSub провайдер инициализирован, экземпляр %s", clusterBridge.InstanceID())
		}
	}
	wsManager := ws.NewManager(wsHub, clusterBridge)

	// --- Аутентификация ---
	jwtService, err := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpirationHrs, cfg.JWT.Issuer)
	if err != nil {
		log.Printf("Failed to initialize JWTService: %v", err)
		os.Exit(1)
	}
	hasher := auth.NewBcryptHasher(auth.DefaultBcryptCost)

	// Инициализируем сервисы
	authService := service.NewAuthService(adminUserRepo, hasher, jwtService)
	categoryService := service.NewCategoryService(categoryRepo, cacheRepo)
	quizAdminService := service.NewQuizAdminService(transactor, categoryRepo, quizRepo, cfg.Quiz.ChoicesPerQuiz)
	playService := service.NewPlayService(transactor, categoryRepo, quizRepo, attemptRepo, wsManager, nil)
	exportService := service.NewExportService(categoryRepo, quizRepo, attemptRepo)

	seedService := service.NewSeedService(authService, categoryService, quizAdminService, service.SeedConfig{
		AdminUsername: cfg.Admin.SeedUsername,
		AdminPassword: cfg.Admin.SeedPassword,
		SampleData:    cfg.Admin.SeedSampleData,
	})
	if err := seedService.Seed(ctx); err != nil {
		log.Printf("Failed to seed initial data: %v", err)
		os.Exit(1)
	}

	// Инициализируем обработчики
	session := helper.SessionCookie{
		Name:   cfg.Session.CookieName,
		MaxAge: cfg.Session.MaxAge(),
		Secure: cfg.Session.Secure,
	}
	playHandler := handler.NewPlayHandler(playService, session)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	quizHandler := handler.NewQuizHandler(quizAdminService)
	authHandler := handler.NewAuthHandler(authService)
	exportHandler := handler.NewExportHandler(exportService)
	wsHandler := handler.NewWSHandler(wsHub, wsManager, jwtService, cfg.CORS.AllowOrigins)
	healthHandler := handler.NewHealthHandler(map[string]handler.HealthCheck{
		"postgres": sqlDB.PingContext,
		"redis": func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		},
	})

	// Инициализируем middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService)
	rateLimiter := middleware.NewRateLimiter(redisClient)
	loginLimit := middleware.LoginRateLimitConfig(cfg.RateLimit.LoginMaxRequests, cfg.RateLimit.LoginWindowSec)

	// Инициализируем роутер Gin
	router := gin.Default()

	if isProduction {
		if err := router.SetTrustedProxies(nil); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	} else {
		if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	}

	// Настройка CORS
	router.Use(cors.New(corsConfig(cfg.CORS.AllowOrigins)))
	router.Use(authMiddleware.Authenticate())

	router.GET("/health", healthHandler.Health)

	// Настраиваем маршруты API
	api := router.Group("/api")
	{
		api.GET("/categories", categoryHandler.ListCategories)
		api.GET("/quizzes", middleware.ExtractUintQuery("category", "categoryID"), playHandler.NextQuiz)
		api.POST("/quizzes/:id/answer", middleware.ExtractUintParam("id", "quizID"), playHandler.SubmitAnswer)
		api.GET("/result", middleware.ExtractUintQuery("category", "categoryID"), playHandler.Result)

		admin := api.Group("/admin")
		{
			admin.POST("/login", rateLimiter.Limit(loginLimit), authHandler.Login)
			// Токен передается в query, т.к. браузер не отправляет заголовки при upgrade
			admin.GET("/ws", wsHandler.HandleConnection)

			protected := admin.Group("", authMiddleware.RequireAdmin())
			{
				protected.GET("/me", authHandler.Me)
				protected.POST("/users", authHandler.CreateAdmin)

				categories := protected.Group("/categories")
				{
					categories.GET("", categoryHandler.ListCategories)
					categories.POST("", categoryHandler.CreateCategory)
					withID := categories.Group("/:id", middleware.ExtractUintParam("id", "categoryID"))
					withID.GET("", categoryHandler.GetCategory)
					withID.PUT("", categoryHandler.UpdateCategory)
					withID.DELETE("", categoryHandler.DeleteCategory)
					withID.GET("/stats", exportHandler.GetCategoryStats)
				}

				quizzes := protected.Group("/quizzes")
				{
					quizzes.GET("", quizHandler.ListQuizzes)
					quizzes.POST("", quizHandler.CreateQuiz)
					withID := quizzes.Group("/:id", middleware.ExtractUintParam("id", "quizID"))
					withID.GET("", quizHandler.GetQuiz)
					withID.PUT("", quizHandler.UpdateQuiz)
					withID.DELETE("", quizHandler.DeleteQuiz)
				}

				export := protected.Group("/export")
				{
					export.GET("/quizzes", exportHandler.ExportQuizBank)
					export.GET("/categories/:id/stats", middleware.ExtractUintParam("id", "categoryID"), exportHandler.ExportCategoryStats)
				}
			}
		}
	}

	// Настраиваем HTTP сервер с тайм-аутами для защиты от slow client attacks
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Останавливаем хаб и подписку Pub/Sub
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		os.Exit(1)
	}

	log.Println("Server exited properly")
}

// corsConfig разрешает перечисленные источники; "*" открывает API для всех без credentials
func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition", "Retry-After"},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
