package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cppla/missionboard/config"
	"github.com/cppla/missionboard/controllers"
	"github.com/cppla/missionboard/metrics"
	"github.com/cppla/missionboard/middleware"
	"github.com/cppla/missionboard/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestID())
	// Access log goes to its own rolling file; fall back to the app logger
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err != nil {
		gl = utils.Logger
	}
	r.Use(utils.Ginzap(gl, time.RFC3339, true))
	r.Use(utils.RecoveryWithZap(gl, false))
	if cfg.MetricsEnabled {
		r.Use(metrics.Middleware())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
		// credentials cannot be combined with a wildcard origin
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	if cfg.MetricsEnabled {
		r.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	authController := controllers.NewAuthController(db)
	missionController := controllers.NewMissionController(db)
	rankingController := controllers.NewRankingController(db)
	userController := controllers.NewUserController(db)
	metaController := controllers.NewMetaController()

	api := r.Group("/api")

	api.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})
	api.GET("/meta/enums", metaController.GetEnums)

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware(cfg.RateLimitPerMinute))
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.GET("/me", middleware.AuthRequired(), authController.Me)
	authGroup.POST("/logout", middleware.AuthRequired(), authController.Logout)

	missions := api.Group("/missions")
	missions.Use(middleware.AuthRequired())
	missions.GET("", missionController.List)
	missions.GET("/completed", missionController.Completed)
	missions.POST("/:missionId/toggle", missionController.Toggle)

	ranking := api.Group("/ranking")
	ranking.GET("", rankingController.Total)
	ranking.GET("/all", rankingController.All)
	ranking.GET("/total", rankingController.Total)
	ranking.GET("/department", rankingController.Department)
	ranking.GET("/category/:category", rankingController.Category)

	users := api.Group("/users")
	users.Use(middleware.AuthRequired())
	users.GET("/mypage", userController.MyPage)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "요청한 경로를 찾을 수 없습니다.")
	})

	return r
}
