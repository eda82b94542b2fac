package server

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/h4ks-com/croptrack/internal/auth"
	"github.com/h4ks-com/croptrack/internal/config"
	"github.com/h4ks-com/croptrack/internal/handlers"
	"github.com/h4ks-com/croptrack/internal/middleware"
	"github.com/h4ks-com/croptrack/internal/repository"
	"github.com/h4ks-com/croptrack/internal/services"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const sessionName = "croptrack_session"

// Services is the set of domain services the HTTP layer talks to.
type Services struct {
	Accounts   *services.AccountService
	Tokens     *services.TokenService
	Farms      *services.FarmService
	CropTypes  *services.CropTypeService
	Crops      *services.CropService
	Irrigation *services.IrrigationService
	Weather    *services.WeatherService
	Export     *services.ExportService
	Clock      services.Clock
}

// NewServices wires repositories and services over one database handle.
func NewServices(db *gorm.DB, cfg *config.Config) *Services {
	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	farmRepo := repository.NewFarmRepository(db)
	cropTypeRepo := repository.NewCropTypeRepository(db)
	cropRepo := repository.NewCropRepository(db)
	irrigationRepo := repository.NewIrrigationRepository(db)
	weatherRepo := repository.NewWeatherRepository(db)

	clock := services.NewClock(cfg.Location)

	return &Services{
		Accounts:   services.NewAccountService(userRepo),
		Tokens:     services.NewTokenService(tokenRepo, userRepo, cfg.JWT.Secret),
		Farms:      services.NewFarmService(farmRepo, cropRepo, irrigationRepo, clock),
		CropTypes:  services.NewCropTypeService(cropTypeRepo),
		Crops:      services.NewCropService(farmRepo, cropRepo, cropTypeRepo, irrigationRepo, clock),
		Irrigation: services.NewIrrigationService(cropRepo, irrigationRepo, clock),
		Weather:    services.NewWeatherService(farmRepo, weatherRepo),
		Export:     services.NewExportService(farmRepo, cropRepo, irrigationRepo, weatherRepo, cfg.ReportSigningKey, clock),
		Clock:      clock,
	}
}

// NewRouter builds the gin engine with every route mounted.
func NewRouter(cfg *config.Config, svc *Services, log *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(log))

	store := cookie.NewStore([]byte(cfg.Session.Secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		Secure:   cfg.Session.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	router.Use(sessions.Sessions(sessionName, store))

	logtoHandler := auth.NewLogtoHandler(&cfg.Logto, log)

	authMiddleware := middleware.NewAuthMiddleware(svc.Tokens, svc.Accounts, logtoHandler, cfg.TestMode)
	adminMiddleware := middleware.NewAdminMiddleware(cfg.AdminUsers)

	farmHandler := handlers.NewFarmHandler(svc.Farms, svc.Clock)
	cropHandler := handlers.NewCropHandler(svc.Crops, svc.Clock)
	irrigationHandler := handlers.NewIrrigationHandler(svc.Irrigation)
	weatherHandler := handlers.NewWeatherHandler(svc.Weather)
	exportHandler := handlers.NewExportHandler(svc.Export)
	guideHandler := handlers.NewGuideHandler(svc.CropTypes)
	tokenHandler := handlers.NewTokenHandler(svc.Tokens)
	adminHandler := handlers.NewAdminHandler(svc.Accounts, svc.Farms, svc.CropTypes, svc.Crops, svc.Irrigation, svc.Weather, svc.Clock)

	authRoutes := router.Group("/auth")
	{
		authRoutes.GET("/login", logtoHandler.Login)
		authRoutes.GET("/callback", logtoHandler.Callback)
		authRoutes.GET("/logout", logtoHandler.Logout)
	}

	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/api/v1/dashboard")
	})
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/docs", handlers.APIDocs("/swagger/doc.json"))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/api/v1")
	{
		api.GET("/guide", guideHandler.GetGuide)
		api.POST("/report/verify", exportHandler.VerifyReport)
		api.GET("/dashboard", authMiddleware.OptionalAuth(), farmHandler.GetDashboard)

		authenticated := api.Group("")
		authenticated.Use(authMiddleware.RequireAuth())
		{
			authenticated.GET("/farms", farmHandler.ListFarms)
			authenticated.POST("/farms", farmHandler.CreateFarm)
			authenticated.GET("/farms/:id", farmHandler.GetFarm)
			authenticated.GET("/farms/:id/crops/new", cropHandler.NewCropForm)
			authenticated.POST("/farms/:id/crops", cropHandler.AddCrop)
			authenticated.GET("/farms/:id/weather", weatherHandler.ListWeather)
			authenticated.POST("/farms/:id/weather", weatherHandler.RecordWeather)
			authenticated.GET("/farms/:id/report", exportHandler.ExportFarm)
			authenticated.GET("/farms/:id/report/xlsx", exportHandler.ExportFarmWorkbook)

			authenticated.GET("/crops/:id", cropHandler.GetCrop)
			authenticated.PUT("/crops/:id/stage", cropHandler.SetStage)
			authenticated.GET("/crops/:id/irrigation/new", irrigationHandler.NewScheduleForm)
			authenticated.POST("/crops/:id/irrigation", irrigationHandler.AddSchedule)

			authenticated.GET("/irrigation", irrigationHandler.GetBoard)
			authenticated.POST("/irrigation/:id/complete", irrigationHandler.CompleteIrrigation)

			authenticated.POST("/tokens", tokenHandler.CreateToken)
			authenticated.GET("/tokens", tokenHandler.ListTokens)
			authenticated.DELETE("/tokens/:id", tokenHandler.DeleteToken)
		}

		admin := api.Group("/admin")
		admin.Use(authMiddleware.RequireAuth(), adminMiddleware.RequireAdmin())
		{
			admin.GET("/users", adminHandler.ListUsers)
			admin.GET("/farms", adminHandler.ListFarms)
			admin.DELETE("/farms/:id", adminHandler.DeleteFarm)
			admin.POST("/crop-types", adminHandler.CreateCropType)
			admin.GET("/crops", adminHandler.ListCrops)
			admin.GET("/irrigation", adminHandler.ListIrrigation)
			admin.GET("/weather", adminHandler.ListWeather)
		}
	}

	return router
}
