package app

import (
	"context"
	"lms_backend/internal/config"
	"lms_backend/internal/controller"
	"lms_backend/internal/repository"
	"lms_backend/internal/service"
	"lms_backend/internal/util"
	"lms_backend/pkg/configwatcher"
	"lms_backend/pkg/database"
	"lms_backend/pkg/logger"
	"lms_backend/pkg/monitoring"
	"lms_backend/pkg/security"
	"lms_backend/pkg/tracing"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	"github.com/robfig/cron/v3"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const configFile = "configs/config.yaml"

type App struct {
	Config   *config.Config
	Router   *gin.Engine
	DB       *gorm.DB
	Redis    *redis.Client
	services *services

	configCallbacks []func(*config.Config)
	tracer          *sdktrace.TracerProvider
	scheduler       *cron.Cron
	done            chan struct{}
}

type repositories struct {
	user                 *repository.UserRepository
	course               *repository.CourseRepository
	enrollment           *repository.EnrollmentRepository
	assessment           *repository.AssessmentRepository
	assessmentSubmission *repository.AssessmentSubmissionRepository
	assignment           *repository.AssignmentRepository
	liveClass            *repository.LiveClassRepository
}

type services struct {
	mailer       *service.ReloadingMailer
	storage      *service.StorageService
	notification *service.NotificationService
	auth         *service.AuthService
	course       *service.CourseService
	enrollment   *service.EnrollmentService
	assessment   *service.AssessmentService
	submission   *service.SubmissionService
	assignment   *service.AssignmentService
	grade        *service.GradeService
	liveClass    *service.LiveClassService
}

type controllers struct {
	auth         *controller.AuthController
	course       *controller.CourseController
	assessment   *controller.AssessmentController
	submission   *controller.SubmissionController
	assignment   *controller.AssignmentController
	grade        *controller.GradeController
	liveClass    *controller.LiveClassController
	notification *controller.NotificationController
	health       *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:                 repository.NewUserRepository(db),
		course:               repository.NewCourseRepository(db),
		enrollment:           repository.NewEnrollmentRepository(db),
		assessment:           repository.NewAssessmentRepository(db),
		assessmentSubmission: repository.NewAssessmentSubmissionRepository(db),
		assignment:           repository.NewAssignmentRepository(db),
		liveClass:            repository.NewLiveClassRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.mailer = service.NewReloadingMailer(cfg.Mail)
	s.storage = service.NewStorageService(cfg)
	s.notification = service.NewNotificationService(
		s.mailer,
		rdb,
		cfg.Notification.LogSize,
		repos.enrollment,
		repos.assessment,
		repos.assessmentSubmission,
	)

	s.auth = service.NewAuthService(repos.user, cfg)
	s.course = service.NewCourseService(repos.course, repos.enrollment)
	s.enrollment = service.NewEnrollmentService(repos.course, repos.enrollment)
	s.assessment = service.NewAssessmentService(
		repos.assessment,
		repos.assessmentSubmission,
		repos.course,
		repos.enrollment,
		repos.user,
		s.notification,
	)
	s.submission = service.NewSubmissionService(
		repos.assessment,
		repos.assessmentSubmission,
		repos.enrollment,
		repos.user,
		s.notification,
		rdb,
	)
	s.assignment = service.NewAssignmentService(
		repos.assignment,
		repos.course,
		repos.enrollment,
		repos.user,
		s.storage,
		s.notification,
	)
	s.grade = service.NewGradeService(repos.course, repos.enrollment, repos.assessmentSubmission, repos.assignment)
	s.liveClass = service.NewLiveClassService(repos.liveClass, repos.course, repos.enrollment, cfg.LiveClass)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:         controller.NewAuthController(s.auth),
		course:       controller.NewCourseController(s.course, s.enrollment),
		assessment:   controller.NewAssessmentController(s.assessment, s.submission),
		submission:   controller.NewSubmissionController(s.submission),
		assignment:   controller.NewAssignmentController(s.assignment),
		grade:        controller.NewGradeController(s.grade),
		liveClass:    controller.NewLiveClassController(s.liveClass),
		notification: controller.NewNotificationController(s.notification),
		health:       controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, window, a.done))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func (a *App) startBackgroundTasks(s *services, cfg *config.Config) {
	if cfg.Scheduler.Enabled {
		c, err := s.notification.StartScheduler(cfg.Scheduler.ReminderCron)
		if err != nil {
			logger.Log.Error("Failed to start reminder scheduler", zap.String("spec", cfg.Scheduler.ReminderCron), zap.Error(err))
		} else {
			a.scheduler = c
		}
	}

	a.RegisterConfigCallback(func(newCfg *config.Config) {
		s.notification.SetLogSize(newCfg.Notification.LogSize)
		s.mailer.Reload(newCfg.Mail)
	})

	watchCtx, cancel := context.WithCancel(context.Background())
	go func() {
		<-a.done
		cancel()
	}()
	go func() {
		reloaders := []configwatcher.Reloader{func(newCfg *config.Config) {
			for _, cb := range a.configCallbacks {
				cb(newCfg)
			}
		}}
		if err := configwatcher.Watch(watchCtx, configFile, reloaders...); err != nil {
			logger.Log.Warn("Config hot reload disabled", zap.Error(err))
		}
	}()
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	if cfg.ForceMigrate || cfg.Server.Mode != "release" {
		if err := database.Migrate(db); err != nil {
			logger.Log.Fatal("Failed to migrate database", zap.Error(err))
		}
	}

	app := &App{
		Config: cfg,
		DB:     db,
		done:   make(chan struct{}),
	}
	if cfg.MigrateOnly {
		return app
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}
	app.Redis = rdb

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := util.RegisterValidators(v); err != nil {
			logger.Log.Fatal("Failed to register validators", zap.Error(err))
		}
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	app.services = services
	controllers := app.initControllers(services, db, rdb)

	monitoring.Init()

	tp, err := tracing.InitTracer(cfg.Tracing)
	if err != nil {
		logger.Log.Error("Failed to initialize tracing", zap.Error(err))
	}
	app.tracer = tp

	gin.SetMode(cfg.Server.Mode)
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", filepath.Clean(cfg.Storage.LocalPath))
	}

	app.startBackgroundTasks(services, cfg)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("listen", zap.Error(err))
		}
	}()

	// wait for an interrupt, then give in-flight requests 5 seconds
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	close(a.done)
	if a.scheduler != nil {
		<-a.scheduler.Stop().Done()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	// pending notification batches get the rest of the shutdown window
	if a.services != nil {
		if err := a.services.notification.WaitContext(ctx); err != nil {
			logger.Log.Warn("Abandoning unfinished notifications", zap.Error(err))
		}
	}
	if err := tracing.Shutdown(ctx, a.tracer); err != nil {
		logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
	}
	if a.Redis != nil {
		a.Redis.Close()
	}

	logger.Log.Info("Server exiting")
}
