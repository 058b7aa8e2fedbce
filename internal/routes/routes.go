package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"coa-service/internal/controllers"
	"coa-service/internal/integrations/keboola"
	"coa-service/internal/repositories"
	"coa-service/internal/services"
	"coa-service/pkg/config"
	"coa-service/pkg/middleware"
	"coa-service/pkg/service"
)

type Loggers struct {
	Main      *zap.Logger
	Session   *zap.Logger
	Account   *zap.Logger
	Transform *zap.Logger
	Audit     *zap.Logger
}

// InitRouter wires repositories, services and controllers and mounts every
// route under /api. Everything except opening a session runs behind the
// session middleware.
func InitRouter(e *echo.Echo, dbConn *pgxpool.Pool, redisClient *redis.Client,
	storage keboola.StorageClient, tokenSvc service.TokenService, loggers *Loggers, cfg *config.Config) {

	api := e.Group("/api")
	sessionMW := middleware.NewSessionMiddleware(tokenSvc, loggers.Session)

	// repositories
	wsRepo := repositories.NewWorkingSetRepository(redisClient)
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)
	auditRepo := repositories.NewAuditRepository(dbConn)
	changeRepo := repositories.NewChangeRepository(dbConn)

	// services
	journal := services.NewJournal(dbConn, auditRepo, changeRepo, loggers.Audit)
	sessionService := services.NewSessionService(storage, wsRepo, journal, tokenSvc,
		cfg.Keboola.COATableID, cfg.Session.TTL, loggers.Session)
	accountService := services.NewAccountService(wsRepo, journal, loggers.Account)
	subunitService := services.NewSubunitService(storage, cacheRepo,
		cfg.Keboola.SubunitTableID, cfg.Session.SubunitTTL, loggers.Main)
	transformService := services.NewTransformService(wsRepo, subunitService, loggers.Transform)
	analyticsService := services.NewAnalyticsService(wsRepo, loggers.Main)
	exportService := services.NewExportService(wsRepo, journal, loggers.Main)
	auditService := services.NewAuditService(auditRepo, changeRepo, loggers.Audit)

	// controllers
	sessionCtrl := controllers.NewSessionController(sessionService, loggers.Session)
	accountCtrl := controllers.NewAccountController(accountService, loggers.Account)
	transformCtrl := controllers.NewTransformController(transformService, loggers.Transform)
	analyticsCtrl := controllers.NewAnalyticsController(analyticsService, loggers.Main)
	importExportCtrl := controllers.NewImportExportController(exportService, loggers.Main)
	auditCtrl := controllers.NewAuditController(auditService, loggers.Audit)
	subunitCtrl := controllers.NewSubunitController(subunitService, loggers.Main)

	secureGroup := api.Group("", sessionMW.Session)

	runSessionRouter(api, secureGroup, sessionCtrl)
	runAccountRouter(secureGroup, accountCtrl)
	runTransformRouter(secureGroup, transformCtrl)
	runAnalyticsRouter(secureGroup, analyticsCtrl)
	runImportExportRouter(secureGroup, importExportCtrl)
	runAuditRouter(secureGroup, auditCtrl)
	runSubunitRouter(secureGroup, accountCtrl, subunitCtrl)

	loggers.Main.Info("router initialized")
}
