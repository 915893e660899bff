package router

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/safebite/safebite/backend/internal/api"
	"github.com/safebite/safebite/backend/internal/logging"
	"github.com/safebite/safebite/backend/internal/middleware"
	"github.com/safebite/safebite/backend/internal/service"
	"github.com/safebite/safebite/backend/internal/store"
)

// Dependencies are the collaborators the routes are built from.
type Dependencies struct {
	Logger         logrus.FieldLogger
	Verifier       service.TokenVerifier
	Profiles       service.IProfileService
	Logs           service.ILogService
	Reference      service.IReferenceService
	Alerts         service.IAlertService
	Insights       service.IInsightService
	AllowedOrigins []string
}

// NewDependencies wires the default services over one document store.
func NewDependencies(log logrus.FieldLogger, s store.Store, verifier service.TokenVerifier, gemini service.Generator, allowedOrigins []string) Dependencies {
	reference := service.NewReferenceService(s)
	return Dependencies{
		Logger:         log,
		Verifier:       verifier,
		Profiles:       service.NewProfileService(s),
		Logs:           service.NewLogService(s),
		Reference:      reference,
		Alerts:         service.NewAlertService(),
		Insights:       service.NewInsightService(s, reference, gemini),
		AllowedOrigins: allowedOrigins,
	}
}

// SetupRouter configures the application routes
func SetupRouter(deps Dependencies) *gin.Engine {
	router := gin.New()

	router.Use(logging.Middleware(deps.Logger))
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS(deps.AllowedOrigins))

	router.GET("/", api.Home)

	auth := middleware.AuthMiddleware(deps.Verifier)
	v := router.Group("/api")

	api.NewProfileHandler(deps.Profiles).RegisterRoutes(v, auth)
	api.NewLogHandler(deps.Logs).RegisterRoutes(v, auth)
	api.NewReferenceHandler(deps.Reference).RegisterRoutes(v)
	api.NewAlertHandler(deps.Alerts).RegisterRoutes(v, auth)
	api.NewInsightHandler(deps.Insights).RegisterRoutes(v, auth)

	return router
}
