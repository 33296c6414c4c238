package api

import (
	"net/http"
	"time"

	"github.com/fsdevblog/smsbroker/internal/transport/api/middlewares"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

const (
	DefaultServiceTimeout = 3 * time.Second
	// PurchaseTimeout покупка и отмена включают обращения к провайдеру с перебором эндпоинтов.
	PurchaseTimeout = 30 * time.Second
)

const (
	HealthRoute  = "/healthz"
	MetricsRoute = "/metrics"

	RouteGroup       = "/api"
	UserRoute        = "/user"
	ServicesRoute    = "/services"
	PricesRoute      = "/services/:code/prices"
	ActivationsRoute = "/activations"
	ActivationRoute  = "/activations/:id"
	CancelRoute      = "/activations/:id/cancel"
	DepositsRoute    = "/deposits"
	ProofRoute       = "/deposits/:id/proof"

	AdminGroup         = "/admin"
	AdminDepositsRoute = "/deposits"
	AdminReviewRoute   = "/deposits/:id/review"
	AdminRoleRoute     = "/users/:id/role"
	AdminProfitRoute   = "/settings/profit"
	AdminProviderRoute = "/provider/balance"
)

type RouterArgs struct {
	Logger       *logrus.Logger
	Ledger       LedgerServicer
	Activations  ActivationServicer
	Catalog      CatalogServicer
	Purchases    PurchaseServicer
	JWTSecretKey []byte
}

func New(args RouterArgs) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if args.Logger != nil {
		r.Use(middlewares.Logger(args.Logger))
	}
	if err := registerValidators(); err != nil && args.Logger != nil {
		args.Logger.WithError(err).Error("failed to register validators")
	}
	r.Use(middlewares.Metrics())
	r.Use(middlewares.Errors())

	r.GET(HealthRoute, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET(MetricsRoute, gin.WrapH(promhttp.Handler()))

	userHandler := NewUserHandler(args.Ledger)
	catalogHandler := NewCatalogHandler(args.Ledger, args.Catalog)
	activationsHandler := NewActivationsHandler(args.Ledger, args.Activations, args.Catalog, args.Purchases)
	depositsHandler := NewDepositsHandler(args.Ledger)
	adminHandler := NewAdminHandler(args.Ledger, args.Catalog)

	api := r.Group(RouteGroup)
	api.Use(middlewares.AuthRequired(args.JWTSecretKey))
	// ниже все роуты группы требуют авторизованного пользователя.
	api.GET(UserRoute, userHandler.Show)

	api.GET(ServicesRoute, catalogHandler.Services)
	api.GET(PricesRoute, catalogHandler.Prices)

	api.POST(ActivationsRoute, activationsHandler.Create)
	api.GET(ActivationsRoute, activationsHandler.Index)
	api.GET(ActivationRoute, activationsHandler.Show)
	api.POST(CancelRoute, activationsHandler.Cancel)

	api.POST(DepositsRoute, depositsHandler.Create)
	api.POST(ProofRoute, depositsHandler.Proof)

	admin := api.Group(AdminGroup)
	admin.Use(middlewares.AdminRequired(args.Ledger))
	admin.GET(AdminDepositsRoute, adminHandler.Deposits)
	admin.POST(AdminReviewRoute, adminHandler.Review)
	admin.PUT(AdminRoleRoute, adminHandler.SetRole)
	admin.PUT(AdminProfitRoute, adminHandler.SetProfit)
	admin.GET(AdminProviderRoute, adminHandler.ProviderBalance)
	return r
}
