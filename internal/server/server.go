package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/gaurav-prajapat/featuresgym-sub011/internal/auth"
	"github.com/gaurav-prajapat/featuresgym-sub011/internal/config"
	"github.com/gaurav-prajapat/featuresgym-sub011/internal/coupon"
	"github.com/gaurav-prajapat/featuresgym-sub011/internal/gateway"
	"github.com/gaurav-prajapat/featuresgym-sub011/internal/gym"
	"github.com/gaurav-prajapat/featuresgym-sub011/internal/ledger"
	"github.com/gaurav-prajapat/featuresgym-sub011/internal/membership"
	"github.com/gaurav-prajapat/featuresgym-sub011/internal/notify"
	"github.com/gaurav-prajapat/featuresgym-sub011/internal/payment"
	"github.com/gaurav-prajapat/featuresgym-sub011/internal/plan"
	"github.com/gaurav-prajapat/featuresgym-sub011/internal/tournament"
	"github.com/gaurav-prajapat/featuresgym-sub011/internal/user"
	"github.com/gaurav-prajapat/featuresgym-sub011/internal/visit"
)

type Server struct {
	router *gin.Engine
	http   *http.Server
	db     *sqlx.DB
	config *config.Config
}

func New(db *sqlx.DB, cfg *config.Config, notifyService *notify.Service) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(RateLimitMiddleware(50, 100))

	userRepo := user.NewRepository(db)
	gymRepo := gym.NewRepository(db)
	planRepo := plan.NewRepository(db)
	couponRepo := coupon.NewRepository(db)
	paymentRepo := payment.NewRepository(db)
	membershipRepo := membership.NewRepository(db)
	visitRepo := visit.NewRepository(db)
	tournamentRepo := tournament.NewRepository(db)
	ledgerRepo := ledger.NewRepository(db)
	notifyRepo := notify.NewRepository(db)

	gatewayClient := gateway.NewHTTPClient(cfg.GatewayBaseURL, cfg.GatewayKeyID, cfg.GatewaySecret)

	userHandler := user.NewHandler(user.NewService(userRepo, cfg.JWTSecret))
	gymHandler := gym.NewHandler(gym.NewService(gymRepo))
	planHandler := plan.NewHandler(planRepo)
	couponHandler := coupon.NewHandler(couponRepo, planRepo)
	membershipHandler := membership.NewHandler(membership.NewService(
		membershipRepo, paymentRepo, planRepo, couponRepo, gymRepo,
		gatewayClient, notifyService, cfg))
	visitHandler := visit.NewHandler(visit.NewService(visitRepo, gymRepo, cfg))
	tournamentHandler := tournament.NewHandler(tournament.NewService(tournamentRepo, gymRepo))
	ledgerHandler := ledger.NewHandler(ledgerRepo)
	notifyHandler := notify.NewHandler(notifyRepo)

	public := router.Group("/auth")
	{
		public.POST("/register", userHandler.Register)
		public.POST("/login", userHandler.Login)
		public.POST("/refresh", userHandler.RefreshToken)
	}

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)
	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", userHandler.GetMe)
		protected.GET("/me/transactions", ledgerHandler.ListMyEntries)

		protected.GET("/gyms", gymHandler.ListGyms)
		protected.GET("/gyms/:gymID/slots", gymHandler.ListSlots)
		protected.GET("/gyms/:gymID/plans", planHandler.ListByGym)

		protected.POST("/coupons/preview", couponHandler.Preview)

		protected.POST("/memberships/checkout", membershipHandler.BeginCheckout)
		protected.GET("/memberships", membershipHandler.ListMy)
		protected.POST("/payments/:paymentID/order", membershipHandler.CreateGatewayOrder)
		protected.POST("/payments/verify", membershipHandler.VerifyPayment)
		protected.POST("/payments/failure", membershipHandler.RecordFailure)

		protected.POST("/visits", visitHandler.Book)
		protected.GET("/visits", visitHandler.ListMy)
		protected.POST("/visits/:visitID/cancel", visitHandler.Cancel)
		protected.POST("/visits/:visitID/reschedule", visitHandler.Reschedule)

		protected.GET("/tournaments", tournamentHandler.ListUpcoming)
		protected.GET("/tournaments/mine", tournamentHandler.ListMine)
		protected.POST("/tournaments/:tournamentID/register", tournamentHandler.Register)

		protected.GET("/notifications", notifyHandler.List)
		protected.POST("/notifications/:notificationID/read", notifyHandler.MarkRead)
	}

	adminMiddleware := auth.RequireRole("admin")
	admin := router.Group("/admin")
	admin.Use(authMiddleware, adminMiddleware)
	{
		admin.POST("/gyms", gymHandler.CreateGym)
		admin.GET("/gyms", gymHandler.ListGyms)
		admin.PUT("/gyms/:gymID/hours", gymHandler.SetHours)
		admin.POST("/plans", planHandler.Create)
		admin.POST("/coupons", couponHandler.Create)
		admin.POST("/coupons/:code/deactivate", couponHandler.Deactivate)
		admin.POST("/tournaments", tournamentHandler.Create)
		// Manual verification from the gateway dashboard drives the same
		// activation path as the regular callback.
		admin.POST("/payments/verify", membershipHandler.VerifyPayment)
	}

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())
	router.GET("/test-email", TestEmail(notifyService))
	SetupSwagger(router)

	return &Server{
		router: router,
		db:     db,
		config: cfg,
	}
}

func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:    ":" + port,
		Handler: s.router,
	}
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
