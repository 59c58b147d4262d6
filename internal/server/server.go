package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/lodgeops/lodgeops/internal/booking"
	bookingdomain "github.com/lodgeops/lodgeops/internal/booking/domain"
	"github.com/lodgeops/lodgeops/internal/charge"
	chargedomain "github.com/lodgeops/lodgeops/internal/charge/domain"
	"github.com/lodgeops/lodgeops/internal/config"
	"github.com/lodgeops/lodgeops/internal/folio"
	foliodomain "github.com/lodgeops/lodgeops/internal/folio/domain"
	"github.com/lodgeops/lodgeops/internal/observability"
	obslogger "github.com/lodgeops/lodgeops/internal/observability/logger"
	obsmetrics "github.com/lodgeops/lodgeops/internal/observability/metrics"
	obstracing "github.com/lodgeops/lodgeops/internal/observability/tracing"
	"github.com/lodgeops/lodgeops/internal/payment"
	paymentdomain "github.com/lodgeops/lodgeops/internal/payment/domain"
	"github.com/lodgeops/lodgeops/internal/taxconfig"
	taxdomain "github.com/lodgeops/lodgeops/internal/taxconfig/domain"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	taxconfig.Module,
	booking.Module,
	charge.Module,
	payment.Module,
	folio.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(obslogger.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine     *gin.Engine
	cfg        config.Config
	db         *gorm.DB
	genID      *snowflake.Node
	taxSvc     taxdomain.Service
	bookingSvc bookingdomain.Service
	chargeSvc  chargedomain.Service
	paymentSvc paymentdomain.Service
	folioSvc   foliodomain.Service
}

type ServerParams struct {
	fx.In

	Gin        *gin.Engine
	Cfg        config.Config
	DB         *gorm.DB
	GenID      *snowflake.Node
	TaxSvc     taxdomain.Service
	BookingSvc bookingdomain.Service
	ChargeSvc  chargedomain.Service
	PaymentSvc paymentdomain.Service
	FolioSvc   foliodomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:     p.Gin,
		cfg:        p.Cfg,
		db:         p.DB,
		genID:      p.GenID,
		taxSvc:     p.TaxSvc,
		bookingSvc: p.BookingSvc,
		chargeSvc:  p.ChargeSvc,
		paymentSvc: p.PaymentSvc,
		folioSvc:   p.FolioSvc,
	}

	svc.registerAdminRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAdminRoutes() {
	admin := s.engine.Group("/admin")

	admin.Use(s.PropertyContext())

	// -------- Tax Settings --------
	admin.GET("/tax-settings", s.ListTaxSettings)
	admin.POST("/tax-settings", s.CreateTaxSetting)
	admin.PATCH("/tax-settings/:id", s.UpdateTaxSetting)
	admin.POST("/tax-settings/:id/disable", s.DisableTaxSetting)

	// -------- Bookings --------
	admin.GET("/bookings", s.ListBookings)
	admin.POST("/bookings", s.CreateBooking)
	admin.GET("/bookings/:id", s.GetBookingByID)
	admin.POST("/bookings/:id/status", s.UpdateBookingStatus)
	admin.GET("/bookings/:id/folio", s.GetBookingFolio)
	admin.GET("/bookings/:id/charges", s.ListBookingCharges)
	admin.GET("/bookings/:id/payments", s.ListBookingPayments)

	// -------- Charges --------
	admin.GET("/charges", s.ListCharges)
	admin.POST("/charges", s.CreateCharge)
	admin.GET("/charges/:id", s.GetChargeByID)
	admin.POST("/charges/:id/pay", s.MarkChargePaid)
	admin.POST("/charges/:id/cancel", s.CancelCharge)

	// -------- Payments --------
	admin.GET("/payments", s.ListPayments)
	admin.POST("/payments", s.CreatePayment)
	admin.GET("/payments/:id", s.GetPaymentByID)
	admin.POST("/payments/:id/void", s.VoidPayment)
}
