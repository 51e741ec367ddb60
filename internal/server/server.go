package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/indowater/tirta/internal/config"
	"github.com/indowater/tirta/internal/customer"
	customerdomain "github.com/indowater/tirta/internal/customer/domain"
	"github.com/indowater/tirta/internal/meter"
	meterdomain "github.com/indowater/tirta/internal/meter/domain"
	"github.com/indowater/tirta/internal/pricing"
	pricingdomain "github.com/indowater/tirta/internal/pricing/domain"
	"github.com/indowater/tirta/internal/property"
	propertydomain "github.com/indowater/tirta/internal/property/domain"
	"github.com/indowater/tirta/internal/tariff"
	tariffdomain "github.com/indowater/tirta/internal/tariff/domain"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	tariff.Module,
	customer.Module,
	meter.Module,
	property.Module,
	pricing.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(log.Named("http")))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server starting", zap.String("addr", cfg.HTTPAddr))
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
	engine      *gin.Engine
	tariffSvc   tariffdomain.Service
	customerSvc customerdomain.Service
	meterSvc    meterdomain.Service
	propertySvc propertydomain.Service
	pricingSvc  pricingdomain.Service
}

type ServerParams struct {
	fx.In

	Gin         *gin.Engine
	TariffSvc   tariffdomain.Service
	CustomerSvc customerdomain.Service
	MeterSvc    meterdomain.Service
	PropertySvc propertydomain.Service
	PricingSvc  pricingdomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:      p.Gin,
		tariffSvc:   p.TariffSvc,
		customerSvc: p.CustomerSvc,
		meterSvc:    p.MeterSvc,
		propertySvc: p.PropertySvc,
		pricingSvc:  p.PricingSvc,
	}

	svc.registerRoutes()

	return svc
}

func (s *Server) registerRoutes() {
	v1 := s.engine.Group("/v1")

	v1.POST("/tariffs", s.CreateTariff)
	v1.GET("/tariffs", s.ListTariffs)
	v1.GET("/tariffs/:id", s.GetTariff)
	v1.GET("/tariffs/:id/complete", s.GetTariffComplete)
	v1.PATCH("/tariffs/:id", s.UpdateTariff)
	v1.DELETE("/tariffs/:id", s.DeleteTariff)

	v1.POST("/tariffs/:id/seasonal-rates", s.CreateSeasonalRate)
	v1.GET("/tariffs/:id/seasonal-rates", s.ListSeasonalRates)
	v1.PATCH("/tariffs/:id/seasonal-rates/:rateID", s.UpdateSeasonalRate)

	v1.POST("/tariffs/:id/bulk-discounts", s.CreateBulkDiscount)
	v1.GET("/tariffs/:id/bulk-discounts", s.ListBulkDiscounts)
	v1.PATCH("/tariffs/:id/bulk-discounts/:tierID", s.UpdateBulkDiscount)

	v1.POST("/tariffs/:id/dynamic-discounts", s.CreateDynamicRule)
	v1.GET("/tariffs/:id/dynamic-discounts", s.ListDynamicRules)
	v1.PATCH("/tariffs/:id/dynamic-discounts/:ruleID", s.UpdateDynamicRule)

	v1.POST("/customers", s.CreateCustomer)
	v1.GET("/customers", s.ListCustomers)
	v1.GET("/customers/:id", s.GetCustomer)

	v1.POST("/meters", s.CreateMeter)
	v1.GET("/meters", s.ListMeters)
	v1.GET("/meters/:id", s.GetMeter)

	v1.POST("/properties", s.CreateProperty)
	v1.GET("/properties", s.ListProperties)
	v1.GET("/properties/:id", s.GetProperty)
	v1.POST("/properties/:id/tariff", s.AssignTariff)
	v1.GET("/properties/:id/tariff", s.CurrentTariff)

	v1.POST("/pricing/calculate", s.CalculatePrice)
	v1.POST("/pricing/applied-discounts", s.RecordAppliedDiscounts)
}
