package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/printhaus/printhaus/internal/catalog"
	catalogdomain "github.com/printhaus/printhaus/internal/catalog/domain"
	"github.com/printhaus/printhaus/internal/classification"
	classificationdomain "github.com/printhaus/printhaus/internal/classification/domain"
	"github.com/printhaus/printhaus/internal/config"
	"github.com/printhaus/printhaus/internal/observability"
	obsmiddleware "github.com/printhaus/printhaus/internal/observability/logger"
	obsmetrics "github.com/printhaus/printhaus/internal/observability/metrics"
	obstracing "github.com/printhaus/printhaus/internal/observability/tracing"
	"github.com/printhaus/printhaus/internal/quote"
	quotedomain "github.com/printhaus/printhaus/internal/quote/domain"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	catalog.Module,
	classification.Module,
	quote.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
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
	engine        *gin.Engine
	cfg           config.Config
	db            *gorm.DB
	genID         *snowflake.Node
	catalogSvc    catalogdomain.Service
	classifierSvc classificationdomain.Service
	quoteSvc      quotedomain.Service
	obsMetrics    *obsmetrics.Metrics
	quoteLimiter  *rateLimiter
}

type ServerParams struct {
	fx.In

	Gin           *gin.Engine
	Cfg           config.Config
	DB            *gorm.DB
	GenID         *snowflake.Node
	CatalogSvc    catalogdomain.Service
	ClassifierSvc classificationdomain.Service
	QuoteSvc      quotedomain.Service
	ObsMetrics    *obsmetrics.Metrics `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:        p.Gin,
		cfg:           p.Cfg,
		db:            p.DB,
		genID:         p.GenID,
		catalogSvc:    p.CatalogSvc,
		classifierSvc: p.ClassifierSvc,
		quoteSvc:      p.QuoteSvc,
		obsMetrics:    p.ObsMetrics,
		quoteLimiter:  newRateLimiter(p.Cfg.QuoteRateLimit, time.Minute),
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	s.engine.POST("/quote", s.QuoteRateLimit(), s.CreateQuote)

	s.engine.GET("/pricing/options", s.GetPricingOptions)

	s.engine.GET("/products", s.ListProducts)
	s.engine.GET("/products/:slug/options", s.GetProductOptions)
}
