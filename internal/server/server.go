package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/smallbiznis/tradebeat/internal/clock"
	"github.com/smallbiznis/tradebeat/internal/config"
	insightsdomain "github.com/smallbiznis/tradebeat/internal/insights/domain"
	"github.com/smallbiznis/tradebeat/internal/observability"
	"github.com/smallbiznis/tradebeat/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/tradebeat/internal/observability/metrics"
	obstracing "github.com/smallbiznis/tradebeat/internal/observability/tracing"
	"github.com/smallbiznis/tradebeat/internal/ratelimit"
	recorddomain "github.com/smallbiznis/tradebeat/internal/record/domain"
)

var Module = fx.Module("server",
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.GinMiddleware(logger.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config) *gin.Engine {
	return NewEngine(obsCfg)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
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
	cfg         config.Config
	db          *gorm.DB
	log         *zap.Logger
	clock       clock.Clock
	insightsSvc insightsdomain.Service
	recordSvc   recorddomain.Service
	syncLimiter *ratelimit.SyncIngestLimiter
	obsMetrics  *obsmetrics.Metrics
}

type ServerParams struct {
	fx.In

	Engine      *gin.Engine
	Config      config.Config
	DB          *gorm.DB
	Log         *zap.Logger
	Clock       clock.Clock
	InsightsSvc insightsdomain.Service
	RecordSvc   recorddomain.Service
	SyncLimiter *ratelimit.SyncIngestLimiter `optional:"true"`
	Metrics     *obsmetrics.Metrics          `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	s := &Server{
		engine:      p.Engine,
		cfg:         p.Config,
		db:          p.DB,
		log:         p.Log.Named("server"),
		clock:       p.Clock,
		insightsSvc: p.InsightsSvc,
		recordSvc:   p.RecordSvc,
		syncLimiter: p.SyncLimiter,
		obsMetrics:  p.Metrics,
	}
	s.registerAPIRoutes()
	return s
}

// Engine exposes the underlying router for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	v1 := s.engine.Group("/v1")
	v1.Use(s.AccountContext())
	{
		insights := v1.Group("/insights")
		{
			insights.GET("/dashboard", s.GetDashboard)
			insights.GET("/trends", s.GetTrends)
		}

		exports := v1.Group("/exports")
		{
			exports.GET("/aged-ar.csv", s.ExportAgedAR)
			exports.GET("/leaking-quotes.csv", s.ExportLeakingQuotes)
			exports.GET("/unscheduled-jobs.csv", s.ExportUnscheduledJobs)
		}

		sync := v1.Group("/sync")
		sync.Use(s.SyncIngestRateLimit())
		{
			sync.POST("/invoices", s.SyncInvoices)
			sync.POST("/jobs", s.SyncJobs)
			sync.POST("/quotes", s.SyncQuotes)
		}
	}
}
