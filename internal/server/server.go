package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	activitydomain "github.com/smallbiznis/failrelay/internal/activitylog/domain"
	"github.com/smallbiznis/failrelay/internal/config"
	notifierdomain "github.com/smallbiznis/failrelay/internal/notifier/domain"
	"github.com/smallbiznis/failrelay/internal/observability"
	obslogger "github.com/smallbiznis/failrelay/internal/observability/logger"
	obstracing "github.com/smallbiznis/failrelay/internal/observability/tracing"
	paymentsdomain "github.com/smallbiznis/failrelay/internal/payments/domain"
	"github.com/smallbiznis/failrelay/internal/providers/airtable"
	"github.com/smallbiznis/failrelay/internal/providers/email"
	"github.com/smallbiznis/failrelay/pkg/telemetry"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(registerRoutes),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(obslogger.MiddlewareConfig{
		Debug: obsCfg.Debug(),
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

type Server struct {
	engine    *gin.Engine
	cfg       config.Config
	log       *zap.Logger
	genID     *snowflake.Node
	recorder  activitydomain.Recorder
	ingestSvc paymentsdomain.Service
	payments  paymentsdomain.Client
	notifySvc notifierdomain.Service
	mailer    email.Provider
	table     airtable.Store
	metrics   *telemetry.Metrics
}

type ServerParams struct {
	fx.In

	Gin       *gin.Engine
	Cfg       config.Config
	Log       *zap.Logger
	GenID     *snowflake.Node
	Recorder  activitydomain.Recorder
	IngestSvc paymentsdomain.Service
	Payments  paymentsdomain.Client
	NotifySvc notifierdomain.Service
	Mailer    email.Provider
	Table     airtable.Store
	Metrics   *telemetry.Metrics `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	return &Server{
		engine:    p.Gin,
		cfg:       p.Cfg,
		log:       p.Log.Named("server"),
		genID:     p.GenID,
		recorder:  p.Recorder,
		ingestSvc: p.IngestSvc,
		payments:  p.Payments,
		notifySvc: p.NotifySvc,
		mailer:    p.Mailer,
		table:     p.Table,
		metrics:   p.Metrics,
	}
}

func registerRoutes(s *Server) {
	s.engine.POST("/webhook", s.HandleWebhook)
	s.engine.GET("/", s.HandleStatus)
	s.engine.GET("/health", s.HandleHealth)
	s.engine.GET("/logs", s.HandleLogs)
	s.engine.POST("/test", s.HandleTestTrigger)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
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
