package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/inkvoice/inkvoice/internal/auth"
	authdomain "github.com/inkvoice/inkvoice/internal/auth/domain"
	"github.com/inkvoice/inkvoice/internal/auth/session"
	"github.com/inkvoice/inkvoice/internal/cache"
	"github.com/inkvoice/inkvoice/internal/config"
	"github.com/inkvoice/inkvoice/internal/delivery"
	deliverydomain "github.com/inkvoice/inkvoice/internal/delivery/domain"
	"github.com/inkvoice/inkvoice/internal/invoice"
	invoicedomain "github.com/inkvoice/inkvoice/internal/invoice/domain"
	"github.com/inkvoice/inkvoice/internal/observability"
	obsmiddleware "github.com/inkvoice/inkvoice/internal/observability/logger"
	obsmetrics "github.com/inkvoice/inkvoice/internal/observability/metrics"
	obstracing "github.com/inkvoice/inkvoice/internal/observability/tracing"
	"github.com/inkvoice/inkvoice/internal/profile"
	profiledomain "github.com/inkvoice/inkvoice/internal/profile/domain"
	"github.com/inkvoice/inkvoice/internal/providers/email"
	"github.com/inkvoice/inkvoice/internal/providers/pdf"
)

var Module = fx.Module("http.server",
	cache.Module,
	fx.Provide(registerGin),
	auth.Module,
	email.Module,
	pdf.Module,
	invoice.Module,
	profile.Module,
	delivery.Module,
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

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
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
	cfg         config.Config
	authsvc     authdomain.Service
	sessions    *session.Manager
	invoiceSvc  invoicedomain.Service
	profileSvc  profiledomain.Service
	deliverySvc deliverydomain.Service
	renderer    pdf.Renderer
}

type ServerParams struct {
	fx.In

	Gin         *gin.Engine
	Cfg         config.Config
	Authsvc     authdomain.Service
	Sessions    *session.Manager
	InvoiceSvc  invoicedomain.Service
	ProfileSvc  profiledomain.Service
	DeliverySvc deliverydomain.Service
	Renderer    pdf.Renderer
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:      p.Gin,
		cfg:         p.Cfg,
		authsvc:     p.Authsvc,
		sessions:    p.Sessions,
		invoiceSvc:  p.InvoiceSvc,
		profileSvc:  p.ProfileSvc,
		deliverySvc: p.DeliverySvc,
		renderer:    p.Renderer,
	}

	svc.registerAuthRoutes()
	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAuthRoutes() {
	auth := s.engine.Group("/auth")

	auth.POST("/login", s.Login)
	auth.GET("/verify", s.VerifyLogin)
	auth.POST("/logout", s.Logout)
	auth.GET("/me", s.Me)
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	// PDF generation carries its own payload and no tenant data, so it
	// stays outside the session boundary.
	api.POST("/generate-pdf", s.GeneratePDF)

	authed := api.Group("", s.AuthRequired())
	{
		authed.GET("/invoices", s.ListInvoices)
		authed.POST("/invoices", s.SaveInvoice)
		authed.GET("/invoices/:id", s.GetInvoice)
		authed.PUT("/invoices/:id", s.UpdateInvoice)
		authed.DELETE("/invoices/:id", s.DeleteInvoice)
		authed.POST("/invoices/:id/send", s.SendInvoice)

		authed.GET("/profile", s.GetProfile)
		authed.POST("/profile", s.SaveProfile)
	}
}
