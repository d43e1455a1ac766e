package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	activitydomain "github.com/smallbiznis/relaycrm/internal/activity/domain"
	authdomain "github.com/smallbiznis/relaycrm/internal/auth/domain"
	"github.com/smallbiznis/relaycrm/internal/auth/token"
	companydomain "github.com/smallbiznis/relaycrm/internal/company/domain"
	"github.com/smallbiznis/relaycrm/internal/config"
	contactdomain "github.com/smallbiznis/relaycrm/internal/contact/domain"
	dealdomain "github.com/smallbiznis/relaycrm/internal/deal/domain"
	notedomain "github.com/smallbiznis/relaycrm/internal/note/domain"
	tenantdomain "github.com/smallbiznis/relaycrm/internal/tenant/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Provide(NewHTTPMetrics),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(cfg config.Config, log *zap.Logger, metrics *HTTPMetrics) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(AccessLog(log))
	r.Use(MetricsMiddleware(metrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server starting", zap.String("addr", cfg.HTTPAddr))
			go func() {
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
	log         *zap.Logger
	db          *gorm.DB
	genID       *snowflake.Node
	issuer      *token.Issuer
	tenantSvc   tenantdomain.Service
	authSvc     authdomain.Service
	companySvc  companydomain.Service
	contactSvc  contactdomain.Service
	dealSvc     dealdomain.Service
	activitySvc activitydomain.Service
	noteSvc     notedomain.Service
}

type ServerParams struct {
	fx.In

	Gin         *gin.Engine
	Cfg         config.Config
	Log         *zap.Logger
	DB          *gorm.DB
	GenID       *snowflake.Node
	Issuer      *token.Issuer
	TenantSvc   tenantdomain.Service
	AuthSvc     authdomain.Service
	CompanySvc  companydomain.Service
	ContactSvc  contactdomain.Service
	DealSvc     dealdomain.Service
	ActivitySvc activitydomain.Service
	NoteSvc     notedomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:      p.Gin,
		cfg:         p.Cfg,
		log:         p.Log.Named("http.server"),
		db:          p.DB,
		genID:       p.GenID,
		issuer:      p.Issuer,
		tenantSvc:   p.TenantSvc,
		authSvc:     p.AuthSvc,
		companySvc:  p.CompanySvc,
		contactSvc:  p.ContactSvc,
		dealSvc:     p.DealSvc,
		activitySvc: p.ActivitySvc,
		noteSvc:     p.NoteSvc,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/login", s.Login)
	auth.POST("/register", s.Register)
	auth.POST("/create-tenant", s.CreateTenant)
	auth.GET("/me", s.TenantContext(), s.AuthRequired(), s.Me)

	scoped := api.Group("", s.TenantContext(), s.AuthRequired())

	companies := scoped.Group("/companies")
	companies.GET("", s.ListCompanies)
	companies.POST("", s.CreateCompany)
	companies.GET("/stats", s.GetCompanyStats)
	companies.GET("/:id", s.GetCompanyByID)
	companies.PATCH("/:id", s.UpdateCompany)
	companies.DELETE("/:id", s.DeleteCompany)

	contacts := scoped.Group("/contacts")
	contacts.GET("", s.ListContacts)
	contacts.POST("", s.CreateContact)
	contacts.GET("/stats", s.GetContactStats)
	contacts.GET("/:id", s.GetContactByID)
	contacts.PATCH("/:id", s.UpdateContact)
	contacts.DELETE("/:id", s.DeleteContact)

	deals := scoped.Group("/deals")
	deals.GET("", s.ListDeals)
	deals.POST("", s.CreateDeal)
	deals.GET("/stats", s.GetDealStats)
	deals.GET("/pipeline", s.GetDealPipeline)
	deals.GET("/:id", s.GetDealByID)
	deals.PATCH("/:id", s.UpdateDeal)
	deals.DELETE("/:id", s.DeleteDeal)

	activities := scoped.Group("/activities")
	activities.GET("", s.ListActivities)
	activities.POST("", s.CreateActivity)
	activities.GET("/upcoming", s.GetUpcomingActivities)
	activities.GET("/stats", s.GetActivityStats)
	activities.GET("/:id", s.GetActivityByID)
	activities.PATCH("/:id", s.UpdateActivity)
	activities.DELETE("/:id", s.DeleteActivity)

	notes := scoped.Group("/notes")
	notes.GET("", s.ListNotes)
	notes.POST("", s.CreateNote)
	notes.GET("/stats", s.GetNoteStats)
	notes.GET("/:id", s.GetNoteByID)
	notes.PATCH("/:id", s.UpdateNote)
	notes.DELETE("/:id", s.DeleteNote)
}
