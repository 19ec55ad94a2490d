// Package httpapi serves the browser pages and the JSON API over gin.
package httpapi

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/dmitrijs2005/heartlink/internal/logging"
	"github.com/dmitrijs2005/heartlink/internal/server/auth"
	"github.com/dmitrijs2005/heartlink/internal/server/models"
	"github.com/dmitrijs2005/heartlink/internal/server/services"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

// Users is the account side of the API.
type Users interface {
	Signup(ctx context.Context, username, email, password string) (*models.User, *services.TokenPair, error)
	Login(ctx context.Context, email, password string) (*services.TokenPair, error)
	SocialLogin(ctx context.Context, id *auth.Identity) (*models.User, *services.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	Profile(ctx context.Context, userID string) (*models.User, error)
	UserIDFromAccessToken(token string) (string, error)
}

// Proposals is the proposal side of the API.
type Proposals interface {
	Create(ctx context.Context, senderID, recipientName, letter, keywords string) (*models.Proposal, error)
	Get(ctx context.Context, id string) (*models.Proposal, error)
	ListSent(ctx context.Context, userID string) ([]models.SentProposal, error)
	Respond(ctx context.Context, id, answer string) (*services.RespondResult, error)
	Delete(ctx context.Context, userID, id string) error
	RequestRingUpload(ctx context.Context, userID, id string) (key, url string, err error)
	CanWatch(ctx context.Context, userID, id string) error
	ShareURL(id string) string
}

type Persuader interface {
	Persuade(ctx context.Context, clientKey string, in services.PersuadeInput) (*services.PersuadeResult, error)
}

// Watcher upgrades a request to a live status feed of one proposal.
type Watcher interface {
	Serve(w http.ResponseWriter, r *http.Request, proposalID string) error
}

// Deps are the collaborators of the server. Metrics may be nil.
type Deps struct {
	Users     Users
	Proposals Proposals
	Letters   services.LetterWriter
	Persuader Persuader
	Live      Watcher
	Providers []auth.Provider
	Metrics   http.Handler
}

type Options struct {
	PublicBaseURL string
	// AllowOrigins lists CORS origins; "*" or empty allows all.
	AllowOrigins []string
	// SecureCookies marks the OAuth state cookie Secure and SameSite=None,
	// which Apple's form_post callback needs.
	SecureCookies bool
}

type Server struct {
	deps      Deps
	providers map[string]auth.Provider
	logger    logging.Logger
	opts      Options
	engine    *gin.Engine
}

func New(deps Deps, logger logging.Logger, opts Options) *Server {
	s := &Server{
		deps:      deps,
		providers: make(map[string]auth.Provider, len(deps.Providers)),
		logger:    logger.With("module", "http_server"),
		opts:      opts,
	}
	for _, p := range deps.Providers {
		s.providers[p.Name()] = p
	}

	s.engine = gin.New()
	s.engine.Use(gin.Recovery(), s.requestLogger(), cors.New(corsConfig(opts.AllowOrigins)))
	s.engine.SetHTMLTemplate(template.Must(template.ParseFS(templateFS, "templates/*.html")))
	s.routes()
	return s
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization")
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

func (s *Server) routes() {
	r := s.engine

	r.GET("/", s.homePage)
	r.GET("/p/:id", s.proposalPage)
	r.GET("/login", s.loginPage)
	r.GET("/signup", s.signupPage)
	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	if s.deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(s.deps.Metrics))
	}
	r.GET("/ws/proposals/:id", s.watchProposal)

	api := r.Group("/api")

	a := api.Group("/auth")
	a.POST("/signup", s.signup)
	a.POST("/login", s.login)
	a.POST("/refresh", s.refresh)
	a.GET("/me", s.requireUser, s.me)
	a.GET("/oauth/:provider", s.oauthStart)
	a.GET("/oauth/:provider/callback", s.oauthCallback)
	a.POST("/oauth/:provider/callback", s.oauthCallback)

	p := api.Group("/proposals")
	p.POST("", s.requireUser, s.createProposal)
	p.GET("", s.requireUser, s.listProposals)
	p.GET("/:id", s.getProposal)
	p.DELETE("/:id", s.requireUser, s.deleteProposal)
	p.POST("/:id/respond", s.respond)
	p.POST("/:id/ring", s.requireUser, s.requestRingUpload)

	api.POST("/letters", s.requireUser, s.generateLetter)
	api.POST("/persuade", s.persuade)
	api.POST("/links", s.personalLink)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
