// Package server wires the HeartLink services together and runs the HTTP
// and gRPC servers until the process is signalled.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/dmitrijs2005/heartlink/internal/logging"
	"github.com/dmitrijs2005/heartlink/internal/server/auth"
	"github.com/dmitrijs2005/heartlink/internal/server/config"
	"github.com/dmitrijs2005/heartlink/internal/server/events"
	"github.com/dmitrijs2005/heartlink/internal/server/httpapi"
	"github.com/dmitrijs2005/heartlink/internal/server/live"
	"github.com/dmitrijs2005/heartlink/internal/server/llm"
	"github.com/dmitrijs2005/heartlink/internal/server/metrics"
	"github.com/dmitrijs2005/heartlink/internal/server/ratelimit"
	"github.com/dmitrijs2005/heartlink/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/heartlink/internal/server/services"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	gs "github.com/dmitrijs2005/heartlink/internal/server/grpc"
)

const persuadeKeyPrefix = "heartlink:persuade:"

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	hub     *live.Hub
	http    *httpapi.Server
	grpc    *gs.GRPCServer
	closers []func() error
}

// Seams for tests.
var (
	openDB   = sql.Open
	dialAMQP = func(url, queue string) (events.Publisher, func() error, error) {
		p, err := events.DialAMQP(url, queue)
		if err != nil {
			return nil, nil, err
		}
		return p, p.Close, nil
	}
	newLLM = llm.New
)

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)
	app := &App{config: c, logger: logger}

	db, err := openDB(repomanager.DriverName, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	app.db = db

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	m := metrics.New()

	gen, err := newLLM(ctx, llm.Options{
		Provider: c.LLMProvider,
		APIKey:   c.LLMAPIKey,
		Model:    c.LLMModel,
		BaseURL:  c.LLMBaseURL,
		Timeout:  c.LLMTimeout,
		Retry:    llm.DefaultRetryConfig(),
	}, logger)
	switch {
	case errors.Is(err, llm.ErrNoProvider):
		logger.Warn(ctx, "no llm provider configured, letters are disabled and persuasion uses fallbacks")
		gen = llm.Disabled{}
	case err != nil:
		app.Close()
		return nil, fmt.Errorf("llm init error: %w", err)
	}

	var limiter ratelimit.Limiter = ratelimit.Nop{}
	if c.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: c.RedisAddr})
		limiter = ratelimit.NewRedisLimiter(rdb, persuadeKeyPrefix, c.PersuadeRateLimit, c.PersuadeRateWindow)
		app.closers = append(app.closers, rdb.Close)
	}

	origins := splitOrigins(c.AllowOrigins)
	app.hub = live.NewHub(logger.With("module", "live"), checkOrigin(origins))

	publisher := events.Multi{app.hub}
	if c.AMQPURL != "" {
		p, closeFn, err := dialAMQP(c.AMQPURL, c.AMQPQueue)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("amqp init error: %w", err)
		}
		publisher = append(publisher, p)
		app.closers = append(app.closers, closeFn)
	}

	providers, err := oauthProviders(c)
	if err != nil {
		app.Close()
		return nil, err
	}

	users := services.NewUserService(db, rm, c)
	letters := services.NewLetterService(gen, m, logger)
	persuasion := services.NewPersuasionService(gen, limiter, m, logger)
	proposals := services.NewProposalService(db, rm, letters, services.NewRingStore(c), publisher, m, logger, services.ProposalOptions{
		PublicBaseURL:       c.PublicBaseURL,
		DefaultRingModelKey: c.RingModelKey,
	})

	app.http = httpapi.New(httpapi.Deps{
		Users:     users,
		Proposals: proposals,
		Letters:   letters,
		Persuader: persuasion,
		Live:      app.hub,
		Providers: providers,
		Metrics:   m.Handler(),
	}, logger, httpapi.Options{
		PublicBaseURL: c.PublicBaseURL,
		AllowOrigins:  origins,
		SecureCookies: strings.HasPrefix(c.PublicBaseURL, "https://"),
	})
	app.grpc = gs.NewGRPCServer(c.GRPCAddr, logger, users, proposals, letters)

	return app, nil
}

func oauthProviders(c *config.Config) ([]auth.Provider, error) {
	var providers []auth.Provider
	if c.GoogleClientID != "" {
		providers = append(providers, auth.NewGoogle(c.GoogleClientID, c.GoogleClientSecret, c.PublicBaseURL))
	}
	if c.AppleClientID != "" {
		a, err := auth.NewApple(c.AppleClientID, c.AppleTeamID, c.AppleKeyID, c.ApplePrivateKey, c.PublicBaseURL)
		if err != nil {
			return nil, fmt.Errorf("apple sign-in init error: %w", err)
		}
		providers = append(providers, a)
	}
	return providers, nil
}

func splitOrigins(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// checkOrigin returns nil, meaning any origin, for an empty or "*" list.
func checkOrigin(origins []string) func(*http.Request) bool {
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		return nil
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range origins {
			if strings.EqualFold(o, origin) {
				return true
			}
		}
		return false
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves HTTP and gRPC until ctx is cancelled, a signal arrives or one
// of the servers fails, then releases every resource.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return app.http.Run(ctx, app.config.HTTPAddr)
	})
	g.Go(func() error {
		return app.grpc.Run(ctx)
	})

	err := g.Wait()
	app.Close()
	app.logger.Info(context.Background(), "App stopped")
	return err
}

// Close releases connections opened by NewApp.
func (app *App) Close() {
	if app.hub != nil {
		app.hub.Close()
	}
	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i](); err != nil {
			app.logger.Warn(context.Background(), "close failed", "error", err)
		}
	}
	app.closers = nil
	if app.db != nil {
		_ = app.db.Close()
	}
}
