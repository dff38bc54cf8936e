package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/github-mcp-bridge/auth"
	"github.com/jrsteele09/github-mcp-bridge/authflowrepo"
	"github.com/jrsteele09/github-mcp-bridge/clients"
	"github.com/jrsteele09/github-mcp-bridge/githubtools"
	"github.com/jrsteele09/github-mcp-bridge/identity"
	"github.com/jrsteele09/github-mcp-bridge/instrumentation"
	"github.com/jrsteele09/github-mcp-bridge/internal/config"
	"github.com/jrsteele09/github-mcp-bridge/mcp"
	"github.com/jrsteele09/github-mcp-bridge/security"
	"github.com/jrsteele09/github-mcp-bridge/server"
	"github.com/jrsteele09/github-mcp-bridge/token"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	serverName    = "github-mcp-server"
	serverVersion = "1.0.0"

	limiterCleanupInterval = 10 * time.Minute
	shutdownTimeout        = 5 * time.Second
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("Error running server")
	}
	log.Info().Msg("Server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("Recovered from panic")
			returnError = errors.New("panic recovered")
		}
	}()

	overrides, err := config.ParseFlags(os.Args[0], os.Args[1:])
	if err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	c := config.New(overrides...)
	configureLogging(c)
	displayAppname(c.GetAppName())

	if err := config.Validate(c); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	inst, err := instrumentation.New(instrumentation.Config{
		ServiceName:    serverName,
		ServiceVersion: serverVersion,
		Enabled:        c.GetMetricsEnabled(),
	})
	if err != nil {
		return fmt.Errorf("instrumentation: %w", err)
	}
	defer shutdownInstrumentation(inst)
	metrics := inst.Metrics()

	repos, closeRepos, err := newRepos(ctx, c)
	if err != nil {
		return err
	}
	defer closeRepos()
	repos.Flow.Start()
	defer repos.Flow.Stop()

	signer, err := token.NewHMACSigner(c.GetJWTSecret())
	if err != nil {
		return fmt.Errorf("token signer: %w", err)
	}
	tokens := token.New(signer, c.GetBaseURL(), token.WithTokenExpiry(c.GetAccessTokenExpiry(), c.GetRefreshTokenExpiry()))

	provider, err := identity.NewOIDCProvider(ctx, identity.Config{
		Issuer:       c.GetIdentityIssuer(),
		ClientID:     c.GetGoogleClientID(),
		ClientSecret: c.GetGoogleClientSecret(),
		RedirectURL:  c.GetBaseURL() + auth.CallbackPath,
	})
	if err != nil {
		return err
	}

	authService, err := auth.NewAuthorizationService(repos, tokens, provider, auth.Config{
		BaseURL:           c.GetBaseURL(),
		AllowedEmail:      c.GetAllowedEmail(),
		RequirePKCE:       c.GetRequirePKCE(),
		RequireClientAuth: c.GetRequireClientAuth(),
	}, auth.WithMetrics(metrics))
	if err != nil {
		return err
	}

	gh := githubtools.NewGitHubClient(c.GetGitHubToken(), nil)
	registry, err := mcp.NewRegistry(githubtools.New(gh, c.GetGitHubOwner(), c.GetDefaultIssueLabel()).Tools()...)
	if err != nil {
		return fmt.Errorf("tool registry: %w", err)
	}
	dispatcher := mcp.NewDispatcher(registry, mcp.ServerInfo{Name: serverName, Version: serverVersion},
		mcp.WithMetrics(metrics), mcp.WithTracer(inst.Tracer("mcp")))

	limiterOptions := []security.Option{
		security.WithRejectHook(func(r *http.Request) {
			metrics.RecordRateLimitExceeded(r.Context(), "registration")
		}),
	}
	if c.GetTrustProxy() {
		limiterOptions = append(limiterOptions, security.WithTrustedProxies(c.GetTrustedProxyCount()))
	}
	limiter := security.NewRateLimiter(c.GetRegistrationLimit(), c.GetRegistrationWindow(), limiterOptions...)
	limiter.Start(limiterCleanupInterval)
	defer limiter.Stop()

	handler, err := server.New(c, server.Dependencies{
		Auth:                authService,
		Registry:            registry,
		Dispatcher:          dispatcher,
		RegistrationLimiter: limiter,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              c.GetPort(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info().
		Str("base_url", c.GetBaseURL()).
		Str("allowed_email", c.GetAllowedEmail()).
		Str("state_store", c.GetStateStore()).
		Int("tools", registry.Len()).
		Msg("Starting server")

	errCh := make(chan error, 1)
	go func() {
		errCh <- listenAndServe(srv)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	return shutdown(srv)
}

func newRepos(ctx context.Context, c config.Config) (auth.Repos, func(), error) {
	flowOpts := []authflowrepo.Option{
		authflowrepo.WithTTL(c.GetAuthStateTTL()),
		authflowrepo.WithSweepInterval(c.GetStateSweepInterval()),
	}

	if c.GetStateStore() != config.StateStoreRedis {
		return auth.Repos{
			Flow:    authflowrepo.NewInMemoryRepo(flowOpts...),
			Clients: clients.NewInMemoryRepo(),
		}, func() {}, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     c.GetRedisAddr(),
		Password: c.GetRedisPassword(),
		DB:       c.GetRedisDB(),
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return auth.Repos{}, nil, fmt.Errorf("redis ping %s: %w", c.GetRedisAddr(), err)
	}

	closeFn := func() {
		if err := rdb.Close(); err != nil {
			log.Err(err).Msg("failed to close redis client")
		}
	}
	return auth.Repos{
		Flow:    authflowrepo.NewRedisRepo(rdb, c.GetRedisKeyPrefix(), flowOpts...),
		Clients: clients.NewRedisRepo(rdb, c.GetRedisKeyPrefix()),
	}, closeFn, nil
}

func configureLogging(c config.Config) {
	level, err := zerolog.ParseLevel(c.GetLogLevel())
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if c.GetEnv() == "DEV" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

func listenAndServe(server *http.Server) error {
	log.Info().Str("addr", server.Addr).Msg("Server listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func shutdownInstrumentation(inst *instrumentation.Instrumentation) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := inst.Shutdown(ctx); err != nil {
		log.Err(err).Msg("failed to flush metrics")
	}
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
