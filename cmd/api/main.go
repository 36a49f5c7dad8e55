package main

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/guardline/vishsim/internal/config"
	"github.com/guardline/vishsim/internal/handler"
	"github.com/guardline/vishsim/internal/model/scenario"
	"github.com/guardline/vishsim/internal/service/ai"
	"github.com/guardline/vishsim/internal/service/analyzer"
	"github.com/guardline/vishsim/internal/service/contextcache"
	"github.com/guardline/vishsim/internal/service/evaluator"
	"github.com/guardline/vishsim/internal/service/orchestrator"
	tacticservice "github.com/guardline/vishsim/internal/service/tactic"
	"github.com/guardline/vishsim/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	repo := newRepository(cfg.Sim.DBPath)
	defer repo.Close()

	scenarios := scenario.NewMemoryStore(scenario.Seed())
	cache := contextcache.NewCache(cfg.Sim.CacheTTL, rand.New(rand.NewSource(time.Now().UnixNano())))
	selector := tacticservice.NewSelector()

	// The simulation keeps running on fallback responses when model
	// credentials are missing; only the generated dialogue degrades.
	primary := newCollaborator(ctx, cfg, "primary")
	secondary := newEvalCollaborator(ctx, cfg)

	analyzerSvc := analyzer.NewService(primary)
	orch := orchestrator.New(repo, scenarios, cache, selector, primary, cfg.Sim.MaxTurns)
	eval := evaluator.New(primary, secondary)

	router := handler.NewRouter(orch, analyzerSvc, eval, repo, scenarios, cfg.Server.AllowedOrigins)

	startServer(ctx, cfg.Server, router)
}

func newRepository(dbPath string) store.Repository {
	if dbPath == "" {
		log.Println("DB_PATH not set, using in-memory session store")
		return store.NewMemoryStore()
	}

	repo, err := store.NewSQLite(dbPath)
	if err != nil {
		log.Fatalf("failed to open session store: %v", err)
	}
	log.Printf("session store opened at %s", dbPath)
	return repo
}

func newCollaborator(ctx context.Context, cfg *config.Config, label string) ai.Collaborator {
	if !cfg.AI.Enabled() {
		log.Println("model credentials not configured, caller dialogue will use fallback responses")
		return nil
	}

	chatModel, err := cfg.AI.NewChatModel(ctx)
	if err != nil {
		log.Printf("warning: failed to create %s chat model: %v", label, err)
		return nil
	}

	svc, err := ai.NewService(ctx, chatModel, label)
	if err != nil {
		log.Printf("warning: failed to initialize %s collaborator: %v", label, err)
		return nil
	}
	log.Printf("%s collaborator initialized", label)
	return svc
}

func newEvalCollaborator(ctx context.Context, cfg *config.Config) ai.Collaborator {
	if !cfg.AI.EvalEnabled() {
		log.Println("evaluation backup model not configured")
		return nil
	}

	chatModel, err := cfg.AI.NewEvalChatModel(ctx)
	if err != nil {
		log.Printf("warning: failed to create evaluation chat model: %v", err)
		return nil
	}

	svc, err := ai.NewService(ctx, chatModel, "eval")
	if err != nil {
		log.Printf("warning: failed to initialize evaluation collaborator: %v", err)
		return nil
	}
	log.Println("evaluation collaborator initialized")
	return svc
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("vishsim API listening on %s", serverCfg.Addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
