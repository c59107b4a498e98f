package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"wordle-arena-server/api"
	"wordle-arena-server/auth"
	"wordle-arena-server/config"
	"wordle-arena-server/game"
	"wordle-arena-server/lobby"
	"wordle-arena-server/loghandler"
	"wordle-arena-server/room"
	"wordle-arena-server/sessions"
	"wordle-arena-server/spell"
	"wordle-arena-server/storage"
	"wordle-arena-server/words"
	"wordle-arena-server/ws"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found; using environment variables")
	}

	slog.SetDefault(slog.New(loghandler.NewCompactHandler(os.Stdout, slog.LevelInfo)))

	cfg := config.Load()

	if cfg.AuthBaseURL == "" {
		slog.Warn("AUTH_BASE_URL is not set; websocket auth will reject all clients", "tag", "main")
	} else {
		slog.Info("auth configured", "tag", "main", "baseURL", cfg.AuthBaseURL)
	}
	slog.Info("configuration", "tag", "main",
		"maxRounds", cfg.MaxRounds, "lobbyRooms", cfg.LobbyRoomCount, "wsPort", cfg.WSPort)

	dict, err := words.Load(cfg.WordListPath)
	if err != nil {
		slog.Error("loading word list", "tag", "main", "err", err)
		os.Exit(1)
	}
	slog.Info("word list loaded", "tag", "main", "words", dict.Len())

	spells := spell.NewRegistry()
	spell.RegisterAll(spells, &cfg.Spells)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("connecting to database", "tag", "main", "err", err)
		os.Exit(1)
	}
	if store == nil {
		slog.Warn("DATABASE_URL is not set; match history will not be persisted", "tag", "main")
	}
	defer store.Close()

	games := game.NewManager(dict, cfg.MaxRounds, time.Duration(cfg.IdleGameTimeoutSec)*time.Second)
	go games.Run(ctx)

	lb := lobby.New(cfg, dict, spells)
	lb.OnMatchFinished = func(res room.Result) {
		go func() {
			insertCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := store.InsertMatchResult(insertCtx, res); err != nil {
				slog.Error("persisting match result", "tag", "main", "match", res.MatchID, "err", err)
			}
		}()
	}

	registry := sessions.NewRegistry(
		time.Duration(cfg.SessionTimeoutSec)*time.Second,
		time.Duration(cfg.HeartbeatIntervalSec)*time.Second)
	registry.OnEvict = lb.HandleDisconnect
	go registry.Run(ctx)

	verifier := auth.NewVerifier(cfg.AuthBaseURL)
	hub := ws.NewHub(cfg, lb, registry, games, verifier.Identity)
	lb.Notify = hub
	go hub.Run(ctx)

	handler := &api.Handler{
		Config:   cfg,
		Store:    store,
		Verifier: verifier,
		Games:    games,
		Lobby:    lb,
		Sessions: registry,
	}

	r := chi.NewRouter()
	r.Get("/ws", hub.ServeWS)
	r.Mount("/api", handler.Routes())

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.WSPort),
		Handler: r,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown", "tag", "main", "err", err)
		}
	}()

	slog.Info("server listening", "tag", "main", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server error", "tag", "main", "err", err)
		os.Exit(1)
	}
	slog.Info("server stopped", "tag", "main")
}
