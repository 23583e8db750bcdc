package nakama

import (
	"context"
	"database/sql"
	"errors"
	"math/rand"
	"time"

	"github.com/heroiclabs/nakama-common/runtime"

	"fish/internal/app"
	"fish/internal/command"
	"fish/internal/config"
	"fish/internal/engine"
	"fish/internal/ports"
	"fish/internal/ratelimit"
	"fish/internal/supervisor"
)

// Module is the wired server.
type Module struct {
	Handler    *command.Handler
	Supervisor *supervisor.Supervisor
}

// NewModule wires the engine, rules, gate and adapters for cfg.
func NewModule(logger runtime.Logger, nk runtime.NakamaModule, cfg *config.GameConfig) *Module {
	eng := engine.New(NewStorageAdapter(nk), ports.SystemClock{}, cfg.MaxTxnAttempts)
	svc := app.NewService(rand.New(rand.NewSource(time.Now().UnixNano())), app.Rules{
		WinningScore:      cfg.WinningScore,
		LeaveTimeout:      cfg.LeaveTimeout(),
		InactivityTimeout: cfg.InactivityTimeout(),
		DeclareAnytime:    cfg.DeclareAnytime,
	})
	h := command.NewHandler(logger, eng, svc, ratelimit.NewGate(cfg.RateLimits), NewNotificationAdapter(nk), command.Options{
		MaxLobbyPlayers: cfg.MaxLobbyPlayers,
	})
	return &Module{
		Handler:    h,
		Supervisor: supervisor.New(logger, eng, h, cfg.SweepInterval()),
	}
}

// InitModule wires RPCs and the timeout supervisor for Nakama runtime.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	if err := config.LoadGameConfig(ConfigPath); err != nil {
		if !errors.Is(err, config.ErrConfigMissing) {
			logger.Error("Failed to load game config: %v", err)
			return err
		}
		logger.Warn("%v", err)
	}
	cfg := *config.GetGameConfig()
	if env, ok := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string); ok {
		if err := cfg.ApplyRuntimeEnv(env); err != nil {
			logger.Warn("Ignoring runtime env overrides: %v", err)
		}
	}

	m := NewModule(logger, nk, &cfg)
	if err := RegisterRPCs(initializer, m.Handler); err != nil {
		return err
	}
	// The sweep lives as long as the server process.
	go m.Supervisor.Run(context.Background())

	logger.WithFields(map[string]interface{}{
		"winning_score":   cfg.WinningScore,
		"leave_timeout":   cfg.LeaveTimeout().String(),
		"declare_anytime": cfg.DeclareAnytime,
	}).Info("Fish Go module loaded.")
	return nil
}
