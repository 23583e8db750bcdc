package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"sync"
	"time"

	"github.com/spf13/viper"
)

// RateLimit allows MaxRequests calls per WindowSeconds for one caller and verb.
type RateLimit struct {
	MaxRequests   int `json:"max_requests" mapstructure:"max_requests"`
	WindowSeconds int `json:"window_seconds" mapstructure:"window_seconds"`
}

// Window returns the limit's window as a duration.
func (r RateLimit) Window() time.Duration {
	return time.Duration(r.WindowSeconds) * time.Second
}

type GameConfig struct {
	LeaveTimeoutSeconds      int  `json:"leave_timeout_seconds" mapstructure:"leave_timeout_seconds"`
	InactivityTimeoutSeconds int  `json:"inactivity_timeout_seconds" mapstructure:"inactivity_timeout_seconds"`
	SweepIntervalSeconds     int  `json:"sweep_interval_seconds" mapstructure:"sweep_interval_seconds"`
	WinningScore             int  `json:"winning_score" mapstructure:"winning_score"`
	DeclareAnytime           bool `json:"declare_anytime" mapstructure:"declare_anytime"`
	MaxTxnAttempts           int  `json:"max_txn_attempts" mapstructure:"max_txn_attempts"`
	MaxLobbyPlayers          int  `json:"max_lobby_players" mapstructure:"max_lobby_players"`
	// RateLimits maps an RPC verb to its throttle. Verbs without an entry are not throttled.
	RateLimits map[string]RateLimit `json:"rate_limits" mapstructure:"rate_limits"`
}

func (c *GameConfig) LeaveTimeout() time.Duration {
	return time.Duration(c.LeaveTimeoutSeconds) * time.Second
}

func (c *GameConfig) InactivityTimeout() time.Duration {
	return time.Duration(c.InactivityTimeoutSeconds) * time.Second
}

func (c *GameConfig) SweepInterval() time.Duration {
	return time.Duration(c.SweepIntervalSeconds) * time.Second
}

// Runtime env keys that override file values.
const (
	EnvLeaveTimeout      = "fish_leave_timeout_sec"
	EnvInactivityTimeout = "fish_inactivity_timeout_sec"
	EnvSweepInterval     = "fish_sweep_interval_sec"
	EnvDeclareAnytime    = "fish_declare_anytime"
	EnvWinningScore      = "fish_winning_score"
	EnvMaxTxnAttempts    = "fish_max_txn_attempts"
)

var defaultRateLimits = map[string]RateLimit{
	"fish_ask_for_card":       {MaxRequests: 20, WindowSeconds: 10},
	"fish_pass_turn":          {MaxRequests: 10, WindowSeconds: 10},
	"fish_start_declaration":  {MaxRequests: 10, WindowSeconds: 10},
	"fish_select_declaration": {MaxRequests: 10, WindowSeconds: 10},
	"fish_abort_declaration":  {MaxRequests: 10, WindowSeconds: 10},
	"fish_finish_declaration": {MaxRequests: 10, WindowSeconds: 10},
	"fish_vote_for_replay":    {MaxRequests: 5, WindowSeconds: 10},
	"fish_leave_game":         {MaxRequests: 5, WindowSeconds: 10},
	"fish_return_to_game":     {MaxRequests: 5, WindowSeconds: 10},
	"fish_forfeit_game":       {MaxRequests: 5, WindowSeconds: 10},
	"fish_create_lobby":       {MaxRequests: 3, WindowSeconds: 60},
	"fish_join_lobby":         {MaxRequests: 10, WindowSeconds: 60},
	"fish_leave_lobby":        {MaxRequests: 10, WindowSeconds: 60},
	"fish_set_team":           {MaxRequests: 20, WindowSeconds: 60},
	"fish_start_game":         {MaxRequests: 5, WindowSeconds: 60},
	"fish_start_replay":       {MaxRequests: 5, WindowSeconds: 60},
	"fish_return_to_lobby":    {MaxRequests: 5, WindowSeconds: 60},
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("leave_timeout_seconds", 60)
	v.SetDefault("inactivity_timeout_seconds", 3600)
	v.SetDefault("sweep_interval_seconds", 120)
	v.SetDefault("winning_score", 5)
	v.SetDefault("declare_anytime", false)
	v.SetDefault("max_txn_attempts", 5)
	v.SetDefault("max_lobby_players", 8)
}

// Defaults returns the built-in configuration.
func Defaults() *GameConfig {
	c, _ := decode(viper.New())
	return c
}

func decode(v *viper.Viper) (*GameConfig, error) {
	setDefaults(v)
	var c GameConfig
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game config: %w", err)
	}
	if c.RateLimits == nil {
		c.RateLimits = make(map[string]RateLimit, len(defaultRateLimits))
		for verb, rl := range defaultRateLimits {
			c.RateLimits[verb] = rl
		}
	}
	return &c, nil
}

// Read parses a JSON config file. A missing file yields the defaults and
// ErrConfigMissing so callers can warn.
func Read(path string) (*GameConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	readErr := v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if readErr != nil && !errors.As(readErr, &notFound) && !errors.Is(readErr, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read game config: %w", readErr)
	}
	c, err := decode(v)
	if err != nil {
		return nil, err
	}
	if readErr != nil {
		return c, ErrConfigMissing
	}
	return c, nil
}

// ErrConfigMissing reports that defaults were used because no file was found.
var ErrConfigMissing = errors.New("game config file not found, using defaults")

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadGameConfig loads the game configuration from the given path once.
// When the file is missing the defaults are installed and ErrConfigMissing returned.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		cfg, loadErr = Read(path)
	})
	return loadErr
}

// GetGameConfig returns the global game configuration, or the defaults if none was loaded.
func GetGameConfig() *GameConfig {
	if cfg == nil {
		return Defaults()
	}
	return cfg
}

// ApplyRuntimeEnv overlays Nakama runtime env values. Unparseable values are
// reported and leave the current value untouched.
func (c *GameConfig) ApplyRuntimeEnv(env map[string]string) error {
	var errs []error
	ints := []struct {
		key string
		dst *int
	}{
		{EnvLeaveTimeout, &c.LeaveTimeoutSeconds},
		{EnvInactivityTimeout, &c.InactivityTimeoutSeconds},
		{EnvSweepInterval, &c.SweepIntervalSeconds},
		{EnvWinningScore, &c.WinningScore},
		{EnvMaxTxnAttempts, &c.MaxTxnAttempts},
	}
	for _, in := range ints {
		raw, ok := env[in.key]
		if !ok || raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			errs = append(errs, fmt.Errorf("%s: invalid value %q", in.key, raw))
			continue
		}
		*in.dst = n
	}
	if raw, ok := env[EnvDeclareAnytime]; ok && raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: invalid value %q", EnvDeclareAnytime, raw))
		} else {
			c.DeclareAnytime = b
		}
	}
	return errors.Join(errs...)
}
