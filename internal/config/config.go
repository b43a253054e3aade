package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress             string
	DatabaseURI            string
	BotToken               string
	ChannelID              string
	AdminIDs               []int64
	MinWithdrawal          int64
	ReferralPercent        int64
	JoinBonus              int64
	MembershipRecheckDelay time.Duration
	WebhookURL             string
	WebhookSecret          string
	ShutdownTimeout        time.Duration
}

const (
	defaultRunAddress             = ":8080"
	defaultMinWithdrawal          = 15
	defaultReferralPercent        = 50
	defaultJoinBonus              = 0
	defaultMembershipRecheckDelay = 30 * time.Second
	defaultShutdownTimeout        = 10 * time.Second
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:             getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:            getString(lookup, "DATABASE_URI", ""),
		BotToken:               getString(lookup, "BOT_TOKEN", ""),
		ChannelID:              getString(lookup, "CHANNEL_ID", ""),
		MinWithdrawal:          getInt64(lookup, "MIN_WITHDRAWAL", defaultMinWithdrawal),
		ReferralPercent:        getInt64(lookup, "REFERRAL_PERCENT", defaultReferralPercent),
		JoinBonus:              getInt64(lookup, "JOIN_BONUS", defaultJoinBonus),
		MembershipRecheckDelay: getDuration(lookup, "MEMBERSHIP_RECHECK_DELAY", defaultMembershipRecheckDelay),
		WebhookURL:             getString(lookup, "WEBHOOK_URL", ""),
		WebhookSecret:          getString(lookup, "WEBHOOK_SECRET", ""),
		ShutdownTimeout:        getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}

	adminList := getString(lookup, "ADMIN_IDS", "")

	fs := flag.NewFlagSet("taskbot", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		recheckDelayStr    = cfg.MembershipRecheckDelay.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.BotToken, "t", cfg.BotToken, "Telegram bot token")
	fs.StringVar(&cfg.ChannelID, "channel", cfg.ChannelID, "Required channel username or numeric chat ID")
	fs.StringVar(&adminList, "admins", adminList, "Comma separated operator user IDs")
	fs.Int64Var(&cfg.MinWithdrawal, "min-withdrawal", cfg.MinWithdrawal, "Minimum points per withdrawal request")
	fs.Int64Var(&cfg.ReferralPercent, "referral-percent", cfg.ReferralPercent, "Referral bonus as percent of task reward")
	fs.Int64Var(&cfg.JoinBonus, "join-bonus", cfg.JoinBonus, "Points credited on first verified channel join")
	fs.StringVar(&recheckDelayStr, "recheck-delay", recheckDelayStr, "Delay before deferred membership recheck")
	fs.StringVar(&cfg.WebhookURL, "webhook-url", cfg.WebhookURL, "Public webhook URL, empty for long polling")
	fs.StringVar(&cfg.WebhookSecret, "webhook-secret", cfg.WebhookSecret, "Secret token expected on webhook calls")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.MembershipRecheckDelay, err = time.ParseDuration(recheckDelayStr); err != nil {
		return nil, fmt.Errorf("invalid recheck delay: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if cfg.AdminIDs, err = parseAdminIDs(adminList); err != nil {
		return nil, err
	}

	if tokenFile, ok := lookup("BOT_TOKEN_FILE"); ok && tokenFile != "" {
		content, err := os.ReadFile(tokenFile)
		if err != nil {
			return nil, fmt.Errorf("read bot token file: %w", err)
		}
		cfg.BotToken = strings.TrimSpace(string(content))
	}

	if cfg.MinWithdrawal <= 0 {
		cfg.MinWithdrawal = defaultMinWithdrawal
	}

	if cfg.ReferralPercent < 0 {
		cfg.ReferralPercent = defaultReferralPercent
	}

	if cfg.JoinBonus < 0 {
		cfg.JoinBonus = defaultJoinBonus
	}

	if cfg.MembershipRecheckDelay <= 0 {
		cfg.MembershipRecheckDelay = defaultMembershipRecheckDelay
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	if cfg.BotToken == "" {
		return nil, fmt.Errorf("bot token must be provided")
	}

	if cfg.ChannelID == "" {
		return nil, fmt.Errorf("channel ID must be provided")
	}

	return cfg, nil
}

// IsAdmin reports whether the given user ID belongs to an operator.
func (c *Config) IsAdmin(userID int64) bool {
	for _, id := range c.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}

func parseAdminIDs(raw string) ([]int64, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid admin ID %q: %w", part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt64(lookup envLookup, key string, def int64) int64 {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
