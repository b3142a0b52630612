// Package seed provisions the initial admin account for a marketplace store.
package seed

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/louisbranch/bookmarket/internal/market/storage"
	marketsqlite "github.com/louisbranch/bookmarket/internal/market/storage/sqlite"
	"github.com/louisbranch/bookmarket/internal/market/user"
)

// Config holds configuration for seeding.
type Config struct {
	DBPath        string
	AdminEmail    string `env:"BOOKMARKET_ADMIN_EMAIL"`
	AdminPassword string `env:"BOOKMARKET_ADMIN_PASSWORD"`
}

// ParseConfig parses flags and environment into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	fs.StringVar(&cfg.DBPath, "db", "data/market.db", "path to the marketplace SQLite database")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse seed env: %w", err)
	}
	if strings.TrimSpace(cfg.AdminEmail) == "" {
		return Config{}, errors.New("BOOKMARKET_ADMIN_EMAIL is required")
	}
	if strings.TrimSpace(cfg.AdminPassword) == "" {
		return Config{}, errors.New("BOOKMARKET_ADMIN_PASSWORD is required")
	}
	return cfg, nil
}

// Run creates the admin account unless one already exists for the email.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	store, err := marketsqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open market store: %w", err)
	}
	defer func() {
		_ = store.Close()
	}()

	return SeedAdmin(ctx, store, cfg, out)
}

// SeedAdmin provisions the admin account against any user store.
func SeedAdmin(ctx context.Context, users storage.UserStore, cfg Config, out io.Writer) error {
	admin, err := user.CreateUser(user.CreateUserInput{
		Email:     cfg.AdminEmail,
		Password:  cfg.AdminPassword,
		FirstName: "Market",
		LastName:  "Admin",
		Role:      user.RoleAdmin,
	}, nil, nil)
	if err != nil {
		return fmt.Errorf("build admin account: %w", err)
	}

	if err := users.CreateUser(ctx, admin); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			fmt.Fprintf(out, "admin account %s already exists\n", admin.Email)
			return nil
		}
		return fmt.Errorf("create admin account: %w", err)
	}
	fmt.Fprintf(out, "created admin account %s (%s)\n", admin.Email, admin.ID)
	return nil
}
