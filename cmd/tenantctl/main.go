// Command tenantctl provisions a new golf course tenant: the tenant row, a bare
// course profile and an admin account with a temporary password.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"fairway/internal/config"
	"fairway/internal/logging"
	"fairway/internal/repositories"
	"fairway/internal/services"
	"fairway/pkg/database"

	"github.com/rs/zerolog/log"
)

func main() {
	var req services.ProvisionTenantRequest
	var domain string
	flag.StringVar(&req.Name, "name", "", "course display name (required)")
	flag.StringVar(&req.Slug, "slug", "", "subdomain slug, e.g. pinehills (required)")
	flag.StringVar(&domain, "domain", "", "optional custom domain")
	flag.StringVar(&req.AdminName, "admin-name", "", "admin display name")
	flag.StringVar(&req.AdminEmail, "admin-email", "", "admin email (required)")
	flag.StringVar(&req.TempPassword, "password", "", "temporary admin password (generated when empty)")
	flag.Parse()
	if domain != "" {
		req.CustomDomain = &domain
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logging.New(cfg.LogLevel, true)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := database.NewPool(ctx, cfg.DatabaseURL, database.PoolOptions{MaxConns: 2})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	if err := database.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("failed to apply schema")
	}

	tenants := services.NewTenantService(
		repositories.NewTenantRepo(pool),
		repositories.NewTransactor(pool, cfg.BookingLockTimeout),
		nil,
	)
	result, err := tenants.Provision(ctx, &req)
	if err != nil {
		log.Fatal().Err(err).Msg("provisioning failed")
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		log.Fatal().Err(err).Msg("failed to write result")
	}
}
