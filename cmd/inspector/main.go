package main

import (
	"context"
	"fmt"
	"log"

	"github.com/trongate/trongate/internal/config"
	"github.com/trongate/trongate/internal/repository"
	"github.com/trongate/trongate/internal/service"
	"github.com/trongate/trongate/internal/tron"
)

// Inspector prints the configured tenants and flags the ones that cannot
// serve gated operations (missing wallet or unresolvable signing secret).
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := repository.NewDB(cfg)
	if err != nil {
		log.Fatalf("Failed to open tenant store: %v", err)
	}
	repo, err := repository.NewGormTenantRepo(db)
	if err != nil {
		log.Fatalf("Failed to migrate tenant store: %v", err)
	}
	store := service.NewTenantStore(repo, service.NewEnvSecretResolver(), cfg)

	ctx := context.Background()
	tenants, err := store.List(ctx)
	if err != nil {
		log.Fatalf("Failed to list tenants: %v", err)
	}

	fmt.Printf("--- Tenants (%d) ---\n", len(tenants))
	for _, t := range tenants {
		resolved, err := store.Resolve(ctx, t.Domain)
		usable := err == nil && resolved.Usable()
		validWallet := t.WalletAddress != "" && tron.ValidAddress(t.WalletAddress)

		fmt.Printf("%-30s enabled=%-5v usable=%-5v wallet_ok=%-5v auto_fund=%s min_balance=%s\n",
			t.Domain, t.Enabled, usable, validWallet,
			t.AutoFundAmount.String(), t.MinBalanceThreshold.String())
	}
}
