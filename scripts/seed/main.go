// Command seed provisions a development tenant and its admin account so a
// fresh database can be logged into without the test-tenant escape hatch.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/meridian-pos/meridian-pos/internal/platform/db"
	"github.com/meridian-pos/meridian-pos/internal/platform/hash"
)

func main() {
	dsn := flag.String("dsn", os.Getenv("PG_DSN"), "postgres dsn")
	tenantID := flag.String("tenant", "demo-pos", "tenant id to create")
	email := flag.String("email", "admin@demo-pos.local", "admin email")
	password := flag.String("password", "changeme123", "admin password")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := db.New(ctx, *dsn)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	_, err = pool.Exec(ctx, `
		INSERT INTO tenants (id, name, business_name, owner_name, owner_email, phone, address, tax_id, subscription_plan, status, created_at, updated_at)
		VALUES ($1, 'Demo POS', 'Demo POS Ltd', 'Demo Owner', $2, '', '', '', 'basic', 'active', NOW(), NOW())
		ON CONFLICT (id) DO NOTHING`, *tenantID, *email)
	if err != nil {
		logger.Error("seed tenant", slog.Any("error", err))
		os.Exit(1)
	}

	digest, err := hash.NewBcrypt().Hash(*password)
	if err != nil {
		logger.Error("hash password", slog.Any("error", err))
		os.Exit(1)
	}

	_, err = pool.Exec(ctx, `
		INSERT INTO users (id, name, nickname, phone, email, role, password_hash, tenant_id, created_at, active)
		VALUES ('admin', 'Administrator', 'admin', '+10000000000', $1, 'admin', $2, $3, NOW(), TRUE)
		ON CONFLICT DO NOTHING`, *email, digest, *tenantID)
	if err != nil {
		logger.Error("seed admin user", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("seed complete", slog.String("tenant", *tenantID), slog.String("email", *email))
}
