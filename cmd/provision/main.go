// Command provision bootstraps a storefront: it creates the tenant, the
// store and the first owner account in one transaction, or adds an operator
// to an existing store. The admin API has no self-signup, so this is the
// only way accounts come into existence.
//
// Usage:
//
//	provision -slug sunnyacres -name "Sunny Acres" -email owner@example.com -password secret
//	provision -slug sunnyacres -email staff@example.com -password secret -role staff
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/skagen/norna/internal"
	"github.com/skagen/norna/internal/auth"
)

func main() {
	slug := flag.String("slug", "", "store slug (subdomain)")
	name := flag.String("name", "", "store display name (required when creating)")
	email := flag.String("email", "", "operator email")
	password := flag.String("password", "", "operator password (or set PROVISION_PASSWORD)")
	role := flag.String("role", "owner", "operator role: owner or staff")
	flag.Parse()

	if *password == "" {
		*password = os.Getenv("PROVISION_PASSWORD")
	}
	if err := run(*slug, *name, *email, *password, *role); err != nil {
		log.Fatal(err)
	}
}

func run(slug, name, email, password, role string) error {
	slug = strings.ToLower(strings.TrimSpace(slug))
	email = strings.ToLower(strings.TrimSpace(email))
	if slug == "" || email == "" || password == "" {
		return errors.New("usage: provision -slug <slug> -email <email> -password <password> [-name <name>] [-role owner|staff]")
	}
	if role != "owner" && role != "staff" {
		return fmt.Errorf("invalid role %q: must be owner or staff", role)
	}

	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer conn.Close(ctx)

	tx, err := conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var tenantID, storeID string
	err = tx.QueryRow(ctx,
		`SELECT tenant_id, id FROM stores WHERE slug = $1`, slug,
	).Scan(&tenantID, &storeID)
	switch {
	case err == nil:
		fmt.Printf("store %q exists, adding operator\n", slug)
	case errors.Is(err, pgx.ErrNoRows):
		if name == "" {
			return fmt.Errorf("store %q does not exist: pass -name to create it", slug)
		}
		if err := tx.QueryRow(ctx,
			`INSERT INTO tenants (name) VALUES ($1) RETURNING id`, name,
		).Scan(&tenantID); err != nil {
			return fmt.Errorf("failed to create tenant: %w", err)
		}
		if err := tx.QueryRow(ctx,
			`INSERT INTO stores (tenant_id, slug, name, is_active)
			 VALUES ($1, $2, $3, true)
			 RETURNING id`, tenantID, slug, name,
		).Scan(&storeID); err != nil {
			return fmt.Errorf("failed to create store: %w", err)
		}
		fmt.Printf("created store %q (tenant %s)\n", slug, tenantID)
	default:
		return fmt.Errorf("failed to look up store: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO operators (tenant_id, store_id, email, password_hash, role)
		 VALUES ($1, $2, $3, $4, $5)`,
		tenantID, storeID, email, hash, role,
	); err != nil {
		return fmt.Errorf("failed to create operator: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	fmt.Printf("operator %s (%s) ready on https://%s.%s\n", email, role, slug, cfg.BaseDomain)
	return nil
}
