package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/gocql/gocql"
)

// ScyllaSchema lists the tables the service needs inside its keyspace.
var ScyllaSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		user_id text PRIMARY KEY,
		email text,
		password text,
		provider text,
		provider_id text,
		created_at timestamp
	)`,
	`CREATE TABLE IF NOT EXISTS users_by_email (
		email text PRIMARY KEY,
		user_id text
	)`,
	`CREATE TABLE IF NOT EXISTS profiles (
		user_id text PRIMARY KEY,
		email text,
		name text,
		phone text,
		city text,
		country text,
		avatar_url text,
		updated_at timestamp
	)`,
	`CREATE TABLE IF NOT EXISTS cart_items (
		user_id text,
		product_id bigint,
		name text,
		price double,
		quantity int,
		image text,
		category text,
		description text,
		created_at timestamp,
		updated_at timestamp,
		PRIMARY KEY (user_id, product_id)
	)`,
	`CREATE TABLE IF NOT EXISTS wishlist_items (
		user_id text,
		product_id bigint,
		name text,
		price double,
		image text,
		category text,
		description text,
		created_at timestamp,
		PRIMARY KEY (user_id, product_id)
	)`,
	`CREATE TABLE IF NOT EXISTS reviews_by_user (
		user_id text,
		product_id bigint,
		rating int,
		experience text,
		created_at timestamp,
		PRIMARY KEY (user_id, product_id)
	)`,
}

// PostgresSchema backs the cart and wishlist when STORE_DRIVER=postgres.
var PostgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS cart (
		user_id TEXT NOT NULL,
		product_id BIGINT NOT NULL,
		name TEXT NOT NULL,
		price NUMERIC(12,2) NOT NULL,
		quantity INTEGER NOT NULL CHECK (quantity > 0),
		image TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (user_id, product_id)
	)`,
	`CREATE TABLE IF NOT EXISTS wishlist (
		user_id TEXT NOT NULL,
		product_id BIGINT NOT NULL,
		name TEXT NOT NULL,
		price NUMERIC(12,2) NOT NULL,
		image TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (user_id, product_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_wishlist_user_created ON wishlist (user_id, created_at DESC)`,
}

func EnsureScyllaSchema(session *gocql.Session) error {
	for _, stmt := range ScyllaSchema {
		if err := session.Query(stmt).Exec(); err != nil {
			return fmt.Errorf("scylla schema: %w", err)
		}
	}
	log.Println("✅ ScyllaDB tables ready")
	return nil
}

func EnsurePostgresSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range PostgresSchema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("postgres schema: %w", err)
		}
	}
	log.Println("✅ Postgres tables ready")
	return nil
}
