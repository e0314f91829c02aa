package database

import (
	"context"
	"fmt"

	"github.com/gocql/gocql"
)

const createKeyspace = `CREATE KEYSPACE IF NOT EXISTS %s
	WITH replication = {'class': 'SimpleStrategy', 'replication_factor': 1}`

// Tables du storefront. Les lignes de panier et de wishlist sont partitionnées par utilisateur,
// les réductions par produit.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS categories (
		category_id uuid PRIMARY KEY,
		name text,
		created_at timestamp
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		product_id uuid PRIMARY KEY,
		name text,
		description text,
		price decimal,
		image_url text,
		category_id uuid,
		created_at timestamp,
		updated_at timestamp
	)`,
	`CREATE TABLE IF NOT EXISTS discounts (
		product_id uuid,
		discount_id timeuuid,
		value decimal,
		date_begin timestamp,
		date_end timestamp,
		PRIMARY KEY (product_id, discount_id)
	)`,
	`CREATE TABLE IF NOT EXISTS cart_items (
		user_id text,
		item_id timeuuid,
		product_id uuid,
		quantity int,
		added_at timestamp,
		updated_at timestamp,
		PRIMARY KEY (user_id, item_id)
	)`,
	`CREATE TABLE IF NOT EXISTS wishlist_items (
		user_id text,
		product_id uuid,
		added_at timestamp,
		PRIMARY KEY (user_id, product_id)
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		user_id text PRIMARY KEY,
		email text,
		name text,
		password text,
		role text,
		created_at timestamp
	)`,
	`CREATE TABLE IF NOT EXISTS users_by_email (
		email text PRIMARY KEY,
		user_id text
	)`,
	`CREATE TABLE IF NOT EXISTS audit_logs (
		resource text,
		logged_at timestamp,
		id timeuuid,
		user_id text,
		user_email text,
		action text,
		resource_id text,
		ip_address text,
		user_agent text,
		success boolean,
		error_msg text,
		PRIMARY KEY (resource, logged_at, id)
	) WITH CLUSTERING ORDER BY (logged_at DESC, id DESC)`,
}

// Migrate est idempotent.
func Migrate(ctx context.Context, session *gocql.Session) error {
	for _, stmt := range schema {
		if err := session.Query(stmt).WithContext(ctx).Exec(); err != nil {
			return fmt.Errorf("migration schéma: %w", err)
		}
	}
	return nil
}
