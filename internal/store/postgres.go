package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "github.com/cardstock/pricing-engine/pkg/types"
)

const defaultPoolSize = 10

// PostgresStore implements Store using pgxpool (connection-pooled PostgreSQL).
//
// TODO(test): PostgresStore methods require live Postgres, tested via integration tests.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore with connection pooling.
func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	cfg.MaxConns = defaultPoolSize

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Close gracefully shuts down the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Ping verifies the database connection is alive.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Migrate applies pending SQL schema migrations.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	return RunMigrations(ctx, s.pool)
}

// GetInventorySnapshot loads all stocked rows into the reconciliation
// key format. Zero-quantity rows are omitted; callers treat absent keys
// as zero, so the two states are equivalent.
func (s *PostgresStore) GetInventorySnapshot(ctx context.Context) (domain.InventorySnapshot, error) {
	rows, err := s.pool.Query(ctx, queryGetInventorySnapshot)
	if err != nil {
		return nil, fmt.Errorf("querying inventory snapshot: %w", err)
	}
	defer rows.Close()

	snapshot := make(domain.InventorySnapshot)
	for rows.Next() {
		var productID, quantity int
		var printing string
		if err := rows.Scan(&productID, &printing, &quantity); err != nil {
			return nil, fmt.Errorf("scanning inventory row: %w", err)
		}
		snapshot[domain.InventoryKey(productID, printing)] = quantity
	}

	return snapshot, rows.Err()
}

// ListInventory returns all inventory rows, including zero-quantity ones.
func (s *PostgresStore) ListInventory(ctx context.Context) ([]InventoryRow, error) {
	rows, err := s.pool.Query(ctx, queryListInventory)
	if err != nil {
		return nil, fmt.Errorf("querying inventory: %w", err)
	}
	defer rows.Close()

	var out []InventoryRow
	for rows.Next() {
		var r InventoryRow
		if err := rows.Scan(&r.ProductID, &r.Printing, &r.Quantity, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning inventory row: %w", err)
		}
		out = append(out, r)
	}

	return out, rows.Err()
}

// ReplaceInventory atomically swaps the full inventory for the given
// rows and returns the number of rows written.
func (s *PostgresStore) ReplaceInventory(ctx context.Context, rows []InventoryRow) (int, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	if _, err := tx.Exec(ctx, queryTruncateInventory); err != nil {
		return 0, fmt.Errorf("clearing inventory: %w", err)
	}

	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(queryUpsertInventoryRow, pgx.NamedArgs{
			"product_id": r.ProductID,
			"printing":   r.Printing,
			"quantity":   r.Quantity,
		})
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return 0, fmt.Errorf("inserting inventory rows: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("committing inventory replace: %w", err)
	}

	return len(rows), nil
}

// SetInventoryQuantity upserts a single inventory row. A zero quantity
// removes the row entirely; absence already means zero.
func (s *PostgresStore) SetInventoryQuantity(
	ctx context.Context,
	productID int,
	printing string,
	quantity int,
) error {
	if quantity <= 0 {
		_, err := s.pool.Exec(ctx, queryDeleteInventoryRow, productID, printing)
		if err != nil {
			return fmt.Errorf("deleting inventory row: %w", err)
		}
		return nil
	}

	_, err := s.pool.Exec(ctx, queryUpsertInventoryRow, pgx.NamedArgs{
		"product_id": productID,
		"printing":   printing,
		"quantity":   quantity,
	})
	if err != nil {
		return fmt.Errorf("upserting inventory row: %w", err)
	}
	return nil
}

// GetBlacklist loads the full blacklist as a membership set.
func (s *PostgresStore) GetBlacklist(ctx context.Context) (domain.Blacklist, error) {
	rows, err := s.pool.Query(ctx, queryListBlacklist)
	if err != nil {
		return nil, fmt.Errorf("querying blacklist: %w", err)
	}
	defer rows.Close()

	blacklist := make(domain.Blacklist)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning blacklist row: %w", err)
		}
		blacklist[id] = struct{}{}
	}

	return blacklist, rows.Err()
}

// ReplaceBlacklist atomically swaps the blacklist for the given IDs.
func (s *PostgresStore) ReplaceBlacklist(ctx context.Context, productIDs []string) (int, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	if _, err := tx.Exec(ctx, queryTruncateBlacklist); err != nil {
		return 0, fmt.Errorf("clearing blacklist: %w", err)
	}

	batch := &pgx.Batch{}
	for _, id := range productIDs {
		batch.Queue(queryInsertBlacklist, id)
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return 0, fmt.Errorf("inserting blacklist rows: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("committing blacklist replace: %w", err)
	}

	return len(productIDs), nil
}

// AddToBlacklist inserts one product ID, ignoring duplicates.
func (s *PostgresStore) AddToBlacklist(ctx context.Context, productID string) error {
	if _, err := s.pool.Exec(ctx, queryInsertBlacklist, productID); err != nil {
		return fmt.Errorf("adding to blacklist: %w", err)
	}
	return nil
}

// RemoveFromBlacklist deletes one product ID. Returns ErrNotFound when
// the ID was not blacklisted.
func (s *PostgresStore) RemoveFromBlacklist(ctx context.Context, productID string) error {
	tag, err := s.pool.Exec(ctx, queryDeleteBlacklist, productID)
	if err != nil {
		return fmt.Errorf("removing from blacklist: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListFeatured returns the featured cards in display order.
func (s *PostgresStore) ListFeatured(ctx context.Context) ([]FeaturedCard, error) {
	rows, err := s.pool.Query(ctx, queryListFeatured)
	if err != nil {
		return nil, fmt.Errorf("querying featured cards: %w", err)
	}
	defer rows.Close()

	var cards []FeaturedCard
	for rows.Next() {
		var c FeaturedCard
		if err := rows.Scan(&c.ProductID, &c.Position, &c.AddedAt); err != nil {
			return nil, fmt.Errorf("scanning featured card: %w", err)
		}
		cards = append(cards, c)
	}

	return cards, rows.Err()
}

// ReplaceFeatured atomically swaps the featured list for the given cards.
func (s *PostgresStore) ReplaceFeatured(ctx context.Context, cards []FeaturedCard) (int, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	if _, err := tx.Exec(ctx, queryTruncateFeatured); err != nil {
		return 0, fmt.Errorf("clearing featured cards: %w", err)
	}

	batch := &pgx.Batch{}
	for _, c := range cards {
		batch.Queue(queryInsertFeatured, pgx.NamedArgs{
			"product_id": c.ProductID,
			"position":   c.Position,
		})
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return 0, fmt.Errorf("inserting featured cards: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("committing featured replace: %w", err)
	}

	return len(cards), nil
}
