package store

// SQL query constants organized by entity.
// All SQL lives here; PostgresStore methods reference these constants.

// Inventory queries.
const (
	queryListInventory = `
		SELECT product_id, printing, quantity, updated_at
		FROM inventory
		ORDER BY product_id, printing`

	queryGetInventorySnapshot = `
		SELECT product_id, printing, quantity
		FROM inventory
		WHERE quantity > 0`

	queryUpsertInventoryRow = `
		INSERT INTO inventory (product_id, printing, quantity, updated_at)
		VALUES (@product_id, @printing, @quantity, now())
		ON CONFLICT (product_id, printing) DO UPDATE SET
			quantity = EXCLUDED.quantity,
			updated_at = now()`

	queryDeleteInventoryRow = `
		DELETE FROM inventory
		WHERE product_id = $1 AND printing = $2`

	queryTruncateInventory = `DELETE FROM inventory`
)

// Blacklist queries.
const (
	queryListBlacklist = `SELECT product_id FROM blacklist ORDER BY product_id`

	queryInsertBlacklist = `
		INSERT INTO blacklist (product_id, added_at)
		VALUES ($1, now())
		ON CONFLICT (product_id) DO NOTHING`

	queryDeleteBlacklist   = `DELETE FROM blacklist WHERE product_id = $1`
	queryTruncateBlacklist = `DELETE FROM blacklist`
)

// Featured card queries.
const (
	queryListFeatured = `
		SELECT product_id, position, added_at
		FROM featured_cards
		ORDER BY position, product_id`

	queryInsertFeatured = `
		INSERT INTO featured_cards (product_id, position, added_at)
		VALUES (@product_id, @position, now())
		ON CONFLICT (product_id) DO UPDATE SET
			position = EXCLUDED.position`

	queryTruncateFeatured = `DELETE FROM featured_cards`
)
