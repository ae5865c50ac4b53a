package sqlite

// DriverName is the database/sql driver registered by modernc.org/sqlite
const DriverName = "sqlite"

// Error Messages
const (
	ErrMsgEmptyPath                = "empty sqlite path"
	ErrMsgFailedToOpen             = "failed to open sqlite database"
	ErrMsgFailedToApplyPragma      = "failed to apply pragma"
	ErrMsgFailedToBeginTransaction = "failed to begin transaction"
	ErrMsgFailedToCommit           = "failed to commit transaction"
)

var pragmas = []string{
	"PRAGMA journal_mode=WAL;",
	"PRAGMA synchronous=NORMAL;",
	"PRAGMA foreign_keys=ON;",
	"PRAGMA busy_timeout=5000;",
	"PRAGMA temp_store=MEMORY;",
}

const (
	consumableColumns = `id, owner_id, field_index, asset_id, rarity, placed_at, expires_at,
		next_spawn_at, spawn_count, max_spawns, exhausted`
	creatureColumns = `id, owner_id, location, slot, rarity, asset_id, source_consumable_id,
		placed_at, despawn_at, discount_ms, matured_at`
	stackColumns   = `owner_id, asset_id, rarity, quantity, updated_at`
	balanceColumns = `owner_id, balance, last_payout_at`
)

// Queries. Timestamps are unix milliseconds.
const (
	queryConsumableCells    = `SELECT field_index FROM consumables WHERE owner_id = ?`
	queryFieldCreatureCells = `SELECT slot FROM creatures WHERE owner_id = ? AND location = 'field'`
	queryFixtureCells       = `SELECT field_index FROM field_fixtures WHERE owner_id = ?`

	queryUpsertStack = `
		INSERT INTO inventory_stacks (owner_id, asset_id, rarity, quantity, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (owner_id, asset_id)
		DO UPDATE SET quantity = inventory_stacks.quantity + excluded.quantity, updated_at = excluded.updated_at
		RETURNING quantity`
	queryConsumeStack = `
		UPDATE inventory_stacks SET quantity = quantity - ?, updated_at = ?
		WHERE owner_id = ? AND asset_id = ? AND quantity >= ?
		RETURNING quantity`
	queryGetInventory = `SELECT ` + stackColumns + ` FROM inventory_stacks
		WHERE owner_id = ? AND quantity > 0 ORDER BY asset_id`

	queryListActiveConsumables = `SELECT ` + consumableColumns + ` FROM consumables
		WHERE exhausted = 0 AND next_spawn_at <= ? AND expires_at > ? ORDER BY next_spawn_at, id`
	queryListConsumables = `SELECT ` + consumableColumns + ` FROM consumables
		WHERE owner_id = ? ORDER BY field_index`
	queryGetConsumable   = `SELECT ` + consumableColumns + ` FROM consumables WHERE id = ?`
	queryGetConsumableAt = `SELECT ` + consumableColumns + ` FROM consumables
		WHERE owner_id = ? AND field_index = ?`
	queryInsertConsumable = `
		INSERT INTO consumables (owner_id, field_index, asset_id, rarity, placed_at, expires_at,
			next_spawn_at, spawn_count, max_spawns, exhausted)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`
	queryDeleteConsumable = `DELETE FROM consumables WHERE id = ?`
	queryAdvanceSpawn     = `
		UPDATE consumables
		SET spawn_count = spawn_count + 1,
			next_spawn_at = ?,
			exhausted = (spawn_count + 1 >= max_spawns)
		WHERE id = ? AND spawn_count = ? AND spawn_count < max_spawns AND exhausted = 0
			AND next_spawn_at < ?`
	queryForceExhaust = `UPDATE consumables SET exhausted = 1 WHERE id = ?`

	queryGetCreature   = `SELECT ` + creatureColumns + ` FROM creatures WHERE id = ?`
	queryGetCreatureAt = `SELECT ` + creatureColumns + ` FROM creatures
		WHERE owner_id = ? AND location = 'field' AND slot = ?`
	queryListCreatures = `SELECT ` + creatureColumns + ` FROM creatures
		WHERE owner_id = ? AND location = ? ORDER BY slot`
	queryExhibitSlotTaken = `SELECT EXISTS (SELECT 1 FROM creatures
		WHERE owner_id = ? AND location = 'exhibit' AND slot = ?)`
	queryInsertCreature = `
		INSERT INTO creatures (owner_id, location, slot, rarity, asset_id, source_consumable_id,
			placed_at, despawn_at, discount_ms, matured_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`
	queryDeleteCreature = `DELETE FROM creatures WHERE id = ?`
	queryMarkMatured    = `UPDATE creatures SET matured_at = ? WHERE id = ? AND matured_at IS NULL`
	queryDespawnExpired = `DELETE FROM creatures
		WHERE location = 'field' AND despawn_at IS NOT NULL AND despawn_at <= ?`
	queryInsertLike = `
		INSERT INTO creature_likes (creature_id, liker_id, liked_at) VALUES (?, ?, ?)
		ON CONFLICT (creature_id, liker_id) DO NOTHING`
	queryAddDiscount = `UPDATE creatures SET discount_ms = discount_ms + ? WHERE id = ? RETURNING discount_ms`

	queryInsertFixture = `
		INSERT INTO field_fixtures (owner_id, field_index, kind, placed_at) VALUES (?, ?, ?, ?)
		RETURNING id`
	queryDeleteFixtureAt = `DELETE FROM field_fixtures WHERE owner_id = ? AND field_index = ?`

	queryEnsureBalance = `
		INSERT INTO owner_balances (owner_id, balance, last_payout_at) VALUES (?, 0, ?)
		ON CONFLICT (owner_id) DO NOTHING`
	queryGetBalance    = `SELECT ` + balanceColumns + ` FROM owner_balances WHERE owner_id = ?`
	queryListBalances  = `SELECT ` + balanceColumns + ` FROM owner_balances ORDER BY owner_id`
	queryAdvancePayout = `
		UPDATE owner_balances SET balance = balance + ?, last_payout_at = ?
		WHERE owner_id = ? AND last_payout_at = ?`
	queryCreditBalance = `UPDATE owner_balances SET balance = balance + ? WHERE owner_id = ? RETURNING balance`
	queryInsertLedger  = `
		INSERT INTO economy_ledger (owner_id, amount, source_type, created_at) VALUES (?, ?, ?, ?)
		RETURNING id`
	queryListLedger = `SELECT id, owner_id, amount, source_type, created_at FROM economy_ledger
		WHERE owner_id = ? ORDER BY created_at DESC, id DESC LIMIT ?`
)
