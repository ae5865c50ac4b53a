package postgres

// PostgreSQL Error Codes
const (
	// PgErrorCodeUniqueViolation is the PostgreSQL error code for unique constraint violations
	PgErrorCodeUniqueViolation = "23505"
)

// ownerLockScope namespaces the advisory lock key of an owner's field
const ownerLockScope = ":field"

// Error Messages - Transaction Operations
const (
	ErrMsgFailedToBeginTransaction = "failed to begin transaction"
	ErrMsgFailedToCommit           = "failed to commit transaction"
	ErrMsgFailedToLockOwner        = "failed to lock owner"
)

// Column lists shared by the scanners
const (
	consumableColumns = `id, owner_id::text, field_index, asset_id, rarity, placed_at, expires_at,
		next_spawn_at, spawn_count, max_spawns, exhausted`
	creatureColumns = `id, owner_id::text, location, slot, rarity, asset_id, source_consumable_id,
		placed_at, despawn_at, discount_ms, matured_at`
	stackColumns   = `owner_id::text, asset_id, rarity, quantity, updated_at`
	balanceColumns = `owner_id::text, balance, last_payout_at`
)

// Queries
const (
	queryLockOwner = `SELECT pg_advisory_xact_lock(hashtextextended($1::text || $2::text, 0))`

	queryConsumableCells    = `SELECT field_index FROM consumables WHERE owner_id = $1`
	queryFieldCreatureCells = `SELECT slot FROM creatures WHERE owner_id = $1 AND location = 'field'`
	queryFixtureCells       = `SELECT field_index FROM field_fixtures WHERE owner_id = $1`

	queryUpsertStack = `
		INSERT INTO inventory_stacks (owner_id, asset_id, rarity, quantity, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (owner_id, asset_id)
		DO UPDATE SET quantity = inventory_stacks.quantity + EXCLUDED.quantity, updated_at = EXCLUDED.updated_at
		RETURNING quantity`
	queryConsumeStack = `
		UPDATE inventory_stacks SET quantity = quantity - $3, updated_at = $4
		WHERE owner_id = $1 AND asset_id = $2 AND quantity >= $3
		RETURNING quantity`
	queryGetInventory = `SELECT ` + stackColumns + ` FROM inventory_stacks
		WHERE owner_id = $1 AND quantity > 0 ORDER BY asset_id`

	queryListActiveConsumables = `SELECT ` + consumableColumns + ` FROM consumables
		WHERE NOT exhausted AND next_spawn_at <= $1 AND expires_at > $1 ORDER BY next_spawn_at, id`
	queryListConsumables = `SELECT ` + consumableColumns + ` FROM consumables
		WHERE owner_id = $1 ORDER BY field_index`
	queryGetConsumable   = `SELECT ` + consumableColumns + ` FROM consumables WHERE id = $1`
	queryGetConsumableAt = `SELECT ` + consumableColumns + ` FROM consumables
		WHERE owner_id = $1 AND field_index = $2`
	queryInsertConsumable = `
		INSERT INTO consumables (owner_id, field_index, asset_id, rarity, placed_at, expires_at,
			next_spawn_at, spawn_count, max_spawns, exhausted)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`
	queryDeleteConsumable = `DELETE FROM consumables WHERE id = $1`
	queryAdvanceSpawn     = `
		UPDATE consumables
		SET spawn_count = spawn_count + 1,
			next_spawn_at = $3,
			exhausted = (spawn_count + 1 >= max_spawns)
		WHERE id = $1 AND spawn_count = $2 AND spawn_count < max_spawns AND NOT exhausted
			AND next_spawn_at < $3`
	queryForceExhaust = `UPDATE consumables SET exhausted = TRUE WHERE id = $1`

	queryGetCreature   = `SELECT ` + creatureColumns + ` FROM creatures WHERE id = $1`
	queryGetCreatureAt = `SELECT ` + creatureColumns + ` FROM creatures
		WHERE owner_id = $1 AND location = 'field' AND slot = $2`
	queryListCreatures = `SELECT ` + creatureColumns + ` FROM creatures
		WHERE owner_id = $1 AND location = $2 ORDER BY slot`
	queryExhibitSlotTaken = `SELECT EXISTS (SELECT 1 FROM creatures
		WHERE owner_id = $1 AND location = 'exhibit' AND slot = $2)`
	queryInsertCreature = `
		INSERT INTO creatures (owner_id, location, slot, rarity, asset_id, source_consumable_id,
			placed_at, despawn_at, discount_ms, matured_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`
	queryDeleteCreature = `DELETE FROM creatures WHERE id = $1`
	queryMarkMatured    = `UPDATE creatures SET matured_at = $2 WHERE id = $1 AND matured_at IS NULL`
	queryDespawnExpired = `DELETE FROM creatures
		WHERE location = 'field' AND despawn_at IS NOT NULL AND despawn_at <= $1`
	queryInsertLike = `
		INSERT INTO creature_likes (creature_id, liker_id, liked_at) VALUES ($1, $2, $3)
		ON CONFLICT (creature_id, liker_id) DO NOTHING`
	queryAddDiscount = `UPDATE creatures SET discount_ms = discount_ms + $2 WHERE id = $1 RETURNING discount_ms`

	queryInsertFixture = `
		INSERT INTO field_fixtures (owner_id, field_index, kind, placed_at) VALUES ($1, $2, $3, $4)
		RETURNING id`
	queryDeleteFixtureAt = `DELETE FROM field_fixtures WHERE owner_id = $1 AND field_index = $2`

	queryEnsureBalance = `
		INSERT INTO owner_balances (owner_id, balance, last_payout_at) VALUES ($1, 0, $2)
		ON CONFLICT (owner_id) DO NOTHING`
	queryGetBalance    = `SELECT ` + balanceColumns + ` FROM owner_balances WHERE owner_id = $1`
	queryListBalances  = `SELECT ` + balanceColumns + ` FROM owner_balances ORDER BY owner_id`
	queryAdvancePayout = `
		UPDATE owner_balances SET balance = balance + $4, last_payout_at = $3
		WHERE owner_id = $1 AND last_payout_at = $2`
	queryCreditBalance = `UPDATE owner_balances SET balance = balance + $2 WHERE owner_id = $1 RETURNING balance`
	queryInsertLedger  = `
		INSERT INTO economy_ledger (owner_id, amount, source_type, created_at) VALUES ($1, $2, $3, $4)
		RETURNING id`
	queryListLedger = `SELECT id, owner_id::text, amount, source_type, created_at FROM economy_ledger
		WHERE owner_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2`
)
