package spawn

// Log messages
const (
	LogMsgInvariantRepaired = "Consumable exceeded its spawn budget, force-exhausted"
	LogMsgNoFreeCell        = "No free neighbour cell, spawn deferred"
	LogMsgSpawnCASLost      = "Consumable changed concurrently, spawn rolled back"
	LogMsgPublishFailed     = "Failed to publish spawn event"
)

// Store operation names for transient errors
const (
	opBegin          = "begin"
	opLockOwner      = "lock owner"
	opGetConsumable  = "get consumable"
	opPickCell       = "pick spawn cell"
	opInsertCreature = "insert creature"
	opAdvanceSpawn   = "advance spawn"
	opForceExhaust   = "force exhaust"
	opCommit         = "commit"
	opListActive     = "list active consumables"
)
