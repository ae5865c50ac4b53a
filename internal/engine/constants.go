package engine

import "time"

// Like cache defaults
const (
	DefaultLikeCacheSize = 4096
	DefaultLikeCacheTTL  = 30 * time.Minute

	// LikeCacheSchemaVersion is bumped when the cached like key format changes
	LikeCacheSchemaVersion = "1"
)

// Log messages
const (
	LogMsgPublishFailed     = "Failed to publish economy event"
	LogMsgConsumablePlaced  = "Consumable placed"
	LogMsgCreatureCollected = "Creature collected"
	LogMsgHarvested         = "Consumable harvested"
	LogMsgCreatureExhibited = "Creature exhibited"
	LogMsgCreatureSold      = "Creature sold"
	LogMsgAssetGranted      = "Asset granted"
)

// Store operation names for wrapped errors
const (
	opBegin  = "begin"
	opLock   = "lock owner"
	opCommit = "commit"
)
