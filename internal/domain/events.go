package domain

// Event type constants used across the application for event bus subscriptions
// and metrics tracking.
//
// Event types follow the pattern: <entity>.<action> (e.g., "creature.spawned")
const (
	// EventTypeConsumablePlaced is published when an owner places a seed on a field cell
	EventTypeConsumablePlaced = "consumable.placed"

	// EventTypeConsumableHarvested is published when an expired or exhausted consumable is harvested
	EventTypeConsumableHarvested = "consumable.harvested"

	// EventTypeCreatureSpawned is published by the spawn sweep for every new wild creature
	EventTypeCreatureSpawned = "creature.spawned"

	// EventTypeCreatureCollected is published when a wild creature moves into inventory
	EventTypeCreatureCollected = "creature.collected"

	// EventTypeCreatureExhibited is published when an owner puts a creature on display
	EventTypeCreatureExhibited = "creature.exhibited"

	// EventTypeCreatureLiked is published when a like discount is registered
	EventTypeCreatureLiked = "creature.liked"

	// EventTypeCreatureMatured is published once when an exhibited creature becomes sellable
	EventTypeCreatureMatured = "creature.matured"

	// EventTypeCreatureSold is published when a matured creature is sold
	EventTypeCreatureSold = "creature.sold"

	// EventTypeCreaturesDespawned is published by the despawn sweep when wild creatures time out
	EventTypeCreaturesDespawned = "creature.despawned"

	// EventTypeIncomeCredited is published when the income sweep pays an owner
	EventTypeIncomeCredited = "income.credited"

	// EventTypeSweepCompleted is published after every sweep run
	EventTypeSweepCompleted = "sweep.completed"
)
