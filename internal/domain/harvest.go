package domain

// CollectResult is returned when a wild creature is collected into inventory
type CollectResult struct {
	CreatureID int64  `json:"creature_id"`
	AssetID    int64  `json:"asset_id"`
	Rarity     Rarity `json:"rarity"`
	Quantity   int    `json:"quantity"`
}

// HarvestResult is returned when an expired or exhausted consumable is harvested
type HarvestResult struct {
	ConsumableID   int64  `json:"consumable_id"`
	SourceRarity   Rarity `json:"source_rarity"`
	RewardRarity   Rarity `json:"reward_rarity"`
	RewardAssetID  int64  `json:"reward_asset_id"`
	RewardQuantity int    `json:"reward_quantity"`
	SpawnCount     int    `json:"spawn_count"`
}
