package domain

import "time"

// InventoryStack is the aggregated quantity of one asset held by one owner.
// There is at most one stack per (OwnerID, AssetID).
type InventoryStack struct {
	OwnerID   string    `json:"owner_id"`
	AssetID   int64     `json:"asset_id"`
	Rarity    Rarity    `json:"rarity"`
	Quantity  int       `json:"quantity"`
	UpdatedAt time.Time `json:"updated_at"`
}
