package domain

import (
	"encoding/json"
	"time"
)

// LedgerSource identifies why balance was credited
type LedgerSource string

const (
	LedgerSourceIncome LedgerSource = "income"
	LedgerSourceSale   LedgerSource = "sale"
)

// LedgerEntry is an append-only audit record of a balance credit
type LedgerEntry struct {
	ID         int64        `json:"id"`
	OwnerID    string       `json:"owner_id"`
	Amount     int64        `json:"amount"`
	SourceType LedgerSource `json:"source_type"`
	Timestamp  time.Time    `json:"timestamp"`
}

// OwnerBalance holds an owner's balance and the income anchor.
// LastPayoutAt only moves forward, by whole minutes, through compare-and-set.
type OwnerBalance struct {
	OwnerID      string    `json:"owner_id"`
	Balance      int64     `json:"balance"`
	LastPayoutAt time.Time `json:"last_payout_at"`
}

// SellStatus describes whether an exhibited creature has matured.
// Remaining is encoded as whole milliseconds under "remaining_ms".
type SellStatus struct {
	CreatureID int64         `json:"creature_id"`
	CanSell    bool          `json:"can_sell"`
	Remaining  time.Duration `json:"-"`
}

type sellStatusJSON struct {
	CreatureID  int64 `json:"creature_id"`
	CanSell     bool  `json:"can_sell"`
	RemainingMs int64 `json:"remaining_ms"`
}

// MarshalJSON implements json.Marshaler
func (s SellStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(sellStatusJSON{
		CreatureID:  s.CreatureID,
		CanSell:     s.CanSell,
		RemainingMs: s.Remaining.Milliseconds(),
	})
}

// UnmarshalJSON implements json.Unmarshaler
func (s *SellStatus) UnmarshalJSON(data []byte) error {
	var raw sellStatusJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = SellStatus{
		CreatureID: raw.CreatureID,
		CanSell:    raw.CanSell,
		Remaining:  time.Duration(raw.RemainingMs) * time.Millisecond,
	}
	return nil
}

// SaleResult is returned after selling a matured creature
type SaleResult struct {
	CreatureID int64 `json:"creature_id"`
	Amount     int64 `json:"amount"`
	Balance    int64 `json:"balance"`
}

// EconomySummary is an owner's current income rate and balance
type EconomySummary struct {
	OwnerID    string  `json:"owner_id"`
	HourlyRate float64 `json:"hourly_rate"`
	Balance    int64   `json:"balance"`
	Exhibited  int     `json:"exhibited"`
}
