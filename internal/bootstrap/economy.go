package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/osse101/Critterfield_Go/internal/config"
	"github.com/osse101/Critterfield_Go/internal/rarity"
	"github.com/osse101/Critterfield_Go/internal/utils"
)

// LoadEconomy reads the economy tuning, builds the rarity table from it and logs
// the resulting tiers so a bad deploy is visible at startup.
func LoadEconomy(cfg *config.Config, rng *utils.Rand) (*config.Economy, *rarity.Table, error) {
	econ, err := config.LoadEconomy(cfg.EconomyPath)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", ErrMsgFailedLoadEconomy, err)
	}

	table, err := rarity.NewTable(econ, rng)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", ErrMsgFailedBuildTable, err)
	}

	slog.Info(LogMsgEconomyLoaded,
		"path", cfg.EconomyPath,
		"tiers", len(econ.Tiers),
		"grid", fmt.Sprintf("%dx%d", econ.Grid.Width, econ.Grid.Height),
		"exhibit_slots", econ.ExhibitSlots,
		"decay_window", econ.DecayWindow())
	for _, tier := range table.Tiers() {
		slog.Debug(LogMsgTierLoaded,
			"name", tier.Name,
			"weight", tier.Weight,
			"creature_ids", fmt.Sprintf("%d-%d", tier.CreatureIDs.Min, tier.CreatureIDs.Max),
			"seed_ids", fmt.Sprintf("%d-%d", tier.SeedIDs.Min, tier.SeedIDs.Max),
			"maturation_window", tier.MaturationWindow)
	}

	return econ, table, nil
}
