package domain

// Rarity is the ordinal of a rarity tier. Lower ordinals are more common.
type Rarity int

// AssetKind tells which family an asset id belongs to
type AssetKind string

const (
	AssetKindUnknown  AssetKind = "unknown"
	AssetKindCreature AssetKind = "creature"
	AssetKindSeed     AssetKind = "seed"
)

// IDRange is an inclusive range of asset ids
type IDRange struct {
	Min int64 `json:"min" yaml:"min"`
	Max int64 `json:"max" yaml:"max"`
}

// Contains reports whether id falls inside the range
func (r IDRange) Contains(id int64) bool {
	return id >= r.Min && id <= r.Max
}

// Size returns the number of ids covered by the range
func (r IDRange) Size() int64 {
	if r.Max < r.Min {
		return 0
	}
	return r.Max - r.Min + 1
}

// Overlaps reports whether two ranges share at least one id
func (r IDRange) Overlaps(o IDRange) bool {
	return r.Min <= o.Max && o.Min <= r.Max
}
