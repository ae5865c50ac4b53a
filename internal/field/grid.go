package field

// Grid is a fixed-width field. Cells are indexed row-major from 0.
type Grid struct {
	Width  int
	Height int
}

// Size returns the number of cells
func (g Grid) Size() int {
	return g.Width * g.Height
}

// Contains reports whether index is a cell of the grid
func (g Grid) Contains(index int) bool {
	return index >= 0 && index < g.Size()
}

// Neighbors returns the Moore neighbourhood of index clipped to the grid.
// The origin itself is not included.
func (g Grid) Neighbors(index int) []int {
	if !g.Contains(index) {
		return nil
	}
	row, col := index/g.Width, index%g.Width
	out := make([]int, 0, 8)
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			r, c := row+dr, col+dc
			if r < 0 || r >= g.Height || c < 0 || c >= g.Width {
				continue
			}
			out = append(out, r*g.Width+c)
		}
	}
	return out
}
