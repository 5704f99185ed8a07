package landcover

import (
	"image"

	"github.com/landcover-microservice/internal/domain"
)

// Summarize splits the mask area into a cols x rows grid and counts class
// pixels per cell. The last column and row absorb the division remainder.
func Summarize(masks Masks, cols, rows int) ([]domain.TileSummary, error) {
	if cols <= 0 || rows <= 0 {
		return nil, validationError("tile grid must be positive, got %dx%d", cols, rows)
	}
	trees, ok := masks[domain.ClassTrees]
	if !ok || trees == nil {
		return nil, validationError("trees mask is required")
	}
	w, h := trees.Width, trees.Height
	for name, m := range masks {
		if m != nil && !m.SameShape(trees) {
			return nil, validationError("mask %q shape differs from trees", name)
		}
	}
	if cols > w || rows > h {
		return nil, validationError("tile grid %dx%d exceeds image %dx%d", cols, rows, w, h)
	}

	tw, th := w/cols, h/rows
	out := make([]domain.TileSummary, 0, cols*rows)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			x1, y1 := (c+1)*tw, (r+1)*th
			if c == cols-1 {
				x1 = w
			}
			if r == rows-1 {
				y1 = h
			}
			bounds := image.Rect(c*tw, r*th, x1, y1)
			out = append(out, domain.TileSummary{
				Col:          c,
				Row:          r,
				Bounds:       bounds,
				TreesPixels:  trees.CountIn(bounds),
				FieldsPixels: masks[domain.ClassFields].CountIn(bounds),
				RoadsPixels:  masks[domain.ClassRoads].CountIn(bounds),
			})
		}
	}
	return out, nil
}
