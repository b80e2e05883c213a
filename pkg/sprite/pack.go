package sprite

import (
	"image"
	"image/draw"
	"sort"

	"github.com/tilegarden/spritepack/pkg/errors"
)

// DefaultMaxCanvas is the growth bound for either composite dimension.
// A safety valve against pathological inputs, not an expected path: both
// tiers of a realistic icon set pack into a small fraction of this.
const DefaultMaxCanvas = 16384

// Placement is the packer's assigned rectangle for one normalized image
// within the composite canvas.
type Placement struct {
	Name   string
	X      int
	Y      int
	Width  int
	Height int
}

// Packer packs normalized images into a single composite canvas using a
// guillotine free-rectangle heuristic with grow-on-demand canvas sizing.
//
// The free area is kept as a flat arena of rectangles referenced by index.
// Each placement consumes one free rectangle and splits the remainder into
// at most two new ones; when nothing fits, the canvas doubles along its
// smaller dimension and the new strip joins the arena. All choices are
// deterministic: packing the same input set twice yields identical
// placements.
type Packer struct {
	// MaxCanvas bounds either canvas dimension. Zero means DefaultMaxCanvas.
	MaxCanvas int
}

// freeRect is one free region of the canvas, eligible to receive an image.
type freeRect struct {
	x, y, w, h int
}

// Pack places every image into a composite canvas with no overlap and
// renders the composite. Images are packed in descending height order (ties
// by descending width, then name) so tall icons anchor the layout. Returns
// PACKING_OVERFLOW if the canvas would have to grow beyond MaxCanvas.
func (p *Packer) Pack(images []Normalized) (*image.NRGBA, []Placement, error) {
	if len(images) == 0 {
		return nil, nil, errors.New(errors.ErrCodeInternal, "pack called with no images")
	}
	maxCanvas := p.MaxCanvas
	if maxCanvas <= 0 {
		maxCanvas = DefaultMaxCanvas
	}

	order := make([]Normalized, len(images))
	copy(order, images)
	sort.SliceStable(order, func(i, j int) bool {
		hi, hj := order[i].Image.Bounds().Dy(), order[j].Image.Bounds().Dy()
		if hi != hj {
			return hi > hj
		}
		wi, wj := order[i].Image.Bounds().Dx(), order[j].Image.Bounds().Dx()
		if wi != wj {
			return wi > wj
		}
		return order[i].Name < order[j].Name
	})

	first := order[0].Image.Bounds()
	canvasW, canvasH := first.Dx(), first.Dy()
	if canvasW > maxCanvas || canvasH > maxCanvas {
		return nil, nil, errors.New(errors.ErrCodePackingOverflow,
			"image %s (%dx%d) exceeds the canvas bound %d", order[0].Name, canvasW, canvasH, maxCanvas)
	}
	free := []freeRect{{0, 0, canvasW, canvasH}}

	placements := make([]Placement, 0, len(order))
	for _, img := range order {
		w, h := img.Image.Bounds().Dx(), img.Image.Bounds().Dy()

		idx := bestFit(free, w, h)
		for idx < 0 {
			var err error
			canvasW, canvasH, free, err = grow(canvasW, canvasH, w, h, free, maxCanvas)
			if err != nil {
				return nil, nil, errors.Wrap(errors.ErrCodePackingOverflow, err,
					"packing %d images overflows the %dpx canvas bound", len(order), maxCanvas)
			}
			idx = bestFit(free, w, h)
		}

		node := free[idx]
		placements = append(placements, Placement{Name: img.Name, X: node.x, Y: node.y, Width: w, Height: h})
		free = split(free, idx, w, h)
	}

	return render(order, placements), placements, nil
}

// bestFit returns the index of the free rectangle that fits a w×h image
// with the least leftover area, or -1 if none fits. Ties prefer the
// topmost, then leftmost rectangle so the choice never depends on arena
// insertion order.
func bestFit(free []freeRect, w, h int) int {
	best := -1
	bestWaste := 0
	for i, fr := range free {
		if fr.w < w || fr.h < h {
			continue
		}
		waste := fr.w*fr.h - w*h
		if best < 0 || waste < bestWaste ||
			(waste == bestWaste && (fr.y < free[best].y || (fr.y == free[best].y && fr.x < free[best].x))) {
			best = i
			bestWaste = waste
		}
	}
	return best
}

// split consumes free[idx] for a w×h placement at its origin and returns the
// arena with the remainder re-added as up to two rectangles. The guillotine
// cut runs along the axis with the smaller leftover, which keeps the larger
// remainder in one piece.
func split(free []freeRect, idx int, w, h int) []freeRect {
	node := free[idx]
	free = append(free[:idx], free[idx+1:]...)

	rw, rh := node.w-w, node.h-h
	var right, down freeRect
	if rw <= rh {
		// Horizontal cut: the bottom remainder keeps the full width.
		right = freeRect{node.x + w, node.y, rw, h}
		down = freeRect{node.x, node.y + h, node.w, rh}
	} else {
		// Vertical cut: the right remainder keeps the full height.
		right = freeRect{node.x + w, node.y, rw, node.h}
		down = freeRect{node.x, node.y + h, w, rh}
	}
	if right.w > 0 && right.h > 0 {
		free = append(free, right)
	}
	if down.w > 0 && down.h > 0 {
		free = append(free, down)
	}
	return free
}

// grow extends the canvas so a w×h image can eventually fit, doubling the
// smaller dimension (at least far enough for the image) and adding the new
// strip to the free arena. Alternating which dimension grows keeps the
// composite roughly square.
func grow(canvasW, canvasH, w, h int, free []freeRect, maxCanvas int) (int, int, []freeRect, error) {
	growWidth := canvasW <= canvasH
	// The preferred dimension may already be at the bound; fall back to the
	// other before declaring overflow.
	if growWidth && canvasW >= maxCanvas {
		growWidth = false
	} else if !growWidth && canvasH >= maxCanvas {
		growWidth = true
	}

	if growWidth {
		if canvasW >= maxCanvas {
			return 0, 0, nil, errors.New(errors.ErrCodePackingOverflow, "canvas width limit %d reached", maxCanvas)
		}
		newW := min(max(canvasW*2, canvasW+w), maxCanvas)
		free = append(free, freeRect{canvasW, 0, newW - canvasW, canvasH})
		return newW, canvasH, free, nil
	}

	if canvasH >= maxCanvas {
		return 0, 0, nil, errors.New(errors.ErrCodePackingOverflow, "canvas height limit %d reached", maxCanvas)
	}
	newH := min(max(canvasH*2, canvasH+h), maxCanvas)
	free = append(free, freeRect{0, canvasH, canvasW, newH - canvasH})
	return canvasW, newH, free, nil
}

// render blits every packed image onto a transparent composite trimmed to
// the bounding box of the placements. Source pixels overwrite destination
// (draw.Src): no blending, the canvas below is transparent anyway.
func render(order []Normalized, placements []Placement) *image.NRGBA {
	var width, height int
	for _, pl := range placements {
		width = max(width, pl.X+pl.Width)
		height = max(height, pl.Y+pl.Height)
	}

	composite := image.NewNRGBA(image.Rect(0, 0, width, height))
	for i, pl := range placements {
		rect := image.Rect(pl.X, pl.Y, pl.X+pl.Width, pl.Y+pl.Height)
		draw.Draw(composite, rect, order[i].Image, order[i].Image.Bounds().Min, draw.Src)
	}
	return composite
}
