// Package detail holds the state of one product detail view: the image
// carousel, the quantity selector and the checkout dispatch. One instance
// of each is created per viewed product and discarded with the view; all
// mutations happen on the request goroutine that owns them.
package detail

import "math"

// Direction records which way the carousel last moved. It only selects the
// slide-in animation variant in the rendered page and never affects which
// image is shown.
type Direction int

const (
	Backward Direction = -1
	Forward  Direction = 1
)

// Gallery is the carousel state: an ordered, non-empty image list plus the
// index of the displayed image.
type Gallery struct {
	images    []string
	index     int
	direction Direction
}

// NewGallery builds the image list for a product: the resolved primary
// image first, then the gallery images in order. resolve maps a stored
// reference to a display URL and yields a placeholder for an empty primary
// reference, so the list always has at least one entry.
func NewGallery(primary string, galleries []string, resolve func(string) string) *Gallery {
	imgs := make([]string, 0, len(galleries)+1)
	imgs = append(imgs, resolve(primary))
	for _, g := range galleries {
		imgs = append(imgs, resolve(g))
	}
	return &Gallery{images: imgs, direction: Forward}
}

func (g *Gallery) Len() int             { return len(g.images) }
func (g *Gallery) Index() int           { return g.index }
func (g *Gallery) Direction() Direction { return g.direction }
func (g *Gallery) Current() string      { return g.images[g.index] }

// Images returns the full carousel list for thumbnail rendering.
func (g *Gallery) Images() []string { return g.images }

// Paginate steps the carousel by the sign of delta, wrapping at both ends:
// stepping back from the first image lands on the last, stepping forward
// from the last lands on the first. With a single image it is a no-op that
// stays at index 0.
func (g *Gallery) Paginate(delta int) {
	step := 1
	g.direction = Forward
	if delta < 0 {
		step = -1
		g.direction = Backward
	}
	n := len(g.images)
	g.index = ((g.index+step)%n + n) % n
}

// JumpTo selects an image directly (thumbnail click). The direction flag is
// forward when moving to a higher index, backward otherwise. Out-of-range
// indices are clamped; the thumbnails only ever produce valid ones.
func (g *Gallery) JumpTo(index int) {
	if index < 0 {
		index = 0
	}
	if index >= len(g.images) {
		index = len(g.images) - 1
	}
	if index > g.index {
		g.direction = Forward
	} else {
		g.direction = Backward
	}
	g.index = index
}

// swipeThreshold is the decisiveness a drag release needs before it counts
// as a page turn, in px·px/s of offset-weighted velocity.
const swipeThreshold = 10000

// SwipeDelta interprets a horizontal drag release as a pagination step:
// +1 for next, -1 for previous, 0 to snap back. offset is the signed drag
// distance, velocity the signed release speed; weighting one by the other
// makes a slow long drag and a quick short flick equivalent.
func SwipeDelta(offset, velocity float64) int {
	power := math.Abs(offset) * velocity
	switch {
	case power < -swipeThreshold:
		return 1
	case power > swipeThreshold:
		return -1
	}
	return 0
}
