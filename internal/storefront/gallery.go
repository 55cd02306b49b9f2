package storefront

// Gallery tracks the selected image of a product.
type Gallery struct {
	images []string
	index  int
}

// NewGallery selects the first image.
func NewGallery(images []string) *Gallery {
	return &Gallery{images: append([]string(nil), images...)}
}

// Len returns the number of images.
func (g *Gallery) Len() int { return len(g.images) }

// Index returns the selected position.
func (g *Gallery) Index() int { return g.index }

// Current returns the selected image, or "" when there are none.
func (g *Gallery) Current() string {
	if len(g.images) == 0 {
		return ""
	}
	return g.images[g.index]
}

// Select moves to image i. Out-of-range indexes are ignored.
func (g *Gallery) Select(i int) bool {
	if i < 0 || i >= len(g.images) {
		return false
	}
	g.index = i
	return true
}

// Next advances, wrapping to the first image.
func (g *Gallery) Next() {
	if len(g.images) == 0 {
		return
	}
	g.index = (g.index + 1) % len(g.images)
}

// Prev steps back, wrapping to the last image.
func (g *Gallery) Prev() {
	if len(g.images) == 0 {
		return
	}
	g.index = (g.index - 1 + len(g.images)) % len(g.images)
}
