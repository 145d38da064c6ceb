package client

// ItemsPerPage returns how many carousel cards fit at a given viewport
// width in pixels.
func ItemsPerPage(width int) int {
	switch {
	case width < 480:
		return 1
	case width < 768:
		return 2
	case width < 1280:
		return 3
	default:
		return 4
	}
}

// Carousel pages through a slice of items, re-bucketing when the viewport
// width changes.
type Carousel[T any] struct {
	items []T
	width int
	page  int
}

func NewCarousel[T any](items []T, width int) *Carousel[T] {
	return &Carousel[T]{items: items, width: width}
}

// Resize updates the viewport width and clamps the current page so it
// stays in range under the new bucket size.
func (c *Carousel[T]) Resize(width int) {
	c.width = width
	if last := c.PageCount() - 1; c.page > last {
		c.page = last
	}
}

func (c *Carousel[T]) PageCount() int {
	per := ItemsPerPage(c.width)
	if len(c.items) == 0 {
		return 1
	}
	return (len(c.items) + per - 1) / per
}

func (c *Carousel[T]) Page() int {
	return c.page
}

// Visible returns the items on the current page.
func (c *Carousel[T]) Visible() []T {
	per := ItemsPerPage(c.width)
	start := c.page * per
	if start >= len(c.items) {
		return nil
	}
	end := start + per
	if end > len(c.items) {
		end = len(c.items)
	}
	return c.items[start:end]
}

func (c *Carousel[T]) Next() {
	if c.page < c.PageCount()-1 {
		c.page++
	}
}

func (c *Carousel[T]) Prev() {
	if c.page > 0 {
		c.page--
	}
}
