package ui

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the width below which info cards stack and the
	// header drops its tagline.
	LayoutCompactWidth = 72

	// MaxContentWidth caps the result column on wide terminals.
	MaxContentWidth = 96

	// MinContentWidth keeps cards renderable on tiny terminals.
	MinContentWidth = 24
)

// chromeHeight is the number of rows outside the result viewport: header,
// input box (3), hint line, notice line and footer.
const chromeHeight = 7
