package ui

import "time"

// Screen rows taken by chrome around the grid: page header, column
// header and footer.
const (
	headerLines = 1
	columnLines = 1
	footerLines = 1
	chromeLines = headerLines + columnLines + footerLines
)

// Column widths are stored in pixel-like units; one terminal cell spans
// this many.
const widthUnit = 10

// resizeStep is the width change of one + or - press in the column panel.
const resizeStep = 10

// Timing constants.
const (
	// DefaultUIInterval is the default snapshot refresh interval.
	DefaultUIInterval = time.Second

	// ToastDuration is how long a toast stays in the footer.
	ToastDuration = 3 * time.Second

	// CommitTimeout bounds one row update.
	CommitTimeout = 10 * time.Second
)

// cellWidth converts a stored column width to terminal cells.
func cellWidth(width int) int {
	return max(3, width/widthUnit)
}
