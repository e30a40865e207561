package logx

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[97;42m"
	colorYellow = "\033[90;43m"
	colorRed    = "\033[97;41m"
	colorBlue   = "\033[97;44m"
)

// ColorizeStatusWith renders status, wrapped in an ANSI colour block when
// color is set.
func ColorizeStatusWith(status int, color bool) string {
	s := fmt.Sprintf("%d", status)
	if !color {
		return s
	}
	var c string
	switch {
	case status >= 500:
		c = colorRed
	case status >= 400:
		c = colorYellow
	case status >= 300:
		c = colorBlue
	default:
		c = colorGreen
	}
	return c + " " + s + " " + colorReset
}

// IsTerminal reports whether w is an interactive terminal. NO_COLOR disables
// colour regardless.
func IsTerminal(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
