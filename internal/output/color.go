package output

import (
	"fmt"
	"strings"

	"github.com/mattn/go-isatty"
)

// ColorMode is the value of the --color flag.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// ParseColorMode accepts auto, always or never in any case. Empty means auto.
func ParseColorMode(s string) (ColorMode, error) {
	switch mode := ColorMode(strings.ToLower(strings.TrimSpace(s))); mode {
	case "":
		return ColorAuto, nil
	case ColorAuto, ColorAlways, ColorNever:
		return mode, nil
	default:
		return ColorAuto, fmt.Errorf("invalid color mode %q (want auto, always or never)", s)
	}
}

// Enabled reports whether styling should be used for a stream that is or is
// not a terminal.
func (m ColorMode) Enabled(isTTY bool) bool {
	switch m {
	case ColorNever:
		return false
	case ColorAlways:
		return true
	default:
		return isTTY
	}
}

// ResolveColorMode applies a raw --color value to isTTY. Unknown values
// behave like auto.
func ResolveColorMode(colorMode string, isTTY bool) bool {
	mode, _ := ParseColorMode(colorMode)
	return mode.Enabled(isTTY)
}

// fder is implemented by *os.File.
type fder interface {
	Fd() uintptr
}

// IsTTY reports whether stream is a terminal. Anything that is not backed by
// a file descriptor (buffers, pipes wrapped in readers) is not.
func IsTTY(stream any) bool {
	f, ok := stream.(fder)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
