package cli

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// palette colorizes CLI output when writing to a terminal. Redirected
// output and --no-color get plain text.
type palette struct {
	enabled bool
}

func newPalette(w io.Writer, noColor bool) palette {
	if noColor {
		return palette{}
	}
	f, ok := w.(*os.File)
	if !ok {
		return palette{}
	}
	return palette{enabled: isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())}
}

func (p palette) wrap(code, s string) string {
	if !p.enabled {
		return s
	}
	return "\x1b[" + code + "m" + s + "\x1b[0m"
}

func (p palette) red(s string) string   { return p.wrap("31", s) }
func (p palette) green(s string) string { return p.wrap("32", s) }
func (p palette) cyan(s string) string  { return p.wrap("36", s) }
