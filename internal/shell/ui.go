package shell

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"pdfqa/internal/services"
)

const ruleWidth = 60

// UI owns terminal presentation: banners on out, spinners and progress bars
// on errOut when errOut is a terminal.
type UI struct {
	out    io.Writer
	errOut io.Writer
	tty    bool
	title  *color.Color
	warn   *color.Color
}

// NewUI disables color when noColor is set or out is not a terminal.
func NewUI(out, errOut io.Writer, noColor bool) *UI {
	u := &UI{
		out:    out,
		errOut: errOut,
		tty:    isTerminal(errOut),
		title:  color.New(color.FgCyan, color.Bold),
		warn:   color.New(color.FgYellow),
	}
	if noColor || !isTerminal(out) {
		u.title.DisableColor()
		u.warn.DisableColor()
	}
	return u
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Out is the writer for regular program output.
func (u *UI) Out() io.Writer { return u.out }

func (u *UI) Println(a ...any) {
	fmt.Fprintln(u.out, a...)
}

func (u *UI) Printf(format string, a ...any) {
	fmt.Fprintf(u.out, format, a...)
}

// Banner prints title between two rules, preceded by a blank line.
func (u *UI) Banner(title string) {
	rule := strings.Repeat("=", ruleWidth)
	fmt.Fprintf(u.out, "\n%s\n%s\n%s\n", rule, u.title.Sprint(title), rule)
}

func (u *UI) Rule() {
	fmt.Fprintln(u.out, strings.Repeat("-", ruleWidth))
}

// Notice prints a highlighted one-line message.
func (u *UI) Notice(msg string) {
	fmt.Fprintln(u.out, u.warn.Sprint(msg))
}

// Busy shows a spinner with msg until the returned func is called. Without a
// terminal it prints nothing.
func (u *UI) Busy(msg string) (stop func()) {
	if !u.tty {
		return func() {}
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + msg
	s.Writer = u.errOut
	s.Start()
	return s.Stop
}

// Progress returns a per-page progress callback. On a terminal it drives a
// progress bar; otherwise it prints one line per page.
func (u *UI) Progress() services.ProgressFunc {
	var bar *progressbar.ProgressBar
	return func(done, total int) {
		if !u.tty {
			if done < total {
				fmt.Fprintf(u.out, "Processing page %d/%d...\n", done+1, total)
			}
			return
		}
		if total == 0 {
			return
		}
		if done == 0 || bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetWriter(u.errOut),
				progressbar.OptionSetDescription("Extracting pages"),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "█",
					SaucerHead:    "█",
					SaucerPadding: "░",
					BarStart:      "│",
					BarEnd:        "│",
				}),
				progressbar.OptionOnCompletion(func() {
					fmt.Fprint(u.errOut, "\n")
				}),
				progressbar.OptionSetRenderBlankState(true),
			)
		}
		_ = bar.Set(done)
	}
}
