package report

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/erraggy/refitgen/internal/cliutil"
	"github.com/erraggy/refitgen/rgerrors"
	"github.com/erraggy/refitgen/settings"
	"github.com/erraggy/refitgen/spec"
)

// Console renders events for a terminal. Colors are only emitted when the
// writer is a terminal that supports them.
type Console struct {
	out        io.Writer
	errOut     io.Writer
	banner     bool
	supportKey string
	styles     consoleStyles
	errStyles  consoleStyles
}

var _ Sink = (*Console)(nil)

type consoleStyles struct {
	title lipgloss.Style
	ok    lipgloss.Style
	warn  lipgloss.Style
	fail  lipgloss.Style
	dim   lipgloss.Style
	box   lipgloss.Style
}

func newStyles(w io.Writer) consoleStyles {
	r := lipgloss.NewRenderer(w)
	return consoleStyles{
		title: r.NewStyle().Bold(true),
		ok:    r.NewStyle().Foreground(lipgloss.Color("10")),
		warn:  r.NewStyle().Foreground(lipgloss.Color("11")),
		fail:  r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		dim:   r.NewStyle().Faint(true),
		box:   r.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
	}
}

// ConsoleOption configures a Console.
type ConsoleOption func(*Console)

// WithBanner toggles the closing banner of a successful run.
func WithBanner(enabled bool) ConsoleOption {
	return func(c *Console) {
		c.banner = enabled
	}
}

// NewConsole creates a Console writing progress to out and failures to
// errOut.
func NewConsole(out, errOut io.Writer, opts ...ConsoleOption) *Console {
	c := &Console{
		out:       out,
		errOut:    errOut,
		banner:    true,
		styles:    newStyles(out),
		errStyles: newStyles(errOut),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Started prints the version and support key.
func (c *Console) Started(version, supportKey string) {
	c.supportKey = supportKey
	cliutil.Writef(c.out, "%s\n", c.styles.title.Render("refitgen v"+version))
	if supportKey == "" {
		cliutil.Writef(c.out, "Support key: unavailable when logging is disabled\n")
		return
	}
	cliutil.Writef(c.out, "Support key: %s\n", supportKey)
}

// Resolved implements Sink; settings are not printed.
func (c *Console) Resolved(settings.Settings) {}

// Validated prints the diagnostics and document statistics.
func (c *Console) Validated(vr *spec.ValidationResult) {
	if vr == nil {
		return
	}
	for _, w := range vr.Diagnostics.Warnings {
		cliutil.Writef(c.out, "%s %s\n", c.styles.warn.Render("warning:"), w.String())
	}
	for _, e := range vr.Diagnostics.Errors {
		cliutil.Writef(c.out, "%s %s\n", c.styles.fail.Render("error:"), e.String())
	}
	if vr.Valid {
		cliutil.Writef(c.out, "%s\n", c.styles.ok.Render("OpenAPI document is valid"))
	}
	if vr.Statistics.Version == "" {
		return
	}
	cliutil.Writef(c.out, "\nOpenAPI statistics:\n")
	for _, line := range strings.Split(strings.TrimRight(vr.Statistics.String(), "\n"), "\n") {
		cliutil.Writef(c.out, "  %s\n", line)
	}
	cliutil.Writef(c.out, "\n")
}

// Generated prints the size of the generated code.
func (c *Console) Generated(pass Pass, length int) {
	if pass == ContractsPass {
		cliutil.Writef(c.out, "Generated contracts: %d bytes\n", length)
		return
	}
	cliutil.Writef(c.out, "Generated output: %d bytes\n", length)
}

// Written prints the path of a written file.
func (c *Console) Written(pass Pass, path string, _ int) {
	if pass == ContractsPass {
		cliutil.Writef(c.out, "Contracts file: %s\n", path)
		return
	}
	cliutil.Writef(c.out, "Output file: %s\n", path)
}

// Completed prints the run duration and, when enabled, the banner.
func (c *Console) Completed(elapsed time.Duration) {
	cliutil.Writef(c.out, "%s %s\n", c.styles.ok.Render("Duration:"), elapsed.Round(time.Millisecond))
	if !c.banner {
		return
	}
	cliutil.Writef(c.out, "\n%s\n", c.styles.box.Render("Generated with refitgen\nRun 'refitgen --help' for every option"))
}

// Failed prints err to the error stream along with a recovery hint.
func (c *Console) Failed(err error, validationSkipped bool) {
	if err == nil {
		return
	}
	kind := rgerrors.KindOf(err)
	cliutil.Writef(c.errOut, "%s %s\n", c.errStyles.fail.Render("Error:"), err.Error())
	if kind == rgerrors.KindDocumentValidation {
		return
	}

	cliutil.Writef(c.errOut, "Kind: %s\n", kind)
	if trace := rgerrors.Trace(err); rgerrors.ShowsTrace(err) && len(trace) > 0 {
		cliutil.Writef(c.errOut, "%s\n", c.errStyles.dim.Render(strings.TrimRight(string(trace), "\n")))
	}
	if !validationSkipped && kind != rgerrors.KindConfiguration {
		cliutil.Writef(c.errOut, "\n%s\n", c.errStyles.warn.Render("Tip: re-run with --skip-validation to bypass OpenAPI validation."))
	}
	footer := "If the problem persists, consider reporting it"
	if c.supportKey != "" {
		footer += " and include support key " + c.supportKey
	}
	cliutil.Writef(c.errOut, "\n%s.\n", footer)
}
