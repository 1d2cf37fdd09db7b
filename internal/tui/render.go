package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/athena-uee/uee/internal/console"
)

// Frame carries the terminal size and the pre-rendered widgets for one draw.
type Frame struct {
	Width  int
	Height int

	Spinner  string
	Input    string
	Progress string
	// Help replaces the view's footer text when set.
	Help string
}

// chromeRows is header, separator, separator, footer.
const chromeRows = 4

// Render draws v into exactly f.Height lines, none wider than f.Width.
// Layout is recomputed on every call so a resize takes effect on the next
// frame.
func Render(v console.View, f Frame) string {
	if f.Width <= 0 || f.Height <= 0 {
		return ""
	}

	var lines []string
	if f.Height > chromeRows+1 {
		sep := SeparatorStyle.Render(strings.Repeat("─", f.Width))
		footer := v.Footer
		if f.Help != "" {
			footer = f.Help
		}
		bodyHeight := f.Height - chromeRows
		body := renderBody(v, f, bodyHeight)
		for len(body) < bodyHeight {
			body = append(body, "")
		}

		lines = append(lines, headerContent(f.Width), sep)
		lines = append(lines, body...)
		lines = append(lines, sep, " "+FooterStyle.Render(footer))
	} else {
		lines = renderBody(v, f, f.Height)
	}

	return clip(lines, f.Width, f.Height)
}

// clip truncates every line to width cells and the slice to height lines.
func clip(lines []string, width, height int) string {
	if len(lines) > height {
		lines = lines[:height]
	}
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = ansi.Truncate(l, width, "")
	}
	return strings.Join(out, "\n")
}

func renderBody(v console.View, f Frame, height int) []string {
	if height <= 0 {
		return nil
	}

	var top, bottom []string

	if v.ShowArt {
		top = append(top, renderArt(f.Width, height-len(v.Options)-1)...)
	}
	if v.Title != "" {
		top = append(top, lipgloss.PlaceHorizontal(f.Width, lipgloss.Center, TitleStyle.Render(v.Title)), "")
	}
	if v.Description != "" {
		top = append(top, "  "+SubtitleStyle.Render(v.Description), "")
	}
	if len(v.Fields) > 0 {
		for _, fd := range v.Fields {
			top = append(top, RenderField(fd.Label, fd.Value))
		}
		top = append(top, "")
	}

	if v.Prompt != "" {
		bottom = append(bottom, "", "  "+v.Prompt, "  "+f.Input)
	}
	if v.Screen == console.ScreenRunningScript {
		bottom = append(bottom, "")
		if v.ShowPasses {
			bottom = append(bottom, fmt.Sprintf("  Pass %d/%d  %s", passShown(v.Progress), v.Progress.Total, f.Progress))
		}
		bottom = append(bottom, "  "+runStatus(v, f.Spinner))
	}
	if v.Warning != "" {
		bottom = append(bottom, "", "  "+WarningStyle.Render(v.Warning))
	}

	// middle rows get what is left; the decoration above gives way first
	avail := height - len(top) - len(bottom)
	for avail < 1 && len(top) > 0 {
		top = top[1:]
		avail++
	}

	var middle []string
	switch {
	case len(v.Options) > 0:
		middle = renderOptions(v.Options, v.Selected, avail)
	case len(v.Lines) > 0:
		for _, l := range tail(v.Lines, avail) {
			middle = append(middle, "  "+OutputStyle.Render(l))
		}
	case v.EmptyLines != "":
		middle = []string{"  " + SubtitleStyle.Render(v.EmptyLines)}
	}

	lines := append(top, middle...)
	lines = append(lines, bottom...)
	if len(lines) > height {
		lines = lines[:height]
	}
	return lines
}

// renderArt picks the full banner, the compact one or nothing, by what fits.
func renderArt(width, height int) []string {
	for _, art := range []string{titleArt, compactArt} {
		rows := artLines(art)
		if artWidth(rows)+2 <= width && len(rows)+1 <= height {
			out := make([]string, 0, len(rows)+1)
			for _, r := range rows {
				out = append(out, " "+LogoStyle.Render(r))
			}
			return append(out, "")
		}
	}
	return nil
}

// renderOptions shows at most max rows, scrolled so the selection is visible.
func renderOptions(options []string, selected, max int) []string {
	if max <= 0 {
		return nil
	}
	start, end := 0, len(options)
	if len(options) > max {
		start = selected - max/2
		if start < 0 {
			start = 0
		}
		if start > len(options)-max {
			start = len(options) - max
		}
		end = start + max
	}
	out := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		out = append(out, RenderMenuItem(options[i], i == selected))
	}
	return out
}

func tail(lines []string, n int) []string {
	if n <= 0 {
		return nil
	}
	if len(lines) > n {
		return lines[len(lines)-n:]
	}
	return lines
}

func passShown(p console.PassProgress) int {
	if p.Current > 0 {
		return p.Current
	}
	return p.Completed
}

func runStatus(v console.View, spinner string) string {
	switch {
	case v.Running:
		return SpinnerStyle.Render(spinner) + " Running..."
	case v.ExitCode == 0:
		return SuccessStyle.Render("✓ Finished (exit code 0)")
	default:
		return ErrorStyle.Render(fmt.Sprintf("✗ Failed (exit code %d)", v.ExitCode))
	}
}
