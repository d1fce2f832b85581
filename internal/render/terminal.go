package render

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/thesavant42/waybackpulse/internal/models"
	"github.com/thesavant42/waybackpulse/internal/pipeline"
)

const (
	defaultBarWidth = 60
	sparkLevels     = "▁▂▃▄▅▆▇█"
)

// SiteColors assigns one colour per site, in sorted site order
var SiteColors = []lipgloss.Color{
	lipgloss.Color("86"),  // cyan
	lipgloss.Color("226"), // bright yellow
	lipgloss.Color("213"), // magenta
	lipgloss.Color("208"), // orange
	lipgloss.Color("141"), // purple
	lipgloss.Color("82"),  // green
	lipgloss.Color("39"),  // blue
	lipgloss.Color("196"), // red
}

// Options controls terminal chart layout
type Options struct {
	Granularity models.Granularity
	Title       string
	Width       int // bar width in cells for stacked bars
}

type styles struct {
	title  lipgloss.Style
	label  lipgloss.Style
	dim    lipgloss.Style
	series []lipgloss.Style
}

func newStyles(w io.Writer, sites int) styles {
	r := lipgloss.NewRenderer(w)
	s := styles{
		title: r.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).MarginBottom(1),
		label: r.NewStyle().Foreground(lipgloss.Color("15")),
		dim:   r.NewStyle().Foreground(lipgloss.Color("241")),
	}
	for i := 0; i < sites; i++ {
		s.series = append(s.series, r.NewStyle().Foreground(SiteColors[i%len(SiteColors)]))
	}
	return s
}

// Terminal draws buckets as a text chart: one sparkline per site for line mode,
// one horizontal stacked bar per bucket for stacked_bar mode.
func Terminal(w io.Writer, buckets []models.Bucket, mode models.ChartMode, opts Options) error {
	series := pipeline.Pivot(buckets)
	st := newStyles(w, len(series.Sites))

	var b strings.Builder
	if opts.Title != "" {
		b.WriteString(st.title.Render(opts.Title))
		b.WriteString("\n")
	}

	if len(series.Starts) == 0 {
		b.WriteString(st.dim.Render("No snapshots to chart"))
		b.WriteString("\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	switch mode {
	case models.ChartLine:
		drawLines(&b, series, opts, st)
	case models.ChartStackedBar:
		drawStackedBars(&b, series, opts, st)
	default:
		return fmt.Errorf("unsupported chart mode %q", mode)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func drawLines(b *strings.Builder, series models.Series, opts Options, st styles) {
	labelWidth := maxLen(series.Sites)
	peak := series.Max()
	levels := []rune(sparkLevels)

	for i, site := range series.Sites {
		var line strings.Builder
		for _, c := range series.Counts[i] {
			line.WriteRune(sparkRune(levels, c, peak))
		}
		total := 0
		for _, c := range series.Counts[i] {
			total += c
		}
		fmt.Fprintf(b, "%s │%s│ %s\n",
			st.label.Render(padRight(site, labelWidth)),
			st.series[i].Render(line.String()),
			st.dim.Render(fmt.Sprintf("%d", total)))
	}

	layout := opts.Granularity.Layout()
	first := series.Starts[0].Format(layout)
	last := series.Starts[len(series.Starts)-1].Format(layout)
	axis := first
	if gap := len(series.Starts) - len(first) - len(last); gap > 0 {
		axis = first + strings.Repeat(" ", gap) + last
	} else if first != last {
		axis = first + " … " + last
	}
	fmt.Fprintf(b, "%s  %s\n", strings.Repeat(" ", labelWidth), st.dim.Render(axis))
	fmt.Fprintf(b, "%s  %s\n", strings.Repeat(" ", labelWidth), st.dim.Render(fmt.Sprintf("peak %d per %s", peak, opts.Granularity)))
}

// sparkRune maps a count onto the eight block heights; zero stays blank
func sparkRune(levels []rune, count, peak int) rune {
	if count <= 0 || peak <= 0 {
		return ' '
	}
	idx := int(math.Ceil(float64(count)/float64(peak)*float64(len(levels)))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(levels) {
		idx = len(levels) - 1
	}
	return levels[idx]
}

func drawStackedBars(b *strings.Builder, series models.Series, opts Options, st styles) {
	width := opts.Width
	if width <= 0 {
		width = defaultBarWidth
	}

	maxTotal := 0
	for i := range series.Starts {
		if t := series.ColumnTotal(i); t > maxTotal {
			maxTotal = t
		}
	}

	layout := opts.Granularity.Layout()
	for j, start := range series.Starts {
		var bar strings.Builder
		for i := range series.Sites {
			cells := segmentWidth(series.Counts[i][j], maxTotal, width)
			if cells > 0 {
				bar.WriteString(st.series[i].Render(strings.Repeat("█", cells)))
			}
		}
		fmt.Fprintf(b, "%s │%s %s\n",
			st.label.Render(start.Format(layout)),
			bar.String(),
			st.dim.Render(fmt.Sprintf("%d", series.ColumnTotal(j))))
	}

	var legend []string
	for i, site := range series.Sites {
		legend = append(legend, st.series[i].Render("█")+" "+st.label.Render(site))
	}
	b.WriteString("\n")
	b.WriteString(strings.Join(legend, "  "))
	b.WriteString("\n")
}

// segmentWidth scales a count to bar cells; any non-zero count gets at least one cell
func segmentWidth(count, maxTotal, width int) int {
	if count <= 0 || maxTotal <= 0 {
		return 0
	}
	cells := int(math.Round(float64(count) / float64(maxTotal) * float64(width)))
	if cells < 1 {
		cells = 1
	}
	return cells
}

func maxLen(values []string) int {
	n := 0
	for _, v := range values {
		if l := lipgloss.Width(v); l > n {
			n = l
		}
	}
	return n
}

func padRight(s string, width int) string {
	if gap := width - lipgloss.Width(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}
