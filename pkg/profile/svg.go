package profile

import (
	"bytes"
	"fmt"
)

// Panel geometry defaults, in SVG user units.
const (
	defaultPanelWidth  = 640.0
	defaultPanelHeight = 160.0
	marginLeft         = 56.0
	marginRight        = 16.0
	marginTop          = 28.0
	marginBottom       = 24.0
)

const chartCSS = `
    .axis { stroke: #999; stroke-width: 1; }
    .ground { fill: none; stroke: #2b6cb0; stroke-width: 1.5; }
    .center { stroke: #c53030; stroke-width: 1; stroke-dasharray: 4 3; }
    .label { font: 11px sans-serif; fill: #444; }
    .title { font: bold 12px sans-serif; fill: #222; }`

type RenderOption func(*renderer)

type renderer struct {
	panelW  float64
	panelH  float64
	title   string
	showMid bool
}

// WithPanelSize overrides the per-profile panel dimensions.
func WithPanelSize(w, h float64) RenderOption {
	return func(r *renderer) { r.panelW, r.panelH = w, h }
}

// WithTitle sets a document title drawn above the first panel.
func WithTitle(title string) RenderOption { return func(r *renderer) { r.title = title } }

// WithoutCenterline suppresses the dashed marker at the transect midpoint.
func WithoutCenterline() RenderOption { return func(r *renderer) { r.showMid = false } }

// RenderSVG draws one chart panel per profile, stacked vertically.
// NoData samples break the ground polyline into separate runs so gaps
// in the surface are visible rather than interpolated across.
func RenderSVG(profiles []Profile, opts ...RenderOption) []byte {
	r := renderer{panelW: defaultPanelWidth, panelH: defaultPanelHeight, showMid: true}
	for _, opt := range opts {
		opt(&r)
	}

	titlePad := 0.0
	if r.title != "" {
		titlePad = 20.0
	}
	totalH := titlePad + float64(len(profiles))*r.panelH

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		r.panelW, totalH, r.panelW, totalH)
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", chartCSS)
	if r.title != "" {
		fmt.Fprintf(&buf, `  <text class="title" x="%.1f" y="14">%s</text>`+"\n", marginLeft, r.title)
	}

	for i, p := range profiles {
		renderPanel(&buf, &r, p, titlePad+float64(i)*r.panelH)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderPanel(buf *bytes.Buffer, r *renderer, p Profile, top float64) {
	plotW := r.panelW - marginLeft - marginRight
	plotH := r.panelH - marginTop - marginBottom
	plotTop := top + marginTop
	plotBottom := plotTop + plotH

	fmt.Fprintf(buf, `  <text class="label" x="%.1f" y="%.1f">reach %d, station %.1f</text>`+"\n",
		marginLeft, top+16, p.Reach, p.Station)

	// axes
	fmt.Fprintf(buf, `  <line class="axis" x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>`+"\n",
		marginLeft, plotTop, marginLeft, plotBottom)
	fmt.Fprintf(buf, `  <line class="axis" x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>`+"\n",
		marginLeft, plotBottom, marginLeft+plotW, plotBottom)

	lo, okLo := p.MinElevation()
	hi, okHi := p.MaxElevation()
	if !okLo || !okHi || len(p.Samples) < 2 {
		fmt.Fprintf(buf, `  <text class="label" x="%.1f" y="%.1f">no data</text>`+"\n",
			marginLeft+plotW/2, plotTop+plotH/2)
		return
	}
	if hi == lo {
		hi = lo + 1 // flat profile still gets a visible line
	}

	width := p.Samples[len(p.Samples)-1].Distance
	toX := func(d float64) float64 { return marginLeft + d/width*plotW }
	toY := func(elev float64) float64 { return plotBottom - (elev-lo)/(hi-lo)*plotH }

	// ground surface, split at NoData gaps
	var run []string
	flush := func() {
		if len(run) >= 2 {
			fmt.Fprintf(buf, `  <polyline class="ground" points="`)
			for j, pt := range run {
				if j > 0 {
					buf.WriteByte(' ')
				}
				buf.WriteString(pt)
			}
			buf.WriteString(`"/>` + "\n")
		}
		run = run[:0]
	}
	for _, s := range p.Samples {
		if s.NoData {
			flush()
			continue
		}
		run = append(run, fmt.Sprintf("%.1f,%.1f", toX(s.Distance), toY(s.Elevation)))
	}
	flush()

	if r.showMid {
		mx := toX(width / 2)
		fmt.Fprintf(buf, `  <line class="center" x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>`+"\n",
			mx, plotTop, mx, plotBottom)
	}

	// elevation range labels
	fmt.Fprintf(buf, `  <text class="label" x="4" y="%.1f">%.1f</text>`+"\n", plotTop+10, hi)
	fmt.Fprintf(buf, `  <text class="label" x="4" y="%.1f">%.1f</text>`+"\n", plotBottom, lo)
}
