package monitor

import (
	"bytes"
	"fmt"
	"image/color"
	"net/http"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/wldnjs95/choreoflow/internal/choreo"
	"github.com/wldnjs95/choreoflow/internal/choreo/scenario"
	"github.com/wldnjs95/choreoflow/internal/units"
)

// RenderPathsPNG draws one candidate's trajectories as a PNG: a colored line
// per dancer over the stage rectangle, with a ring marking each start and a
// filled dot marking each end. The same renderer backs the debug endpoint
// and the CLI's --plot output.
func RenderPathsPNG(paths []choreo.DancerPath, cfg choreo.Config, title string) ([]byte, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = fmt.Sprintf("X (%s)", units.Meters)
	p.Y.Label.Text = fmt.Sprintf("Y (%s)", units.Meters)
	p.X.Min, p.X.Max = 0, cfg.StageWidth
	p.Y.Min, p.Y.Max = 0, cfg.StageHeight

	colors := generateColors(len(paths))
	for i := range paths {
		dp := &paths[i]
		if len(dp.Path) == 0 {
			continue
		}

		pts := make(plotter.XYs, len(dp.Path))
		for j, pt := range dp.Path {
			pts[j] = plotter.XY{X: pt.X, Y: pt.Y}
		}

		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, err
		}
		line.Color = colors[i]
		line.Width = vg.Points(1.5)
		p.Add(line)
		p.Legend.Add(dp.DancerID, line)

		start, err := plotter.NewScatter(plotter.XYs{pts[0]})
		if err != nil {
			return nil, err
		}
		start.GlyphStyle.Shape = draw.RingGlyph{}
		start.GlyphStyle.Radius = vg.Points(4)
		start.GlyphStyle.Color = colors[i]
		p.Add(start)

		end, err := plotter.NewScatter(plotter.XYs{pts[len(pts)-1]})
		if err != nil {
			return nil, err
		}
		end.GlyphStyle.Shape = draw.CircleGlyph{}
		end.GlyphStyle.Radius = vg.Points(4)
		end.GlyphStyle.Color = colors[i]
		p.Add(end)
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	// Keep the image aspect close to the stage aspect so paths are not
	// visually sheared.
	width := 9 * vg.Inch
	height := vg.Length(float64(width) * cfg.StageHeight / cfg.StageWidth)

	wt, err := p.WriterTo(width, height, "png")
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// handlePathsPlot renders planned trajectories for a builtin scenario as PNG.
// Query params:
//   - scenario (optional; defaults to line-to-v)
//   - strategy (optional; defaults to hybrid)
func (ws *WebServer) handlePathsPlot(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("scenario")
	if name == "" {
		name = "line-to-v"
	}
	strategyName := r.URL.Query().Get("strategy")
	if strategyName == "" {
		strategyName = "hybrid"
	}

	sc, err := scenario.ByName(name)
	if err != nil {
		ws.writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	strategy, err := choreo.ParseStrategy(strategyName)
	if err != nil {
		ws.writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	cfg, err := sc.Config(ws.base)
	if err != nil {
		ws.writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	cfg.Strategies = []choreo.Strategy{strategy}

	results, err := choreo.GenerateCandidates(sc.Starts, sc.Ends, cfg, choreo.NopTrace())
	if err != nil {
		ws.writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	png, err := RenderPathsPNG(results[0].Paths, cfg, fmt.Sprintf("%s on %s", strategyName, name))
	if err != nil {
		ws.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("render error: %v", err))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}

// generateColors creates a palette of distinct colors for dancer lines.
func generateColors(n int) []color.Color {
	if n <= 0 {
		return nil
	}

	colors := make([]color.Color, n)
	for i := 0; i < n; i++ {
		hue := float64(i) / float64(n)
		r, g, b := hslToRGB(hue, 0.7, 0.5)
		colors[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	return colors
}

// hslToRGB converts HSL to RGB (0-255 range)
func hslToRGB(h, s, l float64) (r, g, b uint8) {
	var rf, gf, bf float64

	if s == 0 {
		rf, gf, bf = l, l, l
	} else {
		var q float64
		if l < 0.5 {
			q = l * (1 + s)
		} else {
			q = l + s - l*s
		}
		p := 2*l - q
		rf = hueToRGB(p, q, h+1.0/3.0)
		gf = hueToRGB(p, q, h)
		bf = hueToRGB(p, q, h-1.0/3.0)
	}

	return uint8(rf * 255), uint8(gf * 255), uint8(bf * 255)
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t += 1
	}
	if t > 1 {
		t -= 1
	}
	if t < 1.0/6.0 {
		return p + (q-p)*6*t
	}
	if t < 1.0/2.0 {
		return q
	}
	if t < 2.0/3.0 {
		return p + (q-p)*(2.0/3.0-t)*6
	}
	return p
}
