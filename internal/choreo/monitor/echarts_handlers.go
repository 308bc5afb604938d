package monitor

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/wldnjs95/choreoflow/internal/choreo"
	"github.com/wldnjs95/choreoflow/internal/choreo/scenario"
)

// echartsAssetsPrefix is where chart pages load the echarts runtime from.
const echartsAssetsPrefix = "https://go-echarts.github.io/go-echarts-assets/assets/"

// candidateChartRow is one strategy's scored result, taken from either a
// live pipeline run or a stored one.
type candidateChartRow struct {
	Strategy   string
	Metrics    choreo.CandidateMetrics
	PlanTimeMs float64
}

// chartRows resolves the rows for the metrics chart: a stored run when
// run_id is given, otherwise a fresh pipeline run on a builtin scenario.
func (ws *WebServer) chartRows(r *http.Request) (string, []candidateChartRow, error) {
	if runID := r.URL.Query().Get("run_id"); runID != "" {
		if ws.store == nil {
			return "", nil, fmt.Errorf("database not configured")
		}
		run, err := ws.store.Get(runID)
		if err != nil {
			return "", nil, err
		}
		rows := make([]candidateChartRow, 0, len(run.Candidates))
		for _, c := range run.Candidates {
			rows = append(rows, candidateChartRow{Strategy: c.Strategy, Metrics: c.Metrics, PlanTimeMs: c.PlanTimeMs})
		}
		label := run.Scenario
		if label == "" {
			label = runID
		}
		return label, rows, nil
	}

	name := r.URL.Query().Get("scenario")
	if name == "" {
		name = "line-to-v"
	}
	sc, err := scenario.ByName(name)
	if err != nil {
		return "", nil, err
	}
	cfg, err := sc.Config(ws.base)
	if err != nil {
		return "", nil, err
	}
	results, err := choreo.GenerateCandidates(sc.Starts, sc.Ends, cfg, choreo.NopTrace())
	if err != nil {
		return "", nil, err
	}
	rows := make([]candidateChartRow, 0, len(results))
	for _, res := range results {
		rows = append(rows, candidateChartRow{Strategy: res.Strategy.String(), Metrics: res.Metrics, PlanTimeMs: res.PlanMillis})
	}
	return name, rows, nil
}

// handleMetricsChart renders a strategy comparison page (HTML) for one
// scenario or stored run. This is a debugging-only endpoint (no auth).
// Query params:
//   - scenario (optional; defaults to line-to-v)
//   - run_id (optional; charts a stored run instead of planning live)
func (ws *WebServer) handleMetricsChart(w http.ResponseWriter, r *http.Request) {
	label, rows, err := ws.chartRows(r)
	if err != nil {
		ws.writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(rows) == 0 {
		ws.writeJSONError(w, http.StatusNotFound, "no candidates to chart")
		return
	}

	x := make([]string, len(rows))
	collisions := make([]opts.BarData, len(rows))
	crossings := make([]opts.BarData, len(rows))
	symmetry := make([]opts.BarData, len(rows))
	smoothness := make([]opts.BarData, len(rows))
	sync := make([]opts.BarData, len(rows))
	planTime := make([]opts.BarData, len(rows))
	for i, row := range rows {
		x[i] = row.Strategy
		collisions[i] = opts.BarData{Value: row.Metrics.CollisionCount}
		crossings[i] = opts.BarData{Value: row.Metrics.CrossingCount}
		symmetry[i] = opts.BarData{Value: row.Metrics.SymmetryScore}
		smoothness[i] = opts.BarData{Value: row.Metrics.SmoothnessScore}
		sync[i] = opts.BarData{Value: row.Metrics.SimultaneousArrival}
		planTime[i] = opts.BarData{Value: row.PlanTimeMs}
	}

	conflicts := charts.NewBar()
	conflicts.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: "dark", Width: "100%", Height: "480px", AssetsHost: echartsAssetsPrefix}),
		charts.WithTitleOpts(opts.Title{Title: "Conflicts by strategy", Subtitle: label}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	conflicts.SetXAxis(x).
		AddSeries("collisions", collisions,
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
		).
		AddSeries("crossings", crossings)

	scores := charts.NewBar()
	scores.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: "dark", Width: "100%", Height: "480px", AssetsHost: echartsAssetsPrefix}),
		charts.WithTitleOpts(opts.Title{Title: "Scores by strategy (0-100)", Subtitle: label}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	scores.SetXAxis(x).
		AddSeries("symmetry", symmetry).
		AddSeries("smoothness", smoothness).
		AddSeries("simultaneous arrival", sync)

	timing := charts.NewBar()
	timing.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: "dark", Width: "100%", Height: "480px", AssetsHost: echartsAssetsPrefix}),
		charts.WithTitleOpts(opts.Title{Title: "Planning time (ms)", Subtitle: label}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	timing.SetXAxis(x).
		AddSeries("plan time", planTime,
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
		)

	page := components.NewPage()
	page.SetAssetsHost(echartsAssetsPrefix)
	page.AddCharts(conflicts, scores, timing)

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		ws.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("render error: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// handleTimingChart renders a per-dancer timing chart (HTML): for each
// dancer, how long it holds before moving and how long it travels. Bars are
// stacked so the page reads like a Gantt over the count window.
// Query params:
//   - scenario (optional; defaults to line-to-v)
//   - strategy (optional; defaults to hybrid)
func (ws *WebServer) handleTimingChart(w http.ResponseWriter, r *http.Request) {
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
	paths := results[0].Paths

	ids := make([]string, len(paths))
	hold := make([]opts.BarData, len(paths))
	travel := make([]opts.BarData, len(paths))
	for i := range paths {
		p := &paths[i]
		ids[i] = p.DancerID
		hold[i] = opts.BarData{Value: p.StartTime}
		end := p.StartTime
		if len(p.Path) > 0 {
			end = p.Path[len(p.Path)-1].T
		}
		travel[i] = opts.BarData{Value: end - p.StartTime}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Dancer timing", Theme: "dark", Width: "100%", Height: "720px", AssetsHost: echartsAssetsPrefix}),
		charts.WithTitleOpts(opts.Title{Title: fmt.Sprintf("Dancer timing: %s on %s", strategyName, name), Subtitle: "counts; hold stacked under travel"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Max: cfg.TotalCounts, Name: "counts"}),
	)
	bar.SetXAxis(ids).
		AddSeries("hold", hold, charts.WithBarChartOpts(opts.BarChart{Stack: "timing"})).
		AddSeries("travel", travel, charts.WithBarChartOpts(opts.BarChart{Stack: "timing"}))

	page := components.NewPage()
	page.SetAssetsHost(echartsAssetsPrefix)
	page.AddCharts(bar)

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		ws.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("render error: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}
