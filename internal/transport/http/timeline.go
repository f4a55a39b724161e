package http

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"mcainsights/pkg/contracts/domain"
)

const (
	chartWidth      = 760
	chartBaseHeight = 110
	chartLaneHeight = 34
	chartDotWidth   = 5.0
	chartTicks      = 5
	chartMinSpan    = 30 * 24 * time.Hour
	chartDateLayout = "2006-01-02"
)

// categoryPalette colors categories in chart order.
var categoryPalette = []string{
	"636efa", "ef553b", "00cc96", "ab63fa", "ffa15a",
	"19d3f3", "ff6692", "b6e880", "ff97ff", "fecb52",
}

// timelineImage is a rendered timeline ready for an <img> element. The SVG
// travels as a data URL so chart text never mixes with page markup.
type timelineImage struct {
	Title  string
	Src    template.URL
	Width  int
	Height int
}

// renderTimeline draws tl as a scatter over a time axis: one lane per
// category in tl.Categories order (top to bottom), one dot per interval
// start. It returns nil when there is nothing to draw.
func renderTimeline(tl *domain.Timeline) (*timelineImage, error) {
	if tl == nil || len(tl.Intervals) == 0 {
		return nil, nil
	}

	graph := newTimelineGraph(tl)
	var buf bytes.Buffer
	if err := graph.Render(chart.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render timeline: %w", err)
	}

	return &timelineImage{
		Title:  tl.Title,
		Src:    template.URL("data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())),
		Width:  graph.Width,
		Height: graph.Height,
	}, nil
}

func newTimelineGraph(tl *domain.Timeline) chart.Chart {
	n := len(tl.Categories)
	lanes := make(map[string]*chart.TimeSeries, n)
	laneY := make(map[string]float64, n)
	series := make([]chart.Series, 0, n)
	yTicks := make([]chart.Tick, n+2)
	yTicks[n+1] = chart.Tick{Value: float64(n + 1)}

	for i, cat := range tl.Categories {
		y := float64(n - i)
		ts := &chart.TimeSeries{
			Name: cat.Name,
			Style: chart.Style{
				StrokeWidth: chart.Disabled,
				DotWidth:    chartDotWidth,
				DotColor:    drawing.ColorFromHex(categoryPalette[i%len(categoryPalette)]),
			},
		}
		lanes[cat.Name] = ts
		laneY[cat.Name] = y
		series = append(series, ts)
		yTicks[n-i] = chart.Tick{Value: y, Label: fmt.Sprintf("%s (%d)", cat.Name, cat.Count)}
	}

	for _, iv := range tl.Intervals {
		ts, ok := lanes[iv.Category]
		if !ok {
			continue
		}
		y := laneY[iv.Category]
		ts.XValues = append(ts.XValues, iv.Start)
		ts.YValues = append(ts.YValues, y)
		if iv.End.After(iv.Start) {
			ts.XValues = append(ts.XValues, iv.End)
			ts.YValues = append(ts.YValues, y)
		}
	}

	lo, hi := timelineSpan(tl.Intervals)
	return chart.Chart{
		Title:  tl.Title,
		Width:  chartWidth,
		Height: chartBaseHeight + n*chartLaneHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 50, Left: 20, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeDateValueFormatter,
			Range:          &chart.ContinuousRange{Min: chart.TimeToFloat64(lo), Max: chart.TimeToFloat64(hi)},
			Ticks:          dateTicks(lo, hi),
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: float64(n + 1)},
			Ticks: yTicks,
		},
		Series: series,
	}
}

// timelineSpan is the covered date range widened to at least chartMinSpan
// around its center, so a single date still gets a readable axis.
func timelineSpan(intervals []domain.TimelineInterval) (time.Time, time.Time) {
	lo, hi := intervals[0].Start, intervals[0].End
	for _, iv := range intervals[1:] {
		if iv.Start.Before(lo) {
			lo = iv.Start
		}
		if iv.End.After(hi) {
			hi = iv.End
		}
	}
	if span := hi.Sub(lo); span < chartMinSpan {
		pad := (chartMinSpan - span) / 2
		lo, hi = lo.Add(-pad), hi.Add(pad)
	}
	return lo, hi
}

// dateTicks spaces chartTicks labels evenly from lo to hi inclusive.
func dateTicks(lo, hi time.Time) []chart.Tick {
	step := hi.Sub(lo) / (chartTicks - 1)
	ticks := make([]chart.Tick, chartTicks)
	for i := range ticks {
		t := lo.Add(step * time.Duration(i))
		ticks[i] = chart.Tick{Value: chart.TimeToFloat64(t), Label: t.Format(chartDateLayout)}
	}
	return ticks
}
