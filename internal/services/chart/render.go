package chart

import (
	"bytes"
	"fmt"
	"time"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/portlandmobile/ai-news-chart/internal/models"
)

// RenderChart renders a PNG line chart of closing prices.
func (s *Service) RenderChart(series *models.PriceSeries) ([]byte, error) {
	if series == nil || len(series.Points) < 2 {
		return nil, errNoPoints
	}

	xValues := make([]time.Time, len(series.Points))
	yValues := make([]float64, len(series.Points))
	for i, p := range series.Points {
		xValues[i] = p.Date
		yValues[i] = p.Close
	}

	priceSeries := gochart.TimeSeries{
		Name: series.Symbol,
		Style: gochart.Style{
			StrokeColor: drawing.ColorFromHex("667eea"),
			StrokeWidth: 2.5,
		},
		XValues: xValues,
		YValues: yValues,
	}

	graph := gochart.Chart{
		Title:  fmt.Sprintf("%s - %s", series.Symbol, series.Period),
		Width:  900,
		Height: 400,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: gochart.XAxis{
			TickPosition: gochart.TickPositionBetweenTicks,
			ValueFormatter: func(v interface{}) string {
				if t, ok := v.(float64); ok {
					return gochart.TimeFromFloat64(t).Format("Jan 02")
				}
				return ""
			},
		},
		YAxis: gochart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("$%.2f", f)
				}
				return ""
			},
		},
		Series: []gochart.Series{
			priceSeries,
		},
	}

	graph.Elements = []gochart.Renderable{
		gochart.LegendLeft(&graph),
	}

	var buf bytes.Buffer
	if err := graph.Render(gochart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}

	return buf.Bytes(), nil
}
