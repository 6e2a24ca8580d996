// Package models defines data structures for the ai-news-chart backend
package models

import (
	"time"
)

// SeriesSource identifies where a price series came from.
type SeriesSource string

const (
	// SourceProvider marks data returned by a real upstream provider.
	SourceProvider SeriesSource = "provider"
	// SourceSynthetic marks generated stand-in data used when every
	// provider strategy failed.
	SourceSynthetic SeriesSource = "synthetic"
)

// PricePoint represents a single trading day's price data
type PricePoint struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// PriceSeries holds an ordered (ascending by date) run of price points
// for one symbol. Constructed fresh per request and never persisted.
type PriceSeries struct {
	Symbol   string       `json:"symbol"`
	Source   SeriesSource `json:"source"`
	Period   string       `json:"period"`
	Interval string       `json:"interval"`
	Points   []PricePoint `json:"points"`
}

// Period is a relative lookback window for price history requests.
type Period string

const (
	Period1Mo Period = "1mo"
	Period3Mo Period = "3mo"
	Period6Mo Period = "6mo"
	Period1Y  Period = "1y"
	Period2Y  Period = "2y"
	Period5Y  Period = "5y"
)

// Days returns the lookback length in calendar days. Unrecognized
// periods default to six months.
func (p Period) Days() int {
	switch p {
	case Period1Mo:
		return 30
	case Period3Mo:
		return 90
	case Period6Mo:
		return 180
	case Period1Y:
		return 365
	case Period2Y:
		return 730
	case Period5Y:
		return 1825
	default:
		return 180
	}
}

// Window returns the [start, end] date range for the period anchored at now.
func (p Period) Window(now time.Time) (time.Time, time.Time) {
	return now.AddDate(0, 0, -p.Days()), now
}
