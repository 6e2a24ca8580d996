package chart

import (
	"math"
	"math/rand"
	"time"

	"github.com/portlandmobile/ai-news-chart/internal/models"
)

// WalkConfig bounds the synthetic random walk.
type WalkConfig struct {
	SeedPrice float64
	MaxDelta  float64 // per-day close move drawn from ±MaxDelta
	Floor     float64
	Ceiling   float64
	MinVolume int64
	MaxVolume int64
}

// DefaultWalkConfig returns the walk parameters for the main price series.
func DefaultWalkConfig() WalkConfig {
	return WalkConfig{
		SeedPrice: 150.0,
		MaxDelta:  5.0,
		Floor:     50.0,
		Ceiling:   300.0,
		MinVolume: 1_000_000,
		MaxVolume: 5_000_000,
	}
}

// HistoricWalkConfig returns the walk parameters for the simplified
// 90-day historic series, which moves in a slightly tighter band.
func HistoricWalkConfig() WalkConfig {
	cfg := DefaultWalkConfig()
	cfg.MaxDelta = 4.0
	return cfg
}

// GenerateWalk emits one price point per weekday in [start, end]
// inclusive. The close follows a bounded random walk:
// clamp(prev + uniform(±MaxDelta), Floor, Ceiling). Open, high and low
// are drawn as small offsets from the close, then widened so that
// low ≤ min(open, close) and high ≥ max(open, close) always hold.
// The walk is a pure function of its inputs and rng.
func GenerateWalk(rng *rand.Rand, cfg WalkConfig, start, end time.Time) []models.PricePoint {
	var points []models.PricePoint

	price := cfg.SeedPrice
	for d := dateOnly(start); !d.After(dateOnly(end)); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}

		delta := (rng.Float64() - 0.5) * 2 * cfg.MaxDelta
		price = clamp(price+delta, cfg.Floor, cfg.Ceiling)

		closePx := round2(price)
		open := round2(closePx - rng.Float64()*2)
		high := round2(closePx + rng.Float64()*3)
		low := round2(closePx - rng.Float64()*3)
		if low > open {
			low = open
		}
		if high < open {
			high = open
		}

		points = append(points, models.PricePoint{
			Date:   d,
			Open:   open,
			High:   high,
			Low:    low,
			Close:  closePx,
			Volume: cfg.MinVolume + rng.Int63n(cfg.MaxVolume-cfg.MinVolume+1),
		})
	}

	return points
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
