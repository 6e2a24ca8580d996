package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/portlandmobile/ai-news-chart/internal/common"
	"github.com/portlandmobile/ai-news-chart/internal/models"
	"github.com/portlandmobile/ai-news-chart/internal/services/news"
)

// pricePointJSON is the wire shape of one trading day.
type pricePointJSON struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

func toPointsJSON(points []models.PricePoint) []pricePointJSON {
	out := make([]pricePointJSON, len(points))
	for i, p := range points {
		out[i] = pricePointJSON{
			Date:   p.Date.Format("2006-01-02"),
			Open:   p.Open,
			High:   p.High,
			Low:    p.Low,
			Close:  p.Close,
			Volume: p.Volume,
		}
	}
	return out
}

// handleStockData serves GET /api/stock-data. It never hard-fails: when
// every provider strategy misses, the series comes back synthetic.
func (s *Server) handleStockData(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	symbol := QueryParam(r, "symbol", "AAPL")
	period := models.Period(QueryParam(r, "period", "6mo"))
	interval := QueryParam(r, "interval", "1d")

	series, err := s.app.ChartService.GetHistory(r.Context(), symbol, period, interval)
	if err != nil {
		WriteSymbolError(w, http.StatusInternalServerError, "Failed to fetch stock data", symbol)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"symbol":   series.Symbol,
		"source":   series.Source,
		"period":   series.Period,
		"interval": series.Interval,
		"points":   toPointsJSON(series.Points),
	})
}

// historicPointJSON carries the simplified integer-rounded shape.
type historicPointJSON struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// handleHistoricPrice serves GET /api/historic-price: a fixed 90-day
// open/close/volume series.
func (s *Server) handleHistoricPrice(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	symbol := QueryParam(r, "symbol", "AAPL")

	series, err := s.app.ChartService.GetHistoric(r.Context(), symbol)
	if err != nil {
		WriteSymbolError(w, http.StatusInternalServerError, "Failed to fetch historic prices", symbol)
		return
	}

	points := make([]historicPointJSON, len(series.Points))
	for i, p := range series.Points {
		points[i] = historicPointJSON{
			Date:   p.Date.Format("2006-01-02"),
			Open:   p.Open,
			Close:  p.Close,
			Volume: p.Volume,
		}
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"symbol": series.Symbol,
		"source": series.Source,
		"points": points,
	})
}

// newsDigestJSON is the wire shape of one aggregated news day.
type newsDigestJSON struct {
	Date  string `json:"date"`
	Title string `json:"title"`
	Link  string `json:"link"`
}

// handleStockNews serves GET /api/stock-news (and its legacy alias
// /api/stock-news-tt). Zero digests after full pagination is a 404.
func (s *Server) handleStockNews(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	symbol := QueryParam(r, "symbol", "AAPL")

	digests, err := s.app.NewsService.GetDigests(r.Context(), symbol)
	if err != nil {
		if errors.Is(err, news.ErrNoNews) {
			WriteSymbolError(w, http.StatusNotFound, "No news found for symbol "+symbol, symbol)
			return
		}
		WriteSymbolError(w, http.StatusInternalServerError, "Failed to fetch news", symbol)
		return
	}

	out := make([]newsDigestJSON, len(digests))
	for i, d := range digests {
		out[i] = newsDigestJSON{
			Date:  d.Date.Format("2006-01-02"),
			Title: d.Title,
			Link:  d.Link,
		}
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"symbol":  symbol,
		"digests": out,
	})
}

// handleStockChart serves GET /api/stock-chart as a rendered PNG.
func (s *Server) handleStockChart(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	symbol := QueryParam(r, "symbol", "AAPL")
	period := models.Period(QueryParam(r, "period", "6mo"))

	series, err := s.app.ChartService.GetHistory(r.Context(), symbol, period, "1d")
	if err != nil {
		WriteSymbolError(w, http.StatusInternalServerError, "Failed to fetch stock data", symbol)
		return
	}

	png, err := s.app.ChartService.RenderChart(series)
	if err != nil {
		WriteSymbolError(w, http.StatusInternalServerError, "Failed to render chart", symbol)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// handleSearchStocks serves GET /api/search-stocks against the static
// catalog. An empty query is a client error and makes no upstream calls.
func (s *Server) handleSearchStocks(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	query := QueryParam(r, "query", "")
	if query == "" {
		WriteError(w, http.StatusBadRequest, "Query parameter is required")
		return
	}

	results := searchCatalog(query)
	if results == nil {
		results = []CatalogEntry{}
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"results": results,
	})
}

// handleHealth serves GET /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// handleVersion serves GET /api/version.
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}
