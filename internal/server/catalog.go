package server

import (
	"strings"
)

// CatalogEntry is one searchable symbol in the static catalog.
type CatalogEntry struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// symbolCatalog is the fixed set of symbols served by search. There is
// no real search index behind this.
var symbolCatalog = []CatalogEntry{
	{Symbol: "AAPL", Name: "Apple Inc."},
	{Symbol: "GOOGL", Name: "Alphabet Inc."},
	{Symbol: "MSFT", Name: "Microsoft Corporation"},
	{Symbol: "AMZN", Name: "Amazon.com Inc."},
	{Symbol: "TSLA", Name: "Tesla Inc."},
	{Symbol: "META", Name: "Meta Platforms Inc."},
	{Symbol: "NVDA", Name: "NVIDIA Corporation"},
	{Symbol: "NFLX", Name: "Netflix Inc."},
	{Symbol: "DIS", Name: "The Walt Disney Company"},
	{Symbol: "JPM", Name: "JPMorgan Chase & Co."},
}

// maxSearchResults bounds a search response.
const maxSearchResults = 10

// searchCatalog matches the query against symbol and name,
// case-insensitively.
func searchCatalog(query string) []CatalogEntry {
	upper := strings.ToUpper(query)
	lower := strings.ToLower(query)

	var matches []CatalogEntry
	for _, entry := range symbolCatalog {
		if strings.Contains(strings.ToUpper(entry.Symbol), upper) ||
			strings.Contains(strings.ToLower(entry.Name), lower) {
			matches = append(matches, entry)
		}
		if len(matches) >= maxSearchResults {
			break
		}
	}
	return matches
}
