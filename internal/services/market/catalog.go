package market

import (
	"strings"

	"github.com/bobmcallan/hindsight/internal/models"
)

// assetCatalog is the static set of searchable assets. Curated rather than
// fetched: the upstream symbol search endpoint is unauthenticated and flaky,
// and the product only needs a well-known universe for portfolio building.
var assetCatalog = []models.AssetInfo{
	{Symbol: "AAPL", Name: "Apple Inc.", Type: "equity"},
	{Symbol: "MSFT", Name: "Microsoft Corporation", Type: "equity"},
	{Symbol: "AMZN", Name: "Amazon.com, Inc.", Type: "equity"},
	{Symbol: "GOOGL", Name: "Alphabet Inc.", Type: "equity"},
	{Symbol: "META", Name: "Meta Platforms, Inc.", Type: "equity"},
	{Symbol: "TSLA", Name: "Tesla, Inc.", Type: "equity"},
	{Symbol: "SPY", Name: "SPDR S&P 500 ETF Trust", Type: "etf"},
	{Symbol: "QQQ", Name: "Invesco QQQ Trust", Type: "etf"},
	{Symbol: "VTI", Name: "Vanguard Total Stock Market ETF", Type: "etf"},
	{Symbol: "VOO", Name: "Vanguard S&P 500 ETF", Type: "etf"},
	{Symbol: "VEA", Name: "Vanguard FTSE Developed Markets ETF", Type: "etf"},
	{Symbol: "VWO", Name: "Vanguard FTSE Emerging Markets ETF", Type: "etf"},
	{Symbol: "BND", Name: "Vanguard Total Bond Market ETF", Type: "etf"},
	{Symbol: "AGG", Name: "iShares Core U.S. Aggregate Bond ETF", Type: "etf"},
	{Symbol: "GLD", Name: "SPDR Gold Shares", Type: "etf"},
	{Symbol: "IWM", Name: "iShares Russell 2000 ETF", Type: "etf"},
	{Symbol: "EFA", Name: "iShares MSCI EAFE ETF", Type: "etf"},
	{Symbol: "LQD", Name: "iShares iBoxx $ Investment Grade Corporate Bond ETF", Type: "etf"},
	{Symbol: "XLF", Name: "Financial Select Sector SPDR Fund", Type: "etf"},
	{Symbol: "XLE", Name: "Energy Select Sector SPDR Fund", Type: "etf"},
}

// maxSearchResults caps a catalog search response.
const maxSearchResults = 10

// searchCatalog returns catalog entries whose symbol or name contains the
// query, case-insensitively. An empty query matches nothing.
func searchCatalog(query string) []models.AssetInfo {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []models.AssetInfo{}
	}

	matches := make([]models.AssetInfo, 0, 4)
	for _, a := range assetCatalog {
		if strings.Contains(strings.ToLower(a.Symbol), q) || strings.Contains(strings.ToLower(a.Name), q) {
			matches = append(matches, a)
			if len(matches) == maxSearchResults {
				break
			}
		}
	}
	return matches
}
