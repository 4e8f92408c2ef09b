// Package sector maps symbols to industry sectors for concentration
// reporting. The table is static; unknown symbols fall into "Others".
package sector

const Default = "Others"

var table = map[string]string{
	"AAPL":  "Technology",
	"MSFT":  "Technology",
	"GOOGL": "Technology",
	"NVDA":  "Technology",
	"AMD":   "Technology",
	"INTC":  "Technology",
	"META":  "Communication",
	"NFLX":  "Communication",
	"DIS":   "Communication",
	"AMZN":  "Consumer",
	"TSLA":  "Consumer",
	"NKE":   "Consumer",
	"MCD":   "Consumer",
	"JPM":   "Financial",
	"BAC":   "Financial",
	"GS":    "Financial",
	"V":     "Financial",
	"JNJ":   "Healthcare",
	"PFE":   "Healthcare",
	"UNH":   "Healthcare",
	"XOM":   "Energy",
	"CVX":   "Energy",
	"BA":    "Industrial",
	"CAT":   "Industrial",
	"KO":    "Staples",
	"PG":    "Staples",
	"WMT":   "Staples",
}

// Lookup returns the sector for symbol, Default when unknown.
func Lookup(symbol string) string {
	if s, ok := table[symbol]; ok {
		return s
	}
	return Default
}
