package normalize

import "strings"

// NeighborhoodPrice pairs a lowercase neighborhood key with its average
// price per area unit (EUR/m²).
type NeighborhoodPrice struct {
	Name       string  `yaml:"name" json:"name"`
	AvgPerArea float64 `yaml:"avg_per_area" json:"avgPerArea"`
}

// DefaultNeighborhoodPrices is the reference table for Barcelona districts.
// Order matters: NeighborhoodAvgPrice returns the first containment match.
var DefaultNeighborhoodPrices = []NeighborhoodPrice{
	{Name: "gràcia", AvgPerArea: 27.0},
	{Name: "eixample", AvgPerArea: 26.0},
	{Name: "ciutat vella", AvgPerArea: 25.0},
	{Name: "sarrià-sant gervasi", AvgPerArea: 28.0},
	{Name: "les corts", AvgPerArea: 24.0},
	{Name: "sant martí", AvgPerArea: 23.0},
	{Name: "sants-montjuïc", AvgPerArea: 21.0},
	{Name: "horta-guinardó", AvgPerArea: 19.0},
	{Name: "nou barris", AvgPerArea: 18.0},
	{Name: "sant andreu", AvgPerArea: 20.0},
}

// NeighborhoodAvgPrice matches free-text location against the table by
// case-insensitive containment, first match winning. A false ok means no
// reference price is available, which is not an anomaly.
func NeighborhoodAvgPrice(name string, table []NeighborhoodPrice) (float64, bool) {
	lower := strings.ToLower(name)
	if lower == "" {
		return 0, false
	}
	for _, entry := range table {
		if strings.Contains(lower, entry.Name) {
			return entry.AvgPerArea, true
		}
	}
	return 0, false
}
