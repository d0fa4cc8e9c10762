package analysis

import (
	"sort"

	"bifacial-sweep/internal/model"
)

// RankedTilt is a tilt result with its position in a ranking (1 = best).
type RankedTilt struct {
	model.TiltResult
	Rank int `json:"rank"`
}

// RankByEnergy sorts a copy of results descending by the energy of one
// configuration. Equal energies keep ascending tilt order.
func RankByEnergy(results []model.TiltResult, c model.Configuration) []RankedTilt {
	out := make([]RankedTilt, len(results))
	for i, r := range results {
		out[i] = RankedTilt{TiltResult: r}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Energy(c) > out[j].Energy(c)
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

// RankByBifacial ranks tilts by bifacial annual energy.
func RankByBifacial(results []model.TiltResult) []RankedTilt {
	return RankByEnergy(results, model.ConfigBifacial)
}
