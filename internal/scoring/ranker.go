package scoring

import (
	"sort"

	"github.com/lodeline/orescore/internal/model"
)

// Market-cap band boundaries, in the same currency unit as the input.
const (
	capBandSmallFloor = 50_000_000
	capBandMidFloor   = 250_000_000
	capBandLargeFloor = 1_000_000_000
)

// capBand buckets a market capitalization: micro below 50M, small from
// 50M, mid from 250M through 1000M inclusive, large above 1000M.
// Missing caps resolve to 0 and land in the micro band.
func capBand(marketCap float64) model.CapBand {
	switch {
	case marketCap > capBandLargeFloor:
		return model.CapBandLarge
	case marketCap >= capBandMidFloor:
		return model.CapBandMid
	case marketCap >= capBandSmallFloor:
		return model.CapBandSmall
	default:
		return model.CapBandMicro
	}
}

// rankPeers assigns ordinal ranks within each company-type group and
// each market-cap band. Each group is independently re-sorted by final
// score; ties keep array order (stable sort).
func rankPeers(results []model.ScoringResult) {
	byType := make(map[model.CompanyType][]int)
	byBand := make(map[model.CapBand][]int)

	for i := range results {
		results[i].PeerRank.CapBand = capBand(results[i].MarketCap)
		byType[results[i].Type] = append(byType[results[i].Type], i)
		byBand[results[i].PeerRank.CapBand] = append(byBand[results[i].PeerRank.CapBand], i)
	}

	for _, idxs := range byType {
		sort.SliceStable(idxs, func(a, b int) bool {
			return results[idxs[a]].FinalScore > results[idxs[b]].FinalScore
		})
		for pos, i := range idxs {
			results[i].PeerRank.WithinType = pos + 1
			results[i].PeerRank.TypeGroupSize = len(idxs)
		}
	}

	for _, idxs := range byBand {
		sort.SliceStable(idxs, func(a, b int) bool {
			return results[idxs[a]].FinalScore > results[idxs[b]].FinalScore
		})
		for pos, i := range idxs {
			results[i].PeerRank.WithinCapBand = pos + 1
			results[i].PeerRank.CapBandSize = len(idxs)
		}
	}
}
