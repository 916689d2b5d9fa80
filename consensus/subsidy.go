package consensus

import (
	"math/big"
	"sync"
)

// BlockReward is block_reward(index): the fixed emission schedule from spec
// §4.3.3 / §9. The source computes a triangular-number sigma at startup and
// derives each block's reward from it; reproduced here as an explicit
// formula (Open Question, resolved — see DESIGN.md):
//
//	weight(index)  = BlockAtFullEmission - index + 1     for index in [0, BlockAtFullEmission]
//	sigma          = sum_{k=1}^{BlockAtFullEmission+1} k = T(BlockAtFullEmission+1)
//	reward(index)  = floor(TotalTokenSupply * weight(index) / sigma)
//
// Blocks strictly beyond BlockAtFullEmission pay 0 subsidy — coinbase output
// is then fees-only (spec §4.3 point 3 already sums fees separately).
// Flooring means the sum over the full schedule may fall a few base units
// short of TotalTokenSupply; the shortfall is credited to block 0, the same
// "dust to genesis" convention real emission schedules use to hit the target
// exactly.
func BlockReward(index uint64, p Params) int64 {
	if index > p.BlockAtFullEmission {
		return 0
	}

	n := p.BlockAtFullEmission
	sigma := triangular(n + 1)
	if sigma.Sign() == 0 {
		return 0
	}

	weight := new(big.Int).SetUint64(n - index + 1)
	supply := new(big.Int).SetUint64(p.TotalTokenSupply)

	reward := new(big.Int).Mul(supply, weight)
	reward.Div(reward, sigma)

	if index == 0 {
		reward.Add(reward, emissionShortfallCached(p, sigma))
	}

	return reward.Int64()
}

type shortfallKey struct {
	n, supply uint64
}

var (
	shortfallMu    sync.Mutex
	shortfallCache = map[shortfallKey]*big.Int{}
)

// emissionShortfallCached memoizes emissionShortfall per (n, supply) pair: the
// schedule is fixed for the life of a chain, so there's no reason to replay
// the O(n) sum on every genesis-reward lookup.
func emissionShortfallCached(p Params, sigma *big.Int) *big.Int {
	key := shortfallKey{n: p.BlockAtFullEmission, supply: p.TotalTokenSupply}

	shortfallMu.Lock()
	defer shortfallMu.Unlock()
	if v, ok := shortfallCache[key]; ok {
		return v
	}
	v := emissionShortfall(p, sigma)
	shortfallCache[key] = v
	return v
}

// triangular returns T(n) = n*(n+1)/2.
func triangular(n uint64) *big.Int {
	bn := new(big.Int).SetUint64(n)
	t := new(big.Int).Mul(bn, new(big.Int).Add(bn, big.NewInt(1)))
	return t.Div(t, big.NewInt(2))
}

// emissionShortfall is TotalTokenSupply minus the sum of floor(...) rewards
// actually paid out over the whole schedule, i.e. the leftover from integer
// division that block 0 absorbs.
func emissionShortfall(p Params, sigma *big.Int) *big.Int {
	supply := new(big.Int).SetUint64(p.TotalTokenSupply)
	paid := new(big.Int)
	n := p.BlockAtFullEmission
	for i := uint64(0); i <= n; i++ {
		weight := new(big.Int).SetUint64(n - i + 1)
		r := new(big.Int).Mul(supply, weight)
		r.Div(r, sigma)
		paid.Add(paid, r)
	}
	return new(big.Int).Sub(supply, paid)
}
