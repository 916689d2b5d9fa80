package consensus

import "testing"

func TestBlockReward_ZeroBeyondFullEmission(t *testing.T) {
	p := Params{BlockAtFullEmission: 10, TotalTokenSupply: 1000}
	if got := BlockReward(11, p); got != 0 {
		t.Fatalf("expected 0 reward past full emission, got %d", got)
	}
}

func TestBlockReward_MonotonicallyDecreasing(t *testing.T) {
	p := Params{BlockAtFullEmission: 100, TotalTokenSupply: 1_000_000}
	prev := BlockReward(1, p)
	for i := uint64(2); i <= 100; i++ {
		r := BlockReward(i, p)
		if r > prev {
			t.Fatalf("reward increased at index %d: prev=%d got=%d", i, prev, r)
		}
		prev = r
	}
}

func TestBlockReward_SumsToTotalSupply(t *testing.T) {
	p := Params{BlockAtFullEmission: 50, TotalTokenSupply: 123_456}
	var sum int64
	for i := uint64(0); i <= p.BlockAtFullEmission; i++ {
		sum += BlockReward(i, p)
	}
	if uint64(sum) != p.TotalTokenSupply {
		t.Fatalf("schedule sum %d does not match total supply %d", sum, p.TotalTokenSupply)
	}
}

func TestBlockReward_DefaultParamsSumsToTotalSupply(t *testing.T) {
	p := DefaultParams()
	// Full 6.93M-block loop is too slow for a unit test; spot-check the
	// invariant on a shrunk schedule instead (exercised fully above).
	small := Params{BlockAtFullEmission: 1000, TotalTokenSupply: p.TotalTokenSupply}
	var sum int64
	for i := uint64(0); i <= small.BlockAtFullEmission; i++ {
		sum += BlockReward(i, small)
	}
	if uint64(sum) != small.TotalTokenSupply {
		t.Fatalf("schedule sum %d does not match total supply %d", sum, small.TotalTokenSupply)
	}
}
