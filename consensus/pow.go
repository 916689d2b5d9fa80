package consensus

import "math/big"

var twoTo256 = new(big.Int).Lsh(big.NewInt(1), 256)

// TargetFromDifficulty derives the 256-bit target a hash must beat: target =
// 2^(256-difficulty) (spec §4.3.2, resolved Open Question — see DESIGN.md).
// difficulty >= 256 collapses to target 1, the tightest representable bound;
// difficulty == 0 saturates at 2^256-1, accepting anything.
func TargetFromDifficulty(difficulty uint64) *big.Int {
	if difficulty >= 256 {
		return big.NewInt(1)
	}
	return new(big.Int).Lsh(big.NewInt(1), uint(256-difficulty))
}

// HashBeatsTarget interprets hash as a big-endian unsigned integer and reports
// whether it is strictly less than the target derived from difficulty (spec
// §4.3.2). hash is a hex-encoded SHA-256 digest, as produced by ShaBase16.
func HashBeatsTarget(hash string, difficulty uint64) bool {
	h, ok := new(big.Int).SetString(hash, 16)
	if !ok {
		return false
	}
	return h.Cmp(TargetFromDifficulty(difficulty)) < 0
}

// RetargetV1 recomputes difficulty at a retargeting-window boundary, clamped
// to a factor of 4 either way to keep consensus stable against a single
// pathological window, treating difficulty purely as a derived target.
// actualSolvetime and expectedSolvetime are both in seconds, summed/averaged
// across a retargeting window by the caller.
func RetargetV1(oldDifficulty uint64, actualSolvetime, expectedSolvetime int64) uint64 {
	if actualSolvetime <= 0 {
		actualSolvetime = 1
	}
	if expectedSolvetime <= 0 {
		expectedSolvetime = 1
	}

	oldTarget := TargetFromDifficulty(oldDifficulty)
	newTarget := new(big.Int).Mul(oldTarget, big.NewInt(actualSolvetime))
	newTarget.Quo(newTarget, big.NewInt(expectedSolvetime))

	lower := new(big.Int).Rsh(oldTarget, 2)
	upper := new(big.Int).Lsh(oldTarget, 2)
	if lower.Sign() == 0 {
		lower.SetInt64(1)
	}
	if newTarget.Cmp(lower) < 0 {
		newTarget.Set(lower)
	}
	if newTarget.Cmp(upper) > 0 {
		newTarget.Set(upper)
	}
	if newTarget.Sign() <= 0 {
		newTarget.SetInt64(1)
	}
	if newTarget.Cmp(twoTo256) >= 0 {
		newTarget.Sub(twoTo256, big.NewInt(1))
	}

	return DifficultyFromTarget(newTarget)
}

// DifficultyFromTarget inverts TargetFromDifficulty: the smallest difficulty
// whose target is <= target, i.e. 257 - bitlen(target) clamped to [0, 256].
func DifficultyFromTarget(target *big.Int) uint64 {
	if target.Sign() <= 0 {
		return 256
	}
	bits := target.BitLen()
	if bits > 256 {
		return 0
	}
	return uint64(256 - bits + 1)
}
