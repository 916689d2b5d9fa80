package consensus

import (
	"math/big"
	"testing"
)

func TestTargetFromDifficulty_ZeroIsMax(t *testing.T) {
	target := TargetFromDifficulty(0)
	if target.Cmp(new(big.Int).Lsh(big.NewInt(1), 256)) != 0 {
		t.Fatalf("difficulty 0 should give target 2^256, got %s", target.String())
	}
}

func TestTargetFromDifficulty_Monotonic(t *testing.T) {
	low := TargetFromDifficulty(10)
	high := TargetFromDifficulty(20)
	if high.Cmp(low) >= 0 {
		t.Fatalf("higher difficulty must give a smaller target")
	}
}

func TestHashBeatsTarget_AllZerosBeatsAnyPositiveDifficulty(t *testing.T) {
	zero := "0000000000000000000000000000000000000000000000000000000000000000"
	if !HashBeatsTarget(zero, 1) {
		t.Fatalf("zero hash should beat any target")
	}
}

func TestHashBeatsTarget_AllFsFailsHighDifficulty(t *testing.T) {
	allF := ""
	for i := 0; i < 64; i++ {
		allF += "f"
	}
	if HashBeatsTarget(allF, 200) {
		t.Fatalf("maximal hash should not beat a high-difficulty target")
	}
}

func TestHashBeatsTarget_RejectsNonHex(t *testing.T) {
	if HashBeatsTarget("not-hex!!", 1) {
		t.Fatalf("non-hex input must not beat target")
	}
}

func TestRetargetV1_ClampsToFactorOfFour(t *testing.T) {
	old := uint64(100)
	// Wildly fast solves should push difficulty up, but not by more than 4x
	// the old target's inverse.
	got := RetargetV1(old, 1, 100_000)
	oldTarget := TargetFromDifficulty(old)
	newTarget := TargetFromDifficulty(got)
	lower := new(big.Int).Rsh(oldTarget, 2)
	if newTarget.Cmp(lower) < 0 {
		t.Fatalf("retarget exceeded the 4x clamp: newTarget=%s lower=%s", newTarget, lower)
	}
}

func TestRetargetV1_StableWhenOnTarget(t *testing.T) {
	old := uint64(50)
	got := RetargetV1(old, 600, 600)
	if got != old {
		t.Fatalf("solvetime matching target should leave difficulty unchanged: got=%d want=%d", got, old)
	}
}

func TestDifficultyFromTarget_RoundTrips(t *testing.T) {
	for _, d := range []uint64{1, 10, 50, 128, 200} {
		target := TargetFromDifficulty(d)
		got := DifficultyFromTarget(target)
		if got != d {
			t.Fatalf("round trip mismatch: d=%d got=%d", d, got)
		}
	}
}
