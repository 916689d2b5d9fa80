package consensus

// Params collects the config-driven consensus knobs from spec §6. All of them
// are read once at node startup; there is no hot reload.
type Params struct {
	BlockSizeLimit     int    // block_size_limit, bytes. Default 8 MiB.
	FutureTimeLimit    int64  // future_time_limit, seconds.
	TargetSolvetime    int64  // target_solvetime, seconds per block.
	RetargetingWindow  uint64 // retargeting_window, blocks.
	DiffRebalanceOffset int64 // diff_rebalance_offset, seconds.
	BlockAtFullEmission uint64
	TotalTokenSupply    uint64
}

const bytesPerMiB = 1 << 20

// DefaultParams mirrors the defaults spec §6 names explicitly (block size
// cap) and reasonable values for the rest, all overridable from config.
func DefaultParams() Params {
	return Params{
		BlockSizeLimit:      8 * bytesPerMiB,
		FutureTimeLimit:     2 * 60 * 60,
		TargetSolvetime:     600,
		RetargetingWindow:   2016,
		DiffRebalanceOffset: 0,
		BlockAtFullEmission: 6_930_000,
		TotalTokenSupply:    21_000_000_00000000,
	}
}
