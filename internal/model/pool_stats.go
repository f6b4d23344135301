package model

// PoolStats stores aggregated totals for a pool over a replayed stream.
type PoolStats struct {
	Owner     string
	Pair      string
	SwapCount uint64
	MintCount uint64
	BurnCount uint64
	VolumeX   string
	VolumeY   string
	FeeX      string
	FeeY      string
	LastSeq   uint64
}
