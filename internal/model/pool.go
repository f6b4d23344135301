package model

// PoolSnapshot represents a pool state record for storage.
type PoolSnapshot struct {
	Owner       string `json:"owner"`
	Pair        string `json:"pair"`
	ReserveX    string `json:"reserve_x"`
	ReserveY    string `json:"reserve_y"`
	TotalShares string `json:"total_shares"`
	FeeBps      int64  `json:"fee_bps"`
}

// Position represents a provider's share balance against a pool.
type Position struct {
	Provider string `json:"provider"`
	Owner    string `json:"owner"`
	Pair     string `json:"pair"`
	Shares   string `json:"shares"`
}
