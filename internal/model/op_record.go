package model

// Op names accepted by the replay pipeline.
const (
	OpCreatePool      = "create_pool"
	OpAddLiquidity    = "add_liquidity"
	OpRemoveLiquidity = "remove_liquidity"
	OpSwap            = "swap"
)

// OpRecord is one replayable operation as stored in the ops JSONL file.
// Amounts are decimal strings; Account is the acting identity and Owner
// the pool owner (defaults to Account for create_pool).
type OpRecord struct {
	Op           string `json:"op"`
	Account      string `json:"account"`
	Owner        string `json:"owner,omitempty"`
	Pair         string `json:"pair"`
	AmountX      string `json:"amount_x,omitempty"`
	AmountY      string `json:"amount_y,omitempty"`
	FeeBps       int64  `json:"fee_bps,omitempty"`
	Side         string `json:"side,omitempty"`
	AmountIn     string `json:"amount_in,omitempty"`
	MinAmountOut string `json:"min_amount_out,omitempty"`
	Shares       string `json:"shares,omitempty"`
}

// RejectRecord records an operation the replay pipeline could not apply.
type RejectRecord struct {
	Line    uint64 `json:"line"`
	Op      string `json:"op"`
	Account string `json:"account"`
	Pair    string `json:"pair"`
	Error   string `json:"error"`
}
