package model

// MintEventData is the payload of a liquidity deposit event.
type MintEventData struct {
	Provider string `json:"provider"`
	AmountX  string `json:"amount_x"`
	AmountY  string `json:"amount_y"`
	Shares   string `json:"shares"`
}

// BurnEventData is the payload of a liquidity withdrawal event.
type BurnEventData struct {
	Provider string `json:"provider"`
	Shares   string `json:"shares"`
	AmountX  string `json:"amount_x"`
	AmountY  string `json:"amount_y"`
}

// SwapEventData is the payload of a swap event. Direction is the input
// side, "x" or "y".
type SwapEventData struct {
	Trader    string `json:"trader"`
	Direction string `json:"direction"`
	AmountIn  string `json:"amount_in"`
	AmountOut string `json:"amount_out"`
	FeeBps    int64  `json:"fee_bps"`
}
