package amm

import "errors"

// Engine sentinel errors. Every failure is terminal and leaves pool state
// untouched; callers decide whether to retry with different arguments.
var (
	ErrPoolAlreadyExists     = errors.New("pool already exists")
	ErrPoolNotFound          = errors.New("pool not found")
	ErrZeroAmount            = errors.New("amount cannot be zero")
	ErrInvalidFeeRate        = errors.New("invalid fee rate")
	ErrSlippageExceeded      = errors.New("output amount less than minimum required")
	ErrInsufficientLiquidity = errors.New("insufficient liquidity in pool")
	ErrInsufficientShares    = errors.New("insufficient liquidity shares")
	ErrArithmeticOverflow    = errors.New("arithmetic overflow")
)
