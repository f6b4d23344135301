package replay

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// ParseAddress converts a hex string into a common.Address.
func ParseAddress(input string) (common.Address, error) {
	input = strings.TrimSpace(input)
	if !common.IsHexAddress(input) {
		return common.Address{}, fmt.Errorf("invalid address: %s", input)
	}
	return common.HexToAddress(input), nil
}

// ParseAmount converts a decimal string into a non-negative big.Int.
func ParseAmount(input string) (*big.Int, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("amount is required")
	}
	value, ok := new(big.Int).SetString(input, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount: %s", input)
	}
	if value.Sign() < 0 {
		return nil, fmt.Errorf("amount is negative: %s", input)
	}
	return value, nil
}

// ParsePair validates and normalizes an asset pair such as "TKA/TKB".
func ParsePair(input string) (string, error) {
	input = strings.TrimSpace(input)
	parts := strings.Split(input, "/")
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid pair: %s", input)
	}
	left := strings.TrimSpace(parts[0])
	right := strings.TrimSpace(parts[1])
	if left == "" || right == "" {
		return "", fmt.Errorf("invalid pair: %s", input)
	}
	if left == right {
		return "", fmt.Errorf("pair assets must differ: %s", input)
	}
	return left + "/" + right, nil
}
