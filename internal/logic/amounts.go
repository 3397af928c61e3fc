package logic

import (
	"math/big"

	"github.com/foolmeonetime/beanpump-sub002/internal/supply"
)

// bigRatio 两个大整数的浮点比值，仅用于展示
func bigRatio(num, den *big.Int) float64 {
	r, _ := new(big.Float).Quo(new(big.Float).SetInt(num), new(big.Float).SetInt(den)).Float64()
	return r
}

// tokensForDisplay 原始单位换算为代币数量，仅用于展示
func tokensForDisplay(raw *big.Int, decimals uint8) float64 {
	return supply.TokensApprox(raw, decimals)
}
