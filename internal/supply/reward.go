package supply

import (
	"math/big"
)

// ComputeReward 计算一条贡献的奖励结算额（原始单位）
//
// 奖励率以基点表示（100bp = 1.0x），expected = amount * rateBp / 100；
// 不超过安全奖励池时按期望值兑付。
// 超出时走保守缩减分支：safe * amount / (amount + 1)。
// 该回退公式按历史系统原样保留——它按贡献者自身数量加一缩放，并不在
// 一般情况下把缺口按比例分摊到全体贡献者，但它严格少付，保证池子
// 永远不会被透支。宁可少付，绝不多付。
func ComputeReward(amount *big.Int, rewardRateBp int, safeRewardPool *big.Int) *big.Int {
	expected := new(big.Int).Mul(amount, big.NewInt(int64(rewardRateBp)))
	expected.Quo(expected, big.NewInt(100))

	if expected.Cmp(safeRewardPool) <= 0 {
		return expected
	}

	scaled := new(big.Int).Mul(safeRewardPool, amount)
	denom := new(big.Int).Add(amount, big.NewInt(1))
	return scaled.Quo(scaled, denom)
}
