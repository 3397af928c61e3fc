package supply

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/foolmeonetime/beanpump-sub002/internal/model"
)

// 政策常量：80/20 池子拆分与 2% 安全垫
// 安全垫保证即使全部贡献者按满额奖励率领取，也最多消耗名义奖励池的 98%
const (
	rewardPoolPercent    = 80
	liquidityPoolPercent = 20
	safetyCushionPercent = 98

	MinDecimals = 0
	MaxDecimals = 18

	MinParticipationBp = 1
	MaxParticipationBp = 10000

	MinRewardRateBp = 100 // 1.0x
	MaxRewardRateBp = 200 // 2.0x
)

// ErrInvalidParameters 参数超出政策边界
var ErrInvalidParameters = errors.New("参数超出允许范围")

// Params 供应量指标计算的输入参数
type Params struct {
	RawSupply             string // 原始供应量（十进制字符串，任意精度）
	Decimals              uint8
	TargetParticipationBp int
	RewardRateBp          int
}

// Metrics 供应量指标计算结果
// 所有 *Raw 字段为原始单位整数，是结算数学的唯一权威来源
// Display 字段仅用于展示，绝不能回流进结算计算
type Metrics struct {
	RawSupply              *big.Int
	RewardPoolRaw          *big.Int
	LiquidityPoolRaw       *big.Int
	SafeRewardPoolRaw      *big.Int
	ParticipationGoalRaw   *big.Int
	CapacityGoalRaw        *big.Int
	CalculatedMinRaw       *big.Int // min(participation, capacity)
	MaxSafeContributionRaw *big.Int

	Display DisplayMetrics
}

// DisplayMetrics 人类可读的展示字段（非权威）
type DisplayMetrics struct {
	ActualSupply        float64
	RewardPoolTokens    float64
	LiquidityPoolTokens float64
	GoalTokens          float64
	GoalFormatted       string
	RewardPoolFormatted string
	MaxSafeFormatted    string
}

// Validate 校验参数边界，任何持久化之前必须先通过校验
func (p Params) Validate() error {
	if p.Decimals > MaxDecimals {
		return fmt.Errorf("%w: decimals=%d", ErrInvalidParameters, p.Decimals)
	}
	if p.TargetParticipationBp < MinParticipationBp || p.TargetParticipationBp > MaxParticipationBp {
		return fmt.Errorf("%w: target_participation_bp=%d", ErrInvalidParameters, p.TargetParticipationBp)
	}
	if p.RewardRateBp < MinRewardRateBp || p.RewardRateBp > MaxRewardRateBp {
		return fmt.Errorf("%w: reward_rate_bp=%d", ErrInvalidParameters, p.RewardRateBp)
	}
	raw, err := model.ParseAmount(p.RawSupply)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParameters, err)
	}
	if raw.Sign() == 0 {
		return fmt.Errorf("%w: raw_supply 必须大于 0", ErrInvalidParameters)
	}
	return nil
}

// Calculate 由原始供应量与参与/奖励参数推导筹款目标与各池规模
// 纯函数，无 I/O，相同输入恒返回相同输出
func Calculate(p Params) (*Metrics, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	raw, _ := model.ParseAmount(p.RawSupply)

	rewardPool := mulDiv(raw, rewardPoolPercent, 100)
	liquidityPool := mulDiv(raw, liquidityPoolPercent, 100)
	safeRewardPool := mulDiv(rewardPool, safetyCushionPercent, 100)

	participationGoal := mulDiv(raw, int64(p.TargetParticipationBp), 10000)

	// 容量目标：即使每个贡献者按满额奖励率领取，安全奖励池恰好耗尽的贡献水平
	capacityGoal := mulDiv(safeRewardPool, 100, int64(p.RewardRateBp))

	// 筹款目标取两者中更保守（更小）的一个：
	// 公布的目标永远不会隐含超出安全垫奖励池的兑付义务
	calculatedMin := new(big.Int).Set(participationGoal)
	if capacityGoal.Cmp(calculatedMin) < 0 {
		calculatedMin.Set(capacityGoal)
	}

	m := &Metrics{
		RawSupply:              raw,
		RewardPoolRaw:          rewardPool,
		LiquidityPoolRaw:       liquidityPool,
		SafeRewardPoolRaw:      safeRewardPool,
		ParticipationGoalRaw:   participationGoal,
		CapacityGoalRaw:        capacityGoal,
		CalculatedMinRaw:       calculatedMin,
		MaxSafeContributionRaw: new(big.Int).Set(capacityGoal),
	}

	actual := TokensApprox(raw, p.Decimals)
	m.Display = DisplayMetrics{
		ActualSupply:        actual,
		RewardPoolTokens:    TokensApprox(rewardPool, p.Decimals),
		LiquidityPoolTokens: TokensApprox(liquidityPool, p.Decimals),
		GoalTokens:          TokensApprox(calculatedMin, p.Decimals),
		GoalFormatted:       FormatTokens(TokensApprox(calculatedMin, p.Decimals)),
		RewardPoolFormatted: FormatTokens(TokensApprox(rewardPool, p.Decimals)),
		MaxSafeFormatted:    FormatTokens(TokensApprox(capacityGoal, p.Decimals)),
	}
	return m, nil
}

// SafeRewardPool 对存储的名义奖励池应用 2% 安全垫
func SafeRewardPool(rewardPoolRaw *big.Int) *big.Int {
	return mulDiv(rewardPoolRaw, safetyCushionPercent, 100)
}

// mulDiv 整数乘除：v * num / den（向下取整）
func mulDiv(v *big.Int, num, den int64) *big.Int {
	r := new(big.Int).Mul(v, big.NewInt(num))
	return r.Quo(r, big.NewInt(den))
}

// TokensApprox 原始单位换算为代币数量的浮点近似，仅用于展示
func TokensApprox(raw *big.Int, decimals uint8) float64 {
	f := new(big.Float).SetInt(raw)
	scale := new(big.Float).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil))
	out, _ := new(big.Float).Quo(f, scale).Float64()
	return out
}

// FormatTokens 带 K/M/B 后缀的数量格式化，仅用于展示
func FormatTokens(v float64) string {
	switch {
	case v >= 1e9:
		return fmt.Sprintf("%.2fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("%.2fM", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("%.2fK", v/1e3)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}
