package model

import (
	"time"
)

// TakeoverModel 代币接管活动模型
// 所有原始代币数量字段均以十进制字符串存储（numeric(78,0)），避免精度丢失
type TakeoverModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 基本信息
	Address     string `json:"address" gorm:"uniqueIndex;not null" binding:"required"`
	Authority   string `json:"authority" gorm:"not null" binding:"required"`
	TokenName   string `json:"token_name"`
	TokenSymbol string `json:"token_symbol"`
	ImageURL    string `json:"image_url"`

	// 经济参数（创建后不可变）
	V1Mint                string `json:"v1_mint" gorm:"not null"`
	RawSupply             string `json:"raw_supply" gorm:"type:numeric(78,0);not null"`
	Decimals              uint8  `json:"decimals" gorm:"not null"`
	TargetParticipationBp int    `json:"target_participation_bp" gorm:"not null"` // 1-10000
	RewardRateBp          int    `json:"reward_rate_bp" gorm:"not null"`          // 100-200
	V1MarketPrice         string `json:"v1_market_price"`                         // 仅展示用

	// 派生经济字段（创建时计算一次，之后只读）
	CalculatedMinAmount string `json:"calculated_min_amount" gorm:"type:numeric(78,0);not null"`
	MaxSafeContribution string `json:"max_safe_contribution" gorm:"type:numeric(78,0);not null"`
	RewardPoolTokens    string `json:"reward_pool_tokens" gorm:"type:numeric(78,0);not null"`
	LiquidityPoolTokens string `json:"liquidity_pool_tokens" gorm:"type:numeric(78,0);not null"`

	// 运行时状态（仅通过事务内的增量更新维护）
	TotalContributed string `json:"total_contributed" gorm:"type:numeric(78,0);default:0"`
	ContributorCount int64  `json:"contributor_count" gorm:"default:0"`
	TotalClaimed     string `json:"total_claimed" gorm:"type:numeric(78,0);default:0"`
	ClaimedCount     int64  `json:"claimed_count" gorm:"default:0"`

	// 时间信息（unix 秒）
	StartTime int64 `json:"start_time" gorm:"not null"`
	EndTime   int64 `json:"end_time" gorm:"not null"`

	// 终结状态：IsFinalized 一旦为 true 即不可变
	// IsFinalized 为 false 时 IsSuccessful 与 V2Mint 无意义
	IsFinalized  bool       `json:"is_finalized" gorm:"default:false;index"`
	IsSuccessful bool       `json:"is_successful" gorm:"default:false"`
	V2Mint       string     `json:"v2_mint"`
	FinalizedAt  *time.Time `json:"finalized_at"`
}

// TableName 自定义表名
func (TakeoverModel) TableName() string {
	return "takeover"
}
