package model

import (
	"time"
)

// ContributionModel 贡献记录
type ContributionModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	TakeoverId  int64  `json:"takeover_id" gorm:"not null;index"`
	Contributor string `json:"contributor" gorm:"not null;index"`
	Amount      string `json:"amount" gorm:"type:numeric(78,0);not null"`
	TxSignature string `json:"tx_signature" gorm:"uniqueIndex"`

	// 领取子状态：一条贡献记录最多被领取一次
	IsClaimed        bool       `json:"is_claimed" gorm:"default:false;index"`
	ClaimAmount      string     `json:"claim_amount" gorm:"type:numeric(78,0);default:0"`
	ClaimType        ClaimType  `json:"claim_type"`
	ClaimedAt        *time.Time `json:"claimed_at"`
	ClaimTxSignature string     `json:"claim_tx_signature"`
}

// TableName 自定义表名
func (ContributionModel) TableName() string {
	return "contribution"
}

// ClaimType 领取类型，必须与所属活动终结时的 IsSuccessful 匹配
type ClaimType string

const (
	ClaimTypeRefund ClaimType = "refund" // 退款（活动失败）
	ClaimTypeReward ClaimType = "reward" // 奖励（活动成功）
)
