package logic

import (
	"errors"
	"fmt"
	"time"

	"github.com/foolmeonetime/beanpump-sub002/internal/logger"
	"github.com/foolmeonetime/beanpump-sub002/internal/metrics"
	"github.com/foolmeonetime/beanpump-sub002/internal/model"
	"github.com/foolmeonetime/beanpump-sub002/internal/supply"
	"gorm.io/gorm"
)

// ClaimLogic 领取结算引擎
// 给定已终结活动的一条贡献记录，恰好产生一次结算
type ClaimLogic struct {
	db    *gorm.DB
	nowFn func() time.Time
}

// NewClaimLogic 创建领取结算逻辑
func NewClaimLogic(db *gorm.DB) *ClaimLogic {
	return &ClaimLogic{db: db, nowFn: time.Now}
}

// SetNowFunc 覆盖时间源，仅用于测试
func (c *ClaimLogic) SetNowFunc(now func() time.Time) {
	if now == nil {
		c.nowFn = time.Now
		return
	}
	c.nowFn = now
}

// Settlement 一次结算的结果
type Settlement struct {
	ContributionId int64           `json:"contribution_id"`
	TakeoverId     int64           `json:"takeover_id"`
	ClaimType      model.ClaimType `json:"claim_type"`
	Amount         string          `json:"amount"`
	ClaimedAt      time.Time       `json:"claimed_at"`
}

// SettleClaim 结算一条贡献的可领取金额
//
// 前置条件（违反任何一条返回 ErrInvalidClaim，不产生状态变更）：
// 贡献记录存在、所属活动已终结、尚未被领取。
// 活动失败 → 全额退还原始贡献（V1 代币计）；
// 活动成功 → 按基点奖励率计算，超出安全奖励池时走保守缩减分支。
// 贡献记录与活动聚合的两次写入在同一事务内原子完成；
// 重复结算通过 is_claimed = false 的守卫更新失败，绝不重算或重付
func (c *ClaimLogic) SettleClaim(contributionId int64, claimTxSignature string) (*Settlement, error) {
	var contribution model.ContributionModel
	if err := c.db.First(&contribution, contributionId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidClaim
		}
		return nil, fmt.Errorf("%w: %v", ErrExternalDependency, err)
	}
	if contribution.IsClaimed {
		return nil, ErrInvalidClaim
	}

	var takeover model.TakeoverModel
	if err := c.db.First(&takeover, contribution.TakeoverId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidClaim
		}
		return nil, fmt.Errorf("%w: %v", ErrExternalDependency, err)
	}
	if !takeover.IsFinalized {
		return nil, ErrInvalidClaim
	}

	amount, err := model.ParseAmount(contribution.Amount)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExternalDependency, err)
	}

	// 领取类型必须与活动终结时的结果匹配
	var claimType model.ClaimType
	var settled string
	if takeover.IsSuccessful {
		claimType = model.ClaimTypeReward
		safePool := supply.SafeRewardPool(model.AmountOrZero(takeover.RewardPoolTokens))
		settled = supply.ComputeReward(amount, takeover.RewardRateBp, safePool).String()
	} else {
		claimType = model.ClaimTypeRefund
		settled = amount.String()
	}

	now := c.nowFn()

	tx := c.db.Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("%w: %v", ErrExternalDependency, tx.Error)
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	// 守卫更新：仅当记录仍未被领取时生效，并发领取恰好一个成功
	res := tx.Model(&model.ContributionModel{}).
		Where("id = ? AND is_claimed = ?", contributionId, false).
		Updates(map[string]interface{}{
			"is_claimed":         true,
			"claim_amount":       settled,
			"claim_type":         claimType,
			"claimed_at":         &now,
			"claim_tx_signature": claimTxSignature,
		})
	if res.Error != nil {
		tx.Rollback()
		return nil, fmt.Errorf("%w: %v", ErrExternalDependency, res.Error)
	}
	if res.RowsAffected == 0 {
		tx.Rollback()
		return nil, ErrInvalidClaim
	}

	// 活动聚合与领取标记必须一起生效，否则聚合不变式被破坏
	if err := tx.Model(&model.TakeoverModel{}).
		Where("id = ?", takeover.Id).
		Updates(map[string]interface{}{
			"total_claimed": gorm.Expr("total_claimed + ?", settled),
			"claimed_count": gorm.Expr("claimed_count + 1"),
		}).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("%w: %v", ErrExternalDependency, err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExternalDependency, err)
	}

	metrics.ClaimsSettled.WithLabelValues(string(claimType)).Inc()
	logger.Info("Settled claim for contribution %d: %s %s", contributionId, settled, claimType)

	return &Settlement{
		ContributionId: contributionId,
		TakeoverId:     takeover.Id,
		ClaimType:      claimType,
		Amount:         settled,
		ClaimedAt:      now,
	}, nil
}
