package logic

import (
	"errors"
	"fmt"
	"time"

	"github.com/foolmeonetime/beanpump-sub002/internal/model"
	"github.com/foolmeonetime/beanpump-sub002/internal/supply"
	"gorm.io/gorm"
)

// TakeoverLogic 接管活动业务逻辑
type TakeoverLogic struct {
	db *gorm.DB
}

// NewTakeoverLogic 创建接管活动业务逻辑
func NewTakeoverLogic(db *gorm.DB) *TakeoverLogic {
	return &TakeoverLogic{db: db}
}

// CreateTakeover 创建活动：校验参数并一次性计算派生经济字段
// 派生字段之后不再重算
func (t *TakeoverLogic) CreateTakeover(takeover *model.TakeoverModel) error {
	if err := t.validateTakeover(takeover); err != nil {
		return err
	}

	m, err := supply.Calculate(supply.Params{
		RawSupply:             takeover.RawSupply,
		Decimals:              takeover.Decimals,
		TargetParticipationBp: takeover.TargetParticipationBp,
		RewardRateBp:          takeover.RewardRateBp,
	})
	if err != nil {
		return err
	}

	takeover.CalculatedMinAmount = m.CalculatedMinRaw.String()
	takeover.MaxSafeContribution = m.MaxSafeContributionRaw.String()
	takeover.RewardPoolTokens = m.RewardPoolRaw.String()
	takeover.LiquidityPoolTokens = m.LiquidityPoolRaw.String()

	takeover.TotalContributed = "0"
	takeover.ContributorCount = 0
	takeover.TotalClaimed = "0"
	takeover.ClaimedCount = 0
	takeover.IsFinalized = false
	takeover.IsSuccessful = false
	takeover.V2Mint = ""

	if err := t.db.Create(takeover).Error; err != nil {
		return fmt.Errorf("创建活动失败: %w", err)
	}
	return nil
}

// GetTakeover 获取活动详情
func (t *TakeoverLogic) GetTakeover(id int64) (*model.TakeoverModel, error) {
	var takeover model.TakeoverModel
	if err := t.db.First(&takeover, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTakeoverNotFound
		}
		return nil, fmt.Errorf("获取活动详情失败: %w", err)
	}
	return &takeover, nil
}

// GetTakeoverByAddress 按链上地址获取活动
func (t *TakeoverLogic) GetTakeoverByAddress(address string) (*model.TakeoverModel, error) {
	var takeover model.TakeoverModel
	if err := t.db.Where("address = ?", address).First(&takeover).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTakeoverNotFound
		}
		return nil, fmt.Errorf("获取活动详情失败: %w", err)
	}
	return &takeover, nil
}

// GetTakeovers 获取活动列表，可按终结状态过滤
func (t *TakeoverLogic) GetTakeovers(finalized *bool, page, pageSize int) ([]model.TakeoverModel, int64, error) {
	var takeovers []model.TakeoverModel
	var total int64

	query := t.db.Model(&model.TakeoverModel{})
	if finalized != nil {
		query = query.Where("is_finalized = ?", *finalized)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := query.Offset(offset).
		Limit(pageSize).
		Order("created_at DESC").
		Find(&takeovers).Error; err != nil {
		return nil, 0, err
	}

	return takeovers, total, nil
}

// GetEligibleTakeovers 获取当前满足终结条件的活动
// 条件与 FinalizeLogic 使用的判定一致：未终结且（达标或已到期）
// 按创建时间升序排列，限制饥饿
func (t *TakeoverLogic) GetEligibleTakeovers(now time.Time) ([]model.TakeoverModel, error) {
	var takeovers []model.TakeoverModel
	err := t.db.Where(
		"is_finalized = ? AND (total_contributed >= calculated_min_amount OR end_time <= ?)",
		false, now.Unix(),
	).Order("created_at ASC").Find(&takeovers).Error
	if err != nil {
		return nil, fmt.Errorf("查询待终结活动失败: %w", err)
	}
	return takeovers, nil
}

// GetTakeoverStats 获取活动统计信息
func (t *TakeoverLogic) GetTakeoverStats(id int64) (map[string]interface{}, error) {
	takeover, err := t.GetTakeover(id)
	if err != nil {
		return nil, err
	}

	// 完成百分比仅用于展示，浮点近似即可
	total := model.AmountOrZero(takeover.TotalContributed)
	goal := model.AmountOrZero(takeover.CalculatedMinAmount)
	completion := float64(0)
	if goal.Sign() > 0 {
		completion = bigRatio(total, goal) * 100
	}

	// 去重的贡献者地址数，仅用于审计展示，不回写聚合字段
	var uniqueContributors int64
	if err := t.db.Model(&model.ContributionModel{}).
		Where("takeover_id = ?", id).
		Distinct("contributor").
		Count(&uniqueContributors).Error; err != nil {
		return nil, fmt.Errorf("获取贡献者数量失败: %w", err)
	}

	remaining := time.Duration(0)
	now := time.Now()
	if !takeover.IsFinalized && now.Unix() < takeover.EndTime {
		remaining = time.Until(time.Unix(takeover.EndTime, 0))
	}

	return map[string]interface{}{
		"takeover_id":           takeover.Id,
		"total_contributed":     takeover.TotalContributed,
		"calculated_min_amount": takeover.CalculatedMinAmount,
		"max_safe_contribution": takeover.MaxSafeContribution,
		"completion_percentage": completion,
		"contributor_count":     takeover.ContributorCount,
		"unique_contributors":   uniqueContributors,
		"claimed_count":         takeover.ClaimedCount,
		"total_claimed":         takeover.TotalClaimed,
		"remaining_time":        remaining.String(),
		"is_finalized":          takeover.IsFinalized,
		"is_successful":         takeover.IsSuccessful,
		"goal_formatted":        supply.FormatTokens(tokensForDisplay(goal, takeover.Decimals)),
	}, nil
}

// validateTakeover 校验活动数据
func (t *TakeoverLogic) validateTakeover(takeover *model.TakeoverModel) error {
	if takeover.Address == "" {
		return fmt.Errorf("%w: 活动地址不能为空", ErrInvalidParameters)
	}
	if takeover.Authority == "" {
		return fmt.Errorf("%w: 活动所有者不能为空", ErrInvalidParameters)
	}
	if takeover.V1Mint == "" {
		return fmt.Errorf("%w: V1 代币地址不能为空", ErrInvalidParameters)
	}
	if takeover.StartTime >= takeover.EndTime {
		return fmt.Errorf("%w: 开始时间必须早于结束时间", ErrInvalidParameters)
	}
	return nil
}
