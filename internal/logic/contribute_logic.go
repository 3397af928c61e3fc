package logic

import (
	"errors"
	"fmt"
	"time"

	"github.com/foolmeonetime/beanpump-sub002/internal/model"
	"gorm.io/gorm"
)

// ContributeLogic 贡献记录业务逻辑
type ContributeLogic struct {
	db *gorm.DB
}

// NewContributeLogic 创建贡献记录业务逻辑
func NewContributeLogic(db *gorm.DB) *ContributeLogic {
	return &ContributeLogic{db: db}
}

// CreateContribution 记录一笔贡献
// 插入记录与活动聚合字段的增量更新在同一事务内完成，
// 上限检查通过带条件的 UPDATE 原子执行，避免并发下聚合漂移
func (c *ContributeLogic) CreateContribution(contribution *model.ContributionModel) error {
	if err := c.validateContribution(contribution); err != nil {
		return err
	}
	amount, err := model.ParseAmount(contribution.Amount)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParameters, err)
	}
	if amount.Sign() == 0 {
		return fmt.Errorf("%w: 贡献金额必须大于 0", ErrInvalidParameters)
	}
	contribution.Amount = amount.String()

	var takeover model.TakeoverModel
	if err := c.db.First(&takeover, contribution.TakeoverId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTakeoverNotFound
		}
		return err
	}

	now := time.Now().Unix()
	if takeover.IsFinalized || now < takeover.StartTime || now >= takeover.EndTime {
		return ErrTakeoverNotActive
	}

	tx := c.db.Begin()
	if tx.Error != nil {
		return fmt.Errorf("%w: %v", ErrExternalDependency, tx.Error)
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	contribution.IsClaimed = false
	contribution.ClaimAmount = "0"
	if err := tx.Create(contribution).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("%w: %v", ErrExternalDependency, err)
	}

	// 原子增量：仅当累计金额不超过安全上限且活动未终结时生效
	res := tx.Model(&model.TakeoverModel{}).
		Where("id = ? AND is_finalized = ? AND total_contributed + ? <= max_safe_contribution",
			takeover.Id, false, contribution.Amount).
		Updates(map[string]interface{}{
			"total_contributed": gorm.Expr("total_contributed + ?", contribution.Amount),
			"contributor_count": gorm.Expr("contributor_count + 1"),
		})
	if res.Error != nil {
		tx.Rollback()
		return fmt.Errorf("%w: %v", ErrExternalDependency, res.Error)
	}
	if res.RowsAffected == 0 {
		tx.Rollback()
		return ErrContributionCeiling
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("%w: %v", ErrExternalDependency, err)
	}
	return nil
}

// GetTakeoverContributions 获取活动贡献记录
func (c *ContributeLogic) GetTakeoverContributions(takeoverId int64, page, pageSize int) ([]model.ContributionModel, int64, error) {
	var contributions []model.ContributionModel
	var total int64

	if err := c.db.Model(&model.ContributionModel{}).
		Where("takeover_id = ?", takeoverId).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := c.db.Where("takeover_id = ?", takeoverId).
		Offset(offset).
		Limit(pageSize).
		Order("created_at DESC").
		Find(&contributions).Error; err != nil {
		return nil, 0, err
	}

	return contributions, total, nil
}

// GetContributorContributions 获取某地址的全部贡献记录
func (c *ContributeLogic) GetContributorContributions(contributor string, page, pageSize int) ([]model.ContributionModel, int64, error) {
	var contributions []model.ContributionModel
	var total int64

	if err := c.db.Model(&model.ContributionModel{}).
		Where("contributor = ?", contributor).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := c.db.Where("contributor = ?", contributor).
		Offset(offset).
		Limit(pageSize).
		Order("created_at DESC").
		Find(&contributions).Error; err != nil {
		return nil, 0, err
	}

	return contributions, total, nil
}

// validateContribution 校验贡献数据
func (c *ContributeLogic) validateContribution(contribution *model.ContributionModel) error {
	if contribution.TakeoverId == 0 {
		return fmt.Errorf("%w: 活动ID不能为空", ErrInvalidParameters)
	}
	if contribution.Contributor == "" {
		return fmt.Errorf("%w: 贡献者地址不能为空", ErrInvalidParameters)
	}
	if contribution.TxSignature == "" {
		return fmt.Errorf("%w: 交易签名不能为空", ErrInvalidParameters)
	}
	return nil
}
