package logic

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/foolmeonetime/beanpump-sub002/internal/logger"
	"github.com/foolmeonetime/beanpump-sub002/internal/metrics"
	"github.com/foolmeonetime/beanpump-sub002/internal/model"
	"gorm.io/gorm"
)

// MintIssuer 外部铸币服务：为成功终结的活动发行 V2 代币
// 调用可能因网络或链上错误失败，失败必须触发终结事务回滚
type MintIssuer interface {
	CreateMint(ctx context.Context, authority string, decimals uint8) (string, error)
}

// FinalizeLogic 活动终结状态机与批量清扫
//
// 状态流转：ACTIVE → {GOAL_REACHED | EXPIRED} → FINALIZED_SUCCESS | FINALIZED_FAILED
// 终结是一次性的终态迁移，由外部调度轮询触发，不在内部计时
type FinalizeLogic struct {
	db    *gorm.DB
	mint  MintIssuer
	nowFn func() time.Time
}

// NewFinalizeLogic 创建终结逻辑
func NewFinalizeLogic(db *gorm.DB, mint MintIssuer) *FinalizeLogic {
	return &FinalizeLogic{
		db:    db,
		mint:  mint,
		nowFn: time.Now,
	}
}

// SetNowFunc 覆盖时间源，仅用于测试
func (f *FinalizeLogic) SetNowFunc(now func() time.Time) {
	if now == nil {
		f.nowFn = time.Now
		return
	}
	f.nowFn = now
}

// FinalizeResult 单个活动的终结结果
type FinalizeResult struct {
	TakeoverId   int64  `json:"takeover_id"`
	IsSuccessful bool   `json:"is_successful"`
	V2Mint       string `json:"v2_mint,omitempty"`
}

// Finalize 终结一个活动，原子且幂等
//
// 整个操作在单个事务内完成：带条件的 UPDATE 同时承担资格复查与行占用，
// 两个并发终结者恰好一个生效，另一个观察到 is_finalized = true 并得到
// ErrNotEligible。成功结局的铸币调用发生在事务提交之前，铸币失败时
// 事务中止，标志位回滚，活动保持可重试——终结绝不会停在半生效状态
func (f *FinalizeLogic) Finalize(ctx context.Context, takeoverId int64) (*FinalizeResult, error) {
	var takeover model.TakeoverModel
	if err := f.db.First(&takeover, takeoverId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTakeoverNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrExternalDependency, err)
	}

	now := f.nowFn()
	if !f.eligible(&takeover, now) {
		return nil, ErrNotEligible
	}

	tx := f.db.Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("%w: %v", ErrExternalDependency, tx.Error)
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	// 资格复查 + 行占用：is_finalized = false 的条件让并发终结者
	// 在行锁上排队，后到者重评谓词后影响 0 行。
	// 结局（达标即成功，即使终结发生在到期之后）在同一条语句内按
	// 当前行状态判定——事务外的读可能已经被并发提交的贡献超越
	finalizedAt := now
	res := tx.Model(&model.TakeoverModel{}).
		Where("id = ? AND is_finalized = ? AND (total_contributed >= calculated_min_amount OR end_time <= ?)",
			takeoverId, false, now.Unix()).
		Updates(map[string]interface{}{
			"is_finalized":  true,
			"is_successful": gorm.Expr("total_contributed >= calculated_min_amount"),
			"finalized_at":  &finalizedAt,
		})
	if res.Error != nil {
		tx.Rollback()
		return nil, fmt.Errorf("%w: %v", ErrExternalDependency, res.Error)
	}
	if res.RowsAffected == 0 {
		tx.Rollback()
		return nil, ErrNotEligible
	}

	// 事务内回读拿到语句刚判定的结局，据此决定是否铸币
	var finalized model.TakeoverModel
	if err := tx.First(&finalized, takeoverId).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("%w: %v", ErrExternalDependency, err)
	}
	successful := finalized.IsSuccessful

	result := &FinalizeResult{TakeoverId: takeoverId, IsSuccessful: successful}

	if successful {
		// 铸币发生在事务窗口内：失败则整体回滚，活动保持可重试
		v2Mint, err := f.mint.CreateMint(ctx, finalized.Authority, finalized.Decimals)
		if err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("%w: 铸币失败: %v", ErrExternalDependency, err)
		}
		if err := tx.Model(&model.TakeoverModel{}).
			Where("id = ?", takeoverId).
			Update("v2_mint", v2Mint).Error; err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("%w: %v", ErrExternalDependency, err)
		}
		result.V2Mint = v2Mint
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExternalDependency, err)
	}

	if successful {
		metrics.TakeoversFinalized.WithLabelValues("success").Inc()
		logger.Info("Finalized takeover %d as successful, v2 mint: %s", takeoverId, result.V2Mint)
	} else {
		metrics.TakeoversFinalized.WithLabelValues("failed").Inc()
		logger.Info("Finalized takeover %d as failed: %s/%s contributed", takeoverId,
			finalized.TotalContributed, finalized.CalculatedMinAmount)
	}
	return result, nil
}

// eligible 终结资格判定：未终结且（达标或已到期）
func (f *FinalizeLogic) eligible(takeover *model.TakeoverModel, now time.Time) bool {
	if takeover.IsFinalized {
		return false
	}
	total := model.AmountOrZero(takeover.TotalContributed)
	goal := model.AmountOrZero(takeover.CalculatedMinAmount)
	return total.Cmp(goal) >= 0 || now.Unix() >= takeover.EndTime
}

// SweepError 清扫中单个活动的失败记录
type SweepError struct {
	TakeoverId int64  `json:"takeover_id"`
	Error      string `json:"error"`
}

// SweepResult 一次清扫的汇总结果：部分失败不影响整体
type SweepResult struct {
	Finalized []FinalizeResult `json:"finalized"`
	Skipped   []int64          `json:"skipped"`
	Errors    []SweepError     `json:"errors"`
}

// Sweep 查找所有满足终结条件的活动并逐个终结
//
// 按创建时间升序处理以限制饥饿；单个活动的失败被捕获记录，
// 不会中断清扫。清扫可以被定时器与手动触发并发执行：每个活动的
// 终结各自幂等且受行占用保护，并发清扫收敛到同一终态
func (f *FinalizeLogic) Sweep(ctx context.Context) (*SweepResult, error) {
	metrics.SweepRuns.Inc()
	now := f.nowFn()

	var takeovers []model.TakeoverModel
	err := f.db.Where(
		"is_finalized = ? AND (total_contributed >= calculated_min_amount OR end_time <= ?)",
		false, now.Unix(),
	).Order("created_at ASC").Find(&takeovers).Error
	if err != nil {
		return nil, fmt.Errorf("%w: 查询待终结活动失败: %v", ErrExternalDependency, err)
	}

	result := &SweepResult{
		Finalized: []FinalizeResult{},
		Skipped:   []int64{},
		Errors:    []SweepError{},
	}

	for _, takeover := range takeovers {
		r, err := f.Finalize(ctx, takeover.Id)
		if err != nil {
			if errors.Is(err, ErrNotEligible) {
				// 并发清扫已经处理过，no-op
				result.Skipped = append(result.Skipped, takeover.Id)
				continue
			}
			logger.Error("Failed to finalize takeover %d during sweep: %v", takeover.Id, err)
			metrics.SweepErrors.Inc()
			result.Errors = append(result.Errors, SweepError{
				TakeoverId: takeover.Id,
				Error:      err.Error(),
			})
			continue
		}
		result.Finalized = append(result.Finalized, *r)
	}

	logger.Info("Finalize sweep completed: %d finalized, %d skipped, %d errors",
		len(result.Finalized), len(result.Skipped), len(result.Errors))
	return result, nil
}
