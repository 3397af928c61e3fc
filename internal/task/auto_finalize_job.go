package task

import (
	"context"
	"time"

	"github.com/foolmeonetime/beanpump-sub002/internal/config"
	"github.com/foolmeonetime/beanpump-sub002/internal/logger"
	"github.com/foolmeonetime/beanpump-sub002/internal/logic"
	"github.com/go-co-op/gocron/v2"
)

// AutoFinalizeJob 自动终结清扫任务
// 定时驱动 FinalizeLogic.Sweep；与手动触发并发执行是安全的，
// 单个活动的终结各自幂等
type AutoFinalizeJob struct {
	finalize *logic.FinalizeLogic
	config   *config.Config
}

// NewAutoFinalizeJob 创建自动终结清扫任务
func NewAutoFinalizeJob(finalizeLogic *logic.FinalizeLogic, cfg *config.Config) *AutoFinalizeJob {
	return &AutoFinalizeJob{
		finalize: finalizeLogic,
		config:   cfg,
	}
}

// GetName 获取任务名称
func (j *AutoFinalizeJob) GetName() string {
	return "auto_finalize_sweeper"
}

// GetSchedule 获取调度配置
func (j *AutoFinalizeJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Duration(j.config.Task.Interval) * time.Second)
}

// Execute 执行任务
func (j *AutoFinalizeJob) Execute() {
	logger.Info("Starting auto finalize sweep")

	result, err := j.finalize.Sweep(context.Background())
	if err != nil {
		logger.Error("Auto finalize sweep failed: %v", err)
		return
	}

	for _, e := range result.Errors {
		logger.Error("Takeover %d failed to finalize: %s", e.TakeoverId, e.Error)
	}

	logger.Info("Auto finalize sweep completed: %d finalized, %d skipped, %d errors",
		len(result.Finalized), len(result.Skipped), len(result.Errors))
}
