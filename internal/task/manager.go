package task

import (
	"github.com/foolmeonetime/beanpump-sub002/internal/config"
	"github.com/foolmeonetime/beanpump-sub002/internal/logger"
	"github.com/foolmeonetime/beanpump-sub002/internal/logic"
	"github.com/go-co-op/gocron/v2"
)

// Manager 任务管理器
type Manager struct {
	scheduler gocron.Scheduler
	config    *config.Config
	finalize  *logic.FinalizeLogic
}

// NewManager 创建新的任务管理器
func NewManager(finalizeLogic *logic.FinalizeLogic, cfg *config.Config) *Manager {
	s, err := gocron.NewScheduler()
	if err != nil {
		logger.Fatal("Failed to create scheduler: %v", err)
	}

	return &Manager{
		scheduler: s,
		config:    cfg,
		finalize:  finalizeLogic,
	}
}

// Start 启动任务管理器
func Start(finalizeLogic *logic.FinalizeLogic, cfg *config.Config) *Manager {
	manager := NewManager(finalizeLogic, cfg)

	// 注册所有任务
	manager.RegisterJobs()

	// 启动调度器
	manager.scheduler.Start()

	logger.Info("Task manager started successfully")
	return manager
}

// RegisterJobs 注册所有任务
func (m *Manager) RegisterJobs() {
	// 注册自动终结清扫任务
	m.RegisterAutoFinalizeJob()
}

// RegisterAutoFinalizeJob 注册自动终结清扫任务
func (m *Manager) RegisterAutoFinalizeJob() {
	job := NewAutoFinalizeJob(m.finalize, m.config)

	_, err := m.scheduler.NewJob(
		job.GetSchedule(),
		gocron.NewTask(job.Execute),
		gocron.WithName(job.GetName()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		logger.Error("Failed to register job %s: %v", job.GetName(), err)
	}
}

// Stop 停止任务管理器
func (m *Manager) Stop() {
	if err := m.scheduler.Shutdown(); err != nil {
		logger.Error("Failed to shutdown scheduler: %v", err)
	}
	logger.Info("Task manager stopped")
}
