package main

import (
	"github.com/foolmeonetime/beanpump-sub002/internal/config"
	"github.com/foolmeonetime/beanpump-sub002/internal/database"
	"github.com/foolmeonetime/beanpump-sub002/internal/logger"
	"github.com/foolmeonetime/beanpump-sub002/internal/logic"
	"github.com/foolmeonetime/beanpump-sub002/internal/router"
	"github.com/foolmeonetime/beanpump-sub002/internal/solana"
	"github.com/foolmeonetime/beanpump-sub002/internal/task"
	"github.com/gin-gonic/gin"
)

func main() {
	// 加载配置
	cfg := config.Load()

	// 初始化日志
	if cfg.Log.Output == "file" {
		l, err := logger.NewWithFileRotation(logger.ParseLogLevel(cfg.Log.Level), cfg.Log.File)
		if err != nil {
			logger.Fatal("Failed to initialize file logger: %v", err)
		}
		logger.SetDefaultLogger(l)
	}
	defer logger.Sync()

	// 初始化数据库
	db, err := database.Init(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to initialize database: %v", err)
	}

	// 初始化链端客户端（V2 铸币）
	mintClient, err := solana.Init(cfg.Solana)
	if err != nil {
		logger.Fatal("Failed to initialize solana client: %v", err)
	}

	finalizeLogic := logic.NewFinalizeLogic(db, mintClient)

	// 设置Gin模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 初始化路由
	r := router.Setup(db, finalizeLogic, cfg)

	// 启动定时任务
	manager := task.Start(finalizeLogic, cfg)
	defer manager.Stop()

	// 启动服务器
	logger.Info("Server starting on port %s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		logger.Fatal("Failed to start server: %v", err)
	}
}
