package main

import (
	"log"

	"github.com/blues/lfs/internal/chain"
	"github.com/blues/lfs/internal/config"
	"github.com/blues/lfs/internal/database"
	"github.com/blues/lfs/internal/escrow"
	"github.com/blues/lfs/internal/logger"
	"github.com/blues/lfs/internal/logic"
	"github.com/blues/lfs/internal/router"
	"github.com/blues/lfs/internal/task"
	"github.com/blues/lfs/internal/token"
	"github.com/gin-gonic/gin"
)

func main() {
	// 加载配置
	cfg := config.Load()

	// 初始化日志
	setupLogger(cfg.Log)

	// 初始化数据库
	db, err := database.Init(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// 选择资金与代币通道：链上通道或内存通道
	var (
		transfer    escrow.FundTransfer
		ledger      token.Ledger
		coordinator logic.LaunchCoordinator
		monitor     *chain.EventMonitor
	)
	if cfg.Chain.Enabled {
		chainClient, err := chain.Init(cfg.Chain)
		if err != nil {
			log.Fatalf("Failed to initialize chain client: %v", err)
		}
		transfer = chain.NewVaultTransfer(chainClient, "")
		ledger = chain.NewTokenLedger(chainClient)
		coordinator = logic.NewMemoryCoordinator()
		monitor = chain.NewEventMonitor(chainClient, db, cfg.Chain)
	} else {
		transfer = escrow.NewMemoryBank()
		ledger = token.NewMemoryLedger()
		coordinator = logic.NewMemoryCoordinator()
	}

	// 初始化业务逻辑
	escrowAccount := escrow.NewAccount(transfer)
	campaignLogic := logic.NewCampaignLogic(db, escrowAccount, ledger, cfg)
	voteLogic := logic.NewVoteLogic(db, ledger, campaignLogic, cfg.Funding.VoteWindowHours)
	launchLogic := logic.NewLaunchLogic(db, escrowAccount, campaignLogic, coordinator)

	// 设置Gin模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 初始化路由
	r := router.Setup(campaignLogic, voteLogic, launchLogic)

	// 启动定时任务
	manager := task.Start(db, cfg, campaignLogic, voteLogic)
	defer manager.Stop()

	// 启动链上事件监控
	if monitor != nil {
		if err := monitor.Start(); err != nil {
			log.Fatalf("Failed to start chain monitor: %v", err)
		}
		defer monitor.Stop()
	}

	// 启动服务器
	logger.Info("Server starting on port %s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupLogger 根据配置初始化全局日志
func setupLogger(cfg config.LogConfig) {
	level := logger.ParseLevel(cfg.Level)

	var (
		l   *logger.Logger
		err error
	)
	if cfg.Output == "file" {
		l, err = logger.NewWithFileRotation(level, cfg.File)
	} else {
		l, err = logger.New(level)
	}
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	logger.SetDefaultLogger(l)
}
