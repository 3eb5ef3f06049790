package logic

import (
	"fmt"
	"sync"
	"time"

	"github.com/blues/lfs/internal/escrow"
	"github.com/blues/lfs/internal/logger"
	"github.com/blues/lfs/internal/model"
	"gorm.io/gorm"
)

// LaunchCoordinator 外部交易场所供给服务，内部实现对本系统不透明
type LaunchCoordinator interface {
	// Provision 建立交易场所，返回实际使用的代币与资金数量和场所句柄
	Provision(tokenAmount, fundAmount int64) (actualToken, actualFund int64, handle string, err error)
}

// LaunchLogic 流动性发射业务逻辑
type LaunchLogic struct {
	db          *gorm.DB
	escrow      *escrow.Account
	campaigns   *CampaignLogic
	coordinator LaunchCoordinator
	now         func() time.Time
}

// NewLaunchLogic 创建流动性发射业务逻辑
func NewLaunchLogic(db *gorm.DB, esc *escrow.Account, campaigns *CampaignLogic, coordinator LaunchCoordinator) *LaunchLogic {
	return &LaunchLogic{
		db:          db,
		escrow:      esc,
		campaigns:   campaigns,
		coordinator: coordinator,
		now:         time.Now,
	}
}

// Launch 把创建者预留的代币与约定比例的募得资金交给外部场所供给服务。
// 成功后记录场所句柄并转为已发射状态；结果按外部返回值为准。
func (l *LaunchLogic) Launch(campaignId int64, caller string) (string, error) {
	unlock := l.campaigns.locks.Lock(campaignId)
	defer unlock()

	if err := l.campaigns.advanceStatus(campaignId, l.now()); err != nil {
		return "", err
	}

	release, err := l.escrow.Enter(campaignId, escrowOwner, escrow.OpLaunch)
	if err != nil {
		return "", err
	}
	defer release()

	tx := l.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	campaign, err := loadCampaign(tx, campaignId)
	if err != nil {
		tx.Rollback()
		return "", err
	}

	if caller != campaign.CreatorAddress {
		tx.Rollback()
		return "", model.ErrNotCreator
	}
	if campaign.Status != model.CampaignStatusSuccessful {
		tx.Rollback()
		return "", model.ErrWrongState
	}
	if campaign.LiquidityBps == 0 {
		tx.Rollback()
		return "", model.ErrNoLaunchConfig
	}

	fundAmount := campaign.TotalRaised * campaign.LiquidityBps / 10000
	held, err := l.escrow.Held(tx, campaignId)
	if err != nil {
		tx.Rollback()
		return "", err
	}
	if fundAmount > held {
		fundAmount = held
	}
	if fundAmount == 0 {
		tx.Rollback()
		return "", model.ErrNoFunds
	}
	tokenAmount := campaign.TotalTokensDistributed * campaign.CreatorReserveBps / 10000

	actualToken, actualFund, handle, err := l.coordinator.Provision(tokenAmount, fundAmount)
	if err != nil {
		tx.Rollback()
		return "", fmt.Errorf("%w: %v", model.ErrLaunchFailed, err)
	}

	// 信任外部返回的实际用量
	if actualFund > 0 {
		if err := tx.Model(&model.EscrowModel{}).
			Where("campaign_id = ?", campaignId).
			Update("held", gorm.Expr("held - ?", actualFund)).Error; err != nil {
			tx.Rollback()
			return "", err
		}
	}

	updates := map[string]interface{}{
		"status":        model.CampaignStatusTokenLaunched,
		"launch_handle": handle,
	}
	if err := tx.Model(campaign).Updates(updates).Error; err != nil {
		tx.Rollback()
		return "", err
	}

	if err := tx.Commit().Error; err != nil {
		return "", err
	}

	logger.Info("Campaign %d launched on venue %s with %d tokens and %d funds",
		campaignId, handle, actualToken, actualFund)
	return handle, nil
}

// MemoryCoordinator 内存实现，本地运行与测试用
type MemoryCoordinator struct {
	mu      sync.Mutex
	counter int64
}

// NewMemoryCoordinator 创建内存场所供给服务
func NewMemoryCoordinator() *MemoryCoordinator {
	return &MemoryCoordinator{}
}

// Provision 按请求数量原样建立场所
func (c *MemoryCoordinator) Provision(tokenAmount, fundAmount int64) (int64, int64, string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counter++
	return tokenAmount, fundAmount, fmt.Sprintf("venue-pool-%d", c.counter), nil
}
