package escrow

import (
	"fmt"
	"sync"

	"github.com/blues/lfs/internal/logger"
	"github.com/blues/lfs/internal/model"
	"gorm.io/gorm"
)

// FundTransfer 资金划转通道，由外部系统实现
type FundTransfer interface {
	// Debit 把参与者资金划入托管
	Debit(from, asset string, amount int64) error
	// Credit 把托管资金划出给接收者
	Credit(to, asset string, amount int64) error
}

// OpClass 操作类别，互斥保护按活动加类别粒度生效
type OpClass string

const (
	OpContribute OpClass = "contribute"
	OpClaim      OpClass = "claim"
	OpWithdraw   OpClass = "withdraw"
	OpRefund     OpClass = "refund"
	OpLaunch     OpClass = "launch"
)

type inflightKey struct {
	campaignId int64
	op         OpClass
}

// Account 活动托管账户。
// 变更操作只允许授权的归属方调用，执行期间持有按活动加操作类别的
// 互斥标记，外部划转失败时由调用方回滚同一事务内的本地变更。
type Account struct {
	transfer FundTransfer

	mu       sync.Mutex
	owners   map[int64]string
	inflight map[inflightKey]bool
}

// NewAccount 创建托管账户管理器
func NewAccount(transfer FundTransfer) *Account {
	return &Account{
		transfer: transfer,
		owners:   make(map[int64]string),
		inflight: make(map[inflightKey]bool),
	}
}

// Authorize 登记活动的授权归属方
func (a *Account) Authorize(campaignId int64, owner string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.owners[campaignId] = owner
}

// AuthorizeAll 批量登记，服务重启后恢复授权表
func (a *Account) AuthorizeAll(campaignIds []int64, owner string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, id := range campaignIds {
		a.owners[id] = owner
	}
}

// Enter 进入一次托管变更操作，校验授权并设置在途标记。
// 返回的 release 必须在所有退出路径上调用，包括失败路径。
func (a *Account) Enter(campaignId int64, caller string, op OpClass) (func(), error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	owner, ok := a.owners[campaignId]
	if !ok || owner != caller {
		return nil, model.ErrNotAuthorized
	}

	key := inflightKey{campaignId: campaignId, op: op}
	if a.inflight[key] {
		logger.Warn("Rejected reentrant escrow %s on campaign %d", op, campaignId)
		return nil, model.ErrReentrantCall
	}
	a.inflight[key] = true

	return func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		delete(a.inflight, key)
	}, nil
}

// Deposit 资金入托：先在事务内登记托管余额，再发起外部划转。
// 外部划转失败时返回错误，由调用方回滚事务。
func (a *Account) Deposit(tx *gorm.DB, campaignId int64, from, asset string, amount int64) error {
	if amount <= 0 {
		return model.ErrInvalidAmount
	}

	res := tx.Model(&model.EscrowModel{}).
		Where("campaign_id = ?", campaignId).
		Update("held", gorm.Expr("held + ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return model.ErrCampaignNotFound
	}

	if err := a.transfer.Debit(from, asset, amount); err != nil {
		return fmt.Errorf("%w: %v", model.ErrTransferFailed, err)
	}
	return nil
}

// PayOut 资金出托：先在事务内扣减托管余额，再发起外部划转
func (a *Account) PayOut(tx *gorm.DB, campaignId int64, to, asset string, amount int64) error {
	if amount <= 0 {
		return model.ErrInvalidAmount
	}

	var esc model.EscrowModel
	if err := tx.Where("campaign_id = ?", campaignId).First(&esc).Error; err != nil {
		return err
	}
	if esc.Held < amount {
		return model.ErrNoFunds
	}

	if err := tx.Model(&esc).Update("held", gorm.Expr("held - ?", amount)).Error; err != nil {
		return err
	}

	if err := a.transfer.Credit(to, asset, amount); err != nil {
		return fmt.Errorf("%w: %v", model.ErrTransferFailed, err)
	}
	return nil
}

// WithdrawSplit 结算出托：净额给创建者，手续费给平台，累计手续费入账
func (a *Account) WithdrawSplit(tx *gorm.DB, campaignId int64, creator, feeRecipient, asset string, net, fee int64) error {
	if net <= 0 || fee < 0 {
		return model.ErrInvalidAmount
	}

	var esc model.EscrowModel
	if err := tx.Where("campaign_id = ?", campaignId).First(&esc).Error; err != nil {
		return err
	}
	if esc.Held < net+fee {
		return model.ErrNoFunds
	}

	updates := map[string]interface{}{
		"held":        gorm.Expr("held - ?", net+fee),
		"accrued_fee": gorm.Expr("accrued_fee + ?", fee),
	}
	if err := tx.Model(&esc).Updates(updates).Error; err != nil {
		return err
	}

	if err := a.transfer.Credit(creator, asset, net); err != nil {
		return fmt.Errorf("%w: %v", model.ErrTransferFailed, err)
	}
	if fee > 0 {
		if err := a.transfer.Credit(feeRecipient, asset, fee); err != nil {
			// 创建者划转已成功，调用方回滚前先冲回，避免外部通道多出净额
			if derr := a.transfer.Debit(creator, asset, net); derr != nil {
				logger.Error("Failed to reverse creator credit of %d on campaign %d: %v",
					net, campaignId, derr)
			}
			return fmt.Errorf("%w: %v", model.ErrTransferFailed, err)
		}
	}
	return nil
}

// Held 查询活动当前托管余额
func (a *Account) Held(db *gorm.DB, campaignId int64) (int64, error) {
	var esc model.EscrowModel
	if err := db.Where("campaign_id = ?", campaignId).First(&esc).Error; err != nil {
		return 0, err
	}
	return esc.Held, nil
}
