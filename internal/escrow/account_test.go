package escrow

import (
	"errors"
	"testing"

	"github.com/blues/lfs/internal/model"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestAccount(t *testing.T) (*gorm.DB, *MemoryBank, *Account) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if err := db.AutoMigrate(&model.EscrowModel{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	if err := db.Create(&model.EscrowModel{CampaignId: 1}).Error; err != nil {
		t.Fatalf("failed to seed escrow row: %v", err)
	}

	bank := NewMemoryBank()
	account := NewAccount(bank)
	account.Authorize(1, "campaign_logic")

	return db, bank, account
}

func held(t *testing.T, db *gorm.DB, campaignId int64) int64 {
	t.Helper()
	var esc model.EscrowModel
	if err := db.Where("campaign_id = ?", campaignId).First(&esc).Error; err != nil {
		t.Fatalf("failed to load escrow: %v", err)
	}
	return esc.Held
}

func TestEnterAuthorization(t *testing.T) {
	_, _, account := newTestAccount(t)

	if _, err := account.Enter(1, "stranger", OpContribute); !errors.Is(err, model.ErrNotAuthorized) {
		t.Fatalf("got %v, want ErrNotAuthorized", err)
	}
	if _, err := account.Enter(2, "campaign_logic", OpContribute); !errors.Is(err, model.ErrNotAuthorized) {
		t.Fatalf("unknown campaign: got %v, want ErrNotAuthorized", err)
	}

	release, err := account.Enter(1, "campaign_logic", OpContribute)
	if err != nil {
		t.Fatalf("Enter failed: %v", err)
	}
	release()
}

func TestEnterReentrancy(t *testing.T) {
	_, _, account := newTestAccount(t)

	release, err := account.Enter(1, "campaign_logic", OpRefund)
	if err != nil {
		t.Fatal(err)
	}

	// 同活动同类操作在途时拒绝
	if _, err := account.Enter(1, "campaign_logic", OpRefund); !errors.Is(err, model.ErrReentrantCall) {
		t.Fatalf("got %v, want ErrReentrantCall", err)
	}

	// 不同类操作不互斥
	other, err := account.Enter(1, "campaign_logic", OpWithdraw)
	if err != nil {
		t.Fatalf("different op class should not be blocked: %v", err)
	}
	other()

	release()
	again, err := account.Enter(1, "campaign_logic", OpRefund)
	if err != nil {
		t.Fatalf("Enter after release failed: %v", err)
	}
	again()
}

func TestDepositMovesFunds(t *testing.T) {
	db, bank, account := newTestAccount(t)
	bank.SetBalance("alice", 1000)

	tx := db.Begin()
	if err := account.Deposit(tx, 1, "alice", "USDT", 400); err != nil {
		t.Fatalf("Deposit failed: %v", err)
	}
	if err := tx.Commit().Error; err != nil {
		t.Fatal(err)
	}

	if got := held(t, db, 1); got != 400 {
		t.Fatalf("held = %d, want 400", got)
	}
	if got := bank.BalanceOf("alice"); got != 600 {
		t.Fatalf("alice balance = %d, want 600", got)
	}
	if got := bank.Custody(); got != 400 {
		t.Fatalf("custody = %d, want 400", got)
	}
}

func TestDepositFailureRollsBack(t *testing.T) {
	db, bank, account := newTestAccount(t)
	bank.SetBalance("alice", 100)

	tx := db.Begin()
	err := account.Deposit(tx, 1, "alice", "USDT", 400)
	if !errors.Is(err, model.ErrTransferFailed) {
		t.Fatalf("got %v, want ErrTransferFailed", err)
	}
	tx.Rollback()

	if got := held(t, db, 1); got != 0 {
		t.Fatalf("held = %d, want 0 after rollback", got)
	}
	if got := bank.BalanceOf("alice"); got != 100 {
		t.Fatalf("alice balance = %d, want 100", got)
	}
}

func TestPayOutRequiresHeldFunds(t *testing.T) {
	db, bank, account := newTestAccount(t)
	bank.SetBalance("alice", 1000)

	tx := db.Begin()
	if err := account.Deposit(tx, 1, "alice", "USDT", 300); err != nil {
		t.Fatal(err)
	}
	tx.Commit()

	tx = db.Begin()
	if err := account.PayOut(tx, 1, "alice", "USDT", 500); !errors.Is(err, model.ErrNoFunds) {
		t.Fatalf("got %v, want ErrNoFunds", err)
	}
	tx.Rollback()

	tx = db.Begin()
	if err := account.PayOut(tx, 1, "alice", "USDT", 300); err != nil {
		t.Fatalf("PayOut failed: %v", err)
	}
	tx.Commit()

	if got := held(t, db, 1); got != 0 {
		t.Fatalf("held = %d, want 0", got)
	}
	if got := bank.BalanceOf("alice"); got != 1000 {
		t.Fatalf("alice balance = %d, want 1000", got)
	}
}

func TestWithdrawSplitAccruesFee(t *testing.T) {
	db, bank, account := newTestAccount(t)
	bank.SetBalance("alice", 10_000)

	tx := db.Begin()
	if err := account.Deposit(tx, 1, "alice", "USDT", 10_000); err != nil {
		t.Fatal(err)
	}
	tx.Commit()

	tx = db.Begin()
	if err := account.WithdrawSplit(tx, 1, "creator", "platform", "USDT", 9750, 250); err != nil {
		t.Fatalf("WithdrawSplit failed: %v", err)
	}
	tx.Commit()

	if got := bank.BalanceOf("creator"); got != 9750 {
		t.Fatalf("creator balance = %d, want 9750", got)
	}
	if got := bank.BalanceOf("platform"); got != 250 {
		t.Fatalf("platform balance = %d, want 250", got)
	}
	if got := held(t, db, 1); got != 0 {
		t.Fatalf("held = %d, want 0", got)
	}

	var esc model.EscrowModel
	if err := db.Where("campaign_id = ?", 1).First(&esc).Error; err != nil {
		t.Fatal(err)
	}
	if esc.AccruedFee != 250 {
		t.Fatalf("accrued fee = %d, want 250", esc.AccruedFee)
	}
}

// feeBlockingBank 指定接收方的划转失败，其余交给内存通道
type feeBlockingBank struct {
	*MemoryBank
	blocked string
}

func (b *feeBlockingBank) Credit(to, asset string, amount int64) error {
	if to == b.blocked {
		return model.ErrTransferFailed
	}
	return b.MemoryBank.Credit(to, asset, amount)
}

func TestWithdrawSplitReversesCreatorOnFeeFailure(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if err := db.AutoMigrate(&model.EscrowModel{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	if err := db.Create(&model.EscrowModel{CampaignId: 1}).Error; err != nil {
		t.Fatal(err)
	}

	bank := &feeBlockingBank{MemoryBank: NewMemoryBank(), blocked: "platform"}
	account := NewAccount(bank)
	account.Authorize(1, "campaign_logic")

	bank.SetBalance("alice", 10_000)
	tx := db.Begin()
	if err := account.Deposit(tx, 1, "alice", "USDT", 10_000); err != nil {
		t.Fatal(err)
	}
	tx.Commit()

	tx = db.Begin()
	err = account.WithdrawSplit(tx, 1, "creator", "platform", "USDT", 9750, 250)
	if !errors.Is(err, model.ErrTransferFailed) {
		t.Fatalf("got %v, want ErrTransferFailed", err)
	}
	tx.Rollback()

	// 创建者已到账的净额被冲回，外部通道与托管账目保持一致
	if got := bank.BalanceOf("creator"); got != 0 {
		t.Fatalf("creator balance = %d, want 0", got)
	}
	if got := bank.Custody(); got != 10_000 {
		t.Fatalf("custody = %d, want 10000", got)
	}
	if got := held(t, db, 1); got != 10_000 {
		t.Fatalf("held = %d, want 10000", got)
	}
}
