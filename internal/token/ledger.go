package token

import (
	"sync"

	"github.com/blues/lfs/internal/model"
)

// Ledger 奖励代币账本，由外部系统实现
type Ledger interface {
	Mint(recipient string, amount int64) error
	Burn(holder string, amount int64) error
	BalanceOf(holder string) (int64, error)
}

// MemoryLedger 内存实现，用于本地运行与测试
type MemoryLedger struct {
	mu       sync.Mutex
	balances map[string]int64
}

// NewMemoryLedger 创建内存账本
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{balances: make(map[string]int64)}
}

// Mint 铸造代币
func (l *MemoryLedger) Mint(recipient string, amount int64) error {
	if amount < 0 {
		return model.ErrInvalidAmount
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[recipient] += amount
	return nil
}

// Burn 销毁代币，余额不足时整体失败
func (l *MemoryLedger) Burn(holder string, amount int64) error {
	if amount < 0 {
		return model.ErrInvalidAmount
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.balances[holder] < amount {
		return model.ErrLedgerFailed
	}
	l.balances[holder] -= amount
	return nil
}

// BalanceOf 查询余额
func (l *MemoryLedger) BalanceOf(holder string) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[holder], nil
}
