package escrow

import (
	"sync"

	"github.com/blues/lfs/internal/model"
)

// MemoryBank 内存资金通道，用于本地运行与测试。
// 参与者余额与托管池分开记账，入托出托必须穿过托管池。
type MemoryBank struct {
	mu       sync.Mutex
	balances map[string]int64
	custody  int64
}

// NewMemoryBank 创建内存资金通道
func NewMemoryBank() *MemoryBank {
	return &MemoryBank{balances: make(map[string]int64)}
}

// SetBalance 设置参与者初始余额
func (b *MemoryBank) SetBalance(addr string, amount int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.balances[addr] = amount
}

// BalanceOf 查询参与者余额
func (b *MemoryBank) BalanceOf(addr string) int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.balances[addr]
}

// Custody 查询托管池总额
func (b *MemoryBank) Custody() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.custody
}

// Debit 从参与者余额划入托管池
func (b *MemoryBank) Debit(from, asset string, amount int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.balances[from] < amount {
		return model.ErrTransferFailed
	}
	b.balances[from] -= amount
	b.custody += amount
	return nil
}

// Credit 从托管池划出给接收者
func (b *MemoryBank) Credit(to, asset string, amount int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.custody < amount {
		return model.ErrTransferFailed
	}
	b.custody -= amount
	b.balances[to] += amount
	return nil
}
