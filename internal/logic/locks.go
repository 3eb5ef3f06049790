package logic

import (
	"sync"
)

// lockTable 按活动加锁，保证同一活动的变更操作串行执行。
// 不同活动互不影响。
type lockTable struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func newLockTable() *lockTable {
	return &lockTable{locks: make(map[int64]*sync.Mutex)}
}

// Lock 获取活动锁，返回解锁函数
func (t *lockTable) Lock(campaignId int64) func() {
	t.mu.Lock()
	l, ok := t.locks[campaignId]
	if !ok {
		l = &sync.Mutex{}
		t.locks[campaignId] = l
	}
	t.mu.Unlock()

	l.Lock()
	return l.Unlock
}
