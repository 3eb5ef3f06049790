package pricing

import (
	"github.com/blues/lfs/internal/model"
)

const (
	// BaseRate 每单位资金兑换的奖励代币数量
	BaseRate = 100

	// EarlyBirdBps 早鸟加成，活动前25%时间内生效
	EarlyBirdBps = 12000

	// LowFundingBps 低进度加成，募资进度低于50%时生效
	LowFundingBps = 11000

	// NoTier 未命中任何档位
	NoTier = -1

	bpsDenominator = 10000
)

// Allocation 一次分配的计算结果
type Allocation struct {
	Tokens    int64
	TierIndex int
}

// Allocate 计算一笔贡献的奖励代币分配。
// 纯函数，不修改档位用量，命中档位后由调用方负责占用名额。
// 加成按 基础 → 档位 → 早鸟 → 低进度 的顺序依次作用于运行小计，
// 全部使用整数截断除法。早鸟与低进度各自独立判定，可叠加：
// 开局首笔贡献两项皆中，无档位时每单位资金得 100×1.2×1.1=132。
func Allocate(amount, raisedBefore, fundingGoal, elapsed, duration int64, tiers []model.TierModel) (Allocation, error) {
	if amount <= 0 {
		return Allocation{}, model.ErrInvalidAmount
	}
	if duration <= 0 {
		return Allocation{}, model.ErrInvalidDuration
	}
	if fundingGoal <= 0 {
		return Allocation{}, model.ErrInvalidGoal
	}

	subtotal := amount * BaseRate
	tierIndex := NoTier

	// 档位加成：从最高档向下找第一个区间包含且有名额的档位，
	// 名额耗尽时静默落入更低档位
	if tier := bestFitTier(amount, tiers); tier != nil {
		subtotal = subtotal * tier.BonusBps / bpsDenominator
		tierIndex = tier.TierIndex
	}

	// 早鸟加成：前25%时间内
	if elapsed*4 <= duration {
		subtotal = subtotal * EarlyBirdBps / bpsDenominator
	}

	// 低进度加成：此前募资进度低于目标的50%
	if raisedBefore*2 < fundingGoal {
		subtotal = subtotal * LowFundingBps / bpsDenominator
	}

	return Allocation{Tokens: subtotal, TierIndex: tierIndex}, nil
}

// bestFitTier 从最高 MinContribution 向下扫描，取区间包含且有名额的档位
func bestFitTier(amount int64, tiers []model.TierModel) *model.TierModel {
	for i := len(tiers) - 1; i >= 0; i-- {
		t := &tiers[i]
		if t.Contains(amount) && t.HasCapacity() {
			return t
		}
	}
	return nil
}
