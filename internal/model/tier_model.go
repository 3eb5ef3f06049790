package model

import (
	"time"
)

// TierModel 贡献档位，按最小金额升序排列，容量有限
type TierModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	CampaignId int64 `json:"campaign_id" gorm:"not null;uniqueIndex:idx_campaign_tier"`
	TierIndex  int   `json:"tier_index" gorm:"not null;uniqueIndex:idx_campaign_tier"`

	MinContribution int64 `json:"min_contribution" gorm:"not null"`
	MaxContribution int64 `json:"max_contribution" gorm:"default:0"` // 0 表示不设上限
	BonusBps        int64 `json:"bonus_bps" gorm:"not null"`         // 万分比倍率，12000 = +20%
	Capacity        int64 `json:"capacity" gorm:"not null"`
	UsedSlots       int64 `json:"used_slots" gorm:"default:0"`
}

// TableName 自定义表名
func (TierModel) TableName() string {
	return "contribution_tier"
}

// Contains 金额是否落在该档位区间内
func (t *TierModel) Contains(amount int64) bool {
	if amount < t.MinContribution {
		return false
	}
	if t.MaxContribution > 0 && amount > t.MaxContribution {
		return false
	}
	return true
}

// HasCapacity 是否还有剩余名额
func (t *TierModel) HasCapacity() bool {
	return t.UsedSlots < t.Capacity
}
