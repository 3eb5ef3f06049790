package model

import (
	"time"
)

// ContributionModel 贡献记录，每个活动每个地址一条，金额累计
type ContributionModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	CampaignId int64  `json:"campaign_id" gorm:"not null;uniqueIndex:idx_campaign_address"`
	Address    string `json:"address" gorm:"not null;uniqueIndex:idx_campaign_address"`

	// 累计金额与奖励代币分配，退款时金额清零但记录保留。
	// TierIndex 不能带默认值标签，否则零值档位在插入时被忽略；
	// 未命中档位时写入方显式存 -1
	Amount          int64 `json:"amount" gorm:"not null;default:0"`
	TokenAllocation int64 `json:"token_allocation" gorm:"default:0"`
	TierIndex       int   `json:"tier_index"`

	Claimed  bool `json:"claimed" gorm:"default:false"`
	Refunded bool `json:"refunded" gorm:"default:false"`

	FirstContributedAt time.Time `json:"first_contributed_at"`
	LastContributedAt  time.Time `json:"last_contributed_at"`
}

// TableName 自定义表名
func (ContributionModel) TableName() string {
	return "contribution"
}
