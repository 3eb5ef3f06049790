package model

import (
	"time"
)

// EscrowModel 托管账户，每个活动一条
type EscrowModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	CampaignId int64 `json:"campaign_id" gorm:"not null;uniqueIndex"`

	// 托管余额只能通过状态门控的提取/退款/手续费操作减少
	Held       int64 `json:"held" gorm:"default:0"`
	AccruedFee int64 `json:"accrued_fee" gorm:"default:0"`
}

// TableName 自定义表名
func (EscrowModel) TableName() string {
	return "escrow_account"
}
