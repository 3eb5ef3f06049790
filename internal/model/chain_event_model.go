package model

import (
	"time"
)

// ChainEventModel 链上事件记录，用于监控断点续传与去重
type ChainEventModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	EventName  string `json:"event_name" gorm:"not null"`
	CampaignId int64  `json:"campaign_id" gorm:"index"`
	Address    string `json:"address"`
	Amount     int64  `json:"amount"`
	TxHash     string `json:"tx_hash" gorm:"index:idx_tx_log,unique"`
	BlockNum   int64  `json:"block_num" gorm:"index"`
	LogIndex   int64  `json:"log_index" gorm:"index:idx_tx_log,unique"`
	Processed  bool   `json:"processed" gorm:"default:false"`
}

// TableName 自定义表名
func (ChainEventModel) TableName() string {
	return "chain_event"
}
