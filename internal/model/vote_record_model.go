package model

import (
	"time"
)

// VoteRecordModel 投票明细，每个投票每个地址一条
type VoteRecordModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	VoteId int64  `json:"vote_id" gorm:"not null;uniqueIndex:idx_vote_voter"`
	Voter  string `json:"voter" gorm:"not null;uniqueIndex:idx_vote_voter"`

	Choice  VoteChoice `json:"choice" gorm:"not null"`
	Weight  int64      `json:"weight" gorm:"not null"` // 投票时的实时余额
	Comment string     `json:"comment" gorm:"type:text"`
}

// TableName 自定义表名
func (VoteRecordModel) TableName() string {
	return "vote_record"
}
