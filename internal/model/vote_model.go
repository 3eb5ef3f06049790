package model

import (
	"time"
)

// CommunityVoteModel 社区投票，可强制取消疑似欺诈的活动
type CommunityVoteModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	CampaignId int64  `json:"campaign_id" gorm:"not null;index"`
	Initiator  string `json:"initiator" gorm:"not null"`
	Reason     string `json:"reason" gorm:"type:text;not null"`

	StartTime time.Time `json:"start_time" gorm:"not null"`
	EndTime   time.Time `json:"end_time" gorm:"not null"`

	ForWeight     int64      `json:"for_weight" gorm:"default:0"`
	AgainstWeight int64      `json:"against_weight" gorm:"default:0"`
	Status        VoteStatus `json:"status" gorm:"default:'active'"`
	Executed      bool       `json:"executed" gorm:"default:false"`
}

// TableName 自定义表名
func (CommunityVoteModel) TableName() string {
	return "community_vote"
}

// VoteStatus 投票状态
type VoteStatus string

const (
	VoteStatusActive VoteStatus = "active" // 进行中
	VoteStatusPassed VoteStatus = "passed" // 已通过
	VoteStatusFailed VoteStatus = "failed" // 未通过
)

// VoteChoice 投票选项
type VoteChoice string

const (
	VoteChoiceFor     VoteChoice = "for"     // 支持取消
	VoteChoiceAgainst VoteChoice = "against" // 反对取消
)
