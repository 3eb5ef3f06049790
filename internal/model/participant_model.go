package model

import (
	"time"
)

// ParticipantIndexModel 参与者索引，支持按角色反查活动
type ParticipantIndexModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	Address    string          `json:"address" gorm:"not null;uniqueIndex:idx_participant"`
	Role       ParticipantRole `json:"role" gorm:"not null;uniqueIndex:idx_participant"`
	CampaignId int64           `json:"campaign_id" gorm:"not null;uniqueIndex:idx_participant"`
}

// TableName 自定义表名
func (ParticipantIndexModel) TableName() string {
	return "participant_index"
}

// ParticipantRole 参与者角色
type ParticipantRole string

const (
	RoleCreator     ParticipantRole = "creator"     // 创建者
	RoleContributor ParticipantRole = "contributor" // 贡献者
)
