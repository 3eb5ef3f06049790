package model

import (
	"time"
)

// CampaignModel 众筹活动
type CampaignModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 基本信息
	Title       string `json:"title" gorm:"not null"`
	Description string `json:"description" gorm:"type:text"`

	// 创建者信息
	CreatorAddress string `json:"creator_address" gorm:"not null;index"`

	// 募资信息
	PayAsset        string `json:"pay_asset" gorm:"default:'ETH'"`
	FundingGoal     int64  `json:"funding_goal" gorm:"not null"`
	SoftCap         int64  `json:"soft_cap" gorm:"default:0"`
	HardCap         int64  `json:"hard_cap" gorm:"default:0"`
	MinContribution int64  `json:"min_contribution" gorm:"default:1"`

	// 时间信息
	StartTime time.Time `json:"start_time" gorm:"not null"`
	EndTime   time.Time `json:"end_time" gorm:"not null"`

	// 结算策略
	FeeRateBps       int64            `json:"fee_rate_bps" gorm:"default:0"`
	WithdrawalPolicy WithdrawalPolicy `json:"withdrawal_policy" gorm:"default:'goal_required'"`

	// 状态与统计
	Status                 CampaignStatus `json:"status" gorm:"default:'active';index"`
	TotalRaised            int64          `json:"total_raised" gorm:"default:0"`
	TotalContributors      int64          `json:"total_contributors" gorm:"default:0"`
	TotalTokensDistributed int64          `json:"total_tokens_distributed" gorm:"default:0"`
	CreatorWithdrawn       bool           `json:"creator_withdrawn" gorm:"default:false"`

	// 流动性发射配置（可选）
	CreatorReserveBps int64  `json:"creator_reserve_bps" gorm:"default:0"`
	LiquidityBps      int64  `json:"liquidity_bps" gorm:"default:0"`
	LaunchHandle      string `json:"launch_handle"`
}

// TableName 自定义表名
func (CampaignModel) TableName() string {
	return "campaign"
}

// CampaignStatus 活动状态
type CampaignStatus string

const (
	CampaignStatusActive           CampaignStatus = "active"            // 进行中
	CampaignStatusSuccessful       CampaignStatus = "successful"        // 达成目标
	CampaignStatusFailed           CampaignStatus = "failed"            // 未达成目标
	CampaignStatusCancelled        CampaignStatus = "cancelled"         // 已取消
	CampaignStatusWithdrawn        CampaignStatus = "withdrawn"         // 创建者已提取
	CampaignStatusTokenLaunched    CampaignStatus = "token_launched"    // 已发射流动性
	CampaignStatusRefundsAvailable CampaignStatus = "refunds_available" // 可退款
)

// WithdrawalPolicy 提取策略
type WithdrawalPolicy string

const (
	WithdrawalPolicyFlexible     WithdrawalPolicy = "flexible"      // 随时可提取
	WithdrawalPolicyGoalRequired WithdrawalPolicy = "goal_required" // 达标后可提取
)

// IsRefundable 当前状态是否可退款
func (s CampaignStatus) IsRefundable() bool {
	return s == CampaignStatusFailed ||
		s == CampaignStatusCancelled ||
		s == CampaignStatusRefundsAvailable
}

// IsClaimable 当前状态是否可领取奖励代币
func (s CampaignStatus) IsClaimable() bool {
	return s == CampaignStatusSuccessful ||
		s == CampaignStatusWithdrawn ||
		s == CampaignStatusTokenLaunched
}

// IsTerminal 当前状态是否为终态（投票覆盖除外）
func (s CampaignStatus) IsTerminal() bool {
	return s == CampaignStatusCancelled ||
		s == CampaignStatusFailed ||
		s == CampaignStatusRefundsAvailable
}
