package logic

import (
	"errors"
	"time"

	"github.com/blues/lfs/internal/model"
	"gorm.io/gorm"
)

// 查询接口：只读，不触发状态推进

// GetCampaign 获取活动详情
func (l *CampaignLogic) GetCampaign(campaignId int64) (*model.CampaignModel, error) {
	return loadCampaign(l.db, campaignId)
}

// GetState 获取活动当前状态
func (l *CampaignLogic) GetState(campaignId int64) (model.CampaignStatus, error) {
	campaign, err := loadCampaign(l.db, campaignId)
	if err != nil {
		return "", err
	}
	return campaign.Status, nil
}

// GetContribution 获取某地址在活动中的贡献记录
func (l *CampaignLogic) GetContribution(campaignId int64, addr string) (*model.ContributionModel, error) {
	var contribution model.ContributionModel
	err := l.db.Where("campaign_id = ? AND address = ?", campaignId, addr).First(&contribution).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, model.ErrNoContribution
	}
	if err != nil {
		return nil, err
	}
	return &contribution, nil
}

// ListCampaigns 获取活动列表，支持状态筛选与分页
func (l *CampaignLogic) ListCampaigns(status string, page, pageSize int) ([]model.CampaignModel, int64, error) {
	query := l.db.Model(&model.CampaignModel{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var campaigns []model.CampaignModel
	offset := (page - 1) * pageSize
	if err := query.Offset(offset).
		Limit(pageSize).
		Order("created_at DESC").
		Find(&campaigns).Error; err != nil {
		return nil, 0, err
	}

	return campaigns, total, nil
}

// ListContributions 获取活动贡献记录，分页
func (l *CampaignLogic) ListContributions(campaignId int64, page, pageSize int) ([]model.ContributionModel, int64, error) {
	var total int64
	if err := l.db.Model(&model.ContributionModel{}).
		Where("campaign_id = ?", campaignId).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var contributions []model.ContributionModel
	offset := (page - 1) * pageSize
	if err := l.db.Where("campaign_id = ?", campaignId).
		Offset(offset).
		Limit(pageSize).
		Order("created_at DESC").
		Find(&contributions).Error; err != nil {
		return nil, 0, err
	}

	return contributions, total, nil
}

// ListCampaignsByRole 按参与者角色反查活动列表
func (l *CampaignLogic) ListCampaignsByRole(addr string, role model.ParticipantRole) ([]model.CampaignModel, error) {
	var ids []int64
	if err := l.db.Model(&model.ParticipantIndexModel{}).
		Where("address = ? AND role = ?", addr, role).
		Pluck("campaign_id", &ids).Error; err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	var campaigns []model.CampaignModel
	if err := l.db.Where("id IN ?", ids).Find(&campaigns).Error; err != nil {
		return nil, err
	}
	return campaigns, nil
}

// GetCampaignStats 获取活动统计信息
func (l *CampaignLogic) GetCampaignStats(campaignId int64) (map[string]interface{}, error) {
	campaign, err := loadCampaign(l.db, campaignId)
	if err != nil {
		return nil, err
	}

	var contributionCount int64
	if err := l.db.Model(&model.ContributionModel{}).
		Where("campaign_id = ?", campaignId).
		Count(&contributionCount).Error; err != nil {
		return nil, err
	}

	// 计算完成百分比
	completionPercentage := float64(0)
	if campaign.FundingGoal > 0 {
		completionPercentage = float64(campaign.TotalRaised) / float64(campaign.FundingGoal) * 100
	}

	// 计算剩余时间
	remainingTime := time.Duration(0)
	if campaign.Status == model.CampaignStatusActive && l.now().Before(campaign.EndTime) {
		remainingTime = campaign.EndTime.Sub(l.now())
	}

	return map[string]interface{}{
		"campaign_id":              campaign.Id,
		"total_raised":             campaign.TotalRaised,
		"funding_goal":             campaign.FundingGoal,
		"completion_percentage":    completionPercentage,
		"total_contributors":       campaign.TotalContributors,
		"contribution_count":       contributionCount,
		"total_tokens_distributed": campaign.TotalTokensDistributed,
		"remaining_time":           remainingTime.String(),
		"status":                   campaign.Status,
	}, nil
}
