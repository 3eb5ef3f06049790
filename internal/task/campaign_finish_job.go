package task

import (
	"time"

	"github.com/blues/lfs/internal/config"
	"github.com/blues/lfs/internal/logger"
	"github.com/blues/lfs/internal/logic"
	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// CampaignFinishJob 活动到期清扫任务。
// 状态本身在每次变更调用时惰性推进，这里兜底处理长期无人触碰的活动。
type CampaignFinishJob struct {
	db        *gorm.DB
	config    *config.Config
	campaigns *logic.CampaignLogic
}

// NewCampaignFinishJob 创建活动到期清扫任务
func NewCampaignFinishJob(db *gorm.DB, cfg *config.Config, campaigns *logic.CampaignLogic) *CampaignFinishJob {
	return &CampaignFinishJob{
		db:        db,
		config:    cfg,
		campaigns: campaigns,
	}
}

// GetName 获取任务名称
func (j *CampaignFinishJob) GetName() string {
	return "campaign_finish_sweeper"
}

// GetSchedule 获取调度配置
func (j *CampaignFinishJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Duration(j.config.Task.Interval) * time.Second)
}

// Execute 执行任务
func (j *CampaignFinishJob) Execute() {
	logger.Debug("Starting campaign finish sweep")

	advanced, err := j.campaigns.SweepStatuses()
	if err != nil {
		logger.Error("Campaign finish sweep failed: %v", err)
		return
	}

	if advanced > 0 {
		logger.Info("Campaign finish sweep advanced %d campaigns", advanced)
	}
}
