package task

import (
	"time"

	"github.com/blues/lfs/internal/config"
	"github.com/blues/lfs/internal/logger"
	"github.com/blues/lfs/internal/logic"
	"github.com/go-co-op/gocron/v2"
)

// VoteSettleJob 投票结算任务：执行窗口已结束但尚未执行的投票
type VoteSettleJob struct {
	config *config.Config
	votes  *logic.VoteLogic
}

// NewVoteSettleJob 创建投票结算任务
func NewVoteSettleJob(cfg *config.Config, votes *logic.VoteLogic) *VoteSettleJob {
	return &VoteSettleJob{
		config: cfg,
		votes:  votes,
	}
}

// GetName 获取任务名称
func (j *VoteSettleJob) GetName() string {
	return "vote_settler"
}

// GetSchedule 获取调度配置
func (j *VoteSettleJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Duration(j.config.Task.Interval) * time.Second)
}

// Execute 执行任务
func (j *VoteSettleJob) Execute() {
	expired, err := j.votes.ListExpiredActiveVotes()
	if err != nil {
		logger.Error("Failed to list expired votes: %v", err)
		return
	}

	for _, vote := range expired {
		passed, err := j.votes.ExecuteVote(vote.Id)
		if err != nil {
			logger.Error("Failed to execute vote %d: %v", vote.Id, err)
			continue
		}
		logger.Info("Settled vote %d on campaign %d: passed=%v", vote.Id, vote.CampaignId, passed)
	}
}
