package logic

import (
	"errors"
	"fmt"
	"time"

	"github.com/blues/lfs/internal/logger"
	"github.com/blues/lfs/internal/model"
	"github.com/blues/lfs/internal/token"
	"gorm.io/gorm"
)

// VoteLogic 社区投票业务逻辑：代币加权投票可强制取消活动
type VoteLogic struct {
	db        *gorm.DB
	ledger    token.Ledger
	campaigns *CampaignLogic
	window    time.Duration
	now       func() time.Time
}

// NewVoteLogic 创建投票业务逻辑
func NewVoteLogic(db *gorm.DB, ledger token.Ledger, campaigns *CampaignLogic, windowHours int) *VoteLogic {
	if windowHours <= 0 {
		windowHours = 168
	}
	return &VoteLogic{
		db:        db,
		ledger:    ledger,
		campaigns: campaigns,
		window:    time.Duration(windowHours) * time.Hour,
		now:       time.Now,
	}
}

// weightOf 读取投票权重，取调用时的实时余额
func (v *VoteLogic) weightOf(addr string) (int64, error) {
	weight, err := v.ledger.BalanceOf(addr)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", model.ErrLedgerFailed, err)
	}
	return weight, nil
}

// InitiateVote 对活动发起取消投票，窗口固定
func (v *VoteLogic) InitiateVote(campaignId int64, initiator, reason string) (int64, error) {
	if initiator == "" {
		return 0, model.ErrEmptyAddress
	}
	if reason == "" {
		return 0, model.ErrEmptyReason
	}

	weight, err := v.weightOf(initiator)
	if err != nil {
		return 0, err
	}
	if weight == 0 {
		return 0, model.ErrNoVotingPower
	}

	unlock := v.campaigns.locks.Lock(campaignId)
	defer unlock()

	now := v.now()
	tx := v.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	campaign, err := loadCampaign(tx, campaignId)
	if err != nil {
		tx.Rollback()
		return 0, err
	}

	// 已经可退款或已取消的活动不再需要投票
	if campaign.Status.IsTerminal() {
		tx.Rollback()
		return 0, model.ErrWrongState
	}

	var activeCount int64
	if err := tx.Model(&model.CommunityVoteModel{}).
		Where("campaign_id = ? AND status = ?", campaignId, model.VoteStatusActive).
		Count(&activeCount).Error; err != nil {
		tx.Rollback()
		return 0, err
	}
	if activeCount > 0 {
		tx.Rollback()
		return 0, model.ErrVoteInProgress
	}

	vote := model.CommunityVoteModel{
		CampaignId: campaignId,
		Initiator:  initiator,
		Reason:     reason,
		StartTime:  now,
		EndTime:    now.Add(v.window),
		Status:     model.VoteStatusActive,
	}
	if err := tx.Create(&vote).Error; err != nil {
		tx.Rollback()
		return 0, err
	}

	if err := tx.Commit().Error; err != nil {
		return 0, err
	}

	logger.Info("Vote %d initiated on campaign %d by %s: %s", vote.Id, campaignId, initiator, reason)
	return vote.Id, nil
}

// CastVote 投票，权重取投票时的实时余额，每个地址只能投一次
func (v *VoteLogic) CastVote(voteId int64, voter string, choice model.VoteChoice, comment string) error {
	if voter == "" {
		return model.ErrEmptyAddress
	}
	if choice != model.VoteChoiceFor && choice != model.VoteChoiceAgainst {
		return model.ErrInvalidChoice
	}

	vote, err := v.loadVote(voteId)
	if err != nil {
		return err
	}

	unlock := v.campaigns.locks.Lock(vote.CampaignId)
	defer unlock()

	weight, err := v.weightOf(voter)
	if err != nil {
		return err
	}
	if weight == 0 {
		return model.ErrNoVotingPower
	}

	now := v.now()
	tx := v.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	// 持锁后重新读取，避免与执行并发
	if err := tx.First(vote, voteId).Error; err != nil {
		tx.Rollback()
		return err
	}
	if vote.Status != model.VoteStatusActive {
		tx.Rollback()
		return model.ErrVoteNotActive
	}
	if now.After(vote.EndTime) {
		tx.Rollback()
		return model.ErrVotingClosed
	}

	var existing int64
	if err := tx.Model(&model.VoteRecordModel{}).
		Where("vote_id = ? AND voter = ?", voteId, voter).
		Count(&existing).Error; err != nil {
		tx.Rollback()
		return err
	}
	if existing > 0 {
		tx.Rollback()
		return model.ErrAlreadyVoted
	}

	record := model.VoteRecordModel{
		VoteId:  voteId,
		Voter:   voter,
		Choice:  choice,
		Weight:  weight,
		Comment: comment,
	}
	if err := tx.Create(&record).Error; err != nil {
		tx.Rollback()
		return err
	}

	column := "against_weight"
	if choice == model.VoteChoiceFor {
		column = "for_weight"
	}
	if err := tx.Model(vote).Update(column, gorm.Expr(column+" + ?", weight)).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return err
	}

	logger.Info("Vote %d: %s cast %s with weight %d", voteId, voter, choice, weight)
	return nil
}

// CheckThreshold 按已投权重计算是否过半
func (v *VoteLogic) CheckThreshold(voteId int64) (bool, error) {
	vote, err := v.loadVote(voteId)
	if err != nil {
		return false, err
	}
	return thresholdMet(vote), nil
}

// thresholdMet 支持权重占已投总权重的50%及以上
func thresholdMet(vote *model.CommunityVoteModel) bool {
	total := vote.ForWeight + vote.AgainstWeight
	if total == 0 {
		return false
	}
	return vote.ForWeight*2 >= total
}

// ExecuteVote 投票窗口结束后执行一次。通过则无视当前状态强制取消活动，
// 包括已提取的活动；已提取的资金不做追回。
func (v *VoteLogic) ExecuteVote(voteId int64) (bool, error) {
	vote, err := v.loadVote(voteId)
	if err != nil {
		return false, err
	}

	unlock := v.campaigns.locks.Lock(vote.CampaignId)
	defer unlock()

	now := v.now()
	tx := v.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := tx.First(vote, voteId).Error; err != nil {
		tx.Rollback()
		return false, err
	}
	if vote.Status != model.VoteStatusActive {
		tx.Rollback()
		return false, model.ErrVoteNotActive
	}
	if !now.After(vote.EndTime) {
		tx.Rollback()
		return false, model.ErrVotingNotEnded
	}

	passed := thresholdMet(vote)
	status := model.VoteStatusFailed
	if passed {
		status = model.VoteStatusPassed
	}

	updates := map[string]interface{}{
		"status":   status,
		"executed": true,
	}
	if err := tx.Model(vote).Updates(updates).Error; err != nil {
		tx.Rollback()
		return false, err
	}

	if passed {
		if err := tx.Model(&model.CampaignModel{}).
			Where("id = ?", vote.CampaignId).
			Update("status", model.CampaignStatusCancelled).Error; err != nil {
			tx.Rollback()
			return false, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return false, err
	}

	logger.Info("Vote %d executed: passed=%v, campaign %d", voteId, passed, vote.CampaignId)
	return passed, nil
}

// GetVoteStatus 获取投票详情
func (v *VoteLogic) GetVoteStatus(campaignId, voteId int64) (*model.CommunityVoteModel, error) {
	vote, err := v.loadVote(voteId)
	if err != nil {
		return nil, err
	}
	if vote.CampaignId != campaignId {
		return nil, model.ErrVoteNotFound
	}
	return vote, nil
}

// ListVoteRecords 获取投票明细
func (v *VoteLogic) ListVoteRecords(voteId int64) ([]model.VoteRecordModel, error) {
	var records []model.VoteRecordModel
	if err := v.db.Where("vote_id = ?", voteId).Order("created_at ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// ListExpiredActiveVotes 获取窗口已结束但尚未执行的投票
func (v *VoteLogic) ListExpiredActiveVotes() ([]model.CommunityVoteModel, error) {
	var votes []model.CommunityVoteModel
	if err := v.db.Where("status = ? AND end_time <= ?", model.VoteStatusActive, v.now()).
		Find(&votes).Error; err != nil {
		return nil, err
	}
	return votes, nil
}

// loadVote 读取投票记录
func (v *VoteLogic) loadVote(voteId int64) (*model.CommunityVoteModel, error) {
	var vote model.CommunityVoteModel
	if err := v.db.First(&vote, voteId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrVoteNotFound
		}
		return nil, err
	}
	return &vote, nil
}
