package logic

import (
	"errors"
	"fmt"
	"time"

	"github.com/blues/lfs/internal/config"
	"github.com/blues/lfs/internal/escrow"
	"github.com/blues/lfs/internal/logger"
	"github.com/blues/lfs/internal/model"
	"github.com/blues/lfs/internal/pricing"
	"github.com/blues/lfs/internal/token"
	"gorm.io/gorm"
)

// escrowOwner 托管授权表中本组件的身份标识
const escrowOwner = "campaign_logic"

// 创建参数边界
const (
	minFundingGoal = 100
	maxFundingGoal = 1_000_000_000_000

	minDuration  = time.Minute
	maxDuration  = 90 * 24 * time.Hour
	maxExtension = 30 * 24 * time.Hour

	maxFeeRateBps   = 1000  // 最高10%手续费
	maxReserveBps   = 2000  // 创建者保留最高20%
	maxLiquidityBps = 5000  // 流动性占比最高50%
	minTierBonusBps = 10000 // 档位倍率下限（无加成）
	maxTierBonusBps = 20000 // 档位倍率上限（+100%）
)

// CampaignLogic 活动业务逻辑：状态机、贡献账本与结算
type CampaignLogic struct {
	db     *gorm.DB
	escrow *escrow.Account
	ledger token.Ledger
	cfg    *config.Config
	locks  *lockTable
	now    func() time.Time
}

// NewCampaignLogic 创建活动业务逻辑
func NewCampaignLogic(db *gorm.DB, esc *escrow.Account, ledger token.Ledger, cfg *config.Config) *CampaignLogic {
	l := &CampaignLogic{
		db:     db,
		escrow: esc,
		ledger: ledger,
		cfg:    cfg,
		locks:  newLockTable(),
		now:    time.Now,
	}

	// 服务重启后恢复托管授权表
	var ids []int64
	if err := db.Model(&model.CampaignModel{}).Pluck("id", &ids).Error; err != nil {
		logger.Warn("Failed to restore escrow authorizations: %v", err)
	} else if len(ids) > 0 {
		esc.AuthorizeAll(ids, escrowOwner)
		logger.Info("Restored escrow authorizations for %d campaigns", len(ids))
	}

	return l
}

// TierSpec 创建活动时的档位参数
type TierSpec struct {
	MinContribution int64 `json:"min_contribution"`
	MaxContribution int64 `json:"max_contribution"`
	BonusBps        int64 `json:"bonus_bps"`
	Capacity        int64 `json:"capacity"`
}

// CreateCampaignRequest 创建活动参数
type CreateCampaignRequest struct {
	Title             string                 `json:"title"`
	Description       string                 `json:"description"`
	CreatorAddress    string                 `json:"creator_address"`
	PayAsset          string                 `json:"pay_asset"`
	FundingGoal       int64                  `json:"funding_goal"`
	SoftCap           int64                  `json:"soft_cap"`
	HardCap           int64                  `json:"hard_cap"`
	MinContribution   int64                  `json:"min_contribution"`
	DurationSeconds   int64                  `json:"duration_seconds"`
	FeeRateBps        int64                  `json:"fee_rate_bps"`
	WithdrawalPolicy  model.WithdrawalPolicy `json:"withdrawal_policy"`
	CreatorReserveBps int64                  `json:"creator_reserve_bps"`
	LiquidityBps      int64                  `json:"liquidity_bps"`
	Tiers             []TierSpec             `json:"tiers"`
}

// CreateCampaign 创建活动，校验通过后建立活动、档位表、托管账户与参与者索引
func (l *CampaignLogic) CreateCampaign(req *CreateCampaignRequest) (int64, error) {
	if err := l.validateCreate(req); err != nil {
		return 0, err
	}

	now := l.now()
	campaign := model.CampaignModel{
		Title:             req.Title,
		Description:       req.Description,
		CreatorAddress:    req.CreatorAddress,
		PayAsset:          req.PayAsset,
		FundingGoal:       req.FundingGoal,
		SoftCap:           req.SoftCap,
		HardCap:           req.HardCap,
		MinContribution:   req.MinContribution,
		StartTime:         now,
		EndTime:           now.Add(time.Duration(req.DurationSeconds) * time.Second),
		FeeRateBps:        req.FeeRateBps,
		WithdrawalPolicy:  req.WithdrawalPolicy,
		Status:            model.CampaignStatusActive,
		CreatorReserveBps: req.CreatorReserveBps,
		LiquidityBps:      req.LiquidityBps,
	}
	if campaign.PayAsset == "" {
		campaign.PayAsset = "ETH"
	}
	if campaign.MinContribution <= 0 {
		campaign.MinContribution = 1
	}
	if campaign.WithdrawalPolicy == "" {
		campaign.WithdrawalPolicy = model.WithdrawalPolicyGoalRequired
	}
	if campaign.FeeRateBps == 0 {
		campaign.FeeRateBps = l.cfg.Funding.FeeRateBps
	}

	tx := l.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := tx.Create(&campaign).Error; err != nil {
		tx.Rollback()
		return 0, err
	}

	for i, spec := range req.Tiers {
		tier := model.TierModel{
			CampaignId:      campaign.Id,
			TierIndex:       i,
			MinContribution: spec.MinContribution,
			MaxContribution: spec.MaxContribution,
			BonusBps:        spec.BonusBps,
			Capacity:        spec.Capacity,
		}
		if err := tx.Create(&tier).Error; err != nil {
			tx.Rollback()
			return 0, err
		}
	}

	if err := tx.Create(&model.EscrowModel{CampaignId: campaign.Id}).Error; err != nil {
		tx.Rollback()
		return 0, err
	}

	index := model.ParticipantIndexModel{
		Address:    campaign.CreatorAddress,
		Role:       model.RoleCreator,
		CampaignId: campaign.Id,
	}
	if err := tx.Create(&index).Error; err != nil {
		tx.Rollback()
		return 0, err
	}

	if err := tx.Commit().Error; err != nil {
		return 0, err
	}

	l.escrow.Authorize(campaign.Id, escrowOwner)
	logger.Info("Created campaign %d by %s, goal %d, deadline %s",
		campaign.Id, campaign.CreatorAddress, campaign.FundingGoal, campaign.EndTime)

	return campaign.Id, nil
}

// validateCreate 校验创建参数
func (l *CampaignLogic) validateCreate(req *CreateCampaignRequest) error {
	if req.CreatorAddress == "" {
		return model.ErrEmptyAddress
	}
	if req.FundingGoal < minFundingGoal || req.FundingGoal > maxFundingGoal {
		return model.ErrInvalidGoal
	}
	duration := time.Duration(req.DurationSeconds) * time.Second
	if duration < minDuration || duration > maxDuration {
		return model.ErrInvalidDuration
	}
	if req.HardCap > 0 && req.HardCap < req.FundingGoal {
		return model.ErrInvalidGoal
	}
	if req.SoftCap < 0 || req.SoftCap > req.FundingGoal {
		return model.ErrInvalidGoal
	}
	if req.FeeRateBps < 0 || req.FeeRateBps > maxFeeRateBps {
		return model.ErrInvalidPercentage
	}
	if req.CreatorReserveBps < 0 || req.CreatorReserveBps > maxReserveBps {
		return model.ErrInvalidPercentage
	}
	if req.LiquidityBps < 0 || req.LiquidityBps > maxLiquidityBps {
		return model.ErrInvalidPercentage
	}
	if req.WithdrawalPolicy != "" &&
		req.WithdrawalPolicy != model.WithdrawalPolicyFlexible &&
		req.WithdrawalPolicy != model.WithdrawalPolicyGoalRequired {
		return model.ErrInvalidTierTable
	}

	// 档位表必须按最小金额严格升序，容量为正，倍率有界
	prevMin := int64(0)
	for _, spec := range req.Tiers {
		if spec.MinContribution <= prevMin {
			return model.ErrInvalidTierTable
		}
		if spec.MaxContribution > 0 && spec.MaxContribution < spec.MinContribution {
			return model.ErrInvalidTierTable
		}
		if spec.Capacity <= 0 {
			return model.ErrInvalidTierTable
		}
		if spec.BonusBps < minTierBonusBps || spec.BonusBps > maxTierBonusBps {
			return model.ErrInvalidTierTable
		}
		prevMin = spec.MinContribution
	}

	return nil
}

// nextStatus 惰性状态推进：每次变更调用时重算
func nextStatus(c *model.CampaignModel, now time.Time) model.CampaignStatus {
	switch c.Status {
	case model.CampaignStatusActive:
		if c.TotalRaised >= c.FundingGoal {
			return model.CampaignStatusSuccessful
		}
		if now.After(c.EndTime) {
			if c.WithdrawalPolicy == model.WithdrawalPolicyFlexible {
				return model.CampaignStatusSuccessful
			}
			return model.CampaignStatusFailed
		}
	case model.CampaignStatusFailed:
		return model.CampaignStatusRefundsAvailable
	}
	return c.Status
}

// refreshStatus 推进并持久化状态，调用方须容忍状态在任意变更调用中改变
func (l *CampaignLogic) refreshStatus(tx *gorm.DB, c *model.CampaignModel, now time.Time) error {
	next := nextStatus(c, now)
	if next == c.Status {
		return nil
	}
	if err := tx.Model(c).Update("status", next).Error; err != nil {
		return err
	}
	c.Status = next
	logger.Info("Campaign %d status advanced to %s", c.Id, next)
	return nil
}

// loadCampaign 读取活动记录
func loadCampaign(tx *gorm.DB, campaignId int64) (*model.CampaignModel, error) {
	var c model.CampaignModel
	if err := tx.First(&c, campaignId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrCampaignNotFound
		}
		return nil, err
	}
	return &c, nil
}

// AdvanceStatus 单独推进一个活动的状态，定时清扫任务使用
func (l *CampaignLogic) AdvanceStatus(campaignId int64) error {
	unlock := l.locks.Lock(campaignId)
	defer unlock()

	return l.advanceStatus(campaignId, l.now())
}

// advanceStatus 在独立事务中推进并提交状态，调用方须已持有活动锁。
// 状态推进是每次变更调用的副作用，调用本身被拒绝时推进也要保留，
// 所以不和操作自身的事务共用回滚边界。
func (l *CampaignLogic) advanceStatus(campaignId int64, now time.Time) error {
	tx := l.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	campaign, err := loadCampaign(tx, campaignId)
	if err != nil {
		tx.Rollback()
		return err
	}
	if err := l.refreshStatus(tx, campaign, now); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

// SweepStatuses 批量推进到期活动的状态，返回推进数量
func (l *CampaignLogic) SweepStatuses() (int, error) {
	now := l.now()
	var ids []int64
	if err := l.db.Model(&model.CampaignModel{}).
		Where("(status = ? AND end_time <= ?) OR status = ?",
			model.CampaignStatusActive, now, model.CampaignStatusFailed).
		Pluck("id", &ids).Error; err != nil {
		return 0, err
	}

	advanced := 0
	for _, id := range ids {
		if err := l.AdvanceStatus(id); err != nil {
			logger.Error("Failed to advance campaign %d status: %v", id, err)
			continue
		}
		advanced++
	}
	return advanced, nil
}

// Contribute 向活动贡献资金并计算奖励代币分配。
// 奖励代币在活动成功后由贡献者显式领取，这里只记录分配。
func (l *CampaignLogic) Contribute(campaignId int64, addr string, amount int64) (*model.ContributionModel, error) {
	if addr == "" {
		return nil, model.ErrEmptyAddress
	}
	if amount <= 0 {
		return nil, model.ErrInvalidAmount
	}

	unlock := l.locks.Lock(campaignId)
	defer unlock()

	now := l.now()
	if err := l.advanceStatus(campaignId, now); err != nil {
		return nil, err
	}

	release, err := l.escrow.Enter(campaignId, escrowOwner, escrow.OpContribute)
	if err != nil {
		return nil, err
	}
	defer release()

	tx := l.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	campaign, err := loadCampaign(tx, campaignId)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if campaign.Status != model.CampaignStatusActive {
		tx.Rollback()
		return nil, model.ErrWrongState
	}
	if addr == campaign.CreatorAddress {
		tx.Rollback()
		return nil, model.ErrCreatorContribute
	}
	if amount < campaign.MinContribution {
		tx.Rollback()
		return nil, model.ErrBelowMinimum
	}
	if campaign.HardCap > 0 && campaign.TotalRaised+amount > campaign.HardCap {
		tx.Rollback()
		return nil, model.ErrHardCapExceeded
	}

	var tiers []model.TierModel
	if err := tx.Where("campaign_id = ?", campaignId).
		Order("tier_index ASC").
		Find(&tiers).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	elapsed := int64(now.Sub(campaign.StartTime).Seconds())
	duration := int64(campaign.EndTime.Sub(campaign.StartTime).Seconds())
	alloc, err := pricing.Allocate(amount, campaign.TotalRaised, campaign.FundingGoal, elapsed, duration, tiers)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	// 命中档位后占用一个名额
	if alloc.TierIndex != pricing.NoTier {
		if err := tx.Model(&model.TierModel{}).
			Where("campaign_id = ? AND tier_index = ?", campaignId, alloc.TierIndex).
			Update("used_slots", gorm.Expr("used_slots + 1")).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	// 更新或创建贡献记录，金额与分配累计
	var contribution model.ContributionModel
	newContributor := false
	err = tx.Where("campaign_id = ? AND address = ?", campaignId, addr).First(&contribution).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		newContributor = true
		contribution = model.ContributionModel{
			CampaignId:         campaignId,
			Address:            addr,
			Amount:             amount,
			TokenAllocation:    alloc.Tokens,
			TierIndex:          alloc.TierIndex,
			FirstContributedAt: now,
			LastContributedAt:  now,
		}
		if err := tx.Create(&contribution).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
		index := model.ParticipantIndexModel{
			Address:    addr,
			Role:       model.RoleContributor,
			CampaignId: campaignId,
		}
		if err := tx.Create(&index).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	case err != nil:
		tx.Rollback()
		return nil, err
	default:
		updates := map[string]interface{}{
			"amount":              gorm.Expr("amount + ?", amount),
			"token_allocation":    gorm.Expr("token_allocation + ?", alloc.Tokens),
			"tier_index":          alloc.TierIndex,
			"last_contributed_at": now,
		}
		if err := tx.Model(&contribution).Updates(updates).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
		contribution.Amount += amount
		contribution.TokenAllocation += alloc.Tokens
		contribution.TierIndex = alloc.TierIndex
	}

	// 更新活动统计，达到目标金额则在本次调用内转为成功
	updates := map[string]interface{}{
		"total_raised":             gorm.Expr("total_raised + ?", amount),
		"total_tokens_distributed": gorm.Expr("total_tokens_distributed + ?", alloc.Tokens),
	}
	if newContributor {
		updates["total_contributors"] = gorm.Expr("total_contributors + 1")
	}
	if campaign.TotalRaised+amount >= campaign.FundingGoal {
		updates["status"] = model.CampaignStatusSuccessful
	}
	if err := tx.Model(campaign).Updates(updates).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	// 本地账目全部就位后才发起外部划转，失败则整体回滚
	if err := l.escrow.Deposit(tx, campaignId, addr, campaign.PayAsset, amount); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	logger.Info("Contribution of %d from %s to campaign %d, allocated %d tokens (tier %d)",
		amount, addr, campaignId, alloc.Tokens, alloc.TierIndex)

	return &contribution, nil
}

// ClaimTokens 领取预先计算的奖励代币分配
func (l *CampaignLogic) ClaimTokens(campaignId int64, addr string) (int64, error) {
	unlock := l.locks.Lock(campaignId)
	defer unlock()

	if err := l.advanceStatus(campaignId, l.now()); err != nil {
		return 0, err
	}

	release, err := l.escrow.Enter(campaignId, escrowOwner, escrow.OpClaim)
	if err != nil {
		return 0, err
	}
	defer release()

	tx := l.db.Begin()
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

	if !campaign.Status.IsClaimable() {
		tx.Rollback()
		return 0, model.ErrWrongState
	}

	var contribution model.ContributionModel
	err = tx.Where("campaign_id = ? AND address = ?", campaignId, addr).First(&contribution).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && contribution.Amount == 0) {
		tx.Rollback()
		return 0, model.ErrNoContribution
	}
	if err != nil {
		tx.Rollback()
		return 0, err
	}
	if contribution.Claimed {
		tx.Rollback()
		return 0, model.ErrAlreadyClaimed
	}

	// 先落已领取标记，再调用外部账本铸币
	if err := tx.Model(&contribution).Update("claimed", true).Error; err != nil {
		tx.Rollback()
		return 0, err
	}
	if err := l.ledger.Mint(addr, contribution.TokenAllocation); err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("%w: %v", model.ErrLedgerFailed, err)
	}

	if err := tx.Commit().Error; err != nil {
		return 0, err
	}

	logger.Info("Claimed %d tokens for %s on campaign %d", contribution.TokenAllocation, addr, campaignId)
	return contribution.TokenAllocation, nil
}

// ClaimRefund 领取退款：清零金额、销毁已铸代币、归还托管资金。
// 已提取部分不做追回，退款只使用仍在托管中的资金。
func (l *CampaignLogic) ClaimRefund(campaignId int64, addr string) (int64, error) {
	unlock := l.locks.Lock(campaignId)
	defer unlock()

	if err := l.advanceStatus(campaignId, l.now()); err != nil {
		return 0, err
	}

	release, err := l.escrow.Enter(campaignId, escrowOwner, escrow.OpRefund)
	if err != nil {
		return 0, err
	}
	defer release()

	tx := l.db.Begin()
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

	if !campaign.Status.IsRefundable() {
		tx.Rollback()
		return 0, model.ErrRefundsNotAvailable
	}

	var contribution model.ContributionModel
	err = tx.Where("campaign_id = ? AND address = ?", campaignId, addr).First(&contribution).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && contribution.Amount == 0) {
		tx.Rollback()
		return 0, model.ErrNoContribution
	}
	if err != nil {
		tx.Rollback()
		return 0, err
	}

	held, err := l.escrow.Held(tx, campaignId)
	if err != nil {
		tx.Rollback()
		return 0, err
	}
	// Updates 会把映射值写回结构体字段，后面还要用原始金额，先取出来
	refundable := contribution.Amount
	burned := int64(0)
	if contribution.Claimed {
		burned = contribution.TokenAllocation
	}

	refund := refundable
	if refund > held {
		refund = held
	}
	if refund == 0 {
		tx.Rollback()
		return 0, model.ErrNoFunds
	}

	// 金额清零、标记已退款；已领取的分配先销毁再解除领取标记，
	// 保证同一记录不会同时处于已领取与已退款
	updates := map[string]interface{}{
		"amount":   0,
		"refunded": true,
	}
	if burned > 0 {
		updates["claimed"] = false
		updates["token_allocation"] = 0
	}
	if err := tx.Model(&contribution).Updates(updates).Error; err != nil {
		tx.Rollback()
		return 0, err
	}

	campaignUpdates := map[string]interface{}{
		"total_raised": gorm.Expr("total_raised - ?", refundable),
	}
	if burned > 0 {
		campaignUpdates["total_tokens_distributed"] = gorm.Expr("total_tokens_distributed - ?", burned)
	}
	if err := tx.Model(campaign).Updates(campaignUpdates).Error; err != nil {
		tx.Rollback()
		return 0, err
	}

	if burned > 0 {
		if err := l.ledger.Burn(addr, burned); err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("%w: %v", model.ErrLedgerFailed, err)
		}
	}
	if err := l.escrow.PayOut(tx, campaignId, addr, campaign.PayAsset, refund); err != nil {
		tx.Rollback()
		return 0, err
	}

	if err := tx.Commit().Error; err != nil {
		return 0, err
	}

	logger.Info("Refunded %d to %s on campaign %d", refund, addr, campaignId)
	return refund, nil
}

// WithdrawFunds 创建者提取募得资金，扣除平台手续费
func (l *CampaignLogic) WithdrawFunds(campaignId int64, caller string) (int64, error) {
	unlock := l.locks.Lock(campaignId)
	defer unlock()

	if err := l.advanceStatus(campaignId, l.now()); err != nil {
		return 0, err
	}

	release, err := l.escrow.Enter(campaignId, escrowOwner, escrow.OpWithdraw)
	if err != nil {
		return 0, err
	}
	defer release()

	tx := l.db.Begin()
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

	if caller != campaign.CreatorAddress {
		tx.Rollback()
		return 0, model.ErrNotCreator
	}
	if campaign.CreatorWithdrawn {
		tx.Rollback()
		return 0, model.ErrAlreadyWithdrawn
	}

	withdrawable := campaign.Status == model.CampaignStatusSuccessful ||
		(campaign.Status == model.CampaignStatusActive &&
			campaign.WithdrawalPolicy == model.WithdrawalPolicyFlexible)
	if !withdrawable {
		tx.Rollback()
		return 0, model.ErrWrongState
	}
	if campaign.TotalRaised == 0 {
		tx.Rollback()
		return 0, model.ErrNoFunds
	}

	fee := campaign.TotalRaised * campaign.FeeRateBps / 10000
	net := campaign.TotalRaised - fee

	updates := map[string]interface{}{
		"creator_withdrawn": true,
		"status":            model.CampaignStatusWithdrawn,
	}
	if err := tx.Model(campaign).Updates(updates).Error; err != nil {
		tx.Rollback()
		return 0, err
	}

	if err := l.escrow.WithdrawSplit(tx, campaignId, campaign.CreatorAddress,
		l.cfg.Funding.FeeRecipient, campaign.PayAsset, net, fee); err != nil {
		tx.Rollback()
		return 0, err
	}

	if err := tx.Commit().Error; err != nil {
		return 0, err
	}

	logger.Info("Creator withdrew %d (fee %d) from campaign %d", net, fee, campaignId)
	return net, nil
}

// ExtendDeadline 延长活动截止时间，单次最多30天
func (l *CampaignLogic) ExtendDeadline(campaignId int64, caller string, newEndTime time.Time) error {
	unlock := l.locks.Lock(campaignId)
	defer unlock()

	if err := l.advanceStatus(campaignId, l.now()); err != nil {
		return err
	}

	tx := l.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	campaign, err := loadCampaign(tx, campaignId)
	if err != nil {
		tx.Rollback()
		return err
	}

	if caller != campaign.CreatorAddress {
		tx.Rollback()
		return model.ErrNotCreator
	}
	if campaign.Status != model.CampaignStatusActive {
		tx.Rollback()
		return model.ErrWrongState
	}
	if !newEndTime.After(campaign.EndTime) {
		tx.Rollback()
		return model.ErrNotLater
	}
	if newEndTime.Sub(campaign.EndTime) > maxExtension {
		tx.Rollback()
		return model.ErrExceedsLimit
	}

	if err := tx.Model(campaign).Update("end_time", newEndTime).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return err
	}

	logger.Info("Extended campaign %d deadline to %s", campaignId, newEndTime)
	return nil
}

// CancelCampaign 创建者或平台管理员取消进行中的活动
func (l *CampaignLogic) CancelCampaign(campaignId int64, caller string) error {
	unlock := l.locks.Lock(campaignId)
	defer unlock()

	if err := l.advanceStatus(campaignId, l.now()); err != nil {
		return err
	}

	tx := l.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	campaign, err := loadCampaign(tx, campaignId)
	if err != nil {
		tx.Rollback()
		return err
	}

	if caller != campaign.CreatorAddress && caller != l.cfg.Funding.AdminAddress {
		tx.Rollback()
		return model.ErrNotAuthorized
	}
	if campaign.Status != model.CampaignStatusActive {
		tx.Rollback()
		return model.ErrWrongState
	}

	if err := tx.Model(campaign).Update("status", model.CampaignStatusCancelled).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return err
	}

	logger.Info("Campaign %d cancelled by %s", campaignId, caller)
	return nil
}
