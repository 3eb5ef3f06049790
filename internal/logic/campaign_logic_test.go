package logic

import (
	"errors"
	"testing"
	"time"

	"github.com/blues/lfs/internal/config"
	"github.com/blues/lfs/internal/database"
	"github.com/blues/lfs/internal/escrow"
	"github.com/blues/lfs/internal/model"
	"github.com/blues/lfs/internal/token"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type testEnv struct {
	db        *gorm.DB
	bank      *escrow.MemoryBank
	ledger    *token.MemoryLedger
	account   *escrow.Account
	campaigns *CampaignLogic
	now       time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	cfg := &config.Config{
		Funding: config.FundingConfig{
			FeeRateBps:      250,
			FeeRecipient:    "platform",
			AdminAddress:    "admin",
			VoteWindowHours: 168,
		},
	}

	env := &testEnv{
		db:      db,
		bank:    escrow.NewMemoryBank(),
		ledger:  token.NewMemoryLedger(),
		now:     time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}
	env.account = escrow.NewAccount(env.bank)
	env.campaigns = NewCampaignLogic(db, env.account, env.ledger, cfg)
	env.campaigns.now = func() time.Time { return env.now }

	env.bank.SetBalance("alice", 1_000_000)
	env.bank.SetBalance("bob", 1_000_000)

	return env
}

func (e *testEnv) advance(d time.Duration) {
	e.now = e.now.Add(d)
}

func baseRequest() *CreateCampaignRequest {
	return &CreateCampaignRequest{
		Title:           "Community Node Fund",
		CreatorAddress:  "creator",
		PayAsset:        "USDT",
		FundingGoal:     100_000,
		DurationSeconds: 100_000,
	}
}

func (e *testEnv) create(t *testing.T, req *CreateCampaignRequest) int64 {
	t.Helper()
	id, err := e.campaigns.CreateCampaign(req)
	if err != nil {
		t.Fatalf("CreateCampaign failed: %v", err)
	}
	return id
}

func (e *testEnv) status(t *testing.T, id int64) model.CampaignStatus {
	t.Helper()
	var c model.CampaignModel
	if err := e.db.First(&c, id).Error; err != nil {
		t.Fatalf("failed to load campaign %d: %v", id, err)
	}
	return c.Status
}

func TestCreateCampaignValidation(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct {
		name string
		mod  func(*CreateCampaignRequest)
		want error
	}{
		{"empty creator", func(r *CreateCampaignRequest) { r.CreatorAddress = "" }, model.ErrEmptyAddress},
		{"goal too small", func(r *CreateCampaignRequest) { r.FundingGoal = 99 }, model.ErrInvalidGoal},
		{"goal too large", func(r *CreateCampaignRequest) { r.FundingGoal = 2_000_000_000_000 }, model.ErrInvalidGoal},
		{"duration too short", func(r *CreateCampaignRequest) { r.DurationSeconds = 30 }, model.ErrInvalidDuration},
		{"duration too long", func(r *CreateCampaignRequest) { r.DurationSeconds = 91 * 24 * 3600 }, model.ErrInvalidDuration},
		{"hard cap below goal", func(r *CreateCampaignRequest) { r.HardCap = 50_000 }, model.ErrInvalidGoal},
		{"fee too high", func(r *CreateCampaignRequest) { r.FeeRateBps = 1500 }, model.ErrInvalidPercentage},
		{"liquidity too high", func(r *CreateCampaignRequest) { r.LiquidityBps = 6000 }, model.ErrInvalidPercentage},
		{"tier out of order", func(r *CreateCampaignRequest) {
			r.Tiers = []TierSpec{
				{MinContribution: 500, BonusBps: 11000, Capacity: 10},
				{MinContribution: 100, BonusBps: 12000, Capacity: 10},
			}
		}, model.ErrInvalidTierTable},
		{"tier bonus below par", func(r *CreateCampaignRequest) {
			r.Tiers = []TierSpec{{MinContribution: 100, BonusBps: 9000, Capacity: 10}}
		}, model.ErrInvalidTierTable},
		{"tier zero capacity", func(r *CreateCampaignRequest) {
			r.Tiers = []TierSpec{{MinContribution: 100, BonusBps: 11000, Capacity: 0}}
		}, model.ErrInvalidTierTable},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := baseRequest()
			tc.mod(req)
			_, err := env.campaigns.CreateCampaign(req)
			if !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestContributeAllocatesTokens(t *testing.T) {
	env := newTestEnv(t)
	id := env.create(t, baseRequest())

	// 起步期且募资为零：基础100/单位，早鸟+20%，低募资再+10%
	contribution, err := env.campaigns.Contribute(id, "alice", 1000)
	if err != nil {
		t.Fatalf("Contribute failed: %v", err)
	}
	if contribution.TokenAllocation != 132_000 {
		t.Fatalf("token allocation = %d, want 132000", contribution.TokenAllocation)
	}

	if got := env.bank.BalanceOf("alice"); got != 999_000 {
		t.Fatalf("alice balance = %d, want 999000", got)
	}
	if got := env.bank.Custody(); got != 1000 {
		t.Fatalf("custody = %d, want 1000", got)
	}

	var esc model.EscrowModel
	if err := env.db.Where("campaign_id = ?", id).First(&esc).Error; err != nil {
		t.Fatalf("failed to load escrow: %v", err)
	}
	if esc.Held != 1000 {
		t.Fatalf("escrow held = %d, want 1000", esc.Held)
	}
}

func TestContributeAccumulates(t *testing.T) {
	env := newTestEnv(t)
	id := env.create(t, baseRequest())

	if _, err := env.campaigns.Contribute(id, "alice", 500); err != nil {
		t.Fatalf("first contribution failed: %v", err)
	}
	second, err := env.campaigns.Contribute(id, "alice", 300)
	if err != nil {
		t.Fatalf("second contribution failed: %v", err)
	}
	if second.Amount != 800 {
		t.Fatalf("cumulative amount = %d, want 800", second.Amount)
	}

	var c model.CampaignModel
	if err := env.db.First(&c, id).Error; err != nil {
		t.Fatal(err)
	}
	if c.TotalContributors != 1 {
		t.Fatalf("total contributors = %d, want 1", c.TotalContributors)
	}
	if c.TotalRaised != 800 {
		t.Fatalf("total raised = %d, want 800", c.TotalRaised)
	}
}

func TestContributeGuards(t *testing.T) {
	env := newTestEnv(t)
	req := baseRequest()
	req.MinContribution = 50
	req.HardCap = 100_000
	id := env.create(t, req)

	if _, err := env.campaigns.Contribute(id, "creator", 100); !errors.Is(err, model.ErrCreatorContribute) {
		t.Fatalf("creator contribution: got %v, want ErrCreatorContribute", err)
	}
	if _, err := env.campaigns.Contribute(id, "alice", 10); !errors.Is(err, model.ErrBelowMinimum) {
		t.Fatalf("below minimum: got %v, want ErrBelowMinimum", err)
	}
	if _, err := env.campaigns.Contribute(id, "alice", 0); !errors.Is(err, model.ErrInvalidAmount) {
		t.Fatalf("zero amount: got %v, want ErrInvalidAmount", err)
	}
	if _, err := env.campaigns.Contribute(id, "alice", 100_001); !errors.Is(err, model.ErrHardCapExceeded) {
		t.Fatalf("hard cap: got %v, want ErrHardCapExceeded", err)
	}
	// 不存在的活动先于托管授权校验报不存在
	if _, err := env.campaigns.Contribute(9999, "alice", 100); !errors.Is(err, model.ErrCampaignNotFound) {
		t.Fatalf("unknown campaign: got %v, want ErrCampaignNotFound", err)
	}
}

func TestGoalReachedClosesCampaign(t *testing.T) {
	env := newTestEnv(t)
	id := env.create(t, baseRequest())

	if _, err := env.campaigns.Contribute(id, "alice", 100_000); err != nil {
		t.Fatalf("Contribute failed: %v", err)
	}
	if got := env.status(t, id); got != model.CampaignStatusSuccessful {
		t.Fatalf("status = %s, want successful", got)
	}

	// 达标后不再接受贡献
	if _, err := env.campaigns.Contribute(id, "bob", 100); !errors.Is(err, model.ErrWrongState) {
		t.Fatalf("got %v, want ErrWrongState", err)
	}
}

func TestDeadlinePassedFailsCampaign(t *testing.T) {
	env := newTestEnv(t)
	id := env.create(t, baseRequest())

	if _, err := env.campaigns.Contribute(id, "alice", 1000); err != nil {
		t.Fatal(err)
	}

	env.advance(200_000 * time.Second)
	if _, err := env.campaigns.Contribute(id, "bob", 100); !errors.Is(err, model.ErrWrongState) {
		t.Fatalf("got %v, want ErrWrongState", err)
	}
	if got := env.status(t, id); got != model.CampaignStatusFailed {
		t.Fatalf("status = %s, want failed", got)
	}
}

func TestRejectedCallStillAdvancesStatus(t *testing.T) {
	env := newTestEnv(t)
	id := env.create(t, baseRequest())

	if _, err := env.campaigns.Contribute(id, "alice", 1000); err != nil {
		t.Fatal(err)
	}

	// 被拒绝的领取调用同样把状态推进落库
	env.advance(200_000 * time.Second)
	if _, err := env.campaigns.ClaimTokens(id, "alice"); !errors.Is(err, model.ErrWrongState) {
		t.Fatalf("got %v, want ErrWrongState", err)
	}
	if got := env.status(t, id); got != model.CampaignStatusFailed {
		t.Fatalf("status = %s, want failed", got)
	}

	// 下一次触碰推进到可退款
	if err := env.campaigns.ExtendDeadline(id, "creator", env.now.Add(time.Hour)); !errors.Is(err, model.ErrWrongState) {
		t.Fatalf("got %v, want ErrWrongState", err)
	}
	if got := env.status(t, id); got != model.CampaignStatusRefundsAvailable {
		t.Fatalf("status = %s, want refunds_available", got)
	}
}

func TestClaimTokens(t *testing.T) {
	env := newTestEnv(t)
	id := env.create(t, baseRequest())

	contribution, err := env.campaigns.Contribute(id, "alice", 100_000)
	if err != nil {
		t.Fatal(err)
	}

	claimed, err := env.campaigns.ClaimTokens(id, "alice")
	if err != nil {
		t.Fatalf("ClaimTokens failed: %v", err)
	}
	if claimed != contribution.TokenAllocation {
		t.Fatalf("claimed = %d, want %d", claimed, contribution.TokenAllocation)
	}

	balance, err := env.ledger.BalanceOf("alice")
	if err != nil {
		t.Fatal(err)
	}
	if balance != contribution.TokenAllocation {
		t.Fatalf("ledger balance = %d, want %d", balance, contribution.TokenAllocation)
	}

	// 重复领取失败且余额不变
	if _, err := env.campaigns.ClaimTokens(id, "alice"); !errors.Is(err, model.ErrAlreadyClaimed) {
		t.Fatalf("got %v, want ErrAlreadyClaimed", err)
	}
	balance, _ = env.ledger.BalanceOf("alice")
	if balance != contribution.TokenAllocation {
		t.Fatalf("balance after duplicate claim = %d, want %d", balance, contribution.TokenAllocation)
	}
}

func TestClaimTokensGuards(t *testing.T) {
	env := newTestEnv(t)
	id := env.create(t, baseRequest())

	if _, err := env.campaigns.Contribute(id, "alice", 1000); err != nil {
		t.Fatal(err)
	}

	// 活动未成功不能领取
	if _, err := env.campaigns.ClaimTokens(id, "alice"); !errors.Is(err, model.ErrWrongState) {
		t.Fatalf("got %v, want ErrWrongState", err)
	}

	if _, err := env.campaigns.Contribute(id, "bob", 99_000); err != nil {
		t.Fatal(err)
	}
	if _, err := env.campaigns.ClaimTokens(id, "nobody"); !errors.Is(err, model.ErrNoContribution) {
		t.Fatalf("got %v, want ErrNoContribution", err)
	}
}

func TestRefundRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	id := env.create(t, baseRequest())

	before := env.bank.BalanceOf("alice")
	if _, err := env.campaigns.Contribute(id, "alice", 500); err != nil {
		t.Fatal(err)
	}

	env.advance(200_000 * time.Second)
	refund, err := env.campaigns.ClaimRefund(id, "alice")
	if err != nil {
		t.Fatalf("ClaimRefund failed: %v", err)
	}
	if refund != 500 {
		t.Fatalf("refund = %d, want 500", refund)
	}
	if got := env.bank.BalanceOf("alice"); got != before {
		t.Fatalf("alice balance = %d, want %d", got, before)
	}
	if got := env.bank.Custody(); got != 0 {
		t.Fatalf("custody = %d, want 0", got)
	}

	var c model.CampaignModel
	if err := env.db.First(&c, id).Error; err != nil {
		t.Fatal(err)
	}
	if c.TotalRaised != 0 {
		t.Fatalf("total raised = %d, want 0", c.TotalRaised)
	}

	// 重复退款没有可用记录
	if _, err := env.campaigns.ClaimRefund(id, "alice"); !errors.Is(err, model.ErrNoContribution) {
		t.Fatalf("got %v, want ErrNoContribution", err)
	}
}

func TestRefundOnlyWhenRefundable(t *testing.T) {
	env := newTestEnv(t)
	id := env.create(t, baseRequest())

	if _, err := env.campaigns.Contribute(id, "alice", 500); err != nil {
		t.Fatal(err)
	}
	if _, err := env.campaigns.ClaimRefund(id, "alice"); !errors.Is(err, model.ErrRefundsNotAvailable) {
		t.Fatalf("got %v, want ErrRefundsNotAvailable", err)
	}
}

func TestRefundTracksRemainingNonRefunded(t *testing.T) {
	env := newTestEnv(t)
	id := env.create(t, baseRequest())

	if _, err := env.campaigns.Contribute(id, "alice", 700); err != nil {
		t.Fatal(err)
	}
	if _, err := env.campaigns.Contribute(id, "bob", 300); err != nil {
		t.Fatal(err)
	}

	env.advance(200_000 * time.Second)
	if _, err := env.campaigns.ClaimRefund(id, "alice"); err != nil {
		t.Fatal(err)
	}

	// 剩余募资额等于未退款记录之和
	var c model.CampaignModel
	if err := env.db.First(&c, id).Error; err != nil {
		t.Fatal(err)
	}
	var sum int64
	if err := env.db.Model(&model.ContributionModel{}).
		Where("campaign_id = ? AND refunded = ?", id, false).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum).Error; err != nil {
		t.Fatal(err)
	}
	if c.TotalRaised != sum || sum != 300 {
		t.Fatalf("total raised = %d, non-refunded sum = %d, want both 300", c.TotalRaised, sum)
	}
}

func TestWithdrawFunds(t *testing.T) {
	env := newTestEnv(t)
	id := env.create(t, baseRequest())

	if _, err := env.campaigns.Contribute(id, "alice", 100_000); err != nil {
		t.Fatal(err)
	}

	if _, err := env.campaigns.WithdrawFunds(id, "mallory"); !errors.Is(err, model.ErrNotCreator) {
		t.Fatalf("got %v, want ErrNotCreator", err)
	}

	net, err := env.campaigns.WithdrawFunds(id, "creator")
	if err != nil {
		t.Fatalf("WithdrawFunds failed: %v", err)
	}
	// 默认手续费250bps
	if net != 97_500 {
		t.Fatalf("net = %d, want 97500", net)
	}
	if got := env.bank.BalanceOf("creator"); got != 97_500 {
		t.Fatalf("creator balance = %d, want 97500", got)
	}
	if got := env.bank.BalanceOf("platform"); got != 2500 {
		t.Fatalf("platform balance = %d, want 2500", got)
	}
	if got := env.status(t, id); got != model.CampaignStatusWithdrawn {
		t.Fatalf("status = %s, want withdrawn", got)
	}

	if _, err := env.campaigns.WithdrawFunds(id, "creator"); !errors.Is(err, model.ErrAlreadyWithdrawn) {
		t.Fatalf("got %v, want ErrAlreadyWithdrawn", err)
	}
}

func TestWithdrawRequiresGoalByDefault(t *testing.T) {
	env := newTestEnv(t)
	id := env.create(t, baseRequest())

	if _, err := env.campaigns.Contribute(id, "alice", 1000); err != nil {
		t.Fatal(err)
	}
	if _, err := env.campaigns.WithdrawFunds(id, "creator"); !errors.Is(err, model.ErrWrongState) {
		t.Fatalf("got %v, want ErrWrongState", err)
	}
}

func TestFlexiblePolicyAllowsEarlyWithdraw(t *testing.T) {
	env := newTestEnv(t)
	req := baseRequest()
	req.WithdrawalPolicy = model.WithdrawalPolicyFlexible
	id := env.create(t, req)

	if _, err := env.campaigns.Contribute(id, "alice", 1000); err != nil {
		t.Fatal(err)
	}

	net, err := env.campaigns.WithdrawFunds(id, "creator")
	if err != nil {
		t.Fatalf("WithdrawFunds failed: %v", err)
	}
	if net != 975 {
		t.Fatalf("net = %d, want 975", net)
	}
}

func TestFlexiblePolicySucceedsAtDeadline(t *testing.T) {
	env := newTestEnv(t)
	req := baseRequest()
	req.WithdrawalPolicy = model.WithdrawalPolicyFlexible
	id := env.create(t, req)

	if _, err := env.campaigns.Contribute(id, "alice", 1000); err != nil {
		t.Fatal(err)
	}

	env.advance(200_000 * time.Second)
	if err := env.campaigns.AdvanceStatus(id); err != nil {
		t.Fatal(err)
	}
	if got := env.status(t, id); got != model.CampaignStatusSuccessful {
		t.Fatalf("status = %s, want successful", got)
	}
}

func TestExtendDeadline(t *testing.T) {
	env := newTestEnv(t)
	id := env.create(t, baseRequest())

	var c model.CampaignModel
	if err := env.db.First(&c, id).Error; err != nil {
		t.Fatal(err)
	}

	if err := env.campaigns.ExtendDeadline(id, "mallory", c.EndTime.Add(time.Hour)); !errors.Is(err, model.ErrNotCreator) {
		t.Fatalf("got %v, want ErrNotCreator", err)
	}
	if err := env.campaigns.ExtendDeadline(id, "creator", c.EndTime.Add(-time.Hour)); !errors.Is(err, model.ErrNotLater) {
		t.Fatalf("got %v, want ErrNotLater", err)
	}
	if err := env.campaigns.ExtendDeadline(id, "creator", c.EndTime.Add(31*24*time.Hour)); !errors.Is(err, model.ErrExceedsLimit) {
		t.Fatalf("got %v, want ErrExceedsLimit", err)
	}

	newEnd := c.EndTime.Add(24 * time.Hour)
	if err := env.campaigns.ExtendDeadline(id, "creator", newEnd); err != nil {
		t.Fatalf("ExtendDeadline failed: %v", err)
	}
	if err := env.db.First(&c, id).Error; err != nil {
		t.Fatal(err)
	}
	if !c.EndTime.Equal(newEnd) {
		t.Fatalf("end time = %s, want %s", c.EndTime, newEnd)
	}
}

func TestCancelCampaign(t *testing.T) {
	env := newTestEnv(t)
	id := env.create(t, baseRequest())

	if err := env.campaigns.CancelCampaign(id, "mallory"); !errors.Is(err, model.ErrNotAuthorized) {
		t.Fatalf("got %v, want ErrNotAuthorized", err)
	}
	if err := env.campaigns.CancelCampaign(id, "admin"); err != nil {
		t.Fatalf("admin cancel failed: %v", err)
	}
	if got := env.status(t, id); got != model.CampaignStatusCancelled {
		t.Fatalf("status = %s, want cancelled", got)
	}
	if _, err := env.campaigns.Contribute(id, "alice", 100); !errors.Is(err, model.ErrWrongState) {
		t.Fatalf("got %v, want ErrWrongState", err)
	}
	if err := env.campaigns.CancelCampaign(id, "creator"); !errors.Is(err, model.ErrWrongState) {
		t.Fatalf("got %v, want ErrWrongState", err)
	}
}

func TestCancelledCampaignRefunds(t *testing.T) {
	env := newTestEnv(t)
	id := env.create(t, baseRequest())

	before := env.bank.BalanceOf("alice")
	if _, err := env.campaigns.Contribute(id, "alice", 800); err != nil {
		t.Fatal(err)
	}
	if err := env.campaigns.CancelCampaign(id, "creator"); err != nil {
		t.Fatal(err)
	}

	refund, err := env.campaigns.ClaimRefund(id, "alice")
	if err != nil {
		t.Fatalf("ClaimRefund failed: %v", err)
	}
	if refund != 800 {
		t.Fatalf("refund = %d, want 800", refund)
	}
	if got := env.bank.BalanceOf("alice"); got != before {
		t.Fatalf("alice balance = %d, want %d", got, before)
	}
}

// failingBank 在划转时失败，用于验证回滚
type failingBank struct{}

func (failingBank) Debit(from, asset string, amount int64) error {
	return model.ErrTransferFailed
}

func (failingBank) Credit(to, asset string, amount int64) error {
	return model.ErrTransferFailed
}

func TestTransferFailureRollsBack(t *testing.T) {
	env := newTestEnv(t)
	id := env.create(t, baseRequest())

	// 替换资金通道为必败实现
	env.campaigns.escrow = escrow.NewAccount(failingBank{})
	env.campaigns.escrow.Authorize(id, escrowOwner)

	if _, err := env.campaigns.Contribute(id, "alice", 1000); !errors.Is(err, model.ErrTransferFailed) {
		t.Fatalf("got %v, want ErrTransferFailed", err)
	}

	// 本地账目完全回滚
	var count int64
	if err := env.db.Model(&model.ContributionModel{}).Where("campaign_id = ?", id).Count(&count).Error; err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Fatalf("contribution rows = %d, want 0", count)
	}
	var c model.CampaignModel
	if err := env.db.First(&c, id).Error; err != nil {
		t.Fatal(err)
	}
	if c.TotalRaised != 0 {
		t.Fatalf("total raised = %d, want 0", c.TotalRaised)
	}
	var esc model.EscrowModel
	if err := env.db.Where("campaign_id = ?", id).First(&esc).Error; err != nil {
		t.Fatal(err)
	}
	if esc.Held != 0 {
		t.Fatalf("escrow held = %d, want 0", esc.Held)
	}
}

func TestTierCapacityFallthrough(t *testing.T) {
	env := newTestEnv(t)
	req := baseRequest()
	req.Tiers = []TierSpec{
		{MinContribution: 100, BonusBps: 11000, Capacity: 100},
		{MinContribution: 1000, BonusBps: 12000, Capacity: 1},
	}
	id := env.create(t, req)

	first, err := env.campaigns.Contribute(id, "bob", 2000)
	if err != nil {
		t.Fatal(err)
	}
	if first.TierIndex != 1 {
		t.Fatalf("first tier index = %d, want 1", first.TierIndex)
	}

	// 高档位名额用尽，落到低档位
	env.bank.SetBalance("carol", 10_000)
	second, err := env.campaigns.Contribute(id, "carol", 2000)
	if err != nil {
		t.Fatal(err)
	}
	if second.TierIndex != 0 {
		t.Fatalf("second tier index = %d, want 0", second.TierIndex)
	}

	// 零值档位完整落库
	var stored model.ContributionModel
	if err := env.db.Where("campaign_id = ? AND address = ?", id, "carol").First(&stored).Error; err != nil {
		t.Fatal(err)
	}
	if stored.TierIndex != 0 {
		t.Fatalf("stored tier index = %d, want 0", stored.TierIndex)
	}
}

func TestSweepStatuses(t *testing.T) {
	env := newTestEnv(t)
	first := env.create(t, baseRequest())
	second := env.create(t, baseRequest())

	if _, err := env.campaigns.Contribute(first, "alice", 100_000); err != nil {
		t.Fatal(err)
	}

	env.advance(200_000 * time.Second)
	if _, err := env.campaigns.SweepStatuses(); err != nil {
		t.Fatal(err)
	}

	if got := env.status(t, first); got != model.CampaignStatusSuccessful {
		t.Fatalf("first status = %s, want successful", got)
	}
	if got := env.status(t, second); got != model.CampaignStatusFailed {
		t.Fatalf("second status = %s, want failed", got)
	}

	// 再清扫一次，失败活动进入可退款
	if _, err := env.campaigns.SweepStatuses(); err != nil {
		t.Fatal(err)
	}
	if got := env.status(t, second); got != model.CampaignStatusRefundsAvailable {
		t.Fatalf("second status = %s, want refunds_available", got)
	}
}
