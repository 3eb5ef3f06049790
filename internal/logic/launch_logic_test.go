package logic

import (
	"errors"
	"testing"
	"time"

	"github.com/blues/lfs/internal/model"
)

func TestLaunchMovesLiquidity(t *testing.T) {
	env := newTestEnv(t)
	launch := NewLaunchLogic(env.db, env.account, env.campaigns, NewMemoryCoordinator())
	launch.now = func() time.Time { return env.now }

	req := baseRequest()
	req.LiquidityBps = 3000
	req.CreatorReserveBps = 1000
	id := env.create(t, req)

	if _, err := env.campaigns.Contribute(id, "alice", 100_000); err != nil {
		t.Fatal(err)
	}

	handle, err := launch.Launch(id, "creator")
	if err != nil {
		t.Fatalf("Launch failed: %v", err)
	}
	if handle == "" {
		t.Fatal("expected a venue handle")
	}

	var c model.CampaignModel
	if err := env.db.First(&c, id).Error; err != nil {
		t.Fatal(err)
	}
	if c.Status != model.CampaignStatusTokenLaunched {
		t.Fatalf("status = %s, want token_launched", c.Status)
	}
	if c.LaunchHandle != handle {
		t.Fatalf("launch handle = %q, want %q", c.LaunchHandle, handle)
	}

	// 托管按流动性比例扣减：100000 * 30% = 30000
	var esc model.EscrowModel
	if err := env.db.Where("campaign_id = ?", id).First(&esc).Error; err != nil {
		t.Fatal(err)
	}
	if esc.Held != 70_000 {
		t.Fatalf("held = %d, want 70000", esc.Held)
	}

	// 已发射状态不能再次发射
	if _, err := launch.Launch(id, "creator"); !errors.Is(err, model.ErrWrongState) {
		t.Fatalf("got %v, want ErrWrongState", err)
	}
}

func TestLaunchGuards(t *testing.T) {
	env := newTestEnv(t)
	launch := NewLaunchLogic(env.db, env.account, env.campaigns, NewMemoryCoordinator())
	launch.now = func() time.Time { return env.now }

	req := baseRequest()
	req.LiquidityBps = 3000
	id := env.create(t, req)

	// 活动未成功不能发射
	if _, err := launch.Launch(id, "creator"); !errors.Is(err, model.ErrWrongState) {
		t.Fatalf("got %v, want ErrWrongState", err)
	}

	if _, err := env.campaigns.Contribute(id, "alice", 100_000); err != nil {
		t.Fatal(err)
	}
	if _, err := launch.Launch(id, "mallory"); !errors.Is(err, model.ErrNotCreator) {
		t.Fatalf("got %v, want ErrNotCreator", err)
	}

	// 未配置流动性参数不能发射
	plain := env.create(t, baseRequest())
	if _, err := env.campaigns.Contribute(plain, "bob", 100_000); err != nil {
		t.Fatal(err)
	}
	if _, err := launch.Launch(plain, "creator"); !errors.Is(err, model.ErrNoLaunchConfig) {
		t.Fatalf("got %v, want ErrNoLaunchConfig", err)
	}
}
