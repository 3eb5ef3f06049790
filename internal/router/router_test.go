package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/blues/lfs/internal/config"
	"github.com/blues/lfs/internal/database"
	"github.com/blues/lfs/internal/escrow"
	"github.com/blues/lfs/internal/logic"
	"github.com/blues/lfs/internal/token"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestRouter(t *testing.T) (*gin.Engine, *escrow.MemoryBank) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	cfg := &config.Config{
		Funding: config.FundingConfig{
			FeeRateBps:      250,
			FeeRecipient:    "platform",
			AdminAddress:    "admin",
			VoteWindowHours: 168,
		},
	}

	bank := escrow.NewMemoryBank()
	ledger := token.NewMemoryLedger()
	account := escrow.NewAccount(bank)
	campaigns := logic.NewCampaignLogic(db, account, ledger, cfg)
	votes := logic.NewVoteLogic(db, ledger, campaigns, cfg.Funding.VoteWindowHours)
	launch := logic.NewLaunchLogic(db, account, campaigns, logic.NewMemoryCoordinator())

	return Setup(campaigns, votes, launch), bank
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	r, _ := newTestRouter(t)
	w := doJSON(t, r, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestCampaignEndpoints(t *testing.T) {
	r, bank := newTestRouter(t)
	bank.SetBalance("alice", 1_000_000)

	create := map[string]interface{}{
		"title":            "Node Fund",
		"creator_address":  "creator",
		"pay_asset":        "USDT",
		"funding_goal":     100000,
		"duration_seconds": 100000,
	}
	w := doJSON(t, r, http.MethodPost, "/api/v1/campaigns", create)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", w.Code, w.Body.String())
	}

	var created struct {
		Data struct {
			CampaignId int64 `json:"campaign_id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to decode create response: %v", err)
	}
	id := created.Data.CampaignId
	if id == 0 {
		t.Fatalf("campaign id missing in %s", w.Body.String())
	}

	// 非法参数拒绝
	bad := map[string]interface{}{
		"title":            "Bad",
		"creator_address":  "creator",
		"funding_goal":     1,
		"duration_seconds": 100000,
	}
	if w := doJSON(t, r, http.MethodPost, "/api/v1/campaigns", bad); w.Code != http.StatusBadRequest {
		t.Fatalf("invalid create status = %d, want 400", w.Code)
	}

	contribute := map[string]interface{}{"address": "alice", "amount": 1000}
	path := fmt.Sprintf("/api/v1/campaigns/%d/contributions", id)
	if w := doJSON(t, r, http.MethodPost, path, contribute); w.Code != http.StatusOK {
		t.Fatalf("contribute status = %d, body %s", w.Code, w.Body.String())
	}

	// 创建者参与自己的活动被拒
	self := map[string]interface{}{"address": "creator", "amount": 1000}
	if w := doJSON(t, r, http.MethodPost, path, self); w.Code != http.StatusForbidden {
		t.Fatalf("creator contribute status = %d, want 403", w.Code)
	}

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/campaigns/%d/state", id), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("state status = %d", w.Code)
	}

	// 不存在的活动返回404
	if w := doJSON(t, r, http.MethodGet, "/api/v1/campaigns/9999", nil); w.Code != http.StatusNotFound {
		t.Fatalf("missing campaign status = %d, want 404", w.Code)
	}
}

func TestVoteEndpoints(t *testing.T) {
	r, bank := newTestRouter(t)
	bank.SetBalance("alice", 1_000_000)

	create := map[string]interface{}{
		"title":            "Node Fund",
		"creator_address":  "creator",
		"funding_goal":     100000,
		"duration_seconds": 100000,
	}
	w := doJSON(t, r, http.MethodPost, "/api/v1/campaigns", create)
	var created struct {
		Data struct {
			CampaignId int64 `json:"campaign_id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}
	id := created.Data.CampaignId

	// 没有投票权重的发起者被拒
	initiate := map[string]interface{}{"initiator": "alice", "reason": "stalled"}
	path := fmt.Sprintf("/api/v1/campaigns/%d/votes", id)
	if w := doJSON(t, r, http.MethodPost, path, initiate); w.Code != http.StatusForbidden {
		t.Fatalf("initiate status = %d, want 403, body %s", w.Code, w.Body.String())
	}
}
