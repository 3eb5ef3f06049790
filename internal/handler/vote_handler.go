package handler

import (
	"net/http"
	"strconv"

	"github.com/blues/lfs/internal/logic"
	"github.com/blues/lfs/internal/model"
	"github.com/gin-gonic/gin"
)

// VoteHandler 社区投票接口
type VoteHandler struct {
	voteLogic *logic.VoteLogic
}

// NewVoteHandler 创建投票接口
func NewVoteHandler(voteLogic *logic.VoteLogic) *VoteHandler {
	return &VoteHandler{voteLogic: voteLogic}
}

// voteId 解析路径中的投票ID
func voteId(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("voteId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的投票ID"})
		return 0, false
	}
	return id, true
}

// InitiateVote 发起取消投票
func (h *VoteHandler) InitiateVote(c *gin.Context) {
	id, ok := campaignId(c)
	if !ok {
		return
	}

	var req InitiateVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	voteId, err := h.voteLogic.InitiateVote(id, req.Initiator, req.Reason)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "投票已发起", gin.H{"vote_id": voteId})
}

// CastVote 投票
func (h *VoteHandler) CastVote(c *gin.Context) {
	id, ok := voteId(c)
	if !ok {
		return
	}

	var req CastVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.voteLogic.CastVote(id, req.Voter, model.VoteChoice(req.Choice), req.Comment)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "投票成功", nil)
}

// ExecuteVote 执行投票结果
func (h *VoteHandler) ExecuteVote(c *gin.Context) {
	id, ok := voteId(c)
	if !ok {
		return
	}

	passed, err := h.voteLogic.ExecuteVote(id)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "投票已执行", gin.H{"passed": passed})
}

// GetVoteStatus 获取投票详情
func (h *VoteHandler) GetVoteStatus(c *gin.Context) {
	cid, ok := campaignId(c)
	if !ok {
		return
	}
	vid, ok := voteId(c)
	if !ok {
		return
	}

	vote, err := h.voteLogic.GetVoteStatus(cid, vid)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"vote": vote})
}

// GetVoteRecords 获取投票明细
func (h *VoteHandler) GetVoteRecords(c *gin.Context) {
	id, ok := voteId(c)
	if !ok {
		return
	}

	records, err := h.voteLogic.ListVoteRecords(id)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"records": records})
}
