package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/blues/lfs/internal/logic"
	"github.com/blues/lfs/internal/model"
	"github.com/gin-gonic/gin"
)

// CampaignHandler 活动接口
type CampaignHandler struct {
	campaignLogic *logic.CampaignLogic
	launchLogic   *logic.LaunchLogic
}

// NewCampaignHandler 创建活动接口
func NewCampaignHandler(campaignLogic *logic.CampaignLogic, launchLogic *logic.LaunchLogic) *CampaignHandler {
	return &CampaignHandler{
		campaignLogic: campaignLogic,
		launchLogic:   launchLogic,
	}
}

// campaignId 解析路径中的活动ID
func campaignId(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的活动ID"})
		return 0, false
	}
	return id, true
}

// CreateCampaign 创建活动
func (h *CampaignHandler) CreateCampaign(c *gin.Context) {
	var req logic.CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := h.campaignLogic.CreateCampaign(&req)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "活动创建成功", gin.H{"campaign_id": id})
}

// GetCampaigns 获取活动列表
func (h *CampaignHandler) GetCampaigns(c *gin.Context) {
	status := c.Query("status")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	campaigns, total, err := h.campaignLogic.ListCampaigns(status, page, pageSize)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"campaigns": campaigns,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// GetCampaign 获取活动详情
func (h *CampaignHandler) GetCampaign(c *gin.Context) {
	id, ok := campaignId(c)
	if !ok {
		return
	}

	campaign, err := h.campaignLogic.GetCampaign(id)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"campaign": campaign})
}

// GetCampaignState 获取活动状态
func (h *CampaignHandler) GetCampaignState(c *gin.Context) {
	id, ok := campaignId(c)
	if !ok {
		return
	}

	state, err := h.campaignLogic.GetState(id)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"campaign_id": id, "state": state})
}

// GetCampaignStats 获取活动统计信息
func (h *CampaignHandler) GetCampaignStats(c *gin.Context) {
	id, ok := campaignId(c)
	if !ok {
		return
	}

	stats, err := h.campaignLogic.GetCampaignStats(id)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": stats})
}

// Contribute 贡献资金
func (h *CampaignHandler) Contribute(c *gin.Context) {
	id, ok := campaignId(c)
	if !ok {
		return
	}

	var req ContributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	contribution, err := h.campaignLogic.Contribute(id, req.Address, req.Amount)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "贡献成功", contribution)
}

// ClaimTokens 领取奖励代币
func (h *CampaignHandler) ClaimTokens(c *gin.Context) {
	id, ok := campaignId(c)
	if !ok {
		return
	}

	var req ActorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tokens, err := h.campaignLogic.ClaimTokens(id, req.Address)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "代币领取成功", gin.H{"tokens": tokens})
}

// ClaimRefund 领取退款
func (h *CampaignHandler) ClaimRefund(c *gin.Context) {
	id, ok := campaignId(c)
	if !ok {
		return
	}

	var req ActorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	amount, err := h.campaignLogic.ClaimRefund(id, req.Address)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "退款成功", gin.H{"amount": amount})
}

// WithdrawFunds 创建者提取资金
func (h *CampaignHandler) WithdrawFunds(c *gin.Context) {
	id, ok := campaignId(c)
	if !ok {
		return
	}

	var req ActorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	net, err := h.campaignLogic.WithdrawFunds(id, req.Address)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "提取成功", gin.H{"amount": net})
}

// ExtendDeadline 延长截止时间
func (h *CampaignHandler) ExtendDeadline(c *gin.Context) {
	id, ok := campaignId(c)
	if !ok {
		return
	}

	var req ExtendDeadlineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	newEnd := time.Unix(req.NewEndTime, 0)
	if err := h.campaignLogic.ExtendDeadline(id, req.Address, newEnd); err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "截止时间已延长", nil)
}

// CancelCampaign 取消活动
func (h *CampaignHandler) CancelCampaign(c *gin.Context) {
	id, ok := campaignId(c)
	if !ok {
		return
	}

	var req ActorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.campaignLogic.CancelCampaign(id, req.Address); err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "活动已取消", nil)
}

// Launch 发射流动性
func (h *CampaignHandler) Launch(c *gin.Context) {
	id, ok := campaignId(c)
	if !ok {
		return
	}

	var req ActorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	handle, err := h.launchLogic.Launch(id, req.Address)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "流动性发射成功", gin.H{"handle": handle})
}

// GetContributions 获取活动贡献记录
func (h *CampaignHandler) GetContributions(c *gin.Context) {
	id, ok := campaignId(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	contributions, total, err := h.campaignLogic.ListContributions(id, page, pageSize)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"contributions": contributions,
		"total":         total,
		"page":          page,
		"page_size":     pageSize,
	})
}

// GetContribution 获取某地址的贡献记录
func (h *CampaignHandler) GetContribution(c *gin.Context) {
	id, ok := campaignId(c)
	if !ok {
		return
	}

	contribution, err := h.campaignLogic.GetContribution(id, c.Param("address"))
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"contribution": contribution})
}

// GetCampaignsByRole 按角色反查参与的活动
func (h *CampaignHandler) GetCampaignsByRole(c *gin.Context) {
	role := model.ParticipantRole(c.DefaultQuery("role", string(model.RoleContributor)))
	if role != model.RoleCreator && role != model.RoleContributor {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的角色"})
		return
	}

	campaigns, err := h.campaignLogic.ListCampaignsByRole(c.Param("address"), role)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"campaigns": campaigns})
}
