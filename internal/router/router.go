package router

import (
	"github.com/blues/lfs/internal/handler"
	"github.com/blues/lfs/internal/logic"
	"github.com/gin-gonic/gin"
)

func Setup(campaignLogic *logic.CampaignLogic, voteLogic *logic.VoteLogic, launchLogic *logic.LaunchLogic) *gin.Engine {
	r := gin.Default()

	// 中间件
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(corsMiddleware())

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "launch-funding-service",
		})
	})

	// API版本组
	v1 := r.Group("/api/v1")
	{
		campaignHandler := handler.NewCampaignHandler(campaignLogic, launchLogic)
		voteHandler := handler.NewVoteHandler(voteLogic)

		// 活动相关路由
		campaigns := v1.Group("/campaigns")
		{
			campaigns.POST("", campaignHandler.CreateCampaign)
			campaigns.GET("", campaignHandler.GetCampaigns)
			campaigns.GET("/:id", campaignHandler.GetCampaign)
			campaigns.GET("/:id/state", campaignHandler.GetCampaignState)
			campaigns.GET("/:id/stats", campaignHandler.GetCampaignStats)
			campaigns.POST("/:id/contributions", campaignHandler.Contribute)
			campaigns.GET("/:id/contributions", campaignHandler.GetContributions)
			campaigns.GET("/:id/contributions/:address", campaignHandler.GetContribution)
			campaigns.POST("/:id/claim", campaignHandler.ClaimTokens)
			campaigns.POST("/:id/refund", campaignHandler.ClaimRefund)
			campaigns.POST("/:id/withdraw", campaignHandler.WithdrawFunds)
			campaigns.POST("/:id/extend", campaignHandler.ExtendDeadline)
			campaigns.POST("/:id/cancel", campaignHandler.CancelCampaign)
			campaigns.POST("/:id/launch", campaignHandler.Launch)
			campaigns.POST("/:id/votes", voteHandler.InitiateVote)
			campaigns.GET("/:id/votes/:voteId", voteHandler.GetVoteStatus)
		}

		// 投票相关路由
		votes := v1.Group("/votes")
		{
			votes.POST("/:voteId/cast", voteHandler.CastVote)
			votes.POST("/:voteId/execute", voteHandler.ExecuteVote)
			votes.GET("/:voteId/records", voteHandler.GetVoteRecords)
		}

		// 参与者相关路由
		v1.GET("/participants/:address/campaigns", campaignHandler.GetCampaignsByRole)
	}

	return r
}

// CORS中间件
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
