package router

import (
	"github.com/foolmeonetime/beanpump-sub002/internal/config"
	"github.com/foolmeonetime/beanpump-sub002/internal/handler"
	"github.com/foolmeonetime/beanpump-sub002/internal/logic"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

func Setup(db *gorm.DB, finalizeLogic *logic.FinalizeLogic, cfg *config.Config) *gin.Engine {
	r := gin.Default()

	// 中间件
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(corsMiddleware())

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "takeover-service",
		})
	})

	// Prometheus 指标
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	takeoverHandler := handler.NewTakeoverHandler(db)
	contributeHandler := handler.NewContributeHandler(db)
	claimHandler := handler.NewClaimHandler(db)
	finalizeHandler := handler.NewFinalizeHandler(finalizeLogic)

	// API版本组
	v1 := r.Group("/api/v1")
	{
		takeovers := v1.Group("/takeovers")
		{
			takeovers.POST("", takeoverHandler.CreateTakeover)
			takeovers.GET("", takeoverHandler.GetTakeovers)
			takeovers.POST("/preview", takeoverHandler.PreviewMetrics)
			takeovers.GET("/:id", takeoverHandler.GetTakeover)
			takeovers.GET("/:id/stats", takeoverHandler.GetTakeoverStats)
			takeovers.GET("/:id/contributions", contributeHandler.GetTakeoverContributions)
			takeovers.POST("/:id/contribute", contributeHandler.Contribute)
			takeovers.POST("/:id/finalize", finalizeHandler.FinalizeTakeover)
		}

		v1.GET("/contributors/:address/contributions", contributeHandler.GetContributorContributions)
		v1.POST("/finalize/sweep", finalizeHandler.Sweep)
		v1.POST("/claims/:contributionId", claimHandler.SettleClaim)
	}

	return r
}

// corsMiddleware 跨域中间件
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
