package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/foolmeonetime/beanpump-sub002/internal/logic"
	"github.com/foolmeonetime/beanpump-sub002/internal/model"
	"github.com/foolmeonetime/beanpump-sub002/internal/supply"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type TakeoverHandler struct {
	takeoverLogic *logic.TakeoverLogic
}

func NewTakeoverHandler(db *gorm.DB) *TakeoverHandler {
	return &TakeoverHandler{
		takeoverLogic: logic.NewTakeoverLogic(db),
	}
}

// CreateTakeover 创建接管活动
func (h *TakeoverHandler) CreateTakeover(c *gin.Context) {
	var takeover model.TakeoverModel
	if err := c.ShouldBindJSON(&takeover); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.takeoverLogic.CreateTakeover(&takeover); err != nil {
		ErrorResponseFromErr(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "活动创建成功", takeover)
}

// GetTakeovers 获取活动列表
// ?eligible=true 时返回当前满足终结条件的活动
func (h *TakeoverHandler) GetTakeovers(c *gin.Context) {
	if c.Query("eligible") == "true" {
		h.getEligibleTakeovers(c)
		return
	}

	var finalized *bool
	switch c.Query("status") {
	case "finalized":
		v := true
		finalized = &v
	case "active":
		v := false
		finalized = &v
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	takeovers, total, err := h.takeoverLogic.GetTakeovers(finalized, page, pageSize)
	if err != nil {
		ErrorResponseFromErr(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", gin.H{
		"takeovers": takeovers,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// getEligibleTakeovers 获取待终结活动列表
func (h *TakeoverHandler) getEligibleTakeovers(c *gin.Context) {
	takeovers, err := h.takeoverLogic.GetEligibleTakeovers(time.Now())
	if err != nil {
		ErrorResponseFromErr(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "", gin.H{
		"takeovers": takeovers,
		"total":     len(takeovers),
	})
}

// GetTakeover 获取单个活动详情，id 可以是数据库ID或链上地址
func (h *TakeoverHandler) GetTakeover(c *gin.Context) {
	param := c.Param("id")

	var takeover *model.TakeoverModel
	var err error
	if id, parseErr := strconv.ParseInt(param, 10, 64); parseErr == nil {
		takeover, err = h.takeoverLogic.GetTakeover(id)
	} else {
		takeover, err = h.takeoverLogic.GetTakeoverByAddress(param)
	}
	if err != nil {
		ErrorResponseFromErr(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", gin.H{"takeover": takeover})
}

// GetTakeoverStats 获取活动统计信息
func (h *TakeoverHandler) GetTakeoverStats(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的活动ID")
		return
	}

	stats, err := h.takeoverLogic.GetTakeoverStats(id)
	if err != nil {
		ErrorResponseFromErr(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", stats)
}

// PreviewMetrics 按给定参数试算供应量指标，不落库
func (h *TakeoverHandler) PreviewMetrics(c *gin.Context) {
	var req struct {
		RawSupply             string `json:"raw_supply" binding:"required"`
		Decimals              uint8  `json:"decimals"`
		TargetParticipationBp int    `json:"target_participation_bp" binding:"required"`
		RewardRateBp          int    `json:"reward_rate_bp" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	m, err := supply.Calculate(supply.Params{
		RawSupply:             req.RawSupply,
		Decimals:              req.Decimals,
		TargetParticipationBp: req.TargetParticipationBp,
		RewardRateBp:          req.RewardRateBp,
	})
	if err != nil {
		ErrorResponseFromErr(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", gin.H{
		"calculated_min_amount": m.CalculatedMinRaw.String(),
		"max_safe_contribution": m.MaxSafeContributionRaw.String(),
		"reward_pool_tokens":    m.RewardPoolRaw.String(),
		"liquidity_pool_tokens": m.LiquidityPoolRaw.String(),
		"safe_reward_pool":      m.SafeRewardPoolRaw.String(),
		"participation_goal":    m.ParticipationGoalRaw.String(),
		"capacity_goal":         m.CapacityGoalRaw.String(),
		"display":               m.Display,
	})
}
