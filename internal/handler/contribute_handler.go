package handler

import (
	"net/http"
	"strconv"

	"github.com/foolmeonetime/beanpump-sub002/internal/logic"
	"github.com/foolmeonetime/beanpump-sub002/internal/model"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ContributeHandler struct {
	contributeLogic *logic.ContributeLogic
}

func NewContributeHandler(db *gorm.DB) *ContributeHandler {
	return &ContributeHandler{
		contributeLogic: logic.NewContributeLogic(db),
	}
}

// Contribute 记录一笔贡献
func (h *ContributeHandler) Contribute(c *gin.Context) {
	takeoverId, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的活动ID")
		return
	}

	var req struct {
		Contributor string `json:"contributor" binding:"required"`
		Amount      string `json:"amount" binding:"required"`
		TxSignature string `json:"tx_signature" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	contribution := model.ContributionModel{
		TakeoverId:  takeoverId,
		Contributor: req.Contributor,
		Amount:      req.Amount,
		TxSignature: req.TxSignature,
	}

	if err := h.contributeLogic.CreateContribution(&contribution); err != nil {
		ErrorResponseFromErr(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "贡献记录成功", contribution)
}

// GetTakeoverContributions 获取活动贡献记录
func (h *ContributeHandler) GetTakeoverContributions(c *gin.Context) {
	takeoverId, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的活动ID")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	contributions, total, err := h.contributeLogic.GetTakeoverContributions(takeoverId, page, pageSize)
	if err != nil {
		ErrorResponseFromErr(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", gin.H{
		"contributions": contributions,
		"total":         total,
		"page":          page,
		"page_size":     pageSize,
	})
}

// GetContributorContributions 获取某地址的贡献记录
func (h *ContributeHandler) GetContributorContributions(c *gin.Context) {
	contributor := c.Param("address")
	if contributor == "" {
		ErrorResponse(c, http.StatusBadRequest, "无效的贡献者地址")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	contributions, total, err := h.contributeLogic.GetContributorContributions(contributor, page, pageSize)
	if err != nil {
		ErrorResponseFromErr(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", gin.H{
		"contributions": contributions,
		"total":         total,
		"page":          page,
		"page_size":     pageSize,
	})
}
