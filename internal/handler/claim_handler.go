package handler

import (
	"net/http"
	"strconv"

	"github.com/foolmeonetime/beanpump-sub002/internal/logic"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ClaimHandler struct {
	claimLogic *logic.ClaimLogic
}

func NewClaimHandler(db *gorm.DB) *ClaimHandler {
	return &ClaimHandler{
		claimLogic: logic.NewClaimLogic(db),
	}
}

// SettleClaim 结算一条贡献的可领取金额
func (h *ClaimHandler) SettleClaim(c *gin.Context) {
	contributionId, err := strconv.ParseInt(c.Param("contributionId"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的贡献记录ID")
		return
	}

	var req struct {
		TxSignature string `json:"tx_signature"`
	}
	// 请求体可为空：结算本身不依赖链上签名
	_ = c.ShouldBindJSON(&req)

	settlement, err := h.claimLogic.SettleClaim(contributionId, req.TxSignature)
	if err != nil {
		ErrorResponseFromErr(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "结算成功", settlement)
}
