package handler

import (
	"net/http"
	"strconv"

	"github.com/foolmeonetime/beanpump-sub002/internal/logic"
	"github.com/gin-gonic/gin"
)

type FinalizeHandler struct {
	finalizeLogic *logic.FinalizeLogic
}

func NewFinalizeHandler(finalizeLogic *logic.FinalizeLogic) *FinalizeHandler {
	return &FinalizeHandler{finalizeLogic: finalizeLogic}
}

// FinalizeTakeover 终结单个活动
// 不满足终结条件（含已终结）统一返回 409，与其他入口保持一致
func (h *FinalizeHandler) FinalizeTakeover(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的活动ID")
		return
	}

	result, err := h.finalizeLogic.Finalize(c.Request.Context(), id)
	if err != nil {
		ErrorResponseFromErr(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "活动终结成功", gin.H{
		"status": "finalized",
		"result": result,
	})
}

// Sweep 手动触发一次终结清扫
// 部分失败不影响整体：响应同时携带成功与失败清单
func (h *FinalizeHandler) Sweep(c *gin.Context) {
	result, err := h.finalizeLogic.Sweep(c.Request.Context())
	if err != nil {
		ErrorResponseFromErr(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "清扫完成", result)
}
