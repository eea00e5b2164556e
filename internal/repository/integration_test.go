//go:build integration

package repository_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"strat-plan/backend/internal/model"
	"strat-plan/backend/internal/repository"
	pkgerrors "strat-plan/backend/pkg/errors"
)

// ═══════════════════════════════════════════════════════════
// Test Setup
// ═══════════════════════════════════════════════════════════

var testDB *gorm.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5433 user=strat_plan password=strat_plan_password dbname=strat_plan_test sslmode=disable TimeZone=Asia/Shanghai"
	}

	var err error
	testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "无法连接测试数据库: %v\n", err)
		os.Exit(1)
	}

	// 自动迁移测试表结构
	if err := testDB.AutoMigrate(&model.User{}, &model.Submission{}); err != nil {
		fmt.Fprintf(os.Stderr, "AutoMigrate 失败: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()

	testDB.Exec("DELETE FROM submissions")
	testDB.Exec("DELETE FROM users")
	os.Exit(code)
}

func newTestSubmission(title string, submittedAt time.Time) *model.Submission {
	return &model.Submission{
		SubmissionID:    uuid.New().String(),
		UserID:          uuid.New().String(),
		UserName:        "测试用户",
		Status:          model.StatusPending,
		SubmittedAt:     submittedAt,
		LastModifiedAt:  submittedAt,
		SubmitterName:   "测试用户",
		Title:           title,
		Department:      "规划发展处",
		Goal:            "提升治理能力",
		Objective:       "优化审批流程",
		StrategicAction: "建设一体化平台",
		Metric:          "平均审批时长",
		MainTask:        "平台一期建设",
		MainTaskTarget:  "年内上线",
		GoalWeight:      "25",
		ObjectiveWeight: "25",
		ActionWeight:    "25",
		TaskWeight:      "25",
		ExecutingBody:   "信息中心",
		ExecutionTime:   "2026",
		BudgetSource:    model.BudgetSourceGovernment,
		GovBudgetAmount: "100000",
		Version:         1,
	}
}

// ═══════════════════════════════════════════════════════════
// SubmissionRepository
// ═══════════════════════════════════════════════════════════

func TestSubmissionRepo_CreateAndGet(t *testing.T) {
	repo := repository.NewSubmissionRepo(testDB)
	ctx := context.Background()

	sub := newTestSubmission("集成测试-创建", time.Now())
	if err := repo.Create(ctx, sub); err != nil {
		t.Fatalf("Create 失败: %v", err)
	}

	got, err := repo.GetByID(ctx, sub.SubmissionID)
	if err != nil {
		t.Fatalf("GetByID 失败: %v", err)
	}
	if got.Title != sub.Title {
		t.Errorf("期望 Title=%s，实际=%s", sub.Title, got.Title)
	}
	if got.Version != 1 {
		t.Errorf("初始 version 应为 1，得到: %d", got.Version)
	}
}

func TestSubmissionRepo_OptimisticLock(t *testing.T) {
	repo := repository.NewSubmissionRepo(testDB)
	ctx := context.Background()

	sub := newTestSubmission("集成测试-乐观锁", time.Now())
	if err := repo.Create(ctx, sub); err != nil {
		t.Fatalf("Create 失败: %v", err)
	}

	stale := *sub

	sub.Title = "第一次修改"
	sub.LastModifiedAt = time.Now()
	if err := repo.Update(ctx, sub); err != nil {
		t.Fatalf("第一次 Update 失败: %v", err)
	}
	if sub.Version != 2 {
		t.Errorf("期望 version=2，得到: %d", sub.Version)
	}

	// 第二次更新应失败（version 已过期）
	stale.Title = "过期副本的修改"
	stale.LastModifiedAt = time.Now()
	if err := repo.Update(ctx, &stale); err != pkgerrors.ErrOptimisticLock {
		t.Errorf("期望 ErrOptimisticLock，实际: %v", err)
	}
}

func TestSubmissionRepo_Delete(t *testing.T) {
	repo := repository.NewSubmissionRepo(testDB)
	ctx := context.Background()

	sub := newTestSubmission("集成测试-删除", time.Now())
	if err := repo.Create(ctx, sub); err != nil {
		t.Fatalf("Create 失败: %v", err)
	}

	affected, err := repo.Delete(ctx, sub.SubmissionID)
	if err != nil {
		t.Fatalf("Delete 失败: %v", err)
	}
	if affected != 1 {
		t.Errorf("期望删除 1 行，实际 %d", affected)
	}

	// 重复删除应影响 0 行
	affected, err = repo.Delete(ctx, sub.SubmissionID)
	if err != nil {
		t.Fatalf("二次 Delete 失败: %v", err)
	}
	if affected != 0 {
		t.Errorf("期望删除 0 行，实际 %d", affected)
	}
}

func TestSubmissionRepo_ListNewestFirst(t *testing.T) {
	repo := repository.NewSubmissionRepo(testDB)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	older := newTestSubmission("集成测试-较早", base)
	newer := newTestSubmission("集成测试-较晚", base.Add(time.Minute))
	if err := repo.Create(ctx, older); err != nil {
		t.Fatalf("Create 失败: %v", err)
	}
	if err := repo.Create(ctx, newer); err != nil {
		t.Fatalf("Create 失败: %v", err)
	}

	subs, _, err := repo.List(ctx, repository.SubmissionFilter{}, 0, 100)
	if err != nil {
		t.Fatalf("List 失败: %v", err)
	}

	posOlder, posNewer := -1, -1
	for i, s := range subs {
		switch s.SubmissionID {
		case older.SubmissionID:
			posOlder = i
		case newer.SubmissionID:
			posNewer = i
		}
	}
	if posOlder == -1 || posNewer == -1 {
		t.Fatal("列表缺少刚创建的记录")
	}
	if posNewer > posOlder {
		t.Error("期望最新记录排在前面")
	}
}
