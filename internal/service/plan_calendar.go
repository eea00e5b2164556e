package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"

	"strat-plan/backend/internal/model"
	"strat-plan/backend/internal/repository"
)

// ── 执行日历 ──────────────────────────────────────────────
//
// 职责：将已通过申报的执行窗口输出为 iCalendar (RFC 5545) 订阅源。
//
// 设计决策：
//   - 执行时间为自由文本，宽松解析："2026"（整年）、"2026-03"（整月）、
//     "2026-01 ~ 2026-06"（区间，分隔符 ~ 或 至）
//   - 解析失败的记录跳过，不中断整体导出
//   - 事件为全天事件，DTEND 为窗口末日的次日（iCal 区间右开）
// ─────────────────────────────────────────────────────────────

// ExportCalendar 导出已通过申报的执行窗口为 iCalendar
func (s *exportService) ExportCalendar(ctx context.Context) (*bytes.Buffer, string, error) {
	subs, err := s.repo.Submission.ListAll(ctx, repository.SubmissionFilter{Status: model.StatusApproved})
	if err != nil {
		s.logger.Error("查询已通过申报失败", zap.Error(err))
		return nil, "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//strat-plan//执行日历//CN")

	for i := range subs {
		sub := &subs[i]
		start, end, ok := parseExecutionWindow(sub.ExecutionTime)
		if !ok {
			s.logger.Debug("执行时间无法解析，跳过",
				zap.String("submission_id", sub.SubmissionID),
				zap.String("execution_time", sub.ExecutionTime),
			)
			continue
		}

		event := cal.AddEvent(sub.SubmissionID)
		event.SetCreatedTime(sub.SubmittedAt)
		event.SetDtStampTime(sub.LastModifiedAt)
		event.SetAllDayStartAt(start)
		event.SetAllDayEndAt(end.AddDate(0, 0, 1))
		event.SetSummary(sub.Title)
		event.SetDescription(fmt.Sprintf("执行主体：%s；所属部门：%s", sub.ExecutingBody, sub.Department))
	}

	buf := bytes.NewBufferString(cal.Serialize())
	filename := fmt.Sprintf("strategic-plans-%s.ics", time.Now().Format("2006-01-02"))
	return buf, filename, nil
}

// parseExecutionWindow 宽松解析执行时间文本为 [start, end] 日期窗口
func parseExecutionWindow(raw string) (time.Time, time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, time.Time{}, false
	}

	// 区间分隔符统一处理
	raw = strings.ReplaceAll(raw, "至", "~")
	parts := strings.Split(raw, "~")
	if len(parts) > 2 {
		return time.Time{}, time.Time{}, false
	}

	start, _, ok := parsePeriod(parts[0])
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	end := start
	if len(parts) == 2 {
		_, e, ok2 := parsePeriod(parts[1])
		if !ok2 {
			return time.Time{}, time.Time{}, false
		}
		end = e
	} else {
		_, end, _ = parsePeriod(parts[0])
	}

	if end.Before(start) {
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

// parsePeriod 解析单个时间段（"2026" 或 "2026-03"），返回其首末日
func parsePeriod(raw string) (time.Time, time.Time, bool) {
	raw = strings.TrimSpace(raw)

	if t, err := time.Parse("2006", raw); err == nil {
		start := time.Date(t.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(1, 0, -1), true
	}
	if t, err := time.Parse("2006-01", raw); err == nil {
		start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(0, 1, -1), true
	}
	return time.Time{}, time.Time{}, false
}
