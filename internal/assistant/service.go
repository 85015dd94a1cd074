package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	errors "github.com/frahmantamala/expense-insight/internal"
	"github.com/frahmantamala/expense-insight/internal/expense"
)

const (
	DefaultQuestionMaxTokens       = 400
	DefaultRecommendationMaxTokens = 800
)

// ExpenseSource is the read side of the expense service. Location is the
// timezone month keys are computed in.
type ExpenseSource interface {
	UserExpenses(ctx context.Context, userID string, q expense.Query) ([]*expense.Expense, error)
	Location() *time.Location
}

type Budgets struct {
	QuestionMaxTokens       int
	RecommendationMaxTokens int
}

type Service struct {
	source    ExpenseSource
	completer Completer
	budgets   Budgets
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(source ExpenseSource, completer Completer, budgets Budgets, logger *slog.Logger) *Service {
	if budgets.QuestionMaxTokens <= 0 {
		budgets.QuestionMaxTokens = DefaultQuestionMaxTokens
	}
	if budgets.RecommendationMaxTokens <= 0 {
		budgets.RecommendationMaxTokens = DefaultRecommendationMaxTokens
	}
	return &Service{
		source:    source,
		completer: completer,
		budgets:   budgets,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) localNow() time.Time {
	loc := s.source.Location()
	if loc == nil {
		loc = time.Local
	}
	return s.now().In(loc)
}

// AnswerQuestion answers query from the caller's last six months of records.
// Unparsable model output degrades to an echo of the raw text plus the context.
func (s *Service) AnswerQuestion(ctx context.Context, userID, query string) (*Answer, error) {
	if userID == "" {
		return nil, errors.ErrUnauthenticated
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.ErrMissingQuery
	}

	now := s.localNow()
	since := LookbackStart(now)
	records, err := s.source.UserExpenses(ctx, userID, expense.Query{Since: &since})
	if err != nil {
		return nil, err
	}

	contextJSON, err := json.Marshal(BuildSixMonthContext(records, now))
	if err != nil {
		return nil, errors.NewInternalError("Failed to encode context", err)
	}

	out, err := s.complete(ctx, CompletionRequest{
		Prompt:          questionPrompt(contextJSON, query),
		MaxOutputTokens: s.budgets.QuestionMaxTokens,
	})
	if err != nil {
		s.logger.Error("question completion failed", "user_id", userID, "error", err)
		return nil, err
	}

	answer, ok := parseAnswer(out)
	if !ok {
		s.logger.Warn("completion output is not a valid answer, echoing raw text", "user_id", userID)
		return &Answer{Answer: out, UsedDataSummary: contextJSON, Fallback: true}, nil
	}
	if len(answer.UsedDataSummary) == 0 || bytes.Equal(answer.UsedDataSummary, []byte("null")) {
		answer.UsedDataSummary = contextJSON
	}

	s.logger.Info("question answered", "user_id", userID, "records", len(records))
	return answer, nil
}

// GenerateRecommendations builds a report from the 500 most recent records.
// Output that is not JSON is passed through as raw text.
func (s *Service) GenerateRecommendations(ctx context.Context, userID string) (*RecommendationResult, error) {
	if userID == "" {
		return nil, errors.ErrUnauthenticated
	}

	records, err := s.source.UserExpenses(ctx, userID, expense.Query{Limit: MaxRecommendationRecords})
	if err != nil {
		return nil, err
	}

	expensesJSON, err := json.Marshal(BuildRecommendationContext(records))
	if err != nil {
		return nil, errors.NewInternalError("Failed to encode context", err)
	}

	out, err := s.complete(ctx, CompletionRequest{
		Prompt:          recommendationPrompt(expensesJSON),
		MaxOutputTokens: s.budgets.RecommendationMaxTokens,
	})
	if err != nil {
		s.logger.Error("recommendation completion failed", "user_id", userID, "error", err)
		return nil, err
	}

	body := []byte(stripCodeFence(out))
	if !json.Valid(body) {
		s.logger.Warn("completion output is not JSON, returning raw text", "user_id", userID)
		return &RecommendationResult{Raw: out}, nil
	}

	var report Report
	if err := json.Unmarshal(body, &report); err != nil {
		s.logger.Warn("completion output does not match the report shape, passing it through", "user_id", userID, "error", err)
		return &RecommendationResult{Passthrough: json.RawMessage(body)}, nil
	}

	s.logger.Info("recommendations generated", "user_id", userID, "records", len(records))
	return &RecommendationResult{Report: &report}, nil
}

func (s *Service) complete(ctx context.Context, req CompletionRequest) (string, error) {
	out, err := s.completer.Complete(ctx, req)
	if err == nil {
		return out, nil
	}
	if appErr, ok := errors.IsAppError(err); ok {
		return "", appErr
	}
	return "", errors.ErrUpstreamFailed.WithCause(err)
}

func parseAnswer(out string) (*Answer, bool) {
	var parsed struct {
		Answer          *string         `json:"answer"`
		UsedDataSummary json.RawMessage `json:"usedDataSummary"`
	}
	if err := json.Unmarshal([]byte(stripCodeFence(out)), &parsed); err != nil || parsed.Answer == nil {
		return nil, false
	}
	return &Answer{Answer: *parsed.Answer, UsedDataSummary: parsed.UsedDataSummary}, true
}
