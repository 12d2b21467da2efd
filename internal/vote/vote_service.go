package vote

import (
	"context"
	"fmt"
	"log/slog"

	"poll-service/internal/catalog"
	"poll-service/pkg/response"

	"github.com/google/uuid"
)

type Service interface {
	// SubmitVote records one user's answer to one question and returns
	// the fresh tally. The whole submission commits or rolls back as one
	// transaction under the per-(user, question) advisory lock.
	SubmitVote(ctx context.Context, req *SubmitRequest) (*TallySnapshot, error)

	GetResults(ctx context.Context, questionCode string) (*TallySnapshot, error)

	// RefreshResults recomputes a question's tally and rewrites the
	// cache entry. Used by the vote-event worker.
	RefreshResults(ctx context.Context, questionCode string) (*TallySnapshot, error)
}

type service struct {
	repo      Repository
	cache     *TallyCache
	publisher EventPublisher
}

// NewService wires the resolver. Cache and publisher may be nil; both are
// best-effort collaborators.
func NewService(repo Repository, cache *TallyCache, publisher EventPublisher) Service {
	return &service{repo: repo, cache: cache, publisher: publisher}
}

func (s *service) SubmitVote(ctx context.Context, req *SubmitRequest) (*TallySnapshot, error) {
	if _, err := uuid.Parse(req.UserUUID); err != nil {
		return nil, fmt.Errorf("%w: user_uuid is not a valid UUID", response.ErrInvalidAnswerShape)
	}
	if req.QuestionCode == "" {
		return nil, fmt.Errorf("%w: question_code is required", response.ErrInvalidAnswerShape)
	}

	answer, err := ParseAnswer(req)
	if err != nil {
		return nil, err
	}

	key := LockKey{UserUUID: req.UserUUID, QuestionCode: req.QuestionCode}
	err = s.repo.WithinSubmission(ctx, key, func(tx SubmissionTx) error {
		meta, err := tx.QuestionMeta(req.QuestionCode)
		if err != nil {
			return err
		}

		switch answer.Kind {
		case AnswerSingle:
			return s.applySingle(tx, req, meta, answer)
		case AnswerOther:
			return s.applyOther(tx, req, meta, answer)
		case AnswerCheckbox:
			return s.applyCheckbox(tx, req, meta, answer)
		default:
			return response.ErrInvalidAnswerShape
		}
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, req.QuestionCode)
	s.publish(ctx, req, answer)

	return s.GetResults(ctx, req.QuestionCode)
}

// applySingle resolves the select-key against the catalog and replaces the
// user's prior answer with a weight-1.0 row.
func (s *service) applySingle(tx SubmissionTx, req *SubmitRequest, meta *catalog.QuestionMeta, answer Answer) error {
	option, err := tx.FindOption(req.QuestionCode, answer.Key)
	if err != nil {
		return err
	}

	if err := tx.DeletePrior(req.UserUUID, req.QuestionCode); err != nil {
		return err
	}

	optionID := option.ID
	return tx.InsertResponse(&Response{
		UserUUID:       req.UserUUID,
		QuestionCode:   req.QuestionCode,
		QuestionText:   meta.QuestionText,
		QuestionNumber: meta.QuestionNumber,
		CategoryID:     meta.CategoryID,
		CategoryName:   meta.CategoryName,
		CategoryText:   meta.CategoryText,
		BlockNumber:    meta.BlockNumber,
		OptionID:       &optionID,
		OptionSelect:   option.OptionSelect,
		OptionCode:     option.OptionCode,
		OptionText:     option.OptionText,
		Weight:         1.0,
	})
}

// applyOther stores the free text and a placeholder single-choice row so
// aggregation shows the "Other" bucket without a join.
func (s *service) applyOther(tx SubmissionTx, req *SubmitRequest, meta *catalog.QuestionMeta, answer Answer) error {
	if err := tx.DeletePrior(req.UserUUID, req.QuestionCode); err != nil {
		return err
	}

	err := tx.InsertResponse(&Response{
		UserUUID:       req.UserUUID,
		QuestionCode:   req.QuestionCode,
		QuestionText:   meta.QuestionText,
		QuestionNumber: meta.QuestionNumber,
		CategoryID:     meta.CategoryID,
		CategoryName:   meta.CategoryName,
		CategoryText:   meta.CategoryText,
		BlockNumber:    meta.BlockNumber,
		OptionID:       nil,
		OptionSelect:   OtherKey,
		OptionCode:     fmt.Sprintf("%s_%s", req.QuestionCode, OtherKey),
		OptionText:     "Other",
		Weight:         1.0,
	})
	if err != nil {
		return err
	}

	if answer.FreeText == "" {
		return nil
	}
	return tx.InsertOtherResponse(s.otherRow(req, meta, answer.FreeText, 1.0))
}

// applyCheckbox resolves every key before any write so an unresolvable key
// fails the whole submission, then inserts one equal-weight row per key.
func (s *service) applyCheckbox(tx SubmissionTx, req *SubmitRequest, meta *catalog.QuestionMeta, answer Answer) error {
	keys := dedupeKeys(answer.Keys)
	if meta.MaxSelect > 0 && len(keys) > meta.MaxSelect {
		return fmt.Errorf("%w: too many options selected, maximum allowed: %d",
			response.ErrInvalidAnswerShape, meta.MaxSelect)
	}

	weight := 1.0 / float64(len(keys))
	if answer.Weight != nil {
		weight = *answer.Weight
	}

	rows := make([]CheckboxResponse, 0, len(keys))
	hasOther := false
	for _, key := range keys {
		row := CheckboxResponse{
			UserUUID:       req.UserUUID,
			QuestionCode:   req.QuestionCode,
			QuestionText:   meta.QuestionText,
			QuestionNumber: meta.QuestionNumber,
			CategoryID:     meta.CategoryID,
			CategoryName:   meta.CategoryName,
			CategoryText:   meta.CategoryText,
			BlockNumber:    meta.BlockNumber,
			Weight:         weight,
		}

		if key == OtherKey {
			hasOther = true
			row.OptionSelect = OtherKey
			row.OptionCode = fmt.Sprintf("%s_%s", req.QuestionCode, OtherKey)
			row.OptionText = "Other"
			if answer.FreeText != "" {
				row.OptionText = answer.FreeText
			}
		} else {
			option, err := tx.FindOption(req.QuestionCode, key)
			if err != nil {
				return err
			}
			optionID := option.ID
			row.OptionID = &optionID
			row.OptionSelect = option.OptionSelect
			row.OptionCode = option.OptionCode
			row.OptionText = option.OptionText
		}

		rows = append(rows, row)
	}

	if err := tx.DeletePrior(req.UserUUID, req.QuestionCode); err != nil {
		return err
	}
	if err := tx.InsertCheckboxResponses(rows); err != nil {
		return err
	}

	if hasOther && answer.FreeText != "" {
		return tx.InsertOtherResponse(s.otherRow(req, meta, answer.FreeText, weight))
	}
	return nil
}

func (s *service) otherRow(req *SubmitRequest, meta *catalog.QuestionMeta, text string, weight float64) *OtherResponse {
	return &OtherResponse{
		UserUUID:       req.UserUUID,
		QuestionCode:   req.QuestionCode,
		QuestionText:   meta.QuestionText,
		QuestionNumber: meta.QuestionNumber,
		CategoryID:     meta.CategoryID,
		CategoryName:   meta.CategoryName,
		CategoryText:   meta.CategoryText,
		BlockNumber:    meta.BlockNumber,
		OtherText:      text,
		Weight:         weight,
	}
}

func (s *service) GetResults(ctx context.Context, questionCode string) (*TallySnapshot, error) {
	if s.cache != nil {
		if snapshot, ok := s.cache.Get(ctx, questionCode); ok {
			return snapshot, nil
		}
	}
	return s.RefreshResults(ctx, questionCode)
}

func (s *service) RefreshResults(ctx context.Context, questionCode string) (*TallySnapshot, error) {
	exists, err := s.repo.QuestionExists(ctx, questionCode)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, response.ErrQuestionNotFound
	}

	options, err := s.repo.ListOptions(ctx, questionCode)
	if err != nil {
		return nil, err
	}
	singles, err := s.repo.SingleTallies(ctx, questionCode)
	if err != nil {
		return nil, err
	}
	checkboxes, err := s.repo.CheckboxTallies(ctx, questionCode)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.DistinctRespondents(ctx, questionCode)
	if err != nil {
		return nil, err
	}

	snapshot := &TallySnapshot{
		QuestionCode:   questionCode,
		Results:        MergeTallies(options, singles, checkboxes),
		TotalResponses: total,
	}

	if s.cache != nil {
		s.cache.Set(ctx, snapshot)
	}
	return snapshot, nil
}

func (s *service) invalidate(ctx context.Context, questionCode string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, questionCode); err != nil {
		slog.Warn("Failed to invalidate tally cache", "question_code", questionCode, "error", err)
	}
}

func (s *service) publish(ctx context.Context, req *SubmitRequest, answer Answer) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, NewEvent(req, answer)); err != nil {
		// Vote events are best-effort; the vote itself is already durable.
		slog.Warn("Failed to publish vote event", "question_code", req.QuestionCode, "error", err)
	}
}

func dedupeKeys(keys []string) []string {
	seen := make(map[string]bool, len(keys))
	out := keys[:0:0]
	for _, key := range keys {
		norm := normalizeKey(key)
		if seen[norm] {
			continue
		}
		seen[norm] = true
		out = append(out, key)
	}
	return out
}
