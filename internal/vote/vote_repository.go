package vote

import (
	"context"
	"errors"

	"poll-service/internal/catalog"
	"poll-service/pkg/response"

	"gorm.io/gorm"
)

// KeyTally is one grouped row of a tally query: summed weight per raw
// select-key as stored.
type KeyTally struct {
	OptionSelect string
	Votes        float64
}

// SubmissionTx is the write surface available while the per-(user, question)
// advisory lock is held. All writes commit or roll back together.
type SubmissionTx interface {
	QuestionMeta(questionCode string) (*catalog.QuestionMeta, error)
	FindOption(questionCode, selectKey string) (*catalog.Option, error)
	DeletePrior(userUUID, questionCode string) error
	InsertResponse(r *Response) error
	InsertCheckboxResponses(rows []CheckboxResponse) error
	InsertOtherResponse(r *OtherResponse) error
}

type Repository interface {
	// WithinSubmission runs fn inside a transaction that holds the
	// advisory lock for key. The lock is acquired exactly once and
	// released at commit or rollback.
	WithinSubmission(ctx context.Context, key LockKey, fn func(tx SubmissionTx) error) error

	ListOptions(ctx context.Context, questionCode string) ([]catalog.Option, error)
	QuestionExists(ctx context.Context, questionCode string) (bool, error)
	SingleTallies(ctx context.Context, questionCode string) ([]KeyTally, error)
	CheckboxTallies(ctx context.Context, questionCode string) ([]KeyTally, error)
	DistinctRespondents(ctx context.Context, questionCode string) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithinSubmission(ctx context.Context, key LockKey, fn func(tx SubmissionTx) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c1, c2 := key.Classes()
		// Transaction-scoped: released automatically at COMMIT or ROLLBACK.
		if err := tx.Exec("SELECT pg_advisory_xact_lock(?, ?)", c1, c2).Error; err != nil {
			return wrapStorage(err)
		}
		return fn(&submissionTx{tx: tx})
	})
}

type submissionTx struct {
	tx *gorm.DB
}

func (s *submissionTx) QuestionMeta(questionCode string) (*catalog.QuestionMeta, error) {
	var meta catalog.QuestionMeta
	err := s.tx.
		Table("questions q").
		Select("q.question_text, q.question_number, q.category_id, c.category_name, c.category_text, q.block_number, q.check_box, q.max_select").
		Joins("JOIN categories c ON q.category_id = c.id").
		Where("q.question_code = ?", questionCode).
		Take(&meta).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, response.ErrQuestionNotFound
	}
	if err != nil {
		return nil, wrapStorage(err)
	}
	return &meta, nil
}

func (s *submissionTx) FindOption(questionCode, selectKey string) (*catalog.Option, error) {
	var option catalog.Option
	err := s.tx.
		Where("question_code = ? AND UPPER(TRIM(option_select)) = UPPER(TRIM(?))", questionCode, selectKey).
		Take(&option).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, response.ErrOptionNotFound
	}
	if err != nil {
		return nil, wrapStorage(err)
	}
	return &option, nil
}

// DeletePrior implements the latest-wins history policy: a new submission
// replaces the user's prior answer across all three vote tables.
func (s *submissionTx) DeletePrior(userUUID, questionCode string) error {
	for _, model := range []interface{}{&Response{}, &CheckboxResponse{}, &OtherResponse{}} {
		if err := s.tx.
			Where("user_uuid = ? AND question_code = ?", userUUID, questionCode).
			Delete(model).Error; err != nil {
			return wrapStorage(err)
		}
	}
	return nil
}

func (s *submissionTx) InsertResponse(r *Response) error {
	return wrapStorage(s.tx.Create(r).Error)
}

func (s *submissionTx) InsertCheckboxResponses(rows []CheckboxResponse) error {
	if len(rows) == 0 {
		return nil
	}
	return wrapStorage(s.tx.Create(&rows).Error)
}

func (s *submissionTx) InsertOtherResponse(r *OtherResponse) error {
	return wrapStorage(s.tx.Create(r).Error)
}

func (r *repository) ListOptions(ctx context.Context, questionCode string) ([]catalog.Option, error) {
	var options []catalog.Option
	err := r.db.WithContext(ctx).
		Where("question_code = ?", questionCode).
		Order("sort_order, option_select").
		Find(&options).Error
	return options, wrapStorage(err)
}

func (r *repository) QuestionExists(ctx context.Context, questionCode string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&catalog.Question{}).
		Where("question_code = ?", questionCode).
		Count(&count).Error
	return count > 0, wrapStorage(err)
}

func (r *repository) SingleTallies(ctx context.Context, questionCode string) ([]KeyTally, error) {
	var tallies []KeyTally
	err := r.db.WithContext(ctx).
		Model(&Response{}).
		Select("option_select, COALESCE(SUM(weight), 0) AS votes").
		Where("question_code = ?", questionCode).
		Group("option_select").
		Scan(&tallies).Error
	return tallies, wrapStorage(err)
}

func (r *repository) CheckboxTallies(ctx context.Context, questionCode string) ([]KeyTally, error) {
	var tallies []KeyTally
	err := r.db.WithContext(ctx).
		Model(&CheckboxResponse{}).
		Select("option_select, COALESCE(SUM(weight), 0) AS votes").
		Where("question_code = ?", questionCode).
		Group("option_select").
		Scan(&tallies).Error
	return tallies, wrapStorage(err)
}

// DistinctRespondents counts unique users across both vote tables. This is
// the statistically meaningful total for a question.
func (r *repository) DistinctRespondents(ctx context.Context, questionCode string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COUNT(DISTINCT user_uuid) FROM (
			SELECT user_uuid FROM responses WHERE question_code = ?
			UNION
			SELECT user_uuid FROM checkbox_responses WHERE question_code = ?
		) AS combined_votes
	`, questionCode, questionCode).Scan(&total).Error
	return total, wrapStorage(err)
}

// wrapStorage tags unexpected database failures with the storage sentinel
// so the HTTP layer maps them to 500 without leaking driver detail.
func wrapStorage(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return response.ErrPoolExhausted
	}
	if errors.Is(err, response.ErrQuestionNotFound) ||
		errors.Is(err, response.ErrOptionNotFound) {
		return err
	}
	return errors.Join(response.ErrStorage, err)
}
