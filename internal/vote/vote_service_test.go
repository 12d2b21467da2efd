package vote

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"

	"poll-service/internal/catalog"
	"poll-service/pkg/response"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testUser  = "3f2c9a10-6a1b-4a38-9d0e-1c2b3a4d5e6f"
	testUser2 = "7b8e1f22-9c3d-4e5f-8a6b-0d1c2e3f4a5b"
	testQ     = "Q1_1_1"
)

// fakeRepo is an in-memory Repository. Writes staged inside
// WithinSubmission apply only when fn succeeds, mirroring transaction
// semantics.
type fakeRepo struct {
	meta    map[string]*catalog.QuestionMeta
	options map[string][]catalog.Option

	singles    []Response
	checkboxes []CheckboxResponse
	others     []OtherResponse

	lockKeys []LockKey

	otherInsertErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		meta: map[string]*catalog.QuestionMeta{
			testQ: {
				QuestionText:   "How was your day?",
				QuestionNumber: 1,
				CategoryID:     1,
				CategoryName:   "monday",
				CategoryText:   "Monday",
				BlockNumber:    1,
				MaxSelect:      3,
			},
		},
		options: map[string][]catalog.Option{
			testQ: {
				{ID: 1, QuestionCode: testQ, OptionSelect: "A", OptionCode: "Q1_1_1_A", OptionText: "Good"},
				{ID: 2, QuestionCode: testQ, OptionSelect: "B", OptionCode: "Q1_1_1_B", OptionText: "Bad"},
				{ID: 3, QuestionCode: testQ, OptionSelect: "C", OptionCode: "Q1_1_1_C", OptionText: "Okay"},
			},
		},
	}
}

type fakeTx struct {
	repo *fakeRepo

	deletes    [][2]string
	singles    []Response
	checkboxes []CheckboxResponse
	others     []OtherResponse
}

func (r *fakeRepo) WithinSubmission(_ context.Context, key LockKey, fn func(tx SubmissionTx) error) error {
	r.lockKeys = append(r.lockKeys, key)
	tx := &fakeTx{repo: r}
	if err := fn(tx); err != nil {
		return err
	}

	for _, d := range tx.deletes {
		r.deleteRows(d[0], d[1])
	}
	r.singles = append(r.singles, tx.singles...)
	r.checkboxes = append(r.checkboxes, tx.checkboxes...)
	r.others = append(r.others, tx.others...)
	return nil
}

func (r *fakeRepo) deleteRows(userUUID, questionCode string) {
	keep := r.singles[:0]
	for _, row := range r.singles {
		if row.UserUUID != userUUID || row.QuestionCode != questionCode {
			keep = append(keep, row)
		}
	}
	r.singles = keep

	keepCB := r.checkboxes[:0]
	for _, row := range r.checkboxes {
		if row.UserUUID != userUUID || row.QuestionCode != questionCode {
			keepCB = append(keepCB, row)
		}
	}
	r.checkboxes = keepCB

	keepOther := r.others[:0]
	for _, row := range r.others {
		if row.UserUUID != userUUID || row.QuestionCode != questionCode {
			keepOther = append(keepOther, row)
		}
	}
	r.others = keepOther
}

func (t *fakeTx) QuestionMeta(questionCode string) (*catalog.QuestionMeta, error) {
	meta, ok := t.repo.meta[questionCode]
	if !ok {
		return nil, response.ErrQuestionNotFound
	}
	return meta, nil
}

func (t *fakeTx) FindOption(questionCode, selectKey string) (*catalog.Option, error) {
	norm := strings.ToUpper(strings.TrimSpace(selectKey))
	for _, option := range t.repo.options[questionCode] {
		if strings.ToUpper(strings.TrimSpace(option.OptionSelect)) == norm {
			o := option
			return &o, nil
		}
	}
	return nil, response.ErrOptionNotFound
}

func (t *fakeTx) DeletePrior(userUUID, questionCode string) error {
	t.deletes = append(t.deletes, [2]string{userUUID, questionCode})
	return nil
}

func (t *fakeTx) InsertResponse(r *Response) error {
	t.singles = append(t.singles, *r)
	return nil
}

func (t *fakeTx) InsertCheckboxResponses(rows []CheckboxResponse) error {
	t.checkboxes = append(t.checkboxes, rows...)
	return nil
}

func (t *fakeTx) InsertOtherResponse(r *OtherResponse) error {
	if t.repo.otherInsertErr != nil {
		return t.repo.otherInsertErr
	}
	t.others = append(t.others, *r)
	return nil
}

func (r *fakeRepo) ListOptions(_ context.Context, questionCode string) ([]catalog.Option, error) {
	options := append([]catalog.Option(nil), r.options[questionCode]...)
	sort.Slice(options, func(i, j int) bool {
		if options[i].SortOrder != options[j].SortOrder {
			return options[i].SortOrder < options[j].SortOrder
		}
		return options[i].OptionSelect < options[j].OptionSelect
	})
	return options, nil
}

func (r *fakeRepo) QuestionExists(_ context.Context, questionCode string) (bool, error) {
	_, ok := r.meta[questionCode]
	return ok, nil
}

func (r *fakeRepo) SingleTallies(_ context.Context, questionCode string) ([]KeyTally, error) {
	counts := make(map[string]float64)
	for _, row := range r.singles {
		if row.QuestionCode == questionCode {
			counts[row.OptionSelect] += row.Weight
		}
	}
	return toTallies(counts), nil
}

func (r *fakeRepo) CheckboxTallies(_ context.Context, questionCode string) ([]KeyTally, error) {
	counts := make(map[string]float64)
	for _, row := range r.checkboxes {
		if row.QuestionCode == questionCode {
			counts[row.OptionSelect] += row.Weight
		}
	}
	return toTallies(counts), nil
}

func (r *fakeRepo) DistinctRespondents(_ context.Context, questionCode string) (int64, error) {
	users := make(map[string]bool)
	for _, row := range r.singles {
		if row.QuestionCode == questionCode {
			users[row.UserUUID] = true
		}
	}
	for _, row := range r.checkboxes {
		if row.QuestionCode == questionCode {
			users[row.UserUUID] = true
		}
	}
	return int64(len(users)), nil
}

func toTallies(counts map[string]float64) []KeyTally {
	out := make([]KeyTally, 0, len(counts))
	for key, votes := range counts {
		out = append(out, KeyTally{OptionSelect: key, Votes: votes})
	}
	return out
}

type fakePublisher struct {
	events []Event
	err    error
}

func (p *fakePublisher) Publish(_ context.Context, event Event) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func findTally(t *testing.T, results []OptionTally, selectKey string) OptionTally {
	t.Helper()
	for _, tally := range results {
		if tally.OptionSelect == selectKey {
			return tally
		}
	}
	t.Fatalf("no tally for key %q", selectKey)
	return OptionTally{}
}

func TestSubmitVoteSingle(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil, nil)

	snapshot, err := svc.SubmitVote(context.Background(), &SubmitRequest{
		UserUUID:     testUser,
		QuestionCode: testQ,
		SelectedKey:  strPtr("a"),
	})
	require.NoError(t, err)

	require.Len(t, repo.singles, 1)
	row := repo.singles[0]
	assert.Equal(t, "A", row.OptionSelect)
	assert.Equal(t, "Q1_1_1_A", row.OptionCode)
	assert.Equal(t, "Good", row.OptionText)
	assert.Equal(t, 1.0, row.Weight)
	require.NotNil(t, row.OptionID)
	assert.Equal(t, uint(1), *row.OptionID)
	assert.Equal(t, "How was your day?", row.QuestionText)
	assert.Equal(t, "monday", row.CategoryName)

	assert.Equal(t, 1.0, findTally(t, snapshot.Results, "A").Votes)
	assert.Equal(t, 0.0, findTally(t, snapshot.Results, "B").Votes)
	assert.Equal(t, int64(1), snapshot.TotalResponses)
}

func TestSubmitVoteInvalidUUID(t *testing.T) {
	svc := NewService(newFakeRepo(), nil, nil)

	_, err := svc.SubmitVote(context.Background(), &SubmitRequest{
		UserUUID:     "not-a-uuid",
		QuestionCode: testQ,
		SelectedKey:  strPtr("A"),
	})
	assert.ErrorIs(t, err, response.ErrInvalidAnswerShape)
}

func TestSubmitVoteUnknownQuestion(t *testing.T) {
	svc := NewService(newFakeRepo(), nil, nil)

	_, err := svc.SubmitVote(context.Background(), &SubmitRequest{
		UserUUID:     testUser,
		QuestionCode: "Q_MISSING",
		SelectedKey:  strPtr("A"),
	})
	assert.ErrorIs(t, err, response.ErrQuestionNotFound)
}

func TestSubmitVoteUnknownOptionRollsBack(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil, nil)

	// Seed a prior answer; the failed resubmission must not disturb it.
	_, err := svc.SubmitVote(context.Background(), &SubmitRequest{
		UserUUID:     testUser,
		QuestionCode: testQ,
		SelectedKey:  strPtr("A"),
	})
	require.NoError(t, err)

	_, err = svc.SubmitVote(context.Background(), &SubmitRequest{
		UserUUID:     testUser,
		QuestionCode: testQ,
		SelectedKey:  strPtr("Z"),
	})
	assert.ErrorIs(t, err, response.ErrOptionNotFound)

	require.Len(t, repo.singles, 1)
	assert.Equal(t, "A", repo.singles[0].OptionSelect)
}

func TestSubmitVoteLatestWins(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil, nil)

	for _, key := range []string{"A", "B"} {
		_, err := svc.SubmitVote(context.Background(), &SubmitRequest{
			UserUUID:     testUser,
			QuestionCode: testQ,
			SelectedKey:  strPtr(key),
		})
		require.NoError(t, err)
	}

	require.Len(t, repo.singles, 1)
	assert.Equal(t, "B", repo.singles[0].OptionSelect)
}

func TestSubmitVoteSwitchingShapesReplacesPrior(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil, nil)

	_, err := svc.SubmitVote(context.Background(), &SubmitRequest{
		UserUUID:     testUser,
		QuestionCode: testQ,
		SelectedKeys: []string{"A", "B"},
	})
	require.NoError(t, err)
	require.Len(t, repo.checkboxes, 2)

	_, err = svc.SubmitVote(context.Background(), &SubmitRequest{
		UserUUID:     testUser,
		QuestionCode: testQ,
		SelectedKey:  strPtr("C"),
	})
	require.NoError(t, err)

	assert.Empty(t, repo.checkboxes)
	require.Len(t, repo.singles, 1)
	assert.Equal(t, "C", repo.singles[0].OptionSelect)
}

func TestSubmitVoteCheckboxEqualWeights(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil, nil)

	snapshot, err := svc.SubmitVote(context.Background(), &SubmitRequest{
		UserUUID:     testUser,
		QuestionCode: testQ,
		SelectedKeys: []string{"A", "B"},
	})
	require.NoError(t, err)

	require.Len(t, repo.checkboxes, 2)
	for _, row := range repo.checkboxes {
		assert.InDelta(t, 0.5, row.Weight, 1e-9)
	}

	// One respondent contributes 1.0 in total across the selection.
	total := 0.0
	for _, tally := range snapshot.Results {
		total += tally.Votes
	}
	assert.InDelta(t, 1.0, total, 1e-9)
	assert.Equal(t, int64(1), snapshot.TotalResponses)
}

func TestSubmitVoteCheckboxWeightOverride(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil, nil)

	weight := 1.0
	_, err := svc.SubmitVote(context.Background(), &SubmitRequest{
		UserUUID:     testUser,
		QuestionCode: testQ,
		SelectedKeys: []string{"A", "B"},
		Weight:       &weight,
	})
	require.NoError(t, err)

	require.Len(t, repo.checkboxes, 2)
	for _, row := range repo.checkboxes {
		assert.Equal(t, 1.0, row.Weight)
	}
}

func TestSubmitVoteCheckboxDedupesKeys(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil, nil)

	_, err := svc.SubmitVote(context.Background(), &SubmitRequest{
		UserUUID:     testUser,
		QuestionCode: testQ,
		SelectedKeys: []string{"A", "a", " A "},
	})
	require.NoError(t, err)

	require.Len(t, repo.checkboxes, 1)
	assert.Equal(t, 1.0, repo.checkboxes[0].Weight)
}

func TestSubmitVoteCheckboxMaxSelect(t *testing.T) {
	repo := newFakeRepo()
	repo.meta[testQ].MaxSelect = 2
	svc := NewService(repo, nil, nil)

	_, err := svc.SubmitVote(context.Background(), &SubmitRequest{
		UserUUID:     testUser,
		QuestionCode: testQ,
		SelectedKeys: []string{"A", "B", "C"},
	})
	assert.ErrorIs(t, err, response.ErrInvalidAnswerShape)
	assert.Empty(t, repo.checkboxes)
}

func TestSubmitVoteCheckboxWithOther(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil, nil)

	_, err := svc.SubmitVote(context.Background(), &SubmitRequest{
		UserUUID:     testUser,
		QuestionCode: testQ,
		SelectedKeys: []string{"A", "other"},
		FreeText:     "custom reason",
	})
	require.NoError(t, err)

	require.Len(t, repo.checkboxes, 2)
	otherRow := repo.checkboxes[1]
	assert.Equal(t, OtherKey, otherRow.OptionSelect)
	assert.Equal(t, testQ+"_OTHER", otherRow.OptionCode)
	assert.Equal(t, "custom reason", otherRow.OptionText)
	assert.Nil(t, otherRow.OptionID)
	assert.InDelta(t, 0.5, otherRow.Weight, 1e-9)

	require.Len(t, repo.others, 1)
	assert.Equal(t, "custom reason", repo.others[0].OtherText)
	assert.InDelta(t, 0.5, repo.others[0].Weight, 1e-9)
}

func TestSubmitVoteOther(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil, nil)

	_, err := svc.SubmitVote(context.Background(), &SubmitRequest{
		UserUUID:     testUser,
		QuestionCode: testQ,
		FreeText:     "none of these",
	})
	require.NoError(t, err)

	// The placeholder row keeps the Other bucket countable without a join.
	require.Len(t, repo.singles, 1)
	row := repo.singles[0]
	assert.Equal(t, OtherKey, row.OptionSelect)
	assert.Equal(t, testQ+"_OTHER", row.OptionCode)
	assert.Equal(t, "Other", row.OptionText)
	assert.Nil(t, row.OptionID)
	assert.Equal(t, 1.0, row.Weight)

	require.Len(t, repo.others, 1)
	assert.Equal(t, "none of these", repo.others[0].OtherText)
}

func TestSubmitVoteOtherInsertFailureLeavesNoRows(t *testing.T) {
	repo := newFakeRepo()
	repo.otherInsertErr = response.ErrStorage
	svc := NewService(repo, nil, nil)

	_, err := svc.SubmitVote(context.Background(), &SubmitRequest{
		UserUUID:     testUser,
		QuestionCode: testQ,
		FreeText:     "none of these",
	})
	assert.ErrorIs(t, err, response.ErrStorage)

	// The placeholder single row was staged before the failing insert;
	// the rollback must discard it too.
	assert.Empty(t, repo.singles)
	assert.Empty(t, repo.others)
}

func TestSubmitVoteCheckboxOtherInsertFailureLeavesNoRows(t *testing.T) {
	repo := newFakeRepo()
	repo.otherInsertErr = response.ErrStorage
	svc := NewService(repo, nil, nil)

	_, err := svc.SubmitVote(context.Background(), &SubmitRequest{
		UserUUID:     testUser,
		QuestionCode: testQ,
		SelectedKeys: []string{"A", "OTHER"},
		FreeText:     "custom reason",
	})
	assert.ErrorIs(t, err, response.ErrStorage)

	assert.Empty(t, repo.checkboxes)
	assert.Empty(t, repo.others)
}

func TestSubmitVoteOtherSentinelWithoutText(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil, nil)

	_, err := svc.SubmitVote(context.Background(), &SubmitRequest{
		UserUUID:     testUser,
		QuestionCode: testQ,
		SelectedKey:  strPtr("OTHER"),
	})
	require.NoError(t, err)

	require.Len(t, repo.singles, 1)
	assert.Empty(t, repo.others)
}

func TestSubmitVoteAcquiresLockPerUserQuestion(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil, nil)

	_, err := svc.SubmitVote(context.Background(), &SubmitRequest{
		UserUUID:     testUser,
		QuestionCode: testQ,
		SelectedKey:  strPtr("A"),
	})
	require.NoError(t, err)

	require.Len(t, repo.lockKeys, 1)
	assert.Equal(t, LockKey{UserUUID: testUser, QuestionCode: testQ}, repo.lockKeys[0])
}

func TestSubmitVotePublishesEvent(t *testing.T) {
	repo := newFakeRepo()
	publisher := &fakePublisher{}
	svc := NewService(repo, nil, publisher)

	_, err := svc.SubmitVote(context.Background(), &SubmitRequest{
		UserUUID:     testUser,
		QuestionCode: testQ,
		SelectedKey:  strPtr("A"),
	})
	require.NoError(t, err)

	require.Len(t, publisher.events, 1)
	assert.Equal(t, testUser, publisher.events[0].UserUUID)
	assert.Equal(t, testQ, publisher.events[0].QuestionCode)
}

func TestSubmitVotePublishFailureIsNotFatal(t *testing.T) {
	repo := newFakeRepo()
	publisher := &fakePublisher{err: errors.New("broker down")}
	svc := NewService(repo, nil, publisher)

	_, err := svc.SubmitVote(context.Background(), &SubmitRequest{
		UserUUID:     testUser,
		QuestionCode: testQ,
		SelectedKey:  strPtr("A"),
	})
	assert.NoError(t, err)
	require.Len(t, repo.singles, 1)
}

func TestGetResultsCountsDistinctUsers(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil, nil)

	_, err := svc.SubmitVote(context.Background(), &SubmitRequest{
		UserUUID:     testUser,
		QuestionCode: testQ,
		SelectedKey:  strPtr("A"),
	})
	require.NoError(t, err)

	_, err = svc.SubmitVote(context.Background(), &SubmitRequest{
		UserUUID:     testUser2,
		QuestionCode: testQ,
		SelectedKeys: []string{"A", "B"},
	})
	require.NoError(t, err)

	snapshot, err := svc.GetResults(context.Background(), testQ)
	require.NoError(t, err)
	assert.Equal(t, int64(2), snapshot.TotalResponses)
	assert.InDelta(t, 1.5, findTally(t, snapshot.Results, "A").Votes, 1e-9)
}

func TestGetResultsUnknownQuestion(t *testing.T) {
	svc := NewService(newFakeRepo(), nil, nil)

	_, err := svc.GetResults(context.Background(), "Q_MISSING")
	assert.ErrorIs(t, err, response.ErrQuestionNotFound)
}
