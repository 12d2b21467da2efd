package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	categoryID  uint
	blockNumber int
	questions   []Question
}

func (f *fakeRepo) ListCategories(_ context.Context) ([]Category, error) { return nil, nil }

func (f *fakeRepo) ListBlocksByCategory(_ context.Context, _ uint) ([]Block, error) {
	return nil, nil
}

func (f *fakeRepo) ListQuestionsByBlock(_ context.Context, categoryID uint, blockNumber int) ([]Question, error) {
	f.categoryID = categoryID
	f.blockNumber = blockNumber
	return f.questions, nil
}

func (f *fakeRepo) ListOptionsByQuestion(_ context.Context, _ string) ([]Option, error) {
	return nil, nil
}

func (f *fakeRepo) GetQuestionMeta(_ context.Context, _ string) (*QuestionMeta, error) {
	return nil, nil
}

func TestParseBlockCode(t *testing.T) {
	categoryID, blockNumber, err := ParseBlockCode("3_2")
	require.NoError(t, err)
	assert.Equal(t, uint(3), categoryID)
	assert.Equal(t, 2, blockNumber)
}

func TestParseBlockCodeInvalid(t *testing.T) {
	for _, code := range []string{"", "1", "1_2_3", "a_1", "1_b", "_", "-1_1"} {
		_, _, err := ParseBlockCode(code)
		assert.ErrorIs(t, err, ErrInvalidBlockCode, code)
	}
}

func TestGetQuestionsParsesBlockCode(t *testing.T) {
	repo := &fakeRepo{questions: []Question{{QuestionCode: "Q1_1_1"}}}
	svc := NewService(repo)

	questions, err := svc.GetQuestions(context.Background(), "1_1")
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, uint(1), repo.categoryID)
	assert.Equal(t, 1, repo.blockNumber)
}

func TestGetQuestionsRejectsBadBlockCode(t *testing.T) {
	svc := NewService(&fakeRepo{})

	_, err := svc.GetQuestions(context.Background(), "not-a-code")
	assert.ErrorIs(t, err, ErrInvalidBlockCode)
}
