package catalog

import (
	"context"
	"errors"
	"strconv"
	"strings"
)

var ErrInvalidBlockCode = errors.New("invalid block code, expected format: category_block (e.g. 1_1)")

type Service interface {
	GetCategories(ctx context.Context) ([]Category, error)
	GetBlocks(ctx context.Context, categoryID uint) ([]Block, error)
	GetQuestions(ctx context.Context, blockCode string) ([]Question, error)
	GetOptions(ctx context.Context, questionCode string) ([]Option, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetCategories(ctx context.Context) ([]Category, error) {
	return s.repo.ListCategories(ctx)
}

func (s *service) GetBlocks(ctx context.Context, categoryID uint) ([]Block, error) {
	return s.repo.ListBlocksByCategory(ctx, categoryID)
}

func (s *service) GetQuestions(ctx context.Context, blockCode string) ([]Question, error) {
	categoryID, blockNumber, err := ParseBlockCode(blockCode)
	if err != nil {
		return nil, err
	}
	return s.repo.ListQuestionsByBlock(ctx, categoryID, blockNumber)
}

func (s *service) GetOptions(ctx context.Context, questionCode string) ([]Option, error) {
	return s.repo.ListOptionsByQuestion(ctx, questionCode)
}

// ParseBlockCode splits a block code like "1_1" into its category id and
// block number.
func ParseBlockCode(blockCode string) (uint, int, error) {
	parts := strings.Split(blockCode, "_")
	if len(parts) != 2 {
		return 0, 0, ErrInvalidBlockCode
	}

	categoryID, err := strconv.ParseUint(parts[0], 10, 32)
	if err != nil {
		return 0, 0, ErrInvalidBlockCode
	}

	blockNumber, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, ErrInvalidBlockCode
	}

	return uint(categoryID), blockNumber, nil
}
