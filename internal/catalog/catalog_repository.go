package catalog

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("catalog entry not found")

type Repository interface {
	ListCategories(ctx context.Context) ([]Category, error)
	ListBlocksByCategory(ctx context.Context, categoryID uint) ([]Block, error)
	ListQuestionsByBlock(ctx context.Context, categoryID uint, blockNumber int) ([]Question, error)
	ListOptionsByQuestion(ctx context.Context, questionCode string) ([]Option, error)
	GetQuestionMeta(ctx context.Context, questionCode string) (*QuestionMeta, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListCategories(ctx context.Context) ([]Category, error) {
	var categories []Category
	err := r.db.WithContext(ctx).Order("sort_order, id").Find(&categories).Error
	return categories, err
}

func (r *repository) ListBlocksByCategory(ctx context.Context, categoryID uint) ([]Block, error) {
	var blocks []Block
	err := r.db.WithContext(ctx).
		Where("category_id = ?", categoryID).
		Order("block_number").
		Find(&blocks).Error
	return blocks, err
}

func (r *repository) ListQuestionsByBlock(ctx context.Context, categoryID uint, blockNumber int) ([]Question, error) {
	var questions []Question
	err := r.db.WithContext(ctx).
		Where("category_id = ? AND block_number = ?", categoryID, blockNumber).
		Order("question_number").
		Find(&questions).Error
	return questions, err
}

func (r *repository) ListOptionsByQuestion(ctx context.Context, questionCode string) ([]Option, error) {
	var options []Option
	err := r.db.WithContext(ctx).
		Where("question_code = ?", questionCode).
		Order("sort_order, option_select").
		Find(&options).Error
	return options, err
}

// GetQuestionMeta resolves the denormalizable question and category text in
// one query. Callers snapshot the result into vote rows.
func (r *repository) GetQuestionMeta(ctx context.Context, questionCode string) (*QuestionMeta, error) {
	var meta QuestionMeta
	err := r.db.WithContext(ctx).
		Table("questions q").
		Select("q.question_text, q.question_number, q.category_id, c.category_name, c.category_text, q.block_number, q.check_box, q.max_select").
		Joins("JOIN categories c ON q.category_id = c.id").
		Where("q.question_code = ?", questionCode).
		Take(&meta).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &meta, nil
}
