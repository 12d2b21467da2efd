package catalog

import "time"

// Category is the top of the catalog tree. Rows are immutable after
// publication; only the bulk importer writes them.
type Category struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CategoryName string    `gorm:"uniqueIndex;not null" json:"category_name"`
	CategoryText string    `json:"category_text"`
	Description  string    `json:"description"`
	DayOfWeek    string    `json:"day_of_week"`
	SortOrder    int       `json:"sort_order"`
	CreatedAt    time.Time `json:"created_at"`
}

// Block groups questions for sequential presentation within a category.
type Block struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CategoryID   uint      `gorm:"not null;index" json:"category_id"`
	BlockNumber  int       `gorm:"not null" json:"block_number"`
	BlockCode    string    `gorm:"uniqueIndex;not null" json:"block_code"`
	BlockText    string    `json:"block_text"`
	CategoryName string    `json:"category_name"`
	Version      string    `json:"version"`
	CreatedAt    time.Time `json:"created_at"`
}

type Question struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	QuestionCode     string    `gorm:"uniqueIndex;not null" json:"question_code"`
	CategoryID       uint      `gorm:"not null" json:"category_id"`
	BlockNumber      int       `gorm:"not null" json:"block_number"`
	QuestionNumber   int       `gorm:"not null" json:"question_number"`
	QuestionText     string    `gorm:"not null" json:"question_text"`
	BlockText        string    `json:"block_text"`
	CheckBox         bool      `gorm:"default:false" json:"check_box"`
	MaxSelect        int       `gorm:"default:1" json:"max_select"`
	IsStartQuestion  bool      `gorm:"default:false" json:"is_start_question"`
	ParentQuestionID *uint     `json:"parent_question_id"`
	ColorCode        string    `json:"color_code"`
	Version          string    `json:"version"`
	CreatedAt        time.Time `json:"created_at"`
}

// Option is the resolution target for every vote. OptionSelect is the short
// client-facing selector ("A", "B", ...), unique within a question.
type Option struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	QuestionCode    string    `gorm:"not null;uniqueIndex:idx_options_question_select" json:"question_code"`
	OptionSelect    string    `gorm:"not null;uniqueIndex:idx_options_question_select" json:"option_select"`
	OptionCode      string    `json:"option_code"`
	OptionText      string    `json:"option_text"`
	SortOrder       int       `json:"sort_order"`
	Weight          float64   `gorm:"default:1.0" json:"weight"`
	NextQuestionID  *uint     `json:"next_question_id"`
	ToneTag         string    `json:"tone_tag"`
	ResponseMessage string    `json:"response_message"`
	CompanionAdvice string    `json:"companion_advice"`
	CreatedAt       time.Time `json:"created_at"`
}

// QuestionMeta is the denormalizable slice of catalog state a vote row
// snapshots at submission time.
type QuestionMeta struct {
	QuestionText   string
	QuestionNumber int
	CategoryID     uint
	CategoryName   string
	CategoryText   string
	BlockNumber    int
	CheckBox       bool
	MaxSelect      int
}
