package vote

import "time"

// OtherKey is the sentinel select-key for the free-text "Other" bucket.
const OtherKey = "OTHER"

// MaxFreeTextLen caps stored free-text answers.
const MaxFreeTextLen = 500

// Response is a single-choice vote row. Every row carries a denormalized
// snapshot of the catalog text at vote time; the snapshot is never updated
// when the catalog changes.
type Response struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserUUID       string    `gorm:"not null" json:"user_uuid"`
	QuestionCode   string    `gorm:"not null" json:"question_code"`
	QuestionText   string    `json:"question_text"`
	QuestionNumber int       `json:"question_number"`
	CategoryID     uint      `json:"category_id"`
	CategoryName   string    `json:"category_name"`
	CategoryText   string    `json:"category_text"`
	BlockNumber    int       `json:"block_number"`
	OptionID       *uint     `json:"option_id"`
	OptionSelect   string    `gorm:"not null" json:"option_select"`
	OptionCode     string    `json:"option_code"`
	OptionText     string    `json:"option_text"`
	Weight         float64   `gorm:"default:1.0" json:"weight"`
	CreatedAt      time.Time `json:"created_at"`
}

// CheckboxResponse is one row per selected option of a multi-select
// submission. Weights of one submission sum to 1.0 unless overridden.
type CheckboxResponse struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserUUID       string    `gorm:"not null" json:"user_uuid"`
	QuestionCode   string    `gorm:"not null" json:"question_code"`
	QuestionText   string    `json:"question_text"`
	QuestionNumber int       `json:"question_number"`
	CategoryID     uint      `json:"category_id"`
	CategoryName   string    `json:"category_name"`
	CategoryText   string    `json:"category_text"`
	BlockNumber    int       `json:"block_number"`
	OptionID       *uint     `json:"option_id"`
	OptionSelect   string    `gorm:"not null" json:"option_select"`
	OptionCode     string    `json:"option_code"`
	OptionText     string    `json:"option_text"`
	Weight         float64   `gorm:"not null" json:"weight"`
	CreatedAt      time.Time `json:"created_at"`
}

// OtherResponse stores the free text a user typed for the "Other" bucket.
type OtherResponse struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserUUID       string    `gorm:"not null" json:"user_uuid"`
	QuestionCode   string    `gorm:"not null" json:"question_code"`
	QuestionText   string    `json:"question_text"`
	QuestionNumber int       `json:"question_number"`
	CategoryID     uint      `json:"category_id"`
	CategoryName   string    `json:"category_name"`
	CategoryText   string    `json:"category_text"`
	BlockNumber    int       `json:"block_number"`
	OtherText      string    `gorm:"not null" json:"other_text"`
	Weight         float64   `gorm:"default:1.0" json:"weight"`
	CreatedAt      time.Time `json:"created_at"`
}

// SubmitRequest is the unified vote body. Exactly one answer form must be
// present; FreeText may accompany SelectedKey only when the key is OTHER.
type SubmitRequest struct {
	UserUUID     string   `json:"user_uuid" binding:"required"`
	QuestionCode string   `json:"question_code" binding:"required"`
	SelectedKey  *string  `json:"selected_key,omitempty"`
	SelectedKeys []string `json:"selected_keys,omitempty"`
	FreeText     string   `json:"free_text,omitempty"`
	// Weight overrides the equal-split checkbox weight when set.
	Weight *float64 `json:"weight,omitempty"`
}

// SingleVoteRequest matches the original split endpoint body.
type SingleVoteRequest struct {
	UserUUID     string `json:"user_uuid" binding:"required"`
	QuestionCode string `json:"question_code" binding:"required"`
	OptionSelect string `json:"option_select" binding:"required"`
	OtherText    string `json:"other_text,omitempty"`
}

type CheckboxVoteRequest struct {
	UserUUID      string   `json:"user_uuid" binding:"required"`
	QuestionCode  string   `json:"question_code" binding:"required"`
	OptionSelects []string `json:"option_selects" binding:"required"`
	OtherText     string   `json:"other_text,omitempty"`
	Weight        *float64 `json:"weight,omitempty"`
}

type OtherVoteRequest struct {
	UserUUID     string `json:"user_uuid" binding:"required"`
	QuestionCode string `json:"question_code" binding:"required"`
	OtherText    string `json:"other_text" binding:"required"`
}

// OptionTally is one entry of a question's aggregated results. Code and
// Text are nil for keys found in vote data but missing from the catalog.
type OptionTally struct {
	OptionSelect string  `json:"option_select"`
	OptionCode   *string `json:"option_code"`
	OptionText   *string `json:"option_text"`
	Votes        float64 `json:"votes"`
}

// TallySnapshot is the aggregated result set for one question.
type TallySnapshot struct {
	QuestionCode   string        `json:"question_code"`
	Results        []OptionTally `json:"results"`
	TotalResponses int64         `json:"total_responses"`
}
