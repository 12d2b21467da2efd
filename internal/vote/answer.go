package vote

import (
	"strings"

	"poll-service/pkg/response"
)

type AnswerKind int

const (
	AnswerSingle AnswerKind = iota + 1
	AnswerCheckbox
	AnswerOther
)

// Answer is the validated form of a vote body. The three request shapes all
// collapse into this union before the resolver touches storage.
type Answer struct {
	Kind     AnswerKind
	Key      string
	Keys     []string
	FreeText string
	Weight   *float64
}

// ParseAnswer classifies a unified vote body into exactly one answer kind.
// A single-choice key equal to the OTHER sentinel is treated as an
// other-text answer so the free text can ride along with it.
func ParseAnswer(req *SubmitRequest) (Answer, error) {
	hasKey := req.SelectedKey != nil && strings.TrimSpace(*req.SelectedKey) != ""
	hasKeys := len(req.SelectedKeys) > 0
	freeText := strings.TrimSpace(req.FreeText)

	switch {
	case hasKey && hasKeys:
		return Answer{}, response.ErrInvalidAnswerShape

	case hasKeys:
		keys := make([]string, 0, len(req.SelectedKeys))
		for _, k := range req.SelectedKeys {
			k = strings.TrimSpace(k)
			if k == "" {
				return Answer{}, response.ErrInvalidAnswerShape
			}
			keys = append(keys, normalizeSentinel(k))
		}
		return Answer{Kind: AnswerCheckbox, Keys: keys, FreeText: truncate(freeText), Weight: req.Weight}, nil

	case hasKey:
		key := normalizeSentinel(strings.TrimSpace(*req.SelectedKey))
		if key == OtherKey {
			return Answer{Kind: AnswerOther, FreeText: truncate(freeText)}, nil
		}
		// Free text only accompanies the OTHER sentinel.
		if freeText != "" {
			return Answer{}, response.ErrInvalidAnswerShape
		}
		return Answer{Kind: AnswerSingle, Key: key}, nil

	case freeText != "":
		return Answer{Kind: AnswerOther, FreeText: truncate(freeText)}, nil

	default:
		return Answer{}, response.ErrInvalidAnswerShape
	}
}

// normalizeSentinel folds any casing of the OTHER sentinel onto its
// canonical spelling; other keys pass through untouched.
func normalizeSentinel(key string) string {
	if strings.EqualFold(key, OtherKey) {
		return OtherKey
	}
	return key
}

func truncate(text string) string {
	runes := []rune(text)
	if len(runes) > MaxFreeTextLen {
		return string(runes[:MaxFreeTextLen])
	}
	return text
}
