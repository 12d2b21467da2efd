package vote

import (
	"context"
	"time"
)

// Event is the audit record published to Kafka after a committed
// submission. Keyed by user UUID so one user's events stay ordered.
type Event struct {
	UserUUID     string    `json:"user_uuid"`
	QuestionCode string    `json:"question_code"`
	Kind         string    `json:"kind"`
	Keys         []string  `json:"keys,omitempty"`
	SubmittedAt  time.Time `json:"submitted_at"`
}

type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

func NewEvent(req *SubmitRequest, answer Answer) Event {
	event := Event{
		UserUUID:     req.UserUUID,
		QuestionCode: req.QuestionCode,
		SubmittedAt:  time.Now().UTC(),
	}

	switch answer.Kind {
	case AnswerSingle:
		event.Kind = "single"
		event.Keys = []string{answer.Key}
	case AnswerCheckbox:
		event.Kind = "checkbox"
		event.Keys = answer.Keys
	case AnswerOther:
		event.Kind = "other"
		event.Keys = []string{OtherKey}
	}

	return event
}
