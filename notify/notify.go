package notify

import (
	"context"
	"fmt"
	"time"

	"elearn/logger"

	"github.com/go-resty/resty/v2"
)

// CourseCompleted is posted when a learner's overall progress reaches 100%.
type CourseCompleted struct {
	Event       string    `json:"event"`
	UserID      uint      `json:"userId"`
	CourseID    uint      `json:"courseId"`
	CompletedAt time.Time `json:"completedAt"`
}

type Notifier interface {
	CourseCompleted(ctx context.Context, evt CourseCompleted) error
}

// Nop drops every event.
type Nop struct{}

func (Nop) CourseCompleted(context.Context, CourseCompleted) error { return nil }

// Webhook posts events as JSON to a fixed URL.
type Webhook struct {
	client *resty.Client
	url    string
}

func NewWebhook(url string) *Webhook {
	client := resty.New().
		SetTimeout(5*time.Second).
		SetRetryCount(3).
		SetRetryWaitTime(200*time.Millisecond).
		SetHeader("Content-Type", "application/json").
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= 500
		})
	return &Webhook{client: client, url: url}
}

func (w *Webhook) CourseCompleted(ctx context.Context, evt CourseCompleted) error {
	evt.Event = "course.completed"
	resp, err := w.client.R().
		SetContext(ctx).
		SetBody(evt).
		Post(w.url)
	if err != nil {
		return fmt.Errorf("post completion webhook: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("completion webhook returned %d", resp.StatusCode())
	}
	logger.Log.Debug("completion webhook delivered", "userId", evt.UserID, "courseId", evt.CourseID)
	return nil
}

// New returns a Webhook for url, or Nop when url is empty.
func New(url string) Notifier {
	if url == "" {
		return Nop{}
	}
	return NewWebhook(url)
}
