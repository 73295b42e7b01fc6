package testutil

import (
	"context"
	"sync"
)

// RecordingConfirmer answers every prompt with a fixed reply and records the prompts.
type RecordingConfirmer struct {
	Answer bool

	mu      sync.Mutex
	prompts []string
}

func NewRecordingConfirmer(answer bool) *RecordingConfirmer {
	return &RecordingConfirmer{Answer: answer}
}

func (c *RecordingConfirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prompts = append(c.prompts, prompt)
	return c.Answer, nil
}

// Prompts returns the prompts seen so far.
func (c *RecordingConfirmer) Prompts() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.prompts...)
}
