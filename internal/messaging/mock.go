package messaging

import (
	"context"
	"sync"

	"github.com/nortsur/orderbot/internal/models"
)

// MockSender implements Sender for tests, recording every send in order.
type MockSender struct {
	mu       sync.Mutex
	Sends    []models.Reply
	TextErr  error
	ImageErr error
}

// NewMockSender creates an empty recording sender.
func NewMockSender() *MockSender {
	return &MockSender{}
}

func (m *MockSender) SendText(ctx context.Context, to, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.TextErr != nil {
		return m.TextErr
	}
	m.Sends = append(m.Sends, models.TextReply(to, body))
	return nil
}

func (m *MockSender) SendImage(ctx context.Context, to, url, caption string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ImageErr != nil {
		return m.ImageErr
	}
	m.Sends = append(m.Sends, models.ImageReply(to, url, caption))
	return nil
}

// Texts returns the bodies of recorded text sends, in order.
func (m *MockSender) Texts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, s := range m.Sends {
		if s.ImageURL == "" {
			out = append(out, s.Text)
		}
	}
	return out
}

// Reset clears all recorded sends.
func (m *MockSender) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sends = nil
}
