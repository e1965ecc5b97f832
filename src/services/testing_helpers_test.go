package services

import (
	"context"
	"errors"
	"sync"
)

// recordingMailer captures sent notifications and can be told to fail
type recordingMailer struct {
	mu   sync.Mutex
	sent []Notification
	err  error
}

func (m *recordingMailer) Name() string { return "recording" }

func (m *recordingMailer) Send(ctx context.Context, n Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, n)
	return nil
}

func (m *recordingMailer) Sent() []Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Notification, len(m.sent))
	copy(out, m.sent)
	return out
}

// blockingMailer waits until its context ends
type blockingMailer struct{}

func (blockingMailer) Name() string { return "blocking" }

func (blockingMailer) Send(ctx context.Context, n Notification) error {
	<-ctx.Done()
	return ctx.Err()
}

// stuckMailer ignores its context entirely
type stuckMailer struct{ release chan struct{} }

func (stuckMailer) Name() string { return "stuck" }

func (m stuckMailer) Send(ctx context.Context, n Notification) error {
	<-m.release
	return nil
}

type panickingMailer struct{}

func (panickingMailer) Name() string { return "panicking" }

func (panickingMailer) Send(ctx context.Context, n Notification) error {
	panic("relay exploded")
}

var errRelayDown = errors.New("relay down")
