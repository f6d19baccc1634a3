package pipeline

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"ap-storybook-web/internal/domain"
	"ap-storybook-web/internal/runner"
)

// --- Mocks ---

type mockResolver struct {
	called int
	ref    domain.ResolvedReference
	err    error
}

func (m *mockResolver) Resolve(raw string) (domain.ResolvedReference, error) {
	m.called++
	if m.err != nil {
		return domain.ResolvedReference{}, m.err
	}
	return m.ref, nil
}

type mockScript struct {
	called  int
	lastReq domain.GenerationRequest
	story   domain.Story
	err     error
}

func (m *mockScript) Run(ctx context.Context, req domain.GenerationRequest) (domain.Story, error) {
	m.called++
	m.lastReq = req
	if m.err != nil {
		return domain.Story{}, m.err
	}
	return m.story, nil
}

type mockIllustrator struct {
	called      int
	lastStoryID string
	lastRef     domain.ResolvedReference
	results     []*runner.ImageResult
	err         error
}

func (m *mockIllustrator) Run(ctx context.Context, pages []domain.StoryPage, ref domain.ResolvedReference, storyID string) ([]*runner.ImageResult, error) {
	m.called++
	m.lastStoryID = storyID
	m.lastRef = ref
	if m.err != nil {
		return nil, m.err
	}
	if m.results != nil {
		return m.results, nil
	}
	// 既定では全ページ成功
	results := make([]*runner.ImageResult, len(pages))
	for i := range results {
		results[i] = &runner.ImageResult{Data: []byte("img"), MimeType: "image/png"}
	}
	return results, nil
}

type mockWriter struct {
	mu     sync.Mutex
	called int
	paths  []string
	err    error
}

func (m *mockWriter) Write(ctx context.Context, path string, reader io.Reader, contentType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.called++
	m.paths = append(m.paths, path)
	return m.err
}

type mockSigner struct {
	mu     sync.Mutex
	called int
	err    error
}

func (m *mockSigner) GenerateSignedURL(ctx context.Context, path string, method string, expiration time.Duration) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.called++
	if m.err != nil {
		return "", m.err
	}
	return fmt.Sprintf("https://storage.example.com/signed/%s", path), nil
}

type mockNotifier struct {
	notifyCalled int
	errorCalled  int
	lastReq      domain.NotificationRequest
	lastErr      error
}

func (m *mockNotifier) Notify(ctx context.Context, story *domain.Story, storageURI string, req domain.NotificationRequest) error {
	m.notifyCalled++
	m.lastReq = req
	return nil
}

func (m *mockNotifier) NotifyError(ctx context.Context, errDetail error, req domain.NotificationRequest) error {
	m.errorCalled++
	m.lastErr = errDetail
	m.lastReq = req
	return nil
}
