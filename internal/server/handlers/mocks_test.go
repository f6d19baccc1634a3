package handlers

import (
	"context"
	"fmt"
	"io"
	"time"

	"ap-storybook-web/internal/config"
	"ap-storybook-web/internal/domain"
)

// --- Mocks ---

type mockPipeline struct {
	called  int
	lastReq domain.GenerationRequest
	story   *domain.Story
	err     error
}

func (m *mockPipeline) Execute(ctx context.Context, req domain.GenerationRequest) (*domain.Story, error) {
	m.called++
	m.lastReq = req
	if m.err != nil {
		return nil, m.err
	}
	return m.story, nil
}

type mockWriter struct {
	called   int
	lastPath string
	err      error
}

func (m *mockWriter) Write(ctx context.Context, path string, reader io.Reader, contentType string) error {
	m.called++
	m.lastPath = path
	return m.err
}

type mockSigner struct {
	err error
}

func (m *mockSigner) GenerateSignedURL(ctx context.Context, path string, method string, expiration time.Duration) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return fmt.Sprintf("https://storage.example.com/signed/%s", path), nil
}

// --- Fixtures ---

func testConfig() *config.Config {
	return &config.Config{
		GCSBucket:           "test-bucket",
		BaseOutputDir:       "output",
		UploadDir:           "uploads",
		MaxUploadBytes:      config.DefaultMaxReferenceBytes,
		SignedURLExpiration: 30 * time.Minute,
	}
}

func testStory() *domain.Story {
	return &domain.Story{
		StoryTitle:   "The Little Fox",
		ChineseTitle: "小狐狸",
		StoryPages: []domain.StoryPage{
			{English: "Once upon a time.", Chinese: "从前。"},
			{English: "The end.", Chinese: "结束。"},
		},
	}
}

func newTestHandler(p *mockPipeline, w *mockWriter, s *mockSigner) *Handler {
	h, err := NewHandler(testConfig(), p, w, s)
	if err != nil {
		panic(err)
	}
	return h
}

// minimalPNG は http.DetectContentType が image/png と判定する最小のバイト列です。
func minimalPNG() []byte {
	return []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0x0D, 'I', 'H', 'D', 'R'}
}
