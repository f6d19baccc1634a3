package runner

import (
	"context"
	"sync"

	"github.com/shouni/go-gemini-client/pkg/gemini"
	"google.golang.org/genai"

	"ap-storybook-web/internal/domain"
)

// --- Mocks ---

// mockAIClient は gemini.GenerativeModel のテスト用実装です。
type mockAIClient struct {
	generateCalled int
	lastModel      string
	lastPrompt     string
	responseText   string
	err            error
}

func (m *mockAIClient) GenerateContent(ctx context.Context, model string, prompt string) (*gemini.Response, error) {
	m.generateCalled++
	m.lastModel = model
	m.lastPrompt = prompt
	if m.err != nil {
		return nil, m.err
	}
	return &gemini.Response{
		RawResponse: &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{
				Content: &genai.Content{
					Parts: []*genai.Part{{Text: m.responseText}},
				},
			}},
		},
	}, nil
}

func (m *mockAIClient) GenerateWithParts(ctx context.Context, model string, parts []*genai.Part, opts gemini.GenerateOptions) (*gemini.Response, error) {
	return nil, nil
}

func (m *mockAIClient) UploadFile(ctx context.Context, data []byte, mimeType, displayName string) (string, string, error) {
	return "", "", nil
}

func (m *mockAIClient) DeleteFile(ctx context.Context, name string) error {
	return nil
}

func (m *mockAIClient) GetFile(ctx context.Context, name string) (*genai.File, error) {
	return nil, nil
}

// mockImageGenerator は ImageGenerator のテスト用実装です。
// failOn に入れたページ番号（1始まり）の呼び出しだけ失敗させられます。
type mockImageGenerator struct {
	mu             sync.Mutex
	prepareCalled  int
	generateCalled int
	prompts        []string
	refs           []*genai.Part
	seeds          []int32
	refPart        *genai.Part
	prepareErr     error
	failOn         map[int]error
	delays         map[int]func() // 完了順を乱すためのフック
}

func (m *mockImageGenerator) PrepareReference(ctx context.Context, ref domain.ResolvedReference) (*genai.Part, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prepareCalled++
	if m.prepareErr != nil {
		return nil, m.prepareErr
	}
	if m.refPart == nil {
		m.refPart = &genai.Part{Text: "reference-part"}
	}
	return m.refPart, nil
}

func (m *mockImageGenerator) Generate(ctx context.Context, prompt string, reference *genai.Part, seed *int32) (*ImageResult, error) {
	m.mu.Lock()
	call := m.generateCalled + 1
	m.generateCalled = call
	m.prompts = append(m.prompts, prompt)
	m.refs = append(m.refs, reference)
	if seed != nil {
		m.seeds = append(m.seeds, *seed)
	}
	delay := m.delays[call]
	failErr := m.failOn[call]
	m.mu.Unlock()

	if delay != nil {
		delay()
	}
	if failErr != nil {
		return nil, failErr
	}
	return &ImageResult{Data: []byte(prompt), MimeType: "image/png"}, nil
}
