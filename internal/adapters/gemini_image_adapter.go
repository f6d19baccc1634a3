package adapters

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/shouni/gemini-image-kit/pkg/imgutil"
	"github.com/shouni/go-gemini-client/pkg/gemini"
	"github.com/shouni/go-http-kit/pkg/httpkit"
	"github.com/shouni/go-remote-io/pkg/remoteio"
	"google.golang.org/genai"

	"ap-storybook-web/internal/domain"
	"ap-storybook-web/internal/runner"
)

const (
	// ImageCompressionQuality リファレンス画像をプロンプトに同梱する際の JPEG 品質
	ImageCompressionQuality = 75

	// DefaultAspectRatio 絵本の見開きに合わせた横長比率
	DefaultAspectRatio = "4:3"
)

// GeminiImageAdapter は Gemini の画像生成 API への窓口です。
// リファレンス画像の取得・圧縮と、条件付きの挿絵生成を担当します。
type GeminiImageAdapter struct {
	aiClient    gemini.GenerativeModel
	httpClient  httpkit.ClientInterface
	reader      remoteio.InputReader
	model       string
	aspectRatio string
}

// NewGeminiImageAdapter は依存関係を注入して GeminiImageAdapter を初期化します。
func NewGeminiImageAdapter(aiClient gemini.GenerativeModel, httpClient httpkit.ClientInterface, reader remoteio.InputReader, model string) (*GeminiImageAdapter, error) {
	if aiClient == nil {
		return nil, fmt.Errorf("aiClient is required")
	}
	if httpClient == nil {
		return nil, fmt.Errorf("httpClient is required")
	}
	if model == "" {
		return nil, fmt.Errorf("model is required")
	}

	return &GeminiImageAdapter{
		aiClient:    aiClient,
		httpClient:  httpClient,
		reader:      reader,
		model:       model,
		aspectRatio: DefaultAspectRatio,
	}, nil
}

// PrepareReference は被写体リファレンスを条件付けパーツに変換します。
// リファレンス未指定の場合は (nil, nil) を返し、テキストのみの条件付けになります。
// 返されたパーツはリクエスト内の全 Generate 呼び出しでそのまま共有してください。
func (a *GeminiImageAdapter) PrepareReference(ctx context.Context, ref domain.ResolvedReference) (*genai.Part, error) {
	var data []byte

	switch {
	case ref.Inline():
		data = ref.Data
	case ref.URL != "":
		fetched, err := a.fetchImageData(ctx, ref.URL)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidReference, err)
		}
		data = fetched
	default:
		// リファレンスなし
		return nil, nil
	}

	// 同梱ペイロードを抑えるため JPEG に再圧縮する。失敗時は元データのまま送る。
	if compressed, err := imgutil.CompressToJPEG(data, ImageCompressionQuality); err == nil {
		data = compressed
	}

	part := toImagePart(data)
	if part == nil {
		return nil, fmt.Errorf("%w: reference payload is not an image", domain.ErrInvalidReference)
	}
	return part, nil
}

// Generate はテキストプロンプト（と任意の条件付けパーツ）から挿絵を1枚生成します。
func (a *GeminiImageAdapter) Generate(ctx context.Context, prompt string, reference *genai.Part, seed *int32) (*runner.ImageResult, error) {
	parts := []*genai.Part{{Text: prompt}}
	if reference != nil {
		parts = append(parts, reference)
	}

	opts := gemini.GenerateOptions{
		AspectRatio: a.aspectRatio,
		Seed:        seed,
	}

	resp, err := a.aiClient.GenerateWithParts(ctx, a.model, parts, opts)
	if err != nil {
		return nil, fmt.Errorf("Gemini 挿絵生成エラー: %w", err)
	}

	return parseImageResponse(resp)
}

// fetchImageData はリファレンス画像のバイト列を取得します。
// gs:// は署名不要のストレージ読み取り、http(s) は検証済み URL からの取得です。
func (a *GeminiImageAdapter) fetchImageData(ctx context.Context, rawURL string) ([]byte, error) {
	if strings.HasPrefix(rawURL, "gs://") {
		if a.reader == nil {
			return nil, fmt.Errorf("storage reader is not configured for %s", rawURL)
		}
		rc, err := a.reader.Open(ctx, rawURL)
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}

	return a.httpClient.FetchBytes(ctx, rawURL)
}

// toImagePart はバイト列を genai.Part (InlineData) に変換します。
// 画像以外のコンテンツは nil を返します。
func toImagePart(data []byte) *genai.Part {
	mimeType := http.DetectContentType(data)
	if !strings.HasPrefix(mimeType, "image/") {
		return nil
	}
	return &genai.Part{InlineData: &genai.Blob{MIMEType: mimeType, Data: data}}
}

// parseImageResponse はレスポンス候補から最初の画像データを抽出します。
func parseImageResponse(resp *gemini.Response) (*runner.ImageResult, error) {
	if resp == nil || resp.RawResponse == nil || len(resp.RawResponse.Candidates) == 0 {
		return nil, fmt.Errorf("Gemini から空の応答が返されました")
	}

	candidate := resp.RawResponse.Candidates[0]
	if candidate.Content == nil {
		return nil, fmt.Errorf("応答に画像データが含まれていません")
	}
	for _, part := range candidate.Content.Parts {
		if part.InlineData != nil && len(part.InlineData.Data) > 0 {
			return &runner.ImageResult{
				Data:     part.InlineData.Data,
				MimeType: part.InlineData.MIMEType,
			}, nil
		}
	}

	return nil, fmt.Errorf("応答に画像データが含まれていません")
}
