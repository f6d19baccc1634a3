package runner

import (
	"context"

	"google.golang.org/genai"

	"ap-storybook-web/internal/domain"
)

// ImageResult は生成された挿絵データとそのメタデータです。
type ImageResult struct {
	Data     []byte
	MimeType string
}

// ImageGenerator は挿絵生成能力の窓口です。
// PrepareReference はリクエストごとに一度だけ呼ばれ、返された条件付けパーツを
// 全ページの Generate 呼び出しでそのまま使い回します。ページごとに
// リファレンスを再解決・再取得してはなりません（見た目の一貫性の要）。
type ImageGenerator interface {
	PrepareReference(ctx context.Context, ref domain.ResolvedReference) (*genai.Part, error)
	Generate(ctx context.Context, prompt string, reference *genai.Part, seed *int32) (*ImageResult, error)
}
