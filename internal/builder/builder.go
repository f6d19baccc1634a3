package builder

import (
	"context"
	"fmt"

	"github.com/shouni/go-gemini-client/pkg/gemini"
	"github.com/shouni/go-http-kit/pkg/httpkit"
	"google.golang.org/genai"

	"ap-storybook-web/internal/adapters"
	"ap-storybook-web/internal/app"
	"ap-storybook-web/internal/config"
)

// BuildContainer は外部サービスとの接続を確立し、依存関係を組み立てます。
func BuildContainer(ctx context.Context, cfg *config.Config) (*app.Container, error) {
	// 1. 基盤クライアントの初期化
	httpClient := httpkit.New(config.DefaultHTTPTimeout)

	// 2. I/O インフラ (GCS等) の初期化
	rio, err := buildRemoteIO(ctx)
	if err != nil {
		return nil, err
	}

	// 3. AI クライアントの初期化
	aiClient, err := initializeAIClient(ctx, cfg.GeminiAPIKey)
	if err != nil {
		return nil, err
	}

	// 4. アダプターの初期化
	slack, err := adapters.NewSlackAdapter(httpClient, cfg.SlackWebhookURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Slack adapter: %w", err)
	}

	// 5. 生成パイプラインの構築
	p, err := buildPipeline(cfg, aiClient, httpClient, rio, slack)
	if err != nil {
		return nil, err
	}

	return &app.Container{
		Config:        cfg,
		RemoteIO:      rio,
		Pipeline:      p,
		AIClient:      aiClient,
		HTTPClient:    httpClient,
		SlackNotifier: slack,
	}, nil
}

// initializeAIClient は gemini クライアントを初期化します。
func initializeAIClient(ctx context.Context, apiKey string) (gemini.GenerativeModel, error) {
	const defaultGeminiTemperature = float32(0.7)
	clientConfig := gemini.Config{
		APIKey:      apiKey,
		Temperature: genai.Ptr(defaultGeminiTemperature),
	}
	aiClient, err := gemini.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("AIクライアントの初期化に失敗しました: %w", err)
	}
	return aiClient, nil
}
