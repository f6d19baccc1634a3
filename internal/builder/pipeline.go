package builder

import (
	"fmt"

	"github.com/shouni/go-gemini-client/pkg/gemini"
	"github.com/shouni/go-http-kit/pkg/httpkit"

	"ap-storybook-web/internal/adapters"
	"ap-storybook-web/internal/app"
	"ap-storybook-web/internal/config"
	"ap-storybook-web/internal/pipeline"
	"ap-storybook-web/internal/reference"
	"ap-storybook-web/internal/runner"
)

// buildPipeline は、各生成能力を組み立てて StoryPipeline を初期化します。
func buildPipeline(
	cfg *config.Config,
	aiClient gemini.GenerativeModel,
	httpClient httpkit.ClientInterface,
	rio *app.RemoteIO,
	slack adapters.SlackNotifier,
) (pipeline.Pipeline, error) {
	resolver := reference.NewResolver(cfg.MaxReferenceBytes)
	scriptRunner := runner.NewStoryScriptRunner(cfg, aiClient)

	imageAdapter, err := adapters.NewGeminiImageAdapter(aiClient, httpClient, rio.Reader, cfg.ImageModel)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize image adapter: %w", err)
	}
	illustrationRunner := runner.NewIllustrationRunner(cfg, imageAdapter)

	return pipeline.NewStoryPipeline(
		cfg,
		resolver,
		scriptRunner,
		illustrationRunner,
		rio.Writer,
		rio.Signer,
		slack,
	), nil
}
