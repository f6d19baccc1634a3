package pipeline

import (
	"context"
	"time"

	"github.com/shouni/go-remote-io/pkg/remoteio"

	"ap-storybook-web/internal/adapters"
	"ap-storybook-web/internal/config"
	"ap-storybook-web/internal/domain"
	"ap-storybook-web/internal/runner"
)

// Pipeline は1件の生成リクエストを完結した Story に変換します。
type Pipeline interface {
	Execute(ctx context.Context, req domain.GenerationRequest) (*domain.Story, error)
}

// --- 能力インターフェース ---

// ReferenceResolver は被写体リファレンス文字列の検証・正規化を行います。
type ReferenceResolver interface {
	Resolve(raw string) (domain.ResolvedReference, error)
}

// ScriptRunner は英中対訳の物語本文を生成します。
type ScriptRunner interface {
	Run(ctx context.Context, req domain.GenerationRequest) (domain.Story, error)
}

// IllustrationRunner は全ページの挿絵を生成します。
// 返り値は pages と同数・同順で、失敗ページは nil です。
type IllustrationRunner interface {
	Run(ctx context.Context, pages []domain.StoryPage, ref domain.ResolvedReference, storyID string) ([]*runner.ImageResult, error)
}

// StoryPipeline は生成フェーズを状態機械として束ねるオーケストレーターです。
// リクエスト間で共有する可変状態を持たず、並行実行に対して安全です。
type StoryPipeline struct {
	cfg         *config.Config
	resolver    ReferenceResolver
	script      ScriptRunner
	illustrator IllustrationRunner
	writer      remoteio.OutputWriter
	signer      remoteio.URLSigner
	notifier    adapters.SlackNotifier
}

// NewStoryPipeline は依存関係を注入して StoryPipeline を初期化します。
func NewStoryPipeline(
	cfg *config.Config,
	resolver ReferenceResolver,
	script ScriptRunner,
	illustrator IllustrationRunner,
	writer remoteio.OutputWriter,
	signer remoteio.URLSigner,
	notifier adapters.SlackNotifier,
) *StoryPipeline {
	return &StoryPipeline{
		cfg:         cfg,
		resolver:    resolver,
		script:      script,
		illustrator: illustrator,
		writer:      writer,
		signer:      signer,
		notifier:    notifier,
	}
}

// Execute は1回の生成リクエストを実行します。
func (p *StoryPipeline) Execute(ctx context.Context, req domain.GenerationRequest) (*domain.Story, error) {
	exec := &storyExecution{
		pipeline:  p,
		req:       req,
		state:     stateReceived,
		startTime: time.Now(),
	}
	return exec.run(ctx)
}
