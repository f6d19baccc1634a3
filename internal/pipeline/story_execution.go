package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"ap-storybook-web/internal/config"
	"ap-storybook-web/internal/domain"
	"ap-storybook-web/internal/runner"
)

// executionState は1件のリクエストが通過する生成フェーズです。
type executionState string

const (
	stateReceived           executionState = "received"
	stateTextGenerating     executionState = "text_generating"
	stateReferenceResolving executionState = "reference_resolving"
	stateIllustrating       executionState = "illustrating"
	stateAssembled          executionState = "assembled"
	stateFailed             executionState = "failed"
)

// storyExecution は一回のリクエスト実行に関する状態（開始時刻や確定した storyID など）を保持します。
type storyExecution struct {
	pipeline  *StoryPipeline
	req       domain.GenerationRequest
	state     executionState
	startTime time.Time
	storyID   string
}

// run は各生成フェーズを順番に実行し、組み立てた Story を返します。
// 本文生成とリファレンス解決の失敗は致命的、挿絵の失敗はページ単位で許容します。
func (e *storyExecution) run(ctx context.Context) (story *domain.Story, err error) {
	e.storyID = e.resolveStoryID()

	// 失敗時の通知を defer 文で一括管理します。クライアント起因の失敗は通知しません。
	defer func() {
		if err != nil {
			e.state = stateFailed
			if !domain.ClientFault(err) {
				e.pipeline.notifyError(ctx, err, e.req, e.storyID)
			}
		}
	}()

	slog.InfoContext(ctx, "Pipeline execution started",
		"story_id", e.storyID,
		"age_group", e.req.AgeGroup,
		"chinese_level", e.req.ChineseLevel,
		"include_images", e.req.IncludeImages,
	)

	// --- Received: 外部呼び出しの前に入力を検証する ---
	if err = e.validateRequest(); err != nil {
		return nil, err
	}

	// --- TextGenerating ---
	e.transition(ctx, stateTextGenerating)
	text, err := e.pipeline.script.Run(ctx, e.req)
	if err != nil {
		return nil, fmt.Errorf("story text generation failed: %w", err)
	}

	if !e.req.IncludeImages {
		e.transition(ctx, stateAssembled)
		e.notifyCompletion(ctx, &text, "", domain.ModeTextOnly, domain.CategoryOutput)
		return &text, nil
	}

	// --- ReferenceResolving: 画像が明示的に要求されている以上、
	// 使えないリファレンスはテキストのみへの黙殺ではなく失敗にする ---
	e.transition(ctx, stateReferenceResolving)
	ref, err := e.pipeline.resolver.Resolve(e.req.SubjectReference)
	if err != nil {
		return nil, err
	}

	// --- Illustrating ---
	e.transition(ctx, stateIllustrating)
	results, err := e.pipeline.illustrator.Run(ctx, text.StoryPages, ref, e.storyID)
	if err != nil {
		// ここに到達するのはリクエスト自体の中断のみ
		return nil, fmt.Errorf("illustration phase aborted: %w", err)
	}

	illustrated := e.attachIllustrations(ctx, &text, results)

	// --- Assembled ---
	e.transition(ctx, stateAssembled)

	category := domain.CategoryOutput
	if illustrated < text.PageCount() {
		category = domain.CategoryDegraded
	}
	if illustrated == 0 {
		slog.WarnContext(ctx, "All page illustrations failed, returning text-only story",
			"story_id", e.storyID, "pages", text.PageCount())
	}

	e.notifyCompletion(ctx, &text, e.storageURI(), domain.ModeIllustrated, category)
	slog.InfoContext(ctx, "Pipeline execution completed",
		"story_id", e.storyID,
		"illustrated", illustrated,
		"pages", text.PageCount(),
		"duration", time.Since(e.startTime).Round(time.Millisecond),
	)
	return &text, nil
}

// validateRequest は Received 状態での入力検証です。
func (e *storyExecution) validateRequest() error {
	if strings.TrimSpace(e.req.Prompt) == "" {
		return fmt.Errorf("%w: prompt is required", domain.ErrValidation)
	}
	if !e.req.AgeGroup.Valid() {
		return fmt.Errorf("%w: unsupported ageGroup %q", domain.ErrValidation, e.req.AgeGroup)
	}
	if !e.req.ChineseLevel.Valid() {
		return fmt.Errorf("%w: unsupported chineseLevel %q", domain.ErrValidation, e.req.ChineseLevel)
	}
	if e.req.IncludeImages && strings.TrimSpace(e.req.SubjectReference) == "" {
		return fmt.Errorf("%w: subjectReference is required when includeImages is true", domain.ErrValidation)
	}
	return nil
}

// resolveStoryID は呼び出し元指定の storyId を採用し、省略時は実行開始時刻から導出します。
// 同時刻の衝突を避けるため uuid の先頭8文字を付与します。
func (e *storyExecution) resolveStoryID() string {
	if trimmed := strings.TrimSpace(e.req.StoryID); trimmed != "" {
		return trimmed
	}
	return fmt.Sprintf("%s_%s", e.startTime.Format("20060102_150405"), uuid.NewString()[:8])
}

// attachIllustrations は挿絵結果をページ順に取り付け、成功枚数を返します。
// 生成に失敗したページは設定のポリシーに従い、空のまま（omit）か
// プレースホルダー画像（placeholder）になります。
func (e *storyExecution) attachIllustrations(ctx context.Context, story *domain.Story, results []*runner.ImageResult) int {
	illustrated := 0
	for i := range story.StoryPages {
		if i >= len(results) || results[i] == nil {
			if e.pipeline.cfg.OnIllustrationFailure == config.FailurePolicyPlaceholder {
				story.StoryPages[i].Image = e.pipeline.cfg.PlaceholderImageURL
			}
			continue
		}

		url, err := e.storeIllustration(ctx, i, results[i])
		if err != nil {
			// 保存・署名に失敗したページは壊れたパスを入れず、空のままにする
			slog.WarnContext(ctx, "Failed to persist page illustration",
				"story_id", e.storyID, "page_index", i+1, "error", err)
			continue
		}
		story.StoryPages[i].Image = url
		illustrated++
	}
	return illustrated
}

// storeIllustration は挿絵1枚をストレージへ書き込み、署名付きURLを返します。
func (e *storyExecution) storeIllustration(ctx context.Context, pageIdx int, img *runner.ImageResult) (string, error) {
	objectPath := path.Join(
		e.pipeline.cfg.GetImageDir(e.storyID),
		fmt.Sprintf("page_%02d%s", pageIdx+1, extensionFor(img.MimeType)),
	)
	fullURL := e.pipeline.cfg.GetGCSObjectURL(objectPath)

	if err := e.pipeline.writer.Write(ctx, fullURL, bytes.NewReader(img.Data), img.MimeType); err != nil {
		return "", fmt.Errorf("illustration write failed: %w", err)
	}

	signed, err := e.pipeline.signer.GenerateSignedURL(ctx, fullURL, http.MethodGet, e.pipeline.cfg.SignedURLExpiration)
	if err != nil {
		return "", fmt.Errorf("signed URL generation failed: %w", err)
	}
	return signed, nil
}

// storageURI は挿絵の保存先ディレクトリの URI を返します。
func (e *storyExecution) storageURI() string {
	if e.pipeline.cfg.GCSBucket == "" {
		return ""
	}
	return e.pipeline.cfg.GetGCSObjectURL(e.pipeline.cfg.GetWorkDir(e.storyID))
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	default:
		return ".png"
	}
}

// transition は状態遷移を記録します。
func (e *storyExecution) transition(ctx context.Context, next executionState) {
	e.state = next
	slog.InfoContext(ctx, "Pipeline state transition", "story_id", e.storyID, "state", string(next))
}

// notifyCompletion は完了通知を送信します。通知自体の失敗はパイプラインの成否に影響させません。
func (e *storyExecution) notifyCompletion(ctx context.Context, story *domain.Story, storageURI, mode, category string) {
	if e.pipeline.notifier == nil {
		return
	}
	req := domain.NotificationRequest{
		StoryID:        e.storyID,
		OutputCategory: category,
		TargetTitle:    story.StoryTitle,
		ExecutionMode:  mode,
	}
	if err := e.pipeline.notifier.Notify(ctx, story, storageURI, req); err != nil {
		slog.ErrorContext(ctx, "Completion notification failed", "story_id", e.storyID, "error", err)
	}
}

// notifyError はサーバー側起因の失敗を通知します。
func (p *StoryPipeline) notifyError(ctx context.Context, opErr error, req domain.GenerationRequest, storyID string) {
	if p.notifier == nil {
		return
	}
	notifyReq := domain.NotificationRequest{
		StoryID:        storyID,
		OutputCategory: domain.CategoryNotAvailable,
		TargetTitle:    truncatePrompt(req.Prompt),
		ExecutionMode:  executionMode(req),
	}
	if err := p.notifier.NotifyError(ctx, opErr, notifyReq); err != nil {
		slog.ErrorContext(ctx, "Failed to send error notification", "story_id", storyID, "error", err)
	}
}

func executionMode(req domain.GenerationRequest) string {
	if req.IncludeImages {
		return domain.ModeIllustrated
	}
	return domain.ModeTextOnly
}

func truncatePrompt(prompt string) string {
	const maxLen = 60
	trimmed := strings.TrimSpace(prompt)
	if len(trimmed) <= maxLen {
		return trimmed
	}
	return trimmed[:maxLen] + "..."
}
