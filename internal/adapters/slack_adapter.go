package adapters

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"ap-storybook-web/internal/domain"

	"github.com/shouni/go-http-kit/pkg/httpkit"
	"github.com/shouni/go-notifier/pkg/factory"
	"github.com/shouni/go-notifier/pkg/slack"
)

// --- インターフェース定義 ---

type SlackNotifier interface {
	Notify(ctx context.Context, story *domain.Story, storageURI string, req domain.NotificationRequest) error
	NotifyError(ctx context.Context, errDetail error, req domain.NotificationRequest) error
}

// --- 具象アダプター ---

type SlackAdapter struct {
	httpClient  httpkit.ClientInterface
	webhookURL  string
	slackClient *slack.Client
}

func NewSlackAdapter(httpClient httpkit.ClientInterface, webhookURL string) (*SlackAdapter, error) {
	if webhookURL == "" {
		return &SlackAdapter{webhookURL: webhookURL}, nil
	}
	client, err := factory.GetSlackClient(httpClient)
	if err != nil {
		return nil, fmt.Errorf("Slackクライアントの初期化に失敗したのだ: %w", err)
	}

	return &SlackAdapter{
		httpClient:  httpClient,
		webhookURL:  webhookURL,
		slackClient: client,
	}, nil
}

// Notify 生成された物語のメタデータを含む、プロセス完了時のSlack通知送信。
func (a *SlackAdapter) Notify(ctx context.Context, story *domain.Story, storageURI string, req domain.NotificationRequest) error {
	if a.slackClient == nil {
		slog.Info("Slackクライアントが初期化されていないため、通知をスキップします。", "story_id", req.StoryID)
		return nil
	}

	// 実行モードに応じた絵文字の出し分けをすると可愛いのだ！
	icon := "📖"
	if req.ExecutionMode == domain.ModeIllustrated {
		icon = "🎨"
	} else if req.OutputCategory == domain.CategoryDegraded {
		icon = "📝"
	}

	title := fmt.Sprintf("%s 絵本の錬成が完了しました！", icon)
	content := a.buildSlackContent(story, storageURI, req)

	if err := a.slackClient.SendTextWithHeader(ctx, title, content); err != nil {
		return fmt.Errorf("Slackへの投稿に失敗しました: %w", err)
	}

	slog.Info("Slack に完了通知を送信しました。", "story_id", req.StoryID)
	return nil
}

// NotifyError エラー詳細と実行メタデータを含むSlackエラー通知の送信。
func (a *SlackAdapter) NotifyError(ctx context.Context, errDetail error, req domain.NotificationRequest) error {
	if a.slackClient == nil {
		slog.Info("Slackクライアントが初期化されていないため、エラー通知をスキップします。", "error", errDetail)
		return nil
	}

	// Slackのmrkdwn形式では、アスタリスク(*)でテキストを囲むと太字として解釈されます。
	title := "❌ 物語の生成中にエラーが発生しました"

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("*ストーリーID:* `%s`\n", req.StoryID))
	sb.WriteString(fmt.Sprintf("*実行モード:* `%s`\n\n", req.ExecutionMode))

	// エラー詳細をコードブロックで囲むことで、スタックトレースなどの可読性を向上させます。
	sb.WriteString("*エラー内容:*\n")
	sb.WriteString(fmt.Sprintf("```\n%v\n```\n", errDetail))

	// エラー発生時でも保存先カテゴリが判明している場合は、その情報を通知に含めることで調査を容易にします。
	if req.OutputCategory != "" && req.OutputCategory != domain.CategoryNotAvailable {
		sb.WriteString(fmt.Sprintf("\n📍 *カテゴリ:* `%s`", req.OutputCategory))
	}

	content := sb.String()

	if err := a.slackClient.SendTextWithHeader(ctx, title, content); err != nil {
		return fmt.Errorf("Slackへのエラー通知に失敗しました: %w", err)
	}

	slog.Info("Slack にエラー通知を送信しました。", "error", errDetail)
	return nil
}

// buildSlackContent 指定された物語、ストレージURI、通知リクエストに基づき、Slack メッセージの内容を生成します。
func (a *SlackAdapter) buildSlackContent(story *domain.Story, storageURI string, req domain.NotificationRequest) string {
	var sb strings.Builder
	if story != nil {
		sb.WriteString(fmt.Sprintf("**作品タイトル:** `%s`\n", story.StoryTitle))
		sb.WriteString(fmt.Sprintf("**中国語タイトル:** `%s`\n", story.ChineseTitle))
		sb.WriteString(fmt.Sprintf("**ページ数:** %d\n", story.PageCount()))
	} else {
		sb.WriteString(fmt.Sprintf("**作品タイトル:** `%s`\n", req.TargetTitle))
	}
	sb.WriteString(fmt.Sprintf("**実行モード:** `%s`\n\n", req.ExecutionMode))

	// 管理用リンク（挿絵を保存した場合のみ）
	if storageURI != "" {
		consoleURL := "https://console.cloud.google.com/storage/browser/" + strings.TrimPrefix(storageURI, "gs://")
		sb.WriteString(fmt.Sprintf("📂 **管理者(Console):** <%s|GCSで直接見るのだ！>\n", consoleURL))
		sb.WriteString(fmt.Sprintf("📍 **保存場所(URI):** `%s`\n\n", storageURI))
	}

	// 挿絵が一部欠けた場合の案内
	if req.OutputCategory == domain.CategoryDegraded {
		sb.WriteString("⚠️ _一部のページは挿絵なしで納品されている様なのだ！_")
	}

	return sb.String()
}
