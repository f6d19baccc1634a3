package domain

const (
	CategoryNotAvailable = "N/A"

	// 出力種別
	CategoryOutput   = "story-output"
	CategoryDegraded = "story-degraded"

	// 実行モード
	ModeTextOnly    = "text-only"
	ModeIllustrated = "illustrated"
)

// NotificationRequest は Slack 等の通知コンポーネントで共有されるデータ構造です。
// 生成された物語のメタデータを通知先に伝えるために使用します。
type NotificationRequest struct {
	// StoryID は生成リクエストの相関トークンです。
	StoryID string `json:"story_id"`

	// OutputCategory は、出力種別です。(例: "story-output", "story-degraded")
	OutputCategory string `json:"output_category"`

	// TargetTitle は、生成された物語の英語タイトルです。
	TargetTitle string `json:"target_title"`

	// ExecutionMode は、実行された生成モードです。(例: "text-only", "illustrated")
	ExecutionMode string `json:"execution_mode"`
}
