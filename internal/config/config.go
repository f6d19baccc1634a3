package config

import (
	"os"
	"path"
	"strconv"
	"time"
)

const (
	// SignedURLExpiration 生成された絵本を読み終える時間を考慮した有効期限
	SignedURLExpiration = 30 * time.Minute
	DefaultModel        = "gemini-3-flash-preview"
	DefaultImageModel   = "gemini-3-pro-image-preview"
	// DefaultHTTPTimeout 画像生成や Gemini API の応答を考慮したタイムアウト
	DefaultHTTPTimeout  = 60 * time.Second
	DefaultTextTimeout  = 120 * time.Second
	DefaultImageTimeout = 90 * time.Second
	DefaultRateInterval = 5 * time.Second
	// DefaultImageConcurrency 外部プロバイダのレート制限を考慮した同時実行数
	DefaultImageConcurrency = 3
	// DefaultMaxReferenceBytes base64 アップロードのデコード後サイズ上限 (10 MiB)
	DefaultMaxReferenceBytes = 10 << 20
	DefaultStyleSuffix       = "children's picture book illustration, soft watercolor style, warm colors, gentle lighting, friendly faces, simple composition, storybook art, high quality"

	// 挿絵失敗時のポリシー値
	FailurePolicyOmit        = "omit"
	FailurePolicyPlaceholder = "placeholder"
)

// Config は環境変数から読み込まれたアプリケーションの全設定を保持します。
type Config struct {
	ServiceURL string
	Port       string

	// --- AI Model Settings ---
	GeminiAPIKey string
	GeminiModel  string // 本文生成用モデル
	ImageModel   string // 挿絵生成用モデル
	StyleSuffix  string

	// --- Pipeline Settings ---
	TextTimeout      time.Duration
	ImageTimeout     time.Duration
	ImageConcurrency int
	RateInterval     time.Duration
	// MaxReferenceBytes はリファレンス画像ペイロードのデコード後サイズ上限です。
	MaxReferenceBytes int64
	// OnIllustrationFailure は挿絵失敗ページの扱いです ("omit" | "placeholder")。
	OnIllustrationFailure string
	// PlaceholderImageURL は placeholder ポリシー時に埋め込む画像URLです。
	PlaceholderImageURL string

	// --- Storage ---
	GCSBucket           string // 挿絵とアップロード画像を保存するバケット
	BaseOutputDir       string // バケット内のベースルート (例: "output")
	UploadDir           string // アップロード画像の格納ルート
	MaxUploadBytes      int64
	SignedURLExpiration time.Duration

	SlackWebhookURL string
	ShutdownTimeout time.Duration
}

// LoadConfig は環境変数から設定を読み込み、Config 構造体を生成します。
func LoadConfig() *Config {
	return &Config{
		ServiceURL: getEnv("SERVICE_URL", "http://localhost:8080"),
		Port:       getEnv("PORT", "8080"),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", DefaultModel),
		ImageModel:   getEnv("IMAGE_MODEL", DefaultImageModel),
		StyleSuffix:  getEnv("STYLE_SUFFIX", DefaultStyleSuffix),

		TextTimeout:      getEnvDuration("TEXT_TIMEOUT", DefaultTextTimeout),
		ImageTimeout:     getEnvDuration("IMAGE_TIMEOUT", DefaultImageTimeout),
		ImageConcurrency: getEnvInt("IMAGE_CONCURRENCY", DefaultImageConcurrency),
		RateInterval:     getEnvDuration("IMAGE_RATE_INTERVAL", DefaultRateInterval),

		MaxReferenceBytes:     getEnvInt64("MAX_REFERENCE_BYTES", DefaultMaxReferenceBytes),
		OnIllustrationFailure: getEnv("ON_ILLUSTRATION_FAILURE", FailurePolicyOmit),
		PlaceholderImageURL:   getEnv("PLACEHOLDER_IMAGE_URL", ""),

		GCSBucket:           getEnv("GCS_STORY_BUCKET", ""),
		BaseOutputDir:       getEnv("BASE_OUTPUT_DIR", "output"),
		UploadDir:           getEnv("UPLOAD_DIR", "uploads"),
		MaxUploadBytes:      getEnvInt64("MAX_UPLOAD_BYTES", DefaultMaxReferenceBytes),
		SignedURLExpiration: SignedURLExpiration,

		SlackWebhookURL: getEnv("SLACK_WEBHOOK_URL", ""),
		ShutdownTimeout: 15 * time.Second,
	}
}

// GetWorkDir は特定のリクエストに対する一意の作業ディレクトリを返します。
// 例: "output/20260113-ABCD"
func (c Config) GetWorkDir(storyID string) string {
	return path.Join(c.BaseOutputDir, storyID)
}

// GetImageDir は挿絵保存用のサブディレクトリパスを返します。
func (c Config) GetImageDir(storyID string) string {
	return path.Join(c.GetWorkDir(storyID), "images")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}
