package config

import (
	"fmt"
	"strings"

	"github.com/shouni/netarmor/securenet"
)

// GetGCSObjectURL は、指定されたパスから完全なGCSオブジェクトURL ("gs://...") を組み立てます。
// pathが既に "gs://" プレフィックスを持つ場合は、そのままpathを返します。
// c.GCSBucketが空文字列の場合、この関数は引数で与えられたpathをそのまま返します。
// これはローカルファイルシステムでの実行など、GCSを使用しないシナリオを想定しています。
func (c Config) GetGCSObjectURL(path string) string {
	if strings.HasPrefix(path, "gs://") {
		return path
	}
	if c.GCSBucket != "" {
		return fmt.Sprintf("gs://%s/%s", c.GCSBucket, path)
	}

	return path
}

// --- バリデーション ---

// ValidateEssentialConfig はアプリケーション実行に不可欠な設定を検証します。
func ValidateEssentialConfig(cfg *Config) error {
	if !IsSecureURL(cfg.ServiceURL) {
		return fmt.Errorf("security error: SERVICE_URL ('%s') must be HTTPS in production", cfg.ServiceURL)
	}

	if cfg.GeminiAPIKey == "" {
		return fmt.Errorf("configuration error: GEMINI_API_KEY is not set")
	}

	switch cfg.OnIllustrationFailure {
	case FailurePolicyOmit:
	case FailurePolicyPlaceholder:
		if cfg.PlaceholderImageURL == "" {
			return fmt.Errorf("configuration error: ON_ILLUSTRATION_FAILURE=placeholder requires PLACEHOLDER_IMAGE_URL")
		}
	default:
		return fmt.Errorf("configuration error: unsupported ON_ILLUSTRATION_FAILURE value %q", cfg.OnIllustrationFailure)
	}

	if cfg.ImageConcurrency < 1 {
		return fmt.Errorf("configuration error: IMAGE_CONCURRENCY must be at least 1")
	}

	if cfg.MaxReferenceBytes < 1 {
		return fmt.Errorf("configuration error: MAX_REFERENCE_BYTES must be positive")
	}

	return nil
}

// IsSecureURL は指定された URL が HTTPS または localhost であるか判定します。
func IsSecureURL(rawURL string) bool {
	return securenet.IsSecureServiceURL(rawURL)
}
