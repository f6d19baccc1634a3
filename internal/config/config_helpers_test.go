package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		ServiceURL:            "https://storybook.example.com",
		GeminiAPIKey:          "test-key",
		OnIllustrationFailure: FailurePolicyOmit,
		ImageConcurrency:      3,
		MaxReferenceBytes:     DefaultMaxReferenceBytes,
	}
}

func TestGetGCSObjectURL(t *testing.T) {
	t.Run("バケット設定ありならフルURIを組み立てる", func(t *testing.T) {
		cfg := Config{GCSBucket: "story-bucket"}
		assert.Equal(t, "gs://story-bucket/output/abc/images/page_01.png",
			cfg.GetGCSObjectURL("output/abc/images/page_01.png"))
	})

	t.Run("既に gs:// のパスはそのまま返す", func(t *testing.T) {
		cfg := Config{GCSBucket: "story-bucket"}
		assert.Equal(t, "gs://other/x.png", cfg.GetGCSObjectURL("gs://other/x.png"))
	})

	t.Run("バケット未設定ならパスをそのまま返す", func(t *testing.T) {
		cfg := Config{}
		assert.Equal(t, "output/abc/x.png", cfg.GetGCSObjectURL("output/abc/x.png"))
	})
}

func TestValidateEssentialConfig(t *testing.T) {
	t.Run("妥当な設定は通る", func(t *testing.T) {
		require.NoError(t, ValidateEssentialConfig(validConfig()))
	})

	t.Run("APIキー欠落は弾く", func(t *testing.T) {
		cfg := validConfig()
		cfg.GeminiAPIKey = ""
		assert.Error(t, ValidateEssentialConfig(cfg))
	})

	t.Run("不明な挿絵失敗ポリシーは弾く", func(t *testing.T) {
		cfg := validConfig()
		cfg.OnIllustrationFailure = "retry"
		assert.Error(t, ValidateEssentialConfig(cfg))
	})

	t.Run("placeholder ポリシーは代替URL必須", func(t *testing.T) {
		cfg := validConfig()
		cfg.OnIllustrationFailure = FailurePolicyPlaceholder
		assert.Error(t, ValidateEssentialConfig(cfg))

		cfg.PlaceholderImageURL = "https://assets.example.com/placeholder.png"
		assert.NoError(t, ValidateEssentialConfig(cfg))
	})

	t.Run("同時実行数は 1 以上", func(t *testing.T) {
		cfg := validConfig()
		cfg.ImageConcurrency = 0
		assert.Error(t, ValidateEssentialConfig(cfg))
	})
}

func TestGetWorkDir(t *testing.T) {
	cfg := Config{BaseOutputDir: "output"}
	assert.Equal(t, "output/story-1", cfg.GetWorkDir("story-1"))
	assert.Equal(t, "output/story-1/images", cfg.GetImageDir("story-1"))
}
