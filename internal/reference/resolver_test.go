package reference

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ap-storybook-web/internal/domain"
)

const testMaxBytes = 10 << 20

func TestResolver_URL(t *testing.T) {
	r := NewResolver(testMaxBytes)

	t.Run("任意ホストでも画像拡張子のURLは受理される", func(t *testing.T) {
		ref, err := r.Resolve("https://example.com/photos/cat.png")

		require.NoError(t, err)
		assert.Equal(t, "https://example.com/photos/cat.png", ref.URL)
		assert.Equal(t, domain.ReferenceFromURL, ref.Source)
		assert.False(t, ref.Inline())
	})

	t.Run("既知の画像ホストは拡張子なしでも受理される", func(t *testing.T) {
		ref, err := r.Resolve("https://picsum.photos/200/300")

		require.NoError(t, err)
		assert.Equal(t, domain.ReferenceFromURL, ref.Source)
	})

	t.Run("Google画像検索の結果ページは拒否される", func(t *testing.T) {
		_, err := r.Resolve("https://www.google.com/imgres?imgurl=https%3A%2F%2Fexample.com%2Fcat.png")

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidReference)
	})

	t.Run("googleusercontentのプロキシURLは拒否される", func(t *testing.T) {
		_, err := r.Resolve("https://lh3.googleusercontent.com/proxy/abcdef.jpg")

		assert.ErrorIs(t, err, domain.ErrInvalidReference)
	})

	t.Run("拡張子なし・未知ホストは拒否される", func(t *testing.T) {
		_, err := r.Resolve("https://example.com/gallery/view?id=42")

		assert.ErrorIs(t, err, domain.ErrInvalidReference)
	})

	t.Run("http以外のスキームは拒否される", func(t *testing.T) {
		_, err := r.Resolve("ftp://example.com/cat.png")

		// ftp:// は base64 分岐に入り、不正な base64 として拒否される
		assert.Error(t, err)
	})
}

func TestResolver_Base64(t *testing.T) {
	r := NewResolver(testMaxBytes)
	pngPayload := base64.StdEncoding.EncodeToString([]byte("fake-png-binary"))

	t.Run("data URI形式のPNGは受理される", func(t *testing.T) {
		ref, err := r.Resolve("data:image/png;base64," + pngPayload)

		require.NoError(t, err)
		assert.True(t, ref.Inline())
		assert.Equal(t, "image/png", ref.MimeType)
		assert.Equal(t, []byte("fake-png-binary"), ref.Data)
		assert.Equal(t, domain.ReferenceFromUpload, ref.Source)
	})

	t.Run("許可リスト外のMIMEタイプは拒否される", func(t *testing.T) {
		_, err := r.Resolve("data:image/tiff;base64," + pngPayload)

		assert.ErrorIs(t, err, domain.ErrUnsupportedMediaType)
	})

	t.Run("サイズ上限を超えたペイロードは拒否される", func(t *testing.T) {
		small := NewResolver(8)
		_, err := small.Resolve("data:image/png;base64," + pngPayload)

		assert.ErrorIs(t, err, domain.ErrPayloadTooLarge)
	})

	t.Run("壊れたbase64は拒否される", func(t *testing.T) {
		_, err := r.Resolve("data:image/png;base64,%%%not-base64%%%")

		assert.ErrorIs(t, err, domain.ErrInvalidReference)
	})

	t.Run("空入力は拒否される", func(t *testing.T) {
		_, err := r.Resolve("   ")

		assert.ErrorIs(t, err, domain.ErrInvalidReference)
	})
}

// 同じ入力は常に構造的に等しい結果になることを確認する（冪等性）。
func TestResolver_Idempotent(t *testing.T) {
	r := NewResolver(testMaxBytes)

	inputs := []string{
		"https://example.com/dog.jpeg",
		"data:image/webp;base64," + base64.StdEncoding.EncodeToString([]byte("webp-bytes")),
	}

	for _, in := range inputs {
		first, err1 := r.Resolve(in)
		second, err2 := r.Resolve(in)

		require.NoError(t, err1)
		require.NoError(t, err2)
		assert.Equal(t, first, second)
	}

	// 拒否も決定的であること
	_, err1 := r.Resolve("https://www.google.com/imgres?imgurl=x")
	_, err2 := r.Resolve("https://www.google.com/imgres?imgurl=x")
	assert.ErrorIs(t, err1, domain.ErrInvalidReference)
	assert.ErrorIs(t, err2, domain.ErrInvalidReference)
}

func TestResolver_LargePayloadPrecheck(t *testing.T) {
	// デコード前の概算チェックで巨大入力を弾くこと
	r := NewResolver(16)
	huge := "data:image/png;base64," + strings.Repeat("QUJD", 100)

	_, err := r.Resolve(huge)
	assert.ErrorIs(t, err, domain.ErrPayloadTooLarge)
}
