// Package reference は被写体リファレンス（URL または base64 画像）を
// 画像生成が利用できる単一の正規形に正規化します。純粋な検証のみで、
// ネットワークアクセスは一切行いません。URL の取得は画像生成側の責務です。
package reference

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"path"
	"strings"

	"ap-storybook-web/internal/domain"
)

// allowedMimeTypes はアップロードペイロードとして受け付ける MIME タイプです。
var allowedMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// imageExtensions は直接画像アセットとみなす拡張子です。
var imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".bmp"}

// directImageHosts は拡張子がなくても画像を直接配信する既知のホストです。
var directImageHosts = []string{
	"imgur.com",
	"i.imgur.com",
	"postimg.cc",
	"unsplash.com",
	"picsum.photos",
}

// deniedURLPatterns は画像ビューアや検索結果ページなど、
// 直接アセットではないことが既知の URL パターンです。判定はベストエフォートです。
var deniedURLPatterns = []string{
	"google.com/imgres",
	"googleusercontent.com/proxy",
}

// Resolver は被写体リファレンスの正規化を行います。
type Resolver struct {
	// MaxDecodedBytes は base64 ペイロードのデコード後サイズ上限です。
	MaxDecodedBytes int64
}

// NewResolver は上限設定を注入して Resolver を生成します。
func NewResolver(maxDecodedBytes int64) *Resolver {
	return &Resolver{MaxDecodedBytes: maxDecodedBytes}
}

// Resolve は入力を ResolvedReference に正規化します。
// 同じ入力は常に同じ結果（または同じ拒否）になります。
func (r *Resolver) Resolve(raw string) (domain.ResolvedReference, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return domain.ResolvedReference{}, fmt.Errorf("%w: reference is empty", domain.ErrInvalidReference)
	}

	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
		return r.resolveURL(trimmed)
	}
	return r.resolveBase64(trimmed)
}

// resolveURL は URL 入力を検証します。URL はそのまま通過させ、取得は行いません。
func (r *Resolver) resolveURL(raw string) (domain.ResolvedReference, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return domain.ResolvedReference{}, fmt.Errorf("%w: malformed URL: %v", domain.ErrInvalidReference, err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return domain.ResolvedReference{}, fmt.Errorf("%w: unsupported scheme %q", domain.ErrInvalidReference, parsed.Scheme)
	}

	for _, pattern := range deniedURLPatterns {
		if strings.Contains(raw, pattern) {
			return domain.ResolvedReference{}, fmt.Errorf("%w: URL is a viewer/search-result page, not a direct image", domain.ErrInvalidReference)
		}
	}

	if !hasImageExtension(parsed.Path) && !isDirectImageHost(parsed.Hostname()) {
		return domain.ResolvedReference{}, fmt.Errorf("%w: URL does not look like a direct image asset", domain.ErrInvalidReference)
	}

	return domain.ResolvedReference{
		URL:    raw,
		Source: domain.ReferenceFromURL,
	}, nil
}

// resolveBase64 は base64 入力（data URI 形式または生の base64）を検証・デコードします。
func (r *Resolver) resolveBase64(raw string) (domain.ResolvedReference, error) {
	mimeType := "image/png"
	payload := raw

	if strings.HasPrefix(raw, "data:") {
		meta, rest, found := strings.Cut(strings.TrimPrefix(raw, "data:"), ",")
		if !found {
			return domain.ResolvedReference{}, fmt.Errorf("%w: malformed data URI", domain.ErrInvalidReference)
		}
		mimeType = strings.TrimSuffix(meta, ";base64")
		payload = rest
	}

	if !allowedMimeTypes[mimeType] {
		return domain.ResolvedReference{}, fmt.Errorf("%w: %q (accepted: jpeg, png, gif, webp)", domain.ErrUnsupportedMediaType, mimeType)
	}

	// デコード前の概算チェックで巨大ペイロードのデコードを避ける
	if est := int64(len(payload)) / 4 * 3; r.MaxDecodedBytes > 0 && est > r.MaxDecodedBytes {
		return domain.ResolvedReference{}, fmt.Errorf("%w: payload exceeds %d bytes", domain.ErrPayloadTooLarge, r.MaxDecodedBytes)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return domain.ResolvedReference{}, fmt.Errorf("%w: invalid base64 payload: %v", domain.ErrInvalidReference, err)
	}

	if r.MaxDecodedBytes > 0 && int64(len(data)) > r.MaxDecodedBytes {
		return domain.ResolvedReference{}, fmt.Errorf("%w: decoded size %d exceeds %d bytes", domain.ErrPayloadTooLarge, len(data), r.MaxDecodedBytes)
	}

	return domain.ResolvedReference{
		Data:     data,
		MimeType: mimeType,
		Source:   domain.ReferenceFromUpload,
	}, nil
}

func hasImageExtension(urlPath string) bool {
	ext := strings.ToLower(path.Ext(urlPath))
	for _, allowed := range imageExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

func isDirectImageHost(hostname string) bool {
	host := strings.ToLower(hostname)
	for _, allowed := range directImageHosts {
		if host == allowed || strings.HasSuffix(host, "."+allowed) {
			return true
		}
	}
	return false
}
