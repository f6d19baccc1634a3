package handlers

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"path"

	"github.com/google/uuid"
)

// allowedUploadTypes はアップロードを受け付ける MIME タイプと保存時の拡張子です。
var allowedUploadTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// HandleUpload は被写体リファレンス画像の multipart アップロードを処理します。
// 受理した画像はストレージへ保存され、署名付きURLをそのままリファレンスURLとして使えます。
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	// multipart のヘッダ分を考慮して上限に 1 MiB の余裕を持たせる
	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxUploadBytes+(1<<20))

	file, header, err := r.FormFile("image")
	if err != nil {
		respondError(w, http.StatusBadRequest, "No image file provided")
		return
	}
	defer file.Close()

	if header.Size > h.cfg.MaxUploadBytes {
		respondError(w, http.StatusBadRequest, "File too large. Please upload images smaller than 10MB.")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		slog.ErrorContext(r.Context(), "アップロードファイルの読み込みに失敗しました", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to upload image")
		return
	}

	// 申告された Content-Type ではなく実データで判定する
	contentType := http.DetectContentType(data)
	ext, ok := allowedUploadTypes[contentType]
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid file type. Please upload JPEG, PNG, GIF, or WebP images.")
		return
	}

	objectPath := path.Join(h.cfg.UploadDir, uuid.NewString()+ext)
	fullURL := h.cfg.GetGCSObjectURL(objectPath)

	if err := h.writer.Write(r.Context(), fullURL, bytes.NewReader(data), contentType); err != nil {
		slog.ErrorContext(r.Context(), "アップロード画像の保存に失敗しました", "path", fullURL, "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to upload image")
		return
	}

	signed, err := h.signer.GenerateSignedURL(r.Context(), fullURL, http.MethodGet, h.cfg.SignedURLExpiration)
	if err != nil {
		slog.ErrorContext(r.Context(), "署名付きURL生成失敗", "path", fullURL, "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to upload image")
		return
	}

	slog.InfoContext(r.Context(), "Reference image uploaded",
		"path", objectPath,
		"size", len(data),
		"content_type", contentType,
	)
	respondJSON(w, http.StatusOK, map[string]string{"imageUrl": signed})
}

// DescribeUpload は疎通確認用にエンドポイントの仕様を返します。
func (h *Handler) DescribeUpload(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"message":          "Image upload API is running",
		"endpoint":         "POST /upload-image",
		"supportedFormats": []string{"JPEG", "PNG", "GIF", "WebP"},
		"maxSize":          "10MB",
	})
}
