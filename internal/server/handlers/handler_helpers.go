package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"ap-storybook-web/internal/domain"
)

// respondJSON は JSON レスポンスを書き込みます。
func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("レスポンスの書き込みに失敗しました", "error", err)
	}
}

// respondError はエラーレスポンス {"error": ...} を書き込みます。
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondPipelineError はパイプラインのエラーを HTTP ステータスに写像します。
// クライアント起因（検証・リファレンス系）は 400、それ以外の致命エラーは 500 です。
func respondPipelineError(w http.ResponseWriter, r *http.Request, err error) {
	if domain.ClientFault(err) {
		slog.WarnContext(r.Context(), "Generation request rejected", "error", err)
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	slog.ErrorContext(r.Context(), "Story generation failed", "error", err)
	respondError(w, http.StatusInternalServerError, "Failed to generate story: "+err.Error())
}
