package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"ap-storybook-web/internal/domain"
)

// リクエストボディの上限。base64 リファレンス（デコード後 10 MiB）の
// エンコード分とその他のフィールドを収める余裕を持たせています。
const maxGenerateBodyBytes = 16 << 20

// HandleGenerate は物語生成リクエストを処理します。
func (h *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxGenerateBodyBytes)

	var req domain.GenerationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.WarnContext(r.Context(), "リクエストボディの解析に失敗しました", "error", err)
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	slog.InfoContext(r.Context(), "Generating story",
		"age_group", req.AgeGroup,
		"chinese_level", req.ChineseLevel,
		"include_images", req.IncludeImages,
		"has_subject_reference", req.SubjectReference != "",
	)

	story, err := h.pipeline.Execute(r.Context(), req)
	if err != nil {
		respondPipelineError(w, r, err)
		return
	}

	message := "Story generated successfully"
	if req.IncludeImages {
		message = "Story generated successfully with custom images"
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"story":   story,
		"message": message,
	})
}

// DescribeGenerate は疎通確認用にエンドポイントの受け付けるフィールドを返します。
func (h *Handler) DescribeGenerate(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"message":        "Story generation API is running",
		"endpoint":       "POST /generate",
		"requiredFields": []string{"prompt", "ageGroup", "chineseLevel"},
		"optionalFields": []string{"includeImages", "subjectReference", "storyId"},
	})
}
