package runner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/shouni/go-gemini-client/pkg/gemini"

	"ap-storybook-web/internal/config"
	"ap-storybook-web/internal/domain"
	"ap-storybook-web/internal/prompts"
)

var jsonBlockRegex = regexp.MustCompile("(?s)```(?:json)?\\s*(.*\\S)\\s*```")

// StoryScriptRunner は対訳物語の本文（タイトルと全ページ）を生成します。
// 外部呼び出しは Gemini への1回のみで、応答の形の検証までを責務とします。
type StoryScriptRunner struct {
	cfg      *config.Config
	aiClient gemini.GenerativeModel
}

// NewStoryScriptRunner は依存関係を注入して初期化します。
func NewStoryScriptRunner(cfg *config.Config, ai gemini.GenerativeModel) *StoryScriptRunner {
	return &StoryScriptRunner{
		cfg:      cfg,
		aiClient: ai,
	}
}

// Run はプロンプトと制約から本文を生成し、検証済みの Story を返します。
// 挿絵フィールドは常に空のまま返します（埋めるのは Illustration 側の責務）。
func (sr *StoryScriptRunner) Run(ctx context.Context, req domain.GenerationRequest) (domain.Story, error) {
	finalPrompt, err := prompts.BuildStoryPrompt(req.Prompt, req.AgeGroup, req.ChineseLevel)
	if err != nil {
		return domain.Story{}, fmt.Errorf("%w: %v", domain.ErrTextGeneration, err)
	}

	slog.Info("StoryScriptRunner: Calling Gemini API",
		"model", sr.cfg.GeminiModel,
		"age_group", req.AgeGroup,
		"chinese_level", req.ChineseLevel,
	)

	callCtx, cancel := context.WithTimeout(ctx, sr.cfg.TextTimeout)
	defer cancel()

	resp, err := sr.aiClient.GenerateContent(callCtx, sr.cfg.GeminiModel, finalPrompt)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return domain.Story{}, fmt.Errorf("%w: text generation: %v", domain.ErrUpstreamTimeout, err)
		}
		return domain.Story{}, fmt.Errorf("%w: %v", domain.ErrTextGeneration, err)
	}

	raw, err := extractResponseText(resp)
	if err != nil {
		return domain.Story{}, err
	}

	story, err := parseStoryResponse(raw)
	if err != nil {
		return domain.Story{}, err
	}

	if err := validateStoryShape(story); err != nil {
		return domain.Story{}, err
	}

	slog.Info("StoryScriptRunner: Story text generated",
		"title", story.StoryTitle,
		"pages", story.PageCount(),
	)
	return story, nil
}

// extractResponseText は応答からテキスト部分を連結して取り出します。
func extractResponseText(resp *gemini.Response) (string, error) {
	if resp == nil || resp.RawResponse == nil || len(resp.RawResponse.Candidates) == 0 {
		return "", fmt.Errorf("%w: empty model response", domain.ErrMalformedGeneration)
	}

	var sb strings.Builder
	candidate := resp.RawResponse.Candidates[0]
	if candidate.Content != nil {
		for _, part := range candidate.Content.Parts {
			if part.Text != "" {
				sb.WriteString(part.Text)
			}
		}
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", fmt.Errorf("%w: response contains no text part", domain.ErrMalformedGeneration)
	}
	return text, nil
}

// parseStoryResponse は AI 応答から JSON を抽出してデコードします。
// コードフェンス、外側ブレース、素の JSON の順でフォールバックします。
func parseStoryResponse(raw string) (domain.Story, error) {
	raw = strings.TrimSpace(raw)
	var rawJSON string

	matches := jsonBlockRegex.FindStringSubmatch(raw)
	if len(matches) > 1 {
		rawJSON = matches[1]
	} else {
		firstBracket := strings.Index(raw, "{")
		lastBracket := strings.LastIndex(raw, "}")
		if firstBracket != -1 && lastBracket != -1 && lastBracket > firstBracket {
			rawJSON = raw[firstBracket : lastBracket+1]
		} else {
			rawJSON = raw
		}
	}

	var story domain.Story
	if err := json.Unmarshal([]byte(rawJSON), &story); err != nil {
		return domain.Story{}, fmt.Errorf("%w: JSON decode failed (excerpt: %q): %v",
			domain.ErrMalformedGeneration, truncateString(raw, 200), err)
	}
	return story, nil
}

// validateStoryShape は応答が利用可能な形であることを検証します。
// ページ0件、または全ページでどちらかの言語が空の物語は受け入れません。
func validateStoryShape(story domain.Story) error {
	if story.PageCount() < 1 {
		return fmt.Errorf("%w: story has no pages", domain.ErrMalformedGeneration)
	}

	for i, page := range story.StoryPages {
		if strings.TrimSpace(page.English) == "" {
			return fmt.Errorf("%w: page %d has empty english text", domain.ErrMalformedGeneration, i+1)
		}
		if strings.TrimSpace(page.Chinese) == "" {
			return fmt.Errorf("%w: page %d has empty chinese text", domain.ErrMalformedGeneration, i+1)
		}
	}
	return nil
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
