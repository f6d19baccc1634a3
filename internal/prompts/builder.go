// Package prompts は年齢帯と中国語レベルから本文生成・挿絵生成の
// プロンプトを決定的に構築します。同じ入力は常に同じプロンプトになります。
package prompts

import (
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"ap-storybook-web/internal/domain"
)

//go:embed story.md
var storyTemplateSource string

var storyTemplate = template.Must(template.New("story").Parse(storyTemplateSource))

// audiencePolicies は年齢帯ごとの語彙・文章量の指示です。
var audiencePolicies = map[domain.AgeGroup]string{
	domain.AgePreschool:  "preschoolers (3-5). Very short sentences (5-8 words), concrete everyday vocabulary, lots of repetition and sound words.",
	domain.AgeEarly:      "early elementary readers (6-8). Short sentences (8-12 words), simple vocabulary with a few new words, clear cause and effect.",
	domain.AgeElementary: "elementary readers (9-12). Full paragraphs of 2-3 sentences per page, richer vocabulary, light subplots allowed.",
	domain.AgeTeen:       "teen and adult learners (13+). Natural prose, nuanced vocabulary, more sophisticated themes.",
}

// chinesePolicies は中国語レベルごとの表記・難度の指示です。
var chinesePolicies = map[domain.ChineseLevel]string{
	domain.LevelBeginner:     "beginner. Use very simple characters with pinyin in parentheses after each sentence, HSK 1-2 vocabulary only.",
	domain.LevelIntermediate: "intermediate. Use simplified characters without pinyin, HSK 3-4 vocabulary, straightforward grammar.",
	domain.LevelAdvanced:     "advanced. Use full simplified character text with natural, more complex grammar and idiomatic expressions.",
}

// pageCounts は年齢帯ごとの生成ページ数です。
var pageCounts = map[domain.AgeGroup]int{
	domain.AgePreschool:  5,
	domain.AgeEarly:      6,
	domain.AgeElementary: 8,
	domain.AgeTeen:       10,
}

type storyTemplateData struct {
	Prompt         string
	AudiencePolicy string
	ChinesePolicy  string
	PageCount      int
}

// BuildStoryPrompt は本文生成用の最終プロンプトを構築します。
func BuildStoryPrompt(prompt string, age domain.AgeGroup, level domain.ChineseLevel) (string, error) {
	audience, ok := audiencePolicies[age]
	if !ok {
		return "", fmt.Errorf("no audience policy for age group %q", age)
	}
	chinese, ok := chinesePolicies[level]
	if !ok {
		return "", fmt.Errorf("no language policy for chinese level %q", level)
	}

	data := storyTemplateData{
		Prompt:         prompt,
		AudiencePolicy: audience,
		ChinesePolicy:  chinese,
		PageCount:      pageCounts[age],
	}

	var sb strings.Builder
	if err := storyTemplate.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("story prompt template execution failed: %w", err)
	}
	return sb.String(), nil
}

// subjectAnchor はリファレンス画像がある場合にページ間の一貫性を要求する定型句です。
const subjectAnchor = "The main character must look exactly like the subject in the attached reference image: same face, same hair, same clothing colors, consistent across every illustration."

// BuildIllustrationPrompt は1ページ分の挿絵プロンプトを構築します。
// ページの英語本文をシーン記述として使い、スタイルサフィックスを結合します。
func BuildIllustrationPrompt(pageEnglish, styleSuffix string, withReference bool) string {
	parts := make([]string, 0, 3)
	parts = append(parts, "Illustrate this scene from a children's story: "+pageEnglish)
	if withReference {
		parts = append(parts, subjectAnchor)
	}
	if styleSuffix != "" {
		parts = append(parts, styleSuffix)
	}
	return strings.Join(parts, " ")
}
