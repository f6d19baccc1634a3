package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ap-storybook-web/internal/domain"
)

func TestBuildStoryPrompt(t *testing.T) {
	t.Run("年齢帯とレベルのポリシーが埋め込まれる", func(t *testing.T) {
		got, err := BuildStoryPrompt("a brave mouse", domain.AgeEarly, domain.LevelBeginner)

		require.NoError(t, err)
		assert.Contains(t, got, "a brave mouse")
		assert.Contains(t, got, "early elementary readers (6-8)")
		assert.Contains(t, got, "pinyin")
		assert.Contains(t, got, "exactly 6 pages")
	})

	t.Run("advancedではピンインを要求しない", func(t *testing.T) {
		got, err := BuildStoryPrompt("dragons", domain.AgeTeen, domain.LevelAdvanced)

		require.NoError(t, err)
		assert.Contains(t, got, "idiomatic expressions")
		assert.NotContains(t, got, "pinyin in parentheses")
		assert.Contains(t, got, "exactly 10 pages")
	})

	t.Run("同じ入力から常に同じプロンプトが得られる", func(t *testing.T) {
		a, err1 := BuildStoryPrompt("the moon", domain.AgePreschool, domain.LevelIntermediate)
		b, err2 := BuildStoryPrompt("the moon", domain.AgePreschool, domain.LevelIntermediate)

		require.NoError(t, err1)
		require.NoError(t, err2)
		assert.Equal(t, a, b)
	})

	t.Run("未知の年齢帯はエラーになる", func(t *testing.T) {
		_, err := BuildStoryPrompt("x", domain.AgeGroup("0-1"), domain.LevelBeginner)
		assert.Error(t, err)
	})
}

func TestBuildIllustrationPrompt(t *testing.T) {
	t.Run("リファレンスありでは一貫性アンカーを含む", func(t *testing.T) {
		got := BuildIllustrationPrompt("The mouse climbed the hill.", "watercolor", true)

		assert.True(t, strings.HasPrefix(got, "Illustrate this scene"))
		assert.Contains(t, got, "The mouse climbed the hill.")
		assert.Contains(t, got, "reference image")
		assert.Contains(t, got, "watercolor")
	})

	t.Run("リファレンスなしではアンカーを含まない", func(t *testing.T) {
		got := BuildIllustrationPrompt("A quiet forest.", "", false)

		assert.NotContains(t, got, "reference image")
	})
}
