package analyzer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPrompt_StrictDirective(t *testing.T) {
	prompt := BuildPrompt("Great acting, but the story was boring.", true)

	assert.Contains(t, prompt, "STRICT mode active")
	assert.NotContains(t, prompt, "LENIENT mode active")
}

func TestBuildPrompt_LenientDirective(t *testing.T) {
	prompt := BuildPrompt("Great acting, but the story was boring.", false)

	assert.Contains(t, prompt, "LENIENT mode active")
	assert.NotContains(t, prompt, "STRICT mode active")
	assert.Contains(t, prompt, "mention the weaker side in the explanation")
}

func TestBuildPrompt_ContainsSchemaAndRules(t *testing.T) {
	prompt := BuildPrompt("anything", true)

	assert.Contains(t, prompt, `"label": "Positive | Negative | Neutral"`)
	assert.Contains(t, prompt, "evidence_phrases")
	assert.Contains(t, prompt, "Sarcasm")
	assert.Contains(t, prompt, "Third-party quotes")
	assert.Contains(t, prompt, "Comparisons")
}

func TestBuildPrompt_ContainsWorkedExamples(t *testing.T) {
	prompt := BuildPrompt("anything", true)

	for _, ex := range fewShot {
		assert.Contains(t, prompt, ex.Review)
	}
	// The mixed review appears with both outcomes so the directive alone
	// decides the tie-break.
	assert.Contains(t, prompt, `"label":"Neutral"`)
	assert.Contains(t, prompt, `"label":"Positive"`)
	assert.Contains(t, prompt, `"label":"Negative"`)
}

func TestBuildPrompt_EndsWithTargetReview(t *testing.T) {
	prompt := BuildPrompt("A very specific review text.", false)

	assert.Contains(t, prompt, "A very specific review text.")
	assert.True(t, strings.HasSuffix(prompt, "Return the JSON now."))

	// The target review comes after all worked examples.
	lastExample := fewShot[len(fewShot)-1].Review
	assert.Greater(t, strings.LastIndex(prompt, "A very specific review text."), strings.Index(prompt, lastExample))
}

func TestBuildPrompt_PureAndStable(t *testing.T) {
	first := BuildPrompt("same review", true)
	second := BuildPrompt("same review", true)
	assert.Equal(t, first, second)
}
