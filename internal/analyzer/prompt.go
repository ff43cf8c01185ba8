package analyzer

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

const promptInstructions = `You are a precise movie-review sentiment classifier.

Return ONLY one compact JSON object and nothing else. No commentary, no markdown.
Schema (exact):
{
  "label": "Positive | Negative | Neutral",
  "confidence": 0.00,
  "explanation": "Short reason grounded in the text (1-2 short sentences).",
  "evidence_phrases": ["phrase1", "phrase2"]
}

Rules:
- Base judgment only on the provided review text.
- Sarcasm: if sarcasm exists but target is ambiguous -> Neutral (Strict).
- Comparisons ("better than the last one"): use relative tone; if overall favorable -> Positive.
- Third-party quotes without reviewer stance -> Neutral unless reviewer endorses/opposes.
- Mixed opinions ("great acting, boring plot"):
  - STRICT mode: If review contains both positives and negatives, output "Neutral" in label unless one side is overwhelmingly dominant.
  - LENIENT mode: If review contains both positives and negatives, choose the stronger side (Positive or Negative) as the label. Always mention the weaker side in the explanation.

Return valid JSON that follows the schema exactly. Keep "explanation" short (one or two short sentences).`

const strictDirective = "STRICT mode active: For mixed reviews (both good and bad), " +
	"output must be 'Neutral' unless one side is extremely dominant."

const lenientDirective = "LENIENT mode active: For mixed reviews (both good and bad), " +
	"pick the dominant sentiment (Positive or Negative) as the label. " +
	"Always mention the weaker side in the explanation."

// fewShotExample pairs a review with the exact JSON the model should
// return for it.
type fewShotExample struct {
	Review string
	Want   Result
}

// fewShot is the fixed worked-example corpus: clear positive, clear
// negative, the same mixed review under strict and lenient tie-breaking,
// two more lenient mixed outcomes, and a purely factual neutral review.
// It is never mutated at runtime.
var fewShot = []fewShotExample{
	{
		Review: "Loved the soundtrack and the performances, even though the story drags in the middle.",
		Want: Result{
			Label:           LabelPositive,
			Confidence:      0.86,
			Explanation:     "Praise for soundtrack and performances outweighs the pacing complaint.",
			EvidencePhrases: []string{"Loved the soundtrack", "performances", "story drags"},
		},
	},
	{
		Review: "Terrible pacing and wooden acting. Do not recommend.",
		Want: Result{
			Label:           LabelNegative,
			Confidence:      0.94,
			Explanation:     "Strong negative language about pacing and acting.",
			EvidencePhrases: []string{"Terrible pacing", "wooden acting", "Do not recommend"},
		},
	},
	{
		// Mixed review, strict tie-break.
		Review: "Great acting, but the story was boring.",
		Want: Result{
			Label:           LabelNeutral,
			Confidence:      0.70,
			Explanation:     "The review praises the acting but criticizes the story, making the sentiment balanced.",
			EvidencePhrases: []string{"Great acting", "story was boring"},
		},
	},
	{
		// Same mixed review, lenient tie-break.
		Review: "Great acting, but the story was boring.",
		Want: Result{
			Label:           LabelPositive,
			Confidence:      0.75,
			Explanation:     "The review is mostly positive about the acting, but notes the story as a drawback.",
			EvidencePhrases: []string{"Great acting", "story was boring"},
		},
	},
	{
		Review: "The cinematography was stunning, though the pacing was a bit slow.",
		Want: Result{
			Label:           LabelPositive,
			Confidence:      0.75,
			Explanation:     "The review is mostly positive about cinematography, but mentions slow pacing as a drawback.",
			EvidencePhrases: []string{"cinematography was stunning", "pacing was a bit slow"},
		},
	},
	{
		Review: "The plot was messy and confusing, though the soundtrack was nice.",
		Want: Result{
			Label:           LabelNegative,
			Confidence:      0.78,
			Explanation:     "The review is mostly negative about the plot, but notes the soundtrack positively.",
			EvidencePhrases: []string{"plot was messy and confusing", "soundtrack was nice"},
		},
	},
	{
		Review: "The movie releases next week and stars two actors.",
		Want: Result{
			Label:           LabelNeutral,
			Confidence:      0.70,
			Explanation:     "Factual description without a clear opinion.",
			EvidencePhrases: []string{},
		},
	},
}

// examplesBlock renders the few-shot corpus once; the corpus is constant
// so the rendered block is too.
var examplesBlock = sync.OnceValue(func() string {
	blocks := make([]string, 0, len(fewShot))
	for _, ex := range fewShot {
		wantJSON, err := json.Marshal(ex.Want)
		if err != nil {
			panic(fmt.Sprintf("few-shot corpus is not serializable: %v", err))
		}
		blocks = append(blocks, fmt.Sprintf("Review: %q\nJSON: %s", ex.Review, wantJSON))
	}
	return strings.Join(blocks, "\n\n")
})

// BuildPrompt composes the full request payload for one review: the fixed
// instruction block, the mode directive, the worked examples, and the
// target review. Pure function, no failure modes.
func BuildPrompt(review string, strict bool) string {
	directive := lenientDirective
	if strict {
		directive = strictDirective
	}

	var b strings.Builder
	b.WriteString(promptInstructions)
	b.WriteString("\nMode instruction: ")
	b.WriteString(directive)
	b.WriteString("\n\n")
	b.WriteString(examplesBlock())
	b.WriteString(fmt.Sprintf("\n\nReview: %q\nReturn the JSON now.", review))
	return b.String()
}
