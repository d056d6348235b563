package feedback

import (
	"fmt"
	"strings"

	"github.com/Maheshwaran325/-Voice-Evaluation-Microservice/internal/domain/types"
)

// BuildPrompt renders the three analysis reports into the instruction
// text sent to the feedback model. Construction is fully deterministic:
// fixed ordering, fixed number formatting, no timestamps or randomness.
func BuildPrompt(bundle types.AnalysisBundle) string {
	var b strings.Builder

	b.WriteString("Generate detailed, constructive, and encouraging feedback for a speaker ")
	b.WriteString("based on the following analysis of their audio. ")
	b.WriteString("Focus on improving their public speaking skills.\n\n")

	b.WriteString("Pronunciation analysis:\n")
	fmt.Fprintf(&b, "- Overall pronunciation score: %.1f/100\n", bundle.Pronunciation.Score)
	if len(bundle.Pronunciation.MispronouncedWords) == 0 {
		b.WriteString("- Mispronounced words: none\n")
	} else {
		b.WriteString("- Mispronounced words: ")
		for i, w := range bundle.Pronunciation.MispronouncedWords {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%q (confidence %.2f)", w.Word, w.Confidence)
		}
		b.WriteString("\n")
	}

	b.WriteString("\nPacing analysis:\n")
	fmt.Fprintf(&b, "- Words per minute: %.1f\n", bundle.Pacing.WordsPerMinute)
	fmt.Fprintf(&b, "- Pacing assessment: %s\n", bundle.Pacing.Category)
	fmt.Fprintf(&b, "- Total speaking duration: %.2f seconds over %d words\n",
		bundle.Pacing.TotalDurationSec, bundle.Pacing.WordCount)

	b.WriteString("\nPause analysis:\n")
	fmt.Fprintf(&b, "- Pause count: %d\n", bundle.Pauses.PauseCount)
	fmt.Fprintf(&b, "- Total pause time: %.2f seconds\n", float64(bundle.Pauses.TotalPauseTimeMS)/1000)
	fmt.Fprintf(&b, "- Longest pause: %.2f seconds\n", float64(bundle.Pauses.LongestPauseMS)/1000)

	b.WriteString("\nInstructions:\n")
	b.WriteString("1. Start with a positive encouraging statement.\n")
	b.WriteString("2. Provide specific feedback on pronunciation, pacing, and pauses.\n")
	b.WriteString("3. If words were mispronounced, list them and suggest ways to improve.\n")
	b.WriteString("4. Comment on the WPM and suggest whether to speed up or slow down.\n")
	b.WriteString("5. Suggest reducing long pauses or using them effectively.\n")
	b.WriteString("6. End with a concluding encouraging remark.\n")
	b.WriteString("7. Keep the feedback concise but informative, around 3-5 sentences.\n")

	return b.String()
}
