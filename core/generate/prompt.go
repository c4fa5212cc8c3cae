package generate

import (
	"fmt"
	"strings"

	"github.com/janani-health/janani/pkg/schema"
)

// maxTokensFor 各模式的生成长度预算
func maxTokensFor(mode schema.Mode) int {
	switch mode {
	case schema.ModeShort:
		return 150
	case schema.ModeVoice:
		return 250
	default:
		return 500
	}
}

var answerLanguageNames = map[schema.Language]string{
	schema.LanguageHindi:   "Hindi",
	schema.LanguageEnglish: "English",
}

// buildPrompt assembles the grounded generation prompt. The model may only
// use the numbered passages; every statement drawn from passage n must carry
// the marker [Sn]. strict is the regenerate-after-violation variant.
func buildPrompt(queryText string, passages []*schema.RankedPassage, language schema.Language, profile *schema.UserProfile, mode schema.Mode, strict bool) string {
	var b strings.Builder

	b.WriteString("You are a maternal health information assistant. Answer the question using ONLY the numbered reference passages below. ")
	b.WriteString("Do not add any facts that are not in the passages. ")
	b.WriteString("Never give a diagnosis, never prescribe medicines or dosages, and never tell the user they do or do not have a condition. ")
	b.WriteString("After every statement taken from passage n, cite it with the marker [Sn]. ")

	if strict {
		b.WriteString("IMPORTANT: your previous answer cited sources that were not supplied. ")
		b.WriteString(fmt.Sprintf("Only the markers [S1] through [S%d] exist. Any other marker is forbidden. ", len(passages)))
		b.WriteString("If the passages do not answer the question, say so instead of inventing information. ")
	}

	switch mode {
	case schema.ModeShort:
		b.WriteString("Keep the answer very short: at most three simple sentences. ")
	case schema.ModeVoice:
		b.WriteString("The answer will be read aloud: use short spoken-style sentences, no lists or markup. ")
	default:
		b.WriteString("Give a complete but plainly worded answer. ")
	}

	b.WriteString(fmt.Sprintf("Answer in %s, in words a first-time mother without medical training understands.\n\n", answerLanguageNames[language]))

	if profile != nil && profile.Trimester != "" {
		b.WriteString(fmt.Sprintf("The user is in her %s trimester; prefer passages relevant to that stage.\n\n", profile.Trimester))
	}

	b.WriteString("Reference passages:\n")
	for i, p := range passages {
		b.WriteString(fmt.Sprintf("[S%d] %s\n", i+1, p.Content))
	}

	b.WriteString("\nQuestion: ")
	b.WriteString(queryText)
	b.WriteString("\nAnswer:")

	return b.String()
}
