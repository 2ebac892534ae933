package protocol

import "fmt"

// SystemPrompt sets the writer persona for the generator.
const SystemPrompt = "You are a Clinical Research Protocol Writer."

// EmptyIdeaWarning is returned instead of a draft when the idea is blank.
const EmptyIdeaWarning = "⚠ Please enter a study idea."

// FallbackTemplate is the draft returned whenever the generator cannot answer.
const FallbackTemplate = "Protocol Template (LLM Offline)\n\n" +
	"1. Title: [Insert title]\n" +
	"2. Objective: [Primary objective]\n" +
	"3. Study Design: [Design type]\n" +
	"4. Population: [Participants]\n" +
	"5. Primary Endpoint: [Outcome]\n" +
	"6. Sample Size: [Number]\n\n" +
	"⚠ Review assumptions before approval."

// Verification is the fixed review checklist attached to every draft.
const Verification = "✔ Structure present\n" +
	"⚠ Assumptions need human validation\n" +
	"❌ No statistical plan included"

// Notices shown next to a fallback draft. The underlying error is not exposed.
const (
	NoticeOffline = "⚠ LLM not available. Using template output."
	NoticeError   = "⚠ LLM error. Using template output."
)

// Sections lists the outline every draft follows, in order.
var Sections = []string{
	"Title",
	"Objective",
	"Study Design",
	"Population",
	"Primary Endpoint",
	"Sample Size",
}

func userPrompt(idea string) string {
	return fmt.Sprintf(`
Write a short clinical trial protocol:

Study Idea: %s

Format:
1. %s
2. %s
3. %s
4. %s
5. %s
6. %s

Mark assumptions with ⚠
`, idea, Sections[0], Sections[1], Sections[2], Sections[3], Sections[4], Sections[5])
}
