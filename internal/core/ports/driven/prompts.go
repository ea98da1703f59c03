package driven

// Prompt names used with PromptStore.
const (
	// PromptAnswer produces a grounded answer from a question and
	// retrieved rulebook context.
	PromptAnswer = "answer"
)

// PromptStore provides access to customisable LLM prompt templates.
// Implementations load prompts from user-editable storage with fallback
// to embedded defaults.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads.
	Reload()
}
