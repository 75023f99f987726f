package driven

// PromptStore supplies the instructions sent to the extraction model.
type PromptStore interface {
	// Load returns the prompt for name. Known prompts fall back to the
	// built-in text when no usable override exists.
	Load(name string) (string, error)
}

// Well-known prompt names.
const (
	// PromptExtraction instructs the vision model to return the ID document
	// fields as a single JSON object. It has no format placeholders.
	PromptExtraction = "extraction"
)
