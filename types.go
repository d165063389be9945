package modelroute

// TaskCategory identifies which tier sequence a request is routed through.
type TaskCategory string

const (
	// CategoryReasoning is for multi-step analysis and planning tasks.
	CategoryReasoning TaskCategory = "reasoning"
	// CategoryDraft is for long-form document drafting.
	CategoryDraft TaskCategory = "draft"
	// CategoryExtraction is for structured data extraction from documents.
	CategoryExtraction TaskCategory = "extraction"
	// CategoryEmbedding is for vector embedding generation.
	CategoryEmbedding TaskCategory = "embedding"
)

// Valid returns true if the category is a known value.
func (c TaskCategory) Valid() bool {
	switch c {
	case CategoryReasoning, CategoryDraft, CategoryExtraction, CategoryEmbedding:
		return true
	default:
		return false
	}
}

// Categories lists every supported task category in a stable order.
func Categories() []TaskCategory {
	return []TaskCategory{CategoryReasoning, CategoryDraft, CategoryExtraction, CategoryEmbedding}
}

// GenerationResult is the outcome of a successfully routed request.
// Response is the upstream collaborator's response, passed through untouched.
type GenerationResult struct {
	Response any
	Routing  RoutingInfo
}

// RoutingInfo describes which model served the request and how many
// candidates were attempted (pre-emptive skips included) before it did.
type RoutingInfo struct {
	RequestID string
	Category  TaskCategory
	Model     string
	Tier      int
	Attempts  int
}
