package domain

// Intent is the coarse type of a user query.
type Intent string

// Available intents.
const (
	// IntentOverview favours breadth: structural sections, larger K.
	IntentOverview Intent = "overview"

	// IntentSpecific favours precision: small K, no category priority.
	IntentSpecific Intent = "specific"
)

// QueryIntent is the intent classifier's verdict on a query, used to
// parameterise the retrieval engine.
type QueryIntent struct {
	// Intent is the detected query type.
	Intent Intent

	// Confidence is the normalised absolute difference between the
	// overview and specific pattern match counts, in [0, 1].
	Confidence float64

	// RecommendedK is the suggested number of chunks to retrieve.
	RecommendedK int

	// PriorityCategories orders categories to favour for overview
	// queries. Nil for specific queries.
	PriorityCategories []SectionCategory
}
