package domain

// RetrievedChunk pairs a chunk with its similarity to a query.
type RetrievedChunk struct {
	Chunk Chunk

	// Score is the cosine similarity between the query embedding and the
	// chunk embedding. Higher is more similar.
	Score float64
}

// RetrievalResult is an ordered sequence of retrieved chunks, descending
// by score. Ties are broken by ascending sequence index, then document ID,
// so repeated searches over the same corpus are deterministic.
type RetrievalResult struct {
	Chunks []RetrievedChunk
}

// Empty reports whether retrieval found nothing.
func (r RetrievalResult) Empty() bool {
	return len(r.Chunks) == 0
}

// ContextPassage is one supporting passage returned alongside an answer.
type ContextPassage struct {
	// Source names the document the passage came from (title, falling
	// back to path).
	Source string `json:"source"`

	// Text is the passage content.
	Text string `json:"text"`

	// Score is the retrieval similarity score.
	Score float64 `json:"score"`
}

// Answer is the shaped output of the query pipeline.
type Answer struct {
	// Question is the original question text.
	Question string `json:"question"`

	// Text is the generated answer.
	Text string `json:"answer"`

	// Context holds the passages the answer was grounded on, in
	// descending similarity order.
	Context []ContextPassage `json:"context"`

	// Success is false when a service boundary failed; Error then carries
	// a presentable message.
	Success bool `json:"success"`

	// ContextFree is true when generation ran without any retrieved
	// passages (empty or irrelevant store).
	ContextFree bool `json:"context_free"`

	// Error is a human-readable failure cause when Success is false.
	Error string `json:"error,omitempty"`
}
