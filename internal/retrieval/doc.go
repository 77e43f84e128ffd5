// Package retrieval is the context retriever the pipeline grounds its
// prompts on. The email being processed is embedded and stored in a local
// SQLite table; prompts are answered with the stored texts most similar to
// them by cosine similarity.
//
// Each namespace holds the vectors of a single email: indexing clears the
// namespace first.
package retrieval
