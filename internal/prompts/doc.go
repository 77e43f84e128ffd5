// Package prompts holds the instruction text, JSON contracts, model tier and
// retrieval depth for every model call the agent makes.
//
// Builders return llm.Prompt values with an empty User part; the pipeline
// fills it with retrieved context before invoking the model.
package prompts
