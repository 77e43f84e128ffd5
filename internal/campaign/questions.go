package campaign

import (
	"fmt"
	"strings"
)

// Questions are the four interview questions, in order.
var Questions = []string{
	"Why did you start your business?",
	"What is your best-selling product/service?",
	"How many local businesses do you use to support your business (products and services) and can you name them?",
	"Have you 'reimagined' your small business?",
}

// NoAnswer is what the model returns for a question that was not answered.
const NoAnswer = "No answers to this question"

// QA is one question and the respondent's answer.
type QA struct {
	Question string `json:"q"`
	Answer   string `json:"a"`
}

// Answered reports whether the answer carries content.
func (qa QA) Answered() bool {
	a := strings.TrimSpace(qa.Answer)
	return a != "" && !strings.EqualFold(strings.TrimRight(a, "."), NoAnswer)
}

// ParseQA decodes a {q, a} object returned by the model. An empty question
// is filled in from question.
func ParseQA(raw, question string) (QA, error) {
	var qa QA
	if err := DecodeStrict(raw, &qa); err != nil {
		return QA{}, fmt.Errorf("answer to %q: %w", question, err)
	}
	qa.Question = strings.TrimSpace(qa.Question)
	qa.Answer = strings.TrimSpace(qa.Answer)
	if qa.Question == "" {
		qa.Question = question
	}
	return qa, nil
}

// AnsweredCount returns the number of answered questions.
func AnsweredCount(qas []QA) int {
	n := 0
	for _, qa := range qas {
		if qa.Answered() {
			n++
		}
	}
	return n
}

// Answers joins the answered answers with spaces.
func Answers(qas []QA) string {
	var parts []string
	for _, qa := range qas {
		if qa.Answered() {
			parts = append(parts, qa.Answer)
		}
	}
	return strings.Join(parts, " ")
}
