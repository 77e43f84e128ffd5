package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifier_Classify(t *testing.T) {
	h := newHarness(CategoryQuestions)
	c := NewClassifier(h.model, h.retriever, nil)

	dec, err := c.Classify(context.Background(), testEmail("a@example.com"))
	require.NoError(t, err)
	assert.Equal(t, CategoryQuestions, dec.Category)
	assert.Equal(t, "because", dec.Explanation)

	require.Len(t, h.retriever.retrievals, 1)
	assert.Equal(t, 2, h.retriever.retrievals[0].topK)
	assert.Contains(t, h.retriever.retrievals[0].prompt, "Categorize the email")
}

func TestClassifier_Failures(t *testing.T) {
	tests := []struct {
		name        string
		response    string
		modelErr    error
		retrieveErr error
		wantUnknown bool
	}{
		{name: "unknown label", response: `{"category": "Newsletter", "explanation": "x"}`, wantUnknown: true},
		{name: "malformed", response: `{"category": "Answers"`},
		{name: "extra field", response: `{"category": "Answers", "explanation": "x", "confidence": 1}`},
		{name: "empty", response: ""},
		{name: "model error", modelErr: errors.New("boom")},
		{name: "retrieval error", retrieveErr: errors.New("index gone")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(CategoryAnswers)
			h.model.responses[kindClassify] = tt.response
			if tt.modelErr != nil {
				h.model.errs[kindClassify] = tt.modelErr
			}
			h.retriever.retrieveErr = tt.retrieveErr
			c := NewClassifier(h.model, h.retriever, nil)

			_, err := c.Classify(context.Background(), testEmail("a@example.com"))

			var classErr *ClassificationError
			require.ErrorAs(t, err, &classErr)
			assert.Equal(t, "a@example.com", classErr.EmailID)

			var unknown *UnknownCategoryError
			assert.Equal(t, tt.wantUnknown, errors.As(err, &unknown))
		})
	}
}
