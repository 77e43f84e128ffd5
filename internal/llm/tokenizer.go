package llm

import (
	"fmt"
	"sync"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"
)

// DefaultEncoding is the BPE encoding shared by the chat and embedding models.
const DefaultEncoding = "cl100k_base"

// Tokenizer estimates how many tokens a model will see for a text.
type Tokenizer interface {
	Count(text string) int
}

var loaderOnce sync.Once

// BPETokenizer counts tokens with a tiktoken encoding.
type BPETokenizer struct {
	enc *tiktoken.Tiktoken
}

// NewBPETokenizer loads the named encoding from the offline ranks bundled
// with the binary, so no network access is needed.
func NewBPETokenizer(encoding string) (*BPETokenizer, error) {
	loaderOnce.Do(func() {
		tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
	})
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to load encoding %s: %w", encoding, err)
	}
	return &BPETokenizer{enc: enc}, nil
}

// Count returns the number of tokens in text.
func (t *BPETokenizer) Count(text string) int {
	return len(t.enc.Encode(text, nil, nil))
}

// RuneTokenizer approximates token counts as one token per four runes.
type RuneTokenizer struct{}

// Count returns the approximate number of tokens in text.
func (RuneTokenizer) Count(text string) int {
	n := utf8.RuneCountInString(text)
	return (n + 3) / 4
}
