package vectorizer

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// tokenPattern matches word tokens of at least two characters, the
// conventional minimum for term extraction: single letters carry no signal
// in dataset descriptions.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_][\p{L}\p{N}_]+`)

// Tokenize lowercases and Unicode-normalizes the text, then extracts word
// tokens of length >= 2 with stop words removed. The returned order follows
// the source text so that adjacent tokens can form bigrams.
func Tokenize(text string) []string {
	if text == "" {
		return nil
	}
	normalized := norm.NFKC.String(strings.ToLower(text))
	raw := tokenPattern.FindAllString(normalized, -1)
	tokens := make([]string, 0, len(raw))
	for _, tok := range raw {
		if IsStopWord(tok) {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// terms expands tokens to the unigram and bigram term sequence for one
// document. Bigrams join adjacent post-stop-word tokens with a space.
func terms(tokens []string) []string {
	if len(tokens) == 0 {
		return nil
	}
	out := make([]string, 0, 2*len(tokens)-1)
	out = append(out, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		out = append(out, tokens[i]+" "+tokens[i+1])
	}
	return out
}
