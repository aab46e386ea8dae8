package embeddings

import "strings"

// Rough conversion used for sizing chunks against a token budget.
const approxCharsPerToken = 4

// Chunk splits text into pieces of at most maxTokens (approximated as
// four characters per token), preferring paragraph and then sentence
// boundaries. The concatenation of the chunks preserves every
// non-whitespace character of the input.
func Chunk(text string, maxTokens int) []string {
	if maxTokens <= 0 {
		maxTokens = 512
	}
	maxChars := maxTokens * approxCharsPerToken

	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if len(text) <= maxChars {
		return []string{text}
	}

	var chunks []string
	var current strings.Builder
	flush := func() {
		if current.Len() > 0 {
			chunks = append(chunks, strings.TrimSpace(current.String()))
			current.Reset()
		}
	}

	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		if current.Len() > 0 && current.Len()+len(para)+2 > maxChars {
			flush()
		}
		if len(para) <= maxChars {
			if current.Len() > 0 {
				current.WriteString("\n\n")
			}
			current.WriteString(para)
			continue
		}
		flush()
		for _, sentence := range splitSentences(para) {
			if current.Len() > 0 && current.Len()+len(sentence)+1 > maxChars {
				flush()
			}
			if len(sentence) > maxChars {
				flush()
				chunks = append(chunks, hardSplit(sentence, maxChars)...)
				continue
			}
			if current.Len() > 0 {
				current.WriteString(" ")
			}
			current.WriteString(sentence)
		}
		flush()
	}
	flush()
	return chunks
}

func splitSentences(text string) []string {
	var out []string
	start := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '.', '!', '?':
			end := i + 1
			for end < len(text) && (text[end] == ' ' || text[end] == '\n') {
				end++
			}
			if s := strings.TrimSpace(text[start:end]); s != "" {
				out = append(out, s)
			}
			start = end
			i = end - 1
		}
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		out = append(out, s)
	}
	return out
}

func hardSplit(s string, maxChars int) []string {
	var out []string
	for len(s) > maxChars {
		cut := maxChars
		if idx := strings.LastIndexByte(s[:maxChars], ' '); idx > maxChars/2 {
			cut = idx
		}
		out = append(out, strings.TrimSpace(s[:cut]))
		s = strings.TrimSpace(s[cut:])
	}
	if s != "" {
		out = append(out, s)
	}
	return out
}
