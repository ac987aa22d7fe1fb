package scoring

import "strings"

// TextSimilarity compares two texts by cosine similarity of their
// term-frequency vectors. Tokens are lowercased whitespace runs; identical
// texts score 1, texts with no tokens in common score 0.
func TextSimilarity(a, b string) float64 {
	ta := tokenize(a)
	tb := tokenize(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0.0
	}

	vocab := make(map[string]int)
	for token := range ta {
		if _, ok := vocab[token]; !ok {
			vocab[token] = len(vocab)
		}
	}
	for token := range tb {
		if _, ok := vocab[token]; !ok {
			vocab[token] = len(vocab)
		}
	}

	va := make([]float64, len(vocab))
	vb := make([]float64, len(vocab))
	for token, count := range ta {
		va[vocab[token]] = float64(count)
	}
	for token, count := range tb {
		vb[vocab[token]] = float64(count)
	}

	return CalculateCosineSimilarity(va, vb)
}

func tokenize(s string) map[string]int {
	counts := make(map[string]int)
	for _, field := range strings.Fields(strings.ToLower(s)) {
		token := strings.Trim(field, ".,!?;:\"'()[]")
		if token == "" {
			continue
		}
		counts[token]++
	}
	return counts
}
