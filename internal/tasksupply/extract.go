package tasksupply

import "strings"

// ExtractList pulls a list of strings out of an LLM answer. The answer is
// expected to contain one bracketed list of quoted elements, but models
// wrap lists in prose, switch quote styles, or emit trailing commas, so the
// parser scans quoted runs between the first '[' and the last ']' instead
// of trusting the whole answer to be valid JSON.
func ExtractList(answer string) []string {
	start := strings.Index(answer, "[")
	end := strings.LastIndex(answer, "]")
	if start == -1 || end == -1 || end <= start {
		return nil
	}
	body := answer[start+1 : end]

	var (
		items   []string
		current strings.Builder
		quote   rune
		inItem  bool
		escaped bool
	)

	for _, r := range body {
		if !inItem {
			if r == '"' || r == '\'' {
				inItem = true
				quote = r
				current.Reset()
			}
			continue
		}

		if escaped {
			current.WriteRune(r)
			escaped = false
			continue
		}
		switch r {
		case '\\':
			escaped = true
		case quote:
			item := strings.TrimSpace(current.String())
			if item != "" {
				items = append(items, item)
			}
			inItem = false
		default:
			current.WriteRune(r)
		}
	}

	return items
}
