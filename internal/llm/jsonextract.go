package llm

// FirstJSONObject scans s for the first complete top-level JSON object
// and returns it. Completions frequently wrap JSON in prose or code
// fences; a byte-level state machine that tracks brace depth and string
// escaping is both faster and less brittle than regex extraction.
//
// Iterating bytes is safe for the ASCII delimiters involved because
// UTF-8 never encodes them inside a multi-byte sequence.
func FirstJSONObject(s string) (string, bool) {
	var (
		depth    int
		start    = -1
		inString bool
		escape   bool
	)

	for i := 0; i < len(s); i++ {
		b := s[i]

		if escape {
			escape = false
			continue
		}
		if inString {
			switch b {
			case '\\':
				escape = true
			case '"':
				inString = false
			}
			continue
		}

		switch b {
		case '"':
			inString = true
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth > 0 {
				depth--
				if depth == 0 && start != -1 {
					return s[start : i+1], true
				}
			}
		}
	}

	return "", false
}
