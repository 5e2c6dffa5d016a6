package telegram

import "strings"

// splitArgs splits command arguments on whitespace while keeping quoted
// values together, so `team2="Red Team"` survives as one token.
func splitArgs(s string) []string {
	var (
		args    []string
		current strings.Builder
		quoted  bool
	)
	for _, r := range s {
		switch {
		case r == '"':
			quoted = !quoted
		case !quoted && (r == ' ' || r == '\t'):
			if current.Len() > 0 {
				args = append(args, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		args = append(args, current.String())
	}
	return args
}

// argValue extracts the value of a `key=value` token, with quotes already
// stripped by splitArgs.
func argValue(token string) string {
	if idx := strings.IndexByte(token, '='); idx >= 0 {
		return token[idx+1:]
	}
	return ""
}

// pluralize returns singular for 1, plural otherwise.
func pluralize(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}
