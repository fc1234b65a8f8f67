package dialect

import (
	"strconv"
	"strings"
)

// rewritePlaceholders replaces each ":pN" outside string literals and
// quoted identifiers with format(N).
func rewritePlaceholders(query string, format func(n int) string) string {
	if !strings.Contains(query, ":p") {
		return query
	}

	var b strings.Builder
	b.Grow(len(query))

	var quote byte
	for i := 0; i < len(query); i++ {
		c := query[i]

		if quote != 0 {
			b.WriteByte(c)
			if c == quote {
				quote = 0
			}
			continue
		}

		switch c {
		case '\'', '"', '`':
			quote = c
			b.WriteByte(c)
			continue
		case ':':
			// "::" is a PostgreSQL cast, not a placeholder.
			if i+1 < len(query) && query[i+1] == ':' {
				b.WriteString("::")
				i++
				continue
			}
			if i+2 < len(query) && query[i+1] == 'p' && isDigit(query[i+2]) {
				j := i + 2
				for j < len(query) && isDigit(query[j]) {
					j++
				}
				n, err := strconv.Atoi(query[i+2 : j])
				if err == nil {
					b.WriteString(format(n))
					i = j - 1
					continue
				}
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func dollarPlaceholder(n int) string { return "$" + strconv.Itoa(n) }

func numberedQuestionPlaceholder(n int) string { return "?" + strconv.Itoa(n) }

func questionPlaceholder(int) string { return "?" }
