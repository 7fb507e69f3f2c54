// Package assignees implements the text encoding used to store a task's
// assignee list in a single database column. The format predates this
// service: rows written by earlier releases hold a bracketed, comma-separated
// sequence of {"firebaseUid":"..","name":"..","email":"..","photoUrl":".."}
// records with only backslash, double-quote, newline and carriage-return
// escaped. It must be read and written byte-compatibly, so this package
// hand-rolls the scanner instead of using a JSON library.
package assignees

import "strings"

// Assignee is one entry of a task's canonical assignee list.
type Assignee struct {
	FirebaseUID string `json:"firebaseUid"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhotoURL    string `json:"photoUrl"`
}

// EmptyList is the sentinel stored when a task has no assignees.
const EmptyList = "[]"

// Encode serializes the list into the legacy column format. Key order within
// a record is fixed; an empty photo URL is written as an empty value, not
// omitted.
func Encode(list []Assignee) string {
	if len(list) == 0 {
		return EmptyList
	}

	var b strings.Builder
	b.WriteByte('[')
	for i, a := range list {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('{')
		writeField(&b, "firebaseUid", a.FirebaseUID)
		b.WriteByte(',')
		writeField(&b, "name", a.Name)
		b.WriteByte(',')
		writeField(&b, "email", a.Email)
		b.WriteByte(',')
		writeField(&b, "photoUrl", a.PhotoURL)
		b.WriteByte('}')
	}
	b.WriteByte(']')
	return b.String()
}

// Decode parses the column format back into a list. It never fails: empty
// input, the empty-list sentinel, and structurally corrupt text all decode to
// an empty list, because losing assignee data is preferable to making the
// whole task unreadable. Unknown keys inside a record are ignored.
func Decode(raw string) []Assignee {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || trimmed == EmptyList {
		return nil
	}
	if !strings.HasPrefix(trimmed, "[") || !strings.HasSuffix(trimmed, "]") {
		return nil
	}

	body := strings.TrimSpace(trimmed[1 : len(trimmed)-1])
	if body == "" {
		return nil
	}

	records, ok := splitRecords(body)
	if !ok {
		return nil
	}

	list := make([]Assignee, 0, len(records))
	for _, rec := range records {
		list = append(list, parseRecord(rec))
	}
	return list
}

func writeField(b *strings.Builder, key, value string) {
	b.WriteByte('"')
	b.WriteString(key)
	b.WriteString(`":"`)
	b.WriteString(escape(value))
	b.WriteByte('"')
}

var escaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
)

func escape(value string) string {
	return escaper.Replace(value)
}

// splitRecords extracts the brace-delimited record bodies from the list body,
// tracking quoting so braces and commas inside values are not treated as
// structure. Returns false on unbalanced braces or an unterminated string.
func splitRecords(body string) ([]string, bool) {
	var records []string
	depth := 0
	inQuote := false
	escaped := false
	start := -1

	for i := 0; i < len(body); i++ {
		ch := body[i]
		if inQuote {
			if escaped {
				escaped = false
				continue
			}
			switch ch {
			case '\\':
				escaped = true
			case '"':
				inQuote = false
			}
			continue
		}

		switch ch {
		case '"':
			inQuote = true
		case '{':
			if depth == 0 {
				start = i + 1
			}
			depth++
		case '}':
			depth--
			if depth < 0 {
				return nil, false
			}
			if depth == 0 {
				records = append(records, body[start:i])
				start = -1
			}
		}
	}

	if depth != 0 || inQuote {
		return nil, false
	}
	return records, true
}

func parseRecord(rec string) Assignee {
	var a Assignee
	for _, pair := range splitPairs(rec) {
		key, value, ok := splitPair(pair)
		if !ok {
			continue
		}
		switch key {
		case "firebaseUid", "uid":
			a.FirebaseUID = value
		case "name":
			a.Name = value
		case "email":
			a.Email = value
		case "photoUrl":
			a.PhotoURL = value
		}
	}
	return a
}

// splitPairs splits a record body into key/value pairs on commas that sit
// outside quoted strings. A naive strings.Split would tear apart values that
// contain commas.
func splitPairs(rec string) []string {
	var pairs []string
	inQuote := false
	escaped := false
	start := 0

	for i := 0; i < len(rec); i++ {
		ch := rec[i]
		if inQuote {
			if escaped {
				escaped = false
				continue
			}
			if ch == '\\' {
				escaped = true
			} else if ch == '"' {
				inQuote = false
			}
			continue
		}
		if ch == '"' {
			inQuote = true
		} else if ch == ',' {
			pairs = append(pairs, rec[start:i])
			start = i + 1
		}
	}
	return append(pairs, rec[start:])
}

// splitPair splits "key":"value" on the first colon outside quotes.
func splitPair(pair string) (key, value string, ok bool) {
	inQuote := false
	escaped := false

	for i := 0; i < len(pair); i++ {
		ch := pair[i]
		if inQuote {
			if escaped {
				escaped = false
				continue
			}
			if ch == '\\' {
				escaped = true
			} else if ch == '"' {
				inQuote = false
			}
			continue
		}
		if ch == '"' {
			inQuote = true
			continue
		}
		if ch == ':' {
			key = strings.Trim(strings.TrimSpace(pair[:i]), `"`)
			return key, unquote(pair[i+1:]), true
		}
	}
	return "", "", false
}

func unquote(value string) string {
	value = strings.TrimSpace(value)
	if len(value) >= 2 && value[0] == '"' && value[len(value)-1] == '"' {
		return unescape(value[1 : len(value)-1])
	}
	return value
}

func unescape(value string) string {
	if !strings.Contains(value, `\`) {
		return value
	}

	var b strings.Builder
	b.Grow(len(value))
	for i := 0; i < len(value); i++ {
		ch := value[i]
		if ch != '\\' || i == len(value)-1 {
			b.WriteByte(ch)
			continue
		}
		i++
		switch value[i] {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case '"':
			b.WriteByte('"')
		case '\\':
			b.WriteByte('\\')
		default:
			b.WriteByte('\\')
			b.WriteByte(value[i])
		}
	}
	return b.String()
}
