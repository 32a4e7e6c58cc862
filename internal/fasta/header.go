package fasta

import "strings"

const fieldSep = " | "

// Field is a key=value attribute of a record header
type Field struct {
	Key   string
	Value string
}

// FormatHeader builds "ID | k1=v1 | k2=v2"
func FormatHeader(id string, fields ...Field) string {
	var b strings.Builder
	b.WriteString(id)
	for _, f := range fields {
		b.WriteString(fieldSep)
		b.WriteString(f.Key)
		b.WriteByte('=')
		b.WriteString(f.Value)
	}
	return b.String()
}

// ParseHeader splits a header written by FormatHeader.
// Segments without '=' are ignored; ok is false when there is no identifier.
func ParseHeader(header string) (id string, fields map[string]string, ok bool) {
	parts := strings.Split(header, "|")
	id = strings.TrimSpace(parts[0])
	if id == "" {
		return "", nil, false
	}

	fields = make(map[string]string, len(parts)-1)
	for _, p := range parts[1:] {
		key, value, found := strings.Cut(strings.TrimSpace(p), "=")
		if !found {
			continue
		}
		fields[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return id, fields, true
}
