package extract

import "testing"

func TestMarkupStripper_Strip(t *testing.T) {
	m := NewMarkupStripper()

	tests := []struct {
		in   string
		want string
	}{
		{"plain text", "plain text"},
		{"<b>bold</b> text", "bold text"},
		{"H<sub>2</sub>O", "H2O"},
		{"a<script>var x = 1;</script>b", "ab"},
		{"fish &amp; chips", "fish &amp; chips"}, // no '<', untouched
		{"<i>fish</i> &amp; chips", "fish & chips"},
	}

	for _, tt := range tests {
		if got := m.Strip(tt.in); got != tt.want {
			t.Errorf("Strip(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
