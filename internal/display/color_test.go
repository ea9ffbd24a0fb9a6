package display

import "testing"

func TestColorsWhenEnabled(t *testing.T) {
	prev := Enabled()
	defer SetEnabled(prev)
	SetEnabled(true)

	tests := []struct {
		name string
		fn   func(string) string
		want string
	}{
		{"bold", Bold, "\033[1mx\033[0m"},
		{"dim", Dim, "\033[2mx\033[0m"},
		{"green", Green, "\033[32mx\033[0m"},
		{"yellow", Yellow, "\033[33mx\033[0m"},
		{"cyan", Cyan, "\033[36mx\033[0m"},
		{"gray", Gray, "\033[90mx\033[0m"},
		{"accent", Accent, "\033[1m\033[36mx\033[0m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn("x"); got != tt.want {
				t.Errorf("%s(%q) = %q, want %q", tt.name, "x", got, tt.want)
			}
		})
	}
}

func TestColorsWhenDisabled(t *testing.T) {
	prev := Enabled()
	defer SetEnabled(prev)
	SetEnabled(false)

	for _, fn := range []func(string) string{Bold, Dim, Green, Yellow, Cyan, Gray, Accent} {
		if got := fn("plain"); got != "plain" {
			t.Errorf("disabled color output = %q, want unchanged text", got)
		}
	}
}
