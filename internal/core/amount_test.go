package core

import "testing"

func TestNormalizeAmount(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "plain integer", input: "10", want: "10"},
		{name: "decimal", input: "12.34", want: "12.34"},
		{name: "zero is valid", input: "0", want: "0"},
		{name: "leading zeros canonicalized", input: "007.50", want: "7.5"},
		{name: "surrounding whitespace", input: "  42.10 ", want: "42.1"},
		{name: "high precision preserved", input: "0.001", want: "0.001"},
		{name: "empty", input: "", wantErr: true},
		{name: "whitespace only", input: "   ", wantErr: true},
		{name: "negative", input: "-5", wantErr: true},
		{name: "not a number", input: "ten", wantErr: true},
		{name: "double dot", input: "1.2.3", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeAmount(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("NormalizeAmount(%q) = %q, want error", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeAmount(%q) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("NormalizeAmount(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestOptionalText(t *testing.T) {
	if got := OptionalText(""); got != nil {
		t.Errorf("OptionalText(\"\") = %q, want nil", *got)
	}
	if got := OptionalText("   "); got != nil {
		t.Errorf("OptionalText(whitespace) = %q, want nil", *got)
	}
	got := OptionalText("  hello ")
	if got == nil || *got != "hello" {
		t.Errorf("OptionalText trimmed value = %v, want \"hello\"", got)
	}
}

func TestTextOrEmpty(t *testing.T) {
	if TextOrEmpty(nil) != "" {
		t.Error("TextOrEmpty(nil) should be empty string")
	}
	s := "x"
	if TextOrEmpty(&s) != "x" {
		t.Error("TextOrEmpty(&x) should round-trip")
	}
}
