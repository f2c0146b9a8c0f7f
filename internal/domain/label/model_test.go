package label

import (
	"strings"
	"testing"
)

func TestNormalizeColor(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "already normalized",
			input: "#FF6B6B",
			want:  "#FF6B6B",
		},
		{
			name:  "lowercase uppercased",
			input: "#ff6b6b",
			want:  "#FF6B6B",
		},
		{
			name:  "missing hash prefix",
			input: "4ECDC4",
			want:  "#4ECDC4",
		},
		{
			name:  "shorthand expanded",
			input: "#abc",
			want:  "#AABBCC",
		},
		{
			name:  "shorthand without hash",
			input: "abc",
			want:  "#AABBCC",
		},
		{
			name:  "surrounding whitespace trimmed",
			input: "  #45b7d1  ",
			want:  "#45B7D1",
		},
		{
			name:  "empty passes through",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeColor(tt.input); got != tt.want {
				t.Errorf("NormalizeColor(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestLabel_ValidateColor(t *testing.T) {
	tests := []struct {
		name    string
		color   string
		want    string
		wantErr bool
	}{
		{
			name:  "valid color normalized in place",
			color: "ff6b6b",
			want:  "#FF6B6B",
		},
		{
			name:    "empty color rejected",
			color:   "",
			wantErr: true,
		},
		{
			name:    "non-hex characters rejected",
			color:   "#GGGGGG",
			wantErr: true,
		},
		{
			name:    "wrong length rejected",
			color:   "#FF6B",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := &Label{Color: tt.color}
			err := l.ValidateColor()
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateColor() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && l.Color != tt.want {
				t.Errorf("ValidateColor() normalized = %q, want %q", l.Color, tt.want)
			}
		})
	}
}

func TestLabel_ValidateName(t *testing.T) {
	limits := Limits{MaxDepth: 5, MaxNameLen: 10}

	tests := []struct {
		name      string
		labelName string
		wantErr   bool
	}{
		{
			name:      "valid name",
			labelName: "Work",
		},
		{
			name:      "empty name rejected",
			labelName: "",
			wantErr:   true,
		},
		{
			name:      "whitespace only rejected",
			labelName: "   ",
			wantErr:   true,
		},
		{
			name:      "name at the limit",
			labelName: "abcdefghij",
		},
		{
			name:      "name over the limit",
			labelName: "abcdefghijk",
			wantErr:   true,
		},
		{
			name:      "multibyte name at the limit",
			labelName: strings.Repeat("あ", 10),
		},
		{
			name:      "multibyte name over the limit",
			labelName: strings.Repeat("あ", 11),
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := &Label{Name: tt.labelName}
			if err := l.ValidateName(limits); (err != nil) != tt.wantErr {
				t.Errorf("ValidateName() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDefaultLabels(t *testing.T) {
	if len(DefaultNames) != len(DefaultColors) {
		t.Fatalf("default names and colors out of sync: %d names, %d colors",
			len(DefaultNames), len(DefaultColors))
	}
	for i, c := range DefaultColors {
		if NormalizeColor(c) != c {
			t.Errorf("default color %q for %q is not normalized", c, DefaultNames[i])
		}
	}
}
