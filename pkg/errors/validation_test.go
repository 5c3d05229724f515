package errors

import (
	"strings"
	"testing"
)

func TestValidateDocument(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		max     int
		wantErr Code
	}{
		{"valid", `<PLMXML/>`, 0, ""},
		{"leading whitespace", "\n  <PLMXML/>", 0, ""},
		{"byte order mark", "\uFEFF<PLMXML/>", 0, ""},
		{"empty", "", 0, ErrCodeInvalidInput},
		{"whitespace only", " \n\t", 0, ErrCodeInvalidInput},
		{"too large", `<PLMXML/>`, 4, ErrCodeInvalidInput},
		{"not markup", `{"json": true}`, 0, ErrCodeMalformedMarkup},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDocument([]byte(tt.data), tt.max)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("ValidateDocument() = %v, want nil", err)
				}
				return
			}
			if !Is(err, tt.wantErr) {
				t.Errorf("ValidateDocument() = %v, want code %s", err, tt.wantErr)
			}
		})
	}
}

func TestValidateOutputPath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"simple", "out.yaml", false},
		{"nested", "build/out/tree.txt", false},
		{"empty", "", true},
		{"control char", "out\x00.yaml", true},
		{"too long", strings.Repeat("a", 501), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputPath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOutputPath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
		})
	}
}
