package errors

import (
	"testing"
)

func TestValidateOutputPath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		format  string
		wantErr bool
	}{
		{"png", "art.png", "png", false},
		{"svg", "out/art.svg", "svg", false},
		{"no extension", "art", "png", false},
		{"uppercase extension", "ART.PNG", "png", false},

		{"empty", "", "png", true},
		{"too long", string(make([]byte, 600)), "png", true},
		{"control char", "art\x01.png", "png", true},
		{"extension mismatch", "art.svg", "png", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputPath(tt.path, tt.format)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOutputPath(%q, %q) error = %v, wantErr %v", tt.path, tt.format, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("code = %s, want %s", GetCode(err), ErrCodeInvalidPath)
			}
		})
	}
}

func TestValidateRedisURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"redis", "redis://localhost:6379/0", false},
		{"rediss", "rediss://cache.internal:6380", false},
		{"empty", "", true},
		{"http", "http://localhost:6379", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRedisURL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRedisURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
