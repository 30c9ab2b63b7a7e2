package model

import "testing"

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		wantID string
		wantOK bool
	}{
		{
			name:   "bare 11-character ID",
			input:  "dQw4w9WgXcQ",
			wantID: "dQw4w9WgXcQ",
			wantOK: true,
		},
		{
			name:   "bare ID with surrounding whitespace",
			input:  "  dQw4w9WgXcQ\n",
			wantID: "dQw4w9WgXcQ",
			wantOK: true,
		},
		{
			name:   "ID using full alphabet",
			input:  "a-B_9zZ0x-Q",
			wantID: "a-B_9zZ0x-Q",
			wantOK: true,
		},
		{
			name:   "watch URL",
			input:  "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			wantID: "dQw4w9WgXcQ",
			wantOK: true,
		},
		{
			name:   "watch URL with extra params",
			input:  "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s",
			wantID: "dQw4w9WgXcQ",
			wantOK: true,
		},
		{
			name:   "short link",
			input:  "https://youtu.be/dQw4w9WgXcQ?si=abc",
			wantID: "dQw4w9WgXcQ",
			wantOK: true,
		},
		{
			name:   "embed URL",
			input:  "https://www.youtube.com/embed/dQw4w9WgXcQ",
			wantID: "dQw4w9WgXcQ",
			wantOK: true,
		},
		{
			name:   "free text query",
			input:  "never gonna give you up",
			wantOK: false,
		},
		{
			name:   "too short",
			input:  "dQw4w9WgXc",
			wantOK: false,
		},
		{
			name:   "too long",
			input:  "dQw4w9WgXcQQ",
			wantOK: false,
		},
		{
			name:   "invalid character",
			input:  "dQw4w9WgX!Q",
			wantOK: false,
		},
		{
			name:   "URL with truncated ID",
			input:  "https://youtu.be/short",
			wantOK: false,
		},
		{
			name:   "empty input",
			input:  "",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := ExtractVideoID(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ExtractVideoID(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if ok && id != tt.wantID {
				t.Errorf("ExtractVideoID(%q) = %q, want %q", tt.input, id, tt.wantID)
			}
		})
	}
}

func TestIsVideoID(t *testing.T) {
	if !IsVideoID("abcdefghijk") {
		t.Error("expected plain 11-char lowercase string to be a valid ID")
	}
	if IsVideoID("abc defghij") {
		t.Error("expected string containing a space to be rejected")
	}
}
