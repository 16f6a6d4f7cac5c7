package media

import (
	"testing"

	"github.com/interiorhaus/catalog-admin/pkg/enums"
)

func TestResolveURL(t *testing.T) {
	t.Parallel()

	const origin = "https://catalog.example.com"

	tests := []struct {
		name string
		ref  string
		mode enums.AddressMode
		want string
	}{
		{"empty is empty (relative)", "", enums.AddressModeRelative, ""},
		{"empty is empty (filename)", "", enums.AddressModeFilename, ""},
		{"empty is empty (absolute)", "", enums.AddressModeAbsolute, ""},

		{"absolute passthrough any mode", "https://cdn.example.com/a.png", enums.AddressModeRelative, "https://cdn.example.com/a.png"},
		{"http passthrough", "http://cdn.example.com/a.png", enums.AddressModeFilename, "http://cdn.example.com/a.png"},
		{"passthrough under absolute mode", "https://cdn.example.com/a.png", enums.AddressModeAbsolute, "https://cdn.example.com/a.png"},

		{"relative path gets origin", "/uploads/a.png", enums.AddressModeRelative, origin + "/uploads/a.png"},
		{"relative bare name gets subpath", "a.png", enums.AddressModeRelative, origin + "/uploads/a.png"},

		{"filename mode keeps only the name", "deep/dir/a.png", enums.AddressModeFilename, origin + "/uploads/a.png"},
		{"filename mode bare name", "a.png", enums.AddressModeFilename, origin + "/uploads/a.png"},

		{"absolute mode legacy relative ref", "/uploads/a.png", enums.AddressModeAbsolute, origin + "/uploads/a.png"},
		{"absolute mode legacy bare ref", "a.png", enums.AddressModeAbsolute, origin + "/uploads/a.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveURL(tt.ref, tt.mode, origin); got != tt.want {
				t.Fatalf("ResolveURL(%q, %s) = %q, want %q", tt.ref, tt.mode, got, tt.want)
			}
			// Purity: the same inputs always produce the same output.
			if again := ResolveURL(tt.ref, tt.mode, origin); again != ResolveURL(tt.ref, tt.mode, origin) {
				t.Fatal("ResolveURL is not deterministic")
			}
		})
	}
}

func TestResolveURLTrailingSlashOrigin(t *testing.T) {
	t.Parallel()

	got := ResolveURL("a.png", enums.AddressModeRelative, "http://localhost:5000/")
	if got != "http://localhost:5000/uploads/a.png" {
		t.Fatalf("trailing slash should not double up: %q", got)
	}
}
