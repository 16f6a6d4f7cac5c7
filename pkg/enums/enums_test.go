package enums

import "testing"

func TestParseBrand(t *testing.T) {
	t.Parallel()

	for _, brand := range Brands() {
		parsed, err := ParseBrand(brand.String())
		if err != nil {
			t.Fatalf("ParseBrand(%q): %v", brand, err)
		}
		if parsed != brand {
			t.Fatalf("ParseBrand(%q) = %q", brand, parsed)
		}
	}

	if _, err := ParseBrand("audiotech"); err == nil {
		t.Fatal("brand matching must be case sensitive")
	}
	if Brand("Nonsense").IsValid() {
		t.Fatal("unknown brand reported valid")
	}
}

func TestParseCategory(t *testing.T) {
	t.Parallel()

	for _, category := range Categories() {
		parsed, err := ParseCategory(category.String())
		if err != nil {
			t.Fatalf("ParseCategory(%q): %v", category, err)
		}
		if parsed != category {
			t.Fatalf("ParseCategory(%q) = %q", category, parsed)
		}
	}

	if _, err := ParseCategory(""); err == nil {
		t.Fatal("empty category must not parse")
	}
}

func TestParseMediaKind(t *testing.T) {
	t.Parallel()

	cases := map[string]bool{
		"image": true,
		"video": true,
		"Image": false,
		"audio": false,
		"":      false,
	}
	for value, ok := range cases {
		kind, err := ParseMediaKind(value)
		if ok && err != nil {
			t.Fatalf("ParseMediaKind(%q): %v", value, err)
		}
		if !ok && err == nil {
			t.Fatalf("ParseMediaKind(%q) accepted %q", value, kind)
		}
	}
}

func TestParseAddressMode(t *testing.T) {
	t.Parallel()

	for _, mode := range []AddressMode{AddressModeFilename, AddressModeRelative, AddressModeAbsolute} {
		parsed, err := ParseAddressMode(mode.String())
		if err != nil {
			t.Fatalf("ParseAddressMode(%q): %v", mode, err)
		}
		if parsed != mode {
			t.Fatalf("ParseAddressMode(%q) = %q", mode, parsed)
		}
	}
	if _, err := ParseAddressMode("cdn"); err == nil {
		t.Fatal("unknown mode must not parse")
	}
}
