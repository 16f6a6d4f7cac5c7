package enums

import "fmt"

// AddressMode selects how a stored media reference is turned into a
// dereferenceable URL. The catalog has lived behind three storage
// generations: a disk folder addressed by bare filename, a static-file
// server addressed by root-relative path, and a cloud asset host that
// hands back absolute URLs.
type AddressMode string

const (
	AddressModeFilename AddressMode = "filename"
	AddressModeRelative AddressMode = "relative"
	AddressModeAbsolute AddressMode = "absolute"
)

var validAddressModes = []AddressMode{
	AddressModeFilename,
	AddressModeRelative,
	AddressModeAbsolute,
}

// String implements fmt.Stringer.
func (m AddressMode) String() string {
	return string(m)
}

// IsValid reports whether the value is a known AddressMode.
func (m AddressMode) IsValid() bool {
	for _, candidate := range validAddressModes {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseAddressMode converts raw input into an AddressMode.
func ParseAddressMode(value string) (AddressMode, error) {
	for _, candidate := range validAddressModes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid address mode %q", value)
}
