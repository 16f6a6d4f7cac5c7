package enums

import "fmt"

// Brand represents the fixed brand list the storefront sells under.
type Brand string

const (
	BrandAudioTech      Brand = "AudioTech"
	BrandTechWear       Brand = "TechWear"
	BrandSportFit       Brand = "SportFit"
	BrandHomeEssentials Brand = "HomeEssentials"
	BrandBookWorld      Brand = "BookWorld"
	BrandOther          Brand = "Other"
)

var validBrands = []Brand{
	BrandAudioTech,
	BrandTechWear,
	BrandSportFit,
	BrandHomeEssentials,
	BrandBookWorld,
	BrandOther,
}

// String implements fmt.Stringer.
func (b Brand) String() string {
	return string(b)
}

// IsValid reports whether the value is a known Brand.
func (b Brand) IsValid() bool {
	for _, candidate := range validBrands {
		if candidate == b {
			return true
		}
	}
	return false
}

// ParseBrand converts raw input into a Brand.
func ParseBrand(value string) (Brand, error) {
	for _, candidate := range validBrands {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid brand %q", value)
}

// Brands returns the full brand list in display order.
func Brands() []Brand {
	out := make([]Brand, len(validBrands))
	copy(out, validBrands)
	return out
}
