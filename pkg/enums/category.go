package enums

import "fmt"

// Category represents the canonical product categories supported by the catalog.
type Category string

const (
	CategoryElectronics Category = "Electronics"
	CategoryFootwear    Category = "Footwear"
	CategoryClothing    Category = "Clothing"
	CategoryHome        Category = "Home"
	CategorySports      Category = "Sports"
	CategoryBooks       Category = "Books"
	CategoryOther       Category = "Other"
)

var validCategories = []Category{
	CategoryElectronics,
	CategoryFootwear,
	CategoryClothing,
	CategoryHome,
	CategorySports,
	CategoryBooks,
	CategoryOther,
}

// String implements fmt.Stringer.
func (c Category) String() string {
	return string(c)
}

// IsValid reports whether the value is a known Category.
func (c Category) IsValid() bool {
	for _, candidate := range validCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCategory converts raw input into a Category.
func ParseCategory(value string) (Category, error) {
	for _, candidate := range validCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid category %q", value)
}

// Categories returns the full category list in display order.
func Categories() []Category {
	out := make([]Category, len(validCategories))
	copy(out, validCategories)
	return out
}
