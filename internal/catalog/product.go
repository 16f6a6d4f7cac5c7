package catalog

import (
	"encoding/json"

	"github.com/interiorhaus/catalog-admin/pkg/enums"
	"github.com/shopspring/decimal"
)

// MaxDescriptionLen bounds the free-text description field.
const MaxDescriptionLen = 1000

// Product is the canonical catalog record. Every product held in the
// authoritative list carries a non-empty id that is unique within that list.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"product_name"`
	Price       decimal.Decimal `json:"price_new"`
	Brand       enums.Brand     `json:"brand"`
	Category    enums.Category  `json:"category"`
	Description string          `json:"description,omitempty"`
	ImageURL    string          `json:"image_url,omitempty"`
	VideoURL    string          `json:"video_url,omitempty"`
}

// Submission is the validated, coerced payload for create and update calls.
// Price arrives here already parsed; it crosses the wire as a bare JSON
// number, never as a string.
type Submission struct {
	Name        string
	Price       decimal.Decimal
	Brand       enums.Brand
	Category    enums.Category
	Description string
	ImageURL    string
	VideoURL    string
}

type wireSubmission struct {
	ProductName string      `json:"product_name"`
	PriceNew    json.Number `json:"price_new"`
	Brand       string      `json:"brand"`
	Category    string      `json:"category"`
	Description string      `json:"description"`
	ImageURL    string      `json:"image_url"`
	VideoURL    string      `json:"video_url"`
}

func (s Submission) wire() wireSubmission {
	return wireSubmission{
		ProductName: s.Name,
		PriceNew:    json.Number(s.Price.String()),
		Brand:       s.Brand.String(),
		Category:    s.Category.String(),
		Description: s.Description,
		ImageURL:    s.ImageURL,
		VideoURL:    s.VideoURL,
	}
}

// flexString tolerates servers that encode identifiers as JSON numbers,
// strings, or null.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = ""
		return nil
	}
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		*f = flexString(asString)
		return nil
	}
	var asNumber json.Number
	if err := json.Unmarshal(data, &asNumber); err == nil {
		*f = flexString(asNumber.String())
		return nil
	}
	// Anything else (object, array) is treated as an absent id.
	*f = ""
	return nil
}

// listItem is the tolerant decoding shape for one remote product record.
type listItem struct {
	ID          flexString      `json:"id"`
	AltID       flexString      `json:"product_id"`
	Name        string          `json:"product_name"`
	Price       decimal.Decimal `json:"price_new"`
	Brand       enums.Brand     `json:"brand"`
	Category    enums.Category  `json:"category"`
	Description string          `json:"description"`
	ImageURL    string          `json:"image_url"`
	VideoURL    string          `json:"video_url"`
}

func (it listItem) product(id string) Product {
	return Product{
		ID:          id,
		Name:        it.Name,
		Price:       it.Price,
		Brand:       it.Brand,
		Category:    it.Category,
		Description: it.Description,
		ImageURL:    it.ImageURL,
		VideoURL:    it.VideoURL,
	}
}
