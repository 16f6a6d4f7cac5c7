package form

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/interiorhaus/catalog-admin/internal/catalog"
	"github.com/interiorhaus/catalog-admin/pkg/enums"
	pkgerrors "github.com/interiorhaus/catalog-admin/pkg/errors"
	"github.com/shopspring/decimal"
)

// Fields is the value snapshot of the draft. Price stays the operator's raw
// text until submission; the string->number coercion happens exactly once,
// in ToSubmission.
type Fields struct {
	ProductName string `json:"product_name" validate:"required"`
	PriceNew    string `json:"price_new" validate:"required,price"`
	Brand       string `json:"brand" validate:"required,brand"`
	Category    string `json:"category" validate:"required,category"`
	Description string `json:"description" validate:"max=1000"`
	ImageURL    string `json:"image_url"`
	VideoURL    string `json:"video_url"`
}

// Buffer is the mutable draft of a product being created or edited. An
// empty editing id means create mode; a non-empty one binds the draft to an
// existing product.
type Buffer struct {
	fields    Fields
	editingID string
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	mustRegister(v, "price", func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(strings.TrimSpace(fl.Field().String()))
		return err == nil && !d.IsNegative()
	})
	mustRegister(v, "brand", func(fl validator.FieldLevel) bool {
		return enums.Brand(fl.Field().String()).IsValid()
	})
	mustRegister(v, "category", func(fl validator.FieldLevel) bool {
		return enums.Category(fl.Field().String()).IsValid()
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("registering %q validation: %v", tag, err))
	}
}

// StartCreate discards any draft and opens an empty create-mode buffer.
func (b *Buffer) StartCreate() {
	b.Reset()
}

// StartEdit maps an existing product onto the draft. Re-invoking it for the
// same product simply re-populates the same buffer.
func (b *Buffer) StartEdit(p catalog.Product) {
	b.fields = Fields{
		ProductName: p.Name,
		PriceNew:    p.Price.String(),
		Brand:       p.Brand.String(),
		Category:    p.Category.String(),
		Description: p.Description,
		ImageURL:    p.ImageURL,
		VideoURL:    p.VideoURL,
	}
	b.editingID = p.ID
}

// Reset clears the draft and the create/edit discriminator.
func (b *Buffer) Reset() {
	b.fields = Fields{}
	b.editingID = ""
}

// IsEdit reports whether the draft is bound to an existing product.
func (b *Buffer) IsEdit() bool {
	return b.editingID != ""
}

// EditingID returns the bound product id, or "" in create mode.
func (b *Buffer) EditingID() string {
	return b.editingID
}

// Fields returns a value copy of the draft for rendering.
func (b *Buffer) Fields() Fields {
	return b.fields
}

// SetField updates one named field with the operator's raw input.
func (b *Buffer) SetField(name, value string) error {
	switch name {
	case "product_name":
		b.fields.ProductName = value
	case "price_new":
		b.fields.PriceNew = value
	case "brand":
		b.fields.Brand = value
	case "category":
		b.fields.Category = value
	case "description":
		b.fields.Description = value
	case "image_url":
		b.fields.ImageURL = value
	case "video_url":
		b.fields.VideoURL = value
	default:
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown form field %q", name))
	}
	return nil
}

// SetMediaRef stores a successful upload's reference in the matching slot.
func (b *Buffer) SetMediaRef(kind enums.MediaKind, reference string) {
	if kind == enums.MediaKindVideo {
		b.fields.VideoURL = reference
		return
	}
	b.fields.ImageURL = reference
}

// MediaRef returns the stored reference for the given slot.
func (b *Buffer) MediaRef(kind enums.MediaKind) string {
	if kind == enums.MediaKindVideo {
		return b.fields.VideoURL
	}
	return b.fields.ImageURL
}

// Validate checks the submit preconditions and names every offending field,
// so the collaborator UI can highlight exactly what is wrong.
func (b *Buffer) Validate() error {
	err := validate.Struct(b.fields)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	details := map[string]string{}
	if ok := asValidationErrors(err, &fieldErrs); ok {
		for _, fe := range fieldErrs {
			details[fe.Field()] = validationMessage(fe)
		}
		return pkgerrors.New(pkgerrors.CodeValidation, "product form is incomplete").WithDetails(details)
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "product form is invalid")
}

func asValidationErrors(err error, target *validator.ValidationErrors) bool {
	typed, ok := err.(validator.ValidationErrors)
	if ok {
		*target = typed
	}
	return ok
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "price":
		return "must be a non-negative number"
	case "brand":
		return "must be one of the known brands"
	case "category":
		return "must be one of the known categories"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	default:
		return "is invalid"
	}
}

// ToSubmission coerces the draft into the wire payload. This is the single
// point where the price text becomes a number.
func (b *Buffer) ToSubmission() (catalog.Submission, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(b.fields.PriceNew))
	if err != nil {
		return catalog.Submission{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "price is not a number").
			WithDetails(map[string]string{"price_new": "must be a non-negative number"})
	}
	if price.IsNegative() {
		return catalog.Submission{}, pkgerrors.New(pkgerrors.CodeValidation, "price is negative").
			WithDetails(map[string]string{"price_new": "must be a non-negative number"})
	}
	return catalog.Submission{
		Name:        b.fields.ProductName,
		Price:       price,
		Brand:       enums.Brand(b.fields.Brand),
		Category:    enums.Category(b.fields.Category),
		Description: b.fields.Description,
		ImageURL:    b.fields.ImageURL,
		VideoURL:    b.fields.VideoURL,
	}, nil
}
