package form

import (
	"testing"

	"github.com/interiorhaus/catalog-admin/internal/catalog"
	"github.com/interiorhaus/catalog-admin/pkg/enums"
	pkgerrors "github.com/interiorhaus/catalog-admin/pkg/errors"
	"github.com/shopspring/decimal"
)

func validDraft(b *Buffer) {
	_ = b.SetField("product_name", "Lamp")
	_ = b.SetField("price_new", "19.99")
	_ = b.SetField("brand", "HomeEssentials")
	_ = b.SetField("category", "Home")
}

func TestValidateNamesEveryMissingField(t *testing.T) {
	t.Parallel()

	var b Buffer
	b.StartCreate()

	err := b.Validate()
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("expected per-field details, got %T", typed.Details())
	}
	for _, field := range []string{"product_name", "price_new", "brand", "category"} {
		if _, present := details[field]; !present {
			t.Fatalf("field %q missing from details %v", field, details)
		}
	}
}

func TestValidateSingleMissingField(t *testing.T) {
	t.Parallel()

	var b Buffer
	b.StartCreate()
	validDraft(&b)
	_ = b.SetField("product_name", "")

	typed := pkgerrors.As(b.Validate())
	if typed == nil {
		t.Fatal("expected a validation error")
	}
	details := typed.Details().(map[string]string)
	if len(details) != 1 {
		t.Fatalf("expected exactly one invalid field, got %v", details)
	}
	if _, present := details["product_name"]; !present {
		t.Fatalf("expected product_name to be named, got %v", details)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		field string
		value string
	}{
		{"price_new", "not-a-number"},
		{"price_new", "-5"},
		{"brand", "NotABrand"},
		{"category", "NotACategory"},
	}

	for _, tt := range tests {
		var b Buffer
		b.StartCreate()
		validDraft(&b)
		_ = b.SetField(tt.field, tt.value)

		typed := pkgerrors.As(b.Validate())
		if typed == nil {
			t.Fatalf("%s=%q: expected a validation error", tt.field, tt.value)
		}
		details := typed.Details().(map[string]string)
		if _, present := details[tt.field]; !present {
			t.Fatalf("%s=%q: field not named in %v", tt.field, tt.value, details)
		}
	}
}

func TestStartEditRoundTripsThroughSubmission(t *testing.T) {
	t.Parallel()

	product := catalog.Product{
		ID:          "p1",
		Name:        "Desk Lamp",
		Price:       decimal.RequireFromString("49.90"),
		Brand:       enums.BrandHomeEssentials,
		Category:    enums.CategoryHome,
		Description: "warm light",
		ImageURL:    "/uploads/lamp.png",
	}

	var b Buffer
	b.StartEdit(product)

	if !b.IsEdit() || b.EditingID() != "p1" {
		t.Fatalf("expected edit mode bound to p1, got %q", b.EditingID())
	}

	sub, err := b.ToSubmission()
	if err != nil {
		t.Fatalf("ToSubmission: %v", err)
	}
	if sub.Name != product.Name || sub.Brand != product.Brand || sub.Category != product.Category {
		t.Fatalf("submission diverged from the product: %+v", sub)
	}
	if !sub.Price.Equal(product.Price) {
		t.Fatalf("price should round-trip as a number, got %s", sub.Price)
	}
	if sub.Description != product.Description || sub.ImageURL != product.ImageURL {
		t.Fatalf("optional fields diverged: %+v", sub)
	}
}

func TestPriceStaysRawTextUntilSubmission(t *testing.T) {
	t.Parallel()

	var b Buffer
	b.StartCreate()
	_ = b.SetField("price_new", "19.90")

	if got := b.Fields().PriceNew; got != "19.90" {
		t.Fatalf("the draft must keep the operator's raw text, got %q", got)
	}

	validDraft(&b)
	_ = b.SetField("price_new", "19.90")
	sub, err := b.ToSubmission()
	if err != nil {
		t.Fatalf("ToSubmission: %v", err)
	}
	if sub.Price.String() != "19.9" {
		t.Fatalf("coercion should yield a clean number, got %s", sub.Price)
	}
}

func TestResetClearsDraftAndDiscriminator(t *testing.T) {
	t.Parallel()

	var b Buffer
	b.StartEdit(catalog.Product{ID: "p1", Name: "X", Price: decimal.NewFromInt(1)})
	b.Reset()

	if b.IsEdit() || b.EditingID() != "" {
		t.Fatal("reset should clear the edit binding")
	}
	if b.Fields() != (Fields{}) {
		t.Fatalf("reset should clear every field, got %+v", b.Fields())
	}
}

func TestSetFieldRejectsUnknownName(t *testing.T) {
	t.Parallel()

	var b Buffer
	if err := b.SetField("tax_rate", "7"); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for unknown field, got %v", err)
	}
}

func TestSetMediaRefTargetsTheRightSlot(t *testing.T) {
	t.Parallel()

	var b Buffer
	b.StartCreate()
	b.SetMediaRef(enums.MediaKindImage, "/uploads/a.png")
	b.SetMediaRef(enums.MediaKindVideo, "/uploads/a.mp4")

	if b.MediaRef(enums.MediaKindImage) != "/uploads/a.png" {
		t.Fatalf("image slot wrong: %q", b.MediaRef(enums.MediaKindImage))
	}
	if b.MediaRef(enums.MediaKindVideo) != "/uploads/a.mp4" {
		t.Fatalf("video slot wrong: %q", b.MediaRef(enums.MediaKindVideo))
	}
}
