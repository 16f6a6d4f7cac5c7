package devserver

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/interiorhaus/catalog-admin/pkg/enums"
	pkgerrors "github.com/interiorhaus/catalog-admin/pkg/errors"
	"github.com/shopspring/decimal"
)

// wireProduct is the response shape for a product record. Price goes out
// as a bare JSON number, matching what the admin client expects.
type wireProduct struct {
	ID          string      `json:"id"`
	ProductName string      `json:"product_name"`
	PriceNew    json.Number `json:"price_new"`
	Brand       string      `json:"brand"`
	Category    string      `json:"category"`
	Description string      `json:"description"`
	ImageURL    string      `json:"image_url"`
	VideoURL    string      `json:"video_url"`
}

func toWire(record ProductRecord) wireProduct {
	return wireProduct{
		ID:          record.ID,
		ProductName: record.ProductName,
		PriceNew:    json.Number(record.PriceNew.String()),
		Brand:       record.Brand,
		Category:    record.Category,
		Description: record.Description,
		ImageURL:    record.ImageURL,
		VideoURL:    record.VideoURL,
	}
}

// productRequest tolerates price arriving as a number or a string.
type productRequest struct {
	ProductName string          `json:"product_name"`
	PriceNew    decimal.Decimal `json:"price_new"`
	Brand       string          `json:"brand"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	ImageURL    string          `json:"image_url"`
	VideoURL    string          `json:"video_url"`
}

func (p productRequest) validate() error {
	details := map[string]string{}
	if strings.TrimSpace(p.ProductName) == "" {
		details["product_name"] = "is required"
	}
	if p.PriceNew.IsNegative() {
		details["price_new"] = "must be a non-negative number"
	}
	if !enums.Brand(p.Brand).IsValid() {
		details["brand"] = "must be one of the known brands"
	}
	if !enums.Category(p.Category).IsValid() {
		details["category"] = "must be one of the known categories"
	}
	if len(p.Description) > 1000 {
		details["description"] = "must be at most 1000 characters"
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid product payload").WithDetails(details)
	}
	return nil
}

func (p productRequest) record() ProductRecord {
	return ProductRecord{
		ProductName: strings.TrimSpace(p.ProductName),
		PriceNew:    p.PriceNew,
		Brand:       p.Brand,
		Category:    p.Category,
		Description: p.Description,
		ImageURL:    p.ImageURL,
		VideoURL:    p.VideoURL,
	}
}

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.List(r.Context())
	if err != nil {
		writeError(r.Context(), s.logg, w, err)
		return
	}
	out := make([]wireProduct, 0, len(records))
	for _, record := range records {
		out = append(out, toWire(record))
	}
	writeSuccess(w, out)
}

func (s *Server) createProduct(w http.ResponseWriter, r *http.Request) {
	payload, err := decodeProductBody(r)
	if err != nil {
		writeError(r.Context(), s.logg, w, err)
		return
	}
	record, err := s.store.Create(r.Context(), payload.record())
	if err != nil {
		writeError(r.Context(), s.logg, w, err)
		return
	}
	writeSuccessStatus(w, http.StatusCreated, toWire(*record))
}

func (s *Server) updateProduct(w http.ResponseWriter, r *http.Request) {
	payload, err := decodeProductBody(r)
	if err != nil {
		writeError(r.Context(), s.logg, w, err)
		return
	}
	record, err := s.store.Update(r.Context(), chi.URLParam(r, "id"), payload.record())
	if err != nil {
		writeError(r.Context(), s.logg, w, err)
		return
	}
	writeSuccess(w, toWire(*record))
}

func (s *Server) deleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(r.Context(), s.logg, w, err)
		return
	}
	writeSuccess(w, map[string]string{"deleted": chi.URLParam(r, "id")})
}

func decodeProductBody(r *http.Request) (productRequest, error) {
	var payload productRequest
	defer func() {
		_, _ = io.Copy(io.Discard, r.Body)
	}()
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(&payload); err != nil {
		return productRequest{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request body")
	}
	if err := payload.validate(); err != nil {
		return productRequest{}, err
	}
	return payload, nil
}

// uploadResult is the flat upload response shape the client consumes:
// {success, filePath} or {success:false, error}.
type uploadResult struct {
	Success  bool   `json:"success"`
	FilePath string `json:"filePath,omitempty"`
	Error    string `json:"error,omitempty"`
}

func (s *Server) uploadMedia(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBytes+(1<<20))

	file, header, err := r.FormFile("file")
	if err != nil {
		s.metrics.ObserveUpload("rejected")
		writeJSON(w, http.StatusBadRequest, uploadResult{Error: "missing or oversized file field"})
		return
	}
	defer func() { _ = file.Close() }()

	name := sanitizeFilename(header.Filename)
	if name == "" {
		s.metrics.ObserveUpload("rejected")
		writeJSON(w, http.StatusBadRequest, uploadResult{Error: "unusable filename"})
		return
	}

	dest := filepath.Join(s.uploadDir, name)
	out, err := os.Create(dest)
	if err != nil {
		s.metrics.ObserveUpload("rejected")
		s.logg.Error(r.Context(), "creating upload file", err)
		writeJSON(w, http.StatusInternalServerError, uploadResult{Error: "could not store file"})
		return
	}
	defer func() { _ = out.Close() }()

	written, err := io.Copy(out, io.LimitReader(file, s.maxBytes+1))
	if err != nil {
		s.metrics.ObserveUpload("rejected")
		s.logg.Error(r.Context(), "writing upload file", err)
		writeJSON(w, http.StatusInternalServerError, uploadResult{Error: "could not store file"})
		return
	}
	if written > s.maxBytes {
		_ = os.Remove(dest)
		s.metrics.ObserveUpload("rejected")
		writeJSON(w, http.StatusRequestEntityTooLarge, uploadResult{
			Error: fmt.Sprintf("file exceeds the %d byte limit", s.maxBytes),
		})
		return
	}

	s.metrics.ObserveUpload("accepted")
	s.logg.Info(s.logg.WithUpload(r.Context(), name), "stored uploaded file")
	writeJSON(w, http.StatusOK, uploadResult{Success: true, FilePath: "/uploads/" + name})
}

// sanitizeFilename strips path components and anything outside a small safe
// alphabet.
func sanitizeFilename(original string) string {
	base := filepath.Base(strings.TrimSpace(original))
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	var clean strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			clean.WriteRune(r)
		case r == '-' || r == '_' || r == '.':
			clean.WriteRune(r)
		}
	}
	return strings.Trim(clean.String(), ".")
}
