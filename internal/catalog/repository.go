package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/interiorhaus/catalog-admin/pkg/config"
	pkgerrors "github.com/interiorhaus/catalog-admin/pkg/errors"
	"github.com/interiorhaus/catalog-admin/pkg/logger"
)

// undefinedID is the sentinel some backends (and serializers) leak in place
// of a real identifier. It is never accepted as a usable id.
const undefinedID = "undefined"

const productsPath = "/api/products"

// Repository is the remote-catalog client. It owns no state beyond its
// configuration; every call returns freshly decoded values.
type Repository struct {
	origin string
	client *http.Client
	logg   *logger.Logger
}

// NewRepository constructs a catalog client against the configured origin.
// CRUD calls share one short request timeout; media uploads use their own
// client with a much longer one.
func NewRepository(cfg config.APIConfig, logg *logger.Logger) (*Repository, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Repository{
		origin: strings.TrimRight(cfg.Origin, "/"),
		client: &http.Client{Timeout: cfg.RequestTimeout},
		logg:   logg,
	}, nil
}

// List fetches all products. It tolerates the three envelope shapes the
// backend has produced over its lifetime (bare array, {success,data},
// {data}); any other shape degrades to an empty list with a warning, never
// an error. Every returned product is guaranteed a non-empty id unique
// within this result.
func (r *Repository) List(ctx context.Context) ([]Product, error) {
	ctx = r.logg.WithOperation(ctx, "catalog.list")

	body, err := r.do(ctx, http.MethodGet, r.origin+productsPath, nil)
	if err != nil {
		return nil, err
	}

	items, ok := decodeProductList(body)
	if !ok {
		r.logg.Warn(ctx, "unrecognized products envelope, treating as empty catalog")
		return []Product{}, nil
	}

	return r.assignIDs(ctx, items), nil
}

// Create stores a new product. It does not touch any local list; callers
// reconcile by refetching.
func (r *Repository) Create(ctx context.Context, sub Submission) (*Product, error) {
	ctx = r.logg.WithOperation(ctx, "catalog.create")

	payload, err := json.Marshal(sub.wire())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding product")
	}

	body, err := r.do(ctx, http.MethodPost, r.origin+productsPath, payload)
	if err != nil {
		return nil, err
	}
	return decodeProduct(body)
}

// Update replaces the product with the given id. Unknown ids surface the
// remote 404 as a not-found error.
func (r *Repository) Update(ctx context.Context, id string, sub Submission) (*Product, error) {
	ctx = r.logg.WithProductID(r.logg.WithOperation(ctx, "catalog.update"), id)

	if err := checkReference(id); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(sub.wire())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding product")
	}

	body, err := r.do(ctx, http.MethodPut, r.origin+productsPath+"/"+url.PathEscape(id), payload)
	if err != nil {
		return nil, err
	}
	return decodeProduct(body)
}

// Delete removes the product with the given id. An empty or sentinel id is
// rejected before any network activity: issuing it to the remote would
// target an ambiguous resource.
func (r *Repository) Delete(ctx context.Context, id string) error {
	ctx = r.logg.WithProductID(r.logg.WithOperation(ctx, "catalog.delete"), id)

	if err := checkReference(id); err != nil {
		return err
	}

	_, err := r.do(ctx, http.MethodDelete, r.origin+productsPath+"/"+url.PathEscape(id), nil)
	return err
}

func checkReference(id string) error {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" || trimmed == undefinedID {
		return pkgerrors.New(pkgerrors.CodeInvalidReference, "product id is missing or unusable").
			WithDetails(map[string]string{"id": id})
	}
	return nil
}

func (r *Repository) do(ctx context.Context, method, target string, payload []byte) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building request")
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, r.transportError(ctx, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeNoResponse, err, "reading response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, r.serverError(ctx, resp.StatusCode, body)
	}
	return body, nil
}

func (r *Repository) transportError(ctx context.Context, err error) *pkgerrors.Error {
	var urlErr *url.Error
	timedOut := errors.Is(err, context.DeadlineExceeded) ||
		(errors.As(err, &urlErr) && urlErr.Timeout())
	if timedOut {
		r.logg.Warn(ctx, "catalog request timed out")
		return pkgerrors.Wrap(pkgerrors.CodeTimeout, err, "catalog request timed out")
	}
	r.logg.Warn(ctx, "catalog service unreachable")
	return pkgerrors.Wrap(pkgerrors.CodeNoResponse, err, "catalog service unreachable")
}

func (r *Repository) serverError(ctx context.Context, status int, body []byte) *pkgerrors.Error {
	message := remoteMessage(body)
	if message == "" {
		message = http.StatusText(status)
	}

	code := pkgerrors.CodeServer
	if status == http.StatusNotFound {
		code = pkgerrors.CodeNotFound
	}

	r.logg.Warn(r.logg.WithField(ctx, "status", status), "catalog request rejected")
	return pkgerrors.New(code, message).
		WithDetails(map[string]any{"status": status})
}

// remoteMessage pulls a human-readable message out of the backend's error
// envelope, whichever field it used.
func remoteMessage(body []byte) string {
	var envelope struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}
	if envelope.Error != "" {
		return envelope.Error
	}
	return envelope.Message
}

func decodeProductList(body []byte) ([]listItem, bool) {
	var bare []listItem
	if err := json.Unmarshal(body, &bare); err == nil {
		return bare, true
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, &bare); err == nil {
			return bare, true
		}
	}
	return nil, false
}

func decodeProduct(body []byte) (*Product, error) {
	var item listItem
	if err := json.Unmarshal(body, &item); err == nil && item.Name != "" {
		p := item.product(usableID(item))
		return &p, nil
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, &item); err == nil {
			p := item.product(usableID(item))
			return &p, nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeMalformed, "unrecognized product response")
}

func usableID(item listItem) string {
	for _, candidate := range []string{string(item.ID), string(item.AltID)} {
		trimmed := strings.TrimSpace(candidate)
		if trimmed != "" && trimmed != undefinedID {
			return trimmed
		}
	}
	return ""
}

// assignIDs guarantees the non-empty unique id invariant. Server-provided
// ids are preserved; missing, sentinel, or duplicated ids get a synthesized
// substitute scoped to this single list call, so ids from two calls in the
// same session never collide with each other.
func (r *Repository) assignIDs(ctx context.Context, items []listItem) []Product {
	listToken := strconv.FormatInt(time.Now().UnixNano(), 36)
	seen := make(map[string]struct{}, len(items))

	products := make([]Product, 0, len(items))
	for i, item := range items {
		id := usableID(item)
		if _, dup := seen[id]; id == "" || dup {
			id = fmt.Sprintf("gen-%s-%d", listToken, i)
			r.logg.Warn(r.logg.WithProductID(ctx, id), "product arrived without a usable id, synthesized one for this session")
		}
		seen[id] = struct{}{}
		products = append(products, item.product(id))
	}
	return products
}
