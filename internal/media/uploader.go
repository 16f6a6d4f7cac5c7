package media

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/interiorhaus/catalog-admin/pkg/config"
	"github.com/interiorhaus/catalog-admin/pkg/enums"
	pkgerrors "github.com/interiorhaus/catalog-admin/pkg/errors"
	"github.com/interiorhaus/catalog-admin/pkg/logger"
)

const uploadPath = "/api/upload"

// maxExtensionLen caps the extension carried over from the original
// filename; everything else about that name is discarded.
const maxExtensionLen = 5

// Upload describes one file to push to the media endpoint. Size is the
// declared byte length; it is checked before any network activity.
type Upload struct {
	Reader      io.Reader
	Filename    string
	ContentType string
	Size        int64
	Kind        enums.MediaKind
}

// Hooks lets callers observe the upload lifecycle. OnProgress receives a
// 0–100 percentage and must be cheap; only the latest value matters.
type Hooks struct {
	OnProgress func(percent int)
}

// Uploader streams files to the remote upload endpoint. It holds its own
// HTTP client with a minutes-scale timeout: media payloads are orders of
// magnitude larger than catalog CRUD bodies.
type Uploader struct {
	origin   string
	client   *http.Client
	maxBytes int64
	logg     *logger.Logger
}

// NewUploader constructs an uploader against the configured origin.
func NewUploader(api config.APIConfig, media config.MediaConfig, logg *logger.Logger) (*Uploader, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if err := api.Validate(); err != nil {
		return nil, err
	}
	if err := media.Validate(); err != nil {
		return nil, err
	}
	return &Uploader{
		origin:   strings.TrimRight(api.Origin, "/"),
		client:   &http.Client{Timeout: media.UploadTimeout},
		maxBytes: media.MaxUploadBytes,
		logg:     logg,
	}, nil
}

// Upload pushes one file and returns the storage reference the backend
// assigned. Preconditions (size, declared type) are checked before any
// network I/O, each with its own rejection code. A failed upload never
// mutates caller state; the caller decides whether to retry.
func (u *Uploader) Upload(ctx context.Context, in Upload, hooks Hooks) (string, error) {
	if !in.Kind.IsValid() {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "unknown media kind").
			WithDetails(map[string]string{"kind": in.Kind.String()})
	}
	if in.Size > u.maxBytes {
		return "", pkgerrors.New(pkgerrors.CodeFileTooLarge,
			fmt.Sprintf("file is %d bytes, maximum is %d", in.Size, u.maxBytes)).
			WithDetails(map[string]int64{"size": in.Size, "max": u.maxBytes})
	}
	if err := checkContentType(in.Kind, in.ContentType); err != nil {
		return "", err
	}

	name := uploadName(in.Kind, in.Filename)
	ctx = u.logg.WithUpload(ctx, name)
	u.logg.Info(ctx, "starting media upload")

	reference, err := u.send(ctx, in, name, hooks)
	if err != nil {
		u.logg.Warn(ctx, "media upload failed")
		return "", err
	}

	u.logg.Info(u.logg.WithField(ctx, "reference", reference), "media upload complete")
	return reference, nil
}

func (u *Uploader) send(ctx context.Context, in Upload, name string, hooks Hooks) (string, error) {
	pr, pw := io.Pipe()
	form := multipart.NewWriter(pw)

	counted := &progressReader{
		inner: in.Reader,
		total: in.Size,
		fire:  hooks.OnProgress,
	}

	go func() {
		part, err := form.CreateFormFile("file", name)
		if err != nil {
			_ = pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, counted); err != nil {
			_ = pw.CloseWithError(err)
			return
		}
		_ = pw.CloseWithError(form.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.origin+uploadPath, pr)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building upload request")
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := u.client.Do(req)
	if err != nil {
		var urlErr *url.Error
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &urlErr) && urlErr.Timeout()) {
			return "", pkgerrors.Wrap(pkgerrors.CodeTimeout, err, "upload timed out")
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeNoResponse, err, "upload endpoint unreachable")
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeNoResponse, err, "reading upload response")
	}

	var result struct {
		Success  bool   `json:"success"`
		FilePath string `json:"filePath"`
		Error    string `json:"error"`
	}
	decodeOK := json.Unmarshal(body, &result) == nil

	if resp.StatusCode < 200 || resp.StatusCode > 299 || (decodeOK && !result.Success) {
		message := "upload rejected"
		if decodeOK && result.Error != "" {
			message = result.Error
		}
		return "", pkgerrors.New(pkgerrors.CodeServer, message).
			WithDetails(map[string]any{"status": resp.StatusCode})
	}
	if !decodeOK || result.FilePath == "" {
		return "", pkgerrors.New(pkgerrors.CodeMalformed, "upload response missing file path")
	}

	counted.finish()
	return result.FilePath, nil
}

// uploadName builds a collision-resistant filename: kind, timestamp, random
// token, and the original extension lower-cased and capped. No other
// characters from the original name survive.
func uploadName(kind enums.MediaKind, original string) string {
	ext := strings.ToLower(path.Ext(original))
	if trimmed := strings.TrimPrefix(ext, "."); len(trimmed) > maxExtensionLen {
		ext = "." + trimmed[:maxExtensionLen]
	}
	var clean strings.Builder
	for _, r := range ext {
		if r == '.' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			clean.WriteRune(r)
		}
	}
	token := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return fmt.Sprintf("%s-%d-%s%s", kind, time.Now().UnixNano(), token, clean.String())
}

// allowedSubtypes keys the per-kind allow list by normalized subtype.
var allowedSubtypes = map[enums.MediaKind]map[string]struct{}{
	enums.MediaKindImage: {
		"jpeg": {}, "png": {}, "gif": {},
	},
	enums.MediaKindVideo: {
		"mp4": {}, "mov": {}, "avi": {}, "webm": {}, "mkv": {},
	},
}

// subtypeAliases folds the container-format MIME registrations (and the
// common jpg spelling) onto the short names the allow list uses.
var subtypeAliases = map[string]string{
	"jpg":        "jpeg",
	"quicktime":  "mov",
	"x-msvideo":  "avi",
	"x-matroska": "mkv",
}

func checkContentType(kind enums.MediaKind, contentType string) error {
	declared := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.Index(declared, ";"); i >= 0 {
		declared = strings.TrimSpace(declared[:i])
	}

	subtype := declared
	if i := strings.Index(declared, "/"); i >= 0 {
		subtype = declared[i+1:]
	}
	if canonical, ok := subtypeAliases[subtype]; ok {
		subtype = canonical
	}

	if _, ok := allowedSubtypes[kind][subtype]; !ok {
		return pkgerrors.New(pkgerrors.CodeUnsupportedType,
			fmt.Sprintf("%q is not an accepted %s type", contentType, kind)).
			WithDetails(map[string]string{"content_type": contentType, "kind": kind.String()})
	}
	return nil
}

// progressReader counts bytes as the multipart writer drains the source and
// fires the progress hook with a monotonically non-decreasing percentage.
// The hook is invoked inline with a plain integer; callers store it and
// return, so no backpressure builds up.
type progressReader struct {
	inner io.Reader
	total int64
	read  int64
	last  int
	fire  func(int)
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.inner.Read(buf)
	if n > 0 {
		p.read += int64(n)
		p.report()
	}
	return n, err
}

func (p *progressReader) report() {
	if p.fire == nil || p.total <= 0 {
		return
	}
	percent := int(p.read * 100 / p.total)
	if percent > 100 {
		percent = 100
	}
	if percent > p.last {
		p.last = percent
		p.fire(percent)
	}
}

// finish forces the terminal 100% tick for sources whose declared size was
// an overestimate.
func (p *progressReader) finish() {
	if p.fire != nil && p.last < 100 {
		p.last = 100
		p.fire(100)
	}
}
