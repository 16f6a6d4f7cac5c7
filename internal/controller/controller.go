package controller

import (
	"context"
	"fmt"
	"sync"

	"github.com/interiorhaus/catalog-admin/internal/catalog"
	"github.com/interiorhaus/catalog-admin/internal/form"
	"github.com/interiorhaus/catalog-admin/internal/media"
	"github.com/interiorhaus/catalog-admin/pkg/config"
	"github.com/interiorhaus/catalog-admin/pkg/enums"
	pkgerrors "github.com/interiorhaus/catalog-admin/pkg/errors"
	"github.com/interiorhaus/catalog-admin/pkg/logger"
)

// Phase is the list-view state.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseLoading Phase = "loading"
	PhaseReady   Phase = "ready"
)

type repository interface {
	List(ctx context.Context) ([]catalog.Product, error)
	Create(ctx context.Context, sub catalog.Submission) (*catalog.Product, error)
	Update(ctx context.Context, id string, sub catalog.Submission) (*catalog.Product, error)
	Delete(ctx context.Context, id string) error
}

type uploader interface {
	Upload(ctx context.Context, in media.Upload, hooks media.Hooks) (string, error)
}

// Controller orchestrates the catalog workflow. It exclusively owns the
// authoritative product list and the form buffer; everything it hands out
// is a value copy. A mutex guards state because upload progress ticks
// arrive from the uploader's streaming goroutine.
type Controller struct {
	mu sync.Mutex

	repo repository
	up   uploader
	mode enums.AddressMode
	orig string
	logg *logger.Logger

	phase      Phase
	products   []catalog.Product
	buffer     form.Buffer
	formOpen   bool
	uploading  map[enums.MediaKind]bool
	progress   map[enums.MediaKind]int
	submitting bool
	playingID  string
}

// Snapshot is the value-copy view handed to the presentation collaborator.
type Snapshot struct {
	Phase      Phase
	Products   []catalog.Product
	FormOpen   bool
	FormEdit   bool
	EditingID  string
	Form       form.Fields
	Uploading  map[enums.MediaKind]bool
	Progress   map[enums.MediaKind]int
	Submitting bool
	PlayingID  string
}

// New wires a controller from the remote clients and the fixed addressing
// configuration.
func New(repo repository, up uploader, api config.APIConfig, mediaCfg config.MediaConfig, logg *logger.Logger) (*Controller, error) {
	if repo == nil {
		return nil, fmt.Errorf("repository required")
	}
	if up == nil {
		return nil, fmt.Errorf("uploader required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if !mediaCfg.AddressMode.IsValid() {
		return nil, fmt.Errorf("invalid address mode %q", mediaCfg.AddressMode)
	}
	return &Controller{
		repo:      repo,
		up:        up,
		mode:      mediaCfg.AddressMode,
		orig:      api.Origin,
		logg:      logg,
		phase:     PhaseIdle,
		products:  []catalog.Product{},
		uploading: map[enums.MediaKind]bool{},
		progress:  map[enums.MediaKind]int{},
	}, nil
}

// Load performs the mount-time fetch. A failed first load leaves an empty
// but usable catalog; the error is returned for display, never fatal.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	c.phase = PhaseLoading
	c.mu.Unlock()

	products, err := c.repo.List(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.phase = PhaseReady
	if err != nil {
		c.products = []catalog.Product{}
		c.logg.Warn(ctx, "initial catalog load failed, starting empty")
		return err
	}
	c.products = products
	return nil
}

// Refresh refetches the list. On failure the previous list stays displayed.
func (c *Controller) Refresh(ctx context.Context) error {
	products, err := c.repo.List(ctx)
	if err != nil {
		c.logg.Warn(ctx, "catalog refresh failed, keeping previous list")
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.phase = PhaseReady
	c.products = products
	return nil
}

// StartCreate opens the form with an empty create-mode draft.
func (c *Controller) StartCreate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.buffer.StartCreate()
	c.formOpen = true
}

// StartEdit opens the form populated from the identified product. Invoking
// it again for the same product just re-populates the same draft.
func (c *Controller) StartEdit(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range c.products {
		if p.ID == id {
			c.buffer.StartEdit(p)
			c.formOpen = true
			return nil
		}
	}
	return pkgerrors.New(pkgerrors.CodeInvalidReference, "no such product in the current list").
		WithDetails(map[string]string{"id": id})
}

// CloseForm discards the draft without submitting.
func (c *Controller) CloseForm() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.buffer.Reset()
	c.formOpen = false
}

// SetField forwards operator input into the open draft.
func (c *Controller) SetField(name, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.formOpen {
		return pkgerrors.New(pkgerrors.CodeValidation, "no form is open")
	}
	return c.buffer.SetField(name, value)
}

// AttachMedia uploads a picked file into the given media slot. Progress is
// tracked per slot; the draft's reference changes only on success.
func (c *Controller) AttachMedia(ctx context.Context, in media.Upload) error {
	c.mu.Lock()
	if !c.formOpen {
		c.mu.Unlock()
		return pkgerrors.New(pkgerrors.CodeValidation, "no form is open")
	}
	if c.uploading[in.Kind] {
		c.mu.Unlock()
		return pkgerrors.New(pkgerrors.CodeValidation, "an upload is already in flight for this slot")
	}
	c.uploading[in.Kind] = true
	c.progress[in.Kind] = 0
	c.mu.Unlock()

	hooks := media.Hooks{OnProgress: func(percent int) {
		c.mu.Lock()
		if percent > c.progress[in.Kind] {
			c.progress[in.Kind] = percent
		}
		c.mu.Unlock()
	}}

	reference, err := c.up.Upload(ctx, in, hooks)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.uploading[in.Kind] = false
	c.progress[in.Kind] = 0
	if err != nil {
		// The slot keeps its previous reference; retrying is the operator's call.
		return err
	}
	c.buffer.SetMediaRef(in.Kind, reference)
	return nil
}

// Submit validates the draft and performs the create-or-update branch, then
// refetches the list strictly after the mutation resolves. Validation or
// mutation failure leaves the form open and the draft untouched.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	if !c.formOpen {
		c.mu.Unlock()
		return pkgerrors.New(pkgerrors.CodeValidation, "no form is open")
	}
	if c.submitting || c.uploading[enums.MediaKindImage] || c.uploading[enums.MediaKindVideo] {
		c.mu.Unlock()
		return pkgerrors.New(pkgerrors.CodeValidation, "another submit or upload is still in flight")
	}
	if err := c.buffer.Validate(); err != nil {
		c.mu.Unlock()
		return err
	}
	sub, err := c.buffer.ToSubmission()
	if err != nil {
		c.mu.Unlock()
		return err
	}
	isEdit, editingID := c.buffer.IsEdit(), c.buffer.EditingID()
	c.submitting = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.submitting = false
		c.mu.Unlock()
	}()

	if isEdit {
		_, err = c.repo.Update(ctx, editingID, sub)
	} else {
		_, err = c.repo.Create(ctx, sub)
	}
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.buffer.Reset()
	c.formOpen = false
	c.mu.Unlock()

	// The mutation is committed remotely; a failed refetch only means the
	// previous list stays on screen.
	return c.Refresh(ctx)
}

// Delete removes a product after an explicitly affirmed confirmation gate.
// A failed delete leaves the authoritative list untouched.
func (c *Controller) Delete(ctx context.Context, id string, confirmed bool) error {
	if !confirmed {
		return nil
	}
	if err := c.repo.Delete(ctx, id); err != nil {
		return err
	}
	return c.Refresh(ctx)
}

// PlayMedia toggles the single playing-media selection: the same id
// deselects, a different id replaces the previous selection outright.
func (c *Controller) PlayMedia(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.playingID == id {
		c.playingID = ""
		return
	}
	c.playingID = id
}

// MediaURL resolves a stored reference under the configured addressing mode.
func (c *Controller) MediaURL(reference string) string {
	return media.ResolveURL(reference, c.mode, c.orig)
}

// Snapshot returns a value copy of everything the presentation layer renders.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	products := make([]catalog.Product, len(c.products))
	copy(products, c.products)

	uploading := make(map[enums.MediaKind]bool, len(c.uploading))
	for k, v := range c.uploading {
		uploading[k] = v
	}
	progress := make(map[enums.MediaKind]int, len(c.progress))
	for k, v := range c.progress {
		progress[k] = v
	}

	return Snapshot{
		Phase:      c.phase,
		Products:   products,
		FormOpen:   c.formOpen,
		FormEdit:   c.buffer.IsEdit(),
		EditingID:  c.buffer.EditingID(),
		Form:       c.buffer.Fields(),
		Uploading:  uploading,
		Progress:   progress,
		Submitting: c.submitting,
		PlayingID:  c.playingID,
	}
}
