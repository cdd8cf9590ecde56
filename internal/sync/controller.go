// Package sync loads an editor document from the API and saves it back,
// refusing saves that could overwrite remote data the session has not seen.
package sync

import (
	"context"
	"errors"
	"fmt"
	gosync "sync"

	"invitation-canvas-editor/internal/codec"
	"invitation-canvas-editor/internal/domain"
	"invitation-canvas-editor/internal/logger"
	"invitation-canvas-editor/internal/scene"
	"invitation-canvas-editor/internal/trigger"
	"invitation-canvas-editor/internal/utils"
)

type State int

const (
	StateUnloaded State = iota
	StateLoading
	StateLoaded
	StateLoadFailed
	StateSaving
	StateSaved
	StateSaveBlocked
	StateSaveFailed
)

func (s State) String() string {
	switch s {
	case StateUnloaded:
		return "unloaded"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateLoadFailed:
		return "load_failed"
	case StateSaving:
		return "saving"
	case StateSaved:
		return "saved"
	case StateSaveBlocked:
		return "save_blocked"
	case StateSaveFailed:
		return "save_failed"
	default:
		return "unknown"
	}
}

// Status is what an editor shows in its save indicator.
// A blocked save and a failed save are different states.
type Status struct {
	State   State
	HasData bool
	Reason  string
	Err     error
}

type SaveResult struct {
	ID          string
	Slug        string
	Created     bool
	SlugChanged bool
}

// Controller owns the persistence lifecycle of one document in one session.
type Controller struct {
	backend    Backend
	primary    domain.Collection
	identifier string

	mu         gosync.Mutex
	state      State
	loading    bool
	loadFailed bool
	hasData    bool
	resolved   bool
	exists     bool
	collection domain.Collection
	storageID  string
	generation uint64
	saving     bool
	reason     string
	lastErr    error
	fieldErrs  []codec.FieldError
}

// NewController manages the document addressed by identifier, a storage id or
// a slug, in collection c. An empty identifier is a document not stored yet.
func NewController(backend Backend, c domain.Collection, identifier string) *Controller {
	ctrl := &Controller{
		backend:    backend,
		primary:    c,
		identifier: identifier,
		collection: c,
	}
	if identifier == "" {
		ctrl.resolved = true
	}
	return ctrl
}

func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Status{State: c.state, HasData: c.hasData, Reason: c.reason, Err: c.lastErr}
}

func (c *Controller) State() State {
	return c.Status().State
}

// StorageID is the resolved opaque id, empty until a load or create resolves it.
func (c *Controller) StorageID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.storageID
}

// Collection is where the document was found, which may be the fallback table.
func (c *Controller) Collection() domain.Collection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.collection
}

// FieldErrors lists the columns the last load replaced with defaults.
func (c *Controller) FieldErrors() []codec.FieldError {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]codec.FieldError(nil), c.fieldErrs...)
}

// Close abandons any load in flight. A save in flight still completes.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	if c.loading {
		c.loading = false
		c.state = StateUnloaded
	}
}

// lookup asks one collection and reports (nil, nil) when it has no such document.
func (c *Controller) lookup(ctx context.Context, col domain.Collection) (*domain.Record, error) {
	rec, err := c.backend.Get(ctx, col, c.identifier)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return rec, err
}

// Load fetches the document, trying the fallback collection when the primary
// has nothing. A document found nowhere loads as an empty new document.
func (c *Controller) Load(ctx context.Context) (*scene.Document, error) {
	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.state = StateLoading
	c.loading = true
	c.reason = ""
	c.lastErr = nil
	c.mu.Unlock()

	var (
		rec   *domain.Record
		found = c.primary
		err   error
	)
	if c.identifier != "" {
		rec, err = c.lookup(ctx, c.primary)
		if err == nil && rec == nil {
			if fb := c.primary.Fallback(); fb != "" {
				found = fb
				rec, err = c.lookup(ctx, fb)
			}
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return nil, ErrAbandoned
	}
	c.loading = false
	if err != nil {
		c.loadFailed = true
		c.state = StateLoadFailed
		c.lastErr = &PersistenceError{Op: "load", Err: err}
		return nil, c.lastErr
	}

	c.state = StateLoaded
	c.loadFailed = false
	c.resolved = true
	c.fieldErrs = nil
	if rec == nil {
		c.hasData = false
		c.exists = false
		c.collection = c.primary
		docType := scene.TypeInvitation
		if c.primary == domain.CollectionDisplayDesigns {
			docType = scene.TypeDisplay
		}
		doc := scene.NewDocument("", "", "", docType)
		if utils.IsOpaqueID(c.identifier) {
			c.storageID = c.identifier
			doc.ID = c.identifier
		} else {
			doc.Slug = c.identifier
		}
		return doc, nil
	}

	doc, fieldErrs := codec.Decode(*rec)
	for _, fe := range fieldErrs {
		logger.Warnf("[SYNC] %s %s: %v", found, rec.ID, fe)
	}
	c.fieldErrs = fieldErrs
	c.hasData = true
	c.exists = true
	c.collection = found
	c.storageID = rec.ID
	return doc, nil
}

// guard returns why a save must not be sent right now, or "" when it may.
func (c *Controller) guard() string {
	switch {
	case c.loading:
		return "initial load still in flight"
	case c.loadFailed:
		return "initial load failed"
	case c.saving:
		return "another save is in flight"
	case !c.resolved && c.identifier != "" && !utils.IsOpaqueID(c.identifier):
		return "document slug not resolved to a storage id yet"
	case !c.resolved && c.identifier != "":
		return "document not loaded yet"
	}
	return ""
}

// Save persists doc: a create the first time, a full partial-update after.
// Guarded saves return a GuardError and make no backend call. After a create
// doc carries the id and slug the server assigned.
func (c *Controller) Save(ctx context.Context, doc *scene.Document) (SaveResult, error) {
	c.mu.Lock()
	if reason := c.guard(); reason != "" {
		prev := c.state
		if !c.saving {
			c.state = StateSaveBlocked
		}
		c.reason = reason
		c.mu.Unlock()
		logger.Infof("[SYNC] save blocked (%s): %s", prev, reason)
		return SaveResult{}, &GuardError{Reason: reason}
	}
	c.saving = true
	c.state = StateSaving
	c.reason = ""
	exists, col, storageID := c.exists, c.collection, c.storageID
	c.mu.Unlock()

	result, err := c.persist(ctx, doc, exists, col, storageID)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.saving = false
	if err != nil {
		c.state = StateSaveFailed
		c.lastErr = err
		return SaveResult{}, err
	}
	c.state = StateSaved
	c.lastErr = nil
	c.hasData = true
	c.exists = true
	c.resolved = true
	c.storageID = result.ID
	return result, nil
}

func (c *Controller) persist(ctx context.Context, doc *scene.Document, exists bool, col domain.Collection, storageID string) (SaveResult, error) {
	rec, err := codec.Encode(doc)
	if err != nil {
		return SaveResult{}, &PersistenceError{Op: "encode", Err: err}
	}

	if exists {
		err := c.backend.Update(ctx, col, storageID, domain.FullPatch(rec))
		if errors.Is(err, ErrSlugTaken) {
			return SaveResult{}, err
		}
		if err != nil {
			return SaveResult{}, &PersistenceError{Op: "update", Err: err}
		}
		return SaveResult{ID: storageID, Slug: doc.Slug}, nil
	}

	if storageID != "" {
		rec.ID = storageID
	}
	created, err := c.backend.Create(ctx, col, rec)
	if errors.Is(err, ErrSlugTaken) {
		return SaveResult{}, err
	}
	if err != nil {
		return SaveResult{}, &PersistenceError{Op: "create", Err: err}
	}
	if created.ID == "" {
		return SaveResult{}, &PersistenceError{Op: "create", Err: fmt.Errorf("backend returned no id")}
	}

	doc.ID = created.ID
	changed := doc.Slug != "" && created.Slug != doc.Slug
	doc.Slug = created.Slug
	return SaveResult{ID: created.ID, Slug: created.Slug, Created: true, SlugChanged: changed}, nil
}

// Triggers reads the document's trigger field on every call, for a trigger.Watcher.
func (c *Controller) Triggers() trigger.Fetcher {
	return trigger.FetcherFunc(func(ctx context.Context) (*scene.Trigger, error) {
		c.mu.Lock()
		col, id := c.collection, c.storageID
		c.mu.Unlock()
		if id == "" {
			id = c.identifier
		}

		rec, err := c.backend.Get(ctx, col, id)
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		doc, _ := codec.Decode(*rec)
		return doc.ActiveTrigger, nil
	})
}
