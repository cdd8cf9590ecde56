package invitation

import (
	"context"
	"encoding/json"
	defError "errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	"invitation-canvas-editor/internal/codec"
	"invitation-canvas-editor/internal/domain"
	"invitation-canvas-editor/internal/errors"
	"invitation-canvas-editor/internal/logger"
	"invitation-canvas-editor/internal/scene"
	"invitation-canvas-editor/internal/utils"
	"invitation-canvas-editor/internal/worker"
	"invitation-canvas-editor/redis"
)

const (
	slugSuffixLength = 4
	slugAttempts     = 5
)

// Actor is the authenticated caller of a write.
type Actor struct {
	UserID uint64
	Role   string
}

func (a Actor) owns(rec *domain.Record) bool {
	return a.Role == domain.RoleAdmin || rec.UserID == 0 || rec.UserID == a.UserID
}

type Page struct {
	Data []domain.Record `json:"data"`
	Meta utils.Meta      `json:"meta"`
}

// Created is a stored record plus the slug the caller asked for, when it had to change.
type Created struct {
	domain.Record
	RequestedSlug string `json:"requested_slug,omitempty"`
}

type UpdateResult struct {
	ID      string `json:"id"`
	Updated bool   `json:"updated"`
}

type DeleteResult struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

type Service interface {
	Get(ctx context.Context, c domain.Collection, identifier string) (*domain.Record, error)
	List(ctx context.Context, c domain.Collection, f Filter, page, pageSize int) (*Page, error)
	Create(ctx context.Context, c domain.Collection, actor Actor, rec *domain.Record) (*Created, error)
	Update(ctx context.Context, c domain.Collection, actor Actor, identifier string, patch domain.RecordPatch) (*UpdateResult, error)
	Delete(ctx context.Context, c domain.Collection, actor Actor, identifier string) (*DeleteResult, error)
	FireTrigger(ctx context.Context, c domain.Collection, actor Actor, identifier string, t scene.Trigger) (*scene.Trigger, error)
	CurrentTrigger(ctx context.Context, c domain.Collection, identifier string) (*scene.Trigger, error)
	SubscribeTriggers(ctx context.Context, id string) (<-chan []byte, error)
}

// Counter tracks how many invitations a user owns.
type Counter interface {
	IncrementInvitationCount(ctx context.Context, id uint64) error
	DecrementInvitationCount(ctx context.Context, id uint64) error
}

type DefaultService struct {
	repository Repository
	counter    Counter
	cache      *redis.Cache
	workers    *worker.WorkerPool
	cacheTTL   time.Duration
	group      singleflight.Group
	now        func() time.Time
}

func NewService(repository Repository, counter Counter, cache *redis.Cache, workers *worker.WorkerPool, cacheTTL time.Duration) *DefaultService {
	return &DefaultService{
		repository: repository,
		counter:    counter,
		cache:      cache,
		workers:    workers,
		cacheTTL:   cacheTTL,
		now:        time.Now,
	}
}

func versionKey(c domain.Collection) string {
	return fmt.Sprintf("%s:version", c)
}

func triggerChannel(id string) string {
	return "trigger:" + id
}

// followUp queues a write that runs after the response and is not rolled back with it.
func (s *DefaultService) followUp(name string, task worker.Task) {
	if s.workers == nil || s.counter == nil {
		return
	}
	s.workers.Submit(name, task)
}

func (s *DefaultService) invalidate(ctx context.Context, c domain.Collection) {
	s.cache.IncrementVersion(ctx, versionKey(c))
}

// resolve finds a record by storage id first, then by slug.
func (s *DefaultService) resolve(ctx context.Context, c domain.Collection, identifier string) (*domain.Record, error) {
	rec, err := s.repository.FindByID(ctx, c, identifier)
	if err == nil {
		return rec, nil
	}
	if !defError.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	rec, err = s.repository.FindBySlug(ctx, c, identifier)
	if defError.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.Missing("document", identifier)
	}
	return rec, err
}

func (s *DefaultService) Get(ctx context.Context, c domain.Collection, identifier string) (*domain.Record, error) {
	v := s.cache.GetVersion(ctx, versionKey(c))
	cacheKey := fmt.Sprintf("%s:v:%d:doc:%s", c, v, identifier)

	var cached domain.Record
	if found, _ := s.cache.Get(ctx, cacheKey, &cached); found {
		return &cached, nil
	}

	result, err, _ := s.group.Do(cacheKey, func() (any, error) {
		rec, err := s.resolve(ctx, c, identifier)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(ctx, cacheKey, rec, s.cacheTTL); err != nil {
			logger.Warnf("[CACHE] set %s: %v", cacheKey, err)
		}
		return rec, nil
	})
	if err != nil {
		return nil, err
	}
	rec := *result.(*domain.Record)
	return &rec, nil
}

func (s *DefaultService) List(ctx context.Context, c domain.Collection, f Filter, page, pageSize int) (*Page, error) {
	v := s.cache.GetVersion(ctx, versionKey(c))
	published := "any"
	if f.Published != nil {
		published = fmt.Sprint(*f.Published)
	}
	cacheKey := fmt.Sprintf("%s:v:%d:list:u:%d:c:%s:t:%s:pub:%s:p:%d:ps:%d",
		c, v, f.UserID, f.Category, f.Type, published, page, pageSize)

	var result Page
	if found, _ := s.cache.Get(ctx, cacheKey, &result); found {
		return &result, nil
	}

	records, meta, err := s.repository.List(ctx, c, f, page, pageSize)
	if err != nil {
		return nil, err
	}
	result = Page{Data: records, Meta: meta}
	if err := s.cache.Set(ctx, cacheKey, result, s.cacheTTL); err != nil {
		logger.Warnf("[CACHE] set %s: %v", cacheKey, err)
	}
	return &result, nil
}

// freeSlug returns slug, or slug with a random suffix when slug is already used.
func (s *DefaultService) freeSlug(ctx context.Context, slug string) (string, error) {
	candidate := slug
	for range slugAttempts {
		exists, err := s.repository.SlugExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = slug + "-" + utils.RandomSuffix(slugSuffixLength)
	}
	return "", errors.Taken("slug", slug)
}

// Create stores rec. A slug already in use is suffixed rather than rejected,
// and the record's owner gets a follow-up counter increment.
func (s *DefaultService) Create(ctx context.Context, c domain.Collection, actor Actor, rec *domain.Record) (*Created, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.Slug == "" {
		rec.Slug = rec.ID
	}
	if !utils.IsSlug(rec.Slug) {
		return nil, errors.Invalid("slug", "only lowercase letters, digits and single dashes are allowed")
	}
	if rec.Type == "" {
		rec.Type = string(scene.TypeInvitation)
	}
	if !scene.DocumentType(rec.Type).Valid() {
		return nil, errors.Invalid("type", fmt.Sprintf("unknown document type %q", rec.Type))
	}
	if rec.Zoom <= 0 {
		rec.Zoom = 1
	}
	rec.UserID = actor.UserID
	codec.AliasOrbit(rec)

	requested := rec.Slug
	var err error
	for range slugAttempts {
		if rec.Slug, err = s.freeSlug(ctx, requested); err != nil {
			return nil, err
		}
		err = s.repository.Create(ctx, c, rec)
		if !defError.Is(err, gorm.ErrDuplicatedKey) {
			break
		}
		// lost a race on the slug, or the caller reused an id
		if _, findErr := s.repository.FindByID(ctx, c, rec.ID); findErr == nil {
			return nil, errors.Taken("id", rec.ID)
		}
	}
	if defError.Is(err, gorm.ErrDuplicatedKey) {
		return nil, errors.Taken("slug", requested)
	}
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, c)

	if c == domain.CollectionInvitations && rec.UserID != 0 {
		owner := rec.UserID
		s.followUp(fmt.Sprintf("increment-invitations-%d", owner), func(ctx context.Context) error {
			return s.counter.IncrementInvitationCount(ctx, owner)
		})
	}

	created := &Created{Record: *rec}
	if rec.Slug != requested {
		created.RequestedSlug = requested
	}
	return created, nil
}

// mirrorOrbit keeps the orbit and orbit_layers columns equal in a patch.
func mirrorOrbit(patch *domain.RecordPatch) {
	if patch.Orbit == nil && patch.OrbitLayers == nil {
		return
	}
	rec := domain.Record{}
	if patch.Orbit != nil {
		rec.Orbit = *patch.Orbit
	}
	if patch.OrbitLayers != nil {
		rec.OrbitLayers = *patch.OrbitLayers
	}
	codec.AliasOrbit(&rec)
	if rec.Orbit == "" && rec.OrbitLayers == "" {
		return
	}
	patch.Orbit = &rec.Orbit
	patch.OrbitLayers = &rec.OrbitLayers
}

// Update writes the set fields of patch and leaves every other column as stored.
func (s *DefaultService) Update(ctx context.Context, c domain.Collection, actor Actor, identifier string, patch domain.RecordPatch) (*UpdateResult, error) {
	rec, err := s.resolve(ctx, c, identifier)
	if err != nil {
		return nil, err
	}
	if !actor.owns(rec) {
		return nil, errors.Forbidden("You do not own this document", nil)
	}

	if patch.Slug != nil && *patch.Slug != rec.Slug {
		if !utils.IsSlug(*patch.Slug) {
			return nil, errors.Invalid("slug", "only lowercase letters, digits and single dashes are allowed")
		}
		exists, err := s.repository.SlugExists(ctx, *patch.Slug)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, errors.Taken("slug", *patch.Slug)
		}
	}
	if patch.Type != nil && !scene.DocumentType(*patch.Type).Valid() {
		return nil, errors.Invalid("type", fmt.Sprintf("unknown document type %q", *patch.Type))
	}
	mirrorOrbit(&patch)

	cols := patch.Columns()
	if len(cols) > 0 {
		err := s.repository.Update(ctx, c, rec.ID, cols)
		if defError.Is(err, gorm.ErrDuplicatedKey) && patch.Slug != nil {
			return nil, errors.Taken("slug", *patch.Slug)
		}
		if err != nil {
			return nil, err
		}
		s.invalidate(ctx, c)
	}
	return &UpdateResult{ID: rec.ID, Updated: true}, nil
}

// Delete removes the record. The owner's counter is decremented afterwards
// as a separate write that may fail independently.
func (s *DefaultService) Delete(ctx context.Context, c domain.Collection, actor Actor, identifier string) (*DeleteResult, error) {
	rec, err := s.resolve(ctx, c, identifier)
	if err != nil {
		return nil, err
	}
	if !actor.owns(rec) {
		return nil, errors.Forbidden("You do not own this document", nil)
	}

	if err := s.repository.Delete(ctx, c, rec.ID); err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.Missing("document", identifier)
		}
		return nil, err
	}
	s.invalidate(ctx, c)

	if c == domain.CollectionInvitations && rec.UserID != 0 {
		owner := rec.UserID
		s.followUp(fmt.Sprintf("decrement-invitations-%d", owner), func(ctx context.Context) error {
			return s.counter.DecrementInvitationCount(ctx, owner)
		})
	}
	return &DeleteResult{ID: rec.ID, Deleted: true}, nil
}

func storedTrigger(rec *domain.Record) *scene.Trigger {
	if rec.ActiveTrigger == "" {
		return nil
	}
	var t scene.Trigger
	if err := json.Unmarshal([]byte(rec.ActiveTrigger), &t); err != nil {
		return nil
	}
	return &t
}

// FireTrigger overwrites the document's trigger field and announces it on the
// document's channel. Timestamps only move forward so consumers never skip it.
func (s *DefaultService) FireTrigger(ctx context.Context, c domain.Collection, actor Actor, identifier string, t scene.Trigger) (*scene.Trigger, error) {
	if t.Effect == "" {
		return nil, errors.Invalid("effect", "effect is required")
	}
	rec, err := s.resolve(ctx, c, identifier)
	if err != nil {
		return nil, err
	}
	if !actor.owns(rec) {
		return nil, errors.Forbidden("You do not own this document", nil)
	}

	if t.Timestamp == 0 {
		t.Timestamp = s.now().UnixMilli()
	}
	if prev := storedTrigger(rec); prev != nil && t.Timestamp <= prev.Timestamp {
		t.Timestamp = prev.Timestamp + 1
	}

	raw, err := json.Marshal(t)
	if err != nil {
		return nil, err
	}
	if err := s.repository.Update(ctx, c, rec.ID, map[string]any{"active_trigger": string(raw)}); err != nil {
		return nil, err
	}
	s.invalidate(ctx, c)

	if err := s.cache.Publish(ctx, triggerChannel(rec.ID), t); err != nil {
		logger.Warnf("[TRIGGER] publish %s: %v", rec.ID, err)
	}
	return &t, nil
}

// CurrentTrigger reads the trigger field straight from storage.
func (s *DefaultService) CurrentTrigger(ctx context.Context, c domain.Collection, identifier string) (*scene.Trigger, error) {
	rec, err := s.resolve(ctx, c, identifier)
	if err != nil {
		return nil, err
	}
	return storedTrigger(rec), nil
}

func (s *DefaultService) SubscribeTriggers(ctx context.Context, id string) (<-chan []byte, error) {
	return s.cache.Subscribe(ctx, triggerChannel(id))
}
