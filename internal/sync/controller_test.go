package sync

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"invitation-canvas-editor/internal/domain"
	"invitation-canvas-editor/internal/scene"
)

// MockBackend is a mock implementation of the Backend interface
type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) Get(ctx context.Context, c domain.Collection, identifier string) (*domain.Record, error) {
	args := m.Called(ctx, c, identifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Record), args.Error(1)
}

func (m *MockBackend) Create(ctx context.Context, c domain.Collection, rec domain.Record) (*Created, error) {
	args := m.Called(ctx, c, rec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Created), args.Error(1)
}

func (m *MockBackend) Update(ctx context.Context, c domain.Collection, id string, patch domain.RecordPatch) error {
	return m.Called(ctx, c, id, patch).Error(0)
}

const storedID = "8f14e45f-ceea-467f-a0e6-4b0f1c2c7a11"

func storedRecord() *domain.Record {
	return &domain.Record{
		ID:       storedID,
		Slug:     "budi-ani",
		Name:     "Budi & Ani",
		Type:     "invitation",
		Zoom:     1,
		Sections: `[{"id":"s1","key":"opening","order":0,"elements":[]}]`,
		Layers:   `[]`,
	}
}

func TestController_SaveBeforeLoadMakesNoCalls(t *testing.T) {
	for _, identifier := range []string{"budi-ani", storedID} {
		t.Run(identifier, func(t *testing.T) {
			backend := new(MockBackend)
			ctrl := NewController(backend, domain.CollectionInvitations, identifier)

			_, err := ctrl.Save(context.Background(), scene.NewDocument("", "budi-ani", "x", scene.TypeInvitation))
			assert.True(t, IsGuard(err))
			assert.Equal(t, StateSaveBlocked, ctrl.State())
			backend.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
			backend.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestController_SaveDuringLoadIsBlocked(t *testing.T) {
	backend := new(MockBackend)
	release := make(chan time.Time)
	backend.On("Get", mock.Anything, domain.CollectionInvitations, "budi-ani").
		WaitUntil(release).
		Return(storedRecord(), nil)

	ctrl := NewController(backend, domain.CollectionInvitations, "budi-ani")
	loaded := make(chan error, 1)
	go func() {
		_, err := ctrl.Load(context.Background())
		loaded <- err
	}()
	require.Eventually(t, func() bool { return ctrl.State() == StateLoading }, time.Second, time.Millisecond)

	_, err := ctrl.Save(context.Background(), scene.NewDocument("", "budi-ani", "", scene.TypeInvitation))
	var guard *GuardError
	require.ErrorAs(t, err, &guard)
	assert.Contains(t, guard.Reason, "load")

	close(release)
	require.NoError(t, <-loaded)
	assert.Equal(t, StateLoaded, ctrl.State())
	backend.AssertNumberOfCalls(t, "Get", 1)
	backend.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestController_LoadResolvesSlugThenUpdates(t *testing.T) {
	backend := new(MockBackend)
	backend.On("Get", mock.Anything, domain.CollectionInvitations, "budi-ani").Return(storedRecord(), nil)
	backend.On("Update", mock.Anything, domain.CollectionInvitations, storedID, mock.MatchedBy(func(p domain.RecordPatch) bool {
		return p.Name != nil && *p.Name == "Renamed" && p.Sections != nil && p.ActiveTrigger == nil
	})).Return(nil)

	ctrl := NewController(backend, domain.CollectionInvitations, "budi-ani")
	doc, err := ctrl.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, ctrl.Status().HasData)
	assert.Equal(t, storedID, ctrl.StorageID())
	require.Len(t, doc.Sections, 1)

	doc.Name = "Renamed"
	result, err := ctrl.Save(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, SaveResult{ID: storedID, Slug: "budi-ani"}, result)
	assert.Equal(t, StateSaved, ctrl.State())
	backend.AssertExpectations(t)
}

func TestController_DualTableFallback(t *testing.T) {
	backend := new(MockBackend)
	tpl := storedRecord()
	backend.On("Get", mock.Anything, domain.CollectionInvitations, storedID).Return(nil, ErrNotFound)
	backend.On("Get", mock.Anything, domain.CollectionTemplates, storedID).Return(tpl, nil)
	backend.On("Update", mock.Anything, domain.CollectionTemplates, storedID, mock.Anything).Return(nil)

	ctrl := NewController(backend, domain.CollectionInvitations, storedID)
	doc, err := ctrl.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "budi-ani", doc.Slug)
	assert.Equal(t, domain.CollectionTemplates, ctrl.Collection())

	_, err = ctrl.Save(context.Background(), doc)
	require.NoError(t, err)
	backend.AssertExpectations(t)
}

func TestController_NotFoundAnywhereIsNewDocument(t *testing.T) {
	backend := new(MockBackend)
	backend.On("Get", mock.Anything, mock.Anything, "fresh-slug").Return(nil, ErrNotFound)
	backend.On("Create", mock.Anything, domain.CollectionInvitations, mock.MatchedBy(func(rec domain.Record) bool {
		return rec.ID == "" && rec.Slug == "fresh-slug"
	})).Return(&Created{Record: domain.Record{ID: storedID, Slug: "fresh-slug-k3x9"}, RequestedSlug: "fresh-slug"}, nil)
	backend.On("Update", mock.Anything, domain.CollectionInvitations, storedID, mock.Anything).Return(nil)

	ctrl := NewController(backend, domain.CollectionInvitations, "fresh-slug")
	doc, err := ctrl.Load(context.Background())
	require.NoError(t, err)
	assert.False(t, ctrl.Status().HasData)
	assert.Equal(t, "fresh-slug", doc.Slug)
	backend.AssertNumberOfCalls(t, "Get", 2)

	result, err := ctrl.Save(context.Background(), doc)
	require.NoError(t, err)
	assert.True(t, result.Created)
	assert.True(t, result.SlugChanged)
	assert.Equal(t, storedID, doc.ID)
	assert.Equal(t, "fresh-slug-k3x9", doc.Slug)

	// the second save updates the created document
	_, err = ctrl.Save(context.Background(), doc)
	require.NoError(t, err)
	backend.AssertNumberOfCalls(t, "Create", 1)
	backend.AssertNumberOfCalls(t, "Update", 1)
}

func TestController_NewOpaqueIDKeepsID(t *testing.T) {
	backend := new(MockBackend)
	backend.On("Get", mock.Anything, mock.Anything, storedID).Return(nil, ErrNotFound)
	backend.On("Create", mock.Anything, domain.CollectionInvitations, mock.MatchedBy(func(rec domain.Record) bool {
		return rec.ID == storedID
	})).Return(&Created{Record: domain.Record{ID: storedID, Slug: storedID}}, nil)

	ctrl := NewController(backend, domain.CollectionInvitations, storedID)
	doc, err := ctrl.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, storedID, doc.ID)

	result, err := ctrl.Save(context.Background(), doc)
	require.NoError(t, err)
	assert.True(t, result.Created)
	assert.False(t, result.SlugChanged)
}

func TestController_LoadFailureBlocksSave(t *testing.T) {
	backend := new(MockBackend)
	backend.On("Get", mock.Anything, domain.CollectionInvitations, "budi-ani").Return(nil, errors.New("connection refused"))

	ctrl := NewController(backend, domain.CollectionInvitations, "budi-ani")
	_, err := ctrl.Load(context.Background())
	var perr *PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Equal(t, StateLoadFailed, ctrl.State())
	backend.AssertNumberOfCalls(t, "Get", 1)

	_, err = ctrl.Save(context.Background(), scene.NewDocument("", "budi-ani", "", scene.TypeInvitation))
	assert.True(t, IsGuard(err))
}

func TestController_CloseAbandonsLoad(t *testing.T) {
	backend := new(MockBackend)
	release := make(chan time.Time)
	backend.On("Get", mock.Anything, domain.CollectionInvitations, "budi-ani").
		WaitUntil(release).
		Return(storedRecord(), nil)

	ctrl := NewController(backend, domain.CollectionInvitations, "budi-ani")
	loaded := make(chan error, 1)
	go func() {
		_, err := ctrl.Load(context.Background())
		loaded <- err
	}()
	require.Eventually(t, func() bool { return ctrl.State() == StateLoading }, time.Second, time.Millisecond)

	ctrl.Close()
	close(release)
	assert.ErrorIs(t, <-loaded, ErrAbandoned)
	assert.Empty(t, ctrl.StorageID(), "abandoned result is discarded")
}

func TestController_SaveFailures(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		slugTake bool
	}{
		{"network", errors.New("timeout"), false},
		{"slug taken", fmt.Errorf("%w: budi-ani", ErrSlugTaken), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := new(MockBackend)
			backend.On("Get", mock.Anything, domain.CollectionInvitations, storedID).Return(storedRecord(), nil)
			backend.On("Update", mock.Anything, domain.CollectionInvitations, storedID, mock.Anything).Return(tt.err).Once()

			ctrl := NewController(backend, domain.CollectionInvitations, storedID)
			doc, err := ctrl.Load(context.Background())
			require.NoError(t, err)

			_, err = ctrl.Save(context.Background(), doc)
			require.Error(t, err)
			assert.Equal(t, tt.slugTake, errors.Is(err, ErrSlugTaken))
			assert.False(t, IsGuard(err))
			assert.Equal(t, StateSaveFailed, ctrl.State())
			assert.Equal(t, err, ctrl.Status().Err)
			backend.AssertNumberOfCalls(t, "Update", 1)
		})
	}
}

func TestController_OneSaveInFlight(t *testing.T) {
	backend := new(MockBackend)
	release := make(chan time.Time)
	backend.On("Get", mock.Anything, domain.CollectionInvitations, storedID).Return(storedRecord(), nil)
	backend.On("Update", mock.Anything, domain.CollectionInvitations, storedID, mock.Anything).
		WaitUntil(release).
		Return(nil)

	ctrl := NewController(backend, domain.CollectionInvitations, storedID)
	doc, err := ctrl.Load(context.Background())
	require.NoError(t, err)

	first := make(chan error, 1)
	go func() {
		_, err := ctrl.Save(context.Background(), doc)
		first <- err
	}()
	require.Eventually(t, func() bool { return ctrl.State() == StateSaving }, time.Second, time.Millisecond)

	_, err = ctrl.Save(context.Background(), doc)
	assert.True(t, IsGuard(err))
	assert.Equal(t, StateSaving, ctrl.State(), "a rejected save does not hide the one in flight")

	close(release)
	require.NoError(t, <-first)
	backend.AssertNumberOfCalls(t, "Update", 1)
}

func TestController_FieldLevelRecovery(t *testing.T) {
	backend := new(MockBackend)
	rec := storedRecord()
	rec.Sections = "{not valid json"
	rec.Layers = `[{"id":"l1","type":"text","x":107,"y":400,"width":200,"height":50,"content":"Hello"}]`
	backend.On("Get", mock.Anything, domain.CollectionInvitations, storedID).Return(rec, nil)

	ctrl := NewController(backend, domain.CollectionInvitations, storedID)
	doc, err := ctrl.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, doc.Sections)
	require.Len(t, doc.Layers, 1)
	assert.Equal(t, "Hello", doc.Layers[0].Content)
	require.Len(t, ctrl.FieldErrors(), 1)
	assert.Equal(t, "sections", ctrl.FieldErrors()[0].Field)
}

func TestController_Triggers(t *testing.T) {
	backend := new(MockBackend)
	rec := storedRecord()
	rec.ActiveTrigger = `{"effect":"confetti","timestamp":12}`
	backend.On("Get", mock.Anything, domain.CollectionInvitations, storedID).Return(rec, nil)

	ctrl := NewController(backend, domain.CollectionInvitations, storedID)
	_, err := ctrl.Load(context.Background())
	require.NoError(t, err)

	got, err := ctrl.Triggers().FetchTrigger(context.Background())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, scene.Trigger{Effect: "confetti", Timestamp: 12}, *got)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "save_blocked", StateSaveBlocked.String())
	assert.Equal(t, "loaded", StateLoaded.String())
	assert.Equal(t, "unknown", State(99).String())
}
