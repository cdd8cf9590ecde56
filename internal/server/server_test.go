package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invitation-canvas-editor/internal/config"
	"invitation-canvas-editor/internal/db"
	"invitation-canvas-editor/internal/domain"
	"invitation-canvas-editor/internal/editor"
	"invitation-canvas-editor/internal/scene"
	"invitation-canvas-editor/internal/sync"
	"invitation-canvas-editor/internal/trigger"
	"invitation-canvas-editor/internal/worker"
	"invitation-canvas-editor/redis"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := db.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close(gdb) })
	require.NoError(t, db.Migrate(gdb))

	mr := miniredis.RunT(t)
	client := redis.NewClient(context.Background(), mr.Addr())
	require.NotNil(t, client)
	t.Cleanup(func() { _ = client.Close() })

	pool := worker.NewWorkerPool(2)
	t.Cleanup(pool.Shutdown)

	router := NewRouter(Deps{
		Config: config.Config{
			Environment: "test",
			JWTSecret:   "server-test-secret",
			CacheTTL:    time.Minute,
			StorageRoot: t.TempDir(),
		},
		DB:      gdb,
		Cache:   redis.NewCache(client),
		Workers: pool,
	})
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func login(t *testing.T, server *httptest.Server, email string) *sync.HTTPClient {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"name": "Host", "email": email, "password": "password123"})
	resp, err := http.Post(server.URL+"/register", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	client := sync.NewHTTPClient(server.URL)
	_, err = client.Login(context.Background(), email, "password123")
	require.NoError(t, err)
	return client
}

func TestCreateAndPersistRoundTrip(t *testing.T) {
	server := newTestServer(t)
	client := login(t, server, "host@example.com")
	ctx := context.Background()

	// a fresh editor with no stored document
	ctrl := sync.NewController(client, domain.CollectionInvitations, "")
	doc, err := ctrl.Load(ctx)
	require.NoError(t, err)
	doc.Slug = "budi-ani"

	session := editor.NewSession(doc)
	sec, err := session.AddSection("opening", "Opening")
	require.NoError(t, err)
	_, err = session.AddLayer(sec.ID, scene.LayerText, scene.Patch{
		"x": 107, "y": 400, "width": 200, "height": 50, "content": "Hello",
	})
	require.NoError(t, err)

	result, err := ctrl.Save(ctx, session.Document())
	require.NoError(t, err)
	assert.True(t, result.Created)
	assert.Equal(t, "budi-ani", result.Slug)

	// reload from a fresh in-memory state, by slug
	reloaded := sync.NewController(client, domain.CollectionInvitations, "budi-ani")
	got, err := reloaded.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, result.ID, reloaded.StorageID())
	require.Len(t, got.Sections, 1)
	assert.Equal(t, "opening", got.Sections[0].Key)
	require.Len(t, got.Sections[0].Elements, 1)
	assert.Equal(t, "Hello", got.Sections[0].Elements[0].Content)

	// a partial save keeps the stored sections
	got.Name = "Budi & Ani"
	_, err = reloaded.Save(ctx, got)
	require.NoError(t, err)

	rec, err := client.Get(ctx, domain.CollectionInvitations, result.ID)
	require.NoError(t, err)
	assert.Equal(t, "Budi & Ani", rec.Name)
	assert.Contains(t, rec.Sections, "Hello")
}

func TestSlugCollisionThroughAPI(t *testing.T) {
	server := newTestServer(t)
	client := login(t, server, "host@example.com")
	ctx := context.Background()

	first, err := client.Create(ctx, domain.CollectionInvitations, domain.Record{Slug: "budi-ani", Name: "First"})
	require.NoError(t, err)
	second, err := client.Create(ctx, domain.CollectionInvitations, domain.Record{Slug: "budi-ani", Name: "Second"})
	require.NoError(t, err)

	assert.Equal(t, "budi-ani", first.Slug)
	assert.Regexp(t, `^budi-ani-[a-z0-9]{4}$`, second.Slug)
	assert.Equal(t, "budi-ani", second.RequestedSlug)

	taken := "budi-ani"
	err = client.Update(ctx, domain.CollectionInvitations, second.ID, domain.RecordPatch{Slug: &taken})
	assert.True(t, errors.Is(err, sync.ErrSlugTaken))
}

func TestTemplateFallbackThroughAPI(t *testing.T) {
	server := newTestServer(t)
	client := login(t, server, "host@example.com")
	ctx := context.Background()

	tpl, err := client.Create(ctx, domain.CollectionTemplates, domain.Record{Slug: "rustic", Name: "Rustic"})
	require.NoError(t, err)

	ctrl := sync.NewController(client, domain.CollectionInvitations, tpl.ID)
	doc, err := ctrl.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Rustic", doc.Name)
	assert.Equal(t, domain.CollectionTemplates, ctrl.Collection())
}

func TestWritesNeedToken(t *testing.T) {
	server := newTestServer(t)
	ctx := context.Background()

	anonymous := sync.NewHTTPClient(server.URL)
	_, err := anonymous.Create(ctx, domain.CollectionInvitations, domain.Record{Slug: "nope"})
	var st *sync.StatusError
	require.ErrorAs(t, err, &st)
	assert.Equal(t, http.StatusUnauthorized, st.Status)

	_, err = anonymous.Get(ctx, domain.CollectionInvitations, "nope")
	assert.ErrorIs(t, err, sync.ErrNotFound)

	records, err := anonymous.List(ctx, domain.CollectionInvitations, url.Values{"published": {"true"}})
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestTriggerBroadcastReachesWatcher(t *testing.T) {
	server := newTestServer(t)
	host := login(t, server, "host@example.com")
	ctx := context.Background()

	created, err := host.Create(ctx, domain.CollectionInvitations, domain.Record{Slug: "party"})
	require.NoError(t, err)

	// the guest display polls anonymously
	guest := sync.NewController(sync.NewHTTPClient(server.URL), domain.CollectionInvitations, "party")
	_, err = guest.Load(ctx)
	require.NoError(t, err)
	watcher := trigger.NewWatcher(guest.Triggers(), time.Hour)

	_, ok, err := watcher.Poll(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	fired, err := host.FireTrigger(ctx, domain.CollectionInvitations, created.ID, scene.Trigger{Effect: "confetti", Name: "Budi"})
	require.NoError(t, err)

	got, ok, err := watcher.Poll(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, *fired, got)

	_, ok, err = watcher.Poll(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "played at most once")
}

func TestUploadThroughAPI(t *testing.T) {
	server := newTestServer(t)
	client := login(t, server, "host@example.com")

	png := []byte{
		0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a,
		0x00, 0x00, 0x00, 0x0d, 0x49, 0x48, 0x44, 0x52,
		0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
		0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4,
		0x89,
	}
	obj, err := client.Upload(context.Background(), "bg.png", bytes.NewReader(png))
	require.NoError(t, err)
	assert.NotEmpty(t, obj.Key)

	resp, err := http.Get(server.URL + "/media/" + obj.Key)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
