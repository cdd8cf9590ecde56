package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invitation-canvas-editor/internal/config"
	"invitation-canvas-editor/internal/db"
	"invitation-canvas-editor/internal/scene"
	"invitation-canvas-editor/internal/server"
	"invitation-canvas-editor/internal/worker"
	"invitation-canvas-editor/redis"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	assert.Equal(t, "editorctl", cmd.Use)
	assert.NotNil(t, cmd.PersistentPreRunE)
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"login", "pull", "push", "trigger", "watch", "upload"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, sub.Name())
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"api", "token", "collection", "format"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), name)
	}
	assert.Equal(t, "c", cmd.PersistentFlags().Lookup("collection").Shorthand)
	assert.Equal(t, "invitations", cmd.PersistentFlags().Lookup("collection").DefValue)
	assert.Equal(t, "text", cmd.PersistentFlags().Lookup("format").DefValue)
}

func TestInvalidGlobalFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"format", []string{"--format", "yaml", "pull", "x"}, "invalid format"},
		{"collection", []string{"--collection", "drafts", "pull", "x"}, "invalid collection"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewRootCommand()
			cmd.SetArgs(tt.args)
			cmd.SetOut(&bytes.Buffer{})
			cmd.SetErr(&bytes.Buffer{})
			err := cmd.Execute()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestTriggerRequiresEffect(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"trigger", "budi-ani"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "effect")
}

func newAPI(t *testing.T) string {
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

	srv := httptest.NewServer(server.NewRouter(server.Deps{
		Config: config.Config{
			Environment: "test",
			JWTSecret:   "cli-test-secret",
			CacheTTL:    time.Minute,
			StorageRoot: t.TempDir(),
		},
		DB:      gdb,
		Cache:   redis.NewCache(client),
		Workers: pool,
	}))
	t.Cleanup(srv.Close)

	body, _ := json.Marshal(map[string]string{"name": "Host", "email": "host@example.com", "password": "password123"})
	resp, err := http.Post(srv.URL+"/register", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return srv.URL
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestPushPullTrigger(t *testing.T) {
	api := newAPI(t)

	out, err := run(t, "--api", api, "login", "--email", "host@example.com", "--password", "password123")
	require.NoError(t, err)
	token := strings.TrimSpace(out)
	require.NotEmpty(t, token)

	doc := scene.Document{Slug: "budi-ani", Type: scene.TypeInvitation, Zoom: 1}
	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "doc.json")
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	// first push creates
	out, err = run(t, "--api", api, "--token", token, "push", path)
	require.NoError(t, err)
	assert.Contains(t, out, "created")

	// second push resolves the slug and updates
	out, err = run(t, "--api", api, "--token", token, "push", path)
	require.NoError(t, err)
	assert.Contains(t, out, "saved")

	out, err = run(t, "--api", api, "pull", "budi-ani")
	require.NoError(t, err)
	var pulled scene.Document
	require.NoError(t, json.Unmarshal([]byte(out), &pulled))
	assert.Equal(t, "budi-ani", pulled.Slug)
	assert.NotEmpty(t, pulled.ID)

	out, err = run(t, "--api", api, "--token", token, "--format", "json", "trigger", "budi-ani", "--effect", "confetti", "--name", "Budi")
	require.NoError(t, err)
	var fired scene.Trigger
	require.NoError(t, json.Unmarshal([]byte(out), &fired))
	assert.Equal(t, "confetti", fired.Effect)
	assert.Positive(t, fired.Timestamp)

	out, err = run(t, "--api", api, "watch", "budi-ani", "--replay", "--count", "1", "--interval", "20ms")
	require.NoError(t, err)
	assert.Contains(t, out, "confetti")

	_, err = run(t, "--api", api, "pull", "nobody")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
