package rest_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"memoryvault/application/store"
	"memoryvault/domain/entities"
	"memoryvault/infrastructure/config"
	"memoryvault/infrastructure/persistence/memstore"
	"memoryvault/interfaces/http/rest"
	"memoryvault/pkg/auth"
	"memoryvault/pkg/observability"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type testServer struct {
	handler  http.Handler
	memories *store.MemoryStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()
	logger := zap.NewNop()
	kv := memstore.New()

	memories, err := store.NewMemoryStore(ctx, kv, logger)
	require.NoError(t, err)
	sessions, err := store.NewSessionStore(ctx, kv, logger)
	require.NoError(t, err)

	cfg := &config.Config{
		CORSOrigins: []string{"http://localhost:3000"},
		JWT: config.JWT{
			Secret: "test-secret",
			Issuer: "memoryvault",
			TTL:    time.Hour,
		},
	}
	tokens := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TTL)
	metrics := observability.NewMetrics()

	return &testServer{
		handler:  rest.NewRouter(memories, sessions, tokens, metrics, cfg, logger).Setup(),
		memories: memories,
	}
}

func (ts *testServer) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "192.0.2.1:1234"
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func (ts *testServer) register(t *testing.T, name, email, role string) (entities.User, string) {
	t.Helper()
	rec, env := ts.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"name":     name,
		"email":    email,
		"password": "pw-123456",
		"role":     role,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		User  entities.User `json:"user"`
		Token string        `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	require.NotEmpty(t, resp.Token)
	return resp.User, resp.Token
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)
	rec, env := ts.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
}

func TestSignIn(t *testing.T) {
	ts := newTestServer(t)

	rec, env := ts.do(t, http.MethodPost, "/api/v1/auth/signin", "", map[string]string{
		"email":    "john@example.com",
		"password": "pw-123456",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		User  entities.User `json:"user"`
		Token string        `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.Equal(t, "john", resp.User.Name)
	assert.Equal(t, entities.RoleCreator, resp.User.Role)
	assert.NotEmpty(t, resp.Token)

	// The identity is mirrored into the users collection
	_, ok := ts.memories.UserByID(resp.User.ID)
	assert.True(t, ok)
}

func TestSignIn_RejectsMalformedBody(t *testing.T) {
	ts := newTestServer(t)

	rec, env := ts.do(t, http.MethodPost, "/api/v1/auth/signin", "", map[string]string{
		"email": "not-an-email",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)
}

func TestAuthMe(t *testing.T) {
	ts := newTestServer(t)
	user, token := ts.register(t, "John Doe", "john@example.com", "")

	rec, env := ts.do(t, http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var me map[string]string
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.Equal(t, user.ID, me["id"])
	assert.Equal(t, "john@example.com", me["email"])
}

func TestAuthenticatedEndpointsRejectMissingToken(t *testing.T) {
	ts := newTestServer(t)

	for _, path := range []string{"/api/v1/memories", "/api/v1/users", "/api/v1/auth/me"} {
		rec, _ := ts.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}

	rec, _ := ts.do(t, http.MethodGet, "/api/v1/auth/me", "not-a-valid-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateMemory(t *testing.T) {
	ts := newTestServer(t)
	user, token := ts.register(t, "John Doe", "john@example.com", "")

	rec, env := ts.do(t, http.MethodPost, "/api/v1/memories", token, map[string]string{
		"title":       "  Graduation Day  ",
		"description": "Finally done",
		"date":        "2024-06-15",
		"location":    "City Hall",
		"category":    "Celebration",
		"tags":        "graduation, milestone",
		"privacy":     "public",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		entities.Memory
		LikedByMe bool `json:"likedByMe"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "Graduation Day", created.Title)
	assert.Equal(t, user.ID, created.CreatorID)
	assert.Equal(t, []string{"graduation", "milestone"}, created.Tags)
	assert.Equal(t, 0, created.Likes)
	assert.False(t, created.LikedByMe)
}

func TestCreateMemory_BlankTitle(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.register(t, "John Doe", "john@example.com", "")

	rec, env := ts.do(t, http.MethodPost, "/api/v1/memories", token, map[string]string{
		"title": "   ",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "EmptyTitle", env.Error.Code)
}

func TestCreateMemory_UnknownCategory(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.register(t, "John Doe", "john@example.com", "")

	rec, _ := ts.do(t, http.MethodPost, "/api/v1/memories", token, map[string]string{
		"title":    "Valid title",
		"category": "Gardening",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListMemories_ReturnsOnlyCallersOwn(t *testing.T) {
	ts := newTestServer(t)
	_, tokenA := ts.register(t, "A", "a@example.com", "")
	_, tokenB := ts.register(t, "B", "b@example.com", "")

	rec, _ := ts.do(t, http.MethodPost, "/api/v1/memories", tokenA, map[string]string{"title": "Mine"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, env := ts.do(t, http.MethodGet, "/api/v1/memories", tokenA, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var mine []json.RawMessage
	require.NoError(t, json.Unmarshal(env.Data, &mine))
	assert.Len(t, mine, 1)

	rec, env = ts.do(t, http.MethodGet, "/api/v1/memories", tokenB, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var theirs []json.RawMessage
	require.NoError(t, json.Unmarshal(env.Data, &theirs))
	assert.Empty(t, theirs)
}

func TestUpdateAndDeleteMemory_CreatorOnly(t *testing.T) {
	ts := newTestServer(t)
	_, tokenA := ts.register(t, "A", "a@example.com", "")
	_, tokenB := ts.register(t, "B", "b@example.com", "")

	rec, env := ts.do(t, http.MethodPost, "/api/v1/memories", tokenA, map[string]string{"title": "Mine"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created entities.Memory
	require.NoError(t, json.Unmarshal(env.Data, &created))

	// Another user cannot edit or delete it
	rec, _ = ts.do(t, http.MethodPut, "/api/v1/memories/"+created.ID, tokenB, map[string]string{"title": "Stolen"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec, _ = ts.do(t, http.MethodDelete, "/api/v1/memories/"+created.ID, tokenB, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// The creator can
	rec, env = ts.do(t, http.MethodPut, "/api/v1/memories/"+created.ID, tokenA, map[string]string{"title": "Renamed"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated entities.Memory
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, "Renamed", updated.Title)

	rec, _ = ts.do(t, http.MethodDelete, "/api/v1/memories/"+created.ID, tokenA, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = ts.do(t, http.MethodGet, "/api/v1/memories/"+created.ID, tokenA, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLikeMemory_ToggleOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	_, tokenA := ts.register(t, "A", "a@example.com", "")
	_, tokenB := ts.register(t, "B", "b@example.com", "")

	rec, env := ts.do(t, http.MethodPost, "/api/v1/memories", tokenA, map[string]string{"title": "Likeable"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created entities.Memory
	require.NoError(t, json.Unmarshal(env.Data, &created))

	likePath := fmt.Sprintf("/api/v1/memories/%s/like", created.ID)

	rec, env = ts.do(t, http.MethodPost, likePath, tokenB, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var likeResp struct {
		Likes     int  `json:"likes"`
		LikedByMe bool `json:"likedByMe"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &likeResp))
	assert.Equal(t, 1, likeResp.Likes)
	assert.True(t, likeResp.LikedByMe)

	rec, env = ts.do(t, http.MethodPost, likePath, tokenB, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &likeResp))
	assert.Equal(t, 0, likeResp.Likes)
	assert.False(t, likeResp.LikedByMe)

	rec, _ = ts.do(t, http.MethodPost, "/api/v1/memories/missing/like", tokenB, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAddComment_OverHTTP(t *testing.T) {
	ts := newTestServer(t)
	_, tokenA := ts.register(t, "A", "a@example.com", "")
	userB, tokenB := ts.register(t, "B", "b@example.com", "")

	rec, env := ts.do(t, http.MethodPost, "/api/v1/memories", tokenA, map[string]string{"title": "Commented"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created entities.Memory
	require.NoError(t, json.Unmarshal(env.Data, &created))

	rec, env = ts.do(t, http.MethodPost, "/api/v1/memories/"+created.ID+"/comments", tokenB, map[string]string{
		"text": "Congratulations!",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var comment entities.Comment
	require.NoError(t, json.Unmarshal(env.Data, &comment))
	assert.Equal(t, userB.ID, comment.UserID)
	assert.Equal(t, "Congratulations!", comment.Text)

	rec, _ = ts.do(t, http.MethodPost, "/api/v1/memories/missing/comments", tokenB, map[string]string{"text": "hi"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = ts.do(t, http.MethodPost, "/api/v1/memories/"+created.ID+"/comments", tokenB, map[string]string{"text": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListPublicMemories_FiltersAndAnonymousAccess(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.register(t, "A", "a@example.com", "")

	rec, _ := ts.do(t, http.MethodPost, "/api/v1/memories", token, map[string]string{
		"title":    "Beach Day",
		"location": "Sunset Beach",
		"category": "Travel",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec, _ = ts.do(t, http.MethodPost, "/api/v1/memories", token, map[string]string{
		"title":   "Secret",
		"privacy": "private",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	// No token needed; the seed collection already has public memories
	rec, env := ts.do(t, http.MethodGet, "/api/v1/memories/public?search=beach+day", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var memories []entities.Memory
	require.NoError(t, json.Unmarshal(env.Data, &memories))
	require.Len(t, memories, 1)
	assert.Equal(t, "Beach Day", memories[0].Title)

	rec, env = ts.do(t, http.MethodGet, "/api/v1/memories/public?search=secret", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &memories))
	assert.Empty(t, memories)
}

func TestListPublicMemories_LikedByMeFollowsViewerIdentity(t *testing.T) {
	ts := newTestServer(t)
	_, tokenA := ts.register(t, "A", "a@example.com", "")
	_, tokenB := ts.register(t, "B", "b@example.com", "")

	rec, env := ts.do(t, http.MethodPost, "/api/v1/memories", tokenA, map[string]string{
		"title": "Likeable Landmark",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created entities.Memory
	require.NoError(t, json.Unmarshal(env.Data, &created))

	rec, _ = ts.do(t, http.MethodPost, "/api/v1/memories/"+created.ID+"/like", tokenB, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	listPath := "/api/v1/memories/public?search=likeable+landmark"
	var memories []struct {
		entities.Memory
		LikedByMe bool `json:"likedByMe"`
	}

	// The viewer who liked it sees likedByMe on the public listing
	rec, env = ts.do(t, http.MethodGet, listPath, tokenB, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &memories))
	require.Len(t, memories, 1)
	assert.True(t, memories[0].LikedByMe)

	// A different viewer does not
	rec, env = ts.do(t, http.MethodGet, listPath, tokenA, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &memories))
	require.Len(t, memories, 1)
	assert.False(t, memories[0].LikedByMe)

	// Neither does an anonymous one, and a bad token never blocks the
	// public listing
	for _, token := range []string{"", "not-a-valid-token"} {
		rec, env = ts.do(t, http.MethodGet, listPath, token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.NoError(t, json.Unmarshal(env.Data, &memories))
		require.Len(t, memories, 1)
		assert.False(t, memories[0].LikedByMe)
	}
}

func TestFollowUser_OverHTTP(t *testing.T) {
	ts := newTestServer(t)
	userA, tokenA := ts.register(t, "A", "a@example.com", "")
	userB, _ := ts.register(t, "B", "b@example.com", "")

	rec, env := ts.do(t, http.MethodPost, "/api/v1/users/"+userB.ID+"/follow", tokenA, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var followResp map[string]bool
	require.NoError(t, json.Unmarshal(env.Data, &followResp))
	assert.True(t, followResp["following"])

	// Both sides of the relationship are visible on the profile
	rec, env = ts.do(t, http.MethodGet, "/api/v1/users/"+userB.ID, tokenA, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var profile struct {
		User entities.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &profile))
	assert.True(t, profile.User.HasFollower(userA.ID))

	// Toggling again unfollows
	rec, env = ts.do(t, http.MethodPost, "/api/v1/users/"+userB.ID+"/follow", tokenA, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &followResp))
	assert.False(t, followResp["following"])

	// Self-follow is rejected
	rec, _ = ts.do(t, http.MethodPost, "/api/v1/users/"+userA.ID+"/follow", tokenA, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Unknown target
	rec, _ = ts.do(t, http.MethodPost, "/api/v1/users/missing/follow", tokenA, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetUser_HidesPrivateMemoriesFromOthers(t *testing.T) {
	ts := newTestServer(t)
	userA, tokenA := ts.register(t, "A", "a@example.com", "")
	_, tokenB := ts.register(t, "B", "b@example.com", "")

	rec, _ := ts.do(t, http.MethodPost, "/api/v1/memories", tokenA, map[string]string{"title": "Public one"})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec, _ = ts.do(t, http.MethodPost, "/api/v1/memories", tokenA, map[string]string{"title": "Private one", "privacy": "private"})
	require.Equal(t, http.StatusCreated, rec.Code)

	var profile struct {
		Memories []entities.Memory `json:"memories"`
	}

	rec, env := ts.do(t, http.MethodGet, "/api/v1/users/"+userA.ID, tokenA, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &profile))
	assert.Len(t, profile.Memories, 2)

	rec, env = ts.do(t, http.MethodGet, "/api/v1/users/"+userA.ID, tokenB, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &profile))
	require.Len(t, profile.Memories, 1)
	assert.Equal(t, "Public one", profile.Memories[0].Title)
}

func TestAdminStats_RequiresAdminRole(t *testing.T) {
	ts := newTestServer(t)
	_, creatorToken := ts.register(t, "Creator", "creator@example.com", "")
	_, adminToken := ts.register(t, "Admin", "admin@example.com", "admin")

	rec, _ := ts.do(t, http.MethodGet, "/api/v1/admin/stats", creatorToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, env := ts.do(t, http.MethodGet, "/api/v1/admin/stats", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var stats store.Stats
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	// Seeded users plus the two registered above
	assert.Equal(t, 5, stats.TotalUsers)
	assert.Equal(t, 2, stats.TotalMemories)
}

func TestSignOut(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.register(t, "John Doe", "john@example.com", "")

	rec, _ := ts.do(t, http.MethodPost, "/api/v1/auth/signout", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Tokens remain valid until expiry; only the stored session is cleared
	rec, _ = ts.do(t, http.MethodGet, "/api/v1/auth/me", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
