package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/monirportfolio/portfolio-server/internal/resource"
	"github.com/monirportfolio/portfolio-server/internal/resource/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool                     `json:"success"`
	Data    []map[string]interface{} `json:"data"`
	Message string                   `json:"message"`
	Error   string                   `json:"error"`
}

func do(t *testing.T, g *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	g.ServeHTTP(w, req)
	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func newEngine(svcs ...service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	g := gin.New()
	for _, s := range svcs {
		RegisterResourceRoutes(g, s)
	}
	return g
}

func TestProjectHandler_CRUD(t *testing.T) {
	g := newEngine(service.NewMemoryService(resource.Project))

	// create
	w, env := do(t, g, http.MethodPost, "/create-project", `{"title":"A","tags":["go"]}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, env.Success)
	require.Equal(t, "Successfully added your Project", env.Message)

	// list
	w, env = do(t, g, http.MethodGet, "/all-projects", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, env.Success)
	require.Equal(t, "All Projects retrieved successfully", env.Message)
	require.Len(t, env.Data, 1)
	doc := env.Data[0]
	id, ok := doc["_id"].(string)
	require.True(t, ok)
	require.Len(t, id, 24)
	assert.Equal(t, "A", doc["title"])
	assert.Equal(t, []interface{}{"go"}, doc["tags"])
	createdAt, ok := doc["createdAt"].(string)
	require.True(t, ok)
	_, err := time.Parse(time.RFC3339, createdAt)
	require.NoError(t, err)

	// update merges and ignores payload id
	w, env = do(t, g, http.MethodPatch, "/projects/"+id, `{"_id":"0123456789abcdef01234567","id":"x","summary":"s"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, env.Success)
	require.Equal(t, "Project updated successfully", env.Message)

	_, env = do(t, g, http.MethodGet, "/all-projects", "")
	require.Len(t, env.Data, 1)
	assert.Equal(t, id, env.Data[0]["_id"])
	assert.Equal(t, "A", env.Data[0]["title"])
	assert.Equal(t, "s", env.Data[0]["summary"])
	assert.NotContains(t, env.Data[0], "id")

	// delete
	w, env = do(t, g, http.MethodDelete, "/projects/"+id, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, env.Success)
	require.Equal(t, "Project deleted successfully.", env.Message)

	_, env = do(t, g, http.MethodGet, "/all-projects", "")
	require.Empty(t, env.Data)

	// second delete is not-found
	w, env = do(t, g, http.MethodDelete, "/projects/"+id, "")
	require.Equal(t, http.StatusNotFound, w.Code)
	require.False(t, env.Success)
	require.Equal(t, "Couldn't delete the Project", env.Error)
}

func TestListEmptyCollectionRendersEmptyArray(t *testing.T) {
	g := newEngine(service.NewMemoryService(resource.Blog))
	w := httptest.NewRecorder()
	g.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/all-blogs", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"success":true,"data":[],"message":"All Blogs retrieved successfully"}`, w.Body.String())
}

func TestUpdateMissingIDIsNotFound(t *testing.T) {
	svc := service.NewMemoryService(resource.Project)
	g := newEngine(svc)
	_, _ = do(t, g, http.MethodPost, "/create-project", `{"title":"keep"}`)

	w, env := do(t, g, http.MethodPatch, "/projects/0123456789abcdef01234567", `{"title":"B"}`)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.False(t, env.Success)
	require.Equal(t, "Project not found or couldn't be updated", env.Error)

	// collection unchanged
	_, env = do(t, g, http.MethodGet, "/all-projects", "")
	require.Len(t, env.Data, 1)
	require.Equal(t, "keep", env.Data[0]["title"])
}

func TestInvalidIdentifierUsesGenericErrorPath(t *testing.T) {
	g := newEngine(service.NewMemoryService(resource.Skill))

	w, env := do(t, g, http.MethodPatch, "/skills/not-hex", `{"a":1}`)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.False(t, env.Success)
	require.Equal(t, "Internal server error", env.Error)

	w, env = do(t, g, http.MethodDelete, "/skills/not-hex", "")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.False(t, env.Success)
	require.Contains(t, env.Error, "invalid identifier")
}

func TestSkillAndBlogPaths(t *testing.T) {
	g := newEngine(service.NewMemoryService(resource.Blog), service.NewMemoryService(resource.Skill))

	w, env := do(t, g, http.MethodPost, "/create-skill", `{"name":"Go"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Successfully added your skill", env.Message)

	_, env = do(t, g, http.MethodGet, "/skills", "")
	require.Equal(t, "All skills retrieved successfully", env.Message)
	require.Len(t, env.Data, 1)
	id := env.Data[0]["_id"].(string)

	w, env = do(t, g, http.MethodPatch, "/skills/"+id, `{"level":"expert"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Skill updated successfully", env.Message)

	w, env = do(t, g, http.MethodPost, "/create-blog", `{"title":"Post"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Successfully added your Blog", env.Message)

	_, env = do(t, g, http.MethodGet, "/all-blogs", "")
	require.Len(t, env.Data, 1)
	require.NotContains(t, env.Data[0], "createdAt")
}

func TestProjectListNewestFirst(t *testing.T) {
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	svc := service.NewMemoryService(resource.Project, service.WithClock(func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}))
	g := newEngine(svc)

	_, _ = do(t, g, http.MethodPost, "/create-project", `{"title":"t1"}`)
	_, _ = do(t, g, http.MethodPost, "/create-project", `{"title":"t2"}`)

	_, env := do(t, g, http.MethodGet, "/all-projects", "")
	require.Len(t, env.Data, 2)
	require.Equal(t, "t2", env.Data[0]["title"])
	require.Equal(t, "t1", env.Data[1]["title"])
}

func TestCreateRejectsNonObjectBody(t *testing.T) {
	g := newEngine(service.NewMemoryService(resource.Blog))
	w, env := do(t, g, http.MethodPost, "/create-blog", `["not","an","object"]`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.False(t, env.Success)
}

func TestCreateAcceptsEmptyBody(t *testing.T) {
	g := newEngine(service.NewMemoryService(resource.Blog))
	req := httptest.NewRequest(http.MethodPost, "/create-blog", nil)
	w := httptest.NewRecorder()
	g.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestGuardOnlyProtectsMutatingRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	g := gin.New()
	deny := func(c *gin.Context) { c.AbortWithStatusJSON(http.StatusUnauthorized, Envelope{Error: "denied"}) }
	RegisterResourceRoutes(g, service.NewMemoryService(resource.Skill), deny)

	w, _ := do(t, g, http.MethodGet, "/skills", "")
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = do(t, g, http.MethodPost, "/create-skill", `{"name":"Go"}`)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	w, _ = do(t, g, http.MethodDelete, "/skills/0123456789abcdef01234567", "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

// failingService lets tests drive the store-fault and no-id paths.
type failingService struct {
	kind      resource.Kind
	err       error
	createErr error
}

func (f *failingService) Kind() resource.Kind { return f.kind }
func (f *failingService) List(ctx context.Context) ([]resource.Document, error) {
	return nil, f.err
}
func (f *failingService) Create(ctx context.Context, fields resource.Document) (string, error) {
	return "", f.createErr
}
func (f *failingService) Update(ctx context.Context, id string, fields resource.Document) error {
	return f.err
}
func (f *failingService) Delete(ctx context.Context, id string) error { return f.err }

func TestStoreFaults(t *testing.T) {
	boom := errors.New("connection reset")
	g := newEngine(&failingService{kind: resource.Project, err: boom, createErr: boom})

	// list faults are not recovered into an envelope
	w := httptest.NewRecorder()
	g.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/all-projects", nil))
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Empty(t, w.Body.String())

	w2, env := do(t, g, http.MethodPost, "/create-project", `{"title":"A"}`)
	require.Equal(t, http.StatusInternalServerError, w2.Code)
	require.False(t, env.Success)
	require.Equal(t, "connection reset", env.Error)

	w2, env = do(t, g, http.MethodPatch, "/projects/0123456789abcdef01234567", `{"title":"A"}`)
	require.Equal(t, http.StatusInternalServerError, w2.Code)
	require.Equal(t, "Internal server error", env.Error)

	w2, env = do(t, g, http.MethodDelete, "/projects/0123456789abcdef01234567", "")
	require.Equal(t, http.StatusInternalServerError, w2.Code)
	require.Equal(t, "connection reset", env.Error)
}

func TestCreateWithoutAssignedID(t *testing.T) {
	g := newEngine(&failingService{kind: resource.Skill, createErr: service.ErrNotCreated})
	w, env := do(t, g, http.MethodPost, "/create-skill", `{"name":"Go"}`)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.False(t, env.Success)
	require.Equal(t, "Couldn't add the skill", env.Error)
}

func TestNullBodyIsRejected(t *testing.T) {
	g := newEngine(service.NewMemoryService(resource.Project))

	w, env := do(t, g, http.MethodPost, "/create-project", `null`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.False(t, env.Success)
	require.Equal(t, "request body must be a JSON object", env.Error)

	_, env = do(t, g, http.MethodGet, "/all-projects", "")
	require.Empty(t, env.Data)

	_, _ = do(t, g, http.MethodPost, "/create-project", `{"title":"keep"}`)
	_, env = do(t, g, http.MethodGet, "/all-projects", "")
	require.Len(t, env.Data, 1)
	id := env.Data[0]["_id"].(string)

	w, env = do(t, g, http.MethodPatch, "/projects/"+id, `null`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.False(t, env.Success)

	_, env = do(t, g, http.MethodGet, "/all-projects", "")
	require.Equal(t, "keep", env.Data[0]["title"])
}
