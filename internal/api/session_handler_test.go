package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/iarefin28/myva-fitness-tracker-sub000/internal/api"
	"github.com/iarefin28/myva-fitness-tracker-sub000/internal/catalog"
	"github.com/iarefin28/myva-fitness-tracker-sub000/internal/repository"
	"github.com/iarefin28/myva-fitness-tracker-sub000/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

// memStateRepo is an in-memory repository.StateRepository.
type memStateRepo struct {
	mu      sync.Mutex
	payload []byte
}

func (r *memStateRepo) Save(_ context.Context, payload []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payload = append([]byte(nil), payload...)
	return nil
}

func (r *memStateRepo) Load(_ context.Context) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.payload == nil {
		return nil, repository.ErrNotFound
	}
	return append([]byte(nil), r.payload...), nil
}

func (r *memStateRepo) Delete(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payload = nil
	return nil
}

// stubResolver resolves every name to a fixed catalog reference.
type stubResolver struct {
	lastUserTag string
}

func (s *stubResolver) Resolve(_ context.Context, name, userTag string) (catalog.Resolution, error) {
	s.lastUserTag = userTag
	return catalog.Resolution{ID: "cat-" + strings.ToLower(name), ResolvedType: "weighted"}, nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *stubResolver) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	sessions := session.NewSessionService(&memStateRepo{})
	resolver := &stubResolver{}

	router := gin.New()
	api.SetupRoutes(router, testSecret, sessions, resolver)
	return router, resolver
}

func signToken(t *testing.T) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"uid": "user-1"})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func doRequest(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Authorization", "Bearer "+signToken(t))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAuthRequired(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/session/draft", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	req.Header.Set("Authorization", "Bearer not-a-token")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDraftNotFoundBeforeStart(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/session/draft", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(t, router, http.MethodPost, "/api/v1/session/draft/finish", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFullSessionFlow(t *testing.T) {
	router, resolver := newTestRouter(t)

	// Start a draft.
	rec := doRequest(t, router, http.MethodPost, "/api/v1/session/draft", `{"name":""}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	// Add an exercise; the catalog resolver supplies the library reference.
	rec = doRequest(t, router, http.MethodPost, "/api/v1/session/draft/exercises", `{"name":"Bench Press"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "user-1", resolver.lastUserTag)

	var created struct {
		ItemID string `json:"itemId"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.ItemID)

	// Two sets; the second will be undone.
	base := "/api/v1/session/draft/exercises/" + created.ItemID + "/sets"
	rec = doRequest(t, router, http.MethodPost, base, `{"weight":"135","reps":"5"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = doRequest(t, router, http.MethodPost, base, `{"weight":"145","reps":"3"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(t, router, http.MethodPost, "/api/v1/session/draft/undo", "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	// The draft now shows one exercise with one set, resolved to the catalog.
	rec = doRequest(t, router, http.MethodGet, "/api/v1/session/draft", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var draft struct {
		Items []struct {
			Kind      string `json:"kind"`
			LibraryID string `json:"libraryId"`
			Sets      []struct {
				Number int      `json:"number"`
				Weight *float64 `json:"weight"`
				Reps   *int     `json:"reps"`
			} `json:"sets"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &draft))
	require.Len(t, draft.Items, 1)
	require.Equal(t, "exercise", draft.Items[0].Kind)
	require.Equal(t, "cat-bench press", draft.Items[0].LibraryID)
	require.Len(t, draft.Items[0].Sets, 1)
	require.Equal(t, 1, draft.Items[0].Sets[0].Number)
	require.NotNil(t, draft.Items[0].Sets[0].Weight)
	require.Equal(t, 135.0, *draft.Items[0].Sets[0].Weight)

	// Finish: history holds the synthesized-name record.
	rec = doRequest(t, router, http.MethodPost, "/api/v1/session/draft/finish", "")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/api/v1/session/history", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var history []struct {
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	require.Len(t, history, 1)
	require.Contains(t, history[0].Name, "Workout on ")
}

func TestUpdateSetEmptyStringClears(t *testing.T) {
	router, _ := newTestRouter(t)

	doRequest(t, router, http.MethodPost, "/api/v1/session/draft", `{"name":"x"}`)
	rec := doRequest(t, router, http.MethodPost, "/api/v1/session/draft/exercises", `{"name":"Squat","libraryId":"lib-1"}`)
	var created struct {
		ItemID string `json:"itemId"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	setsPath := "/api/v1/session/draft/exercises/" + created.ItemID + "/sets"
	rec = doRequest(t, router, http.MethodPost, setsPath, `{"weight":"225","reps":"5"}`)
	var set struct {
		SetID string `json:"setId"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &set))

	// Clear weight, keep reps, attach a quick note.
	rec = doRequest(t, router, http.MethodPatch, setsPath+"/"+set.SetID, `{"weight":"","note":"belt off"}`)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/api/v1/session/draft/exercises/"+created.ItemID, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var exercise struct {
		Sets []struct {
			Weight *float64 `json:"weight"`
			Reps   *int     `json:"reps"`
			Note   string   `json:"note"`
		} `json:"sets"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &exercise))
	require.Len(t, exercise.Sets, 1)
	require.Nil(t, exercise.Sets[0].Weight)
	require.NotNil(t, exercise.Sets[0].Reps)
	require.Equal(t, 5, *exercise.Sets[0].Reps)
	require.Equal(t, "belt off", exercise.Sets[0].Note)

	// Bad numbers are rejected before touching the set.
	rec = doRequest(t, router, http.MethodPatch, setsPath+"/"+set.SetID, `{"weight":"heavy"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPauseResumeConflicts(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/session/draft/pause", "")
	require.Equal(t, http.StatusConflict, rec.Code)

	doRequest(t, router, http.MethodPost, "/api/v1/session/draft", `{"name":"x"}`)

	rec = doRequest(t, router, http.MethodPost, "/api/v1/session/draft/resume", "")
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = doRequest(t, router, http.MethodPost, "/api/v1/session/draft/pause", "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = doRequest(t, router, http.MethodPost, "/api/v1/session/draft/pause", "")
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = doRequest(t, router, http.MethodPost, "/api/v1/session/draft/resume", "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/api/v1/session/draft/elapsed", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "elapsedSeconds")
}
