package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/starv8193-prog/ressonancia-social-v2/internal/application"
	"github.com/starv8193-prog/ressonancia-social-v2/internal/infrastructure/memory"
)

func newProfileRouter(t *testing.T) (*gin.Engine, *application.Store, *memory.DataBackend) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	backend := memory.NewDataBackend()
	store := application.NewStore(backend, nil, testLogger(), time.Minute)
	search := application.NewSearchService(nil, "", store, testLogger())
	h := NewProfileHandler(store, search, testLogger())

	asUser := func(c *gin.Context) { c.Set("userID", "user-1") }

	r := gin.New()
	r.GET("/profile", asUser, h.GetProfile)
	r.PUT("/profile", asUser, h.UpdateProfile)
	r.PUT("/settings", asUser, h.UpdateSettings)
	r.GET("/users/:id", asUser, h.GetUserByID)
	return r, store, backend
}

func TestUpdateProfileKeepsUnsentFields(t *testing.T) {
	r, store, _ := newProfileRouter(t)

	req := httptest.NewRequest(http.MethodPut, "/profile", strings.NewReader(`{"bio":"só a bio"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	d, err := store.Load(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if d.Profile.Bio != "só a bio" {
		t.Errorf("bio = %q", d.Profile.Bio)
	}
	if d.Profile.Name != "Consciência_Original" {
		t.Errorf("bio-only request wiped the name: %q", d.Profile.Name)
	}
	if d.Profile.AvatarURL == "" {
		t.Errorf("bio-only request wiped the avatar")
	}
}

func TestUpdateSettingsKeepsUnsentToggles(t *testing.T) {
	r, store, _ := newProfileRouter(t)

	req := httptest.NewRequest(http.MethodPut, "/settings", strings.NewReader(`{"isPublic":false}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	d, _ := store.Load(context.Background(), "user-1")
	if d.Settings.IsPublic {
		t.Errorf("isPublic not applied")
	}
	if !d.Settings.AllowMessages || !d.Settings.AllowGroups {
		t.Errorf("untouched toggles were reset: %+v", d.Settings)
	}
}

func TestUpdateProfileRejectsEmptyPatch(t *testing.T) {
	r, _, _ := newProfileRouter(t)

	req := httptest.NewRequest(http.MethodPut, "/profile", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestGetUnknownUserDoesNotMintRecord(t *testing.T) {
	r, _, backend := newProfileRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/users/ghost-id", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if backend.Len() != 0 {
		t.Errorf("lookup of an unknown id minted %d record(s)", backend.Len())
	}
}

func TestGetKnownUserByID(t *testing.T) {
	r, store, _ := newProfileRouter(t)

	if _, err := store.Load(context.Background(), "user-2"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/users/user-2", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, body = %s", w.Code, w.Body.String())
	}
}
