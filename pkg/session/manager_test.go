package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

const testSecret = "super-secret-session-key"

func newTestContext(e *echo.Echo, cookies []*http.Cookie) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == CookieName {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func TestManagerLoadIssuesAndRestores(t *testing.T) {
	e := echo.New()
	m := NewManager(NewMemoryStore(), testSecret, time.Hour, false)

	c, rec := newTestContext(e, nil)
	sess, err := m.Load(c)
	if err != nil {
		t.Fatal(err)
	}
	if sess.ID == "" {
		t.Fatal("session has no id")
	}

	cookie := sessionCookie(t, rec)
	if !cookie.HttpOnly {
		t.Fatal("session cookie must be HTTP-only")
	}
	if cookie.SameSite != http.SameSiteLaxMode {
		t.Fatal("session cookie must be SameSite Lax")
	}

	sess.Data.ReferenceID = "abc123"
	if err := sess.Save(context.Background()); err != nil {
		t.Fatal(err)
	}

	c2, _ := newTestContext(e, []*http.Cookie{cookie})
	restored, err := m.Load(c2)
	if err != nil {
		t.Fatal(err)
	}
	if restored.ID != sess.ID {
		t.Fatalf("expected id %s, got %s", sess.ID, restored.ID)
	}
	if restored.Data.ReferenceID != "abc123" {
		t.Fatalf("expected referenceId abc123, got %q", restored.Data.ReferenceID)
	}
}

func TestManagerRejectsTamperedCookie(t *testing.T) {
	e := echo.New()
	m := NewManager(NewMemoryStore(), testSecret, time.Hour, false)

	c, rec := newTestContext(e, nil)
	sess, err := m.Load(c)
	if err != nil {
		t.Fatal(err)
	}

	cookie := sessionCookie(t, rec)
	cookie.Value = cookie.Value[:len(cookie.Value)-2] + "xx"

	c2, _ := newTestContext(e, []*http.Cookie{cookie})
	fresh, err := m.Load(c2)
	if err != nil {
		t.Fatal(err)
	}
	if fresh.ID == sess.ID {
		t.Fatal("tampered cookie restored the original session")
	}
}

func TestManagerRegenerateDropsState(t *testing.T) {
	e := echo.New()
	store := NewMemoryStore()
	m := NewManager(store, testSecret, time.Hour, false)

	c, rec := newTestContext(e, nil)
	sess, err := m.Load(c)
	if err != nil {
		t.Fatal(err)
	}
	sess.Data.ReferenceID = "abc123"
	if err := sess.Save(context.Background()); err != nil {
		t.Fatal(err)
	}

	cookie := sessionCookie(t, rec)
	c2, rec2 := newTestContext(e, []*http.Cookie{cookie})
	fresh, err := m.Regenerate(c2)
	if err != nil {
		t.Fatal(err)
	}
	if fresh.ID == sess.ID {
		t.Fatal("regenerate kept the old session id")
	}
	if fresh.Data.ReferenceID != "" {
		t.Fatal("regenerate kept old data")
	}
	sessionCookie(t, rec2)

	if _, err := store.Get(context.Background(), sess.ID); err == nil {
		t.Fatal("old session state survived regenerate")
	}
}

func TestManagerDestroy(t *testing.T) {
	e := echo.New()
	store := NewMemoryStore()
	m := NewManager(store, testSecret, time.Hour, false)

	c, rec := newTestContext(e, nil)
	sess, err := m.Load(c)
	if err != nil {
		t.Fatal(err)
	}
	sess.Data.ReferenceID = "abc123"
	if err := sess.Save(context.Background()); err != nil {
		t.Fatal(err)
	}

	cookie := sessionCookie(t, rec)
	c2, rec2 := newTestContext(e, []*http.Cookie{cookie})
	if err := m.Destroy(c2); err != nil {
		t.Fatal(err)
	}

	expired := sessionCookie(t, rec2)
	if expired.MaxAge != -1 {
		t.Fatalf("expected expired cookie, got MaxAge %d", expired.MaxAge)
	}

	// a client replaying the old cookie gets an empty session
	c3, _ := newTestContext(e, []*http.Cookie{cookie})
	replay, err := m.Load(c3)
	if err != nil {
		t.Fatal(err)
	}
	if replay.Data.ReferenceID != "" {
		t.Fatal("destroyed session still has a referenceId")
	}
}
