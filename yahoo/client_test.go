package yahoo

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// fakeSleep records requested waits instead of sleeping.
type fakeSleep struct{ waits []time.Duration }

func (f *fakeSleep) sleep(d time.Duration) { f.waits = append(f.waits, d) }

func TestGetJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ok" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `{"value": 42}`)
	}))
	defer server.Close()

	c := newTestClient(server.URL, (&fakeSleep{}).sleep)
	var out struct {
		Value int `json:"value"`
	}
	if err := c.getJSON("/ok", &out, false); err != nil {
		t.Fatalf("getJSON() error = %v", err)
	}
	if out.Value != 42 {
		t.Errorf("value = %d, want 42", out.Value)
	}

	if err := c.getJSON("/missing", &out, false); err == nil {
		t.Error("getJSON() on a 404 should fail")
	}
}

func TestGetJSON_RateLimitBackoff(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls <= 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, `{}`)
	}))
	defer server.Close()

	sleeper := &fakeSleep{}
	c := newTestClient(server.URL, sleeper.sleep)

	var out map[string]any
	if err := c.getJSON("/chart", &out, false); err != nil {
		t.Fatalf("getJSON() error = %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3 (two rejections, one success)", calls)
	}
	// Linear backoff: attempt times the base.
	want := []time.Duration{1 * defaultBackoff, 2 * defaultBackoff}
	if len(sleeper.waits) != len(want) {
		t.Fatalf("waits = %v, want %v", sleeper.waits, want)
	}
	for i := range want {
		if sleeper.waits[i] != want[i] {
			t.Errorf("wait[%d] = %v, want %v", i, sleeper.waits[i], want[i])
		}
	}
}

func TestGetJSON_RateLimitExhausted(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	sleeper := &fakeSleep{}
	c := newTestClient(server.URL, sleeper.sleep)

	var out map[string]any
	err := c.getJSON("/chart", &out, false)
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("getJSON() error = %v, want ErrRateLimited", err)
	}
	if got := len(sleeper.waits); got != defaultAttempts-1 {
		t.Errorf("slept %d times, want %d", got, defaultAttempts-1)
	}
}

func TestGetJSON_CrumbAuth(t *testing.T) {
	crumbs := []string{"crumb-one", "crumb-two"}
	var issued int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/":
			// The cookie bootstrap endpoint answers 404, like the real one.
			http.NotFound(w, r)
		case crumbPath:
			fmt.Fprint(w, crumbs[issued])
			issued++
		case "/secure":
			// Only the second crumb is accepted: the first authed call is
			// rejected and must trigger exactly one refresh.
			if r.URL.Query().Get("crumb") != "crumb-two" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			fmt.Fprint(w, `{"fine": true}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	c := newTestClient(server.URL, (&fakeSleep{}).sleep)

	var out map[string]any
	if err := c.getJSON("/secure", &out, true); err != nil {
		t.Fatalf("getJSON() error = %v", err)
	}
	if issued != 2 {
		t.Errorf("crumbs issued = %d, want 2 (initial plus one refresh)", issued)
	}
	if c.crumb != "crumb-two" {
		t.Errorf("client kept crumb %q, want crumb-two", c.crumb)
	}
}

func TestGetJSON_CrumbAuthGivesUpAfterOneRefresh(t *testing.T) {
	var issued int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case crumbPath:
			fmt.Fprint(w, "rejected-anyway")
			issued++
		case "/secure":
			w.WriteHeader(http.StatusUnauthorized)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	c := newTestClient(server.URL, (&fakeSleep{}).sleep)

	var out map[string]any
	err := c.getJSON("/secure", &out, true)
	if !errors.Is(err, ErrAuthRejected) {
		t.Fatalf("getJSON() error = %v, want ErrAuthRejected", err)
	}
	if issued != 2 {
		t.Errorf("crumbs issued = %d, want 2, never more", issued)
	}
}

func TestEnsureCrumb_RejectsHTML(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == crumbPath {
			fmt.Fprint(w, "<html>consent wall</html>")
			return
		}
		http.NotFound(w, r)
	}))
	defer server.Close()

	c := newTestClient(server.URL, (&fakeSleep{}).sleep)
	if _, err := c.ensureCrumb(); err == nil {
		t.Error("ensureCrumb() should reject an HTML body")
	}
}
