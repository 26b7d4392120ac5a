package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"coinvoyage/internal/bootstrap"
	"coinvoyage/internal/browser"
	"coinvoyage/internal/config"
	"coinvoyage/internal/modecache"
	"coinvoyage/internal/security"
)

type recordedEvents struct {
	mu    sync.Mutex
	names []string
}

func (r *recordedEvents) emit(eventName string, data interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.names = append(r.names, eventName)
}

func (r *recordedEvents) has(eventName string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, name := range r.names {
		if name == eventName {
			return true
		}
	}
	return false
}

type recordingWindow struct {
	mu         sync.Mutex
	fullscreen int
	navigated  []string
}

func (w *recordingWindow) Fullscreen() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.fullscreen++
}

func (w *recordingWindow) Navigate(address string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.navigated = append(w.navigated, address)
}

func newBootstrapTestApp(t *testing.T, resolverURL string) (*App, *recordedEvents, *recordingWindow) {
	t.Helper()

	events := &recordedEvents{}
	window := &recordingWindow{}
	app := &App{
		rt: config.Runtime{
			DBPath:           filepath.Join(t.TempDir(), config.DBFileName),
			ResolverURL:      resolverURL,
			CacheBackend:     config.CacheBackendSQLite,
			AttributionGrace: time.Millisecond,
		},
		logSanitizer: security.NewLogSanitizer(),
		emit:         events.emit,
		window:       window,
	}
	app.initServices()
	t.Cleanup(func() { app.Shutdown(context.Background()) })
	return app, events, window
}

func TestBootstrapBrowserModeOpensSurface(t *testing.T) {
	var calls int
	var mu sync.Mutex
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls++
		mu.Unlock()
		if r.URL.Query().Get("p") != config.PartnerKey {
			t.Errorf("p = %q, want partner key", r.URL.Query().Get("p"))
		}
		if r.URL.Query().Get("appsflyerid") == "" {
			t.Errorf("expected a persisted install id in appsflyerid")
		}
		_, _ = w.Write([]byte("tok123#https://portal.example/p"))
	}))
	defer server.Close()

	app, events, window := newBootstrapTestApp(t, server.URL)

	if st := app.GetBootstrapState(); !st.Loading {
		t.Fatalf("state before run should be loading, got %+v", st)
	}

	app.runBootstrap(context.Background())

	st := app.GetBootstrapState()
	if st.Loading || st.Mode != bootstrap.ModeBrowser || st.Link != "https://portal.example/p" {
		t.Fatalf("unexpected state after run: %+v", st)
	}
	if window.fullscreen != 1 || len(window.navigated) != 1 || window.navigated[0] != "https://portal.example/p" {
		t.Fatalf("window = %+v", window)
	}
	if !app.GetBrowserState().IsLoading {
		t.Fatalf("browser should be loading until the first load finishes")
	}
	app.BrowserDidFinishLoad()
	if app.GetBrowserState().IsLoading {
		t.Fatalf("browser should stop loading after first load")
	}

	for _, name := range []string{bootstrap.EventStateChanged, bootstrap.EventDecided, browser.EventStateChanged} {
		if !events.has(name) {
			t.Fatalf("expected event %q, got %v", name, events.names)
		}
	}

	cached := modecache.NewSQLite(app.db, config.CacheKeyToken, config.CacheKeyLink)
	cred, ok := cached.Credential()
	if !ok || cred.Token != "tok123" || cred.Link != "https://portal.example/p" {
		t.Fatalf("credential not cached: %+v ok=%v", cred, ok)
	}
	mu.Lock()
	defer mu.Unlock()
	if calls != 1 {
		t.Fatalf("resolver calls = %d, want 1", calls)
	}
}

func TestBootstrapLocalModeKeepsTrackingAvailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("not found"))
	}))
	defer server.Close()

	app, _, window := newBootstrapTestApp(t, server.URL)
	app.runBootstrap(context.Background())

	st := app.GetBootstrapState()
	if st.Loading || st.Mode != bootstrap.ModeLocal || st.Link != "" {
		t.Fatalf("unexpected state after run: %+v", st)
	}
	if window.fullscreen != 0 || len(window.navigated) != 0 {
		t.Fatalf("local mode must not touch the window: %+v", window)
	}

	if _, err := app.AddGoal("Trip", 1000, 100, "airplane"); err != nil {
		t.Fatalf("AddGoal() error = %v", err)
	}
	overview, err := app.ListGoals()
	if err != nil {
		t.Fatalf("ListGoals() error = %v", err)
	}
	if len(overview.Goals) != 1 || overview.TotalSaved != 100 {
		t.Fatalf("unexpected overview: %+v", overview)
	}
}

func TestResetBootstrapClearsCachedCredential(t *testing.T) {
	app, _, _ := newBootstrapTestApp(t, "http://127.0.0.1:1")
	app.cache.Save("tok", "https://portal.example/p")

	if err := app.ResetBootstrap(); err != nil {
		t.Fatalf("ResetBootstrap() error = %v", err)
	}
	if _, ok := app.cache.Credential(); ok {
		t.Fatalf("credential should be cleared")
	}
}

func TestGetAppInfoReportsCacheBackend(t *testing.T) {
	app, _, _ := newBootstrapTestApp(t, "http://127.0.0.1:1")

	info := app.GetAppInfo()
	if info.Name != config.AppName || info.Version != config.AppVersion {
		t.Fatalf("unexpected info: %+v", info)
	}
	if info.CacheBackend != config.CacheBackendSQLite {
		t.Fatalf("CacheBackend = %q, want %q", info.CacheBackend, config.CacheBackendSQLite)
	}
}

func TestHydrationCarriesBootstrapSnapshot(t *testing.T) {
	app, events, _ := newBootstrapTestApp(t, "http://127.0.0.1:1")

	if err := app.SetTheme("dark"); err != nil {
		t.Fatalf("SetTheme() error = %v", err)
	}
	payload := app.getHydrationPayload()
	if !payload.Bootstrap.Loading || payload.Theme != "dark" || payload.Browser != nil {
		t.Fatalf("unexpected payload: %+v", payload)
	}

	app.DomReady(context.Background())
	if !events.has(eventHydrated) {
		t.Fatalf("expected %q event", eventHydrated)
	}
}

func TestTrackingBindingsWithoutDatabase(t *testing.T) {
	app := &App{logSanitizer: security.NewLogSanitizer()}

	if _, err := app.ListGoals(); err == nil || !strings.Contains(err.Error(), "database not initialized") {
		t.Fatalf("ListGoals() error = %v", err)
	}
	if err := app.ResetBootstrap(); err == nil {
		t.Fatalf("ResetBootstrap() without cache should fail")
	}
	if st := app.GetBootstrapState(); !st.Loading {
		t.Fatalf("uninitialized app must report loading, got %+v", st)
	}
}
