package avatar

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"statickr-go/internal/fetch"
	"statickr-go/internal/testutil"
)

const fallbackURL = "https://www.flickr.com/images/buddyicon.gif"

// profileServer serves a profile page whose avatar points back at the
// same server, plus the avatar image itself. It counts requests and
// can answer 304 or 500 instead.
type profileServer struct {
	*httptest.Server
	requests     atomic.Int64
	lastModSince atomic.Value // string: last If-Modified-Since header seen
	notModified  bool
	fail         bool
}

func newProfileServer(t *testing.T) *profileServer {
	t.Helper()
	ps := &profileServer{}
	ps.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ps.requests.Add(1)
		switch r.URL.Path {
		case "/photos/jane/":
			ps.lastModSince.Store(r.Header.Get("If-Modified-Since"))
			if ps.fail {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			if ps.notModified {
				w.WriteHeader(http.StatusNotModified)
				return
			}
			fmt.Fprint(w, `<html><body><div class="avatar" style="background-image: url('/avatar.png')"></div></body></html>`)
		case "/avatar.png":
			w.Write(testutil.PNGBytes(t))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(ps.Close)
	return ps
}

func newTestFetcher(srv *profileServer, dir string, store Store, clock Clock, mod func(*Options)) *Fetcher {
	opts := Options{
		Client:   fetch.NewClient("statickr-test", 5*time.Second),
		Store:    store,
		Clock:    clock,
		Logger:   testutil.NopLogger(),
		Dir:      dir,
		Fallback: fallbackURL,
		Fetch:    true,
		Delay:    time.Second,
	}
	if mod != nil {
		mod(&opts)
	}
	return NewFetcher(opts)
}

func TestFetcherResolve(t *testing.T) {
	t.Run("fetch success writes jpeg and records timestamp", func(t *testing.T) {
		srv := newProfileServer(t)
		dir := t.TempDir()
		store := NewMemoryStore()
		clock := testutil.FixedClock()
		f := newTestFetcher(srv, dir, store, clock, nil)

		ref := f.Resolve(context.Background(), "Jane Doe", srv.URL+"/photos/jane/")

		if ref != "../avatars/Jane_Doe.jpg" {
			t.Errorf("ref = %q, want local avatar reference", ref)
		}
		if _, err := os.Stat(filepath.Join(dir, "Jane_Doe.jpg")); err != nil {
			t.Errorf("avatar file not written: %v", err)
		}
		ts, ok := store.Get(srv.URL + "/photos/jane/")
		if !ok {
			t.Fatal("no cache entry recorded for profile URL")
		}
		if _, err := http.ParseTime(ts); err != nil {
			t.Errorf("cache timestamp %q is not an HTTP date: %v", ts, err)
		}
		if got := srv.lastModSince.Load().(string); got != "" {
			t.Errorf("If-Modified-Since = %q on first fetch, want empty", got)
		}
		if sleeps := clock.Sleeps(); len(sleeps) != 1 || sleeps[0] != time.Second {
			t.Errorf("sleeps = %v, want one 1s delay", sleeps)
		}
	})

	t.Run("cached timestamp sent as conditional header", func(t *testing.T) {
		srv := newProfileServer(t)
		store := NewMemoryStore()
		store.Put(srv.URL+"/photos/jane/", "Mon, 15 Jan 2024 10:30:00 GMT")
		f := newTestFetcher(srv, t.TempDir(), store, testutil.FixedClock(), nil)

		f.Resolve(context.Background(), "Jane Doe", srv.URL+"/photos/jane/")

		if got := srv.lastModSince.Load().(string); got != "Mon, 15 Jan 2024 10:30:00 GMT" {
			t.Errorf("If-Modified-Since = %q, want stored timestamp", got)
		}
	})

	t.Run("not modified with local file returns local reference", func(t *testing.T) {
		srv := newProfileServer(t)
		srv.notModified = true
		dir := t.TempDir()
		testutil.WriteFile(t, dir, "Jane_Doe.jpg", testutil.JPEGBytes(t))
		store := NewMemoryStore()
		store.Put(srv.URL+"/photos/jane/", "Mon, 15 Jan 2024 10:30:00 GMT")
		clock := testutil.FixedClock()
		f := newTestFetcher(srv, dir, store, clock, nil)

		ref := f.Resolve(context.Background(), "Jane Doe", srv.URL+"/photos/jane/")

		if ref != "../avatars/Jane_Doe.jpg" {
			t.Errorf("ref = %q, want local reference", ref)
		}
		if len(clock.Sleeps()) != 1 {
			t.Errorf("sleeps = %v, want the post-attempt delay", clock.Sleeps())
		}
		// no re-fetch of the image, only the profile request
		if n := srv.requests.Load(); n != 1 {
			t.Errorf("requests = %d, want 1", n)
		}
		// cache entry untouched
		if v, _ := store.Get(srv.URL + "/photos/jane/"); v != "Mon, 15 Jan 2024 10:30:00 GMT" {
			t.Errorf("cache entry changed to %q on 304", v)
		}
	})

	t.Run("not modified without local file falls back", func(t *testing.T) {
		srv := newProfileServer(t)
		srv.notModified = true
		store := NewMemoryStore()
		store.Put(srv.URL+"/photos/jane/", "Mon, 15 Jan 2024 10:30:00 GMT")
		f := newTestFetcher(srv, t.TempDir(), store, testutil.FixedClock(), nil)

		if ref := f.Resolve(context.Background(), "Jane Doe", srv.URL+"/photos/jane/"); ref != fallbackURL {
			t.Errorf("ref = %q, want fallback", ref)
		}
	})

	t.Run("server error falls back and still delays", func(t *testing.T) {
		srv := newProfileServer(t)
		srv.fail = true
		clock := testutil.FixedClock()
		f := newTestFetcher(srv, t.TempDir(), NewMemoryStore(), clock, nil)

		if ref := f.Resolve(context.Background(), "Jane Doe", srv.URL+"/photos/jane/"); ref != fallbackURL {
			t.Errorf("ref = %q, want fallback", ref)
		}
		if len(clock.Sleeps()) != 1 {
			t.Errorf("sleeps = %v, want the post-attempt delay", clock.Sleeps())
		}
	})

	t.Run("fetch disabled returns fallback without requests", func(t *testing.T) {
		srv := newProfileServer(t)
		clock := testutil.FixedClock()
		f := newTestFetcher(srv, t.TempDir(), NewMemoryStore(), clock, func(o *Options) {
			o.Fetch = false
		})

		if ref := f.Resolve(context.Background(), "Jane Doe", srv.URL+"/photos/jane/"); ref != fallbackURL {
			t.Errorf("ref = %q, want fallback", ref)
		}
		if n := srv.requests.Load(); n != 0 {
			t.Errorf("requests = %d, want 0", n)
		}
		if len(clock.Sleeps()) != 0 {
			t.Errorf("sleeps = %v, want none", clock.Sleeps())
		}
	})

	t.Run("skip existing short-circuits before network", func(t *testing.T) {
		srv := newProfileServer(t)
		dir := t.TempDir()
		testutil.WriteFile(t, dir, "Jane_Doe.jpg", testutil.JPEGBytes(t))
		clock := testutil.FixedClock()
		f := newTestFetcher(srv, dir, NewMemoryStore(), clock, func(o *Options) {
			o.SkipExisting = true
		})

		ref := f.Resolve(context.Background(), "Jane Doe", srv.URL+"/photos/jane/")
		if ref != "../avatars/Jane_Doe.jpg" {
			t.Errorf("ref = %q, want local reference", ref)
		}
		if n := srv.requests.Load(); n != 0 {
			t.Errorf("requests = %d, want 0", n)
		}
		if len(clock.Sleeps()) != 0 {
			t.Errorf("sleeps = %v, want none", clock.Sleeps())
		}
	})

	t.Run("skip existing without local file fetches", func(t *testing.T) {
		srv := newProfileServer(t)
		f := newTestFetcher(srv, t.TempDir(), NewMemoryStore(), testutil.FixedClock(), func(o *Options) {
			o.SkipExisting = true
		})

		if ref := f.Resolve(context.Background(), "Jane Doe", srv.URL+"/photos/jane/"); ref != "../avatars/Jane_Doe.jpg" {
			t.Errorf("ref = %q, want fetched local reference", ref)
		}
	})

	t.Run("profile page without avatar falls back", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `<html><body><p>no avatar here</p></body></html>`)
		}))
		defer srv.Close()

		f := NewFetcher(Options{
			Client:   fetch.NewClient("statickr-test", 5*time.Second),
			Store:    NewMemoryStore(),
			Clock:    testutil.FixedClock(),
			Logger:   testutil.NopLogger(),
			Dir:      t.TempDir(),
			Fallback: fallbackURL,
			Fetch:    true,
		})

		if ref := f.Resolve(context.Background(), "Jane Doe", srv.URL+"/"); ref != fallbackURL {
			t.Errorf("ref = %q, want fallback", ref)
		}
	})
}
