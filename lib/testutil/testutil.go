package testutil

import (
	"avanza-scraper/lib/telemetry"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

const SessionCookie = "AZAPERSISTENCE"

// Site is a fake of the brokerage website: it serves registered pages,
// accepts a single set of credentials on the login endpoint and counts every
// request it receives.
type Site struct {
	Server   *httptest.Server
	Username string
	Password string

	lock      sync.Mutex
	pages     map[string]string
	requested []string
}

type SiteParams struct {
	Name     string
	Username string
	Password string
	// path (without query) -> html body
	Pages map[string]string
}

// SetupSite starts a fake site and telemetry for the test, the returned
// function shuts both down.
func SetupSite(t testing.TB, params SiteParams) (*Site, func()) {
	cleanup := telemetry.SetupForTesting(t, fmt.Sprintf("test:%s", params.Name))

	site := &Site{
		Username: params.Username,
		Password: params.Password,
		pages:    map[string]string{},
	}
	for path, body := range params.Pages {
		site.pages[path] = body
	}
	site.Server = httptest.NewServer(http.HandlerFunc(site.serve))

	return site, func() {
		site.Server.Close()
		cleanup()
	}
}

func (s *Site) URL() string {
	return s.Server.URL
}

func (s *Site) SetPage(path, body string) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.pages[path] = body
}

// Requests is the amount of requests received so far.
func (s *Site) Requests() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return len(s.requested)
}

// Requested lists the request uris (path + query) received so far.
func (s *Site) Requested() []string {
	s.lock.Lock()
	defer s.lock.Unlock()
	return append([]string(nil), s.requested...)
}

func (s *Site) serve(w http.ResponseWriter, r *http.Request) {
	s.lock.Lock()
	s.requested = append(s.requested, r.URL.RequestURI())
	body, ok := s.pages[r.URL.Path]
	s.lock.Unlock()

	if r.URL.Path == "/ab/handlelogin" {
		s.login(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if strings.HasPrefix(r.URL.Path, "/mina-sidor/") && !s.authenticated(r) {
		// the real site answers 200 with a login form instead of the data
		io.WriteString(w, `<html><body><form class="loginForm"></form></body></html>`)
		return
	}
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, "<html><body>not found</body></html>")
		return
	}
	io.WriteString(w, body)
}

func (s *Site) login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	err := r.ParseForm()
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if r.PostForm.Get("j_username") != s.Username || r.PostForm.Get("j_password") != s.Password {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: "session-" + s.Username, Path: "/"})
	w.WriteHeader(http.StatusOK)
}

func (s *Site) authenticated(r *http.Request) bool {
	cookie, err := r.Cookie(SessionCookie)
	return err == nil && cookie.Value == "session-"+s.Username
}
