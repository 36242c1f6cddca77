// Package appiumtest runs an in-process fake Appium server for tests.
package appiumtest

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/devicelab-dev/screenkit/pkg/locator"
)

const elementKey = "element-6066-11e4-a52e-4f735466cecf"

// Element is a fake UI element.
type Element struct {
	Text      string
	Displayed bool
	Enabled   bool
	X, Y      int
	Width     int
	Height    int

	id string
}

// Request is one command received by the server, session prefix stripped.
type Request struct {
	Method string
	Path   string
	Body   map[string]interface{}
}

// String returns "METHOD /path".
func (r Request) String() string {
	return r.Method + " " + r.Path
}

// Server is a fake Appium server speaking the W3C WebDriver subset the driver uses.
type Server struct {
	*httptest.Server

	mu            sync.Mutex
	platform      string
	sessionID     string
	elements      map[string]*Element // "using|value" -> element
	byID          map[string]*Element
	nextID        int
	requests      []Request
	width, height int
	keyboardShown bool
	locked        bool
	orientation   string
	clipboard     string
	activity      string
	appPackage    string
	failures      map[string]string // path suffix -> W3C error code
}

// NewServer starts a fake server whose sessions report platformName.
func NewServer(platformName string) *Server {
	s := &Server{
		platform:    platformName,
		elements:    make(map[string]*Element),
		byID:        make(map[string]*Element),
		width:       1080,
		height:      2400,
		orientation: "PORTRAIT",
		failures:    make(map[string]string),
	}
	s.Server = httptest.NewServer(s.routes())
	return s
}

// SessionID returns the ID of the last created session.
func (s *Server) SessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionID
}

// AddElement registers an element that FindElement resolves for selector.
func (s *Server) AddElement(selector string, e *Element) *Element {
	st := locator.ParseSelector(selector)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	e.id = fmt.Sprintf("e%d", s.nextID)
	s.elements[st.Using+"|"+st.Value] = e
	s.byID[e.id] = e
	return e
}

// RemoveElement makes selector unresolvable. Existing IDs go stale.
func (s *Server) RemoveElement(selector string) {
	st := locator.ParseSelector(selector)
	s.mu.Lock()
	defer s.mu.Unlock()
	key := st.Using + "|" + st.Value
	if e, ok := s.elements[key]; ok {
		delete(s.byID, e.id)
		delete(s.elements, key)
	}
}

// SetWindowSize changes the reported window rect.
func (s *Server) SetWindowSize(w, h int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width, s.height = w, h
}

// SetKeyboardShown changes the keyboard state.
func (s *Server) SetKeyboardShown(shown bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keyboardShown = shown
}

// Fail makes every request whose path ends with suffix answer with the W3C error code.
func (s *Server) Fail(suffix, code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[suffix] = code
}

// Requests returns every recorded request.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// Last returns the last request whose path ends with suffix.
func (s *Server) Last(suffix string) (Request, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.requests) - 1; i >= 0; i-- {
		if strings.HasSuffix(s.requests[i].Path, suffix) {
			return s.requests[i], true
		}
	}
	return Request{}, false
}

// Count returns how many requests ended with suffix.
func (s *Server) Count(suffix string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, r := range s.requests {
		if strings.HasSuffix(r.Path, suffix) {
			n++
		}
	}
	return n
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.record)

	r.Post("/session", s.createSession)
	r.Route("/session/{sessionID}", func(r chi.Router) {
		r.Use(s.requireSession)
		r.Use(s.injectFailures)

		r.Delete("/", s.deleteSession)
		r.Post("/element", s.findElement)
		r.Route("/element/{elementID}", func(r chi.Router) {
			r.Post("/click", s.withElement(func(e *Element, _ map[string]interface{}) interface{} { return nil }))
			r.Post("/value", s.withElement(func(e *Element, body map[string]interface{}) interface{} {
				text, _ := body["text"].(string)
				e.Text += text
				return nil
			}))
			r.Get("/text", s.withElement(func(e *Element, _ map[string]interface{}) interface{} { return e.Text }))
			r.Get("/displayed", s.withElement(func(e *Element, _ map[string]interface{}) interface{} { return e.Displayed }))
			r.Get("/enabled", s.withElement(func(e *Element, _ map[string]interface{}) interface{} { return e.Enabled }))
			r.Get("/rect", s.withElement(func(e *Element, _ map[string]interface{}) interface{} {
				return map[string]interface{}{"x": e.X, "y": e.Y, "width": e.Width, "height": e.Height}
			}))
		})
		r.Post("/actions", s.ok)
		r.Post("/back", s.ok)
		r.Get("/window/rect", s.windowRect)
		r.Get("/orientation", s.getOrientation)
		r.Post("/orientation", s.setOrientation)
		r.Post("/execute/sync", s.execute)
		r.Post("/appium/settings", s.ok)
		r.Route("/appium/device", func(r chi.Router) {
			r.Get("/is_keyboard_shown", s.value(func() interface{} { return s.keyboardShown }))
			r.Post("/hide_keyboard", s.value(func() interface{} { s.keyboardShown = false; return nil }))
			r.Post("/press_keycode", s.ok)
			r.Post("/open_notifications", s.ok)
			r.Get("/current_activity", s.value(func() interface{} { return s.activity }))
			r.Get("/current_package", s.value(func() interface{} { return s.appPackage }))
			r.Post("/lock", s.value(func() interface{} { s.locked = true; return nil }))
			r.Post("/unlock", s.value(func() interface{} { s.locked = false; return nil }))
			r.Post("/is_locked", s.value(func() interface{} { return s.locked }))
			r.Get("/system_time", s.value(func() interface{} { return "2024-01-01T00:00:00+00:00" }))
			r.Post("/shake", s.ok)
			r.Post("/get_clipboard", s.value(func() interface{} {
				return base64.StdEncoding.EncodeToString([]byte(s.clipboard))
			}))
			r.Post("/set_clipboard", s.setClipboard)
		})
		r.Post("/appium/simulator/touch_id", s.ok)
	})
	return r
}

// record stores the request body and strips the session prefix from the path.
func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&body)
		}
		s.mu.Lock()
		s.requests = append(s.requests, Request{Method: r.Method, Path: stripSession(r.URL.Path), Body: body})
		s.mu.Unlock()
		next.ServeHTTP(w, r.WithContext(withBody(r.Context(), body)))
	})
}

func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		valid := s.sessionID != "" && chi.URLParam(r, "sessionID") == s.sessionID
		s.mu.Unlock()
		if !valid {
			writeError(w, http.StatusNotFound, "invalid session id", "session does not exist")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) injectFailures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		var code string
		for suffix, c := range s.failures {
			if strings.HasSuffix(r.URL.Path, suffix) {
				code = c
				break
			}
		}
		s.mu.Unlock()
		if code != "" {
			writeError(w, http.StatusInternalServerError, code, "injected failure")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.sessionID = fmt.Sprintf("session-%d", len(s.requests))
	id := s.sessionID
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"sessionId":    id,
		"capabilities": map[string]interface{}{"platformName": s.platform},
	})
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.sessionID = ""
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, nil)
}

func (s *Server) findElement(w http.ResponseWriter, r *http.Request) {
	body := bodyFrom(r.Context())
	using, _ := body["using"].(string)
	value, _ := body["value"].(string)

	s.mu.Lock()
	e, ok := s.elements[using+"|"+value]
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "no such element", fmt.Sprintf("no element for %s %q", using, value))
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{elementKey: e.id})
}

func (s *Server) withElement(fn func(e *Element, body map[string]interface{}) interface{}) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		e, ok := s.byID[chi.URLParam(r, "elementID")]
		var v interface{}
		if ok {
			v = fn(e, bodyFrom(r.Context()))
		}
		s.mu.Unlock()
		if !ok {
			writeError(w, http.StatusNotFound, "stale element reference", "element is no longer attached")
			return
		}
		writeJSON(w, http.StatusOK, v)
	}
}

func (s *Server) value(fn func() interface{}) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		v := fn()
		s.mu.Unlock()
		writeJSON(w, http.StatusOK, v)
	}
}

func (s *Server) ok(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, nil)
}

func (s *Server) windowRect(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	rect := map[string]interface{}{"x": 0, "y": 0, "width": s.width, "height": s.height}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, rect)
}

func (s *Server) getOrientation(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	o := s.orientation
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, o)
}

func (s *Server) setOrientation(w http.ResponseWriter, r *http.Request) {
	o, _ := bodyFrom(r.Context())["orientation"].(string)
	s.mu.Lock()
	if o != s.orientation {
		s.width, s.height = s.height, s.width
	}
	s.orientation = o
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, nil)
}

func (s *Server) setClipboard(w http.ResponseWriter, r *http.Request) {
	content, _ := bodyFrom(r.Context())["content"].(string)
	decoded, err := base64.StdEncoding.DecodeString(content)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid argument", err.Error())
		return
	}
	s.mu.Lock()
	s.clipboard = string(decoded)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, nil)
}

// execute handles the mobile: commands the driver sends.
func (s *Server) execute(w http.ResponseWriter, r *http.Request) {
	body := bodyFrom(r.Context())
	script, _ := body["script"].(string)
	var args map[string]interface{}
	if list, ok := body["args"].([]interface{}); ok && len(list) > 0 {
		args, _ = list[0].(map[string]interface{})
	}

	switch script {
	case "mobile: startActivity":
		s.mu.Lock()
		s.appPackage, _ = args["appPackage"].(string)
		s.activity, _ = args["appActivity"].(string)
		s.mu.Unlock()
	case "mobile: scroll":
		s.mu.Lock()
		var e *Element
		if id, ok := args["elementId"].(string); ok {
			e = s.byID[id]
		} else {
			using, _ := args["strategy"].(string)
			sel, _ := args["selector"].(string)
			e = s.elements[using+"|"+sel]
		}
		if e != nil {
			e.Displayed = true
		}
		s.mu.Unlock()
		if e == nil {
			writeError(w, http.StatusNotFound, "no such element", "nothing to scroll to")
			return
		}
	default:
		writeError(w, http.StatusBadRequest, "unknown method", "unsupported script "+script)
		return
	}
	writeJSON(w, http.StatusOK, nil)
}

// stripSession turns /session/{id}/element into /element.
func stripSession(path string) string {
	if !strings.HasPrefix(path, "/session/") {
		return path
	}
	rest := strings.TrimPrefix(path, "/session/")
	if i := strings.Index(rest, "/"); i >= 0 {
		return rest[i:]
	}
	return "/"
}

func writeJSON(w http.ResponseWriter, status int, value interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"value": value})
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]interface{}{"error": code, "message": message})
}
