package mock

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"time"

	"github.com/thrasher-corp/coinbase/encoding/json"
)

// Reply is a scripted response
type Reply struct {
	Status int
	Body   string
	Header http.Header
	Delay  time.Duration
}

// Recorded is a request received by the server
type Recorded struct {
	Method   string
	Path     string
	Query    url.Values
	Header   http.Header
	Body     []byte
	Received time.Time
}

// Verifier inspects an incoming request and rejects it with 401 when it
// returns an error
type Verifier func(r *http.Request, body []byte) error

type route struct {
	query   url.Values
	replies []Reply
	calls   int
}

// Server is a scripted HTTP test server. Replies for a route are served in
// order and the last one repeats.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	routes   map[string]*route
	requests []Recorded
	verify   Verifier
}

// NewServer starts a new scripted server. Callers must Close it.
func NewServer() *Server {
	s := &Server{routes: make(map[string]*route)}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	return s
}

// Script sets the replies for method and path. A nil query matches any
// query string.
func (s *Server) Script(method, path string, query url.Values, replies ...Reply) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routes[method+" "+path] = &route{query: query, replies: replies}
}

// SetVerifier installs v for every subsequent request
func (s *Server) SetVerifier(v Verifier) {
	s.mu.Lock()
	s.verify = v
	s.mu.Unlock()
}

// Requests returns every request received so far
func (s *Server) Requests() []Recorded {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Recorded, len(s.requests))
	copy(out, s.requests)
	return out
}

// Calls returns the number of requests matched to method and path
func (s *Server) Calls(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.routes[method+" "+path]; ok {
		return r.calls
	}
	return 0
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	s.requests = append(s.requests, Recorded{
		Method:   r.Method,
		Path:     r.URL.Path,
		Query:    r.URL.Query(),
		Header:   r.Header.Clone(),
		Body:     body,
		Received: time.Now(),
	})
	verify := s.verify
	s.mu.Unlock()

	if verify != nil {
		if err := verify(r, body); err != nil {
			writeMessage(w, http.StatusUnauthorized, err.Error())
			return
		}
	}

	reply, ok := s.next(r)
	if !ok {
		writeMessage(w, http.StatusNotFound, "route not found")
		return
	}

	if reply.Delay > 0 {
		select {
		case <-time.After(reply.Delay):
		case <-r.Context().Done():
			return
		}
	}

	for k, v := range reply.Header {
		for i := range v {
			w.Header().Add(k, v[i])
		}
	}
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "application/json")
	}
	status := reply.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, _ = io.WriteString(w, reply.Body)
}

func (s *Server) next(r *http.Request) (Reply, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rt, ok := s.routes[r.Method+" "+r.URL.Path]
	if !ok || len(rt.replies) == 0 {
		return Reply{}, false
	}
	if rt.query != nil && !MatchURLVals(rt.query, r.URL.Query()) {
		return Reply{}, false
	}
	reply := rt.replies[min(rt.calls, len(rt.replies)-1)]
	rt.calls++
	return reply, true
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	payload, err := json.Marshal(map[string]string{"message": message})
	if err != nil {
		return
	}
	_, _ = w.Write(payload)
}
