// Package testutil provides testing utilities.
package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/idilsaglam/tasks/internal/model"
)

// Request is one call recorded by FakeAPI.
type Request struct {
	Method string
	Path   string
	Body   string
	Header http.Header
}

// FakeAPI is an in-memory task server speaking the /api/tasks protocol.
type FakeAPI struct {
	*httptest.Server

	mu       sync.Mutex
	tasks    model.TaskCollection
	nextID   int64
	requests []Request

	// Error injection: a non-empty value is returned as {"error": ...}.
	listErr   string
	createErr string
	deleteErr string

	// rawList, when set, is written verbatim as the GET body.
	rawList string
}

// FailList makes GET answer {"error": msg}; "" restores normal behavior.
func (f *FakeAPI) FailList(msg string) { f.set(&f.listErr, msg) }

// FailCreate makes POST answer {"error": msg}.
func (f *FakeAPI) FailCreate(msg string) { f.set(&f.createErr, msg) }

// FailDelete makes DELETE answer {"error": msg}.
func (f *FakeAPI) FailDelete(msg string) { f.set(&f.deleteErr, msg) }

// SetRawList makes GET answer with body verbatim.
func (f *FakeAPI) SetRawList(body string) { f.set(&f.rawList, body) }

func (f *FakeAPI) set(field *string, v string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	*field = v
}

// NewFakeAPI starts a server and closes it when the test ends.
func NewFakeAPI(t *testing.T, tasks ...model.Task) *FakeAPI {
	t.Helper()
	f := &FakeAPI{tasks: append(model.TaskCollection{}, tasks...), nextID: 1}
	for _, tk := range tasks {
		if tk.ID >= f.nextID {
			f.nextID = tk.ID + 1
		}
	}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Close)
	return f
}

// Requests returns a copy of everything received so far.
func (f *FakeAPI) Requests() []Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Request(nil), f.requests...)
}

// Tasks returns the server-side collection.
func (f *FakeAPI) Tasks() model.TaskCollection {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append(model.TaskCollection(nil), f.tasks...)
}

func (f *FakeAPI) serve(w http.ResponseWriter, r *http.Request) {
	b, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, Request{
		Method: r.Method,
		Path:   r.URL.Path,
		Body:   string(b),
		Header: r.Header.Clone(),
	})

	switch {
	case r.URL.Path == "/api/tasks" && r.Method == http.MethodGet:
		if f.listErr != "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": f.listErr})
			return
		}
		if f.rawList != "" {
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, f.rawList)
			return
		}
		// Newest first, like the real server.
		out := make(model.TaskCollection, 0, len(f.tasks))
		for i := len(f.tasks) - 1; i >= 0; i-- {
			out = append(out, f.tasks[i])
		}
		writeJSON(w, http.StatusOK, out)

	case r.URL.Path == "/api/tasks" && r.Method == http.MethodPost:
		if f.createErr != "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": f.createErr})
			return
		}
		var in struct {
			Task string `json:"task"`
		}
		_ = json.Unmarshal(b, &in)
		text := strings.TrimSpace(in.Task)
		if text == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Task cannot be empty"})
			return
		}
		id := f.nextID
		f.nextID++
		f.tasks = append(f.tasks, model.Task{ID: id, Task: text, CreatedAt: "2024-01-01 00:00:00"})
		writeJSON(w, http.StatusOK, map[string]any{"message": "Saved", "id": id})

	case strings.HasPrefix(r.URL.Path, "/api/tasks/") && r.Method == http.MethodDelete:
		if f.deleteErr != "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": f.deleteErr})
			return
		}
		id, err := strconv.ParseInt(strings.TrimPrefix(r.URL.Path, "/api/tasks/"), 10, 64)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		for i, tk := range f.tasks {
			if tk.ID == id {
				f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
				writeJSON(w, http.StatusOK, map[string]any{"message": "Deleted", "id": id})
				return
			}
		}
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Task not found"})

	default:
		http.NotFound(w, r)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
