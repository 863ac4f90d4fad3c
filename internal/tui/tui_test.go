package tui

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/idilsaglam/tasks/internal/api"
	"github.com/idilsaglam/tasks/internal/model"
	"github.com/idilsaglam/tasks/internal/tasklist"
	"github.com/idilsaglam/tasks/internal/testutil"
)

var (
	enterKey = tea.KeyMsg{Type: tea.KeyEnter}
	tabKey   = tea.KeyMsg{Type: tea.KeyTab}
)

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func newModel(t *testing.T, srv *testutil.FakeAPI) Model {
	t.Helper()
	c, err := api.New(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("api: %v", err)
	}
	return New(context.Background(), tasklist.New(c, log.New(io.Discard)))
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm, cmd
}

// drain runs cmd and feeds every resulting message back until no command
// is left, the way the Bubble Tea runtime would for a single chain.
func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	for cmd != nil {
		m, cmd = update(t, m, cmd())
	}
	return m
}

func methods(reqs []testutil.Request) []string {
	out := make([]string, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, r.Method+" "+r.Path)
	}
	return out
}

func TestInitialLoadRendersRows(t *testing.T) {
	srv := testutil.NewFakeAPI(t, model.Task{ID: 1, Task: "buy milk", CreatedAt: "2024-01-01"})
	m := newModel(t, srv)
	m = drain(t, m, m.Init())

	items := m.list.Items()
	if len(items) != 1 {
		t.Fatalf("got %d rows, want 1", len(items))
	}
	it := items[0].(taskItem)
	if it.text != "buy milk" || it.id != 1 {
		t.Errorf("row: got %+v", it)
	}
	view := m.View()
	if !strings.Contains(view, "buy milk") || !strings.Contains(view, "(2024-01-01)") {
		t.Errorf("view missing row:\n%s", view)
	}
}

func TestEmptyCollectionRendersNoRows(t *testing.T) {
	srv := testutil.NewFakeAPI(t)
	m := newModel(t, srv)
	m = drain(t, m, m.Init())
	if n := len(m.list.Items()); n != 0 {
		t.Fatalf("got %d rows, want 0", n)
	}
}

func TestTimestampOnlyWhenPresent(t *testing.T) {
	srv := testutil.NewFakeAPI(t, model.Task{ID: 5, Task: "no date"})
	m := newModel(t, srv)
	m = drain(t, m, m.Init())
	if strings.Contains(m.View(), "()") {
		t.Errorf("empty timestamp rendered:\n%s", m.View())
	}
}

func TestWhitespaceSubmitSendsNothing(t *testing.T) {
	srv := testutil.NewFakeAPI(t)
	m := newModel(t, srv)
	m.input.SetValue("   ")

	m, cmd := update(t, m, enterKey)
	if cmd != nil {
		t.Fatal("whitespace submit produced a command")
	}
	if n := len(srv.Requests()); n != 0 {
		t.Fatalf("got %d requests, want 0", n)
	}
	if m.input.Value() != "   " {
		t.Errorf("input changed: %q", m.input.Value())
	}
}

func TestSubmitCreatesClearsAndReloads(t *testing.T) {
	srv := testutil.NewFakeAPI(t)
	m := newModel(t, srv)
	m, _ = update(t, m, runes("clean desk"))
	if m.input.Value() != "clean desk" {
		t.Fatalf("typed value: %q", m.input.Value())
	}

	m, cmd := update(t, m, enterKey)
	if cmd == nil {
		t.Fatal("submit produced no command")
	}
	m = drain(t, m, cmd)

	got := methods(srv.Requests())
	want := []string{"POST /api/tasks", "GET /api/tasks"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("requests: got %v, want %v", got, want)
	}
	if body := strings.TrimSpace(srv.Requests()[0].Body); body != `{"task":"clean desk"}` {
		t.Errorf("body: %s", body)
	}
	if m.input.Value() != "" {
		t.Errorf("input not cleared: %q", m.input.Value())
	}
	if len(m.list.Items()) != 1 {
		t.Errorf("rows after reload: %d", len(m.list.Items()))
	}
}

func TestCreateErrorAlertsAndKeepsInput(t *testing.T) {
	srv := testutil.NewFakeAPI(t)
	srv.FailCreate("too long")
	m := newModel(t, srv)
	m.input.SetValue("a very long task")

	m, cmd := update(t, m, enterKey)
	m = drain(t, m, cmd)

	if len(m.alerts) != 1 || m.alerts[0] != "too long" {
		t.Fatalf("alerts: %v", m.alerts)
	}
	if !strings.Contains(m.View(), "too long") {
		t.Errorf("alert not shown:\n%s", m.View())
	}
	if m.input.Value() != "a very long task" {
		t.Errorf("input cleared: %q", m.input.Value())
	}
	if got := methods(srv.Requests()); len(got) != 1 {
		t.Errorf("reload after failed create: %v", got)
	}
}

func TestAlertBlocksUntilDismissed(t *testing.T) {
	srv := testutil.NewFakeAPI(t)
	m := newModel(t, srv)
	m.alerts = []string{"first", "second"}
	m.input.SetValue("keep")

	m, cmd := update(t, m, runes("zzz"))
	if cmd != nil || m.input.Value() != "keep" {
		t.Fatalf("keys leaked past alert: %q", m.input.Value())
	}
	m, _ = update(t, m, enterKey)
	if len(m.alerts) != 1 || m.alerts[0] != "second" {
		t.Fatalf("alerts after dismiss: %v", m.alerts)
	}
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if len(m.alerts) != 0 {
		t.Fatalf("alerts: %v", m.alerts)
	}
	if len(srv.Requests()) != 0 {
		t.Error("dismissing an alert sent a request")
	}
}

func TestDeleteRowByIDThenReload(t *testing.T) {
	srv := testutil.NewFakeAPI(t, model.Task{ID: 42, Task: "answer"})
	m := newModel(t, srv)
	m = drain(t, m, m.Init())

	m, _ = update(t, m, tabKey)
	if m.focus != focusList {
		t.Fatal("tab did not focus the list")
	}
	m, cmd := update(t, m, runes("d"))
	if cmd == nil {
		t.Fatal("delete produced no command")
	}
	m = drain(t, m, cmd)

	got := methods(srv.Requests())
	want := []string{"GET /api/tasks", "DELETE /api/tasks/42", "GET /api/tasks"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("requests: got %v, want %v", got, want)
	}
	if len(m.list.Items()) != 0 {
		t.Errorf("rows after delete: %d", len(m.list.Items()))
	}
}

func TestDeleteErrorAlerts(t *testing.T) {
	srv := testutil.NewFakeAPI(t, model.Task{ID: 7, Task: "x"})
	srv.FailDelete("Task not found")
	m := newModel(t, srv)
	m = drain(t, m, m.Init())
	m, _ = update(t, m, tabKey)

	m, cmd := update(t, m, runes("d"))
	m = drain(t, m, cmd)
	if len(m.alerts) != 1 || m.alerts[0] != "Task not found" {
		t.Fatalf("alerts: %v", m.alerts)
	}
	if len(m.list.Items()) != 1 {
		t.Error("row removed despite failure")
	}
}

func TestReloadKeepsAppliedFilterPopulated(t *testing.T) {
	srv := testutil.NewFakeAPI(t,
		model.Task{ID: 1, Task: "alpha"},
		model.Task{ID: 2, Task: "beta"},
	)
	m := newModel(t, srv)
	m = drain(t, m, m.Init())

	m, _ = update(t, m, tabKey)
	m.list.SetFilterText("a")
	if m.list.FilterState() != list.FilterApplied {
		t.Fatalf("filter state: %v", m.list.FilterState())
	}
	m, _ = update(t, m, tabKey)
	if m.focus != focusInput {
		t.Fatal("tab did not return to the input")
	}

	m.input.SetValue("gamma")
	m, cmd := update(t, m, enterKey)
	m = drain(t, m, cmd)
	if n := len(srv.Tasks()); n != 3 {
		t.Fatalf("server has %d tasks, want 3", n)
	}
	if n := len(m.list.VisibleItems()); n != 3 {
		t.Fatalf("after add: %d visible rows, want 3", n)
	}

	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	m = drain(t, m, cmd)
	if n := len(m.list.VisibleItems()); n != 3 {
		t.Fatalf("after reload: %d visible rows, want 3", n)
	}
	if m.list.FilterState() != list.FilterApplied {
		t.Errorf("filter dropped: %v", m.list.FilterState())
	}
}

func TestFailedLoadKeepsPreviousRows(t *testing.T) {
	srv := testutil.NewFakeAPI(t, model.Task{ID: 1, Task: "stay"})
	m := newModel(t, srv)
	m = drain(t, m, m.Init())

	srv.FailList("Not logged in")
	m = drain(t, m, m.loadCmd())
	if len(m.list.Items()) != 1 || len(m.alerts) != 0 {
		t.Fatalf("rows %d alerts %v", len(m.list.Items()), m.alerts)
	}
}

func TestOverlappingSubmitsAreIndependent(t *testing.T) {
	srv := testutil.NewFakeAPI(t)
	m := newModel(t, srv)
	m.input.SetValue("twice")

	m, first := update(t, m, enterKey)
	m, second := update(t, m, enterKey)
	if first == nil || second == nil {
		t.Fatal("double submit should yield two commands")
	}
	m = drain(t, m, first)
	_ = drain(t, m, second)

	posts := 0
	for _, r := range srv.Requests() {
		if r.Method == http.MethodPost {
			posts++
		}
	}
	if posts != 2 {
		t.Fatalf("got %d creates, want 2", posts)
	}
	if n := len(srv.Tasks()); n != 2 {
		t.Fatalf("server has %d tasks, want 2", n)
	}
}

func TestQuitKeys(t *testing.T) {
	srv := testutil.NewFakeAPI(t)
	m := newModel(t, srv)

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("ctrl+c produced no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c did not quit")
	}

	m, _ = update(t, m, tabKey)
	_, cmd = update(t, m, runes("q"))
	if cmd == nil {
		t.Fatal("q produced no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q in list did not quit")
	}
}
