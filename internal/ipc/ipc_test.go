package ipc

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

type fakeController struct {
	mu   sync.Mutex
	cmds []Command
	full bool
}

func (f *fakeController) EnqueueCommand(cmd Command) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.full {
		return errors.New("command queue full")
	}
	f.cmds = append(f.cmds, cmd)
	return nil
}

func (f *fakeController) Status() PlayerStatus {
	return PlayerStatus{Index: 3, Path: "/pics/d.png", Count: 10, State: "idle"}
}

func do(t *testing.T, ctrl Controller, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := newEcho(ctrl)
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestStatusHandler(t *testing.T) {
	rec := do(t, &fakeController{}, http.MethodGet, "/status", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status code = %d, want 200", rec.Code)
	}

	var got StatusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Player.Index != 3 || got.Player.Path != "/pics/d.png" {
		t.Errorf("player = %+v", got.Player)
	}
	if got.PID == 0 {
		t.Error("PID missing")
	}
}

func TestTypedRoutes(t *testing.T) {
	tests := []struct {
		path     string
		body     string
		wantCode int
		want     Command
	}{
		{"/next", "", http.StatusOK, Command{Type: CommandNext}},
		{"/prev10", "", http.StatusOK, Command{Type: CommandPrev10}},
		{"/jump", `["4"]`, http.StatusOK, Command{Type: CommandJump, Args: []string{"4"}}},
		{"/load", `["/a.png", "/b.png"]`, http.StatusOK, Command{Type: CommandLoad, Args: []string{"/a.png", "/b.png"}}},
		{"/mode", `["box-in"]`, http.StatusOK, Command{Type: CommandMode, Args: []string{"box-in"}}},
		{"/timer", `["+5"]`, http.StatusOK, Command{Type: CommandTimer, Args: []string{"+5"}}},
		{"/jump", `["four"]`, http.StatusBadRequest, Command{}},
		{"/load", "", http.StatusBadRequest, Command{}},
		{"/mode", `["spiral"]`, http.StatusBadRequest, Command{}},
		{"/timer", `["-3"]`, http.StatusOK, Command{Type: CommandTimer, Args: []string{"-3"}}},
	}
	for _, tt := range tests {
		t.Run(tt.path+" "+tt.body, func(t *testing.T) {
			ctrl := &fakeController{}
			rec := do(t, ctrl, http.MethodPost, tt.path, tt.body)
			if rec.Code != tt.wantCode {
				t.Fatalf("status code = %d, want %d (%s)", rec.Code, tt.wantCode, rec.Body.String())
			}
			if tt.wantCode != http.StatusOK {
				if len(ctrl.cmds) != 0 {
					t.Errorf("rejected request enqueued %v", ctrl.cmds)
				}
				return
			}
			if len(ctrl.cmds) != 1 {
				t.Fatalf("enqueued %d commands, want 1", len(ctrl.cmds))
			}
			got := ctrl.cmds[0]
			if got.Type != tt.want.Type || strings.Join(got.Args, ",") != strings.Join(tt.want.Args, ",") {
				t.Errorf("command = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestCommandRoute(t *testing.T) {
	ctrl := &fakeController{}
	rec := do(t, ctrl, http.MethodPost, "/command", `{"type":"random"}`)
	if rec.Code != http.StatusOK || len(ctrl.cmds) != 1 || ctrl.cmds[0].Type != CommandRandom {
		t.Fatalf("code = %d, cmds = %v", rec.Code, ctrl.cmds)
	}

	rec = do(t, ctrl, http.MethodPost, "/command", `{"type":"status"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status via /command code = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"path":"/pics/d.png"`) {
		t.Errorf("status body = %s", rec.Body.String())
	}

	rec = do(t, ctrl, http.MethodPost, "/command", `{"type":"dance"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown command code = %d, want 400", rec.Code)
	}
}

func TestQueueFull(t *testing.T) {
	rec := do(t, &fakeController{full: true}, http.MethodPost, "/stop", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("code = %d, want 503", rec.Code)
	}
}

func TestParseTimer(t *testing.T) {
	tests := []struct {
		in       string
		seconds  float64
		relative bool
		wantErr  bool
	}{
		{"5", 5, false, false},
		{"+5", 5, true, false},
		{"-2.5", -2.5, true, false},
		{"0", 0, false, false},
		{"soon", 0, false, true},
	}
	for _, tt := range tests {
		s, rel, err := ParseTimer(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseTimer(%q) error = %v", tt.in, err)
			continue
		}
		if s != tt.seconds || rel != tt.relative {
			t.Errorf("ParseTimer(%q) = %v, %v; want %v, %v", tt.in, s, rel, tt.seconds, tt.relative)
		}
	}
}

func TestSocketPath(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", "/run/user/1000")
	if got := SocketPath(); got != "/run/user/1000/sldshow.sock" {
		t.Errorf("SocketPath = %q", got)
	}
}
