package orch

import (
	"errors"
	"sync"
	"testing"

	"github.com/dkeye/Arena/internal/app"
	"github.com/dkeye/Arena/internal/core"
	"github.com/dkeye/Arena/internal/domain"
	"github.com/dkeye/Arena/internal/protocol"
	"github.com/goccy/go-json"
)

// recConn records every frame it is handed.
type recConn struct {
	mu     sync.Mutex
	frames []core.Frame
	full   bool
}

func (c *recConn) TrySend(f core.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.full {
		return errors.New("backpressure")
	}
	c.frames = append(c.frames, f)
	return nil
}

func (c *recConn) Close() {}

type message map[string]any

func (c *recConn) messages(t *testing.T) []message {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]message, 0, len(c.frames))
	for _, f := range c.frames {
		var m message
		if err := json.Unmarshal(f, &m); err != nil {
			t.Fatalf("bad frame %s: %v", f, err)
		}
		out = append(out, m)
	}
	return out
}

func (c *recConn) ofType(t *testing.T, typ string) []message {
	t.Helper()
	var out []message
	for _, m := range c.messages(t) {
		if m["type"] == typ {
			out = append(out, m)
		}
	}
	return out
}

func (c *recConn) last(t *testing.T, typ string) message {
	t.Helper()
	all := c.ofType(t, typ)
	if len(all) == 0 {
		t.Fatalf("no %q message", typ)
	}
	return all[len(all)-1]
}

func (c *recConn) reset() {
	c.mu.Lock()
	c.frames = nil
	c.mu.Unlock()
}

func newTestOrch() *Orchestrator {
	store := app.NewRoomStore(app.StoreOptions{MaxNameLen: 36, MaxPlayersLimit: 16})
	return New(app.NewRegistry(), store, app.SimplePolicy{})
}

func connect(o *Orchestrator, sids ...core.SessionID) map[core.SessionID]*recConn {
	conns := make(map[core.SessionID]*recConn, len(sids))
	for _, sid := range sids {
		c := &recConn{}
		conns[sid] = c
		o.Connect(sid, c, nil)
	}
	return conns
}

func intp(v int) *int { return &v }

func TestConnectBroadcastsPresence(t *testing.T) {
	o := newTestOrch()
	conns := connect(o, "a", "b")

	if got := conns["a"].last(t, protocol.TypeOnlineCount)["count"]; got != float64(2) {
		t.Errorf("a saw count %v, want 2", got)
	}
	if got := conns["b"].last(t, protocol.TypeOnlineCount)["count"]; got != float64(2) {
		t.Errorf("b saw count %v, want 2", got)
	}
}

func TestScenarioAlpha(t *testing.T) {
	o := newTestOrch()
	conns := connect(o, "a", "b")

	if err := o.CreateRoom("a", protocol.CreateRoom{Name: "Alpha"}); err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}
	created := conns["a"].last(t, protocol.TypeRoomCreated)
	if created["side"] != "player" || created["roomName"] != "Alpha" {
		t.Errorf("unexpected room_created %v", created)
	}
	if len(conns["b"].ofType(t, protocol.TypeRoomList)) != 1 {
		t.Error("room list not broadcast to b")
	}

	if err := o.JoinRoom("b", protocol.JoinRoom{Name: "Alpha", Password: "anything"}); err != nil {
		t.Fatalf("JoinRoom: %v", err)
	}
	if side := conns["b"].last(t, protocol.TypeRoomJoined)["side"]; side != "enemy" {
		t.Errorf("b side %v, want enemy", side)
	}

	want := map[string]any{"mapSize": float64(4000), "isIsland": false, "maxPlayers": float64(2)}
	for _, sid := range []core.SessionID{"a", "b"} {
		starts := conns[sid].ofType(t, protocol.TypeStartGame)
		if len(starts) != 1 {
			t.Fatalf("%s got %d start signals", sid, len(starts))
		}
		got := starts[0]["settings"].(map[string]any)
		for k, v := range want {
			if got[k] != v {
				t.Errorf("%s settings[%s] = %v, want %v", sid, k, got[k], v)
			}
		}
	}
}

func TestScenarioBetaRoomFull(t *testing.T) {
	o := newTestOrch()
	conns := connect(o, "a", "b", "c")

	if err := o.CreateRoom("a", protocol.CreateRoom{Name: "Beta", Password: "x", Settings: &protocol.SettingsPayload{MaxPlayers: intp(2)}}); err != nil {
		t.Fatal(err)
	}
	if err := o.JoinRoom("b", protocol.JoinRoom{Name: "Beta", Password: "x"}); err != nil {
		t.Fatal(err)
	}
	conns["a"].reset()
	conns["b"].reset()

	err := o.JoinRoom("c", protocol.JoinRoom{Name: "Beta", Password: "x"})
	if !errors.Is(err, domain.ErrRoomFull) {
		t.Fatalf("expected ErrRoomFull, got %v", err)
	}
	if code := conns["c"].last(t, protocol.TypeError)["code"]; code != "room_full" {
		t.Errorf("error code %v, want room_full", code)
	}
	if len(conns["a"].messages(t)) != 0 || len(conns["b"].messages(t)) != 0 {
		t.Error("failure must only notify the requester")
	}
	if n := len(o.Rooms.MembersOf("Beta")); n != 2 {
		t.Errorf("membership %d, want 2", n)
	}
}

func TestJoinWrongPassword(t *testing.T) {
	o := newTestOrch()
	conns := connect(o, "a", "b")
	_ = o.CreateRoom("a", protocol.CreateRoom{Name: "Vault", Password: "x"})

	if err := o.JoinRoom("b", protocol.JoinRoom{Name: "Vault", Password: "y"}); !errors.Is(err, domain.ErrBadPassword) {
		t.Fatalf("expected ErrBadPassword, got %v", err)
	}
	if code := conns["b"].last(t, protocol.TypeError)["code"]; code != "bad_password" {
		t.Errorf("error code %v", code)
	}
	if len(conns["a"].ofType(t, protocol.TypeStartGame)) != 0 {
		t.Error("start signal sent after failed join")
	}
}

func TestCreateNameTaken(t *testing.T) {
	o := newTestOrch()
	conns := connect(o, "a", "b")
	_ = o.CreateRoom("a", protocol.CreateRoom{Name: "Alpha"})
	conns["b"].reset()

	if err := o.CreateRoom("b", protocol.CreateRoom{Name: "Alpha"}); !errors.Is(err, domain.ErrNameTaken) {
		t.Fatalf("expected ErrNameTaken, got %v", err)
	}
	msgs := conns["b"].messages(t)
	if len(msgs) != 1 || msgs[0]["code"] != "name_taken" {
		t.Errorf("expected a single error, got %v", msgs)
	}
}

func TestScenarioGammaDisconnect(t *testing.T) {
	o := newTestOrch()
	conns := connect(o, "a", "b", "watcher")
	_ = o.CreateRoom("a", protocol.CreateRoom{Name: "Gamma"})
	_ = o.JoinRoom("b", protocol.JoinRoom{Name: "Gamma"})
	for _, c := range conns {
		c.reset()
	}

	o.Disconnect("a")

	if left := conns["b"].ofType(t, protocol.TypePlayerLeft); len(left) != 1 {
		t.Errorf("b got %d player_left, want 1", len(left))
	}
	if len(conns["watcher"].ofType(t, protocol.TypePlayerLeft)) != 0 {
		t.Error("non-member got player_left")
	}
	if got := conns["watcher"].last(t, protocol.TypeOnlineCount)["count"]; got != float64(2) {
		t.Errorf("presence %v, want 2", got)
	}
	if rooms := conns["watcher"].last(t, protocol.TypeRoomList)["rooms"].([]any); len(rooms) != 0 {
		t.Errorf("Gamma still listed: %v", rooms)
	}

	conns["b"].reset()
	o.SendRooms("b")
	if rooms := conns["b"].last(t, protocol.TypeRoomList)["rooms"].([]any); len(rooms) != 0 {
		t.Errorf("get_rooms still lists Gamma: %v", rooms)
	}
	if _, _, ok := o.Rooms.RoomOf("b"); ok {
		t.Error("b should be unjoined after the room closed")
	}
}

func TestDisconnectIsIdempotent(t *testing.T) {
	o := newTestOrch()
	conns := connect(o, "a", "b")
	_ = o.CreateRoom("a", protocol.CreateRoom{Name: "Solo"})

	o.Disconnect("a")
	conns["b"].reset()
	o.Disconnect("a")
	if msgs := conns["b"].messages(t); len(msgs) != 0 {
		t.Errorf("second disconnect emitted %v", msgs)
	}
	if o.Rooms.Count() != 0 {
		t.Error("room should be deleted")
	}
}

func TestDisconnectUnjoinedOnlyUpdatesPresence(t *testing.T) {
	o := newTestOrch()
	conns := connect(o, "a", "b")
	conns["b"].reset()

	o.Disconnect("a")
	msgs := conns["b"].messages(t)
	if len(msgs) != 1 || msgs[0]["type"] != protocol.TypeOnlineCount {
		t.Errorf("expected only a presence update, got %v", msgs)
	}
}

func TestLeaveRoom(t *testing.T) {
	o := newTestOrch()
	conns := connect(o, "a", "b")
	_ = o.CreateRoom("a", protocol.CreateRoom{Name: "Lounge"})
	_ = o.JoinRoom("b", protocol.JoinRoom{Name: "Lounge"})

	if err := o.LeaveRoom("b"); err != nil {
		t.Fatalf("LeaveRoom: %v", err)
	}
	if len(conns["b"].ofType(t, protocol.TypeLeft)) != 1 {
		t.Error("leaver not acknowledged")
	}
	if len(conns["a"].ofType(t, protocol.TypePlayerLeft)) != 1 {
		t.Error("remaining member not notified")
	}
	if o.Rooms.Count() != 0 {
		t.Error("room should be deleted")
	}
	if o.Registry.Count() != 2 {
		t.Error("leave must keep the connection registered")
	}

	if err := o.LeaveRoom("b"); !errors.Is(err, domain.ErrNotInRoom) {
		t.Errorf("expected ErrNotInRoom, got %v", err)
	}
	if err := o.CreateRoom("b", protocol.CreateRoom{Name: "Again"}); err != nil {
		t.Errorf("unjoined session should create again: %v", err)
	}
}

func TestGameCommand(t *testing.T) {
	o := newTestOrch()
	conns := connect(o, "a", "b", "c")
	_ = o.CreateRoom("a", protocol.CreateRoom{Name: "Alpha", Settings: &protocol.SettingsPayload{MaxPlayers: intp(3)}})
	_ = o.JoinRoom("b", protocol.JoinRoom{Name: "Alpha"})
	for _, c := range conns {
		c.reset()
	}

	raw := json.RawMessage(`{"type":"game_command","roomName":"Alpha","move":[3,4]}`)
	o.GameCommand("a", protocol.GameCommand{RoomName: "Alpha", Raw: raw})

	if n := len(conns["a"].messages(t)); n != 0 {
		t.Errorf("sender received %d frames", n)
	}
	if n := len(conns["c"].messages(t)); n != 0 {
		t.Errorf("outsider received %d frames", n)
	}
	got := conns["b"].last(t, protocol.TypeRemoteCommand)["data"].(map[string]any)
	if got["roomName"] != "Alpha" || got["move"].([]any)[1] != float64(4) {
		t.Errorf("payload altered: %v", got)
	}

	conns["b"].reset()
	o.GameCommand("a", protocol.GameCommand{Raw: raw})
	if n := len(conns["b"].messages(t)); n != 0 {
		t.Errorf("command without room delivered %d frames", n)
	}
}

func TestGameCommandKicksSlowMember(t *testing.T) {
	o := newTestOrch()
	slow := &recConn{}
	kicked := false
	o.Connect("a", &recConn{}, nil)
	o.Connect("b", slow, func() { kicked = true })
	_ = o.CreateRoom("a", protocol.CreateRoom{Name: "Alpha"})
	_ = o.JoinRoom("b", protocol.JoinRoom{Name: "Alpha"})

	slow.mu.Lock()
	slow.full = true
	slow.mu.Unlock()
	o.GameCommand("a", protocol.GameCommand{RoomName: "Alpha", Raw: json.RawMessage(`{}`)})
	if !kicked {
		t.Error("slow member should be canceled")
	}
}

func TestGameCommandDropPolicyKeepsMember(t *testing.T) {
	o := newTestOrch()
	o.Policy = app.PolicyFor("drop")
	slow := &recConn{full: true}
	kicked := false
	o.Connect("a", &recConn{}, nil)
	o.Connect("b", slow, func() { kicked = true })
	_ = o.CreateRoom("a", protocol.CreateRoom{Name: "Alpha"})
	_ = o.JoinRoom("b", protocol.JoinRoom{Name: "Alpha"})

	o.GameCommand("a", protocol.GameCommand{RoomName: "Alpha", Raw: json.RawMessage(`{}`)})
	if kicked {
		t.Error("drop policy must not cancel the member")
	}
}

func TestWhoAmI(t *testing.T) {
	o := newTestOrch()
	conns := connect(o, "a")
	o.WhoAmI("a")
	if m := conns["a"].last(t, protocol.TypeWhoAmI); m["sid"] != "a" || m["roomName"] != nil {
		t.Errorf("unexpected identity %v", m)
	}
	_ = o.CreateRoom("a", protocol.CreateRoom{Name: "Alpha"})
	o.WhoAmI("a")
	if m := conns["a"].last(t, protocol.TypeWhoAmI); m["roomName"] != "Alpha" || m["side"] != "player" {
		t.Errorf("unexpected identity %v", m)
	}
}
