package simulator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/lui/internal/device"
	"github.com/rileyhilliard/lui/internal/errors"
	"github.com/rileyhilliard/lui/internal/logger"
	"github.com/rileyhilliard/lui/internal/push"
)

const testKey = "sim-key"

func startSim(t *testing.T, opts Options) (*Server, *httptest.Server, *device.Client) {
	t.Helper()
	if opts.APIKey == "" {
		opts.APIKey = testKey
	}
	sim := New(opts, logger.NewBufferLogger())
	srv := httptest.NewServer(sim.Handler())
	t.Cleanup(func() {
		sim.stopCountdown()
		sim.hub.Close()
		srv.Close()
	})
	client := device.NewClient(device.ClientOptions{BaseURL: srv.URL, APIKey: opts.APIKey}, nil)
	return sim, srv, client
}

func dialPush(t *testing.T, sim *Server, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	u, err := device.PushURL(srv.URL)
	require.NoError(t, err)
	header := http.Header{}
	header.Set(device.APIKeyHeader, sim.opts.APIKey)
	conn, _, err := websocket.DefaultDialer.Dial(u, header)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.Eventually(t, func() bool { return sim.Clients() == 1 }, time.Second, 5*time.Millisecond)
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) push.Event {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	ev, err := push.Decode(raw)
	require.NoError(t, err)
	return ev
}

func TestServer_RequiresAPIKey(t *testing.T) {
	_, srv, _ := startSim(t, Options{LockEnabled: true, LockCode: "1234"})

	resp, err := http.Get(srv.URL + device.Routes[device.CmdLockStatus].Path)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	wrong := device.NewClient(device.ClientOptions{BaseURL: srv.URL, APIKey: "nope"}, nil)
	_, err = wrong.LocalLockStatus(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrDevice))
}

func TestServer_LockStatus(t *testing.T) {
	sim, _, client := startSim(t, Options{LockEnabled: true, LockCode: "4321"})

	st, err := client.LocalLockStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, device.LockStatus{LockEnabled: true, LockCode: "4321"}, st)
	assert.True(t, sim.Snapshot().Locked)
	assert.Equal(t, []string{device.CmdLockStatus}, sim.Calls())
}

func TestServer_UnlockAndLockPush(t *testing.T) {
	sim, srv, client := startSim(t, Options{LockEnabled: true, LockCode: "1234"})
	conn := dialPush(t, sim, srv)
	ctx := context.Background()

	require.NoError(t, client.Unlock(ctx))
	ev := readEvent(t, conn)
	assert.Equal(t, push.TypeLocalLockUnlocked, ev.Type)
	assert.True(t, ev.Ours())
	assert.False(t, sim.Snapshot().Locked)

	require.NoError(t, client.ImmediateLock(ctx))
	assert.Equal(t, push.TypeLocalLockLocked, readEvent(t, conn).Type)
	assert.True(t, sim.Snapshot().Locked)
}

func TestServer_AutoLockToggle(t *testing.T) {
	sim, srv, client := startSim(t, Options{})
	conn := dialPush(t, sim, srv)

	require.NoError(t, client.SetAutoLock(context.Background(), true))

	ev := readEvent(t, conn)
	require.Equal(t, push.TypeAutoLocalLockToggle, ev.Type)
	on, err := ev.Toggle()
	require.NoError(t, err)
	assert.True(t, on)
	assert.True(t, sim.Snapshot().AutoLock)
}

func TestServer_InvalidUnlockCountdown(t *testing.T) {
	sim, srv, client := startSim(t, Options{
		LockEnabled: true,
		LockCode:    "1234",
		Cooldown:    3 * time.Second,
		Tick:        10 * time.Millisecond,
	})
	conn := dialPush(t, sim, srv)

	require.NoError(t, client.NotifyInvalidUnlock(context.Background()))

	for _, want := range []int{3, 2, 1} {
		ev := readEvent(t, conn)
		require.Equal(t, push.TypeInvalidUnlockTimer, ev.Type)
		n, err := ev.Timer()
		require.NoError(t, err)
		assert.Equal(t, want, n)
	}
	assert.Equal(t, push.TypeInvalidUnlockReset, readEvent(t, conn).Type)
	assert.Zero(t, sim.Snapshot().Cooldown)
}

func TestServer_UnlockStopsCountdown(t *testing.T) {
	sim, srv, client := startSim(t, Options{
		LockEnabled: true,
		LockCode:    "1234",
		Cooldown:    time.Minute,
		Tick:        time.Hour,
	})
	conn := dialPush(t, sim, srv)
	ctx := context.Background()

	require.NoError(t, client.NotifyInvalidUnlock(ctx))
	assert.Equal(t, push.TypeInvalidUnlockTimer, readEvent(t, conn).Type)
	assert.Equal(t, 60, sim.Snapshot().Cooldown)

	require.NoError(t, client.Unlock(ctx))
	assert.Equal(t, push.TypeLocalLockUnlocked, readEvent(t, conn).Type)
	assert.Zero(t, sim.Snapshot().Cooldown)
}

func TestServer_LockStatusReportsCooldown(t *testing.T) {
	_, _, client := startSim(t, Options{
		LockEnabled: true,
		LockCode:    "1234",
		Cooldown:    time.Minute,
		Tick:        time.Hour,
	})
	ctx := context.Background()

	require.NoError(t, client.NotifyInvalidUnlock(ctx))
	st, err := client.LocalLockStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 60, st.Cooldown)

	require.NoError(t, client.Unlock(ctx))
	st, err = client.LocalLockStatus(ctx)
	require.NoError(t, err)
	assert.Zero(t, st.Cooldown)
}

func TestServer_StoppedCountdownTickIsDropped(t *testing.T) {
	sim, srv, client := startSim(t, Options{
		LockEnabled: true,
		LockCode:    "1234",
		Cooldown:    time.Minute,
		Tick:        time.Hour,
	})
	conn := dialPush(t, sim, srv)
	ctx := context.Background()

	require.NoError(t, client.NotifyInvalidUnlock(ctx))
	assert.Equal(t, push.TypeInvalidUnlockTimer, readEvent(t, conn).Type)

	sim.mu.Lock()
	stale := sim.stopTick
	sim.mu.Unlock()

	require.NoError(t, client.Unlock(ctx))
	assert.Equal(t, push.TypeLocalLockUnlocked, readEvent(t, conn).Type)

	// A tick that raced the unlock must not publish or revive the cooldown.
	assert.False(t, sim.countdownTick(stale, 59))
	assert.Zero(t, sim.Snapshot().Cooldown)

	require.NoError(t, client.ImmediateLock(ctx))
	assert.Equal(t, push.TypeLocalLockLocked, readEvent(t, conn).Type,
		"no timer event was queued between the unlock and the lock")
}

func TestServer_PrinterStateAndShutdown(t *testing.T) {
	sim, srv, client := startSim(t, Options{})
	ctx := context.Background()

	ps, err := client.PrinterState(ctx)
	require.NoError(t, err)
	assert.False(t, ps.Printing)
	assert.Equal(t, "Operational", ps.State)

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/sim/printing/on", nil)
	require.NoError(t, err)
	req.Header.Set(device.APIKeyHeader, testKey)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	ps, err = client.PrinterState(ctx)
	require.NoError(t, err)
	assert.True(t, ps.Printing)

	err = client.Shutdown(ctx)
	require.Error(t, err, "shutdown is refused mid-print")
	assert.Contains(t, err.Error(), "409")

	sim.SetPrinting(false)
	assert.NoError(t, client.Shutdown(ctx))
	assert.NoError(t, client.RestartService(ctx))
	assert.NoError(t, client.Reboot(ctx))
}

func TestServer_Settings(t *testing.T) {
	sim, _, client := startSim(t, Options{})
	ctx := context.Background()

	require.NoError(t, client.SetAutoShutdown(ctx, true))
	s, err := client.Settings(ctx)
	require.NoError(t, err)
	assert.True(t, s.AutoShutdown)

	require.NoError(t, client.SaveSettings(ctx, device.Settings{AutoShutdown: false}))
	assert.False(t, sim.Snapshot().AutoShutdown)
}

func TestServer_SimRoutes(t *testing.T) {
	sim, srv, _ := startSim(t, Options{})
	conn := dialPush(t, sim, srv)

	post := func(path string) int {
		req, err := http.NewRequest(http.MethodPost, srv.URL+path, nil)
		require.NoError(t, err)
		req.Header.Set(device.APIKeyHeader, testKey)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		return resp.StatusCode
	}

	assert.Equal(t, http.StatusNoContent, post("/sim/powerbutton"))
	assert.Equal(t, push.TypePowerButtonPressed, readEvent(t, conn).Type)

	assert.Equal(t, http.StatusNoContent, post("/sim/lock"))
	assert.Equal(t, push.TypeLocalLockLocked, readEvent(t, conn).Type)

	assert.Equal(t, http.StatusNotFound, post("/sim/printing/maybe"))

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/sim/state", nil)
	require.NoError(t, err)
	req.Header.Set(device.APIKeyHeader, testKey)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var st State
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&st))
	assert.True(t, st.Locked)
	assert.Equal(t, 1, st.PushClients)
}

func TestHub_DisconnectUnregisters(t *testing.T) {
	sim, srv, _ := startSim(t, Options{})
	conn := dialPush(t, sim, srv)

	require.NoError(t, conn.Close())

	assert.Eventually(t, func() bool { return sim.Clients() == 0 }, time.Second, 5*time.Millisecond)
}

func TestServer_ListenerReceivesEvents(t *testing.T) {
	sim, srv, _ := startSim(t, Options{})
	u, err := device.PushURL(srv.URL)
	require.NoError(t, err)

	events := make(chan push.Event, 4)
	l := push.NewListener(push.ListenerOptions{URL: u, APIKey: testKey, Reconnect: 10 * time.Millisecond}, nil)
	l.OnEvent = func(ev push.Event) { events <- ev }

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = l.Run(ctx) }()

	require.Eventually(t, func() bool { return sim.Clients() == 1 }, 2*time.Second, 5*time.Millisecond)
	sim.PressPowerButton()

	select {
	case ev := <-events:
		assert.Equal(t, push.TypePowerButtonPressed, ev.Type)
	case <-time.After(2 * time.Second):
		t.Fatal("listener never saw the power button event")
	}
}
