package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type eventLog struct {
	mu     sync.Mutex
	events []string
}

func (l *eventLog) add(e string) {
	l.mu.Lock()
	l.events = append(l.events, e)
	l.mu.Unlock()
}

func (l *eventLog) all() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.events...)
}

type fakeDB struct {
	log           *eventLog
	connectErr    error
	disconnectErr error
}

func (f *fakeDB) Connect(context.Context) error {
	f.log.add("connect")
	return f.connectErr
}

func (f *fakeDB) Disconnect() error {
	f.log.add("disconnect")
	return f.disconnectErr
}

func listen(t *testing.T) net.Listener {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	return ln
}

func handlerOf(h http.HandlerFunc) HandlerFunc {
	return func() (http.Handler, error) { return h, nil }
}

func waitFor(t *testing.T, states <-chan State, want State) {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case st := <-states:
			if st == want {
				return
			}
		case <-timeout:
			t.Fatalf("timed out waiting for state %s", want)
		}
	}
}

func TestRunConnectFailure(t *testing.T) {
	log := &eventLog{}
	db := &fakeDB{log: log, connectErr: errors.New("connection refused")}
	built := false
	srv := New(Options{Listener: listen(t)}, db, func() (http.Handler, error) {
		built = true
		return http.NotFoundHandler(), nil
	})

	err := srv.Run(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, db.connectErr)
	assert.Equal(t, StateFailed, srv.State())
	assert.False(t, built)
	assert.Equal(t, []string{"connect"}, log.all())
}

func TestRunCleanStop(t *testing.T) {
	log := &eventLog{}
	srv := New(Options{Listener: listen(t)}, &fakeDB{log: log}, handlerOf(func(w http.ResponseWriter, r *http.Request) {}))

	var seen []State
	states := make(chan State, 16)
	srv.OnStateChange(func(st State) {
		seen = append(seen, st)
		states <- st
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	waitFor(t, states, StateServing)
	cancel()

	require.NoError(t, <-done)
	assert.Equal(t, []State{StateConnecting, StateServing, StateDraining, StateStopped}, seen)
	assert.Equal(t, []string{"connect", "disconnect"}, log.all())
}

func TestRunDrainsInFlightBeforeDisconnect(t *testing.T) {
	log := &eventLog{}
	entered := make(chan struct{})
	release := make(chan struct{})
	ln := listen(t)
	srv := New(Options{Listener: ln}, &fakeDB{log: log}, handlerOf(func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		<-release
		w.WriteHeader(http.StatusOK)
		log.add("request done")
	}))
	states := make(chan State, 16)
	srv.OnStateChange(func(st State) { states <- st })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()
	waitFor(t, states, StateServing)

	respCh := make(chan *http.Response, 1)
	go func() {
		resp, err := http.Get("http://" + ln.Addr().String() + "/slow")
		if err == nil {
			resp.Body.Close()
		}
		respCh <- resp
	}()
	<-entered

	cancel()
	waitFor(t, states, StateDraining)
	assert.NotContains(t, log.all(), "disconnect")

	close(release)
	resp := <-respCh
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, <-done)
	assert.Equal(t, []string{"connect", "request done", "disconnect"}, log.all())
	assert.Equal(t, StateStopped, srv.State())
}

func TestRunForcedShutdownAfterDrainTimeout(t *testing.T) {
	log := &eventLog{}
	entered := make(chan struct{})
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })
	ln := listen(t)
	srv := New(Options{Listener: ln, DrainTimeout: 50 * time.Millisecond}, &fakeDB{log: log}, handlerOf(func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		<-release
	}))
	states := make(chan State, 16)
	srv.OnStateChange(func(st State) { states <- st })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()
	waitFor(t, states, StateServing)

	go func() {
		resp, err := http.Get("http://" + ln.Addr().String() + "/stuck")
		if err == nil {
			resp.Body.Close()
		}
	}()
	<-entered
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrForcedShutdown)
	case <-time.After(5 * time.Second):
		t.Fatal("drain timeout not enforced")
	}
	assert.Equal(t, []string{"connect", "disconnect"}, log.all())
}

func TestRunDisconnectFailure(t *testing.T) {
	log := &eventLog{}
	db := &fakeDB{log: log, disconnectErr: errors.New("close failed")}
	srv := New(Options{Listener: listen(t)}, db, handlerOf(func(w http.ResponseWriter, r *http.Request) {}))
	states := make(chan State, 16)
	srv.OnStateChange(func(st State) { states <- st })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()
	waitFor(t, states, StateServing)
	cancel()

	err := <-done
	assert.ErrorIs(t, err, db.disconnectErr)
	assert.Equal(t, StateStopped, srv.State())
}

func TestRunHandlerBuildFailureDisconnects(t *testing.T) {
	log := &eventLog{}
	buildErr := errors.New("no routes")
	srv := New(Options{Listener: listen(t)}, &fakeDB{log: log}, func() (http.Handler, error) { return nil, buildErr })

	err := srv.Run(context.Background())

	assert.ErrorIs(t, err, buildErr)
	assert.Equal(t, StateFailed, srv.State())
	assert.Equal(t, []string{"connect", "disconnect"}, log.all())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "draining", StateDraining.String())
	assert.Equal(t, "State(42)", State(42).String())
}
