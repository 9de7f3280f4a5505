package receiver

import (
	"bytes"
	"log/slog"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/hypebeast/go-osc/osc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/visage/internal/frame"
	"github.com/roach88/visage/internal/testutil"
)

const (
	eventually = 2 * time.Second
	tick       = 5 * time.Millisecond
)

// statusRecorder collects transitions reported by WithStatusHook.
type statusRecorder struct {
	mu     sync.Mutex
	events []Status
}

func (r *statusRecorder) hook(s Status) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, s)
}

func (r *statusRecorder) snapshot() []Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Status(nil), r.events...)
}

func TestWorker_ReceivesFrames(t *testing.T) {
	buf := frame.NewBuffer()
	w := NewWorker("127.0.0.1", 0, buf)
	require.NoError(t, w.Start())
	defer func() {
		w.Stop()
		require.NoError(t, w.Wait(eventually))
	}()

	want := sampleFrame()
	payload, err := Encode(want)
	require.NoError(t, err)
	testutil.SendUDP(t, w.BoundAddr(), payload)

	require.Eventually(t, func() bool { return buf.Load() == want }, eventually, tick)
	assert.Equal(t, uint64(1), w.Stats().Received)
}

func TestWorker_MalformedDatagramLeavesBufferUnchanged(t *testing.T) {
	buf := frame.NewBuffer()
	w := NewWorker("127.0.0.1", 0, buf)
	require.NoError(t, w.Start())
	defer func() {
		w.Stop()
		require.NoError(t, w.Wait(eventually))
	}()

	good := sampleFrame()
	payload, err := Encode(good)
	require.NoError(t, err)
	testutil.SendUDP(t, w.BoundAddr(), payload)
	require.Eventually(t, func() bool { return buf.Load() == good }, eventually, tick)

	short := osc.NewMessage(Address)
	for i := 0; i < frame.Size-1; i++ {
		short.Append(float32(100))
	}
	testutil.SendUDP(t, w.BoundAddr(), marshal(t, short))

	require.Eventually(t, func() bool { return w.Stats().Dropped == 1 }, eventually, tick)
	assert.Equal(t, good, buf.Load())
	assert.True(t, w.IsRunning(), "malformed input must not stop the worker")
}

func TestWorker_StatusTransitions(t *testing.T) {
	rec := &statusRecorder{}
	w := NewWorker("127.0.0.1", 0, frame.NewBuffer(), WithStatusHook(rec.hook))
	assert.Equal(t, StatusIdle, w.Status())

	require.NoError(t, w.Start())
	assert.Equal(t, StatusRunning, w.Status())

	w.Stop()
	require.NoError(t, w.Wait(eventually))
	assert.Equal(t, StatusIdle, w.Status())

	assert.Equal(t, []Status{StatusRunning, StatusStopping, StatusIdle}, rec.snapshot())
}

func TestWorker_StartWhileRunningIsNoop(t *testing.T) {
	rec := &statusRecorder{}
	w := NewWorker("127.0.0.1", 0, frame.NewBuffer(), WithStatusHook(rec.hook))
	require.NoError(t, w.Start())
	bound := w.BoundAddr()

	require.NoError(t, w.Start())
	assert.Equal(t, bound, w.BoundAddr(), "second Start must not rebind")

	w.Stop()
	require.NoError(t, w.Wait(eventually))
	assert.Equal(t, []Status{StatusRunning, StatusStopping, StatusIdle}, rec.snapshot())
}

func TestWorker_StartWhileStoppingIsRejected(t *testing.T) {
	// A long poll interval keeps the worker in STOPPING long enough to observe
	w := NewWorker("127.0.0.1", 0, frame.NewBuffer(), WithPollInterval(500*time.Millisecond))
	require.NoError(t, w.Start())

	w.Stop()
	err := w.Start()
	require.Error(t, err)
	assert.True(t, IsStoppingError(err))

	require.NoError(t, w.Wait(eventually))
	require.NoError(t, w.Start(), "start after IDLE must succeed")
	w.Stop()
	require.NoError(t, w.Wait(eventually))
}

func TestWorker_StopIsIdempotent(t *testing.T) {
	w := NewWorker("127.0.0.1", 0, frame.NewBuffer())
	w.Stop()
	assert.Equal(t, StatusIdle, w.Status())
	require.NoError(t, w.Wait(eventually))

	require.NoError(t, w.Start())
	w.Stop()
	w.Stop()
	require.NoError(t, w.Wait(eventually))
	assert.Equal(t, StatusIdle, w.Status())
}

func TestWorker_BindFailure(t *testing.T) {
	first := NewWorker("127.0.0.1", 0, frame.NewBuffer())
	require.NoError(t, first.Start())
	defer func() {
		first.Stop()
		require.NoError(t, first.Wait(eventually))
	}()

	port := portOf(t, first.BoundAddr())
	second := NewWorker("127.0.0.1", port, frame.NewBuffer())
	err := second.Start()
	require.Error(t, err)
	assert.True(t, IsBindError(err))
	assert.Equal(t, StatusIdle, second.Status())
}

func TestWorker_Reset(t *testing.T) {
	w := NewWorker("127.0.0.1", 0, frame.NewBuffer())
	require.NoError(t, w.Start())

	port := testutil.FreeUDPPort(t)
	require.NoError(t, w.Reset("127.0.0.1", port, eventually))
	assert.Equal(t, StatusIdle, w.Status())
	assert.Equal(t, JoinAddr("127.0.0.1", port), w.Addr())

	require.NoError(t, w.Start())
	assert.Equal(t, JoinAddr("127.0.0.1", port), w.BoundAddr())
	w.Stop()
	require.NoError(t, w.Wait(eventually))
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "IDLE", StatusIdle.String())
	assert.Equal(t, "RUNNING", StatusRunning.String())
	assert.Equal(t, "STOPPING", StatusStopping.String())
	assert.Equal(t, "UNKNOWN", Status(9).String())
}

func portOf(t *testing.T, addr string) int {
	t.Helper()
	udp, err := net.ResolveUDPAddr("udp", addr)
	require.NoError(t, err)
	return udp.Port
}

// logBuffer is a goroutine-safe sink for the default slog logger.
type logBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *logBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *logBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func captureLogs(t *testing.T) *logBuffer {
	t.Helper()
	logs := &logBuffer{}
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return logs
}

func TestWorker_ReportsDropsOnShutdown(t *testing.T) {
	logs := captureLogs(t)

	buf := frame.NewBuffer()
	w := NewWorker("127.0.0.1", 0, buf)
	require.NoError(t, w.Start())

	testutil.SendUDP(t, w.BoundAddr(), []byte("noise"))
	testutil.SendUDP(t, w.BoundAddr(), []byte("more noise"))
	require.Eventually(t, func() bool { return w.Stats().Dropped == 2 }, eventually, tick)
	assert.NotContains(t, logs.String(), "dropped datagram")

	w.Stop()
	require.NoError(t, w.Wait(eventually))

	var summary []string
	for _, line := range strings.Split(logs.String(), "\n") {
		if strings.Contains(line, "dropped=") {
			summary = append(summary, line)
		}
	}
	require.Len(t, summary, 1)
	assert.Contains(t, summary[0], "level=DEBUG")
	assert.Contains(t, summary[0], "received=0")
	assert.Contains(t, summary[0], "dropped=2")
	assert.Contains(t, logs.String(), `msg="receiver stopped"`)
}
