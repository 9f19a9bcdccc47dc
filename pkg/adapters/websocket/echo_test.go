package websocket_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	echo "github.com/aretw0/musicbox-realtime/pkg/adapters/websocket"
	"github.com/aretw0/musicbox-realtime/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	ws "nhooyr.io/websocket"
)

const welcomeJSON = `{"type":"welcome","message":"Connected to Music Box Realtime Service"}`

func startServer(t *testing.T, opts ...echo.Option) string {
	t.Helper()
	srv := httptest.NewServer(echo.NewHandler(opts...))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, ctx context.Context, url string) *ws.Conn {
	t.Helper()
	conn, _, err := ws.Dial(ctx, url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.CloseNow() })
	return conn
}

func readText(t *testing.T, ctx context.Context, conn *ws.Conn) string {
	t.Helper()
	typ, data, err := conn.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, ws.MessageText, typ)
	return string(data)
}

func TestHandler_Welcome(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dial(t, ctx, startServer(t))
	assert.Equal(t, welcomeJSON, readText(t, ctx, conn))
}

func TestHandler_Echo(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dial(t, ctx, startServer(t))
	readText(t, ctx, conn)

	require.NoError(t, conn.Write(ctx, ws.MessageText, []byte(`{"foo":"bar"}`)))
	assert.Equal(t, `{"type":"echo","data":{"foo":"bar"}}`, readText(t, ctx, conn))
}

func TestHandler_EchoIsPerMessage(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dial(t, ctx, startServer(t))
	readText(t, ctx, conn)

	payloads := []struct{ in, out string }{
		{`{"n":1}`, `{"type":"echo","data":{"n":1}}`},
		{` [1, 2.50, "x"] `, `{"type":"echo","data":[1,2.50,"x"]}`},
		{`"<b>"`, `{"type":"echo","data":"<b>"}`},
		{`null`, `{"type":"echo","data":null}`},
	}
	for _, p := range payloads {
		require.NoError(t, conn.Write(ctx, ws.MessageText, []byte(p.in)))
		assert.Equal(t, p.out, readText(t, ctx, conn))
	}

	// Binary frames carry JSON too.
	require.NoError(t, conn.Write(ctx, ws.MessageBinary, []byte(`{"bin":true}`)))
	assert.Equal(t, `{"type":"echo","data":{"bin":true}}`, readText(t, ctx, conn))
}

func TestHandler_InvalidJSONClosesOnlyThatConnection(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var decodeErrors atomic.Int32
	url := startServer(t, echo.WithHooks(domain.ConnectionHooks{
		OnDecodeError: func(context.Context, *domain.ConnectionEvent) { decodeErrors.Add(1) },
	}))

	bad := dial(t, ctx, url)
	good := dial(t, ctx, url)
	readText(t, ctx, bad)
	readText(t, ctx, good)

	require.NoError(t, bad.Write(ctx, ws.MessageText, []byte(`not json`)))
	_, _, err := bad.Read(ctx)
	require.Error(t, err)
	assert.Equal(t, ws.StatusInvalidFramePayloadData, ws.CloseStatus(err))
	assert.EqualValues(t, 1, decodeErrors.Load())

	require.NoError(t, good.Write(ctx, ws.MessageText, []byte(`{"still":"here"}`)))
	assert.Equal(t, `{"type":"echo","data":{"still":"here"}}`, readText(t, ctx, good))

	// The listener still accepts new clients.
	fresh := dial(t, ctx, url)
	assert.Equal(t, welcomeJSON, readText(t, ctx, fresh))
}

func TestHandler_ConcurrentClientsNoCrossTalk(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	url := startServer(t)
	const n = 20

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs <- runClient(ctx, url, i)
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
}

func runClient(ctx context.Context, url string, i int) error {
	conn, _, err := ws.Dial(ctx, url, nil)
	if err != nil {
		return err
	}
	defer conn.CloseNow()

	_, first, err := conn.Read(ctx)
	if err != nil {
		return err
	}
	if string(first) != welcomeJSON {
		return fmt.Errorf("client %d: unexpected first message %s", i, first)
	}

	payload := fmt.Sprintf(`{"client":%d}`, i)
	if err := conn.Write(ctx, ws.MessageText, []byte(payload)); err != nil {
		return err
	}
	_, reply, err := conn.Read(ctx)
	if err != nil {
		return err
	}

	var got domain.EchoMessage
	if err := json.Unmarshal(reply, &got); err != nil {
		return err
	}
	data, _ := got.Data.(map[string]any)
	if got.Type != domain.MessageEcho || data["client"] != float64(i) {
		return fmt.Errorf("client %d: got reply %s", i, reply)
	}
	return conn.Close(ws.StatusNormalClosure, "")
}

func TestHandler_HooksLifecycle(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var mu sync.Mutex
	var events []domain.EventType
	record := func(_ context.Context, e *domain.ConnectionEvent) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, e.Type)
	}
	disconnected := make(chan string, 1)

	url := startServer(t, echo.WithHooks(domain.ConnectionHooks{
		OnConnect: record,
		OnMessage: record,
		OnDisconnect: func(ctx context.Context, e *domain.ConnectionEvent) {
			record(ctx, e)
			disconnected <- e.ClientID
		},
	}))

	conn := dial(t, ctx, url)
	readText(t, ctx, conn)
	require.NoError(t, conn.Write(ctx, ws.MessageText, []byte(`{}`)))
	readText(t, ctx, conn)
	require.NoError(t, conn.Close(ws.StatusNormalClosure, "bye"))

	select {
	case id := <-disconnected:
		assert.NotEmpty(t, id)
	case <-ctx.Done():
		t.Fatal("disconnect hook not fired")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []domain.EventType{domain.EventConnect, domain.EventMessage, domain.EventDisconnect}, events)
}

func TestHandler_ReadLimit(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dial(t, ctx, startServer(t, echo.WithReadLimit(16)))
	readText(t, ctx, conn)

	require.NoError(t, conn.Write(ctx, ws.MessageText, []byte(`{"payload":"far too long for the limit"}`)))
	_, _, err := conn.Read(ctx)
	assert.Equal(t, ws.StatusMessageTooBig, ws.CloseStatus(err))
}

func TestHandler_DefaultLimitAcceptsLargeMessages(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn := dial(t, ctx, startServer(t))
	conn.SetReadLimit(4 << 20)
	readText(t, ctx, conn)

	blob := strings.Repeat("a", 1<<20)
	in, err := json.Marshal(map[string]string{"blob": blob})
	require.NoError(t, err)
	require.NoError(t, conn.Write(ctx, ws.MessageText, in))

	var got struct {
		Type string `json:"type"`
		Data struct {
			Blob string `json:"blob"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(readText(t, ctx, conn)), &got))
	assert.Equal(t, "echo", got.Type)
	assert.Len(t, got.Data.Blob, len(blob))
}

func TestDecodePayload(t *testing.T) {
	_, err := echo.DecodePayload([]byte(`{"a":1} {"b":2}`))
	assert.ErrorIs(t, err, domain.ErrInvalidPayload)

	_, err = echo.DecodePayload([]byte(``))
	assert.ErrorIs(t, err, domain.ErrInvalidPayload)

	v, err := echo.DecodePayload([]byte("\n{\"big\":12345678901234567890}\n"))
	require.NoError(t, err)
	b, err := echo.EncodeMessage(domain.NewEcho(v))
	require.NoError(t, err)
	assert.Equal(t, `{"type":"echo","data":{"big":12345678901234567890}}`, string(b))
}
