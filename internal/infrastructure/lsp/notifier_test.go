package lsp

import (
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/lexgrid/internal/infrastructure/filesystem"
)

// fakeServer answers initialize and shutdown and records every message it receives.
type fakeServer struct {
	received chan Message
}

func startFakeServer(t *testing.T, files map[string]string) (*Notifier, *fakeServer) {
	t.Helper()

	fsys := afero.NewMemMapFs()
	for path, text := range files {
		require.NoError(t, afero.WriteFile(fsys, path, []byte(text), 0o644))
	}

	fromServer, serverOut := io.Pipe()
	serverIn, toServer := io.Pipe()
	srv := &fakeServer{received: make(chan Message, 32)}

	go func() {
		defer serverOut.Close()
		codec := NewCodec(serverIn, serverOut)
		for {
			msg, err := codec.Read()
			if err != nil {
				return
			}
			srv.received <- msg
			if msg.ID == nil {
				continue
			}
			switch msg.Method {
			case "initialize":
				_ = codec.Write(Message{Method: "window/logMessage", Params: map[string]any{"type": 3, "message": "ready"}})
				_ = codec.Write(Message{ID: msg.ID, Result: json.RawMessage(`{"capabilities":{}}`)})
			case "shutdown":
				_ = codec.Write(Message{ID: msg.ID, Result: json.RawMessage(`null`)})
			}
		}
	}()

	n := NewNotifierWithStreams(fromServer, toServer, filesystem.NewWithFs(fsys))
	t.Cleanup(func() { _ = toServer.Close() })
	return n, srv
}

func (s *fakeServer) next(t *testing.T) Message {
	t.Helper()
	select {
	case msg := <-s.received:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
		return Message{}
	}
}

func params(t *testing.T, msg Message) map[string]any {
	t.Helper()
	p, ok := msg.Params.(map[string]any)
	require.True(t, ok, "params of %s", msg.Method)
	return p
}

func TestNotifier_HandshakeThenDidOpen(t *testing.T) {
	ctx := context.Background()
	n, srv := startFakeServer(t, map[string]string{"/docs/intro.lex": "hello"})

	require.NoError(t, n.NotifyOpened(ctx, "/docs/intro.lex"))

	handshake := srv.next(t)
	assert.Equal(t, "initialize", handshake.Method)
	require.NotNil(t, handshake.ID)
	assert.Nil(t, params(t, handshake)["rootUri"])
	assert.Equal(t, "lexgrid", params(t, handshake)["clientInfo"].(map[string]any)["name"])

	assert.Equal(t, "initialized", srv.next(t).Method)

	open := srv.next(t)
	assert.Equal(t, "textDocument/didOpen", open.Method)
	doc := params(t, open)["textDocument"].(map[string]any)
	assert.Equal(t, "file:///docs/intro.lex", doc["uri"])
	assert.Equal(t, "lex", doc["languageId"])
	assert.Equal(t, "hello", doc["text"])
	assert.EqualValues(t, 1, doc["version"])
	assert.Equal(t, 1, n.OpenDocuments())
}

func TestNotifier_OpenIsIdempotentAndCloseOnlyOpened(t *testing.T) {
	ctx := context.Background()
	n, srv := startFakeServer(t, map[string]string{"/a.lex": "a", "/notes": "n"})

	require.NoError(t, n.NotifyOpened(ctx, "/a.lex"))
	require.NoError(t, n.NotifyOpened(ctx, "/a.lex"))
	require.NoError(t, n.NotifyClosed(ctx, "/never-opened.lex"))
	require.NoError(t, n.NotifyOpened(ctx, "/notes"))
	require.NoError(t, n.NotifyClosed(ctx, "/a.lex"))

	var methods []string
	for range 5 {
		methods = append(methods, srv.next(t).Method)
	}
	assert.Equal(t, []string{
		"initialize", "initialized",
		"textDocument/didOpen", "textDocument/didOpen", "textDocument/didClose",
	}, methods)
	assert.Equal(t, 1, n.OpenDocuments())
}

func TestNotifier_DidCloseBeforeStartIsNoop(t *testing.T) {
	n, srv := startFakeServer(t, nil)

	require.NoError(t, n.NotifyClosed(context.Background(), "/a.lex"))
	require.NoError(t, n.Close(context.Background()))

	select {
	case msg := <-srv.received:
		t.Fatalf("unexpected message %s", msg.Method)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestNotifier_MissingFileIsAnError(t *testing.T) {
	n, _ := startFakeServer(t, nil)

	err := n.NotifyOpened(context.Background(), "/missing.lex")
	require.Error(t, err)
	assert.Zero(t, n.OpenDocuments())
}

func TestNotifier_CloseSendsShutdownAndExit(t *testing.T) {
	ctx := context.Background()
	n, srv := startFakeServer(t, map[string]string{"/a.txt": "x"})

	require.NoError(t, n.NotifyOpened(ctx, "/a.txt"))
	for range 3 {
		srv.next(t)
	}

	require.NoError(t, n.Close(ctx))
	assert.Equal(t, "shutdown", srv.next(t).Method)
	assert.Equal(t, "exit", srv.next(t).Method)
	assert.Zero(t, n.OpenDocuments())
}

func TestLanguageID(t *testing.T) {
	tests := map[string]string{
		"/a/b.lex":  "lex",
		"/a/b.LEX":  "lex",
		"/a/b.md":   "md",
		"/a/README": "plaintext",
	}
	for path, want := range tests {
		assert.Equal(t, want, languageID(path), path)
	}
}

func TestNopNotifier(t *testing.T) {
	var n NopNotifier
	assert.NoError(t, n.NotifyOpened(context.Background(), "/a"))
	assert.NoError(t, n.NotifyClosed(context.Background(), "/a"))
}

func TestNotifier_SilentServerIsBoundedAndLatched(t *testing.T) {
	fromServer, serverOut := io.Pipe()
	serverIn, toServer := io.Pipe()
	t.Cleanup(func() {
		_ = serverOut.Close()
		_ = toServer.Close()
	})
	// Consume requests and never answer.
	go func() { _, _ = io.Copy(io.Discard, serverIn) }()

	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/a.lex", []byte("a"), 0o644))
	n := NewNotifierWithStreams(fromServer, toServer, filesystem.NewWithFs(fsys))
	n.timeout = 50 * time.Millisecond
	dial := n.dial
	dials := 0
	n.dial = func(ctx context.Context) (*transport, error) {
		dials++
		return dial(ctx)
	}

	start := time.Now()
	err := n.NotifyOpened(context.Background(), "/a.lex")
	require.ErrorIs(t, err, ErrDisabled)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)

	require.ErrorIs(t, n.NotifyOpened(context.Background(), "/a.lex"), ErrDisabled)
	require.NoError(t, n.NotifyClosed(context.Background(), "/a.lex"))
	require.NoError(t, n.Close(context.Background()))
	assert.Equal(t, 1, dials)
	assert.Zero(t, n.OpenDocuments())
}

func TestNotifier_RefusesServerRequestsAndSkipsBadFrames(t *testing.T) {
	fromServer, serverOut := io.Pipe()
	serverIn, toServer := io.Pipe()
	t.Cleanup(func() {
		_ = serverOut.Close()
		_ = toServer.Close()
	})

	refused := make(chan Message, 1)
	go func() {
		codec := NewCodec(serverIn, serverOut)
		for {
			msg, err := codec.Read()
			if err != nil {
				return
			}
			switch {
			case msg.Method == "initialize":
				_ = codec.Write(Message{ID: json.RawMessage(`"cfg-1"`), Method: "workspace/configuration", Params: map[string]any{}})
				_, _ = io.WriteString(serverOut, "Content-Length: 5\r\n\r\n{oops")
				_ = codec.Write(Message{ID: msg.ID, Result: json.RawMessage(`{"capabilities":{}}`)})
			case msg.Method == "" && msg.Error != nil:
				refused <- msg
			}
		}
	}()

	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/a.lex", []byte("a"), 0o644))
	n := NewNotifierWithStreams(fromServer, toServer, filesystem.NewWithFs(fsys))

	require.NoError(t, n.NotifyOpened(context.Background(), "/a.lex"))
	assert.Equal(t, 1, n.OpenDocuments())

	select {
	case msg := <-refused:
		assert.JSONEq(t, `"cfg-1"`, string(msg.ID))
		assert.Equal(t, codeMethodNotFound, msg.Error.Code)
	case <-time.After(2 * time.Second):
		t.Fatal("server request was not answered")
	}
}
