// Package lsp forwards document lifecycle events to a language server over stdio.
package lsp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/bnema/lexgrid/internal/application/port"
	"github.com/bnema/lexgrid/internal/logging"
)

const (
	shutdownTimeout = 2 * time.Second
	requestTimeout  = 5 * time.Second

	codeMethodNotFound = -32601
)

var (
	// ErrServerExited is returned when the server stream closed before a reply arrived.
	ErrServerExited = errors.New("language server exited")
	// ErrDisabled is returned once the server failed; no further notifications are sent.
	ErrDisabled = errors.New("language server disabled")
)

// FileReader supplies document text for textDocument/didOpen.
type FileReader interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
}

// Config describes how to launch the server.
type Config struct {
	Command string
	Args    []string
}

type transport struct {
	codec *Codec
	stdin io.Closer
	wait  func() error
	kill  func() error
}

// abort stops the server without the shutdown handshake. The process is reaped
// in the background.
func (t *transport) abort() {
	if t.kill != nil {
		_ = t.kill()
	}
	_ = t.stdin.Close()
	go func() { _ = t.wait() }()
}

// Notifier implements port.LanguageIntelligence. The server is started and
// initialized on the first notification. Every exchange is bounded by a timeout;
// a server that fails or stops answering is torn down and not restarted.
type Notifier struct {
	files   FileReader
	dial    func(ctx context.Context) (*transport, error)
	timeout time.Duration

	mu       sync.Mutex
	conn     *transport
	ready    bool
	failed   error
	nextID   int64
	versions map[string]int

	pmu     sync.Mutex
	pending map[int64]chan Message
	done    chan struct{}
}

var _ port.LanguageIntelligence = (*Notifier)(nil)

// NewNotifier creates a notifier that spawns cfg.Command on demand.
func NewNotifier(cfg Config, files FileReader) *Notifier {
	n := newNotifier(files)
	n.dial = func(ctx context.Context) (*transport, error) {
		cmd := exec.Command(cfg.Command, cfg.Args...)
		cmd.Stderr = os.Stderr
		stdin, err := cmd.StdinPipe()
		if err != nil {
			return nil, fmt.Errorf("stdin pipe: %w", err)
		}
		stdout, err := cmd.StdoutPipe()
		if err != nil {
			return nil, fmt.Errorf("stdout pipe: %w", err)
		}
		if err := cmd.Start(); err != nil {
			return nil, fmt.Errorf("start %s: %w", cfg.Command, err)
		}
		logging.FromContext(ctx).Info().
			Str("command", cfg.Command).
			Int("pid", cmd.Process.Pid).
			Msg("language server started")
		return &transport{
			codec: NewCodec(stdout, stdin),
			stdin: stdin,
			wait:  cmd.Wait,
			kill:  cmd.Process.Kill,
		}, nil
	}
	return n
}

// NewNotifierWithStreams creates a notifier talking to an already running server.
// r is the server's output and w its input.
func NewNotifierWithStreams(r io.Reader, w io.WriteCloser, files FileReader) *Notifier {
	n := newNotifier(files)
	n.dial = func(context.Context) (*transport, error) {
		return &transport{codec: NewCodec(r, w), stdin: w, wait: func() error { return nil }}, nil
	}
	return n
}

func newNotifier(files FileReader) *Notifier {
	return &Notifier{
		files:    files,
		timeout:  requestTimeout,
		versions: make(map[string]int),
		pending:  make(map[int64]chan Message),
	}
}

// NotifyOpened sends textDocument/didOpen for path unless it is already open.
func (n *Notifier) NotifyOpened(ctx context.Context, path string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.failed != nil {
		return n.failed
	}
	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	if err := n.ensureStarted(ctx); err != nil {
		return n.disable(ctx, err)
	}
	if _, open := n.versions[path]; open {
		return nil
	}

	text, err := n.files.ReadFile(ctx, path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}

	params := DidOpenParams{TextDocument: TextDocumentItem{
		URI:        fileURI(path),
		LanguageID: languageID(path),
		Version:    1,
		Text:       string(text),
	}}
	if err := n.send(ctx, Message{Method: "textDocument/didOpen", Params: params}); err != nil {
		return n.disable(ctx, fmt.Errorf("didOpen %s: %w", path, err))
	}
	n.versions[path] = 1

	logging.FromContext(ctx).Debug().Str("path", path).Msg("document opened on language server")
	return nil
}

// NotifyClosed sends textDocument/didClose for a previously opened path.
func (n *Notifier) NotifyClosed(ctx context.Context, path string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if !n.ready {
		return nil
	}
	if _, open := n.versions[path]; !open {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	params := DidCloseParams{TextDocument: TextDocumentIdentifier{URI: fileURI(path)}}
	if err := n.send(ctx, Message{Method: "textDocument/didClose", Params: params}); err != nil {
		return n.disable(ctx, fmt.Errorf("didClose %s: %w", path, err))
	}
	delete(n.versions, path)

	logging.FromContext(ctx).Debug().Str("path", path).Msg("document closed on language server")
	return nil
}

// OpenDocuments returns the number of documents the server currently tracks.
func (n *Notifier) OpenDocuments() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.versions)
}

// Close performs the shutdown/exit sequence and waits for the server.
func (n *Notifier) Close(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if !n.ready {
		return nil
	}
	n.ready = false
	conn := n.conn
	n.conn = nil

	sctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	var errs []error
	if _, err := n.callOn(sctx, conn, "shutdown", nil); err != nil {
		errs = append(errs, fmt.Errorf("shutdown: %w", err))
	}
	if err := sendOn(sctx, conn, Message{Method: "exit"}); err != nil {
		errs = append(errs, fmt.Errorf("exit: %w", err))
	}
	if err := conn.stdin.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close stdin: %w", err))
	}

	waited := make(chan error, 1)
	go func() { waited <- conn.wait() }()
	select {
	case err := <-waited:
		if err != nil {
			errs = append(errs, fmt.Errorf("wait: %w", err))
		}
	case <-sctx.Done():
		if conn.kill != nil {
			_ = conn.kill()
		}
		errs = append(errs, fmt.Errorf("wait: %w", sctx.Err()))
	}
	clear(n.versions)

	logging.FromContext(ctx).Debug().Msg("language server stopped")
	return errors.Join(errs...)
}

// disable tears the server down and latches the failure. Called with n.mu held.
func (n *Notifier) disable(ctx context.Context, cause error) error {
	if n.conn != nil {
		n.conn.abort()
		n.conn = nil
	}
	n.ready = false
	clear(n.versions)
	n.failed = fmt.Errorf("%w: %w", ErrDisabled, cause)

	logging.FromContext(ctx).Warn().Err(cause).Msg("language server disabled")
	return n.failed
}

func (n *Notifier) ensureStarted(ctx context.Context) error {
	if n.ready {
		return nil
	}

	conn, err := n.dial(ctx)
	if err != nil {
		return fmt.Errorf("start language server: %w", err)
	}
	n.conn = conn
	n.done = make(chan struct{})
	go n.readLoop(logging.FromContext(ctx), conn.codec, n.done)

	params := InitializeParams{
		ProcessID:  os.Getpid(),
		ClientInfo: ClientInfo{Name: "lexgrid"},
	}
	if _, err := n.callOn(ctx, conn, "initialize", params); err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	if err := n.send(ctx, Message{Method: "initialized", Params: struct{}{}}); err != nil {
		return fmt.Errorf("initialized: %w", err)
	}
	n.ready = true

	logging.FromContext(ctx).Info().Msg("language server initialized")
	return nil
}

func (n *Notifier) send(ctx context.Context, msg Message) error {
	return sendOn(ctx, n.conn, msg)
}

// sendOn writes msg, giving up when ctx ends. A write stuck on a full pipe is
// released when the transport is closed.
func sendOn(ctx context.Context, conn *transport, msg Message) error {
	written := make(chan error, 1)
	go func() { written <- conn.codec.Write(msg) }()

	select {
	case err := <-written:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// callOn sends a request and waits for its response.
func (n *Notifier) callOn(ctx context.Context, conn *transport, method string, params any) (Message, error) {
	n.nextID++
	id := n.nextID
	reply := make(chan Message, 1)

	n.pmu.Lock()
	n.pending[id] = reply
	n.pmu.Unlock()
	defer func() {
		n.pmu.Lock()
		delete(n.pending, id)
		n.pmu.Unlock()
	}()

	if err := sendOn(ctx, conn, Message{ID: numericID(id), Method: method, Params: params}); err != nil {
		return Message{}, err
	}

	select {
	case msg := <-reply:
		if msg.Error != nil {
			return msg, msg.Error
		}
		return msg, nil
	case <-n.done:
		return Message{}, ErrServerExited
	case <-ctx.Done():
		return Message{}, ctx.Err()
	}
}

// readLoop drains server output so it never blocks on a full pipe. Responses are
// routed to their callers, server requests are refused without blocking the read
// side and notifications such as diagnostics are dropped.
func (n *Notifier) readLoop(log *zerolog.Logger, codec *Codec, done chan struct{}) {
	defer close(done)

	for {
		msg, err := codec.Read()
		if errors.Is(err, ErrMalformedMessage) {
			log.Debug().Err(err).Msg("skipping undecodable language server message")
			continue
		}
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrClosedPipe) {
				log.Debug().Err(err).Msg("language server stream closed")
			}
			return
		}

		switch {
		case msg.IsRequest():
			reply := Message{ID: msg.ID, Error: &RPCError{Code: codeMethodNotFound, Message: "method not supported: " + msg.Method}}
			go func() {
				if err := codec.Write(reply); err != nil {
					log.Debug().Err(err).Str("method", msg.Method).Msg("failed to refuse server request")
				}
			}()
		case msg.IsResponse():
			id, ok := msg.NumericID()
			if !ok {
				log.Debug().RawJSON("id", msg.ID).Msg("response with unknown id")
				continue
			}
			n.pmu.Lock()
			reply, ok := n.pending[id]
			n.pmu.Unlock()
			if ok {
				reply <- msg
			}
		default:
			log.Trace().Str("method", msg.Method).Msg("language server notification")
		}
	}
}

func fileURI(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
}

func languageID(path string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "" {
		return "plaintext"
	}
	return ext
}

// NopNotifier is used when no language server is configured.
type NopNotifier struct{}

var _ port.LanguageIntelligence = NopNotifier{}

// NotifyOpened does nothing.
func (NopNotifier) NotifyOpened(context.Context, string) error { return nil }

// NotifyClosed does nothing.
func (NopNotifier) NotifyClosed(context.Context, string) error { return nil }
