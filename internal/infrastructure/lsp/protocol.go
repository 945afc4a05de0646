package lsp

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/textproto"
	"strconv"
	"strings"
	"sync"
)

const jsonrpcVersion = "2.0"

// ErrMalformedMessage is returned by Codec.Read for a well-framed body that is not
// valid JSON-RPC. The stream stays usable.
var ErrMalformedMessage = errors.New("malformed message")

// Message is a JSON-RPC 2.0 request, response or notification.
type Message struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  any             `json:"params,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// IsResponse reports whether the message answers a request.
func (m Message) IsResponse() bool {
	return len(m.ID) > 0 && m.Method == ""
}

// IsRequest reports whether the message expects a reply.
func (m Message) IsRequest() bool {
	return len(m.ID) > 0 && m.Method != ""
}

// NumericID returns the id as an integer. Ids this client assigns are always numeric.
func (m Message) NumericID() (int64, bool) {
	var id int64
	if err := json.Unmarshal(m.ID, &id); err != nil {
		return 0, false
	}
	return id, true
}

func numericID(id int64) json.RawMessage {
	return json.RawMessage(strconv.FormatInt(id, 10))
}

// RPCError represents a JSON-RPC error.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// InitializeParams for the initialize request.
type InitializeParams struct {
	ProcessID    int        `json:"processId"`
	RootURI      *string    `json:"rootUri"`
	Capabilities struct{}   `json:"capabilities"`
	ClientInfo   ClientInfo `json:"clientInfo"`
}

// ClientInfo identifies the editor to the server.
type ClientInfo struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
}

// TextDocumentItem is an opened document.
type TextDocumentItem struct {
	URI        string `json:"uri"`
	LanguageID string `json:"languageId"`
	Version    int    `json:"version"`
	Text       string `json:"text"`
}

// TextDocumentIdentifier names a document.
type TextDocumentIdentifier struct {
	URI string `json:"uri"`
}

// DidOpenParams for textDocument/didOpen.
type DidOpenParams struct {
	TextDocument TextDocumentItem `json:"textDocument"`
}

// DidCloseParams for textDocument/didClose.
type DidCloseParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
}

// Codec reads and writes Content-Length framed messages.
type Codec struct {
	wmu sync.Mutex
	w   io.Writer
	r   *textproto.Reader
	br  *bufio.Reader
}

// NewCodec creates a codec over a server's stdout (r) and stdin (w).
func NewCodec(r io.Reader, w io.Writer) *Codec {
	br := bufio.NewReader(r)
	return &Codec{w: w, br: br, r: textproto.NewReader(br)}
}

// Write sends one framed message. Safe for concurrent use.
func (c *Codec) Write(msg Message) error {
	msg.JSONRPC = jsonrpcVersion
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}

	c.wmu.Lock()
	defer c.wmu.Unlock()
	if _, err := fmt.Fprintf(c.w, "Content-Length: %d\r\n\r\n", len(body)); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if _, err := c.w.Write(body); err != nil {
		return fmt.Errorf("write body: %w", err)
	}
	return nil
}

// Read returns the next framed message. It is not safe for concurrent use.
func (c *Codec) Read() (Message, error) {
	header, err := c.r.ReadMIMEHeader()
	if err != nil {
		return Message{}, fmt.Errorf("read header: %w", err)
	}
	raw := strings.TrimSpace(header.Get("Content-Length"))
	length, err := strconv.Atoi(raw)
	if err != nil || length < 0 {
		return Message{}, fmt.Errorf("invalid Content-Length %q", raw)
	}

	body := make([]byte, length)
	if _, err := io.ReadFull(c.br, body); err != nil {
		return Message{}, fmt.Errorf("read body: %w", err)
	}

	var msg Message
	if err := json.Unmarshal(body, &msg); err != nil {
		return Message{}, fmt.Errorf("%w: %w", ErrMalformedMessage, err)
	}
	return msg, nil
}
