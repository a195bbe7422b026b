package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/aretw0/renfebot/pkg/domain"
)

// ContentRenderer transforms a reply before it is printed (e.g. markdown to ANSI).
type ContentRenderer func(string) (string, error)

// TextHandler is the console transport: it reads messages line by line and
// prints replies. It implements Messenger.
type TextHandler struct {
	reader   *bufio.Reader
	writer   io.Writer
	renderer ContentRenderer
	prompt   string
	identity domain.Message

	// replies may arrive from search goroutines while a prompt is shown.
	mu sync.Mutex

	lines     chan lineResult
	startOnce sync.Once
}

type lineResult struct {
	text string
	err  error
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithTextHandlerRenderer configures the content renderer.
func WithTextHandlerRenderer(renderer ContentRenderer) TextHandlerOption {
	return func(h *TextHandler) {
		h.renderer = renderer
	}
}

// WithTextHandlerIdentity sets who the console user is.
// Defaults to chat 1, user "console".
func WithTextHandlerIdentity(chatID int64, username, firstName string) TextHandlerOption {
	return func(h *TextHandler) {
		h.identity = domain.Message{
			ChatID:    chatID,
			UserID:    chatID,
			Username:  username,
			FirstName: firstName,
		}
	}
}

// WithTextHandlerPrompt sets the input prompt. An empty prompt prints nothing.
func WithTextHandlerPrompt(prompt string) TextHandlerOption {
	return func(h *TextHandler) {
		h.prompt = prompt
	}
}

// NewTextHandler creates a console transport over r and w.
// Nil arguments default to Stdin and Stdout.
func NewTextHandler(r io.Reader, w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{
		reader: bufio.NewReader(r),
		writer: w,
		prompt: "> ",
		identity: domain.Message{
			ChatID:    1,
			UserID:    1,
			Username:  "console",
			FirstName: "console",
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// SendText prints a reply.
func (h *TextHandler) SendText(ctx context.Context, chatID int64, text string) error {
	output := text
	if h.renderer != nil {
		if rendered, err := h.renderer(text); err == nil {
			output = rendered
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := fmt.Fprintln(h.writer, strings.TrimSpace(output))
	return err
}

// SendDocument prints where the document is, since a console cannot attach files.
func (h *TextHandler) SendDocument(ctx context.Context, chatID int64, path, caption string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if caption != "" {
		_, err := fmt.Fprintf(h.writer, "📎 %s (%s)\n", path, caption)
		return err
	}
	_, err := fmt.Fprintf(h.writer, "📎 %s\n", path)
	return err
}

// Serve reads lines until EOF or ctx is done, handing each one to handle as
// a message from the console user. Handler errors are printed, not returned.
func (h *TextHandler) Serve(ctx context.Context, handle HandlerFunc) error {
	h.startOnce.Do(func() {
		h.lines = make(chan lineResult)
		go h.pump()
	})

	for {
		h.showPrompt()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case res, ok := <-h.lines:
			if !ok {
				return nil
			}
			if res.err != nil {
				return res.err
			}

			msg := h.identity
			msg.Text = strings.TrimSpace(res.text)
			if msg.Text == "" {
				continue
			}
			if err := handle(ctx, msg); err != nil {
				h.mu.Lock()
				fmt.Fprintf(h.writer, "[error] %v\n", err)
				h.mu.Unlock()
			}
		}
	}
}

// pump reads in the background so Serve can stop on ctx while a read blocks.
func (h *TextHandler) pump() {
	defer close(h.lines)
	for {
		text, err := h.reader.ReadString('\n')
		if text != "" {
			h.lines <- lineResult{text: text}
		}
		if err == io.EOF {
			return
		}
		if err != nil {
			h.lines <- lineResult{err: err}
			return
		}
	}
}

func (h *TextHandler) showPrompt() {
	if h.prompt == "" {
		return
	}
	h.mu.Lock()
	fmt.Fprint(h.writer, h.prompt)
	h.mu.Unlock()
}
