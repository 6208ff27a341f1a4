// Package cdp drives a Chrome tab over the DevTools protocol. The browser
// must be started with --remote-debugging-port; the driver discovers the
// first page target over the debugger's HTTP endpoint and issues
// Runtime.evaluate commands over its websocket.
package cdp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/gorilla/websocket"

	"sendtg-export/lib/browser"
	"sendtg-export/lib/telemetry"
)

type Tab struct {
	conn *websocket.Conn

	// the protocol multiplexes command responses and events over one
	// socket; a single in-flight command keeps matching trivial and
	// mirrors the one-injection-at-a-time driving model.
	mu     sync.Mutex
	nextID int
}

type Options struct {
	// Addr is the host:port of the DevTools HTTP endpoint,
	// e.g. "127.0.0.1:9222".
	Addr string
	// TargetURL optionally selects the tab whose url contains this
	// substring; otherwise the first page target is attached.
	TargetURL string
}

type target struct {
	ID                   string `json:"id"`
	Type                 string `json:"type"`
	URL                  string `json:"url"`
	WebSocketDebuggerURL string `json:"webSocketDebuggerUrl"`
}

var discovery = resty.New()

func init() {
	discovery.SetTimeout(time.Second * 10)
	telemetry.InstrumentResty(discovery, "browser/cdp/discovery")
}

// Attach connects to a page target of a running browser.
func Attach(ctx context.Context, opts Options) (*Tab, error) {
	res, err := discovery.R().
		SetContext(ctx).
		Get(fmt.Sprintf("http://%s/json/list", opts.Addr))
	if err != nil {
		return nil, fmt.Errorf("devtools discovery: %w", err)
	}

	var targets []target
	err = json.Unmarshal(res.Body(), &targets)
	if err != nil {
		return nil, fmt.Errorf("devtools discovery: %w", err)
	}

	var picked *target
	for i, t := range targets {
		if t.Type != "page" || t.WebSocketDebuggerURL == "" {
			continue
		}
		if opts.TargetURL != "" && !strings.Contains(t.URL, opts.TargetURL) {
			continue
		}
		picked = &targets[i]
		break
	}
	if picked == nil {
		return nil, fmt.Errorf("no page target found at %s", opts.Addr)
	}

	slog.DebugContext(ctx, "attaching to page target", "url", picked.URL)

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, picked.WebSocketDebuggerURL, nil)
	if err != nil {
		return nil, fmt.Errorf("devtools websocket: %w", err)
	}

	return &Tab{conn: conn}, nil
}

func (t *Tab) Close() error {
	return t.conn.Close()
}

type command struct {
	ID     int            `json:"id"`
	Method string         `json:"method"`
	Params map[string]any `json:"params,omitempty"`
}

type response struct {
	ID     int `json:"id"`
	Result struct {
		Result struct {
			Type  string          `json:"type"`
			Value json.RawMessage `json:"value"`
		} `json:"result"`
		ExceptionDetails *struct {
			Text string `json:"text"`
		} `json:"exceptionDetails"`
	} `json:"result"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// eval runs an expression in the page and decodes its json value into out.
// Pass nil to discard the result.
func (t *Tab) eval(ctx context.Context, expr string, out any) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.nextID++
	id := t.nextID

	deadline, ok := ctx.Deadline()
	if ok {
		t.conn.SetReadDeadline(deadline)
		t.conn.SetWriteDeadline(deadline)
	} else {
		t.conn.SetReadDeadline(time.Time{})
		t.conn.SetWriteDeadline(time.Time{})
	}

	err := t.conn.WriteJSON(command{
		ID:     id,
		Method: "Runtime.evaluate",
		Params: map[string]any{
			"expression":    expr,
			"returnByValue": true,
			"awaitPromise":  true,
		},
	})
	if err != nil {
		return fmt.Errorf("devtools write: %w", err)
	}

	// events interleave with responses, skip until our id comes back
	for {
		var res response
		err := t.conn.ReadJSON(&res)
		if err != nil {
			return fmt.Errorf("devtools read: %w", err)
		}
		if res.ID != id {
			continue
		}
		if res.Error != nil {
			return fmt.Errorf("devtools: %s", res.Error.Message)
		}
		if res.Result.ExceptionDetails != nil {
			return fmt.Errorf("page exception: %s", res.Result.ExceptionDetails.Text)
		}
		if out != nil && len(res.Result.Result.Value) > 0 {
			return json.Unmarshal(res.Result.Result.Value, out)
		}
		return nil
	}
}

func (t *Tab) Navigate(ctx context.Context, url string) error {
	return t.eval(ctx, "window.location.href = "+strconv.Quote(url), nil)
}

func (t *Tab) Location(ctx context.Context) (string, error) {
	var loc string
	err := t.eval(ctx, "window.location.href", &loc)
	return loc, err
}

func (t *Tab) HTML(ctx context.Context) (string, error) {
	var html string
	err := t.eval(ctx, "document.documentElement.outerHTML", &html)
	return html, err
}

func (t *Tab) ScrollTo(ctx context.Context, y float64) error {
	return t.eval(ctx, fmt.Sprintf("window.scrollTo(0, %g)", y), nil)
}

func (t *Tab) Metrics(ctx context.Context) (browser.Metrics, error) {
	var m struct {
		ScrollHeight   float64 `json:"scrollHeight"`
		ViewportHeight float64 `json:"viewportHeight"`
		ScrollY        float64 `json:"scrollY"`
	}
	err := t.eval(ctx, `({
		scrollHeight: document.body.scrollHeight,
		viewportHeight: window.innerHeight,
		scrollY: window.scrollY,
	})`, &m)
	if err != nil {
		return browser.Metrics{}, err
	}
	return browser.Metrics{
		ScrollHeight:   m.ScrollHeight,
		ViewportHeight: m.ViewportHeight,
		ScrollY:        m.ScrollY,
	}, nil
}

var _ browser.Page = (*Tab)(nil)
