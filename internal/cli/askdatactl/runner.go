// Package askdatactl is the command line client for the askdata HTTP API.
package askdatactl

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

type Options struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	HTTPClient *http.Client
	Stdout     io.Writer
	Stderr     io.Writer
}

type request struct {
	method string
	path   string
	body   any
}

func Run(ctx context.Context, args []string, defaults Options) int {
	stdout := defaults.Stdout
	if stdout == nil {
		stdout = io.Discard
	}
	stderr := defaults.Stderr
	if stderr == nil {
		stderr = io.Discard
	}

	fs := flag.NewFlagSet("askdatactl", flag.ContinueOnError)
	fs.SetOutput(stderr)

	baseURL := fs.String("base-url", firstNonEmpty(defaults.BaseURL, "http://localhost:8080"), "askdata API base URL")
	apiKey := fs.String("api-key", defaults.APIKey, "API key for authenticated requests")
	timeout := fs.Duration("timeout", durationOr(defaults.Timeout, 90*time.Second), "HTTP timeout (e.g. 90s)")
	session := fs.String("session", "", "conversation session id for ask and sql")
	limit := fs.Int("limit", 0, "number of history entries")
	archive := fs.Bool("archive", false, "archive the export in the object store instead of printing it")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() < 1 {
		writeUsage(stderr)
		return 2
	}

	command := strings.TrimSpace(fs.Arg(0))
	text := strings.TrimSpace(strings.Join(fs.Args()[1:], " "))
	req, err := buildRequest(command, text, *session, *limit, *archive)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "%v\n\n", err)
		writeUsage(stderr)
		return 2
	}

	client := defaults.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: *timeout}
	}

	endpoint := strings.TrimRight(*baseURL, "/") + req.path
	code, responseBody, err := doRequest(ctx, client, req, endpoint, *apiKey)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "request failed: %v\n", err)
		return 1
	}

	if code >= 400 {
		_, _ = fmt.Fprintf(stderr, "http %d: %s\n", code, strings.TrimSpace(string(responseBody)))
		return 1
	}

	if pretty, ok := prettyJSON(responseBody); ok {
		_, _ = fmt.Fprintln(stdout, pretty)
		return 0
	}
	if len(responseBody) > 0 {
		_, _ = stdout.Write(responseBody)
	}
	return 0
}

func buildRequest(command, text, session string, limit int, archive bool) (request, error) {
	needsText := func(what string) error {
		if text == "" {
			return fmt.Errorf("%s requires %s", command, what)
		}
		return nil
	}
	switch command {
	case "health":
		return request{method: http.MethodGet, path: "/v1/health"}, nil
	case "ready":
		return request{method: http.MethodGet, path: "/v1/ready"}, nil
	case "schema":
		return request{method: http.MethodGet, path: "/v1/schema"}, nil
	case "prompt":
		return request{method: http.MethodGet, path: "/v1/schema?format=prompt"}, nil
	case "stats":
		return request{method: http.MethodGet, path: "/v1/stats"}, nil
	case "history":
		path := "/v1/history"
		if limit > 0 {
			path += "?limit=" + strconv.Itoa(limit)
		}
		return request{method: http.MethodGet, path: path}, nil
	case "retention-run":
		return request{method: http.MethodPost, path: "/v1/retention/run"}, nil
	case "integrity-run":
		return request{method: http.MethodPost, path: "/v1/integrity/run"}, nil
	case "ask":
		if err := needsText("a question"); err != nil {
			return request{}, err
		}
		body := map[string]any{"question": text}
		if session != "" {
			body["session_id"] = session
		}
		return request{method: http.MethodPost, path: "/v1/ask", body: body}, nil
	case "translate":
		if err := needsText("a question"); err != nil {
			return request{}, err
		}
		return request{method: http.MethodPost, path: "/v1/translate", body: map[string]any{"question": text}}, nil
	case "sql":
		if err := needsText("a statement"); err != nil {
			return request{}, err
		}
		body := map[string]any{"sql": text}
		if session != "" {
			body["session_id"] = session
		}
		return request{method: http.MethodPost, path: "/v1/query", body: body}, nil
	case "export":
		if err := needsText("a statement"); err != nil {
			return request{}, err
		}
		return request{method: http.MethodPost, path: "/v1/export", body: map[string]any{"sql": text, "archive": archive}}, nil
	case "exports":
		if text != "" {
			return request{method: http.MethodGet, path: "/v1/exports/" + url.PathEscape(text)}, nil
		}
		return request{method: http.MethodGet, path: "/v1/exports"}, nil
	case "session":
		if err := needsText("a session id"); err != nil {
			return request{}, err
		}
		return request{method: http.MethodGet, path: "/v1/sessions/" + url.PathEscape(text)}, nil
	case "forget":
		if err := needsText("a session id"); err != nil {
			return request{}, err
		}
		return request{method: http.MethodDelete, path: "/v1/sessions/" + url.PathEscape(text)}, nil
	default:
		return request{}, fmt.Errorf("unknown command %q", command)
	}
}

func doRequest(ctx context.Context, client *http.Client, r request, endpoint, apiKey string) (int, []byte, error) {
	var body io.Reader
	if r.body != nil {
		payload, err := json.Marshal(r.body)
		if err != nil {
			return 0, nil, err
		}
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, r.method, endpoint, body)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if strings.TrimSpace(apiKey) != "" {
		req.Header.Set("X-API-Key", strings.TrimSpace(apiKey))
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, payload, nil
}

func prettyJSON(raw []byte) (string, bool) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return "", false
	}
	var anyValue any
	if err := json.Unmarshal(raw, &anyValue); err != nil {
		return "", false
	}
	formatted, err := json.MarshalIndent(anyValue, "", "  ")
	if err != nil {
		return "", false
	}
	return string(formatted), true
}

func writeUsage(w io.Writer) {
	_, _ = fmt.Fprintln(w, "usage: askdatactl [flags] <command> [text]")
	_, _ = fmt.Fprintln(w, "")
	_, _ = fmt.Fprintln(w, "commands:")
	_, _ = fmt.Fprintln(w, "  health              GET /v1/health")
	_, _ = fmt.Fprintln(w, "  ready               GET /v1/ready")
	_, _ = fmt.Fprintln(w, "  schema              GET /v1/schema")
	_, _ = fmt.Fprintln(w, "  prompt              GET /v1/schema?format=prompt")
	_, _ = fmt.Fprintln(w, "  stats               GET /v1/stats")
	_, _ = fmt.Fprintln(w, "  history             GET /v1/history (-limit)")
	_, _ = fmt.Fprintln(w, "  ask <question>      POST /v1/ask (-session)")
	_, _ = fmt.Fprintln(w, "  translate <q>       POST /v1/translate")
	_, _ = fmt.Fprintln(w, "  sql <statement>     POST /v1/query (-session)")
	_, _ = fmt.Fprintln(w, "  export <statement>  POST /v1/export (-archive)")
	_, _ = fmt.Fprintln(w, "  exports [name]      GET /v1/exports[/name]")
	_, _ = fmt.Fprintln(w, "  session <id>        GET /v1/sessions/{id}")
	_, _ = fmt.Fprintln(w, "  forget <id>         DELETE /v1/sessions/{id}")
	_, _ = fmt.Fprintln(w, "  retention-run       POST /v1/retention/run")
	_, _ = fmt.Fprintln(w, "  integrity-run       POST /v1/integrity/run")
}

func firstNonEmpty(a, b string) string {
	if strings.TrimSpace(a) != "" {
		return strings.TrimSpace(a)
	}
	return b
}

func durationOr(v, fallback time.Duration) time.Duration {
	if v > 0 {
		return v
	}
	return fallback
}
