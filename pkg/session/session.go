// Package session reports finished working sessions to the dashboard API.
//
// Each group keeps a session log at <working-dir>/<group>/Records/session-log.json,
// a JSON array of entries appended at the end of every working session.
// [Syncer.Sync] posts the most recent entry to <base>/api/sync.
//
//	s := session.NewSyncer(session.Options{BaseURL: cfg.API.URL, APIKey: cfg.API.Key})
//	id, err := s.Sync(ctx, workingDir, "Acme Group")
package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	lferrors "github.com/matzehuels/localfile/pkg/errors"
	"github.com/matzehuels/localfile/pkg/observability"
)

// Defaults for payload fields missing from a log entry.
const (
	DefaultCommand = "unknown"
	DefaultSummary = "Session completed"
)

const httpTimeout = 10 * time.Second

// Entry is one session-log record. Fields other than these are ignored.
type Entry struct {
	Command   *string         `json:"command,omitempty"`
	Entity    json.RawMessage `json:"entity,omitempty"`
	Summary   *string         `json:"summary,omitempty"`
	Decisions json.RawMessage `json:"decisions,omitempty"`
	Pending   json.RawMessage `json:"pending,omitempty"`
}

// Payload is the body posted to the sync endpoint.
type Payload struct {
	Group     string          `json:"group"`
	Command   string          `json:"command"`
	Entity    json.RawMessage `json:"entity"`
	Summary   string          `json:"summary"`
	Decisions json.RawMessage `json:"decisions"`
	Pending   json.RawMessage `json:"pending"`
}

// NewPayload fills the defaults for fields the entry leaves out. Absent
// entity and pending are sent as null.
func NewPayload(group string, e Entry) Payload {
	p := Payload{
		Group:     group,
		Command:   DefaultCommand,
		Entity:    orNull(e.Entity),
		Summary:   DefaultSummary,
		Decisions: json.RawMessage("[]"),
		Pending:   orNull(e.Pending),
	}
	if e.Command != nil {
		p.Command = *e.Command
	}
	if e.Summary != nil {
		p.Summary = *e.Summary
	}
	if len(e.Decisions) > 0 {
		p.Decisions = e.Decisions
	}
	return p
}

func orNull(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return json.RawMessage("null")
	}
	return raw
}

// LogPath returns the session log location for group.
func LogPath(workingDir, group string) string {
	return filepath.Join(workingDir, group, "Records", "session-log.json")
}

// Latest returns the last entry of the group's session log. A missing or
// empty log is a NOT_FOUND error.
func Latest(workingDir, group string) (Entry, error) {
	path := LogPath(workingDir, group)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Entry{}, lferrors.New(lferrors.ErrCodeNotFound, "no session log found for group %q", group)
		}
		return Entry{}, lferrors.Wrap(lferrors.ErrCodeInvalidInput, err, "read %s", path)
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return Entry{}, lferrors.Wrap(lferrors.ErrCodeInvalidFormat, err, "parse %s", path)
	}
	if len(entries) == 0 {
		return Entry{}, lferrors.New(lferrors.ErrCodeNotFound, "session log for group %q is empty", group)
	}
	return entries[len(entries)-1], nil
}

// Options configure a Syncer.
type Options struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	Logger     *log.Logger
}

// Syncer posts session entries.
type Syncer struct {
	http   *http.Client
	url    string
	apiKey string
	logger *log.Logger
}

// NewSyncer creates a Syncer for the API at opts.BaseURL.
func NewSyncer(opts Options) *Syncer {
	s := &Syncer{
		http:   opts.HTTPClient,
		url:    strings.TrimRight(opts.BaseURL, "/") + "/api/sync",
		apiKey: opts.APIKey,
		logger: opts.Logger,
	}
	if s.http == nil {
		s.http = &http.Client{Timeout: httpTimeout}
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	return s
}

// Sync posts the latest session-log entry of group and returns the
// session id assigned by the server ("ok" when it sends none).
func (s *Syncer) Sync(ctx context.Context, workingDir, group string) (string, error) {
	if s.apiKey == "" {
		return "", lferrors.New(lferrors.ErrCodeUnauthorized, "no API key found, skipping sync")
	}
	entry, err := Latest(workingDir, group)
	if err != nil {
		return "", err
	}
	return s.Post(ctx, NewPayload(group, entry))
}

// Post sends one payload.
func (s *Syncer) Post(ctx context.Context, p Payload) (string, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return "", lferrors.Wrap(lferrors.ErrCodeInternal, err, "encode payload")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return "", lferrors.Wrap(lferrors.ErrCodeInvalidInput, err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", s.apiKey)
	req.Header.Set("x-request-id", uuid.NewString())

	hooks := observability.HTTP()
	hooks.OnRequest(ctx, req.Method, req.URL.Host, req.URL.Path)
	start := time.Now()

	resp, err := s.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, req.URL.Host, req.URL.Path, err)
		return "", lferrors.Wrap(lferrors.ErrCodeNetwork, err, "sync failed (network)")
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, req.URL.Host, req.URL.Path, resp.StatusCode, time.Since(start))

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		code := lferrors.ErrCodeNetwork
		if resp.StatusCode == http.StatusUnauthorized {
			code = lferrors.ErrCodeUnauthorized
		}
		return "", lferrors.New(code, "sync failed (%d): %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var result struct {
		SessionID string `json:"session_id"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		s.logger.Debug("sync response is not json", "error", err)
	}
	if result.SessionID == "" {
		return "ok", nil
	}
	s.logger.Debug("session synced", "group", p.Group, "session", result.SessionID)
	return result.SessionID, nil
}

// String renders the payload for dry runs.
func (p Payload) String() string {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Sprintf("payload for %s: %v", p.Group, err)
	}
	return string(data)
}
