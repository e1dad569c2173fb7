// ABOUTME: Sync orchestration: fetches every configured tag and writes its notes to the vault
// ABOUTME: Isolates failures per tag, retries transient fetch errors, and records an activity log

package sync

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/charmbracelet/log"

	"github.com/harper/inosync/internal/config"
	"github.com/harper/inosync/internal/content"
	"github.com/harper/inosync/internal/db"
	"github.com/harper/inosync/internal/fetch"
	"github.com/harper/inosync/internal/inoreader"
	"github.com/harper/inosync/internal/models"
	"github.com/harper/inosync/internal/parse"
	"github.com/harper/inosync/internal/render"
	"github.com/harper/inosync/internal/vault"
)

// ErrSyncInProgress is returned when Run is called while another run is active.
var ErrSyncInProgress = errors.New("sync already in progress")

// TagResult summarizes one tag of a run.
type TagResult struct {
	Tag     string
	Folder  string
	URL     string
	Format  string // feed format reported by the parser
	Created []string
	Updated []string
	Skipped int
	Err     error
}

// Processed returns how many notes were written for the tag.
func (r TagResult) Processed() int {
	return len(r.Created) + len(r.Updated)
}

// Result summarizes a whole run.
type Result struct {
	Force     bool
	Tags      []TagResult
	Processed int
	Failed    int
}

// Options wires the collaborators a Syncer needs.
type Options struct {
	Source    inoreader.Source
	Vault     *vault.Vault
	Converter content.Converter
	Template  string
	DB        *sql.DB // activity log; nil disables it
	Logger    *log.Logger
	Now       func() time.Time
	BackOff   func() backoff.BackOff
}

// Syncer runs syncs for one configuration.
type Syncer struct {
	cfg     *config.Config
	source  inoreader.Source
	vault   *vault.Vault
	conv    content.Converter
	tmpl    string
	appDB   *sql.DB
	logger  *log.Logger
	now     func() time.Time
	backoff func() backoff.BackOff
	running atomic.Bool
}

// NewSyncer creates a Syncer. Missing options fall back to the native
// converter, the default template, a discarded logger and the wall clock.
func NewSyncer(cfg *config.Config, opts Options) *Syncer {
	s := &Syncer{
		cfg:     cfg,
		source:  opts.Source,
		vault:   opts.Vault,
		conv:    opts.Converter,
		tmpl:    opts.Template,
		appDB:   opts.DB,
		logger:  opts.Logger,
		now:     opts.Now,
		backoff: opts.BackOff,
	}
	if s.conv == nil {
		s.conv = content.Native{}
	}
	if s.tmpl == "" {
		s.tmpl = config.DefaultTemplate
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.backoff == nil {
		s.backoff = newRetryBackoff
	}
	return s
}

// newRetryBackoff creates the exponential policy used between tag fetch attempts.
func newRetryBackoff() backoff.BackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = time.Second
	bo.MaxInterval = 30 * time.Second
	bo.Multiplier = 2
	return bo
}

// Running reports whether a sync is in progress.
func (s *Syncer) Running() bool {
	return s.running.Load()
}

// record appends to the activity log and mirrors the entry to the logger.
func (s *Syncer) record(status, message, details string) {
	switch status {
	case models.StatusError:
		s.logger.Error(message, "details", details)
	default:
		s.logger.Info(message, "status", status, "details", details)
	}
	if s.appDB == nil {
		return
	}
	if err := db.AddLog(s.appDB, models.NewLogEntry(status, message, details, s.now())); err != nil {
		s.logger.Warn("failed to write activity log", "err", err)
	}
}

// Run syncs every configured tag. Force bypasses feed caches and overwrites
// existing notes. A failing tag is logged and does not stop the others.
func (s *Syncer) Run(ctx context.Context, force bool) (*Result, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, ErrSyncInProgress
	}
	defer s.running.Store(false)

	mode := "Sync"
	if force {
		mode = "Force Sync"
	}
	s.record(models.StatusInfo, mode+" started", "")

	result := &Result{Force: force}
	for _, tag := range s.cfg.Tags {
		if err := ctx.Err(); err != nil {
			s.record(models.StatusError, "Sync process failed globally", err.Error())
			return result, err
		}

		tr := s.syncTag(ctx, tag, force)
		result.Tags = append(result.Tags, tr)
		result.Processed += tr.Processed()
		if tr.Err != nil {
			result.Failed++
		}
	}

	s.record(models.StatusSuccess, fmt.Sprintf("Sync complete. %d notes processed.", result.Processed), "")
	return result, nil
}

func (s *Syncer) syncTag(ctx context.Context, tag config.TagConfig, force bool) TagResult {
	tr := TagResult{
		Tag:    tag.Name,
		Folder: s.cfg.DestFolder(tag),
		URL:    inoreader.FeedURL(s.cfg.GetHost(), s.cfg.UserID, tag.Name),
	}
	s.record(models.StatusInfo, fmt.Sprintf("Fetching feed for tag: %s...", tag.Name), tr.URL)

	feed, err := s.fetchWithRetry(ctx, tag.Name, force)
	if err != nil {
		tr.Err = err
		s.record(models.StatusError, "Failed to process tag: "+tag.Name, err.Error())
		return tr
	}
	tr.Format = feed.Format
	s.logger.Debug("parsed feed", "tag", tag.Name, "format", feed.Format, "items", len(feed.Items))

	for _, item := range feed.Items {
		note := render.Render(item, s.conv.Convert(item.ContentHTML), s.tmpl)
		outcome, _, err := s.vault.Write(tr.Folder, note, force)
		if err != nil {
			tr.Err = err
			s.record(models.StatusError, "Failed to process tag: "+tag.Name, err.Error())
			return tr
		}

		switch outcome {
		case vault.Created:
			tr.Created = append(tr.Created, note.FileNameStem)
			s.record(models.StatusSuccess, "Created: "+note.FileNameStem, "in "+displayFolder(tr.Folder))
		case vault.Updated:
			tr.Updated = append(tr.Updated, note.FileNameStem)
			s.record(models.StatusSuccess, "Updated: "+note.FileNameStem, "(Force update)")
		default:
			tr.Skipped++
		}
	}

	if tr.Processed() == 0 {
		s.record(models.StatusInfo, "No new items for tag: "+tag.Name, "")
	}
	return tr
}

func displayFolder(folder string) string {
	if strings.TrimSpace(folder) == "" {
		return "/"
	}
	return folder
}

// fetchWithRetry retries transient failures. Configuration problems, blocked
// or malformed responses and client errors other than 429 fail immediately.
func (s *Syncer) fetchWithRetry(ctx context.Context, tag string, force bool) (*parse.Feed, error) {
	attempt := 0
	operation := func() (*parse.Feed, error) {
		attempt++
		feed, err := s.source.FetchTag(ctx, s.cfg.UserID, tag, force)
		if err == nil {
			return feed, nil
		}
		if isPermanent(err) {
			return nil, backoff.Permanent(err)
		}
		s.logger.Warn("fetch failed, will retry", "tag", tag, "attempt", attempt, "err", err)
		return nil, err
	}

	return backoff.Retry(ctx, operation,
		backoff.WithBackOff(s.backoff()),
		backoff.WithMaxTries(uint(s.cfg.GetMaxRetries())+1),
	)
}

func isPermanent(err error) bool {
	if errors.Is(err, inoreader.ErrEmptyUserID) ||
		errors.Is(err, parse.ErrBlockedResponse) ||
		errors.Is(err, parse.ErrMalformedFeed) {
		return true
	}
	var httpErr *fetch.HTTPError
	if errors.As(err, &httpErr) {
		return !httpErr.Temporary()
	}
	return false
}

// PreviewResult holds the notes a tag would produce.
type PreviewResult struct {
	Tag    string
	Title  string
	Format string
	Notes  []render.Note
}

// Preview fetches tag and renders up to limit notes without writing them.
// A limit of zero or less renders every item.
func (s *Syncer) Preview(ctx context.Context, tag string, limit int) (*PreviewResult, error) {
	feed, err := s.fetchWithRetry(ctx, tag, false)
	if err != nil {
		return nil, err
	}

	items := feed.Items
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	preview := &PreviewResult{
		Tag:    tag,
		Title:  feed.Title,
		Format: feed.Format,
		Notes:  make([]render.Note, 0, len(items)),
	}
	for _, item := range items {
		preview.Notes = append(preview.Notes, render.Render(item, s.conv.Convert(item.ContentHTML), s.tmpl))
	}
	return preview, nil
}
