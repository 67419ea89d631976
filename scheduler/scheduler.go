package scheduler

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/jochie/teletekst/db"
	"github.com/jochie/teletekst/diff"
	"github.com/jochie/teletekst/fetcher"
	"github.com/jochie/teletekst/matcher"
	"github.com/jochie/teletekst/models"
	"github.com/jochie/teletekst/notifier"
	"github.com/jochie/teletekst/sheets"
)

// Scheduler runs the fetch-compare-notify cycle at a fixed interval
type Scheduler struct {
	db            *db.DB
	fetcher       fetcher.Fetcher
	matcher       *matcher.Matcher
	notifier      *notifier.Notifier
	writer        *sheets.Writer // optional, may be nil
	interval      time.Duration
	keepSnapshots int
	ctx           context.Context
	cancel        context.CancelFunc
}

// NewScheduler creates a new scheduler. The sheets writer may be nil when no
// change log is configured.
func NewScheduler(database *db.DB, f fetcher.Fetcher, m *matcher.Matcher, n *notifier.Notifier, writer *sheets.Writer, interval time.Duration, keepSnapshots int) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		db:            database,
		fetcher:       f,
		matcher:       m,
		notifier:      n,
		writer:        writer,
		interval:      interval,
		keepSnapshots: keepSnapshots,
		ctx:           ctx,
		cancel:        cancel,
	}
}

// Start starts the scheduler in a goroutine
func (s *Scheduler) Start() {
	go s.run()
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.cancel()
	log.Println("Scheduler stopped")
}

// run is the main scheduler loop
func (s *Scheduler) run() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// One cycle right away, then on every tick
	if err := s.RunOnce(); err != nil {
		log.Printf("Error running cycle: %v\n", err)
	}

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			if err := s.RunOnce(); err != nil {
				log.Printf("Error running cycle: %v\n", err)
			}
		}
	}
}

// RunOnce performs one full cycle: fetch the current page set, compare it
// against the previous snapshot, act on every change, and persist the new
// snapshot when anything changed
func (s *Scheduler) RunOnce() error {
	next, err := s.fetcher.Fetch()
	if err != nil {
		return fmt.Errorf("fetch failed: %w", err)
	}
	runAt := time.Now()

	prev, prevStored, err := s.db.LoadLatestSnapshot()
	if err != nil {
		return fmt.Errorf("loading previous snapshot failed: %w", err)
	}

	if prev == nil {
		// First run ever: nothing to compare against
		stored, err := s.db.SaveSnapshot(next)
		if err != nil {
			return fmt.Errorf("saving first snapshot failed: %w", err)
		}
		log.Printf("First run, saved snapshot %d with %d pages\n", stored.ID, len(next))
		return nil
	}

	result := s.matcher.Match(prev, next)
	changes := s.actOnChanges(prev, next, prevStored.TakenAt, runAt, result)

	if len(changes) == 0 {
		log.Println("No changes since previous snapshot")
		return nil
	}

	logSummary(prev, next, result)

	stored, err := s.db.SaveSnapshot(next)
	if err != nil {
		return fmt.Errorf("saving snapshot failed: %w", err)
	}
	log.Printf("Saved snapshot %d with %d pages (%d changes)\n", stored.ID, len(next), len(changes))

	if s.keepSnapshots > 0 {
		if err := s.db.PruneSnapshots(s.keepSnapshots); err != nil {
			log.Printf("Warning: Failed to prune snapshots: %v\n", err)
		}
	}

	if s.writer != nil {
		if err := s.writer.AppendChanges(runAt, changes); err != nil {
			log.Printf("Warning: Failed to write change log: %v\n", err)
		}
	}
	return nil
}

// actOnChanges notifies about every non-unchanged classification and collects
// the change-log rows. Notification failures are logged, not fatal: the next
// cycle compares against the saved snapshot, so a missed notification is not
// retried.
func (s *Scheduler) actOnChanges(prev, next models.Snapshot, prevAt, runAt time.Time, result matcher.Result) []sheets.ChangeRow {
	var changes []sheets.ChangeRow

	for _, match := range result.Matches {
		switch match.Kind {
		case matcher.KindUnchanged:
			continue

		case matcher.KindNew:
			page := next[match.NewNumber]
			if err := s.notifier.NotifyNew(page); err != nil {
				log.Printf("Warning: Failed to notify about new page %d: %v\n", page.Number, err)
			}
			changes = append(changes, sheets.ChangeRow{
				Kind:      "new",
				NewNumber: page.Number,
				Title:     page.Title,
			})

		case matcher.KindChanged:
			oldPage := prev[match.OldNumber]
			newPage := next[match.NewNumber]

			var udiff string
			if match.HasField(matcher.FieldContent) {
				var err error
				udiff, err = diff.Unified(oldPage, newPage, prevAt, runAt)
				if err != nil {
					log.Printf("Warning: Failed to generate diff for page %d: %v\n", newPage.Number, err)
				}
			}
			if err := s.notifier.NotifyChanged(oldPage, newPage, match, udiff); err != nil {
				log.Printf("Warning: Failed to notify about changed page %d: %v\n", newPage.Number, err)
			}
			changes = append(changes, sheets.ChangeRow{
				Kind:      "changed",
				OldNumber: oldPage.Number,
				NewNumber: newPage.Number,
				Title:     newPage.Title,
				Fields:    fieldList(match.Changed),
			})
		}
	}

	for _, number := range prev.Numbers() {
		if !result.Removed[number] {
			continue
		}
		page := prev[number]
		if err := s.notifier.NotifyRemoved(page); err != nil {
			log.Printf("Warning: Failed to notify about removed page %d: %v\n", page.Number, err)
		}
		changes = append(changes, sheets.ChangeRow{
			Kind:      "removed",
			OldNumber: page.Number,
			Title:     page.Title,
		})
	}

	return changes
}

// logSummary prints the per-run report of removed, new, and changed pages
func logSummary(prev, next models.Snapshot, result matcher.Result) {
	var sb strings.Builder

	if len(result.Removed) > 0 {
		sb.WriteString("The following page(s) no longer exist:\n")
		for _, number := range prev.Numbers() {
			if result.Removed[number] {
				sb.WriteString(fmt.Sprintf("    #%d '%s'\n", number, prev[number].Title))
			}
		}
	}

	var newLines, altLines []string
	for _, match := range result.Matches {
		switch match.Kind {
		case matcher.KindNew:
			page := next[match.NewNumber]
			newLines = append(newLines, fmt.Sprintf("    #%d '%s'", page.Number, page.Title))
		case matcher.KindChanged:
			numbers := fmt.Sprintf("#%d", match.NewNumber)
			if match.OldNumber != match.NewNumber {
				numbers = fmt.Sprintf("#%d -> %d", match.OldNumber, match.NewNumber)
			}
			altLines = append(altLines, fmt.Sprintf("    %s '%s' (%s changed)",
				numbers, next[match.NewNumber].Title, fieldList(match.Changed)))
		}
	}

	if len(newLines) > 0 {
		sb.WriteString("New page(s) found:\n")
		sb.WriteString(strings.Join(newLines, "\n"))
		sb.WriteString("\n")
	}
	if len(altLines) > 0 {
		sb.WriteString("The following page(s) changed:\n")
		sb.WriteString(strings.Join(altLines, "\n"))
		sb.WriteString("\n")
	}

	if sb.Len() > 0 {
		log.Printf("Run summary:\n%s", sb.String())
	}
}

// fieldList joins changed fields as "number, title, content"
func fieldList(fields []matcher.Field) string {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, string(f))
	}
	return strings.Join(parts, ", ")
}
