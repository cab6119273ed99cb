// Package app runs the interactive session: a prompt loop over the task
// store with listing, creation, completion, the refresh walk and the
// completion wizard.
package app

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jhaenchen/procrastitask/internal/clock"
	"github.com/jhaenchen/procrastitask/internal/collection"
	"github.com/jhaenchen/procrastitask/internal/config"
	"github.com/jhaenchen/procrastitask/internal/dynamic"
	"github.com/jhaenchen/procrastitask/internal/model"
	"github.com/jhaenchen/procrastitask/internal/store"
	"github.com/jhaenchen/procrastitask/internal/telemetry"
)

const refreshAge = 7 * 24 * time.Hour

// Session is one interactive sitting. Tasks outside the selected lists stay
// in preserved and are written back verbatim on save.
type Session struct {
	cfg    *config.Config
	store  store.Store
	reg    *dynamic.Registry
	events telemetry.Repository
	clk    clock.Clock
	log    *zap.SugaredLogger

	in  *bufio.Scanner
	out io.Writer

	selected  []string
	tasks     []*model.Task
	preserved []*model.Task
	cached    map[int]*model.Task
}

func NewSession(cfg *config.Config, st store.Store, reg *dynamic.Registry, events telemetry.Repository, clk clock.Clock, log *zap.SugaredLogger, in io.Reader, out io.Writer) *Session {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if events == nil {
		events = telemetry.NewMemoryRepository()
	}
	if clk == nil {
		clk = clock.Real{}
	}
	return &Session{
		cfg:    cfg,
		store:  st,
		reg:    reg,
		events: events,
		clk:    clk,
		log:    log,
		in:     bufio.NewScanner(in),
		out:    out,
		cached: map[int]*model.Task{},
	}
}

// Load reads the store and filters to the selected lists. An empty
// selection or "all" keeps everything in view. A corrupt store logs and
// starts empty rather than refusing to run.
func (s *Session) Load(lists []string) error {
	all, err := s.store.Load()
	if err != nil {
		if !errors.Is(err, store.ErrCorrupt) {
			return err
		}
		s.log.Warnw("starting with an empty task list", "err", err)
	}

	now := s.clk.Now()
	for _, t := range all {
		if err := t.ApplyResolution(now); err != nil {
			s.log.Warnw("could not resolve task completion", "task", t.ID, "err", err)
		}
	}

	s.selected = lists
	s.tasks = s.tasks[:0]
	s.preserved = s.preserved[:0]
	for _, t := range all {
		if s.listSelected(t.ListName) {
			s.tasks = append(s.tasks, t)
		} else {
			s.preserved = append(s.preserved, t)
		}
	}
	s.cached = map[int]*model.Task{}
	return nil
}

func (s *Session) listSelected(name string) bool {
	if len(s.selected) == 0 {
		return true
	}
	for _, l := range s.selected {
		if l == "all" || l == name {
			return true
		}
	}
	return false
}

// ListNames returns every list name present in the store, sorted, with the
// default list first.
func (s *Session) ListNames() []string {
	seen := map[string]bool{model.DefaultListName: true}
	names := []string{model.DefaultListName}
	for _, t := range append(append([]*model.Task{}, s.tasks...), s.preserved...) {
		if !seen[t.ListName] {
			seen[t.ListName] = true
			names = append(names, t.ListName)
		}
	}
	sort.Strings(names[1:])
	return names
}

// Save writes every task back, selected and preserved alike.
func (s *Session) Save() error {
	if err := s.store.Save(append(append([]*model.Task{}, s.tasks...), s.preserved...)); err != nil {
		return err
	}
	s.record(telemetry.EventStoreSaved, telemetry.EventMetadata{"tasks": len(s.tasks) + len(s.preserved)})
	return nil
}

// Collection is the query view over the current selection.
func (s *Session) Collection() *collection.Collection {
	unfiltered := append(append([]*model.Task{}, s.tasks...), s.preserved...)
	return collection.New(s.tasks, unfiltered, s.log.Desugar())
}

// ShouldRefresh reports whether the oldest incomplete task's stress level
// has gone stale.
func (s *Session) ShouldRefresh() bool {
	now := s.clk.Now()
	var oldest time.Time
	found := false
	for _, t := range s.tasks {
		if t.IsComplete(now) {
			continue
		}
		if !found || t.LastRefreshed.Before(oldest) {
			oldest = t.LastRefreshed
			found = true
		}
	}
	return found && now.Sub(oldest) > refreshAge
}

// record logs telemetry best-effort; a failing event log never breaks the
// session.
func (s *Session) record(event telemetry.EventType, metadata telemetry.EventMetadata) {
	if err := s.events.RecordEvent(event, metadata); err != nil {
		s.log.Warnw("telemetry record failed", "event", event, "err", err)
	}
}

func (s *Session) printf(format string, args ...interface{}) {
	fmt.Fprintf(s.out, format, args...)
}

// findTask resolves a listing index or a task identifier.
func (s *Session) findTask(ref string) *model.Task {
	ref = strings.TrimSpace(ref)
	if idx, err := parseIndex(ref); err == nil {
		if t, ok := s.cached[idx]; ok {
			return t
		}
	}
	for _, t := range s.tasks {
		if t.ID == ref {
			return t
		}
	}
	return nil
}

// headline is the one-line task summary used in listings.
func (s *Session) headline(t *model.Task) string {
	now := s.clk.Now()
	stress, err := t.RenderedStress(now)
	if err != nil {
		stress = t.Stress
	}
	line := fmt.Sprintf("%s (%dmin, stress: %d, diff: %g", t.Title, t.Duration, int(stress), t.Difficulty)
	if due, err := t.CurrentDueDate(now); err == nil {
		line += ", due " + due.Format("2006-01-02")
	}
	return line + ")"
}

func (s *Session) formatTaskLine(idx int, t *model.Task) string {
	col := s.Collection()
	marker := ""
	if t.IsDueSoon(s.clk.Now()) {
		marker = "⏰ "
	}
	depInfo := ""
	if n := col.DependentCount(t); n > 0 {
		depInfo = fmt.Sprintf("(+%d) ", n)
	}
	return fmt.Sprintf("[%d] %s%s%s", idx, marker, depInfo, s.headline(t))
}

// listTasks prints the queued section, then the ranked actionable tasks,
// and rebuilds the index cache the other commands resolve against.
func (s *Session) listTasks() {
	queued, others, err := s.Collection().Ranked(s.clk.Now(), true)
	if err != nil {
		s.printf("Could not rank tasks: %v\n", err)
		return
	}

	s.cached = map[int]*model.Task{}
	idx := 0
	if s.ShouldRefresh() {
		s.printf("* Please refresh your tasks (r)\n")
	}
	if len(queued) > 0 {
		s.printf("\nQueued Tasks:\n")
		for _, t := range queued {
			s.printf("%s\n", s.formatTaskLine(idx, t))
			s.cached[idx] = t
			idx++
		}
	}
	if len(others) > 0 {
		s.printf("\nTasks:\n")
		for _, t := range others {
			s.printf("%s\n", s.formatTaskLine(idx, t))
			s.cached[idx] = t
			idx++
		}
	}
	if idx == 0 {
		s.printf("You have no available tasks.\n")
	}
}
