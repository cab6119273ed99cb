package app

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/jhaenchen/procrastitask/internal/cron"
	"github.com/jhaenchen/procrastitask/internal/model"
	"github.com/jhaenchen/procrastitask/internal/telemetry"
)

var errExit = errors.New("exit")

const commandPrompt = "Enter your command (n = new task, ls = list, view <id> = view task, " +
	"x <id> = complete task, d <id> = delete task, s = save, r = refresh, " +
	"e <id> = edit task, cal <id> = calendar event, load = reload, " +
	"n <id> = create next task after <id>, p <id> = create previous task before <id>, " +
	"q <id> = queue task, w = wizard, v = velocity, +N <id>/-N <id> = bump stress, " +
	"reset <id> = clear stress bumps, exit = exit): "

// Run is the interactive loop. It returns when the user exits or input
// closes.
func (s *Session) Run() error {
	s.printf("\nWelcome to Procrastinator's Companion\n\n")
	s.listTasks()
	for {
		line, ok := s.readLine("\n" + commandPrompt)
		if !ok {
			return s.Save()
		}
		if err := s.dispatch(line); err != nil {
			if errors.Is(err, errExit) {
				return nil
			}
			s.printf("Error: %v\n", err)
			s.log.Warnw("command failed", "command", line, "err", err)
		}
	}
}

func (s *Session) dispatch(line string) error {
	if line == "" {
		return nil
	}
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])
	args := parts[1:]

	if delta, err := strconv.Atoi(command); err == nil && (command[0] == '+' || command[0] == '-') && len(args) > 0 {
		return s.cmdBump(args[0], float64(delta))
	}

	switch {
	case command == "n" && len(args) == 0:
		return s.cmdCreate(nil)
	case command == "n":
		return s.cmdCreateAfter(args[0])
	case command == "p" && len(args) > 0:
		return s.cmdCreateBefore(args[0])
	case command == "ls":
		s.listTasks()
	case command == "view" && len(args) > 0:
		return s.cmdView(args[0])
	case command == "x" && len(args) > 0:
		return s.cmdComplete(args[0])
	case command == "d" && len(args) > 0:
		return s.cmdDelete(args[0])
	case command == "s":
		if err := s.Save(); err != nil {
			return err
		}
		s.printf("Tasks saved successfully.\n")
	case command == "r":
		return s.cmdRefresh()
	case command == "e" && len(args) > 0:
		return s.cmdEdit(args[0])
	case command == "cal" && len(args) > 0:
		return s.cmdCalendar(args[0])
	case command == "load":
		if err := s.Load(s.promptListSelection()); err != nil {
			return err
		}
		s.listTasks()
	case command == "q" && len(args) > 0:
		return s.cmdQueue(args[0])
	case command == "w":
		return s.cmdWizard()
	case command == "v" || command == "velocity":
		return s.cmdVelocity()
	case command == "reset" && len(args) > 0:
		return s.cmdResetBumps(args[0])
	case command == "exit":
		if err := s.Save(); err != nil {
			return err
		}
		s.printf("Exiting Procrastinator's Companion. Goodbye!\n")
		return errExit
	default:
		if t := s.findTask(line); t != nil {
			s.printTask(t)
			return nil
		}
		s.printf("Unknown command.\n")
	}
	return nil
}

// editTask walks the task fields interactively. With a nil task it creates
// a new one.
func (s *Session) editTask(existing *model.Task) (*model.Task, error) {
	now := s.clk.Now()
	t := existing
	if t == nil {
		t = model.NewTask("", "", now)
		t.ListName = s.currentListName()
	}

	t.Title = s.promptString("Title", t.Title)
	t.Description = s.promptString("Description", t.Description)
	t.Duration = s.promptInt("Estimated duration (minutes)", t.Duration)
	t.Stress = s.promptFloat("Stress level", t.Stress)
	t.Difficulty = s.promptFloat("Difficulty", t.Difficulty)
	t.DueDate = s.promptDate("Due date", t.DueDate)
	t.DueDateCron = s.promptCron("Due date cron", t.DueDateCron)
	t.CoolDown = s.promptCoolDown("Cool-down (e.g. 3d, 1w)", t.CoolDown)
	t.Periodicity = s.promptCron("Periodicity cron", t.Periodicity)
	t.DependentOn = s.promptDeps("Dependent on tasks", t.DependentOn)
	t.ListName = s.promptString("List", t.ListName)

	token := ""
	if t.StressDynamic != nil {
		token = t.StressDynamic.Token()
	}
	token = s.promptDynamic("Stress dynamic", token)
	if token == "" {
		t.StressDynamic = nil
	} else {
		dyn, err := s.reg.Parse(token)
		if err != nil {
			return nil, err
		}
		t.StressDynamic = dyn
	}
	return t, nil
}

func (s *Session) promptCron(label, current string) string {
	for {
		expr := s.promptString(label, current)
		if expr == "" || expr == current {
			return current
		}
		if expr == "none" {
			return ""
		}
		if err := cron.Validate(expr); err != nil {
			s.printf("Bad cron expression: %v. Try again.\n", err)
			continue
		}
		return expr
	}
}

func (s *Session) promptCoolDown(label, current string) string {
	for {
		val := s.promptString(label, current)
		if val == "" || val == current {
			return current
		}
		if val == "none" {
			return ""
		}
		if _, err := model.ParseCoolDown(val); err != nil {
			s.printf("Bad cool-down: %v. Try again.\n", err)
			continue
		}
		return val
	}
}

func (s *Session) cmdCreate(dependentOn []string) error {
	t, err := s.editTask(nil)
	if err != nil {
		return err
	}
	t.DependentOn = append(t.DependentOn, dependentOn...)
	s.tasks = append(s.tasks, t)
	s.record(telemetry.EventTaskCreated, telemetry.EventMetadata{"task_id": t.ID, "title": t.Title})
	return s.Save()
}

// cmdCreateAfter makes a new task that depends on an existing one.
func (s *Session) cmdCreateAfter(ref string) error {
	found := s.findTask(ref)
	if found == nil {
		s.printf("Task not found.\n")
		return nil
	}
	return s.cmdCreate([]string{found.ID})
}

// cmdCreateBefore makes a new prerequisite and links the existing task to
// it.
func (s *Session) cmdCreateBefore(ref string) error {
	found := s.findTask(ref)
	if found == nil {
		s.printf("Task not found.\n")
		return nil
	}
	t, err := s.editTask(nil)
	if err != nil {
		return err
	}
	s.tasks = append(s.tasks, t)
	found.DependentOn = append(found.DependentOn, t.ID)
	s.record(telemetry.EventTaskCreated, telemetry.EventMetadata{"task_id": t.ID, "title": t.Title})
	return s.Save()
}

func (s *Session) printTask(t *model.Task) {
	s.printf("%s\n", s.headline(t))
	if t.Description != "" {
		s.printf("%s\n", t.Description)
	}
	s.printf("id: %s  list: %s  status: %s\n", t.ID, t.ListName, t.Status)
	for _, other := range s.tasks {
		for _, id := range other.DependentOn {
			if id == t.ID {
				s.printf("* blocked: [%s] %s\n", other.ID, other.Title)
			}
		}
	}
}

func (s *Session) cmdView(ref string) error {
	t := s.findTask(ref)
	if t == nil {
		s.printf("Task not found.\n")
		return nil
	}
	s.printTask(t)
	return nil
}

func (s *Session) cmdComplete(ref string) error {
	t := s.findTask(ref)
	if t == nil {
		s.printf("Task not found.\n")
		return nil
	}
	if err := t.Complete(s.clk.Now()); err != nil {
		return err
	}
	s.record(telemetry.EventTaskCompleted, telemetry.EventMetadata{"task_id": t.ID, "title": t.Title})
	if err := s.Save(); err != nil {
		return err
	}
	s.printf("\nTask completed.\n")
	return nil
}

func (s *Session) cmdDelete(ref string) error {
	t := s.findTask(ref)
	if t == nil {
		s.printf("Task not found.\n")
		return nil
	}
	for i, candidate := range s.tasks {
		if candidate == t {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			break
		}
	}
	s.record(telemetry.EventTaskDeleted, telemetry.EventMetadata{"task_id": t.ID, "title": t.Title})
	if err := s.Save(); err != nil {
		return err
	}
	s.printf("Task deleted successfully.\n")
	return nil
}

func (s *Session) cmdEdit(ref string) error {
	t := s.findTask(ref)
	if t == nil {
		s.printf("Task not found.\n")
		return nil
	}
	if _, err := s.editTask(t); err != nil {
		return err
	}
	return s.Save()
}

func (s *Session) cmdQueue(ref string) error {
	t := s.findTask(ref)
	if t == nil {
		s.printf("Task not found.\n")
		return nil
	}
	t.SetQueued()
	if err := s.Save(); err != nil {
		return err
	}
	s.printf("Task %q has been queued.\n", t.Title)
	return nil
}

// cmdRefresh walks incomplete tasks oldest-refreshed-first, letting the
// user re-enter base stress levels until the list is fresh again.
func (s *Session) cmdRefresh() error {
	now := s.clk.Now()
	seen := map[string]bool{}
	for {
		if !s.ShouldRefresh() {
			s.printf("List sufficiently refreshed.\n")
			break
		}
		var remaining []*model.Task
		for _, t := range s.tasks {
			if !t.IsComplete(now) && !seen[t.ID] {
				remaining = append(remaining, t)
			}
		}
		if len(remaining) == 0 {
			break
		}
		sort.SliceStable(remaining, func(i, j int) bool {
			return remaining[i].LastRefreshed.Before(remaining[j].LastRefreshed)
		})
		chosen := remaining[0]
		seen[chosen.ID] = true

		s.printf("%s\n", s.formatTaskLine(0, chosen))
		line, ok := s.readLine("Enter new stress level for task (or 'x' to exit): ")
		if !ok || strings.EqualFold(line, "x") {
			break
		}
		chosen.Touch(s.clk.Now())
		if line != "" {
			stress, err := strconv.ParseFloat(line, 64)
			if err != nil {
				s.printf("Bad input: %s.\n", line)
				continue
			}
			chosen.Stress = stress
			s.record(telemetry.EventStressRefreshed, telemetry.EventMetadata{"task_id": chosen.ID, "stress": stress})
		}
	}
	return s.Save()
}

func (s *Session) cmdWizard() error {
	s.printf("\nWelcome to the completion wizard.\n")
	availableTime := s.promptFloat("How much time do you have (minutes)?", 0)
	availableEnergy := s.promptFloat("How much energy do you have?", 0)

	now := s.clk.Now()
	var open []*model.Task
	for _, t := range s.tasks {
		if !t.IsComplete(now) {
			open = append(open, t)
		}
	}
	strict := StrictMatches(open, availableTime, availableEnergy)
	stretch := StretchMatches(open, availableTime, availableEnergy)

	s.cached = map[int]*model.Task{}
	idx := 0
	show := func(tasks []*model.Task) {
		for _, t := range tasks {
			s.printf("%s\n", s.formatTaskLine(idx, t))
			s.cached[idx] = t
			idx++
		}
	}
	switch {
	case len(strict) > 0:
		s.printf("I recommend the following tasks:\n")
		show(strict)
		if len(stretch) > 0 {
			s.printf("\nAnd this possible stretch task:\n")
			show(stretch[:1])
		}
	case len(stretch) > 0:
		s.printf("\nYou have no perfect fits, but try these stretch tasks:\n")
		if len(stretch) > 3 {
			stretch = stretch[:3]
		}
		show(stretch)
	default:
		s.printf("No tasks fit that time and energy.\n")
	}
	return nil
}

func (s *Session) cmdCalendar(ref string) error {
	t := s.findTask(ref)
	if t == nil {
		s.printf("Task not found.\n")
		return nil
	}
	ics, err := model.BuildCalendarICS(t, s.clk.Now())
	if err != nil {
		return err
	}
	path := filepath.Join(s.cfg.DataDir, t.ID+".ics")
	if err := os.WriteFile(path, []byte(ics), 0o644); err != nil {
		return err
	}
	s.printf("Calendar event written to %s\n", path)
	return nil
}

func (s *Session) cmdVelocity() error {
	col := s.Collection()
	now := s.clk.Now()
	window := s.cfg.VelocityWindow()

	overall, err := col.Velocity(window, now)
	if err != nil {
		return err
	}
	s.printf("Velocity over the last %d days: %.1f%%\n", s.cfg.VelocityWindowDays, overall)

	byList, err := col.VelocityByList(window, now)
	if err != nil {
		return err
	}
	names := make([]string, 0, len(byList))
	for name := range byList {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		s.printf("  %s: %.1f%%\n", name, byList[name])
	}
	return nil
}

func (s *Session) cmdBump(ref string, delta float64) error {
	t := s.findTask(ref)
	if t == nil {
		s.printf("Task not found.\n")
		return nil
	}
	BumpStress(t, delta)
	t.Touch(s.clk.Now())
	stress, err := t.RenderedStress(s.clk.Now())
	if err != nil {
		return err
	}
	s.printf("Updated stress for %q to %g\n", t.Title, stress)
	return s.Save()
}

func (s *Session) cmdResetBumps(ref string) error {
	t := s.findTask(ref)
	if t == nil {
		s.printf("Task not found.\n")
		return nil
	}
	ResetBumps(t)
	s.printf("Stress adjustments cleared for %q\n", t.Title)
	return s.Save()
}
