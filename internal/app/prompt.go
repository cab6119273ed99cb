package app

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jhaenchen/procrastitask/internal/model"
)

func parseIndex(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}

// readLine prompts and reads one line. ok is false once stdin closes.
func (s *Session) readLine(prompt string) (line string, ok bool) {
	s.printf("%s", prompt)
	if !s.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.in.Text()), true
}

// promptString returns current unchanged on empty input.
func (s *Session) promptString(label, current string) string {
	suffix := ""
	if current != "" {
		suffix = fmt.Sprintf(" [%s]", current)
	}
	line, ok := s.readLine(label + suffix + ": ")
	if !ok || line == "" {
		return current
	}
	return line
}

// promptFloat keeps asking until it gets a number or an empty line.
func (s *Session) promptFloat(label string, current float64) float64 {
	for {
		line, ok := s.readLine(fmt.Sprintf("%s [%g]: ", label, current))
		if !ok || line == "" {
			return current
		}
		v, err := strconv.ParseFloat(line, 64)
		if err != nil {
			s.printf("Bad input: %s. Try again.\n", line)
			continue
		}
		return v
	}
}

func (s *Session) promptInt(label string, current int) int {
	return int(s.promptFloat(label, float64(current)))
}

// promptDate accepts ISO or the compact day-first forms.
func (s *Session) promptDate(label string, current *time.Time) *time.Time {
	suffix := ""
	if current != nil {
		suffix = fmt.Sprintf(" [%s]", current.Format("2006-01-02 15:04"))
	}
	for {
		line, ok := s.readLine(label + suffix + ": ")
		if !ok || line == "" {
			return current
		}
		if line == "none" {
			return nil
		}
		t, err := ParseDateInput(line, s.clk.Now())
		if err != nil {
			s.printf("Bad input: %s. Try again.\n", line)
			continue
		}
		return t
	}
}

// promptDynamic parses a stress dynamic token, retrying on parse errors.
func (s *Session) promptDynamic(label, current string) string {
	suffix := ""
	if current != "" {
		suffix = fmt.Sprintf(" [%s]", current)
	}
	for {
		line, ok := s.readLine(label + suffix + ": ")
		if !ok || line == "" {
			return current
		}
		if line == "none" {
			return ""
		}
		if _, err := s.reg.Parse(line); err != nil {
			s.printf("Bad dynamic: %v. Try again.\n", err)
			continue
		}
		return line
	}
}

// promptDeps maps comma-separated indices or identifiers to task IDs.
func (s *Session) promptDeps(label string, current []string) []string {
	suffix := ""
	if len(current) > 0 {
		suffix = fmt.Sprintf(" [%s]", strings.Join(current, ","))
	}
	for {
		line, ok := s.readLine(label + suffix + ": ")
		if !ok || line == "" {
			return current
		}
		if line == "none" {
			return nil
		}
		refs := strings.Split(line, ",")
		ids := make([]string, 0, len(refs))
		valid := true
		for _, ref := range refs {
			t := s.findTask(strings.TrimSpace(ref))
			if t == nil {
				s.printf("No task for %q. Try again.\n", strings.TrimSpace(ref))
				valid = false
				break
			}
			ids = append(ids, t.ID)
		}
		if valid {
			return ids
		}
	}
}

// promptListSelection shows the known lists and returns the chosen names.
func (s *Session) promptListSelection() []string {
	names := append([]string{"all"}, s.ListNames()...)
	s.printf("Select your task lists (comma-separated indices):\n")
	for i, name := range names {
		s.printf("[%d] %s\n", i, name)
	}
	for {
		line, ok := s.readLine("Enter indices: ")
		if !ok || line == "" {
			return []string{"all"}
		}
		var selected []string
		valid := true
		for _, part := range strings.Split(line, ",") {
			idx, err := parseIndex(part)
			if err != nil || idx < 0 || idx >= len(names) {
				s.printf("Bad input: %s. Try again.\n", part)
				valid = false
				break
			}
			selected = append(selected, names[idx])
		}
		if valid {
			return selected
		}
	}
}

// currentListName is the list new tasks default into.
func (s *Session) currentListName() string {
	for _, l := range s.selected {
		if l != "" && l != "all" {
			return l
		}
	}
	return model.DefaultListName
}
