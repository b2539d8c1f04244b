package deck

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"scene-deck/internal/commands"
	"scene-deck/internal/scene"
)

// Opener builds a scene by name for "cmd push".
type Opener func(name string) (scene.Scene, error)

// animated is implemented by scenes the console can replay, skip or reset.
type animated interface {
	ReplayIntro()
	SkipIntro()
	ResetCamera()
}

var errUsage = errors.New("usage")

// RegisterCommands adds the navigation console commands to r. Feedback lines
// go to out.
func RegisterCommands(r *commands.Registry, m *Manager, open Opener, out func(string)) {
	if out == nil {
		out = func(string) {}
	}
	simple := func(name, usage string, fn func()) {
		r.Register(name, usage, nil, func([]string) error {
			fn()
			out(m.describe())
			return nil
		})
	}
	simple("back", "step to the previous scene", m.StepBack)
	simple("forward", "step to the next scene", m.StepForward)
	simple("last", "jump to the last scene", m.GoToLast)
	simple("clear", "drop every scene but the first", m.Clear)

	r.Register("goto", "N  jump to scene N", nil, func(args []string) error {
		if len(args) != 1 {
			return fmt.Errorf("%w: cmd goto N", errUsage)
		}
		i, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("goto: %w", err)
		}
		m.SetIndex(i)
		out(m.describe())
		return nil
	})
	r.Register("pop", "remove the last scene", nil, func([]string) error {
		s, ok := m.Pop()
		if !ok {
			out("no scenes")
			return nil
		}
		out("popped " + s.Label())
		return nil
	})
	r.Register("push", "NAME  open a new scene", nil, func(args []string) error {
		if len(args) != 1 || open == nil {
			return fmt.Errorf("%w: cmd push NAME", errUsage)
		}
		s, err := open(args[0])
		if err != nil {
			return err
		}
		m.Open(s)
		out(m.describe())
		return nil
	})
	r.Register("intro", "replay the intro of the current scene", nil, func([]string) error {
		return m.withAnimated(out, animated.ReplayIntro)
	})
	r.Register("skip", "finish the intro of the current scene", nil, func([]string) error {
		return m.withAnimated(out, animated.SkipIntro)
	})
	r.Register("reset", "ease the camera back to the centre", nil, func([]string) error {
		return m.withAnimated(out, animated.ResetCamera)
	})
	r.Register("scenes", "list the scenes", nil, func([]string) error {
		labels, cursor := m.Snapshot()
		for i, l := range labels {
			mark := " "
			if i == cursor {
				mark = ">"
			}
			out(fmt.Sprintf("%s %d %s", mark, i, l))
		}
		return nil
	})
}

func (m *Manager) withAnimated(out func(string), fn func(animated)) error {
	s, ok := m.Current()
	if !ok {
		out("no scenes")
		return nil
	}
	a, ok := s.(animated)
	if !ok {
		out(s.Label() + " has no animation")
		return nil
	}
	fn(a)
	return nil
}

// describe summarises the stack for console feedback.
func (m *Manager) describe() string {
	labels, i := m.Snapshot()
	if len(labels) == 0 {
		return "no scenes"
	}
	return fmt.Sprintf("scene %d/%d %s [%s]", i+1, len(labels), labels[i], strings.Join(labels, " "))
}

// Status returns the HUD lines: the stack summary and, when the current
// scene reports one, its own status.
func (m *Manager) Status() []string {
	lines := []string{m.describe()}
	if s, ok := m.Current(); ok {
		if st, ok := s.(interface{ Status() string }); ok {
			lines = append(lines, s.Label()+": "+st.Status())
		}
	}
	return lines
}
