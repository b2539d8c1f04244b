// Package commands parses and dispatches console lines of the form
// "cmd <name> [flags] [args]".
package commands

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/mattn/go-shellwords"
	"github.com/spf13/pflag"
)

const prefix = "cmd "

var (
	// ErrUnknown is returned for a subcommand nobody registered.
	ErrUnknown = errors.New("unknown command")
	// ErrMissing is returned for a bare "cmd" line.
	ErrMissing = errors.New("missing subcommand")
)

// Command is a subcommand with its own flags. Run receives the positional
// arguments left after flag parsing.
type Command struct {
	Name    string
	Usage   string
	FlagSet *pflag.FlagSet
	Run     func(args []string) error
}

// Registry holds subcommands by name.
type Registry struct {
	cmds map[string]*Command
}

// NewRegistry returns an empty command registry.
func NewRegistry() *Registry {
	return &Registry{cmds: make(map[string]*Command)}
}

// Register adds a subcommand. fs may be nil for commands without flags.
func (r *Registry) Register(name, usage string, fs *pflag.FlagSet, run func(args []string) error) {
	if fs == nil {
		fs = pflag.NewFlagSet(name, pflag.ContinueOnError)
	}
	r.cmds[name] = &Command{Name: name, Usage: usage, FlagSet: fs, Run: run}
}

// Names returns the registered subcommands in order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.cmds))
	for n := range r.cmds {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Help returns one usage line per subcommand.
func (r *Registry) Help() []string {
	lines := make([]string, 0, len(r.cmds))
	for _, n := range r.Names() {
		lines = append(lines, fmt.Sprintf("cmd %s  %s", n, r.cmds[n].Usage))
	}
	return lines
}

// Parse interprets line as a console line. If it starts with "cmd " the rest
// is split shell-style and returned with ok true; otherwise nil, false.
func Parse(line string) (args []string, ok bool, err error) {
	if line != "cmd" && !strings.HasPrefix(line, prefix) {
		return nil, false, nil
	}
	rest := strings.TrimSpace(strings.TrimPrefix(line, "cmd"))
	if rest == "" {
		return nil, true, nil
	}
	args, err = shellwords.Parse(rest)
	return args, true, err
}

// Execute runs the subcommand in args[0] with args[1:] as flags and
// positional arguments.
func (r *Registry) Execute(args []string) error {
	if len(args) == 0 {
		return ErrMissing
	}
	cmd, ok := r.cmds[args[0]]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknown, args[0])
	}
	if err := cmd.FlagSet.Parse(args[1:]); err != nil {
		return fmt.Errorf("%s: %w", cmd.Name, err)
	}
	return cmd.Run(cmd.FlagSet.Args())
}

// Handle parses and executes line. It reports false when line is not a
// command.
func (r *Registry) Handle(line string) (bool, error) {
	args, ok, err := Parse(line)
	if !ok {
		return false, nil
	}
	if err != nil {
		return true, err
	}
	return true, r.Execute(args)
}
