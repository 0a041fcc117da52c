package ctp

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/gorgonia/babble"
	"github.com/pkg/errors"
)

type Command interface {
	Do(id int, args []string, e *Engine) (int, string, error)
}

type stdlib func(e *Engine) string

type stdlib2 func(e *Engine, args []string) (string, error)

func (f stdlib) Do(id int, args []string, e *Engine) (int, string, error) {
	str := f(e)
	return id, str, nil
}

func (f stdlib2) Do(id int, args []string, e *Engine) (int, string, error) {
	str, err := f(e, args)
	return id, str, err
}

func protocolVersion(e *Engine) string { return "1" }
func name(e *Engine) string            { return e.name }
func version(e *Engine) string         { return e.version }
func quit(e *Engine) string            { e.quit = true; return "" }

func listCommands(e *Engine) string {
	cmds := make([]string, 0, len(e.known))
	for c := range e.known {
		cmds = append(cmds, c)
	}
	sort.Strings(cmds)
	return strings.Join(cmds, "\n")
}

func knownCommand(e *Engine, args []string) (string, error) {
	if len(args) == 0 {
		return "", errors.New("Not enough arguments for \"known_command\"")
	}
	if _, ok := e.known[strings.ToLower(args[0])]; ok {
		return "true", nil
	}
	return "false", nil
}

// withBrain runs fn on the agent's worker.
func (e *Engine) withBrain(fn func(b *babble.Brain) error) (err error) {
	ierr := e.a.Inspect(func(s babble.Stepper) {
		b, ok := s.(*babble.Brain)
		if !ok {
			err = errors.Errorf("%T is not a brain", s)
			return
		}
		err = fn(b)
	})
	if ierr != nil {
		return ierr
	}
	return err
}

// say steps every character of the line, then a newline, and returns what was said in reply.
func say(e *Engine, args []string) (string, error) {
	var said []rune
	for _, c := range e.line + "\n" {
		out, err := e.a.Do(babble.Char(c))
		if err != nil {
			return "", errors.WithMessage(err, fmt.Sprintf("Unable to say %q", c))
		}
		if !out.IsNothing() {
			said = append(said, out.Char)
		}
	}
	return strconv.Quote(string(said)), nil
}

func tick(e *Engine, args []string) (string, error) {
	n := 1
	if len(args) > 0 {
		var err error
		if n, err = strconv.Atoi(args[0]); err != nil {
			return "", errors.WithMessage(err, "Unable to parse first argument of tick")
		}
		if n < 1 {
			return "", errors.Errorf("Cannot tick %d times", n)
		}
	}
	var said []rune
	for i := 0; i < n; i++ {
		out, err := e.a.Do(babble.Tick())
		if err != nil {
			return "", err
		}
		if !out.IsNothing() {
			said = append(said, out.Char)
		}
	}
	return strconv.Quote(string(said)), nil
}

func memory(e *Engine, args []string) (retVal string, err error) {
	err = e.withBrain(func(b *babble.Brain) error {
		mem := b.Memory()
		vals := make([]string, len(mem))
		for i, v := range mem {
			vals[i] = strconv.FormatFloat(float64(v), 'f', 3, 32)
		}
		retVal = strings.Join(vals, " ")
		return nil
	})
	return
}

func stats(e *Engine, args []string) (retVal string, err error) {
	err = e.withBrain(func(b *babble.Brain) error {
		retVal = b.Stats().String()
		return nil
	})
	return
}

func reset(e *Engine, args []string) (string, error) {
	return "", e.withBrain(func(b *babble.Brain) error {
		b.Reset()
		return nil
	})
}

func dot(e *Engine, args []string) (retVal string, err error) {
	err = e.withBrain(func(b *babble.Brain) error {
		retVal = b.ToDot()
		return nil
	})
	return
}

func showLog(e *Engine, args []string) (string, error) {
	var buf bytes.Buffer
	err := e.withBrain(func(b *babble.Brain) error {
		b.Log(&buf)
		return nil
	})
	return buf.String(), err
}

func dump(e *Engine, args []string) (string, error) {
	if len(args) == 0 {
		return "", errors.New("Not enough arguments for \"dump\"")
	}
	return "", e.withBrain(func(b *babble.Brain) error { return b.Dump(args[0]) })
}

// feedback reports the panic of an unimplemented Feedback as a protocol error.
func feedback(reward float32) stdlib2 {
	return func(e *Engine, args []string) (string, error) {
		return "", e.withBrain(func(b *babble.Brain) (err error) {
			defer func() {
				if r := recover(); r != nil {
					if rerr, ok := r.(error); ok {
						err = rerr
						return
					}
					err = errors.Errorf("%v", r)
				}
			}()
			b.Feedback(reward)
			return nil
		})
	}
}

func StandardLib() map[string]Command {
	return map[string]Command{
		"protocol_version": stdlib(protocolVersion),
		"name":             stdlib(name),
		"version":          stdlib(version),
		"list_commands":    stdlib(listCommands),
		"quit":             stdlib(quit),

		"known_command": stdlib2(knownCommand),
		"say":           stdlib2(say),
		"tick":          stdlib2(tick),
		"memory":        stdlib2(memory),
		"stats":         stdlib2(stats),
		"reset":         stdlib2(reset),
		"dot":           stdlib2(dot),
		"log":           stdlib2(showLog),
		"dump":          stdlib2(dump),
		"reward":        feedback(1),
		"punish":        feedback(-1),
	}
}
