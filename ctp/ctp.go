// Package ctp implements a line oriented chat text protocol in front of a babble Agent.
//
// Each command is a line: an optional numeric id, a command name, and arguments.
// Successful responses look like "= [id] result\n\n", failures like "? [id] error\n\n".
package ctp

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gorgonia/babble"
	"github.com/pkg/errors"
)

type Engine struct {
	a *babble.Agent

	known map[string]Command

	ch  chan string
	ret chan string

	line string // the raw arguments of the command being run
	quit bool

	name, version string
}

func New(a *babble.Agent, name, version string, known map[string]Command) *Engine {
	if known == nil {
		known = StandardLib()
	}
	return &Engine{
		a:       a,
		known:   known,
		name:    name,
		version: version,
	}
}

// Start starts the engine. Commands go into input, responses come out of output.
// output is closed after the quit command has been answered.
func (e *Engine) Start() (input, output chan string) {
	e.ch = make(chan string)
	e.ret = make(chan string)
	go e.start()
	return e.ch, e.ret
}

func (e *Engine) Agent() *babble.Agent { return e.a }

func (e *Engine) start() {
	defer close(e.ret)
	for cmd := range e.ch {
		id, x, args, err := e.parse(cmd)
		if x == nil && err == nil {
			continue
		}
		if err != nil {
			e.ret <- handleErr(id, err)
			continue
		}
		id, result, err := x.Do(id, args, e)
		e.ret <- handleResult(id, result, err)
		if e.quit {
			return
		}
	}
}

func (e *Engine) parse(cmd string) (id int, x Command, args []string, err error) {
	cmd = strings.TrimSpace(cmd)
	tokens := strings.Fields(cmd)
	if len(tokens) == 0 {
		return -1, nil, nil, nil
	}
	if id, err = strconv.Atoi(tokens[0]); err == nil {
		// we've consumed ID
		cmd = strings.TrimSpace(cmd[len(tokens[0]):])
		tokens = tokens[1:]
	} else {
		// set err to nil because ID is optional
		err = nil
		id = -1
	}

	if len(tokens) == 0 {
		return id, nil, nil, nil // an ID on its own does nothing
	}

	name := strings.ToLower(tokens[0])
	var ok bool
	if x, ok = e.known[name]; !ok {
		return id, nil, nil, errors.Errorf("Unknown command %q", name)
	}
	e.line = strings.TrimLeft(cmd[len(tokens[0]):], " \t")
	if len(tokens) > 1 {
		args = tokens[1:]
	}
	return
}

func handleErr(id int, err error) string {
	if id != -1 {
		return fmt.Sprintf("? %d %v\n\n", id, err)
	}
	return fmt.Sprintf("? %v\n\n", err)
}

func handleResult(id int, result string, err error) string {
	if err != nil {
		return handleErr(id, err)
	}

	if id != -1 {
		return fmt.Sprintf("= %d %v\n\n", id, result)
	}
	return fmt.Sprintf("= %v\n\n", result)
}
