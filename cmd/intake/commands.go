package main

import (
	"fmt"
	"strings"
)

const (
	cmdOpen = "open"
	cmdTab  = "tab"
	cmdMode = "mode"
	cmdWait = "wait"
	cmdHelp = "help"
	cmdQuit = "quit"
)

const usage = `commands:
  open <path>            pick a file
  tab <id>               extracted-text | suggestions | disclaimer
  mode <local|server>    change the processing mode
  wait                   block until outstanding work finishes
  quit`

type command struct {
	name string
	arg  string
}

var needsArg = map[string]bool{
	cmdOpen: true,
	cmdTab:  true,
	cmdMode: true,
	cmdWait: false,
	cmdHelp: false,
	cmdQuit: false,
}

// parseCommand splits a prompt line into a command and its argument. The
// argument is the rest of the line so paths may contain spaces.
func parseCommand(line string) (command, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return command{}, nil
	}

	name, arg, _ := strings.Cut(line, " ")
	name = strings.ToLower(name)
	arg = strings.TrimSpace(arg)
	if name == "exit" {
		name = cmdQuit
	}

	takesArg, known := needsArg[name]
	if !known {
		return command{}, fmt.Errorf("unknown command %q, try help", name)
	}
	if takesArg && arg == "" {
		return command{}, fmt.Errorf("%s needs an argument", name)
	}
	if !takesArg {
		arg = ""
	}
	return command{name: name, arg: arg}, nil
}
