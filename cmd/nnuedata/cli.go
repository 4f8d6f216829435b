package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

type CommandArgs struct {
	commandName string
	params      map[string]string
}

// NewCommandArgs parses "<command> -key value -flag" style arguments.
// A key followed by another key (or nothing) is a boolean flag set to "true".
func NewCommandArgs(args []string) *CommandArgs {
	var cmdName = ""
	var flags = make(map[string]string)
	for i := 0; i < len(args); i++ {
		var arg = args[i]
		if strings.HasPrefix(arg, "-") {
			var k = strings.TrimLeft(arg, "-")
			if i < len(args)-1 && isValue(args[i+1]) {
				flags[k] = args[i+1]
				i++
			} else {
				flags[k] = "true"
			}
		} else if cmdName == "" {
			cmdName = arg
		}
	}
	return &CommandArgs{
		commandName: cmdName,
		params:      flags,
	}
}

func isValue(arg string) bool {
	if !strings.HasPrefix(arg, "-") {
		return true
	}
	var _, err = strconv.ParseFloat(arg, 64)
	return err == nil
}

func (ca *CommandArgs) CommandName() string {
	return ca.commandName
}

func (ca *CommandArgs) GetString(name string, defaultVal string) string {
	var val, ok = ca.params[name]
	if !ok {
		return defaultVal
	}
	return val
}

func (ca *CommandArgs) GetInt(name string, defaultVal int) (int, error) {
	var val, ok = ca.params[name]
	if !ok {
		return defaultVal, nil
	}
	var v, err = strconv.Atoi(strings.ReplaceAll(val, "_", ""))
	if err != nil {
		return defaultVal, fmt.Errorf("bad value of -%v: %w", name, err)
	}
	return v, nil
}

func (ca *CommandArgs) GetFloat(name string, defaultVal float64) (float64, error) {
	var val, ok = ca.params[name]
	if !ok {
		return defaultVal, nil
	}
	var v, err = strconv.ParseFloat(val, 64)
	if err != nil {
		return defaultVal, fmt.Errorf("bad value of -%v: %w", name, err)
	}
	return v, nil
}

func (ca *CommandArgs) GetBool(name string, defaultVal bool) (bool, error) {
	var val, ok = ca.params[name]
	if !ok {
		return defaultVal, nil
	}
	var v, err = strconv.ParseBool(val)
	if err != nil {
		return defaultVal, fmt.Errorf("bad value of -%v: %w", name, err)
	}
	return v, nil
}

type Cli struct {
	args  *CommandArgs
	items map[string]func() error
}

func NewCli(args []string) *Cli {
	return &Cli{
		args:  NewCommandArgs(args),
		items: make(map[string]func() error),
	}
}

func (c *Cli) Params() *CommandArgs {
	return c.args
}

func (c *Cli) AddCommand(name string, handler func() error) {
	c.items[name] = handler
}

func (c *Cli) Execute() error {
	var commandName = c.args.CommandName()
	handler, found := c.items[commandName]
	if !found {
		var names []string
		for name := range c.items {
			names = append(names, name)
		}
		sort.Strings(names)
		return fmt.Errorf("command not found %q, available: %v", commandName, strings.Join(names, ", "))
	}
	return handler()
}
