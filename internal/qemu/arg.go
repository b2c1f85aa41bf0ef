// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package qemu

import (
	"fmt"
	"slices"
	"strings"
)

// Argument is a QEMU argument with or without value.
//
// Its name might be marked to be unique in the argument list of a [Command].
type Argument struct {
	name          string
	value         string
	nonUniqueName bool
}

// String implements [fmt.Stringer].
func (a Argument) String() string {
	s := "-" + a.name
	if a.value != "" {
		s += " " + a.value
	}

	return s
}

// Name returns the name of the [Argument].
func (a Argument) Name() string {
	return a.name
}

// Value returns the value of the [Argument].
func (a Argument) Value() string {
	return a.value
}

// UniqueName returns if the name of the [Argument] must be unique in the
// argument list.
func (a Argument) UniqueName() bool {
	return !a.nonUniqueName
}

// Equal compares the [Argument]s.
//
// If the name is marked unique, only names are
// compared. Otherwise name and value are compared.
func (a Argument) Equal(other Argument) bool {
	if a.name != other.name {
		return false
	}

	if a.nonUniqueName {
		return a.value == other.value
	}

	return true
}

// UniqueArg returns a new [Argument] with the given name that is marked as
// unique and so can be used in an argument list only once.
func UniqueArg(name string, value ...string) Argument {
	return Argument{
		name:  name,
		value: strings.Join(value, ","),
	}
}

// RepeatableArg returns a new [Argument] with the given name that is not
// unique and so can be used in an argument list multiple times.
func RepeatableArg(name string, value ...string) Argument {
	return Argument{
		name:          name,
		value:         strings.Join(value, ","),
		nonUniqueName: true,
	}
}

// BuildArgumentStrings compiles the [Argument]s to into a slice of strings
// which can be used with [exec.Command].
//
// It returns an error if any name uniqueness constraints of any [Argument] is
// violated.
func BuildArgumentStrings(args []Argument) ([]string, error) {
	argString := make([]string, 0, len(args))

	for idx, arg := range args {
		if i := slices.IndexFunc(args[:idx], arg.Equal); i != -1 {
			return nil, fmt.Errorf(
				"%w: %s, %s",
				ErrArgumentCollision,
				arg.String(),
				args[i].String(),
			)
		}

		argString = append(argString, "-"+arg.name)

		if arg.value != "" {
			argString = append(argString, arg.value)
		}
	}

	return argString, nil
}

// repeatableNames are the names of QEMU arguments that are commonly given
// multiple times.
var repeatableNames = []string{
	"chardev",
	"device",
	"drive",
	"global",
	"netdev",
	"object",
	"serial",
}

// ParseArguments parses user supplied command line arguments into
// [Argument]s.
//
// Each argument must start with a dash. It is followed by an optional value
// that does not start with a dash. Well known repeatable arguments, like
// "-device", are parsed as [RepeatableArg], all others as [UniqueArg] so they
// collide with the essential arguments of a [CommandSpec].
func ParseArguments(strs []string) ([]Argument, error) {
	args := make([]Argument, 0, len(strs))

	for idx := 0; idx < len(strs); idx++ {
		name, isName := strings.CutPrefix(strs[idx], "-")
		if !isName || name == "" {
			return nil, &ArgumentError{"expected argument name: " + strs[idx]}
		}

		// Double dash variants are accepted by QEMU as well.
		name = strings.TrimPrefix(name, "-")

		var value string

		if next := idx + 1; next < len(strs) && !strings.HasPrefix(strs[next], "-") {
			value = strs[next]
			idx = next
		}

		if slices.Contains(repeatableNames, name) {
			args = append(args, RepeatableArg(name, value))
		} else {
			args = append(args, UniqueArg(name, value))
		}
	}

	return args, nil
}
