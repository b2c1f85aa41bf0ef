// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package qemu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArgument_Equal(t *testing.T) {
	tests := []struct {
		name   string
		a      Argument
		b      Argument
		assert assert.BoolAssertionFunc
	}{
		{
			name:   "both empty",
			assert: assert.True,
		},
		{
			name:   "one empty",
			a:      Argument{name: "t"},
			assert: assert.False,
		},
		{
			name:   "same name",
			a:      Argument{name: "t", value: "5"},
			b:      Argument{name: "t", value: "6"},
			assert: assert.True,
		},
		{
			name:   "same non-unique name",
			a:      Argument{name: "t", value: "5", nonUniqueName: true},
			b:      Argument{name: "t", value: "6", nonUniqueName: true},
			assert: assert.False,
		},
		{
			name:   "same non-unique name and value",
			a:      Argument{name: "t", value: "5", nonUniqueName: true},
			b:      Argument{name: "t", value: "5", nonUniqueName: true},
			assert: assert.True,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.assert(t, tt.a.Equal(tt.b), "a")
			tt.assert(t, tt.b.Equal(tt.a), "b")
		})
	}
}

func TestArgument_String(t *testing.T) {
	assert.Equal(t, "-display none", UniqueArg("display", "none").String())
	assert.Equal(t, "-no-reboot", UniqueArg("no-reboot").String())
	assert.Equal(t, "-drive format=raw,file=a",
		RepeatableArg("drive", "format=raw", "file=a").String())
}

func TestArgument_UniqueName(t *testing.T) {
	assert.True(t, UniqueArg("t").UniqueName())
	assert.False(t, RepeatableArg("t").UniqueName())
}
