// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import "errors"

var (
	// ErrInvalid is returned if the config is not valid.
	ErrInvalid = errors.New("invalid config")

	// ErrDecode is returned if the config file can not be decoded.
	ErrDecode = errors.New("decode config")
)
