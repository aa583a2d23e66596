// Copyright (c) 2026, The Dockwin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package errors provides a small set of error handling helpers
// on top of the standard library errors package, centered on
// logging errors through [slog] at the point where they are
// handled rather than silently dropping them.
package errors

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
)

// CallerInfo returns string information about the caller of the
// function that called CallerInfo, for error logging.
func CallerInfo() string {
	pc, file, line, ok := runtime.Caller(2)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%s:%d (%s)", file, line, runtime.FuncForPC(pc).Name())
}

// Log takes the given error and logs it if it is non-nil,
// returning it either way. Use it when you both handle an
// error locally and want it visible in the log.
func Log(err error) error {
	if err != nil {
		slog.Error(err.Error(), "from", CallerInfo())
	}
	return err
}

// Log1 takes the given value and error and logs the error if it
// is non-nil, returning the value either way. It is useful for
// wrapping single-value-and-error function calls.
func Log1[T any](v T, err error) T {
	if err != nil {
		slog.Error(err.Error(), "from", CallerInfo())
	}
	return v
}

// Ignore1 returns the value, ignoring any error. Use only where
// the error is genuinely impossible or irrelevant.
func Ignore1[T any](v T, err error) T {
	return v
}

// New returns an error with the given text, per [errors.New].
func New(text string) error {
	return errors.New(text)
}

// Wrap returns an error wrapping the given error with the given
// message, using the %w verb. A nil error returns nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf is [Wrap] with formatting arguments for the message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's tree matches target,
// per [errors.Is].
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// Join wraps [errors.Join].
func Join(errs ...error) error {
	return errors.Join(errs...)
}
