// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmdutil

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Pause prints msg and blocks until a line is read from r. Reaching the end
// of r counts as a line.
func Pause(r io.Reader, w io.Writer, msg string) error {
	fmt.Fprint(w, msg)
	if _, err := bufio.NewReader(r).ReadString('\n'); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to read input: %w", err)
	}
	return nil
}

// Confirm asks a yes/no question and reports whether the answer was "y".
func Confirm(r io.Reader, w io.Writer, msg string) (bool, error) {
	fmt.Fprintf(w, "%s [y/N]: ", msg)

	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}
	return strings.EqualFold(strings.TrimSpace(line), "y"), nil
}
