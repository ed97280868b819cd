// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fileutil

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// WriteFileAtomic writes data to path. It writes to a temporary file next to
// path and then moves it into place, so readers never observe a partially
// written file.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	defer func() {
		f.Close()
		if err == nil {
			err = os.Rename(tmp, path)
		}
		if err != nil {
			os.Remove(tmp)
		}
	}()

	if _, err = f.Write(data); err != nil {
		return err
	}
	return f.Sync()
}

// SameContent reports whether the file at path holds exactly data. A missing
// file is reported as different.
func SameContent(path string, data []byte) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	fileHash := sha256.New()
	if _, err := io.Copy(fileHash, f); err != nil {
		return false, fmt.Errorf("failed to hash file: %w", err)
	}
	dataHash := sha256.Sum256(data)
	return bytes.Equal(fileHash.Sum(nil), dataHash[:]), nil
}
