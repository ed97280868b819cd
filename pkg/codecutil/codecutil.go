// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package codecutil

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// ZstdExt is the file extension that selects zstd framing.
const ZstdExt = ".zst"

// IsZstdPath reports whether path names a zstd-compressed file.
func IsZstdPath(path string) bool {
	return strings.HasSuffix(path, ZstdExt)
}

// ZstdCompress compresses src into dst.
func ZstdCompress(dst io.Writer, src io.Reader) error {
	encoder, err := zstd.NewWriter(dst)
	if err != nil {
		return fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	if _, err := io.Copy(encoder, src); err != nil {
		encoder.Close()
		return fmt.Errorf("failed to compress: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("failed to flush zstd encoder: %w", err)
	}
	return nil
}

// ZstdDecompress decompresses src into dst.
func ZstdDecompress(dst io.Writer, src io.Reader) error {
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	defer decoder.Close()

	if err := decoder.Reset(src); err != nil {
		return fmt.Errorf("failed to reset decoder: %w", err)
	}
	if _, err := decoder.WriteTo(dst); err != nil {
		return fmt.Errorf("failed to decompress: %w", err)
	}
	return nil
}

// ZstdEncode returns data compressed with zstd.
func ZstdEncode(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := ZstdCompress(&buf, bytes.NewReader(data)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ZstdDecode returns the decompressed form of data.
func ZstdDecode(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := ZstdDecompress(&buf, bytes.NewReader(data)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
