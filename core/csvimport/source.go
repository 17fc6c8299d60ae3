/*
SPDX-License-Identifier: Apache-2.0

Copyright 2024 The Taxinomia Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    https://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package csvimport

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/klauspost/compress/zstd"

	"github.com/abhi-bops/da/core/errs"
)

// maxLineSize bounds a single input line.
const maxLineSize = 64 << 20

// Open opens a named input. "" and "-" read stdin; names ending in .zst are
// decompressed on the fly.
func Open(path string, stdin io.Reader) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.Unavailable("open", err)
	}
	if !strings.HasSuffix(path, ".zst") {
		return f, nil
	}
	dec, err := zstd.NewReader(f)
	if err != nil {
		f.Close()
		return nil, errs.Unavailable("open", fmt.Errorf("%s: %w", path, err))
	}
	return &zstdFile{Decoder: dec, file: f}, nil
}

type zstdFile struct {
	*zstd.Decoder
	file *os.File
}

func (z *zstdFile) Close() error {
	z.Decoder.Close()
	return z.file.Close()
}

// SourceOptions describes how lines are split into fields.
type SourceOptions struct {
	// Delimiter separates fields. Empty splits on runs of whitespace.
	Delimiter string
	// SkipRows discards that many leading lines, before any heading.
	SkipRows int
	// Quoted parses the input as CSV with quoting, using a single-character
	// delimiter.
	Quoted bool
}

// ReadRecords reads every line of r and splits it into fields. Each line is
// trimmed of surrounding whitespace before splitting.
func ReadRecords(r io.Reader, opts SourceOptions) ([][]string, error) {
	if opts.Quoted {
		return readQuoted(r, opts)
	}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var records [][]string
	for line := 0; sc.Scan(); line++ {
		if line < opts.SkipRows {
			continue
		}
		text := strings.TrimSpace(sc.Text())
		if opts.Delimiter == "" {
			records = append(records, strings.Fields(text))
		} else {
			records = append(records, strings.Split(text, opts.Delimiter))
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return records, nil
}

func readQuoted(r io.Reader, opts SourceOptions) ([][]string, error) {
	comma := ','
	if opts.Delimiter != "" {
		if utf8.RuneCountInString(opts.Delimiter) != 1 {
			return nil, errs.Parse("read", "quoted input needs a single-character delimiter, got %q", opts.Delimiter)
		}
		comma, _ = utf8.DecodeRuneInString(opts.Delimiter)
	}
	csvReader := csv.NewReader(r)
	csvReader.Comma = comma
	csvReader.FieldsPerRecord = -1
	csvReader.LazyQuotes = true
	csvReader.TrimLeadingSpace = true

	var records [][]string
	for line := 0; ; line++ {
		rec, err := csvReader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}
		if line < opts.SkipRows {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}
