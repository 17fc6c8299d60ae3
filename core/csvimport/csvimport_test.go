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
	"bytes"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"

	"github.com/abhi-bops/da/core/errs"
)

func TestReadRecords(t *testing.T) {
	input := "skip me\n  a b  c \n\nd e\n"
	got, err := ReadRecords(strings.NewReader(input), SourceOptions{Delimiter: " ", SkipRows: 1})
	if err != nil {
		t.Fatalf("ReadRecords() error: %v", err)
	}
	want := [][]string{{"a", "b", "", "c"}, {""}, {"d", "e"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestReadRecordsWhitespace(t *testing.T) {
	got, err := ReadRecords(strings.NewReader("a   b\tc\n"), SourceOptions{})
	if err != nil {
		t.Fatalf("ReadRecords() error: %v", err)
	}
	if want := [][]string{{"a", "b", "c"}}; !reflect.DeepEqual(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestReadRecordsQuoted(t *testing.T) {
	input := "h1,h2\n\"x, y\",2\n"
	got, err := ReadRecords(strings.NewReader(input), SourceOptions{Delimiter: ",", Quoted: true, SkipRows: 1})
	if err != nil {
		t.Fatalf("ReadRecords() error: %v", err)
	}
	if want := [][]string{{"x, y", "2"}}; !reflect.DeepEqual(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
	if _, err := ReadRecords(strings.NewReader(input), SourceOptions{Delimiter: "::", Quoted: true}); !errs.Is(err, errs.KindParse) {
		t.Errorf("expected parse error for multi-character delimiter, got %v", err)
	}
}

func TestOpenZstd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.txt.zst")
	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := enc.Write([]byte("1 2\n3 4\n")); err != nil {
		t.Fatal(err)
	}
	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	rc, err := Open(path, nil)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read error: %v", err)
	}
	if string(data) != "1 2\n3 4\n" {
		t.Errorf("got %q", data)
	}
}

func TestOpenMissing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope"), nil)
	if !errs.Is(err, errs.KindUnavailable) {
		t.Errorf("expected unavailable error, got %v", err)
	}
}

func TestIngestRowWidth(t *testing.T) {
	records := [][]string{{"a", "1"}, {"b"}, {"c", "3", "x", "y"}}
	dt := Ingest(records, Options{MissingChar: "-"})
	if dt.Width() != 4 {
		t.Fatalf("width = %d, want 4", dt.Width())
	}
	if want := []string{"col0", "col1", "col2", "col3"}; !reflect.DeepEqual(dt.Heading(), want) {
		t.Errorf("heading = %v, want %v", dt.Heading(), want)
	}
	for i, row := range dt.Rows() {
		if len(row) != len(dt.Heading()) {
			t.Errorf("row %d width %d", i, len(row))
		}
	}
	if got := dt.Rows()[1]; !reflect.DeepEqual(got, []string{"b", "-", "-", "-"}) {
		t.Errorf("row 1 = %v", got)
	}
}

func TestIngestProjection(t *testing.T) {
	records := [][]string{
		{"k", "v", "w"},
		{"a", " 1 ", "x"},
		{"b"},
		{"", "", ""},
		{"c", "", "z"},
	}
	dt := Ingest(records, Options{Fields: []int{2, 0, 5}, MissingChar: "-"})
	if want := []string{"col2", "col0", "col5"}; !reflect.DeepEqual(dt.Heading(), want) {
		t.Errorf("heading = %v, want %v", dt.Heading(), want)
	}
	want := [][]string{
		{"w", "k", "-"},
		{"x", "a", "-"},
		{"-", "b", "-"},
		{"-", "-", "-"},
		{"z", "c", "-"},
	}
	if !reflect.DeepEqual(dt.Rows(), want) {
		t.Errorf("rows = %v, want %v", dt.Rows(), want)
	}
	if col, ok := dt.ColumnIndex(0); !ok || col != 1 {
		t.Errorf("ColumnIndex(0) = %d, %v; want 1, true", col, ok)
	}
}

func TestIngestDropsOnlyEmptyLines(t *testing.T) {
	records := [][]string{{"a", "1"}, {"b"}, {""}, {}, {"c", "3"}}
	dt := Ingest(records, Options{Fields: []int{1}, MissingChar: "-"})
	want := [][]string{{"1"}, {"-"}, {"3"}}
	if !reflect.DeepEqual(dt.Rows(), want) {
		t.Errorf("rows = %v, want %v", dt.Rows(), want)
	}
}

func TestIngestHeadingResolution(t *testing.T) {
	records := [][]string{{"name", "qty"}, {"a", "1", "extra"}}

	dt := Ingest(records, Options{FirstLineHeading: true, Heading: []string{"ignored"}, MissingChar: "-"})
	if want := []string{"name", "qty", "col2"}; !reflect.DeepEqual(dt.Heading(), want) {
		t.Errorf("first-line heading = %v, want %v", dt.Heading(), want)
	}

	dt = Ingest(records, Options{Heading: []string{"x", "y", "z", "too", "many"}, MissingChar: "-"})
	if want := []string{"x", "y", "z"}; !reflect.DeepEqual(dt.Heading(), want) {
		t.Errorf("supplied heading = %v, want %v", dt.Heading(), want)
	}
	if dt.Len() != 2 {
		t.Errorf("rows = %d, want 2", dt.Len())
	}

	dt = Ingest(records, Options{FirstLineHeading: true, Fields: []int{1, 4}, MissingChar: "-"})
	if want := []string{"qty", "col4"}; !reflect.DeepEqual(dt.Heading(), want) {
		t.Errorf("projected heading = %v, want %v", dt.Heading(), want)
	}
}
