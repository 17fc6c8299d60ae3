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

package transform

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/abhi-bops/da/core/csvimport"
	"github.com/abhi-bops/da/core/errs"
)

// SideFile names a key-to-value lookup file: "filename,keyColumn,valueColumn".
// The columns default to 0 and 1.
type SideFile struct {
	Path       string
	Key, Value int
}

// ParseSideFile reads a side-file reference.
func ParseSideFile(s string) (SideFile, error) {
	parts := strings.Split(s, ",")
	sf := SideFile{Path: strings.TrimSpace(parts[0]), Key: 0, Value: 1}
	if sf.Path == "" {
		return SideFile{}, errs.Parse("sidefile", "no file name in %q", s)
	}
	if len(parts) > 3 {
		return SideFile{}, errs.Parse("sidefile", "too many columns in %q", s)
	}
	for i, dst := range []*int{&sf.Key, &sf.Value} {
		if len(parts) <= i+1 || strings.TrimSpace(parts[i+1]) == "" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(parts[i+1]))
		if err != nil || n < 0 {
			return SideFile{}, errs.Parse("sidefile", "bad column %q in %q", parts[i+1], s)
		}
		*dst = n
	}
	return sf, nil
}

// Load reads the file into a map. Lines are split by opts unless the file is
// a spreadsheet, in which case the first sheet is read. Lines too short to
// hold both columns are skipped and later duplicates replace earlier ones.
func (sf SideFile) Load(opts csvimport.SourceOptions) (map[string]string, error) {
	var records [][]string
	var err error
	if strings.HasSuffix(strings.ToLower(sf.Path), ".xlsx") {
		records, err = readSheet(sf.Path)
	} else {
		records, err = readLines(sf.Path, opts)
	}
	if err != nil {
		return nil, err
	}
	m := make(map[string]string, len(records))
	for _, rec := range records {
		if len(rec) <= sf.Key || len(rec) <= sf.Value {
			continue
		}
		m[strings.TrimSpace(rec[sf.Key])] = strings.TrimSpace(rec[sf.Value])
	}
	return m, nil
}

func readLines(path string, opts csvimport.SourceOptions) ([][]string, error) {
	r, err := csvimport.Open(path, nil)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	records, err := csvimport.ReadRecords(r, opts)
	if err != nil {
		return nil, errs.Unavailable("sidefile", fmt.Errorf("%s: %w", path, err))
	}
	return records, nil
}

func readSheet(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errs.Unavailable("sidefile", err)
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errs.Unavailable("sidefile", fmt.Errorf("%s: no sheets", path))
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errs.Unavailable("sidefile", fmt.Errorf("%s: %w", path, err))
	}
	return rows, nil
}
