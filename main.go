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

// Command da tabulates, groups, pivots and transforms delimiter-separated
// text read from stdin or a file.
//
// Usage:
//
//	da [action] [flags]
//
// Actions: table (default), transpose, filter, sort, summary, transform,
// hist, pivot, group, topn, corr. Run "da <action> -h" for its flags.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/abhi-bops/da/core/config"
	"github.com/abhi-bops/da/core/csvimport"
	"github.com/abhi-bops/da/core/errs"
	"github.com/abhi-bops/da/core/query"
	"github.com/abhi-bops/da/core/rendering"
	"github.com/abhi-bops/da/core/tables"
)

// Exit codes.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	// Writes to a closed stdout return EPIPE instead of killing the process.
	signal.Ignore(syscall.SIGPIPE)
	caps := rendering.Detect(os.Getenv, os.Stdout)
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr, caps))
}

// command is one action. Flags registers its options; Fields validates them
// and returns the input fields to read before any input is consumed; Run
// computes and writes the result.
type command interface {
	Flags(fs *flag.FlagSet, cfg *config.Config)
	Fields(selected []int) ([]int, error)
	Run(dt *tables.DataTable, out *output) error
}

var commands = map[string]func() command{
	"table":     func() command { return &tableCmd{} },
	"transpose": func() command { return &transposeCmd{} },
	"filter":    func() command { return &filterCmd{} },
	"sort":      func() command { return &sortCmd{} },
	"summary":   func() command { return &summaryCmd{} },
	"corr":      func() command { return &corrCmd{} },
	"transform": func() command { return &transformCmd{} },
	"hist":      func() command { return &histCmd{} },
	"pivot":     func() command { return &pivotCmd{} },
	"group":     func() command { return &groupCmd{} },
	"topn":      func() command { return &topnCmd{} },
}

// common holds the input and output flags every action accepts.
type common struct {
	fields     string
	delim      string
	heading    string
	h1         bool
	skipRows   int
	input      string
	quoted     bool
	missing    string
	pipe       bool
	pipeWith   string
	toCSV      bool
	noHeading  bool
	fast       bool
	cellWidth  int
	html       bool
	xlsx       string
	repeatHead int
}

func (c *common) register(fs *flag.FlagSet, cfg *config.Config) {
	for _, name := range []string{"f", "fields"} {
		fs.StringVar(&c.fields, name, "", "input fields to read, e.g. 0-2,4 (default all)")
	}
	for _, name := range []string{"d", "delim"} {
		fs.StringVar(&c.delim, name, cfg.Delimiter, "input field delimiter; empty splits on runs of whitespace")
	}
	fs.StringVar(&c.heading, "heading", "", "comma separated heading to use")
	fs.BoolVar(&c.h1, "h1", false, "the first line is a heading")
	fs.IntVar(&c.skipRows, "skip-rows", 0, "skip `N` leading lines")
	fs.StringVar(&c.input, "input", "-", "input `file`; - is stdin, .zst files are decompressed")
	fs.BoolVar(&c.quoted, "quoted", false, "parse quoted CSV fields")
	fs.StringVar(&c.missing, "missing", cfg.MissingChar, "placeholder for missing values")
	fs.BoolVar(&c.pipe, "pipe", false, "write rows joined by a space")
	fs.StringVar(&c.pipeWith, "pipewith", "", "write rows joined by `delimiter`")
	fs.BoolVar(&c.toCSV, "tocsv", false, "write CSV")
	fs.BoolVar(&c.noHeading, "noheading", false, "do not write the heading")
	fs.BoolVar(&c.fast, "fast", false, "write a fixed-width table without measuring cells")
	fs.IntVar(&c.cellWidth, "width", cfg.FastCellWidth, "cell width for -fast")
	fs.BoolVar(&c.html, "html", false, "write an HTML table")
	fs.StringVar(&c.xlsx, "xlsx", "", "write a spreadsheet to `file`")
	fs.IntVar(&c.repeatHead, "repeat-heading", cfg.RepeatHeading, "repeat the heading every `N` rows; 0 never")
}

func (c *common) renderOptions() rendering.Options {
	o := rendering.Options{
		Format:        rendering.FormatASCII,
		NoHeading:     c.noHeading,
		RepeatHeading: c.repeatHead,
		CellWidth:     c.cellWidth,
	}
	switch {
	case c.html:
		o.Format = rendering.FormatHTML
	case c.toCSV:
		o.Format = rendering.FormatCSV
	case c.pipeWith != "":
		o.Format, o.Delimiter = rendering.FormatPipe, c.pipeWith
	case c.pipe:
		o.Format, o.Delimiter = rendering.FormatPipe, " "
	case c.fast:
		o.Format = rendering.FormatFast
	}
	return o
}

func usage(w io.Writer) {
	names := make([]string, 0, len(commands))
	for n := range commands {
		names = append(names, n)
	}
	sort.Strings(names)
	fmt.Fprintf(w, "usage: da [action] [flags]\n\nactions: %s\n", strings.Join(names, ", "))
}

// run executes one invocation and returns the process exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer, caps rendering.Capabilities) int {
	action := "table"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		action, args = args[0], args[1:]
	}
	newCmd, ok := commands[action]
	if !ok {
		fmt.Fprintf(stderr, "da: unknown action %q\n", action)
		usage(stderr)
		return exitUsage
	}

	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(stderr, "da: %v\n", err)
		return exitUsage
	}
	logger := cfg.NewLogger(stderr)
	slog.SetDefault(logger)

	cmd := newCmd()
	var c common
	fs := flag.NewFlagSet("da "+action, flag.ContinueOnError)
	fs.SetOutput(stderr)
	c.register(fs, cfg)
	cmd.Flags(fs, cfg)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "da: unexpected arguments %q\n", fs.Args())
		return exitUsage
	}

	if err := execute(cmd, &c, cfg, stdin, stdout, action, caps); err != nil {
		fmt.Fprintf(stderr, "da: %v\n", err)
		if errs.Is(err, errs.KindParse) {
			return exitUsage
		}
		return exitError
	}
	return exitOK
}

func execute(cmd command, c *common, cfg *config.Config, stdin io.Reader, stdout io.Writer, action string, caps rendering.Capabilities) error {
	selected, err := query.ParseFields(c.fields)
	if err != nil {
		return err
	}
	if len(selected) == 0 {
		selected = nil
	}
	fields, err := cmd.Fields(selected)
	if err != nil {
		return err
	}

	in, err := csvimport.Open(c.input, stdin)
	if err != nil {
		return err
	}
	defer in.Close()
	records, err := csvimport.ReadRecords(in, csvimport.SourceOptions{
		Delimiter: c.delim,
		SkipRows:  c.skipRows,
		Quoted:    c.quoted,
	})
	if err != nil {
		return err
	}
	dt := csvimport.Ingest(records, csvimport.Options{
		Fields:           fields,
		Heading:          query.ParseHeading(c.heading),
		FirstLineHeading: c.h1,
		MissingChar:      c.missing,
	})
	slog.Debug("ingested input",
		slog.String("action", action),
		slog.Int("rows", dt.Len()),
		slog.Int("columns", dt.Width()))

	out := newOutput(stdout, action, c.renderOptions(), c.xlsx, caps, cfg)
	if err := cmd.Run(dt, out); err != nil {
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	if out.Broken() {
		slog.Debug("output closed early", slog.String("action", action))
	}
	return nil
}
