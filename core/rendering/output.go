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

package rendering

import (
	"errors"
	"io"
	"os"
	"strings"
	"syscall"
)

// Writer passes writes through until the reader goes away. After a broken
// pipe every write succeeds without output.
type Writer struct {
	w      io.Writer
	broken bool
}

// NewWriter wraps w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

func (w *Writer) Write(p []byte) (int, error) {
	if w.broken {
		return len(p), nil
	}
	n, err := w.w.Write(p)
	if isBrokenPipe(err) {
		w.broken = true
		return len(p), nil
	}
	return n, err
}

// Broken reports whether the reader has gone away.
func (w *Writer) Broken() bool {
	return w.broken
}

func isBrokenPipe(err error) bool {
	return errors.Is(err, syscall.EPIPE) || errors.Is(err, io.ErrClosedPipe)
}

// Capabilities describe the terminal the output goes to. They are computed
// once at startup.
type Capabilities struct {
	// UTF8 is set when the locale can show block characters.
	UTF8 bool
	// Terminal is set when stdout is a character device.
	Terminal bool
}

// Detect inspects the locale variables and stdout.
func Detect(getenv func(string) string, stdout *os.File) Capabilities {
	var c Capabilities
	for _, key := range []string{"LC_ALL", "LC_CTYPE", "LANG"} {
		if v := getenv(key); v != "" {
			v = strings.ToLower(v)
			c.UTF8 = strings.Contains(v, "utf-8") || strings.Contains(v, "utf8")
			break
		}
	}
	if stdout != nil {
		if fi, err := stdout.Stat(); err == nil {
			c.Terminal = fi.Mode()&os.ModeCharDevice != 0
		}
	}
	return c
}

// BarChar is the character histogram and share bars are drawn with: a block
// on a UTF-8 terminal, "o" otherwise.
func (c Capabilities) BarChar() string {
	if c.UTF8 && c.Terminal {
		return "█"
	}
	return "o"
}
