// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/pgdrift/pgdrift/internal/log"
)

// Capture is one snapshot file found in a directory source, newest first in
// any listing returned by this package.
type Capture struct {
	Path    string
	ModTime time.Time
	Size    int64
}

// SourceFile reads snapshot documents from the local filesystem. The path
// may be a single .json file or a directory of timestamped captures; for a
// directory, Selector picks the N-th newest capture (0 = newest).
type SourceFile struct {
	Ctx      context.Context
	Path     string
	Selector int
}

// Snapshot returns the bytes of the resolved snapshot file.
func (s *SourceFile) Snapshot(ctx context.Context) ([]byte, error) {
	path, err := s.resolve()
	if err != nil {
		return nil, err
	}

	log.Debugf("reading snapshot file: path=%s", path)
	return os.ReadFile(path)
}

func (s *SourceFile) String() string {
	if s.Selector > 0 {
		return fmt.Sprintf("%s~%d", s.Path, s.Selector)
	}
	return s.Path
}

// Captures lists the *.json snapshot files of a directory source, newest
// modification time first.
func (s *SourceFile) Captures() ([]Capture, error) {
	return ListCaptures(s.Path)
}

// resolve maps the configured path and selector to one concrete file.
func (s *SourceFile) resolve() (string, error) {
	info, err := os.Stat(s.Path)
	if err != nil {
		return "", err
	}

	if !info.IsDir() {
		if s.Selector > 0 {
			return "", fmt.Errorf("selector ~%d is only valid on a directory source: %s", s.Selector, s.Path)
		}
		return s.Path, nil
	}

	captures, err := ListCaptures(s.Path)
	if err != nil {
		return "", err
	}
	if len(captures) == 0 {
		return "", fmt.Errorf("no snapshot files found in %s", s.Path)
	}
	if s.Selector > len(captures)-1 {
		return "", fmt.Errorf("selector ~%d out of range for %d captures in %s",
			s.Selector, len(captures), s.Path)
	}

	return captures[s.Selector].Path, nil
}

// ListCaptures globs a directory for *.json snapshot files and returns them
// sorted by modification time, newest first.
func ListCaptures(dir string) ([]Capture, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, err
	}

	var captures []Capture
	for _, f := range files {
		stat, err := os.Stat(f)
		if err != nil {
			continue
		}
		captures = append(captures, Capture{
			Path:    f,
			ModTime: stat.ModTime(),
			Size:    stat.Size(),
		})
	}

	sort.Slice(captures, func(i, j int) bool {
		return captures[i].ModTime.After(captures[j].ModTime)
	})

	return captures, nil
}
