// Copyright 2025, the CruiseTracker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"bufio"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var wantHeader = []string{
	"// Copyright 2025, the CruiseTracker contributors",
	"// SPDX-License-Identifier: AGPL-3.0-only",
}

// TestSourceHeaders checks every Go file starts with the project's copyright
// and license lines.
func TestSourceHeaders(t *testing.T) {
	t.Parallel()

	var files []string

	err := filepath.WalkDir(".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		name := d.Name()
		if d.IsDir() && path != "." && (strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".") || name == "testdata") {
			return filepath.SkipDir
		}

		if !d.IsDir() && strings.HasSuffix(name, ".go") {
			files = append(files, path)
		}

		return nil
	})
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, path := range files {
		t.Run(path, func(t *testing.T) {
			t.Parallel()

			f, err := os.Open(path)
			require.NoError(t, err)
			defer f.Close()

			var got []string

			scanner := bufio.NewScanner(f)
			for len(got) < len(wantHeader) && scanner.Scan() {
				got = append(got, scanner.Text())
			}

			require.NoError(t, scanner.Err())
			assert.Equal(t, wantHeader, got)
		})
	}
}
