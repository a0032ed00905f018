// Copyright 2026 The rinaproto Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package command_test

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rinaproto/rina/private/app/command"
	"github.com/rinaproto/rina/private/config"
)

func newRoot() *cobra.Command {
	root := &cobra.Command{Use: "normal", Short: "test root"}
	root.AddCommand(
		command.NewSample(root,
			command.NewSampleConfig(config.StringSampler{Text: "\nkey = 1\n", Name: "x"}),
		),
		command.NewVersion(root),
		command.NewGendocs(root),
	)
	return root
}

func execute(t *testing.T, args ...string) string {
	t.Helper()
	root := newRoot()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	require.NoError(t, root.Execute())
	return out.String()
}

func TestSampleConfig(t *testing.T) {
	assert.Equal(t, "\nkey = 1\n", execute(t, "sample", "config"))
}

func TestVersion(t *testing.T) {
	assert.Contains(t, execute(t, "version"), "Go version:")
}

func TestGendocs(t *testing.T) {
	dir := t.TempDir()
	execute(t, "gendocs", dir)
	for _, name := range []string{"normal.md", "normal_sample.md", "normal_sample_config.md",
		"normal_version.md"} {

		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}
	raw, err := os.ReadFile(filepath.Join(dir, "normal_version.md"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("# normal version")), string(raw))
}
