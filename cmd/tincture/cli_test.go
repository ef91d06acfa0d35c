package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iw2rmb/tincture"
)

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	chdirForTest(t, t.TempDir())
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeDoc(t *testing.T, markup string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.html")
	require.NoError(t, os.WriteFile(path, []byte(markup), 0o600))
	return path
}

func TestFmt_NormalizesStdin(t *testing.T) {
	out, _, err := run(t, "<p><b>a</b>  <i>b</i></p><script>x</script>", "fmt")
	require.NoError(t, err)
	assert.Equal(t, "<p><strong>a</strong>  <em>b</em></p>\n", out)
}

func TestFmt_Warnings(t *testing.T) {
	_, errOut, err := run(t, "<p>a</p><table><tr><td>x</td></tr></table>", "fmt", "--warnings")
	require.NoError(t, err)
	assert.Contains(t, errOut, "table")
}

func TestFmt_WriteInPlaceKeepsMode(t *testing.T) {
	path := writeDoc(t, "<h1>T</h1><p>x")
	_, _, err := run(t, "", "fmt", "-w", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<h1>T</h1><p>x</p>\n", string(data))
	fi, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), fi.Mode().Perm())

	_, _, err = run(t, "", "fmt", "-w")
	require.Error(t, err)
}

func TestApply_TextCommands(t *testing.T) {
	path := writeDoc(t, "<p>hello world</p>")
	out, _, err := run(t, "", "apply", path,
		"--select", "0:0-0:5",
		"--run", "toggleBold",
		"--run", "setGradient linear-gradient(90deg, #f00, #00f)")
	require.NoError(t, err)
	assert.Contains(t, out, "<strong>")
	assert.Contains(t, out, `data-gradient="linear-gradient(90deg, #f00, #00f)"`)
	assert.Contains(t, out, " world</p>")
}

func TestApply_ImageCommandsWrite(t *testing.T) {
	path := writeDoc(t, `<p>a<img src="cat.png">b</p>`)
	_, _, err := run(t, "", "apply", path, "--node", "0:1",
		"--run", "setImageWidth 320px", "--run", "setImageAlign left", "-w")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `width="320"`)
	assert.Contains(t, string(data), `data-align="left"`)
}

func TestApply_Errors(t *testing.T) {
	path := writeDoc(t, `<p>ab</p>`)

	_, _, err := run(t, "", "apply", path, "--node", "0:0", "--run", "setImageWidth 10")
	require.ErrorContains(t, err, "no image")

	_, _, err = run(t, "", "apply", path, "--select", "3:0")
	require.ErrorContains(t, err, "outside the document")

	_, _, err = run(t, "", "apply", path, "--run", "explode")
	require.ErrorContains(t, err, "unknown command")

	_, errOut, err := run(t, "", "apply", path, "--run", "setImageAlign left")
	require.NoError(t, err)
	assert.Contains(t, errOut, "setImageAlign: nothing to do")
}

func TestCommands_ListsRegistry(t *testing.T) {
	out, _, err := run(t, "", "commands")
	require.NoError(t, err)
	names := strings.Fields(out)
	assert.Contains(t, names, "toggleBold")
	assert.Contains(t, names, "setImageWidth")
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "", "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "tincture "+tincture.VersionTag()), out)
}

func TestConfig_ExplicitMissingFileFails(t *testing.T) {
	_, _, err := run(t, "", "--config", filepath.Join(t.TempDir(), "nope.yaml"), "commands")
	require.Error(t, err)
}

func TestConfig_SanitizeFromFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "tincture.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("editor:\n  sanitize: true\n"), 0o600))

	out, _, err := run(t, `<p><a href="javascript:alert(1)">x</a></p>`, "--config", cfgPath, "fmt")
	require.NoError(t, err)
	assert.NotContains(t, out, "javascript")
}

func TestFmt_Markdown(t *testing.T) {
	out, _, err := run(t, "# Title\n\nSome **bold** and ~~gone~~.\n", "fmt", "--from", "markdown")
	require.NoError(t, err)
	assert.Contains(t, out, "<h1>Title</h1>")
	assert.Contains(t, out, "<strong>bold</strong>")

	dir := t.TempDir()
	path := filepath.Join(dir, "notes.md")
	require.NoError(t, os.WriteFile(path, []byte("- one\n- two\n"), 0o600))
	out, _, err = run(t, "", "fmt", path)
	require.NoError(t, err)
	assert.Contains(t, out, "<ul><li><p>one</p></li>")

	_, _, err = run(t, "", "fmt", "--from", "rtf")
	require.ErrorContains(t, err, "unknown input format")
}

func TestInputFormat(t *testing.T) {
	tests := []struct {
		from string
		args []string
		want string
	}{
		{"", nil, formatHTML},
		{"", []string{"a.html"}, formatHTML},
		{"", []string{"a.MD"}, formatMarkdown},
		{"md", nil, formatMarkdown},
		{"html", []string{"a.md"}, formatHTML},
	}
	for _, tt := range tests {
		got, err := inputFormat(tt.from, tt.args)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "from=%q args=%v", tt.from, tt.args)
	}
}

// chdirForTest changes the working directory for the duration of the test and
// restores it on cleanup (stand-in for testing.T.Chdir, which needs Go 1.24).
func chdirForTest(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir %s: %v", dir, err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("restore cwd %s: %v", prev, err)
		}
	})
}
