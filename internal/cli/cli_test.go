package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args []string) (stdout []byte, stderr []byte, err error) {
	t.Helper()

	cmd := NewRootCmd()

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)

	e := cmd.Execute()
	return outBuf.Bytes(), errBuf.Bytes(), e
}

// testEnv points every command at a throwaway database and secret file.
func testEnv(t *testing.T) []string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("TODO_SECRET_KEY_FILE", filepath.Join(dir, "secret.key"))
	t.Setenv("TODO_CONFIG", "")
	t.Setenv("TODO_USERNAME", "")
	t.Setenv("TODO_PASSWORD", "")
	return []string{"--db", filepath.Join(dir, "todo.sqlite"), "--log-level", "error"}
}

func mustData(t *testing.T, base []string, args ...string) any {
	t.Helper()
	full := append(append([]string{}, base...), args...)
	stdout, stderr, err := runCLI(t, full)
	require.NoError(t, err, "todo %v\nstderr:\n%s", full, stderr)

	var env map[string]any
	require.NoError(t, json.Unmarshal(stdout, &env), "stdout:\n%s", stdout)
	data, ok := env["data"]
	require.True(t, ok, "expected data envelope, got %v", env)
	return data
}

func TestAccounts_CreateAndList(t *testing.T) {
	base := testEnv(t)

	created := mustData(t, base, "accounts", "create", "alice", "pw1").(map[string]any)
	assert.Equal(t, "alice", created["username"])
	assert.NotContains(t, created, "password")

	_, stderr, err := runCLI(t, append(append([]string{}, base...), "accounts", "create", "alice", "pw2"))
	require.Error(t, err)
	assert.Contains(t, string(stderr), "username already exists")

	list := mustData(t, base, "accounts", "list").([]any)
	require.Len(t, list, 1)
	assert.Equal(t, "alice", list[0].(map[string]any)["username"])
}

func TestTasks_Lifecycle(t *testing.T) {
	base := testEnv(t)
	mustData(t, base, "accounts", "create", "alice", "pw1")
	mustData(t, base, "accounts", "create", "bob", "pw2")
	alice := append(append([]string{}, base...), "tasks")
	creds := []string{"--username", "alice", "--password", "pw1"}

	added := mustData(t, alice, append([]string{"add"}, append(creds, "buy", "milk")...)...).(map[string]any)
	assert.Equal(t, "buy milk", added["content"])
	id := jsonID(added)

	edited := mustData(t, alice, append([]string{"edit"}, append(creds, id, "buy oat milk")...)...).(map[string]any)
	assert.Equal(t, "buy oat milk", edited["content"])

	list := mustData(t, alice, append([]string{"list"}, creds...)...).([]any)
	require.Len(t, list, 1)

	// bob can neither see nor touch alice's task.
	bobList := mustData(t, alice, "list", "--username", "bob", "--password", "pw2").([]any)
	assert.Empty(t, bobList)
	_, _, err := runCLI(t, append(append([]string{}, alice...), "rm", "--username", "bob", "--password", "pw2", id))
	require.Error(t, err)

	mustData(t, alice, append([]string{"rm"}, append(creds, id)...)...)
	list = mustData(t, alice, append([]string{"list"}, creds...)...).([]any)
	assert.Empty(t, list)
}

func TestTasks_RejectsBadCredentials(t *testing.T) {
	base := testEnv(t)
	mustData(t, base, "accounts", "create", "alice", "pw1")

	_, stderr, err := runCLI(t, append(append([]string{}, base...), "tasks", "list", "--username", "alice", "--password", "nope"))
	require.Error(t, err)
	assert.Contains(t, string(stderr), "invalid username or password")
}

func TestTasks_RejectsEmptyContent(t *testing.T) {
	base := testEnv(t)
	mustData(t, base, "accounts", "create", "alice", "pw1")

	_, stderr, err := runCLI(t, append(append([]string{}, base...), "tasks", "add", "--username", "alice", "--password", "pw1", ""))
	require.Error(t, err)
	assert.Contains(t, string(stderr), "task content is required")
}

func TestTasks_InvalidID(t *testing.T) {
	base := testEnv(t)
	_, stderr, err := runCLI(t, append(append([]string{}, base...), "tasks", "rm", "--username", "alice", "--password", "pw1", "abc"))
	require.Error(t, err)
	assert.Contains(t, string(stderr), `invalid task id "abc"`)
}

func TestConfigFlagPrecedence(t *testing.T) {
	base := testEnv(t)
	cfgPath := filepath.Join(t.TempDir(), "todo.yaml")
	writeFile(t, cfgPath, "db: "+filepath.Join(t.TempDir(), "from-file.sqlite")+"\n")

	// --db wins over the file, so the account lands in the flag's database.
	mustData(t, append([]string{"--config", cfgPath}, base...), "accounts", "create", "alice", "pw1")
	list := mustData(t, base, "accounts", "list").([]any)
	assert.Len(t, list, 1)
}

func TestPrettyOutput(t *testing.T) {
	base := testEnv(t)
	stdout, _, err := runCLI(t, append(append([]string{}, base...), "--pretty", "accounts", "list"))
	require.NoError(t, err)
	assert.Contains(t, string(stdout), "{\n  \"data\"")
}

func jsonID(m map[string]any) string {
	b, _ := json.Marshal(m["id"])
	return string(b)
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestDocs(t *testing.T) {
	base := testEnv(t)

	data := mustData(t, base, "docs").(map[string]any)
	topics := data["topics"].([]any)
	require.NotEmpty(t, topics)
	assert.Equal(t, map[string]any{"name": "api", "title": "JSON API"}, topics[0])

	stdout, _, err := runCLI(t, append(append([]string{}, base...), "docs", "api", "--raw"))
	require.NoError(t, err)
	assert.Contains(t, string(stdout), "/api/tasks")

	_, _, err = runCLI(t, append(append([]string{}, base...), "docs", "nope"))
	require.Error(t, err)
}
