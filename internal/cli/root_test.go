package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"periscope-sol/internal/cache"
	"periscope-sol/internal/consts"
	"periscope-sol/internal/idl"
	"periscope-sol/internal/idlerr"
	"periscope-sol/internal/logic/fetcher"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testProgram = "JUP6LkbZbjS1jKKwapdHNy74zcZ3tLUZoi5QNyVTaV4"
	testIdl     = `{
  "name": "counter",
  "version": "0.1.0",
  "metadata": {"address": "JUP6LkbZbjS1jKKwapdHNy74zcZ3tLUZoi5QNyVTaV4"},
  "instructions": [
    {"name": "increment", "accounts": [{"name": "counter", "isMut": true, "isSigner": false}], "args": [{"name": "by", "type": "u64"}]}
  ],
  "errors": [{"code": 6000, "name": "Overflow", "msg": "Counter overflowed"}]
}`
)

// fakeRetriever 记录每次调用的 RPC 地址与来源
type fakeRetriever struct {
	mu      sync.Mutex
	rpcURLs []string
	sources []fetcher.Source
	err     error
}

func (f *fakeRetriever) factory(rpcURL string) cache.Retriever {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rpcURLs = append(f.rpcURLs, rpcURL)
	return f
}

func (f *fakeRetriever) Retrieve(_ context.Context, src fetcher.Source) (*idl.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sources = append(f.sources, src)
	if f.err != nil {
		return nil, f.err
	}
	return idl.Parse([]byte(testIdl))
}

func newTestEnv(t *testing.T, f *fakeRetriever) *Env {
	t.Helper()
	t.Setenv("PERISCOPE_RPC_URL", "")
	os.Unsetenv("PERISCOPE_RPC_URL")
	return &Env{
		ConfigPath: filepath.Join(t.TempDir(), "periscope", "config.yaml"),
		Cache:      cache.NewMemoryIdlCache(),
		NewFetcher: f.factory,
	}
}

func run(env *Env, args ...string) (code int, stdout, stderr string) {
	var out, errOut bytes.Buffer
	cmd := NewRootCmd(env)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	code = Execute(context.Background(), cmd, &errOut, false)
	return code, out.String(), errOut.String()
}

func TestInspect(t *testing.T) {
	f := &fakeRetriever{}
	env := newTestEnv(t, f)

	code, out, errOut := run(env, "inspect", testProgram)
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "Program: counter")
	assert.Contains(t, out, "Spec: legacy")
	assert.Contains(t, out, "1 Instructions, 0 Accounts, 0 Types, 0 Events, 1 Errors")
	assert.Equal(t, []string{consts.DefaultRpcURL}, f.rpcURLs)
}

func TestInspect_UsesCache(t *testing.T) {
	f := &fakeRetriever{}
	env := newTestEnv(t, f)

	for i := 0; i < 2; i++ {
		code, _, errOut := run(env, "inspect", testProgram)
		require.Equal(t, 0, code, errOut)
	}
	assert.Len(t, f.sources, 1)

	code, _, errOut := run(env, "--refresh", "inspect", testProgram)
	require.Equal(t, 0, code, errOut)
	assert.Len(t, f.sources, 2)
}

func TestInstructions(t *testing.T) {
	env := newTestEnv(t, &fakeRetriever{})
	code, out, _ := run(env, "instructions", testProgram)
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Instructions for counter (1 total)")
	assert.Contains(t, out, "increment")
}

func TestInstruction(t *testing.T) {
	env := newTestEnv(t, &fakeRetriever{})

	code, out, _ := run(env, "instruction", testProgram, "Increment")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Instruction: increment")
	assert.Contains(t, out, "[writable]")
	assert.Contains(t, out, "u64")

	code, out, errOut := run(env, "instruction", testProgram, "decrement")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "Instruction 'decrement' not found")
	assert.Contains(t, out, "- increment")
	assert.Empty(t, errOut)
}

func TestErrorsCommand(t *testing.T) {
	env := newTestEnv(t, &fakeRetriever{})
	code, out, _ := run(env, "errors", testProgram)
	require.Equal(t, 0, code)
	assert.Contains(t, out, "6000")
	assert.Contains(t, out, "Counter overflowed")
}

func TestRetrieveError(t *testing.T) {
	f := &fakeRetriever{err: idlerr.AccountNotFound(testProgram)}
	env := newTestEnv(t, f)

	code, out, errOut := run(env, "inspect", testProgram)
	assert.Equal(t, 1, code)
	assert.Empty(t, out)
	assert.Equal(t, "Error: program "+testProgram+" does not have an IDL account\n", errOut)
}

func TestInvalidProgram(t *testing.T) {
	f := &fakeRetriever{}
	env := newTestEnv(t, f)

	code, _, errOut := run(env, "inspect", "not-base58!")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "invalid program address")
	assert.Empty(t, f.sources)
}

func TestIdlFlagSelectsSource(t *testing.T) {
	f := &fakeRetriever{}
	env := newTestEnv(t, f)

	code, _, _ := run(env, "--idl", "./target/idl/counter.json", "inspect", testProgram)
	require.Equal(t, 0, code)
	code, _, _ = run(env, "--idl", "https://github.com/acme/counter/blob/main/idl.json", "inspect", testProgram)
	require.Equal(t, 0, code)

	require.Len(t, f.sources, 2)
	assert.Equal(t, fetcher.LocalFile("./target/idl/counter.json"), f.sources[0])
	assert.Equal(t, fetcher.RemoteURL("https://raw.githubusercontent.com/acme/counter/main/idl.json"), f.sources[1])
}

func TestRpcURLPrecedence(t *testing.T) {
	f := &fakeRetriever{}
	env := newTestEnv(t, f)

	code, _, errOut := run(env, "config", "set", "--url", "https://file.example.com")
	require.Equal(t, 0, code, errOut)

	t.Setenv("PERISCOPE_RPC_URL", "https://env.example.com")
	code, _, _ = run(env, "--refresh", "inspect", testProgram)
	require.Equal(t, 0, code)

	code, _, _ = run(env, "--refresh", "--url", "https://flag.example.com", "inspect", testProgram)
	require.Equal(t, 0, code)

	os.Unsetenv("PERISCOPE_RPC_URL")
	code, _, _ = run(env, "--refresh", "inspect", testProgram)
	require.Equal(t, 0, code)

	assert.Equal(t, []string{
		"https://env.example.com",
		"https://flag.example.com",
		"https://file.example.com",
	}, f.rpcURLs)
}

func TestConfigSetAndShow(t *testing.T) {
	env := newTestEnv(t, &fakeRetriever{})

	code, out, _ := run(env, "config", "show")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "not found, using defaults")
	assert.Contains(t, out, "rpc_url: "+consts.DefaultRpcURL)

	code, out, _ = run(env, "config", "set", "--url", "http://127.0.0.1:8899")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "saved rpc_url=http://127.0.0.1:8899")

	code, out, _ = run(env, "config", "show")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "(loaded)")
	assert.Contains(t, out, "rpc_url: http://127.0.0.1:8899")
}

func TestConfigSet_Invalid(t *testing.T) {
	env := newTestEnv(t, &fakeRetriever{})

	code, _, errOut := run(env, "config", "set", "--url", "ftp://nope")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "RPC URL must start with http:// or https://")
	assert.NoFileExists(t, env.ConfigPath)

	code, _, errOut = run(env, "config", "set")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "nothing to set")
}

func TestInvalidRpcURLRejected(t *testing.T) {
	f := &fakeRetriever{}
	env := newTestEnv(t, f)

	code, _, errOut := run(env, "--url", "localhost:8899", "inspect", testProgram)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "config error")
	assert.Empty(t, f.rpcURLs)
}
