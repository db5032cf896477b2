package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cybergodev/jwtlite"
)

const strongSecret = "Kx9#mP2$vL8@nQ5!wR7&tY3^uI6*oE4%aS1+dF0-gH9~"

type result struct {
	stdout string
	stderr string
	err    error
}

func run(t *testing.T, env map[string]string, stdin string, args ...string) result {
	t.Helper()

	getenv := func(key string) string { return env[key] }
	cmd := NewRootCommand(getenv)

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func TestSignVerifyRoundTrip(t *testing.T) {
	signed := run(t, nil, "", "sign", `{"userId":1}`, "--secret", strongSecret)
	require.NoError(t, signed.err, signed.stderr)
	token := strings.TrimSpace(signed.stdout)
	assert.Len(t, strings.Split(token, "."), 3)

	verified := run(t, nil, "", "verify", token, "--secret", strongSecret)
	require.NoError(t, verified.err, verified.stderr)
	assert.JSONEq(t, `{"userId":1}`, verified.stdout)
}

func TestSignMatchesLibrary(t *testing.T) {
	signed := run(t, nil, "", "sign", `{"userId":1}`, "--secret", "s3cret", "--no-expiry")
	require.NoError(t, signed.err)

	want, err := jwtlite.Sign(json.RawMessage(`{"userId":1}`), []byte("s3cret"))
	require.NoError(t, err)
	assert.Equal(t, want, strings.TrimSpace(signed.stdout))
}

func TestSignFromStdinWithEnvSecret(t *testing.T) {
	env := map[string]string{envSecret: strongSecret}

	signed := run(t, env, `{"b":2,"a":1}`+"\n", "sign", "--alg", "HS512")
	require.NoError(t, signed.err, signed.stderr)
	token := strings.TrimSpace(signed.stdout)

	verified := run(t, env, token, "verify", "-", "--complete")
	require.NoError(t, verified.err, verified.stderr)

	var tok struct {
		Header  jwtlite.Header  `json:"header"`
		Payload json.RawMessage `json:"payload"`
	}
	require.NoError(t, json.Unmarshal([]byte(verified.stdout), &tok))
	assert.Equal(t, jwtlite.SigningMethodHS512, tok.Header.Alg)
	assert.Equal(t, jwtlite.NeverExpires, tok.Header.ExpireDate)
	assert.JSONEq(t, `{"b":2,"a":1}`, string(tok.Payload))
}

func TestSecretFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secret")
	require.NoError(t, os.WriteFile(path, []byte(strongSecret+"\n"), 0o600))

	signed := run(t, nil, "", "sign", `"data"`, "--secret-file", path)
	require.NoError(t, signed.err, signed.stderr)

	verified := run(t, nil, "", "verify", strings.TrimSpace(signed.stdout), "--secret", strongSecret)
	require.NoError(t, verified.err, verified.stderr)
	assert.JSONEq(t, `"data"`, verified.stdout)

	missing := run(t, nil, "", "sign", `"data"`, "--secret-file", filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, missing.err)
}

func TestVerifyFailures(t *testing.T) {
	signed := run(t, nil, "", "sign", `{"userId":1}`, "--secret", strongSecret, "--expire-date", "1")
	require.NoError(t, signed.err)
	token := strings.TrimSpace(signed.stdout)

	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{"expired", []string{"verify", token, "--secret", strongSecret}, jwtlite.ErrTokenExpired},
		{"wrong secret", []string{"verify", token, "--secret", "wrong"}, jwtlite.ErrInvalidSignature},
		{"missing secret", []string{"verify", token}, jwtlite.ErrTokenSecretRequired},
		{"malformed", []string{"verify", "abc", "--secret", strongSecret}, jwtlite.ErrIncorrectTokenFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := run(t, nil, "", tt.args...)
			assert.ErrorIs(t, res.err, tt.wantErr)
			assert.Empty(t, res.stdout)
		})
	}

	accepted := run(t, nil, "", "verify", token, "--secret", strongSecret, "--ignore-expiration")
	assert.NoError(t, accepted.err)
}

func TestSignFailures(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{"invalid alg", []string{"sign", `{"a":1}`, "--secret", strongSecret, "--alg", "HS128"}, jwtlite.ErrSignInvalidAlgorithm},
		{"missing payload", []string{"sign", "--secret", strongSecret}, jwtlite.ErrPayloadRequired},
		{"missing secret", []string{"sign", `{"a":1}`}, jwtlite.ErrSignSecretRequired},
		{"invalid json", []string{"sign", `{"a":`, "--secret", strongSecret}, jwtlite.ErrInvalidPayload},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := run(t, nil, "", tt.args...)
			assert.ErrorIs(t, res.err, tt.wantErr)
		})
	}
}

func TestPrintError(t *testing.T) {
	var buf bytes.Buffer
	printError(&buf, jwtlite.ErrInvalidSignature)
	assert.JSONEq(t, `{"name":"TokenError","message":"invalid token signature"}`, buf.String())

	buf.Reset()
	printError(&buf, assert.AnError)
	assert.True(t, strings.HasPrefix(buf.String(), "Error: "))
}

func TestWeakSecretWarning(t *testing.T) {
	res := run(t, nil, "", "sign", `{"a":1}`, "--secret", "password")
	require.NoError(t, res.err)
	assert.Contains(t, res.stderr, "weak secret")
	assert.NotContains(t, res.stderr, `"password"`)

	res = run(t, nil, "", "sign", `{"a":1}`, "--secret", strongSecret)
	require.NoError(t, res.err)
	assert.NotContains(t, res.stderr, "weak secret")
}

func TestLoggingCarriesInvocationID(t *testing.T) {
	res := run(t, nil, "", "sign", `{"a":1}`, "--secret", strongSecret, "--log-level", "info", "--log-format", "json")
	require.NoError(t, res.err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.Split(strings.TrimSpace(res.stderr), "\n")[0]), &entry))
	assert.Equal(t, "token signed", entry["msg"])
	assert.Equal(t, "sign", entry["command"])
	assert.NotEmpty(t, entry["invocation_id"])
	assert.NotContains(t, res.stderr, strongSecret)
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jwtlite.yaml")
	require.NoError(t, os.WriteFile(path, []byte("signing_method: HS384\nexpires_in: 1h\n"), 0o600))

	signed := run(t, nil, "", "sign", `{"a":1}`, "--secret", strongSecret, "--config", path)
	require.NoError(t, signed.err, signed.stderr)

	tok, err := jwtlite.ParseUnverified(strings.TrimSpace(signed.stdout))
	require.NoError(t, err)
	assert.Equal(t, jwtlite.SigningMethodHS384, tok.Header.Alg)
	assert.True(t, tok.Header.Expires())

	bad := run(t, map[string]string{envConfig: filepath.Join(t.TempDir(), "missing.yaml")}, "", "sign", `{"a":1}`, "--secret", strongSecret)
	assert.Error(t, bad.err)
}

func TestInspect(t *testing.T) {
	signed := run(t, nil, "", "sign", `{"userId":1}`, "--secret", strongSecret, "--expire-date", "1700000000000")
	require.NoError(t, signed.err)

	res := run(t, nil, "", "inspect", strings.TrimSpace(signed.stdout))
	require.NoError(t, res.err)
	assert.Contains(t, res.stderr, "signature not verified")
	assert.Contains(t, res.stderr, "2023-11-14T22:13:20Z (expired)")

	var tok jwtlite.Token
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &tok))
	assert.Equal(t, jwtlite.SigningMethodHS256, tok.Header.Alg)
	assert.Equal(t, map[string]any{"userId": float64(1)}, tok.Payload)

	bad := run(t, nil, "", "inspect", "a.b")
	assert.ErrorIs(t, bad.err, jwtlite.ErrIncorrectTokenFormat)
}

func TestMetricsTextfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jwtlite.prom")

	res := run(t, nil, "", "sign", `{"a":1}`, "--secret", strongSecret, "--metrics-textfile", path)
	require.NoError(t, res.err, res.stderr)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `jwtlite_operations_total{alg="HS256",operation="sign",outcome="ok"} 1`)
}

func TestMetricsTextfileWrittenOnFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jwtlite.prom")

	res := run(t, nil, "", "verify", "a.b.c", "--secret", strongSecret, "--metrics-textfile", path)
	require.ErrorIs(t, res.err, jwtlite.ErrIncorrectTokenFormat)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `jwtlite_operations_total{alg="unsupported",operation="verify",outcome="incorrect_token_format"} 1`)
}

func TestVersion(t *testing.T) {
	res := run(t, nil, "", "version")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "jwtlite dev")
	assert.Contains(t, res.stdout, "Go: go")

	res = run(t, nil, "", "--version")
	require.NoError(t, res.err)
	assert.Equal(t, versionString()+"\n", res.stdout)
}
