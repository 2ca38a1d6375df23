package commands

import (
	"avanza-scraper/lib/scrapers/avanza/core"
	"avanza-scraper/lib/scrapers/avanza/view"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json5")
	require.NoError(t, os.WriteFile(path, []byte(`{
		// shared
		username: "alice",
		password: "shared",
		selectors: {total_balance: "saldo"},
	}`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.local.json5"), []byte(`{
		password: "hunter2",
		debug: true,
	}`), 0644))

	cfg, err := readConfig(path)
	require.NoError(t, err)
	require.Equal(t, "alice", cfg.Username)
	require.Equal(t, "hunter2", cfg.Password)
	require.True(t, cfg.Debug)
	require.NotNil(t, cfg.Selectors)
	require.EqualValues(t, "saldo", cfg.Selectors.TotalBalance)
}

func TestReadConfigFromEnvironment(t *testing.T) {
	t.Setenv("AVANZA_USERNAME", "bob")
	t.Setenv("AVANZA_PASSWORD", "secret")

	cfg, err := readConfig(filepath.Join(t.TempDir(), "missing.json5"))
	require.NoError(t, err)
	require.Equal(t, "bob", cfg.Username)
	require.Equal(t, "secret", cfg.Password)
}

func TestLoginViewWithoutCredentials(t *testing.T) {
	t.Setenv("AVANZA_USERNAME", "")
	t.Setenv("AVANZA_PASSWORD", "")

	cfg, err := readConfig(filepath.Join(t.TempDir(), "missing.json5"))
	require.NoError(t, err)
	session, err := createSession(context.Background(), cfg)
	require.NoError(t, err)

	ctx := withGlobals(context.Background(), &globals{Config: cfg, Session: session})
	_, err = loginView(ctx)
	require.ErrorIs(t, err, core.ErrAuthenticationRequired)
	require.ErrorContains(t, err, "username and password")
}

func TestWriteAccountJson(t *testing.T) {
	balance := "1234,50"
	var out bytes.Buffer
	err := writeAccountJson(&out, view.AccountInfo{AccountId: "1234567", Balance: &balance})
	require.NoError(t, err)
	require.JSONEq(t, `{"1234567": {
		"Utveckling i år": null,
		"Saldo": "1234,50",
		"Tillgänligt för köp": null,
		"Totalt värde": null
	}}`, out.String())
}
