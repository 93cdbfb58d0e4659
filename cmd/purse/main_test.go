package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.dedis.ch/caisse/core/access"
)

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t)

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	require.Equal(t, uint64(1000), cfg.TotalSupply)
	require.Len(t, cfg.Balances, 1)

	_, err = loadConfig(filepath.Join(t.TempDir(), "missing.yml"))
	require.ErrorContains(t, err, "couldn't read config")

	bad := filepath.Join(t.TempDir(), "bad.yml")
	require.NoError(t, os.WriteFile(bad, []byte("db: [unclosed"), 0644))

	_, err = loadConfig(bad)
	require.ErrorContains(t, err, "couldn't parse config")
}

func TestConfig_MakeInit(t *testing.T) {
	cfg, err := loadConfig(writeConfig(t))
	require.NoError(t, err)

	init, err := cfg.makeInit()
	require.NoError(t, err)
	require.Equal(t, []access.Address{{2}}, init.Admins)
	require.Equal(t, uint64(100), init.Balances[0].Amount)

	cfg.Admins = []string{"not-hex"}

	_, err = cfg.makeInit()
	require.ErrorContains(t, err, "invalid admin address")
}

func TestRun_InitAndQuery(t *testing.T) {
	path := writeConfig(t)

	err := run([]string{"purse", "--config", path, "init"})
	require.NoError(t, err)

	err = run([]string{"purse", "--config", path, "init"})
	require.ErrorContains(t, err, "already initialized")

	err = run([]string{"purse", "--config", path, "query", `{"SupplyQuery":{}}`})
	require.NoError(t, err)

	err = run([]string{"purse", "--config", path, "query"})
	require.EqualError(t, err, "missing query")
}

func TestRun_Send(t *testing.T) {
	path := writeConfig(t)

	err := run([]string{"purse", "--config", path, "init"})
	require.NoError(t, err)

	alice := addrHex(access.Address{1})
	bob := addrHex(access.Address{3})

	action := fmt.Sprintf(`{"Transfer":{"To":%q,"Amount":40}}`, bob)

	err = run([]string{"purse", "--config", path, "send", "--from", alice, action})
	require.NoError(t, err)

	err = run([]string{"purse", "--config", path, "send", "--from", "zz", action})
	require.ErrorContains(t, err, "invalid sender address")

	err = run([]string{"purse", "--config", path, "send", "--from", alice})
	require.EqualError(t, err, "missing action")
}

func TestRun_Grant(t *testing.T) {
	path := writeConfig(t)

	err := run([]string{"purse", "--config", path, "init"})
	require.NoError(t, err)

	err = run([]string{"purse", "--config", path, "grant", "--addr", addrHex(access.Address{3})})
	require.NoError(t, err)

	err = run([]string{"purse", "--config", path, "grant", "--addr", "zz"})
	require.ErrorContains(t, err, "invalid address")
}

// -----------------------------------------------------------------------------
// Utility functions

func addrHex(addr access.Address) string {
	return hex.EncodeToString(addr[:])
}

func writeConfig(t *testing.T) string {
	dir := t.TempDir()

	content := fmt.Sprintf(`db: %s
reserve: %s
reserve_funds: 1000000
metadata: example purse
total_supply: 1000
admins:
  - %s
balances:
  - id: %s
    amount: 100
`,
		filepath.Join(dir, "purse.db"),
		addrHex(access.Address{9}),
		addrHex(access.Address{2}),
		addrHex(access.Address{1}),
	)

	path := filepath.Join(dir, "purse.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	return path
}
