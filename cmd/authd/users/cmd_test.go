package users

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/andrebq/authd/internal/config"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func runApp(t *testing.T, cfg *config.Config, stdin string, args ...string) (string, error) {
	var out bytes.Buffer
	app := &cli.App{
		Name:     "authd",
		Reader:   strings.NewReader(stdin),
		Writer:   &out,
		Commands: []*cli.Command{Cmd(cfg)},
	}
	err := app.RunContext(context.Background(), append([]string{"authd"}, args...))
	return out.String(), err
}

func TestRegisterAndResetToken(t *testing.T) {
	dir, err := os.MkdirTemp("", "authd-tests")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	cfg, err := config.FromMap(map[string]string{
		"AUTHD_STORE_DSN":   filepath.Join(dir, "users"),
		"AUTHD_HASHER_COST": "4",
	})
	require.NoError(t, err)

	out, err := runApp(t, &cfg, "b4l0u\n", "users", "register", "--email", "guillaume@holberton.io")
	require.NoError(t, err)
	require.Contains(t, out, "user guillaume@holberton.io created")

	_, err = runApp(t, &cfg, "b4l0u\n", "users", "register", "--email", "guillaume@holberton.io")
	require.Error(t, err)

	_, err = runApp(t, &cfg, "\n", "users", "register", "--email", "other@holberton.io")
	require.Error(t, err)

	out, err = runApp(t, &cfg, "", "users", "reset-token", "--email", "guillaume@holberton.io")
	require.NoError(t, err)
	require.Len(t, strings.TrimSpace(out), 36)

	_, err = runApp(t, &cfg, "", "users", "reset-token", "--email", "nobody@holberton.io")
	require.Error(t, err)
}
