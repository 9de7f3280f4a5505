package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "visage", cmd.Use)
	assert.Contains(t, cmd.Long, "UDP")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"serve", "send", "takes", "curves", "destutter", "smooth", "channels", "check"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)
}

func TestInvalidFormat(t *testing.T) {
	cmd := NewRootCommand()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"channels", "--format", "yaml"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestServeCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	serveCmd, _, err := cmd.Find([]string{"serve"})
	require.NoError(t, err)

	for name, def := range map[string]string{
		"config":   "",
		"db":       "",
		"take":     "take",
		"record":   "false",
		"stream":   "false",
		"duration": "0s",
		"port":     "0",
	} {
		flag := serveCmd.Flags().Lookup(name)
		require.NotNil(t, flag, name)
		assert.Equal(t, def, flag.DefValue, name)
	}
}

func TestSendCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	sendCmd, _, err := cmd.Find([]string{"send"})
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", sendCmd.Flags().Lookup("host").DefValue)
	assert.Equal(t, "8000", sendCmd.Flags().Lookup("port").DefValue)
	assert.Equal(t, "60", sendCmd.Flags().Lookup("rate").DefValue)
}

func TestSmoothCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	smoothCmd, _, err := cmd.Find([]string{"smooth"})
	require.NoError(t, err)

	assert.Equal(t, "3", smoothCmd.Flags().Lookup("samples").DefValue)
	assert.Equal(t, "SQUARE_INVERSE", smoothCmd.Flags().Lookup("falloff").DefValue)
	assert.Equal(t, "1", smoothCmd.Flags().Lookup("scale").DefValue)
	assert.NotNil(t, smoothCmd.Flags().Lookup("group"))
}

func TestTakeCommandsRequireDB(t *testing.T) {
	tests := map[string][]string{
		"takes":     {"takes"},
		"curves":    {"curves", "--take", "x"},
		"destutter": {"destutter", "--take", "x"},
		"smooth":    {"smooth", "--take", "x"},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			cmd := NewRootCommand()
			buf := &bytes.Buffer{}
			cmd.SetOut(buf)
			cmd.SetErr(buf)
			cmd.SetArgs(args)

			err := cmd.Execute()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "required flag")
			assert.Contains(t, err.Error(), "db")
		})
	}
}
