package config

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCmd(fv **FlagValues) *cobra.Command {
	cmd := &cobra.Command{Use: "test", RunE: func(cmd *cobra.Command, args []string) error { return nil }}
	*fv = BindFlags(cmd)
	return cmd
}

func TestBindFlags_Defaults(t *testing.T) {
	t.Parallel()

	var fv *FlagValues
	cmd := newTestCmd(&fv)
	require.NoError(t, cmd.ParseFlags(nil))

	assert.Equal(t, ".", fv.Cwd)
	assert.False(t, fv.Verbose)
	assert.False(t, fv.Quiet)
}

func TestValidateFlags_MutuallyExclusiveVerboseQuiet(t *testing.T) {
	t.Parallel()

	var fv *FlagValues
	cmd := newTestCmd(&fv)
	require.NoError(t, cmd.ParseFlags([]string{"--verbose", "--quiet", "."}))

	err := ValidateFlags(fv, cmd)
	require.Error(t, err)
	var cfgErr *InvalidConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestValidateFlags_MutuallyExclusivePrintDeleteAll(t *testing.T) {
	t.Parallel()

	var fv *FlagValues
	cmd := newTestCmd(&fv)
	require.NoError(t, cmd.ParseFlags([]string{"--print", "--delete-all"}))

	err := ValidateFlags(fv, cmd)
	require.Error(t, err)
}

func TestValidateFlags_CwdMustExist(t *testing.T) {
	t.Parallel()

	var fv *FlagValues
	cmd := newTestCmd(&fv)
	require.NoError(t, cmd.ParseFlags([]string{"--cwd", "/no/such/directory/projclean"}))

	err := ValidateFlags(fv, cmd)
	require.Error(t, err)
}

func TestValidateFlags_PositionalRules(t *testing.T) {
	t.Parallel()

	var fv *FlagValues
	cmd := newTestCmd(&fv)
	dir := t.TempDir()
	require.NoError(t, cmd.ParseFlags([]string{"--cwd", dir, "target", "node_modules"}))

	require.NoError(t, ValidateFlags(fv, cmd))
	assert.Equal(t, []string{"target", "node_modules"}, fv.Rules)
}

func TestValidateFlags_EnvOverride(t *testing.T) {
	t.Setenv(EnvTime, "+30")

	var fv *FlagValues
	cmd := newTestCmd(&fv)
	require.NoError(t, cmd.ParseFlags(nil))

	require.NoError(t, ValidateFlags(fv, cmd))
	assert.Equal(t, "+30", fv.Time)
}

func TestValidateFlags_ExplicitFlagWinsOverEnv(t *testing.T) {
	t.Setenv(EnvTime, "+30")

	var fv *FlagValues
	cmd := newTestCmd(&fv)
	require.NoError(t, cmd.ParseFlags([]string{"--time", "-7"}))

	require.NoError(t, ValidateFlags(fv, cmd))
	assert.Equal(t, "-7", fv.Time)
}

func TestToCLIFlags_OnlyChangedKeys(t *testing.T) {
	t.Parallel()

	var fv *FlagValues
	cmd := newTestCmd(&fv)
	dir := t.TempDir()
	require.NoError(t, cmd.ParseFlags([]string{"--cwd", dir, "--size", "+1M"}))
	require.NoError(t, ValidateFlags(fv, cmd))

	flat := ToCLIFlags(fv, cmd)
	assert.Equal(t, dir, flat["cwd"])
	assert.Equal(t, "+1M", flat["size"])
	_, hasTime := flat["time"]
	assert.False(t, hasTime)
}
