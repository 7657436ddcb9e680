package config

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// FlagValues collects all parsed global flag values from the CLI. This
// struct is populated by BindFlags and fed into Resolve as the highest
// precedence layer.
type FlagValues struct {
	Cwd        string
	Exclude    []string
	Time       string
	Size       string
	Print      bool
	DeleteAll  bool
	ListRules  bool
	ConfigPath string
	Verbose    bool
	Quiet      bool
	Rules      []string
}

// BindFlags registers all global persistent flags on the given Cobra
// command and returns a FlagValues pointer that will be populated when the
// command is executed. Rules (the positional RULES... arguments) are
// populated separately from cmd.Flags().Args() since Cobra does not bind
// positional arguments through pflag.
func BindFlags(cmd *cobra.Command) *FlagValues {
	fv := &FlagValues{}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&fv.Cwd, "cwd", "C", ".", "directory to scan")
	pf.StringSliceVarP(&fv.Exclude, "exclude", "x", nil, "comma-separated directory names to exclude from scanning (repeatable)")
	pf.StringVarP(&fv.Time, "time", "t", "", "filter by age in days, e.g. +30, -7")
	pf.StringVarP(&fv.Size, "size", "s", "", "filter by size, e.g. +500K, -2G")
	pf.BoolVarP(&fv.Print, "print", "P", false, "print matches and exit, without launching the interactive list")
	pf.BoolVarP(&fv.DeleteAll, "delete-all", "D", false, "delete every match without launching the interactive list")
	pf.BoolVar(&fv.ListRules, "list-rules", false, "print the built-in rule catalog and exit")
	pf.StringVar(&fv.ConfigPath, "config", "", "path to a config.toml, overriding the default global config location")
	pf.BoolVarP(&fv.Verbose, "verbose", "v", false, "enable debug logging")
	pf.BoolVarP(&fv.Quiet, "quiet", "q", false, "suppress all output except errors")

	return fv
}

// ValidateFlags checks the parsed flag values for correctness and mutual
// exclusion, and applies environment variable fallbacks for flags not
// explicitly set. Call this from PersistentPreRunE after Cobra has parsed
// the flags.
func ValidateFlags(fv *FlagValues, cmd *cobra.Command) error {
	applyEnvOverrides(fv, cmd)

	if fv.Verbose && fv.Quiet {
		return &InvalidConfigError{Field: "--verbose/--quiet", Message: "mutually exclusive"}
	}
	if fv.Print && fv.DeleteAll {
		return &InvalidConfigError{Field: "--print/--delete-all", Message: "mutually exclusive"}
	}

	info, err := os.Stat(fv.Cwd)
	if err != nil {
		return &InvalidConfigError{Field: "--cwd", Message: "cannot stat", Err: err}
	}
	if !info.IsDir() {
		return &InvalidConfigError{Field: "--cwd", Message: fmt.Sprintf("%s is not a directory", fv.Cwd)}
	}

	fv.Rules = cmd.Flags().Args()

	return nil
}

// applyEnvOverrides applies PROJCLEAN_* environment variable fallbacks for
// flags that were not explicitly set on the command line.
func applyEnvOverrides(fv *FlagValues, cmd *cobra.Command) {
	if v := os.Getenv(EnvCwd); v != "" && !cmd.Flags().Changed("cwd") {
		fv.Cwd = v
	}
	if v := os.Getenv(EnvTime); v != "" && !cmd.Flags().Changed("time") {
		fv.Time = v
	}
	if v := os.Getenv(EnvSize); v != "" && !cmd.Flags().Changed("size") {
		fv.Size = v
	}
	if v := os.Getenv(EnvExclude); v != "" && !cmd.Flags().Changed("exclude") {
		fv.Exclude = splitCommaList(v)
	}
	if os.Getenv(EnvDebug) == "1" && !cmd.Flags().Changed("verbose") {
		fv.Verbose = true
	}
}

// ToCLIFlags converts the subset of FlagValues relevant to Resolve's
// highest-precedence layer into a flat map. Only explicitly-set flags are
// included, so an unset flag falls through to lower-precedence layers.
func ToCLIFlags(fv *FlagValues, cmd *cobra.Command) map[string]any {
	flat := make(map[string]any)

	if len(fv.Rules) > 0 {
		flat["rules"] = fv.Rules
	}
	if cmd.Flags().Changed("exclude") {
		flat["exclude"] = fv.Exclude
	}
	if cmd.Flags().Changed("time") {
		flat["time"] = fv.Time
	}
	if cmd.Flags().Changed("size") {
		flat["size"] = fv.Size
	}
	if cmd.Flags().Changed("cwd") {
		flat["cwd"] = fv.Cwd
	}

	return flat
}
