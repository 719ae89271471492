package run

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/ValentinKolb/shellstate/cmd/util"
	"github.com/ValentinKolb/shellstate/lib/shell"
	"github.com/VictoriaMetrics/metrics"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// RunCmd represents the run command
	RunCmd = &cobra.Command{
		Use:   "run [flags] -- command [args...]",
		Short: "Run a command inside scoped directory/environment guards",
		Long: util.WrapString("Run a child command with the working directory and/or environment " +
			"variables temporarily changed. All changes are made under the global mutation lock and " +
			"are restored after the child exits, no matter how it exits. Configuration can also be " +
			"set via environment variables of the form SHELLSTATE_<flag> (e.g. SHELLSTATE_DIR=/tmp)."),
		Args:    cobra.MinimumNArgs(1),
		PreRunE: setupRun,
		RunE:    runRun,
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitConfig)

	// Add flags
	key := "dir"
	RunCmd.Flags().String(key, "", util.WrapString("Directory to run the command in (restored afterwards)"))

	key = "env"
	RunCmd.Flags().StringArray(key, nil, util.WrapString("Environment variable to set, as KEY=VALUE (repeatable, restored afterwards)"))

	key = "env-file"
	RunCmd.Flags().String(key, "", util.WrapString("Path to a .env file whose variables are set for the duration of the command"))

	key = "print-metrics"
	RunCmd.Flags().Bool(key, false, util.WrapString("Print lock metrics in Prometheus format to stderr after the command exits"))

	key = "log-level"
	RunCmd.Flags().String(key, "info", util.WrapString("Level at which logs will be output (debug, info, warn, error)"))
}

// setupRun binds flags and initializes logging
func setupRun(cmd *cobra.Command, _ []string) error {
	// Bind command flags to viper
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	util.InitLoggers(util.GetLogLevel())
	return nil
}

// runRun handles the run command
func runRun(cmd *cobra.Command, args []string) error {
	exitCode, err := executeGuarded(
		viper.GetString("dir"),
		viper.GetString("env-file"),
		viper.GetStringSlice("env"),
		args,
	)
	if err != nil {
		return err
	}

	if viper.GetBool("print-metrics") {
		metrics.WritePrometheus(os.Stderr, false)
	}

	// All guards are closed at this point, so exiting is safe
	if exitCode != 0 {
		os.Exit(exitCode)
	}
	return nil
}

// executeGuarded runs argv inside the requested guards. By the time it
// returns, every guard has been closed and all process state restored.
func executeGuarded(dir, envFile string, envPairs, argv []string) (exitCode int, err error) {
	var cleanups []func()
	defer func() {
		// Close guards in reverse order of creation
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}()

	if dir != "" {
		guard, err := shell.Pushd(dir)
		if err != nil {
			return 0, err
		}
		cleanups = append(cleanups, guard.Close)
	}

	if envFile != "" {
		vars, err := godotenv.Read(envFile)
		if err != nil {
			return 0, fmt.Errorf("cannot read env file %s: %v", envFile, err)
		}

		// Apply in sorted key order so runs are deterministic
		keys := make([]string, 0, len(vars))
		for key := range vars {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		for _, key := range keys {
			guard := shell.Pushenv(key, vars[key])
			cleanups = append(cleanups, guard.Close)
		}
	}

	for _, pair := range envPairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return 0, fmt.Errorf("invalid env flag %q (expected KEY=VALUE)", pair)
		}
		guard := shell.Pushenv(key, value)
		cleanups = append(cleanups, guard.Close)
	}

	child := exec.Command(argv[0], argv[1:]...)
	child.Stdin = os.Stdin
	child.Stdout = os.Stdout
	child.Stderr = os.Stderr

	if err := child.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return 0, fmt.Errorf("cannot run %s: %v", argv[0], err)
	}
	return 0, nil
}
