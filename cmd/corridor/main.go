package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/pkg/errors"
)

// Supported subcommands:
// - optimize: Select the final route set and export it
// - sweep:    Evaluate the (budget, max-length) parameter grid
// - validate: Validate input data integrity

func main() {
	// Subcommand definitions
	optimizeCmd := flag.NewFlagSet("optimize", flag.ExitOnError)
	sweepCmd := flag.NewFlagSet("sweep", flag.ExitOnError)
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)

	// optimize parameters
	optimizeConfig := optimizeCmd.String("config", ".", "Directory containing the config YAML")
	optimizeBudget := optimizeCmd.Int("budget", 0, "Route budget override (0 = use config)")
	optimizeMode := optimizeCmd.String("mode", "", "Solver mode override: exact or greedy")

	// sweep parameters
	sweepConfig := sweepCmd.String("config", ".", "Directory containing the config YAML")
	sweepMode := sweepCmd.String("mode", "", "Solver mode override: exact or greedy")

	// validate parameters
	validateDir := validateCmd.String("dir", "./data", "Directory to validate")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	flags := corridorFlags{
		Optimize: optimizeFlags{
			cmd:    optimizeCmd,
			config: optimizeConfig,
			budget: optimizeBudget,
			mode:   optimizeMode,
		},
		Sweep: sweepFlags{
			cmd:    sweepCmd,
			config: sweepConfig,
			mode:   sweepMode,
		},
		Validate: validateFlags{
			cmd: validateCmd,
			dir: validateDir,
		},
	}

	if err := runSubcommand(ctx, &flags); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type corridorFlags struct {
	Optimize optimizeFlags
	Sweep    sweepFlags
	Validate validateFlags
}

type optimizeFlags struct {
	cmd    *flag.FlagSet
	config *string
	budget *int
	mode   *string
}

type sweepFlags struct {
	cmd    *flag.FlagSet
	config *string
	mode   *string
}

type validateFlags struct {
	cmd *flag.FlagSet
	dir *string
}

func runSubcommand(ctx context.Context, flags *corridorFlags) error {
	switch os.Args[1] {
	case "optimize":
		return handleOptimize(ctx, flags)
	case "sweep":
		return handleSweep(ctx, flags)
	case "validate":
		return handleValidate(flags)
	default:
		printUsage()

		return errors.New("unknown subcommand")
	}
}

func handleOptimize(ctx context.Context, flags *corridorFlags) error {
	if err := flags.Optimize.cmd.Parse(os.Args[2:]); err != nil {
		return errors.Wrap(err, "failed to parse optimize flags")
	}

	return runOptimize(ctx, *flags.Optimize.config, *flags.Optimize.budget, *flags.Optimize.mode)
}

func handleSweep(ctx context.Context, flags *corridorFlags) error {
	if err := flags.Sweep.cmd.Parse(os.Args[2:]); err != nil {
		return errors.Wrap(err, "failed to parse sweep flags")
	}

	return runSweep(ctx, *flags.Sweep.config, *flags.Sweep.mode)
}

func handleValidate(flags *corridorFlags) error {
	if err := flags.Validate.cmd.Parse(os.Args[2:]); err != nil {
		return errors.Wrap(err, "failed to parse validate flags")
	}

	return runValidate(*flags.Validate.dir)
}

func printUsage() {
	fmt.Println("Usage: corridor <command> [options]")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  optimize    Select the final route set and export routes.csv")
	fmt.Println("  sweep       Evaluate the (budget, max-length) grid into sweep.csv")
	fmt.Println("  validate    Validate input segment data")
	fmt.Println("")
	fmt.Println("Use 'corridor <command> -h' for more information about a command.")
}

// Command implementations are in their respective files
