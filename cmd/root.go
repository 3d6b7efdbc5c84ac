package cmd

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/lifecycle-sim/lifecycle-sim/model"
)

var (
	seed        int64  // Master seed for the simulation draw streams
	logLevel    string // Log verbosity level
	paramsFile  string // Optional YAML parameter file overriding the defaults
	outPath     string // Optional CSV path for the simulated panel
	dumpParams  bool   // Print the effective parameters as YAML and exit
	periods     int    // Override for the horizon length (0 = keep)
	individuals int    // Override for the simulated population size (-1 = keep)
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "lifecycle-sim",
	Short: "Life-cycle labor supply and fertility model: solver and simulator",
}

// runCmd solves the model by backward induction and simulates a panel.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Solve the model and simulate a household panel",
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		par := model.DefaultParams()
		if paramsFile != "" {
			par, err = LoadParams(paramsFile, par)
			if err != nil {
				logrus.Fatalf("unable to read parameter file: %v", err)
			}
		}
		if periods > 0 {
			par.T = periods
		}
		if individuals >= 0 {
			par.SimN = individuals
		}

		if dumpParams {
			data, err := yaml.Marshal(&par)
			if err != nil {
				logrus.Fatalf("marshaling parameters: %v", err)
			}
			os.Stdout.Write(data)
			return
		}

		solver, err := model.NewSolver(&par)
		if err != nil {
			logrus.Fatalf("invalid configuration: %v", err)
		}

		logrus.Infof("Solving %d periods over a %dx%dx%dx%d state grid",
			par.T, par.Nn, par.Ns, par.Na, par.Nk)
		startTime := time.Now()
		sol := solver.Solve()
		logrus.Infof("Backward pass finished in %s", time.Since(startTime))

		diag := solver.Diagnostics()
		if diag.NonFinite > 0 {
			logrus.Warnf("%d non-finite solution cells; results may be implausible", diag.NonFinite)
		}

		rng := model.NewPartitionedRNG(model.NewSimulationKey(seed))
		draws := model.NewDraws(&par, rng)
		simulator := model.NewSimulator(&par, solver.Grids(), sol)
		panel, err := simulator.Simulate(nil, draws)
		if err != nil {
			logrus.Fatalf("simulation failed: %v", err)
		}

		panel.Summarize().Print()

		if outPath != "" {
			if err := panel.WriteCSV(outPath); err != nil {
				logrus.Fatalf("writing panel: %v", err)
			}
			logrus.Infof("Panel written to %s", outPath)
		}
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().Int64Var(&seed, "seed", 9210, "Master seed for birth and spouse draws")
	runCmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	runCmd.Flags().StringVar(&paramsFile, "params", "", "YAML parameter file overriding the defaults")
	runCmd.Flags().StringVar(&outPath, "out", "", "CSV path for the simulated panel")
	runCmd.Flags().BoolVar(&dumpParams, "dump-params", false, "Print the effective parameters as YAML and exit")
	runCmd.Flags().IntVar(&periods, "periods", 0, "Override the horizon length")
	runCmd.Flags().IntVar(&individuals, "individuals", -1, "Override the simulated population size")

	rootCmd.AddCommand(runCmd)
}
