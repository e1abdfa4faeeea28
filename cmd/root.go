package cmd

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/edsim/edsim/sim"
	"github.com/edsim/edsim/sim/persistence"
	"github.com/edsim/edsim/sim/trace"
	"github.com/edsim/edsim/sim/triage"
)

var (
	// CLI flags for the run command
	seed         int64   // Seed for random arrival/duration generation
	horizonMin   float64 // Total simulated time (in minutes)
	warmupMin    float64 // Warm-up window excluded from statistics
	ratePerHour  float64 // Patient arrivals per hour
	arrivalsMin  float64 // Arrival window; 0 means the whole horizon
	triageNurses int     // Triage nurse pool capacity
	doctors      int     // Doctor pool capacity
	cubicles     int     // Consultation cubicle pool capacity
	beds         int     // Admission bed pool capacity
	logLevel     string  // Log verbosity level
	scenarioPath string  // Optional YAML scenario file
	traceDBPath  string  // Optional SQLite file for the run trace
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "edsim",
	Short: "Discrete-event simulator for emergency department patient flow",
}

// runCmd executes a scenario using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run an emergency department scenario",
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		cfg := sim.DefaultConfig()
		if scenarioPath != "" {
			cfg, err = sim.LoadConfig(scenarioPath)
			if err != nil {
				logrus.Fatalf("Could not load scenario: %v", err)
			}
		}

		// explicit flags win over the scenario file
		if cmd.Flags().Changed("seed") {
			cfg.Seed = seed
		}
		if cmd.Flags().Changed("horizon") {
			cfg.HorizonMin = horizonMin
		}
		if cmd.Flags().Changed("warmup") {
			cfg.WarmupMin = warmupMin
		}
		if cmd.Flags().Changed("rate") {
			cfg.Arrival.RatePerHour = ratePerHour
		}
		if cmd.Flags().Changed("arrival-window") {
			cfg.Arrival.DurationMin = arrivalsMin
		}
		if cmd.Flags().Changed("triage-nurses") {
			cfg.Resources.TriageNurses = triageNurses
		}
		if cmd.Flags().Changed("doctors") {
			cfg.Resources.Doctors = doctors
		}
		if cmd.Flags().Changed("cubicles") {
			cfg.Resources.Cubicles = cubicles
		}
		if cmd.Flags().Changed("beds") {
			cfg.Resources.Beds = beds
		}

		var consultMeans [sim.NumCategories]float64
		for _, c := range sim.Categories() {
			consultMeans[c] = cfg.Categories[c].ConsultMeanMin
		}
		assessor := triage.NewService(triage.WithConsultMeans(consultMeans))

		recorders := trace.MultiRecorder{}
		if traceDBPath != "" {
			store, err := persistence.Open(traceDBPath)
			if err != nil {
				logrus.Fatalf("Could not open trace database: %v", err)
			}
			defer store.Close()
			recorders = append(recorders, store)
		}

		opts := []sim.Option{}
		if len(recorders) > 0 {
			opts = append(opts, sim.WithRecorder(recorders))
		}
		dept, err := sim.NewDepartment(cfg, assessor, opts...)
		if err != nil {
			logrus.Fatalf("Could not build department: %v", err)
		}

		startTime := time.Now()
		summary := dept.Run()
		summary.Print()
		logrus.Infof("Simulation complete in %v.", time.Since(startTime))
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
	runCmd.Flags().Int64Var(&seed, "seed", 42, "Seed for random arrival and duration generation")
	runCmd.Flags().Float64Var(&horizonMin, "horizon", 1440, "Total simulated time (in minutes)")
	runCmd.Flags().Float64Var(&warmupMin, "warmup", 60, "Warm-up window excluded from statistics (in minutes)")
	runCmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")

	// department capacity
	runCmd.Flags().IntVar(&triageNurses, "triage-nurses", 2, "Number of triage nurses")
	runCmd.Flags().IntVar(&doctors, "doctors", 4, "Number of doctors")
	runCmd.Flags().IntVar(&cubicles, "cubicles", 8, "Number of consultation cubicles")
	runCmd.Flags().IntVar(&beds, "beds", 12, "Number of admission beds")

	// arrival stream
	runCmd.Flags().Float64Var(&ratePerHour, "rate", 8, "Patient arrivals per hour")
	runCmd.Flags().Float64Var(&arrivalsMin, "arrival-window", 0, "Stop generating arrivals after this many minutes (0 = whole horizon)")

	runCmd.Flags().StringVar(&scenarioPath, "scenario", "", "YAML scenario file (flags override its values)")
	runCmd.Flags().StringVar(&traceDBPath, "trace-db", "", "SQLite file to store the run trace in")

	// Attach `run` as a subcommand to `root`
	rootCmd.AddCommand(runCmd)
}
