package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/stijnfleuren/SwiftCloudApi/pkg/auth"
	"github.com/stijnfleuren/SwiftCloudApi/pkg/client"
	"github.com/stijnfleuren/SwiftCloudApi/pkg/config"
	"github.com/stijnfleuren/SwiftCloudApi/pkg/entities/control"
	"github.com/stijnfleuren/SwiftCloudApi/pkg/logging"
	"github.com/stijnfleuren/SwiftCloudApi/pkg/metrics"
	"github.com/stijnfleuren/SwiftCloudApi/pkg/safety"
	"github.com/stijnfleuren/SwiftCloudApi/pkg/smdexport"
)

const usage = `swiftcloud - optimize and evaluate fixed-time schedules via the Swift Mobility cloud api

Usage:
  swiftcloud optimize  -smd <export.json> [-objective <objective>] [-config <file>]
  swiftcloud evaluate  -smd <export.json> -fts <fts.json> [-config <file>]
  swiftcloud tune      -smd <export.json> -fts <fts.json> [-config <file>]
  swiftcloud validate  -smd <export.json> -fts <fts.json>

Credentials are read from the environment variables smc_api_key and
smc_secret_key.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "optimize":
		err = runOptimize(os.Args[2:])
	case "evaluate":
		err = runEvaluate(os.Args[2:])
	case "tune":
		err = runTune(os.Args[2:])
	case "validate":
		err = runValidate(os.Args[2:])
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "swiftcloud: %v\n", err)
		os.Exit(1)
	}
}

// newClient assembles a Client from the configuration file (or defaults) and
// the credentials in the environment.
func newClient(configPath string) (*client.Client, error) {
	cfg := config.Default()
	if configPath != "" {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return nil, err
		}
	}
	logger := logging.NewJSONLogger(os.Stderr, logging.ParseLevel(cfg.LogLevel))
	reg := metrics.NewRegistry(prometheus.NewRegistry())

	creds, err := auth.CredentialsFromEnv()
	if err != nil {
		return nil, err
	}
	signer := auth.NewBearerSigner(creds, cfg.AuthURL, nil)
	return client.New(cfg, signer, client.WithLogger(logger), client.WithMetrics(reg)), nil
}

func runOptimize(args []string) error {
	fs := flag.NewFlagSet("optimize", flag.ExitOnError)
	smdPath := fs.String("smd", "", "Swift Mobility Desktop export file")
	objective := fs.String("objective", string(client.ObjectiveMinDelay), "optimization objective")
	configPath := fs.String("config", "", "configuration file")
	fs.Parse(args)
	if *smdPath == "" {
		return fmt.Errorf("optimize: -smd is required")
	}

	export, err := smdexport.FromFile(*smdPath)
	if err != nil {
		return err
	}
	c, err := newClient(*configPath)
	if err != nil {
		return err
	}

	fts, pd, objValue, err := c.GetOptimizedFTS(context.Background(), export.Intersection,
		export.ArrivalRates, client.OptimizeOptions{Objective: client.Objective(*objective)})
	if err != nil {
		return err
	}
	fmt.Printf("objective value: %.2f\n", objValue)
	fmt.Println(fts)
	fmt.Println(pd)
	return nil
}

func runEvaluate(args []string) error {
	fs := flag.NewFlagSet("evaluate", flag.ExitOnError)
	smdPath := fs.String("smd", "", "Swift Mobility Desktop export file")
	ftsPath := fs.String("fts", "", "fixed-time schedule file")
	configPath := fs.String("config", "", "configuration file")
	fs.Parse(args)
	if *smdPath == "" || *ftsPath == "" {
		return fmt.Errorf("evaluate: -smd and -fts are required")
	}

	export, fts, err := loadScheduleInputs(*smdPath, *ftsPath)
	if err != nil {
		return err
	}
	c, err := newClient(*configPath)
	if err != nil {
		return err
	}

	kpis, err := c.EvaluateFTS(context.Background(), export.Intersection, fts,
		export.ArrivalRates, client.EvaluateOptions{})
	if err != nil {
		return err
	}
	fmt.Println(kpis)
	return nil
}

func runTune(args []string) error {
	fs := flag.NewFlagSet("tune", flag.ExitOnError)
	smdPath := fs.String("smd", "", "Swift Mobility Desktop export file")
	ftsPath := fs.String("fts", "", "fixed-time schedule file")
	configPath := fs.String("config", "", "configuration file")
	fs.Parse(args)
	if *smdPath == "" || *ftsPath == "" {
		return fmt.Errorf("tune: -smd and -fts are required")
	}

	export, fts, err := loadScheduleInputs(*smdPath, *ftsPath)
	if err != nil {
		return err
	}
	c, err := newClient(*configPath)
	if err != nil {
		return err
	}

	tuned, objValue, err := c.GetTunedFTS(context.Background(), export.Intersection, fts,
		export.ArrivalRates, client.OptimizeOptions{})
	if err != nil {
		return err
	}
	fmt.Printf("objective value: %.2f\n", objValue)
	fmt.Println(tuned)
	return nil
}

func runValidate(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	smdPath := fs.String("smd", "", "Swift Mobility Desktop export file")
	ftsPath := fs.String("fts", "", "fixed-time schedule file")
	tolerance := fs.Float64("tolerance", safety.DefaultTolerance, "allowed violation in seconds")
	fs.Parse(args)
	if *smdPath == "" || *ftsPath == "" {
		return fmt.Errorf("validate: -smd and -fts are required")
	}

	export, fts, err := loadScheduleInputs(*smdPath, *ftsPath)
	if err != nil {
		return err
	}
	if err := safety.ValidateSchedule(export.Intersection, fts, *tolerance); err != nil {
		return err
	}
	fmt.Println("schedule satisfies all safety restrictions")
	return nil
}

// loadScheduleInputs reads the export document and a schedule file.
func loadScheduleInputs(smdPath, ftsPath string) (smdexport.Export, control.FixedTimeSchedule, error) {
	export, err := smdexport.FromFile(smdPath)
	if err != nil {
		return smdexport.Export{}, control.FixedTimeSchedule{}, err
	}
	fts, err := loadSchedule(ftsPath)
	if err != nil {
		return smdexport.Export{}, control.FixedTimeSchedule{}, err
	}
	return export, fts, nil
}

func loadSchedule(path string) (control.FixedTimeSchedule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return control.FixedTimeSchedule{}, fmt.Errorf("read schedule: %w", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return control.FixedTimeSchedule{}, fmt.Errorf("parse schedule %s: %w", path, err)
	}
	return control.FixedTimeScheduleFromJSON(doc)
}
