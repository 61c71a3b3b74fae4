// Command cleanse runs the batch cleaning pipeline: load a raw CSV, normalize
// column names, handle missing values, derive the release year, drop
// duplicates and numeric outliers, label-encode categoricals, standardize
// numerics, and write the cleaned table to the configured sink.
//
// With no flags it cleans movies.csv into cleaned_movies_data.csv. A pipeline
// file selects other sources, column roles, and sinks:
//
//	cleanse -config configs/pipelines/movies.json
//	cleanse -input raw.csv -output clean.csv
//	cleanse -config p.json -validate
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"cleanse/internal/config"
	"cleanse/internal/metrics"
	"cleanse/internal/metrics/datadog"
	"cleanse/internal/metrics/prompush"
	"cleanse/internal/pipeline"

	// register all sinks with the storage factory. The config selects which
	// one to use but support for all of them is built in.
	_ "cleanse/internal/storage/all"
)

func main() {
	var (
		cfgPath           string
		inputFlg          string
		outputFlg         string
		storageFlg        string
		metricsBackendFlg string
		pushGatewayURLFlg string
		statsdAddrFlg     string
		validate          bool
	)

	flag.StringVar(&cfgPath, "config", "", "pipeline config JSON path (empty uses the built-in movie pipeline)")
	flag.StringVar(&inputFlg, "input", "", "input CSV path (overrides source.file.path)")
	flag.StringVar(&outputFlg, "output", "", "output CSV path (overrides storage.path for the csvfile sink)")
	flag.StringVar(&storageFlg, "storage", "", "storage kind (overrides storage.kind, e.g. csvfile, sqlite, postgres)")
	flag.StringVar(&metricsBackendFlg, "metrics-backend", "none", "metrics backend to use (pushgateway, datadog, none)")
	flag.StringVar(&pushGatewayURLFlg, "pushgateway-url", "", "Pushgateway base URL (overrides env PUSHGATEWAY_URL)")
	flag.StringVar(&statsdAddrFlg, "statsd-addr", "", "DogStatsD address (overrides env DD_AGENT_ADDR)")
	flag.BoolVar(&validate, "validate", false, "validate the configuration and exit")
	verbose := flag.Bool("v", false, "enable verbose logs")

	flag.Parse()

	p := config.Default()
	if cfgPath != "" {
		loaded, err := config.Load(cfgPath)
		if err != nil {
			fatalf("%v", err)
		}
		p = loaded
	}
	if inputFlg != "" {
		p.Source = config.Source{Kind: "file", File: config.SourceFile{Path: inputFlg}}
	}
	if outputFlg != "" {
		p.Storage.Kind = "csvfile"
		p.Storage.Path = outputFlg
	}
	if storageFlg != "" {
		p.Storage.Kind = storageFlg
	}

	issues := config.ValidatePipeline(p)
	hasError := false
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
		if iss.Severity == config.SeverityError {
			hasError = true
		}
	}
	if hasError {
		log.Fatalf("configuration is invalid: %v", cfgPath)
	}
	if validate {
		log.Printf("configuration is valid: %v", cfgPath)
		return
	}

	initMetrics(p.Job, metricsBackendFlg, pushGatewayURLFlg, statsdAddrFlg, *verbose)
	defer func() {
		if err := metrics.Flush(); err != nil {
			log.Printf("metrics: flush error: %v", err)
		}
	}()

	if *verbose {
		log.Printf("pipeline: source=%s parser=%s storage=%s",
			p.Source.Kind, p.Parser.Kind, p.Storage.Kind)
	}

	sum, err := pipeline.Run(context.Background(), p)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if *verbose {
		log.Printf("completed in %s", sum.Elapsed)
	}
}

// initMetrics resolves the metrics backend: flag → env → default (nop).
func initMetrics(job, backendName, gwURL, statsdAddr string, verbose bool) {
	if backendName == "" {
		backendName = os.Getenv("METRICS_BACKEND")
	}
	if job == "" {
		job = "clean"
	}

	switch backendName {
	case "pushgateway":
		if gwURL == "" {
			gwURL = os.Getenv("PUSHGATEWAY_URL")
		}
		if gwURL == "" {
			gwURL = "http://localhost:9091"
		}
		b, err := prompush.NewBackend(job, gwURL)
		if err != nil {
			log.Printf("metrics: failed to init prom push backend: %v; using nop", err)
			return
		}
		log.Printf("metrics: backend=%s url=%s job=%s", backendName, gwURL, job)
		metrics.SetBackend(b)

	case "datadog":
		if statsdAddr == "" {
			statsdAddr = os.Getenv("DD_AGENT_ADDR")
		}
		if statsdAddr == "" {
			statsdAddr = "127.0.0.1:8125"
		}
		b, err := datadog.NewBackend(datadog.Config{
			Addr:       statsdAddr,
			Namespace:  "cleanse",
			GlobalTags: []string{"job:" + job},
		})
		if err != nil {
			log.Printf("metrics: failed to init datadog backend: %v; using nop", err)
			return
		}
		log.Printf("metrics: backend=%s addr=%s job=%s", backendName, statsdAddr, job)
		metrics.SetBackend(b)

	case "", "none":
		if verbose {
			log.Printf("metrics: disabled (backend=%q)", backendName)
		}

	default:
		log.Printf("metrics: unknown backend %q; metrics disabled", backendName)
	}
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
