package main

import (
	"flag"
	"os"
	"strconv"
	"strings"

	"github.com/cheggaaa/pb/v3"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/avvvet/round-services/internal/gamesvc/engine"
	"github.com/avvvet/round-services/internal/sim"
)

func main() {
	rounds := flag.Int("rounds", 100000, "rounds to simulate per game")
	seed := flag.Int64("seed", 0, "entropy seed, 0 seeds from the clock")
	cashOuts := flag.String("cashout", "", "comma separated crash cash-out targets (default 1.5,2,5,10,50)")
	flag.Parse()

	targets := sim.DefaultCashOuts
	if *cashOuts != "" {
		var err error
		if targets, err = parseTargets(*cashOuts); err != nil {
			log.Fatalf("invalid -cashout: %v", err)
		}
	}

	src := engine.NewTimeSeededSource()
	if *seed != 0 {
		src = engine.NewRandSource(*seed)
	}
	gen, err := engine.NewGenerator(src)
	if err != nil {
		log.Fatal(err)
	}

	bar := pb.New(*rounds)
	bar.SetWriter(os.Stderr)
	bar.Start()
	report, err := sim.RunCashOuts(gen, *rounds, targets, func() { bar.Increment() })
	bar.Finish()
	if err != nil {
		log.Fatalf("simulation failed: %v", err)
	}

	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		log.Fatalf("unable to write report: %v", err)
	}
	enc.Close()
}

func parseTargets(raw string) ([]float64, error) {
	var out []float64
	for _, f := range strings.Split(raw, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
