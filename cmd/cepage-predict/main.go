package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/oenolab/cepage/pkg/cepage"
	"github.com/oenolab/cepage/pkg/cepage/config"
	"github.com/oenolab/cepage/pkg/cepage/store"
	"github.com/oenolab/cepage/pkg/cepage/store/sqlite"
)

func main() {
	var (
		configPath  = flag.String("config", "", "Configuration file (required)")
		description = flag.String("description", "", "Wine description (one-shot mode)")
		points      = flag.Float64("points", 90, "Review score in [0,100]")
		price       = flag.Float64("price", 25, "Price in [0,10000]")
		variety     = flag.String("variety", "", "Grape variety")
	)
	flag.Parse()

	if *configPath == "" {
		log.Fatal("--config required")
	}

	ctx := context.Background()

	predictor, cleanup, err := buildPredictor(ctx, *configPath)
	if err != nil {
		log.Fatal(err)
	}
	defer cleanup()

	// One-shot mode
	if *description != "" {
		in := cepage.Input{
			Description: *description,
			Points:      *points,
			Price:       *price,
			Variety:     *variety,
		}
		if err := predict(ctx, predictor, in); err != nil {
			log.Fatal(err)
		}
		return
	}

	// Interactive mode: one description per line, with points, price
	// and variety taken from the flags.
	fmt.Println("===========================================")
	fmt.Println("  Cepage Predict")
	fmt.Println("  Wine origin from tasting notes")
	fmt.Println("===========================================")
	fmt.Println()
	fmt.Printf("points=%.0f price=%.2f variety=%q\n", *points, *price, *variety)
	fmt.Println("Type a description (Ctrl+D to exit):")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		in := cepage.Input{
			Description: text,
			Points:      *points,
			Price:       *price,
			Variety:     *variety,
		}
		if err := predict(ctx, predictor, in); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
	}
}

func buildPredictor(ctx context.Context, configPath string) (*cepage.Predictor, func(), error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	loader := cfg.Loader()
	bundle, err := loader.Load()
	if err != nil {
		return nil, nil, err
	}

	var history store.Store
	cleanup := func() {}
	if cfg.HistoryDB != "" {
		history, err = sqlite.OpenSQLite(ctx, cfg.HistoryDB)
		if err != nil {
			return nil, nil, fmt.Errorf("open history db: %w", err)
		}
		cleanup = func() { history.Close() }
	}

	predictor, err := cepage.New(cepage.Options{
		Bundle:       bundle,
		History:      history,
		ModelVersion: cfg.ModelVersion,
	})
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	return predictor, cleanup, nil
}

func predict(ctx context.Context, predictor *cepage.Predictor, in cepage.Input) error {
	result, err := predictor.Predict(ctx, in)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
