package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/oenolab/cepage/pkg/cepage/config"
)

// cepage-verify loads the configured artifact bundle and reports its
// shape. A non-zero exit means the service would refuse to serve.
func main() {
	configPath := flag.String("config", "", "Configuration file (required)")
	flag.Parse()

	if *configPath == "" {
		log.Fatal("--config required")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	loader := cfg.Loader()
	bundle, err := loader.Load()
	if err != nil {
		log.Fatalf("artifacts not ready: %v", err)
	}

	classes := bundle.Classes()
	width := bundle.Vectorizer.Width() + bundle.Encoder.Width() + 2

	fmt.Println("artifacts ready")
	fmt.Printf("  model version:    %s\n", cfg.ModelVersion)
	fmt.Printf("  vocabulary terms: %d\n", bundle.Vectorizer.Width())
	fmt.Printf("  varieties:        %d\n", bundle.Encoder.Width())
	fmt.Printf("  feature width:    %d\n", width)
	fmt.Printf("  classes (%d):      %s\n", len(classes), strings.Join(classes, ", "))
}
