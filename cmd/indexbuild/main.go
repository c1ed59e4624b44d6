package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/seojin-dev/moodshift-backend/internal/catalog"
	"github.com/seojin-dev/moodshift-backend/internal/emotion"
	"github.com/seojin-dev/moodshift-backend/internal/platform/logger"
	"github.com/seojin-dev/moodshift-backend/internal/platform/openai"
	"github.com/seojin-dev/moodshift-backend/internal/services"
)

// indexbuild embeds the emotion labels and writes the index artifacts the
// server loads at startup. Run it whenever the catalog or label set changes.
func main() {
	catalogPath := flag.String("catalog", "data/catalog.yaml", "path to the content catalog")
	outDir := flag.String("out", "data", "directory to write the index artifacts into")
	labelsFlag := flag.String("labels", "", "comma-separated emotion labels (default: built-in vocabulary)")
	timeout := flag.Duration("timeout", 5*time.Minute, "overall build timeout")
	flag.Parse()

	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	labels := services.EmotionLabels
	if *labelsFlag != "" {
		labels = nil
		for _, l := range strings.Split(*labelsFlag, ",") {
			if l = strings.TrimSpace(l); l != "" {
				labels = append(labels, l)
			}
		}
	}

	cat, err := catalog.LoadFile(*catalogPath)
	if err != nil {
		log.Error("Could not load catalog", "path", *catalogPath, "error", err)
		os.Exit(1)
	}

	openaiClient, err := openai.NewClient(log)
	if err != nil {
		log.Error("Could not init OpenAI client", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	result, err := emotion.Build(ctx, log, openaiClient, labels, cat, *outDir)
	if err != nil {
		log.Error("Index build failed", "error", err)
		os.Exit(1)
	}

	log.Info("Index build complete",
		"dir", *outDir,
		"dim", result.Dim,
		"built", len(result.Built),
		"failed", len(result.Failed),
	)
	for _, label := range result.Failed {
		log.Warn("Label skipped", "label", label)
	}
}
