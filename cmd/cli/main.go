package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/landcover-microservice/internal/app"
	"github.com/landcover-microservice/internal/config"
	"github.com/landcover-microservice/internal/domain"
	"github.com/landcover-microservice/internal/pkg/logger"
	"github.com/landcover-microservice/internal/usecase"
	"github.com/landcover-microservice/internal/usecase/dto"
)

func main() {
	place := flag.String("place", "", "place name to analyse, e.g. Lviv")
	imagePath := flag.String("image", "", "analyse a local image instead of a place")
	pixelM2 := flag.Float64("pixel-m2", 0, "pixel area in m² for -image")
	lat := flag.Float64("lat", 0, "image centre latitude for -image when -pixel-m2 is not set")
	out := flag.String("out", "", "write the overlay PNG to this file")
	policy := flag.String("policy", "", "planting policy: auto, coverage or aqi")
	profile := flag.String("profile", "", "calibration profile id")
	tiles := flag.String("tiles", "", "tile grid COLSxROWS")
	refresh := flag.Bool("refresh", false, "ignore cached and stored data")
	asJSON := flag.Bool("json", false, "print the full report as JSON")
	flag.Parse()

	if (*place == "") == (*imagePath == "") {
		fmt.Fprintln(os.Stderr, "exactly one of -place or -image is required")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	// CLI пишет в stderr только предупреждения
	log, err := logger.New("warn", "console")
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	stack, err := app.Build(ctx, cfg, log, app.Options{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "init: %v\n", err)
		os.Exit(1)
	}
	defer stack.Close()

	opts := usecase.AnalysisOptions{ProfileID: *profile, Refresh: *refresh}
	if *policy != "" {
		p, ok := domain.ParsePlantingPolicy(strings.ToLower(*policy))
		if !ok {
			fmt.Fprintf(os.Stderr, "unknown policy %q\n", *policy)
			os.Exit(2)
		}
		opts.Policy = p
	}
	if *tiles != "" {
		if _, err := fmt.Sscanf(strings.ToLower(*tiles), "%dx%d", &opts.TileCols, &opts.TileRows); err != nil {
			fmt.Fprintf(os.Stderr, "invalid -tiles %q\n", *tiles)
			os.Exit(2)
		}
	}

	var result *usecase.AnalysisResult
	if *place != "" {
		result, err = stack.Analysis.ProcessByPlace(ctx, *place, opts)
	} else {
		result, err = analyseFile(ctx, stack.Analysis, *imagePath, *pixelM2, *lat, opts)
	}
	if err != nil {
		log.Debug("Analysis failed", zap.Error(err))
		fmt.Fprintf(os.Stderr, "analysis failed: %v\n", err)
		os.Exit(1)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result.Report)
	} else {
		printSummary(os.Stdout, dto.NewReportSummary(result.Report), result.Cached)
	}

	if *out != "" {
		if err := os.WriteFile(*out, result.Overlay, 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "write overlay: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Overlay saved to %s\n", *out)
	}
}

func analyseFile(
	ctx context.Context,
	uc *usecase.AnalysisUseCase,
	path string,
	pixelM2, lat float64,
	opts usecase.AnalysisOptions,
) (*usecase.AnalysisResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	if pixelM2 <= 0 {
		b := img.Bounds()
		if pixelM2, err = uc.PixelScale(lat, uc.BBoxDelta(), b.Dx(), b.Dy()); err != nil {
			return nil, err
		}
	}
	return uc.ProcessImage(ctx, img, pixelM2, nil, opts)
}

func printSummary(w io.Writer, s dto.ReportSummary, cached bool) {
	if s.Region != "" {
		fmt.Fprintf(w, "Region:              %s\n", s.Region)
	}
	fmt.Fprintf(w, "Forest area:         %.4f ha\n", s.ForestHectares)
	fmt.Fprintf(w, "Fields area:         %.4f ha\n", s.FieldsHectares)
	fmt.Fprintf(w, "Forest coverage:     %.2f %%\n", s.ForestCoveragePercent)
	if s.CurrentAQI != nil {
		fmt.Fprintf(w, "Current AQI:         %d\n", *s.CurrentAQI)
	}
	fmt.Fprintf(w, "Trees to plant:      %d\n", s.TreesToPlant)
	fmt.Fprintf(w, "Planting density:    %.4f trees/m²\n", s.PlantingDensityM2)
	fmt.Fprintf(w, "Policy:              %s\n", s.Policy)
	if cached {
		fmt.Fprintln(w, "(cached result)")
	}
}
