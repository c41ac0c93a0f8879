package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dpup/titnyl/internal/clients/titnyl"
	"github.com/dpup/titnyl/internal/config"
	"github.com/dpup/titnyl/internal/export"
	"github.com/dpup/titnyl/internal/lib/crs"
	"github.com/dpup/titnyl/internal/services"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "convert":
		err = runConvert(args, os.Stdout)
	case "batch":
		err = runBatch(args, os.Stdout)
	case "detect":
		err = runDetect(args, os.Stdout)
	case "help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		log.Fatalf("%s failed: %v", command, err)
	}
}

func printUsage() {
	fmt.Println("titnyl2geo - convert TIT/NYL road alignments to geographic 3D polylines")
	fmt.Println()
	fmt.Println("Usage: titnyl2geo <command> [options]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  convert   Convert one TIT/NYL pair")
	fmt.Println("  batch     Convert every TIT/NYL pair in a directory, matched by filename")
	fmt.Println("  detect    Detect the reference system of a TIT file or a coordinate pair")
	fmt.Println("  help      Show this help")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  titnyl2geo convert -tit E6.TIT -nyl E6.NYL -smooth-z -o e6.geojson")
	fmt.Println("  titnyl2geo batch -dir ./alignments -format kml -o all.kml")
	fmt.Println("  titnyl2geo detect -first 6603000 -second 600000")
}

// conversionFlags registers the options shared by convert and batch
type conversionFlags struct {
	fs         *flag.FlagSet
	configPath *string
	format     *string
	output     *string
}

func newConversionFlags(name string) *conversionFlags {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	c := &conversionFlags{
		fs:         fs,
		configPath: fs.String("config", "", "YAML configuration file"),
		format:     fs.String("format", "geojson", "Output format: geojson, kml, polyline"),
		output:     fs.String("o", "", "Output file (default stdout)"),
	}
	fs.String("epsg", config.AutoEPSG, `Source EPSG code or "auto"`)
	fs.Float64("step", 1, "Integration step in meters")
	fs.Bool("smooth", true, "Integrate curvature; false uses declared endpoints only")
	fs.Bool("smooth-z", false, "Insert vertical curves at grade breaks")
	fs.Int("workers", 0, "Parallel workers (default GOMAXPROCS)")
	fs.String("log-file", "", "Write JSON logs to a rotating file")
	fs.String("log-level", "", "Log level: debug, info, warn, error")
	return c
}

// flagKeys maps command line flags to configuration keys
var flagKeys = map[string]string{
	"epsg":      "conversion.epsg",
	"step":      "conversion.integration_step",
	"smooth":    "conversion.smooth",
	"smooth-z":  "conversion.smooth_z",
	"workers":   "conversion.workers",
	"log-file":  "log.file",
	"log-level": "log.level",
}

// load reads configuration with explicitly set flags taking precedence
func (c *conversionFlags) load() (*config.Config, error) {
	overrides := map[string]any{}
	c.fs.Visit(func(f *flag.Flag) {
		if key, ok := flagKeys[f.Name]; ok {
			overrides[key] = f.Value.(flag.Getter).Get()
		}
	})
	return config.Load(*c.configPath, overrides)
}

func (c *conversionFlags) convert(files func() (tit, nyl []services.File, err error), stdout io.Writer) error {
	cfg, err := c.load()
	if err != nil {
		return err
	}

	logger, closer := config.NewLogger(cfg.Log, os.Stderr)
	defer closer.Close()

	converter, err := services.NewConverterService(cfg.Conversion, logger)
	if err != nil {
		return err
	}

	tit, nyl, err := files()
	if err != nil {
		return err
	}

	result, err := converter.ConvertBatch(context.Background(), tit, nyl, cfg.Conversion)
	if err != nil {
		return err
	}
	if result.Err != nil {
		logger.Warn("Some pairs were skipped", "error", result.Err)
	}
	if result.Message != "" {
		logger.Warn(result.Message)
	}

	w := stdout
	if *c.output != "" {
		f, err := os.Create(*c.output)
		if err != nil {
			return fmt.Errorf("failed to create output: %w", err)
		}
		defer f.Close()
		w = f
	}
	return write(w, *c.format, result)
}

func write(w io.Writer, format string, result *services.BatchResult) error {
	switch strings.ToLower(format) {
	case "geojson":
		return export.WriteGeoJSON(w, result.Features, result.Message)
	case "kml":
		return export.KML(w, "TIT/NYL alignments", result.Features)
	case "polyline":
		return export.Polyline(w, result.Features)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

func runConvert(args []string, stdout io.Writer) error {
	c := newConversionFlags("convert")
	titPath := c.fs.String("tit", "", "Horizontal alignment file (.TIT)")
	nylPath := c.fs.String("nyl", "", "Vertical profile file (.NYL)")
	if err := c.fs.Parse(args); err != nil {
		return err
	}
	if *titPath == "" || *nylPath == "" {
		return fmt.Errorf("both -tit and -nyl are required")
	}

	return c.convert(func() ([]services.File, []services.File, error) {
		tit, err := readFile(*titPath)
		if err != nil {
			return nil, nil, err
		}
		nyl, err := readFile(*nylPath)
		if err != nil {
			return nil, nil, err
		}
		// pair explicitly named files even when their stems differ
		nyl.Name = strings.TrimSuffix(tit.Name, filepath.Ext(tit.Name)) + filepath.Ext(nyl.Name)
		return []services.File{tit}, []services.File{nyl}, nil
	}, stdout)
}

func runBatch(args []string, stdout io.Writer) error {
	c := newConversionFlags("batch")
	dir := c.fs.String("dir", ".", "Directory containing .TIT and .NYL files")
	if err := c.fs.Parse(args); err != nil {
		return err
	}

	return c.convert(func() ([]services.File, []services.File, error) {
		return readDir(*dir)
	}, stdout)
}

func runDetect(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("detect", flag.ContinueOnError)
	titPath := fs.String("tit", "", "Use the first element start of a TIT file")
	first := fs.Float64("first", 0, "First stored coordinate value")
	second := fs.Float64("second", 0, "Second stored coordinate value")
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, b := *first, *second
	if *titPath != "" {
		f, err := os.Open(*titPath)
		if err != nil {
			return err
		}
		defer f.Close()
		elements, err := titnyl.ParseTIT(f)
		if err != nil {
			return err
		}
		if len(elements) == 0 {
			return fmt.Errorf("%s has no horizontal elements", *titPath)
		}
		a, b = elements[0].StartN, elements[0].StartE
	}
	if a == 0 && b == 0 {
		return fmt.Errorf("provide -tit or -first and -second")
	}

	det, err := crs.NewDetector(crs.DefaultTable()).Detect(a, b)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%s %s\n", det.Candidate.EPSG(), det.Candidate.Name)
	fmt.Fprintf(stdout, "  axis order: %s\n", det.Axis)
	fmt.Fprintf(stdout, "  position:   %.6f, %.6f\n", det.Latitude, det.Longitude)
	return nil
}

func readFile(path string) (services.File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return services.File{}, err
	}
	return services.File{Name: filepath.Base(path), Data: data}, nil
}

func readDir(dir string) (tit, nyl []services.File, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		var target *[]services.File
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".tit":
			target = &tit
		case ".nyl":
			target = &nyl
		default:
			continue
		}
		f, err := readFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, nil, err
		}
		*target = append(*target, f)
	}
	return tit, nyl, nil
}
