package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"runtime"
	"runtime/debug"
	"sort"
	"strings"

	perrors "github.com/dpup/prefab/errors"
	"github.com/dpup/prefab/logging"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dpup/titnyl/internal/clients/titnyl"
	"github.com/dpup/titnyl/internal/config"
	"github.com/dpup/titnyl/internal/export"
	"github.com/dpup/titnyl/internal/lib/alignment"
	"github.com/dpup/titnyl/internal/lib/crs"
	"github.com/dpup/titnyl/internal/lib/pipeline"
)

// NoPairsMessage is returned when no TIT and NYL file share a filename stem
const NoPairsMessage = "No matching .TIT and .NYL pairs found (matched by filename)."

// File is one uploaded or opened input file
type File struct {
	Name string
	Data []byte
}

// Pair is a TIT/NYL file pair sharing a filename stem
type Pair struct {
	Stem string
	TIT  File
	NYL  File
}

// BatchResult holds the features of every converted pair. Err combines the failures of pairs that
// could not be converted when at least one other pair succeeded.
type BatchResult struct {
	Features []export.Feature
	Message  string
	Err      error
}

// ConverterService converts TIT/NYL file pairs to geographic features
type ConverterService struct {
	config config.ConversionConfig
	logger *slog.Logger
}

// NewConverterService creates a service with the given default conversion parameters
func NewConverterService(cfg config.ConversionConfig, logger *slog.Logger) (*ConverterService, error) {
	if err := config.ValidateConversion(cfg); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ConverterService{config: cfg, logger: logger}, nil
}

// Defaults returns the service's conversion parameters, for callers that override some of them
func (s *ConverterService) Defaults() config.ConversionConfig {
	return s.config
}

// ConvertPair parses and converts one pair
func (s *ConverterService) ConvertPair(ctx context.Context, pair Pair, cfg config.ConversionConfig) (export.Feature, error) {
	opts, err := s.options(cfg)
	if err != nil {
		return export.Feature{}, err
	}
	return s.convertSafe(ctx, pair, cfg, opts)
}

// ConvertBatch pairs files by lower-cased filename stem and converts every pair. The batch fails
// only when no pair converts; partial failures are reported on the result.
func (s *ConverterService) ConvertBatch(ctx context.Context, tit, nyl []File, cfg config.ConversionConfig) (*BatchResult, error) {
	opts, err := s.options(cfg)
	if err != nil {
		return nil, err
	}

	pairs := MatchPairs(tit, nyl)
	if len(pairs) == 0 {
		s.logger.Info("No matching file pairs", "tit_files", len(tit), "nyl_files", len(nyl))
		return &BatchResult{Message: NoPairsMessage}, nil
	}

	features := make([]*export.Feature, len(pairs))
	errs := make([]error, len(pairs))

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	var g errgroup.Group
	g.SetLimit(workers)
	for i, pair := range pairs {
		g.Go(func() error {
			f, err := s.convertSafe(ctx, pair, cfg, opts)
			if err != nil {
				errs[i] = fmt.Errorf("%s: %w", pair.TIT.Name, err)
				return nil
			}
			features[i] = &f
			return nil
		})
	}
	_ = g.Wait()

	result := &BatchResult{}
	for i := range pairs {
		if features[i] != nil {
			result.Features = append(result.Features, *features[i])
		}
		result.Err = multierr.Append(result.Err, errs[i])
	}

	if len(result.Features) == 0 {
		return nil, result.Err
	}
	if result.Err != nil {
		s.logger.Warn("Some pairs failed to convert",
			"converted", len(result.Features),
			"failed", len(multierr.Errors(result.Err)),
			"error", result.Err)
	}
	return result, nil
}

func (s *ConverterService) options(cfg config.ConversionConfig) (pipeline.Options, error) {
	if err := config.ValidateConversion(cfg); err != nil {
		return pipeline.Options{}, status.Error(codes.InvalidArgument, err.Error())
	}
	opts, err := cfg.PipelineOptions()
	if err != nil {
		return pipeline.Options{}, status.Error(codes.InvalidArgument, err.Error())
	}
	opts.Logger = s.logger
	return opts, nil
}

// convertSafe turns a panic inside one pair's conversion into an internal error for that pair
func (s *ConverterService) convertSafe(ctx context.Context, pair Pair, cfg config.ConversionConfig, opts pipeline.Options) (f export.Feature, err error) {
	defer func() {
		if r := recover(); r != nil {
			stack, _ := perrors.ParseStack(debug.Stack())
			skipFrames := 3
			numFrames := 5
			logging.Errorw(ctx, "Conversion: recovered from panic",
				"pair", pair.Stem, "error", r, "error.stack_trace", stack.MinimalStack(skipFrames, numFrames))
			err = status.Errorf(codes.Internal, "conversion panicked: %v", r)
		}
	}()
	return s.convert(ctx, pair, cfg, opts)
}

func (s *ConverterService) convert(ctx context.Context, pair Pair, cfg config.ConversionConfig, opts pipeline.Options) (export.Feature, error) {
	elements, err := titnyl.ParseTIT(bytes.NewReader(pair.TIT.Data))
	if err != nil {
		return export.Feature{}, fmt.Errorf("failed to read TIT file: %w", err)
	}
	points, err := titnyl.ParseNYL(bytes.NewReader(pair.NYL.Data))
	if err != nil {
		return export.Feature{}, fmt.Errorf("failed to read NYL file: %w", err)
	}

	logger := s.logger.With("pair", pair.Stem)
	opts.Logger = logger
	logger.Debug("Parsed pair", "elements", len(elements), "vertical_points", len(points))

	g, err := pipeline.Convert(ctx, pipeline.Input{Elements: elements, Points: points}, opts)
	if err != nil {
		return export.Feature{}, err
	}

	logger.Info("Converted pair",
		"epsg", g.Provenance.EPSG,
		"axis", g.Provenance.Axis,
		"samples", g.Summary.Samples,
		"length_m", g.Summary.GeodesicLength,
		"conditions", len(g.Conditions))

	return export.Feature{
		Filename: pair.TIT.Name,
		Smooth:   cfg.Smooth,
		SmoothZ:  cfg.SmoothZ,
		Geometry: g,
	}, nil
}

// Stem returns the lower-cased base name without extension. Both slash styles are treated as
// separators since uploads may carry client paths.
func Stem(name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	return strings.ToLower(strings.TrimSuffix(base, path.Ext(base)))
}

// MatchPairs pairs files that share a stem, ordered by stem. A later file replaces an earlier
// one with the same stem.
func MatchPairs(tit, nyl []File) []Pair {
	titByStem := make(map[string]File, len(tit))
	for _, f := range tit {
		if f.Name == "" {
			continue
		}
		titByStem[Stem(f.Name)] = f
	}
	nylByStem := make(map[string]File, len(nyl))
	for _, f := range nyl {
		if f.Name == "" {
			continue
		}
		nylByStem[Stem(f.Name)] = f
	}

	var pairs []Pair
	for stem, t := range titByStem {
		if n, ok := nylByStem[stem]; ok {
			pairs = append(pairs, Pair{Stem: stem, TIT: t, NYL: n})
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].Stem < pairs[j].Stem
	})
	return pairs
}

// StatusCode classifies a conversion error for transport
func StatusCode(err error) codes.Code {
	if err == nil {
		return codes.OK
	}
	if st, ok := status.FromError(err); ok {
		return st.Code()
	}
	var structural *alignment.StructuralError
	if errors.As(err, &structural) {
		return codes.InvalidArgument
	}
	var detection *crs.DetectionError
	if errors.As(err, &detection) {
		return codes.FailedPrecondition
	}
	if errors.Is(err, context.Canceled) {
		return codes.Canceled
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return codes.DeadlineExceeded
	}
	return codes.Internal
}
