package main

import (
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"go.uber.org/multierr"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"

	"github.com/dpup/titnyl/internal/config"
	"github.com/dpup/titnyl/internal/export"
	"github.com/dpup/titnyl/internal/services"
)

const requestIDHeader = "X-Request-Id"

type convertHandler struct {
	converter      *services.ConverterService
	maxUploadBytes int64
}

func (h *convertHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()
	w.Header().Set(requestIDHeader, requestID)
	logger := slog.Default().With("request_id", requestID)

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, logger, requestID, status.Error(codes.Unimplemented, "use POST with multipart/form-data"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		code := codes.InvalidArgument
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			code = codes.ResourceExhausted
		}
		writeError(w, logger, requestID, status.Errorf(code, "failed to read upload: %v", err))
		return
	}

	cfg, format, err := h.requestConfig(r)
	if err != nil {
		writeError(w, logger, requestID, err)
		return
	}

	tit, err := readFiles(r.MultipartForm, "tit_files")
	if err != nil {
		writeError(w, logger, requestID, err)
		return
	}
	nyl, err := readFiles(r.MultipartForm, "nyl_files")
	if err != nil {
		writeError(w, logger, requestID, err)
		return
	}

	result, err := h.converter.ConvertBatch(r.Context(), tit, nyl, cfg)
	if err != nil {
		writeError(w, logger, requestID, err)
		return
	}
	if result.Err != nil {
		w.Header().Set("X-Failed-Pairs", strconv.Itoa(len(multierr.Errors(result.Err))))
	}

	switch format {
	case "kml":
		w.Header().Set("Content-Type", "application/vnd.google-earth.kml+xml")
		err = export.KML(w, "TIT/NYL alignments", result.Features)
	default:
		w.Header().Set("Content-Type", "application/geo+json")
		err = export.WriteGeoJSON(w, result.Features, result.Message)
	}
	if err != nil {
		logger.Error("Failed to write response", "error", err)
	}
}

// requestConfig applies form overrides to the service defaults
func (h *convertHandler) requestConfig(r *http.Request) (config.ConversionConfig, string, error) {
	cfg := h.converter.Defaults()

	if v := r.FormValue("epsg"); v != "" {
		cfg.EPSG = v
	}
	for name, target := range map[string]*bool{"smooth": &cfg.Smooth, "smooth_z": &cfg.SmoothZ} {
		v := r.FormValue(name)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, "", status.Errorf(codes.InvalidArgument, "%s must be true or false, got %q", name, v)
		}
		*target = b
	}

	format := strings.ToLower(r.FormValue("format"))
	switch format {
	case "", "geojson":
		format = "geojson"
	case "kml":
	default:
		return cfg, "", status.Errorf(codes.InvalidArgument, "unsupported format %q", format)
	}
	return cfg, format, nil
}

func readFiles(form *multipart.Form, field string) ([]services.File, error) {
	headers := form.File[field]
	if len(headers) == 0 {
		return nil, status.Errorf(codes.InvalidArgument, "at least one file is required in %s", field)
	}
	files := make([]services.File, 0, len(headers))
	for _, fh := range headers {
		data, err := readPart(fh)
		if err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "failed to read %s: %v", fh.Filename, err)
		}
		files = append(files, services.File{Name: fh.Filename, Data: data})
	}
	return files, nil
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// writeError responds with a google.rpc.Status body, the same shape grpc-gateway uses, with the
// request ID attached as a RequestInfo detail
func writeError(w http.ResponseWriter, logger *slog.Logger, requestID string, err error) {
	code := services.StatusCode(err)
	msg := err.Error()
	if st, ok := status.FromError(err); ok {
		msg = st.Message()
	}

	httpStatus := runtime.HTTPStatusFromCode(code)
	if code == codes.Unimplemented {
		httpStatus = http.StatusMethodNotAllowed
	}

	if httpStatus >= http.StatusInternalServerError {
		logger.Error("Conversion failed", "code", code.String(), "error", err)
	} else {
		logger.Warn("Conversion rejected", "code", code.String(), "error", err)
	}

	st := status.New(code, msg)
	if detailed, detailErr := st.WithDetails(&errdetails.RequestInfo{RequestId: requestID}); detailErr == nil {
		st = detailed
	}
	body, marshalErr := protojson.Marshal(st.Proto())
	if marshalErr != nil {
		logger.Error("Failed to encode error response", "error", marshalErr)
		http.Error(w, msg, httpStatus)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)
	if _, writeErr := w.Write(body); writeErr != nil {
		logger.Error("Failed to write error response", "error", writeErr)
	}
}
