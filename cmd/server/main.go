package main

import (
	"fmt"
	"log"
	"log/slog"
	"net/http"

	"github.com/dpup/prefab"

	"github.com/dpup/titnyl/internal/config"
	"github.com/dpup/titnyl/internal/services"
)

func main() {
	// Load configuration using Prefab's config system
	appConfig := loadConfig()

	converter, err := services.NewConverterService(appConfig.Conversion, slog.Default())
	if err != nil {
		log.Fatalf("Failed to create converter: %v", err)
	}

	handler := &convertHandler{
		converter:      converter,
		maxUploadBytes: appConfig.Uploads.MaxUploadBytes,
	}

	slog.Info("TIT/NYL converter starting",
		"epsg", appConfig.Conversion.EPSG,
		"integration_step", appConfig.Conversion.IntegrationStep,
		"smooth_z", appConfig.Conversion.SmoothZ)

	// Server configuration (port, etc.) will be loaded from prefab.yaml/env vars
	server := prefab.New(
		prefab.WithHTTPHandlerFunc("/convert", handler.ServeHTTP),
		prefab.WithHTTPHandlerFunc("/", homepageHandler),
	)

	// Start the server (blocks until shutdown)
	if err := server.Start(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// loadConfig loads configuration using Prefab's config system
// Configuration is loaded from prefab.yaml and environment variables with PF__ prefix
func loadConfig() *config.Config {
	appConfig := config.DefaultConfig()

	// Unmarshal specific sections from Prefab's config using exact key paths
	if err := prefab.Config.Unmarshal("conversion", &appConfig.Conversion); err != nil {
		log.Fatalf("Failed to unmarshal conversion section: %v", err)
	}

	if err := prefab.Config.Unmarshal("uploads", &appConfig.Uploads); err != nil {
		log.Fatalf("Failed to unmarshal uploads section: %v", err)
	}

	if err := config.Validate(appConfig); err != nil {
		log.Fatalf("%v", err)
	}

	return appConfig
}

// homepageHandler serves a usage page at the server root
func homepageHandler(w http.ResponseWriter, r *http.Request) {
	// Only handle the root path
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	html := `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>TIT/NYL converter</title>
    <style>
        body { 
            font-family: 'Courier New', Consolas, monospace; 
            background: #000; 
            color: #0f0; 
            padding: 20px; 
            line-height: 1.4; 
        }
        a { color: #0ff; text-decoration: none; }
        pre { margin: 0; }
        .header { color: #ff0; }
    </style>
</head>
<body>
<pre>
<span class="header">TIT/NYL converter</span>

Reconstructs 3D road centerlines from Norwegian TIT (horizontal) and NYL (vertical)
alignment files and returns them as GeoJSON or KML in geographic coordinates.

<span class="header">API Endpoint:</span>

  POST /convert   multipart/form-data

    tit_files   one or more .TIT files
    nyl_files   one or more .NYL files, paired with TIT files by filename
    epsg        "auto" (default) or a code such as 25832, 5110, 5973
    smooth      true (default) integrates curvature; false uses declared endpoints only
    smooth_z    true inserts vertical curves at grade breaks (default false)
    format      geojson (default) or kml

<span class="header">Reference systems:</span>
  ETRS89 / UTM zones 31-35, ETRS89 / NTM zones 5-30, UTM 33 + NN2000

<span class="header">Example Usage:</span>
  curl -F tit_files=@E6.TIT -F nyl_files=@E6.NYL http://localhost:8000/convert
</pre>
</body>
</html>`

	if _, err := fmt.Fprint(w, html); err != nil {
		slog.Error("Failed to write homepage HTML", "error", err)
	}
}
