package router

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/BerylCAtieno/medical-record-assistant/internal/handlers"
	"github.com/BerylCAtieno/medical-record-assistant/internal/middleware"
	"github.com/BerylCAtieno/medical-record-assistant/internal/services"
	"github.com/BerylCAtieno/medical-record-assistant/internal/utils"
)

type Options struct {
	MaxFileSize int64
}

func NewRouter(analysis services.AnalysisService, modes services.ModeService, opts Options, logger *utils.Logger) http.Handler {
	r := mux.NewRouter()

	// Middlewares
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS())
	r.Use(middleware.Recovery(logger))

	uploadHandler := handlers.NewUploadHandler(analysis, opts.MaxFileSize, logger)
	modeHandler := handlers.NewModeHandler(modes, logger)

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	}).Methods(http.MethodGet)

	// OPTIONS is routed so CORS preflights reach the middleware.
	api.HandleFunc("/upload", uploadHandler.Upload).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/inference-mode", modeHandler.GetMode).Methods(http.MethodGet)
	api.HandleFunc("/inference-mode", modeHandler.SetMode).Methods(http.MethodPost, http.MethodOptions)

	return r
}
