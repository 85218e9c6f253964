package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"log/slog"

	"github.com/courseo/cartosync/internal/pkg/application/catalog"
	"github.com/courseo/cartosync/internal/pkg/application/geocoding"
	"github.com/courseo/cartosync/internal/pkg/application/sitemap"
	"github.com/courseo/cartosync/internal/pkg/presentation/api/auth"
	"github.com/courseo/cartosync/pkg/types"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("cartosync/api")

func RegisterHandlers(ctx context.Context, router *chi.Mux, policies io.Reader, mapView sitemap.SiteMap, loader *catalog.Loader, geocoder *geocoding.Service) (*chi.Mux, error) {

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	log := logging.GetFromContext(ctx)

	authenticator, err := auth.NewAuthenticator(ctx, log, policies)
	if err != nil {
		return nil, fmt.Errorf("failed to create api authenticator: %w", err)
	}

	router.Route("/api/v0", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authenticator)

			r.Get("/sites", listSitesHandler(log, loader))
			r.Get("/poles", listPolesHandler(log, loader))

			r.Route("/map", func(r chi.Router) {
				r.Get("/", getMapHandler(log, mapView))
				r.Post("/refresh", refreshMapHandler(log, mapView))
				r.Put("/filters/{dimension}", setAllFiltersHandler(log, mapView))
				r.Put("/filters/{dimension}/{token}", toggleFilterHandler(log, mapView))
			})

			r.Post("/geocode", geocodeAllHandler(log, loader, geocoder))
			r.Post("/sites/{siteID}/geocode", geocodeSiteHandler(log, loader, geocoder))
		})
	})

	return router, nil
}

func listSitesHandler(log *slog.Logger, loader *catalog.Loader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		defer r.Body.Close()

		ctx, span := tracer.Start(r.Context(), "list-sites")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, requestLogger := o11y.AddTraceIDToLoggerAndStoreInContext(span, log, ctx)

		force := r.URL.Query().Get("force") == "true"

		sites, err := loader.Sites(ctx, force)
		if err != nil {
			requestLogger.Error("unable to fetch sites", "err", err.Error())
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		offset, limit := pagingParams(r)
		writeJSON(w, requestLogger, http.StatusOK, types.NewCollection(sites, offset, limit))
	}
}

func listPolesHandler(log *slog.Logger, loader *catalog.Loader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		defer r.Body.Close()

		ctx, span := tracer.Start(r.Context(), "list-poles")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, requestLogger := o11y.AddTraceIDToLoggerAndStoreInContext(span, log, ctx)

		poles, err := loader.Poles(ctx, false)
		if err != nil {
			requestLogger.Error("unable to fetch poles", "err", err.Error())
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		offset, limit := pagingParams(r)
		writeJSON(w, requestLogger, http.StatusOK, types.NewCollection(poles, offset, limit))
	}
}

func getMapHandler(log *slog.Logger, mapView sitemap.SiteMap) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		defer r.Body.Close()

		ctx, span := tracer.Start(r.Context(), "get-map")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, requestLogger := o11y.AddTraceIDToLoggerAndStoreInContext(span, log, ctx)

		writeJSON(w, requestLogger, http.StatusOK, mapView.Snapshot(ctx))
	}
}

func refreshMapHandler(log *slog.Logger, mapView sitemap.SiteMap) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		defer r.Body.Close()

		ctx, span := tracer.Start(r.Context(), "refresh-map")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, requestLogger := o11y.AddTraceIDToLoggerAndStoreInContext(span, log, ctx)

		force, _ := strconv.ParseBool(r.URL.Query().Get("force"))
		if force {
			mapView.Invalidate(ctx)
		}

		result, err := mapView.Refresh(ctx, force)
		if err != nil {
			requestLogger.Error("unable to refresh map", "err", err.Error())
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		writeJSON(w, requestLogger, http.StatusOK, result)
	}
}

func toggleFilterHandler(log *slog.Logger, mapView sitemap.SiteMap) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		defer r.Body.Close()

		ctx, span := tracer.Start(r.Context(), "toggle-filter")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, requestLogger := o11y.AddTraceIDToLoggerAndStoreInContext(span, log, ctx)

		dimension := chi.URLParam(r, "dimension")
		token := chi.URLParam(r, "token")

		result, err := mapView.Toggle(ctx, dimension, token)
		if err != nil {
			requestLogger.Error("unable to toggle filter", "dimension", dimension, "token", token, "err", err.Error())
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		writeJSON(w, requestLogger, http.StatusOK, result)
	}
}

func setAllFiltersHandler(log *slog.Logger, mapView sitemap.SiteMap) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		defer r.Body.Close()

		ctx, span := tracer.Start(r.Context(), "set-all-filters")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, requestLogger := o11y.AddTraceIDToLoggerAndStoreInContext(span, log, ctx)

		body, err := io.ReadAll(r.Body)
		if err != nil {
			requestLogger.Error("unable to read body", "err", err.Error())
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		var req struct {
			Visible bool `json:"visible"`
		}
		err = json.Unmarshal(body, &req)
		if err != nil {
			requestLogger.Error("unable to unmarshal body", "err", err.Error())
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		dimension := chi.URLParam(r, "dimension")

		result, err := mapView.SetAll(ctx, dimension, req.Visible)
		if err != nil {
			requestLogger.Error("unable to set filters", "dimension", dimension, "err", err.Error())
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		writeJSON(w, requestLogger, http.StatusOK, result)
	}
}

func geocodeAllHandler(log *slog.Logger, loader *catalog.Loader, geocoder *geocoding.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		defer r.Body.Close()

		ctx, span := tracer.Start(r.Context(), "geocode-all-sites")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, requestLogger := o11y.AddTraceIDToLoggerAndStoreInContext(span, log, ctx)

		sites, err := loader.AllSites(ctx)
		if err != nil {
			requestLogger.Error("unable to fetch sites", "err", err.Error())
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		summary := geocoder.GeocodeAll(ctx, sites)
		requestLogger.Info("geocoding batch done",
			"total", summary.Total, "resolved", summary.Resolved,
			"from_cache", summary.FromCache, "failed", summary.Failed)

		writeJSON(w, requestLogger, http.StatusOK, summary)
	}
}

func geocodeSiteHandler(log *slog.Logger, loader *catalog.Loader, geocoder *geocoding.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		defer r.Body.Close()

		ctx, span := tracer.Start(r.Context(), "geocode-site")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, requestLogger := o11y.AddTraceIDToLoggerAndStoreInContext(span, log, ctx)

		siteID := chi.URLParam(r, "siteID")
		if siteID != "" {
			requestLogger = requestLogger.With(slog.String("site_id", siteID))
		}

		sites, err := loader.AllSites(ctx)
		if err != nil {
			requestLogger.Error("unable to fetch sites", "err", err.Error())
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		var site *types.Site
		for i := range sites {
			if sites[i].ID == siteID {
				site = &sites[i]
				break
			}
		}
		if site == nil {
			requestLogger.Debug("site not found")
			w.WriteHeader(http.StatusNotFound)
			return
		}

		result, err := geocoder.GeocodeSite(ctx, *site)
		if err != nil {
			requestLogger.Error("unable to geocode site", "err", err.Error())
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		if result == nil {
			// unusable or unresolvable address
			writeJSON(w, requestLogger, http.StatusOK, map[string]any{"found": false})
			return
		}

		writeJSON(w, requestLogger, http.StatusOK, map[string]any{
			"found":     true,
			"latitude":  result.Latitude,
			"longitude": result.Longitude,
			"fromCache": result.FromCache,
		})
	}
}

func pagingParams(r *http.Request) (uint64, uint64) {
	offset, _ := strconv.ParseUint(r.URL.Query().Get("offset"), 10, 64)
	limit, _ := strconv.ParseUint(r.URL.Query().Get("limit"), 10, 64)
	return offset, limit
}

func writeJSON(w http.ResponseWriter, log *slog.Logger, status int, body any) {
	b, err := json.Marshal(body)
	if err != nil {
		log.Error("unable to marshal response", "err", err.Error())
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(b)
}
