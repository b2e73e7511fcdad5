package rest

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jhafner/sportmate_api/internal/model"
	"github.com/jhafner/sportmate_api/util"
	"github.com/jhafner/sportmate_api/util/tracing"
	"github.com/jhafner/sportmate_api/util/values"
)

func (api *API) EventRoutes() chi.Router {
	mux := chi.NewRouter()

	mux.Group(func(r chi.Router) {
		r.Use(api.RequireLogin)
		r.Method(http.MethodPost, "/", Handler(api.CreateEvent))
		r.Method(http.MethodGet, "/", Handler(api.ListEvents))

		r.Method(http.MethodGet, "/{eventID}", Handler(api.GetEventByID))
		r.Method(http.MethodPost, "/{eventID}/join", Handler(api.JoinEvent))
		r.Method(http.MethodDelete, "/{eventID}/leave", Handler(api.LeaveEvent))
		r.Method(http.MethodPut, "/{eventID}/pacer", Handler(api.SetPacer))
		r.Method(http.MethodPost, "/{eventID}/boost", Handler(api.BoostEvent))
		r.Method(http.MethodDelete, "/{eventID}/boost", Handler(api.UnboostEvent))
	})

	return mux
}

func (api *API) CreateEvent(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	var req model.CreateEventRequest
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}

	userID, err := util.GetUserIDFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get user ID from context", values.NotAuthorised, &tc)
	}

	event, status, message, err := api.CreateEventHelper(r.Context(), userID, req)
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}

	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
		Data:       event,
	}
}

func (api *API) ListEvents(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	filter, err := parseEventFilter(r.URL.Query())
	if err != nil {
		return respondWithError(err, "invalid filter parameters", values.BadRequest, &tc)
	}

	events, status, message, err := api.ListEventsHelper(r.Context(), filter)
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}

	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
		Data:       events,
	}
}

func (api *API) GetEventByID(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	eventID, err := uuid.Parse(chi.URLParam(r, "eventID"))
	if err != nil {
		return respondWithError(err, "invalid event id", values.BadRequest, &tc)
	}

	viewerID, err := util.GetUserIDFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get user ID from context", values.NotAuthorised, &tc)
	}

	detail, status, message, err := api.GetEventByIDHelper(r.Context(), eventID, viewerID)
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}

	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
		Data:       detail,
	}
}

func (api *API) JoinEvent(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	eventID, err := uuid.Parse(chi.URLParam(r, "eventID"))
	if err != nil {
		return respondWithError(err, "invalid event id", values.BadRequest, &tc)
	}

	userID, err := util.GetUserIDFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get user ID from context", values.NotAuthorised, &tc)
	}

	pacer := false
	if raw := r.URL.Query().Get("pacer"); raw != "" {
		pacer, err = strconv.ParseBool(raw)
		if err != nil {
			return respondWithError(err, "invalid pacer flag", values.BadRequest, &tc)
		}
	}

	status, message, err := api.JoinEventHelper(r.Context(), eventID, userID, pacer)
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}

	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
	}
}

func (api *API) LeaveEvent(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	eventID, err := uuid.Parse(chi.URLParam(r, "eventID"))
	if err != nil {
		return respondWithError(err, "invalid event id", values.BadRequest, &tc)
	}

	userID, err := util.GetUserIDFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get user ID from context", values.NotAuthorised, &tc)
	}

	status, message, err := api.LeaveEventHelper(r.Context(), eventID, userID)
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}

	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
	}
}

func (api *API) SetPacer(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	eventID, err := uuid.Parse(chi.URLParam(r, "eventID"))
	if err != nil {
		return respondWithError(err, "invalid event id", values.BadRequest, &tc)
	}

	userID, err := util.GetUserIDFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get user ID from context", values.NotAuthorised, &tc)
	}

	var req model.SetPacerRequest
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}

	status, message, err := api.SetPacerHelper(r.Context(), eventID, userID, req.Pacer)
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}

	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
	}
}

func (api *API) BoostEvent(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	eventID, err := uuid.Parse(chi.URLParam(r, "eventID"))
	if err != nil {
		return respondWithError(err, "invalid event id", values.BadRequest, &tc)
	}

	userID, err := util.GetUserIDFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get user ID from context", values.NotAuthorised, &tc)
	}

	status, message, err := api.BoostEventHelper(r.Context(), eventID, userID)
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}

	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
	}
}

func (api *API) UnboostEvent(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	eventID, err := uuid.Parse(chi.URLParam(r, "eventID"))
	if err != nil {
		return respondWithError(err, "invalid event id", values.BadRequest, &tc)
	}

	userID, err := util.GetUserIDFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get user ID from context", values.NotAuthorised, &tc)
	}

	status, message, err := api.UnboostEventHelper(r.Context(), eventID, userID)
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}

	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
	}
}

// parseEventFilter reads the list-endpoint query parameters. Sports and
// levels arrive comma separated, dates as RFC 3339.
func parseEventFilter(query url.Values) (model.EventFilter, error) {
	var filter model.EventFilter

	filter.City = query.Get("city")
	if raw := query.Get("sports"); raw != "" {
		filter.Sports = strings.Split(raw, ",")
	}
	if raw := query.Get("levels"); raw != "" {
		filter.Levels = strings.Split(raw, ",")
	}

	if raw := query.Get("date_from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return model.EventFilter{}, fmt.Errorf("parsing date_from: %w", err)
		}
		filter.DateFrom = &t
	}
	if raw := query.Get("date_to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return model.EventFilter{}, fmt.Errorf("parsing date_to: %w", err)
		}
		filter.DateTo = &t
	}

	if raw := query.Get("min_distance"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return model.EventFilter{}, fmt.Errorf("parsing min_distance: %w", err)
		}
		filter.MinDistance = &v
	}
	if raw := query.Get("max_distance"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return model.EventFilter{}, fmt.Errorf("parsing max_distance: %w", err)
		}
		filter.MaxDistance = &v
	}

	if raw := query.Get("pacer_wanted"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return model.EventFilter{}, fmt.Errorf("parsing pacer_wanted: %w", err)
		}
		filter.PacerWanted = v
	}
	if raw := query.Get("pacer_offered"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return model.EventFilter{}, fmt.Errorf("parsing pacer_offered: %w", err)
		}
		filter.PacerOffered = v
	}

	return filter, nil
}
