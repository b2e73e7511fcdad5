package rest

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jhafner/sportmate_api/internal/model"
	"github.com/jhafner/sportmate_api/util"
	"github.com/jhafner/sportmate_api/util/tracing"
	"github.com/jhafner/sportmate_api/util/values"
)

const maxAvatarSize = 10 << 20

func (api *API) UserRoutes() chi.Router {
	mux := chi.NewRouter()

	mux.Route("/", func(r chi.Router) {
		r.Use(api.RequireLogin)
		r.Method(http.MethodGet, "/profile", Handler(api.GetProfile))
		r.Method(http.MethodPut, "/profile", Handler(api.UpdateProfile))
		r.Method(http.MethodPost, "/avatar", Handler(api.UploadAvatar))
		r.Method(http.MethodPut, "/push-token", Handler(api.SavePushToken))
		r.Method(http.MethodGet, "/candidates", Handler(api.ListCandidates))
		r.Method(http.MethodGet, "/me/boosts", Handler(api.GetMyHostBoosts))
		r.Method(http.MethodGet, "/{userID}/boosts", Handler(api.GetHostBoosts))
	})

	return mux
}

func (api *API) GetProfile(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	userID, err := util.GetUserIDFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get user ID from context", values.NotAuthorised, &tc)
	}

	profile, err := api.GetProfileRepo(r.Context(), userID)
	if err == ErrProfileNotFound {
		return respondWithError(err, "profile not found", values.NotFound, &tc)
	}
	if err != nil {
		return respondWithError(err, "failed to get profile", values.Error, &tc)
	}

	return &ServerResponse{
		Message:    "Profile retrieved successfully",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data:       profile,
	}
}

func (api *API) UpdateProfile(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	userID, err := util.GetUserIDFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get user ID from context", values.NotAuthorised, &tc)
	}

	var req model.UpsertProfileRequest
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}

	profile, err := api.UpsertProfileRepo(r.Context(), userID, req)
	if err != nil {
		return respondWithError(err, "failed to save profile", values.Error, &tc)
	}

	return &ServerResponse{
		Message:    "Profile saved successfully",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data:       profile,
	}
}

func (api *API) UploadAvatar(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	userID, err := util.GetUserIDFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get user ID from context", values.NotAuthorised, &tc)
	}

	if err := r.ParseMultipartForm(maxAvatarSize); err != nil {
		return respondWithError(err, "unable to parse upload", values.BadRequest, &tc)
	}
	file, _, err := r.FormFile("avatar")
	if err != nil {
		return respondWithError(err, "missing avatar file", values.BadRequest, &tc)
	}
	defer file.Close()

	avatarURL, err := api.Deps.Cloudinary.UploadAvatar(r.Context(), file, userID.String())
	if err != nil {
		return respondWithError(err, "failed to upload avatar", values.Error, &tc)
	}

	if err := api.UpdateAvatarRepo(r.Context(), userID, avatarURL); err != nil {
		return respondWithError(err, "failed to save avatar", values.Error, &tc)
	}

	return &ServerResponse{
		Message:    "Avatar uploaded successfully",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data:       model.AvatarUploadResponse{AvatarURL: avatarURL},
	}
}

func (api *API) SavePushToken(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	userID, err := util.GetUserIDFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get user ID from context", values.NotAuthorised, &tc)
	}

	var req model.SavePushTokenRequest
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}

	if err := api.SavePushTokenRepo(r.Context(), userID, req.Token, req.PushEnabled); err != nil {
		return respondWithError(err, "failed to save push token", values.Error, &tc)
	}

	return &ServerResponse{
		Message:    "Push token saved successfully",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
	}
}

func (api *API) ListCandidates(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	userID, err := util.GetUserIDFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get user ID from context", values.NotAuthorised, &tc)
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil {
			return respondWithError(err, "invalid limit", values.BadRequest, &tc)
		}
	}

	candidates, err := api.ListCandidatesRepo(r.Context(), userID, limit)
	if err != nil {
		return respondWithError(err, "failed to fetch candidates", values.Error, &tc)
	}

	return &ServerResponse{
		Message:    "Candidates fetched successfully",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data:       candidates,
	}
}

func (api *API) GetMyHostBoosts(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	userID, err := util.GetUserIDFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get user ID from context", values.NotAuthorised, &tc)
	}

	return api.hostBoostsResponse(r, userID, &tc)
}

func (api *API) GetHostBoosts(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	hostID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		return respondWithError(err, "invalid user id", values.BadRequest, &tc)
	}

	return api.hostBoostsResponse(r, hostID, &tc)
}

func (api *API) hostBoostsResponse(r *http.Request, hostID uuid.UUID, tc *tracing.Context) *ServerResponse {
	boosts, err := api.GetHostBoostsRepo(r.Context(), hostID)
	if err != nil {
		return respondWithError(err, "failed to fetch host boosts", values.Error, tc)
	}

	return &ServerResponse{
		Message:    "Host boosts fetched successfully",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data:       boosts,
	}
}
