package rest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhafner/sportmate_api/internal/model"
	"github.com/jhafner/sportmate_api/util"
	"github.com/jhafner/sportmate_api/util/realtime"
	"github.com/jhafner/sportmate_api/util/values"
)

func (api *API) CreateEventHelper(ctx context.Context, userID uuid.UUID, req model.CreateEventRequest) (model.Event, string, string, error) {
	if err := util.ValidateStruct(req); err != nil {
		return model.Event{}, values.Unprocessable, "Invalid event fields", err
	}

	date, err := util.ParseEventDate(req.Date, req.Time, time.Now())
	if err != nil {
		return model.Event{}, values.Unprocessable, "Invalid date or time", err
	}

	if (req.Latitude == nil) != (req.Longitude == nil) {
		return model.Event{}, values.Unprocessable, "Meeting point needs both latitude and longitude", fmt.Errorf("incomplete meeting point")
	}

	// Distance and pace only apply to distance sports, level only to
	// sports that use leveling. Inapplicable fields are dropped.
	if !api.Config.IsDistanceSport(req.Sport) {
		req.DistanceKm = nil
		req.Pace = nil
	}
	if api.Config.IsLevelSport(req.Sport) {
		if req.Level == nil || *req.Level == "" {
			return model.Event{}, values.Unprocessable, "Level is required for this sport", fmt.Errorf("missing level for sport %s", req.Sport)
		}
	} else {
		req.Level = nil
	}

	visibility := req.Visibility
	if visibility == "" {
		visibility = "public"
	}

	event := model.Event{
		ID:           util.GenerateUUID(),
		HostID:       userID,
		Title:        req.Title,
		Sport:        req.Sport,
		Date:         date,
		City:         req.City,
		LocationText: req.LocationText,
		DistanceKm:   req.DistanceKm,
		Pace:         req.Pace,
		Level:        req.Level,
		Description:  req.Description,
		Visibility:   visibility,
		PacerWanted:  req.PacerWanted,
	}
	if req.Latitude != nil && req.Longitude != nil {
		event.MeetingPoint = util.PointFromLatLon(*req.Latitude, *req.Longitude)
	}

	host := model.Participant{
		EventID: event.ID,
		UserID:  userID,
	}
	host.DisplayName, host.AvatarURL = api.profileSnapshot(ctx, userID)

	created, err := api.CreateEventRepo(ctx, event, host)
	if err != nil {
		return model.Event{}, values.Error, "Failed to create event", err
	}

	api.Deps.Realtime.Notify(realtime.Change{
		Table:   realtime.TableEvents,
		Type:    realtime.ChangeInsert,
		EventID: created.ID,
	})

	return created, values.Created, "Event created successfully", nil
}

func (api *API) ListEventsHelper(ctx context.Context, filter model.EventFilter) ([]model.EventWithCounts, string, string, error) {
	if filter.MinDistance != nil && filter.MaxDistance != nil && *filter.MinDistance > *filter.MaxDistance {
		return nil, values.BadRequest, "Invalid distance range", fmt.Errorf("min distance exceeds max distance")
	}

	// Distance bounds only apply when at least one selected sport is
	// distance based, or no sport filter is set.
	if len(filter.Sports) > 0 {
		anyDistance := false
		for _, sport := range filter.Sports {
			if api.Config.IsDistanceSport(sport) {
				anyDistance = true
				break
			}
		}
		if !anyDistance {
			filter.MinDistance = nil
			filter.MaxDistance = nil
		}
	}

	events, err := api.ListEventsRepo(ctx, filter)
	if err != nil {
		return nil, values.Error, "Failed to fetch events", err
	}
	if len(events) == 0 {
		return []model.EventWithCounts{}, values.Success, "Events fetched successfully", nil
	}

	ids := make([]uuid.UUID, 0, len(events))
	for _, event := range events {
		ids = append(ids, event.ID)
	}

	tallies, err := api.CountParticipantsRepo(ctx, ids)
	if err != nil {
		return nil, values.Error, "Failed to fetch participant counts", err
	}
	boosts, err := api.CountBoostsRepo(ctx, ids)
	if err != nil {
		return nil, values.Error, "Failed to fetch boost counts", err
	}

	annotated := buildEventList(events, tallies, boosts, filter.PacerOffered)
	return annotated, values.Success, "Events fetched successfully", nil
}

// buildEventList folds the aggregate tallies onto the filtered events,
// keeping the repo ordering. With pacerOffered set, events without a
// pacer are dropped after aggregation.
func buildEventList(events []model.Event, tallies map[uuid.UUID]participantTally, boosts map[uuid.UUID]int, pacerOffered bool) []model.EventWithCounts {
	annotated := make([]model.EventWithCounts, 0, len(events))
	for _, event := range events {
		tally := tallies[event.ID]
		item := model.EventWithCounts{
			Event:             event,
			ParticipantsCount: tally.Count,
			PacerCount:        tally.Pacers,
			BoostsCount:       boosts[event.ID],
		}
		if pacerOffered && item.PacerCount == 0 {
			continue
		}
		annotated = append(annotated, item)
	}
	return annotated
}

func (api *API) GetEventByIDHelper(ctx context.Context, eventID, viewerID uuid.UUID) (model.EventDetail, string, string, error) {
	detail, err := api.GetEventByIDRepo(ctx, eventID, viewerID)
	if err == ErrEventNotFound {
		return model.EventDetail{}, values.NotFound, "Event not found", err
	}
	if err != nil {
		return model.EventDetail{}, values.Error, "Failed to fetch event", err
	}
	return detail, values.Success, "Event fetched successfully", nil
}

func (api *API) JoinEventHelper(ctx context.Context, eventID, userID uuid.UUID, pacer bool) (string, string, error) {
	_, err := api.GetEventSummaryRepo(ctx, eventID)
	if err == ErrEventNotFound {
		return values.NotFound, "Event not found", err
	}
	if err != nil {
		return values.Error, "Failed to fetch event", err
	}

	participant := model.Participant{
		EventID: eventID,
		UserID:  userID,
		Pacer:   pacer,
	}
	participant.DisplayName, participant.AvatarURL = api.profileSnapshot(ctx, userID)

	if err := api.UpsertParticipantRepo(ctx, participant); err != nil {
		return values.Error, "Failed to join event", err
	}

	api.Deps.Realtime.Notify(realtime.Change{
		Table:   realtime.TableParticipants,
		Type:    realtime.ChangeInsert,
		EventID: eventID,
	})

	return values.Success, "Joined event", nil
}

func (api *API) LeaveEventHelper(ctx context.Context, eventID, userID uuid.UUID) (string, string, error) {
	if err := api.DeleteParticipantRepo(ctx, eventID, userID); err != nil {
		return values.Error, "Failed to leave event", err
	}

	api.Deps.Realtime.Notify(realtime.Change{
		Table:   realtime.TableParticipants,
		Type:    realtime.ChangeDelete,
		EventID: eventID,
	})

	return values.Success, "Left event", nil
}

func (api *API) SetPacerHelper(ctx context.Context, eventID, userID uuid.UUID, pacer bool) (string, string, error) {
	participant := model.Participant{
		EventID: eventID,
		UserID:  userID,
		Pacer:   pacer,
	}
	participant.DisplayName, participant.AvatarURL = api.profileSnapshot(ctx, userID)

	if err := api.UpsertParticipantRepo(ctx, participant); err != nil {
		return values.Error, "Failed to update pacer status", err
	}

	api.Deps.Realtime.Notify(realtime.Change{
		Table:   realtime.TableParticipants,
		Type:    realtime.ChangeUpdate,
		EventID: eventID,
	})

	return values.Success, "Pacer status updated", nil
}

func (api *API) BoostEventHelper(ctx context.Context, eventID, userID uuid.UUID) (string, string, error) {
	summary, err := api.GetEventSummaryRepo(ctx, eventID)
	if err == ErrEventNotFound {
		return values.NotFound, "Event not found", err
	}
	if err != nil {
		return values.Error, "Failed to fetch event", err
	}

	if !boostAllowed(summary.Date, time.Now()) {
		return values.NotAllowed, "Boosting opens once the event has started", fmt.Errorf("event has not started yet")
	}

	inserted, err := api.InsertBoostRepo(ctx, eventID, userID)
	if err != nil {
		return values.Error, "Failed to boost event", err
	}
	if !inserted {
		return values.Conflict, "Event already boosted", fmt.Errorf("duplicate boost")
	}

	api.Deps.Realtime.Notify(realtime.Change{
		Table:   realtime.TableBoosts,
		Type:    realtime.ChangeInsert,
		EventID: eventID,
	})

	return values.Success, "Event boosted", nil
}

func (api *API) UnboostEventHelper(ctx context.Context, eventID, userID uuid.UUID) (string, string, error) {
	if err := api.DeleteBoostRepo(ctx, eventID, userID); err != nil {
		return values.Error, "Failed to remove boost", err
	}

	api.Deps.Realtime.Notify(realtime.Change{
		Table:   realtime.TableBoosts,
		Type:    realtime.ChangeDelete,
		EventID: eventID,
	})

	return values.Success, "Boost removed", nil
}

// boostAllowed gates boosting to events whose scheduled time has passed.
func boostAllowed(eventDate, now time.Time) bool {
	return !now.Before(eventDate)
}

// profileSnapshot resolves the denormalized display fields written
// onto participants and messages. A missing profile leaves them nil.
func (api *API) profileSnapshot(ctx context.Context, userID uuid.UUID) (*string, *string) {
	profile, err := api.GetProfileRepo(ctx, userID)
	if err != nil {
		return nil, nil
	}
	return profile.FullName, profile.AvatarURL
}
