package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"presensi.client/internal/core/model"
	"presensi.client/internal/geolocation"
	"presensi.client/internal/ports/messaging"
	"presensi.client/pkg/telemetry"
)

// PresensiClient is the subset of the presensi API the service drives.
type PresensiClient interface {
	Get(ctx context.Context, id string) (*model.Response[model.Presensi], error)
	CheckIn(ctx context.Context, id string, loc *model.Location) (*model.Response[model.Empty], error)
	CheckOut(ctx context.Context, id string, loc *model.Location) (*model.Response[model.Empty], error)
}

// Locator resolves the current device position.
type Locator interface {
	GetCurrentPosition(ctx context.Context) (geolocation.Position, error)
}

// SessionReader exposes the signed-in user.
type SessionReader interface {
	User() *model.User
}

// ErrNotSignedIn is returned when a check-in is attempted without a session.
var ErrNotSignedIn = errors.New("not signed in")

type AttendanceService struct {
	presensi  PresensiClient
	geo       Locator
	session   SessionReader
	publisher messaging.Publisher
	mailer    EmailService
	now       func() time.Time
}

// NewAttendanceService wires the check-in/check-out flow. publisher and
// mailer may be nil, in which case events and summaries are skipped.
func NewAttendanceService(p PresensiClient, geo Locator, s SessionReader, pub messaging.Publisher, mailer EmailService) *AttendanceService {
	if pub == nil {
		pub = messaging.NopPublisher{}
	}
	if mailer == nil {
		mailer = NopEmailService{}
	}
	return &AttendanceService{
		presensi:  p,
		geo:       geo,
		session:   s,
		publisher: pub,
		mailer:    mailer,
		now:       time.Now,
	}
}

// CheckIn stamps the check-in of record presensiID. With withLocation the
// current position is resolved first and a location failure aborts the call.
func (s *AttendanceService) CheckIn(ctx context.Context, presensiID string, withLocation bool) (*model.Response[model.Empty], error) {
	return s.stamp(ctx, messaging.EventCheckIn, presensiID, withLocation)
}

// CheckOut stamps the check-out of record presensiID and mails the user a
// summary of the hours worked.
func (s *AttendanceService) CheckOut(ctx context.Context, presensiID string, withLocation bool) (*model.Response[model.Empty], error) {
	res, err := s.stamp(ctx, messaging.EventCheckOut, presensiID, withLocation)
	if err != nil {
		return nil, err
	}
	s.sendSummary(ctx, presensiID)
	return res, nil
}

func (s *AttendanceService) stamp(ctx context.Context, kind messaging.AttendanceEventType, presensiID string, withLocation bool) (*model.Response[model.Empty], error) {
	user := s.session.User()
	if user == nil {
		return nil, ErrNotSignedIn
	}

	ctx, span := otel.Tracer("attendance-service").Start(ctx, "attendance."+string(kind))
	defer span.End()
	span.SetAttributes(
		attribute.String("app.userId", user.ID),
		attribute.String("app.presensiId", presensiID),
	)
	ctx = telemetry.WithUserID(ctx, user.ID)

	var loc *model.Location
	if withLocation {
		pos, err := s.geo.GetCurrentPosition(ctx)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		loc = &model.Location{Latitude: pos.Latitude, Longitude: pos.Longitude}
	}

	call := s.presensi.CheckIn
	if kind == messaging.EventCheckOut {
		call = s.presensi.CheckOut
	}
	res, err := call(ctx, presensiID, loc)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	event := messaging.AttendanceEvent{
		Type:       kind,
		PresensiID: presensiID,
		UserID:     user.ID,
		OccurredAt: s.now().UTC(),
	}
	if loc != nil {
		event.Latitude = &loc.Latitude
		event.Longitude = &loc.Longitude
	}
	// The API already accepted the stamp, a lost event must not fail the call.
	if err := s.publisher.PublishAttendance(ctx, event); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("presensi_id", presensiID).Msg("Failed to publish attendance event")
	}

	return res, nil
}

func (s *AttendanceService) sendSummary(ctx context.Context, presensiID string) {
	if _, nop := s.mailer.(NopEmailService); nop {
		return
	}
	user := s.session.User()
	if user == nil || user.Email == "" {
		return
	}

	rec, err := s.presensi.Get(ctx, presensiID)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("presensi_id", presensiID).Msg("Could not load record for check-out summary")
		return
	}

	if err := s.mailer.SendCheckOutSummary(ctx, user.Email, user.Nama, rec.Data.HoursWorked()); err != nil {
		log.Ctx(ctx).Warn().Err(fmt.Errorf("send summary: %w", err)).Str("to", user.Email).Msg("Failed to send check-out summary")
	}
}
