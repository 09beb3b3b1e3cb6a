// internal/booking/service.go
package booking

import (
	"errors"
	"time"

	"github.com/tennisverein/courtbook/internal/db"
	dbgen "github.com/tennisverein/courtbook/internal/db/generated"
	"github.com/tennisverein/courtbook/internal/models"
)

const (
	TypeRegular     = "regular"
	TypeTournament  = "tournament"
	TypeMaintenance = "maintenance"
)

const (
	defaultSlotDuration = 60 * time.Minute
	defaultLeadTime     = 60 * time.Minute
	minutesPerDay       = 24 * 60
)

type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Recorder receives one outcome label per admission or cancellation attempt.
type Recorder interface {
	RecordAdmission(outcome string)
	RecordCancellation(outcome string)
}

type noopRecorder struct{}

func (noopRecorder) RecordAdmission(string)    {}
func (noopRecorder) RecordCancellation(string) {}

type Options struct {
	// Courts is the number of courts; court ids run from 1 to Courts.
	Courts       int
	SlotDuration time.Duration
	LeadTime     time.Duration
	Location     *time.Location
	Clock        Clock
	Recorder     Recorder
}

type Service struct {
	db          *db.DB
	courts      int
	slotMinutes int
	leadTime    time.Duration
	loc         *time.Location
	clock       Clock
	recorder    Recorder
}

func NewService(database *db.DB, opts Options) *Service {
	s := &Service{
		db:          database,
		courts:      opts.Courts,
		slotMinutes: int(opts.SlotDuration / time.Minute),
		leadTime:    opts.LeadTime,
		loc:         opts.Location,
		clock:       opts.Clock,
		recorder:    opts.Recorder,
	}
	if s.slotMinutes <= 0 {
		s.slotMinutes = int(defaultSlotDuration / time.Minute)
	}
	if s.leadTime <= 0 {
		s.leadTime = defaultLeadTime
	}
	if s.loc == nil {
		s.loc = time.UTC
	}
	if s.clock == nil {
		s.clock = systemClock{}
	}
	if s.recorder == nil {
		s.recorder = noopRecorder{}
	}
	return s
}

// Courts returns the configured number of courts.
func (s *Service) Courts() int {
	return s.courts
}

// now returns the current instant in the club time zone and the calendar
// day it falls on, expressed as midnight UTC so it compares with parsed dates.
func (s *Service) now() (time.Time, time.Time) {
	now := s.clock.Now().In(s.loc)
	y, m, d := now.Date()
	return now, time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type Booking struct {
	ID        int64     `json:"id"`
	CourtID   int64     `json:"courtId"`
	UserID    int64     `json:"userId"`
	UserName  string    `json:"userName,omitempty"`
	Date      string    `json:"date"`
	StartTime string    `json:"startTime"`
	EndTime   string    `json:"endTime"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
}

func fromRow(row dbgen.Booking) Booking {
	return Booking{
		ID:        row.ID,
		CourtID:   row.CourtID,
		UserID:    row.UserID,
		Date:      row.Date,
		StartTime: row.StartTime,
		EndTime:   row.EndTime,
		Type:      row.Type,
		CreatedAt: row.CreatedAt,
	}
}

// Outcome maps an admission or cancellation result to a metrics label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "accepted"
	case errors.Is(err, models.ErrUnauthenticated):
		return "unauthenticated"
	case errors.Is(err, models.ErrForbidden):
		return "forbidden"
	case errors.Is(err, models.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, models.ErrNotFound):
		return "not_found"
	case errors.Is(err, models.ErrQuotaExceeded):
		return "quota_exceeded"
	case errors.Is(err, models.ErrTooFarInAdvance):
		return "too_far_in_advance"
	case errors.Is(err, models.ErrInThePast):
		return "in_the_past"
	case errors.Is(err, models.ErrLeadTimeViolation):
		return "lead_time_violation"
	case errors.Is(err, models.ErrSlotBlocked):
		return "slot_blocked"
	case errors.Is(err, models.ErrSlotTaken):
		return "slot_taken"
	default:
		return "internal"
	}
}
