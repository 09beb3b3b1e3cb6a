// internal/models/settings.go
package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	dbgen "github.com/tennisverein/courtbook/internal/db/generated"
)

// Settings is the single club-wide configuration record.
type Settings struct {
	MaxBookingDuration      int       `json:"maxBookingDuration"`
	AdvanceBookingPeriod    int       `json:"advanceBookingPeriod"`
	MaxSimultaneousBookings int       `json:"maxSimultaneousBookings"`
	OpeningTime             string    `json:"openingTime"`
	ClosingTime             string    `json:"closingTime"`
	MaintenanceDay          string    `json:"maintenanceDay"`
	MaintenanceTime         string    `json:"maintenanceTime"`
	AutoCleanupDays         int       `json:"autoCleanupDays"`
	UpdatedAt               time.Time `json:"updatedAt"`
	UpdatedBy               *int64    `json:"updatedBy,omitempty"`
}

// SettingsPatch holds the fields an admin wants to change. Nil fields keep
// their current value.
type SettingsPatch struct {
	MaxBookingDuration      *int    `json:"maxBookingDuration" validate:"omitempty,min=30,max=240"`
	AdvanceBookingPeriod    *int    `json:"advanceBookingPeriod" validate:"omitempty,min=1,max=365"`
	MaxSimultaneousBookings *int    `json:"maxSimultaneousBookings" validate:"omitempty,min=1,max=10"`
	OpeningTime             *string `json:"openingTime" validate:"omitempty,clock"`
	ClosingTime             *string `json:"closingTime" validate:"omitempty,clock"`
	MaintenanceDay          *string `json:"maintenanceDay" validate:"omitempty,weekday"`
	MaintenanceTime         *string `json:"maintenanceTime" validate:"omitempty,clock"`
	AutoCleanupDays         *int    `json:"autoCleanupDays" validate:"omitempty,min=1,max=365"`
}

func DefaultSettings() Settings {
	return Settings{
		MaxBookingDuration:      60,
		AdvanceBookingPeriod:    14,
		MaxSimultaneousBookings: 3,
		OpeningTime:             "08:00",
		ClosingTime:             "22:00",
		MaintenanceDay:          "monday",
		MaintenanceTime:         "06:00",
		AutoCleanupDays:         7,
	}
}

// OpeningMinutes and ClosingMinutes return the opening hours as minutes after
// midnight. Stored values are validated on write, so parse errors fall back
// to the defaults.
func (s Settings) OpeningMinutes() int {
	if m, err := ParseClock(s.OpeningTime); err == nil {
		return m
	}
	m, _ := ParseClock(DefaultSettings().OpeningTime)
	return m
}

func (s Settings) ClosingMinutes() int {
	if m, err := ParseClock(s.ClosingTime); err == nil {
		return m
	}
	m, _ := ParseClock(DefaultSettings().ClosingTime)
	return m
}

func settingsFromRow(row dbgen.Setting) Settings {
	s := Settings{
		MaxBookingDuration:      int(row.MaxBookingDuration),
		AdvanceBookingPeriod:    int(row.AdvanceBookingPeriod),
		MaxSimultaneousBookings: int(row.MaxSimultaneousBookings),
		OpeningTime:             row.OpeningTime,
		ClosingTime:             row.ClosingTime,
		MaintenanceDay:          row.MaintenanceDay,
		MaintenanceTime:         row.MaintenanceTime,
		AutoCleanupDays:         int(row.AutoCleanupDays),
		UpdatedAt:               row.UpdatedAt,
	}
	if row.UpdatedBy.Valid {
		updatedBy := row.UpdatedBy.Int64
		s.UpdatedBy = &updatedBy
	}
	return s
}

// GetSettings returns the club settings, persisting the defaults the first
// time they are read.
func GetSettings(ctx context.Context, q dbgen.Querier) (Settings, error) {
	if q == nil {
		return Settings{}, fmt.Errorf("queries are required")
	}

	row, err := q.GetSettings(ctx)
	if err == nil {
		return settingsFromRow(row), nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return Settings{}, fmt.Errorf("load settings: %w", err)
	}

	defaults := DefaultSettings()
	if err := q.InsertDefaultSettings(ctx, dbgen.InsertDefaultSettingsParams{
		MaxBookingDuration:      int64(defaults.MaxBookingDuration),
		AdvanceBookingPeriod:    int64(defaults.AdvanceBookingPeriod),
		MaxSimultaneousBookings: int64(defaults.MaxSimultaneousBookings),
		OpeningTime:             defaults.OpeningTime,
		ClosingTime:             defaults.ClosingTime,
		MaintenanceDay:          defaults.MaintenanceDay,
		MaintenanceTime:         defaults.MaintenanceTime,
		AutoCleanupDays:         int64(defaults.AutoCleanupDays),
	}); err != nil {
		return Settings{}, fmt.Errorf("insert default settings: %w", err)
	}

	row, err = q.GetSettings(ctx)
	if err != nil {
		return Settings{}, fmt.Errorf("load settings: %w", err)
	}
	return settingsFromRow(row), nil
}

// UpdateSettings merges patch over the stored settings and persists the
// result. Callers pass a transactional querier so the read and the upsert
// see the same row.
func UpdateSettings(ctx context.Context, q dbgen.Querier, identity *Identity, patch SettingsPatch) (Settings, error) {
	if err := RequireAdmin(identity); err != nil {
		return Settings{}, err
	}
	if err := ValidateStruct(patch); err != nil {
		return Settings{}, err
	}

	current, err := GetSettings(ctx, q)
	if err != nil {
		return Settings{}, err
	}

	next := current
	if patch.MaxBookingDuration != nil {
		next.MaxBookingDuration = *patch.MaxBookingDuration
	}
	if patch.AdvanceBookingPeriod != nil {
		next.AdvanceBookingPeriod = *patch.AdvanceBookingPeriod
	}
	if patch.MaxSimultaneousBookings != nil {
		next.MaxSimultaneousBookings = *patch.MaxSimultaneousBookings
	}
	if patch.OpeningTime != nil {
		next.OpeningTime = *patch.OpeningTime
	}
	if patch.ClosingTime != nil {
		next.ClosingTime = *patch.ClosingTime
	}
	if patch.MaintenanceDay != nil {
		next.MaintenanceDay = strings.ToLower(strings.TrimSpace(*patch.MaintenanceDay))
	}
	if patch.MaintenanceTime != nil {
		next.MaintenanceTime = *patch.MaintenanceTime
	}
	if patch.AutoCleanupDays != nil {
		next.AutoCleanupDays = *patch.AutoCleanupDays
	}

	if next.OpeningMinutes() >= next.ClosingMinutes() {
		return Settings{}, invalidField("closingTime", "must be after openingTime")
	}

	row, err := q.UpsertSettings(ctx, dbgen.UpsertSettingsParams{
		MaxBookingDuration:      int64(next.MaxBookingDuration),
		AdvanceBookingPeriod:    int64(next.AdvanceBookingPeriod),
		MaxSimultaneousBookings: int64(next.MaxSimultaneousBookings),
		OpeningTime:             next.OpeningTime,
		ClosingTime:             next.ClosingTime,
		MaintenanceDay:          next.MaintenanceDay,
		MaintenanceTime:         next.MaintenanceTime,
		AutoCleanupDays:         int64(next.AutoCleanupDays),
		UpdatedBy:               sql.NullInt64{Int64: identity.UserID, Valid: true},
	})
	if err != nil {
		return Settings{}, fmt.Errorf("save settings: %w", err)
	}
	return settingsFromRow(row), nil
}
