// internal/models/court_blocks.go
package models

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	dbgen "github.com/tennisverein/courtbook/internal/db/generated"
)

type CourtBlock struct {
	ID        int64     `json:"id"`
	CourtID   int64     `json:"courtId"`
	StartDate string    `json:"startDate"`
	EndDate   string    `json:"endDate"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"createdAt"`
}

type NewCourtBlock struct {
	CourtID   int64  `json:"courtId" validate:"required,gt=0"`
	StartDate string `json:"startDate" validate:"required,date"`
	EndDate   string `json:"endDate" validate:"required,date"`
	Reason    string `json:"reason" validate:"required,min=3,max=100"`
}

func courtBlockFromRow(row dbgen.CourtBlock) CourtBlock {
	return CourtBlock{
		ID:        row.ID,
		CourtID:   row.CourtID,
		StartDate: row.StartDate,
		EndDate:   row.EndDate,
		Reason:    row.Reason,
		CreatedAt: row.CreatedAt,
	}
}

func courtBlocksFromRows(rows []dbgen.CourtBlock) []CourtBlock {
	blocks := make([]CourtBlock, 0, len(rows))
	for _, row := range rows {
		blocks = append(blocks, courtBlockFromRow(row))
	}
	return blocks
}

// ValidateCourtID checks id against the number of courts the club runs.
// A non-positive courts value disables the upper bound.
func ValidateCourtID(id int64, courts int) error {
	if id <= 0 {
		return invalidField("courtId", "must be greater than 0")
	}
	if courts > 0 && id > int64(courts) {
		return invalidField("courtId", "must be at most "+strconv.Itoa(courts))
	}
	return nil
}

// ListCourtBlocks returns every blackout, newest start date first.
func ListCourtBlocks(ctx context.Context, q dbgen.Querier, identity *Identity) ([]CourtBlock, error) {
	if err := RequireAdmin(identity); err != nil {
		return nil, err
	}
	rows, err := q.ListCourtBlocks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list court blocks: %w", err)
	}
	return courtBlocksFromRows(rows), nil
}

// CourtBlocksForDate returns the blackouts on courtID whose range contains date.
func CourtBlocksForDate(ctx context.Context, q dbgen.Querier, courtID int64, date string) ([]CourtBlock, error) {
	rows, err := q.ListCourtBlocksForDate(ctx, dbgen.ListCourtBlocksForDateParams{
		CourtID: courtID,
		Date:    date,
	})
	if err != nil {
		return nil, fmt.Errorf("list court blocks for date: %w", err)
	}
	return courtBlocksFromRows(rows), nil
}

func AddCourtBlock(ctx context.Context, q dbgen.Querier, identity *Identity, courts int, in NewCourtBlock) (CourtBlock, error) {
	if err := RequireAdmin(identity); err != nil {
		return CourtBlock{}, err
	}

	in.Reason = strings.TrimSpace(in.Reason)
	if err := ValidateStruct(in); err != nil {
		return CourtBlock{}, err
	}
	if err := ValidateCourtID(in.CourtID, courts); err != nil {
		return CourtBlock{}, err
	}
	// Both dates passed the layout check, so string order is date order.
	if in.StartDate > in.EndDate {
		return CourtBlock{}, ErrInvalidRange
	}

	row, err := q.CreateCourtBlock(ctx, dbgen.CreateCourtBlockParams{
		CourtID:   in.CourtID,
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
		Reason:    in.Reason,
		CreatedBy: sql.NullInt64{Int64: identity.UserID, Valid: true},
	})
	if err != nil {
		return CourtBlock{}, fmt.Errorf("create court block: %w", err)
	}
	return courtBlockFromRow(row), nil
}

func RemoveCourtBlock(ctx context.Context, q dbgen.Querier, identity *Identity, id int64) error {
	if err := RequireAdmin(identity); err != nil {
		return err
	}
	if id <= 0 {
		return ErrNotFound
	}

	removed, err := q.DeleteCourtBlock(ctx, id)
	if err != nil {
		return fmt.Errorf("delete court block: %w", err)
	}
	if removed == 0 {
		return ErrNotFound
	}
	return nil
}
