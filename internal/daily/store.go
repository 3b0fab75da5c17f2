package daily

import (
	"context"
	"database/sql"
)

// Result is one finished mission in the results log.
type Result struct {
	MissionID     string `json:"missionId"`
	Seed          string `json:"seed"`
	Mode          string `json:"mode"`
	Difficulty    string `json:"difficulty"`
	Status        string `json:"status"`
	Strikes       int    `json:"strikes"`
	TimeRemaining int    `json:"timeRemaining"`
	ElapsedMs     int64  `json:"elapsedMs"`
	Date          string `json:"date"`
}

// Store appends to and reads from the mission_results table.
type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) InsertResult(ctx context.Context, r Result) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO mission_results
			(mission_id, seed, mode, difficulty, status, strikes, time_remaining, elapsed_ms, date)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		r.MissionID, r.Seed, r.Mode, r.Difficulty, r.Status, r.Strikes, r.TimeRemaining, r.ElapsedMs, r.Date,
	)
	return err
}

// Results lists a date's results: wins first, then fastest, then fewest
// strikes. A non-positive limit defaults to 20.
func (s *Store) Results(ctx context.Context, date string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT mission_id, seed, mode, difficulty, status, strikes, time_remaining, elapsed_ms, date
		FROM mission_results
		WHERE date=?
		ORDER BY (status = 'won') DESC, elapsed_ms ASC, strikes ASC, id ASC
		LIMIT ?`, date, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Result, 0, limit)
	for rows.Next() {
		var r Result
		if err := rows.Scan(&r.MissionID, &r.Seed, &r.Mode, &r.Difficulty, &r.Status,
			&r.Strikes, &r.TimeRemaining, &r.ElapsedMs, &r.Date); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
