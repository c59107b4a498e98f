package storage

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"wordle-arena-server/room"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS match_history (
	id UUID PRIMARY KEY,
	played_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	room_id TEXT NOT NULL,
	player0_user_id TEXT NOT NULL,
	player1_user_id TEXT NOT NULL,
	player0_name TEXT NOT NULL,
	player1_name TEXT NOT NULL,
	player0_rounds INT NOT NULL,
	player1_rounds INT NOT NULL,
	winner_index SMALLINT,
	outcome TEXT NOT NULL,
	secret TEXT NOT NULL,
	disconnect_reason TEXT
);
CREATE INDEX IF NOT EXISTS idx_match_history_player0 ON match_history(player0_user_id);
CREATE INDEX IF NOT EXISTS idx_match_history_player1 ON match_history(player1_user_id);
CREATE TABLE IF NOT EXISTS player_stats (
	user_id      TEXT PRIMARY KEY,
	display_name TEXT NOT NULL DEFAULT '',
	wins         INT  NOT NULL DEFAULT 0,
	losses       INT  NOT NULL DEFAULT 0,
	draws        INT  NOT NULL DEFAULT 0,
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// Store persists and retrieves match history in Postgres.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore connects to Postgres and ensures the match_history table
// exists. If databaseURL is empty, NewStore returns (nil, nil) and no
// persistence occurs; all Store methods are nil-safe.
func NewStore(ctx context.Context, databaseURL string) (*Store, error) {
	if databaseURL == "" {
		return nil, nil
	}
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	if _, err := pool.Exec(ctx, createTableSQL); err != nil {
		pool.Close()
		return nil, err
	}
	slog.Info("connected to Postgres", "tag", "storage")
	return &Store{pool: pool}, nil
}

// Close closes the connection pool.
func (s *Store) Close() {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
}

// InsertMatchResult records a finished match and updates both players'
// win/loss/draw counters in one transaction. WinnerIdx -1 (draw or
// abandoned) is stored as NULL.
func (s *Store) InsertMatchResult(ctx context.Context, res room.Result) error {
	if s == nil || s.pool == nil {
		return nil
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var winner *int
	if res.WinnerIdx == 0 || res.WinnerIdx == 1 {
		winner = &res.WinnerIdx
	}
	var reason *string
	if res.DisconnectReason != "" {
		reason = &res.DisconnectReason
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO match_history (id, room_id, player0_user_id, player1_user_id, player0_name, player1_name, player0_rounds, player1_rounds, winner_index, outcome, secret, disconnect_reason)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		res.MatchID, res.RoomID, res.PlayerIDs[0], res.PlayerIDs[1], res.PlayerNames[0], res.PlayerNames[1],
		res.PlayerRounds[0], res.PlayerRounds[1], winner, res.Outcome, res.Secret, reason)
	if err != nil {
		return err
	}

	if res.Outcome != "abandoned" {
		for i := 0; i < 2; i++ {
			wins, losses, draws := 0, 0, 0
			switch {
			case res.WinnerIdx == i:
				wins = 1
			case res.WinnerIdx == 1-i:
				losses = 1
			default:
				draws = 1
			}
			_, err = tx.Exec(ctx, `
				INSERT INTO player_stats (user_id, display_name, wins, losses, draws)
				VALUES ($1, $2, $3, $4, $5)
				ON CONFLICT (user_id) DO UPDATE SET
					display_name = EXCLUDED.display_name,
					wins = player_stats.wins + EXCLUDED.wins,
					losses = player_stats.losses + EXCLUDED.losses,
					draws = player_stats.draws + EXCLUDED.draws,
					updated_at = now()`,
				res.PlayerIDs[i], res.PlayerNames[i], wins, losses, draws)
			if err != nil {
				return err
			}
		}
	}
	return tx.Commit(ctx)
}

// MatchRecord is a single row returned for the history API.
type MatchRecord struct {
	ID               string `json:"id"`
	PlayedAt         string `json:"played_at"` // ISO8601
	RoomID           string `json:"room_id"`
	Player0UserID    string `json:"player0_user_id"`
	Player1UserID    string `json:"player1_user_id"`
	Player0Name      string `json:"player0_name"`
	Player1Name      string `json:"player1_name"`
	Player0Rounds    int    `json:"player0_rounds"`
	Player1Rounds    int    `json:"player1_rounds"`
	WinnerIndex      *int   `json:"winner_index"` // 0 or 1, null for draw/abandoned
	Outcome          string `json:"outcome"`
	Secret           string `json:"secret"`
	DisconnectReason string `json:"disconnect_reason,omitempty"`
	YourIndex        *int   `json:"your_index"` // set by ListByUserID
}

// ListByUserID returns all matches where the user participated, ordered
// by played_at DESC. Each record has your_index set to 0 or 1 so the
// client can show "You" vs opponent.
func (s *Store) ListByUserID(ctx context.Context, userID string) ([]MatchRecord, error) {
	if s == nil || s.pool == nil {
		return []MatchRecord{}, nil
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, played_at, room_id, player0_user_id, player1_user_id, player0_name, player1_name,
			player0_rounds, player1_rounds, winner_index, outcome, secret, COALESCE(disconnect_reason,'')
		FROM match_history
		WHERE player0_user_id = $1 OR player1_user_id = $1
		ORDER BY played_at DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []MatchRecord
	for rows.Next() {
		var r MatchRecord
		var playedAt time.Time
		if err := rows.Scan(&r.ID, &playedAt, &r.RoomID, &r.Player0UserID, &r.Player1UserID, &r.Player0Name, &r.Player1Name,
			&r.Player0Rounds, &r.Player1Rounds, &r.WinnerIndex, &r.Outcome, &r.Secret, &r.DisconnectReason); err != nil {
			return nil, err
		}
		r.PlayedAt = playedAt.UTC().Format(time.RFC3339)
		yi := 0
		if r.Player1UserID == userID {
			yi = 1
		}
		r.YourIndex = &yi
		out = append(out, r)
	}
	return out, rows.Err()
}

// PlayerStats holds a player's aggregated multiplayer record.
type PlayerStats struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	Wins        int    `json:"wins"`
	Losses      int    `json:"losses"`
	Draws       int    `json:"draws"`
}

// GetStats returns one player's record, or (nil, nil) if not found.
func (s *Store) GetStats(ctx context.Context, userID string) (*PlayerStats, error) {
	if s == nil || s.pool == nil || userID == "" {
		return nil, nil
	}
	var st PlayerStats
	err := s.pool.QueryRow(ctx, `
		SELECT user_id, display_name, wins, losses, draws
		FROM player_stats
		WHERE user_id = $1`,
		userID).Scan(&st.UserID, &st.DisplayName, &st.Wins, &st.Losses, &st.Draws)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &st, nil
}
