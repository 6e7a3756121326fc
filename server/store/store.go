package store

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"poker-colosseum/server/arena"
)

//go:embed schema.sql
var schema embed.FS

// ErrNotFound marks lookups by id that resolve to no row.
var ErrNotFound = errors.New("not found")

type DB struct{ *pgxpool.Pool }

func Open(dsn string) (*DB, error) {
	p, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		return nil, err
	}
	return &DB{p}, nil
}

func (db *DB) Close(ctx context.Context)      { db.Pool.Close() }
func (db *DB) Ping(ctx context.Context) error { return db.Pool.Ping(ctx) }

func Migrate(ctx context.Context, db *DB) error {
	sqlBytes, err := schema.ReadFile("schema.sql")
	if err != nil {
		return err
	}
	_, err = db.Exec(ctx, string(sqlBytes))
	return err
}

// transcriptDoc is the transcript_json envelope. Legacy rows may miss
// maxTurns (and occasionally scenario), so every field defaults.
type transcriptDoc struct {
	Title      string          `json:"title,omitempty"`
	Scenario   *arena.Scenario `json:"scenario,omitempty"`
	Transcript []arena.Turn    `json:"transcript"`
	MaxTurns   int             `json:"maxTurns,omitempty"`
}

func decodeDebate(id, title string, scenarioJSON, transcriptJSON []byte, votesGTO, votesExploit int, createdAt time.Time) (*arena.Debate, error) {
	d := &arena.Debate{
		ID: id, Title: title,
		VotesGTO: votesGTO, VotesExploit: votesExploit,
		CreatedAt: createdAt,
	}

	var doc transcriptDoc
	if len(transcriptJSON) > 0 {
		if err := json.Unmarshal(transcriptJSON, &doc); err != nil {
			return nil, fmt.Errorf("decode transcript_json for %s: %w", id, err)
		}
	}
	d.Transcript = doc.Transcript
	d.MaxTurns = doc.MaxTurns

	// The scenario column wins; older rows only carried it inside the
	// transcript doc.
	if len(scenarioJSON) > 0 {
		if err := json.Unmarshal(scenarioJSON, &d.Scenario); err != nil {
			return nil, fmt.Errorf("decode scenario_json for %s: %w", id, err)
		}
	}
	if d.Scenario == (arena.Scenario{}) && doc.Scenario != nil {
		d.Scenario = *doc.Scenario
	}
	return d, nil
}

func encodeDoc(d *arena.Debate) transcriptDoc {
	sc := d.Scenario
	return transcriptDoc{
		Title:      d.Title,
		Scenario:   &sc,
		Transcript: d.Transcript,
		MaxTurns:   d.MaxTurns,
	}
}

const debateColumns = `id, title, scenario_json, transcript_json, votes_gto, votes_exploit, created_at`

func scanDebate(row pgx.Row) (*arena.Debate, error) {
	var (
		id, title      string
		scenarioJSON   []byte
		transcriptJSON []byte
		vg, ve         int
		createdAt      time.Time
	)
	if err := row.Scan(&id, &title, &scenarioJSON, &transcriptJSON, &vg, &ve, &createdAt); err != nil {
		return nil, err
	}
	return decodeDebate(id, title, scenarioJSON, transcriptJSON, vg, ve, createdAt)
}

// CurrentDebate resolves the active debate: the arena_state pointer when
// set, else the newest row. Returns (nil, nil) on an empty arena.
func (db *DB) CurrentDebate(ctx context.Context) (*arena.Debate, error) {
	d, err := scanDebate(db.QueryRow(ctx, `
        SELECT `+debateColumns+`
          FROM arena_debates
         WHERE id = (SELECT active_debate_id FROM arena_state WHERE id = 1)
    `))
	if err == nil {
		return d, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	d, err = scanDebate(db.QueryRow(ctx, `
        SELECT `+debateColumns+`
          FROM arena_debates
         ORDER BY created_at DESC, id DESC
         LIMIT 1
    `))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

// InsertDebate writes a new arena row and repoints arena_state at it,
// atomically.
func (db *DB) InsertDebate(ctx context.Context, d *arena.Debate) error {
	tx, err := db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) // safe if already committed

	if _, err := tx.Exec(ctx, `
        INSERT INTO arena_debates(id, title, scenario_json, transcript_json, votes_gto, votes_exploit, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
    `, d.ID, d.Title, d.Scenario, encodeDoc(d), d.VotesGTO, d.VotesExploit, d.CreatedAt); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `
        INSERT INTO arena_state(id, active_debate_id) VALUES (1, $1)
        ON CONFLICT (id) DO UPDATE SET active_debate_id = EXCLUDED.active_debate_id
    `, d.ID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// UpdateTranscript rewrites the transcript_json envelope of an existing
// row. Plain read-then-write, no optimistic check: concurrent lifecycle
// steps are last-write-wins.
func (db *DB) UpdateTranscript(ctx context.Context, d *arena.Debate) error {
	ct, err := db.Exec(ctx, `
        UPDATE arena_debates SET transcript_json = $2 WHERE id = $1
    `, d.ID, encodeDoc(d))
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListDebates returns the newest debates first.
func (db *DB) ListDebates(ctx context.Context, limit int) ([]arena.Debate, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.Query(ctx, `
        SELECT `+debateColumns+`
          FROM arena_debates
         ORDER BY created_at DESC, id DESC
         LIMIT $1
    `, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []arena.Debate{}
	for rows.Next() {
		var (
			id, title      string
			scenarioJSON   []byte
			transcriptJSON []byte
			vg, ve         int
			createdAt      time.Time
		)
		if err := rows.Scan(&id, &title, &scenarioJSON, &transcriptJSON, &vg, &ve, &createdAt); err != nil {
			return nil, err
		}
		d, err := decodeDebate(id, title, scenarioJSON, transcriptJSON, vg, ve, createdAt)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

// GetVotes reads both counters for one debate.
func (db *DB) GetVotes(ctx context.Context, id string) (gto, exploit int, err error) {
	err = db.QueryRow(ctx, `
        SELECT votes_gto, votes_exploit FROM arena_debates WHERE id = $1
    `, id).Scan(&gto, &exploit)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, 0, ErrNotFound
	}
	return
}

// SetVoteCount writes one side's counter. The caller supplies the new
// absolute value; the read-increment-write sequence is not atomic, so a
// concurrent vote can lose an increment — an accepted weakness.
func (db *DB) SetVoteCount(ctx context.Context, id string, side arena.Speaker, val int) error {
	var col string
	switch side {
	case arena.GTO:
		col = "votes_gto"
	case arena.Exploit:
		col = "votes_exploit"
	default:
		return fmt.Errorf("invalid vote side %q", side)
	}
	ct, err := db.Exec(ctx, `UPDATE arena_debates SET `+col+` = $2 WHERE id = $1`, id, val)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// AllVotePairs reads every row's (gto, exploit) counters for global
// aggregation.
func (db *DB) AllVotePairs(ctx context.Context) ([][2]int, error) {
	rows, err := db.Query(ctx, `SELECT votes_gto, votes_exploit FROM arena_debates`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out [][2]int
	for rows.Next() {
		var g, e int
		if err := rows.Scan(&g, &e); err != nil {
			return nil, err
		}
		out = append(out, [2]int{g, e})
	}
	return out, rows.Err()
}

// InsertLabAnalysis stores a one-off analysis outside the arena
// lifecycle.
func (db *DB) InsertLabAnalysis(ctx context.Context, id string, inputScenario arena.Scenario, result arena.GeneratedDebate) (time.Time, error) {
	var createdAt time.Time
	err := db.QueryRow(ctx, `
        INSERT INTO lab_analyses(id, input_scenario, transcript_json, user_id)
        VALUES ($1,$2,$3,NULL)
        RETURNING created_at
    `, id, inputScenario, result).Scan(&createdAt)
	return createdAt, err
}
