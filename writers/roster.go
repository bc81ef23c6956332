package writers

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/Nydauron/skatescore/identity"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// RosterStore keeps the identity roster between runs so that competitor
// and official ids stay stable.
type RosterStore struct {
	db *sql.DB
}

func OpenRoster(path string) (*RosterStore, error) {
	db, err := openDB(path)
	if err != nil {
		return nil, err
	}
	s := &RosterStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *RosterStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS roster_competitors (
		id INTEGER PRIMARY KEY,
		type TEXT NOT NULL,
		first_name TEXT,
		last_name TEXT,
		tight_first_name TEXT,
		tight_last_name TEXT,
		team_name TEXT,
		lady_id INTEGER,
		man_id INTEGER,
		federations TEXT
	);
	CREATE TABLE IF NOT EXISTS roster_officials (
		id INTEGER PRIMARY KEY,
		first_name TEXT,
		last_name TEXT,
		tight_first_name TEXT,
		tight_last_name TEXT,
		federations TEXT
	);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create roster tables: %w", err)
	}
	return nil
}

// Load restores the saved roster into r, which must be empty.
func (s *RosterStore) Load(ctx context.Context, r *identity.Registry) error {
	competitors, err := s.loadCompetitors(ctx)
	if err != nil {
		return err
	}
	officials, err := s.loadOfficials(ctx)
	if err != nil {
		return err
	}
	log.Info().Int("competitors", len(competitors)).Int("officials", len(officials)).Msg("loaded roster")
	return r.Restore(competitors, officials)
}

func (s *RosterStore) loadCompetitors(ctx context.Context) ([]identity.Competitor, error) {
	query, args, err := squirrel.Select("id", "type", "first_name", "last_name", "tight_first_name", "tight_last_name", "team_name", "lady_id", "man_id", "federations").
		From("roster_competitors").
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query competitors: %w", err)
	}
	defer rows.Close()

	var out []identity.Competitor
	for rows.Next() {
		var (
			c        identity.Competitor
			typ      string
			teamName sql.NullString
			ladyID   sql.NullInt64
			manID    sql.NullInt64
			feds     string
		)
		if err := rows.Scan(&c.ID, &typ, &c.Name.First, &c.Name.Last, &c.Name.TightFirst, &c.Name.TightLast, &teamName, &ladyID, &manID, &feds); err != nil {
			return nil, err
		}
		c.Type = identity.CompetitorType(typ)
		c.TeamName = teamName.String
		c.LadyID = int(ladyID.Int64)
		c.ManID = int(manID.Int64)
		if err := yaml.Unmarshal([]byte(feds), &c.Federations); err != nil {
			return nil, fmt.Errorf("competitor %d federations: %w", c.ID, err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *RosterStore) loadOfficials(ctx context.Context) ([]identity.Official, error) {
	query, args, err := squirrel.Select("id", "first_name", "last_name", "tight_first_name", "tight_last_name", "federations").
		From("roster_officials").
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query officials: %w", err)
	}
	defer rows.Close()

	var out []identity.Official
	for rows.Next() {
		var (
			o    identity.Official
			feds string
		)
		if err := rows.Scan(&o.ID, &o.Name.First, &o.Name.Last, &o.Name.TightFirst, &o.Name.TightLast, &feds); err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal([]byte(feds), &o.Federations); err != nil {
			return nil, fmt.Errorf("official %d federations: %w", o.ID, err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// Save writes the whole roster of r, replacing rows with the same ids.
func (s *RosterStore) Save(ctx context.Context, r *identity.Registry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, c := range r.Competitors() {
		feds, err := yaml.Marshal(c.Federations)
		if err != nil {
			return err
		}
		insert := squirrel.Insert("roster_competitors").
			Options("OR REPLACE").
			Columns("id", "type", "first_name", "last_name", "tight_first_name", "tight_last_name", "team_name", "lady_id", "man_id", "federations").
			Values(c.ID, string(c.Type), c.Name.First, c.Name.Last, c.Name.TightFirst, c.Name.TightLast, nullString(c.TeamName), nullID(c.LadyID), nullID(c.ManID), string(feds))
		if err := execInsert(ctx, tx, insert); err != nil {
			return err
		}
	}
	for _, o := range r.Officials() {
		feds, err := yaml.Marshal(o.Federations)
		if err != nil {
			return err
		}
		insert := squirrel.Insert("roster_officials").
			Options("OR REPLACE").
			Columns("id", "first_name", "last_name", "tight_first_name", "tight_last_name", "federations").
			Values(o.ID, o.Name.First, o.Name.Last, o.Name.TightFirst, o.Name.TightLast, string(feds))
		if err := execInsert(ctx, tx, insert); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func execInsert(ctx context.Context, tx *sql.Tx, insert squirrel.InsertBuilder) error {
	query, args, err := insert.ToSql()
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to save roster: %w", err)
	}
	return nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullID(id int) any {
	if id == 0 {
		return nil
	}
	return id
}

func (s *RosterStore) Close() error {
	return s.db.Close()
}
