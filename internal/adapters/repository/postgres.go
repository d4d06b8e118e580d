package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/okian/hirefunnel/internal/domain/model"
	"github.com/okian/hirefunnel/pkg/logger"
	"github.com/okian/hirefunnel/pkg/metrics"
)

// PostgresSource reads snapshots from the recruiting tables:
//
//	jobs(id, title, posted_at, closed_at, hired_at)
//	applications(id, job_id, candidate_id, source, started_at, submitted_at, applied_at, stage)
//	stage_events(app_id, stage, at)
//	offers(id, app_id, offered_at, accepted_at, rejected_at)
//	hires(id, app_id, hired_at, start_date)
//	terminations(id, hire_id, type, at)
//	channel_stats(channel, impressions, spend)
//	cost_items(kind, amount, period_from, period_to)
//	survey_scores(kind, score, at)
//
// Queries run in dependency order so that referenced records are fetched
// by id with = ANY($n). Rows holding an unknown enum value or a non-finite
// number are dropped and logged, like degraded records of a snapshot file.
type PostgresSource struct {
	db  *sql.DB
	sb  sq.StatementBuilderType
	log logger.Logger
}

var _ Source = (*PostgresSource)(nil)

// NewPostgresSource wires a sql.DB implementation.
func NewPostgresSource(db *sql.DB) *PostgresSource {
	return &PostgresSource{
		db:  db,
		sb:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
		log: logger.Named("postgres-source"),
	}
}

// OpenPostgres opens a lib/pq connection pool for dsn and verifies it.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// Name implements Source.
func (s *PostgresSource) Name() string { return "postgres" }

func inWindow(col string, w model.Window) sq.And {
	return sq.And{sq.GtOrEq{col: w.From}, sq.Lt{col: w.To}}
}

func anyOf(col string, ids idSet) sq.Sqlizer {
	return sq.Expr(col+" = ANY(?)", pq.StringArray(ids.slice()))
}

// Snapshot implements Source.
func (s *PostgresSource) Snapshot(ctx context.Context, w model.Window) (model.Snapshot, error) {
	snap := model.Snapshot{Window: w}
	var rejected []error
	reject := func(table, id string, err error) {
		rejected = append(rejected, fmt.Errorf("%s %s: %w", table, id, err))
	}
	appIDs := idSet{}
	hireIDs := idSet{}
	jobIDs := idSet{}

	err := s.query(ctx, "hires", s.sb.Select("id", "app_id", "hired_at", "start_date").
		From("hires").Where(inWindow("hired_at", w)).OrderBy("hired_at", "id"),
		func(rows *sql.Rows) error {
			var h model.Hire
			var start sql.NullTime
			if err := rows.Scan(&h.ID, &h.AppID, &h.HiredAt, &start); err != nil {
				return err
			}
			h.HiredAt = h.HiredAt.UTC()
			h.StartDate = nullTime(start)
			snap.Hires = append(snap.Hires, h)
			hireIDs.add(h.ID)
			appIDs.add(h.AppID)
			return nil
		})
	if err != nil {
		return model.Snapshot{}, err
	}

	err = s.query(ctx, "offers", s.sb.Select("id", "app_id", "offered_at", "accepted_at", "rejected_at").
		From("offers").Where(inWindow("offered_at", w)).OrderBy("offered_at", "id"),
		func(rows *sql.Rows) error {
			var o model.Offer
			var accepted, rejected sql.NullTime
			if err := rows.Scan(&o.ID, &o.AppID, &o.OfferedAt, &accepted, &rejected); err != nil {
				return err
			}
			o.OfferedAt = o.OfferedAt.UTC()
			o.AcceptedAt = nullTime(accepted)
			o.RejectedAt = nullTime(rejected)
			snap.Offers = append(snap.Offers, o)
			appIDs.add(o.AppID)
			return nil
		})
	if err != nil {
		return model.Snapshot{}, err
	}

	err = s.query(ctx, "applications", s.sb.
		Select("id", "job_id", "candidate_id", "source", "started_at", "submitted_at", "applied_at", "stage").
		From("applications").
		Where(sq.Or{inWindow("applied_at", w), anyOf("id", appIDs)}).
		OrderBy("applied_at", "id"),
		func(rows *sql.Rows) error {
			var a model.Application
			var source sql.NullString
			var started, submitted sql.NullTime
			var stage string
			if err := rows.Scan(&a.ID, &a.JobID, &a.CandidateID, &source, &started, &submitted, &a.AppliedAt, &stage); err != nil {
				return err
			}
			st, err := model.ParseStage(stage)
			if err != nil {
				reject("applications", a.ID, err)
				return nil
			}
			a.Stage = st
			a.Source = source.String
			a.StartedAt = nullTime(started)
			a.SubmittedAt = nullTime(submitted)
			a.AppliedAt = a.AppliedAt.UTC()
			snap.Applications = append(snap.Applications, a)
			appIDs.add(a.ID)
			jobIDs.add(a.JobID)
			return nil
		})
	if err != nil {
		return model.Snapshot{}, err
	}

	err = s.query(ctx, "stage_events", s.sb.Select("app_id", "stage", "at").
		From("stage_events").Where(anyOf("app_id", appIDs)).OrderBy("at", "app_id"),
		func(rows *sql.Rows) error {
			var e model.StageEvent
			var stage string
			if err := rows.Scan(&e.AppID, &stage, &e.At); err != nil {
				return err
			}
			st, err := model.ParseStage(stage)
			if err != nil {
				reject("stage_events", e.AppID, err)
				return nil
			}
			e.Stage = st
			e.At = e.At.UTC()
			snap.StageEvents = append(snap.StageEvents, e)
			return nil
		})
	if err != nil {
		return model.Snapshot{}, err
	}

	openDuringWindow := sq.And{
		sq.Lt{"posted_at": w.To},
		sq.Or{sq.Eq{"closed_at": nil}, sq.GtOrEq{"closed_at": w.From}},
		sq.Or{sq.Eq{"hired_at": nil}, sq.GtOrEq{"hired_at": w.From}},
	}
	err = s.query(ctx, "jobs", s.sb.Select("id", "title", "posted_at", "closed_at", "hired_at").
		From("jobs").Where(sq.Or{openDuringWindow, anyOf("id", jobIDs)}).OrderBy("posted_at", "id"),
		func(rows *sql.Rows) error {
			var j model.Job
			var closed, hired sql.NullTime
			if err := rows.Scan(&j.ID, &j.Title, &j.PostedAt, &closed, &hired); err != nil {
				return err
			}
			j.PostedAt = j.PostedAt.UTC()
			j.ClosedAt = nullTime(closed)
			j.HiredAt = nullTime(hired)
			snap.Jobs = append(snap.Jobs, j)
			return nil
		})
	if err != nil {
		return model.Snapshot{}, err
	}

	err = s.query(ctx, "terminations", s.sb.Select("id", "hire_id", "type", "at").
		From("terminations").Where(anyOf("hire_id", hireIDs)).OrderBy("at", "id"),
		func(rows *sql.Rows) error {
			var t model.Termination
			var typ string
			if err := rows.Scan(&t.ID, &t.HireID, &typ, &t.At); err != nil {
				return err
			}
			tt, err := model.ParseTerminationType(typ)
			if err != nil {
				reject("terminations", t.ID, err)
				return nil
			}
			t.Type = tt
			t.At = t.At.UTC()
			snap.Terminations = append(snap.Terminations, t)
			return nil
		})
	if err != nil {
		return model.Snapshot{}, err
	}

	err = s.query(ctx, "channel_stats", s.sb.Select("channel", "impressions", "spend").
		From("channel_stats").OrderBy("channel"),
		func(rows *sql.Rows) error {
			var c model.ChannelStat
			if err := rows.Scan(&c.Channel, &c.Impressions, &c.Spend); err != nil {
				return err
			}
			if err := model.CheckFinite("spend", c.Spend); err != nil {
				reject("channel_stats", c.Channel, err)
				return nil
			}
			snap.Channels = append(snap.Channels, c)
			return nil
		})
	if err != nil {
		return model.Snapshot{}, err
	}

	err = s.query(ctx, "cost_items", s.sb.Select("kind", "amount", "period_from", "period_to").
		From("cost_items").
		Where(sq.And{sq.Lt{"period_from": w.To}, sq.Gt{"period_to": w.From}}).
		OrderBy("period_from", "kind"),
		func(rows *sql.Rows) error {
			var c model.CostItem
			var kind string
			if err := rows.Scan(&kind, &c.Amount, &c.Period.From, &c.Period.To); err != nil {
				return err
			}
			k, err := model.ParseCostKind(kind)
			if err != nil {
				reject("cost_items", kind, err)
				return nil
			}
			if err := model.CheckFinite("amount", c.Amount); err != nil {
				reject("cost_items", kind, err)
				return nil
			}
			c.Kind = k
			c.Period = model.Window{From: c.Period.From.UTC(), To: c.Period.To.UTC()}
			snap.Costs = append(snap.Costs, c)
			return nil
		})
	if err != nil {
		return model.Snapshot{}, err
	}

	err = s.query(ctx, "survey_scores", s.sb.Select("kind", "score", "at").
		From("survey_scores").Where(inWindow("at", w)).OrderBy("at"),
		func(rows *sql.Rows) error {
			var v model.SurveyScore
			var kind string
			if err := rows.Scan(&kind, &v.Score, &v.At); err != nil {
				return err
			}
			k, err := model.ParseSurveyKind(kind)
			if err != nil {
				reject("survey_scores", kind, err)
				return nil
			}
			if err := model.CheckFinite("score", v.Score); err != nil {
				reject("survey_scores", kind, err)
				return nil
			}
			v.Kind = k
			v.At = v.At.UTC()
			snap.Surveys = append(snap.Surveys, v)
			return nil
		})
	if err != nil {
		return model.Snapshot{}, err
	}

	if len(rejected) > 0 {
		metrics.RecordRejectedRecords(s.Name(), len(rejected))
		for _, r := range rejected {
			s.log.Warn(ctx, "postgres row dropped", logger.Error(r))
		}
	}
	return snap, nil
}

// query runs b and hands each row to scan, closing rows on every path.
func (s *PostgresSource) query(ctx context.Context, table string, b sq.SelectBuilder, scan func(*sql.Rows) error) error {
	query, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("%w: build %s query: %w", ErrSourceQuery, table, err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: query %s: %w", ErrSourceQuery, table, err)
	}

	for rows.Next() {
		if err := scan(rows); err != nil {
			_ = rows.Close()
			return fmt.Errorf("%w: scan %s: %w", ErrSourceQuery, table, err)
		}
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		_ = rows.Close()
		return fmt.Errorf("%w: %s rows iteration: %w", ErrSourceQuery, table, rowsErr)
	}

	if closeErr := rows.Close(); closeErr != nil {
		return fmt.Errorf("%w: close %s rows: %w", ErrSourceQuery, table, closeErr)
	}
	return nil
}

func nullTime(t sql.NullTime) time.Time {
	if !t.Valid {
		return time.Time{}
	}
	return t.Time.UTC()
}
