package storage

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AndDavies/rooted-companion/internal"
)

type PostgresStorage struct {
	pool   *pgxpool.Pool
	logger internal.Logger
}

func NewPostgresStorage(dsn string, logger internal.Logger) (*PostgresStorage, error) {
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		logger.Errorf("failed to connect to postgres: %v", err)
		return nil, err
	}
	return &PostgresStorage{pool: pool, logger: logger}, nil
}

// --- ProfileRepository ---

func (p *PostgresStorage) SaveProfile(ctx context.Context, profile *internal.CircadianProfile) error {
	_, err := p.pool.Exec(ctx, `INSERT INTO circadian_profiles
			(user_id, chronotype, wake_time, bedtime, caffeine_cutoff, shift_work, tz, availability, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id) DO UPDATE SET
			chronotype = EXCLUDED.chronotype,
			wake_time = EXCLUDED.wake_time,
			bedtime = EXCLUDED.bedtime,
			caffeine_cutoff = EXCLUDED.caffeine_cutoff,
			shift_work = EXCLUDED.shift_work,
			tz = EXCLUDED.tz,
			availability = EXCLUDED.availability,
			updated_at = EXCLUDED.updated_at`,
		profile.UserID, profile.Derived.Chronotype, profile.Derived.WakeTime, profile.Derived.Bedtime,
		profile.Derived.CaffeineCutoff, profile.Derived.ShiftWork, profile.Timezone, profile.Availability,
		profile.UpdatedAt)
	if err != nil {
		p.logger.Errorf("failed to upsert circadian profile: %v", err)
		return err
	}
	return nil
}

func (p *PostgresStorage) GetProfile(ctx context.Context, userID string) (*internal.CircadianProfile, error) {
	row := p.pool.QueryRow(ctx, `SELECT user_id, chronotype, wake_time, bedtime, caffeine_cutoff, shift_work, tz, availability, updated_at
		FROM circadian_profiles WHERE user_id = $1`, userID)
	var prof internal.CircadianProfile
	err := row.Scan(&prof.UserID, &prof.Derived.Chronotype, &prof.Derived.WakeTime, &prof.Derived.Bedtime,
		&prof.Derived.CaffeineCutoff, &prof.Derived.ShiftWork, &prof.Timezone, &prof.Availability, &prof.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		p.logger.Errorf("failed to load circadian profile: %v", err)
		return nil, err
	}
	return &prof, nil
}

// --- PlanRepository ---

func (p *PostgresStorage) UpsertPlan(ctx context.Context, plan *internal.WellnessPlan) error {
	payload, err := json.Marshal(plan.Payload)
	if err != nil {
		return err
	}
	_, err = p.pool.Exec(ctx, `INSERT INTO wellness_plans (id, user_id, plan_date, payload, scheduled, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, plan_date) DO UPDATE SET
			payload = EXCLUDED.payload,
			scheduled = EXCLUDED.scheduled`,
		plan.ID, plan.UserID, plan.PlanDate, payload, plan.Scheduled, plan.CreatedAt)
	if err != nil {
		p.logger.Errorf("failed to upsert wellness plan: %v", err)
		return err
	}
	return nil
}

func (p *PostgresStorage) GetPlan(ctx context.Context, userID, planDate string) (*internal.WellnessPlan, error) {
	row := p.pool.QueryRow(ctx, `SELECT id, user_id, plan_date, payload, scheduled, created_at
		FROM wellness_plans WHERE user_id = $1 AND plan_date = $2`, userID, planDate)
	var plan internal.WellnessPlan
	var payload []byte
	err := row.Scan(&plan.ID, &plan.UserID, &plan.PlanDate, &payload, &plan.Scheduled, &plan.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPlanNotFound
		}
		p.logger.Errorf("failed to load wellness plan: %v", err)
		return nil, err
	}
	if err := json.Unmarshal(payload, &plan.Payload); err != nil {
		p.logger.Errorf("failed to decode wellness plan payload: %v", err)
		return nil, err
	}
	return &plan, nil
}

func (p *PostgresStorage) Close() {
	p.pool.Close()
}

// --- Compile-time assertions ---
var _ ProfileRepository = (*PostgresStorage)(nil)
var _ PlanRepository = (*PostgresStorage)(nil)
