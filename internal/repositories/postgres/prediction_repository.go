package postgres

import (
	"context"
	"fmt"

	"github.com/chrisdamba/traveltime/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const insertPrediction = `
        INSERT INTO predictions (
            id, user_id, start_point, destination, start_location, destination_location,
            day_of_week, departure_time, route_type, predicted_time, distance_km,
            traffic_level, model_version, created_at
        ) VALUES (
            $1, $2, $3, $4, ST_SetSRID(ST_MakePoint($5, $6), 4326),
            ST_SetSRID(ST_MakePoint($7, $8), 4326), $9, $10, $11, $12, $13, $14, $15, $16
        )`

const createPredictions = `
        CREATE EXTENSION IF NOT EXISTS postgis;
        CREATE TABLE IF NOT EXISTS predictions (
            id TEXT PRIMARY KEY,
            user_id TEXT NOT NULL DEFAULT '',
            start_point TEXT NOT NULL,
            destination TEXT NOT NULL,
            start_location GEOGRAPHY(POINT, 4326),
            destination_location GEOGRAPHY(POINT, 4326),
            day_of_week TEXT NOT NULL,
            departure_time TEXT NOT NULL,
            route_type TEXT NOT NULL DEFAULT '',
            predicted_time INTEGER NOT NULL,
            distance_km DOUBLE PRECISION NOT NULL,
            traffic_level TEXT NOT NULL,
            model_version TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL
        );
        CREATE INDEX IF NOT EXISTS predictions_user_created_idx ON predictions (user_id, created_at DESC)`

// DB is the part of *pgxpool.Pool the repository uses.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

type PredictionRepository struct {
	pool DB
}

func NewPredictionRepository(pool DB) *PredictionRepository {
	return &PredictionRepository{pool: pool}
}

// Connect opens a pool and checks that the database answers.
func Connect(ctx context.Context, cfg models.DatabaseConfig) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, cfg.ConnString())
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to reach database: %w", err)
	}
	return pool, nil
}

// EnsureSchema creates the predictions table if it does not exist yet.
func (r *PredictionRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, createPredictions); err != nil {
		return fmt.Errorf("create predictions table: %w", err)
	}
	return nil
}

func insertArgs(record *models.PredictionRecord) []interface{} {
	return []interface{}{
		record.ID,
		record.UserID,
		record.StartPoint,
		record.Destination,
		record.StartLocation.Lon,
		record.StartLocation.Lat,
		record.DestLocation.Lon,
		record.DestLocation.Lat,
		record.DayOfWeek,
		record.DepartureTime,
		record.RouteType,
		record.PredictedMinutes,
		record.DistanceKm,
		record.TrafficLevel,
		record.ModelVersion,
		record.CreatedAt,
	}
}

func (r *PredictionRepository) Create(ctx context.Context, record *models.PredictionRecord) error {
	_, err := r.pool.Exec(ctx, insertPrediction, insertArgs(record)...)
	return err
}

func (r *PredictionRepository) BulkCreate(ctx context.Context, records []*models.PredictionRecord) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}

	for _, record := range records {
		if _, err = tx.Exec(ctx, insertPrediction, insertArgs(record)...); err != nil {
			_ = tx.Rollback(ctx)
			return fmt.Errorf("insert prediction %s: %w", record.ID, err)
		}
	}

	return tx.Commit(ctx)
}

// ListByUser returns the most recent predictions made for a user, newest first.
func (r *PredictionRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*models.PredictionRecord, error) {
	query := `
        SELECT
            id, user_id, start_point, destination,
            ST_X(start_location::geometry), ST_Y(start_location::geometry),
            ST_X(destination_location::geometry), ST_Y(destination_location::geometry),
            day_of_week, departure_time, route_type, predicted_time, distance_km,
            traffic_level, model_version, created_at
        FROM predictions
        WHERE user_id = $1
        ORDER BY created_at DESC
        LIMIT $2`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*models.PredictionRecord
	for rows.Next() {
		record := &models.PredictionRecord{}
		err := rows.Scan(
			&record.ID,
			&record.UserID,
			&record.StartPoint,
			&record.Destination,
			&record.StartLocation.Lon,
			&record.StartLocation.Lat,
			&record.DestLocation.Lon,
			&record.DestLocation.Lat,
			&record.DayOfWeek,
			&record.DepartureTime,
			&record.RouteType,
			&record.PredictedMinutes,
			&record.DistanceKm,
			&record.TrafficLevel,
			&record.ModelVersion,
			&record.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		record.Timestamp = record.CreatedAt.Unix()
		records = append(records, record)
	}
	return records, rows.Err()
}

func (r *PredictionRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM predictions").Scan(&count)
	return count, err
}
