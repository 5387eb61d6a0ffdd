package output

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/chrisdamba/traveltime/internal/models"
	"github.com/chrisdamba/traveltime/internal/repositories"
)

// PostgresOutput stores prediction events through a PredictionRepository.
type PostgresOutput struct {
	repo    repositories.PredictionRepository
	timeout time.Duration
	close   func()
}

func NewPostgresOutput(repo repositories.PredictionRepository, closeFn func()) *PostgresOutput {
	return &PostgresOutput{repo: repo, timeout: 10 * time.Second, close: closeFn}
}

func (p *PostgresOutput) WriteMessage(topic string, msg []byte) error {
	var record models.PredictionRecord
	if err := json.Unmarshal(msg, &record); err != nil {
		return err
	}
	if record.Timestamp == 0 {
		return ErrMissingTimestamp
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Unix(record.Timestamp, 0).UTC()
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()
	if err := p.repo.Create(ctx, &record); err != nil {
		return fmt.Errorf("failed to insert into %s: %w", topic, err)
	}
	return nil
}

func (p *PostgresOutput) Close() error {
	if p.close != nil {
		p.close()
	}
	return nil
}
