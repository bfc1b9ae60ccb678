package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/joelmartins/onsell-engine/pkg/models"
	"github.com/joelmartins/onsell-engine/pkg/persistence"
)

// RunRepository handles run log rows. One row per run, updated in place.
type RunRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewRunRepository(db *sql.DB, logger *slog.Logger) *RunRepository {
	return &RunRepository{db: db, logger: logger}
}

func (r *RunRepository) Create(ctx context.Context, run *models.AutomationRun) error {
	now := time.Now().UTC()
	run.CreatedAt = now
	run.UpdatedAt = now

	runContext, result, err := encodeRunPayloads(run)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO automation_runs
			(id, automation_id, contact_id, opportunity_id, node_id, status, message, context, result, started_at, completed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, $9, $10, $11, $12, $13)
	`

	_, err = r.db.ExecContext(ctx, query,
		run.ID,
		run.AutomationID,
		run.ContactID,
		run.OpportunityID,
		run.NodeID,
		string(run.Status),
		run.Message,
		runContext,
		result,
		run.StartedAt,
		run.CompletedAt,
		run.CreatedAt,
		run.UpdatedAt,
	)
	if err != nil {
		return persistence.NewRunError("Create", run.ID, err)
	}

	return nil
}

func (r *RunRepository) GetByID(ctx context.Context, id string) (*models.AutomationRun, error) {
	query := `
		SELECT
			id
		  , automation_id
		  , contact_id
		  , opportunity_id
		  , node_id
		  , status
		  , COALESCE(message, '')
		  , context
		  , result
		  , started_at
		  , completed_at
		  , created_at
		  , updated_at
		FROM automation_runs
		WHERE id = $1
	`

	var (
		run        models.AutomationRun
		runContext []byte
		result     []byte
	)

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&run.ID,
		&run.AutomationID,
		&run.ContactID,
		&run.OpportunityID,
		&run.NodeID,
		&run.Status,
		&run.Message,
		&runContext,
		&result,
		&run.StartedAt,
		&run.CompletedAt,
		&run.CreatedAt,
		&run.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.NewRunError("GetByID", id, persistence.ErrRunNotFound)
		}

		return nil, persistence.NewRunError("GetByID", id, err)
	}

	err = decodeRunPayloads(&run, runContext, result)
	if err != nil {
		return nil, persistence.NewRunError("GetByID", id, err)
	}

	return &run, nil
}

// Update overwrites the row's progress fields. Last writer wins under
// branch fan-out; the run log is a progress pointer, not a ledger.
func (r *RunRepository) Update(ctx context.Context, run *models.AutomationRun) error {
	run.UpdatedAt = time.Now().UTC()

	runContext, result, err := encodeRunPayloads(run)
	if err != nil {
		return err
	}

	query := `
		UPDATE automation_runs SET
			node_id = $2,
			status = $3,
			message = NULLIF($4, ''),
			context = $5,
			result = $6,
			started_at = $7,
			completed_at = $8,
			updated_at = $9
		WHERE id = $1
	`

	res, err := r.db.ExecContext(ctx, query,
		run.ID,
		run.NodeID,
		string(run.Status),
		run.Message,
		runContext,
		result,
		run.StartedAt,
		run.CompletedAt,
		run.UpdatedAt,
	)
	if err != nil {
		return persistence.NewRunError("Update", run.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return persistence.NewRunError("Update", run.ID, err)
	}

	if affected == 0 {
		return persistence.NewRunError("Update", run.ID, persistence.ErrRunNotFound)
	}

	return nil
}

func (r *RunRepository) ByContact(ctx context.Context, contactID string) ([]*models.AutomationRun, error) {
	query := `
		SELECT
			id
		  , automation_id
		  , contact_id
		  , opportunity_id
		  , node_id
		  , status
		  , COALESCE(message, '')
		  , context
		  , result
		  , started_at
		  , completed_at
		  , created_at
		  , updated_at
		FROM automation_runs
		WHERE contact_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, contactID)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	runs := make([]*models.AutomationRun, 0)

	for rows.Next() {
		var (
			run        models.AutomationRun
			runContext []byte
			result     []byte
		)

		err := rows.Scan(
			&run.ID,
			&run.AutomationID,
			&run.ContactID,
			&run.OpportunityID,
			&run.NodeID,
			&run.Status,
			&run.Message,
			&runContext,
			&result,
			&run.StartedAt,
			&run.CompletedAt,
			&run.CreatedAt,
			&run.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		err = decodeRunPayloads(&run, runContext, result)
		if err != nil {
			return nil, fmt.Errorf("failed to decode run payloads: %w", err)
		}

		runs = append(runs, &run)
	}

	return runs, rows.Err()
}

func encodeRunPayloads(run *models.AutomationRun) ([]byte, []byte, error) {
	runContext, err := json.Marshal(run.Context)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode run context: %w", err)
	}

	var result []byte
	if run.Result != nil {
		result, err = json.Marshal(run.Result)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to encode run result: %w", err)
		}
	}

	return runContext, result, nil
}

func decodeRunPayloads(run *models.AutomationRun, runContext, result []byte) error {
	if len(runContext) > 0 {
		err := json.Unmarshal(runContext, &run.Context)
		if err != nil {
			return fmt.Errorf("failed to decode run context: %w", err)
		}
	}

	if len(result) > 0 {
		err := json.Unmarshal(result, &run.Result)
		if err != nil {
			return fmt.Errorf("failed to decode run result: %w", err)
		}
	}

	return nil
}
