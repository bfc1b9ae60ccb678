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

// AutomationRepository handles automation graph reads and writes.
type AutomationRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewAutomationRepository(db *sql.DB, logger *slog.Logger) *AutomationRepository {
	return &AutomationRepository{db: db, logger: logger}
}

const automationColumns = `
	id
  , tenant_id
  , name
  , trigger_type
  , trigger_config
  , active
  , created_at
  , updated_at
`

func (r *AutomationRepository) All(ctx context.Context) ([]*models.Automation, error) {
	query := `SELECT ` + automationColumns + ` FROM automations ORDER BY created_at DESC`

	return r.queryAutomations(ctx, query)
}

func (r *AutomationRepository) ActiveByTrigger(ctx context.Context, tenantID string, triggerType models.TriggerType) ([]*models.Automation, error) {
	query := `
		SELECT ` + automationColumns + `
		FROM automations
		WHERE active AND tenant_id = $1 AND trigger_type = $2
		ORDER BY created_at
	`

	return r.queryAutomations(ctx, query, tenantID, string(triggerType))
}

func (r *AutomationRepository) queryAutomations(ctx context.Context, query string, args ...any) ([]*models.Automation, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query automations: %w", err)
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	automations := make([]*models.Automation, 0)

	for rows.Next() {
		automation, err := r.scanAutomation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan automation: %w", err)
		}

		err = r.loadGraph(ctx, automation)
		if err != nil {
			return nil, fmt.Errorf("failed to load automation graph: %w", err)
		}

		automations = append(automations, automation)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating automations: %w", err)
	}

	return automations, nil
}

func (r *AutomationRepository) GetByID(ctx context.Context, id string) (*models.Automation, error) {
	query := `SELECT ` + automationColumns + ` FROM automations WHERE id = $1`

	row := r.db.QueryRowContext(ctx, query, id)

	automation, err := r.scanAutomation(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.NewAutomationError("GetByID", id, persistence.ErrAutomationNotFound)
		}

		return nil, fmt.Errorf("failed to scan automation: %w", err)
	}

	err = r.loadGraph(ctx, automation)
	if err != nil {
		return nil, fmt.Errorf("failed to load automation graph: %w", err)
	}

	return automation, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *AutomationRepository) scanAutomation(row rowScanner) (*models.Automation, error) {
	var (
		automation    models.Automation
		triggerConfig []byte
	)

	err := row.Scan(
		&automation.ID,
		&automation.TenantID,
		&automation.Name,
		&automation.TriggerType,
		&triggerConfig,
		&automation.Active,
		&automation.CreatedAt,
		&automation.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(triggerConfig) > 0 {
		err = json.Unmarshal(triggerConfig, &automation.TriggerConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to decode trigger config: %w", err)
		}
	}

	return &automation, nil
}

func (r *AutomationRepository) loadGraph(ctx context.Context, automation *models.Automation) error {
	nodes, err := r.loadNodes(ctx, automation.ID)
	if err != nil {
		return err
	}

	edges, err := r.loadEdges(ctx, automation.ID)
	if err != nil {
		return err
	}

	automation.Nodes = nodes
	automation.Edges = edges

	return nil
}

func (r *AutomationRepository) loadNodes(ctx context.Context, automationID string) ([]*models.AutomationNode, error) {
	query := `
		SELECT node_id, node_type, config, position_x, position_y
		FROM automation_nodes
		WHERE automation_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.QueryContext(ctx, query, automationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query nodes: %w", err)
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	nodes := make([]*models.AutomationNode, 0)

	for rows.Next() {
		var (
			node   models.AutomationNode
			config []byte
		)

		err := rows.Scan(&node.NodeID, &node.Type, &config, &node.PositionX, &node.PositionY)
		if err != nil {
			return nil, fmt.Errorf("failed to scan node: %w", err)
		}

		if len(config) > 0 {
			err = json.Unmarshal(config, &node.Config)
			if err != nil {
				return nil, fmt.Errorf("failed to decode node config: %w", err)
			}
		}

		nodes = append(nodes, &node)
	}

	return nodes, rows.Err()
}

func (r *AutomationRepository) loadEdges(ctx context.Context, automationID string) ([]*models.AutomationEdge, error) {
	query := `
		SELECT source_node_id, target_node_id, COALESCE(label, ''), config
		FROM automation_edges
		WHERE automation_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.QueryContext(ctx, query, automationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query edges: %w", err)
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	edges := make([]*models.AutomationEdge, 0)

	for rows.Next() {
		var (
			edge   models.AutomationEdge
			config []byte
		)

		err := rows.Scan(&edge.SourceNodeID, &edge.TargetNodeID, &edge.Label, &config)
		if err != nil {
			return nil, fmt.Errorf("failed to scan edge: %w", err)
		}

		if len(config) > 0 {
			err = json.Unmarshal(config, &edge.Config)
			if err != nil {
				return nil, fmt.Errorf("failed to decode edge config: %w", err)
			}
		}

		edges = append(edges, &edge)
	}

	return edges, rows.Err()
}

// Save upserts the automation row and replaces its node and edge rows. The
// graph is always written wholesale; node_id strings keep edges valid
// without key rewrites.
func (r *AutomationRepository) Save(ctx context.Context, automation *models.Automation) error {
	now := time.Now().UTC()
	if automation.CreatedAt.IsZero() {
		automation.CreatedAt = now
	}

	automation.UpdatedAt = now

	triggerConfig, err := json.Marshal(automation.TriggerConfig)
	if err != nil {
		return fmt.Errorf("failed to encode trigger config: %w", err)
	}

	transaction, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	err = r.saveInTx(ctx, transaction, automation, triggerConfig)
	if err != nil {
		_ = transaction.Rollback()

		return err
	}

	err = transaction.Commit()
	if err != nil {
		return fmt.Errorf("failed to commit automation: %w", err)
	}

	return nil
}

func (r *AutomationRepository) saveInTx(ctx context.Context, tx *sql.Tx, automation *models.Automation, triggerConfig []byte) error {
	upsert := `
		INSERT INTO automations (id, tenant_id, name, trigger_type, trigger_config, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			tenant_id = EXCLUDED.tenant_id,
			name = EXCLUDED.name,
			trigger_type = EXCLUDED.trigger_type,
			trigger_config = EXCLUDED.trigger_config,
			active = EXCLUDED.active,
			updated_at = EXCLUDED.updated_at
	`

	_, err := tx.ExecContext(ctx, upsert,
		automation.ID,
		automation.TenantID,
		automation.Name,
		string(automation.TriggerType),
		triggerConfig,
		automation.Active,
		automation.CreatedAt,
		automation.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert automation: %w", err)
	}

	_, err = tx.ExecContext(ctx, `DELETE FROM automation_nodes WHERE automation_id = $1`, automation.ID)
	if err != nil {
		return fmt.Errorf("failed to clear nodes: %w", err)
	}

	_, err = tx.ExecContext(ctx, `DELETE FROM automation_edges WHERE automation_id = $1`, automation.ID)
	if err != nil {
		return fmt.Errorf("failed to clear edges: %w", err)
	}

	for _, node := range automation.Nodes {
		config, err := json.Marshal(node.Config)
		if err != nil {
			return fmt.Errorf("failed to encode node config: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO automation_nodes (automation_id, node_id, node_type, config, position_x, position_y)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, automation.ID, node.NodeID, string(node.Type), config, node.PositionX, node.PositionY)
		if err != nil {
			return fmt.Errorf("failed to insert node %s: %w", node.NodeID, err)
		}
	}

	for _, edge := range automation.Edges {
		config, err := json.Marshal(edge.Config)
		if err != nil {
			return fmt.Errorf("failed to encode edge config: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO automation_edges (automation_id, source_node_id, target_node_id, label, config)
			VALUES ($1, $2, $3, NULLIF($4, ''), $5)
		`, automation.ID, edge.SourceNodeID, edge.TargetNodeID, edge.Label, config)
		if err != nil {
			return fmt.Errorf("failed to insert edge %s->%s: %w", edge.SourceNodeID, edge.TargetNodeID, err)
		}
	}

	return nil
}

func (r *AutomationRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM automations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete automation: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}

	if affected == 0 {
		return persistence.NewAutomationError("Delete", id, persistence.ErrAutomationNotFound)
	}

	return nil
}
