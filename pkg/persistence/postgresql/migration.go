package postgresql

func migrations() map[int]string {
	return map[int]string{
		1: `
			CREATE TABLE automations (
				id UUID PRIMARY KEY,
				tenant_id VARCHAR(255) NOT NULL,
				name VARCHAR(255) NOT NULL,
				trigger_type VARCHAR(50) NOT NULL,
				trigger_config JSONB,
				active BOOLEAN NOT NULL DEFAULT true,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL
			);

			CREATE INDEX idx_automations_tenant_trigger ON automations(tenant_id, trigger_type) WHERE active;

			-- Nodes and edges reference each other by the graph-local
			-- node_id string, not by storage keys, so the whole graph can be
			-- replaced on edit without cascading updates.
			CREATE TABLE automation_nodes (
				automation_id UUID NOT NULL REFERENCES automations(id) ON DELETE CASCADE,
				node_id VARCHAR(255) NOT NULL,
				node_type VARCHAR(50) NOT NULL,
				config JSONB DEFAULT '{}',
				position_x INT DEFAULT 0,
				position_y INT DEFAULT 0,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
				PRIMARY KEY (automation_id, node_id)
			);

			CREATE TABLE automation_edges (
				automation_id UUID NOT NULL REFERENCES automations(id) ON DELETE CASCADE,
				source_node_id VARCHAR(255) NOT NULL,
				target_node_id VARCHAR(255) NOT NULL,
				label VARCHAR(255),
				config JSONB,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
			);

			CREATE INDEX idx_automation_edges_source ON automation_edges(automation_id, source_node_id);
		`,
		2: `
			-- One row per run; node_id and status are overwritten in place as
			-- the walk advances.
			CREATE TABLE automation_runs (
				id UUID PRIMARY KEY,
				automation_id UUID NOT NULL,
				contact_id VARCHAR(255) NOT NULL,
				opportunity_id VARCHAR(255),
				node_id VARCHAR(255) NOT NULL,
				status VARCHAR(50) NOT NULL CHECK (status IN ('pending', 'running', 'completed', 'failed')),
				message TEXT,
				context JSONB DEFAULT '{}',
				result JSONB,
				started_at TIMESTAMP WITH TIME ZONE NOT NULL,
				completed_at TIMESTAMP WITH TIME ZONE,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL
			);

			CREATE INDEX idx_automation_runs_automation ON automation_runs(automation_id);
			CREATE INDEX idx_automation_runs_contact ON automation_runs(contact_id);
			CREATE INDEX idx_automation_runs_status ON automation_runs(status);
		`,
	}
}
