package session

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/bitavt/tablechat/internal/engine"
	"github.com/bitavt/tablechat/internal/provider"
)

// DataLoad consumes the pending load request: materializes the data
// file under a table name derived from its path (replacing any table
// of the same name), reads the schema description file, and appends
// the formatted table block to the accumulated schemas. File and
// engine failures propagate to the machine's error hook.
func (h *Handlers) DataLoad(ctx context.Context, st *State) error {
	req := st.Load
	if req == nil {
		return errors.New("no load request pending")
	}
	st.Load = nil

	table := engine.TableName(req.DataPath)
	if err := h.db.Materialize(ctx, req.DataPath, table); err != nil {
		return fmt.Errorf("loading %s into table %s: %w", req.DataPath, table, err)
	}
	h.log.Debug("data file materialized", "table", table, "path", req.DataPath)

	meta, err := os.ReadFile(req.SchemaPath)
	if err != nil {
		return fmt.Errorf("reading schema description: %w", err)
	}

	block := fmt.Sprintf("Table: %s\n%s\n", table, string(meta))
	st.Schemas += block

	h.say(st, provider.RoleSystem,
		fmt.Sprintf("Table '%s' loaded with metadata:\n%s", table, block))
	st.Next = StageIntake
	return nil
}
