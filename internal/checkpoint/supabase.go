// Package checkpoint persists conversation state across reconnects.
package checkpoint

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/supabase-community/supabase-go"

	"github.com/joacoastudillo71-jpg/Chatbot-GESPRO/internal/agent"
)

const defaultTable = "agent_checkpoints"

type Config struct {
	URL            string
	ServiceRoleKey string
	Table          string
}

// SupabaseStore keeps one row per thread in a Supabase table, with the
// serialized state as a JSON column. The row is upserted on every turn so
// a dropped call can resume where it left off.
type SupabaseStore struct {
	client *supabase.Client
	table  string
}

func NewSupabaseStore(config Config) (*SupabaseStore, error) {
	client, err := supabase.NewClient(config.URL, config.ServiceRoleKey, &supabase.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to create Supabase client: %w", err)
	}
	table := config.Table
	if table == "" {
		table = defaultTable
	}
	return &SupabaseStore{client: client, table: table}, nil
}

type checkpointRow struct {
	ThreadID string          `json:"thread_id"`
	State    json.RawMessage `json:"state"`
}

func (s *SupabaseStore) Get(ctx context.Context, threadID string) (*agent.State, bool, error) {
	data, _, err := s.client.From(s.table).
		Select("thread_id,state", "", false).
		Eq("thread_id", threadID).
		Execute()
	if err != nil {
		return nil, false, fmt.Errorf("failed to read checkpoint: %w", err)
	}

	var rows []checkpointRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, false, fmt.Errorf("failed to decode checkpoint rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, false, nil
	}

	var st agent.State
	if err := json.Unmarshal(rows[0].State, &st); err != nil {
		return nil, false, fmt.Errorf("failed to decode checkpoint state: %w", err)
	}
	return &st, true, nil
}

func (s *SupabaseStore) Put(ctx context.Context, threadID string, st *agent.State) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("failed to encode checkpoint state: %w", err)
	}

	row := checkpointRow{ThreadID: threadID, State: raw}
	_, _, err = s.client.From(s.table).
		Insert(row, true, "thread_id", "", "").
		Execute()
	if err != nil {
		return fmt.Errorf("failed to write checkpoint: %w", err)
	}
	return nil
}
