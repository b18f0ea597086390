package chatstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/valkey-io/valkey-go"

	"github.com/nivkeren/wellness-coach/internal/domain/coach"
)

// ValkeyStore keeps conversation state and transcripts in a Valkey-compatible
// database. State lives under a string key, the transcript under a list
// trimmed to the configured window.
type ValkeyStore struct {
	client valkey.Client
	prefix string
}

// NewValkeyStore constructs a new store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string) *ValkeyStore {
	if prefix == "" {
		prefix = "chat"
	}
	return &ValkeyStore{client: client, prefix: prefix}
}

func (s *ValkeyStore) State(ctx context.Context, userID int64) (coach.State, error) {
	cmd := s.client.B().Get().Key(s.stateKey(userID)).Build()
	payload, err := s.client.Do(ctx, cmd).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return coach.State{}, nil
		}
		return coach.State{}, err
	}
	var st coach.State
	if err := json.Unmarshal([]byte(payload), &st); err != nil {
		return coach.State{}, err
	}
	return st, nil
}

func (s *ValkeyStore) SaveState(ctx context.Context, userID int64, st coach.State) error {
	payload, err := json.Marshal(st)
	if err != nil {
		return err
	}
	cmd := s.client.B().Set().Key(s.stateKey(userID)).Value(string(payload)).Build()
	return s.client.Do(ctx, cmd).Error()
}

func (s *ValkeyStore) ClearState(ctx context.Context, userID int64) error {
	cmd := s.client.B().Del().Key(s.stateKey(userID)).Build()
	return s.client.Do(ctx, cmd).Error()
}

func (s *ValkeyStore) AppendHistory(ctx context.Context, userID int64, entry coach.HistoryEntry, limit int) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	key := s.historyKey(userID)
	push := s.client.B().Rpush().Key(key).Element(string(payload)).Build()
	if err := s.client.Do(ctx, push).Error(); err != nil {
		return err
	}
	if limit <= 0 {
		return nil
	}
	trim := s.client.B().Ltrim().Key(key).Start(int64(-limit)).Stop(-1).Build()
	return s.client.Do(ctx, trim).Error()
}

func (s *ValkeyStore) History(ctx context.Context, userID int64) ([]coach.HistoryEntry, error) {
	cmd := s.client.B().Lrange().Key(s.historyKey(userID)).Start(0).Stop(-1).Build()
	rows, err := s.client.Do(ctx, cmd).AsStrSlice()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, nil
		}
		return nil, err
	}
	out := make([]coach.HistoryEntry, 0, len(rows))
	for _, row := range rows {
		var entry coach.HistoryEntry
		if err := json.Unmarshal([]byte(row), &entry); err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, nil
}

func (s *ValkeyStore) stateKey(userID int64) string {
	return fmt.Sprintf("%s:state:%d", s.prefix, userID)
}

func (s *ValkeyStore) historyKey(userID int64) string {
	return fmt.Sprintf("%s:history:%d", s.prefix, userID)
}

var _ coach.Store = (*ValkeyStore)(nil)
