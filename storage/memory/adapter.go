package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/swaplane/swaplane/storage/types"
)

type Storage struct {
	data map[string]types.ExchangeRecord

	mu sync.RWMutex
}

func NewStorage() *Storage {
	return &Storage{
		data: make(map[string]types.ExchangeRecord),
	}
}

func (s *Storage) SaveExchange(_ context.Context, r *types.ExchangeRecord) error {
	elem := *r
	elem.CreatedAt = elem.CreatedAt.UTC()
	elem.UpdatedAt = elem.UpdatedAt.UTC()

	s.mu.Lock()
	s.data[elem.ID] = elem // key is unique
	s.mu.Unlock()

	return nil
}

func (s *Storage) GetExchange(_ context.Context, id string) (*types.ExchangeRecord, error) {
	s.mu.RLock()
	elem, ok := s.data[id]
	s.mu.RUnlock()

	if !ok {
		return nil, nil //nolint:nilnil // valid case
	}

	cp := elem

	return &cp, nil
}

func (s *Storage) ListExchanges(
	_ context.Context,
	query *types.HistoryQuery,
) (*types.Page[*types.ExchangeRecord], error) {
	s.mu.RLock()

	out := make([]*types.ExchangeRecord, 0, len(s.data))

	for _, v := range s.data {
		if query.UserID != "" && v.UserID != query.UserID {
			continue
		}

		if query.Status != nil && v.Status != *query.Status {
			continue
		}

		cp := v
		out = append(out, &cp)
	}

	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}

		return out[i].ID > out[j].ID
	})

	total := int64(len(out))
	if total == 0 {
		return &types.Page[*types.ExchangeRecord]{
			Results: nil,
			Total:   0,
		}, nil
	}

	lim := query.Limit
	if lim == 0 {
		lim = 100
	}

	if lim > 500 {
		lim = 500
	}

	off := query.Offset
	if off > total {
		return &types.Page[*types.ExchangeRecord]{
			Results: nil,
			Total:   total,
		}, nil
	}

	start := int(off)
	end := start + int(lim)

	if end > len(out) {
		end = len(out)
	}

	return &types.Page[*types.ExchangeRecord]{
		Results: out[start:end],
		Total:   total,
	}, nil
}

func (s *Storage) UpdateExchangeStatus(
	_ context.Context,
	id string,
	status types.ExchangeStatus,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	elem, ok := s.data[id]
	if !ok {
		return nil // nothing to update
	}

	elem.Status = status
	s.data[id] = elem

	return nil
}

func (s *Storage) ListOpen(_ context.Context) ([]*types.ExchangeRecord, error) {
	s.mu.RLock()

	out := make([]*types.ExchangeRecord, 0)

	for _, v := range s.data {
		if v.Status.Terminal() {
			continue
		}

		cp := v
		out = append(out, &cp)
	}

	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}

		return out[i].ID < out[j].ID
	})

	return out, nil
}
