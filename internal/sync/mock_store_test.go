package sync

import (
	"context"
	"errors"
	"fmt"
	gosync "sync"
	"time"

	"github.com/Veraticus/workshop-ledger/internal/common"
	"github.com/Veraticus/workshop-ledger/internal/model"
)

type upsertCall struct {
	WorkshopID string
	Fields     model.RegistrationFields
	RowIndex   int
}

// memStore is an in-memory SyncStore that records every upsert.
type memStore struct {
	workshops map[string]model.Workshop
	rows      map[string]model.Registration
	failRows  map[int]error
	synced    map[string]time.Time
	calls     []upsertCall
	mu        gosync.Mutex
}

func newMemStore(workshops ...model.Workshop) *memStore {
	s := &memStore{
		workshops: make(map[string]model.Workshop),
		rows:      make(map[string]model.Registration),
		failRows:  make(map[int]error),
		synced:    make(map[string]time.Time),
	}
	for _, w := range workshops {
		s.workshops[w.ID] = w
	}
	return s
}

func (s *memStore) UpsertRegistration(_ context.Context, workshopID string, rowIndex int, fields model.RegistrationFields) (*model.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = append(s.calls, upsertCall{WorkshopID: workshopID, RowIndex: rowIndex, Fields: fields})
	if err := s.failRows[rowIndex]; err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%s/%d", workshopID, rowIndex)
	reg := model.Registration{ID: key, WorkshopID: workshopID, RawRowIndex: rowIndex, RegistrationFields: fields}
	s.rows[key] = reg
	return &reg, nil
}

func (s *memStore) GetWorkshop(_ context.Context, id string) (*model.Workshop, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.workshops[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &w, nil
}

func (s *memStore) GetWorkshops(context.Context) ([]model.Workshop, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	workshops := make([]model.Workshop, 0, len(s.workshops))
	for _, w := range s.workshops {
		workshops = append(workshops, w)
	}
	return workshops, nil
}

func (s *memStore) MarkWorkshopSynced(_ context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.workshops[id]; !ok {
		return errors.New("unknown workshop")
	}
	s.synced[id] = at
	return nil
}

func (s *memStore) upserts() []upsertCall {
	s.mu.Lock()
	defer s.mu.Unlock()

	calls := make([]upsertCall, len(s.calls))
	copy(calls, s.calls)
	return calls
}
