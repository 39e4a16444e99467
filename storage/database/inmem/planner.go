package inmemdb

import (
	"context"
	"sort"

	"github.com/mohae/deepcopy"

	"github.com/dannygardner26/GVCS-Main-Page-sub000/core/planner"
)

type plannerStore struct {
	db *plannerTable
}

var _ planner.Store = (*plannerStore)(nil) // interface compliance check

func NewPlannerStore(db *DB) planner.Store {
	return &plannerStore{db: db.planner}
}

func (s *plannerStore) SavePlan(_ context.Context, userID string, p planner.Plan) error {
	s.db.Lock()
	defer s.db.Unlock()

	plans, ok := s.db.plans[userID]
	if !ok {
		plans = make(map[string]planner.Plan)
		s.db.plans[userID] = plans
	}
	plans[p.ID] = deepcopy.Copy(p).(planner.Plan)
	return nil
}

func (s *plannerStore) GetPlan(_ context.Context, userID, id string) (planner.Plan, error) {
	s.db.RLock()
	defer s.db.RUnlock()

	if p, ok := s.db.plans[userID][id]; ok {
		return deepcopy.Copy(p).(planner.Plan), nil
	}
	return planner.Plan{}, planner.ErrPlanNotFound
}

func (s *plannerStore) ListPlans(_ context.Context, userID string) ([]planner.Plan, error) {
	s.db.RLock()
	defer s.db.RUnlock()

	plans := make([]planner.Plan, 0, len(s.db.plans[userID]))
	for _, p := range s.db.plans[userID] {
		plans = append(plans, deepcopy.Copy(p).(planner.Plan))
	}
	sort.Slice(plans, func(i, j int) bool {
		if !plans[i].CreatedAt.Equal(plans[j].CreatedAt) {
			return plans[i].CreatedAt.After(plans[j].CreatedAt)
		}
		return plans[i].ID < plans[j].ID
	})
	return plans, nil
}

func (s *plannerStore) DeletePlan(_ context.Context, userID, id string) error {
	s.db.Lock()
	defer s.db.Unlock()

	if _, ok := s.db.plans[userID][id]; !ok {
		return planner.ErrPlanNotFound
	}
	delete(s.db.plans[userID], id)
	return nil
}

func (s *plannerStore) PutRecordEntry(_ context.Context, userID string, e planner.RecordEntry) error {
	s.db.Lock()
	defer s.db.Unlock()

	rec, ok := s.db.records[userID]
	if !ok {
		rec = make(map[recordKey]planner.RecordEntry)
		s.db.records[userID] = rec
	}
	rec[recordKey{e.SchoolYear, e.MarkingPeriod}] = e
	return nil
}

func (s *plannerStore) DeleteRecordEntry(_ context.Context, userID string, year, period int) error {
	s.db.Lock()
	defer s.db.Unlock()

	delete(s.db.records[userID], recordKey{year, period})
	return nil
}

func (s *plannerStore) ListRecord(_ context.Context, userID string, year int) ([]planner.RecordEntry, error) {
	s.db.RLock()
	defer s.db.RUnlock()

	entries := make([]planner.RecordEntry, 0)
	for k, e := range s.db.records[userID] {
		if year == 0 || k.year == year {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].SchoolYear != entries[j].SchoolYear {
			return entries[i].SchoolYear < entries[j].SchoolYear
		}
		return entries[i].MarkingPeriod < entries[j].MarkingPeriod
	})
	return entries, nil
}
