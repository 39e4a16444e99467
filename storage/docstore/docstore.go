// Package docstore keeps the planner documents (saved plans & academic records) in a bbolt file.
package docstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/pkg/errors"
	"go.etcd.io/bbolt"

	"github.com/dannygardner26/GVCS-Main-Page-sub000/core/planner"
)

var (
	plansBucket  = []byte("plans")  // "<userID>:<planID>" -> Plan
	recordBucket = []byte("record") // "<userID>:<year>:<period>" -> RecordEntry
)

type Store struct {
	db *bbolt.DB
}

var _ planner.Store = (*Store)(nil) // interface compliance check

// Open opens (or creates) the bolt file at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrap(err, "creating docstore dir")
		}
	}
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "opening docstore %s", path)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{plansBucket, recordBucket} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "creating docstore buckets")
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func planKey(userID, id string) []byte {
	return []byte(userID + ":" + id)
}

func recordKey(userID string, year, period int) []byte {
	return []byte(fmt.Sprintf("%s:%04d:%d", userID, year, period))
}

func put(tx *bbolt.Tx, bucket, key []byte, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return tx.Bucket(bucket).Put(key, data)
}

// scan decodes every value whose key starts with prefix.
func scan(tx *bbolt.Tx, bucket, prefix []byte, decode func(v []byte) error) error {
	c := tx.Bucket(bucket).Cursor()
	for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
		if err := decode(v); err != nil {
			return errors.Wrapf(err, "decoding %s", k)
		}
	}
	return nil
}

func (s *Store) SavePlan(_ context.Context, userID string, p planner.Plan) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		return put(tx, plansBucket, planKey(userID, p.ID), p)
	})
	return errors.Wrap(err, "saving plan")
}

func (s *Store) GetPlan(_ context.Context, userID, id string) (planner.Plan, error) {
	var p planner.Plan
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(plansBucket).Get(planKey(userID, id))
		if v == nil {
			return planner.ErrPlanNotFound
		}
		return json.Unmarshal(v, &p)
	})
	if err != nil {
		if errors.Is(err, planner.ErrPlanNotFound) {
			return planner.Plan{}, err
		}
		return planner.Plan{}, errors.Wrap(err, "getting plan")
	}
	return p, nil
}

func (s *Store) ListPlans(_ context.Context, userID string) ([]planner.Plan, error) {
	plans := make([]planner.Plan, 0)
	err := s.db.View(func(tx *bbolt.Tx) error {
		return scan(tx, plansBucket, []byte(userID+":"), func(v []byte) error {
			var p planner.Plan
			if err := json.Unmarshal(v, &p); err != nil {
				return err
			}
			plans = append(plans, p)
			return nil
		})
	})
	if err != nil {
		return nil, errors.Wrap(err, "listing plans")
	}
	sort.Slice(plans, func(i, j int) bool {
		if !plans[i].CreatedAt.Equal(plans[j].CreatedAt) {
			return plans[i].CreatedAt.After(plans[j].CreatedAt)
		}
		return plans[i].ID < plans[j].ID
	})
	return plans, nil
}

func (s *Store) DeletePlan(_ context.Context, userID, id string) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(plansBucket)
		key := planKey(userID, id)
		if b.Get(key) == nil {
			return planner.ErrPlanNotFound
		}
		return b.Delete(key)
	})
	if err != nil && !errors.Is(err, planner.ErrPlanNotFound) {
		return errors.Wrap(err, "deleting plan")
	}
	return err
}

func (s *Store) PutRecordEntry(_ context.Context, userID string, e planner.RecordEntry) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		return put(tx, recordBucket, recordKey(userID, e.SchoolYear, e.MarkingPeriod), e)
	})
	return errors.Wrap(err, "saving record entry")
}

func (s *Store) DeleteRecordEntry(_ context.Context, userID string, year, period int) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(recordBucket).Delete(recordKey(userID, year, period))
	})
	return errors.Wrap(err, "deleting record entry")
}

func (s *Store) ListRecord(_ context.Context, userID string, year int) ([]planner.RecordEntry, error) {
	prefix := userID + ":"
	if year != 0 {
		prefix += fmt.Sprintf("%04d:", year)
	}

	// keys are sorted by year then period
	entries := make([]planner.RecordEntry, 0)
	err := s.db.View(func(tx *bbolt.Tx) error {
		return scan(tx, recordBucket, []byte(prefix), func(v []byte) error {
			var e planner.RecordEntry
			if err := json.Unmarshal(v, &e); err != nil {
				return err
			}
			entries = append(entries, e)
			return nil
		})
	})
	if err != nil {
		return nil, errors.Wrap(err, "listing record")
	}
	return entries, nil
}
