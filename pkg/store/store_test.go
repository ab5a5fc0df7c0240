package store

import (
	"context"
	"testing"

	"github.com/sproutworks/furrow/pkg/errors"
	"github.com/sproutworks/furrow/pkg/sim"
)

// Validation happens before any database round trip, so these run against
// a zero store. Integration coverage against a live MongoDB lives in the
// deployment smoke tests, not here.

func TestSave_RejectsInvalidID(t *testing.T) {
	s := &RunStore{}
	err := s.Save(context.Background(), sim.Run{ID: "not-a-uuid"})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want ErrCodeInvalidInput", err)
	}
}

func TestGet_RejectsInvalidID(t *testing.T) {
	s := &RunStore{}
	if _, err := s.Get(context.Background(), ""); err == nil {
		t.Error("empty id accepted")
	}
	if _, err := s.Get(context.Background(), "0; drop runs"); err == nil {
		t.Error("malformed id accepted")
	}
}

func TestDelete_RejectsInvalidID(t *testing.T) {
	s := &RunStore{}
	if err := s.Delete(context.Background(), "xyz"); err == nil {
		t.Error("malformed id accepted")
	}
}
