// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package clock_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/js-arias/treedate/clock"
	"github.com/js-arias/treedate/mutree"
	"github.com/js-arias/treedate/sampledate"
)

type spyClock struct {
	calls *int
}

func (s spyClock) Estimate(t *mutree.Tree, st *sampledate.Table) (*mutree.Tree, error) {
	*s.calls++
	return t, nil
}

func (s spyClock) String() string {
	return "spy"
}

var spyCalls int

func init() {
	clock.Register("Spy", func(clock.Options) clock.Estimator {
		return spyClock{calls: &spyCalls}
	})
}

func TestModes(t *testing.T) {
	want := []string{"robust", "spy", "strict"}
	if got := clock.Modes(); !reflect.DeepEqual(got, want) {
		t.Errorf("modes: got %v, want %v", got, want)
	}

	for _, name := range []string{"strict", "STRICT", " Strict "} {
		e, err := clock.Lookup(name)
		if err != nil {
			t.Errorf("mode %q: %v", name, err)
			continue
		}
		if e.String() != "strict" {
			t.Errorf("mode %q: got estimator %q", name, e.String())
		}
	}

	e, err := clock.New("robust", clock.Options{Missing: clock.Fail, Trim: 2.5})
	if err != nil {
		t.Fatalf("mode %q: %v", "robust", err)
	}
	want2 := clock.Robust{Missing: clock.Fail, Trim: 2.5}
	if !reflect.DeepEqual(e, want2) {
		t.Errorf("mode %q: got %#v, want %#v", "robust", e, want2)
	}
	if _, ok := e.(clock.Fitter); !ok {
		t.Errorf("mode %q: expecting a fitter", "robust")
	}
}

func TestRegisteredMode(t *testing.T) {
	spyCalls = 0
	tr := readTree(t, "(A:1,B:2);")
	if _, err := clock.Date("spy", tr, sampledate.New()); err != nil {
		t.Fatalf("spy: %v", err)
	}
	if spyCalls != 1 {
		t.Errorf("spy: got %d calls, want 1", spyCalls)
	}
}

func TestUnknownMode(t *testing.T) {
	spyCalls = 0

	// a nil tree would panic
	// if the mode is resolved after the traversal
	_, err := clock.Date("relaxed", nil, nil)
	if !errors.Is(err, clock.ErrUnknownMode) {
		t.Fatalf("unknown mode: got error %v, want %v", err, clock.ErrUnknownMode)
	}
	var ue *clock.UnknownModeError
	if !errors.As(err, &ue) {
		t.Fatalf("unknown mode: error %v is not an unknown mode error", err)
	}
	if ue.Mode != "relaxed" {
		t.Errorf("unknown mode: got mode %q, want %q", ue.Mode, "relaxed")
	}
	if !reflect.DeepEqual(ue.Valid, clock.Modes()) {
		t.Errorf("unknown mode: got valid modes %v, want %v", ue.Valid, clock.Modes())
	}
	if spyCalls != 0 {
		t.Errorf("unknown mode: estimator called %d times", spyCalls)
	}

	if _, err := clock.New("", clock.Options{}); !errors.Is(err, clock.ErrUnknownMode) {
		t.Errorf("empty mode: got error %v, want %v", err, clock.ErrUnknownMode)
	}
}

func TestRegisterDuplicated(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("duplicated mode: expecting panic")
		}
	}()
	clock.Register("strict", func(clock.Options) clock.Estimator {
		return clock.Strict{}
	})
}
