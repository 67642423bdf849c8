package lx

import (
	"github.com/golang/glog"

	"github.com/l3x61/lx/internal/contract"
)

// TrackerStats counts what a Tracker has registered, by kind.
type TrackerStats struct {
	Envs     int
	Nodes    int
	Strings  int
	Closures int
	Natives  int
}

// Tracker is the ownership registry for heap objects created while
// evaluating in one session: scopes, closures, cloned function bodies, string
// values and partially applied natives. It is not a collector; nothing is
// freed until Release, which destroys everything at once.
//
// The object graph only points from payloads and child scopes toward parent
// scopes, so Release destroys payloads first and environments last.
// A Tracker is not safe for concurrent use.
type Tracker struct {
	payloads []any
	envs     []*Env
	stats    TrackerStats
	released bool
}

func NewTracker() *Tracker { return &Tracker{} }

// Track registers obj. Accepted handles are *Env, Node, *Closure, *Native and
// Values holding a string, closure or native; anything else is ignored.
// Tracking after Release is a programming error.
func (t *Tracker) Track(obj any) {
	contract.Assertf(!t.released, "object tracked after release")
	switch o := obj.(type) {
	case *Env:
		t.envs = append(t.envs, o)
		t.stats.Envs++
	case *Closure:
		t.payloads = append(t.payloads, o)
		t.stats.Closures++
	case *Native:
		t.payloads = append(t.payloads, o)
		t.stats.Natives++
	case Node:
		t.payloads = append(t.payloads, o)
		t.stats.Nodes++
	case Value:
		switch o.Tag {
		case VTStr:
			t.payloads = append(t.payloads, o)
			t.stats.Strings++
		case VTClosure:
			t.Track(o.AsClosure())
		case VTNative:
			t.Track(o.AsNative())
		}
	}
}

// Len returns the number of registered objects.
func (t *Tracker) Len() int { return len(t.payloads) + len(t.envs) }

// Stats returns per-kind registration counts. They survive Release.
func (t *Tracker) Stats() TrackerStats { return t.stats }

// Released reports whether Release has run.
func (t *Tracker) Released() bool { return t.released }

// Release destroys every tracked object exactly once. Later calls do nothing.
func (t *Tracker) Release() {
	if t.released {
		return
	}
	t.released = true
	for _, p := range t.payloads {
		switch o := p.(type) {
		case *Closure:
			o.release()
		case *Native:
			o.release()
		}
	}
	for _, e := range t.envs {
		e.release()
	}
	glog.V(5).Infof("tracker released %d envs, %d closures, %d natives, %d nodes, %d strings",
		t.stats.Envs, t.stats.Closures, t.stats.Natives, t.stats.Nodes, t.stats.Strings)
	t.payloads = nil
	t.envs = nil
}
