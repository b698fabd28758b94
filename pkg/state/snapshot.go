package state

import (
	"bytes"
	"encoding/json"
	"slices"

	"tableflip.dev/goals/pkg/goal"
)

// CurrentSchema tags persisted snapshots.
const CurrentSchema = "goals/v1"

// Snapshot is the normalized, serialisable state: three maps keyed by id plus
// the ordering of top-level lists.
type Snapshot struct {
	Schema      string                    `json:"schema"`
	Goals       map[string]*goal.Goal     `json:"goals"`
	Lists       map[string]*goal.List     `json:"lists"`
	Instances   map[string]*goal.Instance `json:"instances"`
	RootListIDs []string                  `json:"rootListIds"`
}

// NewSnapshot returns an empty snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Schema:    CurrentSchema,
		Goals:     make(map[string]*goal.Goal),
		Lists:     make(map[string]*goal.List),
		Instances: make(map[string]*goal.Instance),
	}
}

// Clone deep-copies the snapshot.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return NewSnapshot()
	}
	cp := &Snapshot{
		Schema:      s.Schema,
		Goals:       make(map[string]*goal.Goal, len(s.Goals)),
		Lists:       make(map[string]*goal.List, len(s.Lists)),
		Instances:   make(map[string]*goal.Instance, len(s.Instances)),
		RootListIDs: slices.Clone(s.RootListIDs),
	}
	for k, v := range s.Goals {
		cp.Goals[k] = v.Clone()
	}
	for k, v := range s.Lists {
		cp.Lists[k] = v.Clone()
	}
	for k, v := range s.Instances {
		cp.Instances[k] = v.Clone()
	}
	if cp.Schema == "" {
		cp.Schema = CurrentSchema
	}
	return cp
}

// normalize fills nil maps so a freshly decoded snapshot is usable.
func (s *Snapshot) normalize() {
	if s.Schema == "" {
		s.Schema = CurrentSchema
	}
	if s.Goals == nil {
		s.Goals = make(map[string]*goal.Goal)
	}
	if s.Lists == nil {
		s.Lists = make(map[string]*goal.List)
	}
	if s.Instances == nil {
		s.Instances = make(map[string]*goal.Instance)
	}
}

// SameAs reports whether s and o serialise to the same document.
func (s *Snapshot) SameAs(o *Snapshot) bool {
	a, err := json.Marshal(s.canonical())
	if err != nil {
		return false
	}
	b, err := json.Marshal(o.canonical())
	if err != nil {
		return false
	}
	return bytes.Equal(a, b)
}

func (s *Snapshot) canonical() *Snapshot {
	cp := s.Clone()
	cp.normalize()
	if cp.RootListIDs == nil {
		cp.RootListIDs = []string{}
	}
	return cp
}
