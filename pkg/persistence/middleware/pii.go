package middleware

import (
	"context"
	"fmt"
	"regexp"
	"slices"

	"github.com/aretw0/arbor/pkg/blackboard"
	"github.com/aretw0/arbor/pkg/ports"
)

type redactionMiddleware struct {
	next     ports.SnapshotStore
	patterns []*regexp.Regexp
}

// NewRedaction returns a middleware that leaves out entries whose key matches any of
// patterns. Redacted keys are never persisted, so a resumed tree keeps their in-memory
// values.
func NewRedaction(patterns []string) (Middleware, error) {
	compiled := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("redaction pattern %q: %w", p, err)
		}
		compiled[i] = re
	}
	return func(next ports.SnapshotStore) ports.SnapshotStore {
		return &redactionMiddleware{next: next, patterns: compiled}
	}, nil
}

func (m *redactionMiddleware) Save(ctx context.Context, treeID string, snap *ports.Snapshot) error {
	redacted := *snap
	redacted.Entries = slices.DeleteFunc(slices.Clone(snap.Entries), func(e blackboard.Entry) bool {
		return m.matches(e.Key)
	})
	return m.next.Save(ctx, treeID, &redacted)
}

func (m *redactionMiddleware) Load(ctx context.Context, treeID string) (*ports.Snapshot, error) {
	return m.next.Load(ctx, treeID)
}

func (m *redactionMiddleware) Delete(ctx context.Context, treeID string) error {
	return m.next.Delete(ctx, treeID)
}

func (m *redactionMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

func (m *redactionMiddleware) matches(key string) bool {
	for _, p := range m.patterns {
		if p.MatchString(key) {
			return true
		}
	}
	return false
}
