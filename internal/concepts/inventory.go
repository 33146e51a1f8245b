package concepts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	_ "embed"

	"github.com/spigell/ares/internal/ai"
	"golang.org/x/sync/singleflight"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed builtin.yaml
var builtinYAML []byte

// ErrNoLister is returned when an unknown skill needs bootstrapping but no
// concept lister is configured.
var ErrNoLister = errors.New("concept bootstrap is not configured")

// Classification tells whether the system already knows a skill.
type Classification string

const (
	Known   Classification = "known"
	Unknown Classification = "unknown"
)

// Relation links a skill to its prerequisites and sub-skills.
type Relation struct {
	Prerequisites []string `yaml:"prerequisites" json:"prerequisites"`
	Subskills     []string `yaml:"subskills" json:"subskills"`
}

type builtin struct {
	Concepts  map[string][]string `yaml:"concepts"`
	Relations map[string]Relation `yaml:"relations"`
}

// Inventory answers which concepts are expected for a skill. Built-in lists win
// over those learned at runtime; skill names are matched exactly.
type Inventory struct {
	builtin builtin
	store   *Store
	lister  ai.ConceptLister
	logger  *zap.Logger

	mu      sync.RWMutex
	dynamic map[string][]string

	group singleflight.Group
}

// NewInventory loads the embedded inventory and the dynamic store. lister may be
// nil, in which case Bootstrap is unavailable.
func NewInventory(store *Store, lister ai.ConceptLister, logger *zap.Logger) (*Inventory, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var b builtin
	if err := yaml.Unmarshal(builtinYAML, &b); err != nil {
		return nil, fmt.Errorf("decoding built-in concepts: %w", err)
	}

	dynamic, err := store.Load()
	if err != nil {
		return nil, err
	}

	return &Inventory{
		builtin: b,
		store:   store,
		lister:  lister,
		logger:  logger,
		dynamic: dynamic,
	}, nil
}

// Concepts returns a copy of the concept list for skill, or nil when none is known.
func (i *Inventory) Concepts(skill string) []string {
	if list, ok := i.builtin.Concepts[skill]; ok && len(list) > 0 {
		return append([]string(nil), list...)
	}

	i.mu.RLock()
	defer i.mu.RUnlock()

	if list, ok := i.dynamic[skill]; ok && len(list) > 0 {
		return append([]string(nil), list...)
	}

	return nil
}

// Relation returns the ontology entry for skill.
func (i *Inventory) Relation(skill string) (Relation, bool) {
	r, ok := i.builtin.Relations[skill]
	return r, ok
}

// Classify reports whether skill has built-in concepts or an ontology entry.
// Concepts learned at runtime do not make a skill known.
func (i *Inventory) Classify(skill string) Classification {
	if _, ok := i.builtin.Concepts[skill]; ok {
		return Known
	}
	if _, ok := i.builtin.Relations[skill]; ok {
		return Known
	}
	return Unknown
}

// Skills lists every skill with a concept list, built-in first.
func (i *Inventory) Skills() []string {
	out := make([]string, 0, len(i.builtin.Concepts))
	seen := make(map[string]struct{})
	for skill := range i.builtin.Concepts {
		out = append(out, skill)
		seen[skill] = struct{}{}
	}

	i.mu.RLock()
	defer i.mu.RUnlock()

	for skill := range i.dynamic {
		if _, ok := seen[skill]; !ok {
			out = append(out, skill)
		}
	}

	return out
}

// Bootstrap makes sure skill has a concept list, asking the lister when neither
// the built-in inventory nor the dynamic store has one. Concurrent calls for the
// same skill share one request.
func (i *Inventory) Bootstrap(ctx context.Context, skill string) ([]string, error) {
	skill = strings.TrimSpace(skill)
	if skill == "" {
		return nil, errors.New("skill is required")
	}

	if existing := i.Concepts(skill); existing != nil {
		return existing, nil
	}

	if i.lister == nil {
		return nil, ErrNoLister
	}

	v, err, shared := i.group.Do(skill, func() (any, error) {
		if existing := i.Concepts(skill); existing != nil {
			return existing, nil
		}

		list, err := i.lister.ListConcepts(ctx, skill)
		if err != nil {
			return nil, fmt.Errorf("bootstrapping concepts for %q: %w", skill, err)
		}

		if err := i.remember(skill, list); err != nil {
			return nil, err
		}

		i.logger.Info("concepts bootstrapped", zap.String("skill", skill), zap.Strings("concepts", list))
		return list, nil
	})
	if err != nil {
		return nil, err
	}

	if shared {
		i.logger.Debug("concept bootstrap shared", zap.String("skill", skill))
	}

	return append([]string(nil), v.([]string)...), nil
}

func (i *Inventory) remember(skill string, list []string) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	next := make(map[string][]string, len(i.dynamic)+1)
	for k, v := range i.dynamic {
		next[k] = v
	}
	next[skill] = append([]string(nil), list...)

	if err := i.store.Save(next); err != nil {
		return err
	}

	i.dynamic = next
	return nil
}
