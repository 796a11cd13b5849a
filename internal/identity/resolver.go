// Package identity partitions cleaned records into clusters that each
// represent one real-world customer.
package identity

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/mdf/internal/model"
)

// Mode selects which matching passes the resolver runs.
type Mode string

const (
	// Deterministic links records only on exact email or phone equality.
	Deterministic Mode = "deterministic"
	// Probabilistic adds name+city and similar-email heuristics.
	Probabilistic Mode = "probabilistic"
)

// ParseMode converts a mode name into a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case Deterministic:
		return Deterministic, nil
	case Probabilistic:
		return Probabilistic, nil
	default:
		return "", eris.Errorf("identity: unknown mode %q", s)
	}
}

// Resolver assigns records to identity clusters in a single ordered pass.
type Resolver struct {
	mode  Mode
	newID func() string
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithIDFunc overrides how cluster IDs are minted.
func WithIDFunc(fn func() string) Option {
	return func(r *Resolver) { r.newID = fn }
}

// NewResolver creates a resolver for the given mode.
func NewResolver(mode Mode, opts ...Option) *Resolver {
	r := &Resolver{
		mode:  mode,
		newID: func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve partitions records using a fresh resolver with default options.
func Resolve(records []model.CleanedRecord, mode Mode) []*model.IdentityCluster {
	return NewResolver(mode).Resolve(records)
}

// pass is the index state carried across one resolution.
type pass struct {
	byEmail map[string]*model.IdentityCluster
	byPhone map[string]*model.IdentityCluster
	byFuzzy map[string]*model.IdentityCluster

	// emailOrder lists indexed emails in first-registration order so the
	// similar-email scan is reproducible.
	emailOrder []string

	clusters []*model.IdentityCluster
}

// Resolve partitions records into clusters. Clusters are returned in creation
// order, without those absorbed by a merge. Every input record lands in
// exactly one returned cluster.
//
// For each record, in input order:
//  1. An indexed email adopts its cluster.
//  2. An indexed phone adopts its cluster, or, when the email already picked
//     a different one, folds the phone cluster into the email cluster.
//  3. In probabilistic mode, unassigned records try the first-initial +
//     last-name + city key, then an indexed email with the same domain and
//     first letter but a different local part.
//  4. Otherwise a new cluster is opened.
//
// Blank emails and phones never match.
func (r *Resolver) Resolve(records []model.CleanedRecord) []*model.IdentityCluster {
	p := &pass{
		byEmail: make(map[string]*model.IdentityCluster),
		byPhone: make(map[string]*model.IdentityCluster),
		byFuzzy: make(map[string]*model.IdentityCluster),
	}
	probabilistic := r.mode == Probabilistic

	for _, rec := range records {
		var assigned *model.IdentityCluster

		if rec.Email != "" {
			assigned = p.byEmail[rec.Email]
		}

		if rec.Phone != "" {
			if phoneCluster, ok := p.byPhone[rec.Phone]; ok {
				if assigned != nil && assigned != phoneCluster {
					p.merge(phoneCluster, assigned, probabilistic)
				} else {
					assigned = phoneCluster
				}
			}
		}

		if probabilistic && assigned == nil {
			if key, ok := fuzzyKey(rec); ok {
				assigned = p.byFuzzy[key]
			}
		}

		if probabilistic && assigned == nil && rec.Email != "" {
			assigned = p.similarEmail(rec.Email)
		}

		if assigned == nil {
			assigned = &model.IdentityCluster{ID: r.newID()}
			p.clusters = append(p.clusters, assigned)
		}

		assigned.Records = append(assigned.Records, rec)
		p.register(rec, assigned, probabilistic)
	}

	zap.L().Debug("identity: resolved",
		zap.String("mode", string(r.mode)),
		zap.Int("records", len(records)),
		zap.Int("clusters", len(p.clusters)),
	)

	return p.clusters
}

// merge moves every record of from into into and drops from from the active
// cluster list. Re-registering the moved records re-points their email, phone
// and fuzzy entries, so no index is left aimed at the dropped cluster.
func (p *pass) merge(from, into *model.IdentityCluster, probabilistic bool) {
	for _, rec := range from.Records {
		into.Records = append(into.Records, rec)
		p.register(rec, into, probabilistic)
	}
	if i := slices.Index(p.clusters, from); i >= 0 {
		p.clusters = slices.Delete(p.clusters, i, i+1)
	}
	zap.L().Debug("identity: merged clusters",
		zap.String("from", from.ID),
		zap.String("into", into.ID),
		zap.Int("moved", len(from.Records)),
		zap.Int("size", len(into.Records)),
	)
	from.Records = nil
}

func (p *pass) register(rec model.CleanedRecord, c *model.IdentityCluster, probabilistic bool) {
	if rec.Email != "" {
		if _, seen := p.byEmail[rec.Email]; !seen {
			p.emailOrder = append(p.emailOrder, rec.Email)
		}
		p.byEmail[rec.Email] = c
	}
	if rec.Phone != "" {
		p.byPhone[rec.Phone] = c
	}
	if probabilistic {
		if key, ok := fuzzyKey(rec); ok {
			p.byFuzzy[key] = c
		}
	}
}

// similarEmail returns the cluster of the first indexed email that shares the
// domain and first local-part letter with email but is a different address.
func (p *pass) similarEmail(email string) *model.IdentityCluster {
	local, domain, ok := splitEmail(email)
	if !ok {
		return nil
	}
	initial := firstLower(local)
	for _, existing := range p.emailOrder {
		eLocal, eDomain, ok := splitEmail(existing)
		if !ok {
			continue
		}
		if strings.EqualFold(eDomain, domain) && firstLower(eLocal) == initial && eLocal != local {
			return p.byEmail[existing]
		}
	}
	return nil
}

// fuzzyKey builds the lowercased first-initial, last-name and city key. Both
// names must be present.
func fuzzyKey(rec model.CleanedRecord) (string, bool) {
	if rec.FirstName == "" || rec.LastName == "" {
		return "", false
	}
	return firstLower(rec.FirstName) + "_" + strings.ToLower(rec.LastName) + "_" + strings.ToLower(rec.City), true
}

func splitEmail(email string) (local, domain string, ok bool) {
	local, domain, found := strings.Cut(email, "@")
	if !found || local == "" || domain == "" {
		return "", "", false
	}
	return local, domain, true
}

func firstLower(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return ""
	}
	return strings.ToLower(string(r))
}
