package employee

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	employeeerrors "hr-ops/internal/employee/errors"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const labelSeparator = "-"

// Identity is the parsed form of an "<id> - <name>" label row.
type Identity struct {
	ID   string
	Name string
}

type IdentityParseError struct {
	Label  string
	Reason string
}

func (e *IdentityParseError) Error() string {
	return fmt.Sprintf("invalid employee label %q: %s", e.Label, e.Reason)
}

func (e *IdentityParseError) Is(target error) bool {
	return target == employeeerrors.ErrInvalidLabel
}

// ParseLabel splits a label on its first separator. "101 - Mary-Jane Doe"
// yields id "101" and name "Mary-Jane Doe".
func ParseLabel(label string) (Identity, error) {
	id, name, found := strings.Cut(label, labelSeparator)
	if !found {
		return Identity{}, &IdentityParseError{Label: label, Reason: "missing separator"}
	}
	id = strings.TrimSpace(id)
	name = strings.Join(strings.Fields(name), " ")
	if id == "" {
		return Identity{}, &IdentityParseError{Label: label, Reason: "empty identifier"}
	}
	if name == "" {
		return Identity{}, &IdentityParseError{Label: label, Reason: "empty name"}
	}
	return Identity{ID: id, Name: name}, nil
}

type SkippedLabel struct {
	Label string
	Err   error
}

type Resolution struct {
	// IDs maps every accepted label to its employee identifier.
	IDs map[string]string
	// Created lists the ids this call inserted.
	Created  []string
	Existing int
	Skipped  []SkippedLabel
}

func (r Resolution) Lookup(label string) (string, bool) {
	id, ok := r.IDs[label]
	return id, ok
}

type Resolver interface {
	Resolve(ctx context.Context, tx *sql.Tx, labels []string) (Resolution, error)
}

type resolver struct {
	repo   Repository
	logger *zap.Logger
}

func NewResolver(repo Repository, logger ...*zap.Logger) Resolver {
	l := zap.L().Named("employee.resolver")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.resolver")
	}
	return &resolver{repo: repo, logger: l}
}

// Resolve maps labels to employee ids with one read and at most one write.
// Malformed labels are reported in Resolution.Skipped and never fail the call.
func (r *resolver) Resolve(ctx context.Context, tx *sql.Tx, labels []string) (Resolution, error) {
	res := Resolution{IDs: make(map[string]string, len(labels))}

	seen := make(map[string]struct{}, len(labels))
	names := make(map[string]string)
	order := make([]string, 0, len(labels))
	for _, label := range labels {
		if _, ok := seen[label]; ok {
			continue
		}
		seen[label] = struct{}{}
		ident, err := ParseLabel(label)
		if err != nil {
			r.logger.Warn("skipping malformed employee label",
				zap.String("label", label),
				zap.Error(err),
			)
			res.Skipped = append(res.Skipped, SkippedLabel{Label: label, Err: err})
			continue
		}
		res.IDs[label] = ident.ID
		if _, ok := names[ident.ID]; !ok {
			names[ident.ID] = ident.Name
			order = append(order, ident.ID)
		}
	}

	if len(order) == 0 {
		return res, nil
	}

	qrepo := r.repo
	if tx != nil {
		qrepo = r.repo.WithTx(tx)
	}

	existing, err := qrepo.FindByIDs(ctx, order)
	if err != nil {
		r.logger.Error("find employees by ids failed", zap.Int("ids", len(order)), zap.Error(err))
		return Resolution{}, fmt.Errorf("find employees: %w", mapRepositoryError(err))
	}
	known := make(map[string]struct{}, len(existing))
	for _, e := range existing {
		known[e.ID] = struct{}{}
	}
	res.Existing = len(known)

	caser := cases.Title(language.English)
	var missing []Employee
	for _, id := range order {
		if _, ok := known[id]; ok {
			continue
		}
		missing = append(missing, Employee{ID: id, Name: caser.String(names[id])})
	}

	if len(missing) > 0 {
		created, err := qrepo.CreateBatch(ctx, missing)
		if err != nil {
			r.logger.Error("create employees failed", zap.Int("count", len(missing)), zap.Error(err))
			return Resolution{}, fmt.Errorf("create employees: %w", mapRepositoryError(err))
		}
		res.Created = created
		// Ids inserted by someone else between the lookup and the insert.
		res.Existing += len(missing) - len(created)
		r.logger.Info("employees created from import labels", zap.Strings("employee_ids", res.Created))
	}

	return res, nil
}
