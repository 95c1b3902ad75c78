package services

import (
	"context"
	"fmt"
	"time"

	"github.com/contacthub/backend/internal/logger"
	"github.com/contacthub/backend/internal/repos"
)

// Reconciler periodically repairs the user/contact link invariant: a
// contact id must appear in its owner's reference list exactly while
// the contact row exists. The request path maintains this ordering
// best-effort with no transactions, so a crash between steps can leave
// a dangling reference or an unreferenced contact; each pass removes
// the former and restores the latter. It never touches contact rows or
// bucket objects.
type Reconciler struct {
	log         *logger.Logger
	userRepo    repos.UserRepo
	contactRepo repos.ContactRepo
	interval    time.Duration
}

// ReconcileStats counts the repairs of a single pass.
type ReconcileStats struct {
	RemovedRefs    int
	RestoredRefs   int
	OrphanedOwners int
	UsersRepaired  int
}

func NewReconciler(log *logger.Logger, userRepo repos.UserRepo, contactRepo repos.ContactRepo, interval time.Duration) *Reconciler {
	return &Reconciler{
		log:         log.With("service", "Reconciler"),
		userRepo:    userRepo,
		contactRepo: contactRepo,
		interval:    interval,
	}
}

// Run blocks, reconciling once per interval until ctx is cancelled.
func (r *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.Info("Reconciler stopping", "reason", ctx.Err())
			return
		case <-ticker.C:
			stats, err := r.ReconcileOnce(ctx)
			if err != nil {
				r.log.Error("Reconcile pass failed", "error", err)
				continue
			}
			if stats.RemovedRefs > 0 || stats.RestoredRefs > 0 || stats.OrphanedOwners > 0 {
				r.log.Warn("Reconcile pass repaired links",
					"removed_refs", stats.RemovedRefs,
					"restored_refs", stats.RestoredRefs,
					"orphaned_owners", stats.OrphanedOwners,
					"users_repaired", stats.UsersRepaired)
			}
		}
	}
}

// ReconcileOnce runs a single idempotent pass. It is safe to run
// concurrently with live traffic under the same last-writer-wins model
// as the request path.
func (r *Reconciler) ReconcileOnce(ctx context.Context) (ReconcileStats, error) {
	var stats ReconcileStats

	users, err := r.userRepo.List(ctx, nil)
	if err != nil {
		return stats, fmt.Errorf("failed to list users: %w", err)
	}
	contacts, err := r.contactRepo.List(ctx, nil)
	if err != nil {
		return stats, fmt.Errorf("failed to list contacts: %w", err)
	}

	contactExists := make(map[string]bool, len(contacts))
	for _, contact := range contacts {
		contactExists[contact.ID.String()] = true
	}
	userByID := make(map[string]int, len(users))
	for i, user := range users {
		userByID[user.ID.String()] = i
	}

	dirty := make(map[string]bool)

	// Drop references to contacts that no longer exist.
	for _, user := range users {
		kept := user.ContactRefs[:0]
		for _, ref := range user.ContactRefs {
			if contactExists[ref] {
				kept = append(kept, ref)
				continue
			}
			stats.RemovedRefs++
			dirty[user.ID.String()] = true
		}
		user.ContactRefs = kept
	}

	// Restore references for contacts missing from their owner's list.
	for _, contact := range contacts {
		idx, ok := userByID[contact.OwnerID.String()]
		if !ok {
			// The owner row is gone; nothing to repair against.
			stats.OrphanedOwners++
			r.log.Warn("Contact has no owning user", "contact_id", contact.ID, "owner_id", contact.OwnerID)
			continue
		}
		owner := users[idx]
		if owner.HasContactRef(contact.ID.String()) {
			continue
		}
		owner.ContactRefs = append(owner.ContactRefs, contact.ID.String())
		stats.RestoredRefs++
		dirty[owner.ID.String()] = true
	}

	for _, user := range users {
		if !dirty[user.ID.String()] {
			continue
		}
		if err := r.userRepo.Save(ctx, nil, user); err != nil {
			return stats, fmt.Errorf("failed to save repaired user %s: %w", user.ID, err)
		}
		stats.UsersRepaired++
	}
	return stats, nil
}
