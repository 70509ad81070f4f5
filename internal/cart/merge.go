package cart

import (
	"context"
	"fmt"

	pkgerrors "github.com/angelmondragon/artmarket-storefront/pkg/errors"
	"github.com/angelmondragon/artmarket-storefront/pkg/types"
	"go.uber.org/multierr"
)

// Merge outcomes, also used as metric labels.
const (
	MergeOutcomeOK           = "ok"
	MergeOutcomePartial      = "partial"
	MergeOutcomeAborted      = "aborted"
	MergeOutcomeReloadFailed = "reload_failed"
	MergeOutcomeSessionEnded = "session_ended"
)

// MergeReport describes a guest cart merge.
type MergeReport struct {
	Outcome   string
	Attempted int
	Replayed  int
	// Failed lists artwork ids whose replay failed. Those lines are kept
	// locally after the reload.
	Failed []string
	// Err combines every replay failure.
	Err error
}

// Partial reports whether some lines did not reach the server.
func (r MergeReport) Partial() bool {
	return len(r.Failed) > 0
}

// MergeGuestCartIntoServer pushes the guest cart into a fresh server cart:
// clear the server cart, replay every local line with its quantity, then
// reload from the server.
//
// Replay failures do not stop the merge. They are collected in the report
// and the failed lines survive the reload locally, so nothing the guest
// picked is lost. If the initial clear fails nothing has been replayed and
// the merge is aborted with the local cart untouched. If the reload fails
// the local cart is kept as it was.
func (s *Store) MergeGuestCartIntoServer(ctx context.Context) (MergeReport, error) {
	if !s.server.Authenticated() {
		return MergeReport{}, pkgerrors.New(pkgerrors.CodeAuthRequired, "log in to sync your cart")
	}
	ctx = s.logg.WithOperation(ctx, "cart_merge")
	gen := s.currentGeneration()

	local := s.Items()
	report := MergeReport{Attempted: len(local)}
	if len(local) == 0 {
		report.Outcome = MergeOutcomeOK
		return report, s.Reload(ctx)
	}

	if err := s.server.ClearCart(ctx); err != nil {
		report.Outcome = MergeOutcomeAborted
		s.metrics.IncMerge(report.Outcome)
		s.logg.WarnErr(ctx, "guest cart merge aborted, server cart could not be cleared", err)
		return report, pkgerrors.Wrap(pkgerrors.CodeNetwork, err, "could not sync your cart").
			WithDetails(map[string]any{"outcome": report.Outcome})
	}

	failed := make(map[string]types.CartLineItem)
	for _, item := range local {
		if err := s.server.AddCartItem(ctx, item.ID, item.Quantity); err != nil {
			report.Err = multierr.Append(report.Err, fmt.Errorf("replay %s: %w", item.ID, err))
			report.Failed = append(report.Failed, item.ID)
			failed[item.ID] = item
			continue
		}
		report.Replayed++
	}

	remote, err := s.server.GetCart(ctx)
	if err != nil {
		report.Outcome = MergeOutcomeReloadFailed
		s.metrics.IncMerge(report.Outcome)
		s.logg.WarnErr(ctx, "guest cart merged but reload failed, keeping local cart", multierr.Append(report.Err, err))
		return report, nil
	}

	merged := remote.Items()
	for _, item := range local {
		if _, ok := failed[item.ID]; !ok {
			continue
		}
		if indexOf(merged, item.ID) >= 0 {
			continue
		}
		merged = append(merged, item)
	}
	if !s.replaceIf(ctx, gen, normalize(merged)) {
		report.Outcome = MergeOutcomeSessionEnded
		s.metrics.IncMerge(report.Outcome)
		s.logg.Warn(ctx, "session ended during guest cart merge, keeping local cart")
		return report, sessionEnded()
	}

	report.Outcome = MergeOutcomeOK
	if report.Partial() {
		report.Outcome = MergeOutcomePartial
		s.logg.WarnErr(s.logg.WithField(ctx, "failed_items", report.Failed), "guest cart partially merged, unsynced lines kept locally", report.Err)
	}
	s.metrics.IncMerge(report.Outcome)
	return report, nil
}
