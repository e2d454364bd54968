package services

import (
	"context"
	"sort"

	"github.com/SscSPs/erp_finance_core/internal/apperrors"
	"github.com/SscSPs/erp_finance_core/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_finance_core/internal/core/ports/repositories"
)

// AccountHierarchy answers structural questions about the chart of accounts.
type AccountHierarchy struct {
	accounts portsrepo.AccountReader
}

// NewAccountHierarchy creates an AccountHierarchy over an account reader.
func NewAccountHierarchy(accounts portsrepo.AccountReader) *AccountHierarchy {
	return &AccountHierarchy{accounts: accounts}
}

// Resolve returns an account by ID.
func (h *AccountHierarchy) Resolve(ctx context.Context, accountID string) (*domain.Account, error) {
	return h.accounts.FindAccountByID(ctx, accountID)
}

// Children returns the direct children of an account.
func (h *AccountHierarchy) Children(ctx context.Context, accountID string) ([]domain.Account, error) {
	return h.accounts.ListChildren(ctx, accountID)
}

// IsLeaf reports whether an account has no children.
func (h *AccountHierarchy) IsLeaf(ctx context.Context, accountID string) (bool, error) {
	counts, err := h.accounts.CountChildren(ctx, []string{accountID})
	if err != nil {
		return false, err
	}
	return counts[accountID] == 0, nil
}

// ResolvePostable loads the accounts referenced by journal lines and checks that
// each exists in the organization, is active and, unless allowParent is set, is a leaf.
func (h *AccountHierarchy) ResolvePostable(ctx context.Context, organizationID string, accountIDs []string, allowParent bool) (map[string]domain.Account, error) {
	ids := uniqueStrings(accountIDs)
	found, err := h.accounts.FindAccountsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		acct, ok := found[id]
		if !ok || acct.OrganizationID != organizationID {
			return nil, apperrors.NewValidationError("account %s does not exist", id)
		}
		if !acct.IsActive {
			return nil, apperrors.NewValidationError("account %s (%s) is inactive", acct.Code, id)
		}
	}
	if allowParent {
		return found, nil
	}
	counts, err := h.accounts.CountChildren(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		if counts[id] > 0 {
			return nil, apperrors.NewValidationError("account %s (%s) has child accounts; post to a leaf account", found[id].Code, id)
		}
	}
	return found, nil
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
