package services_test

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/SscSPs/erp_finance_core/internal/apperrors"
	"github.com/SscSPs/erp_finance_core/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_finance_core/internal/core/ports/repositories"
)

// memStore is an in-memory ledger database. Transactions are serialized and
// rolled back by restoring a snapshot taken when they began.
type memStore struct {
	txMu sync.Mutex
	mu   sync.Mutex

	accounts  map[string]domain.Account
	entries   map[string]domain.JournalEntry
	sequences map[string]int64
	versions  map[string]int64
	periods   map[string]domain.FiscalPeriod
	templates map[string]domain.WorkflowTemplate
	instances map[string]domain.WorkflowInstance
	budgets   map[string]domain.Budget
}

func newMemStore() *memStore {
	return &memStore{
		accounts:  map[string]domain.Account{},
		entries:   map[string]domain.JournalEntry{},
		sequences: map[string]int64{},
		versions:  map[string]int64{},
		periods:   map[string]domain.FiscalPeriod{},
		templates: map[string]domain.WorkflowTemplate{},
		instances: map[string]domain.WorkflowInstance{},
		budgets:   map[string]domain.Budget{},
	}
}

func (m *memStore) provider() portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TxManager:     memTx{m},
		AccountRepo:   m,
		JournalRepo:   m,
		PeriodRepo:    m,
		WorkflowRepo:  m,
		ReportingRepo: m,
		BudgetRepo:    m,
	}
}

func (m *memStore) snapshot() *memStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := newMemStore()
	for k, v := range m.accounts {
		s.accounts[k] = v
	}
	for k, v := range m.entries {
		s.entries[k] = copyEntry(v)
	}
	for k, v := range m.sequences {
		s.sequences[k] = v
	}
	for k, v := range m.versions {
		s.versions[k] = v
	}
	for k, v := range m.periods {
		s.periods[k] = v
	}
	for k, v := range m.templates {
		s.templates[k] = v
	}
	for k, v := range m.instances {
		s.instances[k] = copyInstance(v)
	}
	for k, v := range m.budgets {
		s.budgets[k] = v
	}
	return s
}

func (m *memStore) restore(s *memStore) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts, m.entries, m.sequences, m.versions = s.accounts, s.entries, s.sequences, s.versions
	m.periods, m.templates, m.instances, m.budgets = s.periods, s.templates, s.instances, s.budgets
}

type txKey struct{}

type memTx struct{ store *memStore }

func (t memTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}
	t.store.txMu.Lock()
	defer t.store.txMu.Unlock()
	snap := t.store.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		t.store.restore(snap)
		return err
	}
	return nil
}

func (t memTx) WithinReadSnapshot(ctx context.Context, fn func(ctx context.Context) error) error {
	return t.WithinTx(ctx, fn)
}

func copyEntry(e domain.JournalEntry) domain.JournalEntry {
	e.Lines = append([]domain.JournalLine(nil), e.Lines...)
	return e
}

func copyInstance(i domain.WorkflowInstance) domain.WorkflowInstance {
	i.Actions = append([]domain.WorkflowStepAction(nil), i.Actions...)
	return i
}

// --- accounts ---

func (m *memStore) FindAccountByID(_ context.Context, accountID string) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[accountID]
	if !ok {
		return nil, apperrors.NewNotFoundError("account", accountID)
	}
	return &a, nil
}

func (m *memStore) FindAccountByCode(_ context.Context, organizationID, code string) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if a.OrganizationID == organizationID && a.Code == code {
			return &a, nil
		}
	}
	return nil, apperrors.NewNotFoundError("account", code)
}

func (m *memStore) FindAccountsByIDs(_ context.Context, accountIDs []string) (map[string]domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[string]domain.Account{}
	for _, id := range accountIDs {
		if a, ok := m.accounts[id]; ok {
			out[id] = a
		}
	}
	return out, nil
}

func (m *memStore) ListAccounts(_ context.Context, organizationID string) ([]domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Account
	for _, a := range m.accounts {
		if a.OrganizationID == organizationID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (m *memStore) ListChildren(_ context.Context, accountID string) ([]domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Account
	for _, a := range m.accounts {
		if a.ParentAccountID != nil && *a.ParentAccountID == accountID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (m *memStore) CountChildren(_ context.Context, accountIDs []string) (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[string]int{}
	for _, a := range m.accounts {
		if a.ParentAccountID == nil {
			continue
		}
		for _, id := range accountIDs {
			if *a.ParentAccountID == id {
				out[id]++
			}
		}
	}
	return out, nil
}

func (m *memStore) SaveAccount(_ context.Context, account domain.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if a.OrganizationID == account.OrganizationID && a.Code == account.Code {
			return apperrors.NewDuplicateError("account", account.Code)
		}
	}
	m.accounts[account.AccountID] = account
	return nil
}

func (m *memStore) UpdateAccountTags(_ context.Context, accountID string, tags domain.AccountTags, updatedBy string, updatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[accountID]
	if !ok {
		return apperrors.NewNotFoundError("account", accountID)
	}
	a.Tags, a.LastUpdatedBy, a.LastUpdatedAt = tags, updatedBy, updatedAt
	m.accounts[accountID] = a
	return nil
}

func (m *memStore) DeactivateAccount(_ context.Context, accountID string, updatedBy string, updatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[accountID]
	if !ok {
		return apperrors.NewNotFoundError("account", accountID)
	}
	a.IsActive, a.LastUpdatedBy, a.LastUpdatedAt = false, updatedBy, updatedAt
	m.accounts[accountID] = a
	return nil
}

// --- journal ---

func (m *memStore) FindJournalEntryByID(_ context.Context, journalEntryID string) (*domain.JournalEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[journalEntryID]
	if !ok {
		return nil, apperrors.NewNotFoundError("journal entry", journalEntryID)
	}
	e = copyEntry(e)
	return &e, nil
}

func (m *memStore) ListJournalEntries(_ context.Context, params domain.ListJournalEntriesParams) ([]domain.JournalEntry, *string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.JournalEntry
	for _, e := range m.entries {
		if e.OrganizationID != params.OrganizationID || (params.Status != nil && e.Status != *params.Status) {
			continue
		}
		e.Lines = nil
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EntryNumber > out[j].EntryNumber })
	if len(out) > params.Limit {
		out = out[:params.Limit]
	}
	return out, nil, nil
}

func (m *memStore) FindReversalOf(_ context.Context, journalEntryID string) (*domain.JournalEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entries {
		if e.ReversalOfID != nil && *e.ReversalOfID == journalEntryID {
			e = copyEntry(e)
			return &e, nil
		}
	}
	return nil, apperrors.NewNotFoundError("reversal of journal entry", journalEntryID)
}

func (m *memStore) NextEntrySequence(_ context.Context, organizationID string, year int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := organizationID + "|" + strconv.Itoa(year)
	m.sequences[key]++
	return m.sequences[key], nil
}

func (m *memStore) SaveJournalEntry(_ context.Context, entry domain.JournalEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if entry.ReversalOfID != nil {
		for _, e := range m.entries {
			if e.ReversalOfID != nil && *e.ReversalOfID == *entry.ReversalOfID {
				return apperrors.NewStateConflictError("journal entry %s is already reversed", *entry.ReversalOfID)
			}
		}
	}
	m.entries[entry.JournalEntryID] = copyEntry(entry)
	return nil
}

func (m *memStore) TransitionJournalEntry(_ context.Context, u portsrepo.JournalStatusUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[u.JournalEntryID]
	if !ok {
		return apperrors.NewNotFoundError("journal entry", u.JournalEntryID)
	}
	matched := false
	for _, s := range u.From {
		matched = matched || e.Status == s
	}
	if !matched || e.Version != u.ExpectedVersion {
		return apperrors.NewStateConflictError("journal entry %s was modified concurrently", u.JournalEntryID)
	}
	e.Status = u.To
	e.Version++
	e.LastUpdatedBy, e.LastUpdatedAt = u.UpdatedBy, u.UpdatedAt
	if u.ApprovedBy != nil {
		e.ApprovedBy = u.ApprovedBy
	}
	if u.PostedAt != nil {
		e.PostedAt = u.PostedAt
	}
	if u.PeriodID != nil {
		e.PeriodID = u.PeriodID
	}
	m.entries[u.JournalEntryID] = e
	return nil
}

func (m *memStore) BumpLedgerVersion(_ context.Context, organizationID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.versions[organizationID]++
	return m.versions[organizationID], nil
}

// --- periods ---

func (m *memStore) FindPeriodByID(_ context.Context, periodID string) (*domain.FiscalPeriod, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.periods[periodID]
	if !ok {
		return nil, apperrors.NewNotFoundError("fiscal period", periodID)
	}
	return &p, nil
}

func (m *memStore) FindPeriodForDate(_ context.Context, organizationID string, date time.Time, _ bool) (*domain.FiscalPeriod, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.periods {
		if p.OrganizationID == organizationID && p.Contains(date) {
			return &p, nil
		}
	}
	return nil, apperrors.NewNotFoundError("fiscal period", date.Format(domain.DateLayout))
}

func (m *memStore) ListPeriods(_ context.Context, organizationID string) ([]domain.FiscalPeriod, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.FiscalPeriod
	for _, p := range m.periods {
		if p.OrganizationID == organizationID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}

func (m *memStore) FindOverlappingPeriods(_ context.Context, organizationID string, start, end time.Time) ([]domain.FiscalPeriod, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	window := domain.FiscalPeriod{StartDate: start, EndDate: end}
	var out []domain.FiscalPeriod
	for _, p := range m.periods {
		if p.OrganizationID == organizationID && p.Overlaps(window) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memStore) SavePeriod(_ context.Context, period domain.FiscalPeriod) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.periods[period.PeriodID] = period
	return nil
}

func (m *memStore) SetPeriodClosed(_ context.Context, periodID string, closed bool, actorID string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.periods[periodID]
	if !ok {
		return apperrors.NewNotFoundError("fiscal period", periodID)
	}
	if p.IsClosed == closed {
		return apperrors.NewStateConflictError("fiscal period %s is unchanged", periodID)
	}
	p.IsClosed = closed
	if closed {
		p.ClosedBy, p.ClosedAt = &actorID, &at
	} else {
		p.ClosedBy, p.ClosedAt = nil, nil
	}
	m.periods[periodID] = p
	return nil
}

// --- workflows ---

func (m *memStore) FindTemplate(_ context.Context, organizationID string, resourceType domain.ResourceType) (*domain.WorkflowTemplate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.templates[organizationID+"|"+string(resourceType)]
	if !ok {
		return nil, apperrors.NewNotFoundError("workflow template", string(resourceType))
	}
	return &t, nil
}

func (m *memStore) FindInstanceByID(_ context.Context, instanceID string) (*domain.WorkflowInstance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i, ok := m.instances[instanceID]
	if !ok {
		return nil, apperrors.NewNotFoundError("workflow instance", instanceID)
	}
	i = copyInstance(i)
	return &i, nil
}

func (m *memStore) FindInstanceByResource(_ context.Context, resourceType domain.ResourceType, resourceID string) (*domain.WorkflowInstance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var latest *domain.WorkflowInstance
	for _, i := range m.instances {
		if i.ResourceType == resourceType && i.ResourceID == resourceID {
			if latest == nil || i.CreatedAt.After(latest.CreatedAt) {
				c := copyInstance(i)
				latest = &c
			}
		}
	}
	if latest == nil {
		return nil, apperrors.NewNotFoundError("workflow instance", resourceID)
	}
	return latest, nil
}

func (m *memStore) SaveTemplate(_ context.Context, template domain.WorkflowTemplate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.templates[template.OrganizationID+"|"+string(template.Type)] = template
	return nil
}

func (m *memStore) SaveInstance(_ context.Context, instance domain.WorkflowInstance) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.instances[instance.InstanceID] = copyInstance(instance)
	return nil
}

func (m *memStore) UpdateInstance(_ context.Context, instance domain.WorkflowInstance, expectedVersion int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.instances[instance.InstanceID]
	if !ok {
		return apperrors.NewNotFoundError("workflow instance", instance.InstanceID)
	}
	if stored.Version != expectedVersion {
		return apperrors.NewStateConflictError("workflow instance %s was modified concurrently", instance.InstanceID)
	}
	m.instances[instance.InstanceID] = copyInstance(instance)
	return nil
}

// --- reporting ---

func (m *memStore) GetAccountActivity(_ context.Context, organizationID string, from, to *time.Time) ([]domain.AccountActivity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sums := map[string]*domain.AccountActivity{}
	for _, e := range m.entries {
		if e.OrganizationID != organizationID || e.Status != domain.StatusPosted {
			continue
		}
		if (from != nil && e.Date.Before(*from)) || (to != nil && e.Date.After(*to)) {
			continue
		}
		for _, l := range e.Lines {
			a, ok := sums[l.GLAccountID]
			if !ok {
				a = &domain.AccountActivity{Account: m.accounts[l.GLAccountID]}
				sums[l.GLAccountID] = a
			}
			a.Debit += l.Debit
			a.Credit += l.Credit
		}
	}
	out := make([]domain.AccountActivity, 0, len(sums))
	for _, a := range sums {
		out = append(out, *a)
	}
	return out, nil
}

func (m *memStore) GetRollupActivity(ctx context.Context, accountID string, asOf *time.Time) (domain.Amount, domain.Amount, error) {
	m.mu.Lock()
	subtree := map[string]bool{accountID: true}
	for grew := true; grew; {
		grew = false
		for id, a := range m.accounts {
			if a.ParentAccountID != nil && subtree[*a.ParentAccountID] && !subtree[id] {
				subtree[id] = true
				grew = true
			}
		}
	}
	org := m.accounts[accountID].OrganizationID
	m.mu.Unlock()

	activity, err := m.GetAccountActivity(ctx, org, nil, asOf)
	if err != nil {
		return 0, 0, err
	}
	var debit, credit domain.Amount
	for _, a := range activity {
		if subtree[a.Account.AccountID] {
			debit += a.Debit
			credit += a.Credit
		}
	}
	return debit, credit, nil
}

func (m *memStore) GetLedgerVersion(_ context.Context, organizationID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.versions[organizationID], nil
}

// --- budgets ---

func (m *memStore) FindBudgetByID(_ context.Context, budgetID string) (*domain.Budget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.budgets[budgetID]
	if !ok {
		return nil, apperrors.NewNotFoundError("budget", budgetID)
	}
	return &b, nil
}

func (m *memStore) SaveBudget(_ context.Context, budget domain.Budget) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.budgets[budget.BudgetID] = budget
	return nil
}
