package domain

// Classification defines the fundamental accounting type of an account.
type Classification string

const (
	Asset     Classification = "ASSET"
	Liability Classification = "LIABILITY"
	Equity    Classification = "EQUITY"
	Revenue   Classification = "REVENUE"
	Expense   Classification = "EXPENSE"
)

// IsValid reports whether c is one of the five classifications.
func (c Classification) IsValid() bool {
	switch c {
	case Asset, Liability, Equity, Revenue, Expense:
		return true
	}
	return false
}

// NormalBalance returns the side on which accounts of this classification increase.
func (c Classification) NormalBalance() NormalBalance {
	switch c {
	case Asset, Expense:
		return NormalDebit
	default:
		return NormalCredit
	}
}

// IsBalanceSheet reports whether balances of c carry forward across periods.
func (c Classification) IsBalanceSheet() bool {
	return c == Asset || c == Liability || c == Equity
}

// NormalBalance is the polarity of an account.
type NormalBalance string

const (
	NormalDebit  NormalBalance = "DEBIT"
	NormalCredit NormalBalance = "CREDIT"
)

// Signed returns the balance of the given debit and credit totals, positive when
// the account sits on its normal side.
func (n NormalBalance) Signed(debit, credit Amount) Amount {
	if n == NormalDebit {
		return debit - credit
	}
	return credit - debit
}

// AccountTags are capability flags used to section the cash flow statement.
type AccountTags struct {
	IsCash              bool `json:"isCash"`
	IsFixedAsset        bool `json:"isFixedAsset"`
	IsLongTermLiability bool `json:"isLongTermLiability"`
	IsNonCashExpense    bool `json:"isNonCashExpense"`
	IsNonCashContra     bool `json:"isNonCashContra"`
}

// IsZero reports whether no tag is set.
func (t AccountTags) IsZero() bool {
	return t == AccountTags{}
}

// Account is a general ledger account in an organization's chart of accounts.
type Account struct {
	AccountID       string         `json:"accountID"`
	OrganizationID  string         `json:"organizationID"`
	Code            string         `json:"code"`
	Name            string         `json:"name"`
	Classification  Classification `json:"classification"`
	NormalBalance   NormalBalance  `json:"normalBalance"`
	ParentAccountID *string        `json:"parentAccountID,omitempty"`
	Description     string         `json:"description"`
	IsActive        bool           `json:"isActive"`
	Tags            AccountTags    `json:"tags"`
	AuditFields
}

// IsRoot reports whether the account has no parent.
func (a Account) IsRoot() bool {
	return a.ParentAccountID == nil || *a.ParentAccountID == ""
}
