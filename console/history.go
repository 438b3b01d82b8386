package console

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jinzhu/now"

	"finconsole/models"
)

// HistoryFilter narrows a transaction list. Zero fields do not filter.
type HistoryFilter struct {
	From *time.Time `json:"fromDate,omitempty"`
	To   *time.Time `json:"toDate,omitempty"`
	Mode string     `json:"payMode,omitempty"`
}

func (f HistoryFilter) IsZero() bool {
	return f.From == nil && f.To == nil && f.mode() == ""
}

func (f HistoryFilter) mode() string {
	m := strings.TrimSpace(f.Mode)
	if strings.EqualFold(m, "all") {
		return ""
	}
	return m
}

// Label describes the filter for report headers.
func (f HistoryFilter) Label() string {
	var parts []string
	switch {
	case f.From != nil && f.To != nil:
		parts = append(parts, f.From.Format("2006-01-02")+" to "+f.To.Format("2006-01-02"))
	case f.From != nil:
		parts = append(parts, "from "+f.From.Format("2006-01-02"))
	case f.To != nil:
		parts = append(parts, "until "+f.To.Format("2006-01-02"))
	}
	if m := f.mode(); m != "" {
		parts = append(parts, m)
	}
	if len(parts) == 0 {
		return "All transactions"
	}
	return strings.Join(parts, ", ")
}

// ParseHistoryFilter reads YYYY-MM-DD dates in loc. Blank values leave the bound open.
func ParseHistoryFilter(from, to, mode string, loc *time.Location) (HistoryFilter, error) {
	f := HistoryFilter{Mode: strings.TrimSpace(mode)}
	parse := func(name, value string) (*time.Time, error) {
		value = strings.TrimSpace(value)
		if value == "" {
			return nil, nil
		}
		t, err := time.ParseInLocation("2006-01-02", value, loc)
		if err != nil {
			return nil, fmt.Errorf("%s must be a date (YYYY-MM-DD): %w", name, err)
		}
		return &t, nil
	}
	var err error
	if f.From, err = parse("fromDate", from); err != nil {
		return HistoryFilter{}, err
	}
	if f.To, err = parse("toDate", to); err != nil {
		return HistoryFilter{}, err
	}
	return f, nil
}

// FilterTransactions keeps the transactions inside the inclusive day range
// and matching the payment mode, newest first. The input is not modified.
func FilterTransactions(txns []models.Transaction, f HistoryFilter) []models.Transaction {
	var start, end time.Time
	if f.From != nil {
		start = now.With(*f.From).BeginningOfDay()
	}
	if f.To != nil {
		end = now.With(*f.To).EndOfDay()
	}
	mode := f.mode()

	out := make([]models.Transaction, 0, len(txns))
	for _, t := range txns {
		if f.From != nil && t.Timestamp.Before(start) {
			continue
		}
		if f.To != nil && t.Timestamp.After(end) {
			continue
		}
		if mode != "" && !strings.EqualFold(string(t.PayMode), mode) {
			continue
		}
		out = append(out, t)
	}
	SortNewestFirst(out)
	return out
}

// SortNewestFirst orders transactions by timestamp descending, in place.
func SortNewestFirst(txns []models.Transaction) {
	sort.SliceStable(txns, func(i, j int) bool {
		return txns[i].Timestamp.After(txns[j].Timestamp.Time)
	})
}

// HistoryView is the transaction history modal of one collection account.
// Opening it for any account starts from an empty filter.
type HistoryView struct {
	mu      sync.Mutex
	open    bool
	account models.CollectionAccount
	filter  HistoryFilter
}

func (h *HistoryView) Open(account models.CollectionAccount) []models.Transaction {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.open = true
	h.account = account
	h.filter = HistoryFilter{}
	return FilterTransactions(h.account.Transactions, h.filter)
}

// Apply replaces the filter and returns the filtered history.
func (h *HistoryView) Apply(f HistoryFilter) ([]models.Transaction, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.open {
		return nil, ErrHistoryClosed
	}
	h.filter = f
	return FilterTransactions(h.account.Transactions, h.filter), nil
}

// Clear drops every filter field.
func (h *HistoryView) Clear() ([]models.Transaction, error) {
	return h.Apply(HistoryFilter{})
}

// Rows returns the history under the current filter.
func (h *HistoryView) Rows() (models.CollectionAccount, HistoryFilter, []models.Transaction, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.open {
		return models.CollectionAccount{}, HistoryFilter{}, nil, ErrHistoryClosed
	}
	return h.account, h.filter, FilterTransactions(h.account.Transactions, h.filter), nil
}

// Sync swaps in fresh account data if the modal shows that account.
func (h *HistoryView) Sync(account models.CollectionAccount) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.open && h.account.AccountNumber == account.AccountNumber {
		h.account = account
	}
}

// Close resets the modal and its filter.
func (h *HistoryView) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.open = false
	h.account = models.CollectionAccount{}
	h.filter = HistoryFilter{}
}
