package console

import (
	"time"

	"github.com/jinzhu/now"
	"github.com/shopspring/decimal"

	"finconsole/models"
)

// DashboardStats are the stat cards of the admin dashboard.
type DashboardStats struct {
	Branch                string                        `json:"branch"`
	TotalCustomers        int                           `json:"totalCustomers"`
	NewCustomersThisMonth int                           `json:"newCustomersThisMonth"`
	Accounts              map[models.AccountKind]int    `json:"accounts"`
	Holdings              map[models.AccountKind]string `json:"holdings"`
	CollectionAccounts    int                           `json:"collectionAccounts"`
	ActiveCollections     int                           `json:"activeCollections"`
	CollectionBalance     string                        `json:"collectionBalance"`
	PaymentsToday         int                           `json:"paymentsToday"`
	CollectedToday        string                        `json:"collectedToday"`
}

// Dashboard summarises the session's current view of the branch as of at.
func (s *Session) Dashboard(at time.Time) DashboardStats {
	at = at.In(s.opts.Location)
	day := now.With(at)
	dayStart, dayEnd := day.BeginningOfDay(), day.EndOfDay()
	monthStart := day.BeginningOfMonth()

	owners := s.Owners()
	stats := DashboardStats{
		Branch:         s.Branch(),
		TotalCustomers: len(owners),
		Accounts:       map[models.AccountKind]int{},
		Holdings:       map[models.AccountKind]string{},
	}
	for _, o := range owners {
		if !o.CreatedAt.Before(monthStart) {
			stats.NewCustomersThisMonth++
		}
	}

	for _, kind := range models.AccountKinds {
		total := decimal.Zero
		count := 0
		for _, e := range s.caches[kind].Snapshot() {
			if !e.Present || e.Account == nil {
				continue
			}
			count++
			total = total.Add(e.Account.Principal())
		}
		stats.Accounts[kind] = count
		stats.Holdings[kind] = total.StringFixed(2)
	}

	balance, collected := decimal.Zero, decimal.Zero
	for _, a := range s.collections.Accounts() {
		stats.CollectionAccounts++
		if a.IsActive() {
			stats.ActiveCollections++
		}
		balance = balance.Add(a.Balance)
		for _, t := range a.Transactions {
			if t.Timestamp.Before(dayStart) || t.Timestamp.After(dayEnd) {
				continue
			}
			stats.PaymentsToday++
			collected = collected.Add(t.Amount)
		}
	}
	stats.CollectionBalance = balance.StringFixed(2)
	stats.CollectedToday = collected.StringFixed(2)
	return stats
}
