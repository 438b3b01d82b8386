package console

import (
	"sync"
	"time"

	"finconsole/models"
	"finconsole/utils"
)

// Row actions offered per owner.
const (
	ActionAdd    = "add"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// OwnerRow is one rendered row of an account-management table.
type OwnerRow struct {
	models.Owner
	Name     string   `json:"name"`
	Checked  bool     `json:"checked"`
	Presence Entry    `json:"presence"`
	Actions  []string `json:"actions"`
}

// OwnerView derives the table rows of one screen from the owner list, its
// presence cache and its filter state, recomputing when any of them changes.
type OwnerView struct {
	cache  *PresenceCache
	search *utils.Debouncer[Query]

	mu            sync.Mutex
	owners        []models.Owner
	ownersVersion uint64
	query         Query
	queryVersion  uint64

	rows      []OwnerRow
	built     bool
	builtFrom [3]uint64
}

// NewOwnerView builds a view. cache may be nil for plain customer lists.
func NewOwnerView(cache *PresenceCache, debounce time.Duration) *OwnerView {
	v := &OwnerView{cache: cache, query: Query{Field: FieldName}}
	v.search = utils.NewDebouncer(debounce, v.SetQuery)
	return v
}

func (v *OwnerView) SetOwners(owners []models.Owner) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.owners = append([]models.Owner(nil), owners...)
	v.ownersVersion++
}

// Search applies q once input has been quiet for the debounce window.
func (v *OwnerView) Search(q Query) {
	v.search.Call(q)
}

// SetQuery applies q immediately.
func (v *OwnerView) SetQuery(q Query) {
	if q.Field == "" {
		q.Field = FieldName
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if q == v.query {
		return
	}
	v.query = q
	v.queryVersion++
}

// FlushSearch applies a pending debounced query now.
func (v *OwnerView) FlushSearch() {
	v.search.Flush()
}

func (v *OwnerView) SearchPending() bool {
	return v.search.Pending()
}

func (v *OwnerView) Query() Query {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.query
}

// ResetQuery restores the default filter state, dropping any pending search.
func (v *OwnerView) ResetQuery() {
	v.search.Cancel()
	v.SetQuery(Query{Field: FieldName})
}

// Rows returns the current derived rows.
func (v *OwnerView) Rows() []OwnerRow {
	var cacheVersion uint64
	var presence PresenceLookup
	if v.cache != nil {
		cacheVersion = v.cache.Version()
		presence = v.cache
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	stamp := [3]uint64{v.ownersVersion, v.queryVersion, cacheVersion}
	if v.built && stamp == v.builtFrom {
		return v.rows
	}

	filtered := FilterOwners(v.owners, v.query, presence)
	rows := make([]OwnerRow, 0, len(filtered))
	for _, o := range filtered {
		row := OwnerRow{Owner: o, Name: o.FullName(), Actions: []string{ActionAdd}}
		if presence != nil {
			row.Presence, row.Checked = presence.Lookup(o.UserID.String())
			if row.Presence.Present {
				row.Actions = []string{ActionUpdate, ActionDelete}
			}
		}
		rows = append(rows, row)
	}
	v.rows = rows
	v.built = true
	v.builtFrom = stamp
	return rows
}

// Close stops the debounced search.
func (v *OwnerView) Close() {
	v.search.Stop()
}
