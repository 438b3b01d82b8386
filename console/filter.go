package console

import (
	"fmt"
	"sort"
	"strings"

	"finconsole/models"
)

// SearchField selects which owner attribute a search term is matched against.
type SearchField string

const (
	FieldName          SearchField = "name"
	FieldAccountNumber SearchField = "accountNumber"
	FieldMobile        SearchField = "mobile"
)

func ParseSearchField(value string) (SearchField, error) {
	switch SearchField(strings.TrimSpace(value)) {
	case "", FieldName:
		return FieldName, nil
	case FieldAccountNumber:
		return FieldAccountNumber, nil
	case FieldMobile:
		return FieldMobile, nil
	}
	return "", fmt.Errorf("unknown search field %q", value)
}

// Query is the transient filter state of an owner list.
type Query struct {
	Term  string      `json:"term"`
	Field SearchField `json:"field"`
}

// PresenceLookup is the read side of a PresenceCache.
type PresenceLookup interface {
	Lookup(ownerID string) (Entry, bool)
}

// FilterOwners returns the owners matching q, owners without a sub-account
// first and newest first within each group. A blank term keeps every owner.
// presence may be nil, in which case every owner counts as without one.
func FilterOwners(owners []models.Owner, q Query, presence PresenceLookup) []models.Owner {
	term := strings.ToLower(strings.TrimSpace(q.Term))
	out := make([]models.Owner, 0, len(owners))
	for _, o := range owners {
		if term == "" || matches(o, term, q.Field, presence) {
			out = append(out, o)
		}
	}
	SortByPresence(out, presence)
	return out
}

func matches(o models.Owner, term string, field SearchField, presence PresenceLookup) bool {
	switch field {
	case FieldMobile:
		return strings.Contains(strings.ToLower(o.Mobile), term) ||
			(o.AltMobile != models.NotApplicable && strings.Contains(strings.ToLower(o.AltMobile), term))
	case FieldAccountNumber:
		e := lookup(presence, o.UserID.String())
		return e.Present && e.Account != nil && strings.Contains(strings.ToLower(e.Account.AccountNumber), term)
	default:
		return strings.Contains(strings.ToLower(o.FullName()), term)
	}
}

// SortByPresence orders owners in place: without sub-account before with,
// then createdAt descending. Ties keep their input order.
func SortByPresence(owners []models.Owner, presence PresenceLookup) {
	sort.SliceStable(owners, func(i, j int) bool {
		pi := lookup(presence, owners[i].UserID.String()).Present
		pj := lookup(presence, owners[j].UserID.String()).Present
		if pi != pj {
			return !pi
		}
		return owners[i].CreatedAt.After(owners[j].CreatedAt.Time)
	})
}

func lookup(presence PresenceLookup, ownerID string) Entry {
	if presence == nil {
		return Entry{}
	}
	e, _ := presence.Lookup(ownerID)
	return e
}
