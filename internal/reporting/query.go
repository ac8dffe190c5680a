package reporting

import (
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"ens-name-tracker/internal/candidates"
	"ens-name-tracker/internal/domain"
)

// DefaultPageSize is used when Query.PageSize is not positive.
const DefaultPageSize = 100

const day = 24 * time.Hour

// SortKey selects the record field results are ordered by.
type SortKey string

const (
	SortNone   SortKey = ""
	SortName   SortKey = "name"
	SortPrice  SortKey = "price"
	SortExpiry SortKey = "expiry"
)

// ParseSortKey validates a sort key from operator input.
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(s); k {
	case SortNone, SortName, SortPrice, SortExpiry:
		return k, nil
	default:
		return "", fmt.Errorf("invalid sort key %q (want name, price or expiry)", s)
	}
}

// Query narrows, orders and pages the record set. Nil pointer fields and
// empty sets do not filter. All supplied filters must match.
type Query struct {
	Available          *bool
	Status             *domain.Status
	MaxPrice           *float64
	ExpiringWithinDays *float64
	MaxNameLength      *int // runes, without .eth
	Label              *string

	CommonNamesOnly bool
	CommonNames     candidates.Set[string] // lower-cased bare labels
	FilterSet       candidates.Set[string] // full names or bare labels

	Sort     SortKey
	Page     int // 1-based, clamped to [1, TotalPages]
	PageSize int
}

// Apply runs q over records as of now. records is not modified.
func Apply(records []*domain.Record, q Query, now time.Time) *Report {
	matched := make([]*domain.Record, 0, len(records))
	for _, r := range records {
		if q.match(r, now) {
			matched = append(matched, r)
		}
	}

	sortRecords(matched, q.Sort)
	return paginate(matched, q.Page, q.PageSize)
}

func (q Query) match(r *domain.Record, now time.Time) bool {
	if q.Available != nil && r.Available != *q.Available {
		return false
	}
	if q.Status != nil && r.Status != *q.Status {
		return false
	}
	if q.MaxPrice != nil && r.Price > *q.MaxPrice {
		return false
	}
	if q.ExpiringWithinDays != nil {
		threshold := now.Add(time.Duration(*q.ExpiringWithinDays * float64(day))).UnixMilli()
		if r.Expiry <= 0 || r.Expiry > threshold {
			return false
		}
	}
	if q.MaxNameLength != nil && utf8.RuneCountInString(r.BareName()) > *q.MaxNameLength {
		return false
	}
	if q.Label != nil && r.Label != *q.Label {
		return false
	}
	if q.CommonNamesOnly && !q.CommonNames.Contains(candidates.Lower(r.BareName())) {
		return false
	}
	if len(q.FilterSet) > 0 && !q.FilterSet.Contains(r.Name) && !q.FilterSet.Contains(r.BareName()) {
		return false
	}
	return true
}

// sortRecords orders records ascending by key. Equal keys keep their order.
func sortRecords(records []*domain.Record, key SortKey) {
	var cmp func(a, b *domain.Record) int
	switch key {
	case SortName:
		cmp = func(a, b *domain.Record) int { return strings.Compare(a.Name, b.Name) }
	case SortPrice:
		cmp = func(a, b *domain.Record) int { return compareOrdered(a.Price, b.Price) }
	case SortExpiry:
		cmp = func(a, b *domain.Record) int { return compareOrdered(a.Expiry, b.Expiry) }
	default:
		return
	}
	slices.SortStableFunc(records, cmp)
}

func compareOrdered[T int64 | float64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// paginate slices one page. With no matches the report is page 0 of 0.
func paginate(records []*domain.Record, page, pageSize int) *Report {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	total := len(records)
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages == 0 {
		return &Report{Records: []*domain.Record{}}
	}

	page = min(max(page, 1), totalPages)
	start := (page - 1) * pageSize
	end := min(start+pageSize, total)

	return &Report{
		Records:    records[start:end],
		Page:       page,
		TotalPages: totalPages,
		TotalItems: total,
	}
}
