package service

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/kinovera/festival/api/internal/model"
)

// The listing pipeline. The repository pushes at most one filter and the
// sort down to the store; whatever it reported as not pushed is applied
// here. Order is fixed: search, filter, sort, paginate. Search is always
// client-side, pagination is always a slice of the final ordering, and the
// page total counts the filtered set so totals agree across pages.

// searchActivities keeps activities whose name, descriptions, venue,
// organizers or tags contain the term, case-insensitively. An empty term
// keeps everything.
func searchActivities(activities []*model.Activity, term string) []*model.Activity {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return activities
	}

	matched := make([]*model.Activity, 0, len(activities))
	for _, a := range activities {
		if activityMatches(a, term) {
			matched = append(matched, a)
		}
	}
	return matched
}

func activityMatches(a *model.Activity, term string) bool {
	if strings.Contains(strings.ToLower(a.Name), term) {
		return true
	}
	if a.ShortDescription != nil && strings.Contains(strings.ToLower(*a.ShortDescription), term) {
		return true
	}
	if a.Description != nil && strings.Contains(strings.ToLower(*a.Description), term) {
		return true
	}
	if strings.Contains(strings.ToLower(a.Venue.Name), term) {
		return true
	}
	for _, org := range a.Organizers {
		if strings.Contains(strings.ToLower(org), term) {
			return true
		}
	}
	for _, tag := range a.Tags {
		if strings.Contains(strings.ToLower(tag), term) {
			return true
		}
	}
	return false
}

// filterActivities applies every set filter in memory. Used when the
// repository fell back to a broad fetch.
func filterActivities(activities []*model.Activity, f model.ActivityFilters) []*model.Activity {
	if f.Count() == 0 {
		return activities
	}

	matched := make([]*model.Activity, 0, len(activities))
	for _, a := range activities {
		if f.Status != nil && a.Status != *f.Status {
			continue
		}
		if f.Visibility != nil && a.Visibility != *f.Visibility {
			continue
		}
		if f.Tag != nil && !containsString(a.Tags, *f.Tag) {
			continue
		}
		if f.DateFrom != nil && a.EventDate.Before(*f.DateFrom) {
			continue
		}
		if f.DateTo != nil && a.EventDate.After(*f.DateTo) {
			continue
		}
		matched = append(matched, a)
	}
	return matched
}

func containsString(items []string, s string) bool {
	for _, item := range items {
		if item == s {
			return true
		}
	}
	return false
}

// sortActivities orders the slice by the requested field. A nil spec means
// the chronological default: event date, then start time, then name. Every
// ordering ends in the name tie-break so equal keys sort deterministically.
func sortActivities(activities []*model.Activity, spec *model.SortSpec) {
	col := collate.New(language.Und, collate.IgnoreCase)

	less := func(a, b *model.Activity) int { return chronoCompare(a, b) }
	desc := false

	if spec != nil {
		desc = spec.Desc
		switch spec.Field {
		case model.SortByDate:
			// chronological default
		case model.SortByName:
			less = func(a, b *model.Activity) int { return col.CompareString(a.Name, b.Name) }
		case model.SortByRegistered:
			less = func(a, b *model.Activity) int { return intCompare(a.RegisteredCount, b.RegisteredCount) }
		case model.SortByViews:
			less = func(a, b *model.Activity) int { return intCompare(a.ViewCount, b.ViewCount) }
		case model.SortByCreated:
			less = func(a, b *model.Activity) int { return timeCompare(a.CreatedOn, b.CreatedOn) }
		}
	}

	sort.SliceStable(activities, func(i, j int) bool {
		c := less(activities[i], activities[j])
		if c == 0 {
			// Tie-break on name regardless of sort direction, then on ID
			// so two same-named activities keep a stable order.
			c = col.CompareString(activities[i].Name, activities[j].Name)
			if c == 0 {
				return activities[i].ID < activities[j].ID
			}
			return c < 0
		}
		if desc {
			return c > 0
		}
		return c < 0
	})
}

// chronoCompare is the default ordering: event date first, start time as
// the same-day key. Start times are zero-padded "HH:MM" strings, so the
// lexical compare is the chronological one.
func chronoCompare(a, b *model.Activity) int {
	if c := timeCompare(a.EventDate, b.EventDate); c != 0 {
		return c
	}
	return strings.Compare(a.StartTime, b.StartTime)
}

func timeCompare(a, b time.Time) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	}
	return 0
}

func intCompare(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// paginate slices one page out of the final ordering. Total always counts
// the full filtered set, so summing page lengths over all pages equals
// Total for any fixed query.
func paginate[T any](items []T, req model.PageRequest) model.Page[T] {
	req = req.Normalize()

	total := len(items)
	pageCount := (total + req.PageSize - 1) / req.PageSize
	if pageCount == 0 {
		pageCount = 1
	}

	start := (req.Page - 1) * req.PageSize
	if start > total {
		start = total
	}
	end := start + req.PageSize
	if end > total {
		end = total
	}

	return model.Page[T]{
		Items:     items[start:end],
		Total:     total,
		Page:      req.Page,
		PageSize:  req.PageSize,
		PageCount: pageCount,
	}
}
