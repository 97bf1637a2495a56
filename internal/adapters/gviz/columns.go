package gviz

import (
	"strings"

	"sheeets/internal/domain"
)

type field int

const (
	fieldDate field = iota
	fieldStart
	fieldEnd
	fieldOrganizer
	fieldName
	fieldAddress
	fieldCost
	fieldTags
	fieldLink
	fieldFood
	fieldBar
	fieldNote
	numFields
)

// labelAliases maps lowercase header labels to fields.
var labelAliases = map[string]field{
	"date":       fieldDate,
	"day":        fieldDate,
	"start time": fieldStart,
	"start":      fieldStart,
	"end time":   fieldEnd,
	"end":        fieldEnd,
	"organizer":  fieldOrganizer,
	"host":       fieldOrganizer,
	"event name": fieldName,
	"event":      fieldName,
	"name":       fieldName,
	"address":    fieldAddress,
	"location":   fieldAddress,
	"venue":      fieldAddress,
	"cost":       fieldCost,
	"price":      fieldCost,
	"tags":       fieldTags,
	"vibe":       fieldTags,
	"vibes":      fieldTags,
	"link":       fieldLink,
	"rsvp":       fieldLink,
	"url":        fieldLink,
	"food":       fieldFood,
	"bar":        fieldBar,
	"drinks":     fieldBar,
	"note":       fieldNote,
	"notes":      fieldNote,
}

// columnMap resolves each field to a column index, or -1 when absent.
type columnMap [numFields]int

// defaultColumns is the sheet's positional layout, used when labels are missing.
func defaultColumns() columnMap {
	var m columnMap
	for i := range m {
		m[i] = i
	}
	return m
}

// mapColumns matches header labels case-insensitively. When the name column
// cannot be located by label the positional layout is used.
func mapColumns(cols []Column) columnMap {
	var m columnMap
	for i := range m {
		m[i] = -1
	}
	for i, c := range cols {
		f, ok := labelAliases[strings.ToLower(strings.TrimSpace(c.Label))]
		if ok && m[f] < 0 {
			m[f] = i
		}
	}
	if m[fieldName] < 0 {
		return defaultColumns()
	}
	return m
}

func (m columnMap) text(r Row, f field) string {
	return strings.TrimSpace(CellString(r.Cell(m[f])))
}

// rawRow maps a table row onto named fields. Boolean cells are rendered as
// "true"/"" so the normalizer's truthy check sees raw booleans too.
func (m columnMap) rawRow(r Row) domain.RawRow {
	flag := func(f field) string {
		c := r.Cell(m[f])
		if c == nil {
			return ""
		}
		if CellBool(c) {
			return "true"
		}
		return strings.TrimSpace(CellString(c))
	}
	return domain.RawRow{
		Date:      m.text(r, fieldDate),
		StartTime: m.text(r, fieldStart),
		EndTime:   m.text(r, fieldEnd),
		Organizer: m.text(r, fieldOrganizer),
		Name:      m.text(r, fieldName),
		Address:   m.text(r, fieldAddress),
		Cost:      m.text(r, fieldCost),
		Tags:      m.text(r, fieldTags),
		Link:      m.text(r, fieldLink),
		Food:      flag(fieldFood),
		Bar:       flag(fieldBar),
		Note:      m.text(r, fieldNote),
	}
}
