package profile

import "github.com/sells-group/mdf/internal/model"

// lineage finds the raw record behind a cleaned one by shared system ID.
type lineage struct {
	byID map[string]int
	raw  []model.RawRecord
}

func newLineage(raw []model.RawRecord) *lineage {
	l := &lineage{byID: make(map[string]int), raw: raw}
	for i, r := range raw {
		for _, k := range lineageKeys(r.CrossIDs) {
			if _, ok := l.byID[k]; !ok {
				l.byID[k] = i
			}
		}
	}
	return l
}

// lineageKeys lists the ID kinds used for lineage lookup, in priority order.
// Loyalty and master IDs are not consulted.
func lineageKeys(ids model.CrossIDs) []string {
	var keys []string
	for _, kv := range [...]struct{ kind, v string }{
		{"crm", ids.CRMID},
		{"customer", ids.CustomerID},
		{"marketo", ids.MarketoID},
		{"cookie", ids.CookieID},
		{"device", ids.DeviceID},
	} {
		if kv.v != "" {
			keys = append(keys, kv.kind+":"+kv.v)
		}
	}
	return keys
}

// rawFor returns the earliest raw record sharing any lineage ID with r, or
// r's own embedded record when none does.
func (l *lineage) rawFor(r model.CleanedRecord) model.RawRecord {
	best := -1
	for _, k := range lineageKeys(r.CrossIDs) {
		if i, ok := l.byID[k]; ok && (best < 0 || i < best) {
			best = i
		}
	}
	if best < 0 {
		return r.RawRecord
	}
	return l.raw[best]
}

// hygieneExamples collects a before/after pair for every phone, email and
// first name that hygiene changed.
func hygieneExamples(records []model.CleanedRecord, l *lineage) []model.HygieneExample {
	out := []model.HygieneExample{}
	for _, r := range records {
		source := r.Source
		if source == "" {
			source = r.SourceID
		}
		if r.OriginalPhone != "" && r.Phone != "" && r.OriginalPhone != r.Phone {
			out = append(out, model.HygieneExample{Field: "Phone", Before: r.OriginalPhone, After: r.Phone, Source: source})
		}
		if r.OriginalEmail != "" && r.Email != "" && r.OriginalEmail != r.Email {
			out = append(out, model.HygieneExample{Field: "Email", Before: r.OriginalEmail, After: r.Email, Source: source})
		}
		if r.FirstName != "" {
			if raw := l.rawFor(r); raw.FirstName != "" && raw.FirstName != r.FirstName {
				out = append(out, model.HygieneExample{Field: "First Name", Before: raw.FirstName, After: r.FirstName, Source: source})
			}
		}
	}
	return out
}
