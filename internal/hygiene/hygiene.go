package hygiene

import (
	"strings"

	"github.com/sells-group/mdf/internal/model"
)

// Rules toggles each normalization independently. A disabled rule leaves the
// field at its raw value.
type Rules struct {
	NormalizePhone  bool `json:"normalizePhone" yaml:"normalize_phone" mapstructure:"normalize_phone"`
	LowercaseEmail  bool `json:"lowercaseEmail" yaml:"lowercase_email" mapstructure:"lowercase_email"`
	TrimWhitespace  bool `json:"trimWhitespace" yaml:"trim_whitespace" mapstructure:"trim_whitespace"`
	ProperCaseNames bool `json:"properCaseNames" yaml:"proper_case_names" mapstructure:"proper_case_names"`
}

// DefaultRules enables every rule.
func DefaultRules() Rules {
	return Rules{
		NormalizePhone:  true,
		LowercaseEmail:  true,
		TrimWhitespace:  true,
		ProperCaseNames: true,
	}
}

// Apply returns one cleaned record per raw record, in input order. Fields the
// rules do not target are carried over unchanged.
func Apply(records []model.RawRecord, rules Rules) []model.CleanedRecord {
	out := make([]model.CleanedRecord, len(records))
	for i, r := range records {
		out[i] = clean(r, rules)
	}
	return out
}

func clean(r model.RawRecord, rules Rules) model.CleanedRecord {
	c := model.CleanedRecord{RawRecord: r, HygieneApplied: true}

	if rules.ProperCaseNames {
		c.FirstName = ProperCase(c.FirstName)
		c.LastName = ProperCase(c.LastName)
	}
	if rules.TrimWhitespace {
		c.FirstName = strings.TrimSpace(c.FirstName)
		c.LastName = strings.TrimSpace(c.LastName)
	}

	if r.Email != "" {
		c.OriginalEmail = r.Email
		if rules.LowercaseEmail {
			c.Email = NormalizeEmail(r.Email)
		}
	}
	if r.Phone != "" {
		c.OriginalPhone = r.Phone
		if rules.NormalizePhone {
			c.Phone = NormalizePhone(r.Phone)
		}
	}

	return c
}

// Raw strips the hygiene bookkeeping from cleaned records so they can be fed
// through Apply again.
func Raw(cleaned []model.CleanedRecord) []model.RawRecord {
	out := make([]model.RawRecord, len(cleaned))
	for i, c := range cleaned {
		out[i] = c.RawRecord
	}
	return out
}
