package generate

import (
	"fmt"
	"math"
	"strings"

	"github.com/sells-group/mdf/internal/model"
)

// EdgeCases selects data-quality problems to inject into a generated batch.
type EdgeCases struct {
	MissingEmail     bool `json:"missingEmail" yaml:"missing_email" mapstructure:"missing_email"`
	DuplicateCRM     bool `json:"duplicateCRM" yaml:"duplicate_crm" mapstructure:"duplicate_crm"`
	MismatchedPhones bool `json:"mismatchedPhones" yaml:"mismatched_phones" mapstructure:"mismatched_phones"`
}

// Any reports whether at least one edge case is enabled.
func (e EdgeCases) Any() bool {
	return e.MissingEmail || e.DuplicateCRM || e.MismatchedPhones
}

// duplicateFraction is the share of CRM records copied by DuplicateCRM.
const duplicateFraction = 0.3

// ApplyEdgeCases returns a new batch with the enabled edge cases applied in
// order: missing emails, CRM duplicates, then phone reformatting. The input
// slice is not modified.
func (g *Generator) ApplyEdgeCases(records []model.RawRecord, ec EdgeCases) []model.RawRecord {
	out := make([]model.RawRecord, len(records))
	copy(out, records)

	if ec.MissingEmail {
		for i := range out {
			if i%3 == 0 {
				out[i].Email = ""
			}
		}
	}

	if ec.DuplicateCRM {
		var crm []model.RawRecord
		for _, r := range out {
			if r.SourceID == "crm" {
				crm = append(crm, r)
			}
		}
		n := int(math.Ceil(float64(len(crm)) * duplicateFraction))
		for _, r := range crm[:n] {
			dup := r
			dup.CRMID = r.CRMID + "-DUP"
			dup.FirstName = strings.ToUpper(r.FirstName)
			out = append(out, dup)
		}
	}

	if ec.MismatchedPhones {
		for i := range out {
			if out[i].Phone == "" {
				continue
			}
			out[i].Phone = g.reshapePhone(out[i].Phone)
		}
	}

	return out
}

// reshapePhone renders a phone's digits in one of the inconsistent shapes
// seen when systems disagree on formatting.
func (g *Generator) reshapePhone(phone string) string {
	d := digitsOnly(phone)
	variants := []string{
		"+1-" + d,
		"   " + d + "   ",
		fmt.Sprintf("(%s)%s%s", clamp(d, 0, 3), clamp(d, 3, 6), clamp(d, 6, len(d))),
	}
	return pick(g, variants)
}

func digitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

func clamp(s string, from, to int) string {
	if from > len(s) {
		return ""
	}
	if to > len(s) {
		to = len(s)
	}
	return s[from:to]
}
