package pipeline

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sells-group/mdf/internal/catalog"
	"github.com/sells-group/mdf/internal/model"
)

var printer = message.NewPrinter(language.English)

// narrate describes what stage just did, using the data it produced.
func narrate(stage model.Stage, s *Snapshot) string {
	switch stage {
	case model.StageIngesting:
		return fmt.Sprintf("Ingesting data. %d raw records are flowing into the foundation via realtime and batch pipelines. "+
			"The data arrives messy: inconsistent phone formats, mixed-case names and IDs scattered across systems.", len(s.Raw))

	case model.StageHygiene:
		var b strings.Builder
		b.WriteString("Data hygiene in progress. Phone numbers are normalized to (XXX) XXX-XXXX, emails are lowercased and trimmed, " +
			"names are proper-cased. Identities cannot be resolved on dirty data.")
		if len(s.Cleaned) > 0 {
			c := s.Cleaned[0]
			switch {
			case c.OriginalPhone != "" && c.Phone != "":
				fmt.Fprintf(&b, " For example, %q was standardized to %q.", c.OriginalPhone, c.Phone)
			case c.OriginalEmail != "" && c.Email != "":
				fmt.Fprintf(&b, " For example, %q was cleaned to %q.", c.OriginalEmail, c.Email)
			}
		}
		return b.String()

	case model.StageIdentity:
		msg := "Identity resolution running. Emails link CRM records to web sessions, phone numbers connect purchases " +
			"to lead forms, and device IDs stitch anonymous browsing to known profiles."
		if len(s.Clusters) > 0 {
			msg += fmt.Sprintf(" So far, %d identity clusters have been discovered across %d sources.", len(s.Clusters), len(s.Sources))
		}
		return msg

	case model.StageProfiling:
		msg := "Building unified profiles. Each identity cluster is merged into a single golden record combining every available data class."
		if len(s.Profiles) > 0 {
			p := s.Profiles[0]
			msg += fmt.Sprintf(" For example, %s %s was created by merging %d source records from %s.",
				p.FirstName, p.LastName, p.RecordCount, strings.Join(p.Sources, ", "))
		}
		return msg

	case model.StageMeasurement:
		msg := "Measurement and KPIs. Calculating attribution metrics, LTV projections and engagement scores on the clean, unified data."
		if n := len(s.Profiles); n > 0 {
			total := 0
			for _, p := range s.Profiles {
				total += p.LTV
			}
			avg := (total + n/2) / n
			msg += printer.Sprintf(" Average LTV across %d profiles: $%d.", n, avg)
		}
		return msg

	case model.StageActivating:
		return fmt.Sprintf("Activating to the MarTech stack. %d golden records now feed CDP audience segments, journey orchestration, "+
			"campaign management and real-time personalization. Raw data never bypasses the foundation.", len(s.Profiles))

	case model.StageComplete:
		return fmt.Sprintf("Simulation complete. %d unified profiles (golden records) have been created.", len(s.Profiles))
	}
	return ""
}

// DescribeSelection summarizes a source selection by ingestion mode and
// category, in selection order. Unknown ids are skipped.
func DescribeSelection(cat *catalog.Catalog, ids []string) string {
	if len(ids) == 0 {
		return "No sources selected. Pick one or more sources to begin."
	}

	var realtime, batch, categories []string
	seen := make(map[string]bool)
	for _, id := range ids {
		src, ok := cat.Lookup(id)
		if !ok {
			continue
		}
		if src.Ingestion == "realtime" {
			realtime = append(realtime, src.Name)
		} else {
			batch = append(batch, src.Name)
		}
		if !seen[src.Category] {
			seen[src.Category] = true
			categories = append(categories, src.Category)
		}
	}

	noun := "categories"
	if len(categories) == 1 {
		noun = "category"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Selected %d source(s) across %d %s.\n", len(ids), len(categories), noun)
	if len(realtime) > 0 {
		fmt.Fprintf(&b, "Realtime ingestion: %s\n", strings.Join(realtime, ", "))
	}
	if len(batch) > 0 {
		fmt.Fprintf(&b, "Batch ingestion: %s\n", strings.Join(batch, ", "))
	}
	if len(ids) >= 3 {
		fmt.Fprintf(&b, "With %d sources, identity resolution has multiple join keys to stitch records into golden records.\n", len(ids))
	}
	return strings.TrimRight(b.String(), "\n")
}
