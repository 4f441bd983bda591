// Package screening turns questionnaire answers into listing filters.
package screening

import (
	"strings"

	"github.com/nicolas1xx/psicoapp/internal/model"
)

// Severity at or above this level adds the matching focus tag.
const severityThreshold = 4

// Translate derives filter criteria from the screening form. Anxiety and
// depression are 1-5 scales (0 means unanswered). The focus accumulates the
// free-text primary focus plus derived tags, deduplicated and joined with
// spaces. The recommended therapeutic line prefers TCC when the focus set
// touches anxiety or stress, even if depression terms are also present.
func Translate(anxiety, depression int, primaryFocus, genderPref string) model.FilterCriteria {
	var focuses []string
	if f := strings.TrimSpace(primaryFocus); f != "" {
		focuses = append(focuses, f)
	}
	if anxiety >= severityThreshold {
		focuses = append(focuses, "Ansiedade")
	}
	if depression >= severityThreshold {
		focuses = append(focuses, "Depressão")
	}
	focuses = dedupe(focuses)

	line := ""
	if contains(focuses, "Ansiedade") || contains(focuses, "Estresse") {
		line = "TCC"
	} else if contains(focuses, "Depressão") || contains(focuses, "Luto") {
		line = "Psicanálise"
	}

	return model.FilterCriteria{
		Gender: strings.TrimSpace(genderPref),
		Focus:  strings.Join(focuses, " "),
		Line:   line,
	}
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
