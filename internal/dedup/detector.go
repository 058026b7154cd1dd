// internal/dedup/detector.go
package dedup

import "strings"

// Identity carries the five fields compared when checking whether a
// candidate record duplicates an existing one. Empty fields are skipped
// on either side.
type Identity struct {
    Name       string
    DOB        string
    GCode      string
    Pancard    string
    AadharCard string
}

// Match describes the best-matching existing record.
type Match struct {
    Index             int      `json:"index"`
    MatchedFields     []string `json:"matched_fields"`
    MatchCount        int      `json:"match_count"`
    SimilarityPercent int      `json:"similarity_percent"`
}

// Result of a duplicate check.
type Result struct {
    IsDuplicate bool   `json:"is_duplicate"`
    Match       *Match `json:"match,omitempty"`
}

type fieldSpec struct {
    name     string
    caseFold bool
    get      func(Identity) string
}

// Fixed priority order; order only controls reporting, every field
// scores one point.
var identityFields = []fieldSpec{
    {"name", true, func(id Identity) string { return id.Name }},
    {"dob", false, func(id Identity) string { return id.DOB }},
    {"g_code", true, func(id Identity) string { return id.GCode }},
    {"pancard", true, func(id Identity) string { return id.Pancard }},
    {"aadhar_card", false, func(id Identity) string { return id.AadharCard }},
}

// Detect compares the candidate against every existing identity and
// returns the one with the highest match count; ties resolve to the
// first encountered. Pure function, no I/O.
func Detect(candidate Identity, existing []Identity) Result {
    var best *Match
    for i, ex := range existing {
        matched := compare(candidate, ex)
        if len(matched) == 0 {
            continue
        }
        if best == nil || len(matched) > best.MatchCount {
            best = &Match{
                Index:             i,
                MatchedFields:     matched,
                MatchCount:        len(matched),
                SimilarityPercent: len(matched) * 20,
            }
        }
    }
    if best == nil {
        return Result{IsDuplicate: false}
    }
    return Result{IsDuplicate: true, Match: best}
}

func compare(a, b Identity) []string {
    matched := []string{}
    for _, f := range identityFields {
        av := strings.TrimSpace(f.get(a))
        bv := strings.TrimSpace(f.get(b))
        if av == "" || bv == "" {
            continue // skipped, neither match nor mismatch
        }
        if f.caseFold {
            if strings.EqualFold(av, bv) {
                matched = append(matched, f.name)
            }
            continue
        }
        if av == bv {
            matched = append(matched, f.name)
        }
    }
    return matched
}
