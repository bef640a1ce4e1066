package tablestore

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Duration marshals as the service's seconds string, e.g. "86400s" or
// "0.5s".
type Duration time.Duration

func (d Duration) MarshalJSON() ([]byte, error) {
	seconds := float64(time.Duration(d)) / float64(time.Second)
	return []byte(`"` + strconv.FormatFloat(seconds, 'f', -1, 64) + `s"`), nil
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if !strings.HasSuffix(s, "s") {
		return fmt.Errorf("invalid duration %q: missing 's' suffix", s)
	}
	seconds, err := strconv.ParseFloat(strings.TrimSuffix(s, "s"), 64)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(time.Duration(seconds * float64(time.Second)))
	return nil
}

// GcRule tells the service which cells of a column family to garbage
// collect. Exactly one field is set; build values with the constructor
// helpers below.
type GcRule struct {
	// Delete all cells in a column except the most recent N.
	MaxNumVersions *int32 `json:"maxNumVersions,omitempty"`

	// Delete cells in a column older than the given age.
	MaxAge *Duration `json:"maxAge,omitempty"`

	// Delete cells that would be deleted by every nested rule.
	Intersection *GcRuleIntersection `json:"intersection,omitempty"`

	// Delete cells that would be deleted by any nested rule.
	Union *GcRuleUnion `json:"union,omitempty"`
}

type GcRuleIntersection struct {
	Rules []GcRule `json:"rules,omitempty"`
}

type GcRuleUnion struct {
	Rules []GcRule `json:"rules,omitempty"`
}

func MaxNumVersionsGcRule(n int32) *GcRule {
	return &GcRule{MaxNumVersions: Ptr(n)}
}

func MaxAgeGcRule(age time.Duration) *GcRule {
	d := Duration(age)
	return &GcRule{MaxAge: &d}
}

func IntersectionGcRule(rules ...GcRule) *GcRule {
	return &GcRule{Intersection: &GcRuleIntersection{Rules: rules}}
}

func UnionGcRule(rules ...GcRule) *GcRule {
	return &GcRule{Union: &GcRuleUnion{Rules: rules}}
}

// ColumnFamily is the schema of one column family within a table.
type ColumnFamily struct {
	GcRule *GcRule `json:"gcRule,omitempty"`
}
