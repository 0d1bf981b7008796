package services

import (
	"slices"
	"strings"
)

// RiskTag is a categorical label describing suspected non-residential or
// anonymizing use of an address.
type RiskTag string

// Known risk tags. Provider-specific labels are built with OtherTag.
const (
	TagTor     RiskTag = "tor"
	TagProxy   RiskTag = "proxy"
	TagHosting RiskTag = "hosting"
	TagRelay   RiskTag = "relay"
	TagMobile  RiskTag = "mobile"
)

const otherPrefix = "other:"

// OtherTag wraps a provider-specific label that has no canonical tag.
func OtherTag(label string) RiskTag {
	return RiskTag(otherPrefix + label)
}

// Other returns the provider label of an OtherTag.
func (t RiskTag) Other() (string, bool) {
	return strings.CutPrefix(string(t), otherPrefix)
}

// NewRisk builds a Risk from an optional score and a set of tags.
// Duplicate tags are dropped and the rest sorted. Returns nil when there is
// nothing to report.
func NewRisk(score *uint16, tags ...RiskTag) *Risk {
	set := slices.Clone(tags)
	slices.Sort(set)
	set = slices.Compact(set)
	if score == nil && len(set) == 0 {
		return nil
	}
	if len(set) == 0 {
		set = nil
	}
	return &Risk{Score: score, Tags: set}
}

// Flags collects the tags whose condition is true, in argument order.
// It keeps adapters readable when a provider exposes one boolean per tag.
type Flags []RiskTag

// Add appends tag when cond holds.
func (f Flags) Add(cond bool, tag RiskTag) Flags {
	if cond {
		return append(f, tag)
	}
	return f
}
