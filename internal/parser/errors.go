package parser

import (
	"errors"
	"fmt"
)

// Reason classifies why a document could not be parsed.
type Reason string

const (
	// ReasonUnreadable means the extracted text was empty.
	ReasonUnreadable Reason = "unreadable-text"
	// ReasonMissingAnchor means a mandatory fuel label or section header was not found.
	ReasonMissingAnchor Reason = "missing-anchor"
	// ReasonRegionCount means a regional table did not list exactly the 51 regions.
	ReasonRegionCount Reason = "region-count-mismatch"
	// ReasonUnknownRegion means a regional row named no known region.
	ReasonUnknownRegion Reason = "unknown-region"
	// ReasonRowTokens means a regional or weekly row had the wrong number of values.
	ReasonRowTokens Reason = "row-token-mismatch"
)

// ParseFailure is returned for documents that were read but cannot be turned
// into records. The whole document is rejected; nothing is stored for it.
type ParseFailure struct {
	Reason Reason
	Detail string
}

func (e *ParseFailure) Error() string {
	if e.Detail == "" {
		return "parse: " + string(e.Reason)
	}
	return "parse: " + string(e.Reason) + ": " + e.Detail
}

func failf(reason Reason, format string, args ...any) *ParseFailure {
	return &ParseFailure{Reason: reason, Detail: fmt.Sprintf(format, args...)}
}

// AsParseFailure extracts a ParseFailure from err's chain.
func AsParseFailure(err error) (*ParseFailure, bool) {
	var pf *ParseFailure
	if errors.As(err, &pf) {
		return pf, true
	}
	return nil, false
}
