package scene

import "fmt"

// Position is a byte location in the input, 1-indexed line and column.
type Position struct {
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("line %d, column %d", p.Line, p.Column)
}

// ParseError reports malformed input. The filter never guesses a structural
// interpretation: any lexical or structural violation surfaces as this error
// and the caller decides between failing the invocation and passing the file
// through untouched.
type ParseError struct {
	Pos Position
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %s: %s", e.Pos, e.Msg)
}

// UnsupportedVersionError reports a requested rule-table version newer than
// this build supports. A repository pinned to a newer version must fail
// rather than silently canonicalize with stale rules.
type UnsupportedVersionError struct {
	Requested    int
	MaxSupported int
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("filter version %d not supported (max supported: %d)", e.Requested, e.MaxSupported)
}

// NonNumericAnchorError reports a document anchor that cannot serve as the
// integer sort key.
type NonNumericAnchorError struct {
	Anchor string
}

func (e *NonNumericAnchorError) Error() string {
	return fmt.Sprintf("document anchor %q is not an integer fileID", e.Anchor)
}

// CanonicalizationError reports a rule whose structural precondition does not
// hold (for example a Remove path meeting a scalar where a mapping was
// expected). Rules are never skipped silently: skipping would break the
// determinism guarantee.
type CanonicalizationError struct {
	Type string
	Path string
	Msg  string
}

func (e *CanonicalizationError) Error() string {
	return fmt.Sprintf("cannot canonicalize %s.%s: %s", e.Type, e.Path, e.Msg)
}
