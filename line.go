package markterm

// LineRole tags a display line with the element it came from. Roles feed
// status reporting only; layout never consults them after emission.
type LineRole uint8

const (
	RolePlain LineRole = iota
	RoleBlank
	RoleHeading
	RoleListItem
	RoleQuote
	RoleCodeBlock
	RoleTableRow
	RoleRule
)

// Line is one terminal-row-sized, pre-styled, width-bounded unit of
// output. Immutable after emission.
type Line struct {
	Text string
	Role LineRole
}

// Width returns the visible width of the line, escape codes excluded.
func (l Line) Width() int {
	return visibleWidth(l.Text)
}

// Blank reports whether the line is a block separator.
func (l Line) Blank() bool {
	return l.Role == RoleBlank
}
