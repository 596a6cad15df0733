package entities

// SourceLine is one line of the authoritative source order.
type SourceLine struct {
	LineID           string
	UnitPrice        string
	ExtendedPrice    string
	PreferredShipVia string
}

// SourceOrder is the originating order owned by an external system. It is
// read-only here and consulted only to repair missing manual-order pricing.
type SourceOrder struct {
	ID    string
	Items []SourceLine
}

// LineByID finds the source line matching a manual-order line item id.
func (s SourceOrder) LineByID(lineID string) (SourceLine, bool) {
	for _, line := range s.Items {
		if line.LineID == lineID {
			return line, true
		}
	}
	return SourceLine{}, false
}
