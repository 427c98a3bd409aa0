package ingest

// Record splitting for the mapping tables. The rules are those of the exports the
// tables come from: ',' separates fields, '"' opens a quoted field in which ',' and
// line breaks are literal and '""' is one quote. Text after a closing quote is kept
// and the field runs on to the next ',' or line break, so a stray character never
// swallows the rows after it. A '"' inside an unquoted field is literal.

type scanState int

const (
	startRecord scanState = iota
	startField
	inField
	inQuotedField
	quoteInQuotedField
)

// recordScanner splits newline-normalized text into records
type recordScanner struct {
	data []byte
	pos  int
}

// next returns the following record. Blank lines yield no record.
// At end of input an open record, quoted or not, is returned as is.
func (s *recordScanner) next() ([]string, bool) {
	var (
		record []string
		field  []byte
		state  = startRecord
	)
	save := func() {
		record = append(record, string(field))
		field = field[:0]
	}

	for s.pos < len(s.data) {
		c := s.data[s.pos]
		s.pos++

		switch state {
		case startRecord:
			if c == '\n' {
				continue
			}
			state = startField
			fallthrough
		case startField:
			switch c {
			case '\n':
				save()
				return record, true
			case '"':
				state = inQuotedField
			case ',':
				save()
			default:
				field = append(field, c)
				state = inField
			}
		case inField:
			switch c {
			case '\n':
				save()
				return record, true
			case ',':
				save()
				state = startField
			default:
				field = append(field, c)
			}
		case inQuotedField:
			if c == '"' {
				state = quoteInQuotedField
			} else {
				field = append(field, c)
			}
		case quoteInQuotedField:
			switch c {
			case '"':
				field = append(field, c)
				state = inQuotedField
			case ',':
				save()
				state = startField
			case '\n':
				save()
				return record, true
			default:
				field = append(field, c)
				state = inField
			}
		}
	}

	if state == startRecord {
		return nil, false
	}
	save()
	return record, true
}
