package bus

// ParseState is the state of the frame receiver.
type ParseState int

const (
	// AwaitSOH waits for the start marker, discarding anything else.
	AwaitSOH ParseState = iota
	// AwaitLen waits for the length byte.
	AwaitLen
	// AwaitPayload collects LEN-3 payload bytes.
	AwaitPayload
	// AwaitChecksum waits for the checksum byte.
	AwaitChecksum
)

var parseStateNames = [...]string{"AwaitSOH", "AwaitLen", "AwaitPayload", "AwaitChecksum"}

// String implements fmt.Stringer.
func (s ParseState) String() string {
	if s >= 0 && int(s) < len(parseStateNames) {
		return parseStateNames[s]
	}
	return "Unknown"
}

// DropReason tells why bytes were discarded during parsing.
type DropReason int

const (
	// DropNone means nothing was discarded.
	DropNone DropReason = iota
	// DropNoise is a byte seen while waiting for SOH.
	DropNoise
	// DropLength is a length byte too small to hold the framing bytes.
	DropLength
	// DropChecksum is a complete frame whose checksum doesn't add up.
	DropChecksum
)

var dropReasonNames = [...]string{"none", "noise", "length", "checksum"}

// String implements fmt.Stringer.
func (r DropReason) String() string {
	if r >= 0 && int(r) < len(dropReasonNames) {
		return dropReasonNames[r]
	}
	return "unknown"
}

// ParseResult is the outcome of one parsing step.
type ParseResult struct {
	// State is the parser state after the step.
	State ParseState
	// Packet is set when the step completed a valid frame.
	Packet *Packet
	// Drop is set when the step discarded bytes and resynchronized.
	Drop DropReason
}

// Parser recovers frames from a byte stream, one byte at a time.
// It resynchronizes on the next SOH after noise, an impossible length or a
// checksum mismatch. It has no notion of time: deadlines are enforced by
// whoever feeds it.
type Parser struct {
	state   ParseState
	length  byte
	sum     byte
	payload []byte
}

// State gets the current state.
func (p *Parser) State() ParseState {
	return p.state
}

// Need returns how many bytes the parser can consume before its state
// changes. It's always at least 1.
func (p *Parser) Need() int {
	if p.state == AwaitPayload {
		return int(p.length) - FrameOverhead - len(p.payload)
	}
	return 1
}

// Reset discards any partial frame.
func (p *Parser) Reset() {
	p.state, p.length, p.sum, p.payload = AwaitSOH, 0, 0, nil
}

// Parse consumes one byte.
func (p *Parser) Parse(b byte) (pr ParseResult) {
	pr.Packet, pr.Drop = p.parseByte(b)
	pr.State = p.state
	return
}

func (p *Parser) parseByte(b byte) (*Packet, DropReason) {
	switch p.state {
	case AwaitSOH:
		if b != SOH {
			return nil, DropNoise
		}
		p.sum, p.state = b, AwaitLen
	case AwaitLen:
		if b < FrameOverhead {
			return p.resync(DropLength)
		}
		p.length, p.sum = b, p.sum+b
		p.payload = make([]byte, 0, int(b)-FrameOverhead)
		if b == FrameOverhead {
			p.state = AwaitChecksum
		} else {
			p.state = AwaitPayload
		}
	case AwaitPayload:
		p.payload = append(p.payload, b)
		p.sum += b
		if len(p.payload) >= int(p.length)-FrameOverhead {
			p.state = AwaitChecksum
		}
	case AwaitChecksum:
		if p.sum+b != 0 {
			return p.resync(DropChecksum)
		}
		frame := make([]byte, 0, p.length)
		frame = append(frame, SOH, p.length)
		frame = append(frame, p.payload...)
		frame = append(frame, b)
		p.Reset()
		return &Packet{frame: frame}, DropNone
	}
	return nil, DropNone
}

func (p *Parser) resync(reason DropReason) (*Packet, DropReason) {
	p.Reset()
	return nil, reason
}
