package fastagi

import "bytes"

const networkStartLine = "agi_network: yes\n"

// Parser is the streaming wire decoder. It owns a
// carry-over accumulator of bytes not yet attributed to a completed
// message and repeatedly peels one complete AGIMessage off the front of
// that accumulator as bytes arrive. A Parser is not safe for concurrent
// use; Connection owns exactly one.
type Parser struct {
	buf []byte
}

// NewParser returns an empty Parser.
func NewParser() *Parser {
	return &Parser{}
}

// Feed appends newly read bytes (after stripping Asterisk's trailing NUL
// padding) to the carry-over accumulator and peels as many complete
// messages off the front as it can. Bytes belonging to an incomplete
// message are retained for the next call.
func (p *Parser) Feed(data []byte) ([]AGIMessage, error) {
	p.buf = append(p.buf, bytes.TrimRight(data, "\x00")...)

	var messages []AGIMessage
	for {
		msg, n, err := peelOne(p.buf)
		if err == errNeedMoreBytes {
			return messages, nil
		}
		if err != nil {
			return messages, err
		}
		if len(messages) > 0 && msg.Kind == MessageNetworkStart {
			return messages, &ParseError{Kind: ParseNetworkStartAfterOtherMessage}
		}
		messages = append(messages, msg)
		p.buf = p.buf[n:]
	}
}

// lineClass tags how one buffered line classifies, per the
// recognizer table.
type lineClass int

const (
	classUnknown lineClass = iota
	classNetworkStart
	classEmpty
	classStatus
)

// isStatusShaped implements the Status recognizer: length >= 11 and bytes
// [3:11] equal " result=" (three decimal status digits, a space, and the
// literal "result="). It does not require a trailing newline, which lets
// peelOne reuse it for the best-effort no-newline heuristic.
func isStatusShaped(line []byte) bool {
	return len(line) >= 11 && string(line[3:11]) == " result="
}

func classifyLine(line []byte) lineClass {
	switch {
	case string(line) == networkStartLine:
		return classNetworkStart
	case string(line) == "\n":
		return classEmpty
	case isStatusShaped(line):
		return classStatus
	default:
		return classUnknown
	}
}

// peelOne attempts to parse exactly one complete message from the start of
// buf. It returns the message and the number of bytes it consumed, or
// errNeedMoreBytes if buf does not yet hold a complete message.
func peelOne(buf []byte) (AGIMessage, int, error) {
	firstLineStart := 0
	pos := 0
	for {
		rest := buf[pos:]
		nl := bytes.IndexByte(rest, '\n')
		if nl < 0 {
			if pos == firstLineStart && isStatusShaped(rest) {
				status, err := ParseStatusLine(string(rest))
				if err != nil {
					return AGIMessage{}, 0, err
				}
				return AGIMessage{Kind: MessageStatus, Status: status}, len(buf), nil
			}
			return AGIMessage{}, 0, errNeedMoreBytes
		}

		line := rest[:nl+1]
		switch classifyLine(line) {
		case classNetworkStart:
			return AGIMessage{Kind: MessageNetworkStart}, pos + nl + 1, nil
		case classStatus:
			status, err := ParseStatusLine(string(line))
			if err != nil {
				return AGIMessage{}, 0, err
			}
			return AGIMessage{Kind: MessageStatus, Status: status}, pos + nl + 1, nil
		case classEmpty:
			body := buf[firstLineStart : pos+nl+1]
			dump, err := ParseVariableDump(string(body))
			if err != nil {
				return AGIMessage{}, 0, err
			}
			return AGIMessage{Kind: MessageVariableDump, Dump: dump}, pos + nl + 1, nil
		default:
			pos += nl + 1
		}
	}
}
