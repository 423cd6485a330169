package fastagi

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// RequestType is the tagged union carried by AGIVariableDump.Request: either
// a filesystem path (the file-based AGI flavor, never dispatched to a
// handler) or a FastAGI URL.
type RequestType interface {
	isRequestType()
	String() string
}

// FileRequestType is the file-based AGI request shape. FastAGI servers never
// act on these; a session that receives one simply closes.
type FileRequestType struct {
	Path string
}

func (FileRequestType) isRequestType() {}
func (f FileRequestType) String() string {
	return f.Path
}

// FastAGIRequestType is an `agi://host[:port]/path` request, the only shape
// this framework dispatches to handlers.
type FastAGIRequestType struct {
	URL *url.URL
}

func (FastAGIRequestType) isRequestType() {}
func (f FastAGIRequestType) String() string {
	return f.URL.String()
}

// ParseRequestType classifies a raw `agi_request` value. URL-shaped values
// (any absolute URL with a host) parse as FastAGI; everything else is a file
// path. Parsing does not itself restrict the accepted URL scheme — requiring
// "agi" is a deployment contract enforced by how a server is wired, not an
// extra parse-time rejection.
func ParseRequestType(s string) RequestType {
	if u, err := url.Parse(s); err == nil && u.IsAbs() && u.Host != "" {
		return FastAGIRequestType{URL: u}
	}
	return FileRequestType{Path: s}
}

// AGIVariableDump is the per-call metadata Asterisk sends immediately after
// the network-start handshake.
type AGIVariableDump struct {
	NetworkScript string
	Request       RequestType
	Channel       string
	Language      string
	ChannelType   string
	UniqueID      string
	Version       string
	CallerID      string
	CallerIDName  string
	CallingPres   string
	CallingANI2   string
	CallingTON    string
	CallingTNS    string
	DNID          string
	RDNIS         string
	Context       string
	Extension     string
	Priority      uint16
	Enhanced      bool
	AccountCode   string
	ThreadID      uint64
	CustomArgs    map[uint8]string
}

func parseEnhanced(value string) (bool, error) {
	switch value {
	case "0.0":
		return false, nil
	case "1.0":
		return true, nil
	default:
		return false, &ParseError{Kind: ParseEnhancedUnparsable, Detail: value}
	}
}

func renderEnhanced(enhanced bool) string {
	if enhanced {
		return "1.0"
	}
	return "0.0"
}

// Render serializes the dump back to the wire body ParseVariableDump
// accepts, field for field in the same order, terminated by the empty
// line that ends a variable dump. It is the inverse of ParseVariableDump:
// for any V produced by a successful parse, ParseVariableDump(V.Render())
// yields a V equal to the original.
func (d AGIVariableDump) Render() string {
	var b strings.Builder
	field := func(name, value string) {
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(value)
		b.WriteString("\n")
	}

	field("agi_network_script", d.NetworkScript)
	field("agi_request", d.Request.String())
	field("agi_channel", d.Channel)
	field("agi_language", d.Language)
	field("agi_type", d.ChannelType)
	field("agi_uniqueid", d.UniqueID)
	field("agi_version", d.Version)
	field("agi_callerid", d.CallerID)
	field("agi_calleridname", d.CallerIDName)
	field("agi_callingpres", d.CallingPres)
	field("agi_callingani2", d.CallingANI2)
	field("agi_callington", d.CallingTON)
	field("agi_callingtns", d.CallingTNS)
	field("agi_dnid", d.DNID)
	field("agi_rdnis", d.RDNIS)
	field("agi_context", d.Context)
	field("agi_extension", d.Extension)
	field("agi_priority", strconv.FormatUint(uint64(d.Priority), 10))
	field("agi_enhanced", renderEnhanced(d.Enhanced))
	field("agi_accountcode", d.AccountCode)
	field("agi_threadid", strconv.FormatUint(d.ThreadID, 10))

	argIndices := make([]int, 0, len(d.CustomArgs))
	for idx := range d.CustomArgs {
		argIndices = append(argIndices, int(idx))
	}
	sort.Ints(argIndices)
	for _, idx := range argIndices {
		field(fmt.Sprintf("agi_arg_%d", idx), d.CustomArgs[uint8(idx)])
	}

	b.WriteString("\n")
	return b.String()
}

// ParseVariableDump parses the body of a variable dump message into an
// AGIVariableDump, field by field. The body may include or omit the
// terminating empty line; parsing stops at the first empty line.
func ParseVariableDump(body string) (AGIVariableDump, error) {
	var (
		dump           AGIVariableDump
		haveNetwork    bool
		haveRequest    bool
		haveChannel    bool
		haveLanguage   bool
		haveType       bool
		haveUnique     bool
		haveVersion    bool
		haveCallerID   bool
		haveCallerName bool
		havePres       bool
		haveANI2       bool
		haveTON        bool
		haveTNS        bool
		haveDNID       bool
		haveRDNIS      bool
		haveContext    bool
		haveExtension  bool
		havePriority   bool
		haveEnhanced   bool
		haveAccount    bool
		haveThreadID   bool
	)

	for _, line := range strings.Split(body, "\n") {
		if line == "" {
			break
		}
		name, value, ok := strings.Cut(line, ": ")
		if !ok {
			return AGIVariableDump{}, &ParseError{Kind: ParseNoValue, Detail: line}
		}
		value = strings.TrimRight(value, " \t\r")

		switch name {
		case "agi_network_script":
			dump.NetworkScript, haveNetwork = value, true
		case "agi_request":
			dump.Request, haveRequest = ParseRequestType(value), true
		case "agi_channel":
			dump.Channel, haveChannel = value, true
		case "agi_language":
			dump.Language, haveLanguage = value, true
		case "agi_type":
			dump.ChannelType, haveType = value, true
		case "agi_uniqueid":
			dump.UniqueID, haveUnique = value, true
		case "agi_version":
			dump.Version, haveVersion = value, true
		case "agi_callerid":
			dump.CallerID, haveCallerID = value, true
		case "agi_calleridname":
			dump.CallerIDName, haveCallerName = value, true
		case "agi_callingpres":
			dump.CallingPres, havePres = value, true
		case "agi_callingani2":
			dump.CallingANI2, haveANI2 = value, true
		case "agi_callington":
			dump.CallingTON, haveTON = value, true
		case "agi_callingtns":
			dump.CallingTNS, haveTNS = value, true
		case "agi_dnid":
			dump.DNID, haveDNID = value, true
		case "agi_rdnis":
			dump.RDNIS, haveRDNIS = value, true
		case "agi_context":
			dump.Context, haveContext = value, true
		case "agi_extension":
			dump.Extension, haveExtension = value, true
		case "agi_priority":
			p, err := strconv.ParseUint(value, 10, 16)
			if err != nil {
				return AGIVariableDump{}, &ParseError{Kind: ParsePriorityUnparsable, Detail: value}
			}
			dump.Priority, havePriority = uint16(p), true
		case "agi_enhanced":
			e, err := parseEnhanced(value)
			if err != nil {
				return AGIVariableDump{}, err
			}
			dump.Enhanced, haveEnhanced = e, true
		case "agi_accountcode":
			dump.AccountCode, haveAccount = value, true
		case "agi_threadid":
			t, err := strconv.ParseUint(value, 10, 64)
			if err != nil {
				return AGIVariableDump{}, &ParseError{Kind: ParseThreadIDUnparsable, Detail: value}
			}
			dump.ThreadID, haveThreadID = t, true
		default:
			if !strings.HasPrefix(name, "agi_arg_") {
				return AGIVariableDump{}, &ParseError{Kind: ParseUnknownArg, Detail: name}
			}
			n, err := strconv.ParseUint(name[len("agi_arg_"):], 10, 8)
			if err != nil {
				return AGIVariableDump{}, &ParseError{Kind: ParseCustomArgNumberUnparsable, Detail: name}
			}
			if dump.CustomArgs == nil {
				dump.CustomArgs = make(map[uint8]string)
			}
			idx := uint8(n)
			if _, exists := dump.CustomArgs[idx]; exists {
				return AGIVariableDump{}, &ParseError{Kind: ParseDuplicateCustomArg, Detail: name}
			}
			dump.CustomArgs[idx] = value
		}
	}

	for _, missing := range []struct {
		have bool
		name string
	}{
		{haveNetwork, "network_script"},
		{haveRequest, "request"},
		{haveChannel, "channel"},
		{haveLanguage, "language"},
		{haveType, "channel_type"},
		{haveUnique, "uniqueid"},
		{haveVersion, "version"},
		{haveCallerID, "callerid"},
		{haveCallerName, "calleridname"},
		{havePres, "callingpres"},
		{haveANI2, "callingani2"},
		{haveTON, "callington"},
		{haveTNS, "callingtns"},
		{haveDNID, "dnid"},
		{haveRDNIS, "rdnis"},
		{haveContext, "context"},
		{haveExtension, "extension"},
		{havePriority, "priority"},
		{haveEnhanced, "enhanced"},
		{haveAccount, "accountcode"},
		{haveThreadID, "threadid"},
	} {
		if !missing.have {
			return AGIVariableDump{}, &ParseError{Kind: ParseVariableMissing, Detail: missing.name}
		}
	}

	if dump.CustomArgs == nil {
		dump.CustomArgs = make(map[uint8]string)
	}
	return dump, nil
}

// StatusKind is the status variant reported in reply to an AGI command
// (the un-specialized "AGI Status" shape).
type StatusKind int

const (
	StatusOK StatusKind = iota
	StatusInvalid
	StatusDeadChannel
	StatusEndUsage
)

// AGIStatusGeneric is the raw, un-specialized reply to a command.
type AGIStatusGeneric struct {
	Kind   StatusKind
	Result string
	OpData *string
}

// ParseStatusLine parses one status line, with or without its trailing
// newline (the status-classification rule and the best-effort
// no-newline heuristic both funnel through this function).
func ParseStatusLine(line string) (AGIStatusGeneric, error) {
	line = strings.TrimRight(line, "\n")
	fields := strings.Split(line, " ")
	if len(fields) == 0 || fields[0] == "" {
		return AGIStatusGeneric{}, &ParseError{Kind: ParseNoStatusCode, Detail: line}
	}
	code, err := strconv.ParseUint(fields[0], 10, 16)
	if err != nil {
		return AGIStatusGeneric{}, &ParseError{Kind: ParseStatusCodeUnparsable, Detail: line}
	}
	if len(fields) < 2 {
		return AGIStatusGeneric{}, &ParseError{Kind: ParseNoResult, Detail: line}
	}
	resultField := fields[1]
	if !strings.HasPrefix(resultField, "result=") {
		return AGIStatusGeneric{}, &ParseError{Kind: ParseResultUnparsable, Detail: line}
	}
	result := resultField[len("result="):]

	var opData *string
	if len(fields) >= 3 {
		joined := strings.Join(fields[2:], " ")
		opData = &joined
	}

	switch code {
	case 200:
		return AGIStatusGeneric{Kind: StatusOK, Result: result, OpData: opData}, nil
	case 510:
		return AGIStatusGeneric{Kind: StatusInvalid}, nil
	case 511:
		return AGIStatusGeneric{Kind: StatusDeadChannel}, nil
	case 520:
		return AGIStatusGeneric{Kind: StatusEndUsage}, nil
	default:
		return AGIStatusGeneric{}, &ParseError{Kind: ParseStatusDoesNotExist, StatusCode: uint16(code)}
	}
}

// MessageKind tags the three shapes an AGIMessage can take.
type MessageKind int

const (
	MessageNetworkStart MessageKind = iota
	MessageVariableDump
	MessageStatus
)

// AGIMessage is the tagged union of the three message shapes the wire parser
// produces.
type AGIMessage struct {
	Kind   MessageKind
	Dump   AGIVariableDump
	Status AGIStatusGeneric
}
