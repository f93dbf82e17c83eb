package wire

import "errors"

// ErrUnknownReply is returned by ParseReply for lines a server never sends.
var ErrUnknownReply = errors.New("wire: unknown reply")

// ReplyKind identifies an outbound line.
type ReplyKind uint8

const (
	ReplyHey ReplyKind = iota + 1
	ReplyNo
	ReplyBye
	ReplyPong
	ReplyOnline
	ReplyAfk
	ReplyBoop
	ReplyError
)

// ErrorKind is the argument of an ERROR reply.
type ErrorKind uint8

const (
	ErrNotAvailable ErrorKind = iota + 1
	ErrMalformedCommand
	ErrMalformedArguments
	ErrProtocolMismatch
)

var errorKindText = map[ErrorKind]string{
	ErrNotAvailable:       "NOT_AVAILABLE",
	ErrMalformedCommand:   "MALFORMED_COMMAND",
	ErrMalformedArguments: "MALFORMED_ARGUMENTS",
	ErrProtocolMismatch:   "PROTOCOL_MISMATCH",
}

// String returns the wire token of the error kind.
func (e ErrorKind) String() string {
	if s, ok := errorKindText[e]; ok {
		return s
	}
	return "UNKNOWN"
}

// Reply is a server to client line.
//
// Key is set for ONLINE, AFK and BOOP; Err is set for ERROR.
type Reply struct {
	Kind ReplyKind
	Key  string
	Err  ErrorKind
}

// Convenience constructors.
var (
	Hey  = Reply{Kind: ReplyHey}
	No   = Reply{Kind: ReplyNo}
	Bye  = Reply{Kind: ReplyBye}
	Pong = Reply{Kind: ReplyPong}
)

// Online reports that key is connected.
func Online(key string) Reply { return Reply{Kind: ReplyOnline, Key: key} }

// Afk reports that key is not connected.
func Afk(key string) Reply { return Reply{Kind: ReplyAfk, Key: key} }

// Boop is a relayed signal from source.
func Boop(source string) Reply { return Reply{Kind: ReplyBoop, Key: source} }

// Error builds an ERROR reply.
func Error(kind ErrorKind) Reply { return Reply{Kind: ReplyError, Err: kind} }

// ErrorFor maps a ParseCommand error to the ERROR reply the server sends.
func ErrorFor(err error) Reply {
	if errors.Is(err, ErrBadArgs) {
		return Error(ErrMalformedArguments)
	}
	return Error(ErrMalformedCommand)
}

// String renders the reply without the delimiter.
func (r Reply) String() string {
	switch r.Kind {
	case ReplyHey:
		return "HEY"
	case ReplyNo:
		return "NO"
	case ReplyBye:
		return "BYE"
	case ReplyPong:
		return "PONG"
	case ReplyOnline:
		return "ONLINE " + r.Key
	case ReplyAfk:
		return "AFK " + r.Key
	case ReplyBoop:
		return "BOOP " + r.Key
	case ReplyError:
		return "ERROR " + r.Err.String()
	default:
		return "ERROR " + ErrMalformedCommand.String()
	}
}

// Bytes renders the reply as one complete newline-terminated line.
func (r Reply) Bytes() []byte {
	return []byte(r.String() + "\n")
}

var bareReplies = map[string]Reply{"HEY": Hey, "NO": No, "BYE": Bye, "PONG": Pong}

var keyedReplies = map[string]ReplyKind{"ONLINE": ReplyOnline, "AFK": ReplyAfk, "BOOP": ReplyBoop}

// ParseReply parses a server line on the client side.
func ParseReply(line string) (Reply, error) {
	verb, args := split(line)
	if hasEmpty(args) {
		return Reply{}, ErrBadArgs
	}

	if r, ok := bareReplies[verb]; ok {
		if len(args) != 0 {
			return Reply{}, ErrBadArgs
		}
		return r, nil
	}
	if kind, ok := keyedReplies[verb]; ok {
		if len(args) != 1 {
			return Reply{}, ErrBadArgs
		}
		return Reply{Kind: kind, Key: args[0]}, nil
	}

	if verb != "ERROR" {
		return Reply{}, ErrUnknownReply
	}
	if len(args) != 1 {
		return Reply{}, ErrBadArgs
	}
	for kind, text := range errorKindText {
		if text == args[0] {
			return Error(kind), nil
		}
	}
	return Reply{}, ErrBadArgs
}
