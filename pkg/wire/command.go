package wire

import (
	"errors"
	"strings"
)

var (
	// ErrUnknownVerb is returned when the first token is not a known verb.
	ErrUnknownVerb = errors.New("wire: unknown verb")

	// ErrBadArgs is returned when a known verb has the wrong number of
	// arguments or an empty argument.
	ErrBadArgs = errors.New("wire: bad arguments")
)

// Verb literals.
const (
	VerbConnect    = "CONNECT"
	VerbDisconnect = "DISCONNECT"
	VerbPing       = "PING"
	VerbBoop       = "BOOP"
	VerbAyt        = "AYT"
)

// CommandKind identifies an inbound command.
type CommandKind uint8

const (
	CmdConnect CommandKind = iota + 1
	CmdDisconnect
	CmdPing
	CmdBoop
	CmdAyt
)

// String returns the verb of the command kind.
func (k CommandKind) String() string {
	switch k {
	case CmdConnect:
		return VerbConnect
	case CmdDisconnect:
		return VerbDisconnect
	case CmdPing:
		return VerbPing
	case CmdBoop:
		return VerbBoop
	case CmdAyt:
		return VerbAyt
	default:
		return "UNKNOWN"
	}
}

// Command is a parsed inbound line.
//
// Key holds the identity key for CONNECT, the target for BOOP and the
// partner for AYT. Password is only set for CONNECT.
type Command struct {
	Kind     CommandKind
	Key      string
	Password string
}

// verbArity maps each verb to its kind and exact argument count.
var verbArity = map[string]struct {
	kind  CommandKind
	arity int
}{
	VerbConnect:    {CmdConnect, 2},
	VerbDisconnect: {CmdDisconnect, 0},
	VerbPing:       {CmdPing, 0},
	VerbBoop:       {CmdBoop, 1},
	VerbAyt:        {CmdAyt, 1},
}

// ParseCommand parses one inbound line.
//
// Surrounding whitespace is ignored. The remainder is split on single
// spaces, so two consecutive spaces produce an empty argument, which is
// rejected with ErrBadArgs.
func ParseCommand(line string) (Command, error) {
	verb, args := split(line)

	rule, ok := verbArity[verb]
	if !ok {
		return Command{}, ErrUnknownVerb
	}
	if len(args) != rule.arity || hasEmpty(args) {
		return Command{}, ErrBadArgs
	}

	cmd := Command{Kind: rule.kind}
	switch rule.kind {
	case CmdConnect:
		cmd.Key, cmd.Password = args[0], args[1]
	case CmdBoop, CmdAyt:
		cmd.Key = args[0]
	}
	return cmd, nil
}

// String renders the command as a protocol line without the delimiter.
func (c Command) String() string {
	switch c.Kind {
	case CmdConnect:
		return VerbConnect + " " + c.Key + " " + c.Password
	case CmdBoop, CmdAyt:
		return c.Kind.String() + " " + c.Key
	default:
		return c.Kind.String()
	}
}

// Bytes renders the command as a newline-terminated line.
func (c Command) Bytes() []byte {
	return []byte(c.String() + "\n")
}

func split(line string) (string, []string) {
	line = strings.TrimSpace(line)
	parts := strings.Split(line, " ")
	return parts[0], parts[1:]
}

func hasEmpty(args []string) bool {
	for _, a := range args {
		if a == "" {
			return true
		}
	}
	return false
}
