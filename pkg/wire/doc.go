// Package wire implements the boopmesh line protocol.
//
// The protocol is newline-delimited ASCII text with one command or
// reply per line. Verbs are case-sensitive and arguments are separated
// by a single space; there is no escaping.
//
// Client to server:
//
//	CONNECT <key> <password>
//	DISCONNECT
//	PING
//	BOOP <target_key>
//	AYT <partner_key>
//
// Server to client:
//
//	HEY | NO | BYE | PONG
//	BOOP <source_key>
//	ONLINE <partner_key> | AFK <partner_key>
//	ERROR NOT_AVAILABLE | MALFORMED_COMMAND | MALFORMED_ARGUMENTS | PROTOCOL_MISMATCH
//
// ParseCommand is used by the server, ParseReply by clients. Both expect
// the line delimiter to be stripped already; a trailing "\r\n" or "\n"
// is tolerated.
package wire
