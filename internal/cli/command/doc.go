// Package command provides the boopmesh-cli commands.
//
//   - ping: round-trip a PING
//   - boop: signal one or more identity keys
//   - ayt: report whether keys are online
//   - listen: stay connected and print incoming boops
//
// Every command dials the server, authenticates when it needs to, does its
// work and disconnects with DISCONNECT/BYE.
package command
