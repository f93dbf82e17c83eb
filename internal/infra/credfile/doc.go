// Package credfile reads the client credential file and keeps the
// credential store in sync with it.
//
// The file is a JSON array (or a YAML sequence for .yaml/.yml files) of
// records:
//
//	[
//	  {"key": "foo", "name": "Foo", "hash": "$argon2id$v=19$m=32,t=2,p=1$..."}
//	]
//
// name is optional. Reloads are all or nothing: a file that fails to
// decode or validate leaves the previously loaded set in place.
package credfile
