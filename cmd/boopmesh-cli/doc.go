// Package main provides the entry point for boopmesh-cli.
//
// Usage:
//
//	boopmesh-cli --server boop.example:5274 --key alice ping
//	BOOPMESH_PASSWORD=... boopmesh-cli --key alice boop bob
//	boopmesh-cli --key alice --output json ayt bob iyoshok
//	boopmesh-cli --key alice listen
package main
