// Package main implements the metiseon command line tool.
//
// Usage:
//
//	metiseon export --out ./dist
//	metiseon publish
//	metiseon copy install
//	metiseon trace [--file decision_trace.json]
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
