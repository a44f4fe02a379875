// Package main provides the entry point for the triagetrack CLI.
package main

import (
	"triagetrack/internal/cli"
)

func main() {
	cli.Execute()
}
