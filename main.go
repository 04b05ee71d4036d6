// Package main is the entry point for the teamsheet CLI, which records rugby teamsheets
// and reports appearance, season and squad statistics.
package main

import "github.com/pable/go-teamsheet/cmd"

func main() {
	cmd.Execute()
}
