// aigov is the command line client of the AI Governance Assessor API.
//
// Usage:
//
//	aigov login
//	aigov list
//	aigov export <id> --format pdf
package main

import (
	"os"

	"ai-governance/internal/cli"
)

func main() {
	os.Exit(cli.New().Run(os.Args[1:]))
}
