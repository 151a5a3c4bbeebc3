// Command crmctl is the operator tool of the CRM service: it validates
// account records offline, runs schema migrations and issues tokens.
package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "crmctl:", err)
		os.Exit(1)
	}
}
