// Command cashbench composes, signs and broadcasts transactions that spend
// CashScript contracts on Bitcoin Cash.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
