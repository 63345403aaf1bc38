// Command vatctl manages the order17vat module from the command line:
// installing it, sweeping orphaned flag rows and reading or changing flags.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
