// Package cmd holds the proxy's cobra command tree.
package cmd

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "terrier",
	Short: "SAML 2.0 identity-federation proxy",
}

// Execute runs the root command. It is called once by main.main.
func Execute() {
	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		log.Fatalln(err)
	}
}
