package main

import (
	"fmt"
	"strings"

	"github.com/esiqveland/notify"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the running notification server",
	Args:  cobra.NoArgs,
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	conn, err := sessionBus()
	if err != nil {
		return err
	}
	defer conn.Close()

	info, err := notify.GetServerInformation(conn)
	if err != nil {
		return err
	}
	caps, err := notify.GetCapabilities(conn)
	if err != nil {
		return fmt.Errorf("failed to get capabilities: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Name:         %s\n", info.Name)
	fmt.Fprintf(out, "Vendor:       %s\n", info.Vendor)
	fmt.Fprintf(out, "Version:      %s\n", info.Version)
	fmt.Fprintf(out, "Spec version: %s\n", info.SpecVersion)
	fmt.Fprintf(out, "Capabilities: %s\n", strings.Join(caps, ", "))
	return nil
}
