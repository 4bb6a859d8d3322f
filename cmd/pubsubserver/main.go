// Copyright 2021 Converter Systems LLC. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	var configFile string
	cmd := &cobra.Command{
		Use:   "pubsubserver [uri] [device]",
		Short: "Publishes the temperature of a steam engine with OPC UA PubSub",
		Long: `Publishes the local time of the server and the temperature of a steam engine
every publishing interval.

The uri selects the transport:
  opc.udp://224.0.0.22:4840/     UDP multicast (default)
  opc.eth://01-00-5E-00-00-01    Ethernet, requires the network device
  mqtt://localhost:1883/topic    MQTT broker`,
		Args:          cobra.MaximumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var uri, device string
			if len(args) > 0 {
				uri = args[0]
			}
			if len(args) > 1 {
				device = args[1]
			}
			return run(cmd.Context(), configFile, uri, device)
		},
	}
	cmd.Flags().StringVarP(&configFile, "config", "c", "", "path of the configuration file")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := cmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
