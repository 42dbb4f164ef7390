package main

import (
	"github.com/spf13/cobra"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <image>",
	Short: "Upload an image and print its URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return h.Upload(cmd.Context(), args[0])
	},
}

func init() {
	RootCmd.AddCommand(uploadCmd)
}
