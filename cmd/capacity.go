package cmd

import (
	"fmt"

	"github.com/obscura-tools/obscura/pkg/bitcodec"
	"github.com/obscura-tools/obscura/pkg/capacity"
	"github.com/obscura-tools/obscura/pkg/frame"
	"github.com/spf13/cobra"
)

var capacityCmd = &cobra.Command{
	Use:   "capacity [image]",
	Short: "Report how much data an image can carry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		buf, err := loadPixels(args[0])
		if err != nil {
			return err
		}

		bits := capacity.Available(buf)
		usable := bits - frame.HeaderBits
		if usable < 0 {
			usable = 0
		}

		fmt.Printf("Dimensions:      %dx%d\n", buf.Width, buf.Height)
		fmt.Printf("Total capacity:  %d bits\n", bits)
		fmt.Printf("Header overhead: %d bits\n", frame.HeaderBits)
		fmt.Printf("Max message:     %d characters\n", usable/bitcodec.UnitBits)
		fmt.Printf("Max file:        %d bytes (before metadata)\n", usable/8)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(capacityCmd)
}
