package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/obscura-tools/obscura/pkg/crypto/packer"
	"github.com/obscura-tools/obscura/pkg/stego"
	"github.com/spf13/cobra"
)

var (
	revealPassword string
	revealFileMode bool
	revealDestDir  string
)

var revealCmd = &cobra.Command{
	Use:   "reveal [image]",
	Short: "Extract a hidden message or file from an image",
	Long: `Reveal reads the LSB payload back out of a stego image. If the hidden
text is a cipher packet and a password is given, it is decrypted first.
With --file the payload is treated as an embedded file and written to disk.

Example:
  obscura reveal out.png -p hunter2
  obscura reveal out.png --file -d restored/`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		buf, err := loadPixels(args[0])
		if err != nil {
			return err
		}

		if revealFileMode {
			data, info, err := stego.ExtractFile(buf)
			if err != nil {
				return err
			}

			outPath := filepath.Join(revealDestDir, filepath.Base(info.Name))
			if err := os.WriteFile(outPath, data, 0644); err != nil {
				return fmt.Errorf("failed to write extracted file: %w", err)
			}
			fmt.Printf("Extracted %s (%d bytes)\n", outPath, len(data))
			return nil
		}

		text, err := stego.ExtractText(buf)
		if err != nil {
			return err
		}

		// A text cipher packet is exactly 3 colon-separated segments. If the
		// caller gave a password and the payload matches, decrypt; otherwise
		// print the raw text.
		if revealPassword != "" && strings.Count(text, ":") == 2 {
			plaintext, err := packer.New().Decrypt(text, revealPassword)
			if err != nil {
				if errors.Is(err, packer.ErrMalformedPacket) {
					// Not actually a packet: fall through to raw output.
					fmt.Println(text)
					return nil
				}
				return err
			}
			fmt.Println(string(plaintext))
			return nil
		}

		fmt.Println(text)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(revealCmd)

	revealCmd.Flags().StringVarP(&revealPassword, "password", "p", "", "Password to decrypt an encrypted payload")
	revealCmd.Flags().BoolVar(&revealFileMode, "file", false, "Extract an embedded file instead of text")
	revealCmd.Flags().StringVarP(&revealDestDir, "destination", "d", ".", "Directory to write an extracted file")
}
