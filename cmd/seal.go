package cmd

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/obscura-tools/obscura/pkg/crypto/packer"
	"github.com/obscura-tools/obscura/pkg/passcheck"
	"github.com/spf13/cobra"
)

var (
	sealPassword string
	sealOutput   string
	sealText     string
)

var sealCmd = &cobra.Command{
	Use:   "seal [file]",
	Short: "Encrypt a file or message into a cipher packet",
	Long: `Seal produces a colon-delimited base64 cipher packet without any image
carrier. A text message (-m) yields a 3-segment packet printed to stdout; a
file yields a 4-segment packet (salt, iv, encrypted metadata, encrypted
data) written as <name>.obs.

Example:
  obscura seal -m "HELLO_WORLD" -p test-pass
  obscura seal contract.pdf -p test-pass -o contract.obs`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if sealPassword == "" {
			return fmt.Errorf("a password (-p) is required")
		}
		if passcheck.Score(sealPassword) == passcheck.Weak {
			fmt.Fprintln(os.Stderr, "Warning: password is weak; consider a longer one with mixed characters.")
		}

		// Text mode: print the packet.
		if sealText != "" {
			packet, err := packer.New().Encrypt([]byte(sealText), sealPassword)
			if err != nil {
				return fmt.Errorf("encryption failed: %w", err)
			}
			fmt.Println(packet)
			return nil
		}

		if len(args) == 0 {
			return fmt.Errorf("provide a file to seal or a message via -m")
		}
		filePath := args[0]

		data, err := os.ReadFile(filePath)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		meta := packer.FileMetadata{
			Filename:  filepath.Base(filePath),
			MimeType:  mime.TypeByExtension(filepath.Ext(filePath)),
			Size:      int64(len(data)),
			Timestamp: time.Now().UnixMilli(),
		}

		packet, err := packer.New().EncryptFile(data, meta, sealPassword)
		if err != nil {
			return fmt.Errorf("encryption failed: %w", err)
		}

		outPath := sealOutput
		if outPath == "" {
			outPath = filePath + ".obs"
		}
		if err := os.WriteFile(outPath, []byte(packet), 0644); err != nil {
			return fmt.Errorf("failed to write packet: %w", err)
		}

		fmt.Printf("Sealed %s (%d bytes) -> %s\n", meta.Filename, meta.Size, outPath)
		return nil
	},
}

var unsealCmd = &cobra.Command{
	Use:   "unseal [packet-or-.obs-file]",
	Short: "Decrypt a cipher packet back into its message or file",
	Long: `Unseal reverses seal. The argument is either a literal 3-segment text
packet or the path of a 4-segment .obs file; the segment count decides
which decryption path runs.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if sealPassword == "" {
			return fmt.Errorf("a password (-p) is required")
		}

		input := args[0]
		packet := input
		fromFile := false

		if _, err := os.Stat(input); err == nil {
			raw, err := os.ReadFile(input)
			if err != nil {
				return fmt.Errorf("failed to read packet file: %w", err)
			}
			packet = strings.TrimSpace(string(raw))
			fromFile = true
		}

		p := packer.New()
		switch strings.Count(packet, ":") {
		case 2:
			plaintext, err := p.Decrypt(packet, sealPassword)
			if err != nil {
				return err
			}
			fmt.Println(string(plaintext))
			return nil

		case 3:
			data, meta, err := p.DecryptFile(packet, sealPassword)
			if err != nil {
				return err
			}

			outPath := sealOutput
			if outPath == "" {
				outPath = meta.Filename
				if fromFile {
					outPath = filepath.Join(filepath.Dir(input), meta.Filename)
				}
			}
			if err := writeFileNoClobber(outPath, data); err != nil {
				return err
			}
			fmt.Printf("Restored %s (%d bytes)\n", outPath, len(data))
			return nil

		default:
			return packer.ErrMalformedPacket
		}
	},
}

// writeFileNoClobber refuses to overwrite an existing file.
func writeFileNoClobber(path string, data []byte) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("refusing to overwrite existing file %s", path)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(sealCmd)
	rootCmd.AddCommand(unsealCmd)

	sealCmd.Flags().StringVarP(&sealText, "message", "m", "", "Seal a text message instead of a file")
	sealCmd.Flags().StringVarP(&sealPassword, "password", "p", "", "Password for key derivation")
	sealCmd.Flags().StringVarP(&sealOutput, "output", "o", "", "Output path (default: <file>.obs)")

	unsealCmd.Flags().StringVarP(&sealPassword, "password", "p", "", "Password for key derivation")
	unsealCmd.Flags().StringVarP(&sealOutput, "output", "o", "", "Output path for a restored file")
}
