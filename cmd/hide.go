package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/obscura-tools/obscura/pkg/capacity"
	"github.com/obscura-tools/obscura/pkg/crypto/packer"
	"github.com/obscura-tools/obscura/pkg/passcheck"
	"github.com/obscura-tools/obscura/pkg/pixel"
	"github.com/obscura-tools/obscura/pkg/stego"
	"github.com/spf13/cobra"
)

var (
	hideMessage  string
	hideFile     string
	hidePassword string
	hideOutput   string
	hideCompress bool
)

var hideCmd = &cobra.Command{
	Use:   "hide [image]",
	Short: "Embed a message or file into an image's pixel LSBs",
	Long: `Hide embeds text (or a whole file) into the least-significant bits of an
image and writes the result as a PNG. With --password the message is first
sealed into an AES-GCM cipher packet, so the pixels carry only ciphertext.

Example:
  obscura hide photo.png -m "meet at dawn" -p hunter2 -o out.png
  obscura hide photo.png --file notes.txt --compress`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		imagePath := args[0]

		// 1. Validation
		if hideMessage == "" && hideFile == "" {
			return fmt.Errorf("nothing to hide: provide --message or --file")
		}
		if hideMessage != "" && hideFile != "" {
			return fmt.Errorf("--message and --file are mutually exclusive")
		}
		if hidePassword != "" && passcheck.Score(hidePassword) == passcheck.Weak {
			fmt.Println("Warning: password is weak; consider a longer one with mixed characters.")
		}

		// 2. Load the carrier
		buf, err := loadPixels(imagePath)
		if err != nil {
			return err
		}

		// 3. Embed
		if hideFile != "" {
			data, err := os.ReadFile(hideFile)
			if err != nil {
				return fmt.Errorf("failed to read payload file: %w", err)
			}
			err = stego.EmbedFile(buf, filepath.Base(hideFile), data, time.Now().UnixMilli(), hideCompress)
			if err != nil {
				return describeCapacity(err)
			}
		} else {
			message := hideMessage
			if hidePassword != "" {
				packet, err := packer.New().Encrypt([]byte(hideMessage), hidePassword)
				if err != nil {
					return fmt.Errorf("encryption failed: %w", err)
				}
				message = packet
			}
			if err := stego.EmbedText(buf, message); err != nil {
				return describeCapacity(err)
			}
		}

		// 4. Write the stego image
		outPath := hideOutput
		if outPath == "" {
			outPath = deriveOutputPath(imagePath)
		}
		if err := writePixels(outPath, buf); err != nil {
			return err
		}

		fmt.Printf("Created %s\n", outPath)
		return nil
	},
}

// loadPixels decodes an image file into an owned pixel buffer.
func loadPixels(path string) (*pixel.Buffer, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	buf, err := pixel.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}
	return buf, nil
}

// writePixels encodes the buffer as a PNG at path.
func writePixels(path string, buf *pixel.Buffer) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer out.Close()

	if err := pixel.EncodePNG(out, buf); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// deriveOutputPath turns photo.jpg into photo_hidden.png.
func deriveOutputPath(imagePath string) string {
	ext := filepath.Ext(imagePath)
	base := strings.TrimSuffix(filepath.Base(imagePath), ext)
	return filepath.Join(filepath.Dir(imagePath), base+"_hidden.png")
}

// describeCapacity rewords a capacity failure with both numbers; other
// errors pass through unchanged.
func describeCapacity(err error) error {
	var capErr *capacity.CapacityError
	if errors.As(err, &capErr) {
		return fmt.Errorf("image too small: payload needs %d bits, carrier has %d", capErr.Needed, capErr.Available)
	}
	return err
}

func init() {
	rootCmd.AddCommand(hideCmd)

	hideCmd.Flags().StringVarP(&hideMessage, "message", "m", "", "Text message to hide")
	hideCmd.Flags().StringVar(&hideFile, "file", "", "File to hide instead of a text message")
	hideCmd.Flags().StringVarP(&hidePassword, "password", "p", "", "Encrypt the message before embedding")
	hideCmd.Flags().StringVarP(&hideOutput, "output", "o", "", "Output PNG path (default: <name>_hidden.png)")
	hideCmd.Flags().BoolVar(&hideCompress, "compress", false, "Gzip the file payload before embedding")
}
