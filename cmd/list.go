package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/deploymenttheory/go-iso9660/internal/rockridge"
)

var listCmd = &cobra.Command{
	Use:   "list [image-path]",
	Short: "Show volume identity and the top-level directory",
	Long: `Show the primary volume descriptor identity of an ISO9660 image
and list the entries of its root directory, using Rock Ridge names
when present.

Examples:
  # Summarize an image
  go-iso9660 list fedora.iso`,

	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runList(args[0]); err != nil {
			cobra.CheckErr(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}

type listEntry struct {
	Name      string `json:"name"`
	Directory bool   `json:"directory"`
	Size      uint32 `json:"size"`
	Extent    uint32 `json:"extent"`
}

type listOutput struct {
	SystemIdentifier string      `json:"system_identifier"`
	VolumeIdentifier string      `json:"volume_identifier"`
	SpaceSize        uint32      `json:"space_size_blocks"`
	BlockSize        uint16      `json:"block_size"`
	Created          string      `json:"created,omitempty"`
	Modified         string      `json:"modified,omitempty"`
	RockRidge        string      `json:"rock_ridge,omitempty"`
	Entries          []listEntry `json:"entries"`
}

func runList(imagePath string) error {
	f, vol, err := openVolume(imagePath)
	if err != nil {
		return err
	}
	defer f.Close()

	out := listOutput{
		SystemIdentifier: vol.SystemIdentifier(),
		VolumeIdentifier: vol.VolumeIdentifier(),
		SpaceSize:        vol.SpaceSize(),
		BlockSize:        vol.BlockSize(),
	}
	if created := vol.Created(); !created.IsZero() {
		out.Created = created.Time().Format("2006-01-02 15:04:05")
	}
	if modified := vol.Modified(); !modified.IsZero() {
		out.Modified = modified.Time().Format("2006-01-02 15:04:05")
	}

	root := vol.RootDirectoryRecord()
	records, err := vol.ReadDirectory(root.Extent, root.DataLength)
	if err != nil {
		return err
	}

	bytesToSkip := 0
	for i, rec := range records {
		var entry *rockridge.Entry
		entry, err = parseRockRidge(vol, rec, i == 0, bytesToSkip)
		if err != nil {
			// Not every image carries System Use data; a record that
			// fails to parse as Rock Ridge is listed by identifier.
			log.Debugf("Record %q has no parseable Rock Ridge data: %v", rec.Identifier, err)
			entry = nil
		}
		if i == 0 && entry != nil {
			if sp := entry.SharingProtocol(); sp != nil {
				bytesToSkip = int(sp.BytesToSkip)
			}
			out.RockRidge = string(entry.Version())
		}
		if rec.IsDot() || rec.IsDotDot() {
			continue
		}
		out.Entries = append(out.Entries, listEntry{
			Name:      displayName(rec, entry),
			Directory: rec.IsDirectory(),
			Size:      rec.DataLength,
			Extent:    rec.Extent,
		})
	}

	switch viper.GetString("output") {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	default:
		printListTable(out)
		return nil
	}
}

func printListTable(out listOutput) {
	fmt.Printf("Volume:  %s\n", out.VolumeIdentifier)
	if out.SystemIdentifier != "" {
		fmt.Printf("System:  %s\n", out.SystemIdentifier)
	}
	fmt.Printf("Space:   %d blocks of %d bytes\n", out.SpaceSize, out.BlockSize)
	if out.Created != "" {
		fmt.Printf("Created: %s\n", out.Created)
	}
	if out.RockRidge != "" {
		fmt.Printf("Rock Ridge: %s\n", out.RockRidge)
	}
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TYPE\tSIZE\tEXTENT\tNAME")
	for _, e := range out.Entries {
		kind := "file"
		if e.Directory {
			kind = "dir"
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\n", kind, e.Size, e.Extent, e.Name)
	}
	w.Flush()
}
