package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/0xsl1m/StaticChapel-sub001/internal/archive"
	"github.com/0xsl1m/StaticChapel-sub001/internal/material"
	"github.com/0xsl1m/StaticChapel-sub001/internal/texture"
)

var listCmd = &cobra.Command{
	Use:   "list [folder|archive]",
	Short: "List available recipes, or the contents of a texture folder or archive",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if len(args) == 0 {
		for _, name := range material.Names() {
			fmt.Fprintln(out, name)
		}
		return nil
	}

	info, err := os.Stat(args[0])
	if err != nil {
		return err
	}

	if info.IsDir() {
		manifest, err := texture.ReadManifest(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "generator=%s size=%d seed=%d\n", manifest.Generator, manifest.Size, manifest.Seed)
		for _, entry := range manifest.Materials {
			kinds := make([]string, 0, len(entry.Maps))
			for _, m := range entry.Maps {
				kinds = append(kinds, string(m.Kind))
			}
			fmt.Fprintf(out, "%s\t%s\n", entry.Name, strings.Join(kinds, ","))
		}
		return nil
	}

	reader, err := archive.OpenReader(args[0])
	if err != nil {
		return err
	}
	defer reader.Close()

	meta, err := reader.Metadata()
	if err != nil {
		return err
	}
	names, err := reader.Materials()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "generator=%s size=%d seed=%d\n", meta.Generator, meta.Size, meta.Seed)
	for _, name := range names {
		fmt.Fprintln(out, name)
	}
	return nil
}
