// listenbrainz-content-resolver - local music content resolver
// Copyright (C) 2026 MetaBrainz Foundation
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/metabrainz/listenbrainz-content-resolver/internal/catalog"
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create (or open) the catalog database at the configured path",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := catalog.Create(cfg.Catalog.Path)
		if err != nil {
			return fmt.Errorf("create catalog: %w", err)
		}
		defer c.Close()
		fmt.Printf("catalog ready at %s\n", cfg.Catalog.Path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(createCmd)
}
