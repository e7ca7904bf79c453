package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/groblegark/flowtask/internal/backup"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Export the database to configured backup destinations",
	Long: `Write the interchange document to the configured S3 bucket and/or a
local file. S3 settings come from the [backup] table in
~/.flowtask/config.toml or the FLOWTASK_BACKUP_* environment variables.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		filePath, _ := cmd.Flags().GetString("file")

		ctx := context.Background()
		var destinations []backup.Destination
		if cfg.BackupS3Bucket != "" {
			dest, err := backup.NewS3Destination(ctx, cfg.BackupS3Bucket, cfg.BackupS3Key, cfg.BackupS3Region, cfg.BackupS3Endpoint)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			destinations = append(destinations, dest)
		}
		if filePath != "" {
			destinations = append(destinations, &backup.FileDestination{Path: filePath})
		}
		if len(destinations) == 0 {
			fmt.Fprintln(os.Stderr, "Error: no backup destination configured (set [backup] s3_bucket or pass --file)")
			os.Exit(1)
		}

		if err := backup.Run(ctx, st, destinations, logger); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		for _, d := range destinations {
			fmt.Printf("Backed up to %s\n", d.Name())
		}
		return nil
	},
}

func init() {
	backupCmd.Flags().String("file", "", "also write the backup to a local file")
}
