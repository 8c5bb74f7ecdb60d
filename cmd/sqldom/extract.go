package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/bawdo/sqldom/driver"
	"github.com/bawdo/sqldom/internal/schemafile"
)

func newExtractCmd(opts *options) *cobra.Command {
	var dsn, catalog, schema string

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Read the schema of a live database and print it as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := *opts.cfg
			if dsn != "" {
				cfg.DSN = dsn
			}
			if cfg.DSN == "" {
				return errors.New("no data source: pass --dsn or set SQLDOM_DSN")
			}

			sd, conn, err := opts.connect(cmd, &cfg)
			if err != nil {
				return err
			}
			defer func() { _ = conn.Close() }()

			res, err := sd.Extract(cmd.Context(), conn.DB, []driver.ExtractionTask{{Catalog: catalog, Schema: schema}})
			if err != nil {
				return err
			}
			docs := make([]*schemafile.Document, 0, len(res.Catalogs))
			for _, cat := range res.Catalogs {
				opts.logger.Debug("extracted catalog", "catalog", cat.Name, "schemas", len(cat.Schemas.Items()))
				docs = append(docs, schemafile.FromCatalog(cat))
			}
			return schemafile.Encode(cmd.OutOrStdout(), docs...)
		},
	}

	cmd.Flags().StringVar(&dsn, "dsn", "", "data source name, overrides the configured one")
	cmd.Flags().StringVar(&catalog, "catalog", "", "catalog to read (default: the connection's database)")
	cmd.Flags().StringVar(&schema, "schema", "", "schema to read (default: every schema)")
	return cmd
}
