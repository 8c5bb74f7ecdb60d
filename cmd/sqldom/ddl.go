package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/bawdo/sqldom/driver"
	"github.com/bawdo/sqldom/internal/schemafile"
	"github.com/bawdo/sqldom/nodes"
)

func newDDLCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "ddl <schema.yaml>",
		Short: "Print the CREATE batch of a schema document",
		Long: "Reads a YAML schema document (\"-\" for stdin) and prints the statements\n" +
			"creating its sequences, tables and indexes, joined with the dialect's\n" +
			"batch delimiter.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readSchema(cmd, args[0])
			if err != nil {
				return err
			}
			cat, err := doc.Build()
			if err != nil {
				return err
			}
			sd, err := opts.storageDriver()
			if err != nil {
				return err
			}
			batch, err := compileBatch(sd, schemafile.Statements(cat))
			if err != nil {
				return err
			}
			opts.logger.Debug("compiled schema", "catalog", cat.Name, "provider", opts.cfg.Provider,
				"version", sd.ServerInfo().Version.String())
			_, err = fmt.Fprintln(cmd.OutOrStdout(), batch)
			return err
		},
	}
}

func readSchema(cmd *cobra.Command, path string) (*schemafile.Document, error) {
	var r io.Reader = cmd.InOrStdin()
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer func() { _ = f.Close() }()
		r = f
	}
	doc, err := schemafile.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

func compileBatch(sd *driver.StorageDriver, stmts []nodes.Statement) (string, error) {
	texts := make([]string, 0, len(stmts))
	for i, stmt := range stmts {
		res, err := sd.Compile(stmt)
		if err != nil {
			return "", fmt.Errorf("statement %d: %w", i+1, err)
		}
		texts = append(texts, res.Text)
	}
	return sd.BuildBatch(texts), nil
}
