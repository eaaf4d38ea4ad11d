package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/DeafMist/dept-site/backend/internal/models"
	"github.com/DeafMist/dept-site/backend/internal/schema"
)

func newSchemaCmd() *cobra.Command {
	valid := make([]string, 0, len(models.Kinds))
	for _, k := range models.Kinds {
		valid = append(valid, string(k))
	}
	return &cobra.Command{
		Use:       "schema [kind]",
		Short:     "Print the JSON Schema of a content collection",
		Args:      cobra.ExactArgs(1),
		ValidArgs: valid,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, ok := models.ParseKind(args[0])
			if !ok {
				return fmt.Errorf("unknown kind %q (one of %v)", args[0], valid)
			}
			data, err := schema.JSON(kind)
			if err != nil {
				return err
			}
			cmd.Println(string(data))
			return nil
		},
	}
}
