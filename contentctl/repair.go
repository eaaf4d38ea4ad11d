package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/DeafMist/dept-site/backend/internal/contentparser"
	"github.com/DeafMist/dept-site/backend/internal/models"
	"github.com/DeafMist/dept-site/backend/internal/validation"
)

func newRepairCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repair [kind] [file]",
		Short: "Fill in defaults so draft records pass validation",
		Long: `Reads a JSON object, or an array of objects, and prints it with missing
ids, dates and enum values filled in. Use "-" to read from stdin.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, ok := models.ParseKind(args[0])
			if !ok {
				return fmt.Errorf("unknown kind %q", args[0])
			}
			data, err := readInput(cmd, args[1])
			if err != nil {
				return err
			}
			out, err := repairAll(contentparser.NewRepairer(), kind, data)
			if err != nil {
				return err
			}
			return printJSON(cmd, out)
		},
	}
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// repairAll repairs a single record or every record of an array and checks
// the results still validate.
func repairAll(r *contentparser.Repairer, kind models.Kind, data []byte) (any, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode input: %w", err)
	}

	fix := func(v any) (map[string]any, error) {
		obj, ok := v.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("expected a JSON object, got %T", v)
		}
		rec, err := r.Repair(kind, obj)
		if err != nil {
			return nil, err
		}
		if _, err := validation.ValidateRecord(kind, rec); err != nil {
			return nil, fmt.Errorf("record %v still invalid: %w", rec["id"], err)
		}
		return rec, nil
	}

	list, ok := raw.([]any)
	if !ok {
		return fix(raw)
	}
	out := make([]map[string]any, 0, len(list))
	for i, v := range list {
		rec, err := fix(v)
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
		out = append(out, rec)
	}
	return out, nil
}
