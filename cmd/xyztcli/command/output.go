// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/xyztai/xyzt-cli-sdk/sdk/services/dataset"
	"github.com/xyztai/xyzt-cli-sdk/sdk/services/upload"
	"github.com/xyztai/xyzt-cli-sdk/sdk/utils"
	"sigs.k8s.io/yaml"
)

// printStructured handles json and yaml; it reports false for the short format.
func printStructured(out io.Writer, format string, v any) (bool, error) {
	switch utils.TranslateFormat(format) {
	case "json":
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return true, err
		}
		_, err = fmt.Fprintln(out, string(b))
		return true, err
	case "yaml":
		b, err := yaml.Marshal(v)
		if err != nil {
			return true, err
		}
		_, err = out.Write(b)
		return true, err
	}
	return false, nil
}

func printReport(out io.Writer, format string, r *upload.Report) error {
	if done, err := printStructured(out, format, r); done {
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tBATCH\tSTATUS\tCODE\tMESSAGE")
	for _, f := range r.Files {
		batch := f.Batch
		if batch == "" {
			batch = "-"
		}
		code := "-"
		if f.StatusCode != 0 {
			code = fmt.Sprint(f.StatusCode)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", f.Path, batch, f.Status, code, oneLine(f.Message))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(out, "\n%d uploaded, %d failed\n", r.Uploaded, r.Failed)
	return err
}

// printDatasets shows the platform objects as received for json and yaml.
func printDatasets(out io.Writer, format string, ds []dataset.Dataset) error {
	raw := make([]json.RawMessage, 0, len(ds))
	for _, d := range ds {
		if len(d.Raw) > 0 {
			raw = append(raw, d.Raw)
			continue
		}
		b, err := json.Marshal(d)
		if err != nil {
			return err
		}
		raw = append(raw, b)
	}
	if done, err := printStructured(out, format, raw); done {
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tBATCHES\tDESCRIPTION")
	for _, d := range ds {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", d.ID, d.Name, len(d.Batches), oneLine(d.Description))
	}
	return tw.Flush()
}

func printSettings(out io.Writer, format string, settings map[string]string) error {
	if done, err := printStructured(out, format, settings); done {
		return err
	}

	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if _, err := fmt.Fprintf(out, "%s = %s\n", k, settings[k]); err != nil {
			return err
		}
	}
	return nil
}

func oneLine(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if r := []rune(s); len(r) > 120 {
		return string(r[:117]) + "..."
	}
	return s
}
