package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/getmockd/xmlbridge/pkg/portability"
)

// PostmanOutput is the --json result of `xmlbridge postman` when the
// collection goes to a file.
type PostmanOutput struct {
	File     string `json:"file"`
	Name     string `json:"name"`
	Requests int    `json:"requests"`
}

func newPostmanCmd(a *app) *cobra.Command {
	var (
		specPath   string
		outPath    string
		groupByTag bool
	)

	cmd := &cobra.Command{
		Use:   "postman",
		Short: "Generate a Postman v2.1 collection from an OpenAPI document",
		Long: `Generate a Postman v2.1 collection with one request per operation.

Requests use the {{ApigeeHost}} and {{bearerToken}} collection variables (see
hostVariable and tokenVariable in the config file) and carry the configured
base headers. Without -o the collection is written to
<title>_<version>_<timestamp>.json; use -o - for stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadSpec(specPath)
			if err != nil {
				return err
			}
			coll, err := portability.GeneratePostmanCollection(doc, portability.PostmanOptions{
				HostVariable:  a.cfg.HostVariable,
				TokenVariable: a.cfg.TokenVariable,
				Headers:       a.headers(),
				GroupByTag:    groupByTag,
			})
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			enc := json.NewEncoder(&buf)
			enc.SetEscapeHTML(false)
			enc.SetIndent("", "  ")
			if err := enc.Encode(coll); err != nil {
				return err
			}

			if outPath == "" {
				outPath = portability.CollectionFilename(doc.Title(), doc.APIVersion(), time.Now())
			}
			if err := writeOutput(cmd.OutOrStdout(), outPath, buf.Bytes()); err != nil {
				return err
			}
			if outPath == "-" {
				return nil
			}

			result := PostmanOutput{File: outPath, Name: coll.Info.Name, Requests: countRequests(coll.Item)}
			return a.printResult(cmd, result, func() error {
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d request(s) to %s\n", result.Requests, result.File)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&specPath, "spec", "", "OpenAPI document (JSON or YAML)")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "Output file, or - for stdout")
	cmd.Flags().BoolVar(&groupByTag, "group-by-tag", false, "Put requests in one folder per tag")
	return cmd
}

func countRequests(items []portability.PostmanItem) int {
	n := 0
	for _, it := range items {
		if it.Request != nil {
			n++
		}
		n += countRequests(it.Item)
	}
	return n
}
