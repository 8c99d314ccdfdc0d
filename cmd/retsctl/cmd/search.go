package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jkestr/rechanize/pkg/rets"
	"github.com/jkestr/rechanize/pkg/retsdb/stor"
	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const (
	formatTable = "table"
	formatJSON  = "json"
)

type searchOptions struct {
	resource string
	class    string
	query    string
	selects  string
	limit    int
	offset   int
	count    bool
	format   string
	save     bool
	keyField string
}

func newSearchCmd(a *app) *cobra.Command {
	var opts searchOptions

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Run a DMQL2 search and print the records",
		Example: `  retsctl search --class RES --query '(ListPrice=300000+)' --limit 10
  retsctl search --class RES --query '(City=Boston)' --format json --save`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.search(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.resource, "resource", "Property", "resource to search")
	flags.StringVar(&opts.class, "class", "", "class to search")
	flags.StringVar(&opts.query, "query", "", "DMQL2 query, eg (ListPrice=300000+)")
	flags.StringVar(&opts.selects, "select", "", "comma separated fields to return")
	flags.IntVar(&opts.limit, "limit", 0, "maximum records to return")
	flags.IntVar(&opts.offset, "offset", 0, "offset of the first record")
	flags.BoolVar(&opts.count, "count", false, "ask the server for a record count")
	flags.StringVar(&opts.format, "format", formatTable, "output format, table or json")
	flags.BoolVar(&opts.save, "save", false, "save the records to the database")
	flags.StringVar(&opts.keyField, "key-field", "", "field used as the record key when saving, default is the first column")
	_ = cmd.MarkFlagRequired("class")
	_ = cmd.MarkFlagRequired("query")

	return cmd
}

func (a *app) search(cmd *cobra.Command, opts searchOptions) error {
	if opts.format != formatTable && opts.format != formatJSON {
		return errors.Errorf("unknown format %q", opts.format)
	}

	s, err := a.login(cmd.Context())
	if err != nil {
		return err
	}

	params := rets.NewParams()
	if opts.selects != "" {
		params.Set("Select", opts.selects)
	}
	if opts.limit > 0 {
		params.Set("limit", opts.limit)
	}
	if opts.offset > 0 {
		params.Set("Offset", opts.offset)
	}
	if opts.count {
		params.Set("Count", 1)
	}

	query := rets.SearchQuery(opts.resource, opts.class, opts.query)
	res, err := s.Get(cmd.Context(), query, params)
	if err != nil {
		return err
	}

	records := res.CollectRecords()
	out := cmd.OutOrStdout()

	if count, ok := res.Count(); ok {
		a.log.WithField("count", count).Info("Server record count")
	}

	if opts.format == formatJSON {
		err = writeRecordsJSON(out, records)
	} else {
		err = writeRecordsTable(out, records)
	}

	if err != nil {
		return err
	}

	if !opts.save || len(records) == 0 {
		return nil
	}

	db, err := a.openDB()
	if err != nil {
		return err
	}

	saved, err := stor.NewGormSearchRecordStor(db).SaveRecords(opts.resource, opts.class, opts.query, opts.keyField, records)
	if err != nil {
		return errors.Wrap(err, "failed saving records")
	}

	a.log.WithField("records", len(saved)).Info("Saved search results")

	return nil
}

func writeRecordsJSON(w io.Writer, records []rets.Record) error {
	enc := json.NewEncoder(w)
	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}

	return nil
}

func writeRecordsTable(w io.Writer, records []rets.Record) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No records found")
		return err
	}

	table := tablewriter.NewWriter(w)
	defer table.Close()

	columns := records[0].Fields()
	table.Header(columns)

	for _, rec := range records {
		row := make([]string, len(columns))
		for i, col := range columns {
			row[i], _ = rec.Get(col)
		}
		_ = table.Append(row)
	}

	footer := make([]string, len(columns))
	footer[0] = fmt.Sprintf("Total: %d", len(records))
	table.Footer(footer)

	return table.Render()
}
