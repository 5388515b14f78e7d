package databases

import (
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/canvas-tools/canvasctl/internal/cmd/base"
	"github.com/canvas-tools/canvasctl/pkg/canvasid"
	"github.com/canvas-tools/canvasctl/pkg/errcode"
)

type QueryCommand struct {
	*base.Command

	flagFilter         string
	flagFilterDate     string
	flagSort           string
	flagSkipValidation bool
	pageFlags          base.PageFlags
}

func (c *QueryCommand) Synopsis() string {
	return "Query the pages of a database"
}

func (c *QueryCommand) Help() string {
	return `Usage: canvasctl databases query <database-id>

  Queries a database and returns the matching pages. The filter document
  may be inline JSON, an @file (JSON or YAML), or "-" for stdin; it is
  shape-checked before dispatch unless -skip-validation is given.

  -filter-date narrows on a date property with a flexible date literal,
  e.g. -filter-date="Due=2026-09-01" or -filter-date="Due=Sep 1 2026".` +
		c.Flags().Help()
}

func (c *QueryCommand) Flags() *base.FlagSet {
	f := c.NewFlagSet("databases query")

	f.StringVar(&c.flagFilter, "filter", "",
		"Filter document: inline JSON, @file, or \"-\" for stdin.")
	f.StringVar(&c.flagFilterDate, "filter-date", "",
		"On-or-after date filter as <property>=<date literal>.")
	f.StringVar(&c.flagSort, "sort", "",
		"Sort as <property>:<ascending|descending>.")
	f.BoolVar(&c.flagSkipValidation, "skip-validation", false,
		"Send the filter document without shape-checking it first.")
	c.pageFlags.Register(f)

	return f
}

func (c *QueryCommand) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		return c.Fail("databases query", errcode.New(errcode.InvalidArgument, err.Error()))
	}
	if len(f.Args()) != 1 {
		return c.Fail("databases query",
			errcode.New(errcode.MissingArgument, "exactly one database ID is required"))
	}
	databaseID, err := canvasid.Normalize(f.Args()[0])
	if err != nil {
		return c.Fail("databases query", err)
	}

	usesStdin := base.UsesStdin(c.flagFilter)
	return c.Execute("databases query", f, usesStdin, func(rt *base.Runtime) (*base.Result, error) {
		body := map[string]any{}

		var filter map[string]any
		if c.flagFilter != "" {
			doc, err := rt.Document(c.flagFilter)
			if err != nil {
				return nil, err
			}
			if !c.flagSkipValidation {
				if err := validateFilter(doc); err != nil {
					return nil, err
				}
			}
			filter = doc
		}

		if c.flagFilterDate != "" {
			dateFilter, err := parseDateFilter(c.flagFilterDate)
			if err != nil {
				return nil, err
			}
			if filter != nil {
				filter = map[string]any{"and": []any{filter, dateFilter}}
			} else {
				filter = dateFilter
			}
		}
		if filter != nil {
			body["filter"] = filter
		}

		if c.flagSort != "" {
			sort, err := parseSort(c.flagSort)
			if err != nil {
				return nil, err
			}
			body["sorts"] = []any{sort}
		}

		return rt.Paginate(base.PageRequest{
			Method: "POST",
			Path:   fmt.Sprintf("/v1/databases/%s/query", databaseID),
			Body:   body,
		}, c.pageFlags)
	})
}

// parseDateFilter turns "<property>=<date literal>" into an on_or_after
// filter clause. Literals are flexible: anything dateparse recognizes.
func parseDateFilter(spec string) (map[string]any, error) {
	property, literal, found := strings.Cut(spec, "=")
	if !found || property == "" || literal == "" {
		return nil, errcode.New(errcode.InvalidArgument,
			"filter-date must be <property>=<date literal>")
	}
	t, err := dateparse.ParseAny(literal)
	if err != nil {
		return nil, errcode.Newf(errcode.InvalidArgument,
			"unrecognized date literal %q", literal).WithCause(err)
	}
	return map[string]any{
		"property": property,
		"date":     map[string]any{"on_or_after": t.Format(time.RFC3339)},
	}, nil
}

func parseSort(spec string) (map[string]any, error) {
	property, direction, found := strings.Cut(spec, ":")
	if !found {
		direction = "ascending"
	}
	if property == "" || (direction != "ascending" && direction != "descending") {
		return nil, errcode.New(errcode.InvalidArgument,
			"sort must be <property>:<ascending|descending>")
	}
	return map[string]any{"property": property, "direction": direction}, nil
}
