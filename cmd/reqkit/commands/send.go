package commands

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"sort"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/kbukum/reqkit/codec"
	"github.com/kbukum/reqkit/httpclient"
)

type sendOptions struct {
	method      string
	headers     []string
	query       []string
	data        string
	bearer      bool
	jq          string
	raw         bool
	showHeaders bool
}

func newSendCommand(g *globalOptions) *cobra.Command {
	o := &sendOptions{}
	cmd := &cobra.Command{
		Use:   "send <path-or-url>",
		Short: "Send a request and print the decoded response",
		Long: `Send a request through the client pipeline. A path is resolved against
the configured base URL; an absolute URL is used as is.

Examples:
  reqkit send /teams/16 --bearer
  reqkit send https://api.example.com/events -q page=2 --jq '.[].id'
  reqkit send /teams -X POST -d '{"name":"Chiefs"}' -H 'Content-Type: application/json'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			endpoint, err := o.endpoint(args[0])
			if err != nil {
				return err
			}
			rt, err := newRuntime(cmd.Context(), g)
			if err != nil {
				return err
			}
			return rt.run(cmd.Context(), func(ctx context.Context) error {
				resp, err := httpclient.SendResponse[any](ctx, rt.http.Client(), endpoint)
				if err != nil {
					return err
				}
				return o.print(cmd.OutOrStdout(), resp)
			})
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&o.method, "method", "X", "GET", "HTTP method")
	fs.StringArrayVarP(&o.headers, "header", "H", nil, "request header as 'Name: value' (repeatable)")
	fs.StringArrayVarP(&o.query, "query", "q", nil, "query parameter as name=value (repeatable)")
	fs.StringVarP(&o.data, "data", "d", "", "request body; @file reads a file and @- reads stdin")
	fs.BoolVar(&o.bearer, "bearer", false, "attach the configured bearer token")
	fs.StringVar(&o.jq, "jq", "", "jq expression applied to the decoded body")
	fs.BoolVar(&o.raw, "raw", false, "print the body without decoding")
	fs.BoolVarP(&o.showHeaders, "show-headers", "i", false, "print the status and response headers")
	return cmd
}

// endpoint turns the flags into an Endpoint. Empty bodies decode to nil.
func (o *sendOptions) endpoint(target string) (httpclient.Endpoint[any], error) {
	method, err := httpclient.ParseMethod(o.method)
	if err != nil {
		return httpclient.Endpoint[any]{}, &httpclient.InvalidRequestError{Reason: err.Error()}
	}

	req := httpclient.Request{Method: method, Headers: map[string]string{}}
	if strings.Contains(target, "://") {
		u, err := url.Parse(target)
		if err != nil {
			return httpclient.Endpoint[any]{}, &httpclient.InvalidRequestError{Reason: "malformed URL", Err: err}
		}
		req.URL = u.Scheme + "://" + u.Host
		req.Path = u.Path
		req.Query = splitQuery(u.RawQuery)
	} else {
		path, rawQuery, _ := strings.Cut(target, "?")
		req.Path = path
		req.Query = splitQuery(rawQuery)
	}

	for _, q := range o.query {
		name, value, _ := strings.Cut(q, "=")
		req.Query = append(req.Query, httpclient.QueryItem{Name: name, Value: value})
	}
	for _, h := range o.headers {
		name, value, ok := strings.Cut(h, ":")
		if !ok || strings.TrimSpace(name) == "" {
			return httpclient.Endpoint[any]{}, &httpclient.InvalidRequestError{Reason: "header " + h + " must be 'Name: value'"}
		}
		req.Headers[strings.TrimSpace(name)] = strings.TrimSpace(value)
	}

	if o.data != "" {
		body, err := readData(o.data)
		if err != nil {
			return httpclient.Endpoint[any]{}, &httpclient.InvalidRequestError{Reason: "reading body", Err: err}
		}
		req.Body = body
	}
	if o.bearer {
		req.Auth = httpclient.AuthBearer
	}

	e := httpclient.Endpoint[any]{Spec: req, AllowEmpty: true}
	if o.raw {
		e.DecodeFunc = func(raw *httpclient.RawResponse, _ codec.Codec) (any, error) {
			return string(raw.Body), nil
		}
	}
	return e, nil
}

// splitQuery keeps the order and repetition of a raw query string.
func splitQuery(raw string) []httpclient.QueryItem {
	if raw == "" {
		return nil
	}
	var items []httpclient.QueryItem
	for _, part := range strings.Split(raw, "&") {
		if part == "" {
			continue
		}
		name, value, _ := strings.Cut(part, "=")
		if n, err := url.QueryUnescape(name); err == nil {
			name = n
		}
		if v, err := url.QueryUnescape(value); err == nil {
			value = v
		}
		items = append(items, httpclient.QueryItem{Name: name, Value: value})
	}
	return items
}

func readData(data string) ([]byte, error) {
	switch {
	case data == "@-":
		return io.ReadAll(os.Stdin)
	case strings.HasPrefix(data, "@"):
		return os.ReadFile(strings.TrimPrefix(data, "@"))
	default:
		return []byte(data), nil
	}
}

func (o *sendOptions) print(w io.Writer, resp *httpclient.Response[any]) error {
	if o.showHeaders {
		if err := writeHeaders(w, resp.Raw); err != nil {
			return err
		}
	}
	if resp.Value == nil {
		return nil
	}
	if s, ok := resp.Value.(string); ok && o.raw {
		_, err := fmt.Fprintln(w, s)
		return err
	}

	value, err := applyFilter(resp.Value, o.jq)
	if err != nil {
		return err
	}
	return writeJSON(w, value)
}

func writeHeaders(w io.Writer, raw *httpclient.RawResponse) error {
	if _, err := fmt.Fprintln(w, raw.Status); err != nil {
		return err
	}
	names := make([]string, 0, len(raw.Header))
	for name := range raw.Header {
		names = append(names, name)
	}
	sort.Strings(names)

	table := tablewriter.NewWriter(w)
	table.Header("Header", "Value")
	for _, name := range names {
		if err := table.Append([]string{name, strings.Join(raw.Header.Values(name), ", ")}); err != nil {
			return err
		}
	}
	return table.Render()
}
