package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/hazyhaar/locscope/inspector"
	"github.com/hazyhaar/locscope/kit"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// sourceFlags are the document and target flags of the one-shot commands.
type sourceFlags struct {
	htmlPath  string
	url       string
	target    string
	framework string
}

func (s *sourceFlags) bind(cmd *cobra.Command, withTarget bool) {
	cmd.Flags().StringVar(&s.htmlPath, "html", "", "HTML file to analyse ('-' for stdin)")
	cmd.Flags().StringVar(&s.url, "url", "", "page URL; captured live in Chrome unless --html is given")
	if withTarget {
		cmd.Flags().StringVar(&s.target, "target", "", "CSS selector, or XPath when starting with / or (")
		cmd.Flags().StringVar(&s.framework, "framework", "playwright", "code flavour: playwright or selenium")
		_ = cmd.MarkFlagRequired("target")
	}
}

func (s *sourceFlags) request(stdin io.Reader) (*inspector.Request, error) {
	req := &inspector.Request{URL: s.url, Target: s.target, Framework: s.framework}
	switch s.htmlPath {
	case "":
	case "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		req.HTML = string(data)
	default:
		data, err := os.ReadFile(s.htmlPath)
		if err != nil {
			return nil, err
		}
		req.HTML = string(data)
	}
	return req, nil
}

// oneShot builds a command that runs one inspector operation and prints
// its JSON result.
func oneShot(g *globals, op, use, short string, withTarget bool) *cobra.Command {
	var src sourceFlags
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := src.request(cmd.InOrStdin())
			if err != nil {
				return err
			}
			g.local = true
			in, _, err := g.setup()
			if err != nil {
				return err
			}
			defer in.Close()

			ctx := kit.WithTransport(cmd.Context(), "cli")
			resp, err := in.Endpoint(op)(ctx, req)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(resp)
		},
	}
	src.bind(cmd, withTarget)
	return cmd
}

func newReportCmd(g *globals) *cobra.Command {
	return oneShot(g, "report", "report", "Rank locators for one element and describe it", true)
}

func newTreeCmd(g *globals) *cobra.Command {
	return oneShot(g, "tree", "tree", "Print the document structure as a JSON tree", false)
}

func newAriaCmd(g *globals) *cobra.Command {
	return oneShot(g, "aria", "aria", "List the accessibility-relevant elements of the document", false)
}

func newEmitCmd(g *globals) *cobra.Command {
	return oneShot(g, "emit", "emit", "Print Playwright or Selenium code for every ranked locator", true)
}

func newServeCmd(g *globals) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API (/api/report, /api/tree, /api/aria, /api/emit, /metrics)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr != "" {
				g.addrOverride = addr
			}
			in, _, err := g.setup()
			if err != nil {
				return err
			}
			defer in.Close()
			return in.ListenAndServe(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides http.addr)")
	return cmd
}

func newMCPCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the locscope tools over MCP on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, logger, err := g.setup()
			if err != nil {
				return err
			}
			defer in.Close()

			srv := mcp.NewServer(&mcp.Implementation{Name: "locscope", Version: version}, nil)
			in.RegisterMCP(srv)
			logger.Info("locscope: mcp serving on stdio")
			return srv.Run(cmd.Context(), &mcp.StdioTransport{})
		},
	}
}
