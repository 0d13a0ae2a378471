package eventpipe

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// RegisterMCP registers the pipeline's tools on an MCP server.
func (p *Pipeline) RegisterMCP(srv *mcp.Server) {
	p.registerParseTextTool(srv)
	p.registerParseFileTool(srv)
	p.registerFormatsTool(srv)
}

// --- parse text ---

type parseTextReq struct {
	Text string `json:"text" jsonschema:"the text to extract events from"`
}

func (p *Pipeline) registerParseTextTool(srv *mcp.Server) {
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "eventpipe_parse_text",
		Description: "Extract calendar events from free-form text (deadlines, meetings, schedules).",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, req parseTextReq) (*mcp.CallToolResult, *ParseResult, error) {
		res, err := p.ParseText(ctx, req.Text)
		if err != nil {
			return nil, nil, err
		}
		return nil, res, nil
	})
}

// --- parse file ---

type parseFileReq struct {
	Path string `json:"path,omitempty" jsonschema:"path of the file to parse"`
	Name string `json:"name,omitempty" jsonschema:"file name, used for format detection when data is inline"`
	Data string `json:"data,omitempty" jsonschema:"base64 file content, alternative to path"`
	MIME string `json:"mime,omitempty" jsonschema:"MIME type, optional"`
}

func (p *Pipeline) registerParseFileTool(srv *mcp.Server) {
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "eventpipe_parse_file",
		Description: "Extract calendar events from a document file (txt, md, csv, xlsx, pdf, image, docx, odt, html, ics). Pass a path, or a name plus base64 data.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, req parseFileReq) (*mcp.CallToolResult, *ParseResult, error) {
		f, err := fileFromRequest(req)
		if err != nil {
			return nil, nil, err
		}
		res, err := p.ParseFile(ctx, f)
		if err != nil {
			return nil, nil, err
		}
		return nil, res, nil
	})
}

func fileFromRequest(req parseFileReq) (File, error) {
	switch {
	case req.Path != "":
		data, err := os.ReadFile(req.Path)
		if err != nil {
			return File{}, fmt.Errorf("read file: %w", err)
		}
		return File{Name: filepath.Base(req.Path), MIMEType: req.MIME, Size: int64(len(data)), Data: data}, nil
	case req.Data != "":
		data, err := base64.StdEncoding.DecodeString(req.Data)
		if err != nil {
			return File{}, fmt.Errorf("decode data: %w", err)
		}
		return File{Name: req.Name, MIMEType: req.MIME, Size: int64(len(data)), Data: data}, nil
	default:
		return File{}, fmt.Errorf("either path or data is required")
	}
}

// --- formats ---

type formatsReq struct{}

type formatsResp struct {
	Formats []string `json:"formats"`
}

func (p *Pipeline) registerFormatsTool(srv *mcp.Server) {
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "eventpipe_formats",
		Description: "List all supported input formats.",
	}, func(_ context.Context, _ *mcp.CallToolRequest, _ formatsReq) (*mcp.CallToolResult, *formatsResp, error) {
		return nil, &formatsResp{Formats: SupportedFormats()}, nil
	})
}
