package mcpserver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/dgallion1/docoutline/internal/doctree"
	"github.com/dgallion1/docoutline/internal/outline"
	"github.com/dgallion1/docoutline/internal/parser"
	"github.com/dgallion1/docoutline/internal/pdfmeta"
	"github.com/dgallion1/docoutline/internal/pipeline"
	"github.com/dgallion1/docoutline/internal/render"
)

// ExtractInput is the input schema for the extract_outline tool.
type ExtractInput struct {
	Path   string `json:"path" jsonschema:"absolute or working-directory relative path of a PDF or DOCX file"`
	Format string `json:"format,omitempty" jsonschema:"optional rendering to include: markdown or html"`
}

// HeadingOutput is one outline entry.
type HeadingOutput struct {
	Level string `json:"level"`
	Text  string `json:"text"`
	Page  int    `json:"page"`
}

// ExtractOutput is the output schema for the extract_outline tool.
type ExtractOutput struct {
	Title    string          `json:"title"`
	Outline  []HeadingOutput `json:"outline"`
	Rendered string          `json:"rendered,omitempty"`
	Warnings []string        `json:"warnings,omitempty"`

	ContentHash string `json:"content_hash,omitempty" jsonschema:"SHA-256 of the extracted text which stays the same for unchanged input"`
}

// InspectInput is the input schema for the inspect_pdf tool.
type InspectInput struct {
	Path string `json:"path" jsonschema:"path of a PDF file"`
}

// InspectOutput is the output schema for the inspect_pdf tool.
type InspectOutput struct {
	Pages    int    `json:"pages"`
	Title    string `json:"title,omitempty"`
	Author   string `json:"author,omitempty"`
	Subject  string `json:"subject,omitempty"`
	Creator  string `json:"creator,omitempty"`
	Producer string `json:"producer,omitempty"`
}

// ValidateInput is the input schema for the validate_outline tool.
type ValidateInput struct {
	JSON string `json:"json" jsonschema:"an outline document as JSON text"`
}

// ValidateOutput is the output schema for the validate_outline tool.
type ValidateOutput struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "extract_outline",
		Description: "Extract the title and H1-H3 heading outline of a PDF or DOCX file",
	}, s.handleExtract)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "inspect_pdf",
		Description: "Read the page count and document information dictionary of a PDF",
	}, s.handleInspect)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "validate_outline",
		Description: "Check an outline JSON document against the output format",
	}, s.handleValidate)
}

func (s *Server) handleExtract(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ExtractInput,
) (*mcp.CallToolResult, ExtractOutput, error) {
	path, err := checkPath(input.Path)
	if err != nil {
		return nil, ExtractOutput{}, err
	}
	if !parser.IsSupportedExtension(path) {
		return nil, ExtractOutput{}, fmt.Errorf("%w: %s", parser.ErrUnsupportedFormat, filepath.Ext(path))
	}
	format, err := render.ParseFormat(input.Format)
	if err != nil {
		return nil, ExtractOutput{}, err
	}

	job := pipeline.NewFileJob(path, "", format)
	s.orch.Process(ctx, job)
	snap := job.Snapshot()
	if snap.Status != pipeline.StatusCompleted {
		return nil, ExtractOutput{}, fmt.Errorf("processing failed: %s", strings.Join(snap.Errors, "; "))
	}

	doc := job.Result()
	out := ExtractOutput{
		Title:    doc.Title,
		Outline:  headings(doc),
		Warnings: snap.Errors,

		ContentHash: snap.ContentHash,
	}
	if format != render.FormatJSON {
		var buf bytes.Buffer
		if err := render.Write(&buf, format, doc); err != nil {
			return nil, ExtractOutput{}, err
		}
		out.Rendered = buf.String()
	}
	return nil, out, nil
}

func (s *Server) handleInspect(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input InspectInput,
) (*mcp.CallToolResult, InspectOutput, error) {
	path, err := checkPath(input.Path)
	if err != nil {
		return nil, InspectOutput{}, err
	}
	info, err := pdfmeta.Inspect(path)
	if err != nil {
		return nil, InspectOutput{}, err
	}
	return nil, InspectOutput(*info), nil
}

func (s *Server) handleValidate(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input ValidateInput,
) (*mcp.CallToolResult, ValidateOutput, error) {
	if err := outline.ValidateJSON([]byte(input.JSON)); err != nil {
		return nil, ValidateOutput{
			Valid: false,
			Error: strings.TrimPrefix(err.Error(), outline.ErrInvalidOutline.Error()+": "),
		}, nil
	}
	return nil, ValidateOutput{Valid: true}, nil
}

func checkPath(path string) (string, error) {
	if path == "" {
		return "", errors.New("path is required")
	}
	fi, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if !fi.Mode().IsRegular() {
		return "", fmt.Errorf("%s is not a regular file", path)
	}
	return path, nil
}

func headings(doc *doctree.Document) []HeadingOutput {
	out := make([]HeadingOutput, len(doc.Outline))
	for i, h := range doc.Outline {
		out[i] = HeadingOutput{Level: h.Level.String(), Text: h.Text, Page: h.Page}
	}
	return out
}
