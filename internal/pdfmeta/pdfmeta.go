// Package pdfmeta reads document-level PDF properties (page count and the
// Info dictionary) with pdfcpu.
package pdfmeta

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Info is the metadata of one PDF.
type Info struct {
	Pages    int    `json:"pages"`
	Title    string `json:"title,omitempty"`
	Author   string `json:"author,omitempty"`
	Subject  string `json:"subject,omitempty"`
	Creator  string `json:"creator,omitempty"`
	Producer string `json:"producer,omitempty"`
}

// Inspect opens and validates the PDF at path.
func Inspect(path string) (*Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return InspectReader(f)
}

// InspectBytes inspects an in-memory PDF.
func InspectBytes(data []byte) (*Info, error) {
	return InspectReader(bytes.NewReader(data))
}

// InspectReader reads the cross-reference table and Info dictionary in
// relaxed validation mode.
func InspectReader(rs io.ReadSeeker) (info *Info, err error) {
	defer func() {
		if r := recover(); r != nil {
			info, err = nil, fmt.Errorf("pdfcpu panic: %v", r)
		}
	}()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	ctx, err := api.ReadValidateAndOptimize(rs, conf)
	if err != nil {
		return nil, fmt.Errorf("pdfcpu read: %w", err)
	}

	return &Info{
		Pages:    ctx.PageCount,
		Title:    strings.TrimSpace(ctx.Title),
		Author:   strings.TrimSpace(ctx.Author),
		Subject:  strings.TrimSpace(ctx.Subject),
		Creator:  strings.TrimSpace(ctx.Creator),
		Producer: strings.TrimSpace(ctx.Producer),
	}, nil
}
