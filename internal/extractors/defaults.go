package extractors

import (
	"github.com/custodia-labs/membox/internal/extractors/docx"
	"github.com/custodia-labs/membox/internal/extractors/html"
	"github.com/custodia-labs/membox/internal/extractors/markdown"
	"github.com/custodia-labs/membox/internal/extractors/pdf"
	"github.com/custodia-labs/membox/internal/extractors/plaintext"
)

// NewDefaultChain registers every built-in backend.
// A nil runner makes the command-line PDF backends use os/exec.
func NewDefaultChain(runner pdf.CommandRunner) *Chain {
	return NewChain(
		pdf.NewNative(),
		pdf.NewMutool(runner),
		pdf.NewPdftotext(runner),
		docx.New(),
		markdown.New(),
		html.New(),
		plaintext.New(),
	)
}
