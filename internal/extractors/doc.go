// Package extractors turns source files into ordered page texts.
//
// A Chain holds every registered backend and, for a given MIME type, tries
// those that support it from highest to lowest priority. The first backend
// that returns at least one page wins. When all of them fail the reasons are
// joined under domain.ErrExtractionFailed.
//
// Backends live in subpackages (pdf, docx, markdown, html, plaintext) and are
// registered by NewDefaultChain.
package extractors
