// Package pdf provides page extractors for PDF documents.
//
// Three backends are tried in priority order by the extraction chain:
//
//   - Native (priority 60) parses the file in-process with
//     github.com/ledongthuc/pdf and also reads the Info title.
//   - Mutool (priority 55) runs MuPDF's mutool and splits its text output
//     on form feeds.
//   - Pdftotext (priority 50) shells out to poppler's pdftotext. It rescues
//     files the other two reject.
package pdf
