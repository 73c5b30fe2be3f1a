package model

// ImageRecord locates one rendered figure inside the source document.
// Page and Figure are 1-indexed for display; figure numbering restarts on
// every page.
type ImageRecord struct {
	Path     string `json:"path"`
	Page     int    `json:"page"`
	Figure   int    `json:"figure"`
	Filename string `json:"filename"`
}
