package domain

// Document is a rendered report ready for upload.
type Document struct {
	// Path is the local file to upload.
	Path string
	// Filename is the name shown to the recipient. Defaults to the base of Path.
	Filename string
	Caption  string
}
