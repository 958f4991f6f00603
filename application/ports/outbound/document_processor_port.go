package outbound

// DocumentProcessor converts one binary format to plain text. Variants are
// closed and enumerable; registration happens at startup.
type DocumentProcessor interface {
	SupportsMimeType(mimeType string) bool
	Process(content []byte) (string, error)
}
