package models

// FileType discriminates plain files from directories in a listing
type FileType int

const (
	// FileTypeFile is an ordinary file
	FileTypeFile FileType = 1
	// FileTypeDirectory is a directory (or anything that is not a plain file)
	FileTypeDirectory FileType = 2
)

// FileEntry represents one record of a remote directory listing
type FileEntry struct {
	Name string   `json:"name"`
	Size int64    `json:"size"`
	Type FileType `json:"type"`
}

// IsDir reports whether the entry is a directory
func (f FileEntry) IsDir() bool {
	return f.Type == FileTypeDirectory
}

// Credentials holds what is needed to open an FTP connection
type Credentials struct {
	Host     string `json:"host"`
	User     string `json:"user"`
	Password string `json:"password"`
	Port     int    `json:"port"`
}
