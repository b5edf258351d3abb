package models

// ConnectRequest represents the request to open a new FTP browsing session
type ConnectRequest struct {
	Host     string `json:"host"`
	User     string `json:"user"`
	Password string `json:"password"`
	Port     int    `json:"port"`
	Path     string `json:"path"`
}

// ListFilesRequest represents the request to navigate into a folder
type ListFilesRequest struct {
	SessionID string `json:"sessionId"`
	Path      string `json:"path"`
}

// FileRequest represents a request scoped to a single file of the current folder
type FileRequest struct {
	SessionID string `json:"sessionId"`
	FileName  string `json:"fileName"`
}

// SessionResponse carries the token minted by a listing operation
type SessionResponse struct {
	SessionID string `json:"sessionId"`
}

// FilesResponse carries the listing stored in a session
type FilesResponse struct {
	Files []FileEntry `json:"files"`
}

// ErrorResponse is the body of every failed API call
type ErrorResponse struct {
	Error string `json:"error"`
}
