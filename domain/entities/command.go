package entities

// GreetRequest is the request of the "greet" command.
type GreetRequest struct {
	Name string `json:"name"`
}

// ReadFileRequest is the request of the "read_file_base64" and
// "read_file_data_url" commands. The path is used as given.
type ReadFileRequest struct {
	Path string `json:"path"`
}
