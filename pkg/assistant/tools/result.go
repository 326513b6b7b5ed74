// Package tools implements the fixed tool registry the reasoning engine may
// invoke: ten file operations with structured, serializable outcomes.
// Failures here are data for pass two, never Go errors.
package tools

import "encoding/json"

// Names of every registered tool.
const (
	ListFiles     = "list_files"
	SearchFiles   = "search_files"
	SummarizeFile = "summarize_file"
	DisplayFile   = "display_file"
	RenameFile    = "rename_file"
	DeleteFile    = "delete_file"
	MoveFile      = "move_file"
	ShareFile     = "share_file"
	CreateFolder  = "create_folder"
	StorageInfo   = "storage_info"
)

// Result is the structured outcome of one tool invocation. Summary carries
// the human-readable text fed back to the model; Payload carries the
// tool-specific fields (file ids, urls, counts).
type Result struct {
	Success bool
	Error   string
	Summary string
	Payload map[string]interface{}
}

func ok(summary string, payload map[string]interface{}) Result {
	return Result{Success: true, Summary: summary, Payload: payload}
}

func fail(message string) Result {
	return Result{Success: false, Error: message}
}

// Serialize renders the result as the JSON document handed to the model as
// the tool message content.
func (r Result) Serialize() string {
	doc := map[string]interface{}{"success": r.Success}
	for k, v := range r.Payload {
		doc[k] = v
	}
	if r.Success {
		doc["result"] = r.Summary
	} else {
		doc["error"] = r.Error
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return `{"success":false,"error":"result serialization failed"}`
	}
	return string(raw)
}
