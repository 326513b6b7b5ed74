package tools

import "ai-filevault-be/pkg/reasoning"

// Specs returns the tool registry offered on every pass-one call. The
// descriptions steer the model's tool choice and are part of the contract.
func Specs() []reasoning.Tool {
	return []reasoning.Tool{
		{
			Name:        ListFiles,
			Description: "Lists user's files. Can filter by category (e.g., Banking, Personal) or file type/extension (e.g., PDF, Image, DOCX). Use when asked to 'show', 'list', or 'find' files generally or by type/category.",
			Parameters: objectSchema(map[string]interface{}{
				"category_name": stringProp("The name of the category to filter by (case-insensitive)."),
				"file_type":     stringProp("The type or extension of the file to filter by (e.g., PDF, DOCX, Image, JPG)."),
			}),
		},
		{
			Name:        SearchFiles,
			Description: "Searches for files based on a keyword within their name or text content (from OCR). Use when asked to 'search for', 'find files containing', or similar keyword-based queries.",
			Parameters: objectSchema(map[string]interface{}{
				"keyword": stringProp("The keyword to search for (should be at least 3 characters)."),
			}, "keyword"),
		},
		{
			Name:        SummarizeFile,
			Description: "Summarizes the text content of a specific file identified by its exact name or unique ID. Use when asked to 'summarize', 'give key points of', or 'tell me about' a specific file.",
			Parameters: objectSchema(map[string]interface{}{
				"file_name_or_id": stringProp("The exact file name (case-insensitive) or the numeric file ID of the file to summarize."),
			}, "file_name_or_id"),
		},
		{
			Name:        DisplayFile,
			Description: "Gets details and a secure temporary URL to display a specific file identified by its exact name or ID. ALWAYS use this tool when the user asks to 'show', 'display', 'open', 'view', 'access', 'give link to', or 'get' a specific file. This is the ONLY way to provide a file URL to the user.",
			Parameters: objectSchema(map[string]interface{}{
				"file_name_or_id": stringProp("The exact file name (case-insensitive) or the numeric file ID of the file to display."),
			}, "file_name_or_id"),
		},
		{
			Name:        RenameFile,
			Description: "Renames a specific file.",
			Parameters: objectSchema(map[string]interface{}{
				"file_name_or_id": stringProp("The current exact name or ID of the file."),
				"new_name":        stringProp("The desired new name for the file (including extension if applicable)."),
			}, "file_name_or_id", "new_name"),
		},
		{
			Name:        DeleteFile,
			Description: "Deletes a specific file permanently.",
			Parameters: objectSchema(map[string]interface{}{
				"file_name_or_id": stringProp("The exact name or ID of the file to delete."),
			}, "file_name_or_id"),
		},
		{
			Name:        MoveFile,
			Description: "Moves a specific file to a different category/folder.",
			Parameters: objectSchema(map[string]interface{}{
				"file_name_or_id":      stringProp("The exact name or ID of the file to move."),
				"target_category_name": stringProp("The name of the category/folder to move the file into."),
			}, "file_name_or_id", "target_category_name"),
		},
		{
			Name:        ShareFile,
			Description: "Generates a temporary shareable link for a specific file.",
			Parameters: objectSchema(map[string]interface{}{
				"file_name_or_id": stringProp("The exact name or ID of the file to share."),
			}, "file_name_or_id"),
		},
		{
			Name:        CreateFolder,
			Description: "Creates a new folder/category for organizing files.",
			Parameters: objectSchema(map[string]interface{}{
				"folder_name": stringProp("The name for the new folder/category."),
			}, "folder_name"),
		},
		{
			Name:        StorageInfo,
			Description: "Gets the current storage usage information for the user. Use when asked about storage space, storage usage, or storage limits.",
			Parameters:  objectSchema(map[string]interface{}{}),
		},
	}
}

func objectSchema(properties map[string]interface{}, required ...string) map[string]interface{} {
	if required == nil {
		required = []string{}
	}
	return map[string]interface{}{
		"type":       "object",
		"properties": properties,
		"required":   required,
	}
}

func stringProp(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": description,
	}
}
