package constant

const (
	AssistantMessageRoleSystem    = "system"
	AssistantMessageRoleUser      = "user"
	AssistantMessageRoleAssistant = "assistant"
	AssistantMessageRoleTool      = "tool"

	// SPARKLE SYSTEM PROMPT (two-pass function calling)
	AssistantSystemPromptV1 = `You are Sparkle, an intelligent assistant for a file management system. You're designed to help users manage, find, and interact with their documents and files. REMEMBER:

1. ALWAYS be detailed and specific about files.
2. When asked to show files, do NOT just say 'Here are your files' - actually LIST the files by name, organized by category.
3. When asked about storage, give precise numbers.
4. When searching or summarizing files, mention specific file names in your response.
5. Format your responses in a structured, easy-to-read way with proper organization.
6. NEVER mention S3 or storage implementation details to the user. Always refer to files by their original names.
7. When showing file lists, use bullet points and grouping by category.`

	AssistantSummarizeSystemPrompt = `You summarize documents concisely but informatively, extracting key points.`

	// Canned responses (stable contract with the mobile/web clients)
	ResponseAudioNotUnderstood = "Sorry, I couldn't understand the audio. Please try again."
	ResponsePromptTooShort     = "Sorry, I couldn't understand that. Please provide more detail."
	ResponseDefaultError       = "Sorry, I couldn't process that request."
	ResponseUnexpectedError    = "Sorry, an unexpected error occurred while processing your request."
	ResponseReadyForCommand    = "I'm ready for your next command."
	ResponsePassTwoDegraded    = "I performed the action, but encountered an issue generating the final explanation."

	// Orchestration limits
	AssistantMinPromptLength    = 2
	AssistantHistoryLimit       = 10
	AssistantHistoryRefWindow   = 5
	AssistantSummarizeMaxChars  = 9000
	AssistantTTSMaxChars        = 4000
	AssistantTTSTruncateAt      = 1000
	AssistantTTSTruncateTrailer = "... I've provided more details in the text response."
	AssistantListLimit          = 20
	AssistantSearchMinKeyword   = 3
	AssistantRenameMinLength    = 3
	AssistantFolderMinLength    = 3

	// Link lifetimes in seconds
	DisplayLinkTTL = 3600
	ShareLinkTTL   = 86400
	AudioLinkTTL   = 3600

	// Action types recorded on interactions
	ActionTypeDisplayFile = "display_file"
	ActionTypeListFiles   = "list_files"
	ActionTypeSearchFiles = "search_files"
	ActionTypeSummarize   = "summarize_file"
	ActionTypeRename      = "rename_file"
	ActionTypeDelete      = "delete_file"
	ActionTypeMove        = "move_file"
	ActionTypeShare       = "share_file"
	ActionTypeCreateDir   = "create_folder"
	ActionTypeStorageInfo = "storage_info"
)

// CommonFileExtensions is the completion list tried when a spoken file name
// arrives without an extension ("open the project plan" -> project plan.pdf).
var CommonFileExtensions = []string{".pdf", ".docx", ".doc", ".xlsx", ".txt", ".jpg", ".png"}
