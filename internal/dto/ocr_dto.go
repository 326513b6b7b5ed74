package dto

// PublishOcrRequestMessage is the watermill payload asking the worker to
// extract text for one file.
type PublishOcrRequestMessage struct {
	FileId int64 `json:"file_id"`
}
