// FILE: internal/service/consumer_service.go
package service

import (
	"context"
	"encoding/json"
	"log"

	"ai-filevault-be/internal/dto"
	"ai-filevault-be/internal/entity"
	"ai-filevault-be/internal/model"
	"ai-filevault-be/internal/repository/specification"
	"ai-filevault-be/internal/repository/unitofwork"
	"ai-filevault-be/pkg/storage"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// IConsumerService runs the background OCR worker: it picks up extraction
// requests from the queue, pulls the text out of the stored object, and
// writes the result for the summarize and search paths.
type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub     *gochannel.GoChannel
	topicName  string
	uowFactory unitofwork.RepositoryFactory
	extractor  storage.TextExtractor
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	extractor storage.TextExtractor,
) IConsumerService {
	return &consumerService{
		pubSub:     pubSub,
		topicName:  topicName,
		uowFactory: uowFactory,
		extractor:  extractor,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishOcrRequestMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal OCR request: %v", err)
		msg.Ack() // invalid messages are not retriable
		return
	}

	log.Printf("[INFO] Processing OCR extraction for FileId: %d", payload.FileId)

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		log.Printf("[ERROR] Failed to begin transaction for file %d: %v", payload.FileId, err)
		msg.Nack()
		return
	}

	files, err := uow.UserFileRepository().FindAll(ctx, specification.ByFileID{ID: payload.FileId})
	if err != nil {
		log.Printf("[ERROR] Failed to load file %d: %v", payload.FileId, err)
		uow.Rollback()
		msg.Nack()
		return
	}
	if len(files) == 0 {
		log.Printf("[WARN] File %d no longer exists, dropping OCR request", payload.FileId)
		uow.Rollback()
		msg.Ack()
		return
	}
	file := files[0]

	result := &entity.OcrResult{
		FileId: file.Id,
		Status: model.OcrStatusCompleted,
	}

	text, err := cs.extractor.ExtractText(ctx, file.S3Key)
	if err != nil {
		log.Printf("[ERROR] Extraction failed for file %d: %v", file.Id, err)
		result.Status = model.OcrStatusFailed
	} else {
		result.TextContent = text
	}

	if err := uow.OcrResultRepository().Upsert(ctx, result); err != nil {
		log.Printf("[ERROR] Failed to store OCR result for file %d: %v", file.Id, err)
		uow.Rollback()
		msg.Nack()
		return
	}

	if err := uow.Commit(); err != nil {
		log.Printf("[ERROR] Failed to commit OCR result for file %d: %v", file.Id, err)
		msg.Nack()
		return
	}

	log.Printf("[INFO] OCR %s for FileId: %d (chars: %d)", result.Status, file.Id, len(result.TextContent))
	msg.Ack()
}

// ocrRequestPublisher lets the tool layer enqueue extraction without knowing
// about watermill.
type ocrRequestPublisher struct {
	publisher IPublisherService
}

func NewOcrRequestPublisher(publisher IPublisherService) *ocrRequestPublisher {
	return &ocrRequestPublisher{publisher: publisher}
}

func (p *ocrRequestPublisher) RequestExtraction(ctx context.Context, fileId int64) error {
	payload, err := json.Marshal(dto.PublishOcrRequestMessage{FileId: fileId})
	if err != nil {
		return err
	}
	return p.publisher.Publish(ctx, payload)
}
