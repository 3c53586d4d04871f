package service

import (
	"context"
	"encoding/json"
	"fmt"

	"file-concierge-be/internal/dto"
	"file-concierge-be/pkg/store"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// IPublisherService pushes mail jobs onto the in-process bus. It implements
// the dialogue engine's Notifier so turns never block on delivery.
type IPublisherService interface {
	NotifyOne(ctx context.Context, accessToken, email string, file store.FileCandidate) error
	NotifyMany(ctx context.Context, accessToken, email string, files []store.FileCandidate) error
}

type publisherService struct {
	topicName string
	pubSub    *gochannel.GoChannel
}

func NewPublisherService(topicName string, pubSub *gochannel.GoChannel) IPublisherService {
	return &publisherService{
		topicName: topicName,
		pubSub:    pubSub,
	}
}

func (ps *publisherService) NotifyOne(ctx context.Context, accessToken, email string, file store.FileCandidate) error {
	return ps.publish(dto.NotifyFilesMessage{
		AccessToken: accessToken,
		Email:       email,
		Files:       []store.FileCandidate{file},
	})
}

func (ps *publisherService) NotifyMany(ctx context.Context, accessToken, email string, files []store.FileCandidate) error {
	return ps.publish(dto.NotifyFilesMessage{
		AccessToken: accessToken,
		Email:       email,
		Files:       files,
	})
}

func (ps *publisherService) publish(payload dto.NotifyFilesMessage) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal notify message: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	return ps.pubSub.Publish(ps.topicName, msg)
}
