package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"file-concierge-be/internal/dto"
	"file-concierge-be/internal/pkg/mailer"
	"file-concierge-be/pkg/events"
	"file-concierge-be/pkg/graph"
	pktNats "file-concierge-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the notification topic and sends file-link mails.
// Delivery goes through Graph with the user's own token; SMTP is the
// fallback when the tenant blocks delegated Mail.Send.
type consumerService struct {
	pubSub         *gochannel.GoChannel
	topicName      string
	graphClient    *graph.Client
	smtpMailer     mailer.IEmailService
	useSMTP        bool
	eventPublisher *pktNats.Publisher
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	graphClient *graph.Client,
	smtpMailer mailer.IEmailService,
	useSMTP bool,
	eventPublisher *pktNats.Publisher,
) IConsumerService {
	return &consumerService{
		pubSub:         pubSub,
		topicName:      topicName,
		graphClient:    graphClient,
		smtpMailer:     smtpMailer,
		useSMTP:        useSMTP,
		eventPublisher: eventPublisher,
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
	var payload dto.NotifyFilesMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal notify message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	if len(payload.Files) == 0 || payload.Email == "" {
		log.Printf("[WARN] Dropping empty notify message")
		msg.Ack()
		return
	}

	log.Printf("[INFO] Sending %d file link(s) to %s", len(payload.Files), payload.Email)

	var err error
	if cs.useSMTP {
		err = cs.sendViaSMTP(payload)
	} else {
		err = cs.sendViaGraph(ctx, payload)
	}
	if err != nil {
		// The token may have expired in flight; retrying won't mint a new
		// one, so log and drop rather than loop.
		log.Printf("[ERROR] Failed to deliver file links to %s: %v", payload.Email, err)
		msg.Ack()
		return
	}

	log.Printf("[SUCCESS] File links delivered to %s", payload.Email)

	if cs.eventPublisher != nil {
		fileIDs := make([]string, len(payload.Files))
		for i, f := range payload.Files {
			fileIDs[i] = f.ID
		}
		if err := cs.eventPublisher.Publish(ctx, events.NewFilesDelivered(payload.Email, fileIDs)); err != nil {
			log.Printf("[WARN] Failed to publish FILES_DELIVERED event: %v", err)
		}
	}

	msg.Ack()
}

func (cs *consumerService) sendViaGraph(ctx context.Context, payload dto.NotifyFilesMessage) error {
	subject := fmt.Sprintf("Your file: %s", payload.Files[0].Name)
	if len(payload.Files) > 1 {
		subject = fmt.Sprintf("Your files (%d)", len(payload.Files))
	}

	var items strings.Builder
	for _, f := range payload.Files {
		items.WriteString(fmt.Sprintf(`<li><a href="%s">%s</a></li>`, f.WebURL, f.Name))
	}
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Here are the files you requested</h2>
			<ul>%s</ul>
		</div>
	`, items.String())

	return cs.graphClient.SendMail(ctx, payload.AccessToken, payload.Email, subject, body)
}

func (cs *consumerService) sendViaSMTP(payload dto.NotifyFilesMessage) error {
	if len(payload.Files) == 1 {
		return cs.smtpMailer.SendFileLink(payload.Email, payload.Files[0])
	}
	return cs.smtpMailer.SendFileLinks(payload.Email, payload.Files)
}
