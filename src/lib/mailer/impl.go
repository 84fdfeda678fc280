package mailer

import (
	"dtix/src/lib"
	"encoding/json"
	"fmt"
	"log"
	"os"
)

func queueTopic() string {
	topic := os.Getenv("EMAIL_QUEUE")
	if topic == "" {
		topic = "emails-out"
	}
	return topic
}

// NewMailerMessage queues an email for asynchronous delivery.
func NewMailerMessage(input *lib.SendMailInput) error {
	if err := lib.KafkaProduceMessage("emails", queueTopic(), input); err != nil {
		return fmt.Errorf("error sending message to queue: %s", err.Error())
	}
	return nil
}

// StartConsumer drains the email queue through the SMTP client.
func StartConsumer() error {
	return lib.KafkaConsume("mailer", []string{queueTopic()}, func(value []byte) {
		var input lib.SendMailInput
		if err := json.Unmarshal(value, &input); err != nil {
			log.Printf("Error decoding queued email: %s\n", err.Error())
			return
		}
		if err := lib.SendMail(&input); err != nil {
			log.Printf("Error sending queued email: %s\n", err.Error())
		}
	})
}
