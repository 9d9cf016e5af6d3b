// Package alerts receives alert messages from the upstream monitoring
// pipeline over NATS and persists them onto patient records. This core never
// creates alerts itself; it only ingests and stores them.
package alerts

import (
	"encoding/json"
	"log"
	"strconv"
	"strings"

	"github.com/nats-io/nats.go"

	"github.com/Rakshi2609/Dr-Help-2/internal/models"
	"github.com/Rakshi2609/Dr-Help-2/internal/store"
)

// subject carries one patient's alerts: alerts.patient.<recordID>.
const subjectPrefix = "alerts.patient."

// Message is the upstream alert payload.
type Message struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Time        string `json:"time"`
}

// Consumer subscribes to alert subjects and writes alerts through the store.
type Consumer struct {
	nc    *nats.Conn
	store *store.Store
	sub   *nats.Subscription
}

// Connect dials natsURL and starts the subscription. An empty URL keeps the
// subsystem off and returns (nil, nil).
func Connect(natsURL string, s *store.Store) (*Consumer, error) {
	if natsURL == "" {
		return nil, nil
	}

	nc, err := nats.Connect(natsURL)
	if err != nil {
		return nil, err
	}

	c := &Consumer{nc: nc, store: s}
	c.sub, err = nc.Subscribe(subjectPrefix+">", c.handle)
	if err != nil {
		nc.Close()
		return nil, err
	}
	log.Printf("alert ingest subscribed to %s>", subjectPrefix)
	return c, nil
}

func (c *Consumer) handle(msg *nats.Msg) {
	rawID := strings.TrimPrefix(msg.Subject, subjectPrefix)
	recordID, err := strconv.ParseUint(rawID, 10, 32)
	if err != nil {
		log.Printf("alert ingest: bad subject %q", msg.Subject)
		return
	}

	var payload Message
	if err := json.Unmarshal(msg.Data, &payload); err != nil {
		log.Printf("alert ingest: bad payload on %q: %v", msg.Subject, err)
		return
	}

	record, err := c.store.FindPatientByID(uint(recordID))
	if err != nil {
		log.Printf("alert ingest: lookup failed for record %d: %v", recordID, err)
		return
	}
	if record == nil {
		log.Printf("alert ingest: no patient record %d, dropping alert", recordID)
		return
	}

	alert := models.Alert{
		PatientRecordID: uint(recordID),
		Title:           payload.Title,
		Description:     payload.Description,
		Time:            payload.Time,
	}
	if err := c.store.CreateAlert(&alert); err != nil {
		log.Printf("alert ingest: persist failed for record %d: %v", recordID, err)
	}
}

// Close drains the subscription and closes the connection.
func (c *Consumer) Close() {
	if c == nil {
		return
	}
	if c.sub != nil {
		_ = c.sub.Unsubscribe()
	}
	if c.nc != nil && c.nc.IsConnected() {
		c.nc.Close()
	}
}
