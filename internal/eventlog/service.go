package eventlog

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/osse101/Critterfield_Go/internal/event"
	"github.com/osse101/Critterfield_Go/internal/logger"
)

// Entry is one audit record
type Entry struct {
	Timestamp time.Time       `json:"timestamp"`
	Version   string          `json:"version"`
	EventType string          `json:"event_type"`
	OwnerID   string          `json:"owner_id,omitempty"`
	Payload   json.RawMessage `json:"payload"`
	Metadata  interface{}     `json:"metadata,omitempty"`
}

// Service writes every economy event to the compressed audit log
type Service interface {
	// Subscribe registers the audit logger for every economy event type
	Subscribe(bus event.Bus) error

	// CleanupOldEvents removes segments older than the retention period
	CleanupOldEvents(ctx context.Context, retentionDays int) (int64, error)

	Close() error
}

type service struct {
	dir    string
	writer *Writer
	now    func() time.Time
}

// NewService creates an audit log service writing segments under dir
func NewService(dir string, now func() time.Time) Service {
	if now == nil {
		now = time.Now
	}
	return &service{
		dir:    dir,
		writer: NewWriter(dir, SegmentPrefix, now),
		now:    now,
	}
}

// Subscribe registers event handlers for all event types
func (s *service) Subscribe(bus event.Bus) error {
	event.SubscribeAll(bus, event.EconomyTypes, s.handleEvent)
	return nil
}

type ownerRef struct {
	OwnerID string `json:"owner_id"`
}

func (s *service) handleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	payload, err := json.Marshal(evt.Payload)
	if err != nil {
		log.Error(LogMsgFailedToLogEvent, LogFieldError, err, LogFieldType, evt.Type)
		return err
	}

	entry := Entry{
		Timestamp: s.now().UTC(),
		Version:   evt.Version,
		EventType: string(evt.Type),
		Payload:   payload,
		Metadata:  evt.Metadata,
	}
	if ref, err := event.DecodePayload[ownerRef](evt.Payload); err == nil {
		entry.OwnerID = ref.OwnerID
	}

	if err := s.writer.Write(entry); err != nil {
		log.Error(LogMsgFailedToLogEvent, LogFieldError, err, LogFieldType, evt.Type)
		return err
	}

	log.Debug(LogMsgEventLogged, LogFieldType, evt.Type, LogFieldOwnerID, entry.OwnerID)
	return nil
}

// CleanupOldEvents deletes whole segments whose hour ended before the cutoff
func (s *service) CleanupOldEvents(ctx context.Context, retentionDays int) (int64, error) {
	cutoff := s.now().UTC().Add(-time.Duration(retentionDays) * 24 * time.Hour)

	segments, err := Segments(s.dir, SegmentPrefix)
	if err != nil {
		return 0, err
	}

	var deleted int64
	for _, path := range segments {
		if ctx.Err() != nil {
			return deleted, ctx.Err()
		}
		hour, err := segmentHour(path, SegmentPrefix)
		if err != nil || !hour.Add(time.Hour).Before(cutoff) {
			continue
		}
		if err := os.Remove(path); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}

func (s *service) Close() error {
	return s.writer.Close()
}
