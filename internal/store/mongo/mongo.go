package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/phen19/projeto12-batepapo-uol-api/internal/store"
)

const (
	participantsCollection = "participants"
	messagesCollection     = "messages"

	disconnectTimeout = 5 * time.Second
)

type participantDoc struct {
	Name       string `bson:"name"`
	LastStatus int64  `bson:"lastStatus"`
}

// messageDoc keeps the driver-generated ObjectID as _id; it sorts in insertion order.
type messageDoc struct {
	OID  primitive.ObjectID `bson:"_id,omitempty"`
	ID   string             `bson:"id"`
	From string             `bson:"from"`
	To   string             `bson:"to"`
	Text string             `bson:"text"`
	Type string             `bson:"type"`
	Time string             `bson:"time"`
}

func (d messageDoc) toMessage() *store.Message {
	return &store.Message{
		ID:   d.ID,
		From: d.From,
		To:   d.To,
		Text: d.Text,
		Kind: store.Kind(d.Type),
		Time: d.Time,
	}
}

// MongoStore implements store.Store on top of two MongoDB collections.
type MongoStore struct {
	client       *mongo.Client
	participants *mongo.Collection
	messages     *mongo.Collection
}

// New connects to uri, pings the server and ensures the unique indexes exist.
func New(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	db := client.Database(database)
	s := &MongoStore{
		client:       client,
		participants: db.Collection(participantsCollection),
		messages:     db.Collection(messagesCollection),
	}

	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return s, nil
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)

	if _, err := s.participants.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: unique,
	}); err != nil {
		return fmt.Errorf("create participants index: %w", err)
	}

	if _, err := s.messages.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: unique,
	}); err != nil {
		return fmt.Errorf("create messages index: %w", err)
	}

	return nil
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), disconnectTimeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// ==== ParticipantStore implementation ====

// GetParticipant retrieves a participant by name.
func (s *MongoStore) GetParticipant(ctx context.Context, name string) (*store.Participant, error) {
	var doc participantDoc
	err := s.participants.FindOne(ctx, bson.M{"name": name}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("participant %q: %w", name, store.ErrNotFound)
		}
		return nil, fmt.Errorf("find participant: %w", err)
	}

	return &store.Participant{Name: doc.Name, LastSeen: time.UnixMilli(doc.LastStatus)}, nil
}

// CreateParticipant inserts a participant; the unique index on name rejects duplicates.
func (s *MongoStore) CreateParticipant(ctx context.Context, p *store.Participant) error {
	_, err := s.participants.InsertOne(ctx, participantDoc{Name: p.Name, LastStatus: p.LastSeen.UnixMilli()})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("participant %q: %w", p.Name, store.ErrDuplicate)
		}
		return fmt.Errorf("insert participant: %w", err)
	}

	return nil
}

// TouchParticipant updates lastStatus of an existing participant.
func (s *MongoStore) TouchParticipant(ctx context.Context, name string, lastSeen time.Time) error {
	res, err := s.participants.UpdateOne(ctx,
		bson.M{"name": name},
		bson.M{"$set": bson.M{"lastStatus": lastSeen.UnixMilli()}},
	)
	if err != nil {
		return fmt.Errorf("update participant: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("participant %q: %w", name, store.ErrNotFound)
	}

	return nil
}

// DeleteParticipant removes a participant unconditionally.
func (s *MongoStore) DeleteParticipant(ctx context.Context, name string) error {
	res, err := s.participants.DeleteOne(ctx, bson.M{"name": name})
	if err != nil {
		return fmt.Errorf("delete participant: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("participant %q: %w", name, store.ErrNotFound)
	}

	return nil
}

// DeleteStaleParticipant removes a participant only if lastStatus <= cutoff.
func (s *MongoStore) DeleteStaleParticipant(ctx context.Context, name string, cutoff time.Time) (bool, error) {
	res, err := s.participants.DeleteOne(ctx, bson.M{
		"name":       name,
		"lastStatus": bson.M{"$lte": cutoff.UnixMilli()},
	})
	if err != nil {
		return false, fmt.Errorf("delete stale participant: %w", err)
	}

	return res.DeletedCount > 0, nil
}

// ListParticipants returns all participants in natural order.
func (s *MongoStore) ListParticipants(ctx context.Context) ([]*store.Participant, error) {
	cur, err := s.participants.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find participants: %w", err)
	}

	var docs []participantDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode participants: %w", err)
	}

	participants := make([]*store.Participant, 0, len(docs))
	for _, d := range docs {
		participants = append(participants, &store.Participant{Name: d.Name, LastSeen: time.UnixMilli(d.LastStatus)})
	}

	return participants, nil
}

// ==== MessageStore implementation ====

// SaveMessage appends a message to the log.
func (s *MongoStore) SaveMessage(ctx context.Context, msg *store.Message) error {
	_, err := s.messages.InsertOne(ctx, messageDoc{
		ID:   msg.ID,
		From: msg.From,
		To:   msg.To,
		Text: msg.Text,
		Type: string(msg.Kind),
		Time: msg.Time,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("message %q: %w", msg.ID, store.ErrDuplicate)
		}
		return fmt.Errorf("insert message: %w", err)
	}

	return nil
}

// GetMessage retrieves a message by id.
func (s *MongoStore) GetMessage(ctx context.Context, id string) (*store.Message, error) {
	var doc messageDoc
	err := s.messages.FindOne(ctx, bson.M{"id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("message %q: %w", id, store.ErrNotFound)
		}
		return nil, fmt.Errorf("find message: %w", err)
	}

	return doc.toMessage(), nil
}

// UpdateMessage overwrites the mutable fields of an existing message.
func (s *MongoStore) UpdateMessage(ctx context.Context, msg *store.Message) error {
	res, err := s.messages.UpdateOne(ctx,
		bson.M{"id": msg.ID},
		bson.M{"$set": bson.M{
			"from": msg.From,
			"to":   msg.To,
			"text": msg.Text,
			"type": string(msg.Kind),
			"time": msg.Time,
		}},
	)
	if err != nil {
		return fmt.Errorf("update message: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("message %q: %w", msg.ID, store.ErrNotFound)
	}

	return nil
}

// DeleteMessage removes a message by id.
func (s *MongoStore) DeleteMessage(ctx context.Context, id string) error {
	res, err := s.messages.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("message %q: %w", id, store.ErrNotFound)
	}

	return nil
}

// ListMessages returns every message sorted by _id.
func (s *MongoStore) ListMessages(ctx context.Context) ([]*store.Message, error) {
	cur, err := s.messages.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find messages: %w", err)
	}

	var docs []messageDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode messages: %w", err)
	}

	messages := make([]*store.Message, 0, len(docs))
	for _, d := range docs {
		messages = append(messages, d.toMessage())
	}

	return messages, nil
}
