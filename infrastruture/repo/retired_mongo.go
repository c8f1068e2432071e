package repo

import (
	"context"
	"errors"
	"time"

	"github.com/beka-birhanu/vinom-roads/domain"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// retiredDocument is the stored shape of a retired player.
type retiredDocument struct {
	ID        string    `bson:"_id"`
	PlayerID  uint64    `bson:"playerId"`
	Name      string    `bson:"name"`
	Score     uint64    `bson:"score"`
	PlayTime  float64   `bson:"playTime"`
	RetiredAt time.Time `bson:"retiredAt"`
}

// MongoRetiredRepo stores retired players in a MongoDB collection.
type MongoRetiredRepo struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// DialMongo connects to uri and verifies the connection with a ping.
func DialMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetMaxPoolSize(1))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return client, nil
}

// NewMongoRetiredRepo creates a MongoRetiredRepo on the given collection and ensures its ranking index.
func NewMongoRetiredRepo(ctx context.Context, client *mongo.Client, dbName, collectionName string) (*MongoRetiredRepo, error) {
	collection := client.Database(dbName).Collection(collectionName)

	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "score", Value: -1}, {Key: "playTime", Value: 1}, {Key: "name", Value: 1}},
	})
	if err != nil {
		return nil, errors.New("creating ranking index: " + err.Error())
	}

	return &MongoRetiredRepo{client: client, collection: collection}, nil
}

// SaveRetired inserts one document per record.
func (r *MongoRetiredRepo) SaveRetired(ctx context.Context, records []domain.RetiredPlayer) error {
	if len(records) == 0 {
		return nil
	}

	now := time.Now()
	docs := make([]interface{}, 0, len(records))
	for _, rec := range records {
		docs = append(docs, retiredDocument{
			ID:        uuid.NewString(),
			PlayerID:  rec.ID,
			Name:      rec.Name,
			Score:     rec.Score,
			PlayTime:  rec.PlaySeconds,
			RetiredAt: now,
		})
	}

	if _, err := r.collection.InsertMany(ctx, docs); err != nil {
		return errors.New("unexpected error: " + err.Error())
	}
	return nil
}

// Retired returns a page of retired players in ranking order.
func (r *MongoRetiredRepo) Retired(ctx context.Context, start, maxItems int) ([]domain.RetiredPlayer, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "score", Value: -1}, {Key: "playTime", Value: 1}, {Key: "name", Value: 1}}).
		SetSkip(int64(start)).
		SetLimit(int64(maxItems))

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errors.New("unexpected error: " + err.Error())
	}
	defer cursor.Close(ctx)

	var docs []retiredDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, errors.New("unexpected error: " + err.Error())
	}

	out := make([]domain.RetiredPlayer, 0, len(docs))
	for _, d := range docs {
		out = append(out, domain.RetiredPlayer{ID: d.PlayerID, Name: d.Name, Score: d.Score, PlaySeconds: d.PlayTime})
	}
	return out, nil
}

// Close disconnects the underlying client.
func (r *MongoRetiredRepo) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
