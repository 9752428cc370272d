// Package remote mirrors catalog state to the document store used for
// cross-device persistence. Every call is best-effort from the caller's
// point of view: failures are logged and downgraded to local-only
// persistence, never surfaced to the admin.
package remote

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Mohamedtamer-1/Icaro/internal/domain"
)

const (
	collProducts   = "products"
	collOutOfStock = "outOfStock"
	collDeleted    = "deletedProducts"
)

type Store struct {
	db *mongo.Database
}

// Dial connects and pings. A nil *Store means the remote is disabled;
// callers hold it as an optional capability, not a probed global.
func Dial(ctx context.Context, uri, dbName string) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return &Store{db: client.Database(dbName)}, nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.db.Client().Disconnect(ctx)
}

type stockDoc struct {
	ItemID    string `bson:"itemId"`
	Timestamp string `bson:"timestamp"`
}

type deletedDoc struct {
	ProductID string `bson:"productId"`
	Timestamp string `bson:"timestamp"`
}

// FetchSnapshot reads all three collections in full.
func (s *Store) FetchSnapshot(ctx context.Context) (domain.Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var snap domain.Snapshot

	cur, err := s.db.Collection(collProducts).Find(ctx, bson.M{})
	if err != nil {
		return domain.Snapshot{}, err
	}
	if err := cur.All(ctx, &snap.Products); err != nil {
		return domain.Snapshot{}, err
	}

	cur, err = s.db.Collection(collOutOfStock).Find(ctx, bson.M{})
	if err != nil {
		return domain.Snapshot{}, err
	}
	var stock []stockDoc
	if err := cur.All(ctx, &stock); err != nil {
		return domain.Snapshot{}, err
	}
	for _, d := range stock {
		snap.OutOfStock = append(snap.OutOfStock, d.ItemID)
	}

	cur, err = s.db.Collection(collDeleted).Find(ctx, bson.M{})
	if err != nil {
		return domain.Snapshot{}, err
	}
	var deleted []deletedDoc
	if err := cur.All(ctx, &deleted); err != nil {
		return domain.Snapshot{}, err
	}
	for _, d := range deleted {
		snap.DeletedProducts = append(snap.DeletedProducts, d.ProductID)
	}

	snap.LastUpdated = time.Now().UTC().Format(time.RFC3339)
	return snap, nil
}

// MirrorSnapshot upserts every document keyed by its id. Deleted
// products keep their underlying product document; membership in
// deletedProducts is the delete (soft delete).
func (s *Store) MirrorSnapshot(ctx context.Context, snap domain.Snapshot) error {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	ts := time.Now().UTC().Format(time.RFC3339)
	upsert := options.Replace().SetUpsert(true)

	for _, p := range snap.Products {
		if _, err := s.db.Collection(collProducts).
			ReplaceOne(ctx, bson.M{"_id": p.ID}, p, upsert); err != nil {
			return err
		}
	}
	for _, key := range snap.OutOfStock {
		if _, err := s.db.Collection(collOutOfStock).
			ReplaceOne(ctx, bson.M{"_id": key}, stockDoc{ItemID: key, Timestamp: ts}, upsert); err != nil {
			return err
		}
	}
	for _, id := range snap.DeletedProducts {
		if _, err := s.db.Collection(collDeleted).
			ReplaceOne(ctx, bson.M{"_id": id}, deletedDoc{ProductID: id, Timestamp: ts}, upsert); err != nil {
			return err
		}
	}

	// Stock keys and deleted ids removed by this commit must also leave
	// the remote sets, or every other device resurrects them. $nin needs
	// a real array even when the set is empty.
	keepStock := snap.OutOfStock
	if keepStock == nil {
		keepStock = []string{}
	}
	keepDeleted := snap.DeletedProducts
	if keepDeleted == nil {
		keepDeleted = []string{}
	}
	if _, err := s.db.Collection(collOutOfStock).
		DeleteMany(ctx, bson.M{"_id": bson.M{"$nin": keepStock}}); err != nil {
		return err
	}
	if _, err := s.db.Collection(collDeleted).
		DeleteMany(ctx, bson.M{"_id": bson.M{"$nin": keepDeleted}}); err != nil {
		return err
	}
	return nil
}

// Watch follows change streams on all three collections and invokes
// onChange after each event. It blocks until ctx is done or the stream
// fails; the caller decides whether to reconnect.
func (s *Store) Watch(ctx context.Context, onChange func()) error {
	cs, err := s.db.Watch(ctx, mongo.Pipeline{})
	if err != nil {
		return err
	}
	defer cs.Close(context.Background())
	for cs.Next(ctx) {
		onChange()
	}
	return cs.Err()
}
