package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoBackend stores each record as one document whose _id is the record id.
type MongoBackend struct {
	db           *mongo.Database
	timeout      time.Duration
	transactions bool
}

// NewMongoBackend wraps db. With transactions set, multi-record batches run
// inside a session transaction, which needs a replica set or sharded cluster.
// Without them a failed batch may be partly committed and is then reported
// as ErrPartialWrite.
func NewMongoBackend(db *mongo.Database, timeout time.Duration, transactions bool) *MongoBackend {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &MongoBackend{db: db, timeout: timeout, transactions: transactions}
}

func (m *MongoBackend) Source() Source { return Remote }

func (m *MongoBackend) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	return m.db.Client().Ping(ctx, nil)
}

func (m *MongoBackend) Load(ctx context.Context, collection string, out any) error {
	return m.FindBy(ctx, collection, bson.M{}, out)
}

// FindBy decodes every document matching filter into out.
func (m *MongoBackend) FindBy(ctx context.Context, collection string, filter bson.M, out any) error {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	cursor, err := m.db.Collection(collection).Find(ctx, filter)
	if err != nil {
		return fmt.Errorf("find %s: %w", collection, err)
	}
	defer cursor.Close(ctx)

	if err := cursor.All(ctx, out); err != nil {
		return fmt.Errorf("decode %s: %w", collection, err)
	}
	return nil
}

// FindByID decodes one document into out; mongo.ErrNoDocuments when absent.
func (m *MongoBackend) FindByID(ctx context.Context, collection, id string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	return m.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(out)
}

func (m *MongoBackend) Set(ctx context.Context, collection, id string, doc any) error {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	_, err := m.db.Collection(collection).ReplaceOne(ctx, bson.M{"_id": id}, doc, options.Replace().SetUpsert(true))
	return err
}

func (m *MongoBackend) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	res, err := m.db.Collection(collection).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (m *MongoBackend) Delete(ctx context.Context, collection, id string) error {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	_, err := m.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func writeModels(batch Batch) []mongo.WriteModel {
	ops := make([]mongo.WriteModel, 0, batch.Size())
	for _, rec := range batch.Upserts {
		ops = append(ops, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": rec.RecordID()}).
			SetReplacement(rec).
			SetUpsert(true))
	}
	for _, p := range batch.Patches {
		ops = append(ops, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": p.ID}).
			SetUpdate(bson.M{"$set": p.Fields}))
	}
	for _, id := range batch.Deletes {
		ops = append(ops, mongo.NewDeleteOneModel().SetFilter(bson.M{"_id": id}))
	}
	return ops
}

// checkBulk turns a BulkWrite outcome into an error. Without a transaction an
// ordered bulk stops at its first failure with every earlier op committed,
// which is reported as ErrPartialWrite. Every patch must match a document.
func checkBulk(res *mongo.BulkWriteResult, err error, batch Batch, atomic bool) error {
	if err != nil {
		var bwe mongo.BulkWriteException
		if !atomic && errors.As(err, &bwe) && committedSome(bwe) {
			return fmt.Errorf("%w: %w", ErrPartialWrite, err)
		}
		return err
	}
	if res == nil {
		return nil
	}
	want := int64(len(batch.Upserts) + len(batch.Patches))
	if got := res.MatchedCount + res.UpsertedCount; got < want {
		missing := fmt.Errorf("%d patched records not found: %w", want-got, mongo.ErrNoDocuments)
		if atomic {
			return missing
		}
		return fmt.Errorf("%w: %w", ErrPartialWrite, missing)
	}
	return nil
}

func committedSome(bwe mongo.BulkWriteException) bool {
	if bwe.WriteConcernError != nil {
		return true
	}
	for _, we := range bwe.WriteErrors {
		if we.Index > 0 {
			return true
		}
	}
	return false
}

// Apply sends single mutations as plain calls and anything larger as one
// ordered BulkWrite, inside a transaction when enabled.
func (m *MongoBackend) Apply(ctx context.Context, collection string, batch Batch) error {
	switch {
	case batch.Empty():
		return nil
	case batch.Size() == 1 && len(batch.Upserts) == 1:
		rec := batch.Upserts[0]
		return m.Set(ctx, collection, rec.RecordID(), rec)
	case batch.Size() == 1 && len(batch.Patches) == 1:
		return m.Update(ctx, collection, batch.Patches[0].ID, batch.Patches[0].Fields)
	case batch.Size() == 1 && len(batch.Deletes) == 1:
		return m.Delete(ctx, collection, batch.Deletes[0])
	}

	ops := writeModels(batch)
	coll := m.db.Collection(collection)
	bulk := func(ctx context.Context) error {
		res, err := coll.BulkWrite(ctx, ops, options.BulkWrite().SetOrdered(true))
		return checkBulk(res, err, batch, m.transactions)
	}

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	if !m.transactions {
		return bulk(ctx)
	}
	session, err := m.db.Client().StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		return nil, bulk(sc)
	})
	return err
}
