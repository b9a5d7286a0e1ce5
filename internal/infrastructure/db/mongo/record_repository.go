package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/authgate/resource-api/internal/core/domain"
)

const collectionRecords = "records"

type RecordRepository struct {
	col *mongo.Collection
}

func NewRecordRepository(db *mongo.Database) *RecordRepository {
	return &RecordRepository{col: db.Collection(collectionRecords)}
}

type mongoRecord struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Model     string             `bson:"model"`
	Data      bson.M             `bson:"data"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (m *mongoRecord) toDomain() *domain.Record {
	data := make(map[string]any, len(m.Data))
	for k, v := range m.Data {
		data[k] = v
	}
	return &domain.Record{
		ID:        m.ID.Hex(),
		Model:     m.Model,
		Data:      data,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// Create inserts a new record document.
func (r *RecordRepository) Create(ctx context.Context, rec *domain.Record) (*domain.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoRecord{
		Model:     rec.Model,
		Data:      bson.M(rec.Data),
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, unavailable("insert record", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		doc.ID = oid
	}
	return doc.toDomain(), nil
}

// List returns every record of model in insertion order.
func (r *RecordRepository) List(ctx context.Context, model string) ([]*domain.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"model": model}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, unavailable("list records", err)
	}
	defer cur.Close(ctx)

	out := make([]*domain.Record, 0)
	for cur.Next(ctx) {
		var doc mongoRecord
		if err := cur.Decode(&doc); err != nil {
			return nil, unavailable("decode record", err)
		}
		out = append(out, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, unavailable("iterate records", err)
	}
	return out, nil
}

// FindByID retrieves a record. Ids that are not valid ObjectIDs simply do not match.
func (r *RecordRepository) FindByID(ctx context.Context, model, id string) (*domain.Record, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrRecordNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoRecord
	if err := r.col.FindOne(ctx, bson.M{"_id": oid, "model": model}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, unavailable("find record", err)
	}
	return doc.toDomain(), nil
}

// Update replaces the data of a record and returns the updated document.
func (r *RecordRepository) Update(ctx context.Context, model, id string, data map[string]any) (*domain.Record, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrRecordNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{"data": bson.M(data), "updated_at": time.Now().UTC()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc mongoRecord
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid, "model": model}, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, unavailable("update record", err)
	}
	return doc.toDomain(), nil
}

// Delete removes a record and reports how many documents were deleted.
func (r *RecordRepository) Delete(ctx context.Context, model, id string) (int64, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return 0, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid, "model": model})
	if err != nil {
		return 0, unavailable("delete record", err)
	}
	return res.DeletedCount, nil
}

// EnsureIndexes creates necessary indexes on the records collection.
func (r *RecordRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: bson.D{{Key: "model", Value: 1}, {Key: "_id", Value: 1}}})
	return err
}
