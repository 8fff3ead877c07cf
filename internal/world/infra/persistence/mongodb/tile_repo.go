package mongodb

import (
	"context"
	"errors"

	"Aethelgard/internal/world/domain"
	"Aethelgard/internal/world/infra/persistence/model"
	"Aethelgard/modules/kit/errx"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const tileCollectionName = "tiles"

type TileRepository struct {
	coll *mongo.Collection
}

func NewTileRepository(db *mongo.Database) *TileRepository {
	return &TileRepository{coll: db.Collection(tileCollectionName)}
}

func (r *TileRepository) LoadTile(ctx context.Context, id string) (*domain.Tile, error) {
	if r == nil || r.coll == nil {
		return nil, errors.New("mongodb tile collection is nil")
	}

	var doc model.TileDoc
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTileNotFound.WithData("tile_id", id)
		}
		return nil, errx.ErrUnavailable.WithCause(err)
	}
	return doc.ToTile(), nil
}

func (r *TileRepository) LoadChunk(ctx context.Context, chunkX, chunkY, chunkSize int) ([]*domain.Tile, error) {
	if r == nil || r.coll == nil {
		return nil, errors.New("mongodb tile collection is nil")
	}

	x0, y0 := chunkX*chunkSize, chunkY*chunkSize
	filter := bson.M{
		"x": bson.M{"$gte": x0, "$lt": x0 + chunkSize},
		"y": bson.M{"$gte": y0, "$lt": y0 + chunkSize},
	}
	cur, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, errx.ErrUnavailable.WithCause(err)
	}
	defer cur.Close(ctx)

	var out []*domain.Tile
	for cur.Next(ctx) {
		var doc model.TileDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, errx.ErrUnavailable.WithCause(err)
		}
		out = append(out, doc.ToTile())
	}
	if err := cur.Err(); err != nil {
		return nil, errx.ErrUnavailable.WithCause(err)
	}
	return out, nil
}

func (r *TileRepository) Save(ctx context.Context, t *domain.Tile) error {
	if r == nil || r.coll == nil {
		return errors.New("mongodb tile collection is nil")
	}

	doc := model.FromTile(t)
	_, err := r.coll.ReplaceOne(
		ctx,
		bson.M{"_id": doc.ID},
		doc,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return errx.ErrUnavailable.WithCause(err)
	}
	return nil
}
